/*
 * features.go, part of goglass.
 *
 *
 * Copyright 2025 Raul Mera rauldotmeraatusachdotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package glass

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Missing is the sentinel for a descriptor component with no defined
//value for an atom. It propagates through the pipeline instead of an
//error: aggregates leave it out, the output keeps the column.
var Missing = math.NaN()

//IsMissing reports whether x is the missing sentinel.
func IsMissing(x float64) bool {
	return math.IsNaN(x)
}

//Featurizer computes structural feature vectors under one fixed set of
//options. The column schema is decided at construction and never
//changes, so matrices from different structures featurized by the same
//Featurizer (or by Featurizers built from equal options) line up
//column by column.
type Featurizer struct {
	o      *Options
	tables []*boopTable
	sroN   []string
	mroN   []string
	names  []string
}

//NewFeaturizer validates the options and builds a Featurizer for them.
//A nil o means DefaultOptions. The options are kept by reference and
//must not be changed afterwards.
func NewFeaturizer(o *Options) (*Featurizer, error) {
	if o == nil {
		o = DefaultOptions()
	}
	err := o.Check()
	if err != nil {
		return nil, errDecorate(err, "NewFeaturizer")
	}
	F := &Featurizer{o: o}
	for _, l := range o.AngularOrders {
		F.tables = append(F.tables, newBoopTable(l))
	}
	F.sroN = sroNames(o)
	F.mroN = mroNames(o, F.sroN)
	F.names = make([]string, 0, len(F.sroN)+len(F.mroN))
	F.names = append(F.names, F.sroN...)
	F.names = append(F.names, F.mroN...)
	return F, nil
}

//Names returns the full ordered column schema, SRO section then MRO
//section.
func (F *Featurizer) Names() []string {
	r := make([]string, len(F.names))
	copy(r, F.names)
	return r
}

//SRONames returns the SRO section of the schema.
func (F *Featurizer) SRONames() []string {
	r := make([]string, len(F.sroN))
	copy(r, F.sroN)
	return r
}

//MRONames returns the MRO section of the schema.
func (F *Featurizer) MRONames() []string {
	r := make([]string, len(F.mroN))
	copy(r, F.mroN)
	return r
}

//FeatureMatrix is the output of featurizing one structure: one row per
//atom, in structure order, one column per schema component, plus the
//atom identity (index and species) carried alongside the numbers.
type FeatureMatrix struct {
	names   []string
	ids     []int
	species []string
	data    *mat.Dense
}

func newFeatureMatrix(st *Structure, names []string) *FeatureMatrix {
	n := st.Len()
	M := &FeatureMatrix{
		names:   names,
		ids:     make([]int, n),
		species: make([]string, n),
		data:    mat.NewDense(n, len(names), nil),
	}
	for i := 0; i < n; i++ {
		at := st.Atom(i)
		M.ids[i] = at.Index
		M.species[i] = at.Symbol
	}
	return M
}

//NRows returns the number of atoms (rows).
func (M *FeatureMatrix) NRows() int {
	r, _ := M.data.Dims()
	return r
}

//NCols returns the number of feature columns.
func (M *FeatureMatrix) NCols() int {
	_, c := M.data.Dims()
	return c
}

//Names returns a copy of the column names, in order.
func (M *FeatureMatrix) Names() []string {
	r := make([]string, len(M.names))
	copy(r, M.names)
	return r
}

//IDs returns a copy of the per-row atom indexes.
func (M *FeatureMatrix) IDs() []int {
	r := make([]int, len(M.ids))
	copy(r, M.ids)
	return r
}

//Species returns a copy of the per-row atom species symbols.
func (M *FeatureMatrix) Species() []string {
	r := make([]string, len(M.species))
	copy(r, M.species)
	return r
}

//At returns the value at row i, column j.
func (M *FeatureMatrix) At(i, j int) float64 {
	return M.data.At(i, j)
}

//Row puts the ith row in dst, which is allocated (or reallocated) if
//it doesn't have the right length, and returned.
func (M *FeatureMatrix) Row(dst []float64, i int) []float64 {
	return mat.Row(dst, i, M.data)
}

//ColIndex returns the position of the named column, or -1 if there is
//no such column.
func (M *FeatureMatrix) ColIndex(name string) int {
	for j, n := range M.names {
		if n == name {
			return j
		}
	}
	return -1
}

//Col returns a new slice with the named column.
func (M *FeatureMatrix) Col(name string) ([]float64, error) {
	j := M.ColIndex(name)
	if j < 0 {
		return nil, &CError{fmt.Sprintf("goglass: no column named %q", name), []string{"Col"}}
	}
	return mat.Col(nil, j, M.data), nil
}

//setRow stacks one atom's SRO and MRO vectors as row i, after checking
//both against the schema arity. A mismatch means a calculator broke its
//contract and is always fatal.
func (M *FeatureMatrix) setRow(i int, sro *SRO, mro []float64, F *Featurizer) error {
	if sro.Len() != len(F.sroN) {
		return &SchemaMismatchError{Stage: "sro assembly", AtomIndex: i, Want: len(F.sroN), Got: sro.Len()}
	}
	if len(mro) != len(F.mroN) {
		return &SchemaMismatchError{Stage: "mro assembly", AtomIndex: i, Want: len(F.mroN), Got: len(mro)}
	}
	row := M.data.RawRowView(i)
	copy(row, sro.vec)
	copy(row[len(sro.vec):], mro)
	return nil
}
