/*
 * pipeline_test.go, part of goglass.
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
	"math"
	"math/rand"
	"testing"

	v3 "github.com/rmera/goglass/v3"
)

func randomStructure(Te *testing.T, n int, side float64, seed int64) *Structure {
	r := rand.New(rand.NewSource(seed))
	coords := v3.Zeros(n)
	symbols := make([]string, n)
	for i := 0; i < n; i++ {
		for c := 0; c < 3; c++ {
			coords.Set(i, c, r.Float64()*side)
		}
		symbols[i] = "Zr"
		if i%3 == 0 {
			symbols[i] = "Cu"
		}
	}
	box, err := NewCubicBox(side)
	if err != nil {
		Te.Fatal(err)
	}
	st, err := NewStructure(coords, symbols, box)
	if err != nil {
		Te.Fatal(err)
	}
	return st
}

func colOf(Te *testing.T, M *FeatureMatrix, name string) []float64 {
	c, err := M.Col(name)
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

func TestFeaturizeShape(Te *testing.T) {
	st := latticeStructure(Te, fccBasis, 2, 4.0)
	M, err := Featurize(st, cutoffOpts(3.0))
	if err != nil {
		Te.Fatal(err)
	}
	if M.NRows() != st.Len() {
		Te.Errorf("rows: got %d, want %d", M.NRows(), st.Len())
	}
	F, err := NewFeaturizer(cutoffOpts(3.0))
	if err != nil {
		Te.Fatal(err)
	}
	if M.NCols() != len(F.Names()) {
		Te.Errorf("columns: got %d, schema says %d", M.NCols(), len(F.Names()))
	}
	names := M.Names()
	for i, n := range F.Names() {
		if names[i] != n {
			Te.Fatalf("column %d is %q, schema says %q", i, names[i], n)
		}
	}
	ids := M.IDs()
	for i := range ids {
		if ids[i] != i {
			Te.Fatalf("row %d carries id %d", i, ids[i])
		}
	}
}

//On a perfect crystal every atom has the same SRO, so the weighted MRO
//mean of any component must reproduce it, with zero spread.
func TestMROAggregationIdentity(Te *testing.T) {
	st := latticeStructure(Te, fccBasis, 2, 4.0)
	M, err := Featurize(st, cutoffOpts(3.0))
	if err != nil {
		Te.Fatal(err)
	}
	cn := colOf(Te, M, "CN cutoff")
	for i, v := range cn {
		if v != 12 {
			Te.Fatalf("atom %d: CN %v on a close-packed crystal", i, v)
		}
	}
	for i, v := range colOf(Te, M, "MRO mean CN cutoff") {
		if !near(v, 12, 1e-10) {
			Te.Errorf("atom %d: MRO mean of a constant CN is %v", i, v)
		}
	}
	for i, v := range colOf(Te, M, "MRO std CN cutoff") {
		if !near(v, 0, 1e-8) {
			Te.Errorf("atom %d: MRO std of a constant CN is %v", i, v)
		}
	}
	for i, v := range colOf(Te, M, "MRO min CN cutoff") {
		if v != 12 {
			Te.Errorf("atom %d: MRO min %v", i, v)
		}
	}
	for i, v := range colOf(Te, M, "MRO max CN cutoff") {
		if v != 12 {
			Te.Errorf("atom %d: MRO max %v", i, v)
		}
	}
}

//On a crystal all q_lm vectors coincide, so averaging them over the
//shell changes nothing.
func TestCoarseGrainedIdentity(Te *testing.T) {
	o := cutoffOpts(3.0)
	o.CoarseGrained = true
	o.AngularOrders = []int{6}
	st := latticeStructure(Te, fccBasis, 2, 4.0)
	M, err := Featurize(st, o)
	if err != nil {
		Te.Fatal(err)
	}
	q := colOf(Te, M, "q_6 cutoff")
	cg := colOf(Te, M, "Coarse-grained q_6 cutoff")
	for i := range q {
		if !near(q[i], 0.574524, 1e-4) {
			Te.Errorf("atom %d: fcc Q6 %v", i, q[i])
		}
		if !near(cg[i], q[i], 1e-9) {
			Te.Errorf("atom %d: coarse-grained q6 %v differs from q6 %v", i, cg[i], q[i])
		}
	}
}

//A disordered periodic structure through the default, polyhedral
//pipeline: every cell must close, and a full tessellation partitions
//the box, so the cell volumes add up to the box volume.
func TestFeaturizeDisorderedPolyhedral(Te *testing.T) {
	const side = 10.0
	st := randomStructure(Te, 120, side, 7)
	M, err := Featurize(st, DefaultOptions())
	if err != nil {
		Te.Fatal(err)
	}
	vols := colOf(Te, M, "Voronoi vol voro")
	total := 0.0
	for i, v := range vols {
		if IsMissing(v) || v <= 0 {
			Te.Fatalf("atom %d: Voronoi cell volume %v", i, v)
		}
		total += v
	}
	boxvol := side * side * side
	if !near(total, boxvol, 1e-6*boxvol) {
		Te.Errorf("cell volumes sum to %v, box volume is %v", total, boxvol)
	}
	for i, v := range colOf(Te, M, "CN voro") {
		if IsMissing(v) || v < 4 {
			Te.Fatalf("atom %d: %v Voronoi faces", i, v)
		}
	}
}

//Two runs on unchanged inputs give bit-identical matrices.
func TestFeaturizeIdempotence(Te *testing.T) {
	st := randomStructure(Te, 40, 10, 3)
	for _, o := range []*Options{DefaultOptions(), cutoffOpts(3.5)} {
		F, err := NewFeaturizer(o)
		if err != nil {
			Te.Fatal(err)
		}
		M1, err := F.Featurize(st)
		if err != nil {
			Te.Fatal(err)
		}
		M2, err := F.Featurize(st)
		if err != nil {
			Te.Fatal(err)
		}
		for i := 0; i < M1.NRows(); i++ {
			for j := 0; j < M1.NCols(); j++ {
				if math.Float64bits(M1.At(i, j)) != math.Float64bits(M2.At(i, j)) {
					Te.Fatalf("%s: value (%d,%d) changed between runs: %v vs %v", o.Strategy, i, j, M1.At(i, j), M2.At(i, j))
				}
			}
		}
	}
}

//Shifting every atom by a whole-lattice translation leaves the features
//unchanged: periodicity is handled by the minimum-image kernel, not by
//where the coordinates happen to sit.
func TestFeaturizeTranslationInvariance(Te *testing.T) {
	st := randomStructure(Te, 40, 10, 11)
	shifted := st.Coords()
	sh := vec(2*10, -10, 3*10)
	shifted.AddVec(shifted, sh)
	st2, err := NewStructure(shifted, st.Species(), st.Box())
	if err != nil {
		Te.Fatal(err)
	}
	F, err := NewFeaturizer(cutoffOpts(3.5))
	if err != nil {
		Te.Fatal(err)
	}
	M1, err := F.Featurize(st)
	if err != nil {
		Te.Fatal(err)
	}
	M2, err := F.Featurize(st2)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < M1.NRows(); i++ {
		for j := 0; j < M1.NCols(); j++ {
			a, b := M1.At(i, j), M2.At(i, j)
			if IsMissing(a) && IsMissing(b) {
				continue
			}
			if !near(a, b, 1e-9*(1+math.Abs(a))) {
				Te.Fatalf("value (%d,%d) moved from %v to %v under a lattice translation", i, j, a, b)
			}
		}
	}
}

func TestFeaturizeIsolatedAtom(Te *testing.T) {
	//two atoms far beyond the cutoff, open box
	st := pairStructure(Te, 50, 200, false)
	o := cutoffOpts(1.0)
	_, err := Featurize(st, o)
	ins, ok := err.(*InsufficientNeighborsError)
	if !ok {
		Te.Fatalf("strict mode: expected an InsufficientNeighborsError, got %T: %v", err, err)
	}
	if ins.AtomIndex != 0 {
		Te.Errorf("the error should carry the first failing atom, got %d", ins.AtomIndex)
	}
	deco := ins.Decorate("")
	found := false
	for _, d := range deco {
		if d == "sro phase" {
			found = true
		}
	}
	if !found {
		Te.Errorf("the error should be decorated with the failing stage, got %v", deco)
	}
	//skip mode: all-sentinel rows instead
	o.SkipIsolated = true
	M, err := Featurize(st, o)
	if err != nil {
		Te.Fatal(err)
	}
	if M.NRows() != 2 {
		Te.Fatalf("rows: got %d", M.NRows())
	}
	for i := 0; i < M.NRows(); i++ {
		for j := 0; j < M.NCols(); j++ {
			if !IsMissing(M.At(i, j)) {
				Te.Errorf("value (%d,%d) of a skipped atom should be missing, got %v", i, j, M.At(i, j))
			}
		}
	}
}

//The polyhedral and cutoff pipelines produce matching schemas across
//Featurizers built from equal options, so models survive re-runs.
func TestSchemaStability(Te *testing.T) {
	for _, mk := range []func() *Options{DefaultOptions, func() *Options { return cutoffOpts(3.0) }} {
		F1, err := NewFeaturizer(mk())
		if err != nil {
			Te.Fatal(err)
		}
		F2, err := NewFeaturizer(mk())
		if err != nil {
			Te.Fatal(err)
		}
		n1, n2 := F1.Names(), F2.Names()
		if len(n1) != len(n2) {
			Te.Fatalf("schema arity changed between equal Featurizers: %d vs %d", len(n1), len(n2))
		}
		for i := range n1 {
			if n1[i] != n2[i] {
				Te.Fatalf("column %d changed between equal Featurizers: %q vs %q", i, n1[i], n2[i])
			}
		}
	}
}

//The single-worker and many-worker pipelines must agree bit by bit.
func TestFeaturizeWorkerCountIndependence(Te *testing.T) {
	st := randomStructure(Te, 50, 10, 23)
	o1 := cutoffOpts(3.5)
	o1.Cpus = 1
	oN := cutoffOpts(3.5)
	oN.Cpus = 7
	M1, err := Featurize(st, o1)
	if err != nil {
		Te.Fatal(err)
	}
	MN, err := Featurize(st, oN)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < M1.NRows(); i++ {
		for j := 0; j < M1.NCols(); j++ {
			if math.Float64bits(M1.At(i, j)) != math.Float64bits(MN.At(i, j)) {
				Te.Fatalf("value (%d,%d) depends on the worker count: %v vs %v", i, j, M1.At(i, j), MN.At(i, j))
			}
		}
	}
}

func TestPeriodicAxesOverride(Te *testing.T) {
	//a pair wrapped across the x face of the box: neighbors under full
	//periodicity, strangers when x is opted out
	coords := v3.Zeros(2)
	coords.Set(0, 0, 0.5)
	coords.Set(1, 0, 9.5)
	box, err := NewCubicBox(10)
	if err != nil {
		Te.Fatal(err)
	}
	st, err := NewStructure(coords, []string{"Cu", "Cu"}, box)
	if err != nil {
		Te.Fatal(err)
	}
	o := cutoffOpts(2.0)
	M, err := Featurize(st, o)
	if err != nil {
		Te.Fatal(err)
	}
	if got := M.At(0, 0); got != 1 {
		Te.Errorf("periodic pair CN: got %v, want 1", got)
	}
	o = cutoffOpts(2.0)
	o.PeriodicAxes = "yz"
	o.SkipIsolated = true
	M, err = Featurize(st, o)
	if err != nil {
		Te.Fatal(err)
	}
	if !IsMissing(M.At(0, 0)) {
		Te.Errorf("with x aperiodic the pair should be isolated, got CN %v", M.At(0, 0))
	}
}
