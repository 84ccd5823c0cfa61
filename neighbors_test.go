/*
 * neighbors_test.go, part of goglass.
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
	"sort"
	"testing"

	v3 "github.com/rmera/goglass/v3"
)

//lattice builders for the tests. All produce cubic boxes of ncells
//cells of parameter a per side, fully periodic, with every atom "Cu".
func latticeStructure(Te *testing.T, basis [][3]float64, ncells int, a float64) *Structure {
	n := ncells * ncells * ncells * len(basis)
	coords := v3.Zeros(n)
	symbols := make([]string, n)
	i := 0
	for cx := 0; cx < ncells; cx++ {
		for cy := 0; cy < ncells; cy++ {
			for cz := 0; cz < ncells; cz++ {
				for _, b := range basis {
					coords.Set(i, 0, (float64(cx)+b[0])*a)
					coords.Set(i, 1, (float64(cy)+b[1])*a)
					coords.Set(i, 2, (float64(cz)+b[2])*a)
					symbols[i] = "Cu"
					i++
				}
			}
		}
	}
	box, err := NewCubicBox(float64(ncells) * a)
	if err != nil {
		Te.Fatal(err)
	}
	st, err := NewStructure(coords, symbols, box)
	if err != nil {
		Te.Fatal(err)
	}
	return st
}

var scBasis = [][3]float64{{0, 0, 0}}
var bccBasis = [][3]float64{{0, 0, 0}, {0.5, 0.5, 0.5}}
var fccBasis = [][3]float64{{0, 0, 0}, {0, 0.5, 0.5}, {0.5, 0, 0.5}, {0.5, 0.5, 0}}

func pairStructure(Te *testing.T, d, boxside float64, periodic bool) *Structure {
	coords := v3.Zeros(2)
	coords.Set(1, 0, d)
	p := [3]bool{periodic, periodic, periodic}
	box, err := NewCubicBox(boxside, p)
	if err != nil {
		Te.Fatal(err)
	}
	st, err := NewStructure(coords, []string{"Cu", "Zr"}, box)
	if err != nil {
		Te.Fatal(err)
	}
	return st
}

func cutoffOpts(r float64) *Options {
	o := DefaultOptions()
	o.Strategy = Cutoff
	o.CutoffRadius = r
	return o
}

//A pair at exactly the cutoff distance is still a pair of neighbors.
func TestCutoffBoundaryInclusive(Te *testing.T) {
	st := pairStructure(Te, 3.0, 20, true)
	f, err := NewFinder(cutoffOpts(3.0))
	if err != nil {
		Te.Fatal(err)
	}
	edges, err := f.Neighbors(st, 0)
	if err != nil {
		Te.Fatal(err)
	}
	if len(edges) != 1 || edges[0].Neighbor != 1 {
		Te.Fatalf("expected exactly the neighbor 1, got %v", edges)
	}
	if edges[0].Weight != 1 {
		Te.Errorf("single neighbor weight: got %v", edges[0].Weight)
	}
	if !near(edges[0].Dist, 3.0, 1e-12) {
		Te.Errorf("distance: got %v", edges[0].Dist)
	}
}

func TestCutoffTooLarge(Te *testing.T) {
	st := pairStructure(Te, 3.0, 10, true)
	f, err := NewFinder(cutoffOpts(6.0))
	if err != nil {
		Te.Fatal(err)
	}
	_, err = f.Neighbors(st, 0)
	if err == nil {
		Te.Fatal("expected an error for a cutoff above half the box height")
	}
	if _, ok := err.(*GeometryError); !ok {
		Te.Errorf("expected a GeometryError, got %T: %v", err, err)
	}
}

func TestCutoffWeightSums(Te *testing.T) {
	r := rand.New(rand.NewSource(7))
	n := 40
	coords := v3.Zeros(n)
	symbols := make([]string, n)
	for i := 0; i < n; i++ {
		for c := 0; c < 3; c++ {
			coords.Set(i, c, r.Float64()*10)
		}
		symbols[i] = "Fe"
	}
	box, err := NewCubicBox(10)
	if err != nil {
		Te.Fatal(err)
	}
	st, err := NewStructure(coords, symbols, box)
	if err != nil {
		Te.Fatal(err)
	}
	f, err := NewFinder(cutoffOpts(4.0))
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < n; i++ {
		edges, err := f.Neighbors(st, i)
		if err != nil {
			Te.Fatal(err)
		}
		sum := 0.0
		for _, e := range edges {
			sum += e.Weight
		}
		if !near(sum, 1, 1e-12) {
			Te.Errorf("atom %d: weights sum to %v", i, sum)
		}
	}
}

func TestVoroSimpleCubic(Te *testing.T) {
	st := latticeStructure(Te, scBasis, 3, 2.0)
	f, err := NewFinder(DefaultOptions())
	if err != nil {
		Te.Fatal(err)
	}
	total := 0.0
	for i := 0; i < st.Len(); i++ {
		edges, err := f.Neighbors(st, i)
		if err != nil {
			Te.Fatal(err)
		}
		if len(edges) != 6 {
			Te.Fatalf("atom %d: expected 6 facet neighbors, got %d", i, len(edges))
		}
		wsum := 0.0
		vol := 0.0
		for _, e := range edges {
			wsum += e.Weight
			if e.Facet == nil {
				Te.Fatal("polyhedral edge without facet data")
			}
			if e.Facet.Edges != 4 {
				Te.Errorf("atom %d: facet with %d edges on a simple cubic lattice", i, e.Facet.Edges)
			}
			if !near(e.Facet.Area, 4, 1e-8) {
				Te.Errorf("atom %d: facet area %v, want 4", i, e.Facet.Area)
			}
			if !near(e.Facet.Dist, 1, 1e-8) {
				Te.Errorf("atom %d: facet plane distance %v, want 1", i, e.Facet.Dist)
			}
			if !near(e.Dist, 2, 1e-8) {
				Te.Errorf("atom %d: neighbor distance %v, want 2", i, e.Dist)
			}
			vol += e.Facet.Area * e.Facet.Dist / 3
		}
		if !near(wsum, 1, 1e-9) {
			Te.Errorf("atom %d: weights sum to %v", i, wsum)
		}
		total += vol
	}
	//the cells of all atoms partition the box
	if !near(total, st.Box().Volume(), 1e-6) {
		Te.Errorf("cell volumes sum to %v, box volume is %v", total, st.Box().Volume())
	}
}

func TestVoroFCC(Te *testing.T) {
	a := 4.0
	st := latticeStructure(Te, fccBasis, 3, a)
	f, err := NewFinder(DefaultOptions())
	if err != nil {
		Te.Fatal(err)
	}
	edges, err := f.Neighbors(st, 0)
	if err != nil {
		Te.Fatal(err)
	}
	if len(edges) != 12 {
		Te.Fatalf("expected 12 facet neighbors, got %d", len(edges))
	}
	vol := 0.0
	for _, e := range edges {
		if !near(e.Dist, a/math.Sqrt(2), 1e-8) {
			Te.Errorf("neighbor distance %v, want %v", e.Dist, a/math.Sqrt(2))
		}
		if e.Facet.Edges != 4 {
			Te.Errorf("rhombic dodecahedron facet with %d edges", e.Facet.Edges)
		}
		vol += e.Facet.Area * e.Facet.Dist / 3
	}
	if !near(vol, a*a*a/4, 1e-6) {
		Te.Errorf("cell volume %v, want %v", vol, a*a*a/4)
	}
}

func TestVoroBCC(Te *testing.T) {
	a := 4.0
	st := latticeStructure(Te, bccBasis, 3, a)
	f, err := NewFinder(DefaultOptions())
	if err != nil {
		Te.Fatal(err)
	}
	edges, err := f.Neighbors(st, 0)
	if err != nil {
		Te.Fatal(err)
	}
	if len(edges) != 14 {
		Te.Fatalf("expected 14 facet neighbors, got %d", len(edges))
	}
	hex, squares := 0, 0
	vol := 0.0
	for _, e := range edges {
		switch e.Facet.Edges {
		case 6:
			hex++
		case 4:
			squares++
		default:
			Te.Errorf("truncated octahedron facet with %d edges", e.Facet.Edges)
		}
		vol += e.Facet.Area * e.Facet.Dist / 3
	}
	if hex != 8 || squares != 6 {
		Te.Errorf("got %d hexagonal and %d square facets, want 8 and 6", hex, squares)
	}
	if !near(vol, a*a*a/2, 1e-6) {
		Te.Errorf("cell volume %v, want %v", vol, a*a*a/2)
	}
}

//A 4-atom periodic cube is the same crystal as its 2x2x2 replica, so
//the neighbor shell of an atom must look the same in both: the box
//size must not leak into the features.
func TestSmallBoxReplicaEquivalence(Te *testing.T) {
	a := 4.0
	small := latticeStructure(Te, fccBasis, 1, a)
	big := latticeStructure(Te, fccBasis, 2, a)
	f, err := NewFinder(DefaultOptions())
	if err != nil {
		Te.Fatal(err)
	}
	esmall, err := f.Neighbors(small, 0)
	if err != nil {
		Te.Fatal(err)
	}
	ebig, err := f.Neighbors(big, 0)
	if err != nil {
		Te.Fatal(err)
	}
	if len(esmall) != 12 || len(ebig) != 12 {
		Te.Fatalf("expected 12 neighbors in both, got %d and %d", len(esmall), len(ebig))
	}
	ds := make([]float64, 0, 12)
	db := make([]float64, 0, 12)
	ws := 0.0
	for k := range esmall {
		ds = append(ds, esmall[k].Dist)
		db = append(db, ebig[k].Dist)
		ws += esmall[k].Weight
	}
	sort.Float64s(ds)
	sort.Float64s(db)
	for k := range ds {
		if !near(ds[k], db[k], 1e-8) {
			Te.Fatalf("distance %d differs between replicas: %v vs %v", k, ds[k], db[k])
		}
	}
	if !near(ws, 1, 1e-9) {
		Te.Errorf("small-box weights sum to %v", ws)
	}
}

func TestIsolatedAtomStrict(Te *testing.T) {
	st := pairStructure(Te, 50, 200, false)
	f, err := NewFinder(cutoffOpts(1.0))
	if err != nil {
		Te.Fatal(err)
	}
	_, err = f.Neighbors(st, 0)
	ins, ok := err.(*InsufficientNeighborsError)
	if !ok {
		Te.Fatalf("expected an InsufficientNeighborsError, got %T: %v", err, err)
	}
	if ins.AtomIndex != 0 || ins.Strategy != Cutoff {
		Te.Errorf("error should carry atom 0 and the cutoff strategy, got %+v", ins)
	}
}

func TestVoroDegenerateInputs(Te *testing.T) {
	//a single atom with nothing around it, in an open box
	coords := v3.Zeros(1)
	box, err := NewCubicBox(10, [3]bool{false, false, false})
	if err != nil {
		Te.Fatal(err)
	}
	st, err := NewStructure(coords, []string{"Cu"}, box)
	if err != nil {
		Te.Fatal(err)
	}
	f, err := NewFinder(DefaultOptions())
	if err != nil {
		Te.Fatal(err)
	}
	_, err = f.Neighbors(st, 0)
	if _, ok := err.(*InsufficientNeighborsError); !ok {
		Te.Fatalf("lone atom: expected an InsufficientNeighborsError, got %T: %v", err, err)
	}
	//two atoms in an open box: candidates exist but can never close a cell
	st2 := pairStructure(Te, 3, 100, false)
	_, err = f.Neighbors(st2, 0)
	if _, ok := err.(*GeometryError); !ok {
		Te.Fatalf("open cell: expected a GeometryError, got %T: %v", err, err)
	}
}
