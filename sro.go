/*
 * sro.go, part of goglass.
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

	"github.com/rmera/goglass/histo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//SRO is the short-range order descriptor vector of one atom: a fixed
//ordered set of local order parameters computed from the atom's
//neighbor edges. The component names and order come from the schema of
//the Featurizer that produced it.
type SRO struct {
	vec []float64
	//the q_lm coefficient vectors per angular order, kept for the
	//coarse-grained invariants of the MRO phase. nil for an atom that
	//was skipped for lack of neighbors.
	qlm [][]complex128
}

//Len returns the number of components.
func (S *SRO) Len() int {
	return len(S.vec)
}

//At returns the ith component.
func (S *SRO) At(i int) float64 {
	return S.vec[i]
}

//Values returns a new slice with all the components, in schema order.
func (S *SRO) Values() []float64 {
	r := make([]float64, len(S.vec))
	copy(r, S.vec)
	return r
}

//sroNames builds the ordered SRO component names for the options given,
//each suffixed with the name of the neighbor strategy it depends on.
func sroNames(o *Options) []string {
	dep := o.depName()
	names := make([]string, 0, 20+o.HistogramBins+2*len(o.AngularOrders))
	names = append(names, "CN "+dep, "Eff CN "+dep)
	names = append(names, "Bond angle mean "+dep, "Bond angle var "+dep)
	for k := 0; k < o.HistogramBins; k++ {
		names = append(names, fmt.Sprintf("Bond angle hist%d %s", k, dep))
	}
	for _, s := range []string{"sum", "mean", "var", "skew", "min", "max"} {
		names = append(names, fmt.Sprintf("Neighbor dist %s %s", s, dep))
	}
	for _, l := range o.AngularOrders {
		names = append(names, fmt.Sprintf("q_%d %s", l, dep))
		names = append(names, fmt.Sprintf("w_%d %s", l, dep))
	}
	if o.Strategy != Polyhedral {
		return names
	}
	for e := o.EdgeMin; e <= o.EdgeMax; e++ {
		names = append(names, fmt.Sprintf("Voronoi idx%d %s", e, dep))
	}
	for e := o.EdgeMin; e <= o.EdgeMax; e++ {
		names = append(names, fmt.Sprintf("%d-fold symm idx %s", e, dep))
	}
	for e := o.EdgeMin; e <= o.EdgeMax; e++ {
		names = append(names, fmt.Sprintf("Area_wt %d-fold symm idx %s", e, dep))
	}
	for e := o.EdgeMin; e <= o.EdgeMax; e++ {
		names = append(names, fmt.Sprintf("Vol_wt %d-fold symm idx %s", e, dep))
	}
	names = append(names, "Voronoi area "+dep)
	for _, s := range []string{"mean", "std", "min", "max"} {
		names = append(names, fmt.Sprintf("Facet area %s %s", s, dep))
	}
	names = append(names, "Voronoi vol "+dep)
	for _, s := range []string{"mean", "std", "min", "max"} {
		names = append(names, fmt.Sprintf("Sub-polyhedra vol %s %s", s, dep))
	}
	names = append(names, "Packing efficiency "+dep)
	return names
}

//SiteSRO computes the short-range order descriptor of one atom from its
//neighbor edges, as produced by the Finder of the same options. An
//empty edge set yields an InsufficientNeighborsError, or an all-missing
//vector when the options say to skip isolated atoms. Components
//undefined for the atom hold the Missing sentinel, never fewer
//components.
func (F *Featurizer) SiteSRO(st *Structure, atom int, edges []Edge) (*SRO, error) {
	if st == nil {
		return nil, &CError{"goglass: nil structure", []string{"SiteSRO"}}
	}
	if atom < 0 || atom >= st.Len() {
		return nil, &CError{fmt.Sprintf("goglass: atom index %d out of range", atom), []string{"SiteSRO"}}
	}
	if len(edges) == 0 {
		if F.o.SkipIsolated {
			return F.missingSRO(), nil
		}
		return nil, &InsufficientNeighborsError{AtomIndex: atom, Strategy: F.o.Strategy}
	}
	return F.siteSRO(st, atom, edges, newSROScratch(F.o)), nil
}

//missingSRO is the all-sentinel vector of a skipped atom.
func (F *Featurizer) missingSRO() *SRO {
	vec := make([]float64, len(F.sroN))
	for i := range vec {
		vec[i] = Missing
	}
	return &SRO{vec: vec}
}

//sroScratch is the per-worker scratch of the SRO phase, so the hot loop
//does not allocate angle and distance buffers for every atom.
type sroScratch struct {
	angles []float64
	dists  []float64
	areas  []float64
	vols   []float64
	ylm    []complex128
}

func newSROScratch(o *Options) *sroScratch {
	lmax := 0
	for _, l := range o.AngularOrders {
		if l > lmax {
			lmax = l
		}
	}
	return &sroScratch{ylm: make([]complex128, lmax+1)}
}

//siteSRO does the actual work. edges is never empty here.
func (F *Featurizer) siteSRO(st *Structure, atom int, edges []Edge, sc *sroScratch) *SRO {
	o := F.o
	S := &SRO{vec: make([]float64, 0, len(F.sroN))}
	cn := len(edges)
	ssq := 0.0
	for _, e := range edges {
		ssq += e.Weight * e.Weight
	}
	S.vec = append(S.vec, float64(cn), 1/ssq)

	//angles subtended at the atom by each neighbor pair
	angles := sc.angles[:0]
	for i := 0; i < cn; i++ {
		for j := i + 1; j < cn; j++ {
			angles = append(angles, Angle(edges[i].Disp, edges[j].Disp))
		}
	}
	sc.angles = angles
	if len(angles) == 0 {
		for k := 0; k < 2+o.HistogramBins; k++ {
			S.vec = append(S.vec, Missing)
		}
	} else {
		amean := stat.Mean(angles, nil)
		S.vec = append(S.vec, amean, stat.MomentAbout(2, angles, amean, nil))
		h := histo.NewUniform(0, math.Pi, o.HistogramBins)
		h.AddData(angles...)
		S.vec = append(S.vec, h.Fractions()...)
	}

	//neighbor distance statistics, unweighted
	dists := sc.dists[:0]
	for _, e := range edges {
		dists = append(dists, e.Dist)
	}
	sc.dists = dists
	dmean := stat.Mean(dists, nil)
	m2 := stat.MomentAbout(2, dists, dmean, nil)
	skew := Missing
	if cn >= 2 && m2 > appzero {
		skew = stat.MomentAbout(3, dists, dmean, nil) / math.Pow(m2, 1.5)
	}
	S.vec = append(S.vec, floats.Sum(dists), dmean, m2, skew, floats.Min(dists), floats.Max(dists))

	//bond-orientational order parameters
	S.qlm = make([][]complex128, len(o.AngularOrders))
	for li, tb := range F.tables {
		q := make([]complex128, 2*tb.l+1)
		qlmSum(edges, tb, sc.ylm, q)
		S.qlm[li] = q
		S.vec = append(S.vec, steinhardtQ(q, tb.l), steinhardtW(q, tb))
	}

	if o.Strategy == Polyhedral {
		F.polyhedralSRO(st, atom, edges, S, sc)
	}
	return S
}

//polyhedralSRO appends the facet-shape component family. Edges built by
//hand without facet geometry get the whole family as sentinels.
func (F *Featurizer) polyhedralSRO(st *Structure, atom int, edges []Edge, S *SRO, sc *sroScratch) {
	o := F.o
	for _, e := range edges {
		if e.Facet == nil {
			for len(S.vec) < len(F.sroN) {
				S.vec = append(S.vec, Missing)
			}
			return
		}
	}
	nidx := o.EdgeMax - o.EdgeMin + 1
	idx := make([]float64, nidx)
	areaIdx := make([]float64, nidx)
	volIdx := make([]float64, nidx)
	areas := sc.areas[:0]
	vols := sc.vols[:0]
	totArea := 0.0
	totVol := 0.0
	for _, e := range edges {
		f := e.Facet
		pv := f.Area * f.Dist / 3
		areas = append(areas, f.Area)
		vols = append(vols, pv)
		totArea += f.Area
		totVol += pv
		ne := f.Edges
		if ne > o.EdgeMax {
			if !o.IncludeBeyondEdgeMax {
				continue
			}
			ne = o.EdgeMax
		}
		if ne < o.EdgeMin {
			continue
		}
		idx[ne-o.EdgeMin]++
		areaIdx[ne-o.EdgeMin] += f.Area
		volIdx[ne-o.EdgeMin] += pv
	}
	sc.areas = areas
	sc.vols = vols
	S.vec = append(S.vec, idx...)
	cn := float64(len(edges))
	for _, v := range idx {
		S.vec = append(S.vec, v/cn)
	}
	for _, v := range areaIdx {
		S.vec = append(S.vec, v/totArea)
	}
	for _, v := range volIdx {
		S.vec = append(S.vec, v/totVol)
	}
	amean := stat.Mean(areas, nil)
	S.vec = append(S.vec, totArea, amean, math.Sqrt(stat.MomentAbout(2, areas, amean, nil)), floats.Min(areas), floats.Max(areas))
	vmean := stat.Mean(vols, nil)
	S.vec = append(S.vec, totVol, vmean, math.Sqrt(stat.MomentAbout(2, vols, vmean, nil)), floats.Min(vols), floats.Max(vols))
	pack := Missing
	if r, ok := radiusOf(st.Atom(atom).Symbol, o.Radii); ok {
		pack = 4.0 / 3.0 * math.Pi * r * r * r / totVol
	}
	S.vec = append(S.vec, pack)
}
