/*
 * mro.go, part of goglass.
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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//mroNames builds the medium-range order component names: for each SRO
//component, in order, the four reductions, plus the coarse-grained
//invariants when those are on.
func mroNames(o *Options, sroN []string) []string {
	names := make([]string, 0, 4*len(sroN)+len(o.AngularOrders))
	for _, n := range sroN {
		for _, s := range []string{"mean", "std", "min", "max"} {
			names = append(names, fmt.Sprintf("MRO %s %s", s, n))
		}
	}
	if o.CoarseGrained {
		dep := o.depName()
		for _, l := range o.AngularOrders {
			names = append(names, fmt.Sprintf("Coarse-grained q_%d %s", l, dep))
		}
	}
	return names
}

//SiteMRO computes the medium-range order components of one atom by
//reducing each SRO component over the atom (weight 1) and its neighbors
//(edge weights): weighted mean, weighted population standard deviation,
//and unweighted extrema. Missing values are left out together with
//their weights; a component missing everywhere aggregates to Missing.
//sros must hold the already-computed SRO of every atom of the
//structure, indexed by atom.
func (F *Featurizer) SiteMRO(st *Structure, atom int, edges []Edge, sros []*SRO) ([]float64, error) {
	if st == nil {
		return nil, &CError{"goglass: nil structure", []string{"SiteMRO"}}
	}
	if atom < 0 || atom >= st.Len() {
		return nil, &CError{fmt.Sprintf("goglass: atom index %d out of range", atom), []string{"SiteMRO"}}
	}
	if len(sros) != st.Len() {
		return nil, &CError{fmt.Sprintf("goglass: SRO lookup has %d entries for %d atoms", len(sros), st.Len()), []string{"SiteMRO"}}
	}
	check := func(i int) error {
		if sros[i] == nil {
			return &CError{fmt.Sprintf("goglass: no SRO for atom %d", i), []string{"SiteMRO"}}
		}
		if sros[i].Len() != len(F.sroN) {
			return &SchemaMismatchError{Stage: "mro input", AtomIndex: i, Want: len(F.sroN), Got: sros[i].Len()}
		}
		return nil
	}
	if err := check(atom); err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := check(e.Neighbor); err != nil {
			return nil, err
		}
	}
	return F.siteMRO(atom, edges, sros, newMROScratch(len(edges))), nil
}

type mroScratch struct {
	vals []float64
	ws   []float64
}

func newMROScratch(n int) *mroScratch {
	return &mroScratch{vals: make([]float64, 0, n+1), ws: make([]float64, 0, n+1)}
}

func (F *Featurizer) siteMRO(atom int, edges []Edge, sros []*SRO, sc *mroScratch) []float64 {
	out := make([]float64, 0, len(F.mroN))
	center := sros[atom]
	for i := range F.sroN {
		vals, ws := sc.vals[:0], sc.ws[:0]
		if v := center.vec[i]; !IsMissing(v) {
			vals = append(vals, v)
			ws = append(ws, 1)
		}
		for _, e := range edges {
			if v := sros[e.Neighbor].vec[i]; !IsMissing(v) {
				vals = append(vals, v)
				ws = append(ws, e.Weight)
			}
		}
		sc.vals, sc.ws = vals, ws
		if len(vals) == 0 {
			out = append(out, Missing, Missing, Missing, Missing)
			continue
		}
		mean := stat.Mean(vals, ws)
		std := math.Sqrt(stat.MomentAbout(2, vals, mean, ws))
		out = append(out, mean, std, floats.Min(vals), floats.Max(vals))
	}
	if !F.o.CoarseGrained {
		return out
	}
	//Lechner-Dellago averaged invariants: the q_lm vectors of the atom
	//and its neighbors blended with the same weights as above.
	for li, tb := range F.tables {
		q := make([]complex128, 2*tb.l+1)
		den := 0.0
		if center.qlm != nil {
			copy(q, center.qlm[li])
			den = 1
		}
		for _, e := range edges {
			nq := sros[e.Neighbor].qlm
			if nq == nil {
				continue
			}
			w := complex(e.Weight, 0)
			for m := range q {
				q[m] += w * nq[li][m]
			}
			den += e.Weight
		}
		if den == 0 {
			out = append(out, Missing)
			continue
		}
		for m := range q {
			q[m] /= complex(den, 0)
		}
		out = append(out, steinhardtQ(q, tb.l))
	}
	return out
}
