/*
 * pipeline.go, part of goglass.
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
	"sync/atomic"
)

//Featurize computes the feature matrix of a structure: one row per
//atom, SRO components then MRO components. A nil o means
//DefaultOptions. It is a convenience around NewFeaturizer; to featurize
//several structures with one schema, build the Featurizer once.
func Featurize(st *Structure, o *Options) (*FeatureMatrix, error) {
	F, err := NewFeaturizer(o)
	if err != nil {
		return nil, errDecorate(err, "Featurize")
	}
	M, err := F.Featurize(st)
	if err != nil {
		return nil, errDecorate(err, "Featurize")
	}
	return M, nil
}

//Featurize computes the feature matrix of one structure. The work runs
//in two parallel phases over the atoms, on Options.Cpus workers: first
//neighbor search plus SRO, then, when every atom's SRO exists, the MRO
//reductions that read the neighbors' SRO. The structure is read-only
//throughout; each worker writes only its own block of the result
//slots. On the first fatal error the remaining workers drain early and
//the error of the lowest-numbered atom block is returned.
func (F *Featurizer) Featurize(st *Structure) (*FeatureMatrix, error) {
	if st == nil {
		return nil, &CError{"goglass: nil structure", []string{"Featurize"}}
	}
	st, err := F.o.boxFor(st)
	if err != nil {
		return nil, errDecorate(err, "Featurize")
	}
	if F.o.Strategy == Cutoff {
		if mc := st.Box().MaxCutoff(); F.o.CutoffRadius > mc {
			return nil, NewGeometryError("goglass: cutoff radius %v exceeds half the smallest periodic height of the box (%v)", F.o.CutoffRadius, mc)
		}
	}
	n := st.Len()
	cl := newCellList(st, F.gridWidth(st))
	edges := make([][]Edge, n)
	sros := make([]*SRO, n)
	err = F.runBlocks(n, func(b, lo, hi int, stop *atomic.Bool) error {
		sc := newSROScratch(F.o)
		var ibuf []int
		for i := lo; i < hi; i++ {
			if stop.Load() {
				return nil
			}
			var e []Edge
			var err error
			if F.o.Strategy == Cutoff {
				e, ibuf, err = cutoffEdges(st, i, F.o.CutoffRadius, cl, ibuf)
			} else {
				e, ibuf, err = voroEdges(st, i, F.o, cl, ibuf)
			}
			if err != nil {
				if _, ok := err.(*InsufficientNeighborsError); ok && F.o.SkipIsolated {
					sros[i] = F.missingSRO()
					continue
				}
				return err
			}
			edges[i] = e
			sros[i] = F.siteSRO(st, i, e, sc)
		}
		return nil
	})
	if err != nil {
		return nil, errDecorate(err, "sro phase")
	}
	//every SRO slot is filled now, the MRO phase may read any of them
	mros := make([][]float64, n)
	err = F.runBlocks(n, func(b, lo, hi int, stop *atomic.Bool) error {
		sc := newMROScratch(0)
		for i := lo; i < hi; i++ {
			if stop.Load() {
				return nil
			}
			if got := sros[i].Len(); got != len(F.sroN) {
				return &SchemaMismatchError{Stage: "sro", AtomIndex: i, Want: len(F.sroN), Got: got}
			}
			mros[i] = F.siteMRO(i, edges[i], sros, sc)
		}
		return nil
	})
	if err != nil {
		return nil, errDecorate(err, "mro phase")
	}
	M := newFeatureMatrix(st, F.names)
	for i := 0; i < n; i++ {
		if err := M.setRow(i, sros[i], mros[i], F); err != nil {
			return nil, errDecorate(err, "Featurize")
		}
	}
	return M, nil
}

//runBlocks partitions the atoms in one contiguous block per worker and
//runs f on each block in its own goroutine. Workers send exactly one
//error (possibly nil) when their block ends; collecting them in block
//order makes the returned error the one of the lowest-numbered failing
//block, no matter which worker failed first in time. The shared stop
//flag tells the others to drain.
func (F *Featurizer) runBlocks(n int, f func(b, lo, hi int, stop *atomic.Bool) error) error {
	workers := F.o.Cpus
	if workers > n {
		workers = n
	}
	var stop atomic.Bool
	errs := make([]chan error, workers)
	for b := 0; b < workers; b++ {
		errs[b] = make(chan error, 1)
		lo := b * n / workers
		hi := (b + 1) * n / workers
		go func(b, lo, hi int) {
			err := f(b, lo, hi, &stop)
			if err != nil {
				stop.Store(true)
			}
			errs[b] <- err
		}(b, lo, hi)
	}
	var first error
	for b := 0; b < workers; b++ {
		if err := <-errs[b]; err != nil && first == nil {
			first = err
		}
	}
	return first
}

//gridWidth is the cell width for the candidate search grid: the cutoff,
//or the initial Voronoi search radius.
func (F *Featurizer) gridWidth(st *Structure) float64 {
	if F.o.Strategy == Cutoff {
		return F.o.CutoffRadius
	}
	if F.o.VoronoiSearchRadius > 0 {
		return F.o.VoronoiSearchRadius
	}
	return autoSearchRadius(st)
}
