/*
 * neighbors.go, part of goglass.
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
	"sort"

	v3 "github.com/rmera/goglass/v3"
	"github.com/rmera/goglass/voro"
)

//Edge is one directed neighbor relation, from an atom to one neighbor.
//In a periodic box the neighbor is a particular image; a small box can
//produce several edges to different images of the same atom, and even
//to images of the source itself. The zero-shift self pair is never an
//edge.
type Edge struct {
	Source   int
	Neighbor int
	Disp     *v3.Matrix //displacement from the source to the neighbor image
	Dist     float64
	Weight   float64
	Facet    *Facet //polyhedral strategy only, nil under cutoff
}

//Facet is the geometry of the Voronoi facet behind a polyhedral edge.
//Dist is the distance from the atom to the facet plane, half the
//neighbor distance, so Area*Dist/3 is the volume of the pyramid the
//facet subtends at the atom.
type Facet struct {
	Edges int
	Area  float64
	Dist  float64
}

//Finder produces the neighbor edges of one atom of a structure. The
//edge weights of an atom always sum to 1, and the edges come in a fixed
//deterministic order. An atom without neighbors yields an
//InsufficientNeighborsError.
type Finder interface {
	Neighbors(st *Structure, atom int) ([]Edge, error)
}

//NewFinder returns a Finder implementing the neighbor strategy set in
//the options, which are validated first.
func NewFinder(o *Options) (Finder, error) {
	err := o.Check()
	if err != nil {
		return nil, errDecorate(err, "NewFinder")
	}
	if o.Strategy == Cutoff {
		return &cutoffFinder{o: o}, nil
	}
	return &voroFinder{o: o}, nil
}

type cutoffFinder struct {
	o *Options
}

func (F *cutoffFinder) Neighbors(st *Structure, atom int) ([]Edge, error) {
	edges, _, err := cutoffEdges(st, atom, F.o.CutoffRadius, newCellList(st, 0), nil)
	return edges, err
}

type voroFinder struct {
	o *Options
}

func (F *voroFinder) Neighbors(st *Structure, atom int) ([]Edge, error) {
	edges, _, err := voroEdges(st, atom, F.o, newCellList(st, 0), nil)
	return edges, err
}

//cutoffEdges builds the neighbor edges of one atom under the cutoff
//strategy: every atom at minimum-image distance up to r, boundary
//included, with uniform weights. buf is scratch space recycled between
//calls.
func cutoffEdges(st *Structure, atom int, r float64, cl *cellList, buf []int) ([]Edge, []int, error) {
	if mc := st.Box().MaxCutoff(); r > mc {
		return nil, buf, NewGeometryError("goglass: cutoff radius %v exceeds half the smallest periodic height of the box (%v)", r, mc)
	}
	buf = cl.within(atom, r, buf)
	if len(buf) == 0 {
		return nil, buf, &InsufficientNeighborsError{AtomIndex: atom, Strategy: Cutoff}
	}
	w := 1 / float64(len(buf))
	edges := make([]Edge, 0, len(buf))
	ci := st.Coord(atom)
	for _, j := range buf {
		d := st.Box().MinImage(nil, ci, st.Coord(j))
		edges = append(edges, Edge{Source: atom, Neighbor: j, Disp: d, Dist: d.Norm(), Weight: w})
	}
	sortEdges(edges)
	return edges, buf, nil
}

const (
	defSearchRadius = 5.0 //rather permissive
	voroGrow        = 1.5
	voroMaxGrow     = 30
)

//One candidate neighbor image for a Voronoi cell.
type candidate struct {
	atom       int
	shift      [3]int
	dx, dy, dz float64
	dist       float64
}

//voroEdges builds the neighbor edges of one atom under the polyhedral
//strategy: the atoms (images) sharing a facet with it, weighted by
//facet area. Candidates are gathered within a search radius that grows
//until the cell is closed and no excluded image can touch it: every
//image beyond the radius is farther than twice the farthest cell
//vertex, so it cannot cut the cell.
func voroEdges(st *Structure, atom int, o *Options, cl *cellList, buf []int) ([]Edge, []int, error) {
	b := st.Box()
	p := b.Periodic()
	aperiodic := !p[0] && !p[1] && !p[2]
	r := o.VoronoiSearchRadius
	if r <= 0 {
		r = autoSearchRadius(st)
	}
	var cell *voro.Cell
	var cands []candidate
	var err error
	for try := 0; ; try++ {
		if try >= voroMaxGrow {
			return nil, buf, NewGeometryError("goglass: could not close the Voronoi cell of atom %d after growing the search radius to %v", atom, r)
		}
		buf = cl.within(atom, r, buf)
		cands = imageCandidates(st, atom, buf, r, cands)
		cell = nil
		if len(cands) >= 4 {
			disps := v3.Zeros(len(cands))
			for i, c := range cands {
				disps.Set(i, 0, c.dx)
				disps.Set(i, 1, c.dy)
				disps.Set(i, 2, c.dz)
			}
			cell, err = voro.ComputeCell(disps, nil)
			if err != nil {
				return nil, buf, errDecorate(err, fmt.Sprintf("voroEdges: atom %d", atom))
			}
			if cell.Closed && r >= 2*cell.MaxVertex {
				break
			}
		}
		if aperiodic && r >= boundingDiameter(st) {
			//nothing else to gather, ever
			if len(cands) == 0 {
				return nil, buf, &InsufficientNeighborsError{AtomIndex: atom, Strategy: Polyhedral}
			}
			if cell != nil && cell.Closed {
				break
			}
			return nil, buf, NewGeometryError("goglass: unbounded Voronoi cell for atom %d; the polyhedral strategy needs a periodic box or an interior atom", atom)
		}
		r *= voroGrow
	}
	edges := make([]Edge, 0, len(cell.Faces))
	for _, f := range cell.Faces {
		c := cands[f.Candidate]
		d := v3.Zeros(1)
		d.Set(0, 0, c.dx)
		d.Set(0, 1, c.dy)
		d.Set(0, 2, c.dz)
		fc := &Facet{Edges: f.Edges, Area: f.Area, Dist: f.Dist}
		edges = append(edges, Edge{Source: atom, Neighbor: c.atom, Disp: d, Dist: c.dist, Weight: f.Area / cell.Area, Facet: fc})
	}
	sortEdges(edges)
	if len(edges) == 0 {
		return nil, buf, &InsufficientNeighborsError{AtomIndex: atom, Strategy: Polyhedral}
	}
	return edges, buf, nil
}

//sortEdges fixes the edge order: by neighbor index, then distance, then
//displacement, so repeated runs give bit-identical results.
func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := &edges[i], &edges[j]
		if a.Neighbor != b.Neighbor {
			return a.Neighbor < b.Neighbor
		}
		if a.Dist != b.Dist {
			return a.Dist < b.Dist
		}
		for c := 0; c < 3; c++ {
			if a.Disp.At(0, c) != b.Disp.At(0, c) {
				return a.Disp.At(0, c) < b.Disp.At(0, c)
			}
		}
		return false
	})
}

//imageCandidates lists every periodic image of the atoms in others, and
//of atom itself, within radius r of atom. others must contain, sorted
//ascending, all atoms whose minimum-image distance to atom is at most
//r; since the minimum-image distance is the smallest among images, no
//image of any other atom can be in range. buf is recycled.
func imageCandidates(st *Structure, atom int, others []int, r float64, buf []candidate) []candidate {
	cands := buf[:0]
	b := st.Box()
	p := b.Periodic()
	h := b.Heights()
	slackr := r * (1 + cutoffSlack)
	rr := slackr * slackr
	var lat [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			lat[i][j] = b.vecs.At(i, j)
		}
	}
	xi := st.coords.At(atom, 0)
	yi := st.coords.At(atom, 1)
	zi := st.coords.At(atom, 2)
	consider := func(j int) {
		dx0 := st.coords.At(j, 0) - xi
		dy0 := st.coords.At(j, 1) - yi
		dz0 := st.coords.At(j, 2) - zi
		var f, span [3]float64
		for a := 0; a < 3; a++ {
			f[a] = dx0*b.inv.At(0, a) + dy0*b.inv.At(1, a) + dz0*b.inv.At(2, a)
			span[a] = slackr / h[a]
		}
		var lo, hi [3]int
		for a := 0; a < 3; a++ {
			if !p[a] {
				continue //lo = hi = 0
			}
			lo[a] = int(math.Ceil(-f[a] - span[a]))
			hi[a] = int(math.Floor(-f[a] + span[a]))
		}
		for nx := lo[0]; nx <= hi[0]; nx++ {
			for ny := lo[1]; ny <= hi[1]; ny++ {
				for nz := lo[2]; nz <= hi[2]; nz++ {
					if j == atom && nx == 0 && ny == 0 && nz == 0 {
						continue
					}
					fx, fy, fz := float64(nx), float64(ny), float64(nz)
					dx := dx0 + fx*lat[0][0] + fy*lat[1][0] + fz*lat[2][0]
					dy := dy0 + fx*lat[0][1] + fy*lat[1][1] + fz*lat[2][1]
					dz := dz0 + fx*lat[0][2] + fy*lat[1][2] + fz*lat[2][2]
					dd := dx*dx + dy*dy + dz*dz
					if dd <= rr {
						cands = append(cands, candidate{atom: j, shift: [3]int{nx, ny, nz}, dx: dx, dy: dy, dz: dz, dist: math.Sqrt(dd)})
					}
				}
			}
		}
	}
	k := 0
	for k < len(others) && others[k] < atom {
		consider(others[k])
		k++
	}
	consider(atom)
	for ; k < len(others); k++ {
		consider(others[k])
	}
	return cands
}

//autoSearchRadius guesses an initial Voronoi candidate radius from the
//atom density, about twice the typical interatomic spacing.
func autoSearchRadius(st *Structure) float64 {
	b := st.Box()
	p := b.Periodic()
	if p[0] && p[1] && p[2] {
		return 2 * math.Cbrt(b.Volume()/float64(st.Len()))
	}
	vol := 1.0
	some := false
	for a := 0; a < 3; a++ {
		lo, hi := boundingAxis(st, a)
		if ext := hi - lo; ext > 0 {
			vol *= ext
			some = true
		}
	}
	if !some {
		return defSearchRadius
	}
	r := 2 * math.Cbrt(vol/float64(st.Len()))
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return defSearchRadius
	}
	return r
}

//boundingDiameter is the diagonal of the bounding box of the
//coordinates, an upper bound for any interatomic distance in an
//aperiodic system.
func boundingDiameter(st *Structure) float64 {
	d := 0.0
	for a := 0; a < 3; a++ {
		lo, hi := boundingAxis(st, a)
		d += (hi - lo) * (hi - lo)
	}
	return math.Sqrt(d)
}

func boundingAxis(st *Structure, a int) (lo, hi float64) {
	lo = st.coords.At(0, a)
	hi = lo
	for i := 1; i < st.Len(); i++ {
		v := st.coords.At(i, a)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
