/*
 * voronoi.go, part of goglass.
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

/**
voro builds the Voronoi cell of a single site against a set of candidate
neighbors, and measures its faces.

The construction is direct and rather brute-force: bisecting planes,
vertex candidates from every triple of planes, then a filter of each
vertex against every plane. Nothing from the sweep or incremental
algorithms of the computational-geometry literature, so the cost grows
steeply with the candidate count; keep candidate sets small. Still, the
result is exact up to floating point, and it does work in my tests.
**/

package voro

import (
	"fmt"

	v3 "github.com/rmera/goglass/v3"
)

const (
	defAreaEps           = 1e-8
	defVertexEps         = 1e-9
	appzero      float64 = 0.000000000001 //the same zero guard as the v3 package
)

//CellOptions holds the numerical tolerances for the cell construction.
type CellOptions struct {
	//Faces with area below AreaEps times the total cell area are
	//discarded, together with their candidate.
	AreaEps float64
	//Relative tolerance deciding when a vertex lies on a plane, and
	//when two vertices are the same. Degenerate cells (several planes
	//through one point, as in high-symmetry crystals) rely on it.
	VertexEps float64
}

//DefaultCellOptions returns the default tolerances.
func DefaultCellOptions() *CellOptions {
	return &CellOptions{AreaEps: defAreaEps, VertexEps: defVertexEps}
}

//VPlane is the plane bisecting the segment between the central site,
//at the origin, and one candidate neighbor.
type VPlane struct {
	Candidate int        //row of the candidate in the displacement matrix
	Distance  float64    //distance from the origin to the plane
	Normal    *v3.Matrix //unit normal, pointing from the origin to the candidate
}

//PlaneToCandidate builds the bisecting plane for the candidate at row i
//of disps. Returns nil for a zero-length displacement.
func PlaneToCandidate(disps *v3.Matrix, i int) *VPlane {
	d := disps.VecView(i)
	n := d.Norm()
	if n <= appzero {
		return nil
	}
	ret := &VPlane{Candidate: i, Distance: n / 2.0}
	ret.Normal = v3.Zeros(1)
	ret.Normal.Scale(1/n, d)
	return ret
}

//Parametric returns the plane equation Ax+By+Cz = D as A, B, C and D.
//A slice with at least 4 elements can be given to avoid the allocation.
func (V *VPlane) Parametric(parameters ...[]float64) []float64 {
	var pars []float64
	if len(parameters) >= 1 && len(parameters[0]) >= 4 {
		pars = parameters[0]
	} else {
		pars = make([]float64, 4)
	}
	pars[0] = V.Normal.At(0, 0)
	pars[1] = V.Normal.At(0, 1)
	pars[2] = V.Normal.At(0, 2)
	pars[3] = V.Distance //Normal is unit, so D is just the distance
	return pars
}

//signedDistance is positive on the candidate side of the plane.
func (V *VPlane) signedDistance(x *v3.Matrix) float64 {
	return V.Normal.Dot(x) - V.Distance
}

//Face is one facet of a Voronoi cell.
type Face struct {
	Candidate int     //row of the neighbor in the displacement matrix
	Area      float64 //facet area
	Edges     int     //number of polygon edges
	Dist      float64 //distance from the site to the facet plane
}

//Cell is the Voronoi cell of a site. Only candidates whose plane
//contributes a facet above the area threshold appear in Faces; Area and
//Volume are accumulated over those. MaxVertex is the distance from the
//site to its farthest vertex, needed to decide whether the candidate
//set was large enough. Closed reports whether the facets seal a bounded
//polyhedron; when false the candidate set does not surround the site
//and the other fields are not meaningful.
type Cell struct {
	Faces     []Face
	Volume    float64
	Area      float64
	MaxVertex float64
	Closed    bool
}

//ComputeCell builds the Voronoi cell of a site located at the origin,
//given the displacements to its candidate neighbors (one per row).
//Candidates whose bisecting plane cuts nothing simply contribute no
//face; an unbounded cell is returned with Closed == false rather than
//as an error.
func ComputeCell(disps *v3.Matrix, opts *CellOptions) (*Cell, error) {
	if disps == nil || disps.NVecs() == 0 {
		return nil, &Error{message: "voro: nil or empty candidate displacements", critical: true}
	}
	if opts == nil {
		opts = DefaultCellOptions()
	}
	K := disps.NVecs()
	planes := make([]*VPlane, K)
	for i := 0; i < K; i++ {
		p := PlaneToCandidate(disps, i)
		if p == nil {
			return nil, &Error{message: fmt.Sprintf("voro: candidate %d coincides with the central site", i), critical: true}
		}
		planes[i] = p
	}
	cell := &Cell{}
	verts := findVertices(planes, opts.VertexEps)
	for _, v := range verts {
		if v.dist > cell.MaxVertex {
			cell.MaxVertex = v.dist
		}
	}
	if len(verts) < 4 { //a bounded cell needs at least a tetrahedron
		return cell, nil
	}
	faces := make([]Face, 0, K)
	faceverts := make([][]*vertix, 0, K)
	tmp := v3.Zeros(1)
	for _, p := range planes {
		fv := onPlane(p, verts, opts.VertexEps)
		if len(fv) < 3 { //tangent planes touch at a point or an edge
			continue
		}
		faces = append(faces, Face{Candidate: p.Candidate, Area: polygonArea(fv, p, tmp), Edges: len(fv), Dist: p.Distance})
		faceverts = append(faceverts, fv)
	}
	total := 0.0
	for _, f := range faces {
		total += f.Area
	}
	if total <= 0 {
		return cell, nil
	}
	thr := opts.AreaEps * total
	kept := make([]Face, 0, len(faces))
	edgesum := 0
	for i, f := range faces {
		if f.Area <= thr {
			continue
		}
		kept = append(kept, f)
		cell.Area += f.Area
		cell.Volume += f.Area * f.Dist / 3.0
		edgesum += f.Edges
		for _, v := range faceverts[i] {
			v.used = true
		}
	}
	nv := 0
	for _, v := range verts {
		if v.used {
			nv++
		}
	}
	cell.Faces = kept
	//Euler's formula for a sealed polyhedron, with each facet edge
	//shared by exactly two facets.
	cell.Closed = len(kept) >= 4 && edgesum%2 == 0 && nv-edgesum/2+len(kept) == 2
	return cell, nil
}

//Error is the error type for the package. It implements the error
//interface of the parent library.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err *Error) Error() string { return err.message }

//Decorate adds the given string to the decoration of the error, and
//returns the current decoration.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical reports whether the error is critical.
func (err *Error) Critical() bool { return err.critical }
