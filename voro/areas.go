/*
 *   areas.go, part of goglass.
 *   Vertices, face polygons and face areas for Voronoi cells.
 *
 *
 *
 */
package voro

import (
	"math"
	"sort"

	v3 "github.com/rmera/goglass/v3"
	"gonum.org/v1/gonum/mat"
)

//One vertex of the cell.
type vertix struct {
	loc  *v3.Matrix
	dist float64 //distance to the site, i.e. the origin
	used bool    //belongs to at least one kept face
}

//findVertices returns the vertices of the region bounded by the planes:
//every intersection of three planes that no other plane cuts away from
//the origin, with coincident intersections merged into a single vertix.
//In a degenerate cell (four or more planes through one point) the same
//location comes up from several triples; merging keeps one.
func findVertices(planes []*VPlane, eps float64) []*vertix {
	Adata := make([]float64, 9)
	Ainvdata := make([]float64, 9)
	Cdata := make([]float64, 3)
	xdata := make([]float64, 3)
	xv := v3.Zeros(1)
	tmp := v3.Zeros(1)
	cr := v3.Zeros(1)
	verts := make([]*vertix, 0, 2*len(planes))
	K := len(planes)
	for i := 0; i < K; i++ {
		for j := i + 1; j < K; j++ {
			cr.Cross(planes[i].Normal, planes[j].Normal)
			if cr.Norm() <= appzero {
				continue //parallel planes never meet a third in a point
			}
			for k := j + 1; k < K; k++ {
				if !findVertex(planes[i], planes[j], planes[k], Adata, Ainvdata, Cdata, xdata) {
					continue
				}
				xv.Set(0, 0, xdata[0])
				xv.Set(0, 1, xdata[1])
				xv.Set(0, 2, xdata[2])
				if !valid(xv, planes, eps) {
					continue
				}
				verts = mergeVertix(verts, xv, eps, tmp)
			}
		}
	}
	return verts
}

//findVertex solves the intersection point of three planes into xdata.
//The other slices are scratch space, overwritten on every call. Returns
//false if the system is singular, meaning the planes never meet in a
//single point.
func findVertex(p1, p2, p3 *VPlane, Adata, Ainvdata, Cdata, xdata []float64) bool {
	for i, p := range []*VPlane{p1, p2, p3} {
		Adata[3*i] = p.Normal.At(0, 0)
		Adata[3*i+1] = p.Normal.At(0, 1)
		Adata[3*i+2] = p.Normal.At(0, 2)
		Cdata[i] = p.Distance
	}
	A := mat.NewDense(3, 3, Adata)
	Ainv := mat.NewDense(3, 3, Ainvdata)
	err := Ainv.Inverse(A)
	if err != nil {
		return false
	}
	C := mat.NewDense(3, 1, Cdata)
	res := mat.NewDense(3, 1, xdata)
	res.Mul(Ainv, C)
	return true
}

//valid reports whether x is on the origin side of every plane, within
//the relative tolerance. Vertices exactly on a further plane (tangent
//planes, degenerate cells) count as valid.
func valid(x *v3.Matrix, planes []*VPlane, eps float64) bool {
	slack := eps * (1 + x.Norm())
	for _, p := range planes {
		if p.signedDistance(x) > slack {
			return false
		}
	}
	return true
}

//mergeVertix appends a copy of x to the vertex list, unless a vertix
//within tolerance is already there.
func mergeVertix(verts []*vertix, x *v3.Matrix, eps float64, tmp *v3.Matrix) []*vertix {
	d := x.Norm()
	tol := eps * (1 + d)
	for _, v := range verts {
		tmp.Sub(x, v.loc)
		if tmp.Norm() <= tol {
			return verts
		}
	}
	loc := v3.Zeros(1)
	loc.Copy(x.Dense)
	return append(verts, &vertix{loc: loc, dist: d})
}

//onPlane returns the vertices lying on the given plane.
func onPlane(p *VPlane, verts []*vertix, eps float64) []*vertix {
	r := make([]*vertix, 0, 8)
	for _, v := range verts {
		if math.Abs(p.signedDistance(v.loc)) <= eps*(1+v.dist) {
			r = append(r, v)
		}
	}
	return r
}

//planeBasis returns two orthonormal vectors spanning the plane, built
//from the cartesian axis least aligned with the normal so the choice is
//deterministic.
func planeBasis(normal *v3.Matrix) (*v3.Matrix, *v3.Matrix) {
	ax := 0
	min := math.Abs(normal.At(0, 0))
	for i := 1; i < 3; i++ {
		if a := math.Abs(normal.At(0, i)); a < min {
			min = a
			ax = i
		}
	}
	e1 := v3.Zeros(1)
	e1.Set(0, ax, 1)
	tmp := v3.Zeros(1)
	tmp.Scale(e1.Dot(normal), normal)
	e1.Sub(e1, tmp)
	e1.Unit(e1)
	e2 := v3.Zeros(1)
	e2.Cross(normal, e1)
	return e1, e2
}

//polygonArea computes the area of the face polygon made by the given
//vertices on the given plane. The vertices are sorted by angle around
//the face centroid and the polygon is fanned into triangles from it.
func polygonArea(fv []*vertix, p *VPlane, tmp *v3.Matrix) float64 {
	center := v3.Zeros(1)
	for _, v := range fv {
		center.Add(center, v.loc)
	}
	center.Scale(1/float64(len(fv)), center)
	e1, e2 := planeBasis(p.Normal)
	type av struct {
		angle float64
		v     *vertix
	}
	order := make([]av, len(fv))
	u := v3.Zeros(1)
	for i, v := range fv {
		u.Sub(v.loc, center)
		order[i] = av{math.Atan2(u.Dot(e2), u.Dot(e1)), v}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].angle != order[j].angle {
			return order[i].angle < order[j].angle
		}
		return order[i].v.dist < order[j].v.dist
	})
	area := 0.0
	last := len(order) - 1
	for i := 0; i < last; i++ {
		area += herontriangleArea(order[i].v.loc, order[i+1].v.loc, center, tmp)
	}
	area += herontriangleArea(order[last].v.loc, order[0].v.loc, center, tmp)
	return area
}

func herontriangleArea(p1, p2, o, tmp *v3.Matrix) float64 {
	var a, b, c, s float64
	tmp.Sub(o, p1)
	a = tmp.Norm()
	tmp.Sub(p1, p2)
	b = tmp.Norm()
	tmp.Sub(p2, o)
	c = tmp.Norm()
	s = (a + b + c) / 2.0
	h := s * (s - a) * (s - b) * (s - c)
	if h < 0 { //flat triangles can give a small negative under roundoff
		h = 0
	}
	return math.Sqrt(h)
}
