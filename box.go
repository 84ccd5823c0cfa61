/*
 * box.go, part of goglass.
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

	v3 "github.com/rmera/goglass/v3"
	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//degeneracyTol is the relative determinant below which a box is considered
//degenerate (lattice vectors linearly dependent for any practical purpose).
const degeneracyTol = 1e-10

//Box represents a simulation cell: three lattice vectors and a periodicity
//flag per axis. The lattice vectors are the rows of a 3x3 matrix, so a point
//with fractional coordinates f has cartesian coordinates f*M. Orthorhombic
//boxes (diagonal M) get a faster minimum-image path. A Box is immutable
//after construction.
type Box struct {
	vecs     *v3.Matrix
	inv      *mat.Dense
	periodic [3]bool
	det      float64
	heights  [3]float64
	ortho    bool
}

//NewBox builds a Box from the given 3 lattice vectors (the rows of vecs).
//If no periodicity flags are given, the box is periodic on all axes.
//It returns a GeometryError if the box is degenerate: non-finite entries,
//or a determinant below 1e-10 relative to the lattice vector norms.
func NewBox(vecs *v3.Matrix, periodic ...[3]bool) (*Box, error) {
	if vecs == nil {
		return nil, NewGeometryError("goglass: nil lattice vectors")
	}
	if r, c := vecs.Dims(); r != 3 || c != 3 {
		return nil, NewGeometryError("goglass: lattice matrix must be 3x3, got %dx%d", r, c)
	}
	b := new(Box)
	b.vecs = v3.Zeros(3)
	b.vecs.Copy(vecs.Dense)
	b.periodic = [3]bool{true, true, true}
	if len(periodic) > 0 {
		b.periodic = periodic[0]
	}
	scale := 1.0
	for i := 0; i < 3; i++ {
		n := b.vecs.VecView(i).Norm()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, NewGeometryError("goglass: non-finite lattice vector %d", i)
		}
		scale *= n
	}
	b.det = det3(b.vecs)
	if scale <= 0 || math.Abs(b.det) < degeneracyTol*scale {
		return nil, NewGeometryError("goglass: degenerate box, determinant %g for lattice vector norm product %g", b.det, scale)
	}
	//Perpendicular heights: V / area of the face spanned by the other two vectors.
	cr := v3.Zeros(1)
	for i := 0; i < 3; i++ {
		cr.Cross(b.vecs.VecView((i+1)%3), b.vecs.VecView((i+2)%3))
		b.heights[i] = math.Abs(b.det) / cr.Norm()
	}
	b.ortho = isDiagonal(b.vecs)
	b.inv = mat.NewDense(3, 3, nil)
	if err := b.inv.Inverse(b.vecs.Dense); err != nil {
		return nil, NewGeometryError("goglass: cannot invert lattice matrix: %v", err)
	}
	return b, nil
}

//NewOrthoBox builds an orthorhombic Box with edge lengths x, y and z.
func NewOrthoBox(x, y, z float64, periodic ...[3]bool) (*Box, error) {
	vecs, err := v3.NewMatrix([]float64{x, 0, 0, 0, y, 0, 0, 0, z})
	if err != nil {
		return nil, errDecorate(err, "NewOrthoBox")
	}
	return NewBox(vecs, periodic...)
}

//NewCubicBox builds a cubic Box with edge length l.
func NewCubicBox(l float64, periodic ...[3]bool) (*Box, error) {
	return NewOrthoBox(l, l, l, periodic...)
}

//Vecs returns a copy of the lattice vectors, as the rows of a 3x3 matrix.
func (b *Box) Vecs() *v3.Matrix {
	r := v3.Zeros(3)
	r.Copy(b.vecs.Dense)
	return r
}

//Periodic returns the per-axis periodicity flags.
func (b *Box) Periodic() [3]bool { return b.periodic }

//Ortho returns whether the box is orthorhombic (axis-aligned diagonal
//lattice matrix), which enables the fast minimum-image path.
func (b *Box) Ortho() bool { return b.ortho }

//Volume returns the volume of the box.
func (b *Box) Volume() float64 { return math.Abs(b.det) }

//Heights returns the perpendicular distance between the two faces of the
//box normal to each lattice direction. For an orthorhombic box these are
//just the edge lengths.
func (b *Box) Heights() [3]float64 { return b.heights }

//MaxCutoff returns the largest cutoff radius for which the minimum-image
//convention returns every neighbor within the cutoff exactly once: half
//the smallest perpendicular height over the periodic axes. It returns
//+Inf for a fully non-periodic box.
func (b *Box) MaxCutoff() float64 {
	r := math.Inf(1)
	for i := 0; i < 3; i++ {
		if b.periodic[i] && b.heights[i]/2 < r {
			r = b.heights[i] / 2
		}
	}
	return r
}

//withPeriodic returns a Box sharing the geometry of b but with the given
//periodicity flags. Used when the configuration overrides the flags the
//structure was loaded with.
func (b *Box) withPeriodic(p [3]bool) *Box {
	if p == b.periodic {
		return b
	}
	nb := new(Box)
	*nb = *b
	nb.periodic = p
	return nb
}

//minImageXYZ reduces the raw cartesian difference (dx,dy,dz) to its
//minimum image. This is the hot inner primitive, so it works on scalars
//rather than matrices.
func (b *Box) minImageXYZ(dx, dy, dz float64) (float64, float64, float64) {
	if !b.periodic[0] && !b.periodic[1] && !b.periodic[2] {
		return dx, dy, dz
	}
	if b.ortho {
		if b.periodic[0] {
			l := b.vecs.At(0, 0)
			dx -= l * math.Round(dx/l)
		}
		if b.periodic[1] {
			l := b.vecs.At(1, 1)
			dy -= l * math.Round(dy/l)
		}
		if b.periodic[2] {
			l := b.vecs.At(2, 2)
			dz -= l * math.Round(dz/l)
		}
		return dx, dy, dz
	}
	//Triclinic: wrap the fractional difference into [-0.5, 0.5) per
	//periodic axis, then search the neighboring images. For reduced
	//cells the +-1 shifts are enough; ties go to the first candidate
	//in the fixed iteration order, which keeps results deterministic.
	var f [3]float64
	for j := 0; j < 3; j++ {
		f[j] = dx*b.inv.At(0, j) + dy*b.inv.At(1, j) + dz*b.inv.At(2, j)
		if b.periodic[j] {
			f[j] -= math.Round(f[j])
		}
	}
	lo, hi := [3]int{0, 0, 0}, [3]int{0, 0, 0}
	for j := 0; j < 3; j++ {
		if b.periodic[j] {
			lo[j], hi[j] = -1, 1
		}
	}
	best := math.Inf(1)
	var bx, by, bz float64
	for sa := lo[0]; sa <= hi[0]; sa++ {
		for sb := lo[1]; sb <= hi[1]; sb++ {
			for sc := lo[2]; sc <= hi[2]; sc++ {
				fa, fb, fc := f[0]+float64(sa), f[1]+float64(sb), f[2]+float64(sc)
				cx := fa*b.vecs.At(0, 0) + fb*b.vecs.At(1, 0) + fc*b.vecs.At(2, 0)
				cy := fa*b.vecs.At(0, 1) + fb*b.vecs.At(1, 1) + fc*b.vecs.At(2, 1)
				cz := fa*b.vecs.At(0, 2) + fb*b.vecs.At(1, 2) + fc*b.vecs.At(2, 2)
				d2 := cx*cx + cy*cy + cz*cz
				if d2 < best {
					best = d2
					bx, by, bz = cx, cy, cz
				}
			}
		}
	}
	return bx, by, bz
}

//MinImage puts in dst the displacement from p1 to p2 under the
//minimum-image convention: for each periodic axis the image of p2
//minimizing the Euclidean distance is chosen, non-periodic axes use the
//raw cartesian difference. If dst is nil a new vector is allocated.
//dst is also returned.
func (b *Box) MinImage(dst, p1, p2 *v3.Matrix) *v3.Matrix {
	if dst == nil {
		dst = v3.Zeros(1)
	}
	dx, dy, dz := b.minImageXYZ(p2.At(0, 0)-p1.At(0, 0), p2.At(0, 1)-p1.At(0, 1), p2.At(0, 2)-p1.At(0, 2))
	dst.Set(0, 0, dx)
	dst.Set(0, 1, dy)
	dst.Set(0, 2, dz)
	return dst
}

//DistanceSq returns the squared minimum-image distance between p1 and p2.
func (b *Box) DistanceSq(p1, p2 *v3.Matrix) float64 {
	dx, dy, dz := b.minImageXYZ(p2.At(0, 0)-p1.At(0, 0), p2.At(0, 1)-p1.At(0, 1), p2.At(0, 2)-p1.At(0, 2))
	return dx*dx + dy*dy + dz*dz
}

//Distance returns the minimum-image distance between p1 and p2.
func (b *Box) Distance(p1, p2 *v3.Matrix) float64 {
	return math.Sqrt(b.DistanceSq(p1, p2))
}

//Angle returns the angle between vectors v1 and v2, in radians, in [0, pi].
func Angle(v1, v2 *v3.Matrix) float64 {
	normproduct := v1.Norm() * v2.Norm()
	dotprod := v1.Dot(v2)
	argument := dotprod / normproduct
	//Take care of floating point math errors
	if math.Abs(argument-1) <= appzero {
		argument = 1
	} else if math.Abs(argument+1) <= appzero {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

//det3 returns the determinant of a 3x3 matrix.
func det3(A *v3.Matrix) float64 {
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

//isDiagonal reports whether the off-diagonal entries of the lattice matrix
//are negligible against its diagonal.
func isDiagonal(A *v3.Matrix) bool {
	scale := math.Abs(A.At(0, 0)) + math.Abs(A.At(1, 1)) + math.Abs(A.At(2, 2))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i != j && math.Abs(A.At(i, j)) > appzero*scale {
				return false
			}
		}
	}
	return true
}
