/*
 * structure.go, part of goglass.
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

	v3 "github.com/rmera/goglass/v3"
)

/**Note: some functions here panic instead of returning errors. This is because they are
 * "fundamental" functions. I considered that if something goes wrong here, the program is
 * way-most likely wrong and should crash. Most panics are related to using the function on
 * a nil object or trying to access out-of-bounds fields.**/

//Atom contains the identity of an atomic site except for the coordinates,
//which are kept in a matrix owned by the Structure.
type Atom struct {
	Index  int    //dense index in the Structure, 0..N-1
	Symbol string //species label, e.g. "Cu", "Zr"
	Tag    int    //for anything integer the caller might want to keep, e.g. an id from the source file
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	Newat := new(Atom)
	Newat.Index = A.Index
	Newat.Symbol = A.Symbol
	Newat.Tag = A.Tag
	return Newat
}

//Sites is the basic interface for an ordered set of atomic sites.
type Sites interface {

	//Atom returns the Atom corresponding to the index i.
	//Should panic if out of range.
	Atom(i int) *Atom

	Len() int
}

//Structure is one atomic configuration: an ordered set of atoms, their
//cartesian coordinates and the simulation box. Atom indices are dense
//(0..N-1) and unique by construction. A Structure is read-only after
//construction; no function in this library mutates it.
type Structure struct {
	atoms  []*Atom
	coords *v3.Matrix
	box    *Box
}

//NewStructure builds a Structure from a set of cartesian coordinates (one
//vector per atom), the corresponding species symbols and a valid Box. The
//coordinates are copied. Coordinates may lie outside the primary cell;
//minimum-image arithmetic does not require wrapped positions.
func NewStructure(coords *v3.Matrix, symbols []string, box *Box) (*Structure, error) {
	if coords == nil {
		return nil, &CError{msg: "goglass: nil coordinates"}
	}
	if box == nil {
		return nil, NewGeometryError("goglass: nil box")
	}
	n := coords.NVecs()
	if n == 0 {
		return nil, &CError{msg: "goglass: a structure needs at least one atom"}
	}
	if len(symbols) != n {
		return nil, &CError{msg: fmt.Sprintf("goglass: %d coordinates but %d species symbols", n, len(symbols))}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			if v := coords.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &CError{msg: fmt.Sprintf("goglass: non-finite coordinate for atom %d", i)}
			}
		}
	}
	S := new(Structure)
	S.coords = v3.Zeros(n)
	S.coords.Copy(coords.Dense)
	S.atoms = make([]*Atom, n)
	for i := 0; i < n; i++ {
		S.atoms[i] = &Atom{Index: i, Symbol: symbols[i]}
	}
	S.box = box
	return S, nil
}

//Len returns the number of atoms in the structure.
func (S *Structure) Len() int { return len(S.atoms) }

//Atom returns the Atom with index i. Panics if out of range.
func (S *Structure) Atom(i int) *Atom {
	if i < 0 || i >= len(S.atoms) {
		panic("goglass: atom index out of range")
	}
	return S.atoms[i]
}

//Coord returns a view of the coordinates of atom i. The view must be
//treated as read-only. Panics if out of range.
func (S *Structure) Coord(i int) *v3.Matrix {
	if i < 0 || i >= len(S.atoms) {
		panic("goglass: atom index out of range")
	}
	return S.coords.VecView(i)
}

//Coords returns a copy of the full coordinate matrix, one vector per atom.
func (S *Structure) Coords() *v3.Matrix {
	r := v3.Zeros(len(S.atoms))
	r.Copy(S.coords.Dense)
	return r
}

//Box returns the simulation box.
func (S *Structure) Box() *Box { return S.box }

//Species returns the species symbols, one per atom, in atom order.
func (S *Structure) Species() []string {
	r := make([]string, len(S.atoms))
	for i, at := range S.atoms {
		r[i] = at.Symbol
	}
	return r
}

//withBox returns a Structure sharing atoms and coordinates with S but
//using the given box. Used when the configuration overrides the
//periodicity flags.
func (S *Structure) withBox(b *Box) *Structure {
	if b == S.box {
		return S
	}
	return &Structure{atoms: S.atoms, coords: S.coords, box: b}
}
