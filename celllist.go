/*
 * celllist.go, part of goglass.
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
	"sort"
)

//Below this many atoms a plain O(N^2) scan beats building a grid.
const cellListMin = 64

//Relative slack on distance comparisons, so that atoms sitting exactly
//on a cutoff sphere are included.
const cutoffSlack = 1e-12

//cellList is a linked-cell grid over the fractional coordinates of a
//structure. It only accelerates fully periodic boxes; for anything
//else, or for small systems, it degrades to the brute-force scan and
//stays correct. Queries at any radius are supported, visiting as many
//cell shells as the radius requires.
type cellList struct {
	st    *Structure
	box   *Box
	ok    bool //grid built; false means brute force
	n     [3]int
	cells [][]int
	cidx  [][3]int //cell of each atom
}

//newCellList prepares a neighbor-candidate index for the structure.
//width is the expected query radius, used only to size the cells.
func newCellList(st *Structure, width float64) *cellList {
	c := &cellList{st: st, box: st.Box()}
	p := c.box.Periodic()
	if !p[0] || !p[1] || !p[2] || st.Len() < cellListMin || width <= 0 {
		return c
	}
	h := c.box.Heights()
	total := 1
	for a := 0; a < 3; a++ {
		c.n[a] = int(h[a] / width)
		if c.n[a] < 1 {
			c.n[a] = 1
		}
		total *= c.n[a]
	}
	if total < 8 {
		return c
	}
	c.cells = make([][]int, total)
	c.cidx = make([][3]int, st.Len())
	for i := 0; i < st.Len(); i++ {
		var cell [3]int
		for a := 0; a < 3; a++ {
			f := c.frac(i, a)
			f -= math.Floor(f)
			k := int(f * float64(c.n[a]))
			if k >= c.n[a] { //f can round up to 1.0
				k = c.n[a] - 1
			}
			cell[a] = k
		}
		c.cidx[i] = cell
		fi := c.flat(cell)
		c.cells[fi] = append(c.cells[fi], i)
	}
	c.ok = true
	return c
}

//frac returns fractional coordinate j of atom i, unwrapped.
func (c *cellList) frac(i, j int) float64 {
	x := c.st.coords.At(i, 0)
	y := c.st.coords.At(i, 1)
	z := c.st.coords.At(i, 2)
	return x*c.box.inv.At(0, j) + y*c.box.inv.At(1, j) + z*c.box.inv.At(2, j)
}

func (c *cellList) flat(cell [3]int) int {
	return (cell[0]*c.n[1]+cell[1])*c.n[2] + cell[2]
}

//within returns the indices of all atoms other than atom whose
//minimum-image distance to it is at most r (closed boundary, with a
//small relative slack). The result is sorted ascending. buf, which may
//be nil, is reused for the result.
func (c *cellList) within(atom int, r float64, buf []int) []int {
	out := buf[:0]
	if !c.ok {
		return c.brute(atom, r, out)
	}
	rr := r * (1 + cutoffSlack)
	rr *= rr
	h := c.box.Heights()
	var k [3]int
	for a := 0; a < 3; a++ {
		k[a] = int(r*float64(c.n[a])/h[a]) + 1
	}
	xi := c.st.coords.At(atom, 0)
	yi := c.st.coords.At(atom, 1)
	zi := c.st.coords.At(atom, 2)
	home := c.cidx[atom]
	var cell [3]int
	for _, dx := range shellRange(home[0], k[0], c.n[0]) {
		cell[0] = dx
		for _, dy := range shellRange(home[1], k[1], c.n[1]) {
			cell[1] = dy
			for _, dz := range shellRange(home[2], k[2], c.n[2]) {
				cell[2] = dz
				for _, j := range c.cells[c.flat(cell)] {
					if j == atom {
						continue
					}
					dxc, dyc, dzc := c.box.minImageXYZ(c.st.coords.At(j, 0)-xi, c.st.coords.At(j, 1)-yi, c.st.coords.At(j, 2)-zi)
					if dxc*dxc+dyc*dyc+dzc*dzc <= rr {
						out = append(out, j)
					}
				}
			}
		}
	}
	sort.Ints(out)
	return out
}

//brute is the fallback scan over every atom pair.
func (c *cellList) brute(atom int, r float64, out []int) []int {
	rr := r * (1 + cutoffSlack)
	rr *= rr
	xi := c.st.coords.At(atom, 0)
	yi := c.st.coords.At(atom, 1)
	zi := c.st.coords.At(atom, 2)
	for j := 0; j < c.st.Len(); j++ {
		if j == atom {
			continue
		}
		dx, dy, dz := c.box.minImageXYZ(c.st.coords.At(j, 0)-xi, c.st.coords.At(j, 1)-yi, c.st.coords.At(j, 2)-zi)
		if dx*dx+dy*dy+dz*dz <= rr {
			out = append(out, j)
		}
	}
	return out
}

//shellRange lists the distinct cell indices along one axis within k
//cells of center, with periodic wrap. When the shell spans the whole
//axis every cell appears exactly once.
func shellRange(center, k, n int) []int {
	if 2*k+1 >= n {
		r := make([]int, n)
		for i := range r {
			r[i] = i
		}
		return r
	}
	r := make([]int, 0, 2*k+1)
	for d := -k; d <= k; d++ {
		c := (center + d) % n
		if c < 0 {
			c += n
		}
		r = append(r, c)
	}
	return r
}
