/*
 * boop.go, part of goglass.
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

//Bond-orientational order parameters (Steinhardt et al.): the weighted
//spherical-harmonic averages q_lm over an atom's bonds, the rotation
//invariants Q_l and the normalized third-order invariants W_l built
//from them with Wigner 3-j symbols.

package glass

import (
	"math"
	"math/cmplx"
)

//Below this squared norm of the q_lm vector, the normalized W_l is
//numerically meaningless and becomes the missing sentinel. Symmetric
//shells cancel the vector down to rounding noise, many orders below
//this, while any physical q_lm norm sits many orders above.
const qNormFloor = 1e-24

//boopTable holds everything that depends only on the angular order l:
//spherical-harmonic normalization constants and the Wigner 3-j symbols
//(l l l; m1 m2 m3). Built once, read-only afterwards.
type boopTable struct {
	l    int
	norm []float64   //per m, 0..l
	w3j  [][]float64 //indexed [m1+l][m2+l], zero where |m3| > l
}

func newBoopTable(l int) *boopTable {
	lnf := lnFactorials(3*l + 1)
	tb := &boopTable{l: l}
	tb.norm = make([]float64, l+1)
	for m := 0; m <= l; m++ {
		tb.norm[m] = math.Sqrt(float64(2*l+1) / (4 * math.Pi) * math.Exp(lnf[l-m]-lnf[l+m]))
	}
	tb.w3j = make([][]float64, 2*l+1)
	for m1 := -l; m1 <= l; m1++ {
		tb.w3j[m1+l] = make([]float64, 2*l+1)
		for m2 := -l; m2 <= l; m2++ {
			if m3 := -m1 - m2; m3 >= -l && m3 <= l {
				tb.w3j[m1+l][m2+l] = wigner3jEqual(l, m1, m2, lnf)
			}
		}
	}
	return tb
}

func lnFactorials(n int) []float64 {
	r := make([]float64, n+1)
	for i := 2; i <= n; i++ {
		r[i] = r[i-1] + math.Log(float64(i))
	}
	return r
}

//wigner3jEqual evaluates the Wigner 3-j symbol (l l l; m1 m2 -m1-m2)
//by the Racah formula, with log-factorials so the intermediate
//factorials never overflow.
func wigner3jEqual(l, m1, m2 int, lnf []float64) float64 {
	m3 := -m1 - m2
	pref := 0.5 * (3*lnf[l] - lnf[3*l+1])
	pref += 0.5 * (lnf[l-m1] + lnf[l+m1] + lnf[l-m2] + lnf[l+m2] + lnf[l-m3] + lnf[l+m3])
	tmin := 0
	if -m1 > tmin {
		tmin = -m1
	}
	if m2 > tmin {
		tmin = m2
	}
	tmax := l
	if l-m1 < tmax {
		tmax = l - m1
	}
	if l+m2 < tmax {
		tmax = l + m2
	}
	sum := 0.0
	for t := tmin; t <= tmax; t++ {
		term := math.Exp(pref - lnf[t] - lnf[l-t] - lnf[l-m1-t] - lnf[l+m2-t] - lnf[m1+t] - lnf[t-m2])
		if t%2 != 0 {
			term = -term
		}
		sum += term
	}
	if m3%2 != 0 {
		sum = -sum
	}
	return sum
}

//sphHarmRow fills out[m] with Y_lm(theta, phi) for m = 0..l, including
//the Condon-Shortley phase. The associated Legendre values come from
//the usual stable recurrence, raising l at fixed m.
func (tb *boopTable) sphHarmRow(cosTheta, phi float64, out []complex128) {
	l := tb.l
	x := cosTheta
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	sinTheta := math.Sqrt(1 - x*x)
	for m := 0; m <= l; m++ {
		pmm := 1.0
		odd := 1.0
		for k := 1; k <= m; k++ {
			pmm *= -odd * sinTheta
			odd += 2
		}
		var p float64
		switch {
		case l == m:
			p = pmm
		case l == m+1:
			p = x * float64(2*m+1) * pmm
		default:
			prev := pmm
			cur := x * float64(2*m+1) * pmm
			for ll := m + 2; ll <= l; ll++ {
				next := (x*float64(2*ll-1)*cur - float64(ll+m-1)*prev) / float64(ll-m)
				prev = cur
				cur = next
			}
			p = cur
		}
		s, c := math.Sincos(float64(m) * phi)
		out[m] = complex(tb.norm[m]*p*c, tb.norm[m]*p*s)
	}
}

//qlmSum accumulates the weighted average q_lm = sum_j w_j Y_lm(d_j)
//over the edges into out, indexed m+l for m = -l..l. ylm is scratch
//space of length l+1.
func qlmSum(edges []Edge, tb *boopTable, ylm []complex128, out []complex128) {
	l := tb.l
	for i := range out {
		out[i] = 0
	}
	for _, e := range edges {
		ct := e.Disp.At(0, 2) / e.Dist
		phi := math.Atan2(e.Disp.At(0, 1), e.Disp.At(0, 0))
		tb.sphHarmRow(ct, phi, ylm)
		for m := 0; m <= l; m++ {
			t := complex(e.Weight, 0) * ylm[m]
			out[l+m] += t
			if m == 0 {
				continue
			}
			//Y_{l,-m} = (-1)^m conj(Y_lm)
			if m%2 == 0 {
				out[l-m] += cmplx.Conj(t)
			} else {
				out[l-m] -= cmplx.Conj(t)
			}
		}
	}
}

func qlmNormSq(q []complex128) float64 {
	s := 0.0
	for _, v := range q {
		s += real(v)*real(v) + imag(v)*imag(v)
	}
	return s
}

//steinhardtQ is the second-order invariant Q_l of a q_lm vector.
func steinhardtQ(q []complex128, l int) float64 {
	return math.Sqrt(4 * math.Pi / float64(2*l+1) * qlmNormSq(q))
}

//steinhardtW is the normalized third-order invariant W_l of a q_lm
//vector. When the vector norm underflows the normalization is
//meaningless and the missing sentinel is returned.
func steinhardtW(q []complex128, tb *boopTable) float64 {
	l := tb.l
	norm := qlmNormSq(q)
	if norm <= qNormFloor {
		return Missing
	}
	num := 0.0
	for m1 := -l; m1 <= l; m1++ {
		for m2 := -l; m2 <= l; m2++ {
			m3 := -m1 - m2
			if m3 < -l || m3 > l {
				continue
			}
			w := tb.w3j[m1+l][m2+l]
			if w == 0 {
				continue
			}
			num += w * real(q[m1+l]*q[m2+l]*q[m3+l])
		}
	}
	return num / math.Pow(norm, 1.5)
}
