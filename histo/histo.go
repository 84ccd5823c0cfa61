/*
 * histo.go, part of goglass.
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

//Package histo implements plain fixed-divider histograms.
package histo

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

//Data is one histogram: bin dividers, per-bin counts and a flag telling
//whether the counts are normalized to fractions.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

//NewData returns a new histogram with the given dividers, filled with
//rawdata. rawdata can be nil, in which case an empty histogram is
//created. If an ID for the histogram is given, it will be set. If not,
//the ID will be set to -1.
func NewData(dividers, rawdata []float64, ID ...int) *Data {
	if len(dividers) < 2 {
		panic("goglass/histo: at least 2 dividers needed")
	}
	d := new(Data)
	//I prefer to copy the slice to avoid somebody changing it from outside
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	if rawdata != nil {
		d.AddData(rawdata...)
	}
	return d
}

//NewUniform returns an empty histogram of n equal-width bins covering
//[min, max].
func NewUniform(min, max float64, n int) *Data {
	if n < 1 || max <= min {
		panic("goglass/histo: need at least 1 bin and max > min")
	}
	return NewData(floats.Span(make([]float64, n+1), min, max), nil)
}

//AddData adds the given data point(s) to the histogram. Bins are closed
//on the left; the last bin is also closed on the right, so a point
//exactly at the last divider is counted there. Points outside the
//dividers are omitted, and do not count into the total.
func (D *Data) AddData(point ...float64) {
	var norma bool
	if D.normalized {
		norma = true
		D.UnNormalize()
	}
	last := len(D.dividers) - 1
	for _, v := range point {
		for j := 0; j < last; j++ {
			if (v >= D.dividers[j] && v < D.dividers[j+1]) || (j == last-1 && v == D.dividers[last]) {
				D.histo[j]++
				D.total++
				break
			}
		}
	}
	//if it was normalized, we should return it to that state
	if norma {
		D.Normalize()
	}
}

//ID returns the ID of the histogram.
func (D *Data) ID() int {
	return D.id
}

//Normalized returns true if the histogram is normalized.
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize normalizes the histogram, so the bins sum to 1.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize un-normalizes the histogram, back to raw counts.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

//normalizes or un-normalizes the histogram depending
//on whether normalize is true
func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

//Fractions returns the bins as fractions of the total, without changing
//the state of the histogram. An empty histogram yields all zeros.
func (D *Data) Fractions(dest ...[]float64) []float64 {
	d := D.Copy(dest...)
	if D.total > 0 && !D.normalized {
		floats.Scale(1/float64(D.total), d)
	}
	return d
}

//CopyDividers copies the dividers of the histogram.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	return floats.ScaleTo(d, 1, D.dividers)
}

//Copy copies the bins of the histogram.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	return floats.ScaleTo(d, 1, D.histo)
}

//View returns the bins themselves. Changes to the returned slice are
//seen by the histogram.
func (D *Data) View() []float64 {
	return D.histo
}

//Sum returns the sum of the bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//Total returns the number of points counted into the histogram.
func (D *Data) Total() int {
	return D.total
}

//String prints a -hopefully- pretty string representation of
//the histogram. The representation uses 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.dividers)-1)
	h := make([]string, 0, len(D.dividers)-1)
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) >= N {
		d = dest[0]
		if len(dest[0]) > N {
			d = dest[0][:N] //floats.ScaleTo wants both slices to _match_
		}
	} else {
		d = make([]float64, N)
	}
	return d
}
