/*
 * featplot.go, part of goglass.
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

//Package featplot draws quick-look plots of feature matrices: the
//distribution of one column, possibly restricted to some species, or
//one column against another. Everything goes to PNG files.
package featplot

import (
	"fmt"
	"image/color"

	glass "github.com/rmera/goglass"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//Histogram plots the distribution of vals into bins bars and saves it
//as plotname.png. Missing values are left out; the X label says how
//many were.
func Histogram(vals []float64, bins int, title, plotname string) error {
	if vals == nil {
		return fmt.Errorf("featplot: given nil data")
	}
	vs := make(plotter.Values, 0, len(vals))
	for _, v := range vals {
		if !glass.IsMissing(v) {
			vs = append(vs, v)
		}
	}
	if len(vs) == 0 {
		return fmt.Errorf("featplot: only missing values in the data")
	}
	xlabel := "value"
	if dropped := len(vals) - len(vs); dropped > 0 {
		xlabel = fmt.Sprintf("value (%d missing dropped)", dropped)
	}
	p := basicPlot(title, xlabel, "count")
	h, err := plotter.NewHist(vs, bins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(5*vg.Inch, 4*vg.Inch, fmt.Sprintf("%s.png", plotname))
}

//ColumnHistogram plots the distribution of the named column of a
//feature matrix.
func ColumnHistogram(m *glass.FeatureMatrix, col string, bins int, plotname string) error {
	vals, err := m.Col(col)
	if err != nil {
		return err
	}
	return Histogram(vals, bins, col, plotname)
}

//SpeciesColumnHistogram is ColumnHistogram restricted to the atoms of
//the given species.
func SpeciesColumnHistogram(m *glass.FeatureMatrix, col string, species []string, bins int, plotname string) error {
	vals, err := m.Col(col)
	if err != nil {
		return err
	}
	sp := m.Species()
	keep := make([]float64, 0, len(vals))
	for i, v := range vals {
		if isInString(species, sp[i]) {
			keep = append(keep, v)
		}
	}
	if len(keep) == 0 {
		return fmt.Errorf("featplot: no atoms of the species %v", species)
	}
	return Histogram(keep, bins, col, plotname)
}

//Scatter plots the ycol column of a feature matrix against the xcol
//column, one point per atom with both values present, and saves it as
//plotname.png.
func Scatter(m *glass.FeatureMatrix, xcol, ycol, plotname string) error {
	xs, err := m.Col(xcol)
	if err != nil {
		return err
	}
	ys, err := m.Col(ycol)
	if err != nil {
		return err
	}
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if glass.IsMissing(xs[i]) || glass.IsMissing(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return fmt.Errorf("featplot: no atoms with both %s and %s present", xcol, ycol)
	}
	p := basicPlot(fmt.Sprintf("%s vs %s", ycol, xcol), xcol, ycol)
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(s)
	return p.Save(5*vg.Inch, 4*vg.Inch, fmt.Sprintf("%s.png", plotname))
}
