/*
 * options.go, part of goglass.
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
	"os"
	"runtime"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml"
)

//Neighbor strategies.
const (
	//Cutoff takes as neighbors all atoms within a fixed radius, with
	//uniform weights.
	Cutoff = "cutoff"
	//Polyhedral takes as neighbors the atoms sharing a Voronoi facet
	//with the central atom, weighted by facet area.
	Polyhedral = "polyhedral"
)

//Options contains the options for a featurization run. It can be
//filled by hand, but the normal way is to obtain one from
//DefaultOptions or ReadOptions and change what is needed.
type Options struct {
	//The neighbor strategy, Cutoff or Polyhedral.
	Strategy string `toml:"neighbor_strategy"`
	//Neighbor cutoff radius, in the units of the coordinates.
	//Required (and only used) by the Cutoff strategy.
	CutoffRadius float64 `toml:"cutoff_radius"`
	//Angular orders l for the bond-orientational order parameters.
	AngularOrders []int `toml:"angular_orders"`
	//Number of bins for the bond-angle histogram over [0,pi].
	HistogramBins int `toml:"histogram_bins"`
	//Periodic axes, a subset of "xyz", or "none". When non-empty it
	//overrides the periodicity flags of the Box for the whole run.
	PeriodicAxes string `toml:"periodic_axes"`
	//Number of worker goroutines.
	Cpus int `toml:"cpus"`
	//If true, an atom with no neighbors gets an all-sentinel feature
	//row instead of aborting the run.
	SkipIsolated bool `toml:"skip_isolated"`
	//If true, coarse-grained bond order parameters (the average of
	//each q_lm over the atom and its neighbors) are appended to the
	//medium-range section.
	CoarseGrained bool `toml:"coarse_grained"`
	//Initial candidate search radius for the Polyhedral strategy.
	//0 means a guess from the atom density. The search radius grows as
	//needed either way, so this only affects performance.
	VoronoiSearchRadius float64 `toml:"voronoi_search_radius"`
	//Smallest and largest facet edge count tracked by the Voronoi
	//index signature.
	EdgeMin int `toml:"edge_min"`
	EdgeMax int `toml:"edge_max"`
	//If true, facets with more than EdgeMax edges count into the
	//EdgeMax bin. If false they are left out of the signature.
	IncludeBeyondEdgeMax bool `toml:"include_beyond_edge_max"`
	//Per-species radii overriding the built-in table, for the packing
	//efficiency feature.
	Radii map[string]float64 `toml:"radii"`
}

//DefaultOptions returns an Options with the default values for each
//field: the polyhedral strategy, angular orders 4, 6, 8 and 10, 12
//histogram bins, Voronoi signature edges 3 to 7 (folding larger facets
//into the last bin) and as many workers as CPUs. The remaining fields
//default to zero values.
func DefaultOptions() *Options {
	O := new(Options)
	O.Strategy = Polyhedral
	O.AngularOrders = []int{4, 6, 8, 10}
	O.HistogramBins = 12
	O.Cpus = runtime.NumCPU()
	O.EdgeMin = 3
	O.EdgeMax = 7
	O.IncludeBeyondEdgeMax = true
	return O
}

//ReadOptions reads options from a TOML file, on top of the defaults,
//and validates them. Keys absent from the file keep their default
//values.
func ReadOptions(path string) (*Options, error) {
	O := DefaultOptions()
	f, err := os.Open(path)
	if err != nil {
		return nil, &CError{msg: fmt.Sprintf("goglass: failed to open options file: %s", err.Error())}
	}
	defer f.Close()
	err = toml.NewDecoder(f).Decode(O)
	if err != nil {
		return nil, &CError{msg: fmt.Sprintf("goglass: failed to parse %s: %s", path, err.Error())}
	}
	err = O.Check()
	if err != nil {
		return nil, errDecorate(err, "ReadOptions "+path)
	}
	return O, nil
}

//Check validates the options, normalizing them in place: angular
//orders are sorted and deduplicated, and Cpus is clamped to at least
//one. It is called by NewFeaturizer, so the user rarely needs to.
func (O *Options) Check() error {
	if O == nil {
		return &CError{msg: "goglass: nil options"}
	}
	switch O.Strategy {
	case Cutoff:
		if O.CutoffRadius <= 0 || math.IsNaN(O.CutoffRadius) || math.IsInf(O.CutoffRadius, 0) {
			return NewGeometryError("goglass: the %s strategy needs cutoff_radius > 0, got %v", Cutoff, O.CutoffRadius)
		}
	case Polyhedral:
		if O.VoronoiSearchRadius < 0 || math.IsNaN(O.VoronoiSearchRadius) {
			return &CError{msg: fmt.Sprintf("goglass: voronoi_search_radius must be >= 0, got %v", O.VoronoiSearchRadius)}
		}
	default:
		return &CError{msg: fmt.Sprintf("goglass: unknown neighbor strategy %q", O.Strategy)}
	}
	for _, l := range O.AngularOrders {
		if l < 1 {
			return &CError{msg: fmt.Sprintf("goglass: angular orders must be positive, got %d", l)}
		}
	}
	sort.Ints(O.AngularOrders)
	O.AngularOrders = dedupInts(O.AngularOrders)
	if O.HistogramBins < 1 {
		return &CError{msg: fmt.Sprintf("goglass: histogram_bins must be at least 1, got %d", O.HistogramBins)}
	}
	if _, _, err := parseAxes(O.PeriodicAxes); err != nil {
		return err
	}
	if O.Cpus < 1 {
		O.Cpus = 1
	}
	if O.Strategy == Polyhedral {
		if O.EdgeMin < 3 {
			return &CError{msg: fmt.Sprintf("goglass: edge_min must be at least 3, got %d", O.EdgeMin)}
		}
		if O.EdgeMax < O.EdgeMin {
			return &CError{msg: fmt.Sprintf("goglass: edge_max (%d) smaller than edge_min (%d)", O.EdgeMax, O.EdgeMin)}
		}
	}
	for s, r := range O.Radii {
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return &CError{msg: fmt.Sprintf("goglass: radius for %q must be positive, got %v", s, r)}
		}
	}
	return nil
}

//depName is the column-name suffix identifying the neighbor strategy
//("voro" for the polyhedral strategy).
func (O *Options) depName() string {
	if O.Strategy == Cutoff {
		return Cutoff
	}
	return "voro"
}

//parseAxes parses a periodic-axes string. It returns the per-axis
//flags and whether the string overrides the Box flags at all (an empty
//string does not; "none" overrides with no periodic axis).
func parseAxes(axes string) (flags [3]bool, set bool, err error) {
	if axes == "" {
		return flags, false, nil
	}
	if axes == "none" {
		return flags, true, nil
	}
	for _, c := range strings.ToLower(axes) {
		var i int
		switch c {
		case 'x':
			i = 0
		case 'y':
			i = 1
		case 'z':
			i = 2
		default:
			return flags, false, &CError{msg: fmt.Sprintf("goglass: periodic_axes must be a subset of \"xyz\" or \"none\", got %q", axes)}
		}
		if flags[i] {
			return flags, false, &CError{msg: fmt.Sprintf("goglass: repeated axis in periodic_axes %q", axes)}
		}
		flags[i] = true
	}
	return flags, true, nil
}

//boxFor applies the periodic-axes override, if any, to the box of the
//given structure, returning a structure guaranteed to match the
//options.
func (O *Options) boxFor(st *Structure) (*Structure, error) {
	flags, set, err := parseAxes(O.PeriodicAxes)
	if err != nil {
		return nil, err
	}
	if !set || flags == st.Box().Periodic() {
		return st, nil
	}
	return st.withBox(st.Box().withPeriodic(flags)), nil
}

func dedupInts(s []int) []int {
	if len(s) < 2 {
		return s
	}
	r := s[:1]
	for _, v := range s[1:] {
		if v != r[len(r)-1] {
			r = append(r, v)
		}
	}
	return r
}
