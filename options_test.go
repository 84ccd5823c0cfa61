/*
 * options_test.go, part of goglass.
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
	"os"
	"path/filepath"
	"testing"
)

func TestReadOptions(Te *testing.T) {
	content := `neighbor_strategy = "cutoff"
cutoff_radius = 3.2
angular_orders = [6, 4, 6]
histogram_bins = 18
periodic_axes = "xy"
cpus = 2
skip_isolated = true
coarse_grained = true

[radii]
X = 1.5
`
	path := filepath.Join(Te.TempDir(), "opts.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	o, err := ReadOptions(path)
	if err != nil {
		Te.Fatal(err)
	}
	if o.Strategy != Cutoff || o.CutoffRadius != 3.2 {
		Te.Errorf("strategy/radius: got %q, %v", o.Strategy, o.CutoffRadius)
	}
	//Check sorts and deduplicates the orders
	if len(o.AngularOrders) != 2 || o.AngularOrders[0] != 4 || o.AngularOrders[1] != 6 {
		Te.Errorf("angular orders: got %v, want [4 6]", o.AngularOrders)
	}
	if o.HistogramBins != 18 || o.PeriodicAxes != "xy" || o.Cpus != 2 {
		Te.Errorf("bins/axes/cpus: got %d, %q, %d", o.HistogramBins, o.PeriodicAxes, o.Cpus)
	}
	if !o.SkipIsolated || !o.CoarseGrained {
		Te.Errorf("booleans not read: %+v", o)
	}
	if o.Radii["X"] != 1.5 {
		Te.Errorf("radii table: got %v", o.Radii)
	}
	//keys absent from the file keep their defaults
	if o.EdgeMin != 3 || o.EdgeMax != 7 || !o.IncludeBeyondEdgeMax {
		Te.Errorf("defaults lost: %+v", o)
	}
	if _, err := ReadOptions(filepath.Join(Te.TempDir(), "nosuch.toml")); err == nil {
		Te.Error("a missing file should be an error")
	}
}

func TestOptionsCheck(Te *testing.T) {
	bad := []func(*Options){
		func(o *Options) { o.Strategy = "octree" },
		func(o *Options) { o.Strategy = Cutoff }, //no radius
		func(o *Options) { o.Strategy = Cutoff; o.CutoffRadius = -1 },
		func(o *Options) { o.AngularOrders = []int{6, 0} },
		func(o *Options) { o.HistogramBins = 0 },
		func(o *Options) { o.PeriodicAxes = "xw" },
		func(o *Options) { o.PeriodicAxes = "xx" },
		func(o *Options) { o.EdgeMin = 2 },
		func(o *Options) { o.EdgeMax = 2 },
		func(o *Options) { o.VoronoiSearchRadius = -1 },
		func(o *Options) { o.Radii = map[string]float64{"Cu": -1} },
	}
	for i, f := range bad {
		o := DefaultOptions()
		f(o)
		if err := o.Check(); err == nil {
			Te.Errorf("bad options case %d passed Check", i)
		}
	}
	o := DefaultOptions()
	if err := o.Check(); err != nil {
		Te.Errorf("defaults should pass Check: %v", err)
	}
	//the cutoff-only constraint is not enforced for the polyhedral strategy
	o = DefaultOptions()
	o.CutoffRadius = -5
	if err := o.Check(); err != nil {
		Te.Errorf("cutoff_radius should be ignored by the polyhedral strategy: %v", err)
	}
	//Cpus is normalized, not rejected
	o = DefaultOptions()
	o.Cpus = -3
	if err := o.Check(); err != nil || o.Cpus != 1 {
		Te.Errorf("Cpus should be clamped to 1, got %d (%v)", o.Cpus, err)
	}
	//"none" switches periodicity off everywhere
	flags, set, err := parseAxes("none")
	if err != nil || !set || flags != [3]bool{} {
		Te.Errorf("parseAxes(none): %v %v %v", flags, set, err)
	}
	flags, set, err = parseAxes("")
	if err != nil || set {
		Te.Errorf("parseAxes empty should not override: %v %v", flags, set)
	}
	flags, _, err = parseAxes("zx")
	if err != nil || flags != [3]bool{true, false, true} {
		Te.Errorf("parseAxes(zx): %v %v", flags, err)
	}
}
