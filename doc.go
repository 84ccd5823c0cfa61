/*
 * doc.go, part of goglass.
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

/*Package glass computes per-atom structural features of disordered
atomic configurations, such as metallic glasses, for use in
machine-learning models of material properties.

	**goglass Capabilities**

    Periodic boxes, orthorhombic or triclinic, with any subset of
	periodic axes; minimum-image distances and angles.

    Neighbor shells by distance cutoff or by radical-free Voronoi
	tessellation (facet-sharing neighbors with facet-area weights),
	with a deterministic, reproducible order.

    Short-range order descriptors per atom: coordination numbers,
	bond-angle statistics and histogram, neighbor-distance moments,
	Steinhardt bond-orientational order parameters q_l/w_l at any set
	of angular orders, and, under the Voronoi strategy, the Voronoi
	index signature, i-fold symmetry fractions (also area- and
	volume-weighted), facet and sub-polyhedra statistics, and packing
	efficiency.

    Medium-range order descriptors: weighted mean, standard deviation
	and extrema of every short-range component over an atom and its
	neighbor shell, plus optional coarse-grained (neighbor-averaged)
	q_l invariants.

    A two-phase concurrent pipeline over the atoms that produces one
	feature matrix per configuration with a stable column schema, so
	matrices from different configurations can feed one model.

    CSV output and input of feature matrices, plain or compressed
	(zstd, gzip), with bit-faithful round trips.

    Quick histogram and scatter plots of feature columns (subpackage
	featplot).

Components undefined for some atom (say, the bond-angle variance of an
atom with one neighbor) hold a missing sentinel, and every atom always
gets the full schema, so rows and columns stay aligned no matter how
degenerate the local geometry is.

goglass keeps coordinates in the v3.Matrix type of its v3 subpackage,
based on gonum's mat.Dense. Each row of a v3.Matrix is one point in
space.*/
package glass
