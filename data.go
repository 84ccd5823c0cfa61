/*
 * data.go, part of goglass.
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

//A map for assigning radii to elements, in Angstrom. Used by the packing
//efficiency feature. 12-coordinate metallic (Goldschmidt) radii for the
//metals, covalent radii from Cordero et al., 2008 (DOI:10.1039/B801115J)
//for the metalloids.
//Note that just elements common in metallic glasses and amorphous alloys
//are present. Anything else goes through the Radii option.
var symbolRadius = map[string]float64{
	"Be": 1.12,
	"B":  0.84, //covalent
	"C":  0.76, //covalent, sp3
	"Mg": 1.60,
	"Al": 1.43,
	"Si": 1.11, //covalent
	"P":  1.07, //covalent
	"Ca": 1.97,
	"Sc": 1.62,
	"Ti": 1.47,
	"V":  1.34,
	"Cr": 1.28,
	"Mn": 1.27,
	"Fe": 1.26,
	"Co": 1.25,
	"Ni": 1.25,
	"Cu": 1.28,
	"Zn": 1.34,
	"Ge": 1.20, //covalent
	"Y":  1.80,
	"Zr": 1.60,
	"Nb": 1.46,
	"Mo": 1.39,
	"Pd": 1.37,
	"Ag": 1.44,
	"Sn": 1.58,
	"La": 1.87,
	"Ce": 1.82,
	"Sm": 1.80,
	"Gd": 1.80,
	"Hf": 1.59,
	"Ta": 1.46,
	"W":  1.39,
	"Pt": 1.39,
	"Au": 1.44,
}

//radiusOf returns the radius for a species symbol, consulting the
//override map (which may be nil) before the built-in table.
func radiusOf(symbol string, override map[string]float64) (float64, bool) {
	if override != nil {
		if r, ok := override[symbol]; ok {
			return r, true
		}
	}
	r, ok := symbolRadius[symbol]
	return r, ok
}
