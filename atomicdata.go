/*
 * atomicdata.go, part of fftype.
 *
 *
 * Copyright 2024 The fftype authors
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

package fftype

import "sort"

//Atomic numbers for the elements one can reasonably find in
//a forcefield-typed system.
var symbolAtNum = map[string]int{
	"H":  1,
	"He": 2,
	"Li": 3,
	"Be": 4,
	"B":  5,
	"C":  6,
	"N":  7,
	"O":  8,
	"F":  9,
	"Ne": 10,
	"Na": 11,
	"Mg": 12,
	"Al": 13,
	"Si": 14,
	"P":  15,
	"S":  16,
	"Cl": 17,
	"Ar": 18,
	"K":  19,
	"Ca": 20,
	"Sc": 21,
	"Ti": 22,
	"V":  23,
	"Cr": 24,
	"Mn": 25,
	"Fe": 26,
	"Co": 27,
	"Ni": 28,
	"Cu": 29,
	"Zn": 30,
	"Ga": 31,
	"Ge": 32,
	"As": 33,
	"Se": 34,
	"Br": 35,
	"Kr": 36,
	"Rb": 37,
	"Sr": 38,
	"Zr": 40,
	"Mo": 42,
	"Ru": 44,
	"Rh": 45,
	"Pd": 46,
	"Ag": 47,
	"Cd": 48,
	"In": 49,
	"Sn": 50,
	"Sb": 51,
	"Te": 52,
	"I":  53,
	"Xe": 54,
	"Cs": 55,
	"Ba": 56,
	"W":  74,
	"Os": 76,
	"Ir": 77,
	"Pt": 78,
	"Au": 79,
	"Hg": 80,
	"Tl": 81,
	"Pb": 82,
	"Bi": 83,
	"Rn": 86,
}

var atNumSymbol map[int]string

func init() {
	atNumSymbol = make(map[int]string, len(symbolAtNum))
	for k, v := range symbolAtNum {
		atNumSymbol[v] = k
	}
}

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//Normal valences for the SMILES organic subset, lowest first.
//Atoms outside the subset have no implicit hydrogens unless
//they are written in a bracket with an H count.
var symbolValences = map[string][]int{
	"B":  {3},
	"C":  {4},
	"N":  {3, 5},
	"O":  {2},
	"P":  {3, 5},
	"S":  {2, 4, 6},
	"F":  {1},
	"Cl": {1},
	"Br": {1},
	"I":  {1},
}

// AtomicNumber returns the atomic number for the element symbol, or 0
// if the symbol is not known.
func AtomicNumber(symbol string) int {
	return symbolAtNum[symbol]
}

// IsElement reports whether symbol is a known element symbol.
func IsElement(symbol string) bool {
	_, ok := symbolAtNum[symbol]
	return ok
}

// Symbol returns the element symbol for the atomic number z, or
// an empty string.
func Symbol(z int) string {
	return atNumSymbol[z]
}

// Mass returns the mass of the element, and false if it's not tabulated.
func Mass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

// DefaultValences returns the normal valences of an organic-subset element,
// lowest first, or nil for other elements.
func DefaultValences(symbol string) []int {
	v := symbolValences[symbol]
	if v == nil {
		return nil
	}
	ret := make([]int, len(v))
	copy(ret, v)
	sort.Ints(ret)
	return ret
}
