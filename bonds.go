/*
 * bonds.go, part of fftype.
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

import (
	"fmt"
	"sort"
)

//Bond orders. Aromatic bonds get 1.5, so summing orders gives the
//usual "valence" of aromatic atoms.
const (
	SingleOrder    = 1.0
	AromaticOrder  = 1.5
	DoubleOrder    = 2.0
	TripleOrder    = 3.0
	QuadrupleOrder = 4.0
)

type Bond struct {
	Index int
	At1   *Atom
	At2   *Atom
	Order float64 //Order 0 means undetermined
}

//Cross returns the atom at the other side of the bond from origin.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin.Index == B.At1.Index {
		return B.At2
	}
	if origin.Index == B.At2.Index {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!") //I think this got to be a programming error, so a panic is warranted.

}

// Aromatic reports whether the bond is aromatic.
func (B *Bond) Aromatic() bool {
	return B.Order == AromaticOrder
}

func (B *Bond) String() string {
	return fmt.Sprintf("%s%d-%s%d(%.1f)", B.At1.Symbol, B.At1.Index, B.At2.Symbol, B.At2.Index, B.Order)
}

//BondedNeighbors returns, for each atom of mol, the indexes of the atoms bonded
//to it, in ascending order.
func BondedNeighbors(mol *Molecule) [][]int {
	ret := make([][]int, mol.Len())
	for i, at := range mol.Atoms {
		n := make([]int, 0, len(at.Bonds))
		for _, b := range at.Bonds {
			n = append(n, b.Cross(at).Index)
		}
		sort.Ints(n)
		ret[i] = n
	}
	return ret
}
