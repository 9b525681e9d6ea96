/*
 * molecule.go, part of fftype.
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

/**Note: A few functions here panic instead of returning errors. They are
 * "fundamental" functions, and if something goes wrong in them, the program
 * is most likely wrong and should crash. The panics are related to
 * out-of-range atom indexes.**/

//Atom is a node of the molecular graph.
type Atom struct {
	Index    int
	Symbol   string
	AtNum    int
	Isotope  int  //0 if not given
	Charge   int  //formal charge
	HCount   int  //implicit hydrogens, i.e. those that are not atoms in the graph
	Aromatic bool
	Class    int //atom class (the :n in a bracket atom), 0 if none
	Bonds    []*Bond
}

//Copy returns a copy of the Atom object, without bonds.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	Newat := new(Atom)
	*Newat = *A
	Newat.Bonds = nil
	return Newat
}

func (A *Atom) String() string {
	return fmt.Sprintf("%s%d", A.Symbol, A.Index)
}

//Molecule is an undirected graph of atoms and bonds. It's built once
//per typing request and is not meant to be shared between goroutines.
type Molecule struct {
	Atoms []*Atom
	Bonds []*Bond
}

// NewMolecule returns an empty molecule.
func NewMolecule() *Molecule {
	return &Molecule{Atoms: make([]*Atom, 0, 10), Bonds: make([]*Bond, 0, 10)}
}

// Len returns the number of atoms in the graph.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

// Atom returns the atom with index i. It panics if i is out of range.
func (M *Molecule) Atom(i int) *Atom {
	return M.Atoms[i]
}

// AddAtom appends a new atom of the given element and returns it.
// The atomic number is 0 for symbols that are not elements (e.g. "*").
func (M *Molecule) AddAtom(symbol string) *Atom {
	at := &Atom{Index: len(M.Atoms), Symbol: symbol, AtNum: AtomicNumber(symbol)}
	M.Atoms = append(M.Atoms, at)
	return at
}

// AddBond bonds the atoms i and j with the given order.
func (M *Molecule) AddBond(i, j int, order float64) (*Bond, error) {
	if i < 0 || j < 0 || i >= M.Len() || j >= M.Len() {
		return nil, fmt.Errorf("bond %d-%d: atom index out of range (%d atoms)", i, j, M.Len())
	}
	if i == j {
		return nil, fmt.Errorf("bond %d-%d: an atom can't be bonded to itself", i, j)
	}
	if M.BondBetween(i, j) != nil {
		return nil, fmt.Errorf("bond %d-%d: atoms are already bonded", i, j)
	}
	b := &Bond{Index: len(M.Bonds), At1: M.Atoms[i], At2: M.Atoms[j], Order: order}
	M.Atoms[i].Bonds = append(M.Atoms[i].Bonds, b)
	M.Atoms[j].Bonds = append(M.Atoms[j].Bonds, b)
	M.Bonds = append(M.Bonds, b)
	return b, nil
}

// BondBetween returns the bond joining atoms i and j, or nil.
func (M *Molecule) BondBetween(i, j int) *Bond {
	for _, b := range M.Atoms[i].Bonds {
		if b.Cross(M.Atoms[i]).Index == j {
			return b
		}
	}
	return nil
}

// Neighbors returns the indexes of the atoms bonded to atom i, in ascending order.
func (M *Molecule) Neighbors(i int) []int {
	at := M.Atoms[i]
	ret := make([]int, 0, len(at.Bonds))
	for _, b := range at.Bonds {
		ret = append(ret, b.Cross(at).Index)
	}
	sort.Ints(ret)
	return ret
}

// Degree is the number of explicit connections of atom i.
func (M *Molecule) Degree(i int) int {
	return len(M.Atoms[i].Bonds)
}

// TotalHCount returns the implicit hydrogens of atom i plus the
// hydrogen atoms bonded to it.
func (M *Molecule) TotalHCount(i int) int {
	at := M.Atoms[i]
	h := at.HCount
	for _, b := range at.Bonds {
		if b.Cross(at).AtNum == 1 {
			h++
		}
	}
	return h
}

// Valence is the sum of the bond orders of atom i plus its
// implicit hydrogens.
func (M *Molecule) Valence(i int) float64 {
	at := M.Atoms[i]
	v := float64(at.HCount)
	for _, b := range at.Bonds {
		v += b.Order
	}
	return v
}

// ImplicitHydrogens is the total of implicit hydrogens in the molecule.
func (M *Molecule) ImplicitHydrogens() int {
	n := 0
	for _, at := range M.Atoms {
		n += at.HCount
	}
	return n
}

// HeavyAtoms counts the atoms that are not hydrogens.
func (M *Molecule) HeavyAtoms() int {
	n := 0
	for _, at := range M.Atoms {
		if at.AtNum != 1 {
			n++
		}
	}
	return n
}

// Relabel turns every atom with the element symbol from into the element to
// and returns how many atoms were changed.
func (M *Molecule) Relabel(from, to string) int {
	n := 0
	z := AtomicNumber(to)
	for _, at := range M.Atoms {
		if at.Symbol == from {
			at.Symbol = to
			at.AtNum = z
			at.Aromatic = false
			n++
		}
	}
	return n
}

// Formula returns a Hill-ordered formula, counting implicit hydrogens.
func (M *Molecule) Formula() string {
	counts := make(map[string]int)
	for _, at := range M.Atoms {
		counts[at.Symbol]++
		if at.HCount > 0 {
			counts["H"] += at.HCount
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		if k != "C" && k != "H" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if counts["C"] > 0 {
		keys = append([]string{"C", "H"}, keys...)
	} else {
		keys = append([]string{"H"}, keys...)
		sort.Strings(keys)
	}
	var f string
	for _, k := range keys {
		c := counts[k]
		switch {
		case c == 0:
			continue
		case c == 1:
			f += k
		default:
			f += fmt.Sprintf("%s%d", k, c)
		}
	}
	return f
}
