/*
 * graph.go, part of fftype.
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

package chemgraph

import (
	"github.com/rmera/fftype"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// Atom wraps an fftype.Atom so it's a gonum graph.Node.
type Atom struct {
	*fftype.Atom
}

func (A Atom) ID() int64 {
	return int64(A.Index)
}

// Bond wraps an fftype.Bond with an orientation, so it's a gonum graph.Edge.
type Bond struct {
	*fftype.Bond
	from, to Atom
}

func (B Bond) From() graph.Node {
	return B.from
}

func (B Bond) To() graph.Node {
	return B.to
}

//bonds are not directional, so reversing just swaps the ends.
func (B Bond) ReversedEdge() graph.Edge {
	B.from, B.to = B.to, B.from
	return B
}

// Topology is a read-only gonum graph.Undirected view of a molecule.
type Topology struct {
	Mol *fftype.Molecule
}

// TopologyFromMolecule returns the graph view of mol. The view is not a copy:
// changes to mol are seen through it.
func TopologyFromMolecule(mol *fftype.Molecule) *Topology {
	return &Topology{Mol: mol}
}

func (T *Topology) valid(id int64) bool {
	return id >= 0 && id < int64(T.Mol.Len())
}

func (T *Topology) Node(id int64) graph.Node {
	if !T.valid(id) {
		return nil
	}
	return Atom{T.Mol.Atom(int(id))}
}

func (T *Topology) Nodes() graph.Nodes {
	n := make([]graph.Node, T.Mol.Len())
	for i, at := range T.Mol.Atoms {
		n[i] = Atom{at}
	}
	return iterator.NewOrderedNodes(n)
}

func (T *Topology) From(id int64) graph.Nodes {
	if !T.valid(id) {
		return graph.Empty
	}
	nb := T.Mol.Neighbors(int(id))
	n := make([]graph.Node, len(nb))
	for i, v := range nb {
		n[i] = Atom{T.Mol.Atom(v)}
	}
	return iterator.NewOrderedNodes(n)
}

func (T *Topology) HasEdgeBetween(id1, id2 int64) bool {
	return T.Edge(id1, id2) != nil
}

func (T *Topology) Edge(id1, id2 int64) graph.Edge {
	if !T.valid(id1) || !T.valid(id2) {
		return nil
	}
	b := T.Mol.BondBetween(int(id1), int(id2))
	if b == nil {
		return nil
	}
	return Bond{Bond: b, from: Atom{T.Mol.Atom(int(id1))}, to: Atom{T.Mol.Atom(int(id2))}}
}

func (T *Topology) EdgeBetween(id1, id2 int64) graph.Edge {
	return T.Edge(id1, id2)
}

// Fragments returns the connected components of mol as slices of atom indexes.
func Fragments(mol *fftype.Molecule) [][]int {
	cc := topo.ConnectedComponents(TopologyFromMolecule(mol))
	ret := make([][]int, len(cc))
	for i, c := range cc {
		ret[i] = make([]int, len(c))
		for j, n := range c {
			ret[i][j] = int(n.ID())
		}
	}
	return ret
}

// Rings holds ring information for the atoms and bonds of a molecule.
type Rings struct {
	bondRing  []int //smallest ring containing each bond, 0 if none
	atomRing  []int //smallest ring containing each atom, 0 if none
	ringBonds []int //ring bonds at each atom
}

// PerceiveRings finds, for every bond, the smallest ring it belongs to. A
// bond is in a ring if its ends are still connected once the bond is removed;
// the ring size is one more than the breadth-first distance between them.
func PerceiveRings(mol *fftype.Molecule) *Rings {
	R := &Rings{
		bondRing:  make([]int, len(mol.Bonds)),
		atomRing:  make([]int, mol.Len()),
		ringBonds: make([]int, mol.Len()),
	}
	g := TopologyFromMolecule(mol)
	for _, b := range mol.Bonds {
		skip := b.Index
		target := int64(b.At2.Index)
		size := 0
		bf := traverse.BreadthFirst{
			Traverse: func(e graph.Edge) bool {
				return e.(Bond).Index != skip
			},
		}
		found := bf.Walk(g, Atom{b.At1}, func(n graph.Node, d int) bool {
			if n.ID() == target {
				size = d + 1
				return true
			}
			return false
		})
		if found == nil {
			continue
		}
		R.bondRing[b.Index] = size
		for _, at := range []*fftype.Atom{b.At1, b.At2} {
			R.ringBonds[at.Index]++
			if R.atomRing[at.Index] == 0 || size < R.atomRing[at.Index] {
				R.atomRing[at.Index] = size
			}
		}
	}
	return R
}

// InRing reports whether atom i is in a ring.
func (R *Rings) InRing(i int) bool {
	return R.atomRing[i] > 0
}

// SmallestRing returns the size of the smallest ring containing atom i, or 0.
func (R *Rings) SmallestRing(i int) int {
	return R.atomRing[i]
}

// RingBondCount returns the number of ring bonds at atom i.
func (R *Rings) RingBondCount(i int) int {
	return R.ringBonds[i]
}

// BondInRing reports whether the bond with the given index is in a ring.
func (R *Rings) BondInRing(bond int) bool {
	return R.bondRing[bond] > 0
}

// BondRingSize returns the smallest ring containing the bond, or 0.
func (R *Rings) BondRingSize(bond int) int {
	return R.bondRing[bond]
}
