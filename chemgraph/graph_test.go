/*
 * graph_test.go, part of fftype.
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
	"sort"
	"testing"

	"github.com/rmera/fftype"
	"github.com/rmera/fftype/smiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

var _ graph.Undirected = (*Topology)(nil)

func parse(Te *testing.T, s string) *fftype.Molecule {
	Te.Helper()
	mol, err := smiles.Parse(s)
	require.NoError(Te, err)
	return mol
}

func TestTopology(Te *testing.T) {
	mol := parse(Te, "CC(O)=O")
	g := TopologyFromMolecule(mol)
	assert.Equal(Te, 4, g.Nodes().Len())
	assert.Equal(Te, 3, g.From(1).Len())
	assert.Equal(Te, 0, g.From(7).Len())
	assert.Nil(Te, g.Node(-1))
	assert.True(Te, g.HasEdgeBetween(3, 1))
	assert.False(Te, g.HasEdgeBetween(0, 2))

	e := g.Edge(1, 3)
	require.NotNil(Te, e)
	assert.Equal(Te, int64(1), e.From().ID())
	assert.Equal(Te, 2.0, e.(Bond).Order)
	r := e.ReversedEdge()
	assert.Equal(Te, int64(3), r.From().ID())
	assert.Equal(Te, int64(1), r.To().ID())

	assert.True(Te, topo.PathExistsIn(g, g.Node(0), g.Node(3)))
}

func TestFragments(Te *testing.T) {
	f := Fragments(parse(Te, "[Na+].[Cl-]"))
	assert.Len(Te, f, 2)

	f = Fragments(parse(Te, "CCO.O.C1CC1"))
	for _, c := range f {
		sort.Ints(c)
	}
	sort.Slice(f, func(i, j int) bool { return f[i][0] < f[j][0] })
	assert.Equal(Te, [][]int{{0, 1, 2}, {3}, {4, 5, 6}}, f)
}

func TestRings(Te *testing.T) {
	mol := parse(Te, "C1CC1CC")
	R := PerceiveRings(mol)
	for i := 0; i < 3; i++ {
		assert.True(Te, R.InRing(i))
		assert.Equal(Te, 3, R.SmallestRing(i))
	}
	assert.False(Te, R.InRing(3))
	assert.Equal(Te, 0, R.SmallestRing(4))
	assert.Equal(Te, 2, R.RingBondCount(2))
	assert.Equal(Te, 0, R.RingBondCount(4))
	b := mol.BondBetween(2, 3)
	assert.False(Te, R.BondInRing(b.Index))
	b = mol.BondBetween(0, 2)
	assert.True(Te, R.BondInRing(b.Index))
	assert.Equal(Te, 3, R.BondRingSize(b.Index))
}

func TestFusedRings(Te *testing.T) {
	//decalin, bridgeheads are atoms 3 and 8
	mol := parse(Te, "C1CCC2CCCCC2C1")
	R := PerceiveRings(mol)
	for i := 0; i < mol.Len(); i++ {
		assert.Equal(Te, 6, R.SmallestRing(i), "atom %d", i)
		if i == 3 || i == 8 {
			assert.Equal(Te, 3, R.RingBondCount(i))
		} else {
			assert.Equal(Te, 2, R.RingBondCount(i))
		}
	}
	assert.Equal(Te, 6, R.BondRingSize(mol.BondBetween(3, 8).Index))

	mol = parse(Te, "C1CC2CC12")
	R = PerceiveRings(mol)
	assert.Equal(Te, 4, R.SmallestRing(0))
	assert.Equal(Te, 3, R.SmallestRing(3))
	assert.Equal(Te, 3, R.SmallestRing(2))
	assert.Equal(Te, 3, R.RingBondCount(2))
}
