/*
 * match.go, part of fftype.
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

package smarts

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rmera/fftype"
	"github.com/rmera/fftype/chemgraph"
)

// Options controls the search for matches.
type Options struct {
	//MaxMatches stops the search after that many matches. 0 means no limit.
	MaxMatches int
	//Uniquify keeps only the first match for each set of molecule atoms.
	Uniquify bool
}

type recKey struct {
	p    *Pattern
	atom int
}

//context holds what is known about the molecule being searched, so it is
//computed once per search, and not once per atom comparison.
type context struct {
	mol   *fftype.Molecule
	ring  *chemgraph.Rings
	cache map[recKey]bool
}

func newContext(mol *fftype.Molecule) *context {
	return &context{mol: mol, cache: make(map[recKey]bool)}
}

func (c *context) rings() *chemgraph.Rings {
	if c.ring == nil {
		c.ring = chemgraph.PerceiveRings(c.mol)
	}
	return c.ring
}

//recursive reports whether p matches mol with its first atom on atom i.
func (c *context) recursive(p *Pattern, i int) bool {
	k := recKey{p, i}
	if v, ok := c.cache[k]; ok {
		return v
	}
	m := newMatcher(p, c, 1)
	m.anchor = i
	m.extend(0)
	v := len(m.out) > 0
	c.cache[k] = v
	return v
}

type matcher struct {
	p       *Pattern
	c       *context
	mapping []int
	used    []bool
	anchor  int
	max     int
	out     []fftype.Match
}

func newMatcher(p *Pattern, c *context, max int) *matcher {
	m := &matcher{
		p:       p,
		c:       c,
		mapping: make([]int, p.Len()),
		used:    make([]bool, c.mol.Len()),
		anchor:  -1,
		max:     max,
	}
	for i := range m.mapping {
		m.mapping[i] = -1
	}
	return m
}

func (m *matcher) full() bool {
	return m.max > 0 && len(m.out) >= m.max
}

func (m *matcher) candidates(k int) []int {
	if k == 0 && m.anchor >= 0 {
		return []int{m.anchor}
	}
	if par := m.p.parent[k]; par >= 0 {
		return m.c.mol.Neighbors(m.mapping[par])
	}
	ret := make([]int, m.c.mol.Len())
	for i := range ret {
		ret[i] = i
	}
	return ret
}

//fits checks atom k of the pattern on atom i of the molecule, including
//the bonds to pattern atoms that are already placed.
func (m *matcher) fits(k, i int) bool {
	if m.used[i] || !m.p.atoms[k](m.c, i) {
		return false
	}
	for _, bi := range m.p.adj[k] {
		pb := m.p.bonds[bi]
		other := pb.a
		if other == k {
			other = pb.b
		}
		if m.mapping[other] < 0 {
			continue
		}
		b := m.c.mol.BondBetween(m.mapping[other], i)
		if b == nil || !pb.pred(m.c, b) {
			return false
		}
	}
	return true
}

//extend places pattern atom k and everything after it, recording each full match.
func (m *matcher) extend(k int) {
	if k == len(m.mapping) {
		m.out = append(m.out, append(fftype.Match(nil), m.mapping...))
		return
	}
	for _, i := range m.candidates(k) {
		if !m.fits(k, i) {
			continue
		}
		m.mapping[k] = i
		m.used[i] = true
		m.extend(k + 1)
		m.used[i] = false
		m.mapping[k] = -1
		if m.full() {
			return
		}
	}
}

// Match returns the matches of p in mol, in the order they are found: pattern
// atoms are placed in the order they are written, trying molecule atoms by
// ascending index.
func Match(p *Pattern, mol *fftype.Molecule, opts Options) []fftype.Match {
	if p.Len() == 0 || mol.Len() == 0 {
		return nil
	}
	m := newMatcher(p, newContext(mol), opts.MaxMatches)
	if opts.Uniquify {
		//duplicates would count against the limit.
		m.max = 0
	}
	m.extend(0)
	if !opts.Uniquify {
		return m.out
	}
	seen := make(map[string]bool)
	ret := make([]fftype.Match, 0, len(m.out))
	for _, v := range m.out {
		k := setKey(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		ret = append(ret, v)
		if opts.MaxMatches > 0 && len(ret) >= opts.MaxMatches {
			break
		}
	}
	return ret
}

func setKey(m fftype.Match) string {
	s := append([]int(nil), m...)
	sort.Ints(s)
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Matches reports whether p is found in mol at all.
func Matches(p *Pattern, mol *fftype.Molecule) bool {
	return len(Match(p, mol, Options{MaxMatches: 1})) > 0
}
