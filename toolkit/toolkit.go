/*
 * toolkit.go, part of fftype.
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

// Package toolkit puts the smiles and smarts packages behind the
// fftype.Toolkit interface.
package toolkit

import (
	"fmt"

	"github.com/rmera/fftype"
	"github.com/rmera/fftype/smarts"
	"github.com/rmera/fftype/smiles"
)

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithMaxMatchesPerAtom sets the per-atom match cap. 0 or less means no cap.
func WithMaxMatchesPerAtom(n int) Option {
	return func(T *Toolkit) {
		T.perAtom = n
	}
}

// WithUniquify makes FindMatches return only one match per set of atoms.
func WithUniquify(u bool) Option {
	return func(T *Toolkit) {
		T.uniquify = u
	}
}

// Toolkit implements fftype.Toolkit and fftype.HydrogenAdder.
type Toolkit struct {
	perAtom  int
	uniquify bool
}

// New returns a Toolkit. By default every match is returned, with no
// uniquification.
func New(opts ...Option) *Toolkit {
	T := &Toolkit{}
	for _, o := range opts {
		o(T)
	}
	return T
}

// ParseStructure reads a SMILES string.
func (T *Toolkit) ParseStructure(text string) (*fftype.Molecule, error) {
	return smiles.Parse(text)
}

// ParsePattern compiles a SMARTS string.
func (T *Toolkit) ParsePattern(text string) (fftype.Pattern, error) {
	p, err := smarts.Parse(text)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindMatches returns the matches of p, which must come from ParsePattern, in mol.
func (T *Toolkit) FindMatches(p fftype.Pattern, mol *fftype.Molecule) []fftype.Match {
	m, _ := T.FindMatchesCapped(p, mol)
	return m
}

// FindMatchesCapped is FindMatches, but it also tells whether the per-atom cap
// dropped matches.
func (T *Toolkit) FindMatchesCapped(p fftype.Pattern, mol *fftype.Molecule) ([]fftype.Match, bool) {
	sp, ok := p.(*smarts.Pattern)
	if !ok {
		panic(fmt.Sprintf("toolkit: pattern of type %T was not compiled by this toolkit", p))
	}
	if T.perAtom <= 0 {
		return smarts.Match(sp, mol, smarts.Options{Uniquify: T.uniquify}), false
	}
	max := T.perAtom * mol.Len()
	//one more than the cap, to know if anything was left out
	m := smarts.Match(sp, mol, smarts.Options{MaxMatches: max + 1, Uniquify: T.uniquify})
	if len(m) > max {
		return m[:max], true
	}
	return m, false
}

// AddHydrogens makes the implicit hydrogens of mol explicit atoms.
func (T *Toolkit) AddHydrogens(mol *fftype.Molecule) {
	smiles.AddHydrogens(mol)
}
