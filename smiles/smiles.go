/*
 * smiles.go, part of fftype.
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

// Package smiles builds fftype molecules from SMILES strings.
package smiles

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rmera/fftype"
)

//Error is returned when a SMILES string can't be parsed. Pos is the
//0-based byte offset where the problem was found.
type Error struct {
	SMILES string
	Pos    int
	Msg    string
}

func (E *Error) Error() string {
	return fmt.Sprintf("smiles %q, position %d: %s", E.SMILES, E.Pos, E.Msg)
}

type ringBond struct {
	atom  int
	order float64 //0 if no bond symbol was given at the opening
}

type parser struct {
	s        string
	pos      int
	mol      *fftype.Molecule
	prev     int
	branches []int
	order    float64 //pending bond order, 0 if none
	rings    map[int]ringBond
	organic  []bool
}

// Parse builds a molecule from a SMILES string. Only the first
// whitespace-separated field of text is read, so "CCO ethanol" is fine.
// Atoms written without brackets get the implicit hydrogens given by
// their normal valences; bracket atoms get exactly the hydrogens written
// in the bracket. Chirality and cis/trans marks are read and ignored.
func Parse(text string) (*fftype.Molecule, error) {
	f := strings.Fields(text)
	if len(f) == 0 {
		return nil, &Error{SMILES: text, Msg: "empty string"}
	}
	p := &parser{s: f[0], mol: fftype.NewMolecule(), prev: -1, rings: make(map[int]ringBond)}
	if err := p.parse(); err != nil {
		return nil, err
	}
	p.implicitHydrogens()
	return p.mol, nil
}

func (p *parser) errorf(format string, a ...any) error {
	return &Error{SMILES: p.s, Pos: p.pos, Msg: fmt.Sprintf(format, a...)}
}

func (p *parser) parse() error {
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf("branch with no atom before it")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.errorf("unbalanced ')'")
			}
			if p.order != 0 {
				return p.errorf("bond symbol before ')'")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case c == '.':
			if p.order != 0 {
				return p.errorf("bond symbol before '.'")
			}
			p.prev = -1
			p.pos++
		case isBond(c):
			if p.order != 0 {
				return p.errorf("two bond symbols in a row")
			}
			if p.prev < 0 {
				return p.errorf("bond with no atom before it")
			}
			p.order = bondOrder(c)
			p.pos++
		case c == '%' || (c >= '0' && c <= '9'):
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}
	if p.order != 0 {
		return p.errorf("bond symbol at the end of the string")
	}
	if len(p.branches) > 0 {
		return p.errorf("unclosed branch")
	}
	for k := range p.rings {
		return p.errorf("ring bond %d not closed", k)
	}
	if p.mol.Len() == 0 {
		return p.errorf("no atoms")
	}
	return nil
}

func isBond(c byte) bool {
	return strings.IndexByte(`-=#$:/\`, c) >= 0
}

func bondOrder(c byte) float64 {
	switch c {
	case '=':
		return fftype.DoubleOrder
	case '#':
		return fftype.TripleOrder
	case '$':
		return fftype.QuadrupleOrder
	case ':':
		return fftype.AromaticOrder
	}
	return fftype.SingleOrder
}

//defaultOrder is the order of a bond with no symbol between atoms i and j.
func (p *parser) defaultOrder(i, j int) float64 {
	if p.mol.Atom(i).Aromatic && p.mol.Atom(j).Aromatic {
		return fftype.AromaticOrder
	}
	return fftype.SingleOrder
}

func (p *parser) ringClosure() error {
	if p.prev < 0 {
		return p.errorf("ring bond with no atom before it")
	}
	var num int
	if p.s[p.pos] == '%' {
		if p.pos+2 >= len(p.s) || !isDigit(p.s[p.pos+1]) || !isDigit(p.s[p.pos+2]) {
			return p.errorf("'%%' must be followed by two digits")
		}
		num = int(p.s[p.pos+1]-'0')*10 + int(p.s[p.pos+2]-'0')
		p.pos += 3
	} else {
		num = int(p.s[p.pos] - '0')
		p.pos++
	}
	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringBond{atom: p.prev, order: p.order}
		p.order = 0
		return nil
	}
	delete(p.rings, num)
	order := p.order
	if order == 0 {
		order = open.order
	} else if open.order != 0 && open.order != order {
		return p.errorf("ring bond %d has conflicting bond symbols", num)
	}
	if order == 0 {
		order = p.defaultOrder(open.atom, p.prev)
	}
	if _, err := p.mol.AddBond(open.atom, p.prev, order); err != nil {
		return p.errorf("ring bond %d: %v", num, err)
	}
	p.order = 0
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

//addAtom creates the atom and bonds it to the previous one.
func (p *parser) addAtom(symbol string, aromatic, organic bool) (*fftype.Atom, error) {
	at := p.mol.AddAtom(symbol)
	at.Aromatic = aromatic
	p.organic = append(p.organic, organic)
	if p.prev >= 0 {
		order := p.order
		if order == 0 {
			order = p.defaultOrder(p.prev, at.Index)
		}
		if _, err := p.mol.AddBond(p.prev, at.Index, order); err != nil {
			return nil, p.errorf("%v", err)
		}
	}
	p.order = 0
	p.prev = at.Index
	return at, nil
}

var aromaticOrganic = map[string]string{"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S"}

func (p *parser) organicAtom() error {
	rest := p.s[p.pos:]
	if strings.HasPrefix(rest, "Cl") || strings.HasPrefix(rest, "Br") {
		p.pos += 2
		_, err := p.addAtom(rest[:2], false, true)
		return err
	}
	c := rest[:1]
	switch c {
	case "B", "C", "N", "O", "P", "S", "F", "I":
		p.pos++
		_, err := p.addAtom(c, false, true)
		return err
	case "*":
		p.pos++
		_, err := p.addAtom("*", false, false)
		return err
	}
	if sym, ok := aromaticOrganic[c]; ok {
		p.pos++
		_, err := p.addAtom(sym, true, true)
		return err
	}
	return p.errorf("unexpected character '%s'", c)
}

var aromaticBracket = map[string]string{"se": "Se", "as": "As", "te": "Te", "b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S"}

func (p *parser) bracketAtom() error {
	end := strings.IndexByte(p.s[p.pos:], ']')
	if end < 0 {
		return p.errorf("unclosed '['")
	}
	body := p.s[p.pos+1 : p.pos+end]
	start := p.pos
	p.pos += end + 1
	i := 0
	isotope := 0
	for i < len(body) && isDigit(body[i]) {
		isotope = isotope*10 + int(body[i]-'0')
		i++
	}
	if i >= len(body) {
		return &Error{SMILES: p.s, Pos: start, Msg: "bracket atom without element"}
	}
	var symbol string
	aromatic := false
	switch {
	case body[i] == '*':
		symbol = "*"
		i++
	case unicode.IsUpper(rune(body[i])):
		symbol = body[i : i+1]
		if i+1 < len(body) && unicode.IsLower(rune(body[i+1])) && fftype.IsElement(body[i:i+2]) {
			symbol = body[i : i+2]
		}
		i += len(symbol)
	default:
		for _, l := range []int{2, 1} {
			if i+l <= len(body) {
				if s, ok := aromaticBracket[body[i:i+l]]; ok {
					symbol = s
					aromatic = true
					i += l
					break
				}
			}
		}
	}
	if symbol == "" || (symbol != "*" && !fftype.IsElement(symbol)) {
		return &Error{SMILES: p.s, Pos: start, Msg: fmt.Sprintf("unknown element in [%s]", body)}
	}
	//chirality, which we ignore
	for i < len(body) && body[i] == '@' {
		i++
	}
	for _, cl := range []string{"TH", "AL", "SP", "TB", "OH"} {
		if strings.HasPrefix(body[i:], cl) {
			i += 2
			for i < len(body) && isDigit(body[i]) {
				i++
			}
		}
	}
	hcount := 0
	if i < len(body) && body[i] == 'H' {
		i++
		hcount = 1
		if i < len(body) && isDigit(body[i]) {
			hcount = int(body[i] - '0')
			i++
		}
	}
	charge := 0
	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		c := body[i]
		i++
		n := 1
		if i < len(body) && isDigit(body[i]) {
			n = 0
			for i < len(body) && isDigit(body[i]) {
				n = n*10 + int(body[i]-'0')
				i++
			}
		} else {
			for i < len(body) && body[i] == c {
				n++
				i++
			}
		}
		charge = sign * n
	}
	class := 0
	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) {
			return &Error{SMILES: p.s, Pos: start, Msg: fmt.Sprintf("empty atom class in [%s]", body)}
		}
		for i < len(body) && isDigit(body[i]) {
			class = class*10 + int(body[i]-'0')
			i++
		}
	}
	if i != len(body) {
		return &Error{SMILES: p.s, Pos: start, Msg: fmt.Sprintf("can't read [%s]", body)}
	}
	at, err := p.addAtom(symbol, aromatic, false)
	if err != nil {
		return err
	}
	at.Isotope = isotope
	at.HCount = hcount
	at.Charge = charge
	at.Class = class
	return nil
}

//implicitHydrogens sets the hydrogen count of the organic-subset atoms.
//Aromatic atoms are given one double bond's worth of valence on top of their
//sigma bonds, and only their lowest valence is considered.
func (p *parser) implicitHydrogens() {
	for i, at := range p.mol.Atoms {
		if !p.organic[i] {
			continue
		}
		vals := fftype.DefaultValences(at.Symbol)
		if len(vals) == 0 {
			continue
		}
		var used float64
		for _, b := range at.Bonds {
			if b.Aromatic() {
				used += 1
			} else {
				used += b.Order
			}
		}
		if at.Aromatic {
			used++
			vals = vals[:1]
		}
		at.HCount = 0
		for _, v := range vals {
			if float64(v) >= used {
				at.HCount = int(float64(v) - used)
				break
			}
		}
	}
}

// AddHydrogens turns the implicit hydrogens of every atom into hydrogen atoms
// bonded to it. The new atoms go at the end, in the order of their parents.
func AddHydrogens(mol *fftype.Molecule) {
	n := mol.Len()
	for i := 0; i < n; i++ {
		at := mol.Atom(i)
		for h := 0; h < at.HCount; h++ {
			hat := mol.AddAtom("H")
			//can't fail: the atoms are new.
			if _, err := mol.AddBond(i, hat.Index, fftype.SingleOrder); err != nil {
				panic(err)
			}
		}
		at.HCount = 0
	}
}
