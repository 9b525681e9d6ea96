/*
 * parse.go, part of fftype.
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

// Package smarts compiles SMARTS substructure queries and finds them in
// fftype molecules.
//
// The usual Daylight atom primitives are supported (*, a, A, element symbols,
// #n, isotopes, H, h, D, X, v, R, r, x, charges and recursive $() queries) as
// are the bond primitives - = # : ~ @ and the logical operators ! & , ;.
// Chirality and cis/trans marks are accepted and ignored.
package smarts

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rmera/fftype"
)

//Error is returned when a SMARTS string can't be compiled.
type Error struct {
	SMARTS string
	Pos    int
	Msg    string
}

func (E *Error) Error() string {
	return fmt.Sprintf("smarts %q, position %d: %s", E.SMARTS, E.Pos, E.Msg)
}

type atomPred func(c *context, i int) bool

type bondPred func(c *context, b *fftype.Bond) bool

type patBond struct {
	a, b int
	pred bondPred
}

// Pattern is a compiled SMARTS query. It implements fftype.Pattern.
type Pattern struct {
	text   string
	atoms  []atomPred
	parent []int //atom each pattern atom hangs from, -1 for the first atom of a component
	bonds  []patBond
	adj    [][]int //indexes into bonds
	sites  map[int]int
}

// Len returns the number of atoms in the pattern.
func (P *Pattern) Len() int {
	return len(P.atoms)
}

// Sites maps each atom-map number in the pattern to the position of its atom.
func (P *Pattern) Sites() map[int]int {
	ret := make(map[int]int, len(P.sites))
	for k, v := range P.sites {
		ret[k] = v
	}
	return ret
}

func (P *Pattern) String() string {
	return P.text
}

type pendingRing struct {
	atom int
	expr string
	pos  int
}

type parser struct {
	s        string
	pos      int
	pat      *Pattern
	prev     int
	branches []int
	bond     string //pending bond expression
	hasBond  bool
	rings    map[int]pendingRing
}

// Parse compiles a SMARTS string.
func Parse(text string) (*Pattern, error) {
	text = strings.TrimSpace(text)
	p := &parser{
		s:     text,
		pat:   &Pattern{text: text, sites: make(map[int]int)},
		prev:  -1,
		rings: make(map[int]pendingRing),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.pat, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Pattern {
	p, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return p
}

func (p *parser) errorf(format string, a ...any) error {
	return &Error{SMARTS: p.s, Pos: p.pos, Msg: fmt.Sprintf(format, a...)}
}

const bondChars = `-=#:~@/\!&,;`

func (p *parser) parse() error {
	if p.s == "" {
		return p.errorf("empty pattern")
	}
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
			if p.hasBond {
				return p.errorf("bond before ')'")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case c == '.':
			if p.hasBond {
				return p.errorf("bond before '.'")
			}
			p.prev = -1
			p.pos++
		case strings.IndexByte(bondChars, c) >= 0:
			if p.prev < 0 {
				return p.errorf("bond with no atom before it")
			}
			if p.hasBond {
				return p.errorf("bond expression interrupted")
			}
			start := p.pos
			for p.pos < len(p.s) && strings.IndexByte(bondChars, p.s[p.pos]) >= 0 {
				p.pos++
			}
			p.bond = p.s[start:p.pos]
			p.hasBond = true
		case c == '%' || unicode.IsDigit(rune(c)):
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.bareAtom(); err != nil {
				return err
			}
		}
	}
	if p.hasBond {
		return p.errorf("bond at the end of the pattern")
	}
	if len(p.branches) > 0 {
		return p.errorf("unclosed branch")
	}
	for k, r := range p.rings {
		return &Error{SMARTS: p.s, Pos: r.pos, Msg: fmt.Sprintf("ring bond %d not closed", k)}
	}
	return nil
}

func (p *parser) takeBond() (string, bool) {
	b, ok := p.bond, p.hasBond
	p.bond, p.hasBond = "", false
	return b, ok
}

func (p *parser) addBond(a, b int, expr string, given bool) error {
	pred := anyBondDefault
	if given {
		var err error
		pred, err = compileBond(expr)
		if err != nil {
			return p.errorf("bond %q: %v", expr, err)
		}
	}
	for _, bi := range p.pat.adj[a] {
		pb := p.pat.bonds[bi]
		if pb.a == b || pb.b == b {
			return p.errorf("atoms %d and %d are bonded twice", a, b)
		}
	}
	p.pat.bonds = append(p.pat.bonds, patBond{a: a, b: b, pred: pred})
	bi := len(p.pat.bonds) - 1
	p.pat.adj[a] = append(p.pat.adj[a], bi)
	p.pat.adj[b] = append(p.pat.adj[b], bi)
	return nil
}

func (p *parser) addAtom(pred atomPred) error {
	P := p.pat
	P.atoms = append(P.atoms, pred)
	P.adj = append(P.adj, nil)
	P.parent = append(P.parent, p.prev)
	idx := len(P.atoms) - 1
	expr, given := p.takeBond()
	if p.prev >= 0 {
		if err := p.addBond(p.prev, idx, expr, given); err != nil {
			return err
		}
	}
	p.prev = idx
	return nil
}

func (p *parser) ringClosure() error {
	if p.prev < 0 {
		return p.errorf("ring bond with no atom before it")
	}
	start := p.pos
	var num int
	if p.s[p.pos] == '%' {
		if p.pos+2 >= len(p.s) || !unicode.IsDigit(rune(p.s[p.pos+1])) || !unicode.IsDigit(rune(p.s[p.pos+2])) {
			return p.errorf("'%%' must be followed by two digits")
		}
		num, _ = strconv.Atoi(p.s[p.pos+1 : p.pos+3])
		p.pos += 3
	} else {
		num = int(p.s[p.pos] - '0')
		p.pos++
	}
	expr, given := p.takeBond()
	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = pendingRing{atom: p.prev, expr: expr, pos: start}
		return nil
	}
	delete(p.rings, num)
	if open.expr != "" {
		if given && expr != open.expr {
			return p.errorf("ring bond %d has two different bond expressions", num)
		}
		expr, given = open.expr, true
	}
	return p.addBond(open.atom, p.prev, expr, given)
}

var organicSymbols = []string{"Cl", "Br", "B", "C", "N", "O", "P", "S", "F", "I"}

func (p *parser) bareAtom() error {
	rest := p.s[p.pos:]
	switch rest[0] {
	case '*':
		p.pos++
		return p.addAtom(anyAtom)
	case 'a':
		p.pos++
		return p.addAtom(aromaticAtom)
	case 'A':
		p.pos++
		return p.addAtom(aliphaticAtom)
	}
	for _, s := range organicSymbols {
		if strings.HasPrefix(rest, s) {
			p.pos += len(s)
			return p.addAtom(elementPred(s, false))
		}
	}
	if sym, ok := aromaticSymbols[rest[:1]]; ok {
		p.pos++
		return p.addAtom(elementPred(sym, true))
	}
	return p.errorf("unexpected character '%c'", rest[0])
}

var aromaticSymbols = map[string]string{"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S", "se": "Se", "as": "As"}

//closing returns the position of the ']' that closes the '[' at start, skipping
//the brackets of recursive queries.
func closing(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth == 0 {
				if s[i] == ']' {
					return i
				}
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}

var (
	mapNumber   = regexp.MustCompile(`:(\d+)$`)
	hydrogenRxp = regexp.MustCompile(`^(\d*)H([+-]\d*|[+-]*)$`)
)

func (p *parser) bracketAtom() error {
	end := closing(p.s, p.pos)
	if end < 0 {
		return p.errorf("unclosed '['")
	}
	body := p.s[p.pos+1 : end]
	start := p.pos
	p.pos = end + 1
	if m := mapNumber.FindStringSubmatch(body); m != nil {
		n, _ := strconv.Atoi(m[1])
		if _, dup := p.pat.sites[n]; dup {
			return &Error{SMARTS: p.s, Pos: start, Msg: fmt.Sprintf("map number %d used twice", n)}
		}
		p.pat.sites[n] = len(p.pat.atoms)
		body = body[:len(body)-len(m[0])]
	}
	if body == "" {
		return &Error{SMARTS: p.s, Pos: start, Msg: "empty bracket atom"}
	}
	var pred atomPred
	if m := hydrogenRxp.FindStringSubmatch(body); m != nil {
		pred = hydrogenAtom(m[1], m[2])
	} else {
		ep := &exprParser{s: body}
		var err error
		pred, err = ep.lowAnd()
		if err == nil && ep.pos < len(body) {
			err = fmt.Errorf("unexpected '%c'", body[ep.pos])
		}
		if err != nil {
			return &Error{SMARTS: p.s, Pos: start, Msg: fmt.Sprintf("[%s]: %v", body, err)}
		}
	}
	return p.addAtom(pred)
}

//hydrogenAtom is the predicate for brackets like [H], [2H] or [H+], which
//stand for a hydrogen atom rather than a hydrogen count.
func hydrogenAtom(isotope, charge string) atomPred {
	preds := []atomPred{elementPred("H", false)}
	if isotope != "" {
		n, _ := strconv.Atoi(isotope)
		preds = append(preds, isotopePred(n))
	}
	if charge != "" {
		preds = append(preds, chargePred(chargeValue(charge)))
	}
	return allOf(preds)
}

func chargeValue(s string) int {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	if len(s) > 1 && unicode.IsDigit(rune(s[1])) {
		n, _ := strconv.Atoi(s[1:])
		return sign * n
	}
	return sign * len(s)
}

//Atom predicates

func anyAtom(c *context, i int) bool { return true }

func aromaticAtom(c *context, i int) bool { return c.mol.Atoms[i].Aromatic }

func aliphaticAtom(c *context, i int) bool {
	at := c.mol.Atoms[i]
	return !at.Aromatic && at.AtNum > 0
}

func elementPred(symbol string, aromatic bool) atomPred {
	return func(c *context, i int) bool {
		at := c.mol.Atoms[i]
		return at.Symbol == symbol && at.Aromatic == aromatic
	}
}

func atNumPred(z int) atomPred {
	return func(c *context, i int) bool { return c.mol.Atoms[i].AtNum == z }
}

func isotopePred(n int) atomPred {
	return func(c *context, i int) bool { return c.mol.Atoms[i].Isotope == n }
}

func chargePred(q int) atomPred {
	return func(c *context, i int) bool { return c.mol.Atoms[i].Charge == q }
}

func allOf(preds []atomPred) atomPred {
	if len(preds) == 1 {
		return preds[0]
	}
	return func(c *context, i int) bool {
		for _, p := range preds {
			if !p(c, i) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds []atomPred) atomPred {
	if len(preds) == 1 {
		return preds[0]
	}
	return func(c *context, i int) bool {
		for _, p := range preds {
			if p(c, i) {
				return true
			}
		}
		return false
	}
}

func notPred(p atomPred) atomPred {
	return func(c *context, i int) bool { return !p(c, i) }
}

//exprParser compiles the inside of a bracket atom. Operator precedence, from
//lowest to highest, is ';' ',' '&' (or nothing) '!'.
type exprParser struct {
	s   string
	pos int
}

func (E *exprParser) more() bool { return E.pos < len(E.s) }

func (E *exprParser) lowAnd() (atomPred, error) {
	var preds []atomPred
	for {
		p, err := E.or()
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
		if !E.more() || E.s[E.pos] != ';' {
			return allOf(preds), nil
		}
		E.pos++
	}
}

func (E *exprParser) or() (atomPred, error) {
	var preds []atomPred
	for {
		p, err := E.highAnd()
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
		if !E.more() || E.s[E.pos] != ',' {
			return anyOf(preds), nil
		}
		E.pos++
	}
}

func (E *exprParser) highAnd() (atomPred, error) {
	var preds []atomPred
	for {
		p, err := E.unary()
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
		if !E.more() {
			break
		}
		c := E.s[E.pos]
		if c == '&' {
			E.pos++
			continue
		}
		if c == ',' || c == ';' || c == ')' {
			break
		}
	}
	return allOf(preds), nil
}

func (E *exprParser) unary() (atomPred, error) {
	if !E.more() {
		return nil, fmt.Errorf("missing primitive at the end")
	}
	if E.s[E.pos] == '!' {
		E.pos++
		p, err := E.unary()
		if err != nil {
			return nil, err
		}
		return notPred(p), nil
	}
	return E.primitive()
}

//number reads an unsigned integer, returning def if there is none.
func (E *exprParser) number(def int) (int, bool) {
	start := E.pos
	for E.more() && unicode.IsDigit(rune(E.s[E.pos])) {
		E.pos++
	}
	if start == E.pos {
		return def, false
	}
	n, _ := strconv.Atoi(E.s[start:E.pos])
	return n, true
}

func (E *exprParser) primitive() (atomPred, error) {
	c := E.s[E.pos]
	rest := E.s[E.pos:]
	switch {
	case c == '*':
		E.pos++
		return anyAtom, nil
	case c == '$':
		return E.recursive()
	case unicode.IsDigit(rune(c)):
		n, _ := E.number(0)
		return isotopePred(n), nil
	case c == '#':
		E.pos++
		n, ok := E.number(0)
		if !ok {
			return nil, fmt.Errorf("'#' without atomic number")
		}
		return atNumPred(n), nil
	case c == '+' || c == '-':
		E.pos++
		q := 1
		if n, ok := E.number(0); ok {
			q = n
		} else {
			for E.more() && E.s[E.pos] == c {
				q++
				E.pos++
			}
		}
		if c == '-' {
			q = -q
		}
		return chargePred(q), nil
	case c == '@':
		for E.more() && (E.s[E.pos] == '@' || E.s[E.pos] == '?') {
			E.pos++
		}
		return anyAtom, nil
	case unicode.IsUpper(rune(c)):
		if len(rest) > 1 && unicode.IsLower(rune(rest[1])) && fftype.IsElement(rest[:2]) {
			E.pos += 2
			return elementPred(rest[:2], false), nil
		}
		E.pos++
		switch c {
		case 'A':
			return aliphaticAtom, nil
		case 'H':
			n, _ := E.number(1)
			return hCountPred(n), nil
		case 'D':
			n, _ := E.number(1)
			return degreePred(n), nil
		case 'X':
			n, _ := E.number(1)
			return connectivityPred(n), nil
		case 'R':
			n, ok := E.number(0)
			return ringCountPred(n, ok), nil
		}
		if !fftype.IsElement(rest[:1]) {
			return nil, fmt.Errorf("unknown primitive '%c'", c)
		}
		return elementPred(rest[:1], false), nil
	}
	//lowercase
	if len(rest) > 1 {
		if sym, ok := aromaticSymbols[rest[:2]]; ok {
			E.pos += 2
			return elementPred(sym, true), nil
		}
	}
	if sym, ok := aromaticSymbols[rest[:1]]; ok {
		E.pos++
		return elementPred(sym, true), nil
	}
	E.pos++
	switch c {
	case 'a':
		return aromaticAtom, nil
	case 'h':
		n, ok := E.number(1)
		return implicitHPred(n, ok), nil
	case 'v':
		n, _ := E.number(1)
		return valencePred(n), nil
	case 'r':
		n, ok := E.number(0)
		return ringSizePred(n, ok), nil
	case 'x':
		n, ok := E.number(0)
		return ringBondsPred(n, ok), nil
	}
	return nil, fmt.Errorf("unknown primitive '%c'", c)
}

func (E *exprParser) recursive() (atomPred, error) {
	if !strings.HasPrefix(E.s[E.pos:], "$(") {
		return nil, fmt.Errorf("'$' must be followed by '('")
	}
	depth := 0
	end := -1
	for i := E.pos + 1; i < len(E.s); i++ {
		if E.s[i] == '(' {
			depth++
		} else if E.s[i] == ')' {
			depth--
			if depth == 0 {
				end = i
				break
			}
		}
	}
	if end < 0 {
		return nil, fmt.Errorf("unclosed '$('")
	}
	inner := E.s[E.pos+2 : end]
	E.pos = end + 1
	sub, err := Parse(inner)
	if err != nil {
		return nil, err
	}
	return func(c *context, i int) bool { return c.recursive(sub, i) }, nil
}

func hCountPred(n int) atomPred {
	return func(c *context, i int) bool { return c.mol.TotalHCount(i) == n }
}

//a bare 'h' means at least one implicit hydrogen.
func implicitHPred(n int, given bool) atomPred {
	return func(c *context, i int) bool {
		if !given {
			return c.mol.Atoms[i].HCount > 0
		}
		return c.mol.Atoms[i].HCount == n
	}
}

func degreePred(n int) atomPred {
	return func(c *context, i int) bool { return c.mol.Degree(i) == n }
}

func connectivityPred(n int) atomPred {
	return func(c *context, i int) bool { return c.mol.Degree(i)+c.mol.Atoms[i].HCount == n }
}

func valencePred(n int) atomPred {
	return func(c *context, i int) bool { return int(math.Round(c.mol.Valence(i))) == n }
}

//ringCountPred approximates the number of rings an atom is in as its ring
//bonds minus one, which is right unless the atom is a spiro center.
func ringCountPred(n int, given bool) atomPred {
	return func(c *context, i int) bool {
		r := c.rings()
		if !given {
			return r.InRing(i)
		}
		if n == 0 {
			return !r.InRing(i)
		}
		return r.RingBondCount(i)-1 == n
	}
}

func ringSizePred(n int, given bool) atomPred {
	return func(c *context, i int) bool {
		r := c.rings()
		if !given {
			return r.InRing(i)
		}
		return r.SmallestRing(i) == n
	}
}

func ringBondsPred(n int, given bool) atomPred {
	return func(c *context, i int) bool {
		r := c.rings()
		if !given {
			return r.RingBondCount(i) > 0
		}
		return r.RingBondCount(i) == n
	}
}

//Bond predicates

//anyBondDefault is the bond between two atoms written next to each other.
func anyBondDefault(c *context, b *fftype.Bond) bool {
	return b.Order == fftype.SingleOrder || b.Aromatic()
}

func bondOrderPred(order float64) bondPred {
	return func(c *context, b *fftype.Bond) bool { return b.Order == order }
}

func ringBondPred(c *context, b *fftype.Bond) bool {
	return c.rings().BondInRing(b.Index)
}

//compileBond compiles a bond expression, with the same operators and
//precedences as atom expressions.
func compileBond(expr string) (bondPred, error) {
	pos := 0
	var prim func() (bondPred, error)
	prim = func() (bondPred, error) {
		if pos >= len(expr) {
			return nil, fmt.Errorf("missing bond primitive")
		}
		c := expr[pos]
		pos++
		switch c {
		case '!':
			p, err := prim()
			if err != nil {
				return nil, err
			}
			return func(ct *context, b *fftype.Bond) bool { return !p(ct, b) }, nil
		case '-', '/', '\\':
			return bondOrderPred(fftype.SingleOrder), nil
		case '=':
			return bondOrderPred(fftype.DoubleOrder), nil
		case '#':
			return bondOrderPred(fftype.TripleOrder), nil
		case ':':
			return bondOrderPred(fftype.AromaticOrder), nil
		case '~':
			return func(*context, *fftype.Bond) bool { return true }, nil
		case '@':
			return ringBondPred, nil
		}
		return nil, fmt.Errorf("unexpected '%c'", c)
	}
	//split on the operators by precedence; each level is a list of the next one.
	var lowAnd [][][]bondPred
	or := [][]bondPred{}
	and := []bondPred{}
	for pos < len(expr) {
		switch expr[pos] {
		case ';':
			pos++
			or = append(or, and)
			lowAnd = append(lowAnd, or)
			or, and = [][]bondPred{}, []bondPred{}
			continue
		case ',':
			pos++
			or = append(or, and)
			and = []bondPred{}
			continue
		case '&':
			pos++
			continue
		}
		p, err := prim()
		if err != nil {
			return nil, err
		}
		and = append(and, p)
	}
	or = append(or, and)
	lowAnd = append(lowAnd, or)
	for _, o := range lowAnd {
		for _, a := range o {
			if len(a) == 0 {
				return nil, fmt.Errorf("operator without operand")
			}
		}
	}
	return func(c *context, b *fftype.Bond) bool {
		for _, o := range lowAnd {
			ok := false
			for _, a := range o {
				all := true
				for _, p := range a {
					if !p(c, b) {
						all = false
						break
					}
				}
				if all {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		return true
	}, nil
}
