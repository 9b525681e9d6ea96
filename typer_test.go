/*
 * typer_test.go, part of fftype.
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

package fftype_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rmera/fftype"
	"github.com/rmera/fftype/toolkit"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func lib(Te *testing.T, tk fftype.Toolkit, src ...fftype.TemplateSource) *fftype.Library {
	Te.Helper()
	L, err := fftype.NewLibrary(tk, src)
	if err != nil {
		Te.Fatal(err)
	}
	return L
}

func src(name string, smarts ...string) fftype.TemplateSource {
	return fftype.TemplateSource{Name: name, SMARTS: smarts}
}

func TestTypesLength(Te *testing.T) {
	tk := toolkit.New()
	L := lib(Te, tk, src("c", "[#6:1]"), src("o", "[#8:1]"))
	for _, v := range []struct {
		smiles string
		n      int
	}{
		{"CCO", 3},
		{"[CH3][CH2][OH]", 9},
		{"[CH3]C=O", 6},
		{"[Na+].[Cl-]", 2},
	} {
		types, err := fftype.AssignAtomTypes(v.smiles, L, tk)
		if err != nil {
			Te.Fatal(err)
		}
		if len(types) != v.n {
			Te.Errorf("%s: %d types, expected %d", v.smiles, len(types), v.n)
		}
	}
}

func TestLastTemplateWins(Te *testing.T) {
	tk := toolkit.New()
	generic := src("generic", "[#6:1]")
	methyl := src("methyl", "[CH3:1]")
	U := fftype.Untyped

	T := fftype.NewTyper(tk, lib(Te, tk, generic, methyl))
	t, err := T.AssignAtomTypes("[CH3]C=O")
	if err != nil {
		Te.Fatal(err)
	}
	exp := fftype.TypeAssignment{"methyl", U, U, U, "generic", U}
	if !reflect.DeepEqual(t.Types, exp) {
		Te.Errorf("got %v, expected %v", t.Types, exp)
	}

	T = fftype.NewTyper(tk, lib(Te, tk, methyl, generic))
	t, err = T.AssignAtomTypes("[CH3]C=O")
	if err != nil {
		Te.Fatal(err)
	}
	exp = fftype.TypeAssignment{"generic", U, U, U, "generic", U}
	if !reflect.DeepEqual(t.Types, exp) {
		Te.Errorf("reversed library: got %v, expected %v", t.Types, exp)
	}
}

func TestTypingIdempotent(Te *testing.T) {
	tk := toolkit.New()
	T := fftype.NewTyper(tk, lib(Te, tk, src("c", "[#6:1]"), src("h", "[#1:1]"), src("oh", "[OX2H1:1]")))
	a, err := T.AssignAtomTypes("[CH3][CH2][OH]")
	if err != nil {
		Te.Fatal(err)
	}
	b, err := T.AssignAtomTypes("[CH3][CH2][OH]")
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(a.Types, b.Types) {
		Te.Errorf("two runs differ: %v %v", a.Types, b.Types)
	}
	if len(a.Untyped) != 0 || !a.Diagnostics.Empty() {
		Te.Errorf("unexpected untyped atoms %v", a.Untyped)
	}
}

func TestMultipleSites(Te *testing.T) {
	tk := toolkit.New()
	T := fftype.NewTyper(tk, lib(Te, tk, src("ch", "[#6:1][#1:2]")))
	t, err := T.AssignAtomTypes("[CH3][OH]")
	if err != nil {
		Te.Fatal(err)
	}
	U := fftype.Untyped
	exp := fftype.TypeAssignment{"ch", "ch", "ch", "ch", U, U}
	if !reflect.DeepEqual(t.Types, exp) {
		Te.Errorf("got %v, expected %v", t.Types, exp)
	}
	w := t.Diagnostics.Untyped()
	if w == nil {
		Te.Fatal("no untyped-atoms warning")
	}
	if !reflect.DeepEqual(w.Indices, []int{4, 5}) || !reflect.DeepEqual(t.Untyped, []int{4, 5}) {
		Te.Errorf("untyped atoms %v, expected [4 5]", w.Indices)
	}
	if t.Types.Typed() != 4 {
		Te.Errorf("%d typed atoms, expected 4", t.Types.Typed())
	}
}

func TestAddHydrogens(Te *testing.T) {
	tk := toolkit.New()
	L := lib(Te, tk, src("c", "[#6:1]"), src("h", "[#1:1]"))
	t, err := fftype.NewTyper(tk, L).AssignAtomTypes("C")
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(t.Types, fftype.TypeAssignment{"c"}) {
		Te.Errorf("implicit hydrogens were typed: %v", t.Types)
	}
	t, err = fftype.NewTyper(tk, L, fftype.WithAddHydrogens(true)).AssignAtomTypes("C")
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(t.Types, fftype.TypeAssignment{"c", "h", "h", "h", "h"}) {
		Te.Errorf("got %v", t.Types)
	}
}

func TestTypingErrors(Te *testing.T) {
	tk := toolkit.New()
	L := lib(Te, tk, src("c", "[#6:1]"))
	_, err := fftype.AssignAtomTypes("C(C", L, tk)
	if !errors.Is(err, fftype.ErrUnparsableInput) {
		Te.Fatalf("expected an unparsable input error, got %v", err)
	}
	var e *fftype.Error
	if !errors.As(err, &e) || !e.Critical() {
		Te.Errorf("error should be a critical *Error: %v", err)
	}
	_, err = fftype.AssignAtomTypes("[Xe][Kr][Rn][Ar][Ne]", L, tk)
	if !errors.Is(err, fftype.ErrPlaceholderExhausted) {
		Te.Errorf("expected placeholder exhaustion, got %v", err)
	}
}

func TestLibraryErrors(Te *testing.T) {
	tk := toolkit.New()
	for _, s := range []string{"[C:1", "[#6][#8]"} {
		_, err := fftype.NewLibrary(tk, []fftype.TemplateSource{src("x", s)})
		if !errors.Is(err, fftype.ErrPattern) {
			Te.Errorf("%q: expected a pattern error, got %v", s, err)
		}
	}
	L := lib(Te, tk, src("a", "[#6:1]"), src("b", "[#8:1]", "[#7:1]"))
	if L.Len() != 2 || !reflect.DeepEqual(L.Names(), []string{"a", "b"}) {
		Te.Errorf("wrong library %v", L.Names())
	}
	if len(L.Template(1).Patterns) != 2 {
		Te.Errorf("template b should have 2 patterns")
	}
}

func TestMappedSites(Te *testing.T) {
	p, err := toolkit.New().ParsePattern("[#6:2][#8:1]")
	if err != nil {
		Te.Fatal(err)
	}
	if s := fftype.MappedSites(p); !reflect.DeepEqual(s, []int{1, 0}) {
		Te.Errorf("sites %v, expected [1 0]", s)
	}
}

func TestSymmetricTemplateTypesEveryAtom(Te *testing.T) {
	//each methyl H of neopentane is reached by many symmetric embeddings
	neopentane := "[CH3]C([CH3])([CH3])[CH3]"
	hq := "[#1:1][#6]([#1])([#1])[#6]([#6])([#6])[#6]"
	tk := toolkit.New()
	t, err := fftype.NewTyper(tk, lib(Te, tk, src("c", "[#6:1]"), src("hq", hq))).AssignAtomTypes(neopentane)
	if err != nil {
		Te.Fatal(err)
	}
	if len(t.Untyped) != 0 || !t.Diagnostics.Empty() {
		Te.Errorf("untyped atoms %v, warnings %v", t.Untyped, t.Diagnostics.Warnings)
	}
	for i, at := range t.Molecule.Atoms {
		exp := "c"
		if at.Symbol == "H" {
			exp = "hq"
		}
		if t.Types[i] != exp {
			Te.Errorf("atom %d (%s): type %s, expected %s", i, at.Symbol, t.Types[i], exp)
		}
	}

	tk = toolkit.New(toolkit.WithMaxMatchesPerAtom(6))
	t, err = fftype.NewTyper(tk, lib(Te, tk, src("c", "[#6:1]"), src("hq", hq))).AssignAtomTypes(neopentane)
	if err != nil {
		Te.Fatal(err)
	}
	c := t.Diagnostics.Capped()
	if len(c) != 1 || c[0].Template != "hq" || c[0].Pattern != hq {
		Te.Fatalf("expected one capped-matches warning for hq, got %v", c)
	}
	if len(t.Untyped) == 0 {
		Te.Errorf("a capped search should leave some hydrogens untyped here")
	}
	core, logs := observer.New(zap.WarnLevel)
	fftype.NewReport("", t, nil).Log(zap.New(core))
	if logs.FilterField(zap.String("template", "hq")).Len() != 1 {
		Te.Errorf("capped matches not logged")
	}
}
