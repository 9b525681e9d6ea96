/*
 * preprocess_test.go, part of fftype.
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
	"errors"
	"reflect"
	"testing"
)

func TestExplicitHydrogens(Te *testing.T) {
	for _, v := range []struct {
		in, out string
		n       int
	}{
		{"[CH3][CH2][OH]", "[C]([Xe])([Xe])([Xe])[C]([Xe])([Xe])[O]([Xe])", 6},
		{"[NH3+]C", "[N+]([Xe])([Xe])([Xe])C", 3},
		{"[C@@H](N)(C)O", "[C@@]([Xe])(N)(C)O", 1},
		{"[nH]1cccc1", "[n]1([Xe])cccc1", 1},
		{"[13CH2:4]=O", "[13C:4]([Xe])([Xe])=O", 2},
		{"[13CH4]", "[13CH4]", 0},
		{"C[H]", "C[Xe]", 0},
		{"  CCO\n", "CCO", 0},
	} {
		rw, err := ExplicitHydrogens(v.in)
		if err != nil {
			Te.Fatal(err)
		}
		if rw.Text != v.out || rw.Hydrogens != v.n || rw.Placeholder != "Xe" {
			Te.Errorf("%q: got %q (%d H), expected %q (%d H)", v.in, rw.Text, rw.Hydrogens, v.out, v.n)
		}
	}
}

func TestChoosePlaceholder(Te *testing.T) {
	rw, err := ExplicitHydrogens("[Xe]C[H]")
	if err != nil {
		Te.Fatal(err)
	}
	if rw.Placeholder != "Kr" || rw.Text != "[Xe]C[Kr]" {
		Te.Errorf("got %q with placeholder %s", rw.Text, rw.Placeholder)
	}
	_, err = ChoosePlaceholder("[Xe][Kr][Rn][Ar][Ne]")
	if !errors.Is(err, ErrPlaceholderExhausted) {
		Te.Fatalf("expected exhaustion, got %v", err)
	}
	var e *Error
	if !errors.As(err, &e) || !reflect.DeepEqual(e.Decorate(""), []string{"ChoosePlaceholder"}) {
		Te.Errorf("wrong decoration on %v", err)
	}
}

func TestRestoreHydrogens(Te *testing.T) {
	mol := NewMolecule()
	mol.AddAtom("C")
	mol.AddAtom("Kr")
	mol.AddAtom("Kr")
	if _, err := mol.AddBond(0, 1, 1); err != nil {
		Te.Fatal(err)
	}
	if _, err := mol.AddBond(0, 2, 1); err != nil {
		Te.Fatal(err)
	}
	if n := RestoreHydrogens(mol, "Kr"); n != 2 {
		Te.Errorf("%d atoms relabeled, expected 2", n)
	}
	if mol.Atom(1).Symbol != "H" || mol.Atom(2).Symbol != "H" {
		Te.Errorf("placeholders left: %v", mol.Atoms)
	}
	if RestoreHydrogens(mol, "") != 0 {
		Te.Errorf("empty placeholder should do nothing")
	}
	if mol.Formula() != "CH2" || mol.TotalHCount(0) != 2 || mol.Degree(0) != 2 {
		Te.Errorf("wrong molecule %s", mol.Formula())
	}
}

func TestErrorDecoration(Te *testing.T) {
	cause := errors.New("boom")
	e := newError(ErrPattern, "template 'x'", cause, true)
	if e.Error() != "invalid pattern: template 'x': boom" {
		Te.Errorf("message %q", e.Error())
	}
	err := errDecorate(errDecorate(e, "a"), "b")
	if !errors.Is(err, ErrPattern) || !errors.Is(err, cause) {
		Te.Errorf("kind or cause lost")
	}
	if d := e.Decorate(""); !reflect.DeepEqual(d, []string{"a", "b"}) {
		Te.Errorf("decoration %v", d)
	}
	if errDecorate(nil, "a") != nil {
		Te.Errorf("nil should stay nil")
	}
	plain := errors.New("plain")
	if errDecorate(plain, "a") != plain {
		Te.Errorf("plain errors should pass through")
	}
}

func TestDiagnosticsMerge(Te *testing.T) {
	var a, b Diagnostics
	a.add(&UntypedAtomsWarning{Indices: []int{2}})
	b.add(&ChargeImbalanceWarning{Total: 0.5, Tolerance: 1e-4})
	m := a.Merge(b)
	if len(m.Warnings) != 2 || m.Untyped() == nil || m.Imbalance() == nil || m.Empty() {
		Te.Errorf("bad merge %v", m.Warnings)
	}
	if a.Imbalance() != nil || b.Untyped() != nil {
		Te.Errorf("merge modified its inputs")
	}
	if s := m.Imbalance().Warning(); s != "total charge is not zero: 0.5000 (tolerance 0.0001)" {
		Te.Errorf("warning %q", s)
	}
}
