/*
 * typer.go, part of fftype.
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

//Untyped is the type of the atoms no template matched.
const Untyped = "?"

// TypeAssignment holds one atom type per atom, in atom order.
type TypeAssignment []string

// UntypedIndices returns the indexes of the atoms still carrying the Untyped sentinel.
func (T TypeAssignment) UntypedIndices() []int {
	ret := make([]int, 0)
	for i, v := range T {
		if v == Untyped {
			ret = append(ret, i)
		}
	}
	return ret
}

// Typed returns how many atoms got a type.
func (T TypeAssignment) Typed() int {
	n := 0
	for _, v := range T {
		if v != Untyped {
			n++
		}
	}
	return n
}

// Typing is the result of typing one molecule.
type Typing struct {
	Molecule    *Molecule
	Rewritten   *Rewritten //nil if the molecule was typed directly
	Types       TypeAssignment
	Untyped     []int
	Diagnostics Diagnostics
}

// TyperOption configures a Typer.
type TyperOption func(*Typer)

// WithAddHydrogens makes the Typer turn all implicit hydrogens into atoms before
// typing. The toolkit must implement HydrogenAdder, otherwise the option
// does nothing.
func WithAddHydrogens(add bool) TyperOption {
	return func(T *Typer) { T.addH = add }
}

// Typer assigns atom types with a template library. It holds no per-call
// state, so one Typer can serve concurrent calls.
type Typer struct {
	tk   Toolkit
	lib  *Library
	addH bool
}

// NewTyper returns a Typer using tk to parse structures and find matches.
func NewTyper(tk Toolkit, lib *Library, opts ...TyperOption) *Typer {
	T := &Typer{tk: tk, lib: lib}
	for _, o := range opts {
		o(T)
	}
	return T
}

// Library returns the template library of the typer.
func (T *Typer) Library() *Library {
	return T.lib
}

// Prepare makes hydrogens explicit in text, parses it, and turns the placeholder
// atoms back into hydrogens.
func (T *Typer) Prepare(text string) (*Molecule, *Rewritten, error) {
	rw, err := ExplicitHydrogens(text)
	if err != nil {
		return nil, nil, errDecorate(err, "Prepare")
	}
	mol, err := T.tk.ParseStructure(rw.Text)
	if err != nil {
		e := newError(ErrUnparsableInput, "structure "+rw.Original, err, true)
		e.Decorate("Prepare")
		return nil, rw, e
	}
	RestoreHydrogens(mol, rw.Placeholder)
	if T.addH {
		if ha, ok := T.tk.(HydrogenAdder); ok {
			ha.AddHydrogens(mol)
		}
	}
	return mol, rw, nil
}

// AssignAtomTypes types the structure given as text. Failing to parse the
// text is the only error; atoms left untyped are reported in the Diagnostics.
func (T *Typer) AssignAtomTypes(text string) (*Typing, error) {
	mol, rw, err := T.Prepare(text)
	if err != nil {
		return nil, errDecorate(err, "AssignAtomTypes")
	}
	ret := T.TypeMolecule(mol)
	ret.Rewritten = rw
	return ret, nil
}

// TypeMolecule types the atoms of mol. Templates are applied in library order,
// the patterns of each template in their order, and every match writes the
// template name into the atoms at the mapped sites, replacing whatever was
// there. So the last template to claim an atom decides its type.
func (T *Typer) TypeMolecule(mol *Molecule) *Typing {
	types := make(TypeAssignment, mol.Len())
	for i := range types {
		types[i] = Untyped
	}
	var capped []Warning
	cm, canCap := T.tk.(CappedMatcher)
	for _, tmpl := range T.lib.templates {
		for _, p := range tmpl.Patterns {
			sites := MappedSites(p)
			var matches []Match
			if canCap {
				var c bool
				matches, c = cm.FindMatchesCapped(p, mol)
				if c {
					capped = append(capped, &MatchCapWarning{Template: tmpl.Name, Pattern: p.String()})
				}
			} else {
				matches = T.tk.FindMatches(p, mol)
			}
			for _, m := range matches {
				for _, s := range sites {
					types[m[s]] = tmpl.Name
				}
			}
		}
	}
	ret := &Typing{Molecule: mol, Types: types, Untyped: types.UntypedIndices()}
	if len(ret.Untyped) > 0 {
		ret.Diagnostics.add(&UntypedAtomsWarning{Indices: ret.Untyped})
	}
	for _, w := range capped {
		ret.Diagnostics.add(w)
	}
	return ret
}

// AssignAtomTypes is a shortcut for NewTyper(tk, lib).AssignAtomTypes(text).
func AssignAtomTypes(text string, lib *Library, tk Toolkit) (TypeAssignment, error) {
	t, err := NewTyper(tk, lib).AssignAtomTypes(text)
	if err != nil {
		return nil, err
	}
	return t.Types, nil
}
