/*
 * interfaces.go, part of fftype.
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

//Match is one occurrence of a pattern in a molecule: the index of the
//molecule atom matched by each pattern atom, in pattern-atom order.
type Match []int

// Pattern is a compiled substructure query.
type Pattern interface {
	//Len returns the number of atoms in the pattern.
	Len() int

	//Sites maps each mapped-site number, as written in the pattern (1-based),
	//to the 0-based position of the pattern atom that carries it.
	Sites() map[int]int

	//String returns the text the pattern was compiled from.
	String() string
}

// Toolkit is the structural-chemistry capability the typer relies on. Parsing
// structures and patterns and finding substructure matches are not done in
// this package.
type Toolkit interface {
	//ParseStructure builds a molecular graph from its text encoding.
	ParseStructure(text string) (*Molecule, error)

	//ParsePattern compiles a substructure query.
	ParsePattern(text string) (Pattern, error)

	//FindMatches returns every match of p in mol, possibly none.
	//The order of the returned matches must be deterministic.
	FindMatches(p Pattern, mol *Molecule) []Match
}

// HydrogenAdder is implemented by toolkits that can turn implicit hydrogens into
// explicit atoms.
type HydrogenAdder interface {
	AddHydrogens(mol *Molecule)
}

// CappedMatcher is implemented by toolkits that may stop looking for matches
// before finding all of them. capped is true if some matches were left out.
type CappedMatcher interface {
	FindMatchesCapped(p Pattern, mol *Molecule) (matches []Match, capped bool)
}

//Errors

// Decorator is the interface for errors that can carry the chain of functions they
// went through. The Decorate method adds info to the error without changing its type.
type Decorator interface {
	Error() string
	Decorate(string) []string //If passed an empty string, it just returns the current value.
}

// Warning is a non-fatal condition found while typing or charging a molecule.
type Warning interface {
	Warning() string
}
