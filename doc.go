/*
 * doc.go, part of fftype.
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

/*Package fftype assigns forcefield atom types to every atom of a molecule
and, when the forcefield carries bond increments, derives per-atom partial
charges from them.

	**fftype pipeline**

    Rewrites a SMILES string so every hydrogen is an explicit atom. Implicit
	hydrogen counts on bracket atoms ([CH3], [NH2+], [cH]) become explicit
	hydrogens, and all hydrogens are written as a placeholder element that
	no atom of the molecule uses, so the structure parser keeps them as
	graph nodes. The placeholder is turned back into hydrogen after parsing.

    Types atoms with an ordered library of templates. Each template has a
	type name and one or more SMARTS patterns with numbered (mapped) atoms.
	Every match of every pattern writes the template's type into the
	numbered atoms. Later templates overwrite earlier ones, so the order of
	the library is part of the forcefield.

    Derives charges from bond increments: the charge of atom i is the base
	charge of its type plus the increment of the ordered type pair
	(type(i), type(j)) for every neighbour j. The total charge is checked
	against zero.

The structure parser and the substructure matcher are reached through the
Toolkit interface. The toolkit subpackage provides the implementation used
by the command line program and the tests (packages smiles and smarts).

None of the functions here log. They return the results together with a
Diagnostics value and a Report, which the caller can send to a zap logger
with Report.Log.

A Library and a ChargeTable are read-only after construction and can be
shared by any number of goroutines typing different molecules. Molecules
and the slices returned for them belong to a single call.*/
package fftype
