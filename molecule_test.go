/*
 * molecule_test.go, part of fftype.
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
	"reflect"
	"testing"

	"github.com/rmera/fftype"
	"github.com/rmera/fftype/toolkit"
)

func TestFormula(Te *testing.T) {
	tk := toolkit.New()
	for _, v := range []struct{ smiles, formula string }{
		{"CCO", "C2H6O"},
		{"O", "H2O"},
		{"[CH3][CH2][OH]", "C2H6O"},
		{"c1ccccc1", "C6H6"},
		{"[Na+].[Cl-]", "ClNa"},
	} {
		mol, err := tk.ParseStructure(v.smiles)
		if err != nil {
			Te.Fatal(err)
		}
		if f := mol.Formula(); f != v.formula {
			Te.Errorf("%s: formula %s, expected %s", v.smiles, f, v.formula)
		}
	}
}

func TestBondedNeighbors(Te *testing.T) {
	mol, err := toolkit.New().ParseStructure("CC(O)=O")
	if err != nil {
		Te.Fatal(err)
	}
	exp := [][]int{{1}, {0, 2, 3}, {1}, {1}}
	if n := fftype.BondedNeighbors(mol); !reflect.DeepEqual(n, exp) {
		Te.Errorf("neighbors %v, expected %v", n, exp)
	}
	if !reflect.DeepEqual(mol.Neighbors(1), exp[1]) || mol.Degree(1) != 3 {
		Te.Errorf("wrong neighbors of atom 1")
	}
	if mol.Valence(1) != 4 || mol.BondBetween(1, 3).Order != 2 || mol.BondBetween(0, 2) != nil {
		Te.Errorf("wrong bonds %v", mol.Bonds)
	}
	if mol.HeavyAtoms() != 4 || mol.ImplicitHydrogens() != 4 {
		Te.Errorf("%d heavy atoms, %d implicit H", mol.HeavyAtoms(), mol.ImplicitHydrogens())
	}
	if _, err := mol.AddBond(0, 1, 1); err == nil {
		Te.Errorf("bonded the same atoms twice")
	}
	if _, err := mol.AddBond(0, 9, 1); err == nil {
		Te.Errorf("bonded a missing atom")
	}
}
