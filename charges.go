/*
 * charges.go, part of fftype.
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
	"gonum.org/v1/gonum/floats"
)

//DefaultChargeTolerance is the largest absolute total charge accepted as zero.
const DefaultChargeTolerance = 1e-4

//TypePair is an ordered pair of atom types. (A,B) and (B,A) are
//different keys.
type TypePair struct {
	I, J string
}

// ChargeTable holds the base charge of each atom type and the bond increment
// of each ordered pair of types. Fill it before sharing it; it's not safe to
// modify while it's being read.
type ChargeTable struct {
	base map[string]float64
	incr map[TypePair]float64
}

// NewChargeTable returns an empty table.
func NewChargeTable() *ChargeTable {
	return &ChargeTable{base: make(map[string]float64), incr: make(map[TypePair]float64)}
}

// SetBase sets the base charge of atom type t.
func (C *ChargeTable) SetBase(t string, q float64) {
	C.base[t] = q
}

// SetIncrement sets the increment added to an atom of type i for each bond
// to an atom of type j. It doesn't set the (j, i) increment.
func (C *ChargeTable) SetIncrement(i, j string, delta float64) {
	C.incr[TypePair{i, j}] = delta
}

// Base returns the base charge of type t.
func (C *ChargeTable) Base(t string) (float64, bool) {
	q, ok := C.base[t]
	return q, ok
}

// Increment returns the (i, j) bond increment. There is no fallback to (j, i).
func (C *ChargeTable) Increment(i, j string) (float64, bool) {
	d, ok := C.incr[TypePair{i, j}]
	return d, ok
}

// Len returns the number of base charges and of increments in the table.
func (C *ChargeTable) Len() (int, int) {
	return len(C.base), len(C.incr)
}

// ChargeAssignment holds one charge per atom.
type ChargeAssignment struct {
	Charges     []float64
	Total       float64
	Tolerance   float64
	Diagnostics Diagnostics
}

// Balanced reports whether the total charge is zero within the tolerance.
func (C *ChargeAssignment) Balanced() bool {
	return C.Diagnostics.Imbalance() == nil
}

// AssignCharges derives the charges of mol from its atom types and table. An
// optional tolerance replaces DefaultChargeTolerance.
func AssignCharges(mol *Molecule, types TypeAssignment, table *ChargeTable, tolerance ...float64) (*ChargeAssignment, error) {
	tol := DefaultChargeTolerance
	if len(tolerance) > 0 && tolerance[0] > 0 {
		tol = tolerance[0]
	}
	ret, err := DeriveCharges(BondedNeighbors(mol), types, table, tol)
	return ret, errDecorate(err, "AssignCharges")
}

// DeriveCharges computes, for each atom i, the base charge of its type plus the
// increment (type(i), type(j)) for every neighbor j. Any missing parameter
// makes the whole derivation fail. A total charge farther than tol from zero
// gives a ChargeImbalanceWarning, not an error.
func DeriveCharges(neighbors [][]int, types TypeAssignment, table *ChargeTable, tol float64) (*ChargeAssignment, error) {
	if len(neighbors) != len(types) {
		panic("DeriveCharges: neighbor list and atom types have different lengths")
	}
	charges := make([]float64, len(types))
	for i, itype := range types {
		q, ok := table.Base(itype)
		if !ok {
			return nil, missingParameter(i, itype, "")
		}
		for _, j := range neighbors[i] {
			jtype := types[j]
			d, ok := table.Increment(itype, jtype)
			if !ok {
				return nil, missingParameter(i, itype, jtype)
			}
			q += d
		}
		charges[i] = q
	}
	ret := &ChargeAssignment{Charges: charges, Total: floats.Sum(charges), Tolerance: tol}
	if ret.Total > tol || ret.Total < -tol {
		c := make([]float64, len(charges))
		copy(c, charges)
		ret.Diagnostics.add(&ChargeImbalanceWarning{Total: ret.Total, Tolerance: tol, Charges: c})
	}
	return ret, nil
}

func missingParameter(atom int, itype, jtype string) error {
	e := newError(ErrMissingChargeParameter, "", MissingChargeParameterError{Atom: atom, IType: itype, JType: jtype}, false)
	e.Decorate("DeriveCharges")
	return e
}
