/*
 * pipeline.go, part of fftype.
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

import "errors"

// Pipeline types a molecule and, when the forcefield has bond increments,
// charges it.
type Pipeline struct {
	Forcefield string
	Typer      *Typer
	Charges    *ChargeTable //nil if the forcefield has no bond increments
	Tolerance  float64      //0 means DefaultChargeTolerance
}

// Outcome is the result of a Pipeline run. If the charge step failed, Charges
// is nil and ChargeErr says why; the typing is still valid.
type Outcome struct {
	Typing    *Typing
	Charges   *ChargeAssignment
	ChargeErr error
	Report    Report
}

// Types returns the atom types of the outcome.
func (O *Outcome) Types() TypeAssignment {
	return O.Typing.Types
}

// Run types and charges the structure in text. The returned error is non-nil
// only if the structure could not be typed at all.
func (P *Pipeline) Run(text string) (*Outcome, error) {
	t, err := P.Typer.AssignAtomTypes(text)
	if err != nil {
		return nil, errDecorate(err, "Pipeline.Run")
	}
	return P.charge(t), nil
}

// RunMolecule is like Run, for a molecule that's already been built.
func (P *Pipeline) RunMolecule(mol *Molecule) *Outcome {
	return P.charge(P.Typer.TypeMolecule(mol))
}

func (P *Pipeline) charge(t *Typing) *Outcome {
	O := &Outcome{Typing: t}
	if P.Charges != nil {
		c, err := AssignCharges(t.Molecule, t.Types, P.Charges, P.Tolerance)
		if err != nil {
			O.ChargeErr = errDecorate(err, "Pipeline.Run")
		} else {
			O.Charges = c
		}
	}
	O.Report = NewReport(P.Forcefield, t, O.Charges)
	return O
}

// ChargesFailed reports whether the charge step ran and failed because of a
// missing parameter.
func (O *Outcome) ChargesFailed() bool {
	return O.ChargeErr != nil && errors.Is(O.ChargeErr, ErrMissingChargeParameter)
}
