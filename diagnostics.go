/*
 * diagnostics.go, part of fftype.
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
	"fmt"
	"strings"
)

// UntypedAtomsWarning lists the atoms that no template matched.
type UntypedAtomsWarning struct {
	Indices []int
}

func (U *UntypedAtomsWarning) Warning() string {
	s := make([]string, len(U.Indices))
	for i, v := range U.Indices {
		s[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("the forcefield does not have atom types for %d atom(s): %s", len(U.Indices), strings.Join(s, ", "))
}

// MatchCapWarning is raised when the toolkit dropped matches of a template
// pattern because of its match cap. Atoms left untyped, or typed by an earlier
// template, may be wrong in that case.
type MatchCapWarning struct {
	Template string
	Pattern  string
}

func (M *MatchCapWarning) Warning() string {
	return fmt.Sprintf("matches of pattern %q of template '%s' were capped, some atoms may be mistyped", M.Pattern, M.Template)
}

// ChargeImbalanceWarning is raised when the charges derived from bond increments
// don't add up to zero.
type ChargeImbalanceWarning struct {
	Total     float64
	Tolerance float64
	Charges   []float64
}

func (C *ChargeImbalanceWarning) Warning() string {
	return fmt.Sprintf("total charge is not zero: %.4f (tolerance %g)", C.Total, C.Tolerance)
}

// Diagnostics collects the warnings of one stage. It's returned with the
// result of each stage instead of being logged.
type Diagnostics struct {
	Warnings []Warning
}

func (D *Diagnostics) add(w Warning) {
	D.Warnings = append(D.Warnings, w)
}

// Empty is true if no warning was raised.
func (D Diagnostics) Empty() bool {
	return len(D.Warnings) == 0
}

// Untyped returns the untyped-atoms warning, or nil.
func (D Diagnostics) Untyped() *UntypedAtomsWarning {
	for _, w := range D.Warnings {
		if u, ok := w.(*UntypedAtomsWarning); ok {
			return u
		}
	}
	return nil
}

// Capped returns the match-cap warnings.
func (D Diagnostics) Capped() []*MatchCapWarning {
	var ret []*MatchCapWarning
	for _, w := range D.Warnings {
		if c, ok := w.(*MatchCapWarning); ok {
			ret = append(ret, c)
		}
	}
	return ret
}

// Imbalance returns the charge-imbalance warning, or nil.
func (D Diagnostics) Imbalance() *ChargeImbalanceWarning {
	for _, w := range D.Warnings {
		if c, ok := w.(*ChargeImbalanceWarning); ok {
			return c
		}
	}
	return nil
}

// Merge returns a Diagnostics with the warnings of D followed by those of O.
func (D Diagnostics) Merge(O Diagnostics) Diagnostics {
	w := make([]Warning, 0, len(D.Warnings)+len(O.Warnings))
	w = append(w, D.Warnings...)
	w = append(w, O.Warnings...)
	return Diagnostics{Warnings: w}
}
