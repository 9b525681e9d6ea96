/*
 * report.go, part of fftype.
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

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report summarizes the typing (and charging) of one molecule. It carries
// nothing forward; it's meant to be printed or logged.
type Report struct {
	Forcefield string
	Atoms      int
	Typed      int
	Untyped    []int
	Charged    bool
	Charges    []float64
	Total      float64
	Warnings   []Warning
}

// NewReport builds the report for a typing and, if not nil, its charges.
func NewReport(forcefield string, t *Typing, c *ChargeAssignment) Report {
	R := Report{Forcefield: forcefield, Atoms: len(t.Types), Typed: t.Types.Typed(), Untyped: t.Untyped}
	R.Warnings = append(R.Warnings, t.Diagnostics.Warnings...)
	if c != nil {
		R.Charged = true
		R.Charges = c.Charges
		R.Total = c.Total
		R.Warnings = append(R.Warnings, c.Diagnostics.Warnings...)
	}
	return R
}

// Summary is the one-line description of what was assigned.
func (R Report) Summary() string {
	if R.Charged {
		return fmt.Sprintf("Assigned atom types and charges to %d atoms.", R.Atoms)
	}
	return fmt.Sprintf("Assigned atom types to %d atoms.", R.Atoms)
}

// Balanced is false if a ChargeImbalanceWarning was raised.
func (R Report) Balanced() bool {
	for _, w := range R.Warnings {
		if _, ok := w.(*ChargeImbalanceWarning); ok {
			return false
		}
	}
	return true
}

// Log writes the report to l: warnings at warn level, and the summary and the
// charge vector at info level.
func (R Report) Log(l *zap.Logger) {
	if l == nil {
		return
	}
	if R.Forcefield != "" {
		l = l.With(zap.String("forcefield", R.Forcefield))
	}
	for _, w := range R.Warnings {
		switch v := w.(type) {
		case *UntypedAtomsWarning:
			l.Warn(v.Warning(), zap.Ints("untyped", v.Indices))
		case *ChargeImbalanceWarning:
			l.Warn(v.Warning(), zap.Float64("total_charge", v.Total))
		case *MatchCapWarning:
			l.Warn(v.Warning(), zap.String("template", v.Template), zap.String("pattern", v.Pattern))
		default:
			l.Warn(w.Warning())
		}
	}
	if len(R.Untyped) == 0 {
		l.Info("The molecule was successfully atom-typed")
	}
	l.Info(R.Summary(), zap.Int("typed", R.Typed), zap.Int("atoms", R.Atoms))
	if !R.Charged || len(R.Charges) == 0 {
		return
	}
	mean, std := stat.MeanStdDev(R.Charges, nil)
	fields := []zap.Field{
		zap.Float64s("charges", R.Charges),
		zap.Float64("total_charge", R.Total),
		zap.Float64("mean", mean),
		zap.Float64("std", std),
		zap.Float64("max", floats.Max(R.Charges)),
		zap.Float64("min", floats.Min(R.Charges)),
	}
	if R.Balanced() {
		l.Info("Charges from increments", fields...)
		return
	}
	l.Info("Charges from increments and charges", fields...)
}
