/*
 * metrics.go, part of fftype.
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

package batch

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsPrefix = "fftype_"

// Metrics counts what happens to the structures that go through a Runner.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	molecules    *prometheus.CounterVec
	atoms        prometheus.Counter
	untypedAtoms prometheus.Counter
	imbalanced   prometheus.Counter
	duration     prometheus.Histogram
}

// NewMetrics creates the metrics and registers them with reg, or with the
// default registerer if reg is nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	M := &Metrics{
		molecules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricsPrefix + "molecules_total",
			Help: "Structures processed, by status (ok, untyped, charge_error, failed).",
		}, []string{"status"}),
		atoms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricsPrefix + "atoms_total",
			Help: "Atoms in the structures that could be typed.",
		}),
		untypedAtoms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricsPrefix + "untyped_atoms_total",
			Help: "Atoms left without an atom type.",
		}),
		imbalanced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricsPrefix + "charge_imbalance_total",
			Help: "Structures whose charges don't add up to zero.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricsPrefix + "typing_duration_seconds",
			Help:    "Time spent typing and charging one structure.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}
	for _, c := range []prometheus.Collector{M.molecules, M.atoms, M.untypedAtoms, M.imbalanced, M.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return M, nil
}

func (M *Metrics) observe(r Result) {
	if M == nil {
		return
	}
	M.molecules.WithLabelValues(r.Status()).Inc()
	M.duration.Observe(r.Duration.Seconds())
	if r.Err != nil {
		return
	}
	M.atoms.Add(float64(len(r.Outcome.Types())))
	M.untypedAtoms.Add(float64(len(r.Outcome.Typing.Untyped)))
	if !r.Outcome.Report.Balanced() {
		M.imbalanced.Inc()
	}
}
