/*
 * batch.go, part of fftype.
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

// Package batch types many structures concurrently with one pipeline. The
// template library and charge table of a pipeline are only read while
// typing, so a single pipeline is shared by all workers.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/rmera/fftype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one structure to type.
type Job struct {
	ID     string
	SMILES string
}

// Result is the outcome of a Job. Err is set when the structure could not be
// typed at all; charge failures are in Outcome.ChargeErr.
type Result struct {
	Job      Job
	Outcome  *fftype.Outcome
	Err      error
	Duration time.Duration
}

// Status classifies the result: "failed", "untyped", "charge_error" or "ok".
// Untyped atoms have no charge parameters, so "untyped" takes precedence.
func (R Result) Status() string {
	switch {
	case R.Err != nil:
		return "failed"
	case len(R.Outcome.Typing.Untyped) > 0:
		return "untyped"
	case R.Outcome.ChargeErr != nil:
		return "charge_error"
	}
	return "ok"
}

// Runner runs jobs through Pipeline with at most Workers at a time.
type Runner struct {
	Pipeline *fftype.Pipeline
	Workers  int         //0 means the number of CPUs
	Logger   *zap.Logger //nil means no logging
	Metrics  *Metrics    //nil means no metrics
}

func (R *Runner) workers() int {
	if R.Workers > 0 {
		return R.Workers
	}
	return runtime.NumCPU()
}

func (R *Runner) logger() *zap.Logger {
	if R.Logger == nil {
		return zap.NewNop()
	}
	return R.Logger
}

// Run types every job and returns the results in the order of jobs. Problems
// with single structures are reported in their Result; the error is only
// non-nil if ctx was canceled before all jobs were done.
func (R *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(R.workers())
	l := R.logger()
	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = R.one(j, l)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (R *Runner) one(j Job, l *zap.Logger) Result {
	start := time.Now()
	res := Result{Job: j}
	res.Outcome, res.Err = R.Pipeline.Run(j.SMILES)
	res.Duration = time.Since(start)
	l = l.With(zap.String("id", j.ID), zap.String("smiles", j.SMILES))
	if res.Err != nil {
		l.Error("could not type structure", zap.Error(res.Err))
	} else {
		if res.Outcome.ChargeErr != nil {
			l.Warn("could not derive charges", zap.Error(res.Outcome.ChargeErr))
		}
		res.Outcome.Report.Log(l)
	}
	R.Metrics.observe(res)
	return res
}

// ReadJobs reads one job per line: a SMILES string, optionally followed by
// an identifier. Blank lines and lines starting with '#' are skipped. Jobs
// without identifier are called molN, N being the line number.
func ReadJobs(r io.Reader) ([]Job, error) {
	var ret []Job
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; s.Scan(); n++ {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f := strings.Fields(line)
		j := Job{SMILES: f[0], ID: fmt.Sprintf("mol%d", n)}
		if len(f) > 1 {
			j.ID = f[1]
		}
		ret = append(ret, j)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading jobs: %w", err)
	}
	return ret, nil
}

// JobsFromArgs makes jobs out of SMILES strings, called argN.
func JobsFromArgs(args []string) []Job {
	ret := make([]Job, len(args))
	for i, a := range args {
		ret[i] = Job{ID: fmt.Sprintf("arg%d", i+1), SMILES: a}
	}
	return ret
}
