/*
 * type.go, part of fftype.
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

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rmera/fftype"
	"github.com/rmera/fftype/batch"
	"github.com/rmera/fftype/chargeplot"
	"github.com/rmera/fftype/chemjson"
	"github.com/rmera/fftype/forcefield"
	"github.com/rmera/fftype/internal/config"
	"github.com/rmera/fftype/toolkit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTypeCommand(a *app) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "type [SMILES...]",
		Short: "Assign atom types, and charges if the forcefield allows, to molecules",
		Long: `Assign atom types to the molecules given as arguments or, with --input, read
from a file with one SMILES and an optional identifier per line (or, for .jsonl
files, one {"id": ..., "smiles": ...} object per line). "-" reads from stdin.
Results are written to stdout, one per molecule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := readJobs(cmd, input, args)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				return fmt.Errorf("no structures given")
			}
			return a.runType(cmd.Context(), cmd.OutOrStdout(), jobs)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "file with one structure per line, - for stdin")
	f.Bool("add-hydrogens", false, "make implicit hydrogens explicit atoms before typing")
	f.Bool("uniquify", false, "count only one match per set of atoms")
	f.Int("max-matches-per-atom", config.DefaultMaxMatchesPerAtom, "cap the matches of each pattern at this many per atom, 0 for no cap")
	f.Float64("tolerance", config.DefaultChargeTolerance, "largest total charge considered zero")
	f.StringP("output", "o", config.DefaultOutputFormat, "output format: json or text")
	f.String("plot-dir", "", "write a charge plot for each molecule to this directory")
	f.String("plot-format", config.DefaultPlotFormat, "format of the charge plots")
	f.String("metrics-file", "", "write prometheus metrics to this file when done")
	f.IntP("workers", "w", 0, "molecules typed at the same time, 0 for one per CPU")
	a.bind(cmd, map[string]string{
		"typing.add_hydrogens":        "add-hydrogens",
		"typing.uniquify":             "uniquify",
		"typing.max_matches_per_atom": "max-matches-per-atom",
		"charges.tolerance":           "tolerance",
		"output.format":               "output",
		"output.plot_dir":             "plot-dir",
		"output.plot_format":          "plot-format",
		"metrics.file":                "metrics-file",
		"batch.workers":               "workers",
	}, false)
	return cmd
}

func readJobs(cmd *cobra.Command, input string, args []string) ([]batch.Job, error) {
	jobs := batch.JobsFromArgs(args)
	if input == "" {
		return jobs, nil
	}
	var r io.Reader = cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if strings.HasSuffix(input, ".jsonl") || strings.HasSuffix(input, ".json") {
		reqs, jerr := chemjson.DecodeRequests(bufio.NewReader(r))
		if jerr != nil {
			return nil, jerr
		}
		for _, q := range reqs {
			jobs = append(jobs, batch.Job{ID: q.ID, SMILES: q.SMILES})
		}
		return jobs, nil
	}
	more, err := batch.ReadJobs(r)
	if err != nil {
		return nil, err
	}
	return append(jobs, more...), nil
}

//pipeline builds the typing pipeline for the configured forcefield.
func (a *app) pipeline() (*fftype.Pipeline, error) {
	B, err := forcefield.Read(a.cfg.Forcefield.File)
	if err != nil {
		return nil, err
	}
	F, err := B.Select(a.cfg.Forcefield.Name)
	if err != nil {
		return nil, err
	}
	tk := toolkit.New(
		toolkit.WithMaxMatchesPerAtom(a.cfg.Typing.MaxMatchesPerAtom),
		toolkit.WithUniquify(a.cfg.Typing.Uniquify),
	)
	P, err := F.Pipeline(tk, fftype.WithAddHydrogens(a.cfg.Typing.AddHydrogens))
	if err != nil {
		return nil, err
	}
	P.Tolerance = a.cfg.Charges.Tolerance
	a.log.Info("forcefield loaded", zap.String("forcefield", F.Name), zap.Int("templates", P.Typer.Library().Len()),
		zap.Bool("charges", P.Charges != nil))
	return P, nil
}

func (a *app) runType(ctx context.Context, out io.Writer, jobs []batch.Job) error {
	if ctx == nil {
		ctx = context.Background()
	}
	P, err := a.pipeline()
	if err != nil {
		return err
	}
	R := &batch.Runner{Pipeline: P, Workers: a.cfg.Batch.Workers, Logger: a.log}
	var reg *prometheus.Registry
	if a.cfg.Metrics.File != "" {
		reg = prometheus.NewRegistry()
		if R.Metrics, err = batch.NewMetrics(reg); err != nil {
			return err
		}
	}
	results, err := R.Run(ctx, jobs)
	if err != nil {
		return err
	}
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
		if err := a.write(out, P.Forcefield, res); err != nil {
			return err
		}
		if err := a.plot(res); err != nil {
			return err
		}
	}
	if reg != nil {
		if err := prometheus.WriteToTextfile(a.cfg.Metrics.File, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d structures could not be typed", failed, len(results))
	}
	return nil
}

func (a *app) write(out io.Writer, ff string, res batch.Result) error {
	if a.cfg.Output.Format == "text" {
		return writeText(out, ff, res)
	}
	rec := chemjson.NewRecord(res.Job.ID, res.Job.SMILES, ff, res.Outcome, res.Err)
	if jerr := rec.Send(out); jerr != nil {
		return jerr
	}
	return nil
}

func writeText(out io.Writer, ff string, res batch.Result) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%s %s (%s)\n", res.Job.ID, res.Job.SMILES, ff)
	if res.Err != nil {
		fmt.Fprintf(w, "  error: %v\n", res.Err)
		return w.Flush()
	}
	O := res.Outcome
	for i, at := range O.Typing.Molecule.Atoms {
		fmt.Fprintf(w, "  %4d %-2s %-8s", i, at.Symbol, O.Types()[i])
		if O.Charges != nil {
			fmt.Fprintf(w, " %9.5f", O.Charges.Charges[i])
		}
		fmt.Fprintln(w)
	}
	for _, wr := range O.Report.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", wr.Warning())
	}
	if O.ChargeErr != nil {
		fmt.Fprintf(w, "  no charges: %v\n", O.ChargeErr)
	}
	fmt.Fprintf(w, "  %s\n", O.Report.Summary())
	return w.Flush()
}

func (a *app) plot(res batch.Result) error {
	dir := a.cfg.Output.PlotDir
	if dir == "" || res.Err != nil || res.Outcome.Charges == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	p, err := chargeplot.Outcome(res.Job.ID, res.Outcome)
	if err != nil {
		return err
	}
	name := chargeplot.FileName(dir, res.Job.ID, a.cfg.Output.PlotFormat)
	if err := chargeplot.Save(p, name); err != nil {
		return fmt.Errorf("saving plot %s: %w", filepath.Base(name), err)
	}
	return nil
}
