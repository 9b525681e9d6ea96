/*
 * cli_test.go, part of fftype.
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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toy = "../../forcefield/testdata/toy.yaml"

func run(Te *testing.T, stdin string, args ...string) (string, error) {
	Te.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTypeJSON(Te *testing.T) {
	out, err := run(Te, "", "type", "-f", toy, "[CH3][CH2][OH]", "[CH3][CH3]")
	require.NoError(Te, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(Te, lines, 2)
	var m map[string]any
	require.NoError(Te, json.Unmarshal([]byte(lines[0]), &m))
	assert.Equal(Te, "arg1", m["id"])
	assert.Equal(Te, []any{"c3", "h", "h", "h", "c", "h", "h", "o", "ho"}, m["atom_types_alkane"])
	assert.Len(Te, m["charges_alkane"], 9)
}

func TestTypeText(Te *testing.T) {
	out, err := run(Te, "", "type", "-f", toy, "--ff-name", "typesonly", "-o", "text", "[CH3][OH]")
	require.NoError(Te, err)
	assert.Contains(Te, out, "arg1 [CH3][OH] (typesonly)")
	assert.Contains(Te, out, "heavy")
	assert.Contains(Te, out, "Assigned atom types to 6 atoms.")
}

func TestTypeInputFiles(Te *testing.T) {
	dir := Te.TempDir()
	plain := filepath.Join(dir, "mols.smi")
	require.NoError(Te, os.WriteFile(plain, []byte("[CH3][CH3] ethane\n"), 0o644))
	out, err := run(Te, "", "type", "-f", toy, "-i", plain)
	require.NoError(Te, err)
	assert.Contains(Te, out, `"id":"ethane"`)

	jl := filepath.Join(dir, "mols.jsonl")
	require.NoError(Te, os.WriteFile(jl, []byte(`{"id": "m", "smiles": "[CH3][OH]"}`+"\n"), 0o644))
	out, err = run(Te, "", "type", "-f", toy, "-i", jl)
	require.NoError(Te, err)
	assert.Contains(Te, out, `"id":"m"`)

	out, err = run(Te, "[CH3][CH3] fromstdin\n", "type", "-f", toy, "-i", "-")
	require.NoError(Te, err)
	assert.Contains(Te, out, `"id":"fromstdin"`)
}

func TestTypeMetricsAndPlots(Te *testing.T) {
	dir := Te.TempDir()
	metrics := filepath.Join(dir, "fftype.prom")
	plots := filepath.Join(dir, "plots")
	_, err := run(Te, "", "type", "-f", toy, "--metrics-file", metrics, "--plot-dir", plots, "--plot-format", "svg", "[CH3][CH3]")
	require.NoError(Te, err)
	b, err := os.ReadFile(metrics)
	require.NoError(Te, err)
	assert.Contains(Te, string(b), `fftype_molecules_total{status="ok"} 1`)
	_, err = os.Stat(filepath.Join(plots, "charges_arg1.svg"))
	assert.NoError(Te, err)
}

func TestTypeErrors(Te *testing.T) {
	_, err := run(Te, "", "type", "[CH3][CH3]")
	assert.Error(Te, err, "no forcefield")
	_, err = run(Te, "", "type", "-f", toy)
	assert.Error(Te, err, "no structures")
	_, err = run(Te, "", "type", "-f", toy, "--ff-name", "pcff", "C")
	assert.Error(Te, err)
	out, err := run(Te, "", "type", "-f", toy, "C(C", "[CH3][CH3]")
	assert.ErrorContains(Te, err, "1 of 2 structures")
	assert.Contains(Te, out, `"IsError":true`)
}

func TestForcefields(Te *testing.T) {
	out, err := run(Te, "", "forcefields", "-f", toy)
	require.NoError(Te, err)
	assert.Contains(Te, out, "alkane (default)")
	assert.Contains(Te, out, "typesonly")
	assert.Contains(Te, out, "bond increments")
}

func TestConfigFile(Te *testing.T) {
	abs, err := filepath.Abs(toy)
	require.NoError(Te, err)
	cfg := filepath.Join(Te.TempDir(), "fftype.yaml")
	content := "forcefield:\n  file: " + abs + "\n  name: typesonly\noutput:\n  format: text\n"
	require.NoError(Te, os.WriteFile(cfg, []byte(content), 0o644))
	out, err := run(Te, "", "--config", cfg, "type", "C")
	require.NoError(Te, err)
	assert.Contains(Te, out, "(typesonly)")
}
