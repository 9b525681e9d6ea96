/*
 * forcefield_test.go, part of fftype.
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

package forcefield

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rmera/fftype"
	"github.com/rmera/fftype/toolkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toy = "testdata/toy.yaml"

func TestReadSelect(Te *testing.T) {
	B, err := Read(toy)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"alkane", "typesonly"}, B.Names())

	F, err := B.Select(DefaultName)
	require.NoError(Te, err)
	assert.Equal(Te, "alkane", F.Name)
	F, err = B.Select("")
	require.NoError(Te, err)
	assert.Equal(Te, "alkane", F.Name)

	F, err = B.Select("typesonly")
	require.NoError(Te, err)
	assert.False(Te, F.HasBondIncrements())
	assert.Nil(Te, F.ChargeTable())

	_, err = B.Select("pcff")
	assert.True(Te, errors.Is(err, ErrNotFound))

	_, err = Read("testdata/nothere.yaml")
	assert.True(Te, errors.Is(err, os.ErrNotExist))
}

func TestTemplatesAndCharges(Te *testing.T) {
	B, err := Read(toy)
	require.NoError(Te, err)
	F, err := B.Select("alkane")
	require.NoError(Te, err)
	src := F.TemplateSources()
	require.Len(Te, src, 5)
	names := make([]string, len(src))
	for i, s := range src {
		names[i] = s.Name
	}
	assert.Equal(Te, []string{"h", "c", "c3", "o", "ho"}, names)
	assert.Equal(Te, []string{"[CX4H3:1]"}, src[2].SMARTS)

	at := F.AtomType("ho")
	require.NotNil(Te, at)
	assert.Equal(Te, "H", at.Element)
	assert.InDelta(Te, 1.008, at.Mass, 1e-9)
	assert.Nil(Te, F.AtomType("n"))

	C := F.ChargeTable()
	require.NotNil(Te, C)
	d, ok := C.Increment("c3", "h")
	assert.True(Te, ok)
	assert.InDelta(Te, -0.053, d, 1e-12)
	d, ok = C.Increment("h", "c3")
	assert.True(Te, ok)
	assert.InDelta(Te, 0.053, d, 1e-12)
	_, ok = C.Increment("h", "h")
	assert.False(Te, ok)
	q, ok := C.Base("o")
	assert.True(Te, ok)
	assert.Zero(Te, q)
	nbase, nincr := C.Len()
	assert.Equal(Te, 5, nbase)
	assert.Equal(Te, 14, nincr)
}

func TestPipeline(Te *testing.T) {
	B, err := Read(toy)
	require.NoError(Te, err)
	F, err := B.Select("alkane")
	require.NoError(Te, err)
	P, err := F.Pipeline(toolkit.New())
	require.NoError(Te, err)
	O, err := P.Run("[CH3][CH2][OH]")
	require.NoError(Te, err)
	assert.Equal(Te, fftype.TypeAssignment{"c3", "h", "h", "h", "c", "h", "h", "o", "ho"}, O.Types())
	require.NoError(Te, O.ChargeErr)
	want := []float64{-0.159, 0.053, 0.053, 0.053, 0.014, 0.053, 0.053, -0.52, 0.4}
	assert.InDeltaSlice(Te, want, O.Charges.Charges, 1e-9)
	assert.InDelta(Te, 0, O.Charges.Total, 1e-9)
	assert.True(Te, O.Report.Balanced())
	assert.Equal(Te, "Assigned atom types and charges to 9 atoms.", O.Report.Summary())

	F, err = B.Select("typesonly")
	require.NoError(Te, err)
	P, err = F.Pipeline(toolkit.New())
	require.NoError(Te, err)
	O, err = P.Run("[CH3][OH]")
	require.NoError(Te, err)
	assert.Equal(Te, fftype.TypeAssignment{"heavy", "hyd", "hyd", "hyd", "heavy", "hyd"}, O.Types())
	assert.Nil(Te, O.Charges)
	assert.Equal(Te, "Assigned atom types to 6 atoms.", O.Report.Summary())
}

func TestPipelineBadPattern(Te *testing.T) {
	F := &Forcefield{Name: "bad", Templates: []Template{{Type: "x", SMARTS: []string{"[C"}}}}
	_, err := F.Pipeline(toolkit.New())
	assert.True(Te, errors.Is(err, fftype.ErrPattern))
}

func compressed(Te *testing.T, kind string) []byte {
	raw, err := os.ReadFile(toy)
	require.NoError(Te, err)
	var buf bytes.Buffer
	var w io.WriteCloser
	switch kind {
	case "zstd":
		w, err = zstd.NewWriter(&buf)
	case "gzip":
		w = gzip.NewWriter(&buf)
	}
	require.NoError(Te, err)
	_, err = w.Write(raw)
	require.NoError(Te, err)
	require.NoError(Te, w.Close())
	return buf.Bytes()
}

func TestDecodeCompressed(Te *testing.T) {
	for _, kind := range []string{"zstd", "gzip"} {
		B, err := Decode(bytes.NewReader(compressed(Te, kind)))
		require.NoError(Te, err, kind)
		assert.Equal(Te, []string{"alkane", "typesonly"}, B.Names(), kind)
	}
	name := Te.TempDir() + "/toy.yaml.zst"
	require.NoError(Te, os.WriteFile(name, compressed(Te, "zstd"), 0o644))
	B, err := Read(name)
	require.NoError(Te, err)
	assert.Len(Te, B.Forcefields, 2)
}

func TestDecodeErrors(Te *testing.T) {
	bad := map[string]string{
		"empty":         "",
		"no forcefield": "forcefields: []\n",
		"unknown key":   "forcefields:\n  - name: a\n    colour: blue\n",
		"unnamed":       "forcefields:\n  - templates: []\n",
		"twice":         "forcefields:\n  - name: a\n  - name: a\n",
		"type twice":    "forcefields:\n  - name: a\n    atom_types:\n      - {name: c}\n      - {name: c}\n",
		"bad element":   "forcefields:\n  - name: a\n    atom_types:\n      - {name: c, element: Qq}\n",
		"no smarts":     "forcefields:\n  - name: a\n    templates:\n      - {type: c}\n",
		"no type":       "forcefields:\n  - name: a\n    templates:\n      - {smarts: ['[C:1]']}\n",
		"half bi":       "forcefields:\n  - name: a\n    bond_increments:\n      - {i: c, deltaij: 0.1}\n",
		"not yaml":      "forcefields: [\n",
		"untyped type":  "forcefields:\n  - name: a\n    atom_types:\n      - {name: '?'}\n",
		"untyped tmpl":  "forcefields:\n  - name: a\n    templates:\n      - {type: '?', smarts: ['[C:1]']}\n",
		"untyped bi":    "forcefields:\n  - name: a\n    bond_increments:\n      - {i: c, j: '?', deltaij: 0.1, deltaji: -0.1}\n",
	}
	for k, v := range bad {
		_, err := Decode(strings.NewReader(v))
		assert.Error(Te, err, k)
	}
	_, err := Decode(strings.NewReader(bad["untyped tmpl"]))
	assert.ErrorContains(Te, err, "reserved for untyped atoms")
}
