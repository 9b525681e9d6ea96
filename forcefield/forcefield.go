/*
 * forcefield.go, part of fftype.
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

// Package forcefield reads forcefield parameter bundles: the atom-type
// templates used for typing, the atom types themselves, and the bond
// increments used to derive charges.
//
// A bundle is a YAML document, optionally compressed with zstd or gzip, with
// one or more forcefields:
//
//	forcefields:
//	  - name: pcff
//	    templates:
//	      - {type: c, smarts: ["[CX4:1]"]}
//	    atom_types:
//	      - {name: c, element: C, mass: 12.011, charge: 0.0}
//	    bond_increments:
//	      - {i: c, j: h, deltaij: -0.053, deltaji: 0.053}
//
// Templates keep the order of the file, since later templates override
// earlier ones.
package forcefield

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rmera/fftype"
	"gopkg.in/yaml.v3"
)

// DefaultName selects the first forcefield of a bundle.
const DefaultName = "default"

// ErrNotFound is returned when a bundle has no forcefield with the requested name.
var ErrNotFound = errors.New("forcefield not found")

// AtomType is a forcefield atom type. Charge is the base charge of the type
// for bond-increment charges, nil if the forcefield doesn't give one.
type AtomType struct {
	Name        string   `yaml:"name"`
	Element     string   `yaml:"element"`
	Mass        float64  `yaml:"mass"`
	Charge      *float64 `yaml:"charge"`
	Description string   `yaml:"description,omitempty"`
}

// Template is an atom type and the SMARTS patterns that assign it.
type Template struct {
	Type   string   `yaml:"type"`
	SMARTS []string `yaml:"smarts"`
}

// BondIncrement holds the charge moved along a bond between atoms of types I
// and J: DeltaIJ is added to the I atom, and DeltaJI to the J atom.
type BondIncrement struct {
	I       string  `yaml:"i"`
	J       string  `yaml:"j"`
	DeltaIJ float64 `yaml:"deltaij"`
	DeltaJI float64 `yaml:"deltaji"`
}

// Forcefield is one forcefield of a bundle.
type Forcefield struct {
	Name           string           `yaml:"name"`
	Description    string           `yaml:"description,omitempty"`
	Templates      []Template       `yaml:"templates"`
	AtomTypes      []*AtomType      `yaml:"atom_types"`
	BondIncrements []BondIncrement `yaml:"bond_increments"`
}

// Bundle is the content of a forcefield file.
type Bundle struct {
	Forcefields []*Forcefield `yaml:"forcefields"`
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Read reads a bundle from the file name.
func Read(name string) (*Bundle, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("reading forcefield: %w", err)
	}
	defer f.Close()
	B, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return B, nil
}

// Decode reads a bundle from r, decompressing it first if it starts with the
// zstd or gzip magic numbers. Unknown keys are an error.
func Decode(r io.Reader) (*Bundle, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4)
	var in io.Reader = br
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		in = zr
	case bytes.HasPrefix(head, gzipMagic):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gr.Close()
		in = gr
	}
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	B := new(Bundle)
	if err := dec.Decode(B); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty forcefield bundle")
		}
		return nil, fmt.Errorf("decoding forcefield bundle: %w", err)
	}
	if err := B.Validate(); err != nil {
		return nil, err
	}
	return B, nil
}

// Validate checks that forcefield names are unique and not empty, and the
// same for the atom types and templates within each forcefield.
func (B *Bundle) Validate() error {
	if len(B.Forcefields) == 0 {
		return fmt.Errorf("no forcefields in bundle")
	}
	seen := make(map[string]bool)
	for i, F := range B.Forcefields {
		if F == nil || F.Name == "" {
			return fmt.Errorf("forcefield %d has no name", i)
		}
		if seen[F.Name] {
			return fmt.Errorf("forcefield %q defined twice", F.Name)
		}
		seen[F.Name] = true
		if err := F.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the names of the forcefields in the bundle, in order.
func (B *Bundle) Names() []string {
	ret := make([]string, len(B.Forcefields))
	for i, F := range B.Forcefields {
		ret[i] = F.Name
	}
	return ret
}

// Select returns the forcefield with the given name. "default", or an empty
// name, gives the first forcefield of the bundle.
func (B *Bundle) Select(name string) (*Forcefield, error) {
	if len(B.Forcefields) == 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if name == "" || name == DefaultName {
		return B.Forcefields[0], nil
	}
	for _, F := range B.Forcefields {
		if F.Name == name {
			return F, nil
		}
	}
	return nil, fmt.Errorf("%q (have %s): %w", name, strings.Join(B.Names(), ", "), ErrNotFound)
}

// Validate checks a single forcefield.
func (F *Forcefield) Validate() error {
	types := make(map[string]bool)
	for _, at := range F.AtomTypes {
		if at == nil || at.Name == "" {
			return fmt.Errorf("forcefield %q: atom type without name", F.Name)
		}
		if at.Name == fftype.Untyped {
			return fmt.Errorf("forcefield %q: %q is reserved for untyped atoms", F.Name, fftype.Untyped)
		}
		if types[at.Name] {
			return fmt.Errorf("forcefield %q: atom type %q defined twice", F.Name, at.Name)
		}
		if at.Element != "" && !fftype.IsElement(at.Element) {
			return fmt.Errorf("forcefield %q: atom type %q has unknown element %q", F.Name, at.Name, at.Element)
		}
		types[at.Name] = true
	}
	for i, t := range F.Templates {
		if t.Type == "" {
			return fmt.Errorf("forcefield %q: template %d has no type", F.Name, i)
		}
		if t.Type == fftype.Untyped {
			return fmt.Errorf("forcefield %q: template %d: %q is reserved for untyped atoms", F.Name, i, fftype.Untyped)
		}
		if len(t.SMARTS) == 0 {
			return fmt.Errorf("forcefield %q: template %q has no patterns", F.Name, t.Type)
		}
	}
	for _, bi := range F.BondIncrements {
		if bi.I == "" || bi.J == "" {
			return fmt.Errorf("forcefield %q: bond increment without types", F.Name)
		}
		if bi.I == fftype.Untyped || bi.J == fftype.Untyped {
			return fmt.Errorf("forcefield %q: bond increment %s-%s: %q is reserved for untyped atoms", F.Name, bi.I, bi.J, fftype.Untyped)
		}
	}
	return nil
}

// AtomType returns the atom type called name, or nil.
func (F *Forcefield) AtomType(name string) *AtomType {
	for _, at := range F.AtomTypes {
		if at.Name == name {
			return at
		}
	}
	return nil
}

// TemplateSources returns the templates in the form fftype.NewLibrary takes.
// Several templates for the same type stay separate, and in order.
func (F *Forcefield) TemplateSources() []fftype.TemplateSource {
	ret := make([]fftype.TemplateSource, len(F.Templates))
	for i, t := range F.Templates {
		ret[i] = fftype.TemplateSource{Name: t.Type, SMARTS: append([]string(nil), t.SMARTS...)}
	}
	return ret
}

// Library compiles the templates of the forcefield with tk.
func (F *Forcefield) Library(tk fftype.Toolkit) (*fftype.Library, error) {
	return fftype.NewLibrary(tk, F.TemplateSources())
}

// HasBondIncrements reports whether charges can be derived from this forcefield.
func (F *Forcefield) HasBondIncrements() bool {
	return len(F.BondIncrements) > 0
}

// ChargeTable builds the table of base charges and directional bond increments.
// It returns nil if the forcefield has no bond increments. A pair given more
// than once keeps its last values.
func (F *Forcefield) ChargeTable() *fftype.ChargeTable {
	if !F.HasBondIncrements() {
		return nil
	}
	C := fftype.NewChargeTable()
	for _, at := range F.AtomTypes {
		if at.Charge != nil {
			C.SetBase(at.Name, *at.Charge)
		}
	}
	for _, bi := range F.BondIncrements {
		C.SetIncrement(bi.I, bi.J, bi.DeltaIJ)
		C.SetIncrement(bi.J, bi.I, bi.DeltaJI)
	}
	return C
}

// Pipeline returns a typing and charging pipeline for this forcefield.
// Charges are only derived if the forcefield has bond increments.
func (F *Forcefield) Pipeline(tk fftype.Toolkit, opts ...fftype.TyperOption) (*fftype.Pipeline, error) {
	lib, err := F.Library(tk)
	if err != nil {
		return nil, fmt.Errorf("forcefield %q: %w", F.Name, err)
	}
	return &fftype.Pipeline{
		Forcefield: F.Name,
		Typer:      fftype.NewTyper(tk, lib, opts...),
		Charges:    F.ChargeTable(),
		Tolerance:  fftype.DefaultChargeTolerance,
	}, nil
}
