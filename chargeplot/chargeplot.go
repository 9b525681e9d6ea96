/*
 * chargeplot.go, part of fftype.
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

//Package chargeplot draws the per-atom charges of a molecule as a bar chart.
package chargeplot

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/rmera/fftype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	positive = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	negative = color.RGBA{R: 30, G: 60, B: 200, A: 255}
)

//Labels returns "index type" labels for the atoms, to go under each bar.
func Labels(types []string) []string {
	ret := make([]string, len(types))
	for i, t := range types {
		ret[i] = fmt.Sprintf("%d %s", i, t)
	}
	return ret
}

//Charges returns a bar chart with one bar per atom. Positive charges
//are drawn in red and negative ones in blue. labels can be nil.
func Charges(title string, labels []string, charges []float64) (*plot.Plot, error) {
	if len(charges) == 0 {
		return nil, fmt.Errorf("chargeplot: no charges to plot")
	}
	if labels != nil && len(labels) != len(charges) {
		return nil, fmt.Errorf("chargeplot: %d labels for %d charges", len(labels), len(charges))
	}
	pos := make(plotter.Values, len(charges))
	neg := make(plotter.Values, len(charges))
	for i, q := range charges {
		if q >= 0 {
			pos[i] = q
		} else {
			neg[i] = q
		}
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Atom"
	p.Y.Label.Text = "Charge (e)"
	p.Add(plotter.NewGrid())
	for _, s := range []struct {
		v plotter.Values
		c color.Color
	}{{pos, positive}, {neg, negative}} {
		b, err := plotter.NewBarChart(s.v, vg.Points(8))
		if err != nil {
			return nil, fmt.Errorf("chargeplot: %w", err)
		}
		b.Color = s.c
		b.LineStyle.Width = 0
		p.Add(b)
	}
	if labels != nil {
		p.NominalX(labels...)
	}
	return p, nil
}

//Outcome plots the charges of a pipeline outcome, labeled with the atom types.
func Outcome(title string, O *fftype.Outcome) (*plot.Plot, error) {
	if O == nil || O.Charges == nil {
		return nil, fmt.Errorf("chargeplot: no charges in outcome")
	}
	return Charges(title, Labels(O.Types()), O.Charges.Charges)
}

//size gives room to the labels of big molecules.
func size(p *plot.Plot) (vg.Length, vg.Length) {
	w := 4 * vg.Inch
	if n := len(p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)); n > 16 {
		w = vg.Length(n) * vg.Inch / 4
	}
	return w, 3 * vg.Inch
}

//Save writes the plot to filename. The format is taken from the extension
//(png, svg, pdf, eps...).
func Save(p *plot.Plot, filename string) error {
	w, h := size(p)
	return p.Save(w, h, filename)
}

//Write writes the plot to out in the given format.
func Write(out io.Writer, p *plot.Plot, format string) error {
	w, h := size(p)
	wt, err := p.WriterTo(w, h, strings.TrimPrefix(format, "."))
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(out)
	return err
}

//FileName builds a file name in dir for the plot of the molecule id.
func FileName(dir, id, format string) string {
	id = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, id)
	return filepath.Join(dir, fmt.Sprintf("charges_%s.%s", id, strings.TrimPrefix(format, ".")))
}
