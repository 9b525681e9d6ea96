/*
 * template.go, part of fftype.
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
	"sort"
)

// TemplateSource is a template as written in a forcefield: the atom type and the
// text of its patterns, in order.
type TemplateSource struct {
	Name   string
	SMARTS []string
}

// Template is a compiled TemplateSource.
type Template struct {
	Name     string
	Patterns []Pattern
}

// Library is the ordered set of templates of a forcefield. It's read-only
// once built, so it can be shared by concurrent typing calls.
type Library struct {
	templates []Template
}

// NewLibrary compiles the patterns of each template with tk. The order of sources
// is kept: a template overrides, for the atoms it matches, every template
// that comes before it. Patterns without any mapped site are rejected, as
// they could never type an atom.
func NewLibrary(tk Toolkit, sources []TemplateSource) (*Library, error) {
	lib := &Library{templates: make([]Template, 0, len(sources))}
	for _, src := range sources {
		t := Template{Name: src.Name, Patterns: make([]Pattern, 0, len(src.SMARTS))}
		for _, s := range src.SMARTS {
			p, err := tk.ParsePattern(s)
			if err != nil {
				e := newError(ErrPattern, fmt.Sprintf("template '%s', pattern %q", src.Name, s), err, true)
				e.Decorate("NewLibrary")
				return nil, e
			}
			if len(p.Sites()) == 0 {
				e := newError(ErrPattern, fmt.Sprintf("template '%s', pattern %q has no mapped atoms", src.Name, s), nil, true)
				e.Decorate("NewLibrary")
				return nil, e
			}
			t.Patterns = append(t.Patterns, p)
		}
		lib.templates = append(lib.templates, t)
	}
	return lib, nil
}

// Len returns the number of templates.
func (L *Library) Len() int {
	return len(L.templates)
}

// Template returns the i-th template.
func (L *Library) Template(i int) Template {
	return L.templates[i]
}

// Names returns the atom type names, in library order.
func (L *Library) Names() []string {
	ret := make([]string, len(L.templates))
	for i, t := range L.templates {
		ret[i] = t.Name
	}
	return ret
}

//MappedSites returns the pattern-atom positions of the mapped sites of p,
//sorted by the site number written in the pattern.
func MappedSites(p Pattern) []int {
	sites := p.Sites()
	nums := make([]int, 0, len(sites))
	for k := range sites {
		nums = append(nums, k)
	}
	sort.Ints(nums)
	ret := make([]int, len(nums))
	for i, k := range nums {
		ret[i] = sites[k]
	}
	return ret
}
