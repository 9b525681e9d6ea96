/*
 * preprocess.go, part of fftype.
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
	"regexp"
	"strings"
)

//PlaceholderCandidates are the elements that can stand in for explicit
//hydrogens, in order of preference. The first one that doesn't appear
//in the structure is used.
var PlaceholderCandidates = []string{"Xe", "Kr", "Rn", "Ar", "Ne"}

//The explicit hydrogen token.
const hydrogenToken = "[H]"

//A bracket atom with n hydrogens: isotope, element, chirality, the H count,
//charge and class, then the ring closures that must stay attached to the atom.
const bracketHCount = `\[(\d*)([A-Z][a-z]?|se|as|[bcnops])(@{0,2})%s((?:[+-]\d*|[+-]+)?(?::\d+)?)\]((?:[-=#$:/\\]?(?:\d|%%\d\d))*)`

//Counts go from 3 down to 1, otherwise the 1-hydrogen rule would eat
//the H of an H3 and leave a stray digit.
var hCountRules = []struct {
	n  int
	re *regexp.Regexp
}{
	{3, regexp.MustCompile(fmt.Sprintf(bracketHCount, "H3"))},
	{2, regexp.MustCompile(fmt.Sprintf(bracketHCount, "H2"))},
	{1, regexp.MustCompile(fmt.Sprintf(bracketHCount, "H1?"))},
}

// Rewritten is a structure in which every hydrogen is an explicit placeholder atom.
type Rewritten struct {
	Original    string
	Text        string
	Placeholder string
	//Hydrogens is the number of hydrogens that were implicit in
	//bracket atoms and are now explicit.
	Hydrogens int
}

// ChoosePlaceholder returns the first candidate element that doesn't appear
// anywhere in text.
func ChoosePlaceholder(text string) (string, error) {
	for _, c := range PlaceholderCandidates {
		if !strings.Contains(text, c) {
			return c, nil
		}
	}
	err := newError(ErrPlaceholderExhausted, fmt.Sprintf("all of %s appear in %q", strings.Join(PlaceholderCandidates, ", "), text), nil, true)
	err.Decorate("ChoosePlaceholder")
	return "", err
}

// ExplicitHydrogens rewrites a SMILES string so that the hydrogen counts of bracket
// atoms ([CH3], [NH2+], [nH]...) become explicit hydrogens, each in its own branch
// after the atom (and after its ring closures), and then writes every explicit
// hydrogen as a bracket atom of the placeholder element.
func ExplicitHydrogens(text string) (*Rewritten, error) {
	text = strings.TrimSpace(text)
	ph, err := ChoosePlaceholder(text)
	if err != nil {
		return nil, errDecorate(err, "ExplicitHydrogens")
	}
	ret := &Rewritten{Original: text, Placeholder: ph}
	s := text
	for _, rule := range hCountRules {
		ret.Hydrogens += rule.n * len(rule.re.FindAllStringIndex(s, -1))
		branches := strings.Repeat("("+hydrogenToken+")", rule.n)
		s = rule.re.ReplaceAllString(s, "[${1}${2}${3}${4}]${5}"+branches)
	}
	ret.Text = strings.ReplaceAll(s, hydrogenToken, "["+ph+"]")
	return ret, nil
}

// RestoreHydrogens turns the placeholder atoms of mol back into hydrogens and
// returns how many atoms were relabeled.
func RestoreHydrogens(mol *Molecule, placeholder string) int {
	if placeholder == "" {
		return 0
	}
	return mol.Relabel(placeholder, "H")
}
