/*
 * forcefields.go, part of fftype.
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
	"fmt"
	"text/tabwriter"

	"github.com/rmera/fftype/forcefield"
	"github.com/spf13/cobra"
)

func newForcefieldsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forcefields",
		Short: "List the forcefields in a forcefield file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			B, err := forcefield.Read(a.cfg.Forcefield.File)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTEMPLATES\tATOM TYPES\tCHARGES\tDESCRIPTION")
			for i, F := range B.Forcefields {
				name := F.Name
				if i == 0 {
					name += " (default)"
				}
				charges := "no"
				if F.HasBondIncrements() {
					charges = "bond increments"
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", name, len(F.Templates), len(F.AtomTypes), charges, F.Description)
			}
			return w.Flush()
		},
	}
}
