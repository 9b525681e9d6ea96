/*
 * root.go, part of fftype.
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

// Package cli implements the fftype command line.
package cli

import (
	"github.com/rmera/fftype/internal/config"
	"github.com/rmera/fftype/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

//app is what the subcommands share once the configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
}

// NewRootCommand builds the fftype command and its subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:   "fftype",
		Short: "fftype assigns forcefield atom types and bond-increment charges",
		Long: `fftype assigns forcefield atom types to the atoms of molecules given as SMILES,
using the SMARTS templates of a forcefield, and derives partial charges from the
bond increments of the forcefield when it has them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	pf.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	pf.String("log-format", config.DefaultLogFormat, "log format: json or console")
	pf.StringP("forcefield", "f", "", "forcefield file (YAML, may be zstd or gzip compressed)")
	pf.String("ff-name", config.DefaultForcefieldName, "forcefield to use from the file; default is the first one")
	a.bind(root, map[string]string{
		"log.level":       "log-level",
		"log.format":      "log-format",
		"forcefield.file": "forcefield",
		"forcefield.name": "ff-name",
	}, true)

	root.AddCommand(newTypeCommand(a), newForcefieldsCommand(a))
	return root
}

//bind ties config keys to flags of cmd.
func (a *app) bind(cmd *cobra.Command, keys map[string]string, persistent bool) {
	fs := cmd.Flags()
	if persistent {
		fs = cmd.PersistentFlags()
	}
	for k, f := range keys {
		if err := a.v.BindPFlag(k, fs.Lookup(f)); err != nil {
			panic(err) //only if the flag doesn't exist
		}
	}
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	l, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, l
	return nil
}
