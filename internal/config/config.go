/*
 * config.go, part of fftype.
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

// Package config loads the settings of the fftype command from a YAML file,
// FFTYPE_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rmera/fftype/internal/logging"
	"github.com/spf13/viper"
)

const envPrefix = "FFTYPE"

// Config is the complete configuration of the fftype command.
type Config struct {
	Forcefield ForcefieldConfig `mapstructure:"forcefield"`
	Typing     TypingConfig     `mapstructure:"typing"`
	Charges    ChargesConfig    `mapstructure:"charges"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Output     OutputConfig     `mapstructure:"output"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        logging.Config   `mapstructure:"log"`
}

// ForcefieldConfig selects the forcefield. Name "default" is the first one
// in the file.
type ForcefieldConfig struct {
	File string `mapstructure:"file"`
	Name string `mapstructure:"name"`
}

// TypingConfig tunes atom typing.
type TypingConfig struct {
	AddHydrogens      bool `mapstructure:"add_hydrogens"`
	MaxMatchesPerAtom int  `mapstructure:"max_matches_per_atom"` //0 means no limit
	Uniquify          bool `mapstructure:"uniquify"`
}

// ChargesConfig tunes charge derivation.
type ChargesConfig struct {
	Tolerance float64 `mapstructure:"tolerance"`
}

// BatchConfig tunes the concurrent typing of many structures.
type BatchConfig struct {
	Workers int `mapstructure:"workers"` //0 means one per CPU
}

// OutputConfig says how results are written.
type OutputConfig struct {
	Format     string `mapstructure:"format"` //json or text
	PlotDir    string `mapstructure:"plot_dir"`
	PlotFormat string `mapstructure:"plot_format"`
}

// MetricsConfig names the file the prometheus metrics are written to, if any.
type MetricsConfig struct {
	File string `mapstructure:"file"`
}

// Defaults.
const (
	DefaultForcefieldName    = "default"
	DefaultMaxMatchesPerAtom = 0 //no cap
	DefaultChargeTolerance   = 1e-4
	DefaultOutputFormat      = "json"
	DefaultPlotFormat        = "png"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
)

// New returns a viper instance with the defaults set and the environment
// bound. Every key has a default, so every key can be set from the
// environment, e.g. FFTYPE_TYPING_ADD_HYDROGENS=true.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("forcefield.file", "")
	v.SetDefault("forcefield.name", DefaultForcefieldName)
	v.SetDefault("typing.add_hydrogens", false)
	v.SetDefault("typing.max_matches_per_atom", DefaultMaxMatchesPerAtom)
	v.SetDefault("typing.uniquify", false)
	v.SetDefault("charges.tolerance", DefaultChargeTolerance)
	v.SetDefault("batch.workers", 0)
	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("output.plot_dir", "")
	v.SetDefault("output.plot_format", DefaultPlotFormat)
	v.SetDefault("metrics.file", "")
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{})
	return v
}

// Load reads the config file path into v, if path is not empty, and returns the
// validated configuration.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", path, err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// ErrNoForcefield is returned by Validate when no forcefield file is set.
var ErrNoForcefield = errors.New("forcefield.file is required")

var plotFormats = map[string]bool{"png": true, "svg": true, "pdf": true, "eps": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true}

// Validate checks the values that can't be checked by their type alone.
func (C *Config) Validate() error {
	var errs []error
	if C.Forcefield.File == "" {
		errs = append(errs, ErrNoForcefield)
	}
	if C.Typing.MaxMatchesPerAtom < 0 {
		errs = append(errs, fmt.Errorf("typing.max_matches_per_atom must not be negative, got %d", C.Typing.MaxMatchesPerAtom))
	}
	if C.Charges.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("charges.tolerance must be positive, got %g", C.Charges.Tolerance))
	}
	if C.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.workers must not be negative, got %d", C.Batch.Workers))
	}
	if C.Output.Format != "json" && C.Output.Format != "text" {
		errs = append(errs, fmt.Errorf("output.format must be json or text, got %q", C.Output.Format))
	}
	if !plotFormats[strings.ToLower(C.Output.PlotFormat)] {
		errs = append(errs, fmt.Errorf("output.plot_format %q is not supported", C.Output.PlotFormat))
	}
	if _, err := logging.ParseLevel(C.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
