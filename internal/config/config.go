/*
 * config.go, part of qcutils.
 *
 * Copyright 2024 The qcutils Authors
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
 */

// Package config loads and validates the configuration of the qcutils programs.
// Values come from built-in defaults, then an optional YAML file, then the
// environment (QCUTILS_* variables, which may also be given in a .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	chem "github.com/coltonbh/qcutils"
	"github.com/coltonbh/qcutils/backend"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "QCUTILS"

var (
	ErrInvalidBackend   = errors.New("invalid backend")
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrInvalidUnit      = errors.New("invalid unit")
	ErrInvalidCPUs      = errors.New("invalid number of CPUs")
	ErrInvalidLogging   = errors.New("invalid logging configuration")
)

// Config is the top-level configuration.
type Config struct {
	// Backend is the name of the RMSD backend.
	Backend string `yaml:"backend" envconfig:"BACKEND"`
	// Threshold is the RMSD below which two conformers are redundant, in Unit.
	Threshold float64 `yaml:"threshold" envconfig:"THRESHOLD"`
	// Unit is the length unit of reported RMSDs and of Threshold.
	Unit string `yaml:"unit" envconfig:"UNIT"`
	// CPUs is the number of goroutines used by the conformer filter. 0 means all.
	CPUs    int           `yaml:"cpus" envconfig:"CPUS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOG"`
	Metrics MetricsConfig `yaml:"metrics" envconfig:"METRICS"`
	OBabel  OBabelConfig  `yaml:"obabel" envconfig:"OBABEL"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// MetricsConfig controls the Prometheus metrics endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR"`
}

// OBabelConfig holds the settings of the obabel backend.
type OBabelConfig struct {
	Command string `yaml:"command" envconfig:"COMMAND"`
	WorkDir string `yaml:"workdir" envconfig:"WORKDIR"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:   "local",
		Threshold: 1.0,
		Unit:      string(chem.Bohr),
		CPUs:      0,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		OBabel: OBabelConfig{
			Command: "obrms",
		},
	}
}

// Load reads a YAML config file (if path is not empty), loads the variables in
// envfile into the environment (if envfile is empty, ".env" is tried and skipped
// when missing), applies the QCUTILS_* environment overrides and validates the result.
func Load(path, envfile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if envfile != "" {
		if err := godotenv.Load(envfile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envfile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := backend.Get(c.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackend, err)
	}
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.Threshold)
	}
	if _, err := chem.ParseUnit(c.Unit); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, c.Unit)
	}
	if c.CPUs < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCPUs, c.CPUs)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "text":
	default:
		return fmt.Errorf("%w: format %q", ErrInvalidLogging, c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		return fmt.Errorf("%w: level %q", ErrInvalidLogging, c.Logging.Level)
	}
	return nil
}

// LengthUnit returns the configured unit. The configuration must be valid.
func (c *Config) LengthUnit() chem.LengthUnit {
	u, _ := chem.ParseUnit(c.Unit)
	return u
}

// BackendExtra returns the backend-specific options derived from the configuration.
func (c *Config) BackendExtra() map[string]string {
	extra := map[string]string{}
	if c.OBabel.Command != "" {
		extra["command"] = c.OBabel.Command
	}
	if c.OBabel.WorkDir != "" {
		extra["workdir"] = c.OBabel.WorkDir
	}
	return extra
}
