/*
 * logger.go, part of qcutils.
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

// Package logging builds the zerolog loggers used by the qcutils programs.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coltonbh/qcutils/internal/metrics"
	"github.com/rs/zerolog"
)

// Config holds logger configuration options
type Config struct {
	// Format specifies the log output format: "json" or "console"
	Format string
	// Level specifies the minimum log level: "debug", "info", "warn", "error"
	Level string
	// Output specifies where logs are written (defaults to os.Stderr)
	Output io.Writer
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Format: "console",
		Level:  "info",
		Output: os.Stderr,
	}
}

// NewLogger creates a zerolog logger based on the provided configuration.
// Every entry is also counted in metrics.LogEntriesTotal.
func NewLogger(cfg Config) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	switch strings.ToLower(cfg.Format) {
	case "", "json":
	case "text", "console":
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	logger := zerolog.New(output).
		Level(level).
		Hook(countHook{}).
		With().Timestamp().Logger()
	return logger, nil
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, fmt.Errorf("logging: invalid level %q", level)
}

type countHook struct{}

func (countHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	metrics.LogEntriesTotal.WithLabelValues(level.String()).Inc()
}
