/*
 * config_test.go, part of qcutils.
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	chem "github.com/coltonbh/qcutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// emptyEnv points Load at an empty env file so a stray .env in the working
// directory does not leak into the test.
func emptyEnv(t *testing.T) string {
	return writeFile(t, "empty.env", "")
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "local", cfg.Backend)
	assert.Equal(t, 1.0, cfg.Threshold)
	assert.Equal(t, chem.Bohr, cfg.LengthUnit())
	assert.Equal(t, map[string]string{"command": "obrms"}, cfg.BackendExtra())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "qcutils.yaml", `
backend: qcp
threshold: 0.25
unit: angstrom
cpus: 3
logging:
  level: debug
  format: json
metrics:
  addr: ":9100"
obabel:
  workdir: /tmp/ob
`)
	cfg, err := Load(path, emptyEnv(t))
	require.NoError(t, err)
	assert.Equal(t, "qcp", cfg.Backend)
	assert.Equal(t, 0.25, cfg.Threshold)
	assert.Equal(t, chem.Angstrom, cfg.LengthUnit())
	assert.Equal(t, 3, cfg.CPUs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	// Values not in the file keep their defaults.
	assert.Equal(t, "obrms", cfg.OBabel.Command)
	assert.Equal(t, "/tmp/ob", cfg.BackendExtra()["workdir"])
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "qcutils.yaml", "backend: qcp\nthreshold: 0.25\n")
	t.Setenv("QCUTILS_BACKEND", "gomatrix")
	t.Setenv("QCUTILS_LOG_LEVEL", "warn")
	t.Setenv("QCUTILS_OBABEL_COMMAND", "/opt/ob/bin/obrms")

	cfg, err := Load(path, emptyEnv(t))
	require.NoError(t, err)
	assert.Equal(t, "gomatrix", cfg.Backend)
	assert.Equal(t, 0.25, cfg.Threshold)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/opt/ob/bin/obrms", cfg.OBabel.Command)
}

func TestEnvFile(t *testing.T) {
	env := writeFile(t, "test.env", "QCUTILS_THRESHOLD=0.5\nQCUTILS_CPUS=2\n")
	// godotenv does not override variables already set; t.Setenv restores
	// whatever the file sets once the test ends.
	t.Setenv("QCUTILS_THRESHOLD", "")
	os.Unsetenv("QCUTILS_THRESHOLD")
	t.Setenv("QCUTILS_CPUS", "")
	os.Unsetenv("QCUTILS_CPUS")

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Threshold)
	assert.Equal(t, 2, cfg.CPUs)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), emptyEnv(t))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "backend: [unclosed\n")
	_, err = Load(bad, emptyEnv(t))
	assert.Error(t, err)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("QCUTILS_CPUS", "many")
	_, err = Load("", emptyEnv(t))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"backend", func(c *Config) { c.Backend = "rdkit" }, ErrInvalidBackend},
		{"negative threshold", func(c *Config) { c.Threshold = -1 }, ErrInvalidThreshold},
		{"unit", func(c *Config) { c.Unit = "parsec" }, ErrInvalidUnit},
		{"cpus", func(c *Config) { c.CPUs = -2 }, ErrInvalidCPUs},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, ErrInvalidLogging},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogging},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}

	cfg := Default()
	cfg.Backend = "QCP"
	assert.NoError(t, cfg.Validate(), "backend names are case-insensitive")
}
