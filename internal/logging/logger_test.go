/*
 * logger_test.go, part of qcutils.
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

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/coltonbh/qcutils/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
	}{
		{"JSON Info", "json", "info"},
		{"JSON Debug", "json", "debug"},
		{"Console Info", "console", "info"},
		{"Text Warn", "text", "warn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(Config{Format: tt.format, Level: tt.level, Output: &buf})
			require.NoError(t, err)
			logger.Error().Msg("heartbeat")
			assert.Contains(t, buf.String(), "heartbeat")
		})
	}
}

func TestNewLoggerInvalid(t *testing.T) {
	_, err := NewLogger(Config{Format: "json", Level: "invalid"})
	assert.Error(t, err)
	_, err = NewLogger(Config{Format: "xml", Level: "info"})
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Format: "json", Level: "warn", Output: &buf})
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Str("backend", "local").Msg("shown")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "local", entry["backend"])
	assert.Contains(t, entry, "time")
}

func TestEntriesAreCounted(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Format: "json", Level: "debug", Output: &buf})
	require.NoError(t, err)
	before := testutil.ToFloat64(metrics.LogEntriesTotal.WithLabelValues("debug"))
	logger.Debug().Msg("one")
	logger.Debug().Msg("two")
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.LogEntriesTotal.WithLabelValues("debug")))
}
