/*
 * metrics.go, part of qcutils.
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

// Package metrics holds the Prometheus collectors of qcutils. They are registered
// on the default registry when the package is loaded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "qcutils"

// =============================================================================
// Backend dispatch
// =============================================================================

var (
	// RMSDEvaluationsTotal counts RMSD calculations dispatched to each backend
	RMSDEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rmsd_evaluations_total",
			Help:      "Total number of RMSD evaluations by backend",
		},
		[]string{"backend"},
	)

	// AlignmentsTotal counts structure alignments dispatched to each backend
	AlignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alignments_total",
			Help:      "Total number of structure alignments by backend",
		},
		[]string{"backend"},
	)

	// BackendErrorsTotal counts failed backend operations
	BackendErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Total number of failed backend operations",
		},
		[]string{"backend", "op"}, // op: "rmsd" | "align"
	)

	// BackendDurationSeconds measures the latency of backend operations
	BackendDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_duration_seconds",
			Help:      "Latency of backend operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
		[]string{"backend", "op"},
	)
)

// =============================================================================
// Conformer filtering
// =============================================================================

var (
	// FilterRunsTotal counts conformer filter runs
	FilterRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_runs_total",
			Help:      "Total number of conformer filter runs",
		},
	)

	// FilterDurationSeconds measures whole filter runs
	FilterDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Duration of conformer filter runs",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		},
	)

	// ConformersRetained is the number of conformers kept by the last filter run
	ConformersRetained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conformers_retained",
			Help:      "Number of conformers retained by the last filter run",
		},
	)
)

// =============================================================================
// Logging
// =============================================================================

// LogEntriesTotal counts log entries by level
var LogEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_entries_total",
		Help:      "Total number of log entries by level",
	},
	[]string{"level"},
)
