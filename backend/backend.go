/*
 * backend.go, part of qcutils.
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

package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	chem "github.com/coltonbh/qcutils"
	"github.com/coltonbh/qcutils/internal/metrics"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrUnsupported is returned by backends that can't perform the requested operation.
	ErrUnsupported = errors.New("operation not supported by backend")
	// ErrExternal is returned when an external program fails or gives output that can't be read.
	ErrExternal = errors.New("external program failed")
)

// Backend is an engine able to compare and superimpose structures.
// Implementations must be safe for concurrent use.
type Backend interface {
	Name() string
	// RMSD returns the RMSD between s1 and s2, in the unit given in the options.
	RMSD(s1, s2 *chem.Structure, o *Options) (float64, error)
	// Align returns a copy of s superimposed on ref.
	Align(s, ref *chem.Structure, o *Options) (*chem.Structure, error)
}

// Options for a backend call. A nil *Options means DefaultOptions().
type Options struct {
	// Align requests superposition before the RMSD is measured.
	Align bool
	Unit  chem.LengthUnit
	// Extra holds backend-specific options, which other backends ignore.
	Extra  map[string]string
	Logger zerolog.Logger
}

// DefaultOptions returns options with alignment on, lengths in Bohr and
// logging disabled.
func DefaultOptions() *Options {
	return &Options{
		Align:  true,
		Unit:   chem.Bohr,
		Extra:  map[string]string{},
		Logger: zerolog.Nop(),
	}
}

func orDefault(o *Options) *Options {
	if o == nil {
		return DefaultOptions()
	}
	return o
}

// UnknownBackendError is returned when a backend name is not registered.
type UnknownBackendError struct {
	Name  string
	Known []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown backend %q, available backends: %s", e.Name, strings.Join(e.Known, ", "))
}

// Is makes errors.Is(err, ErrUnknownBackend) true for an *UnknownBackendError.
func (e *UnknownBackendError) Is(target error) bool {
	return target == ErrUnknownBackend
}

var (
	regMu    sync.RWMutex
	registry = make(map[string]Backend)
)

// Register makes a backend available under its (lowercased) name.
// It panics if b is nil or if the name is already taken.
func Register(b Backend) {
	if b == nil {
		panic("backend: Register of a nil backend")
	}
	name := strings.ToLower(b.Name())
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("backend: Register called twice for " + name)
	}
	registry[name] = b
}

// Get returns the backend registered under name, ignoring case.
func Get(name string) (Backend, error) {
	regMu.RLock()
	b, ok := registry[strings.ToLower(name)]
	regMu.RUnlock()
	if !ok {
		return nil, &UnknownBackendError{Name: name, Known: Names()}
	}
	return b, nil
}

// Names returns the names of the registered backends, sorted.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// RMSD computes the RMSD between s1 and s2 with the backend called name.
func RMSD(s1, s2 *chem.Structure, name string, o *Options) (float64, error) {
	b, err := Get(name)
	if err != nil {
		return 0, err
	}
	o = orDefault(o)
	start := time.Now()
	rmsd, err := b.RMSD(s1, s2, o)
	observe(b.Name(), "rmsd", start, err)
	metrics.RMSDEvaluationsTotal.WithLabelValues(b.Name()).Inc()
	if err != nil {
		o.Logger.Debug().Err(err).Str("backend", b.Name()).Msg("rmsd failed")
		return 0, err
	}
	o.Logger.Debug().
		Str("backend", b.Name()).
		Bool("align", o.Align).
		Str("unit", o.Unit.String()).
		Float64("rmsd", rmsd).
		Msg("rmsd")
	return rmsd, nil
}

// Align superimposes s on ref with the backend called name.
func Align(s, ref *chem.Structure, name string, o *Options) (*chem.Structure, error) {
	b, err := Get(name)
	if err != nil {
		return nil, err
	}
	o = orDefault(o)
	start := time.Now()
	aligned, err := b.Align(s, ref, o)
	observe(b.Name(), "align", start, err)
	metrics.AlignmentsTotal.WithLabelValues(b.Name()).Inc()
	if err != nil {
		o.Logger.Debug().Err(err).Str("backend", b.Name()).Msg("align failed")
		return nil, err
	}
	o.Logger.Debug().Str("backend", b.Name()).Int("atoms", s.Len()).Msg("aligned")
	return aligned, nil
}

func observe(backend, op string, start time.Time, err error) {
	metrics.BackendDurationSeconds.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendErrorsTotal.WithLabelValues(backend, op).Inc()
	}
}

// checkPair returns an error wrapping chem.ErrShape if the structures
// don't have the same number of atoms.
func checkPair(errid string, s1, s2 *chem.Structure) error {
	if s1.Len() != s2.Len() {
		return fmt.Errorf("%s: %d and %d atoms: %w", errid, s1.Len(), s2.Len(), chem.ErrShape)
	}
	return nil
}
