/*
 * options.go, part of qcutils.
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

package conformers

import (
	"runtime"

	"github.com/coltonbh/qcutils/backend"
	"github.com/rs/zerolog"
)

// Options contains the options for the Filter, FilterIndices, Clusters and Matrix functions.
type Options struct {
	backend string
	cpus    int
	rmsd    *backend.Options
	logger  zerolog.Logger
}

// DefaultOptions returns options that use the local backend with all logical CPUs
// and no logging.
func DefaultOptions() *Options {
	r := new(Options)
	r.backend = "local"
	r.cpus = runtime.NumCPU()
	r.rmsd = backend.DefaultOptions()
	r.logger = zerolog.Nop()
	return r
}

// Backend returns the name of the backend used to compute RMSDs,
// and sets it to a new value, if given.
func (O *Options) Backend(name ...string) string {
	if len(name) > 0 && name[0] != "" {
		O.backend = name[0]
	}
	return O.backend
}

// Cpus returns the number of goroutines to be used,
// and sets it to a new value, if given.
func (O *Options) Cpus(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.cpus = n[0]
	}
	return O.cpus
}

// RMSDOptions returns the options passed to the backend, and sets them
// to new values, if given. Alignment is always requested, whatever the value
// of their Align field. The threshold of the filter is in the unit of these
// options (Bohr, unless changed).
func (O *Options) RMSDOptions(o ...*backend.Options) *backend.Options {
	if len(o) > 0 && o[0] != nil {
		O.rmsd = o[0]
	}
	return O.rmsd
}

// Logger returns the logger used, and sets it to a new one, if given.
func (O *Options) Logger(l ...zerolog.Logger) zerolog.Logger {
	if len(l) > 0 {
		O.logger = l[0]
	}
	return O.logger
}

// backendOptions returns a copy of the RMSD options with alignment on and
// the logger set.
func (O *Options) backendOptions() *backend.Options {
	ro := *O.rmsd
	ro.Align = true
	ro.Logger = O.logger
	return &ro
}
