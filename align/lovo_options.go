/*
 * lovo_options.go, part of qcutils.
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

package align

import "github.com/rs/zerolog"

// Options contains the options for the LOVO function.
type Options struct {
	nMostRigid   int
	lessThanRMSD float64
	minimumN     int
	maxIter      int
	logger       zerolog.Logger
}

// DefaultOptions returns options that superimpose on the atoms that deviate
// less than 0.5 Bohr from the reference, keeping at least 3 atoms in the fit.
func DefaultOptions() *Options {
	r := new(Options)
	r.nMostRigid = -1
	r.lessThanRMSD = 0.5
	r.minimumN = 3
	r.maxIter = 100
	r.logger = zerolog.Nop()
	return r
}

// NMostRigid returns the number of atoms used for the superposition,
// and sets it to a new value, if given. A positive value replaces the
// LessThanRMSD criterion with the classic LOVO one: the fit uses the N
// atoms with the smallest deviations.
func (O *Options) NMostRigid(n ...int) int {
	if len(n) > 0 {
		O.nMostRigid = n[0]
	}
	return O.nMostRigid
}

// LessThanRMSD returns the largest deviation for an atom to be
// part of the superposition, and sets it to a new value, if given.
// Only used if NMostRigid is not positive.
func (O *Options) LessThanRMSD(rmsd ...float64) float64 {
	if len(rmsd) > 0 && rmsd[0] > 0 {
		O.lessThanRMSD = rmsd[0]
	}
	return O.lessThanRMSD
}

// MinimumN returns the smallest acceptable number of atoms in the fit
// when the LessThanRMSD criterion is used, and sets it to a new value, if given.
func (O *Options) MinimumN(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.minimumN = n[0]
	}
	return O.minimumN
}

// MaxIter returns the maximum number of superpositions attempted,
// and sets it to a new value, if given.
func (O *Options) MaxIter(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.maxIter = n[0]
	}
	return O.maxIter
}

// Logger returns the logger used, and sets it to a new one, if given.
func (O *Options) Logger(l ...zerolog.Logger) zerolog.Logger {
	if len(l) > 0 {
		O.logger = l[0]
	}
	return O.logger
}
