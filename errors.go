/*
 * errors.go, part of qcutils.
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

package chem

import "errors"

var (
	// ErrShape is returned when two geometries don't have the same number of atoms,
	// or when a geometry doesn't match the symbols of its structure.
	ErrShape        = errors.New("mismatched shapes")
	ErrAxis         = errors.New("axis must be one of x, y or z")
	ErrMultiplicity = errors.New("multiplicity must be at least 1")
	// ErrMapping is returned when a plain mapping can't be turned into a Structure.
	ErrMapping = errors.New("malformed structure mapping")
	ErrUnit    = errors.New("unknown length unit")
)
