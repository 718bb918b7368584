/*
 * conversion.go, part of qcutils.
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

import (
	"fmt"
	"strings"
)

// Conversions
const (
	Deg2Rad = 0.0174533
	Rad2Deg = 1 / 0.0174533
	A2Bohr  = 1.889725989
	Bohr2A  = 1 / 1.889725989
)

// LengthUnit is the unit in which a length (usually an RMSD) is reported.
// The zero value means Bohr.
type LengthUnit string

const (
	Bohr     LengthUnit = "bohr"
	Angstrom LengthUnit = "angstrom"
)

// ParseUnit returns the LengthUnit named by s. It accepts a few usual spellings,
// ignoring case.
func ParseUnit(s string) (LengthUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bohr", "au", "a0":
		return Bohr, nil
	case "angstrom", "ang", "a", "å":
		return Angstrom, nil
	}
	return "", fmt.Errorf("ParseUnit: %q: %w", s, ErrUnit)
}

// FromBohr returns the factor that converts a length in Bohr to the unit u.
func (u LengthUnit) FromBohr() (float64, error) {
	switch u {
	case "", Bohr:
		return 1, nil
	case Angstrom:
		return Bohr2A, nil
	}
	return 0, fmt.Errorf("FromBohr: %q: %w", string(u), ErrUnit)
}

func (u LengthUnit) String() string {
	if u == "" {
		return string(Bohr)
	}
	return string(u)
}
