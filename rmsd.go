/*
 * rmsd.go, part of qcutils.
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
	"math"

	v3 "github.com/coltonbh/qcutils/v3"
	"gonum.org/v1/gonum/floats"
)

// RMSD returns the root of the mean square deviation between the vectors of c1 and c2,
// in the units of the coordinates. If align is true, c1 is first superimposed on c2
// with the Kabsch algorithm. Neither matrix is modified.
func RMSD(c1, c2 *v3.Matrix, align bool) (float64, error) {
	if !c1.SameShape(c2) {
		return 0, fmt.Errorf("RMSD: %d and %d vectors: %w", c1.NVecs(), c2.NVecs(), ErrShape)
	}
	test := c1
	if align {
		rot, err := Kabsch(c1, c2)
		if err != nil {
			return 0, fmt.Errorf("RMSD: %w", err)
		}
		test = rot.Apply(c1)
	}
	n := c1.NVecs()
	diff := v3.Zeros(n)
	diff.Sub(test, c2)
	var sq float64
	for i := 0; i < n; i++ {
		r := diff.RawRowView(i)
		sq += floats.Dot(r, r)
	}
	return math.Sqrt(sq / float64(n)), nil
}

// StructureRMSD returns the RMSD between the geometries of s1 and s2, in the unit
// requested. The calculation is always done in Bohr, and only the final value
// is converted.
func StructureRMSD(s1, s2 *Structure, align bool, unit LengthUnit) (float64, error) {
	f, err := unit.FromBohr()
	if err != nil {
		return 0, fmt.Errorf("StructureRMSD: %w", err)
	}
	if s1.Len() != s2.Len() {
		return 0, fmt.Errorf("StructureRMSD: %d and %d atoms: %w", s1.Len(), s2.Len(), ErrShape)
	}
	rmsd, err := RMSD(s1.geometry, s2.geometry, align)
	if err != nil {
		return 0, fmt.Errorf("StructureRMSD: %w", err)
	}
	return rmsd * f, nil
}
