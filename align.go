/*
 * align.go, part of qcutils.
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

import "fmt"

// Align returns a copy of s with its geometry superimposed on the geometry of ref
// (Kabsch algorithm, atoms matched by index). Only the geometry changes; s and ref
// are not modified.
func Align(s, ref *Structure) (*Structure, error) {
	rot, err := Kabsch(s.geometry, ref.geometry)
	if err != nil {
		return nil, fmt.Errorf("Align: %w", err)
	}
	return s.WithGeometry(rot.Apply(s.geometry))
}
