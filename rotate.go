/*
 * rotate.go, part of qcutils.
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
	"strings"

	v3 "github.com/coltonbh/qcutils/v3"
	"gonum.org/v1/gonum/mat"
)

// RotationMatrix returns the matrix for a counterclockwise rotation of deg degrees around
// the x, y or z axis (case insensitive). The matrix acts on column vectors, so
// for coordinates stored as rows it has to be applied on the right, transposed.
func RotationMatrix(axis string, deg float64) (*mat.Dense, error) {
	theta := deg * math.Pi / 180
	c := math.Cos(theta)
	s := math.Sin(theta)
	var operator []float64
	switch strings.ToLower(axis) {
	case "x":
		operator = []float64{1, 0, 0,
			0, c, -s,
			0, s, c}
	case "y":
		operator = []float64{c, 0, s,
			0, 1, 0,
			-s, 0, c}
	case "z":
		operator = []float64{c, -s, 0,
			s, c, 0,
			0, 0, 1}
	default:
		return nil, fmt.Errorf("RotationMatrix: got %q: %w", axis, ErrAxis)
	}
	return mat.NewDense(3, 3, operator), nil
}

// Rotate returns a copy of s rotated by deg degrees around the given axis,
// which passes through the origin.
func Rotate(s *Structure, axis string, deg float64) (*Structure, error) {
	R, err := RotationMatrix(axis, deg)
	if err != nil {
		return nil, fmt.Errorf("Rotate: %w", err)
	}
	g := v3.Zeros(s.Len())
	g.Mul(s.geometry, R.T())
	return s.WithGeometry(g)
}
