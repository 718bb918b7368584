/*
 * geometric.go, part of qcutils.
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
	v3 "github.com/coltonbh/qcutils/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Centroid returns the geometric center of the vectors in coords, as a 1x3 matrix.
func Centroid(coords *v3.Matrix) *v3.Matrix {
	n := coords.NVecs()
	ret := v3.Zeros(1)
	col := make([]float64, n)
	for j := 0; j < 3; j++ {
		mat.Col(col, j, coords.Dense)
		ret.Set(0, j, floats.Sum(col)/float64(n))
	}
	return ret
}

// Centrate returns a copy of in translated so its geometric center lies at the
// origin, and the center that was removed.
func Centrate(in *v3.Matrix) (*v3.Matrix, *v3.Matrix) {
	c := Centroid(in)
	ret := v3.Zeros(in.NVecs())
	ret.SubVec(in, c)
	return ret, c
}
