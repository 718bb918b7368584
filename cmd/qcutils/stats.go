/*
 * stats.go, part of qcutils.
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

package main

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

type summary struct {
	N                      int
	Mean, StdDev, Min, Max float64
}

// offDiagonal returns the upper triangle of m, row by row, without the diagonal.
func offDiagonal(m mat.Symmetric) []float64 {
	n := m.SymmetricDim()
	vals := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			vals = append(vals, m.At(i, j))
		}
	}
	return vals
}

// summarize returns false for an empty slice. The standard deviation of a
// single value is 0.
func summarize(vals []float64) (summary, bool) {
	if len(vals) == 0 {
		return summary{}, false
	}
	s := summary{N: len(vals), Min: floats.Min(vals), Max: floats.Max(vals)}
	if len(vals) == 1 {
		s.Mean = vals[0]
		return s, true
	}
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	return s, true
}

func denseRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}
