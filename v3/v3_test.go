/*
 * v3_test.go, part of qcutils.
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

package v3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// Returns an identity matrix spanning span cols and rows
func gnEye(span int) *mat.Dense {
	A := mat.NewDense(span, span, nil)
	for i := 0; i < span; i++ {
		A.Set(i, i, 1.0)
	}
	return A
}

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("expected 2 vectors, got %d", A.NVecs())
	}
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("a slice with 4 elements should not make a Matrix")
	}
	if _, err := NewMatrix(nil); err == nil {
		Te.Error("an empty slice should not make a Matrix")
	}
}

func TestViews(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	v := A.VecView(1)
	v.Set(0, 0, 100)
	if A.At(1, 0) != 100 {
		Te.Errorf("changes in a VecView should be seen in the original matrix: %v", A)
	}
	w := A.View(1, 2)
	if w.NVecs() != 2 || w.At(1, 2) != 9 {
		Te.Errorf("wrong view %v", w)
	}
	c := A.Clone()
	c.Set(0, 0, -1)
	if A.At(0, 0) != 1 {
		Te.Error("Clone should not share storage with the original")
	}
}

func TestAddSubVec(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	row, _ := NewMatrix([]float64{10, 20, 30})
	B := Zeros(2)
	B.AddVec(A, row)
	if B.At(1, 2) != 36 || B.At(0, 0) != 11 {
		Te.Errorf("AddVec failed: %v", B)
	}
	B.SubVec(B, row)
	if !mat.Equal(A, B) {
		Te.Errorf("SubVec should undo AddVec: %v %v", A, B)
	}
	defer func() {
		if r := recover(); r == nil {
			Te.Error("AddVec with mismatched matrices should panic")
		}
	}()
	B.AddVec(Zeros(3), row)
}

func TestMulAliasing(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	I := gnEye(3)
	I.Set(0, 0, 2)
	A.Mul(A, I)
	if A.At(0, 0) != 2 || A.At(1, 0) != 8 || A.At(1, 2) != 6 {
		Te.Errorf("Mul with the receiver as argument gave %v", A)
	}
}

func TestRowsRoundTrip(Te *testing.T) {
	rows := [][]float64{{0, 1, 2}, {3, 4, 5}}
	A, err := FromRows(rows)
	if err != nil {
		Te.Fatal(err)
	}
	back := A.Rows()
	for i := range rows {
		for j := range rows[i] {
			if back[i][j] != rows[i][j] {
				Te.Errorf("element %d,%d: %v != %v", i, j, back[i][j], rows[i][j])
			}
		}
	}
	if _, err := FromRows([][]float64{{1, 2}}); err == nil {
		Te.Error("a 2-element row should be rejected")
	}
	if _, err := FromRows(nil); err == nil {
		Te.Error("no rows should be rejected")
	}
}

func TestDet(Te *testing.T) {
	if d := Det(gnEye(3)); d != 1 {
		Te.Errorf("det(I) should be 1, got %v", d)
	}
	R := mat.NewDense(3, 3, []float64{0, -1, 0, 1, 0, 0, 0, 0, -1})
	if d := Det(R); math.Abs(d+1) > 1e-12 {
		Te.Errorf("expected -1, got %v", d)
	}
}
