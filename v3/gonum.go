/*
 * gonum.go, part of qcutils.
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

// gonum.go contains what is needed for handling the gonum/mat types and facilities.
// Methods that take other matrices as arguments unwrap *Matrix values before handing
// them to gonum, so gonum can see when the receiver and an argument are the same
// Dense and use a workspace instead of overwriting its own input.

package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of vectors in 3D space. Within the package it is understood
// that a "vector" is a row vector, i.e. the cartesian coordinates of a point.
type Matrix struct {
	*mat.Dense
}

// Matrix2Dense returns the gonum Dense underlying A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

// Dense2Matrix wraps a gonum Dense with 3 columns. It panics if A doesn't have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	if _, c := A.Dims(); c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
// The data slice is used as the backing storage of the matrix, not copied.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 || l == 0 {
		return nil, Error{fmt.Sprintf("qcutils/v3: Input slice length %d not a positive multiple of %d", l, cols), []string{"NewMatrix"}}
	}
	r := mat.NewDense(rows, cols, data)
	return &Matrix{r}, nil
}

// VecView returns a view of the ith vector of the matrix.
// Changes in the view are reflected in F and vice versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

// View returns a view of F starting from the ith vector and spanning r vectors.
func (F *Matrix) View(i, r int) *Matrix {
	ret := F.Dense.Slice(i, i+r, 0, 3).(*mat.Dense)
	return &Matrix{ret}
}

// Mul wraps mat.Dense.Mul to take care of the case when one of the
// arguments is also the receiver.
func (F *Matrix) Mul(A, B mat.Matrix) {
	F.Dense.Mul(unwrap(A), unwrap(B))
}

// Add puts A+B in the receiver.
func (F *Matrix) Add(A, B mat.Matrix) {
	F.Dense.Add(unwrap(A), unwrap(B))
}

// Sub puts A-B in the receiver.
func (F *Matrix) Sub(A, B mat.Matrix) {
	F.Dense.Sub(unwrap(A), unwrap(B))
}

// Scale puts A scaled by f in the receiver.
func (F *Matrix) Scale(f float64, A mat.Matrix) {
	F.Dense.Scale(f, unwrap(A))
}

// Copy copies the elements of A into the receiver.
func (F *Matrix) Copy(A mat.Matrix) {
	F.Dense.Copy(unwrap(A))
}

func unwrap(A mat.Matrix) mat.Matrix {
	if m, ok := A.(*Matrix); ok {
		return m.Dense
	}
	return A
}

// Det returns the determinant of a 3x3 matrix. Panics if the matrix is not 3x3.
func Det(A mat.Matrix) float64 {
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

// Errors

// Error is the error type returned by the package. The decoration
// slice keeps the names of the functions the error went through.
type Error struct {
	message string
	deco    []string
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix = PanicMsg("qcutils/v3: A v3.Matrix should have 3 columns")
	ErrDeterminant  = PanicMsg("qcutils/v3: Determinants are only available for 3x3 matrices")
	ErrShape        = PanicMsg("qcutils/v3: Dimension mismatch")
	ErrNoVecs       = PanicMsg("qcutils/v3: Matrix has no vectors")
)
