/*
 * gocoords.go, part of qcutils.
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
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

// METHODS

// NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// Clone returns a deep copy of F.
func (F *Matrix) Clone() *Matrix {
	r := Zeros(F.NVecs())
	r.Copy(F)
	return r
}

// SameShape returns true if F and A have the same number of vectors.
func (F *Matrix) SameShape(A *Matrix) bool {
	return F.NVecs() == A.NVecs()
}

// AddVec adds the vector vec to each vector of the matrix A, putting
// the result on the receiver. Panics if matrices are mismatched.
func (F *Matrix) AddVec(A, vec *Matrix) {
	ar, ac := A.Dims()
	rr, rc := vec.Dims()
	fr, fc := F.Dims()
	if ac != rc || rr != 1 || ac != fc || ar != fr {
		panic(ErrShape)
	}
	v := vec.RawRowView(0)
	for i := 0; i < ar; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+v[j])
		}
	}
}

// SubVec subtracts the vector vec from each vector of the matrix A, putting
// the result on the receiver. Panics if matrices are mismatched.
func (F *Matrix) SubVec(A, vec *Matrix) {
	ar, ac := A.Dims()
	rr, rc := vec.Dims()
	fr, fc := F.Dims()
	if ac != rc || rr != 1 || ac != fc || ar != fr {
		panic(ErrShape)
	}
	v := vec.RawRowView(0)
	for i := 0; i < ar; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)-v[j])
		}
	}
}

// SomeVecs puts in the receiver the vectors of A with indexes in clist,
// in the same order as clist.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	if F.NVecs() != len(clist) {
		panic(ErrShape)
	}
	for key, val := range clist {
		F.SetRow(key, A.RawRowView(val))
	}
}

// Rows returns the contents of F as a slice of 3-element slices.
// The returned slices are copies.
func (F *Matrix) Rows() [][]float64 {
	ret := make([][]float64, F.NVecs())
	for i := range ret {
		ret[i] = mat.Row(nil, i, F.Dense)
	}
	return ret
}

// FromRows builds a Matrix from a slice of 3-element slices.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, Error{string(ErrNoVecs), []string{"FromRows"}}
	}
	data := make([]float64, 0, 3*len(rows))
	for i, v := range rows {
		if len(v) != 3 {
			return nil, Error{fmt.Sprintf("qcutils/v3: vector %d has %d elements, 3 expected", i, len(v)), []string{"FromRows"}}
		}
		data = append(data, v...)
	}
	return NewMatrix(data)
}

// String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, c := F.Dims()
	v := make([]string, r+2)
	v[0] = "\n["
	v[len(v)-1] = " ]"
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, F.Dense)
		if i == 0 {
			v[i+1] = fmt.Sprintf("%6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
			continue
		} else if i == r-1 {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f", row[0], row[1], row[2])
			continue
		} else {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
		}
	}
	v[len(v)-2] = strings.Replace(v[len(v)-2], "\n", "", 1)
	return strings.Join(v, "")
}
