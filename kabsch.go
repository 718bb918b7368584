/*
 * kabsch.go, part of qcutils.
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
	"gonum.org/v1/gonum/mat"
)

// Rotation is a rigid transformation that superimposes one set of coordinates onto
// another: points are first translated by -CentroidP, then rotated by R, and then
// translated by CentroidQ. R always has determinant +1 (unless the SVD failed,
// in which case it's filled with NaN).
type Rotation struct {
	R         *mat.Dense
	CentroidP *v3.Matrix
	CentroidQ *v3.Matrix
}

// Apply returns (X-CentroidP)·Rᵀ+CentroidQ. X is not modified.
func (r *Rotation) Apply(X *v3.Matrix) *v3.Matrix {
	ret := v3.Zeros(X.NVecs())
	ret.SubVec(X, r.CentroidP)
	ret.Mul(ret, r.R.T())
	ret.AddVec(ret, r.CentroidQ)
	return ret
}

// Kabsch returns the proper rotation that minimizes the RMSD between P (after being
// transformed) and Q, using the Kabsch algorithm. The ith vector of P is matched
// to the ith vector of Q. Neither matrix is modified.
func Kabsch(P, Q *v3.Matrix) (*Rotation, error) {
	if !P.SameShape(Q) {
		return nil, fmt.Errorf("Kabsch: %d and %d vectors: %w", P.NVecs(), Q.NVecs(), ErrShape)
	}
	Pc, cP := Centrate(P)
	Qc, cQ := Centrate(Q)
	H := mat.NewDense(3, 3, nil)
	H.Mul(Pc.Dense.T(), Qc.Dense) // covariance
	R := mat.NewDense(3, 3, nil)
	var svd mat.SVD
	if ok := svd.Factorize(H, mat.SVDFull); !ok {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				R.Set(i, j, math.NaN())
			}
		}
		return &Rotation{R: R, CentroidP: cP, CentroidQ: cQ}, nil
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	R.Mul(&V, U.T())
	if v3.Det(R) < 0 {
		// flip the sign of the last singular vector, so we get a rotation
		// and not a reflection.
		for i := 0; i < 3; i++ {
			V.Set(i, 2, -V.At(i, 2))
		}
		R.Mul(&V, U.T())
	}
	return &Rotation{R: R, CentroidP: cP, CentroidQ: cQ}, nil
}
