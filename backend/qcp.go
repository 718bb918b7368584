/*
 * qcp.go, part of qcutils.
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

package backend

import (
	"fmt"
	"math"

	chem "github.com/coltonbh/qcutils"
	v3 "github.com/coltonbh/qcutils/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// The QCP method is described in:
//
//	Douglas L. Theobald (2005) "Rapid calculation of RMSD using a quaternion-based
//	characteristic polynomial." Acta Crystallographica A 61(4):478-480.
//
//	Pu Liu, Dmitris K. Agrafiotis, and Douglas L. Theobald (2010) "Fast determination
//	of the optimal rotational matrix for macromolecular superpositions."
//	Journal of Computational Chemistry 31(7):1561-1563.

const (
	qcpEvalPrec = 1e-11
	qcpEvecPrec = 1e-6
	qcpMaxIter  = 50
)

func init() {
	Register(QCP{})
}

// QCP is a backend using the quaternion characteristic polynomial method.
// It gives the same superposition as the Kabsch algorithm without an SVD.
type QCP struct{}

func (QCP) Name() string { return "qcp" }

func (QCP) RMSD(s1, s2 *chem.Structure, o *Options) (float64, error) {
	errid := "QCP/RMSD"
	o = orDefault(o)
	if err := checkPair(errid, s1, s2); err != nil {
		return 0, err
	}
	f, err := o.Unit.FromBohr()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	if !o.Align {
		rmsd, err := chem.RMSD(s1.Geometry(), s2.Geometry(), false)
		return rmsd * f, err
	}
	rmsd, _, err := QCPSuper(s1.Geometry(), s2.Geometry())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	return rmsd * f, nil
}

func (QCP) Align(s, ref *chem.Structure, _ *Options) (*chem.Structure, error) {
	errid := "QCP/Align"
	if err := checkPair(errid, s, ref); err != nil {
		return nil, err
	}
	g := s.Geometry()
	_, rot, err := QCPSuper(g, ref.Geometry())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return s.WithGeometry(rot.Apply(g))
}

// QCPSuper returns the minimum RMSD between P and Q and the rotation that superimposes
// P on Q. If the optimal rotation is undefined (i.e. for a single atom) the identity is
// returned. When the quaternion can't be obtained from the characteristic polynomial,
// the rotation is computed with chem.Kabsch.
func QCPSuper(P, Q *v3.Matrix) (float64, *chem.Rotation, error) {
	if !P.SameShape(Q) {
		return 0, nil, fmt.Errorf("QCPSuper: %d and %d vectors: %w", P.NVecs(), Q.NVecs(), chem.ErrShape)
	}
	n := P.NVecs()
	Pc, cP := chem.Centrate(P)
	Qc, cQ := chem.Centrate(Q)
	e0 := 0.5 * (sumSq(Pc.Dense) + sumSq(Qc.Dense))
	A := mat.NewDense(3, 3, nil)
	A.Mul(Pc.Dense.T(), Qc.Dense)
	K := keyMatrix(A)

	// coefficients of the characteristic polynomial of K,
	// l^4 + c2*l^2 + c1*l + c0
	c2 := -2 * sumSq(A)
	c1 := -8 * v3.Det(A)
	c0 := mat.Det(K)
	rot := &chem.Rotation{R: mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}), CentroidP: cP, CentroidQ: cQ}
	if e0 == 0 {
		return 0, rot, nil
	}
	lambda := e0
	for i := 0; i < qcpMaxIter; i++ {
		old := lambda
		l2 := lambda * lambda
		b := (l2 + c2) * lambda
		a := b + c1
		d := 2*l2*lambda + b + a
		if d == 0 {
			break
		}
		next := lambda - (a*lambda+c0)/d
		// starting from e0 the iteration only goes down, and the
		// eigenvalues of K lie in [-e0, e0].
		if math.IsNaN(next) || next > old || next < -e0 {
			break
		}
		lambda = next
		if math.Abs(lambda-old) < math.Abs(qcpEvalPrec*lambda) {
			break
		}
	}
	if q, ok := maxEigenvector(K, lambda, e0); ok {
		rot.R = quaternionRotation(q)
		return math.Sqrt(math.Abs(2 * (e0 - lambda) / float64(n))), rot, nil
	}
	// the largest eigenvalue is repeated (linear molecules) or Newton didn't
	// reach it, so neither lambda nor the adjugate can be trusted.
	krot, err := chem.Kabsch(P, Q)
	if err != nil {
		return 0, nil, fmt.Errorf("QCPSuper: %w", err)
	}
	rmsd, err := chem.RMSD(krot.Apply(P), Q, false)
	if err != nil {
		return 0, nil, fmt.Errorf("QCPSuper: %w", err)
	}
	return rmsd, krot, nil
}

func sumSq(A *mat.Dense) float64 {
	r, _ := A.Dims()
	var s float64
	for i := 0; i < r; i++ {
		row := A.RawRowView(i)
		s += floats.Dot(row, row)
	}
	return s
}

// keyMatrix returns the symmetric 4x4 matrix whose largest eigenvalue and eigenvector
// give the optimal rotation for the inner product matrix A.
func keyMatrix(A *mat.Dense) *mat.SymDense {
	xx, xy, xz := A.At(0, 0), A.At(0, 1), A.At(0, 2)
	yx, yy, yz := A.At(1, 0), A.At(1, 1), A.At(1, 2)
	zx, zy, zz := A.At(2, 0), A.At(2, 1), A.At(2, 2)
	return mat.NewSymDense(4, []float64{
		xx + yy + zz, yz - zy, zx - xz, xy - yx,
		yz - zy, xx - yy - zz, xy + yx, zx + xz,
		zx - xz, xy + yx, yy - xx - zz, yz + zy,
		xy - yx, zx + xz, yz + zy, zz - xx - yy,
	})
}

// maxEigenvector returns the normalized eigenvector of K for the eigenvalue lambda,
// taken from a row of the adjugate of (K-lambda*I)/scale. Rows are tried until one is
// not too small. It returns false if none is usable, or if lambda is not an eigenvalue
// of K, in which case (K-lambda*I)q doesn't vanish.
func maxEigenvector(K *mat.SymDense, lambda, scale float64) ([]float64, bool) {
	M := mat.NewDense(4, 4, nil)
	M.Copy(K)
	for i := 0; i < 4; i++ {
		M.Set(i, i, M.At(i, i)-lambda)
	}
	M.Scale(1/scale, M)
	q := make([]float64, 4)
	minor := mat.NewDense(3, 3, nil)
	for _, r := range []int{0, 1, 3, 2} {
		for j := 0; j < 4; j++ {
			fillMinor(minor, M, r, j)
			sign := 1.0
			if (r+j)%2 == 1 {
				sign = -1
			}
			q[j] = sign * v3.Det(minor)
		}
		qsqr := floats.Dot(q, q)
		if qsqr < qcpEvecPrec {
			continue
		}
		floats.Scale(1/math.Sqrt(qsqr), q)
		res := mat.NewVecDense(4, nil)
		res.MulVec(M, mat.NewVecDense(4, q))
		if mat.Norm(res, 2) > qcpEvecPrec {
			return nil, false
		}
		return q, true
	}
	return nil, false
}

// fillMinor puts in dst the matrix M without row r and column c.
func fillMinor(dst, M *mat.Dense, r, c int) {
	n, _ := M.Dims()
	di := 0
	for i := 0; i < n; i++ {
		if i == r {
			continue
		}
		dj := 0
		for j := 0; j < n; j++ {
			if j == c {
				continue
			}
			dst.Set(di, dj, M.At(i, j))
			dj++
		}
		di++
	}
}

// quaternionRotation returns the rotation matrix for the unit quaternion q (w, x, y, z).
func quaternionRotation(q []float64) *mat.Dense {
	w, x, y, z := q[0], q[1], q[2], q[3]
	return mat.NewDense(3, 3, []float64{
		w*w + x*x - y*y - z*z, 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), w*w - x*x + y*y - z*z, 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), w*w - x*x - y*y + z*z,
	})
}
