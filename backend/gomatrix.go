/*
 * gomatrix.go, part of qcutils.
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

	chem "github.com/coltonbh/qcutils"
	v3 "github.com/coltonbh/qcutils/v3"
	matrix "github.com/skelterjohn/go.matrix"
	"gonum.org/v1/gonum/mat"
)

func init() {
	Register(GoMatrix{})
}

// GoMatrix is a Kabsch backend that uses the singular value decomposition of
// github.com/skelterjohn/go.matrix instead of gonum's. It is mostly useful to
// cross-check the local backend.
type GoMatrix struct{}

func (GoMatrix) Name() string { return "gomatrix" }

func (GoMatrix) RMSD(s1, s2 *chem.Structure, o *Options) (float64, error) {
	errid := "GoMatrix/RMSD"
	o = orDefault(o)
	if err := checkPair(errid, s1, s2); err != nil {
		return 0, err
	}
	f, err := o.Unit.FromBohr()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	test := s1.Geometry()
	ref := s2.Geometry()
	if o.Align {
		rot, err := GoMatrixKabsch(test, ref)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", errid, err)
		}
		test = rot.Apply(test)
	}
	rmsd, err := chem.RMSD(test, ref, false)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	return rmsd * f, nil
}

func (GoMatrix) Align(s, ref *chem.Structure, _ *Options) (*chem.Structure, error) {
	errid := "GoMatrix/Align"
	if err := checkPair(errid, s, ref); err != nil {
		return nil, err
	}
	g := s.Geometry()
	rot, err := GoMatrixKabsch(g, ref.Geometry())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return s.WithGeometry(rot.Apply(g))
}

// GoMatrixKabsch is chem.Kabsch with the SVD step done by go.matrix.
// Unlike chem.Kabsch, a failed SVD is reported as an error.
func GoMatrixKabsch(P, Q *v3.Matrix) (*chem.Rotation, error) {
	if !P.SameShape(Q) {
		return nil, fmt.Errorf("GoMatrixKabsch: %d and %d vectors: %w", P.NVecs(), Q.NVecs(), chem.ErrShape)
	}
	Pc, cP := chem.Centrate(P)
	Qc, cQ := chem.Centrate(Q)
	H := mat.NewDense(3, 3, nil)
	H.Mul(Pc.Dense.T(), Qc.Dense)
	U, _, V, err := matrix.MakeDenseMatrix(mat.DenseCopyOf(H).RawMatrix().Data, 3, 3).SVD()
	if err != nil {
		return nil, fmt.Errorf("GoMatrixKabsch: %w", err)
	}
	u := mat.NewDense(3, 3, U.Array())
	v := mat.NewDense(3, 3, V.Array())
	R := mat.NewDense(3, 3, nil)
	R.Mul(v, u.T())
	if v3.Det(R) < 0 {
		for i := 0; i < 3; i++ {
			v.Set(i, 2, -v.At(i, 2))
		}
		R.Mul(v, u.T())
	}
	return &chem.Rotation{R: R, CentroidP: cP, CentroidQ: cQ}, nil
}
