/*
 * chem_test.go, part of qcutils.
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
	"errors"
	"math"
	"math/rand"
	"testing"

	v3 "github.com/coltonbh/qcutils/v3"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-6

// randomCoords returns n random vectors with components in [-5,5).
func randomCoords(r *rand.Rand, n int) *v3.Matrix {
	data := make([]float64, 3*n)
	for i := range data {
		data[i] = 10*r.Float64() - 5
	}
	m, _ := v3.NewMatrix(data)
	return m
}

// rigidMove rotates coords around the three axes and then translates them.
func rigidMove(Te *testing.T, coords *v3.Matrix, ax, ay, az float64, shift []float64) (*v3.Matrix, *mat.Dense) {
	R := mat.NewDense(3, 3, nil)
	R.Copy(mat.NewDiagDense(3, []float64{1, 1, 1}))
	for _, a := range []struct {
		axis string
		deg  float64
	}{{"x", ax}, {"y", ay}, {"z", az}} {
		M, err := RotationMatrix(a.axis, a.deg)
		require.NoError(Te, err)
		R.Mul(M, R)
	}
	ret := v3.Zeros(coords.NVecs())
	ret.Mul(coords, R.T())
	t, _ := v3.NewMatrix(shift)
	ret.AddVec(ret, t)
	return ret, R
}

func water(Te *testing.T) *Structure {
	g, err := v3.NewMatrix([]float64{
		0, 0, 0.2217,
		0, 1.4309, -0.8867,
		0, -1.4309, -0.8867})
	require.NoError(Te, err)
	s, err := NewStructure([]string{"O", "H", "H"}, g, 0, 1, map[string]any{"source": "test", "tags": []any{"a", "b"}})
	require.NoError(Te, err)
	return s
}

func TestRMSDIdentity(Te *testing.T) {
	r := rand.New(rand.NewSource(1))
	c := randomCoords(r, 10)
	for _, align := range []bool{true, false} {
		rmsd, err := RMSD(c, c, align)
		require.NoError(Te, err)
		assert.InDelta(Te, 0, rmsd, tol)
	}
}

func TestRMSDKnownValue(Te *testing.T) {
	c1, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 0, 0})
	c2, _ := v3.NewMatrix([]float64{0, 0, 1, 1, 0, 1})
	rmsd, err := RMSD(c1, c2, false)
	require.NoError(Te, err)
	assert.InDelta(Te, 1.0, rmsd, 1e-12)
	rmsd, err = RMSD(c1, c2, true)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.0, rmsd, tol)
}

func TestRMSDShape(Te *testing.T) {
	r := rand.New(rand.NewSource(2))
	_, err := RMSD(randomCoords(r, 3), randomCoords(r, 4), true)
	assert.True(Te, errors.Is(err, ErrShape))
	_, err = Kabsch(randomCoords(r, 3), randomCoords(r, 4))
	assert.True(Te, errors.Is(err, ErrShape))
}

func TestKabschRecoversRotation(Te *testing.T) {
	r := rand.New(rand.NewSource(3))
	P := randomCoords(r, 8)
	Q, R0 := rigidMove(Te, P, 30, -50, 110, []float64{1, -2, 3})
	rot, err := Kabsch(P, Q)
	require.NoError(Te, err)
	assert.True(Te, mat.EqualApprox(rot.R, R0, tol), "got %v expected %v", mat.Formatted(rot.R), mat.Formatted(R0))
	assert.True(Te, mat.EqualApprox(rot.Apply(P).Dense, Q.Dense, tol))
}

func TestKabschProperness(Te *testing.T) {
	r := rand.New(rand.NewSource(4))
	P := randomCoords(r, 6)
	mirror := P.Clone()
	for i := 0; i < mirror.NVecs(); i++ {
		mirror.Set(i, 0, -mirror.At(i, 0))
	}
	rot, err := Kabsch(P, mirror)
	require.NoError(Te, err)
	assert.InDelta(Te, 1.0, v3.Det(rot.R), tol)
}

func TestKabschDoesNotModify(Te *testing.T) {
	r := rand.New(rand.NewSource(5))
	P := randomCoords(r, 5)
	Q := randomCoords(r, 5)
	Pc, Qc := P.Clone(), Q.Clone()
	_, err := Kabsch(P, Q)
	require.NoError(Te, err)
	_, err = RMSD(P, Q, true)
	require.NoError(Te, err)
	assert.True(Te, mat.Equal(P, Pc))
	assert.True(Te, mat.Equal(Q, Qc))
}

func TestGeometricProperties(Te *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("aligned RMSD is invariant under rigid motions", prop.ForAll(
		func(seed int64, n int, ax, ay, az float64) bool {
			r := rand.New(rand.NewSource(seed))
			P := randomCoords(r, n)
			Q := randomCoords(r, n)
			moved, _ := rigidMove(Te, Q, ax, ay, az, []float64{ax / 10, ay / 10, az / 10})
			a, err := RMSD(P, Q, true)
			if err != nil {
				return false
			}
			b, err := RMSD(P, moved, true)
			if err != nil {
				return false
			}
			self, err := RMSD(Q, moved, true)
			if err != nil {
				return false
			}
			return math.Abs(a-b) < tol && self < tol
		},
		gen.Int64(),
		gen.IntRange(3, 25),
		gen.Float64Range(-180, 180),
		gen.Float64Range(-180, 180),
		gen.Float64Range(-180, 180),
	))

	properties.Property("RMSD is symmetric", prop.ForAll(
		func(seed int64, n int, align bool) bool {
			r := rand.New(rand.NewSource(seed))
			P := randomCoords(r, n)
			Q := randomCoords(r, n)
			a, err1 := RMSD(P, Q, align)
			b, err2 := RMSD(Q, P, align)
			return err1 == nil && err2 == nil && math.Abs(a-b) < tol
		},
		gen.Int64(),
		gen.IntRange(1, 25),
		gen.Bool(),
	))

	properties.Property("Kabsch always returns a proper rotation", prop.ForAll(
		func(seed int64, n int, reflect bool) bool {
			r := rand.New(rand.NewSource(seed))
			P := randomCoords(r, n)
			Q := randomCoords(r, n)
			if reflect {
				Q = P.Clone()
				for i := 0; i < n; i++ {
					Q.Set(i, 2, -Q.At(i, 2))
				}
			}
			rot, err := Kabsch(P, Q)
			if err != nil {
				return false
			}
			var RtR mat.Dense
			RtR.Mul(rot.R.T(), rot.R)
			eye := mat.NewDiagDense(3, []float64{1, 1, 1})
			return math.Abs(v3.Det(rot.R)-1) < tol && mat.EqualApprox(&RtR, eye, tol)
		},
		gen.Int64(),
		gen.IntRange(3, 25),
		gen.Bool(),
	))

	properties.Property("aligned RMSD never exceeds unaligned RMSD", prop.ForAll(
		func(seed int64, n int) bool {
			r := rand.New(rand.NewSource(seed))
			P := randomCoords(r, n)
			Q := randomCoords(r, n)
			a, _ := RMSD(P, Q, true)
			b, _ := RMSD(P, Q, false)
			return a <= b+tol
		},
		gen.Int64(),
		gen.IntRange(1, 25),
	))

	properties.TestingRun(Te)
}

func TestStructureRMSDUnits(Te *testing.T) {
	s := water(Te)
	o, err := Rotate(s, "x", 20)
	require.NoError(Te, err)
	g := o.Geometry()
	g.Set(1, 1, g.At(1, 1)+0.3)
	o, err = o.WithGeometry(g)
	require.NoError(Te, err)

	bohr, err := StructureRMSD(s, o, true, Bohr)
	require.NoError(Te, err)
	ang, err := StructureRMSD(s, o, true, Angstrom)
	require.NoError(Te, err)
	def, err := StructureRMSD(s, o, true, "")
	require.NoError(Te, err)
	assert.Greater(Te, bohr, 0.0)
	assert.InDelta(Te, bohr*Bohr2A, ang, 1e-12)
	assert.Equal(Te, bohr, def)

	_, err = StructureRMSD(s, o, true, "parsec")
	assert.True(Te, errors.Is(err, ErrUnit))
}

func TestParseUnit(Te *testing.T) {
	for in, want := range map[string]LengthUnit{"": Bohr, "Bohr": Bohr, "ANGSTROM": Angstrom, "ang": Angstrom} {
		u, err := ParseUnit(in)
		require.NoError(Te, err, in)
		assert.Equal(Te, want, u)
	}
	_, err := ParseUnit("nm")
	assert.True(Te, errors.Is(err, ErrUnit))
}

func TestAlign(Te *testing.T) {
	ref := water(Te)
	moved, err := Rotate(ref, "y", 73)
	require.NoError(Te, err)
	before := moved.Geometry()
	aligned, err := Align(moved, ref)
	require.NoError(Te, err)
	assert.True(Te, mat.EqualApprox(aligned.Geometry(), ref.Geometry(), tol))
	assert.True(Te, mat.Equal(moved.Geometry(), before), "Align modified its input")
	assert.Equal(Te, moved.Symbols(), aligned.Symbols())
	assert.Equal(Te, moved.Extras(), aligned.Extras())

	again, err := Align(aligned, ref)
	require.NoError(Te, err)
	assert.True(Te, mat.EqualApprox(again.Geometry(), aligned.Geometry(), tol))
}

func TestAlignIdempotentProperty(Te *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)
	properties.Property("aligning twice is aligning once", prop.ForAll(
		func(seed int64, n int) bool {
			r := rand.New(rand.NewSource(seed))
			symbols := make([]string, n)
			for i := range symbols {
				symbols[i] = "C"
			}
			s, err := NewStructure(symbols, randomCoords(r, n), 0, 1, nil)
			if err != nil {
				return false
			}
			ref, err := NewStructure(symbols, randomCoords(r, n), 0, 1, nil)
			if err != nil {
				return false
			}
			once, err := Align(s, ref)
			if err != nil {
				return false
			}
			twice, err := Align(once, ref)
			if err != nil {
				return false
			}
			return mat.EqualApprox(once.Geometry(), twice.Geometry(), tol)
		},
		gen.Int64(),
		gen.IntRange(3, 20),
	))
	properties.TestingRun(Te)
}

func TestRotate(Te *testing.T) {
	g, _ := v3.NewMatrix([]float64{1, 0, 0})
	s, err := NewStructure([]string{"He"}, g, 0, 1, nil)
	require.NoError(Te, err)
	cases := []struct {
		axis string
		want []float64
	}{
		{"z", []float64{0, 1, 0}},
		{"Y", []float64{0, 0, -1}},
		{"x", []float64{1, 0, 0}},
	}
	for _, c := range cases {
		r, err := Rotate(s, c.axis, 90)
		require.NoError(Te, err)
		assert.InDeltaSlice(Te, c.want, r.Geometry().RawRowView(0), 1e-12, c.axis)
	}
	_, err = Rotate(s, "w", 90)
	assert.True(Te, errors.Is(err, ErrAxis))
	_, err = RotationMatrix("", 10)
	assert.True(Te, errors.Is(err, ErrAxis))
}

func TestNewStructureValidation(Te *testing.T) {
	g, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 1, 1})
	_, err := NewStructure([]string{"H"}, g, 0, 1, nil)
	assert.True(Te, errors.Is(err, ErrShape))
	_, err = NewStructure([]string{"H", "H"}, nil, 0, 1, nil)
	assert.True(Te, errors.Is(err, ErrShape))
	_, err = NewStructure([]string{"H", "H"}, g, 0, 0, nil)
	assert.True(Te, errors.Is(err, ErrMultiplicity))
	s, err := NewStructure([]string{"H", "H"}, g, 0, 1, nil)
	require.NoError(Te, err)
	_, err = s.WithGeometry(v3.Zeros(3))
	assert.True(Te, errors.Is(err, ErrShape))
}

func TestStructureIsImmutable(Te *testing.T) {
	data := []float64{0, 0, 0.2217, 0, 1.4309, -0.8867, 0, -1.4309, -0.8867}
	g, _ := v3.NewMatrix(data)
	symbols := []string{"O", "H", "H"}
	extras := map[string]any{"nested": map[string]any{"k": "v"}}
	s, err := NewStructure(symbols, g, 0, 1, extras)
	require.NoError(Te, err)

	data[0] = 100
	symbols[0] = "S"
	extras["nested"].(map[string]any)["k"] = "changed"
	assert.Equal(Te, 0.0, s.Geometry().At(0, 0))
	assert.Equal(Te, "O", s.Symbol(0))
	assert.Equal(Te, "v", s.Extras()["nested"].(map[string]any)["k"])

	s.Geometry().Set(1, 1, 100)
	s.Symbols()[1] = "Xe"
	s.Extras()["new"] = 1
	assert.Equal(Te, 1.4309, s.Geometry().At(1, 1))
	assert.Equal(Te, "H", s.Symbol(1))
	_, ok := s.Extras()["new"]
	assert.False(Te, ok)
}

func TestDumpRoundTrip(Te *testing.T) {
	s := water(Te)
	m := s.Dump()
	assert.Equal(Te, []string{"O", "H", "H"}, m["symbols"])
	assert.Equal(Te, []float64{0, 1.4309, -0.8867}, m["geometry"].([][]float64)[1])
	back, err := StructureFromMap(m)
	require.NoError(Te, err)
	assert.True(Te, s.Equal(back))

	b, err := s.MarshalJSON()
	require.NoError(Te, err)
	var fromJSON Structure
	require.NoError(Te, fromJSON.UnmarshalJSON(b))
	assert.True(Te, s.Equal(&fromJSON))
}

func TestStructureFromMapInputs(Te *testing.T) {
	s, err := StructureFromMap(map[string]any{
		"symbols":  []any{"H", "H"},
		"geometry": []any{0.0, 0.0, 0.0, 0.0, 0.0, 1.4},
	})
	require.NoError(Te, err)
	assert.Equal(Te, 0, s.Charge())
	assert.Equal(Te, 1, s.Multi())
	assert.Equal(Te, 1.4, s.Geometry().At(1, 2))

	bad := []map[string]any{
		{"geometry": [][]float64{{0, 0, 0}}},
		{"symbols": []string{"H"}, "geometry": [][]float64{{0, 0}}},
		{"symbols": []string{"H"}, "geometry": []any{0.0, 0.0}},
		{"symbols": []string{"H"}, "geometry": [][]float64{{0, 0, 0}}, "charge": 0.5},
		{"symbols": []string{"H"}, "geometry": [][]float64{{0, 0, 0}}, "extras": "no"},
	}
	for i, m := range bad {
		_, err := StructureFromMap(m)
		assert.True(Te, errors.Is(err, ErrMapping), "case %d: %v", i, err)
	}
}
