/*
 * lovo.go, part of qcutils.
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

// Package align superimposes structures on the subset of their atoms
// that fits the reference best, using the LOVO (Low Order Value Optimization)
// method. If you use it in your research, please cite the reference for the
// method: 10.1371/journal.pone.0119264.
package align

import (
	"fmt"
	"math"
	"sort"

	chem "github.com/coltonbh/qcutils"
	v3 "github.com/coltonbh/qcutils/v3"
)

// LOVOReturn contains the information returned by LOVO.
type LOVOReturn struct {
	N          int
	Indexes    []int     // atoms used in the last superposition, in increasing order
	MSD        []float64 // squared deviation of every atom after the superposition, not only the fitted ones.
	RMSD       float64   // RMSD over the fitted atoms
	Iterations int
	Converged  bool
	Aligned    *chem.Structure
}

// String returns a string representation of the LOVOReturn object.
func (L *LOVOReturn) String() string {
	return fmt.Sprintf("N: %d, Indexes: %v, RMSD: %.4f, Iterations: %d, Converged: %t", L.N, L.Indexes, L.RMSD, L.Iterations, L.Converged)
}

// LOVO superimposes s on ref using only the atoms that deviate least from ref, as
// selected by the options. Starting from a superposition of all the atoms, it
// repeatedly picks the atoms to fit from the deviations of the previous
// superposition, until the selection stops changing or MaxIter superpositions
// have been done. The returned data always belongs to the last superposition. Neither structure is modified.
func LOVO(s, ref *chem.Structure, o *Options) (*LOVOReturn, error) {
	errid := "align/LOVO"
	if o == nil {
		o = DefaultOptions()
	}
	if s.Len() != ref.Len() {
		return nil, fmt.Errorf("%s: %d and %d atoms: %w", errid, s.Len(), ref.Len(), chem.ErrShape)
	}
	natoms := s.Len()
	if natoms == 0 {
		return nil, fmt.Errorf("%s: no atoms: %w", errid, chem.ErrShape)
	}
	P := s.Geometry()
	Q := ref.Geometry()
	indexes := make([]int, natoms)
	for i := range indexes {
		indexes[i] = i
	}
	lg := o.Logger()
	ret := &LOVOReturn{}
	var moved *v3.Matrix
	var msd []float64
	for {
		rot, err := chem.Kabsch(someVecs(P, indexes), someVecs(Q, indexes))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errid, err)
		}
		ret.Iterations++
		moved = rot.Apply(P)
		msd = deviations(moved, Q)
		next := selectAtoms(msd, o)
		if sameElementsInt(next, indexes) {
			ret.Converged = true
			break
		}
		if ret.Iterations >= o.MaxIter() {
			break
		}
		indexes = next
	}
	if !ret.Converged {
		lg.Warn().Int("iterations", ret.Iterations).Msg("LOVO did not converge")
	}
	ret.N = len(indexes)
	ret.Indexes = indexes
	ret.MSD = msd
	var sum float64
	for _, i := range indexes {
		sum += msd[i]
	}
	ret.RMSD = math.Sqrt(sum / float64(len(indexes)))
	aligned, err := s.WithGeometry(moved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	ret.Aligned = aligned
	lg.Debug().Int("atoms", natoms).Int("fitted", ret.N).Float64("rmsd", ret.RMSD).Int("iterations", ret.Iterations).Msg("LOVO superposition")
	return ret, nil
}

func someVecs(A *v3.Matrix, indexes []int) *v3.Matrix {
	ret := v3.Zeros(len(indexes))
	ret.SomeVecs(A, indexes)
	return ret
}

// deviations returns the squared distance between each pair of vectors.
func deviations(A, B *v3.Matrix) []float64 {
	ret := make([]float64, A.NVecs())
	for i := range ret {
		a := A.RawRowView(i)
		b := B.RawRowView(i)
		for j := 0; j < 3; j++ {
			d := a[j] - b[j]
			ret[i] += d * d
		}
	}
	return ret
}

// selectAtoms returns, in increasing order, the indexes of the atoms
// to be fitted, given their squared deviations.
func selectAtoms(msd []float64, o *Options) []int {
	m := newMSD(msd)
	m.SortBy("msd")
	n := o.NMostRigid()
	if n <= 0 {
		lim := o.LessThanRMSD() * o.LessThanRMSD()
		n = sort.Search(m.Len(), func(i int) bool { return m.msds[i] >= lim })
		n = max(n, o.MinimumN())
	}
	n = min(n, m.Len())
	ret := m.IDsCopy()[:n]
	sort.Ints(ret)
	return ret
}

type mSD struct {
	ids     []int
	msds    []float64
	sorting string
}

func newMSD(msd []float64) *mSD {
	ret := &mSD{ids: make([]int, len(msd)), msds: append([]float64(nil), msd...)}
	for i := range ret.ids {
		ret.ids[i] = i
	}
	return ret
}

// IDsCopy returns the atom indexes in their current order.
func (m *mSD) IDsCopy() []int {
	return append([]int(nil), m.ids...)
}

func (m *mSD) Swap(i, j int) {
	m.ids[i], m.ids[j] = m.ids[j], m.ids[i]
	m.msds[i], m.msds[j] = m.msds[j], m.msds[i]
}

func (m *mSD) Len() int {
	return len(m.ids)
}

func (m *mSD) Less(i, j int) bool {
	switch m.sorting {
	case "msd":
		return m.msds[i] < m.msds[j]
	default:
		return m.ids[i] < m.ids[j]
	}
}

func (m *mSD) SortBy(sorting string) {
	m.sorting = sorting
	sort.Stable(m)
}

// returns true if t1 and t2, both sorted, have the same elements.
func sameElementsInt(t1, t2 []int) bool {
	if len(t1) != len(t2) {
		return false
	}
	for i, v := range t1 {
		if t2[i] != v {
			return false
		}
	}
	return true
}
