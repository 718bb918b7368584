/*
 * filter.go, part of qcutils.
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

/*
Package conformers removes redundant structures from conformer ensembles.

Two conformers are redundant if the RMSD between them, after superposition,
is strictly below a threshold. The ensemble is scanned greedily in input
order, so of two redundant conformers the one with the lower index is kept.
*/
package conformers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	chem "github.com/coltonbh/qcutils"
	"github.com/coltonbh/qcutils/backend"
	"github.com/coltonbh/qcutils/internal/metrics"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// DefaultThreshold is the default RMSD threshold, in Bohr (about 0.53 A).
const DefaultThreshold = 1.0

var ErrThreshold = errors.New("threshold must be a finite number")

// Cluster is a retained conformer and the conformers that were discarded
// because they were too close to it.
type Cluster struct {
	Index   int
	Members []int
}

// FilterIndices returns, in ascending order, the indices of the conformers in confs
// that are not redundant. For each conformer i not yet discarded, in ascending
// order, every later conformer j not yet discarded with RMSD(i, j) < threshold is
// discarded. A nil o means DefaultOptions().
func FilterIndices(confs []*chem.Structure, threshold float64, o *Options) ([]int, error) {
	marks, err := filter(confs, threshold, o)
	if err != nil {
		return nil, err
	}
	ret := make([]int, 0, len(confs))
	for i, m := range marks {
		if m < 0 {
			ret = append(ret, i)
		}
	}
	return ret, nil
}

// Filter is like FilterIndices but it returns the retained conformers themselves.
func Filter(confs []*chem.Structure, threshold float64, o *Options) ([]*chem.Structure, error) {
	idx, err := FilterIndices(confs, threshold, o)
	if err != nil {
		return nil, err
	}
	ret := make([]*chem.Structure, len(idx))
	for i, v := range idx {
		ret[i] = confs[v]
	}
	return ret, nil
}

// Clusters returns each retained conformer with the indices of the conformers
// it made redundant, all in ascending order.
func Clusters(confs []*chem.Structure, threshold float64, o *Options) ([]Cluster, error) {
	marks, err := filter(confs, threshold, o)
	if err != nil {
		return nil, err
	}
	pos := make(map[int]int)
	ret := make([]Cluster, 0, len(confs))
	for i, m := range marks {
		if m < 0 {
			pos[i] = len(ret)
			ret = append(ret, Cluster{Index: i, Members: []int{}})
			continue
		}
		c := &ret[pos[m]]
		c.Members = append(c.Members, i)
	}
	return ret, nil
}

// filter runs the greedy scan. In the returned slice, element j is -1 if the
// jth conformer is retained, or the index of the conformer that discarded it.
// The comparisons of one row are run concurrently, and the row's results are
// applied only when all of them are done, so the outcome doesn't depend on the
// number of goroutines.
func filter(confs []*chem.Structure, threshold float64, o *Options) ([]int, error) {
	errid := "conformers/filter"
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("%s: got %v: %w", errid, threshold, ErrThreshold)
	}
	if o == nil {
		o = DefaultOptions()
	}
	if _, err := backend.Get(o.Backend()); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	start := time.Now()
	log := o.Logger()
	ro := o.backendOptions()
	n := len(confs)
	marks := make([]int, n)
	for i := range marks {
		marks[i] = -1
	}
	var comparisons int
	for i := 0; i < n; i++ {
		if marks[i] >= 0 {
			continue
		}
		cand := make([]int, 0, n-i)
		for j := i + 1; j < n; j++ {
			if marks[j] < 0 {
				cand = append(cand, j)
			}
		}
		redundant := make([]bool, len(cand))
		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(o.Cpus())
		for k, j := range cand {
			k, j := k, j
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rmsd, err := backend.RMSD(confs[i], confs[j], o.Backend(), ro)
				if err != nil {
					return fmt.Errorf("%s: conformers %d and %d: %w", errid, i, j, err)
				}
				redundant[k] = rmsd < threshold
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		comparisons += len(cand)
		for k, j := range cand {
			if redundant[k] {
				marks[j] = i
			}
		}
	}
	retained := 0
	for _, m := range marks {
		if m < 0 {
			retained++
		}
	}
	metrics.FilterRunsTotal.Inc()
	metrics.FilterDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.ConformersRetained.Set(float64(retained))
	log.Info().
		Str("backend", o.Backend()).
		Float64("threshold", threshold).
		Int("conformers", n).
		Int("retained", retained).
		Int("comparisons", comparisons).
		Dur("elapsed", time.Since(start)).
		Msg("conformers filtered")
	return marks, nil
}

// Matrix returns the RMSD, after superposition, between every pair of conformers
// in confs. The diagonal is zero.
func Matrix(confs []*chem.Structure, o *Options) (*mat.SymDense, error) {
	errid := "conformers/Matrix"
	if o == nil {
		o = DefaultOptions()
	}
	if _, err := backend.Get(o.Backend()); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	n := len(confs)
	if n == 0 {
		return nil, fmt.Errorf("%s: no conformers", errid)
	}
	ro := o.backendOptions()
	M := mat.NewSymDense(n, nil)
	vals := make([][]float64, n)
	g := new(errgroup.Group)
	g.SetLimit(o.Cpus())
	for i := 0; i < n; i++ {
		vals[i] = make([]float64, n-i-1)
		for j := i + 1; j < n; j++ {
			i, j := i, j
			g.Go(func() error {
				rmsd, err := backend.RMSD(confs[i], confs[j], o.Backend(), ro)
				if err != nil {
					return fmt.Errorf("%s: conformers %d and %d: %w", errid, i, j, err)
				}
				vals[i][j-i-1] = rmsd
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, row := range vals {
		for k, v := range row {
			M.SetSym(i, i+k+1, v)
		}
	}
	return M, nil
}
