/*
 * histo.go, part of qcutils.
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

// Package histo bins values, such as the pairwise RMSDs of a conformer
// ensemble, into histograms.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Data is a histogram. Bin i holds the values v with dividers[i] <= v < dividers[i+1].
type Data struct {
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

type jsonData struct {
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Histo      []float64 `json:"histo"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonData{
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Dividers) < 2 || len(a.Histo) != len(a.Dividers)-1 {
		return fmt.Errorf("histo: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

// Span returns bins+1 evenly spaced dividers covering [lo, hi]. The last
// divider is nudged above hi so hi itself falls in the last bin.
// If lo == hi, the range [lo, lo+1) is used.
func Span(lo, hi float64, bins int) []float64 {
	if bins < 1 {
		bins = 1
	}
	if hi <= lo {
		hi = lo + 1
	} else {
		hi = math.Nextafter(hi, math.Inf(1))
	}
	return floats.Span(make([]float64, bins+1), lo, hi)
}

// NewData returns a new histogram with the given dividers, filled with rawdata.
// rawdata can be nil, in which case an empty histogram is created. It panics
// with fewer than 2 dividers.
func NewData(dividers []float64, rawdata []float64) *Data {
	if len(dividers) < 2 {
		panic("histo: a histogram needs at least 2 dividers")
	}
	d := new(Data)
	d.dividers = append([]float64(nil), dividers...)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(rawdata)
	}
	return d
}

// AddData adds the given data point(s) to the histogram. As in ReHisto, points
// outside the dividers are ignored, and don't count in the total.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	last := len(D.dividers) - 1
	for _, v := range point {
		i := sort.SearchFloat64s(D.dividers, v)
		if i < len(D.dividers) && D.dividers[i] == v {
			i++
		}
		// now dividers[i-1] <= v < dividers[i]
		if i > 0 && i <= last {
			D.histo[i-1]++
			D.total++
		}
	}
	if norma {
		D.Normalize()
	}
}

// ReHisto replaces the contents of the histogram with rawdata, which is not modified.
// Values outside the dividers are dropped.
func (D *Data) ReHisto(rawdata []float64) {
	data := append([]float64(nil), rawdata...)
	sort.Float64s(data)
	// stat.Histogram panics for values off limits.
	maxi := sort.SearchFloat64s(data, D.dividers[len(D.dividers)-1])
	mini := sort.SearchFloat64s(data, D.dividers[0])
	data = data[mini:maxi]
	D.total = len(data)
	D.normalized = false
	D.histo = stat.Histogram(nil, D.dividers, data, nil)
}

// Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

// Normalize divides every bin by the number of data points.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

// UnNormalize turns the bins back to counts.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	if normalize {
		n = 1 / n
	}
	D.normalized = normalize
	floats.Scale(n, D.histo)
}

// Total returns the number of points added to the histogram.
func (D *Data) Total() int {
	return D.total
}

// Dividers returns a copy of the dividers of the histogram.
func (D *Data) Dividers() []float64 {
	return append([]float64(nil), D.dividers...)
}

// Copy returns a copy of the bins.
func (D *Data) Copy() []float64 {
	return append([]float64(nil), D.histo...)
}

func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

// String returns one line per bin, with its limits and value.
func (D *Data) String() string {
	lines := make([]string, len(D.histo))
	for i, v := range D.histo {
		lines[i] = fmt.Sprintf("%.4f-%.4f %g", D.dividers[i], D.dividers[i+1], v)
	}
	return strings.Join(lines, "\n")
}
