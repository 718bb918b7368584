/*
 * structure.go, part of qcutils.
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
	"encoding/json"
	"fmt"
	"reflect"

	v3 "github.com/coltonbh/qcutils/v3"
	"gonum.org/v1/gonum/mat"
)

// Structure is an immutable molecular structure: element symbols, total charge,
// spin multiplicity, a geometry in Bohr and a set of opaque extras that are
// carried along verbatim. All accessors return copies, so a Structure can be
// shared freely between goroutines.
type Structure struct {
	symbols  []string
	geometry *v3.Matrix
	charge   int
	multi    int
	extras   map[string]any
}

// NewStructure returns a Structure with the given data. The geometry must have one
// vector per symbol and the multiplicity must be at least 1. The arguments are copied.
func NewStructure(symbols []string, geometry *v3.Matrix, charge, multiplicity int, extras map[string]any) (*Structure, error) {
	if geometry == nil {
		return nil, fmt.Errorf("NewStructure: no geometry: %w", ErrShape)
	}
	if n := geometry.NVecs(); n != len(symbols) {
		return nil, fmt.Errorf("NewStructure: %d symbols for %d atoms: %w", len(symbols), n, ErrShape)
	}
	if multiplicity < 1 {
		return nil, fmt.Errorf("NewStructure: got %d: %w", multiplicity, ErrMultiplicity)
	}
	s := &Structure{
		symbols:  append([]string(nil), symbols...),
		geometry: geometry.Clone(),
		charge:   charge,
		multi:    multiplicity,
		extras:   copyMap(extras),
	}
	return s, nil
}

// Len returns the number of atoms in the structure.
func (s *Structure) Len() int {
	return len(s.symbols)
}

// Symbols returns a copy of the element symbols.
func (s *Structure) Symbols() []string {
	return append([]string(nil), s.symbols...)
}

// Symbol returns the symbol of the ith atom.
func (s *Structure) Symbol(i int) string {
	return s.symbols[i]
}

// Geometry returns a copy of the coordinates, in Bohr.
func (s *Structure) Geometry() *v3.Matrix {
	return s.geometry.Clone()
}

func (s *Structure) Charge() int {
	return s.charge
}

func (s *Structure) Multi() int {
	return s.multi
}

// Extras returns a deep copy of the extras.
func (s *Structure) Extras() map[string]any {
	return copyMap(s.extras)
}

// WithGeometry returns a new Structure equal to s except for the geometry,
// which is replaced by (a copy of) g. g must have as many vectors as s has atoms.
func (s *Structure) WithGeometry(g *v3.Matrix) (*Structure, error) {
	if g == nil || g.NVecs() != s.Len() {
		return nil, fmt.Errorf("WithGeometry: %w", ErrShape)
	}
	return NewStructure(s.symbols, g, s.charge, s.multi, s.extras)
}

// Equal returns true if s and o hold the same data.
func (s *Structure) Equal(o *Structure) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.charge != o.charge || s.multi != o.multi || s.Len() != o.Len() {
		return false
	}
	for i, v := range s.symbols {
		if o.symbols[i] != v {
			return false
		}
	}
	if !mat.Equal(s.geometry.Dense, o.geometry.Dense) {
		return false
	}
	if len(s.extras) == 0 && len(o.extras) == 0 {
		return true
	}
	return reflect.DeepEqual(s.extras, o.extras)
}

// Dump returns the structure as a plain mapping with the keys symbols, geometry,
// charge, multiplicity and extras. The geometry is given as a [][]float64 in Bohr.
func (s *Structure) Dump() map[string]any {
	return map[string]any{
		"symbols":      s.Symbols(),
		"geometry":     s.geometry.Rows(),
		"charge":       s.charge,
		"multiplicity": s.multi,
		"extras":       s.Extras(),
	}
}

// StructureFromMap builds a Structure from a plain mapping like the one returned
// by Dump. Numbers may come as any Go numeric type or as decoded JSON (float64).
// The geometry may be given either as a list of 3-vectors or as a flat list.
// A missing charge means 0, a missing multiplicity means 1.
func StructureFromMap(m map[string]any) (*Structure, error) {
	symbols, err := stringList(m["symbols"])
	if err != nil {
		return nil, fmt.Errorf("StructureFromMap: symbols: %w", err)
	}
	geom, err := geometryFrom(m["geometry"])
	if err != nil {
		return nil, fmt.Errorf("StructureFromMap: geometry: %w", err)
	}
	charge, multi := 0, 1
	if v, ok := m["charge"]; ok {
		if charge, err = toInt(v); err != nil {
			return nil, fmt.Errorf("StructureFromMap: charge: %w", err)
		}
	}
	if v, ok := m["multiplicity"]; ok {
		if multi, err = toInt(v); err != nil {
			return nil, fmt.Errorf("StructureFromMap: multiplicity: %w", err)
		}
	}
	var extras map[string]any
	if v, ok := m["extras"]; ok && v != nil {
		if extras, ok = v.(map[string]any); !ok {
			return nil, fmt.Errorf("StructureFromMap: extras is a %T: %w", v, ErrMapping)
		}
	}
	return NewStructure(symbols, geom, charge, multi, extras)
}

// MarshalJSON encodes the structure as the JSON form of its Dump mapping.
func (s *Structure) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Dump())
}

// UnmarshalJSON decodes a JSON object with the keys of the Dump mapping into s.
func (s *Structure) UnmarshalJSON(b []byte) error {
	m := make(map[string]any)
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	n, err := StructureFromMap(m)
	if err != nil {
		return err
	}
	*s = *n
	return nil
}

func stringList(v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []any:
		ret := make([]string, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is a %T: %w", i, e, ErrMapping)
			}
			ret[i] = s
		}
		return ret, nil
	}
	return nil, fmt.Errorf("got %T: %w", v, ErrMapping)
}

func geometryFrom(v any) (*v3.Matrix, error) {
	var data []float64
	switch t := v.(type) {
	case *v3.Matrix:
		if t == nil {
			return nil, ErrMapping
		}
		return t, nil
	case [][]float64:
		for _, row := range t {
			if len(row) != 3 {
				return nil, fmt.Errorf("vector with %d elements: %w", len(row), ErrMapping)
			}
			data = append(data, row...)
		}
	case []float64:
		data = append(data, t...)
	case []any:
		for _, e := range t {
			switch r := e.(type) {
			case []any:
				if len(r) != 3 {
					return nil, fmt.Errorf("vector with %d elements: %w", len(r), ErrMapping)
				}
				for _, x := range r {
					f, err := toFloat(x)
					if err != nil {
						return nil, err
					}
					data = append(data, f)
				}
			case []float64:
				if len(r) != 3 {
					return nil, fmt.Errorf("vector with %d elements: %w", len(r), ErrMapping)
				}
				data = append(data, r...)
			default:
				f, err := toFloat(e)
				if err != nil {
					return nil, err
				}
				data = append(data, f)
			}
		}
	default:
		return nil, fmt.Errorf("got %T: %w", v, ErrMapping)
	}
	if len(data) == 0 || len(data)%3 != 0 {
		return nil, fmt.Errorf("%d values don't make 3-vectors: %w", len(data), ErrMapping)
	}
	return v3.NewMatrix(data)
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	}
	return 0, fmt.Errorf("%v is a %T, not a number: %w", v, v, ErrMapping)
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case int32:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("%v is not an integer: %w", t, ErrMapping)
		}
		return int(t), nil
	case json.Number:
		i, err := t.Int64()
		return int(i), err
	}
	return 0, fmt.Errorf("%v is a %T, not an integer: %w", v, v, ErrMapping)
}

// copyMap returns a deep copy of m, descending into nested maps and slices.
func copyMap(m map[string]any) map[string]any {
	ret := make(map[string]any, len(m))
	for k, v := range m {
		ret[k] = copyValue(v)
	}
	return ret
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		ret := make([]any, len(t))
		for i, e := range t {
			ret[i] = copyValue(e)
		}
		return ret
	case []float64:
		return append([]float64(nil), t...)
	case []string:
		return append([]string(nil), t...)
	case []int:
		return append([]int(nil), t...)
	}
	return v
}
