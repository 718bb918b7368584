/*
 * chemjson_test.go, part of qcutils.
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

package chemjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/coltonbh/qcutils"
	v3 "github.com/coltonbh/qcutils/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ensemble(t *testing.T, n int) []*chem.Structure {
	ret := make([]*chem.Structure, n)
	for i := range ret {
		g, err := v3.NewMatrix([]float64{0, 0, float64(i) * 0.1, 0, 0, 1.4 + float64(i)*0.01})
		require.NoError(t, err)
		s, err := chem.NewStructure([]string{"H", "H"}, g, 0, 1, map[string]any{"conformer": float64(i), "program": "crest"})
		require.NoError(t, err)
		ret[i] = s
	}
	return ret
}

func assertSame(t *testing.T, want, got []*chem.Structure) {
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "structure %d differs", i)
	}
}

func TestEncodeDecode(t *testing.T) {
	structs := ensemble(t, 3)
	var buf bytes.Buffer
	require.Nil(t, Encode(structs, &buf))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
	got, jerr := Decode(&buf)
	require.Nil(t, jerr)
	assertSame(t, structs, got)
}

func TestDecodeArray(t *testing.T) {
	structs := ensemble(t, 2)
	b, err := json.Marshal(structs)
	require.NoError(t, err)
	got, jerr := Decode(bytes.NewReader(append([]byte("\n  "), b...)))
	require.Nil(t, jerr)
	assertSame(t, structs, got)
}

func TestDecodeEmptyAndBad(t *testing.T) {
	got, jerr := Decode(strings.NewReader("  \n"))
	require.Nil(t, jerr)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, jerr = Decode(strings.NewReader(`{"symbols": ["H"], "geometry": [[0, 0]]}`))
	require.NotNil(t, jerr)
	assert.True(t, jerr.InInput)
	assert.True(t, errors.Is(jerr, chem.ErrMapping))

	_, jerr = Decode(strings.NewReader(`[{"symbols": ["H"], "geometry": [[0, 0, 0]]}, null]`))
	require.NotNil(t, jerr)

	_, jerr = Decode(strings.NewReader(`{"symbols": ["H"], "geometry": [[0, 0, 0]]} {"symbols"`))
	require.NotNil(t, jerr)
}

func TestFiles(t *testing.T) {
	structs := ensemble(t, 4)
	dir := t.TempDir()
	for _, name := range []string{"ens.json", "ens.json.zst", "ens.json.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.Nil(t, WriteFile(path, structs))
			got, jerr := ReadFile(path)
			require.Nil(t, jerr)
			assertSame(t, structs, got)
		})
	}
	plain, err := os.ReadFile(filepath.Join(dir, "ens.json"))
	require.NoError(t, err)
	packed, err := os.ReadFile(filepath.Join(dir, "ens.json.zst"))
	require.NoError(t, err)
	assert.NotEqual(t, plain, packed)
	assert.True(t, bytes.HasPrefix(packed, []byte{0x28, 0xb5, 0x2f, 0xfd}), "not a zstd frame")

	_, jerr := ReadFile(filepath.Join(dir, "missing.json"))
	require.NotNil(t, jerr)
	assert.True(t, errors.Is(jerr, os.ErrNotExist))
}

func TestInfoAndErrors(t *testing.T) {
	var buf bytes.Buffer
	info := &Info{Structures: 3, Backend: "local", Indices: []int{0, 2}}
	require.Nil(t, info.Send(&buf))
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, 3.0, m["Structures"])
	assert.NotContains(t, m, "Matrix")

	base := errors.New("bad things")
	jerr := NewError("process", "Something", base)
	assert.True(t, jerr.InProcess)
	assert.True(t, errors.Is(jerr, base))
	var back Error
	require.NoError(t, json.Unmarshal(jerr.Marshal(), &back))
	assert.Equal(t, "bad things", back.Message)
	assert.Equal(t, "Something", back.Function)

	assert.Nil(t, AsError("input", "f", nil))
	assert.Same(t, jerr, AsError("input", "f", jerr))
	assert.True(t, AsError("input", "f", base).InInput)
}
