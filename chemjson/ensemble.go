/*
 * ensemble.go, part of qcutils.
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
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	chem "github.com/coltonbh/qcutils"
	"github.com/klauspost/compress/zstd"
)

// Encode writes each structure as one line of JSON to out.
func Encode(structs []*chem.Structure, out io.Writer) *Error {
	const funcname = "Encode"
	enc := json.NewEncoder(out)
	for i, s := range structs {
		if err := enc.Encode(s); err != nil {
			return NewError("postprocess", funcname, fmt.Errorf("structure %d: %w", i, err))
		}
	}
	return nil
}

// Decode reads structures from in, given either as a stream of JSON objects or
// as a single JSON array of objects.
func Decode(in io.Reader) ([]*chem.Structure, *Error) {
	const funcname = "Decode"
	stream := bufio.NewReader(in)
	first, err := peekNonSpace(stream)
	if err == io.EOF {
		return []*chem.Structure{}, nil
	}
	if err != nil {
		return nil, NewError("input", funcname, err)
	}
	dec := json.NewDecoder(stream)
	ret := make([]*chem.Structure, 0, 16)
	if first == '[' {
		if err := dec.Decode(&ret); err != nil {
			return nil, NewError("input", funcname, err)
		}
		for i, s := range ret {
			if s == nil {
				return nil, NewError("input", funcname, fmt.Errorf("structure %d is null", i))
			}
		}
		return ret, nil
	}
	for i := 0; ; i++ {
		s := new(chem.Structure)
		err := dec.Decode(s)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewError("input", funcname, fmt.Errorf("structure %d: %w", i, err))
		}
		ret = append(ret, s)
	}
	return ret, nil
}

func peekNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b, r.UnreadByte()
	}
}

// zstdReadCloser makes a *zstd.Decoder an io.ReadCloser.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func newReader(name string, f io.Reader) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".zst"):
		r, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{r}, nil
	case strings.HasSuffix(strings.ToLower(name), ".gz"):
		return gzip.NewReader(f)
	}
	return io.NopCloser(f), nil
}

func newWriter(name string, f io.Writer) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".zst"):
		return zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	case strings.HasSuffix(strings.ToLower(name), ".gz"):
		return gzip.NewWriterLevel(f, gzip.BestCompression)
	}
	return nopWriteCloser{f}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// ReadFile reads the structures in the file name. The name "-" means the standard input.
func ReadFile(name string) ([]*chem.Structure, *Error) {
	const funcname = "ReadFile"
	var f io.ReadCloser = os.Stdin
	if name != "-" {
		var err error
		if f, err = os.Open(name); err != nil {
			return nil, NewError("input", funcname, err)
		}
		defer f.Close()
	}
	r, err := newReader(name, f)
	if err != nil {
		return nil, NewError("input", funcname, fmt.Errorf("%s: %w", name, err))
	}
	defer r.Close()
	structs, jerr := Decode(r)
	if jerr != nil {
		jerr.Message = name + ": " + jerr.Message
		return nil, jerr
	}
	return structs, nil
}

// WriteFile writes structs to the file name, which is created or truncated.
// The name "-" means the standard output.
func WriteFile(name string, structs []*chem.Structure) (err *Error) {
	const funcname = "WriteFile"
	var f io.WriteCloser = nopWriteCloser{os.Stdout}
	if name != "-" {
		file, oerr := os.Create(name)
		if oerr != nil {
			return NewError("postprocess", funcname, oerr)
		}
		f = file
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = NewError("postprocess", funcname, cerr)
		}
	}()
	w, werr := newWriter(name, f)
	if werr != nil {
		return NewError("postprocess", funcname, werr)
	}
	if jerr := Encode(structs, w); jerr != nil {
		w.Close()
		return jerr
	}
	if cerr := w.Close(); cerr != nil {
		return NewError("postprocess", funcname, cerr)
	}
	return nil
}
