/*
 * json.go, part of qcutils.
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
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// An easily JSON-serializable error type.
type Error struct {
	IsError       bool // If this is false (no error) all the other fields will be at their zero-values.
	InInput       bool // If error, was it in reading the structures?
	InProcess     bool
	InPostProcess bool   // was it in preparing the output?
	Function      string // which go function gave the error
	Message       string // the error itself
	err           error
}

// Error implements the error interface
func (J *Error) Error() string {
	return J.Message
}

// Unwrap returns the original error, if any.
func (J *Error) Unwrap() error {
	return J.err
}

// Marshal serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - "))
	}
	return ret
}

// NewError takes an error and some additional info to create a json-marshal-able error.
// where can be "input", "postprocess" or anything else (meaning "process").
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "input":
		jerr.InInput = true
	case "postprocess":
		jerr.InPostProcess = true
	default:
		jerr.InProcess = true
	}
	jerr.Function = function
	jerr.Message = err.Error()
	jerr.err = err
	return jerr
}

// Info is the information passed back to the calling program.
type Info struct {
	Structures int
	Backend    string      `json:",omitempty"`
	Unit       string      `json:",omitempty"`
	Threshold  float64     `json:",omitempty"`
	RMSD       []float64   `json:",omitempty"` // one value per compared pair
	Indices    []int       `json:",omitempty"` // retained structures
	Clusters   [][]int     `json:",omitempty"` // first element is the retained structure
	Matrix     [][]float64 `json:",omitempty"`
}

// Send Marshals the info and writes to out, returns an error or nil
func (J *Info) Send(out io.Writer) *Error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(J); err != nil {
		return NewError("postprocess", "Info.Send", err)
	}
	return nil
}

// AsError returns err as an *Error, wrapping it if needed. It returns nil for a nil err.
func AsError(where, function string, err error) *Error {
	if err == nil {
		return nil
	}
	var jerr *Error
	if errors.As(err, &jerr) {
		return jerr
	}
	return NewError(where, function, err)
}
