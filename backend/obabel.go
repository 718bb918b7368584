/*
 * obabel.go, part of qcutils.
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

// In order to use this backend you need the obrms program, part of Open Babel
// (https://openbabel.org), which must be obtained independently.

package backend

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	chem "github.com/coltonbh/qcutils"
	"github.com/coltonbh/qcutils/internal/mute"
)

func init() {
	Register(OBabel{})
}

// OBabel is a backend that runs Open Babel's obrms program, which finds the
// best atom mapping taking the molecular symmetry into account. The options
// Extra["command"] and Extra["workdir"] override the executable and the
// directory for temporary files.
type OBabel struct{}

func (OBabel) Name() string { return "obabel" }

func (OBabel) RMSD(s1, s2 *chem.Structure, o *Options) (float64, error) {
	errid := "OBabel/RMSD"
	o = orDefault(o)
	if err := checkPair(errid, s1, s2); err != nil {
		return 0, err
	}
	f, err := o.Unit.FromBohr()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	h := NewOBRMSHandle()
	if c := o.Extra["command"]; c != "" {
		h.SetCommand(c)
	}
	if w := o.Extra["workdir"]; w != "" {
		h.SetWorkDir(w)
	}
	h.SetMinimize(o.Align)
	rmsd, err := h.Run(s1, s2)
	if err != nil {
		return 0, err
	}
	o.Logger.Debug().Str("command", h.Command()).Float64("rmsd_angstrom", rmsd).Msg("obrms")
	return rmsd * chem.A2Bohr * f, nil
}

// Align is not supported, as obrms doesn't report the transformed coordinates.
func (OBabel) Align(_, _ *chem.Structure, _ *Options) (*chem.Structure, error) {
	return nil, fmt.Errorf("OBabel/Align: %w", ErrUnsupported)
}

// OBRMSHandle represents an obrms run.
type OBRMSHandle struct {
	command  string
	wrkdir   string
	minimize bool
}

// NewOBRMSHandle returns a handle with its values set to their defaults.
func NewOBRMSHandle() *OBRMSHandle {
	h := new(OBRMSHandle)
	h.SetDefaults()
	return h
}

// SetDefaults sets the handle parameters to their defaults.
func (O *OBRMSHandle) SetDefaults() {
	O.command = "obrms"
	O.wrkdir = ""
	O.minimize = true
}

// Command returns the path and name for the obrms executable.
func (O *OBRMSHandle) Command() string {
	return O.command
}

// SetCommand sets the path and name for the obrms executable.
func (O *OBRMSHandle) SetCommand(name string) {
	O.command = name
}

// SetWorkDir sets the directory where the temporary input files are created.
// The empty string means the system default.
func (O *OBRMSHandle) SetWorkDir(d string) {
	O.wrkdir = d
}

// SetMinimize sets whether obrms should superimpose the structures before
// measuring the RMSD.
func (O *OBRMSHandle) SetMinimize(m bool) {
	O.minimize = m
}

// Run writes both structures to temporary XYZ files, runs obrms on them
// with the process standard error muted, and returns the RMSD in Angstrom.
func (O *OBRMSHandle) Run(test, ref *chem.Structure) (float64, error) {
	errid := "OBRMSHandle/Run"
	dir, err := os.MkdirTemp(O.wrkdir, "qcutils-obrms-")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	defer os.RemoveAll(dir)
	reffile := filepath.Join(dir, "ref.xyz")
	testfile := filepath.Join(dir, "test.xyz")
	if err := writeXYZ(reffile, ref); err != nil {
		return 0, fmt.Errorf("%s: couldn't write xyz file: %w", errid, err)
	}
	if err := writeXYZ(testfile, test); err != nil {
		return 0, fmt.Errorf("%s: couldn't write xyz file: %w", errid, err)
	}
	args := []string{}
	if O.minimize {
		args = append(args, "-m")
	}
	args = append(args, reffile, testfile)
	var out bytes.Buffer
	err = mute.Stderr(func() error {
		command := exec.Command(O.command, args...)
		command.Dir = dir
		command.Stdout = &out
		command.Stderr = os.Stderr
		return command.Run()
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %v: %w", errid, O.command, err, ErrExternal)
	}
	return parseOBRMS(&out)
}

// parseOBRMS returns the value of the first line of obrms output that starts
// with "RMSD". The value is the last field of that line.
func parseOBRMS(out *bytes.Buffer) (float64, error) {
	errid := "parseOBRMS"
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "RMSD") {
			continue
		}
		fields := strings.Fields(line)
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q: %v: %w", errid, line, err, ErrExternal)
		}
		return v, nil
	}
	return 0, fmt.Errorf("%s: no RMSD in output: %w", errid, ErrExternal)
}

// writeXYZ writes s to an XYZ file in Angstrom.
func writeXYZ(name string, s *chem.Structure) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", s.Len())
	fmt.Fprintf(&b, "charge %d multiplicity %d\n", s.Charge(), s.Multi())
	g := s.Geometry()
	for i := 0; i < s.Len(); i++ {
		fmt.Fprintf(&b, "%-2s %15.8f %15.8f %15.8f\n", s.Symbol(i),
			g.At(i, 0)*chem.Bohr2A, g.At(i, 1)*chem.Bohr2A, g.At(i, 2)*chem.Bohr2A)
	}
	return os.WriteFile(name, []byte(b.String()), 0o644)
}
