/*
 * commands.go, part of qcutils.
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

package main

import (
	"flag"
	"fmt"
	"strings"

	chem "github.com/coltonbh/qcutils"
	"github.com/coltonbh/qcutils/align"
	"github.com/coltonbh/qcutils/backend"
	"github.com/coltonbh/qcutils/chemjson"
	"github.com/coltonbh/qcutils/chemplot"
	"github.com/coltonbh/qcutils/conformers"
	"github.com/coltonbh/qcutils/histo"
)

func (a *app) flagSet(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: qcutils %s [flags] %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

func (a *app) backendOptions(unit string, align bool) (*backend.Options, error) {
	u, err := chem.ParseUnit(unit)
	if err != nil {
		return nil, err
	}
	o := backend.DefaultOptions()
	o.Align = align
	o.Unit = u
	o.Extra = a.cfg.BackendExtra()
	o.Logger = a.log
	return o, nil
}

func (a *app) filterOptions(name, unit string, cpus int) (*conformers.Options, error) {
	ro, err := a.backendOptions(unit, true)
	if err != nil {
		return nil, err
	}
	o := conformers.DefaultOptions()
	o.Backend(name)
	o.Cpus(cpus)
	o.RMSDOptions(ro)
	o.Logger(a.log)
	return o, nil
}

// readAll concatenates the structures in the given chemjson files.
func readAll(files []string) ([]*chem.Structure, error) {
	var all []*chem.Structure
	for _, name := range files {
		structs, jerr := chemjson.ReadFile(name)
		if jerr != nil {
			return nil, jerr
		}
		all = append(all, structs...)
	}
	return all, nil
}

// referenceAndTargets reads the files and splits the result into the first
// structure and all the others.
func referenceAndTargets(files []string) (*chem.Structure, []*chem.Structure, error) {
	all, err := readAll(files)
	if err != nil {
		return nil, nil, err
	}
	if len(all) < 2 {
		return nil, nil, fmt.Errorf("%w: need a reference and at least one other structure, got %d", errUsage, len(all))
	}
	return all[0], all[1:], nil
}

// writeOut writes structs to the chemjson file name, or to the command's
// standard output if name is "-".
func (a *app) writeOut(name string, structs []*chem.Structure) error {
	if name == "-" {
		if jerr := chemjson.Encode(structs, a.stdout); jerr != nil {
			return jerr
		}
		return nil
	}
	if jerr := chemjson.WriteFile(name, structs); jerr != nil {
		return jerr
	}
	return nil
}

func (a *app) rmsd(args []string) error {
	fs := a.flagSet("rmsd", "reference.json [files.json...]")
	name := fs.String("backend", a.cfg.Backend, "RMSD backend")
	unit := fs.String("unit", a.cfg.Unit, "length unit of the output (bohr or angstrom)")
	noalign := fs.Bool("noalign", false, "measure the RMSD without superimposing the structures")
	jsonOut := fs.Bool("json", false, "print a chemjson Info object")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: no input files", errUsage)
	}
	o, err := a.backendOptions(*unit, !*noalign)
	if err != nil {
		return err
	}
	ref, targets, err := referenceAndTargets(fs.Args())
	if err != nil {
		return a.fail(*jsonOut, "rmsd", err)
	}
	vals := make([]float64, len(targets))
	for i, t := range targets {
		vals[i], err = backend.RMSD(ref, t, *name, o)
		if err != nil {
			return a.fail(*jsonOut, "rmsd", fmt.Errorf("structure %d: %w", i+1, err))
		}
	}
	if *jsonOut {
		info := &chemjson.Info{Structures: len(targets) + 1, Backend: *name, Unit: o.Unit.String(), RMSD: vals}
		if jerr := info.Send(a.stdout); jerr != nil {
			return jerr
		}
		return nil
	}
	for i, v := range vals {
		fmt.Fprintf(a.stdout, "%d %.6f\n", i+1, v)
	}
	return nil
}

func (a *app) align(args []string) error {
	fs := a.flagSet("align", "reference.json [files.json...]")
	name := fs.String("backend", a.cfg.Backend, "alignment backend")
	out := fs.String("o", "-", "output chemjson file (.gz and .zst are compressed)")
	lovo := fs.Bool("lovo", false, "superimpose only on the atoms that fit the reference best (LOVO); -backend is ignored")
	rigid := fs.Int("rigid", 0, "with -lovo, fit exactly this many atoms")
	lessThan := fs.Float64("lessthan", 0.5, "with -lovo and no -rigid, fit the atoms deviating less than this, in Bohr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: no input files", errUsage)
	}
	o, err := a.backendOptions(a.cfg.Unit, true)
	if err != nil {
		return err
	}
	lo := align.DefaultOptions()
	lo.NMostRigid(*rigid)
	lo.LessThanRMSD(*lessThan)
	lo.Logger(a.log)
	ref, targets, err := referenceAndTargets(fs.Args())
	if err != nil {
		return err
	}
	aligned := make([]*chem.Structure, len(targets))
	for i, t := range targets {
		if *lovo {
			r, err := align.LOVO(t, ref, lo)
			if err != nil {
				return fmt.Errorf("structure %d: %w", i+1, err)
			}
			a.log.Info().Int("structure", i+1).Ints("fitted", r.Indexes).Float64("rmsd", r.RMSD).Bool("converged", r.Converged).Msg("LOVO alignment")
			aligned[i] = r.Aligned
			continue
		}
		aligned[i], err = backend.Align(t, ref, *name, o)
		if err != nil {
			return fmt.Errorf("structure %d: %w", i+1, err)
		}
	}
	return a.writeOut(*out, aligned)
}

func (a *app) rotate(args []string) error {
	fs := a.flagSet("rotate", "files.json...")
	axis := fs.String("axis", "z", "rotation axis (x, y or z)")
	deg := fs.Float64("deg", 0, "rotation angle in degrees")
	out := fs.String("o", "-", "output chemjson file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: no input files", errUsage)
	}
	structs, err := readAll(fs.Args())
	if err != nil {
		return err
	}
	rotated := make([]*chem.Structure, len(structs))
	for i, s := range structs {
		rotated[i], err = chem.Rotate(s, *axis, *deg)
		if err != nil {
			return err
		}
	}
	a.log.Debug().Str("axis", strings.ToLower(*axis)).Float64("deg", *deg).Int("structures", len(rotated)).Msg("rotated")
	return a.writeOut(*out, rotated)
}

func (a *app) filter(args []string) error {
	fs := a.flagSet("filter", "ensemble.json...")
	name := fs.String("backend", a.cfg.Backend, "RMSD backend")
	threshold := fs.Float64("threshold", a.cfg.Threshold, "RMSD below which two conformers are redundant, in -unit")
	unit := fs.String("unit", a.cfg.Unit, "length unit of the threshold")
	cpus := fs.Int("cpus", a.cfg.CPUs, "goroutines to use (0 means all CPUs)")
	out := fs.String("o", "-", "output chemjson file for the retained conformers")
	jsonOut := fs.Bool("json", false, "print the retained indices and the clusters as a chemjson Info object instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: no input files", errUsage)
	}
	o, err := a.filterOptions(*name, *unit, *cpus)
	if err != nil {
		return err
	}
	confs, err := readAll(fs.Args())
	if err != nil {
		return a.fail(*jsonOut, "filter", err)
	}
	clusters, err := conformers.Clusters(confs, *threshold, o)
	if err != nil {
		return a.fail(*jsonOut, "filter", err)
	}
	if *jsonOut {
		info := &chemjson.Info{
			Structures: len(confs),
			Backend:    o.Backend(),
			Unit:       o.RMSDOptions().Unit.String(),
			Threshold:  *threshold,
			Indices:    make([]int, len(clusters)),
			Clusters:   make([][]int, len(clusters)),
		}
		for i, c := range clusters {
			info.Indices[i] = c.Index
			info.Clusters[i] = append([]int{c.Index}, c.Members...)
		}
		if jerr := info.Send(a.stdout); jerr != nil {
			return jerr
		}
		return nil
	}
	kept := make([]*chem.Structure, len(clusters))
	for i, c := range clusters {
		kept[i] = confs[c.Index]
	}
	return a.writeOut(*out, kept)
}

func (a *app) matrix(args []string) error {
	fs := a.flagSet("matrix", "ensemble.json...")
	name := fs.String("backend", a.cfg.Backend, "RMSD backend")
	unit := fs.String("unit", a.cfg.Unit, "length unit of the output")
	cpus := fs.Int("cpus", a.cfg.CPUs, "goroutines to use (0 means all CPUs)")
	heat := fs.String("plot", "", "write a heat map of the matrix to this PNG file")
	hist := fs.String("hist", "", "write a histogram of the off-diagonal RMSDs to this PNG file")
	bins := fs.Int("bins", 20, "number of histogram bins")
	dist := fs.Bool("dist", false, "print the binned distribution of the off-diagonal RMSDs")
	threshold := fs.Float64("threshold", a.cfg.Threshold, "filter threshold marked on the histogram")
	jsonOut := fs.Bool("json", false, "print a chemjson Info object")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: no input files", errUsage)
	}
	o, err := a.filterOptions(*name, *unit, *cpus)
	if err != nil {
		return err
	}
	confs, err := readAll(fs.Args())
	if err != nil {
		return a.fail(*jsonOut, "matrix", err)
	}
	m, err := conformers.Matrix(confs, o)
	if err != nil {
		return a.fail(*jsonOut, "matrix", err)
	}
	u := o.RMSDOptions().Unit.String()
	vals := offDiagonal(m)
	if *heat != "" {
		if err := chemplot.HeatMap(m, "RMSD matrix", u, *heat); err != nil {
			return err
		}
	}
	if *hist != "" && len(vals) > 0 {
		if err := chemplot.Histogram(vals, *bins, *threshold, "Pairwise RMSD", u, *hist); err != nil {
			return err
		}
	}
	if *jsonOut {
		info := &chemjson.Info{Structures: len(confs), Backend: o.Backend(), Unit: u, Matrix: denseRows(m)}
		if jerr := info.Send(a.stdout); jerr != nil {
			return jerr
		}
		return nil
	}
	for _, row := range denseRows(m) {
		for j, v := range row {
			if j > 0 {
				fmt.Fprint(a.stdout, " ")
			}
			fmt.Fprintf(a.stdout, "%.6f", v)
		}
		fmt.Fprintln(a.stdout)
	}
	s, ok := summarize(vals)
	if !ok {
		return nil
	}
	fmt.Fprintf(a.stdout, "# pairs %d mean %.6f stddev %.6f min %.6f max %.6f %s\n",
		s.N, s.Mean, s.StdDev, s.Min, s.Max, u)
	if *dist {
		h := histo.NewData(histo.Span(s.Min, s.Max, *bins), vals)
		for _, line := range strings.Split(h.String(), "\n") {
			fmt.Fprintf(a.stdout, "# %s\n", line)
		}
	}
	return nil
}
