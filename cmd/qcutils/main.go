/*
 * main.go, part of qcutils.
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

// Command qcutils compares, superimposes and filters molecular structures
// stored as chemjson files.
//
// Usage:
//
//	qcutils [-config file] [-env file] <command> [flags] files...
//
// The commands are rmsd, align, rotate, filter and matrix. Run
// "qcutils <command> -h" for the flags of each command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"sort"
	"time"

	"github.com/coltonbh/qcutils/chemjson"
	"github.com/coltonbh/qcutils/internal/config"
	"github.com/coltonbh/qcutils/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// errUsage is returned when the command line can't be understood.
var errUsage = errors.New("usage error")

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(a *app, args []string) error
}

var commands = map[string]command{
	"rmsd":   {"RMSD between a reference and other structures", (*app).rmsd},
	"align":  {"superimpose structures on a reference", (*app).align},
	"rotate": {"rotate structures around a Cartesian axis", (*app).rotate},
	"filter": {"remove redundant conformers from an ensemble", (*app).filter},
	"matrix": {"all-pairs RMSD matrix of an ensemble", (*app).matrix},
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path.Base(os.Args[0]), err)
		}
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("qcutils", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgFile := fs.String("config", "", "YAML configuration file")
	envFile := fs.String("env", "", "file with QCUTILS_* environment variables (default .env, if present)")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: no command given", errUsage)
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fs.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, fs.Arg(0))
	}

	cfg, err := config.Load(*cfgFile, *envFile)
	if err != nil {
		return err
	}
	log, err := logging.NewLogger(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
		Output: stderr,
	})
	if err != nil {
		return err
	}
	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(cfg.Metrics.Addr, log)
		defer stop()
	}
	a := &app{cfg: cfg, log: log, stdout: stdout, stderr: stderr}
	return cmd.run(a, fs.Args()[1:])
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [-config file] [-env file] <command> [flags] files...\n\nCommands:\n", fs.Name())
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(out, "\nGlobal flags:")
	fs.PrintDefaults()
}

// serveMetrics exposes the Prometheus registry on addr until the returned
// function is called.
func serveMetrics(addr string, log zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// fail reports err as a chemjson error on stdout when JSON output was
// requested, and returns it.
func (a *app) fail(jsonOut bool, function string, err error) error {
	if err == nil {
		return nil
	}
	if jsonOut {
		fmt.Fprintln(a.stdout, string(chemjson.AsError("process", function, err).Marshal()))
	}
	return err
}
