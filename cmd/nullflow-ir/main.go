//  Copyright (c) 2026 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// main package builds nullflow-ir, which runs the null-flow engine on IR units written in YAML
// or JSON (see package irfile) by front-ends for other languages:
//
//	nullflow-ir [-config nullflow.yaml] [-format text|json|sarif] unit.yaml...
//
// With no file arguments, or "-", the unit is read from standard input. The exit code is 1 when
// an error-severity diagnostic is reported and 2 when the input cannot be read or decoded.
package main

import (
	"errors"
	"flag"
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"go.uber.org/nullflow/config"
	"go.uber.org/nullflow/diagnostic"
	"go.uber.org/nullflow/engine"
	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/ir/irfile"
	"go.uber.org/nullflow/report"
	"golang.org/x/sync/errgroup"
)

const (
	_exitOK         = 0
	_exitDiagnostic = 1
	_exitFailure    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nullflow-ir", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "Path to a YAML configuration file")
	format := fs.String("format", report.FormatText, "Output format: "+strings.Join(report.Formats(), ", "))
	severities := fs.String("severities", "", "Comma-separated list of kind=severity pairs applied over the configuration")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return _exitOK
		}
		return _exitFailure
	}

	conf, err := loadConfig(*configFile, *severities)
	if err != nil {
		fmt.Fprintf(stderr, "nullflow-ir: %v\n", err)
		return _exitFailure
	}
	f, _ := stdout.(*os.File)
	w, err := report.NewWriter(*format, report.WithColor(report.Terminal(f)))
	if err != nil {
		fmt.Fprintf(stderr, "nullflow-ir: %v\n", err)
		return _exitFailure
	}

	fset := token.NewFileSet()
	units, err := decode(fset, fs.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "nullflow-ir: %v\n", err)
		return _exitFailure
	}
	diags, err := analyze(conf, units)
	if err != nil {
		fmt.Fprintf(stderr, "nullflow-ir: %v\n", err)
		return _exitFailure
	}

	if err := w.Write(stdout, fset, diags); err != nil {
		fmt.Fprintf(stderr, "nullflow-ir: %v\n", err)
		return _exitFailure
	}
	if diagnostic.HasErrors(diags) {
		return _exitDiagnostic
	}
	return _exitOK
}

func loadConfig(filename, severities string) (*config.Config, error) {
	conf := config.Default()
	if filename != "" {
		var err error
		if conf, err = config.Load(filename); err != nil {
			return nil, err
		}
	}
	if err := conf.SetSeverities(severities); err != nil {
		return nil, err
	}
	return conf, nil
}

// decode reads every file, or stdin when there are none, into units sharing fset.
func decode(fset *token.FileSet, files []string, stdin io.Reader) ([]*ir.Unit, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	units := make([]*ir.Unit, 0, len(files))
	for _, name := range files {
		var src []byte
		var err error
		if name == "-" {
			name = "<stdin>"
			src, err = io.ReadAll(stdin)
		} else {
			src, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		u, err := irfile.Parse(fset, name, src)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// analyze runs the engine on the units concurrently. Diagnostics keep the order of the units.
func analyze(conf *config.Config, units []*ir.Unit) ([]diagnostic.Diagnostic, error) {
	a := engine.New(conf, conf.Logger())
	results := make([][]diagnostic.Diagnostic, len(units))
	var g errgroup.Group
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			diags, err := a.AnalyzeUnit(u)
			results[i] = diags
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []diagnostic.Diagnostic
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}
