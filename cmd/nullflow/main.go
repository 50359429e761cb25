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


// main package builds nullflow as a standalone checker of Go packages:
//
//	nullflow [-flag value...] ./...
//
// The flags of the configuration analyzer are available at the top level.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/nullflow"
	"go.uber.org/nullflow/config"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/singlechecker"
)

// Analyzer wraps nullflow.Analyzer with a file filter on the reported diagnostics, since
// singlechecker reports on every loaded package, dependencies included.
var Analyzer = &analysis.Analyzer{
	Name:       nullflow.Analyzer.Name,
	Doc:        nullflow.Analyzer.Doc,
	Run:        run,
	FactTypes:  nullflow.Analyzer.FactTypes,
	ResultType: nullflow.Analyzer.ResultType,
	Requires:   nullflow.Analyzer.Requires,
}

var (
	_includeFiles string
	_excludeFiles string
)

// fileFilter keeps the diagnostics of files under one of the included prefixes and under none
// of the excluded ones.
type fileFilter struct {
	includes, excludes []string
}

func newFileFilter(includes, excludes string) (*fileFilter, error) {
	var f fileFilter
	var err error
	if f.includes, err = absPrefixes(includes); err != nil {
		return nil, fmt.Errorf("parse included file prefixes: %w", err)
	}
	if f.excludes, err = absPrefixes(excludes); err != nil {
		return nil, fmt.Errorf("parse excluded file prefixes: %w", err)
	}
	return &f, nil
}

func (f *fileFilter) keep(path string) bool {
	for _, e := range f.excludes {
		if strings.HasPrefix(path, e) {
			return false
		}
	}
	for _, i := range f.includes {
		if strings.HasPrefix(path, i) {
			return true
		}
	}
	return false
}

func run(pass *analysis.Pass) (any, error) {
	filter, err := newFileFilter(_includeFiles, _excludeFiles)
	if err != nil {
		return nil, err
	}

	report := pass.Report
	pass.Report = func(d analysis.Diagnostic) {
		if f := pass.Fset.File(d.Pos); f != nil && filter.keep(f.Name()) {
			report(d)
		}
	}
	return nullflow.Analyzer.Run(pass)
}

// absPrefixes splits a comma-separated list of paths and makes them absolute.
func absPrefixes(s string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("convert %q to absolute path: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

func main() {
	// Lift the configuration flags so that users write `nullflow -pretty-print=false ./...`
	// instead of `nullflow -nullflow_config.pretty-print=false ./...`.
	config.Analyzer.Flags.VisitAll(func(f *flag.Flag) { flag.Var(f.Value, f.Name, f.Usage) })

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get working directory: %v\n", err)
		os.Exit(1)
	}
	flag.StringVar(&_includeFiles, "include-errors-in-files", wd, "Comma-separated list of file prefixes to report diagnostics in")
	flag.StringVar(&_excludeFiles, "exclude-errors-in-files", "", "Comma-separated list of file prefixes not to report diagnostics in, taking precedence over include-errors-in-files")

	singlechecker.Main(Analyzer)
}
