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


// Package nullflow implements the top-level analyzer: it lowers the functions of a package into
// the null-flow IR, runs the engine on them and reports the diagnostics.
package nullflow

import (
	"go/ast"
	"slices"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/nullflow/config"
	"go.uber.org/nullflow/diagnostic"
	"go.uber.org/nullflow/engine"
	"go.uber.org/nullflow/gohost"
	"go.uber.org/nullflow/noreturn"
	"go.uber.org/nullflow/util/analysishelper"
	"golang.org/x/tools/go/analysis"
)

const _doc = "Run nullflow on this package to report nil dereferences, redundant or impossible nil" +
	" checks and code that nil checks make unreachable, from a flow-sensitive analysis of each function"

// Analyzer is the top-level instance of Analyzer - it lowers the package, runs the analysis and
// reports. It is needed here for nogo to recognize the package.
var Analyzer = &analysis.Analyzer{
	Name:     "nullflow",
	Doc:      _doc,
	Run:      run,
	Requires: []*analysis.Analyzer{config.Analyzer, noreturn.Analyzer, diagnostic.NoLintAnalyzer},
}

func run(p *analysis.Pass) (any, error) {
	pass := analysishelper.NewEnhancedPass(p)
	conf := pass.ResultOf[config.Analyzer].(*config.Config)
	if !conf.IsPkgInScope(pass.Pkg) {
		return nil, nil
	}
	noret, err := analysishelper.ResultOf[*noreturn.Set](p, noreturn.Analyzer)
	if err != nil {
		return nil, err
	}
	nolint, err := analysishelper.ResultOf[[]diagnostic.LineRange](p, diagnostic.NoLintAnalyzer)
	if err != nil {
		return nil, err
	}

	log := conf.Logger()
	files := slices.DeleteFunc(slices.Clone(pass.Files), func(f *ast.File) bool { return !conf.IsFileInScope(f) })
	unit, skipped := gohost.New(pass, noret, log).Package(files)
	for _, err := range skipped {
		log.Infof("%v", err)
	}

	diags, err := engine.New(conf, log).AnalyzeUnit(unit)
	if err != nil {
		return nil, err
	}
	for _, d := range diagnostic.FilterNoLint(pass.Fset, diags, nolint) {
		pass.Report(analysis.Diagnostic{
			Pos:      d.Range.Start,
			End:      d.Range.End,
			Category: d.Kind.String(),
			Message:  message(d, conf.PrettyPrint),
		})
	}
	return nil, nil
}

// _nilWording rewrites the messages of the engine in Go terms.
var _nilWording = strings.NewReplacer("null", "nil", "Null", "Nil")

func message(d diagnostic.Diagnostic, pretty bool) string {
	msg := _nilWording.Replace(d.Message)
	if !pretty {
		return msg
	}
	sev := color.New(color.FgYellow)
	if d.Severity == diagnostic.Error {
		sev = color.New(color.FgRed, color.Bold)
	}
	kind := color.New(color.FgCyan)
	// Drivers decide whether their output is a terminal; pretty printing was asked for.
	sev.EnableColor()
	kind.EnableColor()
	return sev.Sprintf("%s: ", d.Severity) + msg + kind.Sprintf(" [%s]", d.Kind)
}
