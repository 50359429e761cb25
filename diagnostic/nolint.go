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

package diagnostic

import (
	"go/ast"
	"go/token"
	"reflect"
	"slices"
	"strings"

	"go.uber.org/nullflow/util/analysishelper"
	"go.uber.org/nullflow/util/tokenhelper"
	"golang.org/x/tools/go/analysis"
)

// NoLintAnalyzer reads the "//nolint:nullflow" comments of a package. In the Go host they play
// the role of @SuppressWarnings("all"): every diagnostic inside the commented node is dropped.
// The ranges are also exported as package facts so that drivers analyzing several packages see
// a consistent set of scopes.
var NoLintAnalyzer = &analysis.Analyzer{
	Name:       "nullflow_nolint",
	Doc:        "Read nullflow's nolint comments and export them as facts.",
	Run:        analysishelper.WrapRun(runNoLint),
	FactTypes:  []analysis.Fact{new(NoLint)},
	ResultType: reflect.TypeOf((*analysishelper.Result[[]LineRange])(nil)),
}

// NoLint is the package fact holding the nolint scopes of a package.
type NoLint struct {
	Ranges []LineRange
}

// AFact makes NoLint satisfy the analysis.Fact interface.
func (*NoLint) AFact() {}

// LineRange is the file and line span of a nolint scope.
type LineRange struct {
	Filename string
	From, To int
}

// Contains reports whether the position falls inside the scope.
func (r LineRange) Contains(p token.Position) bool {
	return tokenhelper.RelToCwd(p.Filename) == r.Filename && r.From <= p.Line && p.Line <= r.To
}

func runNoLint(pass *analysis.Pass) ([]LineRange, error) {
	var ranges []LineRange
	for _, f := range pass.Files {
		// The comment map attaches a trailing comment to the largest enclosing node, so a comment
		// after a multi-line statement covers the whole statement.
		commentMap := ast.NewCommentMap(pass.Fset, f, f.Comments)
		for node, groups := range commentMap {
			for _, group := range groups {
				if !slices.ContainsFunc(group.List, func(c *ast.Comment) bool { return nolintMentions(c.Text) }) {
					continue
				}
				from, to := pass.Fset.Position(node.Pos()), pass.Fset.Position(node.End())
				ranges = append(ranges, LineRange{Filename: tokenhelper.RelToCwd(from.Filename), From: from.Line, To: to.Line})
			}
		}
	}

	var upstream []LineRange
	for _, f := range pass.AllPackageFacts() {
		if n, ok := f.Fact.(*NoLint); ok {
			upstream = append(upstream, n.Ranges...)
		}
	}

	pass.ExportPackageFact(&NoLint{Ranges: ranges})
	return append(append([]LineRange(nil), ranges...), upstream...), nil
}

// FilterNoLint drops the diagnostics located inside any of the nolint scopes.
func FilterNoLint(fset *token.FileSet, diags []Diagnostic, ranges []LineRange) []Diagnostic {
	if len(ranges) == 0 {
		return diags
	}
	return slices.DeleteFunc(diags, func(d Diagnostic) bool {
		p := fset.Position(d.Range.Start)
		return slices.ContainsFunc(ranges, func(r LineRange) bool { return r.Contains(p) })
	})
}

// nolintMentions reports whether a comment is a nolint directive covering nullflow: a bare
// "//nolint", or a linter list containing "nullflow" or "all". Follows the format understood by
// golangci-lint and rules_go.
func nolintMentions(text string) bool {
	text = strings.TrimLeft(text, "/ ")
	if !strings.HasPrefix(text, "nolint") {
		return false
	}

	// Drop the explanation.
	text, _, _ = strings.Cut(text, "//")
	text = strings.TrimSpace(text)

	_, linters, found := strings.Cut(text, ":")
	if !found {
		return true
	}
	for _, linter := range strings.Split(strings.TrimSpace(linters), ",") {
		linter = strings.TrimSpace(linter)
		if strings.EqualFold(linter, "all") || strings.EqualFold(linter, "nullflow") {
			return true
		}
	}
	return false
}
