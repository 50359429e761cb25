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


// Package noreturn finds the Go functions that never return to their caller: they always exit
// the process, panic, block forever or call another such function. The set of each package is
// exported as a fact so that calls into it end the flow in dependent packages too.
package noreturn

import (
	"go/ast"
	"go/types"
	"reflect"
	"regexp"
	"slices"

	"go.uber.org/nullflow/util/analysishelper"
	"go.uber.org/nullflow/util/orderedmap"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const _doc = "Find functions that never return and export them as package facts"

// Analyzer computes the Set of never-returning functions visible from a package.
var Analyzer = &analysis.Analyzer{
	Name:       "nullflow_noreturn",
	Doc:        _doc,
	Run:        analysishelper.WrapRun(run),
	Requires:   []*analysis.Analyzer{inspect.Analyzer},
	FactTypes:  []analysis.Fact{new(Fact)},
	ResultType: reflect.TypeOf((*analysishelper.Result[*Set])(nil)),
}

// _knownFuncs match the full names of functions outside the analyzed code that are known not to
// return. Interface methods like testing.TB.Fatal have no body to infer it from, and the zap
// loggers only terminate through a hook that is configured at run time.
var _knownFuncs = []*regexp.Regexp{
	regexp.MustCompile(`^os\.Exit$`),
	regexp.MustCompile(`^runtime\.Goexit$`),
	regexp.MustCompile(`^log\.(Fatal|Panic)(f|ln)?$`),
	regexp.MustCompile(`^\(\*log\.Logger\)\.(Fatal|Panic)(f|ln)?$`),
	regexp.MustCompile(`^\(\*testing\.common\)\.(FailNow|Fatal|Fatalf|SkipNow|Skip|Skipf)$`),
	regexp.MustCompile(`^\(testing\.TB\)\.(FailNow|Fatal|Fatalf|SkipNow|Skip|Skipf)$`),
	regexp.MustCompile(`^\(\*(stubs/)?go\.uber\.org/zap\.Logger\)\.Fatal$`),
	regexp.MustCompile(`^\(\*(stubs/)?go\.uber\.org/zap\.SugaredLogger\)\.Fatal(f|ln|w)?$`),
}

// Set answers whether a call never returns.
type Set struct {
	funcs map[string]string
}

// Contains reports whether fn never returns.
func (s *Set) Contains(fn *types.Func) bool {
	if fn == nil {
		return false
	}
	name := fn.Origin().FullName()
	if _, ok := s.funcs[name]; ok {
		return true
	}
	return matchesKnown(name)
}

func matchesKnown(name string) bool {
	return slices.ContainsFunc(_knownFuncs, func(r *regexp.Regexp) bool { return r.MatchString(name) })
}

// NeverReturns reports whether call never returns: it calls panic or a function of the set.
func (s *Set) NeverReturns(pass *analysishelper.EnhancedPass, call *ast.CallExpr) bool {
	return pass.IsBuiltin(call, "panic") || s.Contains(pass.Callee(call))
}

// Names returns the names of the functions inferred so far, for debugging.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.funcs))
	for n := range s.funcs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func run(p *analysis.Pass) (*Set, error) {
	pass := analysishelper.NewEnhancedPass(p)
	set := &Set{funcs: make(map[string]string)}
	for _, pf := range pass.AllPackageFacts() {
		if f, ok := pf.Fact.(*Fact); ok {
			f.funcs.OrderedRange(func(name, via string) bool {
				set.funcs[name] = via
				return true
			})
		}
	}

	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, errInspector
	}
	var decls []*ast.FuncDecl
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		if fd := n.(*ast.FuncDecl); fd.Body != nil {
			decls = append(decls, fd)
		}
	})

	// A function may only be found not to return once its callees are, so iterate until no
	// new function is found. Each round adds at least one function or stops.
	local := orderedmap.New[string, string]()
	for changed := true; changed; {
		changed = false
		for _, fd := range decls {
			fn, ok := pass.TypesInfo.Defs[fd.Name].(*types.Func)
			if !ok {
				continue
			}
			name := fn.FullName()
			if _, done := set.funcs[name]; done {
				continue
			}
			if via, ok := neverReturns(pass, set, fd.Body); ok {
				set.funcs[name] = via
				local.Store(name, via)
				changed = true
			}
		}
	}

	if local.Len() > 0 {
		pass.ExportPackageFact(&Fact{funcs: local})
	}
	return set, nil
}
