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


// Package analysishelper provides helpers shared by the analyzers built on `go/analysis`.
package analysishelper

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/tools/go/analysis"
)

// Result is the result of a sub-analyzer: its value plus the error it ran into, if any. Errors
// travel in the result rather than being returned so that the top-level analyzer decides
// whether a failing sub-analyzer stops the run.
type Result[T any] struct {
	Res T
	Err error
}

// WrapRun adapts f to the Run signature of an analyzer whose ResultType is *Result[T]. Errors of
// f are prefixed with the analyzer name, and a panic is recovered into an "INTERNAL PANIC" error
// carrying the stack, so that no sub-analyzer ever crashes the driver.
func WrapRun[T any](f func(*analysis.Pass) (T, error)) func(*analysis.Pass) (any, error) {
	return func(pass *analysis.Pass) (any, error) {
		result := &Result[T]{}
		name := ""
		if pass != nil && pass.Analyzer != nil {
			name = pass.Analyzer.Name
		}
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("INTERNAL PANIC from %q: %v\n%s", name, r, string(debug.Stack()))
			}
		}()

		res, err := f(pass)
		if err != nil {
			err = fmt.Errorf("%s: %w", name, err)
		}
		result.Res, result.Err = res, err
		return result, nil
	}
}

// ResultOf returns the value computed by a required analyzer wrapped with WrapRun.
func ResultOf[T any](pass *analysis.Pass, a *analysis.Analyzer) (T, error) {
	r, ok := pass.ResultOf[a].(*Result[T])
	if !ok {
		var zero T
		return zero, fmt.Errorf("analyzer %q did not produce a %T", a.Name, r)
	}
	return r.Res, r.Err
}
