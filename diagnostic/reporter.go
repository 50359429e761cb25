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

// Package diagnostic turns flow conclusions at use sites into user-facing diagnostics: it owns
// the diagnostic kinds and their messages, applies per-kind severities and suppression scopes,
// deduplicates reports, and reads "//nolint:nullflow" comments for the Go host.
package diagnostic

import (
	"cmp"
	"go/token"
	"slices"
	"strings"

	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/util/orderedmap"
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Range    ir.Range
	// Name is the variable or field the diagnostic is about, if any.
	Name    string
	Message string
}

// Options configures a Reporter.
type Options struct {
	// Severities maps each kind to its severity; missing kinds use DefaultSeverities.
	Severities map[Kind]Severity
	// SuppressOptionalErrors lets suppression tokens silence error-severity diagnostics too.
	SuppressOptionalErrors bool
}

type key struct {
	kind Kind
	pos  token.Pos
	name string
}

// Reporter collects the diagnostics of one method. It is not safe for concurrent use; the engine
// creates one per method.
type Reporter struct {
	opts     Options
	suppress [][]string
	seen     *orderedmap.OrderedMap[key, Diagnostic]
}

// NewReporter returns a reporter with the given options and outermost suppression tokens (the
// @SuppressWarnings tokens of the enclosing unit and method).
func NewReporter(opts Options, suppress ...string) *Reporter {
	r := &Reporter{opts: opts, seen: orderedmap.New[key, Diagnostic]()}
	if len(suppress) > 0 {
		r.PushSuppress(suppress)
	}
	return r
}

// PushSuppress opens a nested suppression scope, e.g. a local declaration annotated with
// @SuppressWarnings.
func (r *Reporter) PushSuppress(tokens []string) {
	r.suppress = append(r.suppress, tokens)
}

// PopSuppress closes the innermost suppression scope.
func (r *Reporter) PopSuppress() {
	if len(r.suppress) > 0 {
		r.suppress = r.suppress[:len(r.suppress)-1]
	}
}

// Severity returns the configured severity of kind.
func (r *Reporter) Severity(kind Kind) Severity {
	if s, ok := r.opts.Severities[kind]; ok {
		return s
	}
	return DefaultSeverities()[kind]
}

func (r *Reporter) suppressed(kind Kind, sev Severity) bool {
	if kind == UninitializedLocal {
		return false
	}
	if sev == Error && !r.opts.SuppressOptionalErrors {
		return false
	}
	for _, scope := range r.suppress {
		for _, tok := range scope {
			switch strings.ToLower(strings.TrimSpace(tok)) {
			case "all":
				return true
			case "null":
				if kind.IsNullFamily() {
					return true
				}
			case "unused":
				if kind == DeadCode {
					return true
				}
			}
		}
	}
	return false
}

// Report records a diagnostic of the given kind at rng. Ignored, suppressed and duplicate
// reports are dropped.
func (r *Reporter) Report(kind Kind, rng ir.Range, s Subject) {
	sev := r.Severity(kind)
	if sev == Ignore || r.suppressed(kind, sev) {
		return
	}
	k := key{kind: kind, pos: rng.Start, name: s.Name}
	if _, ok := r.seen.Load(k); ok {
		return
	}
	r.seen.Store(k, Diagnostic{
		Kind:     kind,
		Severity: sev,
		Range:    rng,
		Name:     s.Name,
		Message:  Message(kind, s),
	})
}

// Diagnostics returns the recorded diagnostics in source order.
func (r *Reporter) Diagnostics() []Diagnostic {
	diags := r.seen.Values()
	Sort(diags)
	return diags
}

// Sort orders diagnostics by position, then kind.
func Sort(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Range.Start, b.Range.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Kind, b.Kind)
	})
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	return slices.ContainsFunc(diags, func(d Diagnostic) bool { return d.Severity == Error })
}
