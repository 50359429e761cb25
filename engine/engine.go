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

// Package engine implements the null-flow walk over resolved method bodies. It threads an
// immutable FlowInfo through statements and expressions in evaluation order, splits it at
// conditions, merges it at join points, stabilizes loops silently before a single reporting
// pass, and routes abrupt completions through the flow context so that catch and finally blocks
// see every state they can be entered with.
package engine

import (
	"errors"
	"fmt"
	"runtime/debug"

	"go.uber.org/nullflow/config"
	"go.uber.org/nullflow/diagnostic"
	"go.uber.org/nullflow/flowcontext"
	"go.uber.org/nullflow/flowinfo"
	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/lattice"
	"go.uber.org/nullflow/util/logging"
	"golang.org/x/sync/errgroup"
)

// Analyzer runs the null-flow analysis on methods and units. It holds no per-method state and
// is safe for concurrent use.
type Analyzer struct {
	conf *config.Config
	log  *logging.LogGroup
}

// New returns an analyzer using conf. A nil conf means config.Default() and a nil log discards
// all output.
func New(conf *config.Config, log *logging.LogGroup) *Analyzer {
	if conf == nil {
		conf = config.Default()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Analyzer{conf: conf, log: log}
}

// MalformedError is raised for trees the engine cannot walk: a nil node where one is required, a
// label that resolves to no enclosing statement, or a node type it does not know.
type MalformedError struct {
	Node ir.Node
	Msg  string
	Err  error
}

func (e *MalformedError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Node == nil {
		return "malformed tree: " + msg
	}
	return fmt.Sprintf("malformed tree at %T (pos %d): %s", e.Node, e.Node.Span().Start, msg)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// AnalyzeMethod analyzes one method. The suppress tokens are those of the enclosing unit; the
// ones of the method itself are added. Variable slots are assigned on the fly when missing, so
// m is modified in that case.
func (a *Analyzer) AnalyzeMethod(m *ir.Method, suppress ...string) (diags []diagnostic.Diagnostic, err error) {
	if m == nil {
		return nil, &MalformedError{Msg: "nil method"}
	}
	defer func() {
		if r := recover(); r != nil {
			var me *MalformedError
			if e, ok := r.(error); ok && errors.As(e, &me) {
				err = fmt.Errorf("method %q: %w", m.Name, me)
				return
			}
			err = fmt.Errorf("INTERNAL PANIC analyzing method %q: %v\n%s", m.Name, r, string(debug.Stack()))
		}
	}()

	a.log.Debugf("analyzing method %s", m.Name)
	ir.AssignSlots(m)

	tokens := make([]string, 0, len(suppress)+len(m.Suppress))
	tokens = append(tokens, suppress...)
	tokens = append(tokens, m.Suppress...)
	w := &walker{
		conf:   a.conf,
		log:    a.log,
		rep:    diagnostic.NewReporter(a.conf.ReporterOptions(), tokens...),
		ctx:    flowcontext.NewMethod(),
		method: m,
	}
	w.run()
	diags = w.rep.Diagnostics()
	a.log.Debugf("method %s: %d diagnostic(s)", m.Name, len(diags))
	return diags, nil
}

// AnalyzeUnit analyzes every method of u, at most conf.Workers at a time. Diagnostics are
// returned in source order regardless of scheduling. The first error aborts the unit.
func (a *Analyzer) AnalyzeUnit(u *ir.Unit) ([]diagnostic.Diagnostic, error) {
	if u == nil {
		return nil, &MalformedError{Msg: "nil unit"}
	}
	results := make([][]diagnostic.Diagnostic, len(u.Methods))

	var g errgroup.Group
	if a.conf.Workers > 0 {
		g.SetLimit(a.conf.Workers)
	}
	for i, m := range u.Methods {
		i, m := i, m
		g.Go(func() error {
			diags, err := a.AnalyzeMethod(m, u.Suppress...)
			if err != nil {
				return fmt.Errorf("unit %q: %w", u.Name, err)
			}
			results[i] = diags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []diagnostic.Diagnostic
	for _, r := range results {
		all = append(all, r...)
	}
	diagnostic.Sort(all)
	return all, nil
}

// walker holds the state of the analysis of one method.
type walker struct {
	conf   *config.Config
	log    *logging.LogGroup
	rep    *diagnostic.Reporter
	ctx    *flowcontext.Context
	method *ir.Method

	// silent is positive during loop stabilization rounds and the extra runs of finally blocks,
	// where nothing is reported.
	silent int
	// assertDepth is positive while walking the condition of an assert.
	assertDepth int
}

func (w *walker) run() {
	m := w.method
	if m.Body == nil {
		return
	}
	f := flowinfo.New()
	for _, p := range m.Params {
		if !tracked(p) {
			continue
		}
		tag := lattice.Unknown
		if !p.Type.Nullable() {
			tag = lattice.NonNull
		}
		f = f.Declare(p.Slot).Assign(p.Slot, tag)
	}
	w.stmt(m.Body, f)
}

func malformed(n ir.Node, format string, args ...any) {
	panic(&MalformedError{Node: n, Msg: fmt.Sprintf(format, args...)})
}

func tracked(v *ir.Var) bool {
	return v != nil && !v.Untracked && v.Slot != 0
}

// reportNull reports a null-family diagnostic. Those need a live flow: a null-dead branch is
// impossible according to the very information they would be based on.
func (w *walker) reportNull(f flowinfo.FlowInfo, kind diagnostic.Kind, n ir.Node, s diagnostic.Subject) {
	if w.silent > 0 || !f.IsLive() {
		return
	}
	w.rep.Report(kind, n.Span(), s)
}

// reportUninitialized reports a read of a local that is not definitely assigned. Definite
// assignment is a compile-time rule, so null-dead code is checked as well.
func (w *walker) reportUninitialized(f flowinfo.FlowInfo, ref *ir.VarRef) {
	if w.silent > 0 || f.IsDead() {
		return
	}
	w.rep.Report(diagnostic.UninitializedLocal, ref.Span(), diagnostic.Var(ref.Var.Name))
}

func (w *walker) reportDeadCode(n ir.Node) {
	if w.silent > 0 || n == nil {
		return
	}
	w.rep.Report(diagnostic.DeadCode, n.Span(), diagnostic.Subject{})
}

// recordThrow records a throw point in the nearest observing try frame.
func (w *walker) recordThrow(f flowinfo.FlowInfo, types ...*ir.Type) {
	w.ctx.RecordThrow(f, types...)
}

func (w *walker) trace(n ir.Node, f flowinfo.FlowInfo) {
	if !w.log.TraceEnabled() {
		return
	}
	mode := ""
	if w.silent > 0 {
		mode = " (silent)"
	}
	w.log.Tracef("%s@%d %T%s: %s", w.method.Name, n.Span().Start, n, mode, f)
}
