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

package engine

import (
	"go.uber.org/nullflow/flowcontext"
	"go.uber.org/nullflow/flowinfo"
	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/lattice"
	"go.uber.org/nullflow/narrowing"
)

// stmt analyzes s starting from f and returns the flow on normal completion. Abrupt completions
// are handed to the flow context and leave a dead flow behind.
func (w *walker) stmt(s ir.Stmt, f flowinfo.FlowInfo) flowinfo.FlowInfo {
	if s == nil {
		malformed(nil, "nil statement")
	}
	w.trace(s, f)
	if _, isBlock := s.(*ir.Block); !isBlock {
		// Any statement may raise an unchecked exception before completing.
		w.recordThrow(f, ir.Unchecked...)
	}

	switch s := s.(type) {
	case *ir.Block:
		if s == nil {
			malformed(nil, "nil block")
		}
		out, declared := w.seq(s.Stmts, f)
		return discard(out, declared)

	case *ir.LocalDecl:
		return w.localDecl(s, f)

	case *ir.ExprStmt:
		return w.expr(s.X, f).flow

	case *ir.If:
		return w.ifStmt(s, f)

	case *ir.While:
		return w.whileLoop(s, f, nil)
	case *ir.DoWhile:
		return w.doWhileLoop(s, f, nil)
	case *ir.For:
		return w.forLoop(s, f, nil)
	case *ir.ForEach:
		return w.forEachLoop(s, f, nil)

	case *ir.Switch:
		frame := w.ctx.Push(flowcontext.Switch)
		return w.switchStmt(s, f, frame)

	case *ir.Break:
		target, err := w.ctx.BreakTarget(s.Label)
		if err != nil {
			panic(&MalformedError{Node: s, Msg: "break", Err: err})
		}
		w.ctx.Exit(flowcontext.ExitBreak, target, f)
		return f.MarkUnreachable()

	case *ir.Continue:
		target, err := w.ctx.ContinueTarget(s.Label)
		if err != nil {
			panic(&MalformedError{Node: s, Msg: "continue", Err: err})
		}
		w.ctx.Exit(flowcontext.ExitContinue, target, f)
		return f.MarkUnreachable()

	case *ir.Return:
		if s.X != nil {
			v := w.expr(s.X, f)
			f = v.flow
			if w.method.Result.IsPrimitive() {
				f = w.unboxIfNeeded(v, s.X, w.method.Result)
			}
		}
		w.ctx.Exit(flowcontext.ExitReturn, w.ctx.ReturnTarget(), f)
		return f.MarkUnreachable()

	case *ir.Throw:
		if s.X == nil {
			malformed(s, "throw without an exception")
		}
		v := w.expr(s.X, f)
		// Throwing null raises a NullPointerException instead.
		f = w.deref(v, s.X)
		thrown := ir.TypeOf(s.X)
		if thrown == nil || thrown.Kind != ir.Reference {
			thrown = ir.Throwable
		}
		w.recordThrow(f, thrown)
		return f.MarkUnreachable()

	case *ir.Try:
		return w.tryStmt(s, f)

	case *ir.Labeled:
		return w.labeled(s, f)

	case *ir.Assert:
		w.assertDepth++
		o := w.cond(s.Cond, f)
		w.assertDepth--
		if s.Message != nil {
			// The message is only evaluated when the assertion fails, which throws.
			w.recordThrow(w.expr(s.Message, o.WhenFalse).flow, ir.Error)
		}
		return narrowing.Assert(f, o, w.conf.IncludeNullInfoFromAsserts)

	case *ir.Sync:
		if s.Body == nil {
			malformed(s, "synchronized without a body")
		}
		f = w.deref(w.expr(s.Lock, f), s.Lock)
		return w.stmt(s.Body, f)

	case *ir.Empty:
		return f
	}

	malformed(s, "unknown statement")
	return f
}

// seq analyzes a statement list sharing one scope and returns the locals it declared.
func (w *walker) seq(stmts []ir.Stmt, f flowinfo.FlowInfo) (flowinfo.FlowInfo, []ir.Slot) {
	var declared []ir.Slot
	for _, s := range stmts {
		if d, ok := s.(*ir.LocalDecl); ok && d != nil && tracked(d.Var) {
			declared = append(declared, d.Var.Slot)
		}
		f = w.stmt(s, f)
	}
	return f, declared
}

func discard(f flowinfo.FlowInfo, slots []ir.Slot) flowinfo.FlowInfo {
	for _, s := range slots {
		f = f.DiscardSlot(s)
	}
	return f
}

func (w *walker) localDecl(d *ir.LocalDecl, f flowinfo.FlowInfo) flowinfo.FlowInfo {
	if d == nil || d.Var == nil {
		malformed(d, "local declaration without a variable")
	}
	if len(d.Suppress) > 0 {
		w.rep.PushSuppress(d.Suppress)
		defer w.rep.PopSuppress()
	}

	v := d.Var
	if tracked(v) {
		f = f.Declare(v.Slot)
	}
	if d.Init == nil {
		return f
	}

	iv := w.expr(d.Init, f)
	f = iv.flow
	tag := lattice.Unprotect(iv.tag)
	if v.Type.IsPrimitive() {
		f = w.unboxIfNeeded(iv, d.Init, v.Type)
		tag = lattice.NonNull
	}
	if tracked(v) {
		f = f.Assign(v.Slot, tag)
	}
	return f
}

// ifStmt analyzes both branches under the narrowed edges. A branch that null analysis proves
// impossible is dead code; one made unreachable by a constant condition is not reported, since
// `if (false)` is the way conditional compilation is written.
func (w *walker) ifStmt(s *ir.If, f flowinfo.FlowInfo) flowinfo.FlowInfo {
	if s.Then == nil {
		malformed(s, "if without a then branch")
	}
	o := w.cond(s.Cond, f)
	if f.IsLive() && o.WhenTrue.IsNullDead() {
		w.reportDeadCode(s.Then)
	}
	out := w.stmt(s.Then, o.WhenTrue)
	if s.Else == nil {
		return out.Merge(o.WhenFalse)
	}
	if f.IsLive() && o.WhenFalse.IsNullDead() {
		w.reportDeadCode(s.Else)
	}
	return out.Merge(w.stmt(s.Else, o.WhenFalse))
}

// switchStmt analyzes the case groups in source order. Each case is entered from the selector
// or by falling through from the previous one; without a default case the selector may also
// skip every case. Locals declared in a case are visible in the following ones.
func (w *walker) switchStmt(s *ir.Switch, f flowinfo.FlowInfo, frame *flowcontext.Context) flowinfo.FlowInfo {
	if s.Tag != nil {
		tv := w.expr(s.Tag, f)
		f = tv.flow
		if t := ir.TypeOf(s.Tag); t.IsBoxed() {
			f = w.unbox(tv, s.Tag)
		} else if t != nil && t.Kind == ir.Reference {
			f = w.deref(tv, s.Tag)
		}
	}

	parent := w.ctx
	w.ctx = frame
	defer func() { w.ctx = parent }()

	selector := f
	fall := flowinfo.Unreachable()
	hasDefault := false
	var declared []ir.Slot
	for _, c := range s.Cases {
		if c == nil {
			malformed(s, "nil case")
		}
		for _, e := range c.Exprs {
			selector = w.expr(e, selector).flow
		}
		hasDefault = hasDefault || c.Default
		out, d := w.seq(c.Body, selector.Merge(fall))
		declared = append(declared, d...)
		fall = out
	}

	out := fall.Merge(frame.Breaks())
	if !hasDefault {
		out = out.Merge(selector)
	}
	return discard(out, declared)
}

// labeled collects the labels of nested labeled statements so that a labeled loop knows all its
// names, then analyzes the body in a frame that break statements can target.
func (w *walker) labeled(s *ir.Labeled, f flowinfo.FlowInfo) flowinfo.FlowInfo {
	labels := []string{s.Label}
	body := s.Body
	for {
		l, ok := body.(*ir.Labeled)
		if !ok {
			break
		}
		labels = append(labels, l.Label)
		body = l.Body
	}
	if body == nil {
		malformed(s, "labeled statement without a body")
	}

	switch b := body.(type) {
	case *ir.While:
		return w.whileLoop(b, f, labels)
	case *ir.DoWhile:
		return w.doWhileLoop(b, f, labels)
	case *ir.For:
		return w.forLoop(b, f, labels)
	case *ir.ForEach:
		return w.forEachLoop(b, f, labels)
	case *ir.Switch:
		// A labeled switch is exited by both kinds of break through the same frame.
		frame := w.ctx.Push(flowcontext.Switch, labels...)
		return w.switchStmt(b, f, frame)
	}

	parent := w.ctx
	frame := parent.Push(flowcontext.Label, labels...)
	w.ctx = frame
	out := w.stmt(body, f)
	w.ctx = parent
	return out.Merge(frame.Breaks())
}
