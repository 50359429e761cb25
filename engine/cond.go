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
	"go/token"

	"go.uber.org/nullflow/diagnostic"
	"go.uber.org/nullflow/flowinfo"
	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/lattice"
	"go.uber.org/nullflow/narrowing"
)

// cond evaluates a boolean expression and returns the flows on its true and false edges.
func (w *walker) cond(e ir.Expr, f flowinfo.FlowInfo) narrowing.Outcome {
	switch e := e.(type) {
	case nil:
		malformed(nil, "nil condition")

	case *ir.Paren:
		return w.cond(e.X, f)

	case *ir.BoolLit:
		return narrowing.Constant(f, e.Value)

	case *ir.Unary:
		if e.Op == token.NOT {
			return w.cond(e.X, f).Negate()
		}

	case *ir.Binary:
		switch e.Op {
		case token.LAND:
			a := w.cond(e.X, f)
			w.checkDeadOperand(f, a.WhenTrue, e.Y)
			return narrowing.And(a, w.cond(e.Y, a.WhenTrue))
		case token.LOR:
			a := w.cond(e.X, f)
			w.checkDeadOperand(f, a.WhenFalse, e.Y)
			return narrowing.Or(a, w.cond(e.Y, a.WhenFalse))
		case token.EQL, token.NEQ:
			return w.equality(e, f)
		case token.LSS, token.GTR, token.LEQ, token.GEQ:
			xv := w.expr(e.X, f)
			f = w.unboxIfNeeded(xv, e.X, nil)
			yv := w.expr(e.Y, f)
			return narrowing.Same(w.unboxIfNeeded(yv, e.Y, nil))
		}

	case *ir.InstanceOf:
		return w.instanceOf(e, f)

	case *ir.Cond:
		c := w.cond(e.C, f)
		branch := func(x ir.Expr, in flowinfo.FlowInfo) narrowing.Outcome {
			if !in.IsLive() && f.IsLive() {
				w.reportDeadCode(x)
			}
			return w.cond(x, in)
		}
		return narrowing.Conditional(branch(e.T, c.WhenTrue), branch(e.F, c.WhenFalse))
	}

	// Any other boolean-valued expression: a Boolean is unboxed, nothing is narrowed.
	v := w.expr(e, f)
	return narrowing.Same(w.unboxIfNeeded(v, e, nil))
}

// checkDeadOperand reports the right operand of && or || when null analysis proves it is never
// evaluated.
func (w *walker) checkDeadOperand(in, operandFlow flowinfo.FlowInfo, operand ir.Expr) {
	if in.IsLive() && operandFlow.IsNullDead() {
		w.reportDeadCode(operand)
	}
}

func isNullLit(e ir.Expr) bool {
	_, ok := ir.Unparen(e).(*ir.NullLit)
	return ok
}

// equality handles == and !=. Comparisons against the null literal narrow the compared
// variable; other comparisons only evaluate (and possibly unbox) their operands.
func (w *walker) equality(e *ir.Binary, f flowinfo.FlowInfo) narrowing.Outcome {
	eq := e.Op == token.EQL

	var subject ir.Expr
	switch {
	case isNullLit(e.Y) && !isNullLit(e.X):
		subject = e.X
	case isNullLit(e.X) && !isNullLit(e.Y):
		subject = e.Y
	}
	if subject == nil {
		xv := w.expr(e.X, f)
		yv := w.expr(e.Y, xv.flow)
		f = yv.flow
		// Unboxing happens only when one side is a primitive.
		xt, yt := ir.TypeOf(e.X), ir.TypeOf(e.Y)
		if xt.IsBoxed() && yt.IsPrimitive() {
			f = w.unbox(value{flow: f, tag: xv.tag, v: xv.v, uninit: xv.uninit}, e.X)
		} else if yt.IsBoxed() && xt.IsPrimitive() {
			f = w.unbox(value{flow: f, tag: yv.tag, v: yv.v, uninit: yv.uninit}, e.Y)
		}
		return narrowing.Same(f)
	}

	// `null == x` evaluates the literal first, which changes nothing.
	sv := w.expr(subject, f)
	f = sv.flow

	if tracked(sv.v) {
		slot := sv.v.Slot
		o, verdict := narrowing.NullComparison(f, slot, eq)
		if verdict == narrowing.Undecided {
			return o
		}
		if !sv.uninit && w.assertDepth == 0 && !f.CheckReported(slot) {
			kind := diagnostic.RedundantNullCheck
			if verdict == narrowing.AlwaysFalse {
				kind = diagnostic.ImpossibleNullComparison
			}
			s := diagnostic.Var(sv.v.Name)
			s.Null = f.Get(slot).IsDefinitelyNull()
			w.reportNull(f, kind, e, s)
		}
		return narrowing.Outcome{
			WhenTrue:  o.WhenTrue.MarkCheckReported(slot),
			WhenFalse: o.WhenFalse.MarkCheckReported(slot),
		}
	}

	if s, ok := staticNonNull(subject); ok {
		kind := diagnostic.ImpossibleNullComparison
		if !eq {
			kind = diagnostic.RedundantNullCheck
		}
		if w.assertDepth == 0 {
			w.reportNull(f, kind, e, s)
		}
		isNull := narrowing.Outcome{WhenTrue: f.MarkNullDead(), WhenFalse: f}
		if eq {
			return isNull
		}
		return isNull.Negate()
	}
	return narrowing.Same(f)
}

// staticNonNull returns the subject of an expression that is non-null whatever the flow: this
// and constant fields.
func staticNonNull(e ir.Expr) (diagnostic.Subject, bool) {
	switch e := ir.Unparen(e).(type) {
	case *ir.This:
		return diagnostic.Subject{Kind: diagnostic.SubjectThis}, true
	case *ir.FieldRef:
		if e.Field != nil && e.Field.Constant {
			return diagnostic.Subject{Kind: diagnostic.SubjectField, Name: e.Field.Name}, true
		}
	}
	return diagnostic.Subject{}, false
}

func (w *walker) instanceOf(e *ir.InstanceOf, f flowinfo.FlowInfo) narrowing.Outcome {
	xv := w.expr(e.X, f)
	f = xv.flow

	o := narrowing.Same(f)
	if tracked(xv.v) {
		var alwaysFalse bool
		o, alwaysFalse = narrowing.InstanceOf(f, xv.v.Slot)
		if alwaysFalse && !xv.uninit {
			w.reportNull(f, diagnostic.InstanceofAlwaysFalse, e, diagnostic.Var(xv.v.Name))
		}
	} else if xv.tag.IsDefinitelyNull() {
		o = narrowing.Outcome{WhenTrue: f.MarkNullDead(), WhenFalse: f}
	}

	if b := e.Binding; tracked(b) {
		o.WhenTrue = o.WhenTrue.Declare(b.Slot).Assign(b.Slot, lattice.NonNull)
		o.WhenFalse = o.WhenFalse.Declare(b.Slot)
	}
	return o
}
