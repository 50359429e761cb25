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
)

// value is the result of evaluating an expression: the flow after it, the nullability of the
// produced value and, when the value is the current content of a tracked variable, that
// variable (so that comparisons and dereferences can narrow it).
type value struct {
	flow flowinfo.FlowInfo
	tag  lattice.NullTag
	v    *ir.Var
	// uninit is set when the value is a read of a local that is not definitely assigned. Such a
	// read already produced an error and no null diagnostic is added on top of it.
	uninit bool
}

func nonNull(f flowinfo.FlowInfo) value { return value{flow: f, tag: lattice.NonNull} }

// tagOfType is the tag of a value of type t the analysis knows nothing else about.
func tagOfType(t *ir.Type) lattice.NullTag {
	if t != nil && !t.Nullable() {
		return lattice.NonNull
	}
	return lattice.Unknown
}

func (w *walker) expr(e ir.Expr, f flowinfo.FlowInfo) value {
	if e == nil {
		malformed(nil, "nil expression")
	}

	switch e := e.(type) {
	case *ir.NullLit:
		return value{flow: f, tag: lattice.Null}
	case *ir.BoolLit, *ir.NumberLit, *ir.StringLit, *ir.This:
		return nonNull(f)

	case *ir.VarRef:
		return w.readVar(e, f)

	case *ir.FieldRef:
		if e.Field == nil {
			malformed(e, "field reference without a field")
		}
		if e.Recv != nil {
			f = w.deref(w.expr(e.Recv, f), e.Recv)
		}
		if e.Field.Constant {
			return nonNull(f)
		}
		return value{flow: f, tag: tagOfType(e.Field.Type)}

	case *ir.Index:
		f = w.deref(w.expr(e.X, f), e.X)
		f = w.unboxIfNeeded(w.expr(e.Index, f), e.Index, ir.Int)
		return value{flow: f, tag: tagOfType(e.Type)}

	case *ir.New:
		f = w.args(e.Args, e.Params, f)
		w.recordCall(f, e.Throws)
		return nonNull(f)

	case *ir.NewArray:
		for _, d := range e.Dims {
			f = w.unboxIfNeeded(w.expr(d, f), d, ir.Int)
		}
		for _, el := range e.Elems {
			f = w.expr(el, f).flow
		}
		return nonNull(f)

	case *ir.Call:
		if e.Recv != nil {
			rv := w.expr(e.Recv, f)
			f = rv.flow
			if !e.Static {
				f = w.deref(rv, e.Recv)
			}
		}
		f = w.args(e.Args, e.Params, f)
		w.recordCall(f, e.Throws)
		if e.Exits {
			f = f.MarkUnreachable()
		}
		return value{flow: f, tag: tagOfType(e.Result)}

	case *ir.Assign:
		if e.Op == token.ASSIGN || e.Op == token.DEFINE {
			return w.assign(e, f)
		}
		return w.compoundAssign(e, f)

	case *ir.IncDec:
		return w.incDec(e, f)

	case *ir.Unary:
		if e.Op == token.NOT {
			return nonNull(w.cond(e, f).Merged())
		}
		f = w.unboxIfNeeded(w.expr(e.X, f), e.X, nil)
		return nonNull(f)

	case *ir.Binary:
		if isBoolOp(e.Op) {
			return nonNull(w.cond(e, f).Merged())
		}
		xv := w.expr(e.X, f)
		yv := w.expr(e.Y, xv.flow)
		f = yv.flow
		if e.Op == token.ADD && (ir.TypeOf(e.X) == ir.String || ir.TypeOf(e.Y) == ir.String) {
			// String concatenation converts null to "null".
			return nonNull(f)
		}
		f = w.unboxIfNeeded(value{flow: f, tag: xv.tag, v: xv.v, uninit: xv.uninit}, e.X, nil)
		f = w.unboxIfNeeded(value{flow: f, tag: yv.tag, v: yv.v, uninit: yv.uninit}, e.Y, nil)
		return value{flow: f, tag: tagOfType(ir.TypeOf(e))}

	case *ir.InstanceOf:
		return nonNull(w.cond(e, f).Merged())

	case *ir.Cond:
		return w.ternary(e, f)

	case *ir.Cast:
		xv := w.expr(e.X, f)
		if e.Type.IsPrimitive() {
			return nonNull(w.unboxIfNeeded(xv, e.X, e.Type))
		}
		return xv

	case *ir.Paren:
		return w.expr(e.X, f)

	case *ir.Deref:
		f = w.deref(w.expr(e.X, f), e.X)
		return value{flow: f, tag: tagOfType(e.Type)}

	case *ir.Opaque:
		for _, op := range e.Operands {
			f = w.expr(op, f).flow
		}
		if e.NonNull {
			return nonNull(f)
		}
		return value{flow: f, tag: tagOfType(e.Type)}
	}

	malformed(e, "unknown expression")
	return value{}
}

func isBoolOp(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.GTR, token.LEQ, token.GEQ, token.LAND, token.LOR:
		return true
	}
	return false
}

// readVar reads a variable, checking definite assignment of locals.
func (w *walker) readVar(ref *ir.VarRef, f flowinfo.FlowInfo) value {
	v := ref.Var
	if v == nil {
		malformed(ref, "variable reference without a variable")
	}
	if !tracked(v) {
		return value{flow: f, tag: tagOfType(v.Type)}
	}
	val := value{flow: f, tag: f.Get(v.Slot), v: v}
	if v.Kind == ir.VarLocal && !f.IsDefinitelyAssigned(v.Slot) {
		w.reportUninitialized(f, ref)
		val.uninit = true
	}
	return val
}

// subject describes the value of e for a diagnostic. Unboxing messages always name the type.
func (w *walker) subject(val value, e ir.Expr) diagnostic.Subject {
	s := diagnostic.Expression(ir.TypeOf(e).String())
	if val.v != nil {
		s.Kind = diagnostic.SubjectVariable
		s.Name = val.v.Name
	}
	return s
}

// deref checks a dereference of val, produced by e, and returns the flow after it. The
// dereferenced variable is protected afterwards: had it been null, execution would not get
// there.
func (w *walker) deref(val value, e ir.Expr) flowinfo.FlowInfo {
	return w.access(val, e, diagnostic.NullPointerAccess, diagnostic.PotentialNullPointerAccess)
}

// unbox checks an auto-unboxing of val, produced by e.
func (w *walker) unbox(val value, e ir.Expr) flowinfo.FlowInfo {
	return w.access(val, e, diagnostic.UnboxingNPE, diagnostic.PotentialUnboxingNPE)
}

func (w *walker) access(val value, e ir.Expr, definite, potential diagnostic.Kind) flowinfo.FlowInfo {
	f := val.flow
	if !val.tag.IsDefinitelyNonNull() {
		w.recordThrow(f, ir.NullPointerException)
	}
	if !val.uninit {
		switch {
		case val.tag.IsDefinitelyNull():
			w.reportNull(f, definite, e, w.subject(val, e))
		case val.tag.MayBeNull():
			w.reportNull(f, potential, e, w.subject(val, e))
		}
	}
	if tracked(val.v) {
		f = f.Narrow(val.v.Slot, lattice.Protected)
	}
	return f
}

// unboxIfNeeded unboxes val when e has a boxed type and the target is primitive. A nil target
// stands for an operator operand, which is always primitive.
func (w *walker) unboxIfNeeded(val value, e ir.Expr, target *ir.Type) flowinfo.FlowInfo {
	if !ir.TypeOf(e).IsBoxed() || (target != nil && !target.IsPrimitive()) {
		return val.flow
	}
	return w.unbox(val, e)
}

// args evaluates call arguments in order, unboxing those passed to primitive parameters.
func (w *walker) args(args []ir.Expr, params []*ir.Type, f flowinfo.FlowInfo) flowinfo.FlowInfo {
	for i, a := range args {
		av := w.expr(a, f)
		f = av.flow
		if i < len(params) && params[i].IsPrimitive() {
			f = w.unboxIfNeeded(av, a, params[i])
		}
	}
	return f
}

// recordCall records the throw point of an invocation: its declared exceptions plus the
// unchecked ones.
func (w *walker) recordCall(f flowinfo.FlowInfo, throws []*ir.Type) {
	types := make([]*ir.Type, 0, len(throws)+len(ir.Unchecked))
	types = append(types, throws...)
	types = append(types, ir.Unchecked...)
	w.recordThrow(f, types...)
}

// lvalue evaluates the sub-expressions of an assignment target (receiver, array and index) and
// returns the flow after them, plus the target variable when it is a tracked local.
func (w *walker) lvalue(lhs ir.Expr, f flowinfo.FlowInfo) (flowinfo.FlowInfo, *ir.Var) {
	switch l := ir.Unparen(lhs).(type) {
	case *ir.VarRef:
		if l.Var == nil {
			malformed(l, "variable reference without a variable")
		}
		if tracked(l.Var) {
			return f, l.Var
		}
		return f, nil
	case *ir.FieldRef:
		if l.Recv != nil {
			f = w.deref(w.expr(l.Recv, f), l.Recv)
		}
		return f, nil
	case *ir.Index:
		f = w.deref(w.expr(l.X, f), l.X)
		return w.unboxIfNeeded(w.expr(l.Index, f), l.Index, ir.Int), nil
	case *ir.Deref:
		return w.deref(w.expr(l.X, f), l.X), nil
	default:
		return w.expr(l, f).flow, nil
	}
}

func (w *walker) assign(e *ir.Assign, f flowinfo.FlowInfo) value {
	f, target := w.lvalue(e.LHS, f)
	rv := w.expr(e.RHS, f)
	f = rv.flow

	lt := ir.TypeOf(e.LHS)
	tag := lattice.Unprotect(rv.tag)
	if lt.IsPrimitive() {
		f = w.unboxIfNeeded(rv, e.RHS, lt)
		tag = lattice.NonNull
	}
	if target == nil {
		return value{flow: f, tag: tag}
	}

	if _, isNull := ir.Unparen(e.RHS).(*ir.NullLit); isNull &&
		f.IsDefinitelyAssigned(target.Slot) && f.Get(target.Slot).IsDefinitelyNull() {
		w.reportNull(f, diagnostic.RedundantAssignment, e, diagnostic.Var(target.Name))
	}
	return value{flow: f.Assign(target.Slot, tag), tag: tag, v: target}
}

// compoundAssign handles `x op= y`: x is read, both operands are unboxed unless this is a
// string concatenation, and the result is never null.
func (w *walker) compoundAssign(e *ir.Assign, f flowinfo.FlowInfo) value {
	lt := ir.TypeOf(e.LHS)
	concat := e.Op == token.ADD_ASSIGN && lt == ir.String

	var target *ir.Var
	if ref, ok := ir.Unparen(e.LHS).(*ir.VarRef); ok {
		lv := w.readVar(ref, f)
		f = lv.flow
		if tracked(lv.v) {
			target = lv.v
		}
		if !concat {
			f = w.unboxIfNeeded(lv, e.LHS, nil)
		}
	} else {
		lf, _ := w.lvalue(e.LHS, f)
		f = lf
		if !concat {
			f = w.unboxIfNeeded(value{flow: f, tag: lattice.Unknown}, e.LHS, nil)
		}
	}

	rv := w.expr(e.RHS, f)
	f = rv.flow
	if !concat {
		f = w.unboxIfNeeded(rv, e.RHS, nil)
	}
	if target != nil {
		f = f.Assign(target.Slot, lattice.NonNull)
	}
	return value{flow: f, tag: lattice.NonNull, v: target}
}

func (w *walker) incDec(e *ir.IncDec, f flowinfo.FlowInfo) value {
	if ref, ok := ir.Unparen(e.X).(*ir.VarRef); ok {
		xv := w.readVar(ref, f)
		f = w.unboxIfNeeded(xv, e.X, nil)
		if tracked(xv.v) {
			f = f.Assign(xv.v.Slot, lattice.NonNull)
		}
		return nonNull(f)
	}
	f, _ = w.lvalue(e.X, f)
	f = w.unboxIfNeeded(value{flow: f, tag: lattice.Unknown}, e.X, nil)
	return nonNull(f)
}

// ternary evaluates `c ? t : f` in value position. A branch that cannot be taken is reported as
// dead code and does not contribute to the tag of the result.
func (w *walker) ternary(e *ir.Cond, f flowinfo.FlowInfo) value {
	c := w.cond(e.C, f)
	resultType := ir.TypeOf(e)

	branch := func(x ir.Expr, in flowinfo.FlowInfo) value {
		if !in.IsLive() && f.IsLive() {
			w.reportDeadCode(x)
		}
		if in.IsDead() {
			return value{flow: in}
		}
		xv := w.expr(x, in)
		if resultType.IsPrimitive() {
			return nonNull(w.unboxIfNeeded(xv, x, resultType))
		}
		return xv
	}
	tv := branch(e.T, c.WhenTrue)
	fv := branch(e.F, c.WhenFalse)

	var tag lattice.NullTag
	if tv.flow.IsLive() {
		tag = lattice.Join(tag, tv.tag)
	}
	if fv.flow.IsLive() {
		tag = lattice.Join(tag, fv.tag)
	}
	if tag == lattice.Unassigned {
		// Neither branch is live; any tag will do since nothing is reported.
		tag = lattice.Join(tv.tag, fv.tag)
	}
	return value{flow: tv.flow.Merge(fv.flow), tag: lattice.Unprotect(tag)}
}
