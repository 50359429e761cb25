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


package gohost

import (
	"golang.org/x/tools/go/ast/astutil"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"

	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/util/asthelper"
	"go.uber.org/nullflow/util/typeshelper"
)

func (l *lowerer) typeOf(e ast.Expr) *ir.Type {
	return l.h.typ(l.h.pass.TypeOf(e))
}

func (l *lowerer) opaque(e ast.Expr, nonNull bool, operands ...ir.Expr) *ir.Opaque {
	return &ir.Opaque{Range: rng(e), Type: l.typeOf(e), NonNull: nonNull, Operands: operands}
}

func (l *lowerer) exprs(list []ast.Expr) []ir.Expr {
	out := make([]ir.Expr, 0, len(list))
	for _, e := range list {
		out = append(out, l.expr(e))
	}
	return out
}

func (l *lowerer) expr(e ast.Expr) ir.Expr {
	if l.h.pass.IsNil(e) {
		return &ir.NullLit{Range: rng(e)}
	}
	if tv, ok := l.info.Types[e]; ok && tv.Value != nil {
		return l.constant(e, tv)
	}

	switch e := e.(type) {
	case *ast.ParenExpr:
		return &ir.Paren{Range: rng(e), X: l.expr(e.X)}
	case *ast.Ident:
		return l.ident(e)
	case *ast.BasicLit:
		return l.opaque(e, true)
	case *ast.CompositeLit:
		return l.composite(e, l.h.pass.TypeOf(e))
	case *ast.FuncLit:
		l.closures = append(l.closures, e)
		return l.opaque(e, true)
	case *ast.SelectorExpr:
		return l.selector(e)
	case *ast.IndexExpr:
		return l.index(e)
	case *ast.IndexListExpr:
		// Instantiation of a generic function.
		return l.opaque(e, true)
	case *ast.SliceExpr:
		ops := []ir.Expr{l.expr(e.X)}
		for _, b := range []ast.Expr{e.Low, e.High, e.Max} {
			if b != nil {
				ops = append(ops, l.expr(b))
			}
		}
		return l.opaque(e, false, ops...)
	case *ast.TypeAssertExpr:
		// x.(T) panics when x is a nil interface.
		return &ir.Deref{Range: rng(e), X: l.expr(e.X), Type: l.typeOf(e)}
	case *ast.StarExpr:
		return &ir.Deref{Range: rng(e), X: l.expr(e.X), Type: l.typeOf(e)}
	case *ast.UnaryExpr:
		return l.unary(e)
	case *ast.BinaryExpr:
		return &ir.Binary{Range: rng(e), Op: e.Op, X: l.expr(e.X), Y: l.expr(e.Y), Type: l.typeOf(e)}
	case *ast.CallExpr:
		return l.call(e)
	case *ast.KeyValueExpr:
		return l.opaque(e, false, l.expr(e.Key), l.expr(e.Value))
	}
	return l.opaque(e, false)
}

func (l *lowerer) constant(e ast.Expr, tv types.TypeAndValue) ir.Expr {
	switch tv.Value.Kind() {
	case constant.Bool:
		return &ir.BoolLit{Range: rng(e), Value: constant.BoolVal(tv.Value)}
	case constant.String:
		return &ir.StringLit{Range: rng(e), Value: constant.StringVal(tv.Value)}
	}
	return &ir.NumberLit{Range: rng(e), Value: tv.Value.ExactString(), Type: l.h.typ(tv.Type)}
}

func (l *lowerer) ident(id *ast.Ident) ir.Expr {
	switch obj := l.info.ObjectOf(id).(type) {
	case *types.Var:
		if isPackageVar(obj) {
			return &ir.FieldRef{Range: rng(id), Field: l.h.field(obj)}
		}
		return &ir.VarRef{Range: rng(id), Var: l.variable(obj)}
	case *types.Func:
		return l.opaque(id, true)
	case *types.Nil:
		return &ir.NullLit{Range: rng(id)}
	}
	return l.opaque(id, false)
}

// lvalue lowers the target of an assignment. Writing to a nil map panics, writing to an element
// of a nil slice is an index error.
func (l *lowerer) lvalue(e ast.Expr) ir.Expr {
	switch x := e.(type) {
	case *ast.ParenExpr:
		return l.lvalue(x.X)
	case *ast.IndexExpr:
		if _, ok := l.h.pass.TypeOf(x.X).Underlying().(*types.Map); ok {
			return &ir.Index{Range: rng(e), X: l.expr(x.X), Index: l.expr(x.Index), Type: l.typeOf(e)}
		}
	}
	return l.expr(e)
}

// selector lowers field selections, method values and qualified identifiers. Selecting a field
// through a pointer dereferences it.
func (l *lowerer) selector(e *ast.SelectorExpr) ir.Expr {
	sel, ok := l.info.Selections[e]
	if !ok {
		return l.ident(e.Sel)
	}
	x := l.expr(e.X)
	switch sel.Kind() {
	case types.FieldVal:
		f := l.h.field(sel.Obj().(*types.Var))
		if typeshelper.IsPointer(l.h.pass.TypeOf(e.X)) {
			return &ir.FieldRef{Range: rng(e), Recv: x, Field: f}
		}
		return &ir.Opaque{Range: rng(e), Type: f.Type, Operands: []ir.Expr{x}}
	case types.MethodVal:
		return l.opaque(e, true, x)
	}
	return l.opaque(e, true)
}

// index lowers x[i]. Only indexing a pointer to an array dereferences; reading a nil map or
// slicing a nil slice is fine.
func (l *lowerer) index(e *ast.IndexExpr) ir.Expr {
	xt := l.h.pass.TypeOf(e.X)
	if xt == nil {
		return l.opaque(e, false)
	}
	switch xt.Underlying().(type) {
	case *types.Signature:
		// Instantiation of a generic function.
		return l.opaque(e, true)
	case *types.Pointer:
		return &ir.Index{Range: rng(e), X: l.expr(e.X), Index: l.expr(e.Index), Type: l.typeOf(e)}
	}
	return l.opaque(e, false, l.expr(e.X), l.expr(e.Index))
}

func (l *lowerer) unary(e *ast.UnaryExpr) ir.Expr {
	switch e.Op {
	case token.AND:
		if lit, ok := astutil.Unparen(e.X).(*ast.CompositeLit); ok {
			return &ir.New{Range: rng(e), Type: l.typeOf(e), Args: l.elements(lit)}
		}
		return l.opaque(e, true, l.expr(e.X))
	case token.NOT, token.SUB, token.ADD, token.XOR:
		return &ir.Unary{Range: rng(e), Op: e.Op, X: l.expr(e.X), Type: l.typeOf(e)}
	}
	// <-ch blocks forever on a nil channel; it does not panic.
	return l.opaque(e, false, l.expr(e.X))
}

// composite lowers a composite literal of type t. The elements of slices and maps are evaluated
// in order and the result is never nil, even for an empty literal.
func (l *lowerer) composite(e *ast.CompositeLit, t types.Type) ir.Expr {
	elems := l.elements(e)
	if t == nil {
		return l.opaque(e, true, elems...)
	}
	switch t.Underlying().(type) {
	case *types.Slice:
		return &ir.NewArray{Range: rng(e), Type: l.h.typ(t), Elems: elems}
	case *types.Map, *types.Pointer:
		return &ir.New{Range: rng(e), Type: l.h.typ(t), Args: elems}
	}
	return &ir.Opaque{Range: rng(e), Type: l.h.typ(t), NonNull: true, Operands: elems}
}

// elements lowers the elements of a composite literal. Struct field names and array indices are
// not expressions; map keys are.
func (l *lowerer) elements(e *ast.CompositeLit) []ir.Expr {
	t := l.h.pass.TypeOf(e)
	_, isMap := t.Underlying().(*types.Map)
	var out []ir.Expr
	for _, el := range e.Elts {
		if kv, ok := el.(*ast.KeyValueExpr); ok {
			if isMap {
				out = append(out, l.expr(kv.Key))
			}
			el = kv.Value
		}
		out = append(out, l.expr(el))
	}
	return out
}

// call lowers a call, a conversion or a builtin.
func (l *lowerer) call(e *ast.CallExpr) ir.Expr {
	pass := l.h.pass
	if pass.IsConversion(e) {
		if len(e.Args) != 1 {
			return l.opaque(e, false)
		}
		return &ir.Cast{Range: rng(e), X: l.expr(e.Args[0]), Type: l.typeOf(e)}
	}
	if name, ok := builtinName(l.info, e); ok {
		return l.builtin(e, name)
	}

	c := &ir.Call{
		Range:  rng(e),
		Result: l.typeOf(e),
		Exits:  l.h.noret != nil && l.h.noret.NeverReturns(pass, e),
		Static: true,
	}
	fun := astutil.Unparen(e.Fun)
	if fn := pass.Callee(e); fn != nil {
		c.Name = fn.Name()
		if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
			if sx, ok := fun.(*ast.SelectorExpr); ok {
				if s, ok := l.info.Selections[sx]; ok && s.Kind() == types.MethodVal {
					c.Recv = l.expr(sx.X)
					c.Static = !derefsReceiver(sig.Recv().Type(), pass.TypeOf(sx.X))
				}
			}
		}
	} else {
		// A function value: calling nil panics.
		c.Name = asthelper.ShortString(fun)
		c.Recv = l.expr(fun)
		c.Static = false
	}
	c.Args = l.exprs(e.Args)
	return c
}

// derefsReceiver reports whether calling a method with receiver type recv on an operand of type
// operand panics when the operand is nil: interface methods, and value methods called through a
// pointer. Pointer methods accept nil receivers.
func derefsReceiver(recv, operand types.Type) bool {
	if types.IsInterface(recv) {
		return true
	}
	return !typeshelper.IsPointer(recv) && typeshelper.IsPointer(operand)
}

func builtinName(info *types.Info, call *ast.CallExpr) (string, bool) {
	id, ok := astutil.Unparen(call.Fun).(*ast.Ident)
	if !ok {
		return "", false
	}
	b, ok := info.Uses[id].(*types.Builtin)
	if !ok {
		return "", false
	}
	return b.Name(), true
}

func isBuiltin(info *types.Info, call *ast.CallExpr) bool {
	_, ok := builtinName(info, call)
	return ok
}

func (l *lowerer) builtin(e *ast.CallExpr, name string) ir.Expr {
	switch name {
	case "new":
		return &ir.New{Range: rng(e), Type: l.typeOf(e)}
	case "make":
		return &ir.New{Range: rng(e), Type: l.typeOf(e), Args: l.exprs(e.Args[1:])}
	case "panic":
		return &ir.Call{Range: rng(e), Name: name, Args: l.exprs(e.Args), Result: ir.VoidT, Exits: true, Static: true}
	case "append":
		// append(s) and append(s, xs...) return s itself, which may be nil.
		grows := len(e.Args) > 1 && !e.Ellipsis.IsValid()
		return l.opaque(e, grows, l.exprs(e.Args)...)
	}
	return l.opaque(e, false, l.exprs(e.Args)...)
}
