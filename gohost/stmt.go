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
	"go/token"
	"go/types"

	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/util/typeshelper"
)

func (l *lowerer) stmts(list []ast.Stmt) []ir.Stmt {
	var out []ir.Stmt
	for _, s := range list {
		out = append(out, l.stmt(s)...)
	}
	return out
}

func (l *lowerer) block(b *ast.BlockStmt) *ir.Block {
	return &ir.Block{Range: rng(b), Stmts: l.stmts(b.List)}
}

// single lowers s into exactly one statement.
func (l *lowerer) single(s ast.Stmt) ir.Stmt {
	out := l.stmt(s)
	if len(out) == 1 {
		return out[0]
	}
	return &ir.Block{Range: rng(s), Stmts: out}
}

// stmt lowers one statement. Declarations stay in the enclosing scope, so a statement may
// expand into several.
func (l *lowerer) stmt(s ast.Stmt) []ir.Stmt {
	switch s := s.(type) {
	case *ast.BlockStmt:
		return []ir.Stmt{l.block(s)}
	case *ast.ExprStmt:
		return []ir.Stmt{&ir.ExprStmt{Range: rng(s), X: l.expr(s.X)}}
	case *ast.AssignStmt:
		return l.assign(s)
	case *ast.DeclStmt:
		return l.decl(s)
	case *ast.IncDecStmt:
		return []ir.Stmt{&ir.ExprStmt{Range: rng(s), X: &ir.IncDec{Range: rng(s), Tok: s.Tok, X: l.lvalue(s.X), Postfix: true}}}
	case *ast.SendStmt:
		return []ir.Stmt{&ir.ExprStmt{Range: rng(s), X: &ir.Opaque{Range: rng(s), Type: ir.VoidT, Operands: []ir.Expr{l.expr(s.Chan), l.expr(s.Value)}}}}
	case *ast.GoStmt:
		return []ir.Stmt{&ir.ExprStmt{Range: rng(s), X: l.deferred(s.Call)}}
	case *ast.DeferStmt:
		return []ir.Stmt{&ir.ExprStmt{Range: rng(s), X: l.deferred(s.Call)}}
	case *ast.ReturnStmt:
		return []ir.Stmt{l.returnStmt(s)}
	case *ast.BranchStmt:
		return []ir.Stmt{l.branch(s)}
	case *ast.IfStmt:
		return l.ifStmt(s)
	case *ast.ForStmt:
		return []ir.Stmt{l.forStmt(s, "")}
	case *ast.RangeStmt:
		return []ir.Stmt{l.rangeStmt(s, "")}
	case *ast.SwitchStmt:
		return []ir.Stmt{l.switchStmt(s, "")}
	case *ast.TypeSwitchStmt:
		return []ir.Stmt{l.typeSwitch(s, "")}
	case *ast.SelectStmt:
		return []ir.Stmt{l.selectStmt(s, "")}
	case *ast.LabeledStmt:
		return []ir.Stmt{l.labeled(s)}
	case *ast.EmptyStmt:
		return []ir.Stmt{&ir.Empty{Range: rng(s)}}
	}
	l.fail(s, "statement")
	return []ir.Stmt{&ir.Empty{Range: rng(s)}}
}

func (l *lowerer) labeled(s *ast.LabeledStmt) ir.Stmt {
	label := s.Label.Name
	switch inner := s.Stmt.(type) {
	case *ast.ForStmt:
		return l.forStmt(inner, label)
	case *ast.RangeStmt:
		return l.rangeStmt(inner, label)
	case *ast.SwitchStmt:
		return l.switchStmt(inner, label)
	case *ast.TypeSwitchStmt:
		return l.typeSwitch(inner, label)
	case *ast.SelectStmt:
		return l.selectStmt(inner, label)
	}
	return &ir.Labeled{Range: rng(s), Label: label, Body: l.single(s.Stmt)}
}

func withLabel(label string, s ir.Stmt) ir.Stmt {
	if label == "" {
		return s
	}
	return &ir.Labeled{Range: s.Span(), Label: label, Body: s}
}

func (l *lowerer) branch(s *ast.BranchStmt) ir.Stmt {
	label := ""
	if s.Label != nil {
		label = s.Label.Name
	}
	switch s.Tok {
	case token.BREAK:
		if label == "" && len(l.targets) > 0 {
			label = l.targets[len(l.targets)-1].label
		}
		return &ir.Break{Range: rng(s), Label: label}
	case token.CONTINUE:
		return &ir.Continue{Range: rng(s), Label: label}
	case token.FALLTHROUGH:
		// Consumed by the switch lowering; a case of an IR switch falls through by default.
		return &ir.Empty{Range: rng(s)}
	}
	l.fail(s, s.Tok.String())
	return &ir.Empty{Range: rng(s)}
}

func (l *lowerer) returnStmt(s *ast.ReturnStmt) ir.Stmt {
	switch len(s.Results) {
	case 0:
		return &ir.Return{Range: rng(s)}
	case 1:
		return &ir.Return{Range: rng(s), X: l.expr(s.Results[0])}
	}
	results := &ir.Opaque{Range: rng(s), NonNull: true}
	for _, r := range s.Results {
		results.Operands = append(results.Operands, l.expr(r))
	}
	return &ir.Return{Range: rng(s), X: results}
}

func (l *lowerer) ifStmt(s *ast.IfStmt) []ir.Stmt {
	var init []ir.Stmt
	if s.Init != nil {
		init = l.stmt(s.Init)
	}
	st := &ir.If{Range: rng(s), Cond: l.expr(s.Cond), Then: l.block(s.Body)}
	if s.Else != nil {
		st.Else = l.single(s.Else)
	}
	if init == nil {
		return []ir.Stmt{st}
	}
	return []ir.Stmt{&ir.Block{Range: rng(s), Stmts: append(init, st)}}
}

func (l *lowerer) forStmt(s *ast.ForStmt, label string) ir.Stmt {
	loop := &ir.For{Range: rng(s)}
	if s.Init != nil {
		loop.Init = l.stmt(s.Init)
	}
	if s.Cond != nil {
		loop.Cond = l.expr(s.Cond)
	}
	if s.Post != nil {
		loop.Update = l.post(s.Post)
	}
	l.push(target{})
	loop.Body = l.block(s.Body)
	l.pop()
	return withLabel(label, loop)
}

// post lowers the post statement of a for loop into update expressions.
func (l *lowerer) post(s ast.Stmt) []ir.Expr {
	switch s := s.(type) {
	case *ast.IncDecStmt:
		return []ir.Expr{&ir.IncDec{Range: rng(s), Tok: s.Tok, X: l.lvalue(s.X), Postfix: true}}
	case *ast.ExprStmt:
		return []ir.Expr{l.expr(s.X)}
	case *ast.AssignStmt:
		if len(s.Lhs) == len(s.Rhs) {
			var out []ir.Expr
			for i := range s.Lhs {
				out = append(out, &ir.Assign{Range: rng(s), Op: s.Tok, LHS: l.lvalue(s.Lhs[i]), RHS: l.expr(s.Rhs[i])})
			}
			return out
		}
	}
	// Anything else is evaluated for its operands only.
	var ops []ir.Expr
	for _, st := range l.stmt(s) {
		if es, ok := st.(*ir.ExprStmt); ok {
			ops = append(ops, es.X)
		}
	}
	return []ir.Expr{&ir.Opaque{Range: rng(s), Type: ir.VoidT, Operands: ops}}
}

// rangeStmt lowers a range loop into a for-each loop. Ranging over a nil slice, map or channel
// does not panic, so only function iterators are dereferenced.
func (l *lowerer) rangeStmt(s *ast.RangeStmt, label string) ir.Stmt {
	x := l.expr(s.X)
	if !typeshelper.IsIterType(l.h.pass.TypeOf(s.X)) {
		x = &ir.Opaque{Range: rng(s.X), Type: ir.TypeOf(x), NonNull: true, Operands: []ir.Expr{x}}
	}
	loop := &ir.ForEach{Range: rng(s), X: x}

	var prefix []ir.Stmt
	bind := func(e ast.Expr, first bool) {
		if e == nil || isBlank(e) {
			return
		}
		t := l.h.pass.TypeOf(e)
		if s.Tok == token.DEFINE {
			obj, ok := l.info.Defs[e.(*ast.Ident)].(*types.Var)
			if !ok {
				return
			}
			v := l.variable(obj)
			if first {
				loop.Var = v
				return
			}
			prefix = append(prefix, &ir.LocalDecl{Range: rng(e), Var: v, Init: l.element(e, t)})
			return
		}
		prefix = append(prefix, &ir.ExprStmt{Range: rng(e), X: &ir.Assign{Range: rng(e), Op: token.ASSIGN, LHS: l.lvalue(e), RHS: l.element(e, t)}})
	}
	bind(s.Key, true)
	bind(s.Value, false)

	l.push(target{})
	body := l.block(s.Body)
	l.pop()
	body.Stmts = append(prefix, body.Stmts...)
	loop.Body = body
	return withLabel(label, loop)
}

// element is the unknown value of a range variable of type t.
func (l *lowerer) element(e ast.Expr, t types.Type) ir.Expr {
	return &ir.Opaque{Range: rng(e), Type: l.h.typ(t)}
}

// deferred lowers a go or defer statement: the function value and the arguments are evaluated
// now, the call happens later.
func (l *lowerer) deferred(call *ast.CallExpr) ir.Expr {
	op := &ir.Opaque{Range: rng(call), Type: ir.VoidT}
	switch fun := astutil.Unparen(call.Fun).(type) {
	case *ast.SelectorExpr:
		if sel, ok := l.info.Selections[fun]; ok && sel.Kind() == types.MethodVal {
			op.Operands = append(op.Operands, l.expr(fun.X))
		}
	case *ast.FuncLit, *ast.Ident:
		if !l.h.pass.IsConversion(call) && l.h.pass.Callee(call) == nil && !isBuiltin(l.info, call) {
			op.Operands = append(op.Operands, l.expr(fun))
		}
	}
	for _, a := range call.Args {
		op.Operands = append(op.Operands, l.expr(a))
	}
	return op
}

func isBlank(e ast.Expr) bool {
	id, ok := astutil.Unparen(e).(*ast.Ident)
	return ok && id.Name == "_"
}
