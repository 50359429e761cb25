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
)

// switchStmt lowers an expression switch. Without fallthrough it becomes an if chain, so that
// `case nil` narrows the tag like `x == nil` does; the chain is wrapped in a labeled statement
// that break statements exit. A switch using fallthrough becomes an IR switch, whose cases fall
// through unless they end with a break.
func (l *lowerer) switchStmt(s *ast.SwitchStmt, label string) ir.Stmt {
	var pre []ir.Stmt
	if s.Init != nil {
		pre = l.stmt(s.Init)
	}
	var tag func() ir.Expr
	if s.Tag != nil {
		var decl ir.Stmt
		tag, decl = l.once(s.Tag)
		if decl != nil {
			pre = append(pre, decl)
		}
	}

	caseCond := func(cc *ast.CaseClause) ir.Expr {
		var cond ir.Expr
		for _, e := range cc.List {
			c := l.expr(e)
			if tag != nil {
				c = &ir.Binary{Range: rng(e), Op: token.EQL, X: tag(), Y: c, Type: ir.Bool}
			}
			if cond == nil {
				cond = c
				continue
			}
			cond = &ir.Binary{Range: ir.Range{Start: cond.Span().Start, End: c.Span().End}, Op: token.LOR, X: cond, Y: c, Type: ir.Bool}
		}
		return cond
	}

	var st ir.Stmt
	if hasFallthrough(s.Body) {
		sw := &ir.Switch{Range: rng(s)}
		l.push(target{})
		for _, c := range s.Body.List {
			cc := c.(*ast.CaseClause)
			ic := &ir.Case{Range: rng(cc), Default: cc.List == nil}
			if cond := caseCond(cc); cond != nil {
				ic.Exprs = []ir.Expr{cond}
			}
			ic.Body = l.stmts(cc.Body)
			if !endsWith(cc.Body, token.FALLTHROUGH) {
				ic.Body = append(ic.Body, &ir.Break{Range: ir.Range{Start: cc.End(), End: cc.End()}})
			}
			sw.Cases = append(sw.Cases, ic)
		}
		l.pop()
		st = withLabel(label, sw)
	} else {
		lbl := l.switchLabel(label)
		l.push(target{label: lbl})
		var conds []ir.Expr
		var bodies []ir.Stmt
		var def ir.Stmt
		for _, c := range s.Body.List {
			cc := c.(*ast.CaseClause)
			body := &ir.Block{Range: rng(cc), Stmts: l.stmts(cc.Body)}
			if cc.List == nil {
				def = body
				continue
			}
			conds = append(conds, caseCond(cc))
			bodies = append(bodies, body)
		}
		l.pop()
		st = &ir.Labeled{Range: rng(s), Label: lbl, Body: chain(rng(s), conds, bodies, def)}
	}

	if pre == nil {
		return st
	}
	return &ir.Block{Range: rng(s), Stmts: append(pre, st)}
}

// chain builds `if c0 {b0} else if c1 {b1} ... else {def}`.
func chain(r ir.Range, conds []ir.Expr, bodies []ir.Stmt, def ir.Stmt) ir.Stmt {
	st := def
	for i := len(conds) - 1; i >= 0; i-- {
		st = &ir.If{Range: bodies[i].Span(), Cond: conds[i], Then: bodies[i], Else: st}
	}
	if st == nil {
		return &ir.Empty{Range: r}
	}
	return st
}

// once returns a function producing an expression equivalent to e each time it is called. A
// variable is read again; anything else is evaluated once into an untracked temporary, whose
// declaration is returned.
func (l *lowerer) once(e ast.Expr) (func() ir.Expr, ir.Stmt) {
	if id, ok := astutil.Unparen(e).(*ast.Ident); ok {
		if _, isVar := l.info.ObjectOf(id).(*types.Var); isVar {
			return func() ir.Expr { return l.expr(e) }, nil
		}
	}
	if tv, ok := l.info.Types[e]; ok && tv.Value != nil {
		return func() ir.Expr { return l.constant(e, tv) }, nil
	}
	decl, v := l.temp(l.expr(e), true)
	return func() ir.Expr { return &ir.VarRef{Range: rng(e), Var: v} }, decl
}

func hasFallthrough(body *ast.BlockStmt) bool {
	for _, c := range body.List {
		if cc, ok := c.(*ast.CaseClause); ok && endsWith(cc.Body, token.FALLTHROUGH) {
			return true
		}
	}
	return false
}

func endsWith(list []ast.Stmt, tok token.Token) bool {
	if len(list) == 0 {
		return false
	}
	b, ok := list[len(list)-1].(*ast.BranchStmt)
	return ok && b.Tok == tok
}

// typeSwitch lowers a type switch into an if chain. Only `case nil` tells anything about the
// operand; the other cases are opaque conditions. The bound variable of each clause is declared
// at the start of its body: nil in the nil case, the operand itself in the default and
// multi-type cases, and an unknown value of the case type otherwise.
func (l *lowerer) typeSwitch(s *ast.TypeSwitchStmt, label string) ir.Stmt {
	var pre []ir.Stmt
	if s.Init != nil {
		pre = l.stmt(s.Init)
	}
	var assert *ast.TypeAssertExpr
	switch a := s.Assign.(type) {
	case *ast.ExprStmt:
		assert, _ = a.X.(*ast.TypeAssertExpr)
	case *ast.AssignStmt:
		assert, _ = a.Rhs[0].(*ast.TypeAssertExpr)
	}
	if assert == nil {
		l.fail(s, "type switch")
		return &ir.Empty{Range: rng(s)}
	}
	x, decl := l.once(assert.X)
	if decl != nil {
		pre = append(pre, decl)
	}

	lbl := l.switchLabel(label)
	l.push(target{label: lbl})
	var conds []ir.Expr
	var bodies []ir.Stmt
	var def ir.Stmt
	for _, c := range s.Body.List {
		cc := c.(*ast.CaseClause)
		body := &ir.Block{Range: rng(cc)}
		if obj, ok := l.info.Implicits[cc].(*types.Var); ok {
			body.Stmts = append(body.Stmts, &ir.LocalDecl{Range: rng(cc), Var: l.variable(obj), Init: l.bound(cc, x)})
		}
		body.Stmts = append(body.Stmts, l.stmts(cc.Body)...)
		if cc.List == nil {
			def = body
			continue
		}

		var cond ir.Expr
		for _, te := range cc.List {
			c := ir.Expr(&ir.Opaque{Range: rng(te), Type: ir.Bool, NonNull: true})
			if l.h.pass.IsNil(te) {
				c = &ir.Binary{Range: rng(te), Op: token.EQL, X: x(), Y: &ir.NullLit{Range: rng(te)}, Type: ir.Bool}
			}
			if cond == nil {
				cond = c
				continue
			}
			cond = &ir.Binary{Range: rng(cc), Op: token.LOR, X: cond, Y: c, Type: ir.Bool}
		}
		conds = append(conds, cond)
		bodies = append(bodies, body)
	}
	l.pop()

	st := ir.Stmt(&ir.Labeled{Range: rng(s), Label: lbl, Body: chain(rng(s), conds, bodies, def)})
	if pre == nil {
		return st
	}
	return &ir.Block{Range: rng(s), Stmts: append(pre, st)}
}

// bound is the initial value of the variable bound by a type switch clause.
func (l *lowerer) bound(cc *ast.CaseClause, x func() ir.Expr) ir.Expr {
	if len(cc.List) != 1 {
		return x()
	}
	if l.h.pass.IsNil(cc.List[0]) {
		return &ir.NullLit{Range: rng(cc.List[0])}
	}
	return &ir.Opaque{Range: rng(cc.List[0]), Type: l.typeOf(cc.List[0])}
}

// selectStmt lowers a select statement into an IR switch whose cases never fall through.
// Exactly one clause runs, so the last one stands for the default when there is none. An empty
// select blocks forever.
func (l *lowerer) selectStmt(s *ast.SelectStmt, label string) ir.Stmt {
	if len(s.Body.List) == 0 {
		return &ir.ExprStmt{Range: rng(s), X: &ir.Call{Range: rng(s), Name: "select", Result: ir.VoidT, Exits: true, Static: true}}
	}
	sw := &ir.Switch{Range: rng(s)}
	l.push(target{})
	hasDefault := false
	for _, c := range s.Body.List {
		cc := c.(*ast.CommClause)
		ic := &ir.Case{Range: rng(cc), Default: cc.Comm == nil}
		hasDefault = hasDefault || ic.Default
		if cc.Comm != nil {
			ic.Body = l.stmt(cc.Comm)
		}
		ic.Body = append(ic.Body, l.stmts(cc.Body)...)
		ic.Body = append(ic.Body, &ir.Break{Range: ir.Range{Start: cc.End(), End: cc.End()}})
		sw.Cases = append(sw.Cases, ic)
	}
	l.pop()
	if !hasDefault {
		sw.Cases[len(sw.Cases)-1].Default = true
	}
	return withLabel(label, sw)
}
