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

func (l *lowerer) assign(s *ast.AssignStmt) []ir.Stmt {
	define := s.Tok == token.DEFINE
	switch {
	case s.Tok != token.ASSIGN && !define:
		return []ir.Stmt{&ir.ExprStmt{Range: rng(s), X: &ir.Assign{Range: rng(s), Op: s.Tok, LHS: l.lvalue(s.Lhs[0]), RHS: l.expr(s.Rhs[0])}}}
	case len(s.Rhs) == 1 && len(s.Lhs) > 1:
		return l.tuple(s, s.Lhs, s.Rhs[0], define)
	case len(s.Lhs) == 1:
		return []ir.Stmt{l.assignOne(s, s.Lhs[0], s.Rhs[0], define)}
	}
	return l.parallel(s, define)
}

// newVar returns the variable declared by e in a short variable declaration, or nil when e is
// blank or redeclares an existing variable.
func (l *lowerer) newVar(e ast.Expr, define bool) *types.Var {
	if !define {
		return nil
	}
	id, ok := e.(*ast.Ident)
	if !ok {
		return nil
	}
	v, _ := l.info.Defs[id].(*types.Var)
	return v
}

func (l *lowerer) assignOne(s ast.Node, lhs, rhs ast.Expr, define bool) ir.Stmt {
	if isBlank(lhs) {
		return &ir.ExprStmt{Range: rng(s), X: l.expr(rhs)}
	}
	if v := l.newVar(lhs, define); v != nil {
		return &ir.LocalDecl{Range: rng(s), Var: l.variable(v), Init: l.expr(rhs)}
	}
	return &ir.ExprStmt{Range: rng(s), X: &ir.Assign{Range: rng(s), Op: token.ASSIGN, LHS: l.lvalue(lhs), RHS: l.expr(rhs)}}
}

// tuple lowers `a, b = f()` and the comma-ok forms: the right-hand side is evaluated once and
// every target receives an unknown value of its type.
func (l *lowerer) tuple(s ast.Node, lhs []ast.Expr, rhs ast.Expr, define bool) []ir.Stmt {
	var out []ir.Stmt
	for _, e := range lhs {
		if v := l.newVar(e, define); v != nil {
			out = append(out, &ir.LocalDecl{Range: rng(e), Var: l.variable(v)})
		}
	}
	out = append(out, &ir.ExprStmt{Range: rng(rhs), X: l.commaOK(rhs)})
	for _, e := range lhs {
		if isBlank(e) {
			continue
		}
		var target ir.Expr
		if v := l.newVar(e, define); v != nil {
			target = &ir.VarRef{Range: rng(e), Var: l.variable(v)}
		} else {
			target = l.lvalue(e)
		}
		value := &ir.Opaque{Range: rng(e), Type: l.h.typ(l.h.pass.TypeOf(e))}
		out = append(out, &ir.ExprStmt{Range: rng(e), X: &ir.Assign{Range: rng(e), Op: token.ASSIGN, LHS: target, RHS: value}})
	}
	return out
}

// commaOK lowers the right-hand side of a tuple assignment. `m[k]`, `x.(T)` and `<-ch` never
// panic in their two-value form.
func (l *lowerer) commaOK(e ast.Expr) ir.Expr {
	switch x := astutil.Unparen(e).(type) {
	case *ast.IndexExpr:
		return &ir.Opaque{Range: rng(e), NonNull: true, Operands: []ir.Expr{l.expr(x.X), l.expr(x.Index)}}
	case *ast.TypeAssertExpr:
		return &ir.Opaque{Range: rng(e), NonNull: true, Operands: []ir.Expr{l.expr(x.X)}}
	case *ast.UnaryExpr:
		if x.Op == token.ARROW {
			return &ir.Opaque{Range: rng(e), NonNull: true, Operands: []ir.Expr{l.expr(x.X)}}
		}
	}
	return l.expr(e)
}

// parallel lowers `a, b = x, y`. All right-hand sides are evaluated before any assignment, so
// they go through temporaries unless every target is a new variable.
func (l *lowerer) parallel(s *ast.AssignStmt, define bool) []ir.Stmt {
	allNew := define
	for _, e := range s.Lhs {
		if l.newVar(e, define) == nil && !isBlank(e) {
			allNew = false
		}
	}
	if allNew {
		out := make([]ir.Stmt, 0, len(s.Lhs))
		for i := range s.Lhs {
			out = append(out, l.assignOne(s.Lhs[i], s.Lhs[i], s.Rhs[i], true))
		}
		return out
	}

	var out []ir.Stmt
	temps := make([]*ir.Var, len(s.Rhs))
	for i, r := range s.Rhs {
		decl, v := l.temp(l.expr(r), false)
		out = append(out, decl)
		temps[i] = v
	}
	for i, e := range s.Lhs {
		if isBlank(e) {
			continue
		}
		value := &ir.VarRef{Range: rng(s.Rhs[i]), Var: temps[i]}
		if v := l.newVar(e, define); v != nil {
			out = append(out, &ir.LocalDecl{Range: rng(e), Var: l.variable(v), Init: value})
			continue
		}
		out = append(out, &ir.ExprStmt{Range: rng(e), X: &ir.Assign{Range: rng(e), Op: token.ASSIGN, LHS: l.lvalue(e), RHS: value}})
	}
	return out
}

// decl lowers a var declaration. Variables without an initializer hold their zero value, nil
// for nilable types.
func (l *lowerer) decl(s *ast.DeclStmt) []ir.Stmt {
	gen, ok := s.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR {
		return []ir.Stmt{&ir.Empty{Range: rng(s)}}
	}
	var out []ir.Stmt
	for _, spec := range gen.Specs {
		vs := spec.(*ast.ValueSpec)
		switch {
		case len(vs.Values) == 0:
			for _, id := range vs.Names {
				if v, ok := l.info.Defs[id].(*types.Var); ok && id.Name != "_" {
					out = append(out, &ir.LocalDecl{Range: rng(id), Var: l.variable(v), Init: l.zero(id, v.Type())})
				}
			}
		case len(vs.Values) == 1 && len(vs.Names) > 1:
			out = append(out, l.tuple(vs, identExprs(vs.Names), vs.Values[0], true)...)
		default:
			for i, id := range vs.Names {
				out = append(out, l.assignOne(vs, id, vs.Values[i], true))
			}
		}
	}
	if len(out) == 0 {
		return []ir.Stmt{&ir.Empty{Range: rng(s)}}
	}
	return out
}

func identExprs(ids []*ast.Ident) []ast.Expr {
	out := make([]ast.Expr, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
