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


package noreturn

import (
	"errors"
	"go/ast"
	"go/token"

	"go.uber.org/nullflow/util/analysishelper"
	"golang.org/x/tools/go/ast/astutil"
)

var errInspector = errors.New("inspector result unavailable")

// neverReturns reports whether a function body can neither return nor fall off its end, and
// names the call (or construct) that stops it. Bodies with a return or goto statement are never
// claimed: returns are an explicit way out and gotos defeat the sequential reading below.
func neverReturns(pass *analysishelper.EnhancedPass, set *Set, body *ast.BlockStmt) (string, bool) {
	escapes := false
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.ReturnStmt:
			escapes = true
		case *ast.BranchStmt:
			if n.Tok == token.GOTO {
				escapes = true
			}
		}
		return !escapes
	})
	if escapes {
		return "", false
	}
	t := terminator{pass: pass, set: set}
	return t.list(body.List)
}

// terminator decides whether statements are terminating in the sense of the Go specification,
// extended with calls that never return.
type terminator struct {
	pass *analysishelper.EnhancedPass
	set  *Set
}

func (t terminator) list(stmts []ast.Stmt) (string, bool) {
	for _, s := range stmts {
		if via, ok := t.stmt(s, ""); ok {
			return via, true
		}
	}
	return "", false
}

func (t terminator) stmt(s ast.Stmt, label string) (string, bool) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		call, ok := astutil.Unparen(s.X).(*ast.CallExpr)
		if !ok {
			return "", false
		}
		if t.pass.IsBuiltin(call, "panic") {
			return "panic", true
		}
		if fn := t.pass.Callee(call); t.set.Contains(fn) {
			return fn.FullName(), true
		}

	case *ast.BlockStmt:
		return t.list(s.List)

	case *ast.LabeledStmt:
		return t.stmt(s.Stmt, s.Label.Name)

	case *ast.IfStmt:
		if s.Else == nil {
			return "", false
		}
		via, ok := t.list(s.Body.List)
		if !ok {
			return "", false
		}
		if _, ok := t.stmt(s.Else, ""); ok {
			return via, true
		}

	case *ast.ForStmt:
		if s.Cond == nil && !breaks(s.Body, label) {
			return "infinite loop", true
		}

	case *ast.SelectStmt:
		if len(s.Body.List) == 0 {
			return "empty select", true
		}
		if breaks(s.Body, label) {
			return "", false
		}
		var via string
		for _, c := range s.Body.List {
			v, ok := t.list(c.(*ast.CommClause).Body)
			if !ok {
				return "", false
			}
			via = v
		}
		return via, true

	case *ast.SwitchStmt:
		return t.clauses(s.Body, label)
	case *ast.TypeSwitchStmt:
		return t.clauses(s.Body, label)
	}
	return "", false
}

// clauses handles switch statements: there must be a default clause, no break out of the
// switch, and every clause must terminate or fall through into the next one.
func (t terminator) clauses(body *ast.BlockStmt, label string) (string, bool) {
	if breaks(body, label) {
		return "", false
	}
	hasDefault := false
	var via string
	for _, s := range body.List {
		c := s.(*ast.CaseClause)
		if c.List == nil {
			hasDefault = true
		}
		if n := len(c.Body); n > 0 {
			if b, ok := c.Body[n-1].(*ast.BranchStmt); ok && b.Tok == token.FALLTHROUGH {
				continue
			}
		}
		v, ok := t.list(c.Body)
		if !ok {
			return "", false
		}
		via = v
	}
	return via, hasDefault
}

// breaks reports whether body contains a break that leaves the statement owning body: an
// unlabeled break outside nested breakable statements, or a break with the given label.
func breaks(body *ast.BlockStmt, label string) bool {
	found := false
	var visit func(n ast.Node, nested bool)
	visit = func(n ast.Node, nested bool) {
		ast.Inspect(n, func(m ast.Node) bool {
			if found {
				return false
			}
			switch m := m.(type) {
			case *ast.FuncLit:
				return false
			case *ast.ForStmt, *ast.RangeStmt, *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt:
				if m != n && !nested {
					visit(m, true)
					return false
				}
			case *ast.BranchStmt:
				if m.Tok != token.BREAK {
					break
				}
				if (m.Label == nil && !nested) || (m.Label != nil && m.Label.Name == label && label != "") {
					found = true
				}
			}
			return true
		})
	}
	visit(body, false)
	return found
}
