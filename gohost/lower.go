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
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/util/typeshelper"
)

// lowerer holds the state of the lowering of one function or closure body.
type lowerer struct {
	h    *Host
	info *types.Info
	name string
	// scope is the FuncDecl or FuncLit being lowered. Variables declared outside of it are
	// captured ones.
	scope     ast.Node
	vars      map[*types.Var]*ir.Var
	untracked map[*types.Var]bool
	targets   []target
	closures  []*ast.FuncLit
	labels    int
	temps     int
	err       error
}

// target is an enclosing statement that an unlabeled break exits. Switches lowered into if
// chains are exited through a synthetic label.
type target struct {
	label string
}

func (h *Host) newLowerer(name string, scope ast.Node) *lowerer {
	var body *ast.BlockStmt
	switch s := scope.(type) {
	case *ast.FuncDecl:
		body = s.Body
	case *ast.FuncLit:
		body = s.Body
	}
	return &lowerer{
		h:         h,
		info:      h.pass.TypesInfo,
		name:      name,
		scope:     scope,
		vars:      make(map[*types.Var]*ir.Var),
		untracked: untrackedVars(h.pass.TypesInfo, body),
	}
}

// untrackedVars returns the variables of body whose address is taken or which are captured by
// a closure: they may change behind the back of the analysis.
func untrackedVars(info *types.Info, body *ast.BlockStmt) map[*types.Var]bool {
	out := make(map[*types.Var]bool)
	if body == nil {
		return out
	}
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.UnaryExpr:
			if n.Op != token.AND {
				return true
			}
			if id, ok := astutil.Unparen(n.X).(*ast.Ident); ok {
				if v, ok := info.Uses[id].(*types.Var); ok {
					out[v] = true
				}
			}
		case *ast.FuncLit:
			ast.Inspect(n.Body, func(m ast.Node) bool {
				id, ok := m.(*ast.Ident)
				if !ok {
					return true
				}
				if v, ok := info.Uses[id].(*types.Var); ok && !v.IsField() && !within(v.Pos(), n) {
					out[v] = true
				}
				return true
			})
		}
		return true
	})
	return out
}

func within(pos token.Pos, n ast.Node) bool {
	return n.Pos() <= pos && pos < n.End()
}

func (l *lowerer) fail(n ast.Node, what string) {
	if l.err == nil {
		l.err = fmt.Errorf("%s: %s at %s: %w", l.name, what, l.h.position(n.Pos()), ErrUnsupported)
	}
}

// variable returns the IR variable of a local variable, parameter or result.
func (l *lowerer) variable(obj *types.Var) *ir.Var {
	if v, ok := l.vars[obj]; ok {
		return v
	}
	v := &ir.Var{
		Name:      obj.Name(),
		Type:      l.h.typ(obj.Type()),
		Untracked: l.untracked[obj] || !within(obj.Pos(), l.scope),
	}
	l.vars[obj] = v
	return v
}

// temp declares a fresh variable holding the value of init.
func (l *lowerer) temp(init ir.Expr, untracked bool) (*ir.LocalDecl, *ir.Var) {
	l.temps++
	v := &ir.Var{Name: fmt.Sprintf("tmp#%d", l.temps), Type: ir.TypeOf(init), Untracked: untracked}
	return &ir.LocalDecl{Range: init.Span(), Var: v, Init: init}, v
}

// isPackageVar reports whether v is declared at package level, in this package or another.
func isPackageVar(v *types.Var) bool {
	return v.Pkg() != nil && v.Parent() == v.Pkg().Scope()
}

// zero returns the zero value of a variable declared at n without an initializer.
func (l *lowerer) zero(n ast.Node, t types.Type) ir.Expr {
	switch {
	case typeshelper.Nilable(t):
		return &ir.NullLit{Range: rng(n)}
	case typeshelper.IsTypeParam(t):
		return &ir.Opaque{Range: rng(n), Type: l.h.typ(t)}
	}
	return &ir.Opaque{Range: rng(n), Type: l.h.typ(t), NonNull: true}
}

func (l *lowerer) push(t target) { l.targets = append(l.targets, t) }
func (l *lowerer) pop()          { l.targets = l.targets[:len(l.targets)-1] }

// switchLabel returns the label exiting a switch lowered into an if chain: the user's label,
// or a synthetic one that cannot clash with Go identifiers.
func (l *lowerer) switchLabel(label string) string {
	if label != "" {
		return label
	}
	l.labels++
	return fmt.Sprintf("switch#%d", l.labels)
}

// method lowers a function body. recv is nil for functions and closures.
func (l *lowerer) method(recv *ast.FieldList, ft *ast.FuncType, sig *types.Signature, body *ast.BlockStmt, r ir.Range) *ir.Method {
	m := &ir.Method{Range: r, Name: l.name, Static: recv == nil, Result: l.h.typ(sig.Results())}

	for _, list := range []*ast.FieldList{recv, ft.Params} {
		if list == nil {
			continue
		}
		for _, field := range list.List {
			for _, id := range field.Names {
				obj, ok := l.info.Defs[id].(*types.Var)
				if !ok || id.Name == "_" {
					continue
				}
				v := l.variable(obj)
				v.Kind = ir.VarParam
				m.Params = append(m.Params, v)
			}
		}
	}

	// Named results are locals initialized to their zero value.
	var pre []ir.Stmt
	if ft.Results != nil {
		for _, field := range ft.Results.List {
			for _, id := range field.Names {
				obj, ok := l.info.Defs[id].(*types.Var)
				if !ok || id.Name == "_" {
					continue
				}
				pre = append(pre, &ir.LocalDecl{Range: rng(id), Var: l.variable(obj), Init: l.zero(id, obj.Type())})
			}
		}
	}

	m.Body = &ir.Block{Range: rng(body), Stmts: append(pre, l.stmts(body.List)...)}
	return m
}
