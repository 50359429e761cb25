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

package ir

// Inspect traverses the tree rooted at n in depth-first order, in the manner of ast.Inspect:
// f is called for each node, and the children of a node are visited only if f returns true.
// Nil children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}

	exprs := func(es []Expr) {
		for _, e := range es {
			Inspect(e, f)
		}
	}
	stmts := func(ss []Stmt) {
		for _, s := range ss {
			Inspect(s, f)
		}
	}

	switch n := n.(type) {
	case *FieldRef:
		Inspect(n.Recv, f)
	case *Index:
		Inspect(n.X, f)
		Inspect(n.Index, f)
	case *New:
		exprs(n.Args)
	case *NewArray:
		exprs(n.Dims)
		exprs(n.Elems)
	case *Call:
		Inspect(n.Recv, f)
		exprs(n.Args)
	case *Assign:
		Inspect(n.LHS, f)
		Inspect(n.RHS, f)
	case *IncDec:
		Inspect(n.X, f)
	case *Unary:
		Inspect(n.X, f)
	case *Binary:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *InstanceOf:
		Inspect(n.X, f)
	case *Cond:
		Inspect(n.C, f)
		Inspect(n.T, f)
		Inspect(n.F, f)
	case *Cast:
		Inspect(n.X, f)
	case *Paren:
		Inspect(n.X, f)
	case *Deref:
		Inspect(n.X, f)
	case *Opaque:
		exprs(n.Operands)

	case *Block:
		stmts(n.Stmts)
	case *LocalDecl:
		Inspect(n.Init, f)
	case *ExprStmt:
		Inspect(n.X, f)
	case *If:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *While:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *DoWhile:
		Inspect(n.Body, f)
		Inspect(n.Cond, f)
	case *For:
		stmts(n.Init)
		Inspect(n.Cond, f)
		exprs(n.Update)
		Inspect(n.Body, f)
	case *ForEach:
		Inspect(n.X, f)
		Inspect(n.Body, f)
	case *Switch:
		Inspect(n.Tag, f)
		for _, c := range n.Cases {
			exprs(c.Exprs)
			stmts(c.Body)
		}
	case *Return:
		Inspect(n.X, f)
	case *Throw:
		Inspect(n.X, f)
	case *Try:
		for _, r := range n.Resources {
			Inspect(r, f)
		}
		Inspect(n.Body, f)
		for _, c := range n.Catches {
			Inspect(c.Body, f)
		}
		Inspect(n.Finally, f)
	case *Labeled:
		Inspect(n.Body, f)
	case *Assert:
		Inspect(n.Cond, f)
		Inspect(n.Message, f)
	case *Sync:
		Inspect(n.Lock, f)
		Inspect(n.Body, f)
	case *Method:
		Inspect(n.Body, f)
	}
}

// isNil reports whether n is nil or a typed nil pointer stored in the interface, which happens
// for optional children such as If.Else or Try.Finally.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Block:
		return n == nil
	case *LocalDecl:
		return n == nil
	case *Method:
		return n == nil
	}
	return false
}

// AssignSlots numbers every variable of m that has no slot yet: parameters first, then locals in
// declaration order. Slots already set are kept, and new slots never collide with them.
func AssignSlots(m *Method) {
	var vars []*Var
	used := make(map[Slot]bool)
	visit := func(v *Var) {
		if v == nil {
			return
		}
		if v.Slot != 0 {
			used[v.Slot] = true
			return
		}
		vars = append(vars, v)
	}

	for _, p := range m.Params {
		visit(p)
	}
	Inspect(m, func(n Node) bool {
		switch n := n.(type) {
		case *LocalDecl:
			visit(n.Var)
		case *ForEach:
			visit(n.Var)
		case *InstanceOf:
			visit(n.Binding)
		case *Try:
			for _, c := range n.Catches {
				visit(c.Param)
			}
		}
		return true
	})

	next := Slot(1)
	seen := make(map[*Var]bool, len(vars))
	for _, v := range vars {
		if seen[v] {
			continue
		}
		seen[v] = true
		for used[next] {
			next++
		}
		v.Slot = next
		used[next] = true
	}
}
