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

import "go/token"

// TypeOf returns the static type of e, or nil when it is not known.
func TypeOf(e Expr) *Type {
	switch e := e.(type) {
	case *NullLit:
		return NullT
	case *BoolLit:
		return Bool
	case *NumberLit:
		if e.Type != nil {
			return e.Type
		}
		return Int
	case *StringLit:
		return String
	case *This:
		return e.Type
	case *VarRef:
		return e.Var.Type
	case *FieldRef:
		return e.Field.Type
	case *Index:
		return e.Type
	case *New:
		return e.Type
	case *NewArray:
		return e.Type
	case *Call:
		return e.Result
	case *Assign:
		return TypeOf(e.LHS)
	case *IncDec:
		return TypeOf(e.X)
	case *Unary:
		if e.Type != nil {
			return e.Type
		}
		if e.Op == token.NOT {
			return Bool
		}
		return Unbox(TypeOf(e.X))
	case *Binary:
		if e.Type != nil {
			return e.Type
		}
		switch e.Op {
		case token.EQL, token.NEQ, token.LSS, token.GTR, token.LEQ, token.GEQ, token.LAND, token.LOR:
			return Bool
		case token.ADD:
			if TypeOf(e.X) == String || TypeOf(e.Y) == String {
				return String
			}
		}
		return Unbox(TypeOf(e.X))
	case *InstanceOf:
		return Bool
	case *Cond:
		if e.Type != nil {
			return e.Type
		}
		return TypeOf(e.T)
	case *Cast:
		return e.Type
	case *Paren:
		return TypeOf(e.X)
	case *Deref:
		return e.Type
	case *Opaque:
		return e.Type
	}
	return nil
}

// Unbox returns the primitive counterpart of a boxed type, or t itself.
func Unbox(t *Type) *Type {
	if t.IsBoxed() && t.Unboxed != nil {
		return t.Unboxed
	}
	return t
}

// Unparen strips any enclosing parentheses from e.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*Paren)
		if !ok {
			return e
		}
		e = p.X
	}
}
