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

package irfile

import (
	"go/token"

	"go.uber.org/nullflow/ir"
	"gopkg.in/yaml.v3"
)

var _binaryOps = map[string]token.Token{
	"eq":  token.EQL,
	"ne":  token.NEQ,
	"lt":  token.LSS,
	"gt":  token.GTR,
	"le":  token.LEQ,
	"ge":  token.GEQ,
	"and": token.LAND,
	"or":  token.LOR,
	"add": token.ADD,
	"sub": token.SUB,
	"mul": token.MUL,
	"div": token.QUO,
	"rem": token.REM,
}

var _unaryOps = map[string]token.Token{
	"not":   token.NOT,
	"neg":   token.SUB,
	"plus":  token.ADD,
	"compl": token.XOR,
}

var _assignOps = map[string]token.Token{
	"add": token.ADD_ASSIGN,
	"sub": token.SUB_ASSIGN,
	"mul": token.MUL_ASSIGN,
	"div": token.QUO_ASSIGN,
	"rem": token.REM_ASSIGN,
}

// expr decodes an expression. A nil node (a missing attribute) decodes to nil.
func (d *decoder) expr(n *yaml.Node) ir.Expr {
	if n == nil {
		return nil
	}
	rng := d.rng(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.MappingNode:
	default:
		d.errorf(n, "expected an expression")
	}
	if len(n.Content) == 0 {
		d.errorf(n, "empty expression")
	}

	kind := n.Content[0].Value
	if op, ok := _binaryOps[kind]; ok {
		_, m := d.attrs(n, kind, "type")
		x, y := d.pair(m[kind])
		return &ir.Binary{Range: rng, Op: op, X: x, Y: y, Type: d.optType(m["type"])}
	}
	if op, ok := _unaryOps[kind]; ok {
		_, m := d.attrs(n, kind, "type")
		return &ir.Unary{Range: rng, Op: op, X: d.expr(m[kind]), Type: d.optType(m["type"])}
	}

	switch kind {
	case "var":
		_, m := d.attrs(n, "var")
		return d.varRef(m["var"])

	case "str":
		_, m := d.attrs(n, "str")
		return &ir.StringLit{Range: rng, Value: d.str(m["str"])}

	case "num":
		_, m := d.attrs(n, "num", "type")
		lit := &ir.NumberLit{Range: rng, Value: d.str(m["num"]), Type: ir.Int}
		if t, ok := m["type"]; ok {
			lit.Type = d.typ(t)
		}
		return lit

	case "field":
		_, m := d.attrs(n, "field", "recv", "type", "constant")
		name := d.str(m["field"])
		f, ok := d.fields[name]
		if !ok {
			f = &ir.Field{Name: name, Type: ir.Object}
			if t, ok := m["type"]; ok {
				f.Type = d.typ(t)
			}
			if c, ok := m["constant"]; ok {
				f.Constant = d.boolean(c)
			}
			d.fields[name] = f
		}
		return &ir.FieldRef{Range: rng, Recv: d.expr(m["recv"]), Field: f}

	case "index":
		_, m := d.attrs(n, "index", "type")
		x, i := d.pair(m["index"])
		return &ir.Index{Range: rng, X: x, Index: i, Type: d.optType(m["type"])}

	case "call":
		_, m := d.attrs(n, "call", "recv", "args", "params", "result", "throws", "exits", "static")
		c := &ir.Call{
			Range:  rng,
			Name:   d.str(m["call"]),
			Recv:   d.expr(m["recv"]),
			Args:   d.exprs(m["args"]),
			Params: d.typeList(m["params"]),
			Result: d.optType(m["result"]),
			Throws: d.typeList(m["throws"]),
		}
		if e, ok := m["exits"]; ok {
			c.Exits = d.boolean(e)
		}
		if s, ok := m["static"]; ok {
			c.Static = d.boolean(s)
		}
		return c

	case "new":
		_, m := d.attrs(n, "new", "args", "params", "throws")
		return &ir.New{
			Range:  rng,
			Type:   d.typ(m["new"]),
			Args:   d.exprs(m["args"]),
			Params: d.typeList(m["params"]),
			Throws: d.typeList(m["throws"]),
		}

	case "newarray":
		_, m := d.attrs(n, "newarray", "dims", "elems")
		return &ir.NewArray{Range: rng, Type: d.typ(m["newarray"]), Dims: d.exprs(m["dims"]), Elems: d.exprs(m["elems"])}

	case "assign":
		_, m := d.attrs(n, "assign", "op")
		lhs, rhs := d.pair(m["assign"])
		a := &ir.Assign{Range: rng, Op: token.ASSIGN, LHS: lhs, RHS: rhs}
		if op, ok := m["op"]; ok {
			tok, ok := _assignOps[d.str(op)]
			if !ok {
				d.errorf(op, "unknown assignment operator %q", op.Value)
			}
			a.Op = tok
		}
		return a

	case "inc", "dec":
		_, m := d.attrs(n, kind, "prefix")
		e := &ir.IncDec{Range: rng, Tok: token.INC, X: d.expr(m[kind]), Postfix: true}
		if kind == "dec" {
			e.Tok = token.DEC
		}
		if p, ok := m["prefix"]; ok {
			e.Postfix = !d.boolean(p)
		}
		return e

	case "instanceof":
		_, m := d.attrs(n, "instanceof", "type", "bind")
		e := &ir.InstanceOf{Range: rng, X: d.expr(m["instanceof"]), Type: d.typ(d.need(n, m, "type"))}
		if b, ok := m["bind"]; ok {
			e.Binding = &ir.Var{Name: d.str(b), Type: e.Type, Kind: ir.VarLocal}
			d.bind(b, e.Binding)
		}
		return e

	case "cond":
		_, m := d.attrs(n, "cond", "type")
		parts := d.seq(m["cond"])
		if len(parts) != 3 {
			d.errorf(m["cond"], "cond takes [condition, then, else]")
		}
		return &ir.Cond{Range: rng, C: d.expr(parts[0]), T: d.expr(parts[1]), F: d.expr(parts[2]), Type: d.optType(m["type"])}

	case "cast":
		_, m := d.attrs(n, "cast", "type")
		return &ir.Cast{Range: rng, X: d.expr(m["cast"]), Type: d.typ(d.need(n, m, "type"))}

	case "paren":
		_, m := d.attrs(n, "paren")
		return &ir.Paren{Range: rng, X: d.expr(m["paren"])}

	case "deref":
		_, m := d.attrs(n, "deref", "type")
		return &ir.Deref{Range: rng, X: d.expr(m["deref"]), Type: d.optType(m["type"])}

	case "opaque":
		_, m := d.attrs(n, "opaque", "type", "nonnull")
		o := &ir.Opaque{Range: rng, Type: d.optType(m["type"])}
		if ops := m["opaque"]; ops.Kind == yaml.SequenceNode {
			o.Operands = d.exprs(ops)
		}
		if nn, ok := m["nonnull"]; ok {
			o.NonNull = d.boolean(nn)
		}
		return o
	}

	d.errorf(n.Content[0], "unknown expression %q", kind)
	return nil
}

func (d *decoder) scalar(n *yaml.Node) ir.Expr {
	rng := d.rng(n)
	switch n.ShortTag() {
	case "!!null":
		return &ir.NullLit{Range: rng}
	case "!!bool":
		return &ir.BoolLit{Range: rng, Value: d.boolean(n)}
	case "!!int":
		return &ir.NumberLit{Range: rng, Value: n.Value, Type: ir.Int}
	case "!!float":
		return &ir.NumberLit{Range: rng, Value: n.Value, Type: ir.Double}
	}
	if n.Value == "this" {
		return &ir.This{Range: rng, Type: ir.Object}
	}
	return d.varRef(n)
}

// varRef resolves a name against the variables in scope, then the declared fields (as a field
// access without receiver).
func (d *decoder) varRef(n *yaml.Node) ir.Expr {
	name := d.str(n)
	if v := d.lookup(name); v != nil {
		return &ir.VarRef{Range: d.rng(n), Var: v}
	}
	if f, ok := d.fields[name]; ok {
		return &ir.FieldRef{Range: d.rng(n), Field: f}
	}
	d.errorf(n, "undefined: %s", name)
	return nil
}

func (d *decoder) pair(n *yaml.Node) (ir.Expr, ir.Expr) {
	parts := d.seq(n)
	if len(parts) != 2 {
		d.errorf(n, "expected two operands, got %d", len(parts))
	}
	return d.expr(parts[0]), d.expr(parts[1])
}

func (d *decoder) exprs(n *yaml.Node) []ir.Expr {
	if n == nil {
		return nil
	}
	var out []ir.Expr
	for _, e := range d.seq(n) {
		out = append(out, d.expr(e))
	}
	return out
}

func (d *decoder) optType(n *yaml.Node) *ir.Type {
	if n == nil {
		return nil
	}
	return d.typ(n)
}
