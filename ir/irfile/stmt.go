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
	"go.uber.org/nullflow/ir"
	"gopkg.in/yaml.v3"
)

// block decodes a list of statements in a new scope. A single statement is accepted too.
func (d *decoder) block(n *yaml.Node) *ir.Block {
	d.push()
	defer d.pop()
	b := &ir.Block{Range: d.rng(n)}
	if n.Kind != yaml.SequenceNode {
		b.Stmts = []ir.Stmt{d.stmt(n)}
		return b
	}
	for _, s := range n.Content {
		b.Stmts = append(b.Stmts, d.stmt(s))
	}
	return b
}

// body decodes the body of a compound statement: a list becomes a block, a mapping is a single
// statement.
func (d *decoder) body(n *yaml.Node) ir.Stmt {
	if n.Kind == yaml.SequenceNode {
		return d.block(n)
	}
	d.push()
	defer d.pop()
	return d.stmt(n)
}

func (d *decoder) stmt(n *yaml.Node) ir.Stmt {
	rng := d.rng(n)
	if n.Kind == yaml.ScalarNode {
		switch n.Value {
		case "break":
			return &ir.Break{Range: rng}
		case "continue":
			return &ir.Continue{Range: rng}
		case "return":
			return &ir.Return{Range: rng}
		case "empty":
			return &ir.Empty{Range: rng}
		}
		d.errorf(n, "unknown statement %q", n.Value)
	}
	if n.Kind != yaml.MappingNode || len(n.Content) == 0 {
		d.errorf(n, "expected a statement")
	}

	switch kind := n.Content[0].Value; kind {
	case "local":
		return d.local(n, ir.VarLocal)

	case "expr":
		_, m := d.attrs(n, "expr")
		return &ir.ExprStmt{Range: rng, X: d.expr(m["expr"])}

	case "if":
		_, m := d.attrs(n, "if", "then", "else")
		s := &ir.If{Range: rng, Cond: d.expr(m["if"]), Then: d.body(d.need(n, m, "then"))}
		if e, ok := m["else"]; ok {
			s.Else = d.body(e)
		}
		return s

	case "while":
		_, m := d.attrs(n, "while", "body")
		return &ir.While{Range: rng, Cond: d.expr(m["while"]), Body: d.body(d.need(n, m, "body"))}

	case "do":
		_, m := d.attrs(n, "do", "while")
		return &ir.DoWhile{Range: rng, Body: d.body(m["do"]), Cond: d.expr(d.need(n, m, "while"))}

	case "for":
		return d.forStmt(n)

	case "foreach":
		_, m := d.attrs(n, "foreach", "in", "body")
		// The iterable is resolved outside the scope of the element variable.
		x := d.expr(d.need(n, m, "in"))
		d.push()
		defer d.pop()
		v := d.declare(m["foreach"], ir.VarLocal)
		return &ir.ForEach{Range: rng, Var: v, X: x, Body: d.body(d.need(n, m, "body"))}

	case "switch":
		return d.switchStmt(n)

	case "break":
		_, m := d.attrs(n, "break")
		return &ir.Break{Range: rng, Label: d.label(m["break"])}

	case "continue":
		_, m := d.attrs(n, "continue")
		return &ir.Continue{Range: rng, Label: d.label(m["continue"])}

	case "return":
		_, m := d.attrs(n, "return")
		return &ir.Return{Range: rng, X: d.expr(m["return"])}

	case "throw":
		_, m := d.attrs(n, "throw")
		return &ir.Throw{Range: rng, X: d.expr(m["throw"])}

	case "try":
		return d.tryStmt(n)

	case "label":
		_, m := d.attrs(n, "label", "body")
		return &ir.Labeled{Range: rng, Label: d.str(m["label"]), Body: d.body(d.need(n, m, "body"))}

	case "assert":
		_, m := d.attrs(n, "assert", "message")
		s := &ir.Assert{Range: rng, Cond: d.expr(m["assert"])}
		if msg, ok := m["message"]; ok {
			s.Message = d.expr(msg)
		}
		return s

	case "sync":
		_, m := d.attrs(n, "sync", "body")
		return &ir.Sync{Range: rng, Lock: d.expr(m["sync"]), Body: d.block(d.need(n, m, "body"))}

	case "block":
		_, m := d.attrs(n, "block")
		b := d.block(m["block"])
		b.Range = rng
		return b

	default:
		d.errorf(n.Content[0], "unknown statement %q", kind)
	}
	return nil
}

// label decodes an optional label: `break: ~` is an unlabeled break.
func (d *decoder) label(n *yaml.Node) string {
	if n.ShortTag() == "!!null" {
		return ""
	}
	return d.str(n)
}

// local decodes `{local: name, type: T, init: e, suppress: [...]}`. The variable is in scope in
// its own initializer, as in Java, so that reading it there is an uninitialized use.
func (d *decoder) local(n *yaml.Node, kind ir.VarKind) *ir.LocalDecl {
	_, m := d.attrs(n, "local", "type", "init", "untracked", "suppress")
	v := &ir.Var{Name: d.str(m["local"]), Kind: kind, Type: ir.Object}
	if t, ok := m["type"]; ok {
		v.Type = d.typ(t)
	}
	if u, ok := m["untracked"]; ok {
		v.Untracked = d.boolean(u)
	}
	d.bind(n, v)

	decl := &ir.LocalDecl{Range: d.rng(n), Var: v, Suppress: d.stringList(m["suppress"])}
	if init, ok := m["init"]; ok {
		decl.Init = d.expr(init)
	}
	return decl
}

func (d *decoder) forStmt(n *yaml.Node) ir.Stmt {
	_, m := d.attrs(n, "for", "body")
	d.push()
	defer d.pop()

	s := &ir.For{Range: d.rng(n)}
	spec := m["for"]
	if spec.Kind == yaml.MappingNode && len(spec.Content) > 0 {
		_, fm := d.attrs(spec, "init", "cond", "update")
		if init, ok := fm["init"]; ok {
			for _, i := range d.seq(init) {
				s.Init = append(s.Init, d.stmt(i))
			}
		}
		if c, ok := fm["cond"]; ok {
			s.Cond = d.expr(c)
		}
		if u, ok := fm["update"]; ok {
			for _, e := range d.seq(u) {
				s.Update = append(s.Update, d.expr(e))
			}
		}
	} else if spec.Kind != yaml.MappingNode && spec.ShortTag() != "!!null" {
		d.errorf(spec, "expected {init, cond, update}")
	}
	s.Body = d.body(d.need(n, m, "body"))
	return s
}

// switchStmt decodes `{switch: tag, cases: [{case: [e...], default: bool, body: [...]}]}`. All
// case bodies share the scope of the switch block.
func (d *decoder) switchStmt(n *yaml.Node) ir.Stmt {
	_, m := d.attrs(n, "switch", "cases")
	s := &ir.Switch{Range: d.rng(n), Tag: d.expr(m["switch"])}
	d.push()
	defer d.pop()
	if cs, ok := m["cases"]; ok {
		for _, cn := range d.seq(cs) {
			_, cm := d.attrs(cn, "case", "default", "body")
			c := &ir.Case{Range: d.rng(cn)}
			if e, ok := cm["case"]; ok {
				if e.Kind == yaml.SequenceNode {
					for _, x := range e.Content {
						c.Exprs = append(c.Exprs, d.expr(x))
					}
				} else {
					c.Exprs = []ir.Expr{d.expr(e)}
				}
			}
			if def, ok := cm["default"]; ok {
				c.Default = d.boolean(def)
			}
			if b, ok := cm["body"]; ok {
				for _, st := range d.seq(b) {
					c.Body = append(c.Body, d.stmt(st))
				}
			}
			s.Cases = append(s.Cases, c)
		}
	}
	return s
}

// tryStmt decodes `{try: [...], resources: [locals], catch: [{param, types, body}], finally:
// [...]}`.
func (d *decoder) tryStmt(n *yaml.Node) ir.Stmt {
	_, m := d.attrs(n, "try", "resources", "catch", "finally")
	s := &ir.Try{Range: d.rng(n)}

	d.push()
	if rs, ok := m["resources"]; ok {
		for _, r := range d.seq(rs) {
			if r.Kind != yaml.MappingNode || len(r.Content) == 0 || r.Content[0].Value != "local" {
				d.errorf(r, "resources must be local declarations")
			}
			s.Resources = append(s.Resources, d.local(r, ir.VarResource))
		}
	}
	s.Body = d.block(m["try"])
	d.pop()

	if cs, ok := m["catch"]; ok {
		for _, cn := range d.seq(cs) {
			_, cm := d.attrs(cn, "param", "types", "body")
			d.push()
			c := &ir.Catch{Range: d.rng(cn), Types: d.typeList(cm["types"])}
			if p, ok := cm["param"]; ok {
				c.Param = d.declare(p, ir.VarCatch)
			}
			if len(c.Types) == 0 && c.Param != nil {
				c.Types = []*ir.Type{c.Param.Type}
			}
			c.Body = d.block(d.need(cn, cm, "body"))
			d.pop()
			s.Catches = append(s.Catches, c)
		}
	}
	if f, ok := m["finally"]; ok {
		s.Finally = d.block(f)
	}
	return s
}
