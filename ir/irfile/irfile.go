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

// Package irfile decodes IR units written in YAML (or JSON, which is a subset of it), so that
// front-ends other than the Go host can hand resolved trees to the engine.
//
// A unit is a mapping with the keys unit, file, suppress, types, fields and methods. Statements
// and expressions are mappings whose first key names the node kind, with the remaining keys as
// attributes:
//
//	methods:
//	  - name: f
//	    params: [Object o]
//	    body:
//	      - {if: {eq: [o, null]}, then: [return]}
//	      - {expr: {call: toString, recv: o}}
//
// Plain scalars are expressions too: null, booleans, numbers, `this`, and identifiers resolved
// against the variables in scope, then against the declared fields. String literals are written
// {str: ...}. Positions of decoded nodes come from the YAML line and column.
package irfile

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"strings"

	"go.uber.org/nullflow/ir"
	"gopkg.in/yaml.v3"
)

// Error is a decoding error at a position of the input.
type Error struct {
	Filename     string
	Line, Column int
	Msg          string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Msg)
}

// Decode reads a unit from r. Positions in the result refer to a file set of their own; use
// Parse to share one.
func Decode(r io.Reader) (*ir.Unit, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read IR: %w", err)
	}
	return Parse(token.NewFileSet(), "<input>", src)
}

// Parse decodes src, adding it to fset under filename.
func Parse(fset *token.FileSet, filename string, src []byte) (u *ir.Unit, err error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(src))
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, &Error{Filename: filename, Line: 1, Column: 1, Msg: "empty document"}
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	tf := fset.AddFile(filename, -1, len(src))
	tf.SetLinesForContent(src)
	d := &decoder{
		filename: filename,
		tf:       tf,
		types:    make(map[string]*ir.Type),
		fields:   make(map[string]*ir.Field),
	}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			u, err = nil, e
		}
	}()

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	return d.unit(root), nil
}

type decoder struct {
	filename string
	tf       *token.File
	types    map[string]*ir.Type
	fields   map[string]*ir.Field
	scopes   []map[string]*ir.Var
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) {
	panic(&Error{Filename: d.filename, Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)})
}

func (d *decoder) pos(n *yaml.Node) token.Pos {
	if n.Line < 1 || n.Line > d.tf.LineCount() {
		return token.NoPos
	}
	off := d.tf.Offset(d.tf.LineStart(n.Line)) + n.Column - 1
	return d.tf.Pos(min(max(off, 0), d.tf.Size()))
}

func (d *decoder) rng(n *yaml.Node) ir.Range {
	start := d.pos(n)
	end := start
	if n.Kind == yaml.ScalarNode && start.IsValid() {
		off := d.tf.Offset(start) + len(n.Value)
		end = d.tf.Pos(min(off, d.tf.Size()))
	}
	return ir.Range{Start: start, End: end}
}

// attrs returns the entries of a mapping node, checking them against the allowed keys. The first
// key is also returned.
func (d *decoder) attrs(n *yaml.Node, allowed ...string) (string, map[string]*yaml.Node) {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected a mapping")
	}
	if len(n.Content) == 0 {
		d.errorf(n, "empty mapping")
	}
	m := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if _, dup := m[k.Value]; dup {
			d.errorf(k, "duplicate key %q", k.Value)
		}
		ok := false
		for _, a := range allowed {
			if a == k.Value {
				ok = true
				break
			}
		}
		if !ok {
			d.errorf(k, "unexpected key %q (want one of %s)", k.Value, strings.Join(allowed, ", "))
		}
		m[k.Value] = n.Content[i+1]
	}
	return n.Content[0].Value, m
}

// need returns the attribute key of the mapping n, which must be present.
func (d *decoder) need(n *yaml.Node, m map[string]*yaml.Node, key string) *yaml.Node {
	v, ok := m[key]
	if !ok {
		d.errorf(n, "missing key %q", key)
	}
	return v
}

func (d *decoder) str(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode {
		d.errorf(n, "expected a scalar")
	}
	return n.Value
}

func (d *decoder) boolean(n *yaml.Node) bool {
	var b bool
	if err := n.Decode(&b); err != nil {
		d.errorf(n, "expected a boolean")
	}
	return b
}

func (d *decoder) stringList(n *yaml.Node) []string {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		return []string{n.Value}
	}
	var out []string
	if err := n.Decode(&out); err != nil {
		d.errorf(n, "expected a list of strings")
	}
	return out
}

func (d *decoder) seq(n *yaml.Node) []*yaml.Node {
	if n.Kind != yaml.SequenceNode {
		d.errorf(n, "expected a list")
	}
	return n.Content
}

// ---- declarations ----

func (d *decoder) unit(n *yaml.Node) *ir.Unit {
	_, m := d.attrs(n, "unit", "file", "suppress", "types", "fields", "methods")
	u := &ir.Unit{File: d.filename}
	if v, ok := m["unit"]; ok {
		u.Name = d.str(v)
	}
	if v, ok := m["file"]; ok {
		u.File = d.str(v)
	}
	u.Suppress = d.stringList(m["suppress"])

	if v, ok := m["types"]; ok {
		for _, t := range d.seq(v) {
			_, tm := d.attrs(t, "name", "super")
			name := d.str(d.need(t, tm, "name"))
			if _, ok := ir.Builtin(name); ok {
				d.errorf(t, "type %s is predefined", name)
			}
			super := ir.Object
			if s, ok := tm["super"]; ok {
				super = d.typ(s)
			}
			d.types[name] = ir.NewClass(name, super)
		}
	}
	if v, ok := m["fields"]; ok {
		for _, f := range d.seq(v) {
			_, fm := d.attrs(f, "name", "type", "static", "constant")
			field := &ir.Field{Name: d.str(d.need(f, fm, "name")), Type: ir.Object}
			if t, ok := fm["type"]; ok {
				field.Type = d.typ(t)
			}
			if s, ok := fm["static"]; ok {
				field.Static = d.boolean(s)
			}
			if c, ok := fm["constant"]; ok {
				field.Constant = d.boolean(c)
			}
			d.fields[field.Name] = field
		}
	}
	if v, ok := m["methods"]; ok {
		for _, mn := range d.seq(v) {
			u.Methods = append(u.Methods, d.methodDecl(mn))
		}
	}
	return u
}

// typ resolves a type name: predefined types, then declared types. Other names, arrays
// included, become reference types extending Object.
func (d *decoder) typ(n *yaml.Node) *ir.Type {
	return d.typeNamed(n, d.str(n))
}

func (d *decoder) typeNamed(n *yaml.Node, name string) *ir.Type {
	if name == "" {
		d.errorf(n, "empty type name")
	}
	if t, ok := ir.Builtin(name); ok {
		return t
	}
	if t, ok := d.types[name]; ok {
		return t
	}
	t := ir.NewClass(name, ir.Object)
	d.types[name] = t
	return t
}

func (d *decoder) typeList(n *yaml.Node) []*ir.Type {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		return []*ir.Type{d.typ(n)}
	}
	var out []*ir.Type
	for _, t := range d.seq(n) {
		out = append(out, d.typ(t))
	}
	return out
}

func (d *decoder) methodDecl(n *yaml.Node) *ir.Method {
	_, m := d.attrs(n, "name", "params", "result", "static", "suppress", "body")
	meth := &ir.Method{Range: d.rng(n), Result: ir.VoidT}
	if v, ok := m["name"]; ok {
		meth.Name = d.str(v)
	}
	if v, ok := m["result"]; ok {
		meth.Result = d.typ(v)
	}
	if v, ok := m["static"]; ok {
		meth.Static = d.boolean(v)
	}
	meth.Suppress = d.stringList(m["suppress"])

	d.scopes = nil
	d.push()
	if v, ok := m["params"]; ok {
		for _, p := range d.seq(v) {
			meth.Params = append(meth.Params, d.declare(p, ir.VarParam))
		}
	}
	body, ok := m["body"]
	if !ok {
		d.errorf(n, "method %s has no body", meth.Name)
	}
	meth.Body = d.block(body)
	d.pop()
	return meth
}

// ---- scopes ----

func (d *decoder) push() { d.scopes = append(d.scopes, make(map[string]*ir.Var)) }
func (d *decoder) pop()  { d.scopes = d.scopes[:len(d.scopes)-1] }

func (d *decoder) lookup(name string) *ir.Var {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if v, ok := d.scopes[i][name]; ok {
			return v
		}
	}
	return nil
}

// declare adds a variable to the innermost scope. n is either a "Type name" scalar or a mapping
// with name, type and untracked keys.
func (d *decoder) declare(n *yaml.Node, kind ir.VarKind) *ir.Var {
	v := &ir.Var{Kind: kind, Type: ir.Object}
	if n.Kind == yaml.ScalarNode {
		typ, name, ok := strings.Cut(strings.TrimSpace(n.Value), " ")
		if !ok {
			name = typ
			typ = ""
		}
		v.Name = strings.TrimSpace(name)
		if typ != "" {
			v.Type = d.typeNamed(n, typ)
		}
	} else {
		_, m := d.attrs(n, "name", "type", "untracked")
		v.Name = d.str(d.need(n, m, "name"))
		if t, ok := m["type"]; ok {
			v.Type = d.typ(t)
		}
		if u, ok := m["untracked"]; ok {
			v.Untracked = d.boolean(u)
		}
	}
	d.bind(n, v)
	return v
}

func (d *decoder) bind(n *yaml.Node, v *ir.Var) {
	if v.Name == "" {
		d.errorf(n, "variable without a name")
	}
	d.scopes[len(d.scopes)-1][v.Name] = v
}
