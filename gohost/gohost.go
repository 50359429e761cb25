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


// Package gohost lowers type-checked Go function bodies into the IR analyzed by the engine.
//
// Values that can be nil (pointers, interfaces, maps, slices, channels and functions) become
// reference values and nil becomes the null literal. The operations that panic on nil become
// dereferences: `*p`, `p.f` through a pointer, method calls on nil interfaces or through an
// implicit `*p`, calls of nil function values, writes to nil maps and type assertions. The
// others (indexing a slice, ranging over a map, receiving from a channel) are opaque.
//
// Closures are lowered as separate methods named like the Go compiler names them
// ("outer.func1"). The variables they capture, and the variables whose address is taken, are
// not tracked.
package gohost

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/noreturn"
	"go.uber.org/nullflow/util/analysishelper"
	"go.uber.org/nullflow/util/logging"
	"go.uber.org/nullflow/util/typeshelper"
)

// ErrUnsupported is wrapped by the errors of functions that cannot be lowered (goto).
var ErrUnsupported = errors.New("unsupported construct")

// Host lowers the functions of one package. It caches types and fields, so a Host must not be
// shared between packages.
type Host struct {
	pass   *analysishelper.EnhancedPass
	noret  *noreturn.Set
	log    *logging.LogGroup
	qual   types.Qualifier
	types  map[string]*ir.Type
	fields map[*types.Var]*ir.Field
}

// New returns a host for the package of pass. Calls of the functions in noret, and of panic,
// never return. A nil log discards all output.
func New(pass *analysishelper.EnhancedPass, noret *noreturn.Set, log *logging.LogGroup) *Host {
	if log == nil {
		log = logging.Discard()
	}
	return &Host{
		pass:   pass,
		noret:  noret,
		log:    log,
		qual:   types.RelativeTo(pass.Pkg),
		types:  make(map[string]*ir.Type),
		fields: make(map[*types.Var]*ir.Field),
	}
}

// Package lowers every function with a body in files into one unit named after the package.
// Functions that cannot be lowered are left out, and the returned errors say which.
func (h *Host) Package(files []*ast.File) (*ir.Unit, []error) {
	u := &ir.Unit{Name: h.pass.Pkg.Path()}
	var skipped []error
	for _, file := range files {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			methods, err := h.Func(fd)
			if err != nil {
				h.log.Debugf("skipping function: %v", err)
				skipped = append(skipped, err)
				continue
			}
			u.Methods = append(u.Methods, methods...)
		}
	}
	return u, skipped
}

// Func lowers a function declaration, followed by the closures it contains.
func (h *Host) Func(decl *ast.FuncDecl) ([]*ir.Method, error) {
	obj, _ := h.pass.TypesInfo.Defs[decl.Name].(*types.Func)
	if obj == nil || decl.Body == nil {
		return nil, fmt.Errorf("function %s: no body or type information", decl.Name.Name)
	}
	sig := obj.Type().(*types.Signature)
	name := h.funcName(obj, sig)

	l := h.newLowerer(name, decl)
	m := l.method(decl.Recv, decl.Type, sig, decl.Body, rng(decl))
	if l.err != nil {
		return nil, l.err
	}
	methods := []*ir.Method{m}

	queue := l.closures
	for n := 1; len(queue) > 0; n++ {
		lit := queue[0]
		queue = queue[1:]

		sig, ok := h.pass.TypeOf(lit).(*types.Signature)
		if !ok {
			return nil, fmt.Errorf("%s: closure without a signature at %s", name, h.position(lit.Pos()))
		}
		cl := h.newLowerer(fmt.Sprintf("%s.func%d", name, n), lit)
		cm := cl.method(nil, lit.Type, sig, lit.Body, rng(lit))
		if cl.err != nil {
			return nil, cl.err
		}
		methods = append(methods, cm)
		queue = append(queue, cl.closures...)
	}
	return methods, nil
}

func (h *Host) funcName(obj *types.Func, sig *types.Signature) string {
	if recv := sig.Recv(); recv != nil {
		return fmt.Sprintf("(%s).%s", types.TypeString(recv.Type(), h.qual), obj.Name())
	}
	return obj.Name()
}

func (h *Host) position(pos token.Pos) token.Position {
	return h.pass.Fset.Position(pos)
}

// typ maps a Go type to an IR type. Nilable types and type parameters are references, every
// other type is primitive. Types are interned by their printed form.
func (h *Host) typ(t types.Type) *ir.Type {
	if t == nil {
		return ir.Object
	}
	if tup, ok := t.(*types.Tuple); ok {
		switch tup.Len() {
		case 0:
			return ir.VoidT
		case 1:
			return h.typ(tup.At(0).Type())
		}
	}
	if b, ok := t.(*types.Basic); ok {
		switch b.Kind() {
		case types.UntypedNil:
			return ir.NullT
		case types.Bool, types.UntypedBool:
			return ir.Bool
		}
	}

	key := types.TypeString(t, h.qual)
	if it, ok := h.types[key]; ok {
		return it
	}
	it := &ir.Type{Name: key, Kind: ir.Primitive}
	if typeshelper.Nilable(t) || typeshelper.IsTypeParam(t) {
		it = ir.NewClass(key, ir.Object)
	}
	h.types[key] = it
	return it
}

// field returns the IR field of a struct field or a package-level variable.
func (h *Host) field(v *types.Var) *ir.Field {
	if f, ok := h.fields[v]; ok {
		return f
	}
	f := &ir.Field{Name: v.Name(), Type: h.typ(v.Type()), Static: !v.IsField()}
	h.fields[v] = f
	return f
}

func rng(n ast.Node) ir.Range {
	return ir.Range{Start: n.Pos(), End: n.End()}
}
