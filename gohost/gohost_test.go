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
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/nullflow/engine"
	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/noreturn"
	"go.uber.org/nullflow/util/analysishelper"
	"golang.org/x/tools/go/analysis"
)

const _prelude = `package p

type T struct {
	f    int
	next *T
}

func (t *T) Ptr() int { return 0 }
func (t T) Val() int  { return 0 }

type I interface{ M() }
`

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

// fakeOS is an importer providing an os package with Exit only.
var fakeOS = importerFunc(func(path string) (*types.Package, error) {
	pkg := types.NewPackage(path, "os")
	sig := types.NewSignatureType(nil, nil, nil, types.NewTuple(types.NewVar(token.NoPos, pkg, "code", types.Typ[types.Int])), nil, false)
	pkg.Scope().Insert(types.NewFunc(token.NoPos, pkg, "Exit", sig))
	pkg.MarkComplete()
	return pkg, nil
})

func newPass(t *testing.T, src string) *analysishelper.EnhancedPass {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Instances:  make(map[*ast.Ident]types.Instance),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
	conf := types.Config{Importer: fakeOS}
	pkg, err := conf.Check("p", fset, []*ast.File{file}, info)
	require.NoError(t, err)

	return analysishelper.NewEnhancedPass(&analysis.Pass{Fset: fset, Files: []*ast.File{file}, Pkg: pkg, TypesInfo: info})
}

func lower(t *testing.T, src string) (*ir.Unit, []error) {
	t.Helper()

	pass := newPass(t, src)
	return New(pass, &noreturn.Set{}, nil).Package(pass.Files)
}

func diagnose(t *testing.T, src string) []string {
	t.Helper()

	u, skipped := lower(t, src)
	require.Empty(t, skipped)
	diags, err := engine.New(nil, nil).AnalyzeUnit(u)
	require.NoError(t, err)

	var out []string
	for _, d := range diags {
		out = append(out, strings.TrimSpace(d.Kind.String()+" "+d.Name))
	}
	return out
}

func TestLowering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "nil pointer field access",
			src: `
func f() int {
	var p *T
	return p.f
}`,
			want: []string{"null-pointer-access p"},
		},
		{
			name: "parameter checked before use",
			src: `
func f(p *T) int {
	if p == nil {
		return 0
	}
	return p.f
}`,
		},
		{
			name: "nil on one path",
			src: `
func f(b bool) int {
	var p *T
	if b {
		p = &T{}
	}
	return p.f
}`,
			want: []string{"potential-null-pointer-access p"},
		},
		{
			name: "redundant check",
			src: `
func f(p *T) int {
	if p == nil {
		return 0
	}
	if p != nil {
		return p.f
	}
	return 1
}`,
			want: []string{"redundant-null-check p"},
		},
		{
			name: "pointer methods accept nil receivers",
			src: `
func f() int {
	var p *T
	_ = p.Ptr()
	return p.Val()
}`,
			want: []string{"null-pointer-access p"},
		},
		{
			name: "nil interface method call",
			src: `
func f() {
	var i I
	i.M()
}`,
			want: []string{"null-pointer-access i"},
		},
		{
			name: "nil map write",
			src: `
func f() {
	var m map[string]int
	_ = m["a"]
	m["b"] = 1
}`,
			want: []string{"null-pointer-access m"},
		},
		{
			name: "nil slices are usable",
			src: `
func f() int {
	var s []int
	s = append(s, 1)
	var n int
	for _, v := range s {
		n += v
	}
	return n + len(s)
}`,
		},
		{
			name: "captured variables are not tracked",
			src: `
func f() int {
	var p *T
	set := func() { p = &T{} }
	set()
	return p.f
}`,
		},
		{
			name: "address taken",
			src: `
func g(pp **T) {}

func f() int {
	var p *T
	g(&p)
	return p.f
}`,
		},
		{
			name: "case nil narrows the tag",
			src: `
func f(p *T) int {
	switch p {
	case nil:
		return 0
	}
	if p != nil {
		return p.f
	}
	return 1
}`,
			want: []string{"redundant-null-check p"},
		},
		{
			name: "type switch nil case",
			src: `
func f(i I) {
	switch v := i.(type) {
	case nil:
		v.M()
	default:
		_ = v
	}
}`,
			want: []string{"null-pointer-access v"},
		},
		{
			name: "tuple results are unknown",
			src: `
func pair() (*T, error) { return nil, nil }

func f() int {
	p, err := pair()
	if err != nil {
		return 0
	}
	return p.f
}`,
		},
		{
			name: "named results start nil",
			src: `
func f() (p *T) {
	p.next = nil
	return
}`,
			want: []string{"null-pointer-access p"},
		},
		{
			name: "loop until non-nil",
			src: `
func f() int {
	var p *T
	for p == nil {
		p = &T{}
	}
	return p.f
}`,
		},
		{
			name: "break out of a switch in a loop",
			src: `
func f(xs []int) int {
	var p *T
	for _, x := range xs {
		switch x {
		case 0:
			break
		default:
			p = &T{}
		}
	}
	return p.f
}`,
			want: []string{"potential-null-pointer-access p"},
		},
		{
			name: "fallthrough",
			src: `
func f(x int) int {
	var p *T
	switch x {
	case 0:
		p = &T{}
		fallthrough
	case 1:
		return p.f
	}
	return 0
}`,
			want: []string{"potential-null-pointer-access p"},
		},
		{
			name: "panic ends the flow",
			src: `
func f(p *T) int {
	if p == nil {
		panic("nil")
	}
	if p != nil {
		return p.f
	}
	return 0
}`,
			want: []string{"redundant-null-check p"},
		},
		{
			name: "type assertion on nil interface",
			src: `
func f() int {
	var i I
	_ = i.(*T)
	return 0
}`,
			want: []string{"null-pointer-access i"},
		},
		{
			name: "nil function value",
			src: `
func f() {
	var fn func()
	fn()
}`,
			want: []string{"null-pointer-access fn"},
		},
		{
			name: "redundant nil assignment",
			src: `
func f() *T {
	var p *T
	p = nil
	return p
}`,
			want: []string{"redundant-assignment p"},
		},
		{
			name: "select",
			src: `
func f(ch chan *T) int {
	var p *T
	select {
	case v := <-ch:
		p = v
	default:
		p = &T{}
	}
	return p.f
}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, diagnose(t, _prelude+tt.src))
		})
	}
}

func TestNeverReturningCalls(t *testing.T) {
	t.Parallel()

	src := `package p

import "os"

type T struct{ f int }

func f(p *T) int {
	if p == nil {
		os.Exit(1)
	}
	if p != nil {
		return p.f
	}
	return 0
}
`
	require.Equal(t, []string{"redundant-null-check p"}, diagnose(t, src))
}

func TestMethods(t *testing.T) {
	t.Parallel()

	u, skipped := lower(t, _prelude+`
func f(p *T) func() int {
	g := func() int {
		h := func() int { return 1 }
		return h()
	}
	_ = g
	return func() int { return p.f }
}
`)
	require.Empty(t, skipped)
	require.Equal(t, "p", u.Name)

	var names []string
	for _, m := range u.Methods {
		names = append(names, m.Name)
	}
	require.Equal(t, []string{"(*T).Ptr", "(T).Val", "f", "f.func1", "f.func2", "f.func3"}, names)

	ptr := u.Methods[0]
	require.False(t, ptr.Static)
	require.Len(t, ptr.Params, 1)
	require.Equal(t, ir.VarParam, ptr.Params[0].Kind)
	require.Equal(t, ir.Reference, ptr.Params[0].Type.Kind)

	// The closure returning p.f reads the captured parameter, which is not tracked there.
	var captured *ir.Var
	ir.Inspect(u.Methods[4], func(n ir.Node) bool {
		if ref, ok := n.(*ir.VarRef); ok && ref.Var.Name == "p" {
			captured = ref.Var
		}
		return true
	})
	require.NotNil(t, captured)
	require.True(t, captured.Untracked)
}

func TestTypes(t *testing.T) {
	t.Parallel()

	u, skipped := lower(t, _prelude+`
func f(a int, b string, c []int, d map[int]int, e chan int, g func(), h I, i *T, j T, k error) {}
`)
	require.Empty(t, skipped)
	f := u.Methods[len(u.Methods)-1]
	require.Equal(t, ir.VoidT, f.Result)

	kinds := make(map[string]ir.TypeKind)
	for _, p := range f.Params {
		kinds[p.Name] = p.Type.Kind
	}
	require.Equal(t, map[string]ir.TypeKind{
		"a": ir.Primitive, "b": ir.Primitive, "c": ir.Reference, "d": ir.Reference, "e": ir.Reference,
		"g": ir.Reference, "h": ir.Reference, "i": ir.Reference, "j": ir.Primitive, "k": ir.Reference,
	}, kinds)
}

func TestUnsupported(t *testing.T) {
	t.Parallel()

	u, skipped := lower(t, _prelude+`
func f(p *T) int {
	if p == nil {
		goto end
	}
	return p.f
end:
	return 0
}
`)
	require.Len(t, skipped, 1)
	require.True(t, errors.Is(skipped[0], ErrUnsupported))
	require.Contains(t, skipped[0].Error(), "f: goto")
	for _, m := range u.Methods {
		require.NotEqual(t, "f", m.Name)
	}
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
