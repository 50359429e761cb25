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


package analysishelper

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/tools/go/analysis"
)

const _src = `package p

import "os"

const debug = false

type T struct{}

func (T) M() {}

func f(p *int, t T) {
	_ = p == nil
	_ = !debug
	os.Exit(1)
	t.M()
	panic(p)
	_ = []byte("x")
	p = (nil)
}
`

// newTestEnhancedPass type-checks _src and returns a pass over it plus the expressions of f,
// in order: every assignment right-hand side and every call.
func newTestEnhancedPass(t *testing.T) (*EnhancedPass, []ast.Expr) {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", _src, 0)
	require.NoError(t, err)

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Uses:       make(map[*ast.Ident]types.Object),
		Defs:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
	conf := types.Config{Importer: importerFunc(func(path string) (*types.Package, error) {
		// Only os is imported; a fake with Exit is enough.
		pkg := types.NewPackage(path, "os")
		sig := types.NewSignatureType(nil, nil, nil, types.NewTuple(types.NewVar(token.NoPos, pkg, "code", types.Typ[types.Int])), nil, false)
		pkg.Scope().Insert(types.NewFunc(token.NoPos, pkg, "Exit", sig))
		pkg.MarkComplete()
		return pkg, nil
	})}
	_, err = conf.Check("p", fset, []*ast.File{file}, info)
	require.NoError(t, err)

	var exprs []ast.Expr
	for _, d := range file.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Name.Name != "f" {
			continue
		}
		for _, s := range fn.Body.List {
			switch s := s.(type) {
			case *ast.AssignStmt:
				exprs = append(exprs, s.Rhs[0])
			case *ast.ExprStmt:
				exprs = append(exprs, s.X)
			}
		}
	}
	return NewEnhancedPass(&analysis.Pass{TypesInfo: info}), exprs
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

func TestEnhancedPass(t *testing.T) {
	t.Parallel()

	pass, exprs := newTestEnhancedPass(t)
	require.Len(t, exprs, 7)

	cmp := exprs[0].(*ast.BinaryExpr)
	require.True(t, pass.IsNil(cmp.Y))
	require.False(t, pass.IsNil(cmp.X))
	require.True(t, pass.IsNil(exprs[6]))

	v, ok := pass.ConstBool(exprs[1])
	require.True(t, ok)
	require.True(t, v)
	_, ok = pass.ConstBool(exprs[0])
	require.False(t, ok)

	exit := exprs[2].(*ast.CallExpr)
	require.Equal(t, "os.Exit", pass.Callee(exit).FullName())
	require.False(t, pass.IsBuiltin(exit, "panic"))

	method := exprs[3].(*ast.CallExpr)
	require.Equal(t, "(p.T).M", pass.Callee(method).FullName())

	p := exprs[4].(*ast.CallExpr)
	require.Nil(t, pass.Callee(p))
	require.True(t, pass.IsBuiltin(p, "panic"))

	conv := exprs[5].(*ast.CallExpr)
	require.True(t, pass.IsConversion(conv))
	require.False(t, pass.IsConversion(exit))
	require.NotNil(t, pass.TypeOf(conv))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
