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
	"go/constant"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/types/typeutil"
)

// EnhancedPass is an *analysis.Pass with helpers answering type questions about expressions.
type EnhancedPass struct {
	*analysis.Pass
}

// NewEnhancedPass wraps pass.
func NewEnhancedPass(pass *analysis.Pass) *EnhancedPass {
	return &EnhancedPass{Pass: pass}
}

// IsNil reports whether expr is the predeclared nil (possibly parenthesized).
func (p *EnhancedPass) IsNil(expr ast.Expr) bool {
	tv, ok := p.TypesInfo.Types[astutil.Unparen(expr)]
	return ok && tv.IsNil()
}

// ConstBool returns the value of expr when it is a boolean constant, e.g. `true` or `!debug`
// for a constant debug.
func (p *EnhancedPass) ConstBool(expr ast.Expr) (value, ok bool) {
	tv, found := p.TypesInfo.Types[expr]
	if !found || tv.Value == nil || tv.Value.Kind() != constant.Bool {
		return false, false
	}
	return constant.BoolVal(tv.Value), true
}

// TypeOf returns the type of expr, or nil if it has none (e.g. a package name).
func (p *EnhancedPass) TypeOf(expr ast.Expr) types.Type {
	return p.TypesInfo.TypeOf(expr)
}

// Callee returns the function or method called by call, including interface methods. It
// returns nil for builtins, conversions and calls of function values.
func (p *EnhancedPass) Callee(call *ast.CallExpr) *types.Func {
	fn, _ := typeutil.Callee(p.TypesInfo, call).(*types.Func)
	return fn
}

// IsBuiltin reports whether call calls the builtin function with the given name.
func (p *EnhancedPass) IsBuiltin(call *ast.CallExpr, name string) bool {
	b, ok := typeutil.Callee(p.TypesInfo, call).(*types.Builtin)
	return ok && b.Name() == name
}

// IsConversion reports whether call is a type conversion such as `[]byte(s)`.
func (p *EnhancedPass) IsConversion(call *ast.CallExpr) bool {
	tv, ok := p.TypesInfo.Types[astutil.Unparen(call.Fun)]
	return ok && tv.IsType()
}
