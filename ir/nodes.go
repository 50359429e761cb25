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

// Package ir defines the resolved statement/expression tree consumed by the null-flow engine.
// The tree is a tagged union: every node kind is a distinct struct and consumers dispatch with
// type switches. Nodes carry no analysis state.
package ir

import "go/token"

// Range is the source extent of a node.
type Range struct {
	Start, End token.Pos
}

// Span returns the range itself, so that every node embedding a Range implements Node.
func (r Range) Span() Range { return r }

// Node is any expression or statement.
type Node interface {
	Span() Range
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Slot identifies a tracked variable within one method. Slots are 1-based; the zero Slot means
// "not yet assigned" (see AssignSlots).
type Slot int

// VarKind tells where a variable is declared.
type VarKind uint8

const (
	// VarLocal is a local variable declared by a LocalDecl, ForEach or InstanceOf binding.
	VarLocal VarKind = iota
	// VarParam is a method parameter, definitely assigned at method entry.
	VarParam
	// VarCatch is the parameter of a catch clause.
	VarCatch
	// VarResource is a try-with-resources variable.
	VarResource
)

// Var is a resolved variable. Variable identity is pointer identity.
type Var struct {
	Name string
	Slot Slot
	Type *Type
	Kind VarKind
	// Untracked variables (captured by closures, address taken...) are never narrowed; they always
	// read as Unknown and are never checked for definite assignment.
	Untracked bool
}

// Field is a resolved field. Field nullability is never tracked.
type Field struct {
	Name   string
	Type   *Type
	Static bool
	// Constant marks a compile-time constant field initialized to a non-null value.
	Constant bool
}

// ---- Expressions ----

// NullLit is the null literal.
type NullLit struct{ Range }

// BoolLit is true or false.
type BoolLit struct {
	Range
	Value bool
}

// NumberLit is a numeric or character literal.
type NumberLit struct {
	Range
	Value string
	Type  *Type
}

// StringLit is a string literal.
type StringLit struct {
	Range
	Value string
}

// This is the receiver of an instance method.
type This struct {
	Range
	Type *Type
}

// VarRef reads (or, on the left of an Assign, writes) a variable.
type VarRef struct {
	Range
	Var *Var
}

// FieldRef accesses a field. A non-nil Recv is dereferenced.
type FieldRef struct {
	Range
	Recv  Expr
	Field *Field
}

// Index is an array element access. X is dereferenced and Index unboxed.
type Index struct {
	Range
	X     Expr
	Index Expr
	Type  *Type
}

// New allocates an object; the result is non-null.
type New struct {
	Range
	Type *Type
	Args []Expr
	// Params are the parameter types of the selected constructor, used for argument unboxing.
	Params []*Type
	// Throws lists the declared exception types of the constructor.
	Throws []*Type
}

// NewArray allocates an array; the result is non-null.
type NewArray struct {
	Range
	Type  *Type
	Dims  []Expr
	Elems []Expr
}

// Call invokes a method. A non-nil Recv is dereferenced unless Static is set.
type Call struct {
	Range
	Recv   Expr
	Name   string
	Args   []Expr
	Params []*Type
	Result *Type
	Throws []*Type
	// Exits marks calls that never return (System.exit, os.Exit, log.Fatal...).
	Exits  bool
	Static bool
}

// Assign is `LHS = RHS` when Op is token.ASSIGN, or a compound assignment such as `LHS += RHS`.
type Assign struct {
	Range
	Op  token.Token
	LHS Expr
	RHS Expr
}

// IncDec is `X++` / `X--` (Tok is token.INC or token.DEC), prefix or postfix.
type IncDec struct {
	Range
	Tok     token.Token
	X       Expr
	Postfix bool
}

// Unary is a prefix operator: token.NOT, token.SUB, token.ADD or token.XOR (bitwise complement).
type Unary struct {
	Range
	Op   token.Token
	X    Expr
	Type *Type
}

// Binary is an infix operator using go/token operator tokens (EQL, NEQ, LAND, LOR, ADD...).
type Binary struct {
	Range
	Op   token.Token
	X, Y Expr
	Type *Type
}

// InstanceOf is `X instanceof Type`, optionally binding a pattern variable.
type InstanceOf struct {
	Range
	X       Expr
	Type    *Type
	Binding *Var
}

// Cond is the conditional expression `C ? T : F`.
type Cond struct {
	Range
	C, T, F Expr
	Type    *Type
}

// Cast converts X to Type.
type Cast struct {
	Range
	X    Expr
	Type *Type
}

// Paren is a parenthesized expression.
type Paren struct {
	Range
	X Expr
}

// Deref is an explicit dereference of X (`*p` in Go) producing a value of Type.
type Deref struct {
	Range
	X    Expr
	Type *Type
}

// Opaque is an expression the engine does not model. Its operands are evaluated in order and
// its value is Unknown, or NonNull when NonNull is set.
type Opaque struct {
	Range
	Type     *Type
	NonNull  bool
	Operands []Expr
}

func (*NullLit) exprNode()    {}
func (*BoolLit) exprNode()    {}
func (*NumberLit) exprNode()  {}
func (*StringLit) exprNode()  {}
func (*This) exprNode()       {}
func (*VarRef) exprNode()     {}
func (*FieldRef) exprNode()   {}
func (*Index) exprNode()      {}
func (*New) exprNode()        {}
func (*NewArray) exprNode()   {}
func (*Call) exprNode()       {}
func (*Assign) exprNode()     {}
func (*IncDec) exprNode()     {}
func (*Unary) exprNode()      {}
func (*Binary) exprNode()     {}
func (*InstanceOf) exprNode() {}
func (*Cond) exprNode()       {}
func (*Cast) exprNode()       {}
func (*Paren) exprNode()      {}
func (*Deref) exprNode()      {}
func (*Opaque) exprNode()     {}

// ---- Statements ----

// Block is a sequence of statements with its own scope.
type Block struct {
	Range
	Stmts []Stmt
}

// LocalDecl declares a local variable, with an optional initializer.
type LocalDecl struct {
	Range
	Var  *Var
	Init Expr
	// Suppress holds @SuppressWarnings tokens attached to the declaration.
	Suppress []string
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Range
	X Expr
}

// If is `if (Cond) Then else Else`; Else may be nil.
type If struct {
	Range
	Cond Expr
	Then Stmt
	Else Stmt
}

// While is `while (Cond) Body`.
type While struct {
	Range
	Cond Expr
	Body Stmt
}

// DoWhile is `do Body while (Cond)`.
type DoWhile struct {
	Range
	Body Stmt
	Cond Expr
}

// For is `for (Init; Cond; Update) Body`. A nil Cond loops forever.
type For struct {
	Range
	Init   []Stmt
	Cond   Expr
	Update []Expr
	Body   Stmt
}

// ForEach is `for (Var : X) Body`.
type ForEach struct {
	Range
	Var  *Var
	X    Expr
	Body Stmt
}

// Switch selects among Cases by the value of Tag. A nil Tag means the selector has no
// nullability significance and case entries only merge fall-through flows.
type Switch struct {
	Range
	Tag   Expr
	Cases []*Case
}

// Case is one case group of a Switch; a Default case may also carry Exprs.
type Case struct {
	Range
	Exprs   []Expr
	Default bool
	Body    []Stmt
}

// Break exits the innermost loop or switch, or the labeled statement named Label.
type Break struct {
	Range
	Label string
}

// Continue restarts the innermost loop, or the loop labeled Label.
type Continue struct {
	Range
	Label string
}

// Return exits the method; X may be nil.
type Return struct {
	Range
	X Expr
}

// Throw raises the exception X.
type Throw struct {
	Range
	X Expr
}

// Try is try/catch/finally, with optional resources. Finally may be nil.
type Try struct {
	Range
	Resources []*LocalDecl
	Body      *Block
	Catches   []*Catch
	Finally   *Block
}

// Catch is one catch clause; Types lists the alternatives of a multi-catch.
type Catch struct {
	Range
	Param *Var
	Types []*Type
	Body  *Block
}

// Labeled attaches Label to Body.
type Labeled struct {
	Range
	Label string
	Body  Stmt
}

// Assert is `assert Cond : Message`; Message may be nil.
type Assert struct {
	Range
	Cond    Expr
	Message Expr
}

// Sync is `synchronized (Lock) Body`. Lock is dereferenced.
type Sync struct {
	Range
	Lock Expr
	Body *Block
}

// Empty is the empty statement.
type Empty struct{ Range }

func (*Block) stmtNode()     {}
func (*LocalDecl) stmtNode() {}
func (*ExprStmt) stmtNode()  {}
func (*If) stmtNode()        {}
func (*While) stmtNode()     {}
func (*DoWhile) stmtNode()   {}
func (*For) stmtNode()       {}
func (*ForEach) stmtNode()   {}
func (*Switch) stmtNode()    {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode()  {}
func (*Return) stmtNode()    {}
func (*Throw) stmtNode()     {}
func (*Try) stmtNode()       {}
func (*Labeled) stmtNode()   {}
func (*Assert) stmtNode()    {}
func (*Sync) stmtNode()      {}
func (*Empty) stmtNode()     {}

// ---- Declarations ----

// Method is one analyzable body: a method, constructor or initializer.
type Method struct {
	Range
	Name     string
	Params   []*Var
	Result   *Type
	Body     *Block
	Static   bool
	Suppress []string
}

// Unit is a compilation unit: the methods of one source file or Go package.
type Unit struct {
	Name     string
	File     string
	Methods  []*Method
	Suppress []string
}
