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

// TypeKind classifies a type by how the null analysis treats its values.
type TypeKind uint8

const (
	// Primitive values can never be null (int, boolean, Go structs...).
	Primitive TypeKind = iota
	// Boxed values are references that are converted to a primitive on use in numeric or
	// boolean contexts (Integer, Boolean...).
	Boxed
	// Reference values can be null.
	Reference
	// NullType is the type of the null literal.
	NullType
	// Void is the result type of calls that produce nothing.
	Void
)

// Type is a resolved static type. Types are compared by identity.
type Type struct {
	Name string
	Kind TypeKind
	// Super is the direct supertype of a reference type, nil for the root.
	Super *Type
	// Unboxed is the primitive counterpart of a boxed type.
	Unboxed *Type
}

// Nullable reports whether values of t can be null.
func (t *Type) Nullable() bool {
	if t == nil {
		return true
	}
	return t.Kind == Reference || t.Kind == Boxed || t.Kind == NullType
}

// IsBoxed reports whether t is a boxed primitive.
func (t *Type) IsBoxed() bool { return t != nil && t.Kind == Boxed }

// IsPrimitive reports whether t is a primitive type.
func (t *Type) IsPrimitive() bool { return t != nil && t.Kind == Primitive }

// IsSubtypeOf reports whether t is o or a (transitive) subtype of o.
func (t *Type) IsSubtypeOf(o *Type) bool {
	for c := t; c != nil; c = c.Super {
		if c == o {
			return true
		}
	}
	return false
}

// String returns the name of the type.
func (t *Type) String() string {
	if t == nil {
		return "<unknown>"
	}
	return t.Name
}

// NewClass returns a new reference type extending super.
func NewClass(name string, super *Type) *Type {
	return &Type{Name: name, Kind: Reference, Super: super}
}

// Predefined primitive types.
var (
	Int    = &Type{Name: "int", Kind: Primitive}
	Long   = &Type{Name: "long", Kind: Primitive}
	Short  = &Type{Name: "short", Kind: Primitive}
	Byte   = &Type{Name: "byte", Kind: Primitive}
	Char   = &Type{Name: "char", Kind: Primitive}
	Float  = &Type{Name: "float", Kind: Primitive}
	Double = &Type{Name: "double", Kind: Primitive}
	Bool   = &Type{Name: "boolean", Kind: Primitive}
	VoidT  = &Type{Name: "void", Kind: Void}
	NullT  = &Type{Name: "null", Kind: NullType}
	Object = &Type{Name: "Object", Kind: Reference}
	String = NewClass("String", Object)
)

// Predefined boxed types.
var (
	Integer   = &Type{Name: "Integer", Kind: Boxed, Super: Object, Unboxed: Int}
	LongBox   = &Type{Name: "Long", Kind: Boxed, Super: Object, Unboxed: Long}
	ShortBox  = &Type{Name: "Short", Kind: Boxed, Super: Object, Unboxed: Short}
	ByteBox   = &Type{Name: "Byte", Kind: Boxed, Super: Object, Unboxed: Byte}
	Character = &Type{Name: "Character", Kind: Boxed, Super: Object, Unboxed: Char}
	FloatBox  = &Type{Name: "Float", Kind: Boxed, Super: Object, Unboxed: Float}
	DoubleBox = &Type{Name: "Double", Kind: Boxed, Super: Object, Unboxed: Double}
	Boolean   = &Type{Name: "Boolean", Kind: Boxed, Super: Object, Unboxed: Bool}
)

// Predefined exception types.
var (
	Throwable            = NewClass("Throwable", Object)
	Exception            = NewClass("Exception", Throwable)
	RuntimeException     = NewClass("RuntimeException", Exception)
	Error                = NewClass("Error", Throwable)
	NullPointerException = NewClass("NullPointerException", RuntimeException)
)

// Unchecked lists the exception types every statement may throw.
var Unchecked = []*Type{RuntimeException, Error}

// Builtin returns the predefined type with the given name, if any.
func Builtin(name string) (*Type, bool) {
	t, ok := _builtins[name]
	return t, ok
}

var _builtins = func() map[string]*Type {
	m := make(map[string]*Type)
	for _, t := range []*Type{
		Int, Long, Short, Byte, Char, Float, Double, Bool, VoidT, NullT, Object, String,
		Integer, LongBox, ShortBox, ByteBox, Character, FloatBox, DoubleBox, Boolean,
		Throwable, Exception, RuntimeException, Error, NullPointerException,
	} {
		m[t.Name] = t
	}
	return m
}()
