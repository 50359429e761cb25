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

package diagnostic

import (
	"fmt"
	"strings"
)

// Kind is the kind of a diagnostic. Every kind can be configured independently.
type Kind uint8

const (
	// NullPointerAccess is a dereference of a value that can only be null.
	NullPointerAccess Kind = iota
	// PotentialNullPointerAccess is a dereference of a value that may be null.
	PotentialNullPointerAccess
	// RedundantNullCheck is a null comparison whose result is always true.
	RedundantNullCheck
	// ImpossibleNullComparison is a null comparison whose result is always false.
	ImpossibleNullComparison
	// InstanceofAlwaysFalse is an instanceof test of a value that can only be null.
	InstanceofAlwaysFalse
	// RedundantAssignment assigns null to a variable that can only be null already.
	RedundantAssignment
	// UnboxingNPE is an auto-unboxing of a value that can only be null.
	UnboxingNPE
	// PotentialUnboxingNPE is an auto-unboxing of a value that may be null.
	PotentialUnboxingNPE
	// DeadCode is a branch that can never execute.
	DeadCode
	// UninitializedLocal is a read of a local variable that is not definitely assigned.
	UninitializedLocal

	numKinds
)

var _kindNames = [numKinds]string{
	NullPointerAccess:          "null-pointer-access",
	PotentialNullPointerAccess: "potential-null-pointer-access",
	RedundantNullCheck:         "redundant-null-check",
	ImpossibleNullComparison:   "impossible-null-comparison",
	InstanceofAlwaysFalse:      "instanceof-always-false",
	RedundantAssignment:        "redundant-assignment",
	UnboxingNPE:                "unboxing-npe",
	PotentialUnboxingNPE:       "potential-unboxing-npe",
	DeadCode:                   "dead-code",
	UninitializedLocal:         "uninitialized-local",
}

// AllKinds returns every kind, in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the configuration name of the kind, e.g. "null-pointer-access".
func (k Kind) String() string {
	if k < numKinds {
		return _kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a configuration name.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range _kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown diagnostic kind %q", s)
}

// IsNullFamily reports whether the kind is one of the null-analysis kinds that the "null"
// suppression token silences.
func (k Kind) IsNullFamily() bool {
	return k <= PotentialUnboxingNPE
}

// Severity is how a diagnostic kind is reported.
type Severity uint8

const (
	// Ignore drops diagnostics of the kind.
	Ignore Severity = iota
	// Warning reports diagnostics without failing the build.
	Warning
	// Error reports diagnostics as errors.
	Error
)

// String returns the configuration name of the severity.
func (s Severity) String() string {
	switch s {
	case Ignore:
		return "ignore"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// ParseSeverity parses "ignore", "warning" (or "warn") and "error".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "off":
		return Ignore, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

// DefaultSeverities returns the severity of every kind when nothing is configured.
func DefaultSeverities() map[Kind]Severity {
	m := make(map[Kind]Severity, numKinds)
	for _, k := range AllKinds() {
		m[k] = Warning
	}
	m[UninitializedLocal] = Error
	return m
}

// SubjectKind tells what a diagnostic is about.
type SubjectKind uint8

const (
	// SubjectVariable is a local variable or parameter.
	SubjectVariable SubjectKind = iota
	// SubjectField is a constant field.
	SubjectField
	// SubjectThis is the `this` expression.
	SubjectThis
	// SubjectExpression is any other expression, described by its type.
	SubjectExpression
)

// Subject describes the value a diagnostic is about.
type Subject struct {
	Kind SubjectKind
	// Name of the variable or field.
	Name string
	// Type of the expression, for unboxing diagnostics and SubjectExpression.
	Type string
	// Null tells whether the value is known to be null (as opposed to non-null) for kinds that
	// can go either way (RedundantNullCheck and ImpossibleNullComparison).
	Null bool
}

// Var returns the subject for a variable.
func Var(name string) Subject { return Subject{Kind: SubjectVariable, Name: name} }

// Expression returns the subject for an expression of the given type.
func Expression(typ string) Subject { return Subject{Kind: SubjectExpression, Type: typ} }

// Message returns the message of a diagnostic of the given kind about s.
func Message(kind Kind, s Subject) string {
	onlyNull := "can only be null"
	if !s.Null {
		onlyNull = "cannot be null"
	}
	// Wording of the "cannot be null" side for non-variable subjects.
	staticDesc := func() string {
		if s.Kind == SubjectField {
			return fmt.Sprintf("The field %s is a nonnull constant", s.Name)
		}
		return "this expression cannot be null"
	}

	switch kind {
	case NullPointerAccess:
		if s.Kind == SubjectExpression {
			return fmt.Sprintf("Null pointer access: This expression of type %s is null", s.Type)
		}
		return fmt.Sprintf("Null pointer access: The variable %s can only be null at this location", s.Name)
	case PotentialNullPointerAccess:
		if s.Kind == SubjectExpression {
			return fmt.Sprintf("Potential null pointer access: This expression of type %s may be null", s.Type)
		}
		return fmt.Sprintf("Potential null pointer access: The variable %s may be null at this location", s.Name)
	case RedundantNullCheck:
		if s.Kind != SubjectVariable {
			return "Redundant null check: " + staticDesc()
		}
		return fmt.Sprintf("Redundant null check: The variable %s %s at this location", s.Name, onlyNull)
	case ImpossibleNullComparison:
		if s.Kind != SubjectVariable {
			return "Null comparison always yields false: " + staticDesc()
		}
		return fmt.Sprintf("Null comparison always yields false: The variable %s %s at this location", s.Name, onlyNull)
	case InstanceofAlwaysFalse:
		return fmt.Sprintf("instanceof always yields false: The variable %s can only be null at this location", s.Name)
	case RedundantAssignment:
		return fmt.Sprintf("Redundant assignment: The variable %s can only be null at this location", s.Name)
	case UnboxingNPE:
		return fmt.Sprintf("Null pointer access: This expression of type %s is null but requires auto-unboxing", s.Type)
	case PotentialUnboxingNPE:
		return fmt.Sprintf("Potential null pointer access: This expression of type %s may be null but requires auto-unboxing", s.Type)
	case DeadCode:
		return "Dead code"
	case UninitializedLocal:
		return fmt.Sprintf("The local variable %s may not have been initialized", s.Name)
	}
	return kind.String()
}
