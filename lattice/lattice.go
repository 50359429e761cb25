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

// Package lattice implements the nullability domain attached to every tracked slot.
//
// A NullTag is the set of origins a value may come from (a null assignment, a non-null
// assignment, or a source the analysis knows nothing about), plus a "protected" marker recording
// that the current state was established by a dereference or a comparison. Join is set union, so
// the lattice is a finite join-semilattice whose bottom is Unassigned (no origin at all) and whose
// top is PotentialAny. Non-singleton states that contain the unknown origin are kept distinct
// (PotentialNonNull is not Unknown), which is what lets a loop keep "non-null on the first
// iteration" information instead of collapsing to no information.
package lattice

import "strings"

// NullTag is a nullability state.
type NullTag uint8

const (
	nullBit NullTag = 1 << iota
	nonNullBit
	unknownBit
	protectedBit

	originMask = nullBit | nonNullBit | unknownBit
)

const (
	// Unassigned means no path assigned the slot yet. It is the identity of Join.
	Unassigned NullTag = 0
	// Null is definitely null.
	Null = nullBit
	// NonNull is definitely non-null.
	NonNull = nonNullBit
	// Unknown carries no information (parameters, call results, fields).
	Unknown = unknownBit
	// PotentialNull is null on some path and non-null on another.
	PotentialNull = nullBit | nonNullBit
	// PotentialNullUnknown is null on some path and unknown on another.
	PotentialNullUnknown = nullBit | unknownBit
	// PotentialNonNull is non-null on some path and unknown on another.
	PotentialNonNull = nonNullBit | unknownBit
	// PotentialAny may come from any origin.
	PotentialAny = nullBit | nonNullBit | unknownBit
	// Protected is non-null because a dereference or a comparison already established it.
	Protected = nonNullBit | protectedBit
	// ProtectedNull is null because a `== null` comparison established it.
	ProtectedNull = nullBit | protectedBit
)

// Join returns the least upper bound of a and b. Origins are unioned; the protected marker
// survives only when both sides carry the same protected state.
func Join(a, b NullTag) NullTag {
	if a == Unassigned {
		return b
	}
	if b == Unassigned {
		return a
	}
	if a == b {
		return a
	}
	return (a | b) & originMask
}

// Protect returns the protected counterpart of a definite tag. Other tags are returned as is.
func Protect(t NullTag) NullTag {
	switch t & originMask {
	case nullBit:
		return ProtectedNull
	case nonNullBit:
		return Protected
	}
	return t
}

// Unprotect drops the protected marker. Values copied into another variable are not protected
// there.
func Unprotect(t NullTag) NullTag { return t &^ protectedBit }

// IsDefinitelyNull reports whether the value can only be null.
func (t NullTag) IsDefinitelyNull() bool { return t&originMask == nullBit }

// IsDefinitelyNonNull reports whether the value cannot be null.
func (t NullTag) IsDefinitelyNonNull() bool { return t&originMask == nonNullBit }

// CannotBeNull is an alias of IsDefinitelyNonNull matching the wording of redundant-check
// diagnostics.
func (t NullTag) CannotBeNull() bool { return t.IsDefinitelyNonNull() }

// MayBeNull reports whether null is one of the possible origins, definite or not.
func (t NullTag) MayBeNull() bool { return t&nullBit != 0 }

// IsPotentiallyNull reports whether the value is null on some but not all paths.
func (t NullTag) IsPotentiallyNull() bool { return t.MayBeNull() && !t.IsDefinitelyNull() }

// IsUnknown reports whether the analysis has no information at all.
func (t NullTag) IsUnknown() bool { return t&originMask == unknownBit }

// IsProtected reports whether the state was established by a dereference or a comparison.
func (t NullTag) IsProtected() bool { return t&protectedBit != 0 }

// IsUnassigned reports whether no origin reaches the slot.
func (t NullTag) IsUnassigned() bool { return t&originMask == 0 }

var _names = map[NullTag]string{
	Unassigned:           "unassigned",
	Null:                 "null",
	NonNull:              "nonnull",
	Unknown:              "unknown",
	PotentialNull:        "potential-null",
	PotentialNullUnknown: "potential-null-unknown",
	PotentialNonNull:     "potential-nonnull",
	PotentialAny:         "potential-any",
	Protected:            "protected-nonnull",
	ProtectedNull:        "protected-null",
}

// String returns a short name of the tag, used in trace logs and tests.
func (t NullTag) String() string {
	if s, ok := _names[t]; ok {
		return s
	}
	var parts []string
	for i, name := range []string{"null", "nonnull", "unknown", "protected"} {
		if t&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}
