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

// Package narrowing holds the pure refinement rules that turn a boolean condition into the pair
// of flows of its true and false successor edges. The engine decides which rule applies to which
// expression; the rules themselves never look at the tree.
package narrowing

import (
	"go.uber.org/nullflow/flowinfo"
	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/lattice"
)

// Outcome is the pair of flows after a boolean condition.
type Outcome struct {
	WhenTrue  flowinfo.FlowInfo
	WhenFalse flowinfo.FlowInfo
}

// Same returns the outcome of a condition that narrows nothing.
func Same(f flowinfo.FlowInfo) Outcome {
	return Outcome{WhenTrue: f, WhenFalse: f}
}

// Constant returns the outcome of a constant condition: the edge that is never taken is dead.
func Constant(f flowinfo.FlowInfo, value bool) Outcome {
	if value {
		return Outcome{WhenTrue: f, WhenFalse: f.MarkUnreachable()}
	}
	return Outcome{WhenTrue: f.MarkUnreachable(), WhenFalse: f}
}

// Merged returns the flow after the condition regardless of its value.
func (o Outcome) Merged() flowinfo.FlowInfo {
	return o.WhenTrue.Merge(o.WhenFalse)
}

// Negate swaps the two edges (`!a`).
func (o Outcome) Negate() Outcome {
	return Outcome{WhenTrue: o.WhenFalse, WhenFalse: o.WhenTrue}
}

// And combines `a && b`, where b was analyzed under a.WhenTrue.
func And(a, b Outcome) Outcome {
	return Outcome{WhenTrue: b.WhenTrue, WhenFalse: a.WhenFalse.Merge(b.WhenFalse)}
}

// Or combines `a || b`, where b was analyzed under a.WhenFalse.
func Or(a, b Outcome) Outcome {
	return Outcome{WhenTrue: a.WhenTrue.Merge(b.WhenTrue), WhenFalse: b.WhenFalse}
}

// Conditional combines `c ? x : y` in boolean position, where x was analyzed under c.WhenTrue
// and y under c.WhenFalse.
func Conditional(x, y Outcome) Outcome {
	return Outcome{WhenTrue: x.WhenTrue.Merge(y.WhenTrue), WhenFalse: x.WhenFalse.Merge(y.WhenFalse)}
}

// Verdict is what the analysis knows about the value of a null comparison.
type Verdict uint8

const (
	// Undecided comparisons may go either way.
	Undecided Verdict = iota
	// AlwaysTrue comparisons are redundant.
	AlwaysTrue
	// AlwaysFalse comparisons can never succeed.
	AlwaysFalse
)

// NullComparison narrows `v == null` (eq) or `v != null` (!eq) for the variable in slot. When the
// tag of v already decides the comparison, the edge that cannot be taken is null-dead and the
// verdict tells which way it went; otherwise the variable is protected-null on the equal edge and
// protected-non-null on the other.
func NullComparison(f flowinfo.FlowInfo, slot ir.Slot, eq bool) (Outcome, Verdict) {
	tag := f.Get(slot)
	var isNull Outcome
	verdict := Undecided
	switch {
	case tag.IsDefinitelyNull():
		isNull = Outcome{WhenTrue: f, WhenFalse: f.MarkNullDead()}
		verdict = AlwaysTrue
	case tag.IsDefinitelyNonNull():
		isNull = Outcome{WhenTrue: f.MarkNullDead(), WhenFalse: f}
		verdict = AlwaysFalse
	default:
		isNull = Outcome{
			WhenTrue:  f.Narrow(slot, lattice.ProtectedNull),
			WhenFalse: f.Narrow(slot, lattice.Protected),
		}
	}

	if eq {
		return isNull, verdict
	}
	switch verdict {
	case AlwaysTrue:
		verdict = AlwaysFalse
	case AlwaysFalse:
		verdict = AlwaysTrue
	}
	return isNull.Negate(), verdict
}

// InstanceOf narrows `v instanceof T` for the variable in slot: v is non-null when the test
// succeeds. If v can only be null the test always fails, which is reported through the second
// result.
func InstanceOf(f flowinfo.FlowInfo, slot ir.Slot) (Outcome, bool) {
	if f.Get(slot).IsDefinitelyNull() {
		return Outcome{WhenTrue: f.MarkNullDead(), WhenFalse: f}, true
	}
	return Outcome{WhenTrue: f.Narrow(slot, lattice.NonNull), WhenFalse: f}, false
}

// Assert returns the flow after `assert cond`, given the flow in before the statement and the
// outcome of cond. Null information from the true edge is kept only when enabled; definite
// assignment is always the one before the statement, since assertions may be disabled at run
// time.
func Assert(in flowinfo.FlowInfo, o Outcome, enabled bool) flowinfo.FlowInfo {
	if !enabled || !o.WhenTrue.IsLive() {
		return in
	}
	return o.WhenTrue.WithAssignmentsFrom(in)
}
