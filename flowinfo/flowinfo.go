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

// Package flowinfo implements FlowInfo, the immutable per-program-point state of the null-flow
// analysis: the nullability tag and definite-assignment bit of every tracked slot, plus the
// reachability of the point.
//
// FlowInfo is a small value type wrapping a persistent sorted map, so that copying a FlowInfo to
// two successor edges is free and updating one edge never affects the other.
package flowinfo

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/lattice"
)

// Reach is the reachability of a program point.
type Reach uint8

const (
	// Live points are reachable and analyzed normally.
	Live Reach = iota
	// NullDead points are reachable for the compiler but impossible according to null analysis,
	// e.g., the then-branch of `if (o == null)` when o is known non-null. They keep
	// definite-assignment information and never produce null diagnostics.
	NullDead
	// Dead points are unreachable: after return/throw/break/continue or behind a constant-false
	// condition.
	Dead
)

// String returns the name of the reachability.
func (r Reach) String() string {
	switch r {
	case Live:
		return "live"
	case NullDead:
		return "nulldead"
	case Dead:
		return "dead"
	}
	return fmt.Sprintf("Reach(%d)", int(r))
}

type slotState struct {
	tag lattice.NullTag
	// assigned is the definite-assignment bit.
	assigned bool
	// checked records that a null check of the slot was already reported on this path.
	checked bool
}

type slotComparer struct{}

func (slotComparer) Compare(a, b ir.Slot) int { return cmp.Compare(a, b) }

var _empty = immutable.NewSortedMap[ir.Slot, slotState](slotComparer{})

// FlowInfo is the analysis state at one program point. The zero value is a live state with no
// slot.
type FlowInfo struct {
	reach Reach
	slots *immutable.SortedMap[ir.Slot, slotState]
}

// New returns a live state with no slot.
func New() FlowInfo {
	return FlowInfo{reach: Live, slots: _empty}
}

// Unreachable returns a dead state. It is the identity of Merge.
func Unreachable() FlowInfo {
	return FlowInfo{reach: Dead, slots: _empty}
}

func (f FlowInfo) m() *immutable.SortedMap[ir.Slot, slotState] {
	if f.slots == nil {
		return _empty
	}
	return f.slots
}

// Reach returns the reachability of the state.
func (f FlowInfo) Reach() Reach { return f.reach }

// IsLive reports whether the point is reachable and not excluded by null analysis.
func (f FlowInfo) IsLive() bool { return f.reach == Live }

// IsDead reports whether the point is unreachable.
func (f FlowInfo) IsDead() bool { return f.reach == Dead }

// IsNullDead reports whether the point is only impossible according to null analysis.
func (f FlowInfo) IsNullDead() bool { return f.reach == NullDead }

// MarkUnreachable returns the dead state that follows an abrupt completion.
func (f FlowInfo) MarkUnreachable() FlowInfo {
	return Unreachable()
}

// MarkNullDead returns f marked as impossible according to null analysis. A dead state stays
// dead.
func (f FlowInfo) MarkNullDead() FlowInfo {
	if f.reach == Dead {
		return f
	}
	return FlowInfo{reach: NullDead, slots: f.m()}
}

// Declare brings slot into scope, not yet assigned.
func (f FlowInfo) Declare(slot ir.Slot) FlowInfo {
	if f.reach == Dead {
		return f
	}
	return FlowInfo{reach: f.reach, slots: f.m().Set(slot, slotState{tag: lattice.Unassigned})}
}

// Assign returns f with slot set to tag and definitely assigned. Any previously reported check
// of the slot is forgotten.
func (f FlowInfo) Assign(slot ir.Slot, tag lattice.NullTag) FlowInfo {
	if f.reach == Dead {
		return f
	}
	return FlowInfo{reach: f.reach, slots: f.m().Set(slot, slotState{tag: tag, assigned: true})}
}

// Narrow refines the tag of slot without touching its definite-assignment bit.
func (f FlowInfo) Narrow(slot ir.Slot, tag lattice.NullTag) FlowInfo {
	if f.reach == Dead {
		return f
	}
	s, _ := f.m().Get(slot)
	s.tag = tag
	return FlowInfo{reach: f.reach, slots: f.m().Set(slot, s)}
}

// Get returns the tag of slot; Unknown for slots that are out of scope or never assigned.
func (f FlowInfo) Get(slot ir.Slot) lattice.NullTag {
	s, ok := f.m().Get(slot)
	if !ok || s.tag.IsUnassigned() {
		return lattice.Unknown
	}
	return s.tag
}

// Lookup returns the raw tag of slot and whether the slot is in scope.
func (f FlowInfo) Lookup(slot ir.Slot) (lattice.NullTag, bool) {
	s, ok := f.m().Get(slot)
	return s.tag, ok
}

// IsDefinitelyAssigned reports whether slot is assigned on every path reaching the point. Every
// slot is vacuously assigned in a dead state.
func (f FlowInfo) IsDefinitelyAssigned(slot ir.Slot) bool {
	if f.reach == Dead {
		return true
	}
	s, ok := f.m().Get(slot)
	return ok && s.assigned
}

// DiscardSlot removes slot at the end of its scope.
func (f FlowInfo) DiscardSlot(slot ir.Slot) FlowInfo {
	if f.reach == Dead {
		return f
	}
	return FlowInfo{reach: f.reach, slots: f.m().Delete(slot)}
}

// MarkCheckReported records that a null check of slot has been reported on this path, so that
// an identical nested check is not reported again.
func (f FlowInfo) MarkCheckReported(slot ir.Slot) FlowInfo {
	s, ok := f.m().Get(slot)
	if f.reach == Dead || !ok {
		return f
	}
	s.checked = true
	return FlowInfo{reach: f.reach, slots: f.m().Set(slot, s)}
}

// CheckReported reports whether MarkCheckReported was called for slot on this path.
func (f FlowInfo) CheckReported(slot ir.Slot) bool {
	s, ok := f.m().Get(slot)
	return ok && s.checked
}

// WithAssignmentsFrom returns the tags of f restricted to the slots in scope in scope, with the
// definite-assignment bits of scope. It builds the entry state of catch and finally blocks,
// whose definite assignment is the one before the try statement.
func (f FlowInfo) WithAssignmentsFrom(scope FlowInfo) FlowInfo {
	if f.reach == Dead {
		return f
	}
	if scope.reach == Dead {
		return scope
	}
	out := _empty
	itr := scope.m().Iterator()
	for !itr.Done() {
		slot, ss, _ := itr.Next()
		s, ok := f.m().Get(slot)
		if !ok {
			s = ss
		}
		s.assigned = ss.assigned
		s.checked = false
		out = out.Set(slot, s)
	}
	return FlowInfo{reach: f.reach, slots: out}
}

// Merge joins two states reaching the same point. A dead input yields the other one; a null-dead
// input only contributes definite-assignment bits unless both are null-dead. Reported checks never
// survive a merge. Merge is associative and commutative.
func (f FlowInfo) Merge(o FlowInfo) FlowInfo {
	switch {
	case f.reach == Dead:
		return o.clearChecked()
	case o.reach == Dead:
		return f.clearChecked()
	}

	reach := Live
	if f.reach == NullDead && o.reach == NullDead {
		reach = NullDead
	}
	fTags := f.reach == Live || reach == NullDead
	oTags := o.reach == Live || reach == NullDead

	out := _empty
	join := func(slot ir.Slot, a, b slotState, inA, inB bool) {
		var s slotState
		if inA && fTags {
			s.tag = a.tag
		}
		if inB && oTags {
			s.tag = lattice.Join(s.tag, b.tag)
		}
		s.assigned = inA && inB && a.assigned && b.assigned
		out = out.Set(slot, s)
	}

	fa, oa := entries(f.m()), entries(o.m())
	i, j := 0, 0
	for i < len(fa) || j < len(oa) {
		switch {
		case j >= len(oa) || (i < len(fa) && fa[i].slot < oa[j].slot):
			join(fa[i].slot, fa[i].state, slotState{}, true, false)
			i++
		case i >= len(fa) || oa[j].slot < fa[i].slot:
			join(oa[j].slot, slotState{}, oa[j].state, false, true)
			j++
		default:
			join(fa[i].slot, fa[i].state, oa[j].state, true, true)
			i++
			j++
		}
	}
	return FlowInfo{reach: reach, slots: out}
}

func (f FlowInfo) clearChecked() FlowInfo {
	out := f.m()
	for _, e := range entries(out) {
		if e.state.checked {
			e.state.checked = false
			out = out.Set(e.slot, e.state)
		}
	}
	if out == f.m() {
		return f
	}
	return FlowInfo{reach: f.reach, slots: out}
}

// Equal reports whether f and o are the same state.
func (f FlowInfo) Equal(o FlowInfo) bool {
	if f.reach != o.reach {
		return false
	}
	fa, oa := entries(f.m()), entries(o.m())
	if len(fa) != len(oa) {
		return false
	}
	for i := range fa {
		if fa[i] != oa[i] {
			return false
		}
	}
	return true
}

// Slots returns the slots in scope, in increasing order.
func (f FlowInfo) Slots() []ir.Slot {
	es := entries(f.m())
	slots := make([]ir.Slot, 0, len(es))
	for _, e := range es {
		slots = append(slots, e.slot)
	}
	return slots
}

// String renders the state for trace logs, e.g. `live{1:nonnull 2:null?}` where `?` marks a
// slot that is not definitely assigned.
func (f FlowInfo) String() string {
	var sb strings.Builder
	sb.WriteString(f.reach.String())
	sb.WriteByte('{')
	for i, e := range entries(f.m()) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d:%s", e.slot, e.state.tag)
		if !e.state.assigned {
			sb.WriteByte('?')
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

type entry struct {
	slot  ir.Slot
	state slotState
}

func entries(m *immutable.SortedMap[ir.Slot, slotState]) []entry {
	out := make([]entry, 0, m.Len())
	itr := m.Iterator()
	for !itr.Done() {
		slot, s, _ := itr.Next()
		out = append(out, entry{slot: slot, state: s})
	}
	return out
}
