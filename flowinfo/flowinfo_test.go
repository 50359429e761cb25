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

package flowinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/lattice"
)

func TestAssignAndGet(t *testing.T) {
	t.Parallel()

	f := New().Declare(1)
	require.Equal(t, lattice.Unknown, f.Get(1))
	require.False(t, f.IsDefinitelyAssigned(1))
	require.Equal(t, lattice.Unknown, f.Get(42))

	g := f.Assign(1, lattice.Null)
	require.Equal(t, lattice.Null, g.Get(1))
	require.True(t, g.IsDefinitelyAssigned(1))

	// f is untouched.
	require.False(t, f.IsDefinitelyAssigned(1))

	h := g.Narrow(1, lattice.Protected).DiscardSlot(1)
	_, ok := h.Lookup(1)
	require.False(t, ok)
}

func TestNarrowKeepsAssignment(t *testing.T) {
	t.Parallel()

	f := New().Declare(1).Narrow(1, lattice.NonNull)
	require.Equal(t, lattice.NonNull, f.Get(1))
	require.False(t, f.IsDefinitelyAssigned(1))
}

func TestMergeDeadIsIdentity(t *testing.T) {
	t.Parallel()

	f := New().Assign(1, lattice.NonNull)
	require.True(t, f.Merge(Unreachable()).Equal(f))
	require.True(t, Unreachable().Merge(f).Equal(f))
	require.True(t, f.MarkUnreachable().IsDead())
	require.True(t, f.MarkUnreachable().IsDefinitelyAssigned(7))
}

func TestMergeJoinsTags(t *testing.T) {
	t.Parallel()

	base := New().Declare(1).Declare(2)
	a := base.Assign(1, lattice.Null).Assign(2, lattice.NonNull)
	b := base.Assign(1, lattice.NonNull)

	m := a.Merge(b)
	require.True(t, m.IsLive())
	require.Equal(t, lattice.PotentialNull, m.Get(1))
	require.True(t, m.IsDefinitelyAssigned(1))
	require.False(t, m.IsDefinitelyAssigned(2))
	raw, ok := m.Lookup(2)
	require.True(t, ok)
	require.Equal(t, lattice.NonNull, raw)
}

func TestMergeNullDead(t *testing.T) {
	t.Parallel()

	base := New().Declare(1).Declare(2)
	live := base.Assign(1, lattice.NonNull)
	impossible := base.Assign(1, lattice.Null).Assign(2, lattice.Null).MarkNullDead()

	m := live.Merge(impossible)
	require.True(t, m.IsLive())
	// No null information from the null-dead side.
	require.Equal(t, lattice.NonNull, m.Get(1))
	require.True(t, m.IsDefinitelyAssigned(1))
	// Definite assignment is still an intersection.
	require.False(t, m.IsDefinitelyAssigned(2))

	both := impossible.Merge(base.Assign(1, lattice.NonNull).MarkNullDead())
	require.True(t, both.IsNullDead())
	require.Equal(t, lattice.PotentialNull, both.Get(1))
}

func TestMergeLaws(t *testing.T) {
	t.Parallel()

	base := New().Declare(1).Declare(2).Declare(3)
	flows := []FlowInfo{
		Unreachable(),
		base,
		base.Assign(1, lattice.Null),
		base.Assign(1, lattice.NonNull).Assign(2, lattice.Unknown),
		base.Assign(2, lattice.Protected).Assign(3, lattice.Null),
		base.Assign(1, lattice.Null).Assign(3, lattice.NonNull).MarkNullDead(),
		base.Assign(2, lattice.Null).MarkNullDead(),
		base.DiscardSlot(3).Assign(1, lattice.PotentialNonNull),
	}
	for _, a := range flows {
		for _, b := range flows {
			require.True(t, a.Merge(b).Equal(b.Merge(a)), "commutative %v %v", a, b)
			for _, c := range flows {
				l, r := a.Merge(b).Merge(c), a.Merge(b.Merge(c))
				require.True(t, l.Equal(r), "associative %v %v %v: %v vs %v", a, b, c, l, r)
			}
		}
	}
}

func TestCheckReported(t *testing.T) {
	t.Parallel()

	f := New().Assign(1, lattice.NonNull).MarkCheckReported(1)
	require.True(t, f.CheckReported(1))
	require.False(t, f.Merge(f).CheckReported(1))
	require.False(t, f.Merge(Unreachable()).CheckReported(1))
	require.False(t, Unreachable().Merge(f).CheckReported(1))
	require.Equal(t, lattice.NonNull, f.Merge(Unreachable()).Get(1))
	require.False(t, f.Assign(1, lattice.NonNull).CheckReported(1))
	require.True(t, f.Narrow(1, lattice.Protected).CheckReported(1))
}

func TestWithAssignmentsFrom(t *testing.T) {
	t.Parallel()

	before := New().Declare(1).Assign(2, lattice.Null)
	inside := before.Assign(1, lattice.NonNull).Assign(2, lattice.NonNull).Declare(3).Assign(3, lattice.Null)

	got := inside.WithAssignmentsFrom(before)
	require.Equal(t, lattice.NonNull, got.Get(1))
	require.False(t, got.IsDefinitelyAssigned(1))
	require.Equal(t, lattice.NonNull, got.Get(2))
	require.True(t, got.IsDefinitelyAssigned(2))
	require.Equal(t, []ir.Slot{1, 2}, got.Slots())

	require.True(t, Unreachable().WithAssignmentsFrom(before).IsDead())
}

func TestMergeAccumulatesHeldOrigins(t *testing.T) {
	t.Parallel()

	// A shifting chain of assignments: every round moves the non-null origin one slot further.
	entry := New().Assign(1, lattice.Unknown).Assign(2, lattice.Unknown).Assign(3, lattice.NonNull)
	head := entry
	for _, back := range []FlowInfo{
		entry.Assign(2, lattice.NonNull),
		entry.Assign(1, lattice.NonNull),
		entry,
	} {
		head = head.Merge(entry.Merge(back))
	}
	require.Equal(t, lattice.PotentialNonNull, head.Get(1))
	require.Equal(t, lattice.PotentialNonNull, head.Get(2))
	require.Equal(t, lattice.NonNull, head.Get(3))
	require.False(t, head.Get(1).MayBeNull())

	// Joining with a state the head already covers is a fixpoint.
	require.True(t, head.Merge(entry).Equal(head))
}

func TestString(t *testing.T) {
	t.Parallel()

	f := New().Assign(1, lattice.NonNull).Declare(2)
	require.Equal(t, "live{1:nonnull 2:unassigned?}", f.String())
	require.Equal(t, "dead{}", Unreachable().String())

	var zero FlowInfo
	require.True(t, zero.IsLive())
	require.Equal(t, "live{}", zero.String())
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
