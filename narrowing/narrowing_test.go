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

package narrowing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/nullflow/flowinfo"
	"go.uber.org/nullflow/lattice"
)

func TestNullComparisonUndecided(t *testing.T) {
	t.Parallel()

	f := flowinfo.New().Assign(1, lattice.Unknown)

	o, v := NullComparison(f, 1, true)
	require.Equal(t, Undecided, v)
	require.True(t, o.WhenTrue.Get(1).IsDefinitelyNull())
	require.True(t, o.WhenFalse.Get(1).IsDefinitelyNonNull())
	require.True(t, o.WhenFalse.Get(1).IsProtected())

	o, v = NullComparison(f, 1, false)
	require.Equal(t, Undecided, v)
	require.True(t, o.WhenTrue.Get(1).IsDefinitelyNonNull())
	require.True(t, o.WhenFalse.Get(1).IsDefinitelyNull())

	// Merging both edges back loses the protection but keeps both origins.
	require.Equal(t, lattice.PotentialNull, o.Merged().Get(1))
}

func TestNullComparisonDecided(t *testing.T) {
	t.Parallel()

	nonNull := flowinfo.New().Assign(1, lattice.NonNull)
	o, v := NullComparison(nonNull, 1, false)
	require.Equal(t, AlwaysTrue, v)
	require.True(t, o.WhenTrue.IsLive())
	require.True(t, o.WhenFalse.IsNullDead())

	o, v = NullComparison(nonNull, 1, true)
	require.Equal(t, AlwaysFalse, v)
	require.True(t, o.WhenTrue.IsNullDead())

	null := flowinfo.New().Assign(1, lattice.Null)
	o, v = NullComparison(null, 1, true)
	require.Equal(t, AlwaysTrue, v)
	require.True(t, o.WhenFalse.IsNullDead())
	// The null-dead edge still carries definite assignment.
	require.True(t, o.WhenFalse.IsDefinitelyAssigned(1))

	_, v = NullComparison(null, 1, false)
	require.Equal(t, AlwaysFalse, v)
}

func TestShortCircuit(t *testing.T) {
	t.Parallel()

	f := flowinfo.New().Assign(1, lattice.Unknown).Assign(2, lattice.Unknown)

	// o1 != null && o2 != null
	a, _ := NullComparison(f, 1, false)
	b, _ := NullComparison(a.WhenTrue, 2, false)
	and := And(a, b)
	require.True(t, and.WhenTrue.Get(1).IsDefinitelyNonNull())
	require.True(t, and.WhenTrue.Get(2).IsDefinitelyNonNull())
	require.Equal(t, lattice.PotentialNull, and.WhenFalse.Get(1))
	require.Equal(t, lattice.PotentialNullUnknown, and.WhenFalse.Get(2))

	// o1 == null || o2 == null is the negation.
	a, _ = NullComparison(f, 1, true)
	b, _ = NullComparison(a.WhenFalse, 2, true)
	or := Or(a, b)
	require.True(t, or.WhenFalse.Get(1).IsDefinitelyNonNull())
	require.True(t, or.WhenFalse.Get(2).IsDefinitelyNonNull())
	require.True(t, or.Negate().WhenTrue.Equal(or.WhenFalse))
}

func TestConstant(t *testing.T) {
	t.Parallel()

	f := flowinfo.New()
	require.True(t, Constant(f, true).WhenFalse.IsDead())
	require.True(t, Constant(f, false).WhenTrue.IsDead())
	require.True(t, Constant(f, false).Merged().IsLive())
	require.True(t, Same(f).WhenTrue.Equal(f))
}

func TestConditional(t *testing.T) {
	t.Parallel()

	f := flowinfo.New().Assign(1, lattice.Unknown)
	x, _ := NullComparison(f, 1, false)
	y := Constant(f, false)
	o := Conditional(x, y)
	require.True(t, o.WhenTrue.Get(1).IsDefinitelyNonNull())
	require.Equal(t, lattice.PotentialNullUnknown, o.WhenFalse.Get(1))
}

func TestInstanceOf(t *testing.T) {
	t.Parallel()

	f := flowinfo.New().Assign(1, lattice.PotentialNull)
	o, alwaysFalse := InstanceOf(f, 1)
	require.False(t, alwaysFalse)
	require.Equal(t, lattice.NonNull, o.WhenTrue.Get(1))
	require.Equal(t, lattice.PotentialNull, o.WhenFalse.Get(1))

	o, alwaysFalse = InstanceOf(f.Assign(1, lattice.Null), 1)
	require.True(t, alwaysFalse)
	require.True(t, o.WhenTrue.IsNullDead())
}

func TestAssert(t *testing.T) {
	t.Parallel()

	in := flowinfo.New().Assign(1, lattice.Unknown).Declare(2)
	cond, _ := NullComparison(in.Assign(2, lattice.NonNull), 1, false)

	got := Assert(in, cond, true)
	require.True(t, got.Get(1).IsDefinitelyNonNull())
	// The assignment inside the condition may not run.
	require.False(t, got.IsDefinitelyAssigned(2))

	require.True(t, Assert(in, cond, false).Equal(in))

	impossible := Outcome{WhenTrue: in.MarkNullDead(), WhenFalse: in}
	require.True(t, Assert(in, impossible, true).Equal(in))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
