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

package lattice

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var _all = []NullTag{
	Unassigned, Null, NonNull, Unknown, PotentialNull, PotentialNullUnknown,
	PotentialNonNull, PotentialAny, Protected, ProtectedNull,
}

func TestJoinTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b, want NullTag
	}{
		{Null, NonNull, PotentialNull},
		{Null, Null, Null},
		{Null, Unknown, PotentialNullUnknown},
		{NonNull, Unknown, PotentialNonNull},
		{PotentialNull, Unknown, PotentialAny},
		{Protected, Protected, Protected},
		{Protected, NonNull, NonNull},
		{ProtectedNull, Null, Null},
		{ProtectedNull, Protected, PotentialNull},
		{Unassigned, Protected, Protected},
		{PotentialNonNull, PotentialNullUnknown, PotentialAny},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Join(tt.a, tt.b), "join(%v, %v)", tt.a, tt.b)
	}
}

func TestJoinLaws(t *testing.T) {
	t.Parallel()

	for _, a := range _all {
		require.Equal(t, a, Join(a, a), "idempotent %v", a)
		require.Equal(t, a, Join(Unassigned, a), "identity %v", a)
		for _, b := range _all {
			require.Equal(t, Join(a, b), Join(b, a), "commutative %v %v", a, b)
			for _, c := range _all {
				require.Equal(t, Join(Join(a, b), c), Join(a, Join(b, c)), "associative %v %v %v", a, b, c)
			}
		}
	}
}

func TestQueries(t *testing.T) {
	t.Parallel()

	require.True(t, Null.IsDefinitelyNull())
	require.True(t, ProtectedNull.IsDefinitelyNull())
	require.False(t, PotentialNull.IsDefinitelyNull())

	require.True(t, NonNull.IsDefinitelyNonNull())
	require.True(t, Protected.CannotBeNull())
	require.False(t, PotentialNonNull.CannotBeNull())

	require.True(t, PotentialNullUnknown.MayBeNull())
	require.True(t, PotentialNullUnknown.IsPotentiallyNull())
	require.False(t, Null.IsPotentiallyNull())
	require.False(t, Unknown.MayBeNull())

	require.True(t, Unknown.IsUnknown())
	require.False(t, PotentialNonNull.IsUnknown())
	require.True(t, Protected.IsProtected())
	require.False(t, NonNull.IsProtected())

	require.Equal(t, Protected, Protect(NonNull))
	require.Equal(t, ProtectedNull, Protect(Null))
	require.Equal(t, PotentialNull, Protect(PotentialNull))
	require.Equal(t, NonNull, Unprotect(Protected))
	require.Equal(t, Null, Unprotect(ProtectedNull))
	require.Equal(t, Unknown, Unprotect(Unknown))
}

func TestString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "potential-nonnull", PotentialNonNull.String())
	require.Equal(t, "protected-nonnull", Protected.String())
	require.Equal(t, "{null,unknown,protected}", (nullBit | unknownBit | protectedBit).String())
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
