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
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"
)

func TestWrapRun(t *testing.T) {
	t.Parallel()

	pass := &analysis.Pass{Analyzer: &analysis.Analyzer{Name: "sub"}}
	tests := []struct {
		name    string
		run     func(*analysis.Pass) (int, error)
		want    int
		wantErr string
	}{
		{name: "value", run: func(*analysis.Pass) (int, error) { return 42, nil }, want: 42},
		{name: "error", run: func(*analysis.Pass) (int, error) { return 0, errors.New("my error") }, wantErr: "sub: my error"},
		{name: "panic", run: func(*analysis.Pass) (int, error) { panic("boom") }, wantErr: `INTERNAL PANIC from "sub": boom`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := WrapRun(tt.run)(pass)
			// Errors travel in the result.
			require.NoError(t, err)
			require.IsType(t, &Result[int]{}, r)
			res := r.(*Result[int])
			require.Equal(t, tt.want, res.Res)
			if tt.wantErr == "" {
				require.NoError(t, res.Err)
			} else {
				require.ErrorContains(t, res.Err, tt.wantErr)
			}
		})
	}

	// A nil pass still yields a result.
	r, err := WrapRun(func(*analysis.Pass) (string, error) { panic("nil pass") })(nil)
	require.NoError(t, err)
	require.ErrorContains(t, r.(*Result[string]).Err, "INTERNAL PANIC")
}

func TestResultOf(t *testing.T) {
	t.Parallel()

	sub := &analysis.Analyzer{Name: "sub", ResultType: reflect.TypeOf((*Result[int])(nil))}
	pass := &analysis.Pass{ResultOf: map[*analysis.Analyzer]any{sub: &Result[int]{Res: 7}}}
	v, err := ResultOf[int](pass, sub)
	require.NoError(t, err)
	require.Equal(t, 7, v)

	_, err = ResultOf[string](pass, sub)
	require.ErrorContains(t, err, `analyzer "sub" did not produce`)
}
