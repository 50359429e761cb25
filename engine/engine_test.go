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

package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/nullflow/config"
	"go.uber.org/nullflow/diagnostic"
	"go.uber.org/nullflow/flowcontext"
	"go.uber.org/nullflow/ir/irfile"
)

// unit wraps a method body into a unit with one method m. Leading tabs of body lines are
// stripped, so YAML nesting is written with spaces after them.
func unit(params, body string) string {
	var sb strings.Builder
	sb.WriteString("methods:\n  - name: m\n")
	if params != "" {
		sb.WriteString("    params: [" + params + "]\n")
	}
	sb.WriteString("    body:\n")
	for _, line := range strings.Split(strings.Trim(body, "\n"), "\n") {
		sb.WriteString("      " + strings.TrimLeft(line, "\t") + "\n")
	}
	return sb.String()
}

func describe(diags []diagnostic.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, strings.TrimSpace(d.Kind.String()+" "+d.Name))
	}
	return out
}

func analyze(t *testing.T, conf *config.Config, src string) []diagnostic.Diagnostic {
	t.Helper()
	u, err := irfile.Decode(strings.NewReader(src))
	require.NoError(t, err)
	diags, err := New(conf, nil).AnalyzeUnit(u)
	require.NoError(t, err)
	return diags
}

type testCase struct {
	name   string
	types  string
	params string
	body   string
	want   []string
}

func run(t *testing.T, conf *config.Config, tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := unit(tt.params, tt.body)
			if tt.types != "" {
				src = "types: [" + tt.types + "]\n" + src
			}
			got := describe(analyze(t, conf, src))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDereference(t *testing.T) {
	t.Parallel()

	run(t, nil, []testCase{
		{
			name: "null local",
			body: `
				- {local: o, init: ~}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"null-pointer-access o"},
		},
		{
			name:   "potentially null after if, protected afterwards",
			params: "boolean b",
			body: `
				- {local: o, init: ~}
				- {if: b, then: [{expr: {assign: [o, {new: Object}]}}]}
				- {expr: {call: toString, recv: o}}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name:   "parameters are unknown",
			params: "Object o",
			body: `
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name:   "ternary joins its branches",
			params: "boolean b",
			body: `
				- {local: o, init: {cond: [b, null, {new: Object}]}}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name: "field access and synchronized",
			body: `
				- {local: o, init: ~}
				- {local: p, init: ~}
				- {expr: {field: next, recv: o}}
				- {sync: p, body: []}`,
			want: []string{"null-pointer-access o", "null-pointer-access p"},
		},
		{
			name: "cast of null is an expression",
			body: `
				- {expr: {call: length, recv: {cast: ~, type: String}}}`,
			want: []string{"null-pointer-access"},
		},
		{
			name: "untracked variables are never reported",
			body: `
				- {local: o, untracked: true, init: ~}
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name: "static call does not dereference its receiver",
			body: `
				- {local: o, init: ~}
				- {expr: {call: valueOf, recv: o, static: true}}`,
		},
		{
			name: "for-each dereferences the iterable",
			body: `
				- {local: arr, type: "Object[]", init: ~}
				- {foreach: Object x, in: arr, body: [{expr: {call: toString, recv: x}}]}`,
			want: []string{"null-pointer-access arr"},
		},
	})
}

func TestNullChecks(t *testing.T) {
	t.Parallel()

	run(t, nil, []testCase{
		{
			name:   "redundant after early return",
			params: "Object o",
			body: `
				- {if: {eq: [o, null]}, then: [return]}
				- {if: {ne: [o, null]}, then: []}`,
			want: []string{"redundant-null-check o"},
		},
		{
			name: "impossible comparison makes the branch dead",
			body: `
				- {local: x, init: {new: Object}}
				- {if: {eq: [x, null]}, then: [{expr: {call: foo, static: true}}]}`,
			want: []string{"impossible-null-comparison x", "dead-code"},
		},
		{
			name: "null == null literal order",
			body: `
				- {local: x, init: ~}
				- {if: {eq: [null, x]}, then: []}`,
			want: []string{"redundant-null-check x"},
		},
		{
			name: "nested identical check is reported once",
			body: `
				- {local: x, init: {new: Object}}
				- {if: {ne: [x, null]}, then: [{if: {ne: [x, null]}, then: []}]}`,
			want: []string{"redundant-null-check x"},
		},
		{
			name: "sequential identical checks are both reported",
			body: `
				- {local: x, init: {new: Object}}
				- {if: {eq: [x, null]}, then: [return]}
				- {expr: {call: toString, recv: x}}
				- {if: {eq: [x, null]}, then: [return]}`,
			want: []string{
				"impossible-null-comparison x", "dead-code",
				"impossible-null-comparison x", "dead-code",
			},
		},
		{
			name: "this is never null",
			body: `
				- {if: {eq: [this, null]}, then: []}`,
			want: []string{"impossible-null-comparison", "dead-code"},
		},
		{
			name: "assignment inside the comparison is visible on both edges",
			body: `
				- {local: o}
				- {if: {eq: [{assign: [o, {call: get}]}, null]}, then: [return]}
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name:   "and narrows the right operand",
			params: "Object o",
			body: `
				- {if: {and: [{ne: [o, null]}, {call: isEmpty, recv: o, result: boolean}]}, then: []}
				- {if: {or: [{eq: [o, null]}, {call: isEmpty, recv: o, result: boolean}]}, then: []}
				- {if: {and: [{eq: [o, null]}, {call: isEmpty, recv: o, result: boolean}]}, then: []}`,
			want: []string{"null-pointer-access o"},
		},
		{
			name: "right operand of && that cannot run",
			body: `
				- {local: x, init: {new: Object}}
				- {if: {and: [{eq: [x, null]}, {call: foo, static: true, result: boolean}]}, then: []}`,
			want: []string{"impossible-null-comparison x", "dead-code", "dead-code"},
		},
		{
			name: "instanceof of null",
			body: `
				- {local: o, init: ~}
				- {if: {instanceof: o, type: String}, then: [{expr: {call: foo, static: true}}]}`,
			want: []string{"instanceof-always-false o", "dead-code"},
		},
		{
			name:   "instanceof binding is non-null",
			params: "Object o",
			body: `
				- {if: {instanceof: o, type: String, bind: s}, then: [{expr: {call: length, recv: s}}]}`,
		},
		{
			name: "redundant null assignment",
			body: `
				- {local: o, init: ~}
				- {expr: {assign: [o, null]}}`,
			want: []string{"redundant-assignment o"},
		},
		{
			name: "constant if is not dead code, constant ternary is",
			body: `
				- {if: false, then: [{expr: {call: foo, static: true}}]}
				- {local: y, type: int, init: {cond: [true, 1, 2]}}`,
			want: []string{"dead-code"},
		},
	})
}

func TestDefiniteAssignment(t *testing.T) {
	t.Parallel()

	run(t, nil, []testCase{
		{
			name: "never assigned",
			body: `
				- {local: o}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"uninitialized-local o"},
		},
		{
			name:   "assigned on one branch",
			params: "boolean b",
			body: `
				- {local: o}
				- {if: b, then: [{expr: {assign: [o, {new: Object}]}}]}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"uninitialized-local o"},
		},
		{
			name:   "assigned on both branches",
			params: "boolean b",
			body: `
				- {local: o}
				- {if: b, then: [{expr: {assign: [o, ~]}}], else: [{expr: {assign: [o, {new: Object}]}}]}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name: "catch blocks see the state before the try",
			body: `
				- {local: o}
				- {try: [{expr: {assign: [o, {new: Object}]}}], catch: [{param: Exception e, body: [{expr: {call: toString, recv: o}}]}]}`,
			want: []string{"uninitialized-local o"},
		},
	})
}

func TestLoops(t *testing.T) {
	t.Parallel()

	run(t, nil, []testCase{
		{
			name: "while assigns until non-null",
			body: `
				- {local: o, init: ~}
				- {while: {eq: [o, null]}, body: [{expr: {assign: [o, {new: Object}]}}]}
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name:   "while may not run",
			params: "boolean dummy",
			body: `
				- {local: o, init: ~}
				- {while: dummy, body: [{expr: {assign: [o, {new: Object}]}}]}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name:   "second iteration sees the assignment of the first",
			params: "boolean b",
			body: `
				- {local: o, init: {new: Object}}
				- {while: b, body: [{expr: {call: toString, recv: o}}, {expr: {assign: [o, ~]}}]}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name:   "do-while runs the body first",
			params: "boolean b",
			body: `
				- {local: o, init: ~}
				- {do: [{expr: {assign: [o, {new: Object}]}}], while: b}
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name: "for with continue",
			body: `
				- {local: o, init: ~}
				- for: {init: [{local: i, type: int, init: 0}], cond: {lt: [i, 10]}, update: [{inc: i}]}
				  body: [{if: {eq: [i, 5]}, then: [continue]}, {expr: {assign: [o, {new: Object}]}}]
				- {expr: {call: toString, recv: o}}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name: "infinite loop exits through break only",
			body: `
				- {local: o, init: ~}
				- {for: ~, body: [{expr: {assign: [o, {new: Object}]}}, break]}
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name: "labeled break out of nested loops",
			body: `
				- {local: o, init: ~}
				- label: outer
				  body:
				    while: true
				    body:
				      - {while: true, body: [{expr: {assign: [o, {new: Object}]}}, {break: outer}]}
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name: "body made impossible by the condition",
			body: `
				- {local: o, init: ~}
				- {while: {ne: [o, null]}, body: [{expr: {call: foo, static: true}}]}`,
			want: []string{"impossible-null-comparison o", "dead-code"},
		},
		{
			name:   "uncorrelated branches keep the non-null origin",
			params: "boolean dummy, boolean c, Object u",
			body: `
				- {local: o, init: {new: Object}}
				- while: dummy
				  body:
				    - {if: c, then: [{expr: {assign: [o, {new: Object}]}}], else: {expr: {assign: [o, u]}}}
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name:   "uncorrelated branches after a null initializer",
			params: "boolean dummy, boolean c, Object u",
			body: `
				- {local: o, init: ~}
				- while: dummy
				  body:
				    - {if: c, then: [{expr: {assign: [o, {new: Object}]}}], else: {expr: {assign: [o, u]}}}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name:   "long assignment chain never gains a null origin",
			params: "Object a, Object b, Object c, Object d, Object e, Object g, boolean dummy",
			body:   _shiftChain,
		},
	})
}

// _shiftChain moves a non-null value one variable further on every iteration, so the loop head
// needs more rounds to settle than the default limit allows.
const _shiftChain = `
	- {local: p, init: {new: Object}}
	- while: dummy
	  body:
	    - {expr: {assign: [a, b]}}
	    - {expr: {assign: [b, c]}}
	    - {expr: {assign: [c, d]}}
	    - {expr: {assign: [d, e]}}
	    - {expr: {assign: [e, g]}}
	    - {expr: {assign: [g, p]}}
	- {expr: {call: toString, recv: b}}`

func TestSwitch(t *testing.T) {
	t.Parallel()

	run(t, nil, []testCase{
		{
			name:   "every path assigns",
			params: "int i",
			body: `
				- {local: o, init: ~}
				- switch: i
				  cases:
				    - {case: 1, body: [{expr: {assign: [o, {new: Object}]}}, break]}
				    - {default: true, body: [{expr: {assign: [o, {new: Object}]}}]}
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name:   "no default lets the selector through",
			params: "int i",
			body: `
				- {local: o, init: ~}
				- switch: i
				  cases:
				    - {case: [1, 2], body: [{expr: {assign: [o, {new: Object}]}}]}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name:   "fall-through carries the previous case",
			params: "int i",
			body: `
				- {local: o, init: ~}
				- switch: i
				  cases:
				    - {case: 1, body: [{expr: {assign: [o, {new: Object}]}}]}
				    - {default: true, body: [{expr: {call: toString, recv: o}}]}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name: "null selectors",
			body: `
				- {local: s, type: String, init: ~}
				- {local: n, type: Integer, init: ~}
				- {switch: s, cases: []}
				- {switch: n, cases: []}`,
			want: []string{"null-pointer-access s", "unboxing-npe n"},
		},
	})
}

func TestTryCatchFinally(t *testing.T) {
	t.Parallel()

	run(t, nil, []testCase{
		{
			name: "catch joins every throw point",
			body: `
				- {local: o, init: ~}
				- try: [{expr: {assign: [o, {new: Object}]}}, {expr: {call: foo, static: true, throws: [Exception]}}]
				  catch: [{param: Exception e, body: [{expr: {call: toString, recv: o}}, {expr: {call: getMessage, recv: e}}]}]`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name: "finally honors completed assignments",
			body: `
				- {local: o, init: {new: Object}}
				- try: [{expr: {assign: [o, ~]}}, {expr: {call: foo, static: true}}]
				  finally: [{expr: {call: toString, recv: o}}]`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name: "reassignment in finally hides the try states",
			body: `
				- {local: o, init: {new: Object}}
				- try: [{expr: {assign: [o, ~]}}, {expr: {call: foo, static: true}}]
				  finally: [{expr: {assign: [o, {new: Object}]}}, {expr: {call: toString, recv: o}}]`,
		},
		{
			name:   "finally sees pending returns",
			params: "boolean b",
			body: `
				- {local: o, init: ~}
				- try: [{if: b, then: [return]}, {expr: {assign: [o, {new: Object}]}}]
				  finally: [{expr: {call: toString, recv: o}}]`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name: "code after the statement uses the normal completion",
			body: `
				- {local: o, init: ~}
				- try: [{expr: {assign: [o, {new: Object}]}}]
				  finally: [empty]
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name: "break through finally reaches the loop exit",
			body: `
				- {local: o, init: ~}
				- while: true
				  body:
				    - try: [{expr: {assign: [o, {new: Object}]}}, break]
				      finally: [empty]
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name:  "an earlier clause intercepts its exceptions",
			types: "{name: MyException, super: Exception}",
			body: `
				- {local: o, init: ~}
				- try:
				    - {expr: {call: foo, static: true, throws: [MyException]}}
				    - {expr: {assign: [o, {new: Object}]}}
				    - {expr: {call: bar, static: true, throws: [Exception]}}
				  catch:
				    - {param: RuntimeException r, body: [return]}
				    - {param: MyException m, body: [return]}
				    - {param: Exception e, body: [{expr: {call: toString, recv: o}}]}`,
		},
		{
			name:  "without the specific clause the general one sees every throw",
			types: "{name: MyException, super: Exception}",
			body: `
				- {local: o, init: ~}
				- try:
				    - {expr: {call: foo, static: true, throws: [MyException]}}
				    - {expr: {assign: [o, {new: Object}]}}
				    - {expr: {call: bar, static: true, throws: [Exception]}}
				  catch:
				    - {param: RuntimeException r, body: [return]}
				    - {param: Exception e, body: [{expr: {call: toString, recv: o}}]}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name: "resources are non-null in the body",
			body: `
				- try: [{expr: {call: read, recv: r}}]
				  resources: [{local: r, type: Reader, init: {call: open, static: true}}]`,
		},
	})
}

func TestUnboxing(t *testing.T) {
	t.Parallel()

	run(t, nil, []testCase{
		{
			name: "comparison with a primitive",
			body: `
				- {local: i, type: Integer, init: ~}
				- {local: b, type: boolean, init: {eq: [i, 1]}}`,
			want: []string{"unboxing-npe i"},
		},
		{
			name: "comparison of two boxes is a reference comparison",
			body: `
				- {local: i, type: Integer, init: ~}
				- {local: j, type: Integer, init: ~}
				- {local: b, type: boolean, init: {eq: [i, j]}}`,
		},
		{
			name: "argument, compound assignment and condition",
			body: `
				- {local: i, type: Integer, init: ~}
				- {expr: {call: foo, static: true, args: [i], params: [int]}}
				- {local: j, type: Integer, init: ~}
				- {expr: {assign: [j, 1], op: add}}
				- {local: c, type: Boolean, init: ~}
				- {if: c, then: []}`,
			want: []string{"unboxing-npe i", "unboxing-npe j", "unboxing-npe c"},
		},
		{
			name:   "potentially null box",
			params: "boolean b",
			body: `
				- {local: i, type: Integer, init: ~}
				- {if: b, then: [{expr: {assign: [i, 1]}}]}
				- {local: k, type: int, init: i}`,
			want: []string{"potential-unboxing-npe i"},
		},
		{
			name: "string concatenation does not unbox",
			body: `
				- {local: i, type: Integer, init: ~}
				- {local: s, type: String, init: {add: [{str: n}, i]}}`,
		},
	})
}

func TestExits(t *testing.T) {
	t.Parallel()

	run(t, nil, []testCase{
		{
			name:   "exit ends the flow",
			params: "Object o",
			body: `
				- {if: {eq: [o, null]}, then: [{expr: {call: exit, static: true, exits: true}}]}
				- {expr: {call: toString, recv: o}}`,
		},
		{
			name:   "other calls return",
			params: "Object o",
			body: `
				- {if: {eq: [o, null]}, then: [{expr: {call: log, static: true}}]}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"potential-null-pointer-access o"},
		},
	})
}

func TestAssert(t *testing.T) {
	t.Parallel()

	const body = `
		- {assert: {ne: [o, null]}}
		- {if: {eq: [o, null]}, then: [return]}`
	run(t, nil, []testCase{{name: "disabled", params: "Object o", body: body}})

	conf := config.Default()
	conf.IncludeNullInfoFromAsserts = true
	run(t, conf, []testCase{
		{
			name:   "enabled",
			params: "Object o",
			body:   body,
			want:   []string{"impossible-null-comparison o", "dead-code"},
		},
		{
			name: "redundant check inside assert",
			body: `
				- {local: o, init: {new: Object}}
				- {assert: {ne: [o, null]}}`,
		},
	})
}

func TestSeveritiesAndSuppression(t *testing.T) {
	t.Parallel()

	const body = `
		- {local: o, init: ~}
		- {expr: {call: toString, recv: o}}
		- {local: u}
		- {expr: {call: toString, recv: u}}
		- {local: x, init: {new: Object}}
		- {if: {eq: [x, null]}, then: []}`

	conf := config.Default()
	require.NoError(t, conf.SetSeverities("dead-code=ignore,null-pointer-access=error"))
	diags := analyze(t, conf, unit("", body))
	require.Equal(t, []string{"null-pointer-access o", "uninitialized-local u", "impossible-null-comparison x"}, describe(diags))
	require.Equal(t, diagnostic.Error, diags[0].Severity)
	require.Equal(t, "Null pointer access: The variable o can only be null at this location", diags[0].Message)
	require.Equal(t, diagnostic.Warning, diags[2].Severity)

	// Suppression does not silence errors unless asked to.
	suppressed := "suppress: [null]\n" + unit("", body)
	require.Equal(t, []string{"null-pointer-access o", "uninitialized-local u"}, describe(analyze(t, conf, suppressed)))
	conf.SuppressOptionalErrors = true
	require.Equal(t, []string{"uninitialized-local u"}, describe(analyze(t, conf, suppressed)))

	local := unit("", `
		- {local: o, init: ~}
		- {local: p, init: ~}
		- {local: s, init: {call: toString, recv: o}, suppress: [null]}
		- {expr: {call: hashCode, recv: p}}`)
	require.Equal(t, []string{"null-pointer-access p"}, describe(analyze(t, nil, local)))
}

func TestAnalyzeUnit(t *testing.T) {
	t.Parallel()

	src := `
methods:
  - name: a
    body:
      - {local: o, init: ~}
      - {expr: {call: toString, recv: o}}
  - name: b
    suppress: [all]
    body:
      - {local: o, init: ~}
      - {expr: {call: toString, recv: o}}
  - name: c
    params: [Object p]
    body:
      - {if: {eq: [p, null]}, then: [return]}
      - {if: {eq: [p, null]}, then: [return]}
`
	conf := config.Default()
	conf.Workers = 2
	u, err := irfile.Decode(strings.NewReader(src))
	require.NoError(t, err)
	a := New(conf, nil)
	first, err := a.AnalyzeUnit(u)
	require.NoError(t, err)
	require.Equal(t, []string{"null-pointer-access o", "impossible-null-comparison p", "dead-code"}, describe(first))

	// Analyzing the same tree again gives the same result.
	second, err := a.AnalyzeUnit(u)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRoundLimit(t *testing.T) {
	t.Parallel()

	conf := config.Default()
	conf.LoopStableRoundLimit = 1
	run(t, conf, []testCase{
		{
			name:   "accumulated head still reports",
			params: "boolean b",
			body: `
				- {local: o, init: ~}
				- {while: b, body: [{expr: {assign: [o, {new: Object}]}}]}
				- {expr: {call: toString, recv: o}}`,
			want: []string{"potential-null-pointer-access o"},
		},
		{
			name:   "accumulated head only holds origins seen in some round",
			params: "Object a, Object b, Object c, Object d, Object e, Object g, boolean dummy",
			body:   _shiftChain,
		},
		{
			name:   "nested loops settle",
			params: "boolean x, boolean y, Object u",
			body: `
				- {local: o, init: {new: Object}}
				- {local: q, init: u}
				- while: x
				  body:
				    - {while: y, body: [{expr: {assign: [q, o]}}, {expr: {assign: [o, u]}}]}
				- {expr: {call: toString, recv: o}}
				- {expr: {call: toString, recv: q}}`,
		},
	})
}

func TestMalformed(t *testing.T) {
	t.Parallel()

	u, err := irfile.Decode(strings.NewReader(unit("", `
		- {while: true, body: [{break: nowhere}]}`)))
	require.NoError(t, err)
	_, err = New(nil, nil).AnalyzeUnit(u)
	require.Error(t, err)
	require.True(t, errors.Is(err, flowcontext.ErrUnknownLabel))
	var me *MalformedError
	require.True(t, errors.As(err, &me))

	_, err = New(nil, nil).AnalyzeMethod(nil)
	require.Error(t, err)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
