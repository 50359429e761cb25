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
	"go.uber.org/nullflow/flowcontext"
	"go.uber.org/nullflow/flowinfo"
	"go.uber.org/nullflow/ir"
	"go.uber.org/nullflow/lattice"
)

// tryStmt analyzes try/catch/finally.
//
// While the try block runs, its frame collects throw points. They are dispatched over the catch
// clauses; each clause starts from the join of the points it catches, with the definite
// assignment state of the try entry. When there is a finally block, it is analyzed once with
// reporting from every state it can be entered with, then silently again for each way of
// leaving it: normally, per pending break/continue/return, and exceptionally.
func (w *walker) tryStmt(s *ir.Try, f flowinfo.FlowInfo) flowinfo.FlowInfo {
	if s.Body == nil {
		malformed(s, "try without a body")
	}
	pre := f
	parent := w.ctx
	frame := parent.PushTry(s.Finally != nil)
	w.ctx = frame
	defer func() { w.ctx = parent }()

	var resources []ir.Slot
	for _, r := range s.Resources {
		f = w.localDecl(r, f)
		if tracked(r.Var) {
			resources = append(resources, r.Var.Slot)
			f = f.Narrow(r.Var.Slot, lattice.NonNull)
		}
	}
	normal := discard(w.stmt(s.Body, f), resources)

	points := frame.TakeThrows()
	caught := make([][]*ir.Type, len(s.Catches))
	for i, c := range s.Catches {
		if c == nil || c.Body == nil {
			malformed(s, "catch without a body")
		}
		caught[i] = c.Types
		if len(caught[i]) == 0 {
			caught[i] = []*ir.Type{ir.Throwable}
		}
	}
	entries, uncaught := flowcontext.Dispatch(points, caught)

	frame.EnterCatch()
	for i, c := range s.Catches {
		in := entries[i].WithAssignmentsFrom(pre)
		if p := c.Param; tracked(p) {
			in = in.Declare(p.Slot).Assign(p.Slot, lattice.NonNull)
		}
		out := w.stmt(c.Body, in)
		if p := c.Param; tracked(p) {
			out = out.DiscardSlot(p.Slot)
		}
		normal = normal.Merge(out)
	}

	w.ctx = parent
	if s.Finally == nil {
		parent.Rethrow(uncaught)
		return normal
	}

	// Throws of the catch blocks all escape the statement.
	uncaught = append(uncaught, frame.TakeThrows()...)
	all := normal
	for _, p := range points {
		all = all.Merge(p.Flow)
	}
	exceptional := flowinfo.Unreachable()
	var escaping []*ir.Type
	for _, p := range uncaught {
		exceptional = exceptional.Merge(p.Flow)
		escaping = append(escaping, p.Types...)
	}
	exceptional = exceptional.WithAssignmentsFrom(pre)
	all = all.Merge(exceptional)

	pending := frame.Pending()
	for _, p := range pending {
		all = all.Merge(p.Flow)
	}
	if fin := w.stmt(s.Finally, all.WithAssignmentsFrom(pre)); fin.IsDead() {
		// The finally block never completes normally: nothing leaves the statement but its own
		// abrupt exits, which were recorded while analyzing it.
		return fin
	}

	w.silent++
	defer func() { w.silent-- }()
	for _, p := range pending {
		parent.Exit(p.Kind, p.Target, w.stmt(s.Finally, p.Flow))
	}
	if len(escaping) > 0 && !exceptional.IsDead() {
		w.recordThrow(w.stmt(s.Finally, exceptional), escaping...)
	}
	return w.stmt(s.Finally, normal)
}
