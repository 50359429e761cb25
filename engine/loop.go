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
	"go.uber.org/nullflow/narrowing"
)

// round analyzes one iteration of a loop from its head state and returns the flow leaving the
// loop normally (the condition is false) and the flow going back to the head.
type round func(head flowinfo.FlowInfo) (exit, back flowinfo.FlowInfo)

// loop runs the two phases of loop analysis. Silent rounds recompute the head as the join of the
// entry and the back edge until it stops changing. Past the configured number of rounds, each new
// head is also joined with the previous one: the head then only grows, and a slot can only gain
// origins it actually held, so it settles within the height of the lattice. The last round
// reports. Every round gets a fresh loop frame so that exits of earlier rounds are forgotten.
func (w *walker) loop(labels []string, entry flowinfo.FlowInfo, r round) flowinfo.FlowInfo {
	parent := w.ctx
	defer func() { w.ctx = parent }()

	head := entry
	limit := w.conf.LoopStableRoundLimit
	w.silent++
	for i := 1; ; i++ {
		w.ctx = parent.Push(flowcontext.Loop, labels...)
		_, back := r(head)
		next := entry.Merge(back)
		if i > limit {
			next = head.Merge(next)
		}
		if next.Equal(head) {
			break
		}
		if i == limit {
			w.log.Debugf("%s: loop not stable after %d rounds, accumulating", w.method.Name, i)
		}
		head = next
	}
	w.silent--

	frame := parent.Push(flowcontext.Loop, labels...)
	w.ctx = frame
	exit, _ := r(head)
	return exit.Merge(frame.Breaks())
}

// body analyzes a loop body and joins the continue flows into its normal completion.
func (w *walker) body(s ir.Stmt, f flowinfo.FlowInfo) flowinfo.FlowInfo {
	if s == nil {
		malformed(nil, "loop without a body")
	}
	return w.stmt(s, f).Merge(w.ctx.Continues())
}

func (w *walker) reportDeadBody(head flowinfo.FlowInfo, o narrowing.Outcome, s ir.Stmt) {
	if head.IsLive() && o.WhenTrue.IsNullDead() {
		w.reportDeadCode(s)
	}
}

func (w *walker) whileLoop(s *ir.While, f flowinfo.FlowInfo, labels []string) flowinfo.FlowInfo {
	return w.loop(labels, f, func(head flowinfo.FlowInfo) (flowinfo.FlowInfo, flowinfo.FlowInfo) {
		o := w.cond(s.Cond, head)
		w.reportDeadBody(head, o, s.Body)
		return o.WhenFalse, w.body(s.Body, o.WhenTrue)
	})
}

// doWhileLoop runs the body before the condition. Since the body is not entered from the
// condition on the first iteration, the head is the body entry.
func (w *walker) doWhileLoop(s *ir.DoWhile, f flowinfo.FlowInfo, labels []string) flowinfo.FlowInfo {
	return w.loop(labels, f, func(head flowinfo.FlowInfo) (flowinfo.FlowInfo, flowinfo.FlowInfo) {
		o := w.cond(s.Cond, w.body(s.Body, head))
		return o.WhenFalse, o.WhenTrue
	})
}

// forLoop declares the init variables before the loop; they go out of scope after it. A missing
// condition never lets the loop exit normally.
func (w *walker) forLoop(s *ir.For, f flowinfo.FlowInfo, labels []string) flowinfo.FlowInfo {
	init, declared := w.seq(s.Init, f)
	out := w.loop(labels, init, func(head flowinfo.FlowInfo) (flowinfo.FlowInfo, flowinfo.FlowInfo) {
		var o narrowing.Outcome
		if s.Cond == nil {
			o = narrowing.Constant(head, true)
		} else {
			o = w.cond(s.Cond, head)
			w.reportDeadBody(head, o, s.Body)
		}
		back := w.body(s.Body, o.WhenTrue)
		for _, u := range s.Update {
			back = w.expr(u, back).flow
		}
		return o.WhenFalse, back
	})
	return discard(out, declared)
}

// forEachLoop dereferences the iterable once, then assigns the element variable at the start of
// every iteration. The loop exits from the head when the iteration is over.
func (w *walker) forEachLoop(s *ir.ForEach, f flowinfo.FlowInfo, labels []string) flowinfo.FlowInfo {
	if s.X == nil {
		malformed(s, "for-each without an iterable")
	}
	f = w.deref(w.expr(s.X, f), s.X)

	v := s.Var
	return w.loop(labels, f, func(head flowinfo.FlowInfo) (flowinfo.FlowInfo, flowinfo.FlowInfo) {
		in := head
		if tracked(v) {
			tag := lattice.Unknown
			if v.Type.IsPrimitive() {
				tag = lattice.NonNull
			}
			in = in.Declare(v.Slot).Assign(v.Slot, tag)
		}
		back := w.body(s.Body, in)
		if tracked(v) {
			back = back.DiscardSlot(v.Slot)
		}
		return head, back
	})
}
