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

// Package flowcontext implements the stack of nested control-flow frames (method, loop, switch,
// labeled statement, try) that collect the flows leaving a construct abruptly: break and
// continue flows, throw-point snapshots inside try blocks, and exits that must first run a
// finally block.
package flowcontext

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/nullflow/flowinfo"
	"go.uber.org/nullflow/ir"
)

// Kind is the kind of a frame.
type Kind uint8

const (
	// Method is the root frame of an analysis.
	Method Kind = iota
	// Loop is a while, do-while, for or for-each statement.
	Loop
	// Switch is a switch statement.
	Switch
	// Label is a labeled statement that is not a loop.
	Label
	// Try is a try statement.
	Try
)

// Phase tells which part of a try statement is being analyzed.
type Phase uint8

const (
	// InTry is the try block (and its resources).
	InTry Phase = iota
	// InCatch is any of the catch blocks.
	InCatch
)

// ExitKind is the kind of an abrupt exit.
type ExitKind uint8

const (
	// ExitBreak is a break statement.
	ExitBreak ExitKind = iota
	// ExitContinue is a continue statement.
	ExitContinue
	// ExitReturn is a return statement.
	ExitReturn
)

// ErrUnknownLabel is returned for a break or continue whose target cannot be found.
var ErrUnknownLabel = errors.New("unknown break/continue target")

// ThrowPoint is the state at a point where an exception of one of Types may be raised.
type ThrowPoint struct {
	Flow  flowinfo.FlowInfo
	Types []*ir.Type
}

// PendingExit is an abrupt exit intercepted by a try statement with a finally block. It reaches
// Target after the finally block completes normally.
type PendingExit struct {
	Kind   ExitKind
	Target *Context
	Flow   flowinfo.FlowInfo
}

// Context is one frame of the stack. Frames are created by Push and are discarded by simply
// dropping the reference once the construct is analyzed.
type Context struct {
	Kind   Kind
	Parent *Context
	Labels []string
	// HasFinally is set on Try frames whose statement has a finally block.
	HasFinally bool

	phase     Phase
	breaks    flowinfo.FlowInfo
	continues flowinfo.FlowInfo
	returns   flowinfo.FlowInfo
	throws    []ThrowPoint
	pending   []PendingExit
}

// NewMethod returns the root frame of a method analysis.
func NewMethod() *Context {
	return newContext(Method, nil, nil)
}

func newContext(kind Kind, parent *Context, labels []string) *Context {
	return &Context{
		Kind:      kind,
		Parent:    parent,
		Labels:    labels,
		breaks:    flowinfo.Unreachable(),
		continues: flowinfo.Unreachable(),
		returns:   flowinfo.Unreachable(),
	}
}

// Push returns a new frame nested in c.
func (c *Context) Push(kind Kind, labels ...string) *Context {
	return newContext(kind, c, labels)
}

// PushTry returns a new try frame nested in c.
func (c *Context) PushTry(hasFinally bool) *Context {
	t := newContext(Try, c, nil)
	t.HasFinally = hasFinally
	return t
}

func (c *Context) hasLabel(label string) bool {
	return slices.Contains(c.Labels, label)
}

// BreakTarget returns the frame a break with the given (possibly empty) label exits.
func (c *Context) BreakTarget(label string) (*Context, error) {
	for f := c; f != nil && f.Kind != Method; f = f.Parent {
		if label == "" {
			if f.Kind == Loop || f.Kind == Switch {
				return f, nil
			}
			continue
		}
		if f.hasLabel(label) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("break %q: %w", label, ErrUnknownLabel)
}

// ContinueTarget returns the loop frame a continue with the given (possibly empty) label
// restarts.
func (c *Context) ContinueTarget(label string) (*Context, error) {
	for f := c; f != nil && f.Kind != Method; f = f.Parent {
		if f.Kind != Loop {
			if label != "" && f.hasLabel(label) {
				return nil, fmt.Errorf("continue %q targets a statement that is not a loop: %w", label, ErrUnknownLabel)
			}
			continue
		}
		if label == "" || f.hasLabel(label) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("continue %q: %w", label, ErrUnknownLabel)
}

// ReturnTarget returns the method frame.
func (c *Context) ReturnTarget() *Context {
	f := c
	for f.Parent != nil && f.Kind != Method {
		f = f.Parent
	}
	return f
}

// Exit records an abrupt exit of the given kind from c to target. The nearest try frame with a
// finally block on the way intercepts it as pending; otherwise the flow is added to the break,
// continue or return accumulator of target. Dead flows are ignored.
func (c *Context) Exit(kind ExitKind, target *Context, flow flowinfo.FlowInfo) {
	if flow.IsDead() {
		return
	}
	for f := c; f != nil && f != target; f = f.Parent {
		if f.Kind == Try && f.HasFinally {
			f.pending = append(f.pending, PendingExit{Kind: kind, Target: target, Flow: flow})
			return
		}
	}
	switch kind {
	case ExitBreak:
		target.breaks = target.breaks.Merge(flow)
	case ExitContinue:
		target.continues = target.continues.Merge(flow)
	case ExitReturn:
		target.returns = target.returns.Merge(flow)
	}
}

// RecordThrow records that an exception of one of types may be raised with the given state. It
// goes to the nearest try frame that can observe it: a frame in its try block, or a frame in its
// catch blocks that has a finally block. Throws escaping the method are dropped, as are dead
// flows.
func (c *Context) RecordThrow(flow flowinfo.FlowInfo, types ...*ir.Type) {
	if flow.IsDead() || len(types) == 0 {
		return
	}
	for f := c; f != nil; f = f.Parent {
		if f.Kind != Try {
			continue
		}
		if f.phase == InTry || f.HasFinally {
			f.throws = append(f.throws, ThrowPoint{Flow: flow, Types: types})
			return
		}
	}
}

// Rethrow forwards throw points that c could not handle to the enclosing frames.
func (c *Context) Rethrow(points []ThrowPoint) {
	if c == nil {
		return
	}
	for _, p := range points {
		c.RecordThrow(p.Flow, p.Types...)
	}
}

// TakeThrows returns the throw points recorded so far and clears them.
func (c *Context) TakeThrows() []ThrowPoint {
	t := c.throws
	c.throws = nil
	return t
}

// Pending returns the exits intercepted by this try frame.
func (c *Context) Pending() []PendingExit { return c.pending }

// EnterCatch switches a try frame to its catch blocks.
func (c *Context) EnterCatch() { c.phase = InCatch }

// Phase returns the phase of a try frame.
func (c *Context) Phase() Phase { return c.phase }

// Breaks returns the merge of every break flow targeting c.
func (c *Context) Breaks() flowinfo.FlowInfo { return c.breaks }

// Continues returns the merge of every continue flow targeting c.
func (c *Context) Continues() flowinfo.FlowInfo { return c.continues }

// Returns returns the merge of every return flow reaching the method frame c.
func (c *Context) Returns() flowinfo.FlowInfo { return c.returns }

// Dispatch distributes throw points over catch clauses, where catches[i] lists the types caught
// by clause i. A thrown type that is a subtype of a caught type is fully intercepted by the first
// such clause; a caught type that is a subtype of the thrown type receives the flow but does not
// stop it. It returns the entry flow of each clause and the throw points escaping every clause.
func Dispatch(points []ThrowPoint, catches [][]*ir.Type) (entries []flowinfo.FlowInfo, uncaught []ThrowPoint) {
	entries = make([]flowinfo.FlowInfo, len(catches))
	for i := range entries {
		entries[i] = flowinfo.Unreachable()
	}

	for _, p := range points {
		var escaping []*ir.Type
		for _, thrown := range p.Types {
			caught := false
			for i, types := range catches {
				for _, ct := range types {
					switch {
					case thrown.IsSubtypeOf(ct):
						entries[i] = entries[i].Merge(p.Flow)
						caught = true
					case ct.IsSubtypeOf(thrown):
						entries[i] = entries[i].Merge(p.Flow)
					default:
						continue
					}
					break
				}
				if caught {
					break
				}
			}
			if !caught {
				escaping = append(escaping, thrown)
			}
		}
		if len(escaping) > 0 {
			uncaught = append(uncaught, ThrowPoint{Flow: p.Flow, Types: escaping})
		}
	}
	return entries, uncaught
}
