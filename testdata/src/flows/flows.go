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

// Package flows holds the basic flows the analyzer reports on.
package flows

import "os"

type T struct {
	f    int
	next *T
}

func (t *T) Ptr() int { return 0 }

type I interface{ M() }

func nilField() int {
	var p *T
	return p.f // want "Nil pointer access: The variable p can only be nil at this location"
}

func onePath(b bool) int {
	var p *T
	if b {
		p = &T{}
	}
	return p.f // want "Potential nil pointer access: The variable p may be nil at this location"
}

func checked(p *T) int {
	if p == nil {
		return 0
	}
	if p != nil { // want "Redundant nil check: The variable p cannot be nil at this location"
		return p.f
	}
	return 1
}

func pointerReceiver() int {
	var p *T
	return p.Ptr()
}

func nilInterface() {
	var i I
	i.M() // want "Nil pointer access: The variable i can only be nil at this location"
}

func nilMap() {
	var m map[string]int
	_ = m["a"]
	m["b"] = 1 // want "Nil pointer access: The variable m can only be nil at this location"
}

func exits(p *T) int {
	if p == nil {
		os.Exit(1)
	}
	if p != nil { // want "Redundant nil check: The variable p cannot be nil at this location"
		return p.f
	}
	return 0
}

func redundantAssignment() *T {
	var p *T
	p = nil // want "Redundant assignment: The variable p can only be nil at this location"
	return p
}

func closures() func() int {
	return func() int {
		var p *T
		return p.next.f // want "Nil pointer access: The variable p can only be nil at this location"
	}
}

func unsupported(p *T) int {
	if p == nil {
		goto out
	}
	return p.f
out:
	return 0
}
