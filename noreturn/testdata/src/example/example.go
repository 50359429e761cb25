// want package:`noreturn\[example\.exit \(os\.Exit\), example\.fatal \(log\.Fatalf\), example\.wrapper \(example\.exit\), example\.viaDep \(dep\.Die\), .*example\.later \(example\.exit\)\]`

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


// Package example holds functions that never return, and some that look like they do not but
// can return.
package example

import (
	"dep"
	"log"
	"os"
	"testing"
)

func exit() {
	os.Exit(1)
}

func fatal(msg string) {
	log.Fatalf("%s", msg)
}

func wrapper() {
	exit()
}

func viaDep() {
	dep.Die()
}

func loop() {
	for {
	}
}

func blocks() {
	select {}
}

func both(b bool) {
	if b {
		panic("b")
	} else {
		wrapper()
	}
}

func switches(i int) {
	switch i {
	case 1:
		panic("one")
	default:
		exit()
	}
}

func tb(t testing.TB) {
	t.Fatal("x")
}

func later() {
	if false {
	}
	exit()
}

// The functions below can return.

func conditional(b bool) {
	if b {
		return
	}
	os.Exit(1)
}

func sometimes(b bool) {
	if b {
		os.Exit(1)
	}
}

func breaks() {
	for {
		break
	}
}

func labeled() {
outer:
	for {
		for {
			break outer
		}
	}
}

func noDefault(i int) {
	switch i {
	case 1:
		exit()
	}
}

func closure() {
	f := func() { os.Exit(1) }
	_ = f
}

func alive() {
	dep.Alive()
}
