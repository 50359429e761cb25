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
// Package nolint checks that nolint comments silence the diagnostics of the node they annotate.
package nolint

type T struct{ f int }

func silenced() int {
	var p *T
	return p.f //nolint:nullflow
}

//nolint:all // known to be nil
func silencedFunc() int {
	var p *T
	return p.f
}

func otherLinter() int {
	var p *T
	//nolint:errcheck
	return p.f // want "Nil pointer access: The variable p can only be nil"
}
