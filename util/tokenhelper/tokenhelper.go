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

// Package tokenhelper hosts helpers around the `token` package, mostly for printing positions
// independently of where the tool runs.
package tokenhelper

import (
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

var _cwd = func() string {
	cwd, err := os.Getwd()
	if err != nil {
		panic("failed to get current working directory: " + err.Error())
	}
	return cwd
}()

// RelToCwd returns filename relative to the current working directory (retrieved during
// initialization). Files outside of it, and relative names, are returned unchanged.
func RelToCwd(filename string) string {
	rel, err := filepath.Rel(_cwd, filename)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filename
	}
	return rel
}

// Position resolves pos in fset with a filename relative to the working directory. Invalid
// positions resolve to the zero Position.
func Position(fset *token.FileSet, pos token.Pos) token.Position {
	if fset == nil || !pos.IsValid() {
		return token.Position{}
	}
	p := fset.Position(pos)
	p.Filename = RelToCwd(p.Filename)
	return p
}
