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


package noreturn

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/s2"
	"go.uber.org/nullflow/util/orderedmap"
)

// Fact is the package fact listing the functions of a package that never return, each with the
// call that stops it. Only functions inferred from the package's own code are listed; those of
// its dependencies are in their own facts.
type Fact struct {
	funcs *orderedmap.OrderedMap[string, string]
}

// AFact marks Fact as an analysis fact.
func (*Fact) AFact() {}

func (f *Fact) String() string {
	var parts []string
	f.funcs.OrderedRange(func(name, via string) bool {
		parts = append(parts, name+" ("+via+")")
		return true
	})
	return fmt.Sprintf("noreturn[%s]", strings.Join(parts, ", "))
}

// GobEncode encodes the fact with s2 compression: facts are written for every package of a
// build and names compress well.
func (f *Fact) GobEncode() (b []byte, err error) {
	var buf bytes.Buffer
	writer := s2.NewWriter(&buf)
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := gob.NewEncoder(writer).Encode(f.funcs); err != nil {
		return nil, err
	}
	// The writer must be flushed before the bytes are complete.
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode decodes a fact written by GobEncode.
func (f *Fact) GobDecode(input []byte) error {
	f.funcs = orderedmap.New[string, string]()
	return gob.NewDecoder(s2.NewReader(bytes.NewReader(input))).Decode(f.funcs)
}
