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

package report

import (
	"encoding/json"
	"fmt"
	"go/token"
	"io"

	"go.uber.org/nullflow/diagnostic"
)

type jsonReport struct {
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

type jsonDiagnostic struct {
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
	EndLine   int    `json:"endLine,omitempty"`
	EndColumn int    `json:"endColumn,omitempty"`
	Kind      string `json:"kind"`
	Severity  string `json:"severity"`
	Name      string `json:"name,omitempty"`
	Message   string `json:"message"`
}

type jsonWriter struct{}

func (jsonWriter) Write(out io.Writer, fset *token.FileSet, diags []diagnostic.Diagnostic) error {
	r := jsonReport{Diagnostics: make([]jsonDiagnostic, 0, len(diags))}
	for _, d := range diags {
		l := locate(fset, d.Range)
		r.Diagnostics = append(r.Diagnostics, jsonDiagnostic{
			File:      l.file,
			Line:      l.line,
			Column:    l.column,
			EndLine:   l.endLine,
			EndColumn: l.endCol,
			Kind:      d.Kind.String(),
			Severity:  d.Severity.String(),
			Name:      d.Name,
			Message:   d.Message,
		})
	}
	r.Errors, r.Warnings = counts(diags)
	return encode(out, r)
}

func encode(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
