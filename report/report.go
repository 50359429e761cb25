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

// Package report renders diagnostics for people and tools: as compiler-style text lines, as a
// JSON document, or as a SARIF 2.1.0 log for code scanning services.
package report

import (
	"fmt"
	"go/token"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/nullflow/diagnostic"
	"go.uber.org/nullflow/ir"
)

// Writer writes a set of diagnostics in one format. Positions are resolved against fset, which
// may be nil when the diagnostics carry no positions.
type Writer interface {
	Write(w io.Writer, fset *token.FileSet, diags []diagnostic.Diagnostic) error
}

// The supported formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// Formats lists the format names accepted by NewWriter.
func Formats() []string { return []string{FormatText, FormatJSON, FormatSARIF} }

type options struct {
	color bool
}

// Option configures a Writer.
type Option func(*options)

// WithColor turns ANSI colors of the text format on or off. Other formats ignore it.
func WithColor(on bool) Option {
	return func(o *options) { o.color = on }
}

// NewWriter returns the writer for the named format.
func NewWriter(format string, opts ...Option) (Writer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch format {
	case FormatText, "":
		return newTextWriter(o.color), nil
	case FormatJSON:
		return jsonWriter{}, nil
	case FormatSARIF:
		return sarifWriter{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q, want one of %v", format, Formats())
}

// Terminal reports whether f is a terminal that accepts colors. The NO_COLOR convention is
// honored.
func Terminal(f *os.File) bool {
	if color.NoColor || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// location is a resolved diagnostic range. Zero fields are unknown.
type location struct {
	file            string
	line, column    int
	endLine, endCol int
}

func locate(fset *token.FileSet, r ir.Range) location {
	if fset == nil || !r.Start.IsValid() {
		return location{}
	}
	start := fset.Position(r.Start)
	loc := location{file: start.Filename, line: start.Line, column: start.Column}
	if r.End.IsValid() {
		end := fset.Position(r.End)
		loc.endLine, loc.endCol = end.Line, end.Column
	}
	return loc
}

// counts returns the number of error and warning diagnostics.
func counts(diags []diagnostic.Diagnostic) (errs, warnings int) {
	for _, d := range diags {
		switch d.Severity {
		case diagnostic.Error:
			errs++
		case diagnostic.Warning:
			warnings++
		}
	}
	return errs, warnings
}
