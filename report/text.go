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
	"bufio"
	"fmt"
	"go/token"
	"io"

	"github.com/fatih/color"
	"go.uber.org/nullflow/diagnostic"
)

// textWriter prints one `file:line:col: severity: message [kind]` line per diagnostic and a
// summary line.
type textWriter struct {
	errColor, warnColor, posColor, kindColor *color.Color
}

func newTextWriter(on bool) *textWriter {
	w := &textWriter{
		errColor:  color.New(color.FgRed, color.Bold),
		warnColor: color.New(color.FgYellow),
		posColor:  color.New(color.Bold),
		kindColor: color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{w.errColor, w.warnColor, w.posColor, w.kindColor} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return w
}

func (t *textWriter) Write(out io.Writer, fset *token.FileSet, diags []diagnostic.Diagnostic) error {
	bw := bufio.NewWriter(out)
	for _, d := range diags {
		sev := t.warnColor.Sprint(d.Severity)
		if d.Severity == diagnostic.Error {
			sev = t.errColor.Sprint(d.Severity)
		}
		fmt.Fprintf(bw, "%s: %s: %s %s\n", t.posColor.Sprint(position(locate(fset, d.Range))),
			sev, d.Message, t.kindColor.Sprintf("[%s]", d.Kind))
	}
	if len(diags) > 0 {
		errs, warnings := counts(diags)
		fmt.Fprintf(bw, "%s, %s\n", plural(errs, "error"), plural(warnings, "warning"))
	}
	return bw.Flush()
}

func position(l location) string {
	switch {
	case l.file == "" && l.line == 0:
		return "-"
	case l.line == 0:
		return l.file
	}
	return fmt.Sprintf("%s:%d:%d", l.file, l.line, l.column)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
