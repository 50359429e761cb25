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

// Package logging provides the leveled log group used across nullflow. Each level writes through
// its own *log.Logger so that drivers can redirect or silence them independently.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is the verbosity of a LogGroup. A message is printed when its level is less than or
// equal to the group's level.
type Level int

const (
	// ErrLevel only prints errors.
	ErrLevel Level = iota + 1
	// WarnLevel prints warnings and errors.
	WarnLevel
	// InfoLevel prints high-level progress information.
	InfoLevel
	// DebugLevel prints per-function analysis information.
	DebugLevel
	// TraceLevel prints flow states at every statement. Only useful on small inputs.
	TraceLevel
)

var _levelNames = map[string]Level{
	"error": ErrLevel,
	"warn":  WarnLevel,
	"info":  InfoLevel,
	"debug": DebugLevel,
	"trace": TraceLevel,
}

// ParseLevel parses a level name ("error", "warn", "info", "debug", "trace").
func ParseLevel(s string) (Level, error) {
	l, ok := _levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// String returns the name of the level.
func (l Level) String() string {
	for name, level := range _levelNames {
		if level == l {
			return name
		}
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// LogGroup is a set of loggers, one per level.
type LogGroup struct {
	level Level
	trace *log.Logger
	debug *log.Logger
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
}

// NewLogGroup returns a log group printing to stderr messages up to the given level.
func NewLogGroup(level Level) *LogGroup {
	return &LogGroup{
		level: level,
		trace: log.New(os.Stderr, "[TRACE] ", log.LstdFlags),
		debug: log.New(os.Stderr, "[DEBUG] ", log.LstdFlags),
		info:  log.New(os.Stderr, "[INFO] ", log.LstdFlags),
		warn:  log.New(os.Stderr, "[WARN] ", log.LstdFlags),
		err:   log.New(os.Stderr, "[ERROR] ", log.LstdFlags),
	}
}

// Discard returns a log group that prints nothing.
func Discard() *LogGroup {
	l := NewLogGroup(ErrLevel)
	l.SetAllOutput(io.Discard)
	return l
}

// Level returns the level of the group.
func (l *LogGroup) Level() Level { return l.level }

// SetAllOutput sets the output writer of every logger in the group.
func (l *LogGroup) SetAllOutput(w io.Writer) {
	l.trace.SetOutput(w)
	l.debug.SetOutput(w)
	l.info.SetOutput(w)
	l.warn.SetOutput(w)
	l.err.SetOutput(w)
}

// SetAllFlags sets the flags of every logger in the group.
func (l *LogGroup) SetAllFlags(x int) {
	l.trace.SetFlags(x)
	l.debug.SetFlags(x)
	l.info.SetFlags(x)
	l.warn.SetFlags(x)
	l.err.SetFlags(x)
}

// Tracef prints to the trace logger. Arguments are handled in the manner of Printf.
func (l *LogGroup) Tracef(format string, v ...any) {
	if l.level >= TraceLevel {
		l.trace.Printf(format, v...)
	}
}

// Debugf prints to the debug logger. Arguments are handled in the manner of Printf.
func (l *LogGroup) Debugf(format string, v ...any) {
	if l.level >= DebugLevel {
		l.debug.Printf(format, v...)
	}
}

// Infof prints to the info logger. Arguments are handled in the manner of Printf.
func (l *LogGroup) Infof(format string, v ...any) {
	if l.level >= InfoLevel {
		l.info.Printf(format, v...)
	}
}

// Warnf prints to the warn logger. Arguments are handled in the manner of Printf.
func (l *LogGroup) Warnf(format string, v ...any) {
	if l.level >= WarnLevel {
		l.warn.Printf(format, v...)
	}
}

// Errorf prints to the error logger. Arguments are handled in the manner of Printf.
func (l *LogGroup) Errorf(format string, v ...any) {
	if l.level >= ErrLevel {
		l.err.Printf(format, v...)
	}
}

// TraceEnabled reports whether trace messages are printed, so callers can skip building
// expensive trace strings.
func (l *LogGroup) TraceEnabled() bool { return l.level >= TraceLevel }
