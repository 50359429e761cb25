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

package config

import (
	"flag"
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/nullflow/util/logging"
	"golang.org/x/tools/go/analysis"
)

const _doc = "Configuration of nullflow. It only carries the flags; drivers read its result."

// Analyzer carries the configuration flags of nullflow. The top-level analyzer requires it and
// reads its *Config result. Drivers lift its flags (see cmd/nullflow) or set them from their own
// settings (see cmd/gclplugin).
var Analyzer = &analysis.Analyzer{
	Name:       "nullflow_config",
	Doc:        _doc,
	Run:        run,
	Flags:      newFlagSet(),
	ResultType: reflect.TypeOf((*Config)(nil)),
}

const (
	// ConfigFileFlag names a YAML configuration file loaded before the other flags are applied.
	ConfigFileFlag = "config-file"
	// PrettyPrintFlag enables colored messages.
	PrettyPrintFlag = "pretty-print"
	// IncludeNullInfoFromAssertsFlag makes asserts narrow the flow after them.
	IncludeNullInfoFromAssertsFlag = "include-null-info-from-asserts"
	// SuppressOptionalErrorsFlag lets suppression scopes silence errors too.
	SuppressOptionalErrorsFlag = "suppress-optional-errors"
	// SeveritiesFlag is a comma-separated list of kind=severity pairs.
	SeveritiesFlag = "severities"
	// LoopStableRoundLimitFlag sets the silent rounds of a loop before its head accumulates.
	LoopStableRoundLimitFlag = "loop-stable-round-limit"
	// LogLevelFlag is the log verbosity.
	LogLevelFlag = "log-level"
	// IncludePkgsFlag is a comma-separated list of package path prefixes to analyze.
	IncludePkgsFlag = "include-pkgs"
	// ExcludePkgsFlag is a comma-separated list of package path prefixes not to analyze.
	ExcludePkgsFlag = "exclude-pkgs"
	// ExcludeFileDocStringsFlag is a comma-separated list of strings excluding files whose
	// leading comments contain them.
	ExcludeFileDocStringsFlag = "exclude-file-docstrings"
)

func newFlagSet() flag.FlagSet {
	def := Default()
	fs := flag.NewFlagSet("nullflow_config", flag.ExitOnError)

	// The returned pointers are not kept: values are read back through Analyzer.Flags, which is
	// also where drivers write them.
	_ = fs.String(ConfigFileFlag, "", "Path to a YAML configuration file. Flags set explicitly take precedence over it.")
	_ = fs.Bool(PrettyPrintFlag, def.PrettyPrint, "Pretty print the error messages")
	_ = fs.Bool(IncludeNullInfoFromAssertsFlag, def.IncludeNullInfoFromAsserts, "Use the condition of assert statements as null information for the code after them")
	_ = fs.Bool(SuppressOptionalErrorsFlag, def.SuppressOptionalErrors, "Let suppression scopes silence error-severity diagnostics")
	_ = fs.String(SeveritiesFlag, "", "Comma-separated list of kind=severity pairs, e.g. dead-code=ignore,null-pointer-access=error")
	_ = fs.Int(LoopStableRoundLimitFlag, def.LoopStableRoundLimit, "Silent analysis rounds of a loop before its head state only accumulates")
	_ = fs.String(LogLevelFlag, def.LogLevel.String(), "Log level: error, warn, info, debug or trace")
	_ = fs.String(IncludePkgsFlag, "", "Comma-separated list of package path prefixes to analyze (default: all)")
	_ = fs.String(ExcludePkgsFlag, "", "Comma-separated list of package path prefixes not to analyze")
	_ = fs.String(ExcludeFileDocStringsFlag, "", "Comma-separated list of strings excluding files whose leading comments contain them, e.g. \"Code generated by\"")
	return *fs
}

func run(pass *analysis.Pass) (any, error) {
	return FromFlags(&pass.Analyzer.Flags)
}

// FromFlags builds a configuration from a flag set created like the one of Analyzer: defaults,
// then the configuration file if any, then every flag whose value differs from its default.
func FromFlags(fs *flag.FlagSet) (*Config, error) {
	conf := Default()
	if f := fs.Lookup(ConfigFileFlag); f != nil && f.Value.String() != "" {
		c, err := Load(f.Value.String())
		if err != nil {
			return nil, err
		}
		conf = c
	}

	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil || f.Value.String() == f.DefValue {
			return
		}
		err = conf.applyFlag(f.Name, f.Value.String())
	})
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) applyFlag(name, value string) error {
	var err error
	switch name {
	case PrettyPrintFlag:
		c.PrettyPrint, err = strconv.ParseBool(value)
	case IncludeNullInfoFromAssertsFlag:
		c.IncludeNullInfoFromAsserts, err = strconv.ParseBool(value)
	case SuppressOptionalErrorsFlag:
		c.SuppressOptionalErrors, err = strconv.ParseBool(value)
	case SeveritiesFlag:
		err = c.SetSeverities(value)
	case LoopStableRoundLimitFlag:
		c.LoopStableRoundLimit, err = strconv.Atoi(value)
	case LogLevelFlag:
		c.LogLevel, err = logging.ParseLevel(value)
	case IncludePkgsFlag:
		c.IncludePkgs = splitList(value)
	case ExcludePkgsFlag:
		c.ExcludePkgs = splitList(value)
	case ExcludeFileDocStringsFlag:
		c.ExcludeFileDocStrings = splitList(value)
	}
	if err != nil {
		return fmt.Errorf("flag -%s=%q: %w", name, value, err)
	}
	return nil
}
