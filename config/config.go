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

// Package config hosts the user-facing configuration of nullflow: per-kind severities, the
// assert and suppression options, and the analysis limits. A configuration is loaded from a YAML
// file, and the same settings are exposed as flags of the config analyzer.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"

	"go.uber.org/nullflow/diagnostic"
	"go.uber.org/nullflow/util/asthelper"
	"go.uber.org/nullflow/util/logging"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of one analysis run.
type Config struct {
	// Severities maps every diagnostic kind to its severity.
	Severities map[diagnostic.Kind]diagnostic.Severity
	// IncludeNullInfoFromAsserts makes `assert cond` narrow the flow after it as if cond held.
	IncludeNullInfoFromAsserts bool
	// SuppressOptionalErrors lets @SuppressWarnings silence error-severity diagnostics.
	SuppressOptionalErrors bool
	// LoopStableRoundLimit is the number of silent rounds of a loop after which its head only
	// accumulates.
	LoopStableRoundLimit int
	// Workers bounds the number of methods analyzed concurrently.
	Workers int
	// LogLevel is the verbosity of the log group.
	LogLevel logging.Level
	// PrettyPrint enables colored output in the Go analyzer messages.
	PrettyPrint bool
	// IncludePkgs lists the package path prefixes the Go analyzer analyzes. Empty means all.
	IncludePkgs []string
	// ExcludePkgs lists package path prefixes never analyzed, even when included.
	ExcludePkgs []string
	// ExcludeFileDocStrings lists strings that exclude a Go file when one of its comments before
	// the package clause contains them, e.g. "Code generated by".
	ExcludeFileDocStrings []string
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Severities:           diagnostic.DefaultSeverities(),
		LoopStableRoundLimit: StableRoundLimit,
		Workers:              runtime.GOMAXPROCS(0),
		LogLevel:             logging.WarnLevel,
		PrettyPrint:          true,
	}
}

// rawConfig is the YAML form of Config. Pointers tell set keys from missing ones.
type rawConfig struct {
	Severities                 map[string]string `yaml:"severities"`
	IncludeNullInfoFromAsserts *bool             `yaml:"include-null-info-from-asserts"`
	SuppressOptionalErrors     *bool             `yaml:"suppress-optional-errors"`
	LoopStableRoundLimit       *int              `yaml:"loop-stable-round-limit"`
	Workers                    *int              `yaml:"workers"`
	LogLevel                   *string           `yaml:"log-level"`
	PrettyPrint                *bool             `yaml:"pretty-print"`
	IncludePkgs                []string          `yaml:"include-pkgs"`
	ExcludePkgs                []string          `yaml:"exclude-pkgs"`
	ExcludeFileDocStrings      []string          `yaml:"exclude-file-docstrings"`
}

// Load reads a YAML configuration file.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", filename, err)
	}
	return c, nil
}

// Parse decodes a YAML configuration on top of Default. Unknown keys are rejected.
func Parse(b []byte) (*Config, error) {
	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	c := Default()
	for name, sev := range raw.Severities {
		if err := c.SetSeverity(name, sev); err != nil {
			return nil, err
		}
	}
	if raw.IncludeNullInfoFromAsserts != nil {
		c.IncludeNullInfoFromAsserts = *raw.IncludeNullInfoFromAsserts
	}
	if raw.SuppressOptionalErrors != nil {
		c.SuppressOptionalErrors = *raw.SuppressOptionalErrors
	}
	if raw.LoopStableRoundLimit != nil {
		c.LoopStableRoundLimit = *raw.LoopStableRoundLimit
	}
	if raw.Workers != nil {
		c.Workers = *raw.Workers
	}
	if raw.LogLevel != nil {
		l, err := logging.ParseLevel(*raw.LogLevel)
		if err != nil {
			return nil, err
		}
		c.LogLevel = l
	}
	if raw.PrettyPrint != nil {
		c.PrettyPrint = *raw.PrettyPrint
	}
	c.IncludePkgs = raw.IncludePkgs
	c.ExcludePkgs = raw.ExcludePkgs
	c.ExcludeFileDocStrings = raw.ExcludeFileDocStrings

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetSeverity sets the severity of the kind with the given configuration name.
func (c *Config) SetSeverity(kind, severity string) error {
	k, err := diagnostic.ParseKind(kind)
	if err != nil {
		return err
	}
	s, err := diagnostic.ParseSeverity(severity)
	if err != nil {
		return fmt.Errorf("kind %q: %w", kind, err)
	}
	c.Severities[k] = s
	return nil
}

// SetSeverities applies a comma-separated list of kind=severity pairs, e.g.
// "dead-code=ignore,null-pointer-access=error".
func (c *Config) SetSeverities(list string) error {
	for _, pair := range strings.Split(list, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kind, sev, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("malformed severity %q, want kind=severity", pair)
		}
		if err := c.SetSeverity(kind, sev); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the limits of the configuration.
func (c *Config) Validate() error {
	if c.LoopStableRoundLimit < 1 {
		return fmt.Errorf("loop-stable-round-limit must be positive, got %d", c.LoopStableRoundLimit)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// ReporterOptions returns the options of the diagnostic reporters.
func (c *Config) ReporterOptions() diagnostic.Options {
	return diagnostic.Options{Severities: c.Severities, SuppressOptionalErrors: c.SuppressOptionalErrors}
}

// Logger returns a log group at the configured level.
func (c *Config) Logger() *logging.LogGroup {
	return logging.NewLogGroup(c.LogLevel)
}

// IsPkgInScope reports whether the Go analyzer analyzes pkg.
func (c *Config) IsPkgInScope(pkg *types.Package) bool {
	if pkg == nil {
		return false
	}
	path := pkg.Path()
	hasPrefix := func(prefix string) bool { return strings.HasPrefix(path, prefix) }
	if slices.ContainsFunc(c.ExcludePkgs, hasPrefix) {
		return false
	}
	return len(c.IncludePkgs) == 0 || slices.ContainsFunc(c.IncludePkgs, hasPrefix)
}

// IsFileInScope reports whether the Go analyzer analyzes file, judging by the comments before
// its package clause.
func (c *Config) IsFileInScope(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			break
		}
		if slices.ContainsFunc(c.ExcludeFileDocStrings, func(s string) bool { return asthelper.DocContains(group, s) }) {
			return false
		}
	}
	return true
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
