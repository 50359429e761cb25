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


// Package gclplugin registers nullflow as a golangci-lint module plugin. See
// https://golangci-lint.run/plugins/module-plugins/.
//
// The settings are the flags of the configuration analyzer:
//
//	linters-settings:
//	  custom:
//	    nullflow:
//	      type: module
//	      settings:
//	        include-pkgs: ["example.com/service"]
//	        severities: dead-code=ignore
package gclplugin

import (
	"fmt"
	"strings"

	"github.com/golangci/plugin-module-register/register"
	"go.uber.org/nullflow"
	"go.uber.org/nullflow/config"
	"golang.org/x/tools/go/analysis"
)

func init() {
	register.Plugin("nullflow", New)
}

// New parses the settings into flag values. They are applied when the analyzers are built.
func New(settings any) (register.LinterPlugin, error) {
	if settings == nil {
		return &Plugin{}, nil
	}
	s, ok := settings.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expect nullflow settings to be a map of flag names to values, got %T", settings)
	}
	flags := make(map[string]string, len(s))
	for k, v := range s {
		str, err := flagValue(v)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", k, err)
		}
		flags[k] = str
	}
	return &Plugin{flags: flags}, nil
}

// flagValue renders a YAML scalar, or a list of scalars as a comma-separated list.
func flagValue(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool, int, int64, float64:
		return fmt.Sprint(v), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			s, err := flagValue(e)
			if err != nil {
				return "", err
			}
			if _, nested := e.([]any); nested {
				return "", fmt.Errorf("nested lists are not supported")
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}

// Plugin is the golangci-lint wrapper of nullflow.
type Plugin struct {
	flags map[string]string
}

// BuildAnalyzers applies the settings to the configuration analyzer and returns nullflow.
func (p *Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	for k, v := range p.flags {
		if err := config.Analyzer.Flags.Set(k, v); err != nil {
			return nil, fmt.Errorf("set config flag %s to %s: %w", k, v, err)
		}
	}
	return []*analysis.Analyzer{nullflow.Analyzer}, nil
}

// GetLoadMode returns the load mode nullflow needs: type information.
func (p *Plugin) GetLoadMode() string { return register.LoadModeTypesInfo }
