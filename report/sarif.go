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
	"go/token"
	"io"
	"slices"

	"go.uber.org/nullflow/diagnostic"
)

const (
	_sarifVersion = "2.1.0"
	_sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	_toolName     = "nullflow"
)

// Short descriptions of the rules, one per diagnostic kind.
var _ruleDescriptions = map[diagnostic.Kind]string{
	diagnostic.NullPointerAccess:          "Null pointer access",
	diagnostic.PotentialNullPointerAccess: "Potential null pointer access",
	diagnostic.RedundantNullCheck:         "Redundant null check",
	diagnostic.ImpossibleNullComparison:   "Null comparison always yields false",
	diagnostic.InstanceofAlwaysFalse:      "instanceof always yields false",
	diagnostic.RedundantAssignment:        "Redundant null assignment",
	diagnostic.UnboxingNPE:                "Null pointer access requiring auto-unboxing",
	diagnostic.PotentialUnboxingNPE:       "Potential null pointer access requiring auto-unboxing",
	diagnostic.DeadCode:                   "Dead code",
	diagnostic.UninitializedLocal:         "Local variable may not have been initialized",
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string    `json:"id"`
	ShortDescription sarifText `json:"shortDescription"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// sarifWriter writes a log with a single run. The rules are the kinds that occur, in kind
// order.
type sarifWriter struct{}

func (sarifWriter) Write(out io.Writer, fset *token.FileSet, diags []diagnostic.Diagnostic) error {
	var kinds []diagnostic.Kind
	for _, d := range diags {
		if !slices.Contains(kinds, d.Kind) {
			kinds = append(kinds, d.Kind)
		}
	}
	slices.Sort(kinds)

	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: _toolName, Rules: make([]sarifRule, 0, len(kinds))}},
		Results: make([]sarifResult, 0, len(diags)),
	}
	for _, k := range kinds {
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
			ID:               k.String(),
			ShortDescription: sarifText{Text: _ruleDescriptions[k]},
		})
	}

	for _, d := range diags {
		res := sarifResult{
			RuleID:    d.Kind.String(),
			RuleIndex: slices.Index(kinds, d.Kind),
			Level:     sarifLevel(d.Severity),
			Message:   sarifText{Text: d.Message},
		}
		if l := locate(fset, d.Range); l.file != "" {
			loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{ArtifactLocation: sarifArtifact{URI: l.file}}}
			if l.line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   l.line,
					StartColumn: l.column,
					EndLine:     l.endLine,
					EndColumn:   l.endCol,
				}
			}
			res.Locations = []sarifLocation{loc}
		}
		run.Results = append(run.Results, res)
	}

	return encode(out, sarifLog{Schema: _sarifSchema, Version: _sarifVersion, Runs: []sarifRun{run}})
}

func sarifLevel(s diagnostic.Severity) string {
	switch s {
	case diagnostic.Error:
		return "error"
	case diagnostic.Warning:
		return "warning"
	}
	return "none"
}
