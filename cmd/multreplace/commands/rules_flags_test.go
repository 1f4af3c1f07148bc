// Copyright 2025 walteh LLC
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

package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/multreplace/cmd/multreplace/opts"
	"github.com/walteh/multreplace/pkg/config"
	"github.com/walteh/multreplace/pkg/document"
	"github.com/walteh/multreplace/pkg/i18n"
	"github.com/walteh/multreplace/pkg/session"
	"github.com/walteh/multreplace/pkg/text"
	"gitlab.com/tozd/go/errors"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        text.ReplacementRule
		errContains string
	}{
		{name: "simple", input: "cat=dog", want: text.ReplacementRule{FromText: "cat", ToText: "dog"}},
		{name: "split_at_first_equals", input: "a=b=c", want: text.ReplacementRule{FromText: "a", ToText: "b=c"}},
		{name: "empty_after_deletes", input: "noise=", want: text.ReplacementRule{FromText: "noise", ToText: ""}},
		{name: "before_trimmed_after_kept", input: " x = y ", want: text.ReplacementRule{FromText: "x", ToText: " y "}},
		{name: "missing_equals", input: "cat", errContains: "expected before=after"},
		{name: "empty_before", input: " =dog", errContains: "before is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRule(tt.input)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleFlags_RuleSet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rulesFile := filepath.Join(dir, "extra.json")
	require.NoError(t, os.WriteFile(rulesFile, []byte(`{"rules":[{"before":"b","after":"2"}]}`), 0644))

	cfgFile := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("rules:\n  - before: a\n    after: \"1\"\n"), 0644))
	cfg, err := config.Load(ctx, cfgFile)
	require.NoError(t, err)

	rf := ruleFlags{rules: []string{"a=one"}, rulesFile: rulesFile}
	rules, source, err := rf.ruleSet(ctx, &opts.RootOpts{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, text.RuleSet{
		{FromText: "a", ToText: "1"},
		{FromText: "b", ToText: "2"},
		{FromText: "a", ToText: "one"},
	}, rules)
	assert.Equal(t, cfgFile+", "+rulesFile+", flags", source)
	assert.Equal(t, "one 2", text.Replace("a b", rules), "flag rules win over config rules")
}

func TestDescribe(t *testing.T) {
	cat, err := i18n.Load("en")
	require.NoError(t, err)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "invalid_path", err: document.ErrInvalidPath, want: "Invalid file path"},
		{name: "read", err: document.ErrRead, want: "Could not read the file"},
		{name: "write", err: document.ErrWrite, want: "Could not save the file"},
		{name: "no_rules", err: session.ErrNoRules, want: "There are no valid replacement rules"},
		{name: "no_document", err: session.ErrNoDocument, want: "No file has been loaded"},
		{name: "not_executed", err: session.ErrNotExecuted, want: "Run the replacement before saving"},
		{name: "other", err: errors.New("boom"), want: "An error occurred while replacing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describe(cat, tt.err)
			assert.True(t, errors.Is(got, tt.err))
			assert.Contains(t, got.Error(), tt.want)
		})
	}
}
