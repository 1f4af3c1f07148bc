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

package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/multreplace/pkg/text"
)

func TestLoad(t *testing.T) {
	t.Setenv("MULTREPLACE_TEST_AUTHOR", "walteh")

	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: "config.yaml",
			config: `
language: en
backup: true
preview:
  context: 1
  color: false
rules:
  - before: "  cat "
    after: " dog"
  - before: category
    after: kind
    file: "**/*.md"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "en", cfg.Language, "language should match")
				assert.True(t, cfg.Backup, "backup should be true")
				assert.Equal(t, 1, cfg.ContextLines(), "context should match")
				assert.False(t, cfg.Color(), "color should be false")
				require.Len(t, cfg.Rules, 2, "should have 2 rules")
				assert.Nil(t, cfg.Rules[0].File, "first rule file should be nil")
				require.NotNil(t, cfg.Rules[1].File, "second rule file should not be nil")
				assert.Equal(t, text.RuleSet{
					{FromText: "cat", ToText: " dog"},
					{FromText: "category", ToText: "kind", FileFilterGlob: "**/*.md"},
				}, cfg.RuleSet(), "before is trimmed, after is not")
			},
		},
		{
			name:     "minimal_yaml",
			filename: "config.yml",
			config: `
rules:
  - before: a
    after: b
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "ja", cfg.Language, "language should have default value")
				assert.Equal(t, DefaultContextLines, cfg.ContextLines(), "context should have default value")
				assert.True(t, cfg.Color(), "color should default to true")
				assert.False(t, cfg.Backup, "backup should be false")
			},
		},
		{
			name:     "empty_yaml",
			filename: "config.yaml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Rules, "should have no rules")
				assert.Equal(t, "ja", cfg.Language, "language should have default value")
			},
		},
		{
			name:     "valid_json",
			filename: "rules.json",
			config:   `{"language": "en", "rules": [{"before": "x", "after": "y"}, {"before": "x", "after": "z"}]}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "en", cfg.Language, "language should match")
				assert.Equal(t, text.RuleSet{
					{FromText: "x", ToText: "y"},
					{FromText: "x", ToText: "z"},
				}, cfg.RuleSet(), "duplicates are kept in file order")
			},
		},
		{
			name:     "valid_hcl",
			filename: "rules.hcl",
			config: `
language = "en"

preview {
  context = 0
}

rule {
  before = "AUTHOR"
  after  = env.MULTREPLACE_TEST_AUTHOR
}

rule {
  before = "TODO"
  after  = "DONE"
  file   = "*.txt"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "en", cfg.Language, "language should match")
				assert.Equal(t, 0, cfg.ContextLines(), "context should match")
				assert.Equal(t, text.RuleSet{
					{FromText: "AUTHOR", ToText: "walteh"},
					{FromText: "TODO", ToText: "DONE", FileFilterGlob: "*.txt"},
				}, cfg.RuleSet(), "rules should match")
			},
		},
		{
			name:     "dotfile_yaml",
			filename: ".multreplace",
			config: `
rules:
  - before: one
    after: "1"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, text.RuleSet{{FromText: "one", ToText: "1"}}, cfg.RuleSet())
			},
		},
		{
			name:     "dotfile_hcl",
			filename: ".multreplace",
			config: `
rule {
  before = "one"
  after  = "1"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, text.RuleSet{{FromText: "one", ToText: "1"}}, cfg.RuleSet())
			},
		},
		{
			name:        "unknown_yaml_field",
			filename:    "config.yaml",
			config:      "rulez: []\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "config.json",
			config:      `{"rulez": []}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "unsupported_language",
			filename:    "config.yaml",
			config:      "language: fr\n",
			wantErr:     true,
			errContains: `language "fr" is not supported`,
		},
		{
			name:     "blank_before",
			filename: "config.yaml",
			config: `
rules:
  - before: "   "
    after: x
`,
			wantErr:     true,
			errContains: "rules[0]: before is required",
		},
		{
			name:     "invalid_glob",
			filename: "config.yaml",
			config: `
rules:
  - before: a
    after: b
    file: "[a"
`,
			wantErr:     true,
			errContains: "invalid file_filter_glob",
		},
		{
			name:        "negative_context",
			filename:    "config.json",
			config:      `{"preview": {"context": -1}}`,
			wantErr:     true,
			errContains: "preview.context must not be negative",
		},
		{
			name:        "unsupported_extension",
			filename:    "config.toml",
			config:      "",
			wantErr:     true,
			errContains: "unsupported file extension",
		},
		{
			name:        "dotfile_garbage",
			filename:    ".multreplace",
			config:      "{{{ not a config",
			wantErr:     true,
			errContains: "neither YAML nor HCL",
		},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.filename)
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, configPath, cfg.Location(), "location should be recorded")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "ja", cfg.Language)
	assert.Equal(t, DefaultContextLines, cfg.ContextLines())
	assert.True(t, cfg.Color())
	assert.Empty(t, cfg.RuleSet())
	assert.Equal(t, "<default> (language=ja, rules=0)", cfg.String())
}
