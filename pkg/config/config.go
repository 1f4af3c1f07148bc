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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/multreplace/pkg/i18n"
	"github.com/walteh/multreplace/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultContextLines is the preview context used when none is configured
const DefaultContextLines = 3

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Rule is a before/after pair as written in a config file
type Rule struct {
	Before string  `json:"before" yaml:"before" hcl:"before,attr"`
	After  string  `json:"after" yaml:"after" hcl:"after,optional"`
	File   *string `json:"file,omitempty" yaml:"file,omitempty" hcl:"file,optional"` // optional glob
}

// 🖼️ PreviewConfig controls how previews are rendered
type PreviewConfig struct {
	Context *int  `json:"context,omitempty" yaml:"context,omitempty" hcl:"context,optional"`
	Color   *bool `json:"color,omitempty" yaml:"color,omitempty" hcl:"color,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Language string         `json:"language,omitempty" yaml:"language,omitempty" hcl:"language,optional"`
	Backup   bool           `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
	Preview  *PreviewConfig `json:"preview,omitempty" yaml:"preview,omitempty" hcl:"preview,block"`
	Rules    []*Rule        `json:"rules,omitempty" yaml:"rules,omitempty" hcl:"rule,block"`

	location string
}

// Default returns a validated config with no rules
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// 🎯 Load loads the configuration from a file. The format is chosen by
// extension; a .multreplace file is tried as YAML and then as HCL.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if p := GetParser(path); p != nil {
		cfg, err = p.Parse(ctx, path, data)
		if err != nil {
			return nil, errors.Errorf("parsing config: %w", err)
		}
	} else if strings.EqualFold(filepath.Ext(path), ".multreplace") || filepath.Base(path) == ".multreplace" {
		cfg, err = (&YAMLParser{}).Parse(ctx, path, data)
		if err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("not YAML, trying HCL")
			cfg, err = (&HCLParser{}).Parse(ctx, path, data)
		}
		if err != nil {
			return nil, errors.Errorf("parsing config: %s is neither YAML nor HCL: %w", path, err)
		}
	} else {
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	cfg.location = path
	if err := Validate(ctx, cfg); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("path", path).Int("rules", len(cfg.Rules)).Str("language", cfg.Language).Msg("loaded configuration")
	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func Validate(ctx context.Context, cfg *Config) error {
	if cfg.Language != "" && !i18n.Supported(cfg.Language) {
		return errors.Errorf("language %q is not supported (supported: %s)", cfg.Language, strings.Join(i18n.Languages(), ", "))
	}

	if cfg.Preview != nil && cfg.Preview.Context != nil && *cfg.Preview.Context < 0 {
		return errors.Errorf("preview.context must not be negative")
	}

	for i, rule := range cfg.Rules {
		if rule == nil || strings.TrimSpace(rule.Before) == "" {
			return errors.Errorf("rules[%d]: before is required", i)
		}
	}
	if err := text.ValidateRules(cfg.RuleSet()); err != nil {
		return errors.Errorf("rules: %w", err)
	}

	cfg.setDefaults()
	return nil
}

func (cfg *Config) setDefaults() {
	if cfg.Language == "" {
		cfg.Language = i18n.DefaultLanguage
	}
	if cfg.Preview == nil {
		cfg.Preview = &PreviewConfig{}
	}
	if cfg.Preview.Context == nil {
		n := DefaultContextLines
		cfg.Preview.Context = &n
	}
	if cfg.Preview.Color == nil {
		b := true
		cfg.Preview.Color = &b
	}
}

// RuleSet converts the configured rules, in file order
func (cfg *Config) RuleSet() text.RuleSet {
	rules := make(text.RuleSet, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		if r == nil {
			continue
		}
		rule := text.ReplacementRule{
			FromText: strings.TrimSpace(r.Before),
			ToText:   r.After,
		}
		if r.File != nil {
			rule.FileFilterGlob = *r.File
		}
		rules = append(rules, rule)
	}
	return rules
}

// ContextLines returns the configured preview context
func (cfg *Config) ContextLines() int {
	if cfg.Preview == nil || cfg.Preview.Context == nil {
		return DefaultContextLines
	}
	return *cfg.Preview.Context
}

// Color reports whether previews are colorized
func (cfg *Config) Color() bool {
	if cfg.Preview == nil || cfg.Preview.Color == nil {
		return true
	}
	return *cfg.Preview.Color
}

// Location returns the path the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	loc := cfg.location
	if loc == "" {
		loc = "<default>"
	}
	return fmt.Sprintf("%s (language=%s, rules=%d)", loc, cfg.Language, len(cfg.Rules))
}
