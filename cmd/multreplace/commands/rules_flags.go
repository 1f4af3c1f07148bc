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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/multreplace/cmd/multreplace/opts"
	"github.com/walteh/multreplace/pkg/config"
	"github.com/walteh/multreplace/pkg/document"
	"github.com/walteh/multreplace/pkg/i18n"
	"github.com/walteh/multreplace/pkg/session"
	"github.com/walteh/multreplace/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ruleFlags collects rules given on the command line
type ruleFlags struct {
	rules     []string
	rulesFile string
}

func (f *ruleFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.rules, "rule", "r", nil, "replacement rule as before=after (repeatable)")
	cmd.Flags().StringVar(&f.rulesFile, "rules-file", "", "load additional rules from a yaml, json or hcl file")
}

// parseRule splits s at the first "="
func parseRule(s string) (text.ReplacementRule, error) {
	before, after, ok := strings.Cut(s, "=")
	if !ok {
		return text.ReplacementRule{}, errors.Errorf("invalid rule %q: expected before=after", s)
	}
	before = strings.TrimSpace(before)
	if before == "" {
		return text.ReplacementRule{}, errors.Errorf("invalid rule %q: before is empty", s)
	}
	return text.ReplacementRule{FromText: before, ToText: after}, nil
}

// ruleSet returns config rules, then rules-file rules, then flag rules, so
// later sources win on duplicate before texts. The second value describes
// where the rules came from.
func (f *ruleFlags) ruleSet(ctx context.Context, o *opts.RootOpts) (text.RuleSet, string, error) {
	var rules text.RuleSet
	var sources []string

	if o.Config != nil && len(o.Config.Rules) > 0 {
		rules = append(rules, o.Config.RuleSet()...)
		sources = append(sources, o.Config.Location())
	}

	if f.rulesFile != "" {
		cfg, err := config.Load(ctx, f.rulesFile)
		if err != nil {
			return nil, "", errors.Errorf("loading rules file: %w", err)
		}
		rules = append(rules, cfg.RuleSet()...)
		sources = append(sources, f.rulesFile)
	}

	if len(f.rules) > 0 {
		for _, s := range f.rules {
			rule, err := parseRule(s)
			if err != nil {
				return nil, "", err
			}
			rules = append(rules, rule)
		}
		sources = append(sources, "flags")
	}

	if len(sources) == 0 {
		sources = append(sources, "none")
	}
	return rules, strings.Join(sources, ", "), nil
}

// describe prefixes err with the localized message for its kind
func describe(cat *i18n.Catalog, err error) error {
	key := "processing_error"
	switch {
	case errors.Is(err, document.ErrInvalidPath):
		key = "invalid_path"
	case errors.Is(err, document.ErrRead):
		key = "read_error"
	case errors.Is(err, document.ErrWrite):
		key = "save_error"
	case errors.Is(err, session.ErrNoRules):
		key = "no_replacements"
	case errors.Is(err, session.ErrNoDocument):
		key = "no_file_selected"
	case errors.Is(err, session.ErrNotExecuted):
		key = "not_executed"
	}
	return errors.Errorf("%s: %w", cat.Tr(key), err)
}
