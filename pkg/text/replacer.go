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

package text

import (
	"cmp"
	"context"
	"io"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ReplacementRule defines a single literal text replacement
type ReplacementRule struct {
	// FromText is the literal text to search for. An empty FromText never matches.
	FromText string

	// ToText is the literal replacement text
	ToText string

	// FileFilterGlob optionally limits the rule to documents whose path matches
	FileFilterGlob string
}

// RuleSet is an ordered list of rules. Order only matters for duplicate
// FromText values, where the later rule wins.
type RuleSet []ReplacementRule

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of matches substituted
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are meaningful
	ValidateRules(rules []ReplacementRule) error
}

// Effective returns the deduplicated rules in scan order: inert rules are
// dropped, the last rule wins for a repeated FromText, and the result is
// sorted by descending FromText length with ties broken lexicographically.
func (rs RuleSet) Effective() []ReplacementRule {
	index := make(map[string]int, len(rs))
	out := make([]ReplacementRule, 0, len(rs))
	for _, rule := range rs {
		if rule.FromText == "" {
			continue
		}
		if i, ok := index[rule.FromText]; ok {
			out[i] = rule
			continue
		}
		index[rule.FromText] = len(out)
		out = append(out, rule)
	}

	slices.SortFunc(out, func(a, b ReplacementRule) int {
		if c := cmp.Compare(len(b.FromText), len(a.FromText)); c != 0 {
			return c
		}
		return cmp.Compare(a.FromText, b.FromText)
	})
	return out
}

// ForPath returns the rules that apply to the document at path. Rules
// without a glob always apply; otherwise the glob is matched against the
// full slash-separated path and against the base name.
func (rs RuleSet) ForPath(path string) (RuleSet, error) {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)

	out := make(RuleSet, 0, len(rs))
	for i, rule := range rs {
		if rule.FileFilterGlob == "" {
			out = append(out, rule)
			continue
		}
		if !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return nil, errors.Errorf("rule %d: invalid glob %q", i, rule.FileFilterGlob)
		}
		full, err := doublestar.Match(rule.FileFilterGlob, slashed)
		if err != nil {
			return nil, errors.Errorf("rule %d: matching glob %q: %w", i, rule.FileFilterGlob, err)
		}
		short, err := doublestar.Match(rule.FileFilterGlob, base)
		if err != nil {
			return nil, errors.Errorf("rule %d: matching glob %q: %w", i, rule.FileFilterGlob, err)
		}
		if full || short {
			out = append(out, rule)
		}
	}
	return out, nil
}

// Len returns the number of effective rules
func (rs RuleSet) Len() int {
	return len(rs.Effective())
}
