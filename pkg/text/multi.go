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
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// MultiReplacer applies a snapshot of rules in a single left-to-right pass.
// At every position the longest matching key wins, and text emitted for a
// match is never scanned again. A MultiReplacer is immutable and safe for
// concurrent use.
type MultiReplacer struct {
	rules []ReplacementRule
	// byFirst holds indexes into rules keyed by the first byte of FromText,
	// preserving the longest-first order
	byFirst [256][]int
}

var _ TextReplacer = (*MultiReplacer)(nil)

// Compile snapshots rules into a MultiReplacer
func Compile(rules RuleSet) *MultiReplacer {
	m := &MultiReplacer{rules: rules.Effective()}
	for i, rule := range m.rules {
		b := rule.FromText[0]
		m.byFirst[b] = append(m.byFirst[b], i)
	}
	return m
}

// Replace returns input with every rule applied
func Replace(input string, rules RuleSet) string {
	return Compile(rules).Replace(input)
}

// Replace returns input with every rule applied
func (m *MultiReplacer) Replace(input string) string {
	out, _ := m.ReplaceCount(input)
	return out
}

// ReplaceCount returns the replaced text and the number of matches substituted.
// When nothing matches, input is returned as is.
func (m *MultiReplacer) ReplaceCount(input string) (string, int) {
	if len(m.rules) == 0 || input == "" {
		return input, 0
	}

	var sb strings.Builder
	count := 0
	for i := 0; i < len(input); {
		if rule, ok := m.match(input[i:]); ok {
			if count == 0 {
				sb.Grow(len(input))
				sb.WriteString(input[:i])
			}
			sb.WriteString(rule.ToText)
			i += len(rule.FromText)
			count++
			continue
		}

		_, size := utf8.DecodeRuneInString(input[i:])
		if count > 0 {
			sb.WriteString(input[i : i+size])
		}
		i += size
	}

	if count == 0 {
		return input, 0
	}
	return sb.String(), count
}

func (m *MultiReplacer) match(s string) (ReplacementRule, bool) {
	for _, idx := range m.byFirst[s[0]] {
		rule := m.rules[idx]
		if strings.HasPrefix(s, rule.FromText) {
			return rule, true
		}
	}
	return ReplacementRule{}, false
}

// Keys returns the effective search keys in match order
func (m *MultiReplacer) Keys() []string {
	keys := make([]string, len(m.rules))
	for i, rule := range m.rules {
		keys[i] = rule.FromText
	}
	return keys
}

// Rules returns a copy of the effective rules in match order
func (m *MultiReplacer) Rules() []ReplacementRule {
	return append([]ReplacementRule(nil), m.rules...)
}

// ReplaceText implements TextReplacer.ReplaceText. The receiver's own rules
// are ignored; rules are compiled for this call.
func (m *MultiReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	modified, count := Compile(rules).ReplaceCount(string(originalContent))

	return &ReplacementResult{
		OriginalContent:  originalContent,
		ModifiedContent:  []byte(modified),
		ReplacementCount: count,
		WasModified:      modified != string(originalContent),
	}, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (m *MultiReplacer) ValidateRules(rules []ReplacementRule) error {
	return ValidateRules(rules)
}

// ValidateRules reports the first rule that has no search text or an invalid glob
func ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file_filter_glob %q", i, rule.FileFilterGlob)
		}
	}
	return nil
}

// Apply replaces content with rules and reports the result
func Apply(content string, rules RuleSet) *ReplacementResult {
	modified, count := Compile(rules).ReplaceCount(content)
	return &ReplacementResult{
		OriginalContent:  []byte(content),
		ModifiedContent:  []byte(modified),
		ReplacementCount: count,
		WasModified:      modified != content,
	}
}
