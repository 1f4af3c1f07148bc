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

package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/multreplace/pkg/document"
	"github.com/walteh/multreplace/pkg/preview"
	"github.com/walteh/multreplace/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNoRules is returned by Execute when no rule has a non-empty before text
	ErrNoRules = errors.Base("no valid replacement rules")
	// ErrNoDocument is returned when nothing has been loaded
	ErrNoDocument = errors.Base("no document loaded")
	// ErrNotExecuted is returned by Save before Execute
	ErrNotExecuted = errors.Base("replacement has not been executed")
	// ErrRuleIndex is returned for an out of range rule row
	ErrRuleIndex = errors.Base("rule index out of range")
)

// 📝 Row is one editable before/after pair
type Row struct {
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
	Glob   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// 🗂️ Session owns the rule rows and the loaded document for one user
type Session struct {
	ID      string
	Created time.Time

	mu      sync.Mutex
	rows    []Row
	doc     *document.Document
	preview *preview.Preview
}

// New creates an empty session
func New(id string) *Session {
	return &Session{ID: id, Created: time.Now().UTC()}
}

// AddRule appends a row and returns its index
func (s *Session) AddRule(before, after string) int {
	return s.AddRow(Row{Before: before, After: after})
}

// AddRow appends a row and returns its index
func (s *Session) AddRow(row Row) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return len(s.rows) - 1
}

// UpdateRule replaces the before/after text of row i, keeping its glob
func (s *Session) UpdateRule(i int, before, after string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return errors.Errorf("%w: %d (have %d)", ErrRuleIndex, i, len(s.rows))
	}
	s.rows[i].Before = before
	s.rows[i].After = after
	return nil
}

// DeleteRule removes row i
func (s *Session) DeleteRule(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return errors.Errorf("%w: %d (have %d)", ErrRuleIndex, i, len(s.rows))
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

// Rows returns a copy of the rows as entered
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}

// SetRows replaces every row
func (s *Session) SetRows(rows []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]Row(nil), rows...)
}

// SetRules replaces every row with rules
func (s *Session) SetRules(rules text.RuleSet) {
	rows := make([]Row, len(rules))
	for i, r := range rules {
		rows[i] = Row{Before: r.FromText, After: r.ToText, Glob: r.FileFilterGlob}
	}
	s.SetRows(rows)
}

// Rules returns a snapshot of the rows as a RuleSet. Surrounding whitespace
// is trimmed from Before, never from After.
func (s *Session) Rules() text.RuleSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rowsToRules(s.rows)
}

func rowsToRules(rows []Row) text.RuleSet {
	rules := make(text.RuleSet, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, text.ReplacementRule{
			FromText:       strings.TrimSpace(row.Before),
			ToText:         row.After,
			FileFilterGlob: row.Glob,
		})
	}
	return rules
}

// 📥 Load reads the file at path and makes it the current document
func (s *Session) Load(ctx context.Context, path string) error {
	doc, err := document.Load(ctx, path)
	if err != nil {
		return err
	}
	s.setDocument(doc)
	return nil
}

// LoadText makes already-read content the current document
func (s *Session) LoadText(name, content string) error {
	doc, err := document.FromText(name, content)
	if err != nil {
		return err
	}
	s.setDocument(doc)
	return nil
}

func (s *Session) setDocument(doc *document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.preview = nil
}

// Document returns the current document name and input
func (s *Session) Document() (name string, input string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "", "", false
	}
	return s.doc.Path, s.doc.Input, true
}

// ▶️ Execute recomputes the output from the current rules and returns the preview
func (s *Session) Execute(ctx context.Context) (*preview.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, ErrNoDocument
	}
	rules := rowsToRules(s.rows)
	if rules.Len() == 0 {
		return nil, ErrNoRules
	}

	result, err := s.doc.Apply(rules)
	if err != nil {
		return nil, errors.Errorf("applying rules: %w", err)
	}

	s.preview = preview.New(s.doc.Path, s.doc.Input, s.doc.Output, result.ReplacementCount)

	zerolog.Ctx(ctx).Debug().
		Str("session", s.ID).
		Str("document", s.doc.Path).
		Int("rules", rules.Len()).
		Int("replacements", result.ReplacementCount).
		Bool("modified", result.WasModified).
		Msg("executed replacement")

	return s.preview, nil
}

// Preview returns the last preview, or nil
func (s *Session) Preview() *preview.Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// 💾 Save writes the last output to path, or to the document's own path when
// path is empty. The saved text becomes the new document input.
func (s *Session) Save(ctx context.Context, path string, opts ...document.SaveOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNoDocument
	}
	if !s.doc.Executed {
		return ErrNotExecuted
	}
	if path == "" {
		path = s.doc.Path
	}

	if err := document.Save(ctx, path, s.doc.Output, opts...); err != nil {
		return err
	}

	s.doc = &document.Document{Path: path, Input: s.doc.Output}
	s.preview = nil
	return nil
}
