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

package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// 🔍 Preview is the result of an execution, shown before anything is saved
type Preview struct {
	Name         string // document name or path
	Original     string
	Modified     string
	Replacements int
	Diffs        []diffmatchpatch.Diff // line-mode diff, one entry per run of lines

	lines []line
}

type line struct {
	op   diffmatchpatch.Operation
	text string // without trailing newline
}

// 🏭 New diffs original against modified line by line
func New(name, original, modified string, replacements int) *Preview {
	p := &Preview{
		Name:         name,
		Original:     original,
		Modified:     modified,
		Replacements: replacements,
	}

	if original == modified {
		return p
	}

	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(original, modified)
	diffs := dmp.DiffMain(a, b, false)
	p.Diffs = dmp.DiffCharsToLines(diffs, index)

	for _, d := range p.Diffs {
		for _, l := range splitLines(d.Text) {
			p.lines = append(p.lines, line{op: d.Type, text: l})
		}
	}
	return p
}

func splitLines(s string) []string {
	parts := strings.SplitAfter(s, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\n")
	}
	return parts
}

// Changed reports whether the modified text differs from the original
func (p *Preview) Changed() bool {
	return p.Original != p.Modified
}

// Stats returns the number of inserted and deleted lines
func (p *Preview) Stats() (inserted, deleted int) {
	for _, l := range p.lines {
		switch l.op {
		case diffmatchpatch.DiffInsert:
			inserted++
		case diffmatchpatch.DiffDelete:
			deleted++
		}
	}
	return inserted, deleted
}

// RenderOptions controls Render output
type RenderOptions struct {
	Context int  // unchanged lines shown around each change
	Color   bool // colorize added and removed lines
}

// DefaultRenderOptions shows three lines of context in color
var DefaultRenderOptions = RenderOptions{Context: 3, Color: true}

// 🎨 Render writes a unified-style diff of the preview to w. Nothing is
// written when the text is unchanged.
func (p *Preview) Render(w io.Writer, opts RenderOptions) error {
	if !p.Changed() {
		return nil
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	faint := color.New(color.Faint)
	for _, c := range []*color.Color{added, removed, faint} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	visible := p.visibleLines(opts.Context)

	skipped := false
	for i, l := range p.lines {
		if !visible[i] {
			skipped = true
			continue
		}
		if skipped {
			if _, err := faint.Fprintln(w, "@@ ... @@"); err != nil {
				return err
			}
			skipped = false
		}

		var err error
		switch l.op {
		case diffmatchpatch.DiffInsert:
			_, err = added.Fprintln(w, "+ "+l.text)
		case diffmatchpatch.DiffDelete:
			_, err = removed.Fprintln(w, "- "+l.text)
		default:
			_, err = fmt.Fprintln(w, "  "+l.text)
		}
		if err != nil {
			return err
		}
	}
	if skipped {
		if _, err := faint.Fprintln(w, "@@ ... @@"); err != nil {
			return err
		}
	}
	return nil
}

// visibleLines marks changed lines and the unchanged lines within context of them
func (p *Preview) visibleLines(context int) []bool {
	if context < 0 {
		context = 0
	}
	visible := make([]bool, len(p.lines))
	for i, l := range p.lines {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		lo := max(0, i-context)
		hi := min(len(p.lines)-1, i+context)
		for j := lo; j <= hi; j++ {
			visible[j] = true
		}
	}
	return visible
}

// Summary is a one-line description of the preview
func (p *Preview) Summary() string {
	ins, del := p.Stats()
	return fmt.Sprintf("%s: %d replacements, +%d -%d lines", p.Name, p.Replacements, ins, del)
}
