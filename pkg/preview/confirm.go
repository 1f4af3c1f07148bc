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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ✅ Confirmer decides whether a preview should be saved
type Confirmer interface {
	Confirm(ctx context.Context, p *Preview) (bool, error)
}

// StaticConfirmer always gives the same answer (used for --yes and --dry-run)
type StaticConfirmer struct {
	Answer bool
}

// Confirm implements Confirmer
func (s StaticConfirmer) Confirm(ctx context.Context, p *Preview) (bool, error) {
	zerolog.Ctx(ctx).Debug().Str("name", p.Name).Bool("answer", s.Answer).Msg("static confirmation")
	return s.Answer, nil
}

// InteractiveConfirmer renders the preview and asks on the terminal
type InteractiveConfirmer struct {
	Title   string // section title shown above the diff
	Message string // instruction shown under the title
	Prompt  string // yes/no question
	Output  io.Writer
	Render  RenderOptions
}

// NewInteractiveConfirmer returns a confirmer writing to stdout
func NewInteractiveConfirmer(title, message, prompt string, opts RenderOptions) *InteractiveConfirmer {
	return &InteractiveConfirmer{
		Title:   title,
		Message: message,
		Prompt:  prompt,
		Output:  os.Stdout,
		Render:  opts,
	}
}

// Confirm implements Confirmer
func (c *InteractiveConfirmer) Confirm(ctx context.Context, p *Preview) (bool, error) {
	fmt.Fprint(c.Output, pterm.DefaultSection.Sprintln(c.Title))
	fmt.Fprint(c.Output, pterm.Info.Sprintln(c.Message))
	fmt.Fprint(c.Output, pterm.Info.Sprintln(p.Summary()))

	if err := p.Render(c.Output, c.Render); err != nil {
		return false, errors.Errorf("rendering preview: %w", err)
	}

	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText(c.Prompt).
		WithDefaultValue(false).
		Show()
	if err != nil {
		return false, errors.Errorf("reading confirmation: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("name", p.Name).Bool("answer", ok).Msg("interactive confirmation")
	return ok, nil
}
