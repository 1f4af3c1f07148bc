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

package operation

import (
	"context"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/multreplace/pkg/document"
	"github.com/walteh/multreplace/pkg/i18n"
	"github.com/walteh/multreplace/pkg/log"
	"github.com/walteh/multreplace/pkg/preview"
	"github.com/walteh/multreplace/pkg/session"
	"github.com/walteh/multreplace/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one unit of work the runner executes
type Operation interface {
	// Name identifies the operation in errors and logs
	Name() string
	// Execute performs the operation
	Execute(ctx context.Context) error
}

// 🔧 Options configures a replace operation
type Options struct {
	// Rules are applied to every document; rules with a file glob only to matching paths
	Rules text.RuleSet
	// Output writes the result here instead of over the input
	Output string
	// Backup keeps a .bak copy of an overwritten file
	Backup bool
	// DryRun renders the preview and never saves
	DryRun bool
	// Confirmer decides whether to save
	Confirmer preview.Confirmer
	// Render controls how dry-run previews are shown
	Render preview.RenderOptions
	// Logger receives console output; nil discards it
	Logger *log.Logger
	// Catalog localizes console messages
	Catalog *i18n.Catalog
}

// Outcome is what a replace operation did
type Outcome struct {
	Target       string
	Replacements int
	Changed      bool
	Saved        bool
}

// 🔄 ReplaceOperation loads one document, executes the rules, asks for
// confirmation and saves
type ReplaceOperation struct {
	path    string
	opts    Options
	outcome Outcome
}

var _ Operation = (*ReplaceOperation)(nil)

// 🏭 NewReplaceOperation creates a replace operation for path
func NewReplaceOperation(path string, opts Options) *ReplaceOperation {
	if opts.Logger == nil {
		opts.Logger = log.NewWithZerolog(io.Discard, zerolog.Nop())
	}
	return &ReplaceOperation{path: path, opts: opts}
}

// Name implements Operation
func (op *ReplaceOperation) Name() string {
	return op.path
}

// Outcome returns the result of the last Execute
func (op *ReplaceOperation) Outcome() Outcome {
	return op.outcome
}

// Prepare loads path and executes rules against it without saving
func Prepare(ctx context.Context, path string, rules text.RuleSet, logger *log.Logger, cat *i18n.Catalog) (*session.Session, *preview.Preview, error) {
	sess := session.New(path)
	sess.SetRules(rules)

	if err := sess.Load(ctx, path); err != nil {
		return nil, nil, err
	}
	name, input, _ := sess.Document()
	if logger != nil {
		logger.Header(cat.Trf("selected_file", name, utf8.RuneCountInString(input)))
	}

	p, err := sess.Execute(ctx)
	if err != nil {
		return nil, nil, err
	}
	return sess, p, nil
}

// Execute implements Operation
func (op *ReplaceOperation) Execute(ctx context.Context) error {
	o := op.opts
	cat := o.Catalog
	zlog := zerolog.Ctx(ctx).With().Str("document", op.path).Logger()

	sess, p, err := Prepare(ctx, op.path, o.Rules, o.Logger, cat)
	if err != nil {
		return err
	}
	name, _, _ := sess.Document()
	op.outcome = Outcome{Target: name, Replacements: p.Replacements, Changed: p.Changed()}

	if !p.Changed() {
		o.Logger.LogDocumentOperation(ctx, log.DocumentOperation{Path: name, Status: "no change", Replacements: p.Replacements})
		o.Logger.Info(cat.Tr("no_content_modified"))
		return nil
	}

	if o.DryRun {
		if err := p.Render(o.Logger.Console(), o.Render); err != nil {
			return errors.Errorf("rendering preview: %w", err)
		}
		o.Logger.LogDocumentOperation(ctx, log.DocumentOperation{Path: name, Status: "DRY RUN", IsSkipped: true, Replacements: p.Replacements})
		o.Logger.Info(cat.Tr("dry_run"))
		return nil
	}

	confirmer := o.Confirmer
	if confirmer == nil {
		confirmer = preview.StaticConfirmer{Answer: false}
	}
	ok, err := confirmer.Confirm(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		o.Logger.LogDocumentOperation(ctx, log.DocumentOperation{Path: name, Status: "CANCELLED", IsSkipped: true, Replacements: p.Replacements})
		o.Logger.Warning(cat.Tr("cancelled"))
		return nil
	}

	target := o.Output
	if target == "" {
		target = name
	}
	_, statErr := os.Stat(target)
	isNew := os.IsNotExist(statErr)

	var saveOpts []document.SaveOption
	if o.Backup {
		saveOpts = append(saveOpts, document.WithBackup())
	}
	if err := sess.Save(ctx, o.Output, saveOpts...); err != nil {
		return err
	}
	op.outcome.Target = target
	op.outcome.Saved = true

	status := "UPDATED"
	if isNew {
		status = "NEW"
	}
	o.Logger.LogDocumentOperation(ctx, log.DocumentOperation{
		Path:         target,
		Status:       status,
		IsNew:        isNew,
		IsModified:   true,
		Replacements: p.Replacements,
	})
	o.Logger.Success(cat.Trf("replace_done", target, p.Replacements))
	zlog.Debug().Str("target", target).Int("replacements", p.Replacements).Msg("saved document")
	return nil
}
