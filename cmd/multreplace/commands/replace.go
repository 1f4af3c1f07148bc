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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/multreplace/cmd/multreplace/opts"
	"github.com/walteh/multreplace/pkg/log"
	"github.com/walteh/multreplace/pkg/operation"
	"github.com/walteh/multreplace/pkg/preview"
	"gitlab.com/tozd/go/errors"
)

// 🔄 NewReplaceCmd creates the replace command
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	var (
		rf     ruleFlags
		yes    bool
		dryRun bool
		output string
		backup bool
		async  bool
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "replace <file>...",
		Short: "Replace text in files using every rule at once",
		Long: `Replace loads each UTF-8 text file, applies all rules in a single pass and
shows a preview of the changes. Longer before texts win over shorter ones
that start at the same position, and replaced text is never scanned again.
Nothing is written until the preview is confirmed.`,
		Example: `  multreplace replace notes.txt -r cat=dog -r category=kind
  multreplace replace notes.txt --rules-file rules.yaml --yes --output out.txt
  multreplace replace docs/*.md --yes --async`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			if output != "" && len(args) > 1 {
				return errors.Errorf("--output can only be used with a single file")
			}

			rules, source, err := rf.ruleSet(ctx, o)
			if err != nil {
				return err
			}

			o.Logger.StartRunOperation(ctx, log.RunOperation{Source: source, Rules: rules.Len(), DryRun: dryRun})
			defer o.Logger.EndRunOperation(ctx)

			opOpts := operation.Options{
				Rules:     rules,
				Output:    output,
				Backup:    backup || o.Config.Backup,
				DryRun:    dryRun,
				Confirmer: confirmer(o, yes),
				Render:    o.RenderOptions(),
				Logger:    o.Logger,
				Catalog:   o.Catalog,
			}

			ops := make([]operation.Operation, 0, len(args))
			for _, path := range args {
				ops = append(ops, operation.NewReplaceOperation(path, opOpts))
			}

			// prompts cannot run concurrently
			_, interactive := opOpts.Confirmer.(*preview.InteractiveConfirmer)
			if async && interactive && !dryRun {
				logger.Debug().Msg("interactive confirmation, running files in order")
				async = false
			}

			if err := operation.NewRunner(logger, async).WithLimit(jobs).Run(ctx, ops...); err != nil {
				return describe(o.Catalog, err)
			}
			return nil
		},
	}

	rf.addFlags(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "save without asking for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the preview and never save")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this path instead of the input file")
	cmd.Flags().BoolVar(&backup, "backup", false, "keep a .bak copy of the file being overwritten")
	cmd.Flags().BoolVar(&async, "async", false, "process files concurrently (with --yes or --dry-run)")
	cmd.Flags().IntVar(&jobs, "jobs", 4, "maximum files processed at once with --async")

	return cmd
}

func confirmer(o *opts.RootOpts, yes bool) preview.Confirmer {
	switch {
	case yes:
		return preview.StaticConfirmer{Answer: true}
	case o.Confirmer != nil:
		return o.Confirmer
	}
	c := preview.NewInteractiveConfirmer(
		o.Catalog.Tr("confirm_title"),
		o.Catalog.Tr("confirm_message"),
		o.Catalog.Tr("confirm_prompt"),
		o.RenderOptions(),
	)
	c.Output = o.Logger.Console()
	return c
}
