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
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/multreplace/cmd/multreplace/opts"
	"github.com/walteh/multreplace/pkg/operation"
)

// 🔍 NewPreviewCmd creates the preview command
func NewPreviewCmd(o *opts.RootOpts) *cobra.Command {
	var rf ruleFlags

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show what replace would change without saving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rules, _, err := rf.ruleSet(ctx, o)
			if err != nil {
				return err
			}

			_, p, err := operation.Prepare(ctx, args[0], rules, o.Logger, o.Catalog)
			if err != nil {
				return describe(o.Catalog, err)
			}

			if !p.Changed() {
				o.Logger.Info(o.Catalog.Tr("no_content_modified"))
				return nil
			}

			out := o.Logger.Console()
			fmt.Fprint(out, pterm.DefaultSection.Sprintln(o.Catalog.Tr("preview_title")))
			fmt.Fprint(out, pterm.Info.Sprintln(p.Summary()))
			if err := p.Render(out, o.RenderOptions()); err != nil {
				return describe(o.Catalog, err)
			}
			return nil
		},
	}

	rf.addFlags(cmd)
	return cmd
}
