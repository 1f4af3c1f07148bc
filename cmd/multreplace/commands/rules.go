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
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/multreplace/cmd/multreplace/opts"
	"gitlab.com/tozd/go/errors"
)

// 📋 NewRulesCmd creates the rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	var rf ruleFlags

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the effective rules in the order they are matched",
		Long: `Rules prints the rules that replace would use after duplicates are
resolved (the last definition of a before text wins), sorted longest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rules, source, err := rf.ruleSet(ctx, o)
			if err != nil {
				return err
			}

			effective := rules.Effective()
			if len(effective) == 0 {
				o.Logger.Info(o.Catalog.Tr("rules_empty"))
				return nil
			}

			data := pterm.TableData{{"#", o.Catalog.Tr("before"), o.Catalog.Tr("after"), "file"}}
			for i, r := range effective {
				data = append(data, []string{strconv.Itoa(i + 1), strconv.Quote(r.FromText), strconv.Quote(r.ToText), r.FileFilterGlob})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering rules table: %w", err)
			}

			out := o.Logger.Console()
			fmt.Fprint(out, pterm.DefaultSection.Sprintln(o.Catalog.Tr("rules_header")))
			fmt.Fprintln(out, table)
			fmt.Fprintf(out, "%s: %s\n", "source", source)
			return nil
		},
	}

	rf.addFlags(cmd)
	return cmd
}
