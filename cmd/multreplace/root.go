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

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/multreplace/cmd/multreplace/commands"
	"github.com/walteh/multreplace/cmd/multreplace/opts"
	"github.com/walteh/multreplace/pkg/config"
	"github.com/walteh/multreplace/pkg/i18n"
	"github.com/walteh/multreplace/pkg/log"
	"gitlab.com/tozd/go/errors"
)

const defaultConfigFile = ".multreplace.yaml"

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
	lang       string
}

// newRootCommand builds the command tree. o is filled in before any
// subcommand runs.
func newRootCommand(o *opts.RootOpts, out io.Writer) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "multreplace",
		Short: "Replace many strings in a text file at once",
		Long: `multreplace applies a list of before/after rules to a UTF-8 text file in a
single pass. At each position the longest matching before text wins, and
inserted text is never matched again, so rules like a=b and b=a swap.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(flags.debug)
			ctx := logger.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			resolved, err := newRootOpts(ctx, flags, cmd.Flags().Changed("config"), out)
			if err != nil {
				return err
			}
			// keep overrides set by the caller
			resolved.Confirmer = o.Confirmer
			resolved.GitHub = o.GitHub
			*o = *resolved
			return nil
		},
	}
	rootCmd.SetOut(out)

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewReplaceCmd(o),
		commands.NewPreviewCmd(o),
		commands.NewRulesCmd(o),
		commands.NewServeCmd(o),
		commands.NewVersionCmd(o),
	)

	return rootCmd
}

// newRootOpts creates a new rootOpts with initialized dependencies
func newRootOpts(ctx context.Context, flags *rootFlags, explicitConfig bool, out io.Writer) (*opts.RootOpts, error) {
	cfg, err := loadConfig(ctx, flags.configFile, explicitConfig)
	if err != nil {
		return nil, err
	}

	lang := cfg.Language
	if flags.lang != "" {
		lang = flags.lang
	}
	catalog, err := i18n.Load(lang)
	if err != nil {
		return nil, errors.Errorf("loading language: %w", err)
	}

	return &opts.RootOpts{
		Config:     cfg,
		Catalog:    catalog,
		Logger:     log.NewWithZerolog(out, *zerolog.Ctx(ctx)),
		UserLogger: log.NewUserLogger(ctx, out),
	}, nil
}

// loadConfig reads the config file. A missing file is only an error when
// the path was given explicitly.
func loadConfig(ctx context.Context, path string, explicit bool) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil && os.IsNotExist(err) && !explicit {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return config.Default(), nil
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", defaultConfigFile, "config file path")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.lang, "lang", "", "message language (ja, en)")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}
