// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command fru-rec inspects and edits IPMI FRU Information Storage
// images: decode a blob, walk its field tree, edit scalar/string
// fields and multi-records, and write back only the changed byte
// ranges.
package main

import (
	"context"
	"os"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ipmi-fru/fru-rec/lib/profile"
	"github.com/ipmi-fru/fru-rec/lib/textui"
)

type logLevelFlag struct {
	logrus.Level
}

func (lvl *logLevelFlag) Type() string { return "loglevel" }
func (lvl *logLevelFlag) Set(str string) error {
	var err error
	lvl.Level, err = logrus.ParseLevel(str)
	return err
}

var _ pflag.Value = (*logLevelFlag)(nil)

// subcommands are registered by each cmd_*.go's init().
var subcommands []*cobra.Command

func main() {
	logLevel := logLevelFlag{Level: logrus.InfoLevel}

	argparser := &cobra.Command{
		Use:   "fru-rec {[flags]|SUBCOMMAND}",
		Short: "Inspect and edit IPMI FRU Information Storage images",

		Args: cliutil.WrapPositionalArgs(cliutil.OnlySubcommands),
		RunE: cliutil.RunSubcommands,

		SilenceErrors: true, // main() handles the error after ExecuteContext returns
		SilenceUsage:  true, // our FlagErrorFunc handles it

		CompletionOptions: cobra.CompletionOptions{ //nolint:exhaustruct
			DisableDefaultCmd: true,
		},
	}
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
	argparser.PersistentFlags().Var(&logLevel, "verbosity", "set the verbosity")
	stopProfiling := profile.AddProfileFlags(argparser.PersistentFlags(), "profile-")

	// wrapRunE wraps every leaf command (cobra dispatches straight to a
	// leaf's RunE, bypassing its parents') so that each runs with a
	// level-configured logger on its context, supervised by a
	// signal-handling dgroup.
	var wrapRunE func(cmd *cobra.Command)
	wrapRunE = func(cmd *cobra.Command) {
		if children := cmd.Commands(); len(children) > 0 {
			for _, child := range children {
				wrapRunE(child)
			}
			return
		}
		orig := cmd.RunE
		if orig == nil {
			return
		}
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			logger.SetLevel(logLevel.Level)
			ctx := dlog.WithLogger(cmd.Context(), dlog.WrapLogrus(logger))

			grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
				EnableSignalHandling: true,
			})
			grp.Go("main", func(ctx context.Context) error {
				cmd.SetContext(ctx)
				return orig(cmd, args)
			})
			return grp.Wait()
		}
	}
	for _, cmd := range subcommands {
		wrapRunE(cmd)
		argparser.AddCommand(cmd)
	}

	err := argparser.ExecuteContext(context.Background())
	if stopErr := stopProfiling(); err == nil {
		err = stopErr
	}
	if err != nil {
		textui.Fprintf(os.Stderr, "%v: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
