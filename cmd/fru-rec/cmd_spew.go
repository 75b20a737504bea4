// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"

	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/ipmi-fru/fru-rec/lib/frutree"
)

func init() {
	subcommands = append(subcommands, &cobra.Command{
		Use:   "spew FILE",
		Short: "Dump the decoded area structs with full internal bookkeeping, for debugging the codec itself",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			cfg := spew.NewDefaultConfig()
			cfg.DisablePointerAddresses = true
			return f.View(func(areas *frutree.Areas) error {
				cfg.Fdump(os.Stdout, areas)
				return nil
			})
		},
	})
}
