// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/textui"
)

func init() {
	subcommands = append(subcommands, &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode a FRU image and summarize its area layout",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			out := cmd.OutOrStdout()
			for _, k := range frukind.All() {
				off, err := f.GetAreaOffset(k)
				if err != nil {
					textui.Fprintf(out, "%-14s absent\n", k)
					continue
				}
				length, _ := f.GetAreaLength(k)
				used, _ := f.GetAreaUsedLength(k)
				textui.Fprintf(out, "%-14s offset=%-5d length=%-5d used_length=%d\n", k, off, length, used)
			}
			return nil
		},
	})
}
