// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/ipmi-fru/fru-rec/lib/fruoem"
	"github.com/ipmi-fru/fru-rec/lib/textui"
)

func init() {
	subcommands = append(subcommands, &cobra.Command{
		Use:   "oem-list",
		Short: "List the OEM multi-record decoders installed in the default registry",
		Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := fruoem.NewDefaultRegistry()
			out := cmd.OutOrStdout()
			for _, k := range r.Entries() {
				textui.Fprintf(out, "manufacturer_id=%#06x type_id=%#02x\n", k.ManufacturerID, k.TypeID)
			}
			return nil
		},
	})
}
