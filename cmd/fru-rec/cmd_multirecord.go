// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/ipmi-fru/fru-rec/lib/textui"
)

func init() {
	multirecord := &cobra.Command{
		Use:   "multirecord {[flags]|SUBCOMMAND}",
		Short: "Inspect and edit a FRU image's multi-record area",
		Args:  cliutil.WrapPositionalArgs(cliutil.OnlySubcommands),
		RunE:  cliutil.RunSubcommands,
	}

	multirecord.AddCommand(&cobra.Command{
		Use:   "list FILE",
		Short: "List the records in a FRU's multi-record area",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			n, err := f.NumMultiRecords()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := 0; i < n; i++ {
				typ, _ := f.GetMultiRecordType(i)
				ver, _ := f.GetMultiRecordFormatVersion(i)
				data, _ := f.GetMultiRecordData(i)
				textui.Fprintf(out, "%d: type=%#02x version=%d data=%x\n", i, typ, ver, data)
			}
			return nil
		},
	})

	multirecord.AddCommand(&cobra.Command{
		Use:   "set FILE INDEX TYPE HEX-PAYLOAD",
		Short: "Replace (or, at INDEX==count, append) a multi-record",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(4)),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parsing INDEX: %w", err)
			}
			typ, err := strconv.ParseUint(args[2], 0, 8)
			if err != nil {
				return fmt.Errorf("parsing TYPE: %w", err)
			}
			payload, err := hex.DecodeString(args[3])
			if err != nil {
				return fmt.Errorf("decoding HEX-PAYLOAD: %w", err)
			}

			f, buf, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			if err := f.SetMultiRecord(index, byte(typ), payload); err != nil {
				return err
			}
			return writeBack(cmd.Context(), f, buf, args[0])
		},
	})

	multirecord.AddCommand(&cobra.Command{
		Use:   "delete FILE INDEX",
		Short: "Delete a multi-record, reflowing following records",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parsing INDEX: %w", err)
			}

			f, buf, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			if err := f.SetMultiRecord(index, 0, nil); err != nil {
				return err
			}
			return writeBack(cmd.Context(), f, buf, args[0])
		},
	})

	subcommands = append(subcommands, multirecord)
}
