// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"errors"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/ipmi-fru/fru-rec/lib/fruarray"
	"github.com/ipmi-fru/fru-rec/lib/frucheck"
	"github.com/ipmi-fru/fru-rec/lib/frutree"
)

func init() {
	subcommands = append(subcommands, &cobra.Command{
		Use:   "check FILE",
		Short: "Run the codec's testable invariants (§8) against a FRU image",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, buf, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			checks := []struct {
				name string
				run  func() error
			}{
				{"offset-monotonicity", func() error { return frucheck.OffsetMonotonicity(f) }},
				{"checksum-closure", func() error { return frucheck.ChecksumClosure(f, buf) }},
				{"round-trip-fidelity", func() error { return frucheck.RoundTripFidelity(buf) }},
				{"string-array-offsets", func() error {
					return f.View(func(areas *frutree.Areas) error {
						for _, arr := range stringArrays(areas) {
							if err := frucheck.StringArrayOffsets(arr); err != nil {
								return err
							}
						}
						return nil
					})
				}},
			}

			failed := false
			for _, c := range checks {
				ctx := dlog.WithField(ctx, "fru.check", c.name)
				if err := c.run(); err != nil {
					failed = true
					dlog.Errorf(ctx, "FAIL: %v", err)
					continue
				}
				dlog.Info(ctx, "ok")
			}
			if failed {
				return errors.New("one or more invariant checks failed")
			}
			return nil
		},
	})
}

// stringArrays returns the Strings arrays of the areas that have one,
// in FRU layout order.
func stringArrays(areas *frutree.Areas) []*fruarray.Array {
	var out []*fruarray.Array
	if areas.Chassis != nil {
		out = append(out, areas.Chassis.Strings)
	}
	if areas.Board != nil {
		out = append(out, areas.Board.Strings)
	}
	if areas.Product != nil {
		out = append(out, areas.Product.Strings)
	}
	return out
}
