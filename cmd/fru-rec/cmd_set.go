// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
	"github.com/ipmi-fru/fru-rec/lib/frutime"
	"github.com/ipmi-fru/fru-rec/lib/frutree"
)

// stringFieldSetter dispatches a named fixed or custom string field to
// its area's SetString method (§6.2's "<area>_<field>" setters,
// generalized into one data-driven table instead of one shell per
// field).
type stringFieldSetter struct {
	fixedIndex int  // ignored when custom
	custom     bool // true for the "<area>_custom" array entries
	set        func(areas *frutree.Areas, custom bool, index int, typ frustring.Type, payload []byte) error
}

func chassisSetString(a *frutree.Areas, custom bool, index int, typ frustring.Type, payload []byte) error {
	if a.Chassis == nil {
		return fruerr.New(fruerr.NotFound, "fru-rec set-string", "FRU has no chassis info area")
	}
	return a.Chassis.SetString(index, custom, typ, payload)
}

func boardSetString(a *frutree.Areas, custom bool, index int, typ frustring.Type, payload []byte) error {
	if a.Board == nil {
		return fruerr.New(fruerr.NotFound, "fru-rec set-string", "FRU has no board info area")
	}
	return a.Board.SetString(index, custom, typ, payload)
}

func productSetString(a *frutree.Areas, custom bool, index int, typ frustring.Type, payload []byte) error {
	if a.Product == nil {
		return fruerr.New(fruerr.NotFound, "fru-rec set-string", "FRU has no product info area")
	}
	return a.Product.SetString(index, custom, typ, payload)
}

var stringFields = map[string]stringFieldSetter{
	"chassis_part_number":   {fixedIndex: 0, set: chassisSetString},
	"chassis_serial_number": {fixedIndex: 1, set: chassisSetString},
	"chassis_custom":        {custom: true, set: chassisSetString},

	"board_manufacturer":   {fixedIndex: 0, set: boardSetString},
	"board_product_name":   {fixedIndex: 1, set: boardSetString},
	"board_serial_number":  {fixedIndex: 2, set: boardSetString},
	"board_part_number":    {fixedIndex: 3, set: boardSetString},
	"board_fru_file_id":    {fixedIndex: 4, set: boardSetString},
	"board_custom":         {custom: true, set: boardSetString},

	"product_manufacturer_name":   {fixedIndex: 0, set: productSetString},
	"product_name":                {fixedIndex: 1, set: productSetString},
	"product_part_model_number":   {fixedIndex: 2, set: productSetString},
	"product_version":             {fixedIndex: 3, set: productSetString},
	"product_serial_number":       {fixedIndex: 4, set: productSetString},
	"product_asset_tag":           {fixedIndex: 5, set: productSetString},
	"product_fru_file_id":         {fixedIndex: 6, set: productSetString},
	"product_custom":              {custom: true, set: productSetString},
}

func parseStringType(s string) (frustring.Type, error) {
	switch s {
	case "ascii8", "":
		return frustring.ASCII8, nil
	case "bcdplus":
		return frustring.BCDPlus, nil
	case "sixbitascii":
		return frustring.SixBitASCII, nil
	case "binary":
		return frustring.Binary, nil
	case "unicode":
		return frustring.Unicode, nil
	default:
		return 0, fmt.Errorf("unknown string type %q", s)
	}
}

func init() {
	var typeFlag string
	var customIndex int
	var asHex bool
	var del bool

	cmd := &cobra.Command{
		Use:   "set-string FILE FIELD [VALUE]",
		Short: "Set a fixed or custom string field in a FRU image",
		Long: "" +
			"FIELD is one of the named fixed fields (e.g. board_manufacturer) " +
			"or one of the \"<area>_custom\" array fields, which requires " +
			"--custom to select an index (an index equal to the current custom " +
			"count appends). --delete clears a fixed field or removes a custom " +
			"entry, sliding following entries down.",
		Args: cliutil.WrapPositionalArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, ok := stringFields[args[1]]
			if !ok {
				return fmt.Errorf("unknown field %q", args[1])
			}
			if field.custom && !cmd.Flags().Changed("custom") {
				return fmt.Errorf("field %q requires --custom", args[1])
			}

			typ, err := parseStringType(typeFlag)
			if err != nil {
				return err
			}

			var payload []byte
			if !del && len(args) == 3 {
				if asHex {
					payload, err = hex.DecodeString(args[2])
					if err != nil {
						return fmt.Errorf("decoding --hex value: %w", err)
					}
				} else {
					payload = []byte(args[2])
				}
			}

			f, buf, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			index := field.fixedIndex
			if field.custom {
				index = customIndex
			}
			if err := f.Do(func(a *frutree.Areas) error {
				return field.set(a, field.custom, index, typ, payload)
			}); err != nil {
				return err
			}
			return writeBack(cmd.Context(), f, buf, args[0])
		},
	}
	cmd.Flags().StringVar(&typeFlag, "type", "ascii8", "string encoding: ascii8, bcdplus, sixbitascii, binary, unicode")
	cmd.Flags().IntVar(&customIndex, "custom", 0, "index into the custom string tail (for *_custom fields)")
	cmd.Flags().BoolVar(&asHex, "hex", false, "interpret VALUE as hex-encoded bytes")
	cmd.Flags().BoolVar(&del, "delete", false, "clear the field (fixed) or remove the entry (custom)")
	subcommands = append(subcommands, cmd)
}

func init() {
	cmd := &cobra.Command{
		Use:   "set-chassis-type FILE TYPE",
		Short: "Set the chassis-type byte of a FRU's chassis info area",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var t uint8
			if _, err := fmt.Sscanf(args[1], "%d", &t); err != nil {
				return fmt.Errorf("parsing TYPE: %w", err)
			}
			f, buf, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			if err := f.Do(func(a *frutree.Areas) error {
				if a.Chassis == nil {
					return fruerr.New(fruerr.NotFound, "fru-rec set-chassis-type", "FRU has no chassis info area")
				}
				a.Chassis.SetChassisType(t)
				return nil
			}); err != nil {
				return err
			}
			return writeBack(cmd.Context(), f, buf, args[0])
		},
	}
	subcommands = append(subcommands, cmd)
}

func init() {
	var languageCode uint8
	cmd := &cobra.Command{
		Use:   "set-board-info FILE MFG-DATE",
		Short: "Set the board info area's manufacturing date (and, optionally, language code)",
		Long:  "MFG-DATE is an RFC 3339 timestamp; it is converted to the FRU's 1996-epoch 3-byte minute counter.",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := time.Parse(time.RFC3339, args[1])
			if err != nil {
				return fmt.Errorf("parsing MFG-DATE: %w", err)
			}
			ts, err := frutime.FromUnix(t.Unix())
			if err != nil {
				return err
			}

			f, buf, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			if err := f.Do(func(a *frutree.Areas) error {
				if a.Board == nil {
					return fruerr.New(fruerr.NotFound, "fru-rec set-board-info", "FRU has no board info area")
				}
				if cmd.Flags().Changed("language") {
					a.Board.SetLanguageCode(languageCode)
				}
				a.Board.SetMfgDate(ts)
				return nil
			}); err != nil {
				return err
			}
			return writeBack(cmd.Context(), f, buf, args[0])
		},
	}
	cmd.Flags().Uint8Var(&languageCode, "language", frustring.EnglishLanguageCode, "IPMI language code")
	subcommands = append(subcommands, cmd)
}

func init() {
	cmd := &cobra.Command{
		Use:   "set-internal-use FILE HEX-PAYLOAD",
		Short: "Replace the internal use area's opaque payload",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := hex.DecodeString(args[1])
			if err != nil {
				return fmt.Errorf("decoding HEX-PAYLOAD: %w", err)
			}
			f, buf, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			if err := f.Do(func(a *frutree.Areas) error {
				if a.InternalUse == nil {
					return fruerr.New(fruerr.NotFound, "fru-rec set-internal-use", "FRU has no internal use area")
				}
				return a.InternalUse.SetPayload(payload)
			}); err != nil {
				return err
			}
			return writeBack(cmd.Context(), f, buf, args[0])
		},
	}
	subcommands = append(subcommands, cmd)
}
