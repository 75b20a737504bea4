// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"errors"
	"io"

	"git.lukeshu.com/go/lowmemjson"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frutree"
	"github.com/ipmi-fru/fru-rec/lib/textui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Walk the field tree of a FRU image and print every field",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := openFru(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			root, err := f.GetRootNode()
			if err != nil {
				return err
			}
			defer f.Release()

			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			if asJSON {
				return dumpNodeJSON(cmd.OutOrStdout(), root, "")
			}
			return dumpNode(cmd.OutOrStdout(), root, "")
		},
	}
	cmd.Flags().Bool("json", false, "dump as a flat JSON array of {path,field} entries instead of indented text")
	subcommands = append(subcommands, cmd)
}

// dumpNode walks node's children by lazily incrementing index until
// Field reports NotFound (§4.7): that is how arrays and multi-record
// chains signal their end, not a hard error.
func dumpNode(w io.Writer, node frutree.Node, indent string) error {
	for i := 0; ; i++ {
		field, err := node.Field(i)
		if err != nil {
			if errors.Is(err, fruerr.NotFound) {
				return nil
			}
			return err
		}
		if err := dumpField(w, field, indent); err != nil {
			return err
		}
	}
}

func dumpField(w io.Writer, field frutree.Field, indent string) error {
	switch field.Kind {
	case frutree.KindSubNode:
		textui.Fprintf(w, "%s%s:\n", indent, field.Name)
		return dumpNode(w, field.Child, indent+"  ")
	case frutree.KindBinary:
		textui.Fprintf(w, "%s%s = %x\n", indent, field.Name, field.Binary)
	case frutree.KindTime:
		textui.Fprintf(w, "%s%s = %s\n", indent, field.Name, field.Time)
	case frutree.KindFloat:
		textui.Fprintf(w, "%s%s = %v\n", indent, field.Name, field.Float)
	case frutree.KindBoolean:
		textui.Fprintf(w, "%s%s = %v\n", indent, field.Name, field.Boolean)
	case frutree.KindInt:
		textui.Fprintf(w, "%s%s = %d\n", indent, field.Name, field.Int)
	default:
		textui.Fprintf(w, "%s%s = %q\n", indent, field.Name, field.ASCII)
	}
	return nil
}

// dumpNodeJSON walks the same traversal as dumpNode but emits a flat
// JSON array, one entry per leaf field, each tagged with its
// dotted path. Sub-nodes contribute no entry of their own; their
// children are visited with the sub-node's name prefixed onto path.
func dumpNodeJSON(w io.Writer, node frutree.Node, path string) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	first := true
	if err := dumpNodeJSONInto(w, node, path, &first); err != nil {
		return err
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

func dumpNodeJSONInto(w io.Writer, node frutree.Node, path string, first *bool) error {
	for i := 0; ; i++ {
		field, err := node.Field(i)
		if err != nil {
			if errors.Is(err, fruerr.NotFound) {
				return nil
			}
			return err
		}
		childPath := path + field.Name
		if field.Kind == frutree.KindSubNode {
			if err := dumpNodeJSONInto(w, field.Child, childPath+".", first); err != nil {
				return err
			}
			continue
		}
		if !*first {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		*first = false
		if _, err := io.WriteString(w, `{"path":`); err != nil {
			return err
		}
		if err := lowmemjson.NewEncoder(w).Encode(childPath); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `,"field":`); err != nil {
			return err
		}
		if err := field.EncodeJSON(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "}"); err != nil {
			return err
		}
	}
}
