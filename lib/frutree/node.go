// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package frutree implements the schema-driven field-reflection table
// and tree navigator (§4.7): a uniform get_field(parent, index)
// traversal primitive over every reachable scalar, timestamp, string,
// binary, and sub-node value in a FRU.
package frutree

import (
	"io"

	"git.lukeshu.com/go/lowmemjson"

	"github.com/ipmi-fru/fru-rec/lib/frutime"
	"github.com/ipmi-fru/fru-rec/lib/jsonutil"
)

// Kind identifies the value carried by a Field.
type Kind int

const (
	KindInt Kind = iota
	KindTime
	KindASCII
	KindBinary
	KindFloat
	KindBoolean
	KindSubNode
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindTime:
		return "time"
	case KindASCII:
		return "ascii"
	case KindBinary:
		return "binary"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindSubNode:
		return "sub-node"
	default:
		return "unknown"
	}
}

// Field is the result of one get_field call: a name, a kind, and
// whichever of the typed slots that kind populates.
type Field struct {
	Name string
	Kind Kind

	Int     int64
	Time    frutime.Timestamp
	ASCII   string
	Binary  []byte
	Float   float64
	Boolean bool
	Child   Node
}

var _ lowmemjson.Encodable = Field{}

// EncodeJSON writes f as {"name":...,"kind":...,"value":...}, so that
// `fru-rec dump --json` can stream a tree without building an
// intermediate map[string]any per field. KindSubNode fields encode
// their value as null: the sub-node's own fields follow as siblings in
// the walk, not as a nested value.
func (f Field) EncodeJSON(w io.Writer) error {
	if _, err := io.WriteString(w, `{"name":`); err != nil {
		return err
	}
	if err := lowmemjson.NewEncoder(w).Encode(f.Name); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"kind":`); err != nil {
		return err
	}
	if err := lowmemjson.NewEncoder(w).Encode(f.Kind.String()); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `,"value":`); err != nil {
		return err
	}
	var err error
	switch f.Kind {
	case KindInt:
		err = lowmemjson.NewEncoder(w).Encode(f.Int)
	case KindTime:
		err = lowmemjson.NewEncoder(w).Encode(f.Time.String())
	case KindASCII:
		err = lowmemjson.NewEncoder(w).Encode(f.ASCII)
	case KindBinary:
		err = jsonutil.EncodeHexString(w, f.Binary)
	case KindFloat:
		err = lowmemjson.NewEncoder(w).Encode(f.Float)
	case KindBoolean:
		err = lowmemjson.NewEncoder(w).Encode(f.Boolean)
	case KindSubNode:
		_, err = io.WriteString(w, "null")
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "}")
	return err
}

// Node is the sole traversal primitive (§4.7): get_field(parent,
// index). Implementations return a NotFound-coded error (see
// lib/fruerr) when index is past the end of their children; for Array
// and MultiRecordArray nodes that is how a lazy scan discovers the
// end of the list, not a hard error.
type Node interface {
	// Name identifies this node for diagnostics (e.g. "board_info",
	// "multirecords", "custom").
	Name() string
	// Field returns the index'th child.
	Field(index int) (Field, error)
}
