// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frutree

import (
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/fruoem"
)

// MultiRecordArrayNode exposes the multi-record area's chain as a
// sequence of record sub-nodes (§4.5, §4.7).
type MultiRecordArrayNode struct {
	areas *Areas
}

func newMultiRecordArrayNode(areas *Areas) *MultiRecordArrayNode {
	return &MultiRecordArrayNode{areas: areas}
}

func (n *MultiRecordArrayNode) Name() string { return "multirecords" }

func (n *MultiRecordArrayNode) Field(index int) (Field, error) {
	const op = "frutree.MultiRecordArrayNode.Field"
	if n.areas.MultiRecord == nil {
		return Field{}, fruerr.New(fruerr.NotFound, op, "FRU has no multi-record area")
	}
	rec, err := n.areas.MultiRecord.Chain.Record(index)
	if err != nil {
		return Field{}, err
	}
	child := &recordNode{typeID: rec.Type, payload: rec.Payload, registry: n.areas.Registry}
	return Field{Name: "multirecord", Kind: KindSubNode, Child: child}, nil
}

// recordNode exposes one multi-record's raw payload and, when the
// registry resolves an OEM decoder, a sub-node of decoded fields.
type recordNode struct {
	typeID   byte
	payload  []byte
	registry *fruoem.Registry

	decoded     fruoem.Decoded
	decodedOK   bool
	decodeTried bool
}

func (n *recordNode) Name() string { return "multirecord" }

func (n *recordNode) ensureDecoded() {
	if n.decodeTried || n.registry == nil {
		return
	}
	n.decodeTried = true
	decoded, found, err := n.registry.Decode(n.typeID, n.payload)
	if err == nil && found {
		n.decoded = decoded
		n.decodedOK = true
	}
}

// Field returns exactly two children (§4.7): "raw_data" (the record's
// binary payload) and, when the registry resolves an OEM decoder, a
// "decoded" sub-node named from Decoded.Name wrapping the scaled
// fields. A record with no matching decoder has only "raw_data".
func (n *recordNode) Field(index int) (Field, error) {
	const op = "frutree.recordNode.Field"
	switch index {
	case 0:
		return Field{Name: "raw_data", Kind: KindBinary, Binary: n.payload}, nil
	case 1:
		n.ensureDecoded()
		if !n.decodedOK {
			return Field{}, fruerr.New(fruerr.NotFound, op, "record index out of range")
		}
		return Field{Name: "decoded", Kind: KindSubNode, Child: &decodedNode{decoded: n.decoded}}, nil
	default:
		return Field{}, fruerr.New(fruerr.NotFound, op, "record index out of range")
	}
}

// decodedNode exposes one OEM decoder's scaled fields as a sub-node
// (§4.5, §4.7), so the record's raw_data stays on recordNode and the
// decoder's own fields live under their own name.
type decodedNode struct {
	decoded fruoem.Decoded
}

func (n *decodedNode) Name() string { return n.decoded.Name }

func (n *decodedNode) Field(index int) (Field, error) {
	const op = "frutree.decodedNode.Field"
	if index < 0 || index >= len(n.decoded.Fields) {
		return Field{}, fruerr.New(fruerr.NotFound, op, "record index out of range")
	}
	f := n.decoded.Fields[index]
	switch f.Kind {
	case fruoem.KindFloat:
		return Field{Name: f.Name, Kind: KindFloat, Float: f.Float}, nil
	case fruoem.KindBool:
		return Field{Name: f.Name, Kind: KindBoolean, Boolean: f.Bool}, nil
	default:
		return Field{Name: f.Name, Kind: KindInt, Int: f.Int}, nil
	}
}
