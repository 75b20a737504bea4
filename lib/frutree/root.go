// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frutree

import (
	"github.com/ipmi-fru/fru-rec/lib/fruarray"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
)

type fieldDesc struct {
	name string
	get  func(a *Areas) (Field, bool, error)
}

func asciiEntry(name string, index int, areaArr func(a *Areas) *arrayHolder) fieldDesc {
	return fieldDesc{name: name, get: func(a *Areas) (Field, bool, error) {
		h := areaArr(a)
		if h == nil {
			return Field{}, false, nil
		}
		e, err := h.arr.Get(index, false)
		if err != nil {
			return Field{}, false, err
		}
		return stringField(name, e.Type, e.Payload), true, nil
	}}
}

func stringField(name string, typ frustring.Type, payload []byte) Field {
	if typ == frustring.Binary {
		return Field{Name: name, Kind: KindBinary, Binary: payload}
	}
	return Field{Name: name, Kind: KindASCII, ASCII: string(payload)}
}

// arrayHolder pairs a string array with the area capacity its Set
// calls must respect.
type arrayHolder struct {
	arr      *fruarray.Array
	capacity int
}

func chassisArray(a *Areas) *arrayHolder {
	if a.Chassis == nil {
		return nil
	}
	return &arrayHolder{arr: a.Chassis.Strings, capacity: a.Chassis.Length}
}

func boardArray(a *Areas) *arrayHolder {
	if a.Board == nil {
		return nil
	}
	return &arrayHolder{arr: a.Board.Strings, capacity: a.Board.Length}
}

func productArray(a *Areas) *arrayHolder {
	if a.Product == nil {
		return nil
	}
	return &arrayHolder{arr: a.Product.Strings, capacity: a.Product.Length}
}

// fieldTable is the compile-time reflection table (§4.7): every
// reachable scalar, timestamp, and string across all four info areas,
// in declaration order. "multirecords" is appended separately as the
// synthetic final root child, not part of this table.
var fieldTable = []fieldDesc{
	{name: "internal_use_data", get: func(a *Areas) (Field, bool, error) {
		if a.InternalUse == nil {
			return Field{}, false, nil
		}
		return Field{Name: "internal_use_data", Kind: KindBinary, Binary: a.InternalUse.Payload}, true, nil
	}},

	{name: "chassis_type", get: func(a *Areas) (Field, bool, error) {
		if a.Chassis == nil {
			return Field{}, false, nil
		}
		return Field{Name: "chassis_type", Kind: KindInt, Int: int64(a.Chassis.ChassisType)}, true, nil
	}},
	asciiEntry("chassis_part_number", 0, func(a *Areas) *arrayHolder { return chassisArray(a) }),
	asciiEntry("chassis_serial_number", 1, func(a *Areas) *arrayHolder { return chassisArray(a) }),
	{name: "chassis_custom", get: func(a *Areas) (Field, bool, error) {
		if a.Chassis == nil {
			return Field{}, false, nil
		}
		return Field{Name: "chassis_custom", Kind: KindSubNode, Child: newArrayNode("chassis_custom", chassisArray(a))}, true, nil
	}},

	{name: "board_mfg_date", get: func(a *Areas) (Field, bool, error) {
		if a.Board == nil {
			return Field{}, false, nil
		}
		return Field{Name: "board_mfg_date", Kind: KindTime, Time: a.Board.MfgDate}, true, nil
	}},
	asciiEntry("board_manufacturer", 0, func(a *Areas) *arrayHolder { return boardArray(a) }),
	asciiEntry("board_product_name", 1, func(a *Areas) *arrayHolder { return boardArray(a) }),
	asciiEntry("board_serial_number", 2, func(a *Areas) *arrayHolder { return boardArray(a) }),
	asciiEntry("board_part_number", 3, func(a *Areas) *arrayHolder { return boardArray(a) }),
	asciiEntry("board_fru_file_id", 4, func(a *Areas) *arrayHolder { return boardArray(a) }),
	{name: "board_custom", get: func(a *Areas) (Field, bool, error) {
		if a.Board == nil {
			return Field{}, false, nil
		}
		return Field{Name: "board_custom", Kind: KindSubNode, Child: newArrayNode("board_custom", boardArray(a))}, true, nil
	}},

	asciiEntry("product_manufacturer_name", 0, func(a *Areas) *arrayHolder { return productArray(a) }),
	asciiEntry("product_name", 1, func(a *Areas) *arrayHolder { return productArray(a) }),
	asciiEntry("product_part_model_number", 2, func(a *Areas) *arrayHolder { return productArray(a) }),
	asciiEntry("product_version", 3, func(a *Areas) *arrayHolder { return productArray(a) }),
	asciiEntry("product_serial_number", 4, func(a *Areas) *arrayHolder { return productArray(a) }),
	asciiEntry("product_asset_tag", 5, func(a *Areas) *arrayHolder { return productArray(a) }),
	asciiEntry("product_fru_file_id", 6, func(a *Areas) *arrayHolder { return productArray(a) }),
	{name: "product_custom", get: func(a *Areas) (Field, bool, error) {
		if a.Product == nil {
			return Field{}, false, nil
		}
		return Field{Name: "product_custom", Kind: KindSubNode, Child: newArrayNode("product_custom", productArray(a))}, true, nil
	}},
}

// RootNode is the navigator node rooted at "standard FRU" (§4.7).
type RootNode struct {
	areas *Areas
}

// NewRoot returns the root navigator node over areas.
func NewRoot(areas *Areas) *RootNode {
	return &RootNode{areas: areas}
}

func (n *RootNode) Name() string { return "fru" }

// StrToIndex resolves a field name to the index Field expects (§6.2's
// "str_to_index"), so a caller that knows a name (e.g. the CLI's
// set-string dispatch) doesn't have to walk the table by index to find
// it. "multirecords" resolves to the synthetic final index.
func (n *RootNode) StrToIndex(name string) (index int, ok bool) {
	if name == "multirecords" {
		return len(fieldTable), true
	}
	for i, d := range fieldTable {
		if d.name == name {
			return i, true
		}
	}
	return 0, false
}

// IndexToStr is the inverse of StrToIndex (§6.2's "index_to_str").
func (n *RootNode) IndexToStr(index int) (name string, ok bool) {
	if index == len(fieldTable) {
		return "multirecords", true
	}
	if index < 0 || index > len(fieldTable) {
		return "", false
	}
	return fieldTable[index].name, true
}

// Field returns the index'th reflection-table entry, or, at
// index==len(fieldTable), the synthetic "multirecords" child.
func (n *RootNode) Field(index int) (Field, error) {
	const op = "frutree.RootNode.Field"
	if index == len(fieldTable) {
		return Field{Name: "multirecords", Kind: KindSubNode, Child: newMultiRecordArrayNode(n.areas)}, nil
	}
	if index < 0 || index > len(fieldTable) {
		return Field{}, fruerr.New(fruerr.NotFound, op, "root field index out of range")
	}
	f, present, err := fieldTable[index].get(n.areas)
	if err != nil {
		return Field{}, err
	}
	if !present {
		return Field{}, fruerr.New(fruerr.NotFound, op, "field's area is absent from this FRU")
	}
	return f, nil
}
