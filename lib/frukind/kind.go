// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package frukind defines the five FRU area kinds, in the order they
// appear in the common header's offset table, and their per-kind
// structural constants.
package frukind

import "fmt"

// Kind identifies one of the five FRU areas. The numeric values match
// the order (and so the header byte index, Kind+1) of the area's
// offset field in the common header.
type Kind int

const (
	InternalUse Kind = iota
	Chassis
	Board
	Product
	MultiRecord

	numKinds = int(MultiRecord) + 1
)

func (k Kind) String() string {
	switch k {
	case InternalUse:
		return "internal_use"
	case Chassis:
		return "chassis_info"
	case Board:
		return "board_info"
	case Product:
		return "product_info"
	case MultiRecord:
		return "multi_record"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// All lists the five kinds in header order.
func All() []Kind {
	return []Kind{InternalUse, Chassis, Board, Product, MultiRecord}
}

// Valid reports whether k is one of the five defined kinds.
func (k Kind) Valid() bool {
	return k >= InternalUse && k <= MultiRecord
}

// EmptyLength is the minimum on-wire length (header/tag byte, entirely
// empty strings, terminator, and checksum) for an area newly added
// with no fields set. MultiRecord has no fixed minimum: an empty chain
// is zero bytes.
func (k Kind) EmptyLength() int {
	switch k {
	case InternalUse:
		return 1
	case Chassis:
		return 7
	case Board:
		return 13
	case Product:
		return 12
	case MultiRecord:
		return 0
	default:
		panic(fmt.Sprintf("frukind: invalid Kind %d", int(k)))
	}
}

// FixedLengthAligned reports whether k's reserved length must be an
// 8-byte multiple. This holds for every area except MultiRecord, whose
// reserved region always extends to the end of the blob.
func (k Kind) FixedLengthAligned() bool {
	return k != MultiRecord
}
