// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fruarea implements the five FRU area record kinds and the
// protocol they share: decode, encode, setup-new, and the checksum
// and dirty-range bookkeeping that accompanies each (§4.3).
package fruarea

import (
	"github.com/ipmi-fru/fru-rec/lib/binstruct"
	"github.com/ipmi-fru/fru-rec/lib/frutime"
)

const formatVersion = 1

type chassisWire struct {
	Version       byte `bin:"off=0x0,siz=0x1"`
	LengthBy8     byte `bin:"off=0x1,siz=0x1"`
	ChassisType   byte `bin:"off=0x2,siz=0x1"`
	binstruct.End `bin:"off=0x3"`
}

type boardWire struct {
	Version       byte              `bin:"off=0x0,siz=0x1"`
	LengthBy8     byte              `bin:"off=0x1,siz=0x1"`
	LanguageCode  byte              `bin:"off=0x2,siz=0x1"`
	Timestamp     frutime.Timestamp `bin:"off=0x3,siz=0x3"`
	binstruct.End `bin:"off=0x6"`
}

type productWire struct {
	Version       byte `bin:"off=0x0,siz=0x1"`
	LengthBy8     byte `bin:"off=0x1,siz=0x1"`
	LanguageCode  byte `bin:"off=0x2,siz=0x1"`
	binstruct.End `bin:"off=0x3"`
}

const (
	chassisHeaderLen = 3
	boardHeaderLen   = 6
	productHeaderLen = 3
)

// Header carries the dirty/placement bookkeeping common to all five
// area kinds (§3's "Area Record" entity).
type Header struct {
	Offset         int
	Length         int
	OrigUsedLength int
	Changed        bool
	Rewrite        bool
}

func marshalWire(v any) []byte {
	dat, err := binstruct.Marshal(v)
	if err != nil {
		panic(err)
	}
	return dat
}
