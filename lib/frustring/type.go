// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package frustring implements the FRU "type/length" variable-length
// string encoding: the 1-byte prefix packing a wire type into the top
// 2 bits and a payload length into the low 6, and the four payload
// encodings (ASCII-8, BCD-Plus, 6-bit-ASCII, binary) plus the
// language-dependent Unicode reinterpretation of the ASCII-8 wire
// type.
package frustring

import "fmt"

// WireType is the 2-bit type tag that appears on the wire in the top
// bits of the type/length prefix byte.
type WireType uint8

const (
	WireBinary      = WireType(0)
	WireBCDPlus     = WireType(1)
	WireSixBitASCII = WireType(2)
	WireASCII       = WireType(3) // also carries Unicode, per language code
)

// Type is the logical, decoded type of a string value. It is a finer
// grain than WireType: WireASCII decodes to either ASCII8 or Unicode
// depending on the area's language code.
type Type int

const (
	ASCII8 Type = iota
	BCDPlus
	SixBitASCII
	Binary
	Unicode
)

func (t Type) String() string {
	switch t {
	case ASCII8:
		return "ascii8"
	case BCDPlus:
		return "bcdplus"
	case SixBitASCII:
		return "sixbitascii"
	case Binary:
		return "binary"
	case Unicode:
		return "unicode"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (t Type) wireType() WireType {
	switch t {
	case Binary:
		return WireBinary
	case BCDPlus:
		return WireBCDPlus
	case SixBitASCII:
		return WireSixBitASCII
	case ASCII8, Unicode:
		return WireASCII
	default:
		panic(fmt.Sprintf("frustring: invalid Type %d", int(t)))
	}
}

// EndOfList is the sentinel byte that terminates a variable string
// array; it is never produced by Encode of a present string.
const EndOfList = byte(0xC1)

// emptyByte is the single-byte encoding of a zero-length string,
// regardless of requested Type.
const emptyByte = byte(0xC0)

// EnglishLanguageCode is the IPMI FRU language code for English; at
// this code, a WireASCII payload decodes as ASCII8 rather than
// Unicode.
const EnglishLanguageCode = 25
