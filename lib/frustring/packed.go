// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frustring

import "fmt"

// bcdPlusChars maps a BCD-Plus nibble (0x0-0xC) to its character. The
// values 0xD-0xF are reserved by the IPMI spec and decode to '?'.
var bcdPlusChars = [16]byte{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	' ', '-', '.', '?', '?', '?',
}

func bcdPlusNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c == ' ':
		return 0xA, true
	case c == '-':
		return 0xB, true
	case c == '.':
		return 0xC, true
	default:
		return 0, false
	}
}

// decodeBCDPlus unpacks two characters per byte, high nibble first.
func decodeBCDPlus(raw []byte) ([]byte, error) {
	out := make([]byte, 0, len(raw)*2)
	for _, b := range raw {
		out = append(out, bcdPlusChars[b>>4], bcdPlusChars[b&0xf])
	}
	return out, nil
}

// encodeBCDPlus packs characters two per byte, high nibble first; an
// odd final character is padded with a trailing 0x0 nibble.
func encodeBCDPlus(text []byte) ([]byte, error) {
	out := make([]byte, 0, (len(text)+1)/2)
	for i := 0; i < len(text); i += 2 {
		hi, ok := bcdPlusNibble(text[i])
		if !ok {
			return nil, fmt.Errorf("character %q is not valid BCD-Plus", text[i])
		}
		lo := byte(0)
		if i+1 < len(text) {
			var ok2 bool
			lo, ok2 = bcdPlusNibble(text[i+1])
			if !ok2 {
				return nil, fmt.Errorf("character %q is not valid BCD-Plus", text[i+1])
			}
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

// sixBitASCII codes 0x00-0x3F map to ASCII 0x20-0x5F: space through
// underscore. 4 characters pack into 3 bytes, least-significant bits
// first, per the IPMI FRU wire format.
const sixBitBase = 0x20

func decodeSixBitASCII(raw []byte) []byte {
	numChars := len(raw) * 8 / 6
	out := make([]byte, 0, numChars)
	var acc uint32
	var bits int
	for _, b := range raw {
		acc |= uint32(b) << bits
		bits += 8
		for bits >= 6 {
			out = append(out, byte(acc&0x3f)+sixBitBase)
			acc >>= 6
			bits -= 6
		}
	}
	return out
}

func encodeSixBitASCII(text []byte) ([]byte, error) {
	out := make([]byte, 0, (len(text)*6+7)/8)
	var acc uint32
	var bits int
	for _, c := range text {
		if c < sixBitBase || c > sixBitBase+0x3f {
			return nil, fmt.Errorf("character %q is outside the 6-bit-ASCII range", c)
		}
		acc |= uint32(c-sixBitBase) << bits
		bits += 6
		for bits >= 8 {
			out = append(out, byte(acc&0xff))
			acc >>= 8
			bits -= 8
		}
	}
	if bits > 0 {
		out = append(out, byte(acc&0xff))
	}
	return out, nil
}
