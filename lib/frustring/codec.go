// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frustring

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/ipmi-fru/fru-rec/lib/fruerr"
)

// maxPayload is the protocol maximum: a type/length byte can only
// declare up to 63 bytes of payload.
const maxPayload = 63

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Decode reads one type/length-encoded string from the front of dat.
// forceUnicode requests that a WireASCII payload be reinterpreted as
// UCS-2 Unicode (the FRU spec does this for fields like
// board_product_name when the area's language code is not English).
// It returns the logical type, the decoded payload (UTF-8 text for
// the four textual types, raw bytes for Binary), and the number of
// bytes consumed from dat (including the prefix byte).
//
// If the byte at dat[0] is the EndOfList marker, Decode returns
// ok=false and no error; callers scanning a string array use this to
// find the terminator.
func Decode(dat []byte, forceUnicode bool) (typ Type, payload []byte, consumed int, ok bool, err error) {
	const op = "frustring.Decode"
	if len(dat) == 0 {
		return 0, nil, 0, false, fruerr.New(fruerr.BadFormat, op, "truncated: no type/length byte")
	}
	prefix := dat[0]
	if prefix == EndOfList {
		return 0, nil, 1, false, nil
	}

	wire := WireType(prefix >> 6)
	length := int(prefix & 0x3f)
	if len(dat)-1 < length {
		return 0, nil, 0, false, fruerr.Errorf(fruerr.BadFormat, op,
			"truncated: declared length %d exceeds remaining %d bytes", length, len(dat)-1)
	}
	raw := dat[1 : 1+length]
	consumed = 1 + length

	switch wire {
	case WireBinary:
		payload = append([]byte(nil), raw...)
		return Binary, payload, consumed, true, nil
	case WireBCDPlus:
		payload, err = decodeBCDPlus(raw)
		if err != nil {
			return 0, nil, 0, false, fruerr.Wrap(fruerr.BadFormat, op, err)
		}
		return BCDPlus, payload, consumed, true, nil
	case WireSixBitASCII:
		payload = decodeSixBitASCII(raw)
		return SixBitASCII, payload, consumed, true, nil
	case WireASCII:
		if forceUnicode {
			payload, err = decodeUnicode(raw)
			if err != nil {
				return 0, nil, 0, false, fruerr.Wrap(fruerr.BadFormat, op, err)
			}
			return Unicode, payload, consumed, true, nil
		}
		payload = append([]byte(nil), raw...)
		return ASCII8, payload, consumed, true, nil
	default:
		// unreachable: wire is 2 bits
		return 0, nil, 0, false, fruerr.New(fruerr.BadFormat, op, "impossible wire type")
	}
}

// Encode packs a logical string value into its type/length wire form.
// The payload is truncated, rather than rejected, so that the encoded
// form fits the protocol maximum of 63 bytes: Binary and ASCII-8 keep
// 63 bytes, BCD-Plus 126 characters, 6-bit ASCII 84 characters, and
// Unicode 62 encoded bytes. forceEnglish rejects an attempt to encode
// a Unicode value into a field whose area mandates English (e.g.
// Chassis Info).
//
// A zero-length payload always encodes to the single reserved byte
// 0xC0, regardless of typ. A one-byte ASCII-8 payload, whose prefix
// would be the EndOfList byte, is written as 6-bit ASCII when its
// character is in that range and as Binary otherwise.
func Encode(typ Type, payload []byte, forceEnglish bool) ([]byte, error) {
	const op = "frustring.Encode"
	if len(payload) == 0 {
		return []byte{emptyByte}, nil
	}
	if forceEnglish && typ == Unicode {
		return nil, fruerr.New(fruerr.InvalidArgument, op, "cannot encode a Unicode string into an English-only field")
	}

	var raw []byte
	var err error
	switch typ {
	case Binary:
		raw = truncate(payload, maxPayload)
	case BCDPlus:
		raw, err = encodeBCDPlus(truncateRunes(payload, maxPayload*2))
	case SixBitASCII:
		raw, err = encodeSixBitASCII(truncateRunes(payload, maxPayload*4/3))
	case ASCII8:
		raw = truncate(payload, maxPayload)
		if len(raw) == 1 {
			if six, sixErr := encodeSixBitASCII(raw); sixErr == nil {
				return append([]byte{byte(WireSixBitASCII)<<6 | byte(len(six))}, six...), nil
			}
			return []byte{byte(WireBinary)<<6 | 1, raw[0]}, nil
		}
	case Unicode:
		raw, err = encodeUnicode(payload)
		raw = truncate(raw, maxPayload&^1) // keep an even byte count
	default:
		return nil, fruerr.Errorf(fruerr.InvalidArgument, op, "unknown string type %v", typ)
	}
	if err != nil {
		return nil, fruerr.Wrap(fruerr.InvalidArgument, op, err)
	}
	if len(raw) > maxPayload {
		raw = raw[:maxPayload]
	}

	prefix := byte(typ.wireType())<<6 | byte(len(raw))
	out := make([]byte, 0, 1+len(raw))
	out = append(out, prefix)
	out = append(out, raw...)
	return out, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

// truncateRunes caps a byte slice to n runes worth of ASCII-range
// characters; BCD-Plus and 6-bit-ASCII payloads are always
// single-byte-per-character text, so this is just a byte truncation.
func truncateRunes(b []byte, n int) []byte {
	return truncate(b, n)
}

func decodeUnicode(raw []byte) ([]byte, error) {
	return utf16le.NewDecoder().Bytes(raw)
}

func encodeUnicode(utf8 []byte) ([]byte, error) {
	return utf16le.NewEncoder().Bytes(utf8)
}
