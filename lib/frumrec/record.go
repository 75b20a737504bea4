// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package frumrec implements the Multi-Record area's chain of
// self-delimited, individually-checksummed typed records.
package frumrec

import (
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
)

const (
	headerLen   = 5
	maxPayload  = 255
	formatVers  = 2
	eolBit      = 0x80
	versionMask = 0x0f
)

// FormatVersion is the 4-bit format-version nibble every record is
// stamped with on encode (§3 "Multi-Record List"); the wire format
// does not let individual records carry a different value.
const FormatVersion = formatVers

// Record is one entry of a Multi-Record chain.
type Record struct {
	Type    byte
	Payload []byte

	// Offset is this record's byte position within the area (the
	// position of its 5-byte header).
	Offset int
	Changed bool

	rawCache       []byte
	rawCacheIsLast bool
}

// RawLen is the on-wire length of this record, header included.
func (r *Record) RawLen() int {
	return headerLen + len(r.Payload)
}

// RawBytes returns the on-wire encoding of r, recomputing it if r has
// changed or the end-of-list bit (which depends on chain position, not
// on r itself) differs from the last time it was produced.
func (r *Record) RawBytes(isLast bool) ([]byte, error) {
	if r.rawCache != nil && !r.Changed && r.rawCacheIsLast == isLast {
		return r.rawCache, nil
	}
	raw, err := encodeRecord(r.Type, r.Payload, isLast)
	if err != nil {
		return nil, err
	}
	r.rawCache = raw
	r.rawCacheIsLast = isLast
	return raw, nil
}

func sum8(bs ...byte) byte {
	var s byte
	for _, b := range bs {
		s += b
	}
	return s
}

func encodeRecord(typ byte, payload []byte, isLast bool) ([]byte, error) {
	const op = "frumrec.encode"
	if len(payload) > maxPayload {
		return nil, fruerr.New(fruerr.TooBig, op, "multi-record payload exceeds 255 bytes")
	}
	verByte := byte(formatVers) & versionMask
	if isLast {
		verByte |= eolBit
	}
	length := byte(len(payload))
	payloadChecksum := byte(0) - sum8(payload...)
	hdr := [4]byte{typ, verByte, length, payloadChecksum}
	hdrChecksum := byte(0) - sum8(hdr[:]...)

	raw := make([]byte, 0, headerLen+len(payload))
	raw = append(raw, hdr[:]...)
	raw = append(raw, hdrChecksum)
	raw = append(raw, payload...)
	return raw, nil
}

// decodeRecord parses one record from the front of dat, returning the
// number of bytes consumed (header + payload) and whether its
// end-of-list bit was set.
func decodeRecord(dat []byte) (rec Record, consumed int, eol bool, err error) {
	const op = "frumrec.decode"
	if len(dat) < headerLen {
		return Record{}, 0, false, fruerr.New(fruerr.BadFormat, op, "truncated multi-record header")
	}
	hdr := dat[:headerLen]
	if sum8(hdr...) != 0 {
		return Record{}, 0, false, fruerr.New(fruerr.BadFormat, op, "multi-record header checksum mismatch")
	}
	typ := hdr[0]
	verByte := hdr[1]
	eol = verByte&eolBit != 0
	length := int(hdr[2])
	payloadChecksum := hdr[3]

	if len(dat) < headerLen+length {
		return Record{}, 0, false, fruerr.New(fruerr.BadFormat, op, "multi-record payload runs past end of area")
	}
	payload := append([]byte(nil), dat[headerLen:headerLen+length]...)
	if sum8(payload...)+payloadChecksum != 0 {
		return Record{}, 0, false, fruerr.New(fruerr.BadFormat, op, "multi-record payload checksum mismatch")
	}

	rec = Record{Type: typ, Payload: payload, rawCache: append([]byte(nil), dat[:headerLen+length]...), rawCacheIsLast: eol}
	return rec, headerLen + length, eol, nil
}
