// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fru

import (
	"github.com/ipmi-fru/fru-rec/lib/binstruct"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
)

const (
	headerLen     = 8
	headerVersion = 1
)

type commonHeaderWire struct {
	Version        byte `bin:"off=0x0,siz=0x1"`
	InternalOff    byte `bin:"off=0x1,siz=0x1"`
	ChassisOff     byte `bin:"off=0x2,siz=0x1"`
	BoardOff       byte `bin:"off=0x3,siz=0x1"`
	ProductOff     byte `bin:"off=0x4,siz=0x1"`
	MultiRecordOff byte `bin:"off=0x5,siz=0x1"`
	Pad            byte `bin:"off=0x6,siz=0x1"`
	Checksum       byte `bin:"off=0x7,siz=0x1"`
	binstruct.End  `bin:"off=0x8"`
}

var headerOrder = frukind.All()

func zeroSumChecksum(bs []byte) byte {
	var s byte
	for _, b := range bs {
		s += b
	}
	return -s
}

// decodeHeader validates the 8-byte common header (§3, §4.6) and
// returns the on-wire offset (already ×8) for each kind, 0 meaning
// absent.
func decodeHeader(dat []byte) (offsets map[frukind.Kind]int, err error) {
	const op = "fru.decodeHeader"
	if len(dat) < headerLen {
		return nil, fruerr.New(fruerr.BadFormat, op, "buffer shorter than the common header")
	}
	var wire commonHeaderWire
	if _, err := binstruct.Unmarshal(dat[:headerLen], &wire); err != nil {
		return nil, fruerr.Wrap(fruerr.BadFormat, op, err)
	}
	if wire.Version != headerVersion {
		return nil, fruerr.New(fruerr.BadFormat, op, "unsupported common header version")
	}
	if zeroSumChecksum(dat[:headerLen-1]) != wire.Checksum {
		return nil, fruerr.New(fruerr.BadFormat, op, "common header checksum mismatch")
	}
	if wire.Pad != 0 {
		return nil, fruerr.New(fruerr.BadFormat, op, "reserved common header byte is nonzero")
	}

	raw := []byte{wire.InternalOff, wire.ChassisOff, wire.BoardOff, wire.ProductOff, wire.MultiRecordOff}
	offsets = make(map[frukind.Kind]int, len(headerOrder))
	for i, k := range headerOrder {
		offsets[k] = int(raw[i]) * 8
	}
	return offsets, nil
}

// encodeHeader writes the 8-byte common header for the given offsets
// (byte offsets, ×8-scaled on the wire) into buf[:8].
func encodeHeader(buf []byte, offsets map[frukind.Kind]int) {
	wire := commonHeaderWire{Version: headerVersion}
	raw := [5]*byte{&wire.InternalOff, &wire.ChassisOff, &wire.BoardOff, &wire.ProductOff, &wire.MultiRecordOff}
	for i, k := range headerOrder {
		*raw[i] = byte(offsets[k] / 8)
	}
	dat, err := binstruct.Marshal(&wire)
	if err != nil {
		panic(err)
	}
	copy(buf[:headerLen-1], dat[:headerLen-1])
	buf[headerLen-1] = zeroSumChecksum(buf[:headerLen-1])
}
