// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruarea

import (
	"github.com/ipmi-fru/fru-rec/lib/fruarray"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

// zeroSumChecksum returns the byte that, appended to bs, makes the
// sum of bs plus that byte zero modulo 256.
func zeroSumChecksum(bs []byte) byte {
	var s byte
	for _, b := range bs {
		s += b
	}
	return -s
}

// encodeStringArea writes one Chassis/Board/Product area's byte image
// into buf[off:off+length] and reports dirty ranges to planner,
// following the six-step sequence of §4.3: zero the reserved region,
// write the fixed header, write each string (fresh or cached),
// terminate the list, zero-fill any shrink tail, and checksum the
// whole reserved region into its last byte.
//
// The checksum always lands at the fixed position off+length-1 (the
// last byte of the area's reserved length), independent of how much
// of the area is actually used; everything between the terminator and
// the checksum is zero padding.
func encodeStringArea(buf []byte, off, length int, header []byte, arr *fruarray.Array, changed, rewrite bool, origUsedLength int, planner *fruwrite.Planner) (newUsedLength int, err error) {
	region := buf[off : off+length]
	for i := range region {
		region[i] = 0
	}

	copy(buf[off:], header)
	if changed && !rewrite {
		planner.Emit(off, len(header))
	}

	for _, e := range arr.Entries() {
		raw, err := e.RawBytes()
		if err != nil {
			return 0, err
		}
		copy(buf[off+e.Offset:], raw)
		if e.Changed && !rewrite {
			planner.Emit(off+e.Offset, len(raw))
		}
	}

	termOff := arr.Terminator()
	buf[off+termOff] = frustring.EndOfList
	if changed && !rewrite {
		planner.Emit(off+termOff, 1)
	}

	newUsedLength = arr.UsedLength()
	if newUsedLength < origUsedLength && !rewrite {
		planner.Emit(off+newUsedLength-1, origUsedLength-newUsedLength)
	}

	cksumOff := off + length - 1
	buf[cksumOff] = zeroSumChecksum(buf[off:cksumOff])
	if changed && !rewrite {
		planner.Emit(cksumOff, 1)
	}

	if rewrite {
		planner.Emit(off, length)
	}
	return newUsedLength, nil
}
