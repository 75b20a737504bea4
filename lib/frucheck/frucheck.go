// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package frucheck implements the quantified invariants of §8 as
// standalone assertions over a decoded Fru, a raw blob, or a
// before/after pair of blobs plus the update ranges that claim to
// connect them. It is test and diagnostic tooling, not part of the
// codec's load-bearing path.
package frucheck

import (
	"errors"

	"github.com/ipmi-fru/fru-rec/lib/fru"
	"github.com/ipmi-fru/fru-rec/lib/fruarray"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

// OffsetMonotonicity checks §8.3: present areas are sorted strictly
// by offset with no overlap, and every offset is a nonzero multiple
// of 8 no greater than 2040.
func OffsetMonotonicity(f *fru.Fru) error {
	const op = "frucheck.OffsetMonotonicity"
	var prevEnd int
	for _, k := range frukind.All() {
		off, err := f.GetAreaOffset(k)
		if err != nil {
			if errors.Is(err, fruerr.NotFound) {
				continue
			}
			return err
		}
		length, err := f.GetAreaLength(k)
		if err != nil {
			return err
		}
		if off == 0 || off%8 != 0 {
			return fruerr.Errorf(fruerr.BadFormat, op, "%s offset %d is not a nonzero multiple of 8", k, off)
		}
		if off > 2040 {
			return fruerr.Errorf(fruerr.BadFormat, op, "%s offset %d exceeds the protocol cap", k, off)
		}
		if off < prevEnd {
			return fruerr.Errorf(fruerr.BadFormat, op, "%s at offset %d overlaps the preceding area ending at %d", k, off, prevEnd)
		}
		prevEnd = off + length
	}
	return nil
}

// StringArrayOffsets checks §8.4 for one area's string array: each
// entry's offset equals the previous entry's offset plus its raw
// length, and the terminator sits at used_length-2.
func StringArrayOffsets(arr *fruarray.Array) error {
	const op = "frucheck.StringArrayOffsets"
	entries := arr.Entries()
	for i := 1; i < len(entries); i++ {
		want := entries[i-1].Offset + entries[i-1].RawLen
		if entries[i].Offset != want {
			return fruerr.Errorf(fruerr.BadFormat, op, "entry %d offset %d, want %d", i, entries[i].Offset, want)
		}
	}
	if got, want := arr.Terminator(), arr.UsedLength()-2; got != want {
		return fruerr.Errorf(fruerr.BadFormat, op, "terminator at %d, want %d", got, want)
	}
	return nil
}

// RoundTripFidelity checks §8.1: decoding orig and writing it back
// with no intervening edits reproduces orig byte-for-byte and emits
// no update ranges.
func RoundTripFidelity(orig []byte) error {
	const op = "frucheck.RoundTripFidelity"
	f := fru.New(nil)
	if err := f.Decode(append([]byte(nil), orig...)); err != nil {
		return fruerr.Wrap(fruerr.BadFormat, op, err)
	}
	out := make([]byte, len(orig))
	ranges, err := f.Write(out)
	if err != nil {
		return err
	}
	if len(ranges) != 0 {
		return fruerr.Errorf(fruerr.BadFormat, op, "expected no update ranges, got %d", len(ranges))
	}
	for i := range orig {
		if orig[i] != out[i] {
			return fruerr.Errorf(fruerr.BadFormat, op, "byte %d differs: %#x != %#x", i, orig[i], out[i])
		}
	}
	return nil
}

// MinimalWritesSoundness checks §8.5: applying ranges to prev
// reproduces next exactly, and every byte outside the union of ranges
// is already equal between prev and next.
func MinimalWritesSoundness(prev, next []byte, ranges []fruwrite.UpdateRange) error {
	const op = "frucheck.MinimalWritesSoundness"
	if len(prev) != len(next) {
		return fruerr.New(fruerr.InvalidArgument, op, "prev and next must be the same length")
	}
	covered := make([]bool, len(prev))
	applied := append([]byte(nil), prev...)
	for _, r := range ranges {
		if r.Offset < 0 || r.Offset+r.Length > len(prev) {
			return fruerr.Errorf(fruerr.BadFormat, op, "range %v out of bounds", r)
		}
		copy(applied[r.Offset:r.Offset+r.Length], next[r.Offset:r.Offset+r.Length])
		for i := r.Offset; i < r.Offset+r.Length; i++ {
			covered[i] = true
		}
	}
	for i := range applied {
		if applied[i] != next[i] {
			return fruerr.Errorf(fruerr.BadFormat, op, "byte %d differs after applying ranges", i)
		}
		if !covered[i] && prev[i] != next[i] {
			return fruerr.Errorf(fruerr.BadFormat, op, "byte %d changed without a covering range", i)
		}
	}
	return nil
}

// ChecksumClosure checks §8.2: the header's bytes 0..7 sum to zero,
// and every present area's reserved region in buf sums to zero
// including its own checksum byte. buf is the image f was decoded
// from or last wrote into.
func ChecksumClosure(f *fru.Fru, buf []byte) error {
	const op = "frucheck.ChecksumClosure"
	if len(buf) < 8 {
		return fruerr.New(fruerr.BadFormat, op, "buffer shorter than the common header")
	}
	if sum8(buf[:8]) != 0 {
		return fruerr.New(fruerr.BadFormat, op, "common header does not sum to zero")
	}
	for _, k := range frukind.All() {
		if k == frukind.MultiRecord || k == frukind.InternalUse {
			// Multi-record checksums are per-record; internal use has
			// no checksum at all.
			continue
		}
		off, err := f.GetAreaOffset(k)
		if err != nil {
			if errors.Is(err, fruerr.NotFound) {
				continue
			}
			return err
		}
		length, err := f.GetAreaLength(k)
		if err != nil {
			return err
		}
		if off+length > len(buf) {
			return fruerr.Errorf(fruerr.BadFormat, op, "%s extends past end of buffer", k)
		}
		if sum8(buf[off:off+length]) != 0 {
			return fruerr.Errorf(fruerr.BadFormat, op, "%s reserved region does not sum to zero", k)
		}
	}
	return nil
}

func sum8(bs []byte) byte {
	var s byte
	for _, b := range bs {
		s += b
	}
	return s
}
