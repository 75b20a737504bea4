// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fruwrite accumulates the minimal list of byte ranges that
// changed during an encode pass, so that a caller backed by slow,
// write-bounded storage can write back only what actually changed.
package fruwrite

import "fmt"

// UpdateRange is a byte-offset/length descriptor of a region of the
// output buffer whose content changed since the last acknowledged
// write. Ranges are absolute offsets into the FRU blob. Ranges may
// overlap or abut one another; Planner does not coalesce them.
type UpdateRange struct {
	Offset int
	Length int
}

func (r UpdateRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Offset, r.Offset+r.Length)
}

// Planner is an append-only accumulator of UpdateRanges produced
// during one Fru.Write call. It is not safe for concurrent use; the
// top-level FRU object serializes access under its own lock (§5).
type Planner struct {
	ranges []UpdateRange
}

// Emit records that [offset, offset+length) changed. A zero-length
// range is silently ignored: it has no on-media effect and would
// only pad the caller's write-back list.
func (p *Planner) Emit(offset, length int) {
	if length <= 0 {
		return
	}
	p.ranges = growPlan(p.ranges, UpdateRange{Offset: offset, Length: length})
}

// Ranges returns the accumulated list, in emission order. Per §5,
// callers that process areas and, within an area, fields in
// increasing-offset order naturally produce a result that is already
// sorted by Offset; Planner itself does not re-sort, since reordering
// would break the "emission order reflects structural order" property
// that callers rely on for testing.
func (p *Planner) Ranges() []UpdateRange {
	return p.ranges
}

// Reset clears the accumulated ranges, for reuse across encode calls.
func (p *Planner) Reset() {
	p.ranges = p.ranges[:0]
}

// growPlan appends to s, growing the backing array in steps of 16
// entries, matching the amortized-growth discipline used throughout
// this module for backing arrays with no on-wire representation.
func growPlan(s []UpdateRange, v UpdateRange) []UpdateRange {
	if len(s) == cap(s) {
		grown := make([]UpdateRange, len(s), len(s)+16)
		copy(grown, s)
		s = grown
	}
	return append(s, v)
}
