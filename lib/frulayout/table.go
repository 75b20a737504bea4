// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package frulayout maintains and validates the common header's
// five-area offset/length table: 8-byte alignment, monotone
// non-overlapping placement, and the blob-length and protocol bounds
// on where an area may live (§4.6).
package frulayout

import (
	"github.com/ipmi-fru/fru-rec/lib/containers"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
)

// maxOffset is the largest area offset the 1-byte, /8-scaled common
// header field can express without losing precision against the
// protocol's own documented cap, whichever is smaller.
const maxOffset = 2040

// Placement is one area's current offset and reserved length, both
// always byte counts (not /8-scaled).
type Placement struct {
	Offset int
	Length int
}

// Table tracks the placement of the (up to) five present areas,
// keyed both by kind and ordered by offset so neighbor checks don't
// need a linear scan sorted ad hoc.
type Table struct {
	byKind   map[frukind.Kind]Placement
	byOffset containers.SortedMap[containers.NativeOrdered[int], frukind.Kind]
}

// New returns an empty table (no areas present).
func New() *Table {
	return &Table{byKind: make(map[frukind.Kind]Placement)}
}

// Get returns k's current placement, if present.
func (t *Table) Get(k frukind.Kind) (Placement, bool) {
	p, ok := t.byKind[k]
	return p, ok
}

// Present returns the kinds currently placed, in increasing-offset
// order.
func (t *Table) Present() []frukind.Kind {
	var out []frukind.Kind
	t.byOffset.Range(func(_ containers.NativeOrdered[int], k frukind.Kind) bool {
		out = append(out, k)
		return true
	})
	return out
}

// Add places a new area at offset with the given reserved length;
// for the four fixed-alignment kinds the length is truncated down to
// an 8-byte multiple rather than rejected.
func (t *Table) Add(k frukind.Kind, offset, length, blobLen int) error {
	const op = "frulayout.Add"
	if _, ok := t.byKind[k]; ok {
		return fruerr.New(fruerr.AlreadyExists, op, "area already present")
	}
	if k.FixedLengthAligned() {
		length = alignDown8(length)
	}
	if length < k.EmptyLength() {
		return fruerr.New(fruerr.InvalidArgument, op, "area length is smaller than the kind's minimum")
	}
	if err := t.validate(k, offset, length, blobLen); err != nil {
		return err
	}
	t.set(k, offset, length)
	return nil
}

// Move relocates an existing area to a new offset. For Multi-Record,
// length is recomputed to run to the end of the blob; for the other
// four kinds the current length is kept.
func (t *Table) Move(k frukind.Kind, offset, blobLen int) error {
	const op = "frulayout.Move"
	cur, ok := t.byKind[k]
	if !ok {
		return fruerr.New(fruerr.NotFound, op, "area not present")
	}
	length := cur.Length
	if k == frukind.MultiRecord {
		length = blobLen - offset
	}
	if err := t.validateExcluding(k, offset, length, blobLen); err != nil {
		return err
	}
	t.set(k, offset, length)
	return nil
}

// Resize changes an existing area's reserved length in place. It
// fails with TooBig if the new length would be smaller than the
// area's current used length.
func (t *Table) Resize(k frukind.Kind, newLength, usedLength, blobLen int) error {
	const op = "frulayout.Resize"
	cur, ok := t.byKind[k]
	if !ok {
		return fruerr.New(fruerr.NotFound, op, "area not present")
	}
	newLength = alignDown8(newLength)
	if newLength < usedLength {
		return fruerr.New(fruerr.TooBig, op, "new length is smaller than area's current used length")
	}
	if err := t.validateExcluding(k, cur.Offset, newLength, blobLen); err != nil {
		return err
	}
	t.set(k, cur.Offset, newLength)
	return nil
}

// Delete removes k from the table; it is a no-op if k is absent.
func (t *Table) Delete(k frukind.Kind) {
	cur, ok := t.byKind[k]
	if !ok {
		return
	}
	delete(t.byKind, k)
	t.byOffset.Delete(containers.NativeOrdered[int]{Val: cur.Offset})
}

func (t *Table) set(k frukind.Kind, offset, length int) {
	if cur, ok := t.byKind[k]; ok {
		t.byOffset.Delete(containers.NativeOrdered[int]{Val: cur.Offset})
	}
	t.byKind[k] = Placement{Offset: offset, Length: length}
	t.byOffset.Store(containers.NativeOrdered[int]{Val: offset}, k)
}

func (t *Table) validate(k frukind.Kind, offset, length, blobLen int) error {
	return t.validateNeighbors(k, offset, length, blobLen)
}

func (t *Table) validateExcluding(k frukind.Kind, offset, length, blobLen int) error {
	return t.validateNeighbors(k, offset, length, blobLen)
}

// validateNeighbors applies §4.6's bounds and alignment checks and,
// for every other present area, requires non-overlap. k's own
// existing placement (if any) is never compared against itself.
func (t *Table) validateNeighbors(k frukind.Kind, offset, length, blobLen int) error {
	const op = "frulayout.validate"
	if offset <= 0 || offset%8 != 0 {
		return fruerr.New(fruerr.InvalidArgument, op, "area offset must be a nonzero multiple of 8")
	}
	if k.FixedLengthAligned() && length%8 != 0 {
		return fruerr.New(fruerr.InvalidArgument, op, "area length must be a multiple of 8")
	}
	maxOff := maxOffset
	if blobLen-8 < maxOff {
		maxOff = blobLen - 8
	}
	if offset > maxOff {
		return fruerr.New(fruerr.InvalidArgument, op, "area offset exceeds protocol or blob-length bound")
	}
	if offset+length > blobLen {
		return fruerr.New(fruerr.InvalidArgument, op, "area extends past end of blob")
	}

	for other, p := range t.byKind {
		if other == k {
			continue
		}
		if p.Offset < offset {
			if p.Offset+p.Length > offset {
				return fruerr.New(fruerr.InvalidArgument, op, "area overlaps preceding area")
			}
		} else {
			if offset+length > p.Offset {
				return fruerr.New(fruerr.InvalidArgument, op, "area overlaps following area")
			}
		}
	}
	return nil
}

func alignDown8(n int) int {
	return n - (n % 8)
}
