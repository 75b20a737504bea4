// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fruarray implements the ordered sequence of type/length
// strings that makes up an info area's variable body: a fixed prefix
// of named fields followed by a custom tail, terminated by the
// end-of-list marker and a checksum byte.
package fruarray

import (
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
)

// Entry is one string slot: a fixed field if its index is below the
// array's NumFixed, a custom entry otherwise.
type Entry struct {
	Type    frustring.Type
	Payload []byte // decoded value; nil/empty means an empty ("0xC0") slot

	// Offset is this entry's byte position within the area, i.e.
	// where its type/length prefix byte lives.
	Offset int
	// RawLen is the on-wire length of this entry, prefix byte
	// included. It is always len(rawCache) when rawCache is set.
	RawLen int

	// rawCache holds the exact bytes last produced for this entry
	// (by decode or by a prior encode); it lets the area encoder
	// reproduce byte-identical output for strings nobody has
	// touched, even across codecs (like BCD-Plus) whose decode
	// isn't a perfect inverse of its own encode.
	rawCache []byte
	Changed  bool
}

// RawBytes returns the cached on-wire encoding for this entry,
// producing it fresh if the entry has never been encoded (e.g. it was
// just constructed rather than decoded).
func (e *Entry) RawBytes() ([]byte, error) {
	if e.rawCache != nil {
		return e.rawCache, nil
	}
	raw, err := frustring.Encode(e.Type, e.Payload, false)
	if err != nil {
		return nil, err
	}
	e.rawCache = raw
	e.RawLen = len(raw)
	return raw, nil
}

// Array is the ordered list of strings belonging to one info area.
type Array struct {
	// NumFixed is the count of always-present fixed fields at the
	// front of Entries; the rest are the custom tail.
	NumFixed int
	// ForceEnglish marks an area (Chassis Info) whose strings are
	// never reinterpreted as Unicode regardless of language code.
	ForceEnglish bool
	// base is the byte offset within the area of the first entry.
	base    int
	entries []Entry
}

// New creates an array of numFixed empty fixed entries, anchored so
// that the first entry's Offset is base (typically the area's fixed
// header size).
func New(numFixed, base int, forceEnglish bool) *Array {
	a := &Array{NumFixed: numFixed, ForceEnglish: forceEnglish, base: base}
	a.entries = make([]Entry, numFixed)
	off := base
	for i := range a.entries {
		a.entries[i] = Entry{Type: frustring.ASCII8, Offset: off, RawLen: 1, rawCache: []byte{0xC0}}
		off++
	}
	return a
}

// Entries returns the full fixed+custom entry list. Callers must not
// retain pointers into it across a mutation.
func (a *Array) Entries() []Entry {
	return a.entries
}

// NumCustom returns the number of custom (non-fixed) entries.
func (a *Array) NumCustom() int {
	return len(a.entries) - a.NumFixed
}

// UsedLength returns the number of bytes occupied by all entries plus
// the 1-byte terminator and 1-byte checksum that follow them.
func (a *Array) UsedLength() int {
	if len(a.entries) == 0 {
		return a.base + 2
	}
	last := a.entries[len(a.entries)-1]
	return last.Offset + last.RawLen + 2
}

// Get returns the index'th entry; if custom is true, index is
// relative to the first custom slot.
func (a *Array) Get(index int, custom bool) (Entry, error) {
	const op = "fruarray.Get"
	i := index
	if custom {
		i = a.NumFixed + index
	}
	if i < 0 || i >= len(a.entries) {
		return Entry{}, fruerr.New(fruerr.NotFound, op, "string index out of range")
	}
	return a.entries[i], nil
}

// Set stores typ/payload at the given slot, appending a new custom
// entry when index==NumCustom(). capacity is the area's total
// reserved length (header, strings, terminator, and checksum all
// included, since Offset is measured from the start of the area), used
// to reject a mutation that would not fit.
//
// A nil/empty payload on a fixed slot clears it to the empty (0xC0)
// encoding. A nil/empty payload on an existing custom slot deletes it,
// sliding all following entries down. Deleting past the end, or
// setting a fixed slot via the custom index space, is
// InvalidArgument.
func (a *Array) Set(index int, custom bool, typ frustring.Type, payload []byte, capacity int) error {
	const op = "fruarray.Set"
	if !custom {
		if index < 0 || index >= a.NumFixed {
			return fruerr.New(fruerr.InvalidArgument, op, "fixed field index out of range")
		}
		return a.setAt(index, typ, payload, capacity)
	}

	if index < 0 || index > a.NumCustom() {
		return fruerr.New(fruerr.InvalidArgument, op, "custom string index out of range")
	}
	if payload == nil && index == a.NumCustom() {
		return fruerr.New(fruerr.InvalidArgument, op, "cannot delete a custom string past the end")
	}
	if index == a.NumCustom() {
		return a.appendCustom(typ, payload, capacity)
	}
	if payload == nil || len(payload) == 0 {
		return a.deleteCustom(index)
	}
	return a.setAt(a.NumFixed+index, typ, payload, capacity)
}

// setAt is the shared core of replacing entry i's value in place.
func (a *Array) setAt(i int, typ frustring.Type, payload []byte, capacity int) error {
	const op = "fruarray.Set"
	oldLen := a.entries[i].RawLen
	raw, err := frustring.Encode(typ, payload, a.ForceEnglish)
	if err != nil {
		return fruerr.Wrap(fruerr.InvalidArgument, op, err)
	}
	newLen := len(raw)
	if a.UsedLength()+(newLen-oldLen) > capacity {
		return fruerr.New(fruerr.OutOfSpace, op, "new string length exceeds area capacity")
	}

	a.entries[i].Type = typ
	a.entries[i].Payload = payload
	a.entries[i].RawLen = newLen
	a.entries[i].rawCache = raw
	a.entries[i].Changed = true

	a.shiftFollowing(i+1, newLen-oldLen)
	return nil
}

func (a *Array) appendCustom(typ frustring.Type, payload []byte, capacity int) error {
	const op = "fruarray.Set"
	raw, err := frustring.Encode(typ, payload, a.ForceEnglish)
	if err != nil {
		return fruerr.Wrap(fruerr.InvalidArgument, op, err)
	}
	if a.UsedLength()+len(raw) > capacity {
		return fruerr.New(fruerr.OutOfSpace, op, "appended string exceeds area capacity")
	}

	off := a.base
	if len(a.entries) > 0 {
		last := a.entries[len(a.entries)-1]
		off = last.Offset + last.RawLen
	}
	a.entries = growAppend(a.entries, Entry{
		Type: typ, Payload: payload, Offset: off, RawLen: len(raw), rawCache: raw, Changed: true,
	})
	return nil
}

func (a *Array) deleteCustom(index int) error {
	i := a.NumFixed + index
	removed := a.entries[i].RawLen
	a.entries = append(a.entries[:i], a.entries[i+1:]...)
	a.shiftFollowing(i, -removed)
	return nil
}

// shiftFollowing adds diff to the Offset of every entry at or after
// index and marks it Changed.
func (a *Array) shiftFollowing(index int, diff int) {
	if diff == 0 {
		return
	}
	for i := index; i < len(a.entries); i++ {
		a.entries[i].Offset += diff
		a.entries[i].Changed = true
	}
}

// growAppend appends to s, growing the backing array in steps of 16
// slots rather than relying purely on append's own amortized growth;
// growth never has an on-wire effect.
func growAppend(s []Entry, v Entry) []Entry {
	if len(s) == cap(s) {
		grown := make([]Entry, len(s), len(s)+16)
		copy(grown, s)
		s = grown
	}
	return append(s, v)
}

// Decode parses a string array starting at byte base of dat, stopping
// at the first EndOfList marker. forceUnicodeDecode is passed through
// to every string's decode (the area-wide language-code-driven
// reinterpretation of ASCII-8 as Unicode); forceEnglishEncode is
// stored on the returned Array for later re-encodes. It fails with
// BadFormat if fewer than numFixed entries are found before the
// terminator, or if the terminator is missing before dat ends.
func Decode(dat []byte, base, numFixed int, forceUnicodeDecode, forceEnglishEncode bool) (*Array, error) {
	const op = "fruarray.Decode"
	a := &Array{NumFixed: numFixed, ForceEnglish: forceEnglishEncode, base: base}

	pos := base
	for {
		if pos > len(dat) {
			return nil, fruerr.New(fruerr.BadFormat, op, "string array runs past end of area")
		}
		typ, payload, consumed, ok, err := frustring.Decode(dat[pos:], forceUnicodeDecode)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		raw := append([]byte(nil), dat[pos:pos+consumed]...)
		a.entries = growAppend(a.entries, Entry{
			Type: typ, Payload: payload, Offset: pos, RawLen: consumed, rawCache: raw,
		})
		pos += consumed
	}
	if len(a.entries) < numFixed {
		return nil, fruerr.New(fruerr.BadFormat, op, "string array has fewer than the required fixed fields")
	}
	return a, nil
}

// Terminator returns the offset of the 0xC1 end-of-list byte.
func (a *Array) Terminator() int {
	return a.UsedLength() - 2
}
