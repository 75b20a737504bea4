// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frumrec

import (
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
)

// Chain is the ordered list of records in one Multi-Record area. The
// area is headerless: the chain starts at byte 0 of the area and
// ends at the record whose end-of-list bit is set.
type Chain struct {
	records []Record
}

// New returns an empty chain.
func New() *Chain {
	return &Chain{}
}

// Decode parses a chain from the front of dat. Scanning stops at the
// first record with its end-of-list bit set; trailing bytes (pad, if
// any) are not consumed and are reported via consumed.
func Decode(dat []byte) (chain *Chain, consumed int, err error) {
	const op = "frumrec.Decode"
	c := New()
	off := 0
	for {
		if off >= len(dat) {
			return nil, 0, fruerr.New(fruerr.BadFormat, op, "multi-record chain missing end-of-list record")
		}
		rec, n, eol, err := decodeRecord(dat[off:])
		if err != nil {
			return nil, 0, err
		}
		rec.Offset = off
		c.records = growRecords(c.records, rec)
		off += n
		if eol {
			break
		}
	}
	return c, off, nil
}

// Records returns the chain's records in order.
func (c *Chain) Records() []Record {
	return c.records
}

// NumRecords returns the number of records in the chain.
func (c *Chain) NumRecords() int {
	return len(c.records)
}

// Record returns the i'th record.
func (c *Chain) Record(i int) (Record, error) {
	const op = "frumrec.Record"
	if i < 0 || i >= len(c.records) {
		return Record{}, fruerr.New(fruerr.NotFound, op, "multi-record index out of range")
	}
	return c.records[i], nil
}

// UsedLength is the total on-wire length of the chain: 0 when empty.
func (c *Chain) UsedLength() int {
	if len(c.records) == 0 {
		return 0
	}
	last := c.records[len(c.records)-1]
	return last.Offset + last.RawLen()
}

// Set mutates record index: a nil payload deletes an existing record;
// index==NumRecords() with a non-nil payload appends; otherwise the
// existing record at index is replaced. capacity is the area's
// reserved length, since offsets are area-relative from 0.
func (c *Chain) Set(index int, typ byte, payload []byte, capacity int) error {
	const op = "frumrec.Set"
	switch {
	case payload == nil:
		if index < 0 || index >= len(c.records) {
			return fruerr.New(fruerr.InvalidArgument, op, "delete index out of range")
		}
		return c.delete(index)
	case index == len(c.records):
		return c.append(typ, payload, capacity)
	case index < 0 || index > len(c.records):
		return fruerr.New(fruerr.InvalidArgument, op, "multi-record index out of range")
	default:
		return c.replace(index, typ, payload, capacity)
	}
}

func (c *Chain) append(typ byte, payload []byte, capacity int) error {
	const op = "frumrec.Set"
	if len(payload) > maxPayload {
		return fruerr.New(fruerr.TooBig, op, "multi-record payload exceeds 255 bytes")
	}
	off := 0
	if len(c.records) > 0 {
		last := c.records[len(c.records)-1]
		off = last.Offset + last.RawLen()
	}
	newLen := headerLen + len(payload)
	if c.UsedLength()+newLen > capacity {
		return fruerr.New(fruerr.OutOfSpace, op, "multi-record chain exceeds area capacity")
	}
	if len(c.records) > 0 {
		// The old last record loses its end-of-list bit.
		c.records[len(c.records)-1].Changed = true
	}
	c.records = growRecords(c.records, Record{Type: typ, Payload: payload, Offset: off, Changed: true})
	c.markLastChanged()
	return nil
}

func (c *Chain) replace(index int, typ byte, payload []byte, capacity int) error {
	const op = "frumrec.Set"
	if len(payload) > maxPayload {
		return fruerr.New(fruerr.TooBig, op, "multi-record payload exceeds 255 bytes")
	}
	oldLen := c.records[index].RawLen()
	newLen := headerLen + len(payload)
	if c.UsedLength()+(newLen-oldLen) > capacity {
		return fruerr.New(fruerr.OutOfSpace, op, "multi-record chain exceeds area capacity")
	}
	c.records[index].Type = typ
	c.records[index].Payload = payload
	c.records[index].Changed = true
	c.records[index].rawCache = nil
	c.shiftFollowing(index+1, newLen-oldLen)
	c.markLastChanged()
	return nil
}

func (c *Chain) delete(index int) error {
	removed := c.records[index].RawLen()
	c.records = append(c.records[:index], c.records[index+1:]...)
	c.shiftFollowing(index, -removed)
	c.markLastChanged()
	return nil
}

func (c *Chain) shiftFollowing(index int, diff int) {
	if diff == 0 {
		return
	}
	for i := index; i < len(c.records); i++ {
		c.records[i].Offset += diff
		c.records[i].Changed = true
	}
}

// markLastChanged flags the new last record as changed: its
// end-of-list bit must be recomputed even if nobody edited its type or
// payload, and the record that used to be last (if still present) was
// already marked by shiftFollowing or by the mutation that touched it.
func (c *Chain) markLastChanged() {
	if len(c.records) == 0 {
		return
	}
	c.records[len(c.records)-1].Changed = true
}

func growRecords(s []Record, v Record) []Record {
	if len(s) == cap(s) {
		grown := make([]Record, len(s), len(s)+16)
		copy(grown, s)
		s = grown
	}
	return append(s, v)
}
