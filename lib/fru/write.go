// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fru

import (
	"github.com/ipmi-fru/fru-rec/lib/fruarea"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

// encoder is satisfied by every *fruarea.* area record; it lets Write
// dispatch over the five kinds without a type switch at each call
// site.
type encoder interface {
	Encode(buf []byte, planner *fruwrite.Planner) error
}

// Write regenerates the common header and calls every present area's
// encoder into out, which must be the same length as the buffer last
// given to Decode (or New plus AddArea calls sized to match). On
// success out becomes the FRU's buffer of record and the returned
// ranges cover every region that differs from the buffer acknowledged
// by the last WriteComplete (or, before any WriteComplete, from the
// buffer given to Decode). The ranges are not sorted: areas are
// encoded in frukind order, and within an area ranges come in
// increasing offset order.
func (f *Fru) Write(out []byte) ([]fruwrite.UpdateRange, error) {
	const op = "fru.Fru.Write"
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Loaded && f.state != Dirty {
		return nil, fruerr.New(fruerr.InvalidArgument, op, "Fru is not loaded")
	}
	if len(out) != len(f.buf) {
		return nil, fruerr.New(fruerr.InvalidArgument, op, "output buffer length does not match the FRU's blob length")
	}

	copy(out, f.buf)
	f.planner.Reset()

	encodeHeader(out, f.currentOffsets())
	if f.headerChanged {
		f.planner.Emit(0, headerLen)
	}

	for _, k := range frukind.All() {
		enc, present := f.encoderFor(k)
		if !present {
			continue
		}
		if err := enc.Encode(out, &f.planner); err != nil {
			return nil, err
		}
	}

	f.buf = out
	return f.planner.Ranges(), nil
}

func (f *Fru) currentOffsets() map[frukind.Kind]int {
	offsets := make(map[frukind.Kind]int, 5)
	for _, k := range frukind.All() {
		offsets[k] = 0
	}
	if f.areas.InternalUse != nil {
		offsets[frukind.InternalUse] = f.areas.InternalUse.Offset
	}
	if f.areas.Chassis != nil {
		offsets[frukind.Chassis] = f.areas.Chassis.Offset
	}
	if f.areas.Board != nil {
		offsets[frukind.Board] = f.areas.Board.Offset
	}
	if f.areas.Product != nil {
		offsets[frukind.Product] = f.areas.Product.Offset
	}
	if f.areas.MultiRecord != nil {
		offsets[frukind.MultiRecord] = f.areas.MultiRecord.Offset
	}
	return offsets
}

func (f *Fru) encoderFor(k frukind.Kind) (encoder, bool) {
	switch k {
	case frukind.InternalUse:
		if f.areas.InternalUse != nil {
			return f.areas.InternalUse, true
		}
	case frukind.Chassis:
		if f.areas.Chassis != nil {
			return f.areas.Chassis, true
		}
	case frukind.Board:
		if f.areas.Board != nil {
			return f.areas.Board, true
		}
	case frukind.Product:
		if f.areas.Product != nil {
			return f.areas.Product, true
		}
	case frukind.MultiRecord:
		if f.areas.MultiRecord != nil {
			return f.areas.MultiRecord, true
		}
	}
	return nil, false
}

// dirtyClearer is satisfied by every *fruarea.* area record.
type dirtyClearer interface {
	ClearDirty()
}

// WriteComplete acknowledges that the ranges from the most recent
// Write were durably applied: it clears changed/rewrite on every area
// and its strings, resets orig_used_length, and moves Dirty back to
// Loaded (§4.8).
func (f *Fru) WriteComplete() error {
	const op = "fru.Fru.WriteComplete"
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Loaded && f.state != Dirty {
		return fruerr.New(fruerr.InvalidArgument, op, "Fru is not loaded")
	}
	for _, k := range frukind.All() {
		if c, ok := f.encoderFor(k); ok {
			if dc, ok := c.(dirtyClearer); ok {
				dc.ClearDirty()
			}
		}
	}
	f.headerChanged = false
	f.state = Loaded
	return nil
}

var (
	_ encoder      = (*fruarea.Chassis)(nil)
	_ encoder      = (*fruarea.Board)(nil)
	_ encoder      = (*fruarea.Product)(nil)
	_ encoder      = (*fruarea.InternalUse)(nil)
	_ encoder      = (*fruarea.MultiRecord)(nil)
	_ dirtyClearer = (*fruarea.Chassis)(nil)
)
