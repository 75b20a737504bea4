// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fru

import (
	"github.com/ipmi-fru/fru-rec/lib/fruarea"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/frutree"
)

// AddArea creates kind at offset with the given reserved length
// (§4.6), setting it up empty (as NewChassis/NewBoard/... do) and
// flagging the common header as changed. It fails AlreadyExists if
// kind is already present.
func (f *Fru) AddArea(kind frukind.Kind, offset, length int) error {
	const op = "fru.Fru.AddArea"
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Loaded && f.state != Dirty {
		return fruerr.New(fruerr.InvalidArgument, op, "Fru is not loaded")
	}
	if _, present := f.encoderFor(kind); present {
		return fruerr.New(fruerr.AlreadyExists, op, "area already present")
	}
	if !kind.Valid() {
		return fruerr.New(fruerr.InvalidArgument, op, "unknown area kind")
	}
	if err := f.layout.Add(kind, offset, length, len(f.buf)); err != nil {
		return err
	}
	// The table may have truncated the length to an 8-byte multiple;
	// its placement is authoritative.
	p, _ := f.layout.Get(kind)

	switch kind {
	case frukind.InternalUse:
		a := fruarea.NewInternalUse()
		a.Offset, a.Length, a.Rewrite = p.Offset, p.Length, true
		f.areas.InternalUse = a
	case frukind.Chassis:
		a := fruarea.NewChassis()
		a.Offset, a.Length, a.Rewrite = p.Offset, p.Length, true
		f.areas.Chassis = a
	case frukind.Board:
		a := fruarea.NewBoard()
		a.Offset, a.Length, a.Rewrite = p.Offset, p.Length, true
		f.areas.Board = a
	case frukind.Product:
		a := fruarea.NewProduct()
		a.Offset, a.Length, a.Rewrite = p.Offset, p.Length, true
		f.areas.Product = a
	case frukind.MultiRecord:
		a := fruarea.NewMultiRecord()
		a.Offset, a.Length, a.Rewrite = p.Offset, p.Length, true
		f.areas.MultiRecord = a
	}

	f.headerChanged = true
	f.state = Dirty
	return nil
}

// DeleteArea removes kind, freeing its decoded record and flagging
// the header as changed. NotFound if kind is absent.
func (f *Fru) DeleteArea(kind frukind.Kind) error {
	const op = "fru.Fru.DeleteArea"
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Loaded && f.state != Dirty {
		return fruerr.New(fruerr.InvalidArgument, op, "Fru is not loaded")
	}
	if _, present := f.encoderFor(kind); !present {
		return fruerr.New(fruerr.NotFound, op, "area not present")
	}

	f.layout.Delete(kind)
	switch kind {
	case frukind.InternalUse:
		f.areas.InternalUse = nil
	case frukind.Chassis:
		f.areas.Chassis = nil
	case frukind.Board:
		f.areas.Board = nil
	case frukind.Product:
		f.areas.Product = nil
	case frukind.MultiRecord:
		f.areas.MultiRecord = nil
	}
	f.headerChanged = true
	f.state = Dirty
	return nil
}

// SetAreaOffset moves kind to a new offset, validating against its
// neighbors and, for Multi-Record, extending its length to the new
// end-of-blob (§4.6).
func (f *Fru) SetAreaOffset(kind frukind.Kind, offset int) error {
	const op = "fru.Fru.SetAreaOffset"
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, present := f.encoderFor(kind); !present {
		return fruerr.New(fruerr.NotFound, op, "area not present")
	}
	if err := f.layout.Move(kind, offset, len(f.buf)); err != nil {
		return err
	}
	p, _ := f.layout.Get(kind)
	setPlacement(kind, &f.areas, p.Offset, p.Length)
	markRewrite(kind, &f.areas)
	f.headerChanged = true
	f.state = Dirty
	return nil
}

// SetAreaLength resizes kind's reserved length, failing TooBig if
// newLength would be smaller than the area's current used_length.
func (f *Fru) SetAreaLength(kind frukind.Kind, newLength int) error {
	const op = "fru.Fru.SetAreaLength"
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, present := f.encoderFor(kind); !present {
		return fruerr.New(fruerr.NotFound, op, "area not present")
	}
	usedLength := f.usedLengthFor(kind)
	if err := f.layout.Resize(kind, newLength, usedLength, len(f.buf)); err != nil {
		return err
	}
	p, _ := f.layout.Get(kind)
	setPlacement(kind, &f.areas, p.Offset, p.Length)
	markRewrite(kind, &f.areas)
	f.headerChanged = true
	f.state = Dirty
	return nil
}

// GetAreaOffset, GetAreaLength, and GetAreaUsedLength report a
// present area's current placement; NotFound if kind is absent.
func (f *Fru) GetAreaOffset(kind frukind.Kind) (int, error) {
	return f.placementField(kind, func(p placement) int { return p.offset })
}

func (f *Fru) GetAreaLength(kind frukind.Kind) (int, error) {
	return f.placementField(kind, func(p placement) int { return p.length })
}

func (f *Fru) GetAreaUsedLength(kind frukind.Kind) (int, error) {
	return f.placementField(kind, func(p placement) int { return p.usedLength })
}

type placement struct{ offset, length, usedLength int }

func (f *Fru) placementField(kind frukind.Kind, sel func(placement) int) (int, error) {
	const op = "fru.Fru.GetArea*"
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, present := f.encoderFor(kind); !present {
		return 0, fruerr.New(fruerr.NotFound, op, "area not present")
	}
	p, _ := f.layout.Get(kind)
	return sel(placement{offset: p.Offset, length: p.Length, usedLength: f.usedLengthFor(kind)}), nil
}

func (f *Fru) usedLengthFor(kind frukind.Kind) int {
	switch kind {
	case frukind.InternalUse:
		return f.areas.InternalUse.UsedLength()
	case frukind.Chassis:
		return f.areas.Chassis.UsedLength()
	case frukind.Board:
		return f.areas.Board.UsedLength()
	case frukind.Product:
		return f.areas.Product.UsedLength()
	case frukind.MultiRecord:
		return f.areas.MultiRecord.UsedLength()
	}
	return 0
}

func setPlacement(kind frukind.Kind, areas *frutree.Areas, offset, length int) {
	switch kind {
	case frukind.InternalUse:
		areas.InternalUse.Offset, areas.InternalUse.Length = offset, length
	case frukind.Chassis:
		areas.Chassis.Offset, areas.Chassis.Length = offset, length
	case frukind.Board:
		areas.Board.Offset, areas.Board.Length = offset, length
	case frukind.Product:
		areas.Product.Offset, areas.Product.Length = offset, length
	case frukind.MultiRecord:
		areas.MultiRecord.Offset, areas.MultiRecord.Length = offset, length
	}
}

// markRewrite sets Rewrite on kind's area record: after a move or
// resize its old reserved region is no longer the right size or place
// to trust fine-grained ranges against, so the encoder emits one
// range covering the whole area instead (§4.3).
func markRewrite(kind frukind.Kind, areas *frutree.Areas) {
	switch kind {
	case frukind.InternalUse:
		areas.InternalUse.Rewrite = true
	case frukind.Chassis:
		areas.Chassis.Rewrite = true
	case frukind.Board:
		areas.Board.Rewrite = true
	case frukind.Product:
		areas.Product.Rewrite = true
	case frukind.MultiRecord:
		areas.MultiRecord.Rewrite = true
	}
}
