// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fru binds the area records, layout table, and write planner
// into the top-level FRU object (§4.9): a decode entry point, a
// locked accessor for edits, a write entry point, and the
// write-complete acknowledgement that clears dirty state.
package fru

import (
	"sync"
	"sync/atomic"

	"github.com/ipmi-fru/fru-rec/lib/fruarea"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/frulayout"
	"github.com/ipmi-fru/fru-rec/lib/fruoem"
	"github.com/ipmi-fru/fru-rec/lib/frutree"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

// State is the FRU's position in the §4.9 lifecycle.
type State int

const (
	Unloaded State = iota
	Loaded
	Dirty
	Closed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Dirty:
		return "dirty"
	case Closed:
		return "closed"
	default:
		return "invalid"
	}
}

// Fru is the top-level object: it exclusively owns its byte buffer
// and the (up to five) decoded area records (§3 "Ownership and
// lifecycle"). Public methods acquire mu for their duration (§5),
// except Retain and Release, which count references atomically;
// Release takes mu only to close the FRU when the count reaches zero.
type Fru struct {
	mu    sync.Mutex
	state State

	buf           []byte
	layout        *frulayout.Table
	headerChanged bool

	areas    frutree.Areas
	planner  fruwrite.Planner
	refcount int32
}

// New returns an Unloaded Fru ready for Decode, using registry (which
// may be nil, disabling OEM multi-record decoding) to resolve OEM
// sub-trees. The caller holds the returned Fru's one initial
// reference.
func New(registry *fruoem.Registry) *Fru {
	return &Fru{
		state:    Unloaded,
		layout:   frulayout.New(),
		areas:    frutree.Areas{Registry: registry},
		refcount: 1,
	}
}

// Decode parses buf in place (§4.9): it validates the common header,
// then dispatches each non-zero offset to its area's decoder. Decode
// may only be called once, on a fresh Fru in the Unloaded state.
func (f *Fru) Decode(buf []byte) error {
	const op = "fru.Fru.Decode"
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Unloaded {
		return fruerr.New(fruerr.InvalidArgument, op, "Fru is not in the unloaded state")
	}

	offsets, err := decodeHeader(buf)
	if err != nil {
		return err
	}

	for _, k := range frukind.All() {
		off := offsets[k]
		if off == 0 {
			continue
		}
		if err := f.decodeArea(buf, k, off, offsets); err != nil {
			f.clearAreas()
			return err
		}
		if err := f.layout.Add(k, off, f.areaLength(k), len(buf)); err != nil {
			f.clearAreas()
			return fruerr.Wrap(fruerr.BadFormat, op, err)
		}
	}

	f.buf = buf
	f.state = Loaded
	return nil
}

func (f *Fru) decodeArea(buf []byte, k frukind.Kind, off int, offsets map[frukind.Kind]int) error {
	switch k {
	case frukind.InternalUse:
		a := fruarea.NewInternalUse()
		a.Offset = off
		a.Length = internalUseLength(len(buf), off, offsets)
		if err := a.Decode(buf); err != nil {
			return err
		}
		f.areas.InternalUse = a
	case frukind.Chassis:
		a := fruarea.NewChassis()
		a.Offset = off
		if err := a.Decode(buf); err != nil {
			return err
		}
		f.areas.Chassis = a
	case frukind.Board:
		a := fruarea.NewBoard()
		a.Offset = off
		if err := a.Decode(buf); err != nil {
			return err
		}
		f.areas.Board = a
	case frukind.Product:
		a := fruarea.NewProduct()
		a.Offset = off
		if err := a.Decode(buf); err != nil {
			return err
		}
		f.areas.Product = a
	case frukind.MultiRecord:
		a := fruarea.NewMultiRecord()
		a.Offset = off
		a.Length = len(buf) - off
		if err := a.Decode(buf); err != nil {
			return err
		}
		f.areas.MultiRecord = a
	}
	return nil
}

// internalUseLength has no header field of its own to read; absent a
// declared length, it is taken to run to the start of the next
// present area (by declared offset) or the end of the blob.
func internalUseLength(blobLen, off int, offsets map[frukind.Kind]int) int {
	best := blobLen
	for k, next := range offsets {
		if k == frukind.InternalUse || next == 0 {
			continue
		}
		if next > off && next < best {
			best = next
		}
	}
	return best - off
}

func (f *Fru) clearAreas() {
	f.areas.InternalUse = nil
	f.areas.Chassis = nil
	f.areas.Board = nil
	f.areas.Product = nil
	f.areas.MultiRecord = nil
}

func (f *Fru) areaLength(k frukind.Kind) int {
	switch k {
	case frukind.InternalUse:
		if f.areas.InternalUse != nil {
			return f.areas.InternalUse.Length
		}
	case frukind.Chassis:
		if f.areas.Chassis != nil {
			return f.areas.Chassis.Length
		}
	case frukind.Board:
		if f.areas.Board != nil {
			return f.areas.Board.Length
		}
	case frukind.Product:
		if f.areas.Product != nil {
			return f.areas.Product.Length
		}
	case frukind.MultiRecord:
		if f.areas.MultiRecord != nil {
			return f.areas.MultiRecord.Length
		}
	}
	return 0
}

// Do runs fn with exclusive access to the FRU's decoded areas,
// holding the lock for fn's duration (§5). A nil error return moves
// the FRU from Loaded to Dirty (a no-op if it is already Dirty).
func (f *Fru) Do(fn func(*frutree.Areas) error) error {
	const op = "fru.Fru.Do"
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Loaded && f.state != Dirty {
		return fruerr.New(fruerr.InvalidArgument, op, "Fru is not loaded")
	}
	if err := fn(&f.areas); err != nil {
		return err
	}
	f.state = Dirty
	return nil
}

// View runs fn with read access to the FRU's decoded areas; unlike
// Do, it never transitions the FRU to Dirty. fn must not mutate
// anything reachable through areas.
func (f *Fru) View(fn func(areas *frutree.Areas) error) error {
	const op = "fru.Fru.View"
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Loaded && f.state != Dirty {
		return fruerr.New(fruerr.InvalidArgument, op, "Fru is not loaded")
	}
	return fn(&f.areas)
}

// GetRootNode returns a navigation node rooted at "standard FRU"
// (§4.7), retaining a reference to the FRU for the node's lifetime;
// callers must call Release when done with it.
func (f *Fru) GetRootNode() (*frutree.RootNode, error) {
	const op = "fru.Fru.GetRootNode"
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Loaded && f.state != Dirty {
		return nil, fruerr.New(fruerr.InvalidArgument, op, "Fru is not loaded")
	}
	f.Retain()
	return frutree.NewRoot(&f.areas), nil
}

// Retain adds one reference to the FRU (§3 "Ownership and
// lifecycle"); the FRU is not destroyed by Release until the
// refcount returns to zero.
func (f *Fru) Retain() {
	atomic.AddInt32(&f.refcount, 1)
}

// Release drops one reference, closing the FRU and releasing its
// buffer when the count reaches zero.
func (f *Fru) Release() {
	if atomic.AddInt32(&f.refcount, -1) == 0 {
		f.mu.Lock()
		f.state = Closed
		f.buf = nil
		f.mu.Unlock()
	}
}
