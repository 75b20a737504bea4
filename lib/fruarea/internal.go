// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruarea

import (
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

// InternalUse is the Internal Use area: a 1-byte version tag followed
// by opaque, implementation-defined bytes. It carries no terminator
// and no checksum.
type InternalUse struct {
	Header
	Payload []byte
}

// NewInternalUse returns a freshly set-up, empty Internal Use area.
func NewInternalUse() *InternalUse {
	return &InternalUse{}
}

func (a *InternalUse) Kind() frukind.Kind { return frukind.InternalUse }

// UsedLength is the version byte plus the current payload.
func (a *InternalUse) UsedLength() int {
	return 1 + len(a.Payload)
}

// Decode reads the area starting at a.Offset of dat, up to a.Length
// bytes, treating every byte after the version tag as payload.
func (a *InternalUse) Decode(dat []byte) error {
	const op = "fruarea.InternalUse.Decode"
	region := dat[a.Offset : a.Offset+a.Length]
	if len(region) < 1 {
		return fruerr.New(fruerr.BadFormat, op, "internal use area shorter than the version byte")
	}
	if region[0] != formatVersion {
		return fruerr.New(fruerr.BadFormat, op, "unsupported internal use area version")
	}
	a.Payload = append([]byte(nil), region[1:]...)
	a.OrigUsedLength = a.UsedLength()
	return nil
}

// SetPayload replaces the area's opaque payload entirely.
func (a *InternalUse) SetPayload(payload []byte) error {
	const op = "fruarea.InternalUse.SetPayload"
	if 1+len(payload) > a.Length {
		return fruerr.New(fruerr.TooBig, op, "payload exceeds internal use area length")
	}
	a.Payload = payload
	a.Changed = true
	return nil
}

// Encode writes the area's byte image into buf and reports dirty
// ranges to planner.
func (a *InternalUse) Encode(buf []byte, planner *fruwrite.Planner) error {
	region := buf[a.Offset : a.Offset+a.Length]
	for i := range region {
		region[i] = 0
	}
	region[0] = formatVersion
	copy(region[1:], a.Payload)

	newUsedLength := a.UsedLength()
	if a.Changed && !a.Rewrite {
		planner.Emit(a.Offset, newUsedLength)
	}
	if newUsedLength < a.OrigUsedLength && !a.Rewrite {
		planner.Emit(a.Offset+newUsedLength, a.OrigUsedLength-newUsedLength)
	}
	if a.Rewrite {
		planner.Emit(a.Offset, a.Length)
	}
	return nil
}

// ClearDirty implements the write_complete bookkeeping (§4.8): clear
// changed/rewrite and snapshot the used length.
func (a *InternalUse) ClearDirty() {
	a.Changed = false
	a.Rewrite = false
	a.OrigUsedLength = a.UsedLength()
}
