// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruarea

import (
	"github.com/ipmi-fru/fru-rec/lib/binstruct"
	"github.com/ipmi-fru/fru-rec/lib/fruarray"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

const numChassisFixedFields = 2 // part_number, serial_number

// Chassis is the Chassis Info area. The area's language is implicitly
// English: ASCII-8 wire strings never decode as Unicode, and the
// string encoder rejects Unicode values. The other string types are
// accepted.
type Chassis struct {
	Header
	ChassisType byte
	Strings     *fruarray.Array
}

// NewChassis returns a freshly set-up, empty Chassis Info area.
func NewChassis() *Chassis {
	return &Chassis{Strings: fruarray.New(numChassisFixedFields, chassisHeaderLen, true)}
}

func (a *Chassis) Kind() frukind.Kind { return frukind.Chassis }

func (a *Chassis) UsedLength() int { return a.Strings.UsedLength() }

// Decode parses the area starting at a.Offset of dat. Unlike Internal
// Use and Multi-Record, Chassis carries its own reserved length (as
// LengthBy8) in its header, so a.Length is set here rather than by
// the caller.
func (a *Chassis) Decode(dat []byte) error {
	const op = "fruarea.Chassis.Decode"
	if a.Offset+chassisHeaderLen > len(dat) {
		return fruerr.New(fruerr.BadFormat, op, "truncated chassis info area header")
	}
	var wire chassisWire
	if _, err := binstruct.Unmarshal(dat[a.Offset:], &wire); err != nil {
		return fruerr.Wrap(fruerr.BadFormat, op, err)
	}
	if wire.Version != formatVersion {
		return fruerr.New(fruerr.BadFormat, op, "unsupported chassis info area version")
	}
	length := int(wire.LengthBy8) * 8
	if a.Offset+length > len(dat) {
		return fruerr.New(fruerr.BadFormat, op, "chassis info area extends past end of blob")
	}
	a.Length = length
	a.ChassisType = wire.ChassisType

	region := dat[a.Offset : a.Offset+length]
	strings, err := fruarray.Decode(region, chassisHeaderLen, numChassisFixedFields, false, true)
	if err != nil {
		return err
	}
	a.Strings = strings
	a.OrigUsedLength = a.UsedLength()
	return nil
}

// SetChassisType sets the area's chassis-type byte.
func (a *Chassis) SetChassisType(t byte) {
	a.ChassisType = t
	a.Changed = true
}

// SetString sets a fixed (custom=false) or custom (custom=true)
// string slot; see fruarray.Array.Set.
func (a *Chassis) SetString(index int, custom bool, typ frustring.Type, payload []byte) error {
	if err := a.Strings.Set(index, custom, typ, payload, a.Length); err != nil {
		return err
	}
	a.Changed = true
	return nil
}

func (a *Chassis) header() []byte {
	return marshalWire(chassisWire{Version: formatVersion, LengthBy8: byte(a.Length / 8), ChassisType: a.ChassisType})
}

// Encode writes the area's byte image into buf and reports dirty
// ranges to planner.
func (a *Chassis) Encode(buf []byte, planner *fruwrite.Planner) error {
	newUsedLength, err := encodeStringArea(buf, a.Offset, a.Length, a.header(), a.Strings, a.Changed, a.Rewrite, a.OrigUsedLength, planner)
	if err != nil {
		return err
	}
	_ = newUsedLength
	return nil
}

// ClearDirty implements the write_complete bookkeeping (§4.8).
func (a *Chassis) ClearDirty() {
	a.Changed = false
	a.Rewrite = false
	a.OrigUsedLength = a.UsedLength()
	for i := range a.Strings.Entries() {
		a.Strings.Entries()[i].Changed = false
	}
}
