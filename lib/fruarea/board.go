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
	"github.com/ipmi-fru/fru-rec/lib/frutime"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

// numBoardFixedFields: manufacturer, product_name, serial_number,
// part_number, fru_file_id.
const numBoardFixedFields = 5

// Board is the Board Info area. board_product_name (fixed index 1)
// may decode as Unicode when the area's language code is not English.
type Board struct {
	Header
	LanguageCode byte
	MfgDate      frutime.Timestamp
	Strings      *fruarray.Array
}

// NewBoard returns a freshly set-up, empty Board Info area.
func NewBoard() *Board {
	return &Board{
		LanguageCode: frustring.EnglishLanguageCode,
		Strings:      fruarray.New(numBoardFixedFields, boardHeaderLen, false),
	}
}

func (a *Board) Kind() frukind.Kind { return frukind.Board }

func (a *Board) UsedLength() int { return a.Strings.UsedLength() }

func (a *Board) forceUnicodeDecode() bool {
	return a.LanguageCode != frustring.EnglishLanguageCode
}

// Decode parses the area starting at a.Offset of dat; a.Length is set
// here from the header's own LengthBy8 field.
func (a *Board) Decode(dat []byte) error {
	const op = "fruarea.Board.Decode"
	if a.Offset+boardHeaderLen > len(dat) {
		return fruerr.New(fruerr.BadFormat, op, "truncated board info area header")
	}
	var wire boardWire
	if _, err := binstruct.Unmarshal(dat[a.Offset:], &wire); err != nil {
		return fruerr.Wrap(fruerr.BadFormat, op, err)
	}
	if wire.Version != formatVersion {
		return fruerr.New(fruerr.BadFormat, op, "unsupported board info area version")
	}
	length := int(wire.LengthBy8) * 8
	if a.Offset+length > len(dat) {
		return fruerr.New(fruerr.BadFormat, op, "board info area extends past end of blob")
	}
	a.Length = length
	a.LanguageCode = wire.LanguageCode
	a.MfgDate = wire.Timestamp

	region := dat[a.Offset : a.Offset+length]
	strings, err := fruarray.Decode(region, boardHeaderLen, numBoardFixedFields, a.forceUnicodeDecode(), false)
	if err != nil {
		return err
	}
	a.Strings = strings
	a.OrigUsedLength = a.UsedLength()
	return nil
}

// SetLanguageCode sets the area's language code.
func (a *Board) SetLanguageCode(code byte) {
	a.LanguageCode = code
	a.Strings.ForceEnglish = false
	a.Changed = true
}

// SetMfgDate sets the manufacturing-date timestamp.
func (a *Board) SetMfgDate(ts frutime.Timestamp) {
	a.MfgDate = ts
	a.Changed = true
}

// SetString sets a fixed or custom string slot.
func (a *Board) SetString(index int, custom bool, typ frustring.Type, payload []byte) error {
	if err := a.Strings.Set(index, custom, typ, payload, a.Length); err != nil {
		return err
	}
	a.Changed = true
	return nil
}

func (a *Board) header() []byte {
	return marshalWire(boardWire{
		Version:      formatVersion,
		LengthBy8:    byte(a.Length / 8),
		LanguageCode: a.LanguageCode,
		Timestamp:    a.MfgDate,
	})
}

// Encode writes the area's byte image into buf and reports dirty
// ranges to planner.
func (a *Board) Encode(buf []byte, planner *fruwrite.Planner) error {
	_, err := encodeStringArea(buf, a.Offset, a.Length, a.header(), a.Strings, a.Changed, a.Rewrite, a.OrigUsedLength, planner)
	return err
}

// ClearDirty implements the write_complete bookkeeping (§4.8).
func (a *Board) ClearDirty() {
	a.Changed = false
	a.Rewrite = false
	a.OrigUsedLength = a.UsedLength()
	for i := range a.Strings.Entries() {
		a.Strings.Entries()[i].Changed = false
	}
}
