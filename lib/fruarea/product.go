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

// numProductFixedFields: manufacturer_name, product_name,
// part_model_number, version, serial_number, asset_tag, fru_file_id.
const numProductFixedFields = 7

// Product is the Product Info area.
type Product struct {
	Header
	LanguageCode byte
	Strings      *fruarray.Array
}

// NewProduct returns a freshly set-up, empty Product Info area.
func NewProduct() *Product {
	return &Product{
		LanguageCode: frustring.EnglishLanguageCode,
		Strings:      fruarray.New(numProductFixedFields, productHeaderLen, false),
	}
}

func (a *Product) Kind() frukind.Kind { return frukind.Product }

func (a *Product) UsedLength() int { return a.Strings.UsedLength() }

func (a *Product) forceUnicodeDecode() bool {
	return a.LanguageCode != frustring.EnglishLanguageCode
}

// Decode parses the area starting at a.Offset of dat; a.Length is set
// here from the header's own LengthBy8 field.
func (a *Product) Decode(dat []byte) error {
	const op = "fruarea.Product.Decode"
	if a.Offset+productHeaderLen > len(dat) {
		return fruerr.New(fruerr.BadFormat, op, "truncated product info area header")
	}
	var wire productWire
	if _, err := binstruct.Unmarshal(dat[a.Offset:], &wire); err != nil {
		return fruerr.Wrap(fruerr.BadFormat, op, err)
	}
	if wire.Version != formatVersion {
		return fruerr.New(fruerr.BadFormat, op, "unsupported product info area version")
	}
	length := int(wire.LengthBy8) * 8
	if a.Offset+length > len(dat) {
		return fruerr.New(fruerr.BadFormat, op, "product info area extends past end of blob")
	}
	a.Length = length
	a.LanguageCode = wire.LanguageCode

	region := dat[a.Offset : a.Offset+length]
	strings, err := fruarray.Decode(region, productHeaderLen, numProductFixedFields, a.forceUnicodeDecode(), false)
	if err != nil {
		return err
	}
	a.Strings = strings
	a.OrigUsedLength = a.UsedLength()
	return nil
}

// SetLanguageCode sets the area's language code.
func (a *Product) SetLanguageCode(code byte) {
	a.LanguageCode = code
	a.Changed = true
}

// SetString sets a fixed or custom string slot.
func (a *Product) SetString(index int, custom bool, typ frustring.Type, payload []byte) error {
	if err := a.Strings.Set(index, custom, typ, payload, a.Length); err != nil {
		return err
	}
	a.Changed = true
	return nil
}

func (a *Product) header() []byte {
	return marshalWire(productWire{Version: formatVersion, LengthBy8: byte(a.Length / 8), LanguageCode: a.LanguageCode})
}

// Encode writes the area's byte image into buf and reports dirty
// ranges to planner.
func (a *Product) Encode(buf []byte, planner *fruwrite.Planner) error {
	_, err := encodeStringArea(buf, a.Offset, a.Length, a.header(), a.Strings, a.Changed, a.Rewrite, a.OrigUsedLength, planner)
	return err
}

// ClearDirty implements the write_complete bookkeeping (§4.8).
func (a *Product) ClearDirty() {
	a.Changed = false
	a.Rewrite = false
	a.OrigUsedLength = a.UsedLength()
	for i := range a.Strings.Entries() {
		a.Strings.Entries()[i].Changed = false
	}
}
