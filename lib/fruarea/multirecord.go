// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruarea

import (
	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/frumrec"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

// MultiRecord is the Multi-Record area: a headerless chain of
// self-checksummed records, reserved all the way to the end of the
// blob.
type MultiRecord struct {
	Header
	Chain *frumrec.Chain
}

// NewMultiRecord returns a freshly set-up, empty Multi-Record area.
func NewMultiRecord() *MultiRecord {
	return &MultiRecord{Chain: frumrec.New()}
}

func (a *MultiRecord) Kind() frukind.Kind { return frukind.MultiRecord }

func (a *MultiRecord) UsedLength() int { return a.Chain.UsedLength() }

// Decode parses the chain starting at a.Offset of dat.
func (a *MultiRecord) Decode(dat []byte) error {
	if a.Length == 0 {
		a.Chain = frumrec.New()
		a.OrigUsedLength = 0
		return nil
	}
	region := dat[a.Offset : a.Offset+a.Length]
	chain, _, err := frumrec.Decode(region)
	if err != nil {
		return err
	}
	a.Chain = chain
	a.OrigUsedLength = a.UsedLength()
	return nil
}

// Set mutates record index; see frumrec.Chain.Set.
func (a *MultiRecord) Set(index int, typ byte, payload []byte) error {
	if err := a.Chain.Set(index, typ, payload, a.Length); err != nil {
		return err
	}
	a.Changed = true
	return nil
}

// Encode writes the chain's byte image into buf and reports dirty
// ranges to planner. There is no area-level checksum: each record
// carries its own.
func (a *MultiRecord) Encode(buf []byte, planner *fruwrite.Planner) error {
	region := buf[a.Offset : a.Offset+a.Length]
	for i := range region {
		region[i] = 0
	}

	recs := a.Chain.Records()
	for i := range recs {
		isLast := i == len(recs)-1
		raw, err := recs[i].RawBytes(isLast)
		if err != nil {
			return err
		}
		copy(buf[a.Offset+recs[i].Offset:], raw)
		if recs[i].Changed && !a.Rewrite {
			planner.Emit(a.Offset+recs[i].Offset, len(raw))
		}
	}

	newUsedLength := a.Chain.UsedLength()
	if newUsedLength < a.OrigUsedLength && !a.Rewrite {
		planner.Emit(a.Offset+newUsedLength, a.OrigUsedLength-newUsedLength)
	}
	if a.Rewrite {
		planner.Emit(a.Offset, a.Length)
	}
	return nil
}

// ClearDirty implements the write_complete bookkeeping (§4.8).
func (a *MultiRecord) ClearDirty() {
	a.Changed = false
	a.Rewrite = false
	a.OrigUsedLength = a.Chain.UsedLength()
	recs := a.Chain.Records()
	for i := range recs {
		recs[i].Changed = false
	}
}
