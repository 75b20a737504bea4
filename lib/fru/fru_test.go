// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fru_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fru"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/fruoem"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
	"github.com/ipmi-fru/fru-rec/lib/frutree"
)

// minimalChassisFru builds a 24-byte blob: an 8-byte common header
// naming a single Chassis Info area at offset 8, followed by an
// empty, 16-byte-reserved Chassis area (roomy enough for field edits
// in the tests below; a tight 8-byte area is covered directly in
// lib/fruarea's own tests, per §S1).
func minimalChassisFru() []byte {
	buf := make([]byte, 24)
	buf[0] = 1 // version
	buf[2] = 1 // chassis_off / 8
	var s byte
	for _, b := range buf[:7] {
		s += b
	}
	buf[7] = -s

	area := make([]byte, 16)
	area[0], area[1], area[2] = 1, 2, 0 // version, length/8, chassis type
	area[3], area[4] = 0xC0, 0xC0       // empty part_number, serial_number
	area[5] = 0xC1                     // terminator
	var as byte
	for _, b := range area[:15] {
		as += b
	}
	area[15] = -as
	copy(buf[8:], area)
	return buf
}

func TestDecodeRoundTripNoEdits(t *testing.T) {
	buf := minimalChassisFru()
	f := fru.New(nil)
	require.NoError(t, f.Decode(buf))

	off, err := f.GetAreaOffset(frukind.Chassis)
	require.NoError(t, err)
	require.Equal(t, 8, off)

	out := make([]byte, len(buf))
	ranges, err := f.Write(out)
	require.NoError(t, err)
	require.Empty(t, ranges)
	require.Equal(t, buf, out)
}

func TestDecodeRejectsBadHeaderChecksum(t *testing.T) {
	buf := minimalChassisFru()
	buf[7] ^= 1
	f := fru.New(nil)
	require.Error(t, f.Decode(buf))
}

func TestSetPartNumberThenWriteEmitsRanges(t *testing.T) {
	buf := minimalChassisFru()
	f := fru.New(nil)
	require.NoError(t, f.Decode(buf))

	used, err := f.GetAreaUsedLength(frukind.Chassis)
	require.NoError(t, err)
	require.Equal(t, 7, used)

	err = f.Do(func(a *frutree.Areas) error {
		return a.Chassis.SetString(0, false, frustring.ASCII8, []byte("ABC"))
	})
	require.NoError(t, err)

	used, err = f.GetAreaUsedLength(frukind.Chassis)
	require.NoError(t, err)
	require.Equal(t, 10, used)

	out := make([]byte, len(buf))
	ranges, err := f.Write(out)
	require.NoError(t, err)
	require.NotEmpty(t, ranges)

	require.NoError(t, f.WriteComplete())
}

// TestCustomAppendThenDeleteRestoresImage covers the append-then-delete
// pair: after both, writing reproduces the original image byte for
// byte.
func TestCustomAppendThenDeleteRestoresImage(t *testing.T) {
	buf := minimalChassisFru()
	f := fru.New(nil)
	require.NoError(t, f.Decode(append([]byte(nil), buf...)))

	require.NoError(t, f.Do(func(a *frutree.Areas) error {
		return a.Chassis.SetString(0, true, frustring.ASCII8, []byte("X"))
	}))
	require.NoError(t, f.Do(func(a *frutree.Areas) error {
		return a.Chassis.SetString(0, true, frustring.ASCII8, nil)
	}))

	out := make([]byte, len(buf))
	_, err := f.Write(out)
	require.NoError(t, err)
	require.Equal(t, buf, out)
}

func TestMultiRecordRoundTripAndTree(t *testing.T) {
	buf := make([]byte, 48)
	buf[0] = 1
	var s byte
	for _, b := range buf[:7] {
		s += b
	}
	buf[7] = -s

	f := fru.New(nil)
	require.NoError(t, f.Decode(buf))
	require.NoError(t, f.AddArea(frukind.MultiRecord, 8, 40))

	// DC output 0 at 12.00V; DC load 1 at 5.00V.
	dcOutput := []byte{0x00, 0xB0, 0x04, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	dcLoad := []byte{0x01, 0xF4, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	require.NoError(t, f.SetMultiRecord(0, 0x01, dcOutput))
	require.NoError(t, f.SetMultiRecord(1, 0x02, dcLoad))

	out := make([]byte, len(buf))
	_, err := f.Write(out)
	require.NoError(t, err)
	require.NoError(t, f.WriteComplete())

	// Decoding the written image and writing it again must be a no-op
	// reproducing the exact bytes.
	f2 := fru.New(fruoem.NewDefaultRegistry())
	require.NoError(t, f2.Decode(append([]byte(nil), out...)))
	n, err := f2.NumMultiRecords()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	out2 := make([]byte, len(out))
	ranges, err := f2.Write(out2)
	require.NoError(t, err)
	require.Empty(t, ranges)
	require.Equal(t, out, out2)

	// The tree exposes the DC output record's scaled voltage.
	root, err := f2.GetRootNode()
	require.NoError(t, err)
	defer f2.Release() // the root node's reference
	defer f2.Release() // the initial reference

	index, ok := root.StrToIndex("multirecords")
	require.True(t, ok)
	mrecs, err := root.Field(index)
	require.NoError(t, err)

	rec0, err := mrecs.Child.Field(0)
	require.NoError(t, err)
	decoded, err := rec0.Child.Field(1)
	require.NoError(t, err)
	require.Equal(t, "dc_output", decoded.Child.Name())

	var nominal float64
	for i := 0; ; i++ {
		field, err := decoded.Child.Field(i)
		if err != nil {
			break
		}
		if field.Name == "nominal_voltage" {
			nominal = field.Float
		}
	}
	require.InDelta(t, 12.0, nominal, 0.001)
}

func TestAddAndDeleteArea(t *testing.T) {
	buf := make([]byte, 32)
	buf[0] = 1
	var s byte
	for _, b := range buf[:7] {
		s += b
	}
	buf[7] = -s

	f := fru.New(nil)
	require.NoError(t, f.Decode(buf))

	require.NoError(t, f.AddArea(frukind.Chassis, 8, 8))
	_, err := f.GetAreaOffset(frukind.Chassis)
	require.NoError(t, err)

	require.Error(t, f.AddArea(frukind.Chassis, 16, 8))

	require.NoError(t, f.DeleteArea(frukind.Chassis))
	_, err = f.GetAreaOffset(frukind.Chassis)
	require.Error(t, err)
}
