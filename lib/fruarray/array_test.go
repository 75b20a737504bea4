// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruarray_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fruarray"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
)

func TestNewArrayIsAllEmpty(t *testing.T) {
	a := fruarray.New(2, 3, true)
	// base=3, two 1-byte empty (0xC0) fields, +1 terminator +1 checksum.
	require.Equal(t, 7, a.UsedLength())
}

func TestSetFixedField(t *testing.T) {
	a := fruarray.New(2, 3, true)
	before := a.UsedLength()
	err := a.Set(0, false, frustring.ASCII8, []byte("ABC"), 64)
	require.NoError(t, err)
	require.Equal(t, before+3, a.UsedLength())

	entries := a.Entries()
	require.Equal(t, "ABC", string(entries[0].Payload))
	require.True(t, entries[0].Changed)
}

func TestAppendAndDeleteCustom(t *testing.T) {
	a := fruarray.New(2, 3, true)
	require.NoError(t, a.Set(0, true, frustring.ASCII8, []byte("X"), 64))
	require.Equal(t, 1, a.NumCustom())

	require.NoError(t, a.Set(0, true, frustring.ASCII8, nil, 64))
	require.Equal(t, 0, a.NumCustom())
}

func TestOffsetsShiftAfterInsert(t *testing.T) {
	a := fruarray.New(1, 0, true)
	require.NoError(t, a.Set(0, true, frustring.ASCII8, []byte("AB"), 64))
	require.NoError(t, a.Set(1, true, frustring.ASCII8, []byte("CDE"), 64))

	entries := a.Entries()
	for i := 1; i < len(entries); i++ {
		require.Equal(t, entries[i-1].Offset+entries[i-1].RawLen, entries[i].Offset)
	}
}

func TestOutOfSpace(t *testing.T) {
	a := fruarray.New(1, 0, true)
	err := a.Set(0, false, frustring.ASCII8, make([]byte, 60), 10)
	require.Error(t, err)

	entries := a.Entries()
	require.Equal(t, 0, len(entries[0].Payload))
}

func TestDecodeRoundTrip(t *testing.T) {
	a := fruarray.New(2, 3, true)
	require.NoError(t, a.Set(0, false, frustring.ASCII8, []byte("ABC"), 64))
	require.NoError(t, a.Set(0, true, frustring.ASCII8, []byte("X"), 64))

	var buf []byte
	for _, e := range a.Entries() {
		raw, err := e.RawBytes()
		require.NoError(t, err)
		buf = append(buf, raw...)
	}
	buf = append(buf, 0xC1)

	decoded, err := fruarray.Decode(append(make([]byte, 3), buf...), 3, 2, false, true)
	require.NoError(t, err)
	require.Equal(t, a.NumCustom(), decoded.NumCustom())
	require.Equal(t, "ABC", string(decoded.Entries()[0].Payload))
	require.Equal(t, "X", string(decoded.Entries()[2].Payload))
}

func TestDecodeMissingTerminator(t *testing.T) {
	_, err := fruarray.Decode([]byte{0xC0, 0xC0}, 0, 2, false, true)
	require.Error(t, err)
}

func TestDeleteShiftsOffsetsDown(t *testing.T) {
	a := fruarray.New(0, 0, true)
	require.NoError(t, a.Set(0, true, frustring.ASCII8, []byte("AAAA"), 64))
	require.NoError(t, a.Set(1, true, frustring.ASCII8, []byte("BB"), 64))
	secondOffsetBefore := a.Entries()[1].Offset

	require.NoError(t, a.Set(0, true, frustring.ASCII8, nil, 64))
	require.Equal(t, secondOffsetBefore-5, a.Entries()[0].Offset) // removed "AAAA" (4 bytes payload + 1 prefix)
}
