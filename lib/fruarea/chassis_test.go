// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruarea_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fruarea"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

// buildMinimalChassis returns an 8-byte Chassis area with both fixed
// string fields empty.
func buildMinimalChassis(t *testing.T) []byte {
	t.Helper()
	a := fruarea.NewChassis()
	a.Offset = 0
	a.Length = 8
	buf := make([]byte, 8)
	var p fruwrite.Planner
	require.NoError(t, a.Encode(buf, &p))
	return buf
}

func TestChassisEncodeChecksumAtLastByte(t *testing.T) {
	buf := buildMinimalChassis(t)
	require.Equal(t, byte(1), buf[0])
	require.Equal(t, byte(1), buf[1]) // length/8
	require.Equal(t, byte(0), buf[2])
	require.Equal(t, byte(0xC0), buf[3]) // empty part_number
	require.Equal(t, byte(0xC0), buf[4]) // empty serial_number
	require.Equal(t, frustring.EndOfList, buf[5])
	require.Equal(t, byte(0), buf[6]) // pad before the checksum

	var sum byte
	for _, b := range buf {
		sum += b
	}
	require.Equal(t, byte(0), sum)
}

func TestChassisDecodeEncodeRoundTrip(t *testing.T) {
	buf := buildMinimalChassis(t)

	a := fruarea.NewChassis()
	a.Offset = 0
	require.NoError(t, a.Decode(buf))
	require.Equal(t, 8, a.Length)
	require.Equal(t, byte(0), a.ChassisType)

	out := make([]byte, 8)
	var p fruwrite.Planner
	require.NoError(t, a.Encode(out, &p))
	require.Equal(t, buf, out)
	require.Empty(t, p.Ranges())
}

func TestChassisSetPartNumberGrowsUsedLength(t *testing.T) {
	a := fruarea.NewChassis()
	a.Offset = 0
	a.Length = 16

	before := a.UsedLength()
	require.NoError(t, a.SetString(0, false, frustring.ASCII8, []byte("ABC")))
	require.Equal(t, before+3, a.UsedLength())

	out := make([]byte, 16)
	var p fruwrite.Planner
	require.NoError(t, a.Encode(out, &p))
	require.NotEmpty(t, p.Ranges())
}

func TestChassisOutOfSpace(t *testing.T) {
	a := fruarea.NewChassis()
	a.Offset = 0
	a.Length = 8
	err := a.SetString(0, false, frustring.ASCII8, make([]byte, 20))
	require.Error(t, err)
}
