// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frucheck_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fru"
	"github.com/ipmi-fru/fru-rec/lib/frucheck"
	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
	"github.com/ipmi-fru/fru-rec/lib/frutree"
)

func minimalChassisFru() []byte {
	buf := make([]byte, 24)
	buf[0], buf[2] = 1, 1
	var s byte
	for _, b := range buf[:7] {
		s += b
	}
	buf[7] = -s

	area := make([]byte, 16)
	area[0], area[1] = 1, 2
	area[3], area[4], area[5] = 0xC0, 0xC0, 0xC1
	var as byte
	for _, b := range area[:15] {
		as += b
	}
	area[15] = -as
	copy(buf[8:], area)
	return buf
}

func TestRoundTripFidelity(t *testing.T) {
	require.NoError(t, frucheck.RoundTripFidelity(minimalChassisFru()))
}

func TestChecksumClosure(t *testing.T) {
	buf := minimalChassisFru()
	f := fru.New(nil)
	require.NoError(t, f.Decode(buf))
	require.NoError(t, frucheck.ChecksumClosure(f, buf))
}

func TestOffsetMonotonicity(t *testing.T) {
	buf := minimalChassisFru()
	f := fru.New(nil)
	require.NoError(t, f.Decode(buf))
	require.NoError(t, frucheck.OffsetMonotonicity(f))
}

func TestMinimalWritesSoundnessAndDeletionReflow(t *testing.T) {
	buf := minimalChassisFru()
	f := fru.New(nil)
	require.NoError(t, f.Decode(buf))

	require.NoError(t, f.Do(func(a *frutree.Areas) error {
		return a.Chassis.SetString(0, true, frustring.ASCII8, []byte("X"))
	}))
	before := append([]byte(nil), buf...)
	out := make([]byte, len(buf))
	ranges, err := f.Write(out)
	require.NoError(t, err)
	require.NoError(t, frucheck.MinimalWritesSoundness(before, out, ranges))

	usedBefore, err := f.GetAreaUsedLength(frukind.Chassis)
	require.NoError(t, err)

	require.NoError(t, f.WriteComplete())
	require.NoError(t, f.Do(func(a *frutree.Areas) error {
		return a.Chassis.SetString(0, true, frustring.ASCII8, nil)
	}))
	usedAfter, err := f.GetAreaUsedLength(frukind.Chassis)
	require.NoError(t, err)
	require.Equal(t, usedBefore-2, usedAfter) // removed a 1-byte ASCII8 custom entry (2-byte raw)
}
