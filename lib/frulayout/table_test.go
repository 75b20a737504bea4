// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frulayout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/frukind"
	"github.com/ipmi-fru/fru-rec/lib/frulayout"
)

func TestAddAndOverlapRejected(t *testing.T) {
	tbl := frulayout.New()
	require.NoError(t, tbl.Add(frukind.Chassis, 8, 16, 64))
	err := tbl.Add(frukind.Board, 16, 16, 64)
	require.Error(t, err)

	require.NoError(t, tbl.Add(frukind.Board, 24, 16, 64))
	require.Equal(t, []frukind.Kind{frukind.Chassis, frukind.Board}, tbl.Present())
}

func TestAddRejectsMisalignedOffset(t *testing.T) {
	tbl := frulayout.New()
	err := tbl.Add(frukind.Chassis, 9, 16, 64)
	require.Error(t, err)
}

func TestAddRejectsOutOfBounds(t *testing.T) {
	tbl := frulayout.New()
	err := tbl.Add(frukind.Chassis, 2048, 16, 4096)
	require.Error(t, err)
}

func TestMoveMultiRecordExtendsToEnd(t *testing.T) {
	tbl := frulayout.New()
	require.NoError(t, tbl.Add(frukind.MultiRecord, 8, 56, 64))
	require.NoError(t, tbl.Move(frukind.MultiRecord, 16, 64))

	p, ok := tbl.Get(frukind.MultiRecord)
	require.True(t, ok)
	require.Equal(t, 16, p.Offset)
	require.Equal(t, 48, p.Length)
}

func TestAddTruncatesLengthAndEnforcesMinimum(t *testing.T) {
	tbl := frulayout.New()
	require.NoError(t, tbl.Add(frukind.Chassis, 8, 20, 64))
	p, ok := tbl.Get(frukind.Chassis)
	require.True(t, ok)
	require.Equal(t, 16, p.Length)

	err := tbl.Add(frukind.Board, 32, 7, 64)
	require.Error(t, err)
}

func TestResizeRejectsBelowUsedLength(t *testing.T) {
	tbl := frulayout.New()
	require.NoError(t, tbl.Add(frukind.Chassis, 8, 24, 64))
	err := tbl.Resize(frukind.Chassis, 8, 20, 64)
	require.Error(t, err)
}
