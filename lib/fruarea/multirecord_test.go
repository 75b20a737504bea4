// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruarea_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fruarea"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

func TestMultiRecordAppendAndEncode(t *testing.T) {
	a := fruarea.NewMultiRecord()
	a.Offset = 0
	a.Length = 32
	require.NoError(t, a.Set(0, 0x01, []byte{1, 2, 3}))

	buf := make([]byte, 32)
	var p fruwrite.Planner
	require.NoError(t, a.Encode(buf, &p))
	require.NotEmpty(t, p.Ranges())

	a2 := fruarea.NewMultiRecord()
	a2.Offset = 0
	a2.Length = 32
	require.NoError(t, a2.Decode(buf))
	require.Equal(t, 1, a2.Chain.NumRecords())
}

func TestMultiRecordEmptyAreaDecodes(t *testing.T) {
	a := fruarea.NewMultiRecord()
	a.Offset = 0
	a.Length = 0
	require.NoError(t, a.Decode(nil))
	require.Equal(t, 0, a.Chain.NumRecords())
}

func TestMultiRecordShrinkZeroFillsTail(t *testing.T) {
	a := fruarea.NewMultiRecord()
	a.Offset = 0
	a.Length = 32
	require.NoError(t, a.Set(0, 0x01, []byte{1, 2, 3}))
	require.NoError(t, a.Set(1, 0x02, []byte{4, 5}))

	buf := make([]byte, 32)
	var p fruwrite.Planner
	require.NoError(t, a.Encode(buf, &p))
	a.ClearDirty()

	require.NoError(t, a.Set(1, 0, nil)) // delete
	var p2 fruwrite.Planner
	require.NoError(t, a.Encode(buf, &p2))
	require.NotEmpty(t, p2.Ranges())
}
