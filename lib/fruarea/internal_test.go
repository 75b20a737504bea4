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

func TestInternalUseSetAndEncode(t *testing.T) {
	a := fruarea.NewInternalUse()
	a.Offset = 0
	a.Length = 8
	require.NoError(t, a.SetPayload([]byte{1, 2, 3}))

	buf := make([]byte, 8)
	var p fruwrite.Planner
	require.NoError(t, a.Encode(buf, &p))
	require.Equal(t, byte(1), buf[0])
	require.Equal(t, []byte{1, 2, 3}, buf[1:4])
	require.NotEmpty(t, p.Ranges())
}

func TestInternalUseTooBig(t *testing.T) {
	a := fruarea.NewInternalUse()
	a.Offset = 0
	a.Length = 4
	err := a.SetPayload(make([]byte, 10))
	require.Error(t, err)
}

func TestInternalUseDecode(t *testing.T) {
	dat := []byte{1, 0xAA, 0xBB, 0, 0, 0, 0, 0}
	a := fruarea.NewInternalUse()
	a.Offset = 0
	a.Length = 8
	require.NoError(t, a.Decode(dat))
	require.Equal(t, []byte{0xAA, 0xBB, 0, 0, 0, 0, 0}, a.Payload)
}
