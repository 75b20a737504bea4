// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fru

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/frukind"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	offsets := map[frukind.Kind]int{
		frukind.InternalUse: 0,
		frukind.Chassis:     8,
		frukind.Board:       16,
		frukind.Product:     0,
		frukind.MultiRecord: 0,
	}
	buf := make([]byte, 8)
	encodeHeader(buf, offsets)

	got, err := decodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, offsets, got)
}

func TestHeaderDecodeRejectsBadChecksum(t *testing.T) {
	buf := make([]byte, 8)
	encodeHeader(buf, map[frukind.Kind]int{})
	buf[7] ^= 0xFF
	_, err := decodeHeader(buf)
	require.Error(t, err)
}

func TestHeaderDecodeRejectsShortBuffer(t *testing.T) {
	_, err := decodeHeader(make([]byte, 4))
	require.Error(t, err)
}
