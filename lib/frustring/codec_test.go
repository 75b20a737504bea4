// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frustring_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/frustring"
)

func TestEmptyEncodesToC0(t *testing.T) {
	raw, err := frustring.Encode(frustring.ASCII8, nil, false)
	require.NoError(t, err)
	require.Equal(t, []byte{0xC0}, raw)
}

func TestASCIIRoundTrip(t *testing.T) {
	raw, err := frustring.Encode(frustring.ASCII8, []byte("ABC"), true)
	require.NoError(t, err)
	require.Equal(t, []byte{0x03<<6 | 3, 'A', 'B', 'C'}, raw)

	typ, payload, consumed, ok, err := frustring.Decode(raw, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, frustring.ASCII8, typ)
	require.Equal(t, "ABC", string(payload))
	require.Equal(t, len(raw), consumed)
}

func TestEndOfList(t *testing.T) {
	_, _, consumed, ok, err := frustring.Decode([]byte{frustring.EndOfList, 0xff}, false)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, consumed)
}

func TestTruncated(t *testing.T) {
	_, _, _, _, err := frustring.Decode([]byte{0x03<<6 | 5, 'A'}, false)
	require.Error(t, err)
}

func TestForceEnglishRejectsUnicode(t *testing.T) {
	_, err := frustring.Encode(frustring.Unicode, []byte("x"), true)
	require.Error(t, err)
}

func TestUnicodeRoundTrip(t *testing.T) {
	raw, err := frustring.Encode(frustring.Unicode, []byte("Hi"), false)
	require.NoError(t, err)

	typ, payload, _, ok, err := frustring.Decode(raw, true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, frustring.Unicode, typ)
	require.Equal(t, "Hi", string(payload))
}

func TestBCDPlusRoundTrip(t *testing.T) {
	raw, err := frustring.Encode(frustring.BCDPlus, []byte("123-45"), false)
	require.NoError(t, err)

	typ, payload, _, ok, err := frustring.Decode(raw, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, frustring.BCDPlus, typ)
	require.Equal(t, "123-45", string(payload))
}

func TestSixBitASCIIRoundTrip(t *testing.T) {
	raw, err := frustring.Encode(frustring.SixBitASCII, []byte("ABCD"), false)
	require.NoError(t, err)

	typ, payload, _, ok, err := frustring.Decode(raw, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, frustring.SixBitASCII, typ)
	require.Equal(t, "ABCD", string(payload))
}

func TestBinaryRoundTrip(t *testing.T) {
	raw, err := frustring.Encode(frustring.Binary, []byte{0x01, 0x02, 0x03}, false)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00<<6 | 3, 0x01, 0x02, 0x03}, raw)

	typ, payload, _, ok, err := frustring.Decode(raw, false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, frustring.Binary, typ)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, payload)
}

func TestPayloadTruncatedTo63Bytes(t *testing.T) {
	big := make([]byte, 100)
	for i := range big {
		big[i] = 'A'
	}
	raw, err := frustring.Encode(frustring.ASCII8, big, false)
	require.NoError(t, err)
	require.Equal(t, 64, len(raw)) // 1 prefix byte + 63 payload bytes
}
