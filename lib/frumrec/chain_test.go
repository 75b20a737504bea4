// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frumrec_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/frumrec"
)

func TestAppendRoundTrip(t *testing.T) {
	c := frumrec.New()
	require.NoError(t, c.Set(0, 0x01, []byte{1, 2, 3}, 64))
	require.Equal(t, 1, c.NumRecords())

	rec, err := c.Record(0)
	require.NoError(t, err)
	raw, err := rec.RawBytes(true)
	require.NoError(t, err)
	require.Len(t, raw, 8)

	decoded, consumed, err := frumrec.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), consumed)
	require.Equal(t, 1, decoded.NumRecords())
	got, err := decoded.Record(0)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), got.Type)
	require.Equal(t, []byte{1, 2, 3}, got.Payload)
}

func TestDeleteReflow(t *testing.T) {
	c := frumrec.New()
	require.NoError(t, c.Set(0, 0x01, []byte{1, 2, 3}, 64))
	require.NoError(t, c.Set(1, 0x02, []byte{4, 5}, 64))
	secondOffsetBefore := c.Records()[1].Offset

	require.NoError(t, c.Set(0, 0, nil, 64))
	require.Equal(t, 1, c.NumRecords())
	require.Equal(t, secondOffsetBefore-8, c.Records()[0].Offset)
}

func TestPayloadOver255Rejected(t *testing.T) {
	big := make([]byte, 256)

	c := frumrec.New()
	err := c.Set(0, 0x01, big, 1024)
	require.True(t, errors.Is(err, fruerr.TooBig))
	require.Equal(t, 0, c.NumRecords())

	require.NoError(t, c.Set(0, 0x01, []byte{1, 2, 3}, 1024))
	err = c.Set(0, 0x01, big, 1024)
	require.True(t, errors.Is(err, fruerr.TooBig))
	rec, err := c.Record(0)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, rec.Payload)
}

func TestOutOfSpace(t *testing.T) {
	c := frumrec.New()
	err := c.Set(0, 0x01, make([]byte, 60), 10)
	require.Error(t, err)
	require.Equal(t, 0, c.NumRecords())
}

func TestDecodeBadHeaderChecksum(t *testing.T) {
	c := frumrec.New()
	require.NoError(t, c.Set(0, 0x01, []byte{1}, 64))
	rec, _ := c.Record(0)
	raw, _ := rec.RawBytes(true)
	raw[4] ^= 0xFF

	_, _, err := frumrec.Decode(raw)
	require.Error(t, err)
}
