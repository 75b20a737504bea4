// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frutime_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/frutime"
)

func TestRoundTrip(t *testing.T) {
	ts, err := frutime.FromUnix(820476000 + 600)
	require.NoError(t, err)
	require.Equal(t, int64(820476000+600), ts.ToUnix())

	dat, err := ts.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, dat, 3)

	var got frutime.Timestamp
	n, err := got.UnmarshalBinary(dat)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, ts, got)
}

func TestOverflow(t *testing.T) {
	_, err := frutime.FromUnix(820476000 + (1<<24)*60)
	require.Error(t, err)
}

func TestPredatesEpoch(t *testing.T) {
	_, err := frutime.FromUnix(0)
	require.Error(t, err)
}
