// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruarea_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fruarea"
	"github.com/ipmi-fru/fru-rec/lib/frustring"
	"github.com/ipmi-fru/fru-rec/lib/frutime"
	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

func TestBoardMfgDateRoundTrip(t *testing.T) {
	a := fruarea.NewBoard()
	a.Offset = 0
	a.Length = 24

	ts, err := frutime.FromUnix(820476000 + 90*60)
	require.NoError(t, err)
	a.SetMfgDate(ts)

	buf := make([]byte, 24)
	var p fruwrite.Planner
	require.NoError(t, a.Encode(buf, &p))

	a2 := fruarea.NewBoard()
	a2.Offset = 0
	require.NoError(t, a2.Decode(buf))
	require.Equal(t, 24, a2.Length)
	require.Equal(t, ts, a2.MfgDate)
}

func TestBoardNonEnglishDecodesUnicode(t *testing.T) {
	a := fruarea.NewBoard()
	a.Offset = 0
	a.Length = 24
	a.SetLanguageCode(0)
	require.NoError(t, a.SetString(1, false, frustring.Unicode, []byte("Hi")))

	buf := make([]byte, 24)
	var p fruwrite.Planner
	require.NoError(t, a.Encode(buf, &p))

	a2 := fruarea.NewBoard()
	a2.Offset = 0
	require.NoError(t, a2.Decode(buf))
	require.Equal(t, byte(0), a2.LanguageCode)

	name, err := a2.Strings.Get(1, false)
	require.NoError(t, err)
	require.Equal(t, frustring.Unicode, name.Type)
	require.Equal(t, "Hi", string(name.Payload))
}
