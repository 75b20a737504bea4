// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fruerr"
)

func TestIs(t *testing.T) {
	err := fruerr.New(fruerr.OutOfSpace, "SetPartNumber", "raw length 20 exceeds capacity")
	require.True(t, errors.Is(err, fruerr.OutOfSpace))
	require.False(t, errors.Is(err, fruerr.TooBig))
}

func TestWrap(t *testing.T) {
	cause := errors.New("truncated")
	err := fruerr.Wrap(fruerr.BadFormat, "decode", cause)
	require.True(t, errors.Is(err, fruerr.BadFormat))
	require.True(t, errors.Is(err, cause))
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, fruerr.Wrap(fruerr.BadFormat, "decode", nil))
}
