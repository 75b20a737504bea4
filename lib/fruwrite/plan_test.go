// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruwrite_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fruwrite"
)

func TestEmitAndReset(t *testing.T) {
	var p fruwrite.Planner
	p.Emit(8, 4)
	p.Emit(0, 8)
	p.Emit(100, 0) // ignored

	require.Equal(t, []fruwrite.UpdateRange{{Offset: 8, Length: 4}, {Offset: 0, Length: 8}}, p.Ranges())

	p.Reset()
	require.Empty(t, p.Ranges())
}
