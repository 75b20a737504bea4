// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fmtutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ipmi-fru/fru-rec/lib/fmtutil"
)

type fakeState struct {
	width     int
	hasWidth  bool
	prec      int
	hasPrec   bool
	flagMinus bool
	flagPlus  bool
	flagSharp bool
	flagSpace bool
	flagZero  bool
}

func (st fakeState) Width() (int, bool)     { return st.width, st.hasWidth }
func (st fakeState) Precision() (int, bool) { return st.prec, st.hasPrec }
func (st fakeState) Write([]byte) (int, error) {
	panic("not implemented")
}
func (st fakeState) Flag(b int) bool {
	switch b {
	case '-':
		return st.flagMinus
	case '+':
		return st.flagPlus
	case '#':
		return st.flagSharp
	case ' ':
		return st.flagSpace
	case '0':
		return st.flagZero
	}
	return false
}

func TestFmtStateString(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		state fakeState
		verb  rune
		exp   string
	}{
		"bare": {
			state: fakeState{},
			verb:  'v',
			exp:   "%v",
		},
		"width-and-prec": {
			state: fakeState{width: 8, hasWidth: true, prec: 2, hasPrec: true},
			verb:  'x',
			exp:   "%8.2x",
		},
		"zero-prec": {
			state: fakeState{prec: 0, hasPrec: true},
			verb:  'f',
			exp:   "%.f",
		},
		"flags": {
			state: fakeState{flagMinus: true, flagPlus: true, flagSharp: true},
			verb:  'd',
			exp:   "%-+#d",
		},
	}
	for name, tc := range testcases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.exp, fmtutil.FmtStateString(tc.state, tc.verb))
		})
	}
}
