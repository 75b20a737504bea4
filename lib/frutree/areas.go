// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frutree

import (
	"github.com/ipmi-fru/fru-rec/lib/fruarea"
	"github.com/ipmi-fru/fru-rec/lib/fruoem"
)

// Areas bundles pointers to the up-to-five area records that back a
// root Node; a nil field means that area is absent from the FRU. It
// is owned by the top-level FRU object (lib/fru), which is the only
// package that constructs one.
type Areas struct {
	InternalUse *fruarea.InternalUse
	Chassis     *fruarea.Chassis
	Board       *fruarea.Board
	Product     *fruarea.Product
	MultiRecord *fruarea.MultiRecord

	// Registry resolves OEM multi-record sub-trees; nil disables OEM
	// decoding (every multi-record then exposes only raw_data).
	Registry *fruoem.Registry
}
