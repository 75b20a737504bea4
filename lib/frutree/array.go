// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frutree

import (
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
)

// ArrayNode exposes one area's custom (non-fixed) string tail as a
// sequence of children, indexed from 0 regardless of how many fixed
// fields precede them in the underlying array.
type ArrayNode struct {
	name string
	h    *arrayHolder
}

func newArrayNode(name string, h *arrayHolder) *ArrayNode {
	return &ArrayNode{name: name, h: h}
}

func (n *ArrayNode) Name() string { return n.name }

func (n *ArrayNode) Field(index int) (Field, error) {
	const op = "frutree.ArrayNode.Field"
	if n.h == nil || index < 0 || index >= n.h.arr.NumCustom() {
		return Field{}, fruerr.New(fruerr.NotFound, op, "custom string index out of range")
	}
	e, err := n.h.arr.Get(index, true)
	if err != nil {
		return Field{}, err
	}
	return stringField(n.name, e.Type, e.Payload), nil
}
