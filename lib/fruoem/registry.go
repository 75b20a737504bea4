// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fruoem is the process-wide registry of OEM Multi-Record
// decoders: functions that turn a raw, opaque multi-record payload
// into a named set of typed fields for the tree navigator (§4.5).
package fruoem

import (
	"git.lukeshu.com/go/typedsync"

	"github.com/ipmi-fru/fru-rec/lib/fruerr"
)

// FieldKind identifies the Go-level type carried by a Field.
type FieldKind int

const (
	KindInt FieldKind = iota
	KindFloat
	KindBool
)

// Field is one named, scaled value extracted from an OEM payload.
type Field struct {
	Name  string
	Kind  FieldKind
	Int   int64
	Float float64
	Bool  bool
}

// Decoded is the structured result of a successful OEM decode: a name
// for the sub-tree root plus its flat field list.
type Decoded struct {
	Name   string
	Fields []Field
}

// DecodeFunc turns a raw multi-record payload into a Decoded value.
type DecodeFunc func(payload []byte) (Decoded, error)

type key struct {
	mfrID  uint32
	typeID byte
}

// ibmiReserved is the threshold below which a record type is
// IPMI-defined and manufacturer-independent; at or above it, the type
// is OEM-specific and must also match on manufacturer ID.
const ibmiReserved = 0xC0

// Registry maps (manufacturer ID, record type ID) pairs to decoders.
// It is safe for concurrent use; Decode takes a snapshot of the
// matching entry and invokes it without holding the registry lock, so
// a decoder may itself look something up elsewhere without deadlocking.
type Registry struct {
	entries typedsync.Map[key, DecodeFunc]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry returns a registry with the three built-in
// IPMI-defined power decoders already installed.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.mustRegister(0, recordTypePowerSupply, decodePowerSupplyInfo)
	r.mustRegister(0, recordTypeDCOutput, decodeDCOutput)
	r.mustRegister(0, recordTypeDCLoad, decodeDCLoad)
	return r
}

func (r *Registry) mustRegister(mfrID uint32, typeID byte, fn DecodeFunc) {
	if err := r.Register(mfrID, typeID, fn); err != nil {
		panic(err)
	}
}

// Register installs fn for (mfrID, typeID). It fails with
// AlreadyExists if an entry is already registered for that pair.
func (r *Registry) Register(mfrID uint32, typeID byte, fn DecodeFunc) error {
	const op = "fruoem.Register"
	k := key{mfrID, typeID}
	if _, loaded := r.entries.LoadOrStore(k, fn); loaded {
		return fruerr.New(fruerr.AlreadyExists, op, "decoder already registered for manufacturer/type pair")
	}
	return nil
}

// Deregister removes the entry for (mfrID, typeID), if any.
func (r *Registry) Deregister(mfrID uint32, typeID byte) {
	r.entries.Delete(key{mfrID, typeID})
}

// RegisteredKey is one (manufacturer ID, record type ID) pair
// currently installed in the registry, as reported by Entries.
type RegisteredKey struct {
	ManufacturerID uint32
	TypeID         byte
}

// Entries snapshots the registry's currently-registered keys, for
// diagnostic enumeration (e.g. a CLI's oem-list subcommand); order is
// unspecified.
func (r *Registry) Entries() []RegisteredKey {
	var out []RegisteredKey
	r.entries.Range(func(k key, _ DecodeFunc) bool {
		out = append(out, RegisteredKey{ManufacturerID: k.mfrID, TypeID: k.typeID})
		return true
	})
	return out
}

// Decode looks up and runs the decoder matching typeID and the
// manufacturer ID embedded in payload's first 3 bytes (little-endian).
// found is false, with a nil error, when no decoder matches; that is
// not itself an error, since most multi-records have no OEM decoder.
func (r *Registry) Decode(typeID byte, payload []byte) (decoded Decoded, found bool, err error) {
	const op = "fruoem.Decode"
	if len(payload) < 3 {
		return Decoded{}, false, fruerr.New(fruerr.BadFormat, op, "oem payload shorter than 3 bytes")
	}
	mfrID := uint32(payload[0]) | uint32(payload[1])<<8 | uint32(payload[2])<<16

	fn, ok := r.lookup(typeID, mfrID)
	if !ok {
		return Decoded{}, false, nil
	}
	decoded, err = fn(payload)
	return decoded, true, err
}

// lookup takes a snapshot-style pass over the registry via Range,
// which never holds a write lock for the duration of the scan, so a
// matched decoder can be invoked (by the caller, after lookup
// returns) without the registry locked (§5).
func (r *Registry) lookup(typeID byte, mfrID uint32) (found DecodeFunc, ok bool) {
	r.entries.Range(func(k key, fn DecodeFunc) bool {
		if k.typeID != typeID {
			return true
		}
		if typeID < ibmiReserved || k.mfrID == mfrID {
			found, ok = fn, true
			return false
		}
		return true
	})
	return found, ok
}
