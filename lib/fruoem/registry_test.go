// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruoem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fruoem"
)

func dcOutputPayload() []byte {
	// output 0, nominal 12.00V (1200 / 100), rest zeroed.
	return []byte{0x00, 0xB0, 0x04, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
}

func TestDefaultRegistryDecodesDCOutput(t *testing.T) {
	r := fruoem.NewDefaultRegistry()
	decoded, found, err := r.Decode(0x01, dcOutputPayload())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "dc_output", decoded.Name)

	var nominal float64
	for _, f := range decoded.Fields {
		if f.Name == "nominal_voltage" {
			nominal = f.Float
		}
	}
	require.InDelta(t, 12.0, nominal, 0.001)
}

func TestDecodeNoMatch(t *testing.T) {
	r := fruoem.NewDefaultRegistry()
	_, found, err := r.Decode(0x55, []byte{0, 0, 0})
	require.NoError(t, err)
	require.False(t, found)
}

func TestDecodeShortPayload(t *testing.T) {
	r := fruoem.NewDefaultRegistry()
	_, _, err := r.Decode(0x01, []byte{0, 0})
	require.Error(t, err)
}

func TestOEMTypeRequiresManufacturerMatch(t *testing.T) {
	r := fruoem.NewDefaultRegistry()
	require.NoError(t, r.Register(0x001234, 0xC5, func(payload []byte) (fruoem.Decoded, error) {
		return fruoem.Decoded{Name: "vendor_thing"}, nil
	}))

	_, found, err := r.Decode(0xC5, []byte{0x34, 0x12, 0x00})
	require.NoError(t, err)
	require.True(t, found)

	_, found, err = r.Decode(0xC5, []byte{0xFF, 0xFF, 0xFF})
	require.NoError(t, err)
	require.False(t, found)
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := fruoem.NewRegistry()
	require.NoError(t, r.Register(1, 2, func([]byte) (fruoem.Decoded, error) { return fruoem.Decoded{}, nil }))
	err := r.Register(1, 2, func([]byte) (fruoem.Decoded, error) { return fruoem.Decoded{}, nil })
	require.Error(t, err)

	r.Deregister(1, 2)
	require.NoError(t, r.Register(1, 2, func([]byte) (fruoem.Decoded, error) { return fruoem.Decoded{}, nil }))
}
