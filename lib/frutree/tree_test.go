// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package frutree_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipmi-fru/fru-rec/lib/fruarea"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
	"github.com/ipmi-fru/fru-rec/lib/fruoem"
	"github.com/ipmi-fru/fru-rec/lib/frutree"
)

func newTestAreas(t *testing.T, registry *fruoem.Registry) *frutree.Areas {
	t.Helper()
	chassis := fruarea.NewChassis()
	chassis.Length = 64

	mrec := fruarea.NewMultiRecord()
	mrec.Length = 64

	// capacity 2 bytes, peakVA 2 bytes, 5 bytes the decoder skips,
	// flags byte (§ builtin power-supply-info layout).
	payload := []byte{0x64, 0x00, 0xC8, 0x00, 0, 0, 0, 0, 0, 0x03}
	require.NoError(t, mrec.Set(0, 0x00, payload))

	return &frutree.Areas{
		Chassis:     chassis,
		MultiRecord: mrec,
		Registry:    registry,
	}
}

func TestRootNodeStrToIndexRoundTrip(t *testing.T) {
	t.Parallel()
	root := frutree.NewRoot(newTestAreas(t, nil))

	names := []string{
		"internal_use_data",
		"chassis_type",
		"chassis_part_number",
		"product_fru_file_id",
		"multirecords",
	}
	for _, name := range names {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			index, ok := root.StrToIndex(name)
			require.True(t, ok, "name should resolve")
			got, ok := root.IndexToStr(index)
			require.True(t, ok, "index should resolve back")
			assert.Equal(t, name, got)
		})
	}
}

func TestRootNodeStrToIndexUnknown(t *testing.T) {
	t.Parallel()
	root := frutree.NewRoot(newTestAreas(t, nil))

	_, ok := root.StrToIndex("no_such_field")
	assert.False(t, ok)

	_, ok = root.IndexToStr(-1)
	assert.False(t, ok)
}

func TestMultiRecordNodeTwoChildren(t *testing.T) {
	t.Parallel()

	t.Run("with decoder", func(t *testing.T) {
		t.Parallel()
		root := frutree.NewRoot(newTestAreas(t, fruoem.NewDefaultRegistry()))
		index, ok := root.StrToIndex("multirecords")
		require.True(t, ok)
		mrecsField, err := root.Field(index)
		require.NoError(t, err)
		require.Equal(t, frutree.KindSubNode, mrecsField.Kind)

		recField, err := mrecsField.Child.Field(0)
		require.NoError(t, err)
		require.Equal(t, frutree.KindSubNode, recField.Kind)
		rec := recField.Child

		rawField, err := rec.Field(0)
		require.NoError(t, err)
		assert.Equal(t, "raw_data", rawField.Name)
		assert.Equal(t, frutree.KindBinary, rawField.Kind)

		decodedField, err := rec.Field(1)
		require.NoError(t, err)
		assert.Equal(t, "decoded", decodedField.Name)
		require.Equal(t, frutree.KindSubNode, decodedField.Kind)
		assert.Equal(t, "power_supply_info", decodedField.Child.Name())

		f0, err := decodedField.Child.Field(0)
		require.NoError(t, err)
		assert.Equal(t, "overall_capacity_watts", f0.Name)
		assert.Equal(t, int64(0x64), f0.Int)

		_, err = rec.Field(2)
		assert.True(t, errors.Is(err, fruerr.NotFound))
	})

	t.Run("without decoder", func(t *testing.T) {
		t.Parallel()
		root := frutree.NewRoot(newTestAreas(t, nil))
		index, ok := root.StrToIndex("multirecords")
		require.True(t, ok)
		mrecsField, err := root.Field(index)
		require.NoError(t, err)

		recField, err := mrecsField.Child.Field(0)
		require.NoError(t, err)
		rec := recField.Child

		_, err = rec.Field(0)
		require.NoError(t, err)

		_, err = rec.Field(1)
		assert.True(t, errors.Is(err, fruerr.NotFound))
	})
}
