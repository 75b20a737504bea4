// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fruoem

import (
	"encoding/binary"

	"github.com/ipmi-fru/fru-rec/lib/fruerr"
)

// The three built-in IPMI-defined power multi-record types (Platform
// Management FRU Information Storage Definition, table 18-1 and
// following).
const (
	recordTypePowerSupply = 0x00
	recordTypeDCOutput    = 0x01
	recordTypeDCLoad      = 0x02
)

func le16(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}

func decodePowerSupplyInfo(payload []byte) (Decoded, error) {
	const op = "fruoem.decodePowerSupplyInfo"
	if len(payload) < 10 {
		return Decoded{}, fruerr.New(fruerr.BadFormat, op, "power supply info payload too short")
	}
	capacity := binary.LittleEndian.Uint16(payload[0:2])
	peakVA := binary.LittleEndian.Uint16(payload[2:4])
	flags := payload[9]

	return Decoded{
		Name: "power_supply_info",
		Fields: []Field{
			{Name: "overall_capacity_watts", Kind: KindInt, Int: int64(capacity)},
			{Name: "peak_va", Kind: KindInt, Int: int64(peakVA)},
			{Name: "hot_swap_supported", Kind: KindBool, Bool: flags&0x01 != 0},
			{Name: "predictive_fail_supported", Kind: KindBool, Bool: flags&0x02 != 0},
		},
	}, nil
}

// decodeDCOutput and decodeDCLoad share the same 13-byte layout: a
// 1-byte output number, then three signed 16-bit 10mV-unit voltages,
// an unsigned 16-bit mV ripple figure, and two unsigned 16-bit mA
// current bounds.

func decodeDCOutput(payload []byte) (Decoded, error) {
	const op = "fruoem.decodeDCOutput"
	if len(payload) < 13 {
		return Decoded{}, fruerr.New(fruerr.BadFormat, op, "DC output payload too short")
	}
	return Decoded{
		Name: "dc_output",
		Fields: []Field{
			{Name: "output_number", Kind: KindInt, Int: int64(payload[0] & 0x0f)},
			{Name: "standby", Kind: KindBool, Bool: payload[0]&0x80 != 0},
			{Name: "nominal_voltage", Kind: KindFloat, Float: float64(le16(payload[1:3])) / 100.0},
			{Name: "max_negative_voltage_deviation", Kind: KindFloat, Float: float64(le16(payload[3:5])) / 100.0},
			{Name: "max_positive_voltage_deviation", Kind: KindFloat, Float: float64(le16(payload[5:7])) / 100.0},
			{Name: "ripple_and_noise_mv", Kind: KindInt, Int: int64(binary.LittleEndian.Uint16(payload[7:9]))},
			{Name: "min_current_draw_ma", Kind: KindInt, Int: int64(binary.LittleEndian.Uint16(payload[9:11]))},
			{Name: "max_current_draw_ma", Kind: KindInt, Int: int64(binary.LittleEndian.Uint16(payload[11:13]))},
		},
	}, nil
}

func decodeDCLoad(payload []byte) (Decoded, error) {
	const op = "fruoem.decodeDCLoad"
	if len(payload) < 13 {
		return Decoded{}, fruerr.New(fruerr.BadFormat, op, "DC load payload too short")
	}
	return Decoded{
		Name: "dc_load",
		Fields: []Field{
			{Name: "output_number", Kind: KindInt, Int: int64(payload[0] & 0x0f)},
			{Name: "nominal_voltage", Kind: KindFloat, Float: float64(le16(payload[1:3])) / 100.0},
			{Name: "min_voltage_allowed", Kind: KindFloat, Float: float64(le16(payload[3:5])) / 100.0},
			{Name: "max_voltage_allowed", Kind: KindFloat, Float: float64(le16(payload[5:7])) / 100.0},
			{Name: "specd_ripple_and_noise_mv", Kind: KindInt, Int: int64(binary.LittleEndian.Uint16(payload[7:9]))},
			{Name: "min_current_load_ma", Kind: KindInt, Int: int64(binary.LittleEndian.Uint16(payload[9:11]))},
			{Name: "max_current_load_ma", Kind: KindInt, Int: int64(binary.LittleEndian.Uint16(payload[11:13]))},
		},
	}, nil
}
