// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package frutime implements the FRU wire timestamp: a 3-byte
// little-endian count of minutes since Unix time 820476000
// (1996-01-01T06:00:00Z).
package frutime

import (
	"time"

	"github.com/ipmi-fru/fru-rec/lib/binstruct/binutil"
	"github.com/ipmi-fru/fru-rec/lib/fruerr"
)

// epoch is the Unix time, in seconds, that the minute count starts
// from: 1996-01-01T06:00:00Z, i.e. midnight 1996-01-01 at UTC-6.
const epoch = 820476000

// Timestamp is a FRU area timestamp: minutes since the 1996 epoch,
// packed into 3 bytes on the wire.
type Timestamp uint32

const maxVal = Timestamp(1<<24 - 1)

var (
	_ interface{ BinaryStaticSize() int } = Timestamp(0)
)

// FromUnix converts a Unix epoch-seconds value into a Timestamp,
// rejecting values that don't fit in 24 bits or predate the epoch.
func FromUnix(t int64) (Timestamp, error) {
	if t < epoch {
		return 0, fruerr.New(fruerr.InvalidArgument, "frutime.FromUnix", "time predates the 1996 FRU epoch")
	}
	mins := ((t - epoch) + 30) / 60
	if mins > int64(maxVal) {
		return 0, fruerr.New(fruerr.InvalidArgument, "frutime.FromUnix", "time overflows the 24-bit minute counter")
	}
	return Timestamp(mins), nil
}

// ToUnix converts back to Unix epoch-seconds.
func (ts Timestamp) ToUnix() int64 {
	return int64(ts)*60 + epoch
}

// ToStd converts to a standard library time.Time in UTC.
func (ts Timestamp) ToStd() time.Time {
	return time.Unix(ts.ToUnix(), 0).UTC()
}

func (Timestamp) BinaryStaticSize() int { return 3 }

func (ts Timestamp) MarshalBinary() ([]byte, error) {
	return []byte{
		byte(ts),
		byte(ts >> 8),
		byte(ts >> 16),
	}, nil
}

func (ts *Timestamp) UnmarshalBinary(dat []byte) (int, error) {
	if err := binutil.NeedNBytes(dat, 3); err != nil {
		return 0, err
	}
	*ts = Timestamp(dat[0]) | Timestamp(dat[1])<<8 | Timestamp(dat[2])<<16
	return 3, nil
}

func (ts Timestamp) String() string {
	return ts.ToStd().Format(time.RFC3339)
}
