// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"os"

	"github.com/datawire/dlib/dlog"

	"github.com/ipmi-fru/fru-rec/lib/fru"
	"github.com/ipmi-fru/fru-rec/lib/fruoem"
)

// openFru reads filename whole and decodes it with the default OEM
// registry (§4.5's three built-in power decoders), returning the
// loaded Fru and the raw bytes it was decoded from (so callers that
// only read can avoid a second Write just to get the original image).
func openFru(filename string) (*fru.Fru, []byte, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	f := fru.New(fruoem.NewDefaultRegistry())
	if err := f.Decode(buf); err != nil {
		return nil, nil, err
	}
	return f, buf, nil
}

// writeBack re-encodes f into a buffer the same size as orig, writes
// it to filename, and acknowledges the write so that a subsequent
// edit's update ranges are relative to this image (§4.8).
func writeBack(ctx context.Context, f *fru.Fru, orig []byte, filename string) error {
	out := make([]byte, len(orig))
	ranges, err := f.Write(out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, out, 0o644); err != nil {
		return err
	}
	if err := f.WriteComplete(); err != nil {
		return err
	}
	ctx = dlog.WithField(ctx, "fru.file", filename)
	for _, r := range ranges {
		dlog.Infof(ctx, "updated range: offset=%d length=%d", r.Offset, r.Length)
	}
	return nil
}
