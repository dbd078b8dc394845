// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deflate

import "github.com/tayne3/gromb/buffer"

// syncFlushMarker is the 4-byte suffix flate.Writer.Flush emits: an
// empty stored block (spec §6.2's Z_SYNC_FLUSH marker).
var syncFlushMarker = [4]byte{0x00, 0x00, 0xff, 0xff}

// HasSyncFlushMarker reports whether b's last 4 remaining bytes are the
// sync-flush marker.
func HasSyncFlushMarker(b buffer.Buffer) (bool, error) {
	if b.Remaining() < 4 {
		return false, nil
	}
	tail, err := b.Slice()
	if err != nil {
		return false, err
	}
	if err := tail.SetPosition(tail.Limit() - 4); err != nil {
		return false, err
	}
	got, err := tail.ReadByteArray(4)
	if err != nil {
		return false, err
	}
	return got[0] == syncFlushMarker[0] && got[1] == syncFlushMarker[1] &&
		got[2] == syncFlushMarker[2] && got[3] == syncFlushMarker[3], nil
}

// StripSyncFlushMarker narrows b's limit by 4 bytes if those trailing
// bytes are the sync-flush marker, leaving b untouched otherwise.
func StripSyncFlushMarker(b buffer.Buffer) error {
	has, err := HasSyncFlushMarker(b)
	if err != nil || !has {
		return err
	}
	return b.SetLimit(b.Limit() - 4)
}

// AppendSyncFlushMarker produces a new buffer holding b's remaining
// bytes followed by the 4-byte sync-flush marker (spec §4.7.3:
// "produce a new buffer = buf.remaining ++ 00 00 FF FF"). b is read,
// not mutated — tightly-allocated buffers (every chunk this package's
// own Encoder hands out has zero spare capacity) have no room to widen
// in place, and a WebSocket receiver reconstructing a payload from the
// wire has no reason to expect its buffer to support that either.
func AppendSyncFlushMarker(b buffer.Buffer) (buffer.Buffer, error) {
	view, err := b.Slice()
	if err != nil {
		return nil, err
	}
	n := view.Remaining()
	data, err := view.ReadByteArray(n)
	if err != nil {
		return nil, err
	}
	out := buffer.NewManaged(n + 4)
	if err := out.WriteBytes(data, 0, n); err != nil {
		return nil, err
	}
	if err := out.WriteBytes(syncFlushMarker[:], 0, 4); err != nil {
		return nil, err
	}
	out.ResetForRead()
	return out, nil
}
