// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deflate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tayne3/gromb/buffer"
)

func chunkFrom(b []byte) buffer.Buffer {
	return buffer.NewManagedFrom(b)
}

func collect(t *testing.T, format Format, compressed []buffer.Buffer) []byte {
	t.Helper()
	dec := NewDecoder(format)
	var out []byte
	for _, c := range compressed {
		err := dec.Decompress(c, func(b buffer.Buffer) error {
			data, rerr := b.ReadByteArray(b.Remaining())
			out = append(out, data...)
			return rerr
		})
		assert.NoError(t, err)
	}
	err := dec.Finish(func(b buffer.Buffer) error {
		data, rerr := b.ReadByteArray(b.Remaining())
		out = append(out, data...)
		return rerr
	})
	assert.NoError(t, err)
	return out
}

func compressWhole(t *testing.T, format Format, x []byte) []buffer.Buffer {
	t.Helper()
	enc := NewEncoder(format)
	var out []buffer.Buffer
	err := enc.Compress(chunkFrom(x), func(b buffer.Buffer) error {
		out = append(out, b)
		return nil
	})
	assert.NoError(t, err)
	err = enc.Finish(func(b buffer.Buffer) error {
		out = append(out, b)
		return nil
	})
	assert.NoError(t, err)
	return out
}

// Law 19: decompress(compress(X)) = X for every format.
func TestRoundTripAllFormats(t *testing.T) {
	x := []byte("Hello, Buffer! The quick brown fox jumps over the lazy dog.")
	for _, format := range []Format{Raw, Zlib, Gzip} {
		compressed := compressWhole(t, format, x)
		got := collect(t, format, compressed)
		assert.Equal(t, x, got, "format %v", format)
	}
}

// E4: Gzip round-trip with explicit magic-byte / method observation.
func TestGzipRoundTripObservesMagicBytes(t *testing.T) {
	x := []byte("Hello, Buffer!")
	compressed := compressWhole(t, Gzip, x)
	assert.NotEmpty(t, compressed)
	head, err := compressed[0].ReadByteArray(compressed[0].Remaining())
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(head), 10)
	assert.Equal(t, byte(0x1f), head[0])
	assert.Equal(t, byte(0x8b), head[1])
	assert.Equal(t, byte(0x08), head[2])

	// re-wrap since we consumed it above
	got := collect(t, Gzip, []buffer.Buffer{buffer.NewManagedFrom(head)})
	assert.Equal(t, x, got)
}

// E5 / Law 20: strip + append sync-flush marker around a Raw stream.
func TestSyncFlushStripAndAppendRoundTrip(t *testing.T) {
	x := []byte{0, 1, 2, 3, 4, 5}
	enc := NewEncoder(Raw)
	var out []buffer.Buffer
	err := enc.Compress(chunkFrom(x), func(b buffer.Buffer) error {
		out = append(out, b)
		return nil
	})
	assert.NoError(t, err)
	err = enc.Flush(func(b buffer.Buffer) error {
		out = append(out, b)
		return nil
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, out)

	last := out[len(out)-1]
	has, err := HasSyncFlushMarker(last)
	assert.NoError(t, err)
	assert.True(t, has)

	assert.NoError(t, StripSyncFlushMarker(last))
	has, err = HasSyncFlushMarker(last)
	assert.NoError(t, err)
	assert.False(t, has)

	// last is tightly allocated (zero spare capacity), the same as any
	// buffer a receiver reconstructs from the wire: appending must
	// produce a fresh buffer rather than widen in place.
	appended, err := AppendSyncFlushMarker(last)
	assert.NoError(t, err)
	has, err = HasSyncFlushMarker(appended)
	assert.NoError(t, err)
	assert.True(t, has)
	out[len(out)-1] = appended

	dec := NewDecoder(Raw)
	var got []byte
	for _, c := range out {
		err := dec.Decompress(c, func(b buffer.Buffer) error {
			data, rerr := b.ReadByteArray(b.Remaining())
			got = append(got, data...)
			return rerr
		})
		assert.NoError(t, err)
	}
	assert.NoError(t, dec.Finish(func(b buffer.Buffer) error {
		data, rerr := b.ReadByteArray(b.Remaining())
		got = append(got, data...)
		return rerr
	}))
	assert.Equal(t, x, got)
}

// AppendSyncFlushMarker must work on a tightly-allocated buffer with no
// spare capacity — e.g. a payload a WebSocket receiver reconstructed
// from the wire, exactly scenario E5's use case — not only on a buffer
// that happens to have just been narrowed by StripSyncFlushMarker.
func TestAppendSyncFlushMarkerOnTightlyAllocatedBuffer(t *testing.T) {
	payload := []byte{9, 8, 7, 6, 5}
	tight := buffer.NewManagedFrom(append([]byte(nil), payload...))
	assert.Equal(t, tight.Capacity(), tight.Limit())

	appended, err := AppendSyncFlushMarker(tight)
	assert.NoError(t, err)
	assert.Equal(t, len(payload)+4, appended.Remaining())

	has, err := HasSyncFlushMarker(appended)
	assert.NoError(t, err)
	assert.True(t, has)

	// the original buffer is untouched
	assert.Equal(t, len(payload), tight.Remaining())
}

// Law 21: reset() leaves the next session indistinguishable from fresh.
func TestEncoderResetProducesFreshSession(t *testing.T) {
	x := []byte("first session payload")
	enc := NewEncoder(Gzip)
	var first []buffer.Buffer
	assert.NoError(t, enc.Compress(chunkFrom(x), func(b buffer.Buffer) error {
		first = append(first, b)
		return nil
	}))
	assert.NoError(t, enc.Finish(func(b buffer.Buffer) error {
		first = append(first, b)
		return nil
	}))

	enc.Reset()
	y := []byte("second session payload, different length")
	var second []buffer.Buffer
	assert.NoError(t, enc.Compress(chunkFrom(y), func(b buffer.Buffer) error {
		second = append(second, b)
		return nil
	}))
	assert.NoError(t, enc.Finish(func(b buffer.Buffer) error {
		second = append(second, b)
		return nil
	}))

	assert.Equal(t, y, collect(t, Gzip, second))

	fresh := NewEncoder(Gzip)
	var viaFresh []buffer.Buffer
	assert.NoError(t, fresh.Compress(chunkFrom(y), func(b buffer.Buffer) error {
		viaFresh = append(viaFresh, b)
		return nil
	}))
	assert.NoError(t, fresh.Finish(func(b buffer.Buffer) error {
		viaFresh = append(viaFresh, b)
		return nil
	}))
	assert.Equal(t, collect(t, Gzip, viaFresh), collect(t, Gzip, second))
}

// Law 22: Gzip trailer integrity is checked on decode; corrupting the
// trailer's CRC must be rejected.
func TestGzipTrailerIntegrityRejectsCorruption(t *testing.T) {
	x := []byte("integrity check payload")
	compressed := compressWhole(t, Gzip, x)
	var all []byte
	for _, c := range compressed {
		data, err := c.ReadByteArray(c.Remaining())
		assert.NoError(t, err)
		all = append(all, data...)
	}
	all[len(all)-1] ^= 0xff // flip a trailer byte

	dec := NewDecoder(Gzip)
	err := dec.Decompress(buffer.NewManagedFrom(all), func(buffer.Buffer) error { return nil })
	if err == nil {
		err = dec.Finish(func(buffer.Buffer) error { return nil })
	}
	assert.ErrorIs(t, err, ErrMalformedCompressedData)
}

// Chunked feed: compress then decompress byte-at-a-time to exercise the
// Decompress/Finish resumption paths across many small calls.
func TestByteAtATimeFeedRoundTrips(t *testing.T) {
	x := []byte("a repeated repeated repeated repeated payload for compression")
	compressed := compressWhole(t, Zlib, x)
	var all []byte
	for _, c := range compressed {
		data, err := c.ReadByteArray(c.Remaining())
		assert.NoError(t, err)
		all = append(all, data...)
	}

	dec := NewDecoder(Zlib)
	var got []byte
	for i := 0; i < len(all); i++ {
		err := dec.Decompress(buffer.NewManagedFrom(all[i:i+1]), func(b buffer.Buffer) error {
			data, rerr := b.ReadByteArray(b.Remaining())
			got = append(got, data...)
			return rerr
		})
		assert.NoError(t, err)
	}
	assert.NoError(t, dec.Finish(func(b buffer.Buffer) error {
		data, rerr := b.ReadByteArray(b.Remaining())
		got = append(got, data...)
		return rerr
	}))
	assert.Equal(t, x, got)
}

func TestDecoderRejectsWrongMagicBytes(t *testing.T) {
	dec := NewDecoder(Gzip)
	err := dec.Decompress(chunkFrom([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}), func(buffer.Buffer) error { return nil })
	assert.ErrorIs(t, err, ErrMalformedCompressedData)
}

func TestClosedEncoderRejectsFurtherCompress(t *testing.T) {
	enc := NewEncoder(Raw)
	assert.NoError(t, enc.Close())
	err := enc.Compress(chunkFrom([]byte("x")), func(buffer.Buffer) error { return nil })
	assert.ErrorIs(t, err, buffer.ErrClosed)
}
