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

func TestParseGzipHeaderFixedOnly(t *testing.T) {
	acc := []byte{gzipID1, gzipID2, gzipDeflate, 0, 0, 0, 0, 0, 0, gzipOSUnknown}
	res, err := parseGzipHeader(acc)
	assert.NoError(t, err)
	assert.True(t, res.ok)
	assert.Equal(t, 10, res.headerLen)
}

func TestParseGzipHeaderNeedsMoreBytes(t *testing.T) {
	acc := []byte{gzipID1, gzipID2, gzipDeflate}
	res, err := parseGzipHeader(acc)
	assert.NoError(t, err)
	assert.False(t, res.ok)
}

func TestParseGzipHeaderRejectsBadMagic(t *testing.T) {
	acc := make([]byte, 10)
	copy(acc, []byte{0x00, 0x00, gzipDeflate})
	_, err := parseGzipHeader(acc)
	assert.ErrorIs(t, err, ErrMalformedCompressedData)
}

func TestParseGzipHeaderWithName(t *testing.T) {
	acc := []byte{gzipID1, gzipID2, gzipDeflate, flagName, 0, 0, 0, 0, 0, gzipOSUnknown}
	acc = append(acc, []byte("file.txt")...)
	acc = append(acc, 0) // NUL terminator

	res, err := parseGzipHeader(acc)
	assert.NoError(t, err)
	assert.True(t, res.ok)
	assert.Equal(t, 10+len("file.txt")+1, res.headerLen)
}

func TestParseGzipHeaderWithNameWaitsForTerminator(t *testing.T) {
	acc := []byte{gzipID1, gzipID2, gzipDeflate, flagName, 0, 0, 0, 0, 0, gzipOSUnknown}
	acc = append(acc, []byte("file")...) // no NUL yet

	res, err := parseGzipHeader(acc)
	assert.NoError(t, err)
	assert.False(t, res.ok)
}

func TestParseGzipHeaderWithExtraAndComment(t *testing.T) {
	acc := []byte{gzipID1, gzipID2, gzipDeflate, flagExtra | flagComment, 0, 0, 0, 0, 0, gzipOSUnknown}
	acc = append(acc, 3, 0)         // XLEN = 3, little-endian
	acc = append(acc, 1, 2, 3)      // extra field bytes
	acc = append(acc, []byte("hi")...)
	acc = append(acc, 0)

	res, err := parseGzipHeader(acc)
	assert.NoError(t, err)
	assert.True(t, res.ok)
	assert.Equal(t, 10+2+3+2+1, res.headerLen)
}

func TestDecoderAcrossByteAtATimeGzipHeader(t *testing.T) {
	enc := NewEncoder(Gzip)
	var chunks []byte
	err := enc.Compress(chunkFrom([]byte("payload")), func(b buffer.Buffer) error {
		data, rerr := b.ReadByteArray(b.Remaining())
		chunks = append(chunks, data...)
		return rerr
	})
	assert.NoError(t, err)
	err = enc.Finish(func(b buffer.Buffer) error {
		data, rerr := b.ReadByteArray(b.Remaining())
		chunks = append(chunks, data...)
		return rerr
	})
	assert.NoError(t, err)

	dec := NewDecoder(Gzip)
	var out []byte
	for i := 0; i < len(chunks); i++ {
		err := dec.Decompress(chunkFrom(chunks[i:i+1]), func(b buffer.Buffer) error {
			data, rerr := b.ReadByteArray(b.Remaining())
			out = append(out, data...)
			return rerr
		})
		assert.NoError(t, err)
	}
	assert.NoError(t, dec.Finish(func(b buffer.Buffer) error {
		data, rerr := b.ReadByteArray(b.Remaining())
		out = append(out, data...)
		return rerr
	}))
	assert.Equal(t, []byte("payload"), out)
}
