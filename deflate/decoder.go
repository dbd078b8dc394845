// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deflate

import (
	"encoding/binary"
	"hash/adler32"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/tayne3/gromb/buffer"
	"github.com/tayne3/gromb/bufpool"
)

type decoderState int

const (
	decInit decoderState = iota
	decHeaderParsing
	decRunning
	decDraining // gzip/zlib trailer bytes pending
	decDone
	decClosed
)

// DecoderOption configures a Decoder at construction time.
type DecoderOption func(*decoderConfig)

type decoderConfig struct {
	alloc     bufpool.Allocator
	chunkSize int
}

// WithInputAllocator overrides how the decoder obtains output chunks.
func WithInputAllocator(a bufpool.Allocator) DecoderOption {
	return func(c *decoderConfig) { c.alloc = a }
}

// WithDecoderChunkSize sets the size of each handed-off output buffer.
func WithDecoderChunkSize(n int) DecoderOption {
	return func(c *decoderConfig) { c.chunkSize = n }
}

// WithDecoderWindowBits mirrors WithWindowBits; also a documented no-op.
func WithDecoderWindowBits(int) DecoderOption {
	return func(*decoderConfig) {}
}

// chunkReader bridges synchronously-pushed []byte chunks into the
// io.Reader contract flate.Reader expects. Read returns io.EOF once its
// queue is momentarily empty — that is NOT necessarily the true end of
// input, only "nothing more right now"; the decoder's drain loop tells
// the two apart the same way RFC 7692 distinguishes a deliberate
// mid-stream pause from a genuine end-of-stream.
type chunkReader struct {
	pending [][]byte
}

func (c *chunkReader) push(b []byte) {
	if len(b) > 0 {
		c.pending = append(c.pending, b)
	}
}

func (c *chunkReader) Read(p []byte) (int, error) {
	for len(c.pending) > 0 && len(c.pending[0]) == 0 {
		c.pending = c.pending[1:]
	}
	if len(c.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.pending[0])
	c.pending[0] = c.pending[0][n:]
	if len(c.pending[0]) == 0 {
		c.pending = c.pending[1:]
	}
	return n, nil
}

// ReadByte makes chunkReader an io.ByteReader, so flate.NewReader reads
// from it directly (no read-ahead bufio.Reader) and leaves any bytes
// past the end of the DEFLATE stream in pending.
func (c *chunkReader) ReadByte() (byte, error) {
	for len(c.pending) > 0 && len(c.pending[0]) == 0 {
		c.pending = c.pending[1:]
	}
	if len(c.pending) == 0 {
		return 0, io.EOF
	}
	b := c.pending[0][0]
	c.pending[0] = c.pending[0][1:]
	return b, nil
}

// Decoder is a resumable DEFLATE/ZLIB/GZIP decoder (spec §4.7.2): input
// arrives as discrete buffer.Buffer chunks via Decompress, and
// completed output chunks are handed to a caller-supplied callback.
type Decoder struct {
	format Format
	cfg    decoderConfig
	state  decoderState

	headerAcc []byte // gzip/zlib: bytes accumulated while parsing the header
	trailerAcc []byte // gzip/zlib: trailer bytes accumulated after natural end

	src *chunkReader
	flr io.ReadCloser

	crc  uint32
	adler hashAdler
	size uint32

	naturalEnd bool
}

// hashAdler is a tiny indirection so Decoder doesn't need "hash" in its
// field type spelled out twice; adler32.New() satisfies it.
type hashAdler interface {
	Write(p []byte) (int, error)
	Sum32() uint32
}

// NewDecoder returns a decoder expecting format-wrapped DEFLATE input.
func NewDecoder(format Format, opts ...DecoderOption) *Decoder {
	cfg := decoderConfig{alloc: bufpool.HeapAllocator{}, chunkSize: defaultOutputSize}
	for _, o := range opts {
		o(&cfg)
	}
	return &Decoder{format: format, cfg: cfg}
}

// Decompress feeds chunk's remaining bytes into the codec, emitting
// completed output chunks via emit as they fill.
func (d *Decoder) Decompress(chunk buffer.Buffer, emit Emit) error {
	if d.state == decClosed || d.state == decDone {
		if d.state == decClosed {
			return buffer.ErrClosed
		}
		return nil
	}
	data, err := chunk.ReadByteArray(chunk.Remaining())
	if err != nil {
		return err
	}

	switch d.state {
	case decInit:
		switch d.format {
		case Gzip, Zlib:
			d.state = decHeaderParsing
			d.headerAcc = append(d.headerAcc, data...)
			if err := d.tryParseHeader(); err != nil {
				return err
			}
			if d.state == decHeaderParsing {
				return nil // header incomplete, wait for more bytes
			}
		case Raw:
			d.beginRunning()
			d.src.push(data)
		}
	case decHeaderParsing:
		d.headerAcc = append(d.headerAcc, data...)
		if err := d.tryParseHeader(); err != nil {
			return err
		}
		if d.state == decHeaderParsing {
			return nil
		}
	case decRunning:
		d.src.push(data)
	case decDraining:
		d.trailerAcc = append(d.trailerAcc, data...)
		return d.tryFinishTrailer(emit)
	}

	if d.state != decRunning {
		return nil
	}
	return d.drain(emit, false)
}

// beginRunning constructs the chunkReader and flate.Reader pair and
// feeds it any header-adjacent leftover bytes.
func (d *Decoder) beginRunning() {
	d.src = &chunkReader{}
	d.flr = flate.NewReader(d.src)
	if d.format == Zlib {
		d.adler = adler32.New()
	}
	d.state = decRunning
}

// tryParseHeader attempts to resolve the accumulated header bytes into
// a known-length header. Leftover bytes past the header are fed
// straight into the DEFLATE reader.
func (d *Decoder) tryParseHeader() error {
	switch d.format {
	case Gzip:
		res, err := parseGzipHeader(d.headerAcc)
		if err != nil {
			return err
		}
		if !res.ok {
			return nil
		}
		leftover := d.headerAcc[res.headerLen:]
		d.headerAcc = nil
		d.beginRunning()
		d.src.push(leftover)
	case Zlib:
		if len(d.headerAcc) < 2 {
			return nil
		}
		cmf, flg := d.headerAcc[0], d.headerAcc[1]
		if cmf&0x0f != zlibCM8 {
			return ErrMalformedCompressedData
		}
		if (int(cmf)*256+int(flg))%31 != 0 {
			return ErrMalformedCompressedData
		}
		if flg&0x20 != 0 {
			return ErrNeedDictionary
		}
		leftover := d.headerAcc[2:]
		d.headerAcc = nil
		d.beginRunning()
		d.src.push(leftover)
	}
	return nil
}

// drain reads decompressed bytes out of the DEFLATE reader, updating
// the running checksum and handing off completed output chunks.
func (d *Decoder) drain(emit Emit, finishing bool) error {
	tmp := make([]byte, d.cfg.chunkSize)
	var out []byte
	for {
		n, err := d.flr.Read(tmp)
		if n > 0 {
			out = append(out, tmp[:n]...)
			switch d.format {
			case Gzip:
				d.crc = crc32.Update(d.crc, crc32.IEEETable, tmp[:n])
			case Zlib:
				d.adler.Write(tmp[:n])
			}
			d.size += uint32(n)
			for len(out) >= d.cfg.chunkSize {
				if err := d.emitN(emit, out[:d.cfg.chunkSize]); err != nil {
					return err
				}
				out = out[d.cfg.chunkSize:]
			}
		}
		if err == nil {
			continue
		}
		if err == io.EOF {
			d.naturalEnd = true
			break
		}
		if err == io.ErrUnexpectedEOF {
			if finishing {
				if d.format == Raw {
					d.naturalEnd = true
					break
				}
				return ErrMalformedCompressedData
			}
			break // waiting for more input
		}
		return ErrMalformedCompressedData
	}
	if len(out) > 0 {
		if err := d.emitN(emit, out); err != nil {
			return err
		}
	}
	if d.naturalEnd {
		return d.onNaturalEnd(emit)
	}
	return nil
}

func (d *Decoder) onNaturalEnd(emit Emit) error {
	switch d.format {
	case Raw:
		d.state = decDone
		return nil
	case Gzip:
		d.state = decDraining
		d.trailerAcc = append(d.trailerAcc, drainLeftover(d.src)...)
		return d.tryFinishTrailer(emit)
	case Zlib:
		d.state = decDraining
		d.trailerAcc = append(d.trailerAcc, drainLeftover(d.src)...)
		return d.tryFinishTrailer(emit)
	}
	return nil
}

// drainLeftover pulls whatever bytes the chunkReader still holds
// (chunkReader is an io.ByteReader, so flate.Reader reads no further
// than the end of the final block; any trailer bytes already pushed are
// sitting here unread).
func drainLeftover(c *chunkReader) []byte {
	var out []byte
	for _, b := range c.pending {
		out = append(out, b...)
	}
	c.pending = nil
	return out
}

func (d *Decoder) tryFinishTrailer(emit Emit) error {
	want := 8
	if d.format == Zlib {
		want = 4
	}
	if len(d.trailerAcc) < want {
		return nil // wait for more bytes
	}
	switch d.format {
	case Gzip:
		wantCRC := binary.LittleEndian.Uint32(d.trailerAcc[0:4])
		wantSize := binary.LittleEndian.Uint32(d.trailerAcc[4:8])
		if wantCRC != d.crc || wantSize != d.size {
			return ErrMalformedCompressedData
		}
	case Zlib:
		wantAdler := binary.BigEndian.Uint32(d.trailerAcc[0:4])
		if wantAdler != d.adler.Sum32() {
			return ErrMalformedCompressedData
		}
	}
	d.state = decDone
	return nil
}

func (d *Decoder) emitN(emit Emit, data []byte) error {
	out, err := d.cfg.alloc.Allocate(len(data))
	if err != nil {
		return err
	}
	if err := out.WriteBytes(data, 0, len(data)); err != nil {
		return err
	}
	out.ResetForRead()
	return emit(out)
}

// Finish signals that no further input will arrive, draining whatever
// the codec can still produce and validating any pending trailer.
// For Format.Raw with no natural final-block marker yet seen, absence
// of further output is itself treated as end-of-stream (RFC 7692
// convention), not an error.
func (d *Decoder) Finish(emit Emit) error {
	if d.state == decClosed {
		return buffer.ErrClosed
	}
	if d.state == decInit || d.state == decHeaderParsing {
		return ErrMalformedCompressedData
	}
	if d.state == decDone {
		return nil
	}
	if d.state == decDraining {
		return ErrMalformedCompressedData
	}
	if err := d.drain(emit, true); err != nil {
		return err
	}
	if d.state != decDone {
		return ErrMalformedCompressedData
	}
	return nil
}

// Reset discards in-flight state, returning the decoder to Init.
func (d *Decoder) Reset() {
	d.headerAcc = nil
	d.trailerAcc = nil
	d.src = nil
	d.flr = nil
	d.crc = 0
	d.adler = nil
	d.size = 0
	d.naturalEnd = false
	d.state = decInit
}

// Close releases the codec context. Further operations fail ErrClosed.
func (d *Decoder) Close() error {
	if d.flr != nil {
		d.flr.Close()
	}
	d.flr = nil
	d.state = decClosed
	return nil
}
