// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deflate

import (
	"encoding/binary"
	"hash"
	"hash/adler32"
	"hash/crc32"

	"github.com/klauspost/compress/flate"

	"github.com/tayne3/gromb/buffer"
	"github.com/tayne3/gromb/bufpool"
)

type encoderState int

const (
	encInit encoderState = iota
	encRunning
	encFinishing
	encDone
	encClosed
)

// EncoderOption configures an Encoder at construction time.
type EncoderOption func(*encoderConfig)

type encoderConfig struct {
	level     int
	alloc     bufpool.Allocator
	chunkSize int
}

// WithLevel sets the DEFLATE compression level (flate.BestSpeed ..
// flate.BestCompression, or flate.DefaultCompression).
func WithLevel(level int) EncoderOption {
	return func(c *encoderConfig) { c.level = level }
}

// WithOutputAllocator overrides how the encoder obtains its output
// chunks (spec §6.1: "a user supplies a custom Allocator ... to control
// output-buffer origin").
func WithOutputAllocator(a bufpool.Allocator) EncoderOption {
	return func(c *encoderConfig) { c.alloc = a }
}

// WithOutputChunkSize sets the size of each handed-off output buffer.
func WithOutputChunkSize(n int) EncoderOption {
	return func(c *encoderConfig) { c.chunkSize = n }
}

// WithWindowBits is accepted for spec parity but not honored:
// klauspost/compress/flate fixes the window at the RFC 1951 32 KiB
// default and exposes no way to shrink it (see Open Question decision
// 4 in DESIGN.md).
func WithWindowBits(int) EncoderOption {
	return func(*encoderConfig) {}
}

// Encoder is a resumable DEFLATE/ZLIB/GZIP encoder (spec §4.7.1): input
// arrives as discrete buffer.Buffer chunks via Compress, and completed
// output chunks are handed to a caller-supplied callback as soon as
// they fill, rather than being returned from a single blocking call.
type Encoder struct {
	format Format
	cfg    encoderConfig
	state  encoderState

	flw  *flate.Writer
	sink *buffer.Growable

	crc   uint32      // gzip: running CRC32 (IEEE)
	adler hash.Hash32  // zlib: running Adler-32
	size  uint32
}

// NewEncoder returns an encoder producing format-wrapped DEFLATE
// output at the given compression level.
func NewEncoder(format Format, opts ...EncoderOption) *Encoder {
	cfg := encoderConfig{level: flate.DefaultCompression, alloc: bufpool.HeapAllocator{}, chunkSize: defaultOutputSize}
	for _, o := range opts {
		o(&cfg)
	}
	return &Encoder{format: format, cfg: cfg, sink: buffer.NewGrowable(cfg.chunkSize)}
}

// Emit receives a completed (or final, possibly partial) output chunk.
type Emit func(buffer.Buffer) error

func (e *Encoder) start() {
	var header []byte
	switch e.format {
	case Gzip:
		header = writeGzipHeader(nil)
	case Zlib:
		cmf := byte(zlibCINFO | zlibCM8)
		flg := byte((31 - (int(cmf)*256)%31) % 31)
		header = []byte{cmf, flg}
	}
	e.sink.Write(header)
	e.flw = flate.NewWriter(e.sink, e.cfg.level)
	if e.format == Zlib {
		e.adler = adler32.New()
	}
	e.state = encRunning
}

// Compress feeds chunk's remaining bytes into the codec, emitting
// completed output chunks via emit as they fill.
func (e *Encoder) Compress(chunk buffer.Buffer, emit Emit) error {
	switch e.state {
	case encClosed:
		return buffer.ErrClosed
	case encInit:
		e.start()
	case encFinishing, encDone:
		return ErrMalformedCompressedData
	}

	data, err := chunk.ReadByteArray(chunk.Remaining())
	if err != nil {
		return err
	}
	switch e.format {
	case Gzip:
		e.crc = crc32.Update(e.crc, crc32.IEEETable, data)
	case Zlib:
		e.adler.Write(data)
	}
	e.size += uint32(len(data))
	if _, err := e.flw.Write(data); err != nil {
		return err
	}
	return e.drain(emit, false)
}

// Flush forces a Z_SYNC_FLUSH point (a deflate empty stored block, whose
// LEN/NLEN bytes form the trailing 00 00 FF FF), then hands off whatever output has
// accumulated so far, even if it doesn't fill a whole chunk.
func (e *Encoder) Flush(emit Emit) error {
	if e.state != encRunning {
		return buffer.ErrClosed
	}
	if err := e.flw.Flush(); err != nil {
		return err
	}
	return e.drain(emit, true)
}

// Finish closes the DEFLATE stream, appends the format trailer, and
// hands off all remaining output (partial chunk included).
func (e *Encoder) Finish(emit Emit) error {
	if e.state == encInit {
		e.start()
	}
	if e.state != encRunning {
		return buffer.ErrClosed
	}
	e.state = encFinishing
	if err := e.flw.Close(); err != nil {
		return err
	}
	switch e.format {
	case Gzip:
		e.sink.Write(writeGzipTrailer(nil, e.crc, e.size))
	case Zlib:
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], e.adler.Sum32())
		e.sink.Write(tmp[:])
	}
	if err := e.drain(emit, true); err != nil {
		return err
	}
	e.state = encDone
	return nil
}

// Reset discards any in-flight state and returns the encoder to Init,
// ready to encode a fresh logical stream.
func (e *Encoder) Reset() {
	e.flw = nil
	e.sink.Reset()
	e.crc = 0
	e.adler = nil
	e.size = 0
	e.state = encInit
}

// Close releases the codec context. Further operations fail ErrClosed.
func (e *Encoder) Close() error {
	e.flw = nil
	e.state = encClosed
	return nil
}

// drain pulls complete chunkSize-sized output buffers out of the sink,
// emitting each via emit. When force is true, a final undersized
// remainder is emitted too (used by Flush and Finish).
func (e *Encoder) drain(emit Emit, force bool) error {
	for e.sink.Len() >= e.cfg.chunkSize {
		if err := e.emitN(emit, e.cfg.chunkSize); err != nil {
			return err
		}
	}
	if force && e.sink.Len() > 0 {
		if err := e.emitN(emit, e.sink.Len()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) emitN(emit Emit, n int) error {
	out, err := e.cfg.alloc.Allocate(n)
	if err != nil {
		return err
	}
	if err := out.WriteBytes(e.sink.Next(n), 0, n); err != nil {
		return err
	}
	out.ResetForRead()
	return emit(out)
}
