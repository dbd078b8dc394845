// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package stream implements the fragmented stream processor (spec §3.3,
// §4.4) and its auto-refilling wrapper (spec §4.5): a queue of buffer
// chunks presented as one logical, append-ordered byte stream, with
// zero-copy reads where the head chunk covers the request.
package stream

import (
	"fmt"

	"github.com/tayne3/gromb/buffer"
)

// StreamProcessor holds an ordered queue of chunks and presents them as
// one logical stream. Each chunk is an inner buffer.Buffer; its own
// Position/Limit already are the "first-unread offset, past-last
// offset" pair spec §3.3 describes, so no parallel bookkeeping is kept
// here — consuming a chunk is just advancing its Position.
type StreamProcessor struct {
	order  buffer.Order
	chunks []buffer.Buffer
}

// New returns an empty stream processor. Multi-byte peek/read accessors
// assemble bytes in order (spec default is network byte order; callers
// that append little-endian chunks should SetOrder accordingly).
func New() *StreamProcessor {
	return &StreamProcessor{order: buffer.BigEndian}
}

// Order returns the byte order used to assemble multi-byte values.
func (s *StreamProcessor) Order() buffer.Order { return s.order }

// SetOrder changes the byte order used to assemble multi-byte values.
func (s *StreamProcessor) SetOrder(o buffer.Order) { s.order = o }

// Append enqueues a chunk. An empty buffer (no remaining bytes) is
// accepted and silently dropped rather than queued.
func (s *StreamProcessor) Append(b buffer.Buffer) {
	if b == nil || !b.HasRemaining() {
		return
	}
	s.chunks = append(s.chunks, b)
}

// Available is the sum of remaining bytes across all queued chunks.
func (s *StreamProcessor) Available() int {
	n := 0
	for _, c := range s.chunks {
		n += c.Remaining()
	}
	return n
}

// view builds a read-only logical concatenation of the current queue,
// reusing the bulk-ops-capable Fragmented flavor instead of
// re-implementing byte assembly: Peek* never mutates the parts, so a
// fresh view is cheap (no copy) to build per call.
func (s *StreamProcessor) view() buffer.Buffer {
	f := buffer.NewFragmented(s.chunks...)
	f.SetOrder(s.order)
	return f
}

func errUnderflow(op string, want, have int) error {
	return fmt.Errorf("gromb/stream: %s needs %d bytes, %d available: %w", op, want, have, buffer.ErrUnderflow)
}

// PeekByte returns the byte at logical offset off from the logical
// position, without consuming it.
func (s *StreamProcessor) PeekByte(off int) (byte, error) {
	if off < 0 || off >= s.Available() {
		return 0, errUnderflow("peekByte", off+1, s.Available())
	}
	return s.view().PeekU8(off)
}

// PeekShort/PeekInt/PeekLong read a multi-byte value at logical offset
// off without consuming it; the value may straddle a chunk boundary.
func (s *StreamProcessor) PeekShort(off int) (int16, error) {
	if have := s.Available(); off+2 > have {
		return 0, errUnderflow("peekShort", off+2, have)
	}
	return s.view().PeekI16(off)
}

func (s *StreamProcessor) PeekInt(off int) (int32, error) {
	if have := s.Available(); off+4 > have {
		return 0, errUnderflow("peekInt", off+4, have)
	}
	return s.view().PeekI32(off)
}

func (s *StreamProcessor) PeekLong(off int) (int64, error) {
	if have := s.Available(); off+8 > have {
		return 0, errUnderflow("peekLong", off+8, have)
	}
	return s.view().PeekI64(off)
}

// PeekMatches reports whether Available() >= prefix.Remaining() and the
// next prefix.Remaining() bytes equal prefix's remaining bytes. prefix's
// own cursor is left unchanged.
func (s *StreamProcessor) PeekMatches(prefix buffer.Buffer) (bool, error) {
	need := prefix.Remaining()
	if need == 0 {
		return true, nil
	}
	if s.Available() < need {
		return false, nil
	}
	head := s.view()
	if err := head.SetLimit(need); err != nil {
		return false, err
	}
	probe, err := prefix.Slice()
	if err != nil {
		return false, err
	}
	return buffer.Mismatch(head, probe) == -1, nil
}

// advance consumes n logical bytes from the front of the queue,
// dropping and releasing any chunk that becomes fully consumed. Callers
// must have already verified n <= Available().
func (s *StreamProcessor) advance(n int) error {
	for n > 0 && len(s.chunks) > 0 {
		head := s.chunks[0]
		take := head.Remaining()
		if take > n {
			take = n
		}
		if err := head.SetPosition(head.Position() + take); err != nil {
			return err
		}
		n -= take
		if !head.HasRemaining() {
			if err := releaseChunk(head); err != nil {
				return err
			}
			s.chunks = s.chunks[1:]
		}
	}
	return nil
}

// releaseChunk releases a fully consumed chunk to its origin pool if it
// is pool-wrapped (spec §4.4's "chunk release" rule); plain buffers are
// a no-op.
func releaseChunk(b buffer.Buffer) error {
	type releaser interface{ Release() error }
	if r, ok := b.(releaser); ok {
		return r.Release()
	}
	return nil
}

// ReadByte/ReadShort/ReadInt/ReadLong consume sizeof(T) bytes, which may
// span chunks, and advance the logical position.
func (s *StreamProcessor) ReadByte() (int8, error) {
	if have := s.Available(); have < 1 {
		return 0, errUnderflow("readByte", 1, have)
	}
	v, err := s.view().TakeI8()
	if err != nil {
		return 0, err
	}
	return v, s.advance(1)
}

// ReadUnsignedByte consumes one byte, returning it as a non-negative
// small integer.
func (s *StreamProcessor) ReadUnsignedByte() (uint8, error) {
	if have := s.Available(); have < 1 {
		return 0, errUnderflow("readUnsignedByte", 1, have)
	}
	v, err := s.view().TakeU8()
	if err != nil {
		return 0, err
	}
	return v, s.advance(1)
}

func (s *StreamProcessor) ReadShort() (int16, error) {
	if have := s.Available(); have < 2 {
		return 0, errUnderflow("readShort", 2, have)
	}
	v, err := s.view().TakeI16()
	if err != nil {
		return 0, err
	}
	return v, s.advance(2)
}

func (s *StreamProcessor) ReadInt() (int32, error) {
	if have := s.Available(); have < 4 {
		return 0, errUnderflow("readInt", 4, have)
	}
	v, err := s.view().TakeI32()
	if err != nil {
		return 0, err
	}
	return v, s.advance(4)
}

func (s *StreamProcessor) ReadLong() (int64, error) {
	if have := s.Available(); have < 8 {
		return 0, errUnderflow("readLong", 8, have)
	}
	v, err := s.view().TakeI64()
	if err != nil {
		return 0, err
	}
	return v, s.advance(8)
}

// ReadBuffer returns a buffer of the next n bytes, consuming them.
//
// Fast path: if the head chunk alone has >= n bytes remaining, returns a
// zero-copy slice of it (spec §4.4's zero-copy law) and advances only
// that chunk. Slow path: copies across chunk boundaries into a fresh
// managed buffer.
func (s *StreamProcessor) ReadBuffer(n int) (buffer.Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("gromb/stream: readBuffer: negative length %d: %w", n, buffer.ErrOutOfRange)
	}
	if have := s.Available(); have < n {
		return nil, errUnderflow("readBuffer", n, have)
	}
	if n == 0 {
		return buffer.NewManagedReadOnlyFrom(nil), nil
	}
	if len(s.chunks) > 0 && s.chunks[0].Remaining() >= n {
		out, err := s.chunks[0].ReadBytes(n)
		if err != nil {
			return nil, err
		}
		if !s.chunks[0].HasRemaining() {
			if err := releaseChunk(s.chunks[0]); err != nil {
				return nil, err
			}
			s.chunks = s.chunks[1:]
		}
		return out, nil
	}
	data, err := s.view().ReadByteArray(n)
	if err != nil {
		return nil, err
	}
	if err := s.advance(n); err != nil {
		return nil, err
	}
	return buffer.NewManagedReadOnlyFrom(data), nil
}

// Skip advances the logical position by n, dropping and releasing any
// chunk fully consumed along the way.
func (s *StreamProcessor) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("gromb/stream: skip: negative length %d: %w", n, buffer.ErrOutOfRange)
	}
	if have := s.Available(); have < n {
		return errUnderflow("skip", n, have)
	}
	return s.advance(n)
}

// Release drops all queued chunks, releasing any pool-wrapped ones.
func (s *StreamProcessor) Release() error {
	for _, c := range s.chunks {
		if err := releaseChunk(c); err != nil {
			s.chunks = nil
			return err
		}
	}
	s.chunks = nil
	return nil
}
