// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"context"
	"errors"
	"io"

	"github.com/tayne3/gromb/buffer"
)

// RefillFunc supplies more chunks to s, returning io.EOF when no further
// bytes will ever arrive. It is the Go rendition of spec §4.5's
// suspending refill callback: an ordinary blocking function taking a
// context.Context, rather than a bespoke coroutine type, per the
// module's concurrency model (spec §5) where context cancellation is
// the idiomatic substitute for cooperative suspension.
type RefillFunc func(ctx context.Context, s *StreamProcessor) error

// AutoRefillStream wraps a StreamProcessor, pulling more chunks via
// Refill whenever a read/peek operation needs more bytes than are
// currently available.
type AutoRefillStream struct {
	*StreamProcessor
	Refill RefillFunc

	eof bool // refill has signalled end-of-stream; no further calls are made
}

// NewAutoRefillStream wraps an existing stream processor (or a fresh
// one, if s is nil) with refill.
func NewAutoRefillStream(s *StreamProcessor, refill RefillFunc) *AutoRefillStream {
	if s == nil {
		s = New()
	}
	return &AutoRefillStream{StreamProcessor: s, Refill: refill}
}

// ensure calls Refill until Available() >= need, ctx is done, or refill
// signals end-of-stream. On cancellation or end-of-stream before need is
// met, the underlying stream is left exactly as refill last left it —
// no partial chunk is ever touched by ensure itself, so the stream
// remains consistent for a later retry.
func (a *AutoRefillStream) ensure(ctx context.Context, need int) error {
	for a.Available() < need {
		if a.eof {
			return ErrEndOfStream
		}
		if err := ctx.Err(); err != nil {
			return ErrCancelled
		}
		if err := a.Refill(ctx, a.StreamProcessor); err != nil {
			if errors.Is(err, io.EOF) {
				a.eof = true
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ErrCancelled
			}
			return err
		}
	}
	return nil
}

func (a *AutoRefillStream) PeekByte(ctx context.Context, off int) (byte, error) {
	if err := a.ensure(ctx, off+1); err != nil {
		return 0, err
	}
	return a.StreamProcessor.PeekByte(off)
}

func (a *AutoRefillStream) PeekShort(ctx context.Context, off int) (int16, error) {
	if err := a.ensure(ctx, off+2); err != nil {
		return 0, err
	}
	return a.StreamProcessor.PeekShort(off)
}

func (a *AutoRefillStream) PeekInt(ctx context.Context, off int) (int32, error) {
	if err := a.ensure(ctx, off+4); err != nil {
		return 0, err
	}
	return a.StreamProcessor.PeekInt(off)
}

func (a *AutoRefillStream) PeekLong(ctx context.Context, off int) (int64, error) {
	if err := a.ensure(ctx, off+8); err != nil {
		return 0, err
	}
	return a.StreamProcessor.PeekLong(off)
}

func (a *AutoRefillStream) ReadByte(ctx context.Context) (int8, error) {
	if err := a.ensure(ctx, 1); err != nil {
		return 0, err
	}
	return a.StreamProcessor.ReadByte()
}

func (a *AutoRefillStream) ReadUnsignedByte(ctx context.Context) (uint8, error) {
	if err := a.ensure(ctx, 1); err != nil {
		return 0, err
	}
	return a.StreamProcessor.ReadUnsignedByte()
}

func (a *AutoRefillStream) ReadShort(ctx context.Context) (int16, error) {
	if err := a.ensure(ctx, 2); err != nil {
		return 0, err
	}
	return a.StreamProcessor.ReadShort()
}

func (a *AutoRefillStream) ReadInt(ctx context.Context) (int32, error) {
	if err := a.ensure(ctx, 4); err != nil {
		return 0, err
	}
	return a.StreamProcessor.ReadInt()
}

func (a *AutoRefillStream) ReadLong(ctx context.Context) (int64, error) {
	if err := a.ensure(ctx, 8); err != nil {
		return 0, err
	}
	return a.StreamProcessor.ReadLong()
}

// ReadBuffer ensures n bytes are available, refilling as needed, then
// reads them per StreamProcessor.ReadBuffer's zero-copy/slow-path rule.
func (a *AutoRefillStream) ReadBuffer(ctx context.Context, n int) (buffer.Buffer, error) {
	if err := a.ensure(ctx, n); err != nil {
		return nil, err
	}
	return a.StreamProcessor.ReadBuffer(n)
}

// Skip ensures n bytes are available, refilling as needed, then skips
// them.
func (a *AutoRefillStream) Skip(ctx context.Context, n int) error {
	if err := a.ensure(ctx, n); err != nil {
		return err
	}
	return a.StreamProcessor.Skip(n)
}
