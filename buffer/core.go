// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import (
	"fmt"
	"math"
)

// core is the shared implementation behind every contiguous-backed
// storage flavor (Managed, Native, Slice): a single []byte spanning the
// full capacity, plus the three cursors. Generalizes the teacher's
// mbuff.Buffer (which conflated "count" with what spec §3.1 calls the
// limit) by keeping limit as its own field, independent of how much of
// the backing array has actually been written.
type core struct {
	data     []byte
	pos      int
	limit    int
	order    Order
	readOnly bool
	kind     Kind
}

func newCore(capacity int, kind Kind) *core {
	return &core{
		data:  make([]byte, capacity),
		pos:   0,
		limit: capacity,
		order: BigEndian,
		kind:  kind,
	}
}

func (c *core) Kind() Kind      { return c.kind }
func (c *core) ReadOnly() bool  { return c.readOnly }
func (c *core) Capacity() int   { return len(c.data) }
func (c *core) Position() int   { return c.pos }
func (c *core) Limit() int      { return c.limit }
func (c *core) Remaining() int  { return c.limit - c.pos }
func (c *core) HasRemaining() bool { return c.pos < c.limit }
func (c *core) Order() Order    { return c.order }
func (c *core) SetOrder(o Order) { c.order = o }

func (c *core) SetPosition(p int) error {
	if p < 0 || p > c.limit {
		return fmt.Errorf("gromb/buffer: position %d out of [0,%d]: %w", p, c.limit, ErrOutOfRange)
	}
	c.pos = p
	return nil
}

func (c *core) SetLimit(l int) error {
	if l < c.pos || l > len(c.data) {
		return fmt.Errorf("gromb/buffer: limit %d out of [%d,%d]: %w", l, c.pos, len(c.data), ErrOutOfRange)
	}
	c.limit = l
	return nil
}

func (c *core) ResetForRead() {
	c.limit = c.pos
	c.pos = 0
}

func (c *core) ResetForWrite() {
	c.pos = 0
	c.limit = len(c.data)
}

func (c *core) rawBytes() ([]byte, bool) { return c.data, true }

func (c *core) BasePointer() (uintptr, error) {
	return basePointerOf(c.data)
}

// Slice returns a new read[-write] view over [pos,limit) sharing
// storage, per spec §3.1/§4.1. Composing slices of slices is O(1): the
// three-index re-slice keeps the base pointer at parent-base+parent-pos
// and forbids growth past the parent's own limit.
func (c *core) Slice() (Buffer, error) {
	view := c.data[c.pos:c.limit:c.limit]
	nc := &core{
		data:     view,
		pos:      0,
		limit:    len(view),
		order:    c.order,
		readOnly: c.readOnly,
		kind:     Slice,
	}
	return &managed{core: nc}, nil
}

func (c *core) takeN(n int) ([]byte, error) {
	if c.pos+n > c.limit {
		return nil, fmt.Errorf("gromb/buffer: read of %d bytes at pos %d exceeds limit %d: %w", n, c.pos, c.limit, ErrUnderflow)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *core) peekN(index, n int) ([]byte, error) {
	if index < 0 || n < 0 || index+n > c.limit {
		return nil, fmt.Errorf("gromb/buffer: peek of %d bytes at index %d exceeds limit %d: %w", n, index, c.limit, ErrOutOfRange)
	}
	return c.data[index : index+n], nil
}

func (c *core) putN(n int) ([]byte, error) {
	if c.readOnly {
		return nil, fmt.Errorf("gromb/buffer: write to read-only buffer: %w", ErrUnsupported)
	}
	if c.pos+n > c.limit {
		return nil, fmt.Errorf("gromb/buffer: write of %d bytes at pos %d exceeds limit %d: %w", n, c.pos, c.limit, ErrOverflow)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *core) overwriteN(index, n int) ([]byte, error) {
	if c.readOnly {
		return nil, fmt.Errorf("gromb/buffer: overwrite of read-only buffer: %w", ErrUnsupported)
	}
	if index < 0 || n < 0 || index+n > c.limit {
		return nil, fmt.Errorf("gromb/buffer: overwrite of %d bytes at index %d exceeds limit %d: %w", n, index, c.limit, ErrOutOfRange)
	}
	return c.data[index : index+n], nil
}

// --- relative scalar ---

func (c *core) TakeU8() (uint8, error) {
	b, err := c.takeN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *core) TakeI8() (int8, error) {
	v, err := c.TakeU8()
	return int8(v), err
}

func (c *core) TakeU16() (uint16, error) {
	b, err := c.takeN(2)
	if err != nil {
		return 0, err
	}
	return uint16(uintFromBytes(c.order, b)), nil
}

func (c *core) TakeI16() (int16, error) {
	v, err := c.TakeU16()
	return int16(v), err
}

func (c *core) TakeU32() (uint32, error) {
	b, err := c.takeN(4)
	if err != nil {
		return 0, err
	}
	return uint32(uintFromBytes(c.order, b)), nil
}

func (c *core) TakeI32() (int32, error) {
	v, err := c.TakeU32()
	return int32(v), err
}

func (c *core) TakeU64() (uint64, error) {
	b, err := c.takeN(8)
	if err != nil {
		return 0, err
	}
	return uintFromBytes(c.order, b), nil
}

func (c *core) TakeI64() (int64, error) {
	v, err := c.TakeU64()
	return int64(v), err
}

func (c *core) TakeF32() (float32, error) {
	b, err := c.takeN(4)
	if err != nil {
		return 0, err
	}
	return f32FromBits(b, c.order), nil
}

func (c *core) TakeF64() (float64, error) {
	b, err := c.takeN(8)
	if err != nil {
		return 0, err
	}
	return f64FromBits(b, c.order), nil
}

func (c *core) TakeIntN(n int) (int64, error) {
	if err := checkIntN(n); err != nil {
		return 0, err
	}
	b, err := c.takeN(n)
	if err != nil {
		return 0, err
	}
	return signExtend(uintFromBytes(c.order, b), n), nil
}

func (c *core) PutU8(v uint8) error {
	b, err := c.putN(1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (c *core) PutI8(v int8) error { return c.PutU8(uint8(v)) }

func (c *core) PutU16(v uint16) error {
	b, err := c.putN(2)
	if err != nil {
		return err
	}
	putUintBytes(c.order, b, uint64(v))
	return nil
}

func (c *core) PutI16(v int16) error { return c.PutU16(uint16(v)) }

func (c *core) PutU32(v uint32) error {
	b, err := c.putN(4)
	if err != nil {
		return err
	}
	putUintBytes(c.order, b, uint64(v))
	return nil
}

func (c *core) PutI32(v int32) error { return c.PutU32(uint32(v)) }

func (c *core) PutU64(v uint64) error {
	b, err := c.putN(8)
	if err != nil {
		return err
	}
	putUintBytes(c.order, b, v)
	return nil
}

func (c *core) PutI64(v int64) error { return c.PutU64(uint64(v)) }

func (c *core) PutF32(v float32) error {
	return c.PutU32(math.Float32bits(v))
}

func (c *core) PutF64(v float64) error {
	return c.PutU64(math.Float64bits(v))
}

func (c *core) PutIntN(n int, v int64) error {
	if err := checkIntN(n); err != nil {
		return err
	}
	b, err := c.putN(n)
	if err != nil {
		return err
	}
	putUintBytes(c.order, b, uint64(v))
	return nil
}

// --- absolute scalar ---

func (c *core) PeekU8(index int) (uint8, error) {
	b, err := c.peekN(index, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *core) PeekI8(index int) (int8, error) {
	v, err := c.PeekU8(index)
	return int8(v), err
}

func (c *core) PeekU16(index int) (uint16, error) {
	b, err := c.peekN(index, 2)
	if err != nil {
		return 0, err
	}
	return uint16(uintFromBytes(c.order, b)), nil
}

func (c *core) PeekI16(index int) (int16, error) {
	v, err := c.PeekU16(index)
	return int16(v), err
}

func (c *core) PeekU32(index int) (uint32, error) {
	b, err := c.peekN(index, 4)
	if err != nil {
		return 0, err
	}
	return uint32(uintFromBytes(c.order, b)), nil
}

func (c *core) PeekI32(index int) (int32, error) {
	v, err := c.PeekU32(index)
	return int32(v), err
}

func (c *core) PeekU64(index int) (uint64, error) {
	b, err := c.peekN(index, 8)
	if err != nil {
		return 0, err
	}
	return uintFromBytes(c.order, b), nil
}

func (c *core) PeekI64(index int) (int64, error) {
	v, err := c.PeekU64(index)
	return int64(v), err
}

func (c *core) PeekF32(index int) (float32, error) {
	b, err := c.peekN(index, 4)
	if err != nil {
		return 0, err
	}
	return f32FromBits(b, c.order), nil
}

func (c *core) PeekF64(index int) (float64, error) {
	b, err := c.peekN(index, 8)
	if err != nil {
		return 0, err
	}
	return f64FromBits(b, c.order), nil
}

func (c *core) PeekIntN(index, n int) (int64, error) {
	if err := checkIntN(n); err != nil {
		return 0, err
	}
	b, err := c.peekN(index, n)
	if err != nil {
		return 0, err
	}
	return signExtend(uintFromBytes(c.order, b), n), nil
}

func (c *core) OverwriteU8(index int, v uint8) error {
	b, err := c.overwriteN(index, 1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (c *core) OverwriteI8(index int, v int8) error { return c.OverwriteU8(index, uint8(v)) }

func (c *core) OverwriteU16(index int, v uint16) error {
	b, err := c.overwriteN(index, 2)
	if err != nil {
		return err
	}
	putUintBytes(c.order, b, uint64(v))
	return nil
}

func (c *core) OverwriteI16(index int, v int16) error { return c.OverwriteU16(index, uint16(v)) }

func (c *core) OverwriteU32(index int, v uint32) error {
	b, err := c.overwriteN(index, 4)
	if err != nil {
		return err
	}
	putUintBytes(c.order, b, uint64(v))
	return nil
}

func (c *core) OverwriteI32(index int, v int32) error { return c.OverwriteU32(index, uint32(v)) }

func (c *core) OverwriteU64(index int, v uint64) error {
	b, err := c.overwriteN(index, 8)
	if err != nil {
		return err
	}
	putUintBytes(c.order, b, v)
	return nil
}

func (c *core) OverwriteI64(index int, v int64) error { return c.OverwriteU64(index, uint64(v)) }

func (c *core) OverwriteF32(index int, v float32) error {
	return c.OverwriteU32(index, math.Float32bits(v))
}

func (c *core) OverwriteF64(index int, v float64) error {
	return c.OverwriteU64(index, math.Float64bits(v))
}

func (c *core) OverwriteIntN(index, n int, v int64) error {
	if err := checkIntN(n); err != nil {
		return err
	}
	b, err := c.overwriteN(index, n)
	if err != nil {
		return err
	}
	putUintBytes(c.order, b, uint64(v))
	return nil
}

// --- bulk byte ops ---

func (c *core) ReadBytes(n int) (Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("gromb/buffer: negative length %d: %w", n, ErrOutOfRange)
	}
	if c.pos+n > c.limit {
		return nil, fmt.Errorf("gromb/buffer: readBytes of %d exceeds remaining %d: %w", n, c.Remaining(), ErrUnderflow)
	}
	view := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	nc := &core{data: view, pos: 0, limit: n, order: c.order, readOnly: c.readOnly, kind: Slice}
	return &managed{core: nc}, nil
}

func (c *core) ReadByteArray(n int) ([]byte, error) {
	b, err := c.takeN(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (c *core) WriteBytes(src []byte, off, length int) error {
	if off < 0 || length < 0 || off+length > len(src) {
		return fmt.Errorf("gromb/buffer: writeBytes slice [%d:%d] out of range for len %d: %w", off, off+length, len(src), ErrOutOfRange)
	}
	b, err := c.putN(length)
	if err != nil {
		return err
	}
	copy(b, src[off:off+length])
	return nil
}

func (c *core) Write(other Buffer) (int, error) {
	n := other.Remaining()
	b, err := c.putN(n)
	if err != nil {
		return 0, err
	}
	got, err := other.ReadByteArray(n)
	if err != nil {
		return 0, err
	}
	copy(b, got)
	return n, nil
}
