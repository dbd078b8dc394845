// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bufpool

import (
	"github.com/tayne3/gromb/buffer"
)

// Pooled is the pool-tracked wrapper of spec.md §3.2: an inner
// read-write buffer, a back-pointer to the owning pool, and a released
// flag. It implements buffer.Buffer by delegating every operation to
// the inner buffer. After release, every method with an error result
// fails ErrClosed and ReadLine reports ("", false); the methods without
// an error result (Kind, ReadOnly, Capacity, Position, Limit, Remaining,
// HasRemaining, Order, SetOrder, ResetForRead, ResetForWrite) are not
// guarded and keep delegating to the inner buffer. The released check
// generalizes the teacher corpus's use-after-free guard (yarpc's
// bufferpool.Buffer preOp/postOp version check) from a manually
// delegated concrete *bytes.Buffer wrapper to a guarded embed of the
// buffer.Buffer interface, since gromb wraps an interface rather than a
// concrete type.
type Pooled struct {
	inner    buffer.Buffer
	pool     Pool
	released bool
}

func newPooled(inner buffer.Buffer, pool Pool) *Pooled {
	return &Pooled{inner: inner, pool: pool}
}

func (p *Pooled) checkReleased(op string) error {
	if p.released {
		return closedErr(op)
	}
	return nil
}

// Release returns the buffer to its owning pool. Idempotent: a second
// call is a no-op per spec.md §3.2.
func (p *Pooled) Release() error {
	return p.pool.Release(p)
}

func (p *Pooled) Kind() buffer.Kind     { return p.inner.Kind() }
func (p *Pooled) ReadOnly() bool        { return p.inner.ReadOnly() }
func (p *Pooled) Capacity() int         { return p.inner.Capacity() }
func (p *Pooled) Position() int         { return p.inner.Position() }
func (p *Pooled) Limit() int            { return p.inner.Limit() }
func (p *Pooled) Remaining() int        { return p.inner.Remaining() }
func (p *Pooled) HasRemaining() bool    { return p.inner.HasRemaining() }
func (p *Pooled) Order() buffer.Order   { return p.inner.Order() }

func (p *Pooled) SetOrder(o buffer.Order) { p.inner.SetOrder(o) }

func (p *Pooled) SetPosition(pos int) error {
	if err := p.checkReleased("setPosition"); err != nil {
		return err
	}
	return p.inner.SetPosition(pos)
}

func (p *Pooled) SetLimit(l int) error {
	if err := p.checkReleased("setLimit"); err != nil {
		return err
	}
	return p.inner.SetLimit(l)
}

func (p *Pooled) ResetForRead() { p.inner.ResetForRead() }
func (p *Pooled) ResetForWrite() { p.inner.ResetForWrite() }

func (p *Pooled) Slice() (buffer.Buffer, error) {
	if err := p.checkReleased("slice"); err != nil {
		return nil, err
	}
	return p.inner.Slice()
}

func (p *Pooled) ReadBytes(n int) (buffer.Buffer, error) {
	if err := p.checkReleased("readBytes"); err != nil {
		return nil, err
	}
	return p.inner.ReadBytes(n)
}

func (p *Pooled) ReadByteArray(n int) ([]byte, error) {
	if err := p.checkReleased("readByteArray"); err != nil {
		return nil, err
	}
	return p.inner.ReadByteArray(n)
}

func (p *Pooled) WriteBytes(src []byte, off, length int) error {
	if err := p.checkReleased("writeBytes"); err != nil {
		return err
	}
	return p.inner.WriteBytes(src, off, length)
}

func (p *Pooled) Write(other buffer.Buffer) (int, error) {
	if err := p.checkReleased("write"); err != nil {
		return 0, err
	}
	return p.inner.Write(other)
}

func (p *Pooled) BasePointer() (uintptr, error) {
	if err := p.checkReleased("basePointer"); err != nil {
		return 0, err
	}
	return p.inner.BasePointer()
}

func (p *Pooled) TakeU8() (uint8, error) {
	if err := p.checkReleased("takeU8"); err != nil {
		return 0, err
	}
	return p.inner.TakeU8()
}

func (p *Pooled) TakeI8() (int8, error) {
	if err := p.checkReleased("takeI8"); err != nil {
		return 0, err
	}
	return p.inner.TakeI8()
}

func (p *Pooled) TakeU16() (uint16, error) {
	if err := p.checkReleased("takeU16"); err != nil {
		return 0, err
	}
	return p.inner.TakeU16()
}

func (p *Pooled) TakeI16() (int16, error) {
	if err := p.checkReleased("takeI16"); err != nil {
		return 0, err
	}
	return p.inner.TakeI16()
}

func (p *Pooled) TakeU32() (uint32, error) {
	if err := p.checkReleased("takeU32"); err != nil {
		return 0, err
	}
	return p.inner.TakeU32()
}

func (p *Pooled) TakeI32() (int32, error) {
	if err := p.checkReleased("takeI32"); err != nil {
		return 0, err
	}
	return p.inner.TakeI32()
}

func (p *Pooled) TakeU64() (uint64, error) {
	if err := p.checkReleased("takeU64"); err != nil {
		return 0, err
	}
	return p.inner.TakeU64()
}

func (p *Pooled) TakeI64() (int64, error) {
	if err := p.checkReleased("takeI64"); err != nil {
		return 0, err
	}
	return p.inner.TakeI64()
}

func (p *Pooled) TakeF32() (float32, error) {
	if err := p.checkReleased("takeF32"); err != nil {
		return 0, err
	}
	return p.inner.TakeF32()
}

func (p *Pooled) TakeF64() (float64, error) {
	if err := p.checkReleased("takeF64"); err != nil {
		return 0, err
	}
	return p.inner.TakeF64()
}

func (p *Pooled) TakeIntN(n int) (int64, error) {
	if err := p.checkReleased("takeIntN"); err != nil {
		return 0, err
	}
	return p.inner.TakeIntN(n)
}

func (p *Pooled) PutU8(v uint8) error {
	if err := p.checkReleased("putU8"); err != nil {
		return err
	}
	return p.inner.PutU8(v)
}

func (p *Pooled) PutI8(v int8) error {
	if err := p.checkReleased("putI8"); err != nil {
		return err
	}
	return p.inner.PutI8(v)
}

func (p *Pooled) PutU16(v uint16) error {
	if err := p.checkReleased("putU16"); err != nil {
		return err
	}
	return p.inner.PutU16(v)
}

func (p *Pooled) PutI16(v int16) error {
	if err := p.checkReleased("putI16"); err != nil {
		return err
	}
	return p.inner.PutI16(v)
}

func (p *Pooled) PutU32(v uint32) error {
	if err := p.checkReleased("putU32"); err != nil {
		return err
	}
	return p.inner.PutU32(v)
}

func (p *Pooled) PutI32(v int32) error {
	if err := p.checkReleased("putI32"); err != nil {
		return err
	}
	return p.inner.PutI32(v)
}

func (p *Pooled) PutU64(v uint64) error {
	if err := p.checkReleased("putU64"); err != nil {
		return err
	}
	return p.inner.PutU64(v)
}

func (p *Pooled) PutI64(v int64) error {
	if err := p.checkReleased("putI64"); err != nil {
		return err
	}
	return p.inner.PutI64(v)
}

func (p *Pooled) PutF32(v float32) error {
	if err := p.checkReleased("putF32"); err != nil {
		return err
	}
	return p.inner.PutF32(v)
}

func (p *Pooled) PutF64(v float64) error {
	if err := p.checkReleased("putF64"); err != nil {
		return err
	}
	return p.inner.PutF64(v)
}

func (p *Pooled) PutIntN(n int, v int64) error {
	if err := p.checkReleased("putIntN"); err != nil {
		return err
	}
	return p.inner.PutIntN(n, v)
}

func (p *Pooled) PeekU8(index int) (uint8, error) {
	if err := p.checkReleased("peekU8"); err != nil {
		return 0, err
	}
	return p.inner.PeekU8(index)
}

func (p *Pooled) PeekI8(index int) (int8, error) {
	if err := p.checkReleased("peekI8"); err != nil {
		return 0, err
	}
	return p.inner.PeekI8(index)
}

func (p *Pooled) PeekU16(index int) (uint16, error) {
	if err := p.checkReleased("peekU16"); err != nil {
		return 0, err
	}
	return p.inner.PeekU16(index)
}

func (p *Pooled) PeekI16(index int) (int16, error) {
	if err := p.checkReleased("peekI16"); err != nil {
		return 0, err
	}
	return p.inner.PeekI16(index)
}

func (p *Pooled) PeekU32(index int) (uint32, error) {
	if err := p.checkReleased("peekU32"); err != nil {
		return 0, err
	}
	return p.inner.PeekU32(index)
}

func (p *Pooled) PeekI32(index int) (int32, error) {
	if err := p.checkReleased("peekI32"); err != nil {
		return 0, err
	}
	return p.inner.PeekI32(index)
}

func (p *Pooled) PeekU64(index int) (uint64, error) {
	if err := p.checkReleased("peekU64"); err != nil {
		return 0, err
	}
	return p.inner.PeekU64(index)
}

func (p *Pooled) PeekI64(index int) (int64, error) {
	if err := p.checkReleased("peekI64"); err != nil {
		return 0, err
	}
	return p.inner.PeekI64(index)
}

func (p *Pooled) PeekF32(index int) (float32, error) {
	if err := p.checkReleased("peekF32"); err != nil {
		return 0, err
	}
	return p.inner.PeekF32(index)
}

func (p *Pooled) PeekF64(index int) (float64, error) {
	if err := p.checkReleased("peekF64"); err != nil {
		return 0, err
	}
	return p.inner.PeekF64(index)
}

func (p *Pooled) PeekIntN(index, n int) (int64, error) {
	if err := p.checkReleased("peekIntN"); err != nil {
		return 0, err
	}
	return p.inner.PeekIntN(index, n)
}

func (p *Pooled) OverwriteU8(index int, v uint8) error {
	if err := p.checkReleased("overwriteU8"); err != nil {
		return err
	}
	return p.inner.OverwriteU8(index, v)
}

func (p *Pooled) OverwriteI8(index int, v int8) error {
	if err := p.checkReleased("overwriteI8"); err != nil {
		return err
	}
	return p.inner.OverwriteI8(index, v)
}

func (p *Pooled) OverwriteU16(index int, v uint16) error {
	if err := p.checkReleased("overwriteU16"); err != nil {
		return err
	}
	return p.inner.OverwriteU16(index, v)
}

func (p *Pooled) OverwriteI16(index int, v int16) error {
	if err := p.checkReleased("overwriteI16"); err != nil {
		return err
	}
	return p.inner.OverwriteI16(index, v)
}

func (p *Pooled) OverwriteU32(index int, v uint32) error {
	if err := p.checkReleased("overwriteU32"); err != nil {
		return err
	}
	return p.inner.OverwriteU32(index, v)
}

func (p *Pooled) OverwriteI32(index int, v int32) error {
	if err := p.checkReleased("overwriteI32"); err != nil {
		return err
	}
	return p.inner.OverwriteI32(index, v)
}

func (p *Pooled) OverwriteU64(index int, v uint64) error {
	if err := p.checkReleased("overwriteU64"); err != nil {
		return err
	}
	return p.inner.OverwriteU64(index, v)
}

func (p *Pooled) OverwriteI64(index int, v int64) error {
	if err := p.checkReleased("overwriteI64"); err != nil {
		return err
	}
	return p.inner.OverwriteI64(index, v)
}

func (p *Pooled) OverwriteF32(index int, v float32) error {
	if err := p.checkReleased("overwriteF32"); err != nil {
		return err
	}
	return p.inner.OverwriteF32(index, v)
}

func (p *Pooled) OverwriteF64(index int, v float64) error {
	if err := p.checkReleased("overwriteF64"); err != nil {
		return err
	}
	return p.inner.OverwriteF64(index, v)
}

func (p *Pooled) OverwriteIntN(index, n int, v int64) error {
	if err := p.checkReleased("overwriteIntN"); err != nil {
		return err
	}
	return p.inner.OverwriteIntN(index, n, v)
}

func (p *Pooled) ReadString(n int) (string, error) {
	if err := p.checkReleased("readString"); err != nil {
		return "", err
	}
	return p.inner.ReadString(n)
}

func (p *Pooled) WriteString(s string) error {
	if err := p.checkReleased("writeString"); err != nil {
		return err
	}
	return p.inner.WriteString(s)
}

func (p *Pooled) ReadLine() (string, bool) {
	if p.released {
		return "", false
	}
	return p.inner.ReadLine()
}
