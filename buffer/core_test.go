// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagedCursorInvariant(t *testing.T) {
	b := NewManaged(10)
	assert.Equal(t, 10, b.Capacity())
	assert.Equal(t, 0, b.Position())
	assert.Equal(t, 10, b.Limit())
	assert.Equal(t, 10, b.Remaining())
	assert.True(t, b.HasRemaining())

	assert.NoError(t, b.SetPosition(4))
	assert.Equal(t, 4, b.Position())
	assert.Error(t, b.SetPosition(11))
	assert.Error(t, b.SetPosition(-1))

	assert.NoError(t, b.SetLimit(8))
	assert.Equal(t, 8, b.Limit())
	assert.Error(t, b.SetLimit(3)) // below position
	assert.Error(t, b.SetLimit(11))
}

func TestResetForReadWrite(t *testing.T) {
	b := NewManaged(8)
	assert.NoError(t, b.PutU32(0x11223344))
	assert.Equal(t, 4, b.Position())

	b.ResetForRead()
	assert.Equal(t, 0, b.Position())
	assert.Equal(t, 4, b.Limit())

	v, err := b.TakeU32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), v)

	b.ResetForWrite()
	assert.Equal(t, 0, b.Position())
	assert.Equal(t, 8, b.Limit())
}

func TestScalarRoundTripBigEndian(t *testing.T) {
	b := NewManaged(42)
	assert.NoError(t, b.PutU8(0xAB))
	assert.NoError(t, b.PutI8(-5))
	assert.NoError(t, b.PutU16(0x1234))
	assert.NoError(t, b.PutI16(-1234))
	assert.NoError(t, b.PutU32(0xDEADBEEF))
	assert.NoError(t, b.PutI32(-100000))
	assert.NoError(t, b.PutU64(0x0102030405060708))
	assert.NoError(t, b.PutI64(-1))
	assert.NoError(t, b.PutF32(3.5))
	assert.NoError(t, b.PutF64(-2.25))

	b.ResetForRead()
	u8, err := b.TakeU8()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	i8, err := b.TakeI8()
	assert.NoError(t, err)
	assert.Equal(t, int8(-5), i8)

	u16, err := b.TakeU16()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	i16, err := b.TakeI16()
	assert.NoError(t, err)
	assert.Equal(t, int16(-1234), i16)

	u32, err := b.TakeU32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := b.TakeI32()
	assert.NoError(t, err)
	assert.Equal(t, int32(-100000), i32)

	u64, err := b.TakeU64()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)

	i64, err := b.TakeI64()
	assert.NoError(t, err)
	assert.Equal(t, int64(-1), i64)

	f32, err := b.TakeF32()
	assert.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	f64, err := b.TakeF64()
	assert.NoError(t, err)
	assert.Equal(t, float64(-2.25), f64)
}

func TestScalarRoundTripLittleEndian(t *testing.T) {
	b := NewManaged(8)
	b.SetOrder(LittleEndian)
	assert.NoError(t, b.PutU32(0xAABBCCDD))
	b.ResetForRead()
	assert.Equal(t, []byte{0xDD, 0xCC, 0xBB, 0xAA}, rawOf(t, b)[:4])
	v, err := b.TakeU32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0xAABBCCDD), v)
}

func rawOf(t *testing.T, b Buffer) []byte {
	t.Helper()
	m, ok := b.(*managed)
	assert.True(t, ok)
	return m.data
}

func TestIntN(t *testing.T) {
	b := NewManaged(8)
	assert.NoError(t, b.PutIntN(3, -42))
	b.ResetForRead()
	v, err := b.TakeIntN(3)
	assert.NoError(t, err)
	assert.Equal(t, int64(-42), v)

	assert.Error(t, b.PutIntN(0, 1))
	assert.Error(t, b.PutIntN(9, 1))
}

func TestUnderflowOverflowErrors(t *testing.T) {
	b := NewManaged(2)
	assert.NoError(t, b.PutU8(1))
	assert.ErrorIs(t, b.PutU16(2), ErrOverflow)

	b.ResetForRead()
	_, err := b.TakeU8()
	assert.NoError(t, err)
	_, err = b.TakeU8()
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestPeekOverwriteDoNotMoveCursor(t *testing.T) {
	b := NewManaged(4)
	assert.NoError(t, b.PutU32(0x01020304))
	b.ResetForRead()
	v, err := b.PeekU32(0)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v)
	assert.Equal(t, 0, b.Position())

	assert.NoError(t, b.OverwriteU8(0, 0xFF))
	assert.Equal(t, 0, b.Position())
	v2, _ := b.PeekU32(0)
	assert.Equal(t, uint32(0xFF020304), v2)

	_, err = b.PeekU8(10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, b.OverwriteU8(-1, 0), ErrOutOfRange)
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	b := NewManagedReadOnlyFrom([]byte{1, 2, 3})
	assert.True(t, b.ReadOnly())
	assert.ErrorIs(t, b.PutU8(1), ErrUnsupported)
	assert.ErrorIs(t, b.OverwriteU8(0, 1), ErrUnsupported)
}

func TestSliceIndependentCursors(t *testing.T) {
	b := NewManaged(8)
	assert.NoError(t, b.PutU64(0x0102030405060708))
	b.ResetForRead()
	assert.NoError(t, b.SetPosition(2))
	assert.NoError(t, b.SetLimit(6))

	s, err := b.Slice()
	assert.NoError(t, err)
	assert.Equal(t, Slice, s.Kind())
	assert.Equal(t, 4, s.Capacity())
	assert.Equal(t, 0, s.Position())
	assert.Equal(t, 4, s.Limit())

	// mutating the slice's cursor must not move the parent's
	assert.NoError(t, s.SetPosition(1))
	assert.Equal(t, 2, b.Position())

	v, err := s.TakeU8()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x04), v) // byte index 3 of original data

	assert.NoError(t, s.OverwriteU8(0, 0xFF))
	v2, _ := b.PeekU8(2)
	assert.Equal(t, uint8(0xFF), v2) // shares storage with parent
}

func TestReadBytesZeroCopy(t *testing.T) {
	b := NewManaged(4)
	assert.NoError(t, b.PutU32(0xAABBCCDD))
	b.ResetForRead()

	rb, err := b.ReadBytes(2)
	assert.NoError(t, err)
	assert.Equal(t, 2, b.Position())
	assert.NoError(t, rb.OverwriteU8(0, 0x00))
	v, _ := b.PeekU8(0)
	assert.Equal(t, uint8(0x00), v)
}

func TestReadByteArrayCopies(t *testing.T) {
	b := NewManaged(4)
	assert.NoError(t, b.PutU32(0xAABBCCDD))
	b.ResetForRead()
	arr, err := b.ReadByteArray(4)
	assert.NoError(t, err)
	arr[0] = 0x00
	v, _ := b.PeekU8(0)
	assert.Equal(t, uint8(0xAA), v) // original untouched by a copy mutation
}

func TestWriteBetweenBuffers(t *testing.T) {
	src := NewManagedFrom([]byte{1, 2, 3, 4})
	dst := NewManaged(4)
	n, err := dst.Write(src)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 0, src.Remaining())
	dst.ResetForRead()
	out, _ := dst.ReadByteArray(4)
	assert.Equal(t, []byte{1, 2, 3, 4}, out)
}

func TestBasePointerNativeVsManaged(t *testing.T) {
	n := NewNative(4)
	p, err := n.BasePointer()
	assert.NoError(t, err)
	assert.NotZero(t, p)

	m := NewManaged(0)
	p2, err := m.BasePointer()
	assert.NoError(t, err)
	assert.Zero(t, p2)
}

func TestNativeReleaseNotIdempotent(t *testing.T) {
	n := NewNative(4).(*native)
	assert.NoError(t, n.Release())
	err := n.Release()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWithNativeReleasesOnPanic(t *testing.T) {
	var captured Buffer
	func() {
		defer func() { recover() }()
		_ = WithNative(4, func(b Buffer) error {
			captured = b
			panic("boom")
		})
	}()
	assert.NotNil(t, captured)
	_, err := captured.BasePointer()
	assert.True(t, errors.Is(err, ErrClosed))
}
