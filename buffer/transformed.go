// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import (
	"fmt"
	"unicode/utf8"
)

// TransformFunc maps a raw byte at its absolute index in the origin
// buffer to the byte observed through a Transformed view.
type TransformFunc func(absIndex int, b byte) byte

// transformed is the Transformed storage flavor (spec §3.1): a
// read-only view that applies fn to every byte, lazily, on read.
// Position/limit and Slice() delegate entirely to the origin; only the
// byte values themselves are altered.
type transformed struct {
	origin Buffer
	fn     TransformFunc
}

// NewTransformed wraps origin in a read-only view that applies fn to
// every byte observed through it. origin's own cursors are shared and
// advanced by reads through the view.
func NewTransformed(origin Buffer, fn TransformFunc) Buffer {
	return &transformed{origin: origin, fn: fn}
}

func (t *transformed) Kind() Kind         { return Transformed }
func (t *transformed) ReadOnly() bool     { return true }
func (t *transformed) Capacity() int      { return t.origin.Capacity() }
func (t *transformed) Position() int      { return t.origin.Position() }
func (t *transformed) Limit() int         { return t.origin.Limit() }
func (t *transformed) Remaining() int     { return t.origin.Remaining() }
func (t *transformed) HasRemaining() bool { return t.origin.HasRemaining() }
func (t *transformed) Order() Order       { return t.origin.Order() }
func (t *transformed) SetOrder(o Order)   { t.origin.SetOrder(o) }
func (t *transformed) SetPosition(p int) error { return t.origin.SetPosition(p) }
func (t *transformed) SetLimit(l int) error    { return t.origin.SetLimit(l) }
func (t *transformed) ResetForRead()           { t.origin.ResetForRead() }
func (t *transformed) ResetForWrite()          { t.origin.ResetForWrite() }

func (t *transformed) rawBytes() ([]byte, bool) { return nil, false }

func (t *transformed) BasePointer() (uintptr, error) {
	return 0, fmt.Errorf("gromb/buffer: transformed view exposes no raw address: %w", ErrUnsupported)
}

// Slice delegates to the origin per spec §4.1 ("position/limit and
// slice() delegate to the origin"), wrapping the resulting origin slice
// in a fresh view with the same transform.
func (t *transformed) Slice() (Buffer, error) {
	s, err := t.origin.Slice()
	if err != nil {
		return nil, err
	}
	return &transformed{origin: s, fn: t.fn}, nil
}

func (t *transformed) peekRawBytes(index, n int) ([]byte, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		raw, err := t.origin.PeekU8(index + i)
		if err != nil {
			return nil, err
		}
		out[i] = t.fn(index+i, raw)
	}
	return out, nil
}

func (t *transformed) takeRawBytes(n int) ([]byte, error) {
	start := t.origin.Position()
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		raw, err := t.origin.TakeU8()
		if err != nil {
			return nil, err
		}
		out[i] = t.fn(start+i, raw)
	}
	return out, nil
}

func (t *transformed) ReadBytes(n int) (Buffer, error) {
	b, err := t.takeRawBytes(n)
	if err != nil {
		return nil, err
	}
	return NewManagedReadOnlyFrom(b), nil
}

func (t *transformed) ReadByteArray(n int) ([]byte, error) { return t.takeRawBytes(n) }

func (t *transformed) WriteBytes([]byte, int, int) error { return unsupportedWrite() }
func (t *transformed) Write(Buffer) (int, error)         { return 0, unsupportedWrite() }

func (t *transformed) takeScalar(n int) (uint64, error) {
	b, err := t.takeRawBytes(n)
	if err != nil {
		return 0, err
	}
	return uintFromBytes(t.origin.Order(), b), nil
}

func (t *transformed) peekScalar(index, n int) (uint64, error) {
	b, err := t.peekRawBytes(index, n)
	if err != nil {
		return 0, err
	}
	return uintFromBytes(t.origin.Order(), b), nil
}

func (t *transformed) TakeU8() (uint8, error)  { v, err := t.takeScalar(1); return uint8(v), err }
func (t *transformed) TakeI8() (int8, error)   { v, err := t.takeScalar(1); return int8(v), err }
func (t *transformed) TakeU16() (uint16, error) { v, err := t.takeScalar(2); return uint16(v), err }
func (t *transformed) TakeI16() (int16, error) { v, err := t.takeScalar(2); return int16(v), err }
func (t *transformed) TakeU32() (uint32, error) { v, err := t.takeScalar(4); return uint32(v), err }
func (t *transformed) TakeI32() (int32, error) { v, err := t.takeScalar(4); return int32(v), err }
func (t *transformed) TakeU64() (uint64, error) { return t.takeScalar(8) }
func (t *transformed) TakeI64() (int64, error) { v, err := t.takeScalar(8); return int64(v), err }

func (t *transformed) TakeF32() (float32, error) {
	b, err := t.takeRawBytes(4)
	if err != nil {
		return 0, err
	}
	return f32FromBits(b, t.origin.Order()), nil
}

func (t *transformed) TakeF64() (float64, error) {
	b, err := t.takeRawBytes(8)
	if err != nil {
		return 0, err
	}
	return f64FromBits(b, t.origin.Order()), nil
}

func (t *transformed) TakeIntN(n int) (int64, error) {
	if err := checkIntN(n); err != nil {
		return 0, err
	}
	v, err := t.takeScalar(n)
	if err != nil {
		return 0, err
	}
	return signExtend(v, n), nil
}

func (t *transformed) PeekU8(i int) (uint8, error)  { v, err := t.peekScalar(i, 1); return uint8(v), err }
func (t *transformed) PeekI8(i int) (int8, error)   { v, err := t.peekScalar(i, 1); return int8(v), err }
func (t *transformed) PeekU16(i int) (uint16, error) { v, err := t.peekScalar(i, 2); return uint16(v), err }
func (t *transformed) PeekI16(i int) (int16, error) { v, err := t.peekScalar(i, 2); return int16(v), err }
func (t *transformed) PeekU32(i int) (uint32, error) { v, err := t.peekScalar(i, 4); return uint32(v), err }
func (t *transformed) PeekI32(i int) (int32, error) { v, err := t.peekScalar(i, 4); return int32(v), err }
func (t *transformed) PeekU64(i int) (uint64, error) { return t.peekScalar(i, 8) }
func (t *transformed) PeekI64(i int) (int64, error) { v, err := t.peekScalar(i, 8); return int64(v), err }

func (t *transformed) PeekF32(i int) (float32, error) {
	b, err := t.peekRawBytes(i, 4)
	if err != nil {
		return 0, err
	}
	return f32FromBits(b, t.origin.Order()), nil
}

func (t *transformed) PeekF64(i int) (float64, error) {
	b, err := t.peekRawBytes(i, 8)
	if err != nil {
		return 0, err
	}
	return f64FromBits(b, t.origin.Order()), nil
}

func (t *transformed) PeekIntN(index, n int) (int64, error) {
	if err := checkIntN(n); err != nil {
		return 0, err
	}
	v, err := t.peekScalar(index, n)
	if err != nil {
		return 0, err
	}
	return signExtend(v, n), nil
}

func (t *transformed) PutU8(uint8) error               { return unsupportedWrite() }
func (t *transformed) PutI8(int8) error                { return unsupportedWrite() }
func (t *transformed) PutU16(uint16) error             { return unsupportedWrite() }
func (t *transformed) PutI16(int16) error              { return unsupportedWrite() }
func (t *transformed) PutU32(uint32) error             { return unsupportedWrite() }
func (t *transformed) PutI32(int32) error              { return unsupportedWrite() }
func (t *transformed) PutU64(uint64) error             { return unsupportedWrite() }
func (t *transformed) PutI64(int64) error              { return unsupportedWrite() }
func (t *transformed) PutF32(float32) error            { return unsupportedWrite() }
func (t *transformed) PutF64(float64) error            { return unsupportedWrite() }
func (t *transformed) PutIntN(int, int64) error        { return unsupportedWrite() }
func (t *transformed) OverwriteU8(int, uint8) error    { return unsupportedWrite() }
func (t *transformed) OverwriteI8(int, int8) error     { return unsupportedWrite() }
func (t *transformed) OverwriteU16(int, uint16) error  { return unsupportedWrite() }
func (t *transformed) OverwriteI16(int, int16) error   { return unsupportedWrite() }
func (t *transformed) OverwriteU32(int, uint32) error  { return unsupportedWrite() }
func (t *transformed) OverwriteI32(int, int32) error   { return unsupportedWrite() }
func (t *transformed) OverwriteU64(int, uint64) error  { return unsupportedWrite() }
func (t *transformed) OverwriteI64(int, int64) error   { return unsupportedWrite() }
func (t *transformed) OverwriteF32(int, float32) error { return unsupportedWrite() }
func (t *transformed) OverwriteF64(int, float64) error { return unsupportedWrite() }
func (t *transformed) OverwriteIntN(int, int, int64) error { return unsupportedWrite() }

func (t *transformed) ReadString(n int) (string, error) {
	b, err := t.takeRawBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("gromb/buffer: readString: invalid UTF-8 in %d bytes: %w", n, ErrMalformedText)
	}
	return string(b), nil
}

func (t *transformed) WriteString(string) error { return unsupportedWrite() }

func (t *transformed) ReadLine() (string, bool) {
	if !t.origin.HasRemaining() {
		return "", false
	}
	var out []byte
	for t.origin.HasRemaining() {
		idx := t.origin.Position()
		raw, err := t.origin.TakeU8()
		if err != nil {
			return "", false
		}
		b := t.fn(idx, raw)
		if b == '\n' {
			if n := len(out); n > 0 && out[n-1] == '\r' {
				out = out[:n-1]
			}
			return string(out), true
		}
		out = append(out, b)
	}
	return string(out), true
}
