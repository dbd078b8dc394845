// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import (
	"fmt"
	"unicode/utf8"
)

// fragmented is the Fragmented storage flavor (spec §3.1): a read-only
// logical concatenation of N inner buffers, with scalar reads that
// straddle a chunk boundary assembled byte-by-byte.
//
// Part lengths are frozen at construction from each part's Remaining();
// parts are read through their own absolute Peek accessors so building
// a Fragmented view never disturbs a part's own position.
type fragmented struct {
	parts []Buffer
	offs  []int // offs[i] = cumulative length before parts[i]
	starts []int // starts[i] = parts[i].Position() at construction
	total int
	base  int // absolute index this view's own Position()==0 maps to
	pos   int // absolute, in [0,total]
	limit int // absolute, in [0,total]
	order Order
}

// NewFragmented concatenates parts (in order) into a single read-only
// Buffer. Each part contributes its Remaining() bytes as of this call.
func NewFragmented(parts ...Buffer) Buffer {
	f := &fragmented{order: BigEndian}
	if len(parts) > 0 {
		f.order = parts[0].Order()
	}
	f.offs = make([]int, len(parts))
	f.starts = make([]int, len(parts))
	for i, p := range parts {
		f.offs[i] = f.total
		f.starts[i] = p.Position()
		f.total += p.Remaining()
	}
	f.parts = parts
	f.limit = f.total
	return f
}

func (f *fragmented) Kind() Kind       { return Fragmented }
func (f *fragmented) ReadOnly() bool   { return true }
func (f *fragmented) Capacity() int    { return f.total - f.base }
func (f *fragmented) Position() int    { return f.pos - f.base }
func (f *fragmented) Limit() int       { return f.limit - f.base }
func (f *fragmented) Remaining() int   { return f.limit - f.pos }
func (f *fragmented) HasRemaining() bool { return f.pos < f.limit }
func (f *fragmented) Order() Order     { return f.order }
func (f *fragmented) SetOrder(o Order) { f.order = o }

func (f *fragmented) SetPosition(p int) error {
	if p < 0 || f.base+p > f.limit {
		return fmt.Errorf("gromb/buffer: fragmented position %d out of [0,%d]: %w", p, f.limit-f.base, ErrOutOfRange)
	}
	f.pos = f.base + p
	return nil
}

func (f *fragmented) SetLimit(l int) error {
	if f.base+l < f.pos || f.base+l > f.total {
		return fmt.Errorf("gromb/buffer: fragmented limit %d out of [%d,%d]: %w", l, f.pos-f.base, f.total-f.base, ErrOutOfRange)
	}
	f.limit = f.base + l
	return nil
}

func (f *fragmented) ResetForRead() {
	f.limit = f.pos
	f.pos = f.base
}

func (f *fragmented) ResetForWrite() {
	f.pos = f.base
	f.limit = f.total
}

func (f *fragmented) rawBytes() ([]byte, bool) { return nil, false }

func (f *fragmented) BasePointer() (uintptr, error) {
	return 0, fmt.Errorf("gromb/buffer: fragmented buffer has no single base address: %w", ErrUnsupported)
}

// locate finds which part absIndex falls into and the offset within it.
func (f *fragmented) locate(absIndex int) (partIdx, offset int) {
	// Parts are few in the common case (two-way concatenation); linear
	// scan mirrors spec §4.1's "assembled byte-by-byte" straddling
	// description rather than a binary search over offs.
	for i := len(f.offs) - 1; i >= 0; i-- {
		if absIndex >= f.offs[i] {
			return i, absIndex - f.offs[i]
		}
	}
	return 0, absIndex
}

func (f *fragmented) byteAt(absIndex int) (byte, error) {
	if absIndex < 0 || absIndex >= f.limit {
		return 0, fmt.Errorf("gromb/buffer: fragmented index %d out of [0,%d): %w", absIndex, f.limit, ErrOutOfRange)
	}
	pi, off := f.locate(absIndex)
	return f.parts[pi].PeekU8(f.starts[pi] + off)
}

func (f *fragmented) peekBytes(absIndex, n int) ([]byte, error) {
	if absIndex < 0 || n < 0 || absIndex+n > f.limit {
		return nil, fmt.Errorf("gromb/buffer: fragmented peek of %d at %d exceeds limit %d: %w", n, absIndex, f.limit, ErrOutOfRange)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := f.byteAt(absIndex + i)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Slice returns a new Fragmented view over [Position,Limit) with its
// own cursor space starting at 0, remapped onto the same parts and
// absolute coordinates as the parent — composing slices stays O(1)
// since no bytes are copied and no offsets table is rebuilt.
func (f *fragmented) Slice() (Buffer, error) {
	return &fragmented{
		parts: f.parts,
		offs:  f.offs,
		starts: f.starts,
		total: f.limit,
		base:  f.pos,
		pos:   f.pos,
		limit: f.limit,
		order: f.order,
	}, nil
}

func (f *fragmented) ReadBytes(n int) (Buffer, error) {
	b, err := f.peekBytes(f.pos, n)
	if err != nil {
		return nil, err
	}
	f.pos += n
	return NewManagedReadOnlyFrom(b), nil
}

func (f *fragmented) ReadByteArray(n int) ([]byte, error) {
	b, err := f.peekBytes(f.pos, n)
	if err != nil {
		return nil, err
	}
	f.pos += n
	return b, nil
}

func (f *fragmented) WriteBytes(src []byte, off, length int) error {
	return fmt.Errorf("gromb/buffer: fragmented buffer is read-only: %w", ErrUnsupported)
}

func (f *fragmented) Write(other Buffer) (int, error) {
	return 0, fmt.Errorf("gromb/buffer: fragmented buffer is read-only: %w", ErrUnsupported)
}

func (f *fragmented) takeScalar(n int) (uint64, error) {
	b, err := f.peekBytes(f.pos, n)
	if err != nil {
		return 0, err
	}
	f.pos += n
	return uintFromBytes(f.order, b), nil
}

func (f *fragmented) TakeU8() (uint8, error)  { v, err := f.takeScalar(1); return uint8(v), err }
func (f *fragmented) TakeI8() (int8, error)   { v, err := f.takeScalar(1); return int8(v), err }
func (f *fragmented) TakeU16() (uint16, error) { v, err := f.takeScalar(2); return uint16(v), err }
func (f *fragmented) TakeI16() (int16, error) { v, err := f.takeScalar(2); return int16(v), err }
func (f *fragmented) TakeU32() (uint32, error) { v, err := f.takeScalar(4); return uint32(v), err }
func (f *fragmented) TakeI32() (int32, error) { v, err := f.takeScalar(4); return int32(v), err }
func (f *fragmented) TakeU64() (uint64, error) { return f.takeScalar(8) }
func (f *fragmented) TakeI64() (int64, error) { v, err := f.takeScalar(8); return int64(v), err }

func (f *fragmented) TakeF32() (float32, error) {
	b, err := f.peekBytes(f.pos, 4)
	if err != nil {
		return 0, err
	}
	f.pos += 4
	return f32FromBits(b, f.order), nil
}

func (f *fragmented) TakeF64() (float64, error) {
	b, err := f.peekBytes(f.pos, 8)
	if err != nil {
		return 0, err
	}
	f.pos += 8
	return f64FromBits(b, f.order), nil
}

func (f *fragmented) TakeIntN(n int) (int64, error) {
	if err := checkIntN(n); err != nil {
		return 0, err
	}
	v, err := f.takeScalar(n)
	if err != nil {
		return 0, err
	}
	return signExtend(v, n), nil
}

func (f *fragmented) peekScalar(index, n int) (uint64, error) {
	b, err := f.peekBytes(index, n)
	if err != nil {
		return 0, err
	}
	return uintFromBytes(f.order, b), nil
}

func (f *fragmented) PeekU8(i int) (uint8, error)  { v, err := f.peekScalar(i, 1); return uint8(v), err }
func (f *fragmented) PeekI8(i int) (int8, error)   { v, err := f.peekScalar(i, 1); return int8(v), err }
func (f *fragmented) PeekU16(i int) (uint16, error) { v, err := f.peekScalar(i, 2); return uint16(v), err }
func (f *fragmented) PeekI16(i int) (int16, error) { v, err := f.peekScalar(i, 2); return int16(v), err }
func (f *fragmented) PeekU32(i int) (uint32, error) { v, err := f.peekScalar(i, 4); return uint32(v), err }
func (f *fragmented) PeekI32(i int) (int32, error) { v, err := f.peekScalar(i, 4); return int32(v), err }
func (f *fragmented) PeekU64(i int) (uint64, error) { return f.peekScalar(i, 8) }
func (f *fragmented) PeekI64(i int) (int64, error) { v, err := f.peekScalar(i, 8); return int64(v), err }

func (f *fragmented) PeekF32(i int) (float32, error) {
	b, err := f.peekBytes(i, 4)
	if err != nil {
		return 0, err
	}
	return f32FromBits(b, f.order), nil
}

func (f *fragmented) PeekF64(i int) (float64, error) {
	b, err := f.peekBytes(i, 8)
	if err != nil {
		return 0, err
	}
	return f64FromBits(b, f.order), nil
}

func (f *fragmented) PeekIntN(index, n int) (int64, error) {
	if err := checkIntN(n); err != nil {
		return 0, err
	}
	v, err := f.peekScalar(index, n)
	if err != nil {
		return 0, err
	}
	return signExtend(v, n), nil
}

func unsupportedWrite() error {
	return fmt.Errorf("gromb/buffer: fragmented buffer is read-only: %w", ErrUnsupported)
}

func (f *fragmented) PutU8(uint8) error               { return unsupportedWrite() }
func (f *fragmented) PutI8(int8) error                { return unsupportedWrite() }
func (f *fragmented) PutU16(uint16) error             { return unsupportedWrite() }
func (f *fragmented) PutI16(int16) error              { return unsupportedWrite() }
func (f *fragmented) PutU32(uint32) error             { return unsupportedWrite() }
func (f *fragmented) PutI32(int32) error              { return unsupportedWrite() }
func (f *fragmented) PutU64(uint64) error             { return unsupportedWrite() }
func (f *fragmented) PutI64(int64) error              { return unsupportedWrite() }
func (f *fragmented) PutF32(float32) error            { return unsupportedWrite() }
func (f *fragmented) PutF64(float64) error            { return unsupportedWrite() }
func (f *fragmented) PutIntN(int, int64) error        { return unsupportedWrite() }
func (f *fragmented) OverwriteU8(int, uint8) error    { return unsupportedWrite() }
func (f *fragmented) OverwriteI8(int, int8) error     { return unsupportedWrite() }
func (f *fragmented) OverwriteU16(int, uint16) error  { return unsupportedWrite() }
func (f *fragmented) OverwriteI16(int, int16) error   { return unsupportedWrite() }
func (f *fragmented) OverwriteU32(int, uint32) error  { return unsupportedWrite() }
func (f *fragmented) OverwriteI32(int, int32) error   { return unsupportedWrite() }
func (f *fragmented) OverwriteU64(int, uint64) error  { return unsupportedWrite() }
func (f *fragmented) OverwriteI64(int, int64) error   { return unsupportedWrite() }
func (f *fragmented) OverwriteF32(int, float32) error { return unsupportedWrite() }
func (f *fragmented) OverwriteF64(int, float64) error { return unsupportedWrite() }
func (f *fragmented) OverwriteIntN(int, int, int64) error { return unsupportedWrite() }

func (f *fragmented) ReadString(n int) (string, error) {
	b, err := f.peekBytes(f.pos, n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("gromb/buffer: readString: invalid UTF-8 in %d bytes: %w", n, ErrMalformedText)
	}
	f.pos += n
	return string(b), nil
}

func (f *fragmented) WriteString(string) error { return unsupportedWrite() }

func (f *fragmented) ReadLine() (string, bool) {
	if f.pos >= f.limit {
		return "", false
	}
	start := f.pos
	for i := f.pos; i < f.limit; i++ {
		b, err := f.byteAt(i)
		if err != nil {
			return "", false
		}
		if b == '\n' {
			end := i
			if end > start {
				if prev, _ := f.byteAt(end - 1); prev == '\r' {
					end--
				}
			}
			line, _ := f.peekBytes(start, end-start)
			f.pos = i + 1
			return string(line), true
		}
	}
	line, _ := f.peekBytes(start, f.limit-start)
	f.pos = f.limit
	return string(line), true
}
