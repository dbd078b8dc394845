// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentEqualsAndMismatch(t *testing.T) {
	a := NewManagedReadOnlyFrom([]byte("hello world"))
	b := NewManagedReadOnlyFrom([]byte("hello world"))
	assert.True(t, ContentEquals(a, b))
	assert.Equal(t, -1, Mismatch(a, b))

	c := NewManagedReadOnlyFrom([]byte("hello earth"))
	assert.False(t, ContentEquals(a, c))
	assert.Equal(t, 6, Mismatch(a, c))

	d := NewManagedReadOnlyFrom([]byte("hello"))
	assert.False(t, ContentEquals(a, d))
}

func TestContentEqualsAcrossStorageFlavors(t *testing.T) {
	whole := NewManagedReadOnlyFrom([]byte("abcdefgh"))
	frag := NewFragmented(
		NewManagedReadOnlyFrom([]byte("abcd")),
		NewManagedReadOnlyFrom([]byte("efgh")),
	)
	assert.True(t, ContentEquals(whole, frag))
}

func TestIndexOfByte(t *testing.T) {
	b := NewManagedReadOnlyFrom([]byte("the quick brown fox"))
	assert.Equal(t, 4, IndexOfByte(b, 'q'))
	assert.Equal(t, -1, IndexOfByte(b, 'z'))

	// needle beyond an 8-byte word boundary
	long := NewManagedReadOnlyFrom([]byte("0123456789ABCDEFX"))
	assert.Equal(t, 16, IndexOfByte(long, 'X'))
}

func TestIndexOfByteFragmentedFallback(t *testing.T) {
	f := NewFragmented(
		NewManagedReadOnlyFrom([]byte("abc")),
		NewManagedReadOnlyFrom([]byte("def")),
	)
	assert.Equal(t, 4, IndexOfByte(f, 'e'))
}

func TestIndexOfIntPatterns(t *testing.T) {
	b := NewManaged(8)
	assert.NoError(t, b.PutU16(0x1111))
	assert.NoError(t, b.PutU32(0xDEADBEEF))
	assert.NoError(t, b.PutU16(0x2222))
	b.ResetForRead()
	assert.Equal(t, 2, IndexOfInt32(b, 0xDEADBEEF))
	assert.Equal(t, 6, IndexOfInt16(b, 0x2222))
	assert.Equal(t, -1, IndexOfInt16(b, 0x9999))
}

func TestIndexOfString(t *testing.T) {
	b := NewManagedReadOnlyFrom([]byte("the quick brown fox jumps"))
	assert.Equal(t, 16, IndexOfString(b, "fox"))
	assert.Equal(t, -1, IndexOfString(b, "cat"))
	assert.Equal(t, 0, IndexOfString(b, ""))
}

func TestIndexOfBuffer(t *testing.T) {
	b := NewManagedReadOnlyFrom([]byte("abcdefgh"))
	needle := NewManagedReadOnlyFrom([]byte("cde"))
	assert.Equal(t, 2, IndexOfBuffer(b, needle))
}

func TestFill(t *testing.T) {
	b := NewManaged(5)
	n, err := Fill(b, 0xAA)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, b.Position())
	b.ResetForRead()
	out, _ := b.ReadByteArray(5)
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA}, out)
}

func TestFillU32LeavesTail(t *testing.T) {
	b := NewManaged(6)
	n, err := FillU32(b, 0x01020304)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 4, b.Position())
}

func TestXorMaskRoundTrip(t *testing.T) {
	b := NewManagedFrom([]byte("0123456789ABCDEFxyz"))
	orig, err := b.ReadByteArray(b.Remaining())
	assert.NoError(t, err)
	b.ResetForWrite()
	assert.NoError(t, b.WriteBytes(orig, 0, len(orig)))

	b.ResetForRead()
	assert.NoError(t, XorMask(b, 0xDEADBEEF))
	assert.Equal(t, 0, b.Remaining())

	assert.NoError(t, b.SetPosition(0))
	assert.NoError(t, b.SetLimit(b.Capacity()))
	masked, _ := b.ReadByteArray(b.Capacity())
	assert.NotEqual(t, orig, masked)

	m2 := NewManagedFrom(append([]byte(nil), masked...))
	assert.NoError(t, XorMask(m2, 0xDEADBEEF))
	assert.NoError(t, m2.SetPosition(0))
	assert.NoError(t, m2.SetLimit(m2.Capacity()))
	back, _ := m2.ReadByteArray(m2.Capacity())
	assert.Equal(t, orig, back)
}

func TestXorMaskCopy(t *testing.T) {
	src := NewManagedReadOnlyFrom([]byte{0x00, 0x00, 0x00, 0x00, 0x00})
	dst := NewManaged(5)
	n, err := XorMaskCopy(dst, src, 0xAABBCCDD)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	dst.ResetForRead()
	out, _ := dst.ReadByteArray(5)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xAA}, out)
}
