// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import (
	"fmt"
	"math"
)

// uintFromBytes assembles an n-byte (1<=n<=8) unsigned integer from b in
// the given order. b must have length n. Widths encoding/binary covers
// natively go through o.binary(); the odd widths PutIntN/TakeIntN allow
// (1, 3, 5, 6, 7 bytes) fall back to an explicit byte-at-a-time assembly.
func uintFromBytes(o Order, b []byte) uint64 {
	switch len(b) {
	case 2:
		return uint64(o.binary().Uint16(b))
	case 4:
		return uint64(o.binary().Uint32(b))
	case 8:
		return o.binary().Uint64(b)
	}
	var v uint64
	if o == LittleEndian {
		for i := len(b) - 1; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
	} else {
		for i := 0; i < len(b); i++ {
			v = v<<8 | uint64(b[i])
		}
	}
	return v
}

// putUintBytes writes the low n bytes of v into b (len(b) == n) in the
// given order.
func putUintBytes(o Order, b []byte, v uint64) {
	n := len(b)
	switch n {
	case 2:
		o.binary().PutUint16(b, uint16(v))
		return
	case 4:
		o.binary().PutUint32(b, uint32(v))
		return
	case 8:
		o.binary().PutUint64(b, v)
		return
	}
	if o == LittleEndian {
		for i := 0; i < n; i++ {
			b[i] = byte(v)
			v >>= 8
		}
	} else {
		for i := n - 1; i >= 0; i-- {
			b[i] = byte(v)
			v >>= 8
		}
	}
}

// signExtend sign-extends the low n*8 bits of v (an unsigned n-byte
// quantity) to a full int64.
func signExtend(v uint64, n int) int64 {
	shift := uint(64 - n*8)
	return int64(v<<shift) >> shift
}

func checkIntN(n int) error {
	if n < 1 || n > 8 {
		return fmt.Errorf("gromb: N-byte integer width %d out of range [1,8]: %w", n, ErrOutOfRange)
	}
	return nil
}

func f32FromBits(b []byte, o Order) float32 {
	return math.Float32frombits(uint32(uintFromBytes(o, b)))
}

func f64FromBits(b []byte, o Order) float64 {
	return math.Float64frombits(uintFromBytes(o, b))
}
