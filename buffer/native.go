// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import (
	"fmt"
	"unsafe"
)

// native is the Native storage flavor (spec §3.1): an address + byte
// length block that must be explicitly released exactly once and
// exposes a stable raw base address for bulk ops and FFI.
//
// Real off-heap allocation is an external collaborator (spec §1): "FFI
// bindings to the host allocator" is explicitly out of core scope. This
// implementation backs the block with a normal Go-heap slice and uses
// unsafe.Pointer(unsafe.SliceData(...)) purely to give BasePointer a
// stable address, matching the zero-copy examples elsewhere in the
// ecosystem (e.g. zerocopy-style buffers built on unsafe.Pointer over a
// plain []byte rather than a real mmap/malloc integration).
type native struct {
	*core
	released bool
}

// NewNative allocates a new read-write Native buffer of the given
// capacity, positioned for writing.
func NewNative(capacity int) Buffer {
	return &native{core: newCore(capacity, Native)}
}

// Release frees the native buffer's backing block. Release is NOT
// idempotent at this layer (spec §3.1: "must be explicitly released
// exactly once"); the pool's Pooled wrapper layers idempotent release
// semantics on top (spec §3.2).
func (n *native) Release() error {
	if n.released {
		return fmt.Errorf("gromb/buffer: native buffer already released: %w", ErrClosed)
	}
	n.released = true
	n.data = nil
	n.pos, n.limit = 0, 0
	return nil
}

func (n *native) checkReleased() error {
	if n.released {
		return fmt.Errorf("gromb/buffer: use of released native buffer: %w", ErrClosed)
	}
	return nil
}

func (n *native) BasePointer() (uintptr, error) {
	if err := n.checkReleased(); err != nil {
		return 0, err
	}
	return basePointerOf(n.data)
}

func basePointerOf(data []byte) (uintptr, error) {
	if len(data) == 0 {
		return 0, nil
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(data))), nil
}

// WithNative acquires a Native buffer of the given capacity, runs fn,
// and releases the buffer on every exit path including a panic
// unwinding through fn — the Go rendition of spec §3.1/§4.3.3's scoped
// acquisition construct.
func WithNative(capacity int, fn func(b Buffer) error) (err error) {
	n := &native{core: newCore(capacity, Native)}
	defer func() {
		if relErr := n.Release(); err == nil {
			err = relErr
		}
	}()
	return fn(n)
}
