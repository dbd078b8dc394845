// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package bufpool implements the pooled-buffer contract (spec §3.2,
// §4.3): an allocation-zone-aware pool that hands out buffer.Buffer
// values wrapped for use-after-release detection, plus single-threaded
// and concurrent pool policies.
package bufpool

import (
	"fmt"

	"github.com/tayne3/gromb/buffer"
)

// Zone selects where a pool's underlying allocations land.
type Zone int

const (
	// Heap allocates ordinary Go-heap-backed Managed buffers.
	Heap Zone = iota
	// Direct allocates Native buffers with an explicit release step.
	Direct
	// Shared is accepted for API parity with spec.md §4.3.2's zone
	// enum but has no distinct backing in this module: no shared-memory
	// allocator exists anywhere in the corpus to ground one on, so it
	// behaves exactly like Heap (documented no-op, same precedent as
	// the deflate window-bits option).
	Shared
)

func (z Zone) String() string {
	switch z {
	case Direct:
		return "Direct"
	case Shared:
		return "Shared"
	default:
		return "Heap"
	}
}

// Allocator is the single-method interface the pool (and the rest of
// the toolkit) consumes to obtain fresh buffers (spec §6.1).
type Allocator interface {
	Allocate(size int) (buffer.Buffer, error)
}

// HeapAllocator allocates Managed buffers.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(size int) (buffer.Buffer, error) {
	return buffer.NewManaged(size), nil
}

// DirectAllocator allocates Native buffers.
type DirectAllocator struct{}

func (DirectAllocator) Allocate(size int) (buffer.Buffer, error) {
	return buffer.NewNative(size), nil
}

func allocatorForZone(z Zone) Allocator {
	if z == Direct {
		return DirectAllocator{}
	}
	return HeapAllocator{}
}

// Stats is the cumulative counter tuple spec.md §4.3.1 requires,
// never reset by Clear.
type Stats struct {
	TotalAllocations int64
	PoolHits         int64
	PoolMisses       int64
	CurrentPoolSize  int
	PeakPoolSize     int
}

// Pool is the buffer-pool contract (spec §3.2, §4.3).
type Pool interface {
	// Acquire returns a buffer with capacity >= requestedSize, either
	// recycled from the pool (a hit) or freshly allocated (a miss).
	Acquire(requestedSize int) (*Pooled, error)
	// Release returns p's inner buffer to the pool. No-op if p is
	// already released.
	Release(p *Pooled) error
	// Clear drains and frees every pooled buffer, destructive-pop.
	Clear()
	// Stats reports the cumulative counters.
	Stats() Stats
}

const defaultBufferSize = 4096
const defaultMaxPoolSize = 64

// closedErr is returned for any operation against an already-released
// Pooled wrapper, matching spec.md §3.2's "use after release fails with
// Closed".
func closedErr(op string) error {
	return fmt.Errorf("gromb/bufpool: %s: use of released pooled buffer: %w", op, buffer.ErrClosed)
}
