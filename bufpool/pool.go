// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bufpool

import (
	"sync"

	"github.com/tayne3/gromb/buffer"
)

// config holds the tunables shared by both pool policies.
type config struct {
	zone            Zone
	allocator       Allocator
	defaultSize     int
	maxPoolSize     int
}

// Option configures a pool at construction time.
type Option func(*config)

// WithZone selects the allocation zone for buffers this pool creates.
func WithZone(z Zone) Option {
	return func(c *config) { c.zone = z; c.allocator = allocatorForZone(z) }
}

// WithAllocator overrides the allocator entirely (spec §6.1: "a user
// supplies a custom Allocator ... to control output-buffer origin").
func WithAllocator(a Allocator) Option {
	return func(c *config) { c.allocator = a }
}

// WithDefaultSize sets the size newly allocated buffers get when no
// pooled buffer satisfies a request (spec §4.3.1's defaultBufferSize).
func WithDefaultSize(n int) Option {
	return func(c *config) { c.defaultSize = n }
}

// WithMaxPoolSize caps how many released buffers the pool retains.
func WithMaxPoolSize(n int) Option {
	return func(c *config) { c.maxPoolSize = n }
}

func newConfig(opts []Option) config {
	c := config{zone: Heap, allocator: HeapAllocator{}, defaultSize: defaultBufferSize, maxPoolSize: defaultMaxPoolSize}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// singleThreaded is the unsynchronized pool policy of spec.md §4.3.2:
// a plain slice used as a LIFO stack, no locking.
type singleThreaded struct {
	cfg   config
	free  []buffer.Buffer
	stats Stats
}

// NewSingleThreaded constructs a pool with no internal synchronization,
// for single-goroutine use.
func NewSingleThreaded(opts ...Option) Pool {
	return &singleThreaded{cfg: newConfig(opts)}
}

func (p *singleThreaded) Acquire(requestedSize int) (*Pooled, error) {
	if requestedSize < 0 {
		return nil, buffer.ErrUnderflow
	}
	p.stats.TotalAllocations++
	if i := findFit(p.free, requestedSize); i >= 0 {
		b := p.free[i]
		p.free[i] = p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		p.stats.PoolHits++
		p.stats.CurrentPoolSize = len(p.free)
		b.ResetForWrite()
		return newPooled(b, p), nil
	}
	p.stats.PoolMisses++
	size := requestedSize
	if size < p.cfg.defaultSize {
		size = p.cfg.defaultSize
	}
	b, err := p.cfg.allocator.Allocate(size)
	if err != nil {
		return nil, err
	}
	return newPooled(b, p), nil
}

func (p *singleThreaded) Release(pb *Pooled) error {
	if pb.released {
		return nil
	}
	pb.released = true
	if len(p.free) < p.cfg.maxPoolSize {
		p.free = append(p.free, pb.inner)
		p.stats.CurrentPoolSize = len(p.free)
		if p.stats.CurrentPoolSize > p.stats.PeakPoolSize {
			p.stats.PeakPoolSize = p.stats.CurrentPoolSize
		}
		return nil
	}
	return releaseNative(pb.inner)
}

func (p *singleThreaded) Clear() {
	for len(p.free) > 0 {
		last := len(p.free) - 1
		b := p.free[last]
		p.free[last] = nil
		p.free = p.free[:last]
		_ = releaseNative(b)
	}
	p.stats.CurrentPoolSize = 0
}

func (p *singleThreaded) Stats() Stats { return p.stats }

// concurrent is the multi-threaded pool policy of spec.md §4.3.2: a
// mutex-protected deque. sync.Pool is not used — it offers no
// enumeration, no deterministic Stats(), and no Clear()-style drain
// guarantee, which spec.md §4.3.1 requires of every Pool implementation
// regardless of threading policy.
type concurrent struct {
	mu    sync.Mutex
	cfg   config
	free  []buffer.Buffer
	stats Stats
}

// NewConcurrent constructs a mutex-protected pool safe for concurrent
// Acquire/Release/Clear/Stats calls from multiple goroutines.
func NewConcurrent(opts ...Option) Pool {
	return &concurrent{cfg: newConfig(opts)}
}

func (p *concurrent) Acquire(requestedSize int) (*Pooled, error) {
	if requestedSize < 0 {
		return nil, buffer.ErrUnderflow
	}
	p.mu.Lock()
	idx := findFit(p.free, requestedSize)
	var b buffer.Buffer
	if idx >= 0 {
		b = p.free[idx]
		p.free[idx] = p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
	}
	p.stats.TotalAllocations++
	if b != nil {
		p.stats.PoolHits++
		p.stats.CurrentPoolSize = len(p.free)
	} else {
		p.stats.PoolMisses++
	}
	alloc := p.cfg.allocator
	defSize := p.cfg.defaultSize
	p.mu.Unlock()

	if b != nil {
		b.ResetForWrite()
		return newPooled(b, p), nil
	}
	size := requestedSize
	if size < defSize {
		size = defSize
	}
	nb, err := alloc.Allocate(size)
	if err != nil {
		return nil, err
	}
	return newPooled(nb, p), nil
}

func (p *concurrent) Release(pb *Pooled) error {
	p.mu.Lock()
	if pb.released {
		p.mu.Unlock()
		return nil
	}
	pb.released = true
	var overflow buffer.Buffer
	if len(p.free) < p.cfg.maxPoolSize {
		p.free = append(p.free, pb.inner)
		p.stats.CurrentPoolSize = len(p.free)
		if p.stats.CurrentPoolSize > p.stats.PeakPoolSize {
			p.stats.PeakPoolSize = p.stats.CurrentPoolSize
		}
	} else {
		overflow = pb.inner
	}
	p.mu.Unlock()
	if overflow != nil {
		return releaseNative(overflow)
	}
	return nil
}

func (p *concurrent) Clear() {
	for {
		p.mu.Lock()
		if len(p.free) == 0 {
			p.stats.CurrentPoolSize = 0
			p.mu.Unlock()
			return
		}
		last := len(p.free) - 1
		b := p.free[last]
		p.free[last] = nil
		p.free = p.free[:last]
		p.mu.Unlock()
		_ = releaseNative(b)
	}
}

func (p *concurrent) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// findFit returns the index of any buffer in free with capacity >=
// requestedSize, or -1. Spec §4.3.2: "no size-class fan-out. One bag of
// buffers; acquire picks any buffer with capacity >= requested."
func findFit(free []buffer.Buffer, requestedSize int) int {
	for i, b := range free {
		if b.Capacity() >= requestedSize {
			return i
		}
	}
	return -1
}

// releaseNative calls Release on b if it is a Native-backed buffer
// (which must be explicitly freed); no-op for heap-backed flavors.
func releaseNative(b buffer.Buffer) error {
	type releaser interface{ Release() error }
	if r, ok := b.(releaser); ok {
		return r.Release()
	}
	return nil
}
