// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bufpool

// WithBuffer acquires a buffer of the given size from pool, runs fn,
// and releases it on every exit path including a panic unwinding
// through fn (spec.md §4.3.3) — the Go rendition of the teacher
// corpus's scoped-acquisition construct, via defer, matching
// buffer.WithNative's pattern for the pool-backed case.
func WithBuffer(pool Pool, size int, fn func(b *Pooled) error) (err error) {
	b, err := pool.Acquire(size)
	if err != nil {
		return err
	}
	defer func() {
		if relErr := pool.Release(b); err == nil {
			err = relErr
		}
	}()
	return fn(b)
}

// WithPool constructs a pool with opts, runs fn, and calls Clear() on
// every exit path including a panic unwinding through fn.
func WithPool(fn func(p Pool) error, opts ...Option) (err error) {
	p := NewConcurrent(opts...)
	defer p.Clear()
	return fn(p)
}
