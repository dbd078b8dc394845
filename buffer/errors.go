// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import "errors"

// Sentinel error kinds, per spec §7. Every component in gromb wraps one
// of these with a call-site prefix (mirroring the teacher's own
// "mbuff.Buffer.Seek: ..." convention) and is checkable with errors.Is.
var (
	// ErrUnderflow is returned when an operation requires more bytes
	// than remaining (or available, for streams).
	ErrUnderflow = errors.New("gromb: underflow")
	// ErrOverflow is returned when a write would cross limit or capacity.
	ErrOverflow = errors.New("gromb: overflow")
	// ErrOutOfRange is returned when an index or size argument falls
	// outside its legal interval.
	ErrOutOfRange = errors.New("gromb: out of range")
	// ErrMalformedText is returned when bytes are not valid UTF-8 under
	// the Report policy.
	ErrMalformedText = errors.New("gromb: malformed text")
	// ErrUnsupported is returned when a storage flavor cannot provide a
	// requested capability (e.g. a raw base pointer on a Fragmented
	// buffer).
	ErrUnsupported = errors.New("gromb: unsupported")
	// ErrClosed is returned for any operation on a released resource.
	ErrClosed = errors.New("gromb: closed")
)
