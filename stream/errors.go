// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stream

import "errors"

// ErrEndOfStream is returned by an auto-refill stream operation when the
// refill callback signals end-of-stream before the requested demand was
// met (spec §4.5).
var ErrEndOfStream = errors.New("gromb/stream: end of stream")

// ErrCancelled is returned when a refill callback's context is cancelled
// while a read/peek operation is suspended waiting on more bytes.
var ErrCancelled = errors.New("gromb/stream: cancelled")
