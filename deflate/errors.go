// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deflate

import "errors"

// ErrMalformedCompressedData is returned when the codec rejects its
// input as not a valid (or not a recognized) compressed stream.
var ErrMalformedCompressedData = errors.New("gromb/deflate: malformed compressed data")

// ErrNeedDictionary is returned when a stream was compressed with a
// preset dictionary, which this codec does not support.
var ErrNeedDictionary = errors.New("gromb/deflate: preset dictionary required")
