// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deflate

import "github.com/tayne3/gromb/buffer"

// SuspendingEncoder adapts Encoder to the "push a chunk, get back
// everything produced" shape spec §4.7.4 describes for hosts without a
// callback-based codec API. Since this package's codecs are already
// synchronous, the adapter is a trivial collector: no actual
// suspension/goroutine machinery is needed.
type SuspendingEncoder struct {
	enc *Encoder
}

// NewSuspendingEncoder wraps enc.
func NewSuspendingEncoder(enc *Encoder) *SuspendingEncoder {
	return &SuspendingEncoder{enc: enc}
}

// Compress feeds chunk through the encoder and returns every output
// chunk produced, in order.
func (s *SuspendingEncoder) Compress(chunk buffer.Buffer) ([]buffer.Buffer, error) {
	var out []buffer.Buffer
	err := s.enc.Compress(chunk, func(b buffer.Buffer) error {
		out = append(out, b)
		return nil
	})
	return out, err
}

// Flush forces a sync-flush point and returns the emitted chunks.
func (s *SuspendingEncoder) Flush() ([]buffer.Buffer, error) {
	var out []buffer.Buffer
	err := s.enc.Flush(func(b buffer.Buffer) error {
		out = append(out, b)
		return nil
	})
	return out, err
}

// Finish closes the stream and returns the final emitted chunks.
func (s *SuspendingEncoder) Finish() ([]buffer.Buffer, error) {
	var out []buffer.Buffer
	err := s.enc.Finish(func(b buffer.Buffer) error {
		out = append(out, b)
		return nil
	})
	return out, err
}

// SuspendingDecoder is the decode-side counterpart of SuspendingEncoder.
type SuspendingDecoder struct {
	dec *Decoder
}

// NewSuspendingDecoder wraps dec.
func NewSuspendingDecoder(dec *Decoder) *SuspendingDecoder {
	return &SuspendingDecoder{dec: dec}
}

// Decompress feeds chunk through the decoder and returns every output
// chunk produced, in order.
func (s *SuspendingDecoder) Decompress(chunk buffer.Buffer) ([]buffer.Buffer, error) {
	var out []buffer.Buffer
	err := s.dec.Decompress(chunk, func(b buffer.Buffer) error {
		out = append(out, b)
		return nil
	})
	return out, err
}

// Finish signals end of input and returns the final emitted chunks.
func (s *SuspendingDecoder) Finish() ([]buffer.Buffer, error) {
	var out []buffer.Buffer
	err := s.dec.Finish(func(b buffer.Buffer) error {
		out = append(out, b)
		return nil
	})
	return out, err
}
