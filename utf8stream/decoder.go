// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package utf8stream implements a resumable, streaming UTF-8 decoder
// (spec §4.6, §6.3): bytes may arrive in arbitrarily small chunks, and
// a multi-byte sequence split across two chunks is carried forward in
// an internal pending-bytes buffer rather than lost or rejected.
package utf8stream

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// MalformedPolicy selects how the decoder handles bytes that are not
// valid UTF-8 once no more input can complete them (spec §4.6).
type MalformedPolicy int

const (
	// Report fails with buffer.ErrMalformedText.
	Report MalformedPolicy = iota
	// Replace emits U+FFFD for each ill-formed subsequence.
	Replace
	// Ignore emits nothing for ill-formed bytes.
	Ignore
)

// CharOutput receives decoded runes. *strings.Builder and *bytes.Buffer
// both already satisfy this via their WriteRune method.
type CharOutput interface {
	WriteRune(r rune) (int, error)
}

// Decoder is a resumable UTF-8 decoder. It implements
// transform.Transformer so transform.ErrShortSrc doubles as the
// "pending bytes, need more input" signal spec §4.6 describes, instead
// of a parallel bespoke resumption API.
//
// A Decoder carries at most utf8.UTFMax (4) pending bytes between
// Transform calls: the unconsumed tail of a multi-byte sequence that
// hasn't yet seen its closing continuation bytes.
type Decoder struct {
	policy  MalformedPolicy
	pending []byte
}

// NewDecoder returns a decoder applying policy to ill-formed input.
func NewDecoder(policy MalformedPolicy) *Decoder {
	return &Decoder{policy: policy, pending: make([]byte, 0, utf8.UTFMax)}
}

// Reset clears pending-bytes, returning the decoder to its initial
// state. Decoders are reusable after Reset.
func (d *Decoder) Reset() { d.pending = d.pending[:0] }

// Transform validates and copies src into dst, buffering an incomplete
// trailing multi-byte sequence internally instead of reporting it as
// consumed. See transform.Transformer for the dst/src/atEOF contract.
func (d *Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if len(dst) == 0 && (len(src) > 0 || len(d.pending) > 0) {
		return 0, 0, transform.ErrShortDst
	}

	buf := make([]byte, 0, len(d.pending)+len(src))
	buf = append(buf, d.pending...)
	buf = append(buf, src...)
	splitAt := len(d.pending)

	i, dPos := 0, 0
	for i < len(buf) {
		r, size := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && size <= 1 {
			if !atEOF && !utf8.FullRune(buf[i:]) {
				// A genuinely truncated (not malformed) sequence: fold
				// the remainder into pending and claim all of src, since
				// the caller must not re-present these bytes later.
				d.pending = append(d.pending[:0], buf[i:]...)
				return dPos, len(src), transform.ErrShortSrc
			}
			skip := errorRunLen(buf[i:])
			switch d.policy {
			case Report:
				return dPos, clampNSrc(i, splitAt), wrapMalformed(i)
			case Replace:
				if dPos+3 > len(dst) {
					return dPos, clampNSrc(i, splitAt), transform.ErrShortDst
				}
				dPos += utf8.EncodeRune(dst[dPos:], utf8.RuneError)
				i += skip
				continue
			case Ignore:
				i += skip
				continue
			}
		}
		if dPos+size > len(dst) {
			return dPos, clampNSrc(i, splitAt), transform.ErrShortDst
		}
		copy(dst[dPos:dPos+size], buf[i:i+size])
		dPos += size
		i += size
	}
	d.pending = d.pending[:0]
	return dPos, clampNSrc(i, splitAt), nil
}

func clampNSrc(i, splitAt int) int {
	if i <= splitAt {
		return 0
	}
	return i - splitAt
}

// errorRunLen returns how many leading bytes of b form one ill-formed
// subsequence, per the Unicode "maximal subpart" recommendation: a
// truncated 3-byte lead with one valid continuation byte is one error
// unit (and one replacement character), not two.
func errorRunLen(b []byte) int {
	c := b[0]
	var want int
	switch {
	case c>>5 == 0x6:
		want = 2
	case c>>4 == 0xE:
		want = 3
	case c>>3 == 0x1E:
		want = 4
	default:
		return 1
	}
	n := 1
	for n < want && n < len(b) && b[n]&0xC0 == 0x80 {
		n++
	}
	return n
}
