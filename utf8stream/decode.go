// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package utf8stream

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/tayne3/gromb/buffer"
)

func wrapMalformed(byteOffset int) error {
	return fmt.Errorf("gromb/utf8stream: invalid UTF-8 at byte offset %d: %w", byteOffset, buffer.ErrMalformedText)
}

// Decode transcodes input, appending each decoded rune to out, and
// returns the number of runes appended. A trailing incomplete sequence
// is retained internally and completed by a later Decode call or
// resolved by Finish; it does not count toward the returned total.
func (d *Decoder) Decode(input []byte, out CharOutput) (int, error) {
	return d.run(input, out, false)
}

// Finish resolves any bytes left in the pending-bytes buffer:
//   - Report fails with buffer.ErrMalformedText.
//   - Replace appends exactly one U+FFFD.
//   - Ignore appends nothing.
func (d *Decoder) Finish(out CharOutput) error {
	_, err := d.run(nil, out, true)
	return err
}

// run drives Transform to completion over input, growing its
// destination buffer as needed, and decodes each validated output rune
// into out.
func (d *Decoder) run(input []byte, out CharOutput, atEOF bool) (int, error) {
	size := len(d.pending) + len(input) + utf8.UTFMax
	if size < utf8.UTFMax {
		size = utf8.UTFMax
	}
	dst := make([]byte, size)
	src := input
	count := 0
	for {
		nDst, nSrc, err := d.Transform(dst, src, atEOF)
		for _, r := range decodeRunes(dst[:nDst]) {
			if _, werr := out.WriteRune(r); werr != nil {
				return count, werr
			}
			count++
		}
		src = src[nSrc:]
		switch err {
		case transform.ErrShortDst:
			dst = make([]byte, len(dst)*2)
			continue
		case transform.ErrShortSrc:
			return count, nil
		default:
			return count, err
		}
	}
}

// decodeRunes splits b (already-validated UTF-8, per Transform's
// contract) into its constituent runes.
func decodeRunes(b []byte) []rune {
	out := make([]rune, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		out = append(out, r)
		b = b[size:]
	}
	return out
}
