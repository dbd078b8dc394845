// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package deflate

import (
	"encoding/binary"
)

// writeGzipHeader appends the fixed 10-byte gzip header (RFC 1952 §2.3)
// to buf. Optional fields (FEXTRA/FNAME/FCOMMENT/FHCRC) are never
// emitted; mtime is left at zero since the codec has no clock of its
// own to stamp (the caller may prepend real wire bytes before this
// codec sees them, but this package never fabricates a timestamp).
func writeGzipHeader(buf []byte) []byte {
	buf = append(buf, gzipID1, gzipID2, gzipDeflate, 0)
	buf = append(buf, 0, 0, 0, 0) // mtime
	buf = append(buf, 0)          // xflags
	buf = append(buf, gzipOSUnknown)
	return buf
}

// writeGzipTrailer appends the 8-byte CRC32+size trailer (RFC 1952
// §2.3.1), both fields little-endian.
func writeGzipTrailer(buf []byte, crc, size uint32) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint32(tmp[0:4], crc)
	binary.LittleEndian.PutUint32(tmp[4:8], size)
	return append(buf, tmp[:]...)
}

// gzipHeaderResult is the outcome of parsing a (possibly
// incrementally-accumulated) gzip header.
type gzipHeaderResult struct {
	headerLen int  // bytes consumed by the header, including optional fields
	ok        bool // true once headerLen is final; false means "need more bytes"
}

// parseGzipHeader inspects acc, the bytes accumulated so far, and
// reports how many of them belong to the gzip header. It returns
// ok=false (not an error) when acc is a valid-so-far prefix that simply
// isn't long enough yet to know the optional-field lengths.
func parseGzipHeader(acc []byte) (gzipHeaderResult, error) {
	if len(acc) < 10 {
		return gzipHeaderResult{}, nil
	}
	if acc[0] != gzipID1 || acc[1] != gzipID2 || acc[2] != gzipDeflate {
		return gzipHeaderResult{}, ErrMalformedCompressedData
	}
	flg := acc[3]
	i := 10
	if flg&flagExtra != 0 {
		if len(acc) < i+2 {
			return gzipHeaderResult{}, nil
		}
		xlen := int(binary.LittleEndian.Uint16(acc[i : i+2]))
		i += 2
		if len(acc) < i+xlen {
			return gzipHeaderResult{}, nil
		}
		i += xlen
	}
	if flg&flagName != 0 {
		end, ok := findNUL(acc, i)
		if !ok {
			return gzipHeaderResult{}, nil
		}
		i = end + 1
	}
	if flg&flagComment != 0 {
		end, ok := findNUL(acc, i)
		if !ok {
			return gzipHeaderResult{}, nil
		}
		i = end + 1
	}
	if flg&flagHCRC != 0 {
		if len(acc) < i+2 {
			return gzipHeaderResult{}, nil
		}
		i += 2
	}
	return gzipHeaderResult{headerLen: i, ok: true}, nil
}

func findNUL(b []byte, from int) (int, bool) {
	for i := from; i < len(b); i++ {
		if b[i] == 0 {
			return i, true
		}
	}
	return 0, false
}

