// Copyright 2025 The Gromb Authors. All rights reserved.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

// managed is the heap-backed storage flavor (spec §3.1): an owned byte
// array observable without copy. It is also the concrete type returned
// by Slice() and ReadBytes() for every contiguous-backed flavor, tagged
// with Kind() == Slice in that case.
//
// Generalizes the teacher's mbuff.Buffer (data []byte, pos int, order
// binary.ByteOrder) by keeping position, limit and capacity as three
// independent cursors instead of growing data via append/Commit.
type managed struct {
	*core
}

// NewManaged allocates a new read-write Managed buffer of the given
// capacity, positioned for writing (pos=0, limit=capacity).
func NewManaged(capacity int) Buffer {
	return &managed{core: newCore(capacity, Managed)}
}

// NewManagedFrom wraps an existing []byte as a Managed buffer without
// copying. The buffer starts positioned for reading: pos=0,
// limit=len(data), capacity=len(data). This mirrors the teacher's
// NewBufferFrom.
func NewManagedFrom(data []byte) Buffer {
	c := &core{
		data:  data,
		pos:   0,
		limit: len(data),
		order: BigEndian,
		kind:  Managed,
	}
	return &managed{core: c}
}

// NewManagedReadOnlyFrom wraps an existing []byte as a read-only Managed
// buffer, positioned for reading.
func NewManagedReadOnlyFrom(data []byte) Buffer {
	c := &core{
		data:     data,
		pos:      0,
		limit:    len(data),
		order:    BigEndian,
		readOnly: true,
		kind:     Managed,
	}
	return &managed{core: c}
}
