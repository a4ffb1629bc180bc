// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

// Convention is the calling convention of a dispatcher, selected once at construction from the
// total number of arguments.
type Convention int

const (
	// NoOffsets convention: each array is given by (dtype, buffer, stride).
	NoOffsets Convention = iota

	// WithOffsets convention: each array is given by (dtype, buffer, stride, offset).
	WithOffsets
)

// SegmentSize is the number of flat arguments describing one array: 3 or 4.
func (c Convention) SegmentSize() int {
	if c == WithOffsets {
		return 4
	}
	return 3
}

// NumArgs is the total number of flat arguments for numArrays arrays, including the leading element count.
func (c Convention) NumArgs(numArrays int) int {
	return numArrays*c.SegmentSize() + 1
}

// String implements fmt.Stringer.
func (c Convention) String() string {
	if c == WithOffsets {
		return "WithOffsets"
	}
	return "NoOffsets"
}

// conventionFor returns the convention for which numArgs arguments describe numArrays arrays.
func conventionFor(numArgs, numArrays int) (Convention, bool) {
	switch numArgs {
	case NoOffsets.NumArgs(numArrays):
		return NoOffsets, true
	case WithOffsets.NumArgs(numArrays):
		return WithOffsets, true
	default:
		return NoOffsets, false
	}
}
