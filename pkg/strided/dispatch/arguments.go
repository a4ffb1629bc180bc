// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"math"
	"reflect"

	"github.com/gomlx/strided/pkg/core/dtypes"
)

// Collection can be implemented by buffers that are not Go slices or arrays, to be accepted as
// array arguments. Len is the number of elements addressable by the kernel.
type Collection interface {
	Len() int
}

// Array describes one strided array argument for Dispatcher.Call.
type Array struct {
	// DType declared for the array, used to resolve the kernel.
	DType dtypes.DType

	// Buffer is a slice, an array, a pointer to an array or a Collection.
	Buffer any

	// Stride is the index increment between consecutive elements. It can be negative or zero.
	Stride int

	// Offset is the index of the first element. It is only used in the WithOffsets convention,
	// where it must be nonnegative.
	Offset int
}

// bufferLen returns the number of elements of an array-like buffer, and whether it is array-like.
func bufferLen(buffer any) (int, bool) {
	switch b := buffer.(type) {
	case nil:
		return 0, false
	case Collection:
		return b.Len(), true
	case []float64:
		return len(b), true
	case []float32:
		return len(b), true
	}
	v := reflect.ValueOf(buffer)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return v.Len(), true
	case reflect.Pointer:
		if v.IsNil() || v.Type().Elem().Kind() != reflect.Array {
			return 0, false
		}
		return v.Elem().Len(), true
	default:
		return 0, false
	}
}

// asInt converts any Go integer value to int. It returns false for non-integer values, and for
// integers that don't fit an int.
func asInt(value any) (int, bool) {
	if i, ok := value.(int); ok {
		return i, true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < math.MinInt || i > math.MaxInt {
			return 0, false
		}
		return int(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	default:
		return 0, false
	}
}

// asDType converts the dtype field of an array argument: either a dtypes.DType or the name of one.
// It returns false if the value can't be interpreted as a dtype, in which case kernel resolution fails.
func asDType(value any) (dtypes.DType, bool) {
	switch v := value.(type) {
	case dtypes.DType:
		return v, true
	case string:
		dtype, err := dtypes.DTypeString(v)
		return dtype, err == nil
	default:
		return dtypes.InvalidDType, false
	}
}

// stridedSpan returns (n-1)*|stride|, the distance between the first and last element accessed,
// and false if it overflows an int. n must be positive.
func stridedSpan(n, stride int) (int, bool) {
	steps := n - 1
	if steps == 0 || stride == 0 {
		return 0, true
	}
	if stride == math.MinInt {
		return 0, false
	}
	if stride < 0 {
		stride = -stride
	}
	if steps > math.MaxInt/stride {
		return 0, false
	}
	return steps * stride, true
}

// inBounds returns whether every element accessed by a strided walk of n elements lies within a
// buffer of the given length.
//
// There is nothing to check for n <= 0, in both conventions: so n=0 with stride 0 is accepted
// even on an empty buffer.
//
// With offsets, both the first index (offset) and the last one (offset+(n-1)*stride) must be in
// [0, length). A negative stride walk starting past the end of the buffer is rejected, even if
// its last index is within it.
func (c Convention) inBounds(n, length, stride, offset int) bool {
	if n <= 0 {
		return true
	}
	span, ok := stridedSpan(n, stride)
	if !ok {
		return false
	}
	if c == NoOffsets {
		// Walk starts at 0 for positive strides and at the end for negative ones.
		return span < length
	}
	// Last index is offset+(n-1)*stride: it must be in [0, length), and so must the offset.
	if offset >= length {
		return false
	}
	if stride >= 0 {
		return span < length-offset
	}
	return span <= offset
}
