// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/strided/pkg/core/dtypes"
	"github.com/gomlx/strided/pkg/strided/typetable"
	"github.com/gomlx/strided/pkg/support/xslices"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// call holds the arguments of one invocation, as they are parsed and validated.
type call struct {
	n          int
	dtypes     []dtypes.DType
	unresolved bool // Set if some dtype argument couldn't be interpreted as a dtype.
	arrays     []any
	strides    []int
	offsets    []int
}

func (d *Dispatcher) newCall(n int) *call {
	c := &call{
		n:       n,
		dtypes:  make([]dtypes.DType, 0, d.numArrays),
		arrays:  make([]any, 0, d.numArrays),
		strides: make([]int, 0, d.numArrays),
	}
	if d.convention == WithOffsets {
		c.offsets = make([]int, 0, d.numArrays)
	}
	return c
}

// roleOf returns whether the array at index j is an input or an output.
func (d *Dispatcher) roleOf(j int) Role {
	if j < d.numIn {
		return Input
	}
	return Output
}

// roleAt returns whether the flat argument at the given position belongs to an input or an output array.
func (d *Dispatcher) roleAt(position int) Role {
	if position < d.firstOutputPosition {
		return Input
	}
	return Output
}

func arityError(got, want int) error {
	if got < want {
		return newError(ArityError, "not enough arguments: got %d, expected %d", got, want)
	}
	return newError(ArityError, "too many arguments: got %d, expected %d", got, want)
}

// checkCount validates the element count, according to the negative count policy.
func (d *Dispatcher) checkCount(n int) error {
	if n < 0 && d.rejectNegativeCount {
		return errors.WithStack(&Error{
			Kind: RangeError, Array: -1, Position: 0,
			Msg: "element count must be a nonnegative integer",
		})
	}
	return nil
}

// Apply calls the dispatcher with the flat argument list:
//
//	NoOffsets:   (n, dtype0, buffer0, stride0, dtype1, buffer1, stride1, ...)
//	WithOffsets: (n, dtype0, buffer0, stride0, offset0, dtype1, buffer1, stride1, offset1, ...)
//
// with one group per array, inputs first and then outputs. n, strides and offsets can be any Go
// integer type. The dtypes can be given as dtypes.DType or by name (e.g. "float64").
//
// It returns nil if there are no outputs, the output buffer if there is one output, or a []any
// with the output buffers otherwise. On error no kernel is called.
func (d *Dispatcher) Apply(args ...any) (any, error) {
	if len(args) != d.numArgs {
		return nil, arityError(len(args), d.numArgs)
	}
	n, ok := asInt(args[0])
	if !ok {
		return nil, errors.WithStack(&Error{
			Kind: TypeError, Array: -1, Position: 0,
			Msg: "element count must be an integer",
		})
	}
	if err := d.checkCount(n); err != nil {
		return nil, err
	}
	c := d.newCall(n)
	segment := d.convention.SegmentSize()
	for j := range d.numArrays {
		position := 1 + j*segment
		dtype, known := asDType(args[position])

		buffer := args[position+1]
		length, ok := bufferLen(buffer)
		if !ok {
			return nil, arrayError(TypeError, d.roleAt(position+1), j, position+1, msgNotArrayLike)
		}
		stride, ok := asInt(args[position+2])
		if !ok {
			return nil, arrayError(TypeError, d.roleAt(position+2), j, position+2, msgStrideNotInteger)
		}
		var offset int
		if d.convention == WithOffsets {
			offset, ok = asInt(args[position+3])
			if !ok || offset < 0 {
				return nil, arrayError(TypeError, d.roleAt(position+3), j, position+3, msgOffsetNotNonNegative)
			}
		}
		if !d.convention.inBounds(n, length, stride, offset) {
			return nil, arrayError(RangeError, d.roleAt(position+1), j, position+1, msgInsufficientElements)
		}
		c.add(d, dtype, known, buffer, stride, offset)
	}
	return d.invoke(c)
}

// Call is the typed version of Apply: it takes the number of elements and one Array per array
// argument, inputs first and then outputs.
//
// It returns an ArityError if len(arrays) != NumArrays(), and otherwise behaves like Apply.
func (d *Dispatcher) Call(n int, arrays ...Array) (any, error) {
	if len(arrays) != d.numArrays {
		return nil, arityError(len(arrays), d.numArrays)
	}
	if err := d.checkCount(n); err != nil {
		return nil, err
	}
	c := d.newCall(n)
	segment := d.convention.SegmentSize()
	for j, array := range arrays {
		position := 1 + j*segment
		role := d.roleOf(j)
		length, ok := bufferLen(array.Buffer)
		if !ok {
			return nil, arrayError(TypeError, role, j, position+1, msgNotArrayLike)
		}
		var offset int
		if d.convention == WithOffsets {
			offset = array.Offset
			if offset < 0 {
				return nil, arrayError(TypeError, role, j, position+3, msgOffsetNotNonNegative)
			}
		}
		if !d.convention.inBounds(n, length, array.Stride, offset) {
			return nil, arrayError(RangeError, role, j, position+1, msgInsufficientElements)
		}
		c.add(d, array.DType, true, array.Buffer, array.Stride, offset)
	}
	return d.invoke(c)
}

// add appends a validated array to the call.
func (c *call) add(d *Dispatcher, dtype dtypes.DType, known bool, buffer any, stride, offset int) {
	if !known && (!d.resolveByInputs || len(c.arrays) < d.numIn) {
		c.unresolved = true
	}
	c.dtypes = append(c.dtypes, dtype)
	c.arrays = append(c.arrays, buffer)
	c.strides = append(c.strides, stride)
	if c.offsets != nil {
		c.offsets = append(c.offsets, offset)
	}
}

// resolve returns the index of the kernel for the call's dtypes, or typetable.NotFound.
func (d *Dispatcher) resolve(c *call) int {
	if c.unresolved {
		return typetable.NotFound
	}
	if d.resolveByInputs {
		return d.table.ResolveInputs(d.numIn, c.dtypes)
	}
	return d.table.Resolve(c.dtypes)
}

// invoke resolves the kernel, calls it and shapes the return value.
func (d *Dispatcher) invoke(c *call) (any, error) {
	idx := d.resolve(c)
	if idx == typetable.NotFound {
		return nil, newError(TypeError, "unable to resolve a kernel for the given types %v", c.dtypes)
	}
	args := Args{
		Arrays:  c.arrays,
		Shape:   []int{c.n},
		Strides: c.strides,
		Offsets: c.offsets,
		Index:   idx,
	}
	if d.hasData {
		args.Data = d.data[idx]
	}
	if klog.V(3).Enabled() {
		klog.Infof("dispatcher %q: kernel #%d for %v, %s elements", d.name, idx, c.dtypes, humanize.Comma(int64(c.n)))
	}
	kernel := d.pool.kernel(idx)
	err := exceptions.TryCatch[error](func() { kernel(args) })
	if err != nil {
		return nil, errors.WithStack(&Error{
			Kind: KernelError, Array: -1, Position: -1,
			Msg:   fmt.Sprintf("kernel #%d failed", idx),
			Cause: err,
		})
	}

	switch d.numOut {
	case 0:
		return nil, nil
	case 1:
		return xslices.Last(c.arrays), nil
	default:
		outputs := make([]any, d.numOut)
		copy(outputs, c.arrays[d.numIn:])
		return outputs, nil
	}
}
