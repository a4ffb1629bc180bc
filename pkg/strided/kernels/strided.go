// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"sync"

	"github.com/gomlx/strided/pkg/strided/dispatch"
	"golang.org/x/exp/constraints"
)

// PODNumericConstraints are the Go types the Sum kernel can accumulate.
// Float16, BFloat16 and complex numbers are not included.
type PODNumericConstraints interface {
	constraints.Integer | constraints.Float
}

// walk is the position of a strided walk over one array, for a chunk [start, end) of the elements.
type walk struct {
	idx, stride int
}

func walkAt(args dispatch.Args, j, start int) walk {
	return walk{idx: args.Offset(j) + start*args.Strides[j], stride: args.Strides[j]}
}

// fillGeneric sets every element of every (output) array to the value given as aux data.
func fillGeneric[T any](args dispatch.Args) {
	value := args.Data.(T)
	for j := range args.Arrays {
		out := args.Arrays[j].([]T)
		splitOutput(args.N(), args.Strides[j], func(start, end int) {
			w := walkAt(args, j, start)
			for range end - start {
				out[w.idx] = value
				w.idx += w.stride
			}
		})
	}
}

// copyGeneric copies the input array into the output array.
func copyGeneric[T any](args dispatch.Args) {
	in, out := args.Arrays[0].([]T), args.Arrays[1].([]T)
	n := args.N()
	if n <= 0 {
		return
	}
	if args.Strides[0] == 1 && args.Strides[1] == 1 {
		inStart, outStart := args.Offset(0), args.Offset(1)
		copy(out[outStart:outStart+n], in[inStart:inStart+n])
		return
	}
	splitOutput(n, args.Strides[1], func(start, end int) {
		wIn, wOut := walkAt(args, 0, start), walkAt(args, 1, start)
		for range end - start {
			out[wOut.idx] = in[wIn.idx]
			wIn.idx += wIn.stride
			wOut.idx += wOut.stride
		}
	})
}

// Accumulator is the aux data of the Sum kernels: it holds the total of all elements summed so far.
// It is safe for concurrent use.
type Accumulator struct {
	mu    sync.Mutex
	total float64
	count int
}

// Total returns the sum of all elements accumulated.
func (a *Accumulator) Total() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Count returns the number of elements accumulated.
func (a *Accumulator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// Reset the accumulator to zero.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total = 0
	a.count = 0
}

func (a *Accumulator) add(partial float64, count int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total += partial
	a.count += count
}

// sumGeneric adds all elements of all (input) arrays to the Accumulator given as aux data.
// Partial sums are kept in float64, so narrow integer types don't wrap around.
func sumGeneric[T PODNumericConstraints](args dispatch.Args) {
	acc := args.Data.(*Accumulator)
	for j := range args.Arrays {
		in := args.Arrays[j].([]T)
		split(args.N(), func(start, end int) {
			var partial float64
			w := walkAt(args, j, start)
			for range end - start {
				partial += float64(in[w.idx])
				w.idx += w.stride
			}
			acc.add(partial, end-start)
		})
	}
}

// forEachGeneric calls the callback given as aux data for each element of the input array, in order.
// It is never parallelized.
func forEachGeneric[T any](args dispatch.Args) {
	fn := args.Data.(func(i int, value T))
	in := args.Arrays[0].([]T)
	w := walkAt(args, 0, 0)
	for i := range max(args.N(), 0) {
		fn(i, in[w.idx])
		w.idx += w.stride
	}
}

// unaryGeneric maps the input array to the output array with the function given as aux data.
func unaryGeneric[T any](args dispatch.Args) {
	fn := args.Data.(func(T) T)
	in, out := args.Arrays[0].([]T), args.Arrays[1].([]T)
	splitOutput(args.N(), args.Strides[1], func(start, end int) {
		wIn, wOut := walkAt(args, 0, start), walkAt(args, 1, start)
		for range end - start {
			out[wOut.idx] = fn(in[wIn.idx])
			wIn.idx += wIn.stride
			wOut.idx += wOut.stride
		}
	})
}

// binaryGeneric maps the two input arrays to the output array with the function given as aux data.
func binaryGeneric[T any](args dispatch.Args) {
	fn := args.Data.(func(T, T) T)
	lhs, rhs, out := args.Arrays[0].([]T), args.Arrays[1].([]T), args.Arrays[2].([]T)
	splitOutput(args.N(), args.Strides[2], func(start, end int) {
		wLhs, wRhs, wOut := walkAt(args, 0, start), walkAt(args, 1, start), walkAt(args, 2, start)
		for range end - start {
			out[wOut.idx] = fn(lhs[wLhs.idx], rhs[wRhs.idx])
			wLhs.idx += wLhs.stride
			wRhs.idx += wRhs.stride
			wOut.idx += wOut.stride
		}
	})
}
