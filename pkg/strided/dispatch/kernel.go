// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

// Kernel is a type-specialized strided array function.
//
// It is called synchronously, after all arguments were validated, and it is expected to
// write its results into the output buffers in place.
type Kernel func(args Args)

// Args are the normalized arguments a Kernel is called with.
type Args struct {
	// Arrays holds the buffers of the strided arrays, inputs first and then outputs, in the order given by the caller.
	Arrays []any

	// Shape holds one element: the number of indexed elements.
	Shape []int

	// Strides holds one stride per array.
	Strides []int

	// Offsets holds one offset per array in the WithOffsets convention, and is nil otherwise.
	Offsets []int

	// Data is the auxiliary data configured for the resolved kernel, or nil if none was configured.
	Data any

	// Index is the row of the type table that was resolved for the call.
	Index int
}

// N returns the number of indexed elements.
func (a Args) N() int {
	return a.Shape[0]
}

// Offset returns the index of the first element accessed in the buffer of array j.
//
// In the WithOffsets convention it is the offset given by the caller. In the NoOffsets convention
// the walk starts at the end of the buffer for negative strides: (1-N)*stride.
func (a Args) Offset(j int) int {
	if a.Offsets != nil {
		return a.Offsets[j]
	}
	if a.Strides[j] < 0 {
		return (1 - a.N()) * a.Strides[j]
	}
	return 0
}

// KernelPool is either a single polymorphic Kernel, used for every resolved type signature,
// or a list of kernels, where kernel i implements row i of the type table.
//
// Create it with Single or Indexed.
type KernelPool struct {
	single    Kernel
	indexed   []Kernel
	isIndexed bool
}

// Single returns a KernelPool with one kernel used for every type signature.
// The kernel can use Args.Index to tell which signature was resolved.
func Single(kernel Kernel) KernelPool {
	return KernelPool{single: kernel}
}

// Indexed returns a KernelPool where kernels[i] implements row i of the type table.
func Indexed(kernels ...Kernel) KernelPool {
	return KernelPool{indexed: kernels, isIndexed: true}
}

// IsSingle returns whether the pool holds a single polymorphic kernel.
func (p KernelPool) IsSingle() bool {
	return !p.isIndexed
}

// Len returns the number of kernels in an indexed pool, or 1 for a single kernel pool.
func (p KernelPool) Len() int {
	if p.IsSingle() {
		return 1
	}
	return len(p.indexed)
}

// kernel returns the kernel for the resolved row index.
func (p KernelPool) kernel(index int) Kernel {
	if p.IsSingle() {
		return p.single
	}
	return p.indexed[index]
}
