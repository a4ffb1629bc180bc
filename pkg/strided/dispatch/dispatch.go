// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dispatch builds strided array functions that perform multiple dispatch on the dtypes
// of their array arguments.
//
// A Dispatcher is built from a pool of type-specialized kernels, a type table (one row of dtypes
// per kernel, one column per array argument), optional auxiliary data per kernel and the arity of
// the interface. Each call validates the element count, the buffers, the strides and the offsets
// of every array, resolves the kernel matching the declared dtypes and calls it.
//
// E.g.: an "abs" function with a float64 and a float32 kernel:
//
//	types := []dtypes.DType{
//		dtypes.Float64, dtypes.Float64,
//		dtypes.Float32, dtypes.Float32,
//	}
//	abs, err := dispatch.New(dispatch.Indexed(absFloat64, absFloat32), types, nil, 7, 1, 1)
//	...
//	x := []float64{-1, -2, -3}
//	y := make([]float64, 3)
//	_, err = abs.Apply(len(x), dtypes.Float64, x, 1, dtypes.Float64, y, 1)
//
// Dispatchers are immutable and safe for concurrent use, as long as concurrent calls don't
// share output buffers.
package dispatch

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/strided/pkg/core/dtypes"
	"github.com/gomlx/strided/pkg/strided/typetable"
	"github.com/gomlx/strided/pkg/support/xslices"
	"k8s.io/klog/v2"
)

// Config for a Dispatcher is created with Build, configured with its methods, and the Dispatcher
// is created with Done.
type Config struct {
	name                   string
	pool                   KernelPool
	types                  []dtypes.DType
	data                   []any
	numArgs, numIn, numOut int
	arityIsSet             bool
	rejectNegativeCount    bool
	resolveByInputs        bool
}

// Build starts the configuration of a Dispatcher for the given kernels and type table.
//
// The arity must be set with Arity before calling Done. E.g.:
//
//	fn, err := dispatch.Build(dispatch.Single(kernel), types).
//		Data(callbacks).
//		Arity(13, 2, 2).
//		Name("addsub").
//		Done()
func Build(pool KernelPool, types []dtypes.DType) *Config {
	return &Config{
		name:  "strided",
		pool:  pool,
		types: types,
	}
}

// Name of the dispatcher, used in logs and in String. Default is "strided".
func (c *Config) Name(name string) *Config {
	c.name = name
	return c
}

// Data sets the auxiliary data, one entry per kernel, passed to the resolved kernel as Args.Data.
// If data is nil (the default), kernels are called with Args.Data == nil.
func (c *Config) Data(data []any) *Config {
	c.data = data
	return c
}

// Arity sets the total number of arguments of the flat interface (numArgs), and the number of
// input and output arrays.
//
// numArgs must be either 3*(numInputs+numOutputs)+1 (NoOffsets convention) or
// 4*(numInputs+numOutputs)+1 (WithOffsets convention).
func (c *Config) Arity(numArgs, numInputs, numOutputs int) *Config {
	c.numArgs = numArgs
	c.numIn = numInputs
	c.numOut = numOutputs
	c.arityIsSet = true
	return c
}

// RejectNegativeCount configures whether a negative element count is rejected with a RangeError.
//
// The default is false: negative counts are passed to the kernel (which then should do nothing),
// and no bounds checks are performed for them.
func (c *Config) RejectNegativeCount(reject bool) *Config {
	c.rejectNegativeCount = reject
	return c
}

// ResolveByInputs configures the dispatcher to resolve the kernel using only the dtypes of the
// input arrays, ignoring the declared dtypes of the outputs. Default is false: all dtypes must match.
func (c *Config) ResolveByInputs(byInputs bool) *Config {
	c.resolveByInputs = byInputs
	return c
}

// Done validates the configuration and returns the Dispatcher, or a ConfigError.
func (c *Config) Done() (*Dispatcher, error) {
	if !c.arityIsSet {
		return nil, newError(ConfigError, "arity (number of arguments, inputs and outputs) must be set")
	}
	if c.pool.IsSingle() {
		if c.pool.single == nil {
			return nil, newError(ConfigError, "kernels must be either a kernel or a non-empty list of kernels")
		}
	} else {
		if len(c.pool.indexed) == 0 {
			return nil, newError(ConfigError, "kernels must be either a kernel or a non-empty list of kernels")
		}
		for ii, kernel := range c.pool.indexed {
			if kernel == nil {
				return nil, newError(ConfigError, "kernel #%d is nil", ii)
			}
		}
	}
	if c.types == nil {
		return nil, newError(ConfigError, "types must be a list of dtypes")
	}
	if c.numArgs <= 0 {
		return nil, newError(ConfigError, "number of arguments must be a positive integer, got %d", c.numArgs)
	}
	if c.numIn < 0 {
		return nil, newError(ConfigError, "number of input arrays must be a nonnegative integer, got %d", c.numIn)
	}
	if c.numOut < 0 {
		return nil, newError(ConfigError, "number of output arrays must be a nonnegative integer, got %d", c.numOut)
	}
	numArrays := c.numIn + c.numOut
	if numArrays == 0 {
		return nil, newError(ConfigError, "must specify at least one array")
	}
	var numKernels int
	if c.pool.IsSingle() {
		if len(c.types)%numArrays != 0 {
			return nil, newError(ConfigError,
				"number of types (%d) must be a multiple of the number of array arguments (%d)", len(c.types), numArrays)
		}
		numKernels = len(c.types) / numArrays
	} else {
		numKernels = len(c.pool.indexed)
		if len(c.types) != numKernels*numArrays {
			return nil, newError(ConfigError,
				"number of types (%d) must equal the number of kernels (%d) times the number of array arguments (%d)",
				len(c.types), numKernels, numArrays)
		}
	}
	if c.data != nil && len(c.data) != numKernels {
		return nil, newError(ConfigError, "data must have one element per kernel: got %d elements for %d kernels",
			len(c.data), numKernels)
	}
	convention, ok := conventionFor(c.numArgs, numArrays)
	if !ok {
		return nil, newError(ConfigError,
			"number of arguments (%d) incompatible with %d arrays: it must be %d (without offsets) or %d (with offsets)",
			c.numArgs, numArrays, NoOffsets.NumArgs(numArrays), WithOffsets.NumArgs(numArrays))
	}
	if c.resolveByInputs && c.numIn == 0 {
		return nil, newError(ConfigError, "resolving kernels by input dtypes requires at least one input array")
	}
	table, err := typetable.New(c.types, numArrays)
	if err != nil {
		return nil, newError(ConfigError, "%v", err)
	}

	d := &Dispatcher{
		name:                c.name,
		pool:                c.pool,
		table:               table,
		data:                xslices.Copy(c.data),
		hasData:             c.data != nil,
		numArgs:             c.numArgs,
		numIn:               c.numIn,
		numOut:              c.numOut,
		numArrays:           numArrays,
		convention:          convention,
		firstOutputPosition: c.numIn*convention.SegmentSize() + 1,
		rejectNegativeCount: c.rejectNegativeCount,
		resolveByInputs:     c.resolveByInputs,
	}
	if klog.V(1).Enabled() {
		klog.Infof("created dispatcher %s", d)
	}
	return d, nil
}

// New creates a Dispatcher in one call: see Build and the Config methods for details.
//
// data can be nil, if the kernels take no auxiliary data.
func New(pool KernelPool, types []dtypes.DType, data []any, numArgs, numInputs, numOutputs int) (*Dispatcher, error) {
	return Build(pool, types).Data(data).Arity(numArgs, numInputs, numOutputs).Done()
}

// MustNew is like New, but panics on error.
func MustNew(pool KernelPool, types []dtypes.DType, data []any, numArgs, numInputs, numOutputs int) *Dispatcher {
	d, err := New(pool, types, data, numArgs, numInputs, numOutputs)
	if err != nil {
		exceptions.Panicf("dispatch.MustNew failed: %+v", err)
	}
	return d
}

// Dispatcher is a strided array function interface that performs multiple dispatch on the dtypes
// of its array arguments. It is immutable after creation.
type Dispatcher struct {
	name       string
	pool       KernelPool
	table      *typetable.TypeTable
	data       []any
	hasData    bool
	convention Convention

	numArgs, numIn, numOut, numArrays int

	// firstOutputPosition is the position in the flat argument list of the first output segment:
	// arguments before it belong to input arrays.
	firstOutputPosition int

	rejectNegativeCount bool
	resolveByInputs     bool
}

// Name of the dispatcher.
func (d *Dispatcher) Name() string { return d.name }

// NumArgs returns the total number of arguments of the flat interface (see Apply).
func (d *Dispatcher) NumArgs() int { return d.numArgs }

// NumInputs returns the number of input arrays.
func (d *Dispatcher) NumInputs() int { return d.numIn }

// NumOutputs returns the number of output arrays.
func (d *Dispatcher) NumOutputs() int { return d.numOut }

// NumArrays returns the number of input plus output arrays.
func (d *Dispatcher) NumArrays() int { return d.numArrays }

// NumKernels returns the number of type signatures (rows of the type table).
func (d *Dispatcher) NumKernels() int { return d.table.NumKernels() }

// Convention returns whether the dispatcher takes offsets.
func (d *Dispatcher) Convention() Convention { return d.convention }

// Types returns the type table used to resolve kernels.
func (d *Dispatcher) Types() *typetable.TypeTable { return d.table }

// String implements fmt.Stringer.
func (d *Dispatcher) String() string {
	poolKind := "indexed"
	if d.pool.IsSingle() {
		poolKind = "single"
	}
	return fmt.Sprintf("%q: %s kernels (%s), %d inputs, %d outputs, %d arguments, %s, data=%v",
		d.name, humanize.Comma(int64(d.table.NumKernels())), poolKind, d.numIn, d.numOut, d.numArgs,
		d.convention, d.hasData)
}
