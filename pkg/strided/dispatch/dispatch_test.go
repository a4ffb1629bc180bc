// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dispatch_test

import (
	"math"
	"sync"
	"testing"

	"github.com/gomlx/strided/pkg/core/dtypes"
	"github.com/gomlx/strided/pkg/strided/dispatch"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// countingKernel returns a kernel that only counts how many times it was called.
func countingKernel(count *int) dispatch.Kernel {
	return func(dispatch.Args) { *count++ }
}

// fillFloat64 writes value to every indexed element of every array.
func fillFloat64(value float64) dispatch.Kernel {
	return func(args dispatch.Args) {
		for j := range args.Arrays {
			out := args.Arrays[j].([]float64)
			idx := args.Offset(j)
			for range args.N() {
				out[idx] = value
				idx += args.Strides[j]
			}
		}
	}
}

// sumInto returns a kernel that adds all indexed elements of all (float64) arrays into *total.
func sumInto(total *float64) dispatch.Kernel {
	return func(args dispatch.Args) {
		for j := range args.Arrays {
			in := args.Arrays[j].([]float64)
			idx := args.Offset(j)
			for range args.N() {
				*total += in[idx]
				idx += args.Strides[j]
			}
		}
	}
}

func requireDispatchError(t *testing.T, err error, kind error, role dispatch.Role, position int) *dispatch.Error {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	var dispatchErr *dispatch.Error
	require.True(t, errors.As(err, &dispatchErr), "error %v is not a *dispatch.Error", err)
	assert.Equal(t, role, dispatchErr.Role, "role for %v", err)
	assert.Equal(t, position, dispatchErr.Position, "position for %v", err)
	return dispatchErr
}

func TestNew_ConfigErrors(t *testing.T) {
	var count int
	k := countingKernel(&count)
	f64x2 := []dtypes.DType{dtypes.Float64, dtypes.Float64}
	testCases := []struct {
		name                 string
		pool                 dispatch.KernelPool
		types                []dtypes.DType
		data                 []any
		nargs, nin, nout     int
		wantMessageSubstring string
	}{
		{"nil kernel", dispatch.Single(nil), f64x2, nil, 7, 1, 1, "non-empty list of kernels"},
		{"empty kernel list", dispatch.Indexed(), f64x2, nil, 7, 1, 1, "non-empty list of kernels"},
		{"nil kernel in list", dispatch.Indexed(k, nil), append(f64x2, f64x2...), nil, 7, 1, 1, "kernel #1 is nil"},
		{"nil types", dispatch.Single(k), nil, nil, 7, 1, 1, "types must be"},
		{"types not a multiple", dispatch.Single(k), []dtypes.DType{dtypes.Float64}, nil, 7, 1, 1, "must be a multiple"},
		{"types and kernels mismatch", dispatch.Indexed(k, k), f64x2, nil, 7, 1, 1, "number of kernels (2)"},
		{"data length mismatch", dispatch.Single(k), f64x2, []any{1, 2}, 7, 1, 1, "one element per kernel"},
		{"data length mismatch for indexed", dispatch.Indexed(k), f64x2, []any{}, 7, 1, 1, "one element per kernel"},
		{"incompatible nargs", dispatch.Single(k), f64x2, nil, 8, 1, 1, "must be 7 (without offsets) or 9 (with offsets)"},
		{"zero nargs", dispatch.Single(k), f64x2, nil, 0, 1, 1, "positive integer"},
		{"negative inputs", dispatch.Single(k), f64x2, nil, 7, -1, 3, "input arrays"},
		{"negative outputs", dispatch.Single(k), f64x2, nil, 7, 3, -1, "output arrays"},
		{"no arrays", dispatch.Single(k), f64x2, nil, 1, 0, 0, "at least one array"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := dispatch.New(tc.pool, tc.types, tc.data, tc.nargs, tc.nin, tc.nout)
			require.ErrorIs(t, err, dispatch.ErrConfig)
			require.ErrorContains(t, err, tc.wantMessageSubstring)
			require.Nil(t, d)
		})
	}

	_, err := dispatch.Build(dispatch.Single(k), f64x2).Done()
	require.ErrorIs(t, err, dispatch.ErrConfig)

	_, err = dispatch.Build(dispatch.Single(k), f64x2).Arity(7, 0, 2).ResolveByInputs(true).Done()
	require.ErrorIs(t, err, dispatch.ErrConfig)

	require.Panics(t, func() { _ = dispatch.MustNew(dispatch.Single(k), f64x2, nil, 8, 1, 1) })
	assert.Equal(t, 0, count)
}

func TestNew_Accessors(t *testing.T) {
	var count int
	types := []dtypes.DType{
		dtypes.Float64, dtypes.Float64, dtypes.Float64,
		dtypes.Float32, dtypes.Float32, dtypes.Float32,
	}
	d := dispatch.MustNew(dispatch.Single(countingKernel(&count)), types, []any{"a", "b"}, 13, 2, 1)
	assert.Equal(t, "strided", d.Name())
	assert.Equal(t, 13, d.NumArgs())
	assert.Equal(t, 2, d.NumInputs())
	assert.Equal(t, 1, d.NumOutputs())
	assert.Equal(t, 3, d.NumArrays())
	assert.Equal(t, 2, d.NumKernels())
	assert.Equal(t, dispatch.WithOffsets, d.Convention())
	assert.Equal(t, []dtypes.DType{dtypes.Float32, dtypes.Float32, dtypes.Float32}, d.Types().Row(1))
	assert.Equal(t, `"strided": 2 kernels (single), 2 inputs, 1 outputs, 13 arguments, WithOffsets, data=true`, d.String())

	d, err := dispatch.Build(dispatch.Indexed(countingKernel(&count)), types[:3]).Arity(10, 2, 1).Name("add").Done()
	require.NoError(t, err)
	assert.Equal(t, dispatch.NoOffsets, d.Convention())
	assert.Equal(t, `"add": 1 kernels (indexed), 2 inputs, 1 outputs, 10 arguments, NoOffsets, data=false`, d.String())
}

func TestApply_Arity(t *testing.T) {
	var count int
	d := dispatch.MustNew(dispatch.Single(countingKernel(&count)),
		[]dtypes.DType{dtypes.Float64, dtypes.Float64}, nil, 7, 1, 1)
	x := []float64{1, 2}
	y := []float64{0, 0}

	_, err := d.Apply(2, dtypes.Float64, x, 1, dtypes.Float64, y)
	requireDispatchError(t, err, dispatch.ErrArity, dispatch.NoRole, -1)
	require.ErrorContains(t, err, "not enough arguments")

	_, err = d.Apply()
	require.ErrorIs(t, err, dispatch.ErrArity)

	_, err = d.Apply(2, dtypes.Float64, x, 1, dtypes.Float64, y, 1, 0)
	requireDispatchError(t, err, dispatch.ErrArity, dispatch.NoRole, -1)
	require.ErrorContains(t, err, "too many arguments")

	_, err = d.Call(2, dispatch.Array{DType: dtypes.Float64, Buffer: x, Stride: 1})
	require.ErrorIs(t, err, dispatch.ErrArity)
	require.ErrorContains(t, err, "not enough arguments")

	a := dispatch.Array{DType: dtypes.Float64, Buffer: x, Stride: 1}
	_, err = d.Call(2, a, a, a)
	require.ErrorIs(t, err, dispatch.ErrArity)
	require.ErrorContains(t, err, "too many arguments")
	assert.Equal(t, 0, count)

	_, err = d.Apply(2, dtypes.Float64, x, 1, dtypes.Float64, y, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestApply_ElementCountMustBeInteger(t *testing.T) {
	var count int
	d := dispatch.MustNew(dispatch.Single(countingKernel(&count)),
		[]dtypes.DType{dtypes.Float64, dtypes.Float64}, nil, 7, 1, 1)
	x := []float64{1, 2}
	y := []float64{0, 0}
	for _, value := range []any{"5", 3.14, math.NaN(), true, false, nil, []int{}, struct{}{}, uint64(math.MaxUint64)} {
		_, err := d.Apply(value, dtypes.Float64, x, 1, dtypes.Float64, y, 1)
		requireDispatchError(t, err, dispatch.ErrType, dispatch.NoRole, 0)
		require.ErrorContains(t, err, "element count must be an integer")
	}
	assert.Equal(t, 0, count)

	// Any integer kind is accepted.
	for _, value := range []any{int8(2), int16(2), int32(2), int64(2), uint(2), uint8(2), uint32(2), uint64(2)} {
		_, err := d.Apply(value, dtypes.Float64, x, 1, dtypes.Float64, y, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 8, count)
}

func TestApply_InvalidArrayArguments(t *testing.T) {
	var count int
	// 2 inputs and 1 output, no offsets: positions 1-3, 4-6 are inputs, 7-9 the output.
	d := dispatch.MustNew(dispatch.Single(countingKernel(&count)),
		[]dtypes.DType{dtypes.Float64, dtypes.Float64, dtypes.Float64}, nil, 10, 2, 1)
	valid := func() []any {
		return []any{
			2,
			dtypes.Float64, []float64{1, 2}, 1,
			dtypes.Float64, []float64{1, 2}, 1,
			dtypes.Float64, []float64{0, 0}, 1,
		}
	}
	notArrayLike := []any{"abc", 3.14, 5, true, nil, map[string]int{}, (*[2]float64)(nil), &[]float64{1, 2}}
	notInteger := []any{"1", 3.14, math.NaN(), true, nil, []int{1}}
	testCases := []struct {
		position int
		role     dispatch.Role
		values   []any
		message  string
	}{
		{2, dispatch.Input, notArrayLike, "input array arguments must be array-like"},
		{5, dispatch.Input, notArrayLike, "input array arguments must be array-like"},
		{8, dispatch.Output, notArrayLike, "output array arguments must be array-like"},
		{3, dispatch.Input, notInteger, "input array strides must be integers"},
		{6, dispatch.Input, notInteger, "input array strides must be integers"},
		{9, dispatch.Output, notInteger, "output array strides must be integers"},
	}
	for _, tc := range testCases {
		for _, value := range tc.values {
			args := valid()
			args[tc.position] = value
			_, err := d.Apply(args...)
			dispatchErr := requireDispatchError(t, err, dispatch.ErrType, tc.role, tc.position)
			assert.Equal(t, (tc.position-1)/3, dispatchErr.Array)
			require.ErrorContains(t, err, tc.message)
		}
	}
	assert.Equal(t, 0, count)

	// Arrays, pointers to arrays and Collections are array-like.
	args := valid()
	args[2] = [2]float64{}
	args[5] = &[3]float32{}
	args[8] = lenCollection(2)
	_, err := d.Apply(args...)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

type lenCollection int

func (c lenCollection) Len() int { return int(c) }

func TestApply_InvalidOffsets(t *testing.T) {
	var count int
	// 1 input and 1 output with offsets: positions 1-4 input, 5-8 output.
	d := dispatch.MustNew(dispatch.Single(countingKernel(&count)),
		[]dtypes.DType{dtypes.Float64, dtypes.Float64}, nil, 9, 1, 1)
	for _, value := range []any{-1, int64(-3), "0", 0.5, math.NaN(), true, nil, []int{0}} {
		_, err := d.Apply(2, dtypes.Float64, []float64{1, 2}, 1, value, dtypes.Float64, []float64{0, 0}, 1, 0)
		requireDispatchError(t, err, dispatch.ErrType, dispatch.Input, 4)
		require.ErrorContains(t, err, "input array offsets must be nonnegative integers")

		_, err = d.Apply(2, dtypes.Float64, []float64{1, 2}, 1, 0, dtypes.Float64, []float64{0, 0}, 1, value)
		requireDispatchError(t, err, dispatch.ErrType, dispatch.Output, 8)
		require.ErrorContains(t, err, "output array offsets must be nonnegative integers")
	}
	assert.Equal(t, 0, count)

	_, err := d.Call(2,
		dispatch.Array{DType: dtypes.Float64, Buffer: []float64{1, 2}, Stride: 1, Offset: -1},
		dispatch.Array{DType: dtypes.Float64, Buffer: []float64{0, 0}, Stride: 1})
	requireDispatchError(t, err, dispatch.ErrType, dispatch.Input, 4)
	assert.Equal(t, 0, count)
}

func TestApply_BoundsWithoutOffsets(t *testing.T) {
	testCases := []struct {
		name           string
		n, length      int
		stride         int
		wantRangeError bool
	}{
		{"exact fit", 4, 4, 1, false},
		{"too short", 4, 3, 1, true},
		{"stride 2 fits", 4, 7, 2, false},
		{"stride 2 overruns", 4, 6, 2, true},
		{"negative stride fits", 4, 7, -2, false},
		{"negative stride overruns", 4, 6, -2, true},
		{"zero stride", 3, 1, 0, false},
		{"one element, empty buffer", 1, 0, 1, true},
		{"zero elements, zero stride, empty buffer", 0, 0, 0, false},
		{"negative count", -2, 0, 1, false},
		{"overflow", math.MaxInt/2 + 2, 10, 3, true},
		{"minimum stride", 3, 10, math.MinInt, true},
	}
	for _, tc := range testCases {
		for _, role := range []dispatch.Role{dispatch.Input, dispatch.Output} {
			t.Run(tc.name+"/"+role.String(), func(t *testing.T) {
				var count int
				d := dispatch.MustNew(dispatch.Single(countingKernel(&count)),
					[]dtypes.DType{dtypes.Float64, dtypes.Float64}, nil, 7, 1, 1)
				args := []any{
					tc.n,
					dtypes.Float64, make([]float64, 64), 1,
					dtypes.Float64, make([]float64, 64), 1,
				}
				bufferPosition := 2
				if role == dispatch.Output {
					bufferPosition = 5
				}
				args[bufferPosition] = make([]float64, tc.length)
				args[bufferPosition+1] = tc.stride
				if tc.n > 64 {
					// Keep the other array valid: only the tested one should fail.
					other := 7 - bufferPosition
					args[other+1] = 0
				}
				_, err := d.Apply(args...)
				if tc.wantRangeError {
					requireDispatchError(t, err, dispatch.ErrRange, role, bufferPosition)
					require.ErrorContains(t, err, role.String()+" array arguments have insufficient elements")
					assert.Equal(t, 0, count)
				} else {
					require.NoError(t, err)
					assert.Equal(t, 1, count)
				}
			})
		}
	}
}

func TestApply_BoundsWithOffsets(t *testing.T) {
	testCases := []struct {
		name           string
		n, length      int
		stride, offset int
		wantRangeError bool
	}{
		{"exact fit", 4, 4, 1, 0, false},
		{"offset overruns", 4, 4, 1, 1, true},
		{"stride 2 fits", 3, 5, 2, 0, false},
		{"stride 2 with offset overruns", 3, 5, 2, 1, true},
		{"negative stride from the end", 3, 5, -2, 4, false},
		{"negative stride underruns", 3, 5, -2, 3, true},
		{"negative stride starting past the end", 3, 5, -1, 6, true},
		{"zero stride at last element", 4, 5, 0, 4, false},
		{"zero stride past the end", 1, 5, 0, 5, true},
		{"zero elements ignore offsets", 0, 0, 5, 10, false},
		{"negative count ignores offsets", -3, 0, 1, 10, false},
	}
	for _, tc := range testCases {
		for _, role := range []dispatch.Role{dispatch.Input, dispatch.Output} {
			t.Run(tc.name+"/"+role.String(), func(t *testing.T) {
				var count int
				d := dispatch.MustNew(dispatch.Single(countingKernel(&count)),
					[]dtypes.DType{dtypes.Float64, dtypes.Float64}, nil, 9, 1, 1)
				args := []any{
					tc.n,
					dtypes.Float64, make([]float64, 64), 1, 0,
					dtypes.Float64, make([]float64, 64), 1, 0,
				}
				bufferPosition := 2
				if role == dispatch.Output {
					bufferPosition = 6
				}
				args[bufferPosition] = make([]float64, tc.length)
				args[bufferPosition+1] = tc.stride
				args[bufferPosition+2] = tc.offset
				_, err := d.Apply(args...)
				if tc.wantRangeError {
					requireDispatchError(t, err, dispatch.ErrRange, role, bufferPosition)
					assert.Equal(t, 0, count)
				} else {
					require.NoError(t, err)
					assert.Equal(t, 1, count)
				}
			})
		}
	}
}

func TestApply_Resolution(t *testing.T) {
	var calls []int
	kernel := func(idx int) dispatch.Kernel {
		return func(args dispatch.Args) {
			assert.Equal(t, idx, args.Index)
			calls = append(calls, idx)
		}
	}
	types := []dtypes.DType{
		dtypes.Float64, dtypes.Float64,
		dtypes.Float32, dtypes.Float32,
		dtypes.Float32, dtypes.Float64,
		dtypes.Float32, dtypes.Float32, // Duplicate of row 1: never selected.
	}
	d := dispatch.MustNew(dispatch.Indexed(kernel(0), kernel(1), kernel(2), kernel(3)), types, nil, 7, 1, 1)
	x32, y32 := []float32{1, 2}, []float32{0, 0}
	x64, y64 := []float64{1, 2}, []float64{0, 0}

	_, err := d.Apply(2, dtypes.Float32, x32, 1, dtypes.Float32, y32, 1)
	require.NoError(t, err)
	_, err = d.Apply(2, dtypes.Float32, x32, 1, dtypes.Float64, y64, 1)
	require.NoError(t, err)
	_, err = d.Apply(2, "float64", x64, 1, "F64", y64, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, calls)

	// No match, no coercion.
	for _, dtypeArgs := range [][2]any{
		{dtypes.Float64, dtypes.Float32},
		{dtypes.Int32, dtypes.Int32},
		{"generic", dtypes.Float64},
		{dtypes.Float64, 12},
		{nil, dtypes.Float64},
	} {
		_, err = d.Apply(2, dtypeArgs[0], x64, 1, dtypeArgs[1], y64, 1)
		requireDispatchError(t, err, dispatch.ErrType, dispatch.NoRole, -1)
		require.ErrorContains(t, err, "unable to resolve a kernel")
	}
	assert.Len(t, calls, 3)

	// Resolution errors are only reported after all arrays are validated.
	_, err = d.Apply(2, "generic", x64, 1, dtypes.Float64, []float64{0}, 1)
	require.ErrorIs(t, err, dispatch.ErrRange)
}

func TestApply_ResolveByInputs(t *testing.T) {
	var got []int
	kernel := func(args dispatch.Args) { got = append(got, args.Index) }
	types := []dtypes.DType{
		dtypes.Float64, dtypes.Float64,
		dtypes.Float32, dtypes.Float32,
	}
	d, err := dispatch.Build(dispatch.Single(kernel), types).Arity(7, 1, 1).ResolveByInputs(true).Done()
	require.NoError(t, err)
	_, err = d.Apply(1, dtypes.Float32, []float32{1}, 1, dtypes.Int64, []int64{0}, 1)
	require.NoError(t, err)
	_, err = d.Apply(1, dtypes.Float64, []float64{1}, 1, "not a dtype", []int64{0}, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, got)

	_, err = d.Apply(1, dtypes.Int8, []int8{1}, 1, dtypes.Float64, []float64{0}, 1)
	require.ErrorIs(t, err, dispatch.ErrType)
}

func TestApply_NegativeCount(t *testing.T) {
	var count int
	types := []dtypes.DType{dtypes.Float64}
	d := dispatch.MustNew(dispatch.Single(countingKernel(&count)), types, nil, 4, 0, 1)
	_, err := d.Apply(-1, dtypes.Float64, []float64{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	d, err = dispatch.Build(dispatch.Single(countingKernel(&count)), types).
		Arity(4, 0, 1).
		RejectNegativeCount(true).
		Done()
	require.NoError(t, err)
	_, err = d.Apply(-1, dtypes.Float64, []float64{}, 1)
	requireDispatchError(t, err, dispatch.ErrRange, dispatch.NoRole, 0)
	_, err = d.Call(-1, dispatch.Array{DType: dtypes.Float64, Buffer: []float64{}, Stride: 1})
	require.ErrorIs(t, err, dispatch.ErrRange)
	_, err = d.Apply(0, dtypes.Float64, []float64{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestApply_ReturnValue(t *testing.T) {
	noop := dispatch.Single(func(dispatch.Args) {})
	f64 := dtypes.Float64
	x, y, z := &[4]float64{}, &[4]float64{}, &[4]float64{}

	// No outputs.
	d := dispatch.MustNew(noop, []dtypes.DType{f64, f64}, nil, 7, 2, 0)
	out, err := d.Apply(4, f64, x, 1, f64, y, 1)
	require.NoError(t, err)
	assert.Nil(t, out)

	// One output: the very same buffer.
	d = dispatch.MustNew(noop, []dtypes.DType{f64, f64}, nil, 7, 1, 1)
	out, err = d.Apply(4, f64, x, 1, f64, y, 1)
	require.NoError(t, err)
	assert.Same(t, y, out.(*[4]float64))

	// Several outputs, in declaration order.
	d = dispatch.MustNew(noop, []dtypes.DType{f64, f64, f64}, nil, 13, 1, 2)
	out, err = d.Apply(4, f64, x, 1, 0, f64, y, 1, 0, f64, z, 1, 0)
	require.NoError(t, err)
	outputs := out.([]any)
	require.Len(t, outputs, 2)
	assert.Same(t, y, outputs[0].(*[4]float64))
	assert.Same(t, z, outputs[1].(*[4]float64))

	// Slices are returned as given (same backing array).
	ySlice := make([]float64, 4)
	d = dispatch.MustNew(noop, []dtypes.DType{f64}, nil, 4, 0, 1)
	out, err = d.Apply(4, f64, ySlice, 1)
	require.NoError(t, err)
	assert.Same(t, &ySlice[0], &out.([]float64)[0])
}

func TestApply_SumOfInputs(t *testing.T) {
	var total float64
	d := dispatch.MustNew(dispatch.Single(sumInto(&total)),
		[]dtypes.DType{dtypes.Float64, dtypes.Float64}, nil, 7, 2, 0)
	x := []float64{1, 2, 3, 4}
	y := []float64{1, 2, 3, 4}
	out, err := d.Apply(len(x), dtypes.Float64, x, 1, dtypes.Float64, y, 1)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 20.0, total)

	// Every other element, walking y backwards.
	total = 0
	_, err = d.Apply(2, dtypes.Float64, x, 2, dtypes.Float64, y, -2)
	require.NoError(t, err)
	assert.Equal(t, 1.0+3.0+3.0+1.0, total)
}

func TestApply_Fill(t *testing.T) {
	d := dispatch.MustNew(dispatch.Single(fillFloat64(3.0)), []dtypes.DType{dtypes.Float64}, nil, 4, 0, 1)
	y := make([]float64, 4)
	out, err := d.Apply(4, dtypes.Float64, y, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 3, 3}, y)
	assert.Same(t, &y[0], &out.([]float64)[0])

	// With offsets and a negative stride: fills indices 5, 3, 1.
	d = dispatch.MustNew(dispatch.Single(fillFloat64(7.0)), []dtypes.DType{dtypes.Float64}, nil, 5, 0, 1)
	y = make([]float64, 6)
	_, err = d.Apply(3, dtypes.Float64, y, -2, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 7, 0, 7, 0, 7}, y)
}

func TestApply_NoMutationOnFailure(t *testing.T) {
	d := dispatch.MustNew(dispatch.Single(fillFloat64(1.0)),
		[]dtypes.DType{dtypes.Float64, dtypes.Float64}, nil, 7, 0, 2)
	y0 := []float64{0, 0, 0, 0}
	y1 := []float64{0, 0, 0}
	failures := []struct {
		name string
		args []any
	}{
		{"arity", []any{4, dtypes.Float64, y0, 1, dtypes.Float64, y1}},
		{"count", []any{"4", dtypes.Float64, y0, 1, dtypes.Float64, y1, 1}},
		{"stride", []any{4, dtypes.Float64, y0, 1.5, dtypes.Float64, y1, 1}},
		{"bounds", []any{4, dtypes.Float64, y0, 1, dtypes.Float64, y1, 1}},
		{"resolution", []any{3, dtypes.Float64, y0, 1, dtypes.Float32, y1, 1}},
		{"kernel", []any{3, dtypes.Float64, []string{"x"}, 0, dtypes.Float64, y1, 1}},
	}
	for _, failure := range failures {
		_, err := d.Apply(failure.args...)
		require.Error(t, err, "case %q", failure.name)
		assert.Equal(t, []float64{0, 0, 0, 0}, y0)
		assert.Equal(t, []float64{0, 0, 0}, y1)
	}
}

func TestApply_Data(t *testing.T) {
	var got []any
	kernel := func(args dispatch.Args) { got = append(got, args.Data) }
	types := []dtypes.DType{dtypes.Float64, dtypes.Float32}
	d := dispatch.MustNew(dispatch.Indexed(kernel, kernel), types, []any{"f64", "f32"}, 4, 1, 0)
	_, err := d.Apply(1, dtypes.Float32, []float32{1}, 1)
	require.NoError(t, err)
	_, err = d.Apply(1, dtypes.Float64, []float64{1}, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{"f32", "f64"}, got)

	got = nil
	d = dispatch.MustNew(dispatch.Single(kernel), types, nil, 4, 1, 0)
	_, err = d.Apply(1, dtypes.Float32, []float32{1}, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{nil}, got)
}

func TestApply_KernelArgs(t *testing.T) {
	var got dispatch.Args
	kernel := func(args dispatch.Args) { got = args }
	f64 := dtypes.Float64
	x, y := []float64{1, 2, 3}, []float64{0, 0, 0}

	d := dispatch.MustNew(dispatch.Single(kernel), []dtypes.DType{f64, f64}, nil, 7, 1, 1)
	_, err := d.Apply(int32(3), f64, x, 1, f64, y, -1)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got.Shape)
	assert.Equal(t, 3, got.N())
	assert.Equal(t, []int{1, -1}, got.Strides)
	assert.Nil(t, got.Offsets)
	assert.Equal(t, 0, got.Offset(0))
	assert.Equal(t, 2, got.Offset(1))
	require.Len(t, got.Arrays, 2)
	assert.Same(t, &x[0], &got.Arrays[0].([]float64)[0])

	d = dispatch.MustNew(dispatch.Single(kernel), []dtypes.DType{f64, f64}, nil, 9, 1, 1)
	_, err = d.Apply(2, f64, x, 1, uint8(1), f64, y, -1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got.Offsets)
	assert.Equal(t, 1, got.Offset(0))
	assert.Equal(t, 2, got.Offset(1))
}

func TestApply_KernelPanics(t *testing.T) {
	d := dispatch.MustNew(dispatch.Single(func(dispatch.Args) { panic(errors.New("boom")) }),
		[]dtypes.DType{dtypes.Float64}, nil, 4, 1, 0)
	_, err := d.Apply(1, dtypes.Float64, []float64{1}, 1)
	requireDispatchError(t, err, dispatch.ErrKernel, dispatch.NoRole, -1)
	require.ErrorContains(t, err, "boom")

	// Runtime errors are errors too.
	d = dispatch.MustNew(dispatch.Single(func(args dispatch.Args) { _ = args.Arrays[0].([]int32) }),
		[]dtypes.DType{dtypes.Float64}, nil, 4, 1, 0)
	_, err = d.Apply(1, dtypes.Float64, []float64{1}, 1)
	require.ErrorIs(t, err, dispatch.ErrKernel)

	// Non-error panics are not caught.
	d = dispatch.MustNew(dispatch.Single(func(dispatch.Args) { panic("not an error") }),
		[]dtypes.DType{dtypes.Float64}, nil, 4, 1, 0)
	require.Panics(t, func() { _, _ = d.Apply(1, dtypes.Float64, []float64{1}, 1) })
}

func TestCall(t *testing.T) {
	var total float64
	f64 := dtypes.Float64
	d := dispatch.MustNew(dispatch.Single(sumInto(&total)), []dtypes.DType{f64, f64}, nil, 9, 2, 0)
	x := []float64{1, 2, 3, 4}
	_, err := d.Call(2,
		dispatch.Array{DType: f64, Buffer: x, Stride: 1, Offset: 2},
		dispatch.Array{DType: f64, Buffer: x, Stride: -3, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0+4.0+4.0+1.0, total)

	_, err = d.Call(2,
		dispatch.Array{DType: f64, Buffer: x, Stride: 1, Offset: 3},
		dispatch.Array{DType: f64, Buffer: x, Stride: 1})
	requireDispatchError(t, err, dispatch.ErrRange, dispatch.Input, 2)

	_, err = d.Call(2,
		dispatch.Array{DType: f64, Buffer: x, Stride: 1},
		dispatch.Array{DType: f64, Buffer: 7, Stride: 1})
	requireDispatchError(t, err, dispatch.ErrType, dispatch.Input, 6)

	_, err = d.Call(2,
		dispatch.Array{DType: f64, Buffer: x, Stride: 1},
		dispatch.Array{DType: dtypes.Int64, Buffer: x, Stride: 1})
	require.ErrorIs(t, err, dispatch.ErrType)
	require.ErrorContains(t, err, "unable to resolve")
}

func TestDispatcher_Concurrent(t *testing.T) {
	d := dispatch.MustNew(dispatch.Single(fillFloat64(5)), []dtypes.DType{dtypes.Float64}, nil, 4, 0, 1)
	const numGoroutines = 16
	outputs := make([][]float64, numGoroutines)
	var wg sync.WaitGroup
	for ii := range numGoroutines {
		outputs[ii] = make([]float64, 100)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Apply(100, dtypes.Float64, outputs[ii], 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	for _, out := range outputs {
		for _, v := range out {
			require.Equal(t, 5.0, v)
		}
	}
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "range error", dispatch.ErrRange.Error())
	assert.NotErrorIs(t, dispatch.ErrRange, dispatch.ErrType)
	assert.Equal(t, "output", dispatch.Output.String())
	err := &dispatch.Error{Kind: dispatch.TypeError, Array: 1, Position: 5, Msg: "bad"}
	assert.Equal(t, "type error: bad (argument #5)", err.Error())
	assert.ErrorIs(t, err, dispatch.ErrType)
}
