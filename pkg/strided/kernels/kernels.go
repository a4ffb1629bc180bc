// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package kernels implements reference strided kernels, instantiated for every supported dtype,
// and packages them as families ready to be used with dispatch.New.
//
// All kernels expect buffers of Go slices of the dtype's Go type (e.g. []float32 for
// dtypes.Float32), and honor strides (including negative and zero strides) and offsets.
// Large calls are split across goroutines, see Config.
//
// E.g.: a dispatcher that fills float32 or float64 arrays with 1:
//
//	ones, err := kernels.Fill(1, dtypes.Float32, dtypes.Float64)
//	...
//	fill, err := ones.Dispatcher(dispatch.NoOffsets)
//	...
//	_, err = fill.Apply(len(y), dtypes.Float32, y, 1)
package kernels

import (
	"reflect"

	"github.com/gomlx/strided/pkg/core/dtypes"
	"github.com/gomlx/strided/pkg/strided/dispatch"
	"github.com/gomlx/strided/pkg/support/sets"
	"github.com/gomlx/strided/pkg/support/xslices"
	"github.com/pkg/errors"
)

// Registers the various generics function instances.
//go:generate go run ../../../internal/cmd/kernels_dispatcher

var (
	fillDTypeMap   = NewDTypeMap("Fill")
	copyDTypeMap   = NewDTypeMap("Copy")
	sumDTypeMap    = NewDTypeMap("Sum")
	unaryDTypeMap  = NewDTypeMap("Unary")
	binaryDTypeMap = NewDTypeMap("Binary")
)

// Family is a pool of kernels with its type table and aux data, ready to create a dispatcher.
type Family struct {
	Name                  string
	Pool                  dispatch.KernelPool
	Types                 []dtypes.DType
	Data                  []any
	NumInputs, NumOutputs int
}

// Dispatcher creates a dispatcher for the family, using the given calling convention.
func (f *Family) Dispatcher(convention dispatch.Convention) (*dispatch.Dispatcher, error) {
	numArrays := f.NumInputs + f.NumOutputs
	return dispatch.Build(f.Pool, f.Types).
		Name(f.Name).
		Data(f.Data).
		Arity(convention.NumArgs(numArrays), f.NumInputs, f.NumOutputs).
		Done()
}

// SupportedDTypes returns the dtypes supported by the kernel family with the given name
// ("Fill", "Copy", "Sum", "Unary" or "Binary"), in increasing order.
func SupportedDTypes(name string) ([]dtypes.DType, error) {
	for _, m := range []*DTypeMap{fillDTypeMap, copyDTypeMap, sumDTypeMap, unaryDTypeMap, binaryDTypeMap} {
		if m.Name == name {
			return sets.Sorted(m.DTypes()), nil
		}
	}
	return nil, errors.Errorf("unknown kernel family %q", name)
}

// checkDTypes returns an error if dtypeList is empty, has repeated dtypes, or any of them is not
// supported by all the given maps.
func checkDTypes(family string, dtypeList []dtypes.DType, maps ...*DTypeMap) error {
	if len(dtypeList) == 0 {
		return errors.Errorf("%s: no dtypes given", family)
	}
	seen := sets.Make[dtypes.DType](len(dtypeList))
	for _, dtype := range dtypeList {
		if seen.Has(dtype) {
			return errors.Errorf("%s: dtype %s given more than once", family, dtype)
		}
		seen.Insert(dtype)
		for _, m := range maps {
			if !m.Has(dtype) {
				return errors.Errorf("%s: dtype %s not supported", family, dtype)
			}
		}
	}
	return nil
}

// indexedPool returns the pool with the kernels registered in m for each dtype.
func indexedPool(m *DTypeMap, dtypeList []dtypes.DType) dispatch.KernelPool {
	pool := make([]dispatch.Kernel, len(dtypeList))
	for ii, dtype := range dtypeList {
		pool[ii] = m.Get(dtype).(func(dispatch.Args))
	}
	return dispatch.Indexed(pool...)
}

// repeatColumns returns the type table where row i has numArrays copies of dtypeList[i].
func repeatColumns(dtypeList []dtypes.DType, numArrays int) []dtypes.DType {
	types := make([]dtypes.DType, 0, len(dtypeList)*numArrays)
	for _, dtype := range dtypeList {
		types = append(types, xslices.SliceWithValue(numArrays, dtype)...)
	}
	return types
}

// Fill returns the family of kernels that set every element of one output array to value
// (converted to the array's dtype), one kernel per dtype in dtypeList.
func Fill(value float64, dtypeList ...dtypes.DType) (*Family, error) {
	if err := checkDTypes("Fill", dtypeList, fillDTypeMap, fromFloat64DTypeMap); err != nil {
		return nil, err
	}
	data := make([]any, len(dtypeList))
	for ii, dtype := range dtypeList {
		data[ii] = FromFloat64(dtype, value)
	}
	return &Family{
		Name:       "Fill",
		Pool:       indexedPool(fillDTypeMap, dtypeList),
		Types:      repeatColumns(dtypeList, 1),
		Data:       data,
		NumOutputs: 1,
	}, nil
}

// Copy returns the family of kernels that copy one input array into one output array of the same dtype.
func Copy(dtypeList ...dtypes.DType) (*Family, error) {
	if err := checkDTypes("Copy", dtypeList, copyDTypeMap); err != nil {
		return nil, err
	}
	return &Family{
		Name:       "Copy",
		Pool:       indexedPool(copyDTypeMap, dtypeList),
		Types:      repeatColumns(dtypeList, 2),
		NumInputs:  1,
		NumOutputs: 1,
	}, nil
}

// Sum returns the family of kernels that add all elements of one input array into acc.
// It has no outputs: the dispatcher returns nil.
func Sum(acc *Accumulator, dtypeList ...dtypes.DType) (*Family, error) {
	if acc == nil {
		return nil, errors.New("Sum: nil accumulator")
	}
	if err := checkDTypes("Sum", dtypeList, sumDTypeMap); err != nil {
		return nil, err
	}
	data := make([]any, len(dtypeList))
	for ii := range data {
		data[ii] = acc
	}
	return &Family{
		Name:      "Sum",
		Pool:      indexedPool(sumDTypeMap, dtypeList),
		Types:     repeatColumns(dtypeList, 1),
		Data:      data,
		NumInputs: 1,
	}, nil
}

// ForEach returns a family with one kernel, for the dtype of T, that calls fn for every element
// of one input array, in order. It has no outputs.
//
// fn is called from the goroutine calling the dispatcher.
func ForEach[T dtypes.Supported](fn func(i int, value T)) (*Family, error) {
	if fn == nil {
		return nil, errors.New("ForEach: nil function")
	}
	dtype := dtypes.FromGenericsType[T]()
	if dtype.GoType() != reflect.TypeFor[T]() {
		return nil, errors.Errorf("ForEach: Go type %s is not the Go type of a dtype", reflect.TypeFor[T]())
	}
	return &Family{
		Name:      "ForEach",
		Pool:      dispatch.Single(forEachGeneric[T]),
		Types:     []dtypes.DType{dtype},
		Data:      []any{fn},
		NumInputs: 1,
	}, nil
}

// funcDType returns the dtype of the Go type used by the function fn, if fn has numIn parameters
// and one result, all of the same Go type.
func funcDType(fn any, numIn int) (dtypes.DType, error) {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func || reflect.ValueOf(fn).IsNil() {
		return dtypes.InvalidDType, errors.Errorf("expected a function, got %T", fn)
	}
	if fnType.NumIn() != numIn || fnType.NumOut() != 1 || fnType.IsVariadic() {
		return dtypes.InvalidDType, errors.Errorf("expected a function with %d parameters and 1 result, got %s", numIn, fnType)
	}
	goType := fnType.Out(0)
	for ii := range numIn {
		if fnType.In(ii) != goType {
			return dtypes.InvalidDType, errors.Errorf("parameters and result of %s must all be of the same type", fnType)
		}
	}
	dtype := dtypes.FromGoType(goType)
	if dtype == dtypes.InvalidDType || dtype.GoType() != goType {
		return dtypes.InvalidDType, errors.Errorf("Go type %s used by %s is not the Go type of a dtype", goType, fnType)
	}
	return dtype, nil
}

// mapFamily creates a family with one kernel per function in fns, each taking numIn inputs.
func mapFamily(name string, m *DTypeMap, numIn int, fns []any) (*Family, error) {
	dtypeList := make([]dtypes.DType, len(fns))
	for ii, fn := range fns {
		dtype, err := funcDType(fn, numIn)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s: function #%d", name, ii)
		}
		dtypeList[ii] = dtype
	}
	if err := checkDTypes(name, dtypeList, m); err != nil {
		return nil, err
	}
	return &Family{
		Name:       name,
		Pool:       indexedPool(m, dtypeList),
		Types:      repeatColumns(dtypeList, numIn+1),
		Data:       append([]any(nil), fns...),
		NumInputs:  numIn,
		NumOutputs: 1,
	}, nil
}

// Unary returns the family of kernels that map one input array into one output array, one kernel
// per function given. Each function must be a func(T) T, where T is the Go type of a dtype (e.g. float32),
// and there can be at most one function per dtype.
//
// With parallelism enabled (see Config), the functions may be called concurrently.
func Unary(fns ...any) (*Family, error) {
	return mapFamily("Unary", unaryDTypeMap, 1, fns)
}

// Binary returns the family of kernels that map two input arrays into one output array, one kernel
// per function given. Each function must be a func(T, T) T, where T is the Go type of a dtype,
// and there can be at most one function per dtype.
//
// With parallelism enabled (see Config), the functions may be called concurrently.
func Binary(fns ...any) (*Family, error) {
	return mapFamily("Binary", binaryDTypeMap, 2, fns)
}
