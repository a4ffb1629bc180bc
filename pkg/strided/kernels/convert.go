// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"github.com/gomlx/strided/pkg/core/dtypes"
	"github.com/gomlx/strided/pkg/core/dtypes/bfloat16"
	"github.com/x448/float16"
)

// fromFloat64DTypeMap holds functions of type func(float64) any converting a value to the Go type of each dtype.
var fromFloat64DTypeMap = NewDTypeMap("FromFloat64")

func init() {
	fromFloat64DTypeMap.Register(dtypes.Float16, PriorityTyped, fromFloat64ToFloat16)
	fromFloat64DTypeMap.Register(dtypes.BFloat16, PriorityTyped, fromFloat64ToBFloat16)
	fromFloat64DTypeMap.Register(dtypes.Bool, PriorityTyped, fromFloat64ToBool)
}

func fromFloat64Generic[T dtypes.NumberNotComplex](v float64) any { return T(v) }

func fromFloat64Complex[T complex64 | complex128](v float64) any { return T(complex(v, 0)) }

func fromFloat64ToFloat16(v float64) any { return float16.Fromfloat32(float32(v)) }

func fromFloat64ToBFloat16(v float64) any { return bfloat16.FromFloat64(v) }

func fromFloat64ToBool(v float64) any { return v != 0 }

// FromFloat64 converts v to the Go type of dtype (e.g. float32 for dtypes.Float32).
// It panics if dtype is not supported.
func FromFloat64(dtype dtypes.DType, v float64) any {
	return fromFloat64DTypeMap.Get(dtype).(func(float64) any)(v)
}
