/***** File generated by ./internal/cmd/kernels_dispatcher. Don't edit it directly. *****/

package kernels

import (
	"github.com/gomlx/strided/pkg/core/dtypes"
	"github.com/gomlx/strided/pkg/core/dtypes/bfloat16"
	"github.com/x448/float16"
)

func init() {
	// DTypeMap: fillDTypeMap
	fillDTypeMap.Register(dtypes.Int8, PriorityGeneric, fillGeneric[int8])
	fillDTypeMap.Register(dtypes.Int16, PriorityGeneric, fillGeneric[int16])
	fillDTypeMap.Register(dtypes.Int32, PriorityGeneric, fillGeneric[int32])
	fillDTypeMap.Register(dtypes.Int64, PriorityGeneric, fillGeneric[int64])
	fillDTypeMap.Register(dtypes.Uint8, PriorityGeneric, fillGeneric[uint8])
	fillDTypeMap.Register(dtypes.Uint16, PriorityGeneric, fillGeneric[uint16])
	fillDTypeMap.Register(dtypes.Uint32, PriorityGeneric, fillGeneric[uint32])
	fillDTypeMap.Register(dtypes.Uint64, PriorityGeneric, fillGeneric[uint64])
	fillDTypeMap.Register(dtypes.Float32, PriorityGeneric, fillGeneric[float32])
	fillDTypeMap.Register(dtypes.Float64, PriorityGeneric, fillGeneric[float64])
	fillDTypeMap.Register(dtypes.BFloat16, PriorityGeneric, fillGeneric[bfloat16.BFloat16])
	fillDTypeMap.Register(dtypes.Float16, PriorityGeneric, fillGeneric[float16.Float16])
	fillDTypeMap.Register(dtypes.Bool, PriorityGeneric, fillGeneric[bool])
	fillDTypeMap.Register(dtypes.Complex64, PriorityGeneric, fillGeneric[complex64])
	fillDTypeMap.Register(dtypes.Complex128, PriorityGeneric, fillGeneric[complex128])

	// DTypeMap: copyDTypeMap
	copyDTypeMap.Register(dtypes.Int8, PriorityGeneric, copyGeneric[int8])
	copyDTypeMap.Register(dtypes.Int16, PriorityGeneric, copyGeneric[int16])
	copyDTypeMap.Register(dtypes.Int32, PriorityGeneric, copyGeneric[int32])
	copyDTypeMap.Register(dtypes.Int64, PriorityGeneric, copyGeneric[int64])
	copyDTypeMap.Register(dtypes.Uint8, PriorityGeneric, copyGeneric[uint8])
	copyDTypeMap.Register(dtypes.Uint16, PriorityGeneric, copyGeneric[uint16])
	copyDTypeMap.Register(dtypes.Uint32, PriorityGeneric, copyGeneric[uint32])
	copyDTypeMap.Register(dtypes.Uint64, PriorityGeneric, copyGeneric[uint64])
	copyDTypeMap.Register(dtypes.Float32, PriorityGeneric, copyGeneric[float32])
	copyDTypeMap.Register(dtypes.Float64, PriorityGeneric, copyGeneric[float64])
	copyDTypeMap.Register(dtypes.BFloat16, PriorityGeneric, copyGeneric[bfloat16.BFloat16])
	copyDTypeMap.Register(dtypes.Float16, PriorityGeneric, copyGeneric[float16.Float16])
	copyDTypeMap.Register(dtypes.Bool, PriorityGeneric, copyGeneric[bool])
	copyDTypeMap.Register(dtypes.Complex64, PriorityGeneric, copyGeneric[complex64])
	copyDTypeMap.Register(dtypes.Complex128, PriorityGeneric, copyGeneric[complex128])

	// DTypeMap: sumDTypeMap
	sumDTypeMap.Register(dtypes.Int8, PriorityGeneric, sumGeneric[int8])
	sumDTypeMap.Register(dtypes.Int16, PriorityGeneric, sumGeneric[int16])
	sumDTypeMap.Register(dtypes.Int32, PriorityGeneric, sumGeneric[int32])
	sumDTypeMap.Register(dtypes.Int64, PriorityGeneric, sumGeneric[int64])
	sumDTypeMap.Register(dtypes.Uint8, PriorityGeneric, sumGeneric[uint8])
	sumDTypeMap.Register(dtypes.Uint16, PriorityGeneric, sumGeneric[uint16])
	sumDTypeMap.Register(dtypes.Uint32, PriorityGeneric, sumGeneric[uint32])
	sumDTypeMap.Register(dtypes.Uint64, PriorityGeneric, sumGeneric[uint64])
	sumDTypeMap.Register(dtypes.Float32, PriorityGeneric, sumGeneric[float32])
	sumDTypeMap.Register(dtypes.Float64, PriorityGeneric, sumGeneric[float64])

	// DTypeMap: unaryDTypeMap
	unaryDTypeMap.Register(dtypes.Int8, PriorityGeneric, unaryGeneric[int8])
	unaryDTypeMap.Register(dtypes.Int16, PriorityGeneric, unaryGeneric[int16])
	unaryDTypeMap.Register(dtypes.Int32, PriorityGeneric, unaryGeneric[int32])
	unaryDTypeMap.Register(dtypes.Int64, PriorityGeneric, unaryGeneric[int64])
	unaryDTypeMap.Register(dtypes.Uint8, PriorityGeneric, unaryGeneric[uint8])
	unaryDTypeMap.Register(dtypes.Uint16, PriorityGeneric, unaryGeneric[uint16])
	unaryDTypeMap.Register(dtypes.Uint32, PriorityGeneric, unaryGeneric[uint32])
	unaryDTypeMap.Register(dtypes.Uint64, PriorityGeneric, unaryGeneric[uint64])
	unaryDTypeMap.Register(dtypes.Float32, PriorityGeneric, unaryGeneric[float32])
	unaryDTypeMap.Register(dtypes.Float64, PriorityGeneric, unaryGeneric[float64])
	unaryDTypeMap.Register(dtypes.BFloat16, PriorityGeneric, unaryGeneric[bfloat16.BFloat16])
	unaryDTypeMap.Register(dtypes.Float16, PriorityGeneric, unaryGeneric[float16.Float16])
	unaryDTypeMap.Register(dtypes.Bool, PriorityGeneric, unaryGeneric[bool])
	unaryDTypeMap.Register(dtypes.Complex64, PriorityGeneric, unaryGeneric[complex64])
	unaryDTypeMap.Register(dtypes.Complex128, PriorityGeneric, unaryGeneric[complex128])

	// DTypeMap: binaryDTypeMap
	binaryDTypeMap.Register(dtypes.Int8, PriorityGeneric, binaryGeneric[int8])
	binaryDTypeMap.Register(dtypes.Int16, PriorityGeneric, binaryGeneric[int16])
	binaryDTypeMap.Register(dtypes.Int32, PriorityGeneric, binaryGeneric[int32])
	binaryDTypeMap.Register(dtypes.Int64, PriorityGeneric, binaryGeneric[int64])
	binaryDTypeMap.Register(dtypes.Uint8, PriorityGeneric, binaryGeneric[uint8])
	binaryDTypeMap.Register(dtypes.Uint16, PriorityGeneric, binaryGeneric[uint16])
	binaryDTypeMap.Register(dtypes.Uint32, PriorityGeneric, binaryGeneric[uint32])
	binaryDTypeMap.Register(dtypes.Uint64, PriorityGeneric, binaryGeneric[uint64])
	binaryDTypeMap.Register(dtypes.Float32, PriorityGeneric, binaryGeneric[float32])
	binaryDTypeMap.Register(dtypes.Float64, PriorityGeneric, binaryGeneric[float64])
	binaryDTypeMap.Register(dtypes.BFloat16, PriorityGeneric, binaryGeneric[bfloat16.BFloat16])
	binaryDTypeMap.Register(dtypes.Float16, PriorityGeneric, binaryGeneric[float16.Float16])
	binaryDTypeMap.Register(dtypes.Bool, PriorityGeneric, binaryGeneric[bool])
	binaryDTypeMap.Register(dtypes.Complex64, PriorityGeneric, binaryGeneric[complex64])
	binaryDTypeMap.Register(dtypes.Complex128, PriorityGeneric, binaryGeneric[complex128])

	// DTypeMap: fromFloat64DTypeMap
	fromFloat64DTypeMap.Register(dtypes.Int8, PriorityGeneric, fromFloat64Generic[int8])
	fromFloat64DTypeMap.Register(dtypes.Int16, PriorityGeneric, fromFloat64Generic[int16])
	fromFloat64DTypeMap.Register(dtypes.Int32, PriorityGeneric, fromFloat64Generic[int32])
	fromFloat64DTypeMap.Register(dtypes.Int64, PriorityGeneric, fromFloat64Generic[int64])
	fromFloat64DTypeMap.Register(dtypes.Uint8, PriorityGeneric, fromFloat64Generic[uint8])
	fromFloat64DTypeMap.Register(dtypes.Uint16, PriorityGeneric, fromFloat64Generic[uint16])
	fromFloat64DTypeMap.Register(dtypes.Uint32, PriorityGeneric, fromFloat64Generic[uint32])
	fromFloat64DTypeMap.Register(dtypes.Uint64, PriorityGeneric, fromFloat64Generic[uint64])
	fromFloat64DTypeMap.Register(dtypes.Float32, PriorityGeneric, fromFloat64Generic[float32])
	fromFloat64DTypeMap.Register(dtypes.Float64, PriorityGeneric, fromFloat64Generic[float64])

	// DTypeMap: fromFloat64DTypeMap
	fromFloat64DTypeMap.Register(dtypes.Complex64, PriorityGeneric, fromFloat64Complex[complex64])
	fromFloat64DTypeMap.Register(dtypes.Complex128, PriorityGeneric, fromFloat64Complex[complex128])
}
