// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import (
	"strconv"

	"github.com/pkg/errors"
)

// DType is the element type tag of a strided array buffer.
//
// Tags are opaque to the dispatcher: they are only ever compared for equality.
// The numeric values follow the XLA/PJRT enumeration so tables built elsewhere in GoMLX line up.
type DType int32

const (
	// InvalidDType is the zero value, and never matches a registered kernel.
	InvalidDType DType = 0

	// Bool is a two-state boolean.
	Bool DType = 1

	// Int8 and the other IntX are signed integral values of fixed width.
	Int8  DType = 2
	Int16 DType = 3
	Int32 DType = 4
	Int64 DType = 5

	// Uint8 and the other UintX are unsigned integral values of fixed width.
	Uint8  DType = 6
	Uint16 DType = 7
	Uint32 DType = 8
	Uint64 DType = 9

	// Float16 is IEEE 754 half precision, see github.com/x448/float16.
	Float16 DType = 10
	Float32 DType = 11
	Float64 DType = 12

	// BFloat16 is the truncated 16 bit floating-point format: 1 bit sign, 8 bits exponent, 7 bits mantissa.
	BFloat16 DType = 13

	// Complex64 is a pair of float32 (real, imag).
	Complex64 DType = 14

	// Complex128 is a pair of float64 (real, imag).
	Complex128 DType = 15

	// NumDTypes is one past the last valid DType, and can be used to size tables indexed by DType.
	NumDTypes = 16
)

// Aliases from the PJRT C API.
const (
	INVALID = InvalidDType
	PRED    = Bool
	S8      = Int8
	S16     = Int16
	S32     = Int32
	S64     = Int64
	U8      = Uint8
	U16     = Uint16
	U32     = Uint32
	U64     = Uint64
	F16     = Float16
	F32     = Float32
	F64     = Float64
	BF16    = BFloat16
	C64     = Complex64
	C128    = Complex128
)

var dtypeNames = [NumDTypes]string{
	"InvalidDType", "Bool", "Int8", "Int16", "Int32", "Int64", "Uint8", "Uint16", "Uint32", "Uint64",
	"Float16", "Float32", "Float64", "BFloat16", "Complex64", "Complex128",
}

// String returns the canonical name of the dtype, e.g. "Float64".
func (dtype DType) String() string {
	if dtype < 0 || dtype >= NumDTypes {
		return "DType(" + strconv.Itoa(int(dtype)) + ")"
	}
	return dtypeNames[dtype]
}

// IsValid returns whether dtype is one of the enumerated values, other than InvalidDType.
func (dtype DType) IsValid() bool {
	return dtype > InvalidDType && dtype < NumDTypes
}

// DTypeString converts a name (canonical, PJRT alias or lower-case variant of either) to a DType.
func DTypeString(name string) (DType, error) {
	dtype, found := MapOfNames[name]
	if !found {
		return InvalidDType, errors.Errorf("%q is not a known dtype name", name)
	}
	return dtype, nil
}

// MapOfNames to their dtypes. It includes also aliases to the various dtypes.
// It is also later initialized to include the lower-case version of the names.
var MapOfNames = map[string]DType{
	"InvalidDType": InvalidDType,
	"INVALID":      InvalidDType,
	"Bool":         Bool,
	"PRED":         Bool,
	"Int8":         Int8,
	"S8":           Int8,
	"Int16":        Int16,
	"S16":          Int16,
	"Int32":        Int32,
	"S32":          Int32,
	"Int64":        Int64,
	"S64":          Int64,
	"Uint8":        Uint8,
	"U8":           Uint8,
	"Uint16":       Uint16,
	"U16":          Uint16,
	"Uint32":       Uint32,
	"U32":          Uint32,
	"Uint64":       Uint64,
	"U64":          Uint64,
	"Float16":      Float16,
	"F16":          Float16,
	"Float32":      Float32,
	"F32":          Float32,
	"Float64":      Float64,
	"F64":          Float64,
	"BFloat16":     BFloat16,
	"BF16":         BFloat16,
	"Complex64":    Complex64,
	"C64":          Complex64,
	"Complex128":   Complex128,
	"C128":         Complex128,
}
