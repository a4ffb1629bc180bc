// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package typetable resolves a list of requested argument dtypes to the kernel that supports them.
//
// A type table is a flat list of type tags, logically reshaped into a matrix with one row per
// kernel and one column per strided array argument (inputs first, then outputs). Resolution
// scans the rows in order and returns the first one whose tags are all equal to the requested
// ones: there is no coercion, promotion or "closest type" fallback.
package typetable

import (
	"fmt"
	"strings"

	"github.com/gomlx/strided/pkg/core/dtypes"
	"github.com/gomlx/strided/pkg/support/xslices"
	"github.com/pkg/errors"
)

// NotFound is returned by IndexOf and the TypeTable resolution methods when no row matches.
const NotFound = -1

// IndexOf returns the index of the first row of table matching types, or NotFound.
//
// The table is walked as a numRows x numCols matrix: element (i, j) is at
// table[offsetTable + i*strideRow + j*strideCol]. The j-th requested tag is at
// types[offsetTypes + j*strideTypes]. With strideRow=numCols and strideCol=1 this is a
// row-major table; numCols may be smaller than the real number of columns to match
// only on a prefix of them (e.g. only the input arrays).
//
// It is a pure function: it panics (index out of range) only if the strides and offsets
// address elements outside of the given slices.
func IndexOf[T comparable](numRows, numCols int, table []T, strideRow, strideCol, offsetTable int,
	types []T, strideTypes, offsetTypes int) int {
	rowStart := offsetTable
	for row := 0; row < numRows; row++ {
		idxTable := rowStart
		idxTypes := offsetTypes
		matched := true
		for col := 0; col < numCols; col++ {
			if table[idxTable] != types[idxTypes] {
				matched = false
				break
			}
			idxTable += strideCol
			idxTypes += strideTypes
		}
		if matched {
			return row
		}
		rowStart += strideRow
	}
	return NotFound
}

// TypeTable is an immutable row-major view of a flat list of dtypes, one row per kernel
// and one column per array argument.
//
// It is safe for concurrent use.
type TypeTable struct {
	types      []dtypes.DType
	numKernels int
	numArrays  int
}

// New creates a TypeTable from a flat list of dtypes with numArrays columns.
// It returns an error if numArrays < 1 or if len(types) is not a multiple of numArrays.
//
// The list is copied, so later changes to types don't affect the table.
func New(types []dtypes.DType, numArrays int) (*TypeTable, error) {
	if numArrays < 1 {
		return nil, errors.Errorf("type table requires at least one array argument per kernel, got %d", numArrays)
	}
	if len(types)%numArrays != 0 {
		return nil, errors.Errorf("number of types (%d) must be a multiple of the number of array arguments (%d)",
			len(types), numArrays)
	}
	return &TypeTable{
		types:      xslices.Copy(types),
		numKernels: len(types) / numArrays,
		numArrays:  numArrays,
	}, nil
}

// NumKernels is the number of rows in the table.
func (t *TypeTable) NumKernels() int { return t.numKernels }

// NumArrays is the number of columns in the table.
func (t *TypeTable) NumArrays() int { return t.numArrays }

// Row returns a copy of the dtypes of the kernel at the given row.
func (t *TypeTable) Row(row int) []dtypes.DType {
	if row < 0 || row >= t.numKernels {
		return nil
	}
	return xslices.Copy(t.types[row*t.numArrays : (row+1)*t.numArrays])
}

// Resolve returns the first row matching all the given dtypes, or NotFound.
// If fewer than NumArrays dtypes are given, the result is NotFound.
func (t *TypeTable) Resolve(types []dtypes.DType) int {
	if len(types) < t.numArrays {
		return NotFound
	}
	return IndexOf(t.numKernels, t.numArrays, t.types, t.numArrays, 1, 0, types, 1, 0)
}

// ResolveInputs returns the first row whose first numInputs columns match the first numInputs
// of the given dtypes, or NotFound. The remaining (output) columns are ignored.
func (t *TypeTable) ResolveInputs(numInputs int, types []dtypes.DType) int {
	if numInputs < 0 || numInputs > t.numArrays || len(types) < numInputs {
		return NotFound
	}
	return IndexOf(t.numKernels, numInputs, t.types, t.numArrays, 1, 0, types, 1, 0)
}

// String lists the kernel signatures, one per line, e.g. "#0: (Float64, Float64)".
func (t *TypeTable) String() string {
	var sb strings.Builder
	for row := range t.numKernels {
		if row > 0 {
			sb.WriteString("\n")
		}
		names := xslices.Map(t.Row(row), func(dtype dtypes.DType) string { return dtype.String() })
		fmt.Fprintf(&sb, "#%d: (%s)", row, strings.Join(names, ", "))
	}
	return sb.String()
}
