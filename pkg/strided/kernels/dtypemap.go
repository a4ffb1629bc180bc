// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/strided/pkg/core/dtypes"
	"github.com/gomlx/strided/pkg/support/sets"
)

// Priority of a registered function: a registration only replaces a previous one with lower or equal priority.
type Priority int

const (
	// PriorityGeneric is used for the instantiations of the generic kernels.
	PriorityGeneric Priority = iota

	// PriorityTyped is used for hand-written kernels specialized to one dtype.
	PriorityTyped

	// PriorityUser is the priority users should use to replace any of the provided kernels.
	PriorityUser
)

type dtypeMapEntry struct {
	fn       any
	priority Priority
}

// DTypeMap maps each dtype to one function (of any type) implementing some kernel for that dtype.
//
// Registration is expected to happen during initialization (in init functions), it is not
// safe to register concurrently with Get.
type DTypeMap struct {
	Name    string
	entries [dtypes.NumDTypes]*dtypeMapEntry
}

// NewDTypeMap creates a new, empty, DTypeMap for a kernel.
func NewDTypeMap(name string) *DTypeMap {
	return &DTypeMap{Name: name}
}

func (m *DTypeMap) checkDType(dtype dtypes.DType) {
	if !dtype.IsValid() {
		exceptions.Panicf("invalid dtype %s for %s", dtype, m.Name)
	}
}

// Register fn to handle the given dtype.
// It replaces a previous registration for the same dtype, unless that one has a higher priority.
func (m *DTypeMap) Register(dtype dtypes.DType, priority Priority, fn any) {
	m.checkDType(dtype)
	if fn == nil {
		exceptions.Panicf("registering nil function for %s in %s", dtype, m.Name)
	}
	if current := m.entries[dtype]; current != nil && current.priority > priority {
		return
	}
	m.entries[dtype] = &dtypeMapEntry{fn: fn, priority: priority}
}

// Has returns whether there is a function registered for dtype.
func (m *DTypeMap) Has(dtype dtypes.DType) bool {
	return dtype.IsValid() && m.entries[dtype] != nil
}

// Get returns the function registered for dtype. It panics if there is none.
func (m *DTypeMap) Get(dtype dtypes.DType) any {
	m.checkDType(dtype)
	entry := m.entries[dtype]
	if entry == nil {
		exceptions.Panicf("dtype %s not supported by %s", dtype, m.Name)
	}
	return entry.fn
}

// DTypes returns the set of dtypes with a registered function.
func (m *DTypeMap) DTypes() sets.Set[dtypes.DType] {
	set := sets.Make[dtypes.DType]()
	for dtype, entry := range m.entries {
		if entry != nil {
			set.Insert(dtypes.DType(dtype))
		}
	}
	return set
}
