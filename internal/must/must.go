// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package must provides functions that check for errors and panic on error.
//
// Convenient for command-line tools (the code generators) and tests.
package must

import (
	"k8s.io/klog/v2"
)

// M logs and panics if err is not nil.
//
// It is used by M1, so reassigning it changes the behavior of both.
var M = func(err error) {
	if err != nil {
		klog.Errorf("Must not error: %+v\nPanicking ...\n\n", err)
		panic(err)
	}
}

// M1 checks that there is no error with M(err) and then returns the value given.
func M1[T any](value T, err error) T {
	M(err)
	return value
}
