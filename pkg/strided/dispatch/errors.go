// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the errors returned by the dispatcher, so callers can branch on them
// with errors.Is (e.g. `errors.Is(err, dispatch.ErrRange)`).
type ErrorKind int

const (
	// ConfigError is returned at construction for an invalid setup: no dispatcher is created.
	ConfigError ErrorKind = iota + 1

	// ArityError is returned when a call doesn't supply exactly the configured number of arguments.
	ArityError

	// TypeError is returned for malformed arguments (non-integer counts, strides or offsets,
	// buffers that are not array-like) and when no kernel supports the declared dtypes.
	TypeError

	// RangeError is returned when the element count, stride and offset of an array would access
	// elements outside of its buffer.
	RangeError

	// KernelError is returned when the kernel itself panics with an error.
	KernelError
)

// Sentinel errors, one per ErrorKind.
var (
	ErrConfig error = ConfigError
	ErrArity  error = ArityError
	ErrType   error = TypeError
	ErrRange  error = RangeError
	ErrKernel error = KernelError
)

// Error implements the error interface. It returns the name of the kind.
func (k ErrorKind) Error() string {
	switch k {
	case ConfigError:
		return "config error"
	case ArityError:
		return "arity error"
	case TypeError:
		return "type error"
	case RangeError:
		return "range error"
	case KernelError:
		return "kernel error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Role of the array argument an error refers to.
type Role int

const (
	// NoRole is used for errors not related to a specific array argument.
	NoRole Role = iota
	Input
	Output
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "none"
	}
}

// Error is the concrete error returned (wrapped with a stack trace) by the dispatcher.
//
// Use errors.As to access its fields:
//
//	var dispatchErr *dispatch.Error
//	if errors.As(err, &dispatchErr) && dispatchErr.Role == dispatch.Output { ... }
type Error struct {
	Kind ErrorKind

	// Role tells whether the offending argument belongs to an input or an output array.
	Role Role

	// Array is the index of the offending array argument (inputs first, then outputs), or -1.
	Array int

	// Position is the index of the offending argument in the flat argument list, or -1.
	Position int

	// Msg is the stable description of the error.
	Msg string

	// Cause is set for KernelError, with the error the kernel panicked with.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.Error() + ": " + e.Msg
	if e.Position >= 0 {
		msg = fmt.Sprintf("%s (argument #%d)", msg, e.Position)
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the ErrorKind, so errors.Is works with the sentinel errors.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// newError creates an error not tied to any argument, with a stack trace.
func newError(kind ErrorKind, format string, args ...any) error {
	return errors.WithStack(&Error{
		Kind:     kind,
		Array:    -1,
		Position: -1,
		Msg:      fmt.Sprintf(format, args...),
	})
}

// Messages for errors on array arguments, indexed by Role (Input, Output).
var (
	msgNotArrayLike = []string{
		Input:  "input array arguments must be array-like objects (slices or arrays)",
		Output: "output array arguments must be array-like objects (slices or arrays)",
	}
	msgStrideNotInteger = []string{
		Input:  "input array strides must be integers",
		Output: "output array strides must be integers",
	}
	msgOffsetNotNonNegative = []string{
		Input:  "input array offsets must be nonnegative integers",
		Output: "output array offsets must be nonnegative integers",
	}
	msgInsufficientElements = []string{
		Input:  "input array arguments have insufficient elements for the given element count, stride and offset",
		Output: "output array arguments have insufficient elements for the given element count, stride and offset",
	}
)

// arrayError creates an error about the array argument at index array, with a stack trace.
func arrayError(kind ErrorKind, role Role, array, position int, messages []string) error {
	return errors.WithStack(&Error{
		Kind:     kind,
		Role:     role,
		Array:    array,
		Position: position,
		Msg:      messages[role],
	})
}
