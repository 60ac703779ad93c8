// SPDX-License-Identifier: MIT

package backend

import "errors"

var (
	// ErrAllocation means the allocator could not satisfy an aligned request
	// (negative or overflowing size, or the live byte cap was reached).
	ErrAllocation = errors.New("backend: allocation failed")

	// ErrBackendCompute means a Gemm call did not complete. The output buffer
	// contents are unspecified after this error.
	ErrBackendCompute = errors.New("backend: compute failed")

	// ErrBadArgument marks Gemm arguments that violate the BLAS contract
	// (negative sizes, short leading dimensions, short slices). Always
	// reported wrapped in ErrBackendCompute.
	ErrBadArgument = errors.New("backend: bad argument")

	// ErrUnknownBackend is returned by ByName for an unregistered name.
	ErrUnknownBackend = errors.New("backend: unknown backend")
)
