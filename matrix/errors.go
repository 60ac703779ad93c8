// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. Operations return these sentinels wrapped with operation context
// and tests MUST check them via errors.Is. No operation panics on
// user-triggered error conditions.

package matrix

import (
	"errors"

	"github.com/katalvlaran/densela/backend"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." (or "backend: ..." for the two
// sentinels owned by the backend contract). Context is added with
// fmt.Errorf("Op: %w", ErrX); callers still match with errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil -> shape -> allocation -> backend compute.

var (
	// ErrAllocation is returned when an aligned buffer cannot be obtained:
	// negative or overflowing dimensions, or the allocator refused the request.
	// The receiver of the failed operation is left untouched.
	ErrAllocation = backend.ErrAllocation

	// ErrBackendCompute is returned when the backend GEMM reports failure
	// (error or panic). The receiver is left untouched and the scratch
	// buffer is released before returning.
	ErrBackendCompute = backend.ErrBackendCompute

	// ErrDimensionMismatch indicates incompatible operand shapes, e.g.
	// AddAssign with different shapes, or MulAssign where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	// At/Set MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrInvalidDimensions indicates negative dimensions. Always reported
	// together with ErrAllocation.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be >= 0")

	// ErrSourceLength indicates a source slice whose length differs from
	// rows*cols. Always reported together with ErrDimensionMismatch.
	ErrSourceLength = errors.New("matrix: source length does not match shape")

	// ErrNilMatrix indicates that a nil matrix (receiver or operand) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNaNInf signals a NaN or ±Inf value where the numeric policy
	// (WithValidateNaNInf) requires finite values.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")
)

// ErrIndexOutOfRange names the same condition as ErrOutOfRange.
var ErrIndexOutOfRange = ErrOutOfRange
