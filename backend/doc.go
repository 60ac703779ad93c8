// SPDX-License-Identifier: MIT

// Package backend defines the linear-algebra backend contract used by
// package matrix, and ships the implementations.
//
// Contract:
//   - Allocator: Alloc(n) returns a zeroed buffer of n float64 values whose first
//     element is aligned to Alignment bytes; Free(buf) returns it exactly once.
//   - Backend: an Allocator plus Gemm, the row-major general matrix multiply
//     C = alpha·op(A)·op(B) + beta·C with BLAS argument conventions.
//
// Implementations:
//   - Gonum: delegates to gonum.org/v1/gonum/blas/blas64. Whatever
//     implementation is registered with blas64.Use is picked up at call time,
//     so importing backend/netlib (cgo, build tag netlib) swaps in system BLAS.
//   - Native: row-strip parallel kernel built on algo-vecmath block operations.
//
// Errors:
//   - ErrAllocation for allocator refusal, ErrBackendCompute for any GEMM failure,
//     including invalid arguments and panics raised by the underlying library.
package backend
