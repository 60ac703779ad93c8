// Package matrix offers a dense, row-major float64 matrix over a pluggable
// linear-algebra backend.
//
// The matrix package provides:
//
//   - Dense: exclusively owned, 64-byte aligned storage with bounds-checked
//     At/Set, built blank (NewDense) or from a length-checked slice (NewDenseFrom).
//   - AddAssign / SubAssign / AddAssignSlice / ScaleAssign: in-place element-wise updates,
//     row-parallel on algo-vecmath kernels.
//   - MulAssign / Product: matrix products through the backend GEMM
//     (gonum blas64 by default), committed with a two-phase protocol so that a
//     failed or self-referencing product never corrupts the receiver.
//
// Errors are sentinels (ErrDimensionMismatch, ErrOutOfRange, ErrAllocation,
// ErrBackendCompute, ...) matched with errors.Is.
//
// A Dense is not safe for concurrent mutation; concurrent reads are fine.
//
// See the examples in this package for usage patterns.
package matrix
