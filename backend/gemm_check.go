// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
)

// checkGemm validates Gemm arguments with the same rules the reference BLAS
// applies, but reports violations as errors instead of panicking.
// Slice lengths are only checked when the product is non-empty (m, n, k > 0).
func checkGemm(tA, tB blas.Transpose, m, n, k int,
	a []float64, lda int, b []float64, ldb int, c []float64, ldc int) error {
	if !validTranspose(tA) || !validTranspose(tB) {
		return badArg("transpose flag (tA=%v, tB=%v)", tA, tB)
	}
	if m < 0 || n < 0 || k < 0 {
		return badArg("negative size (m=%d, n=%d, k=%d)", m, n, k)
	}

	// Stored shapes of A and B before op() is applied.
	rowA, colA := m, k
	if tA != blas.NoTrans {
		rowA, colA = k, m
	}
	rowB, colB := k, n
	if tB != blas.NoTrans {
		rowB, colB = n, k
	}

	if lda < max(1, colA) {
		return badArg("lda=%d < %d", lda, max(1, colA))
	}
	if ldb < max(1, colB) {
		return badArg("ldb=%d < %d", ldb, max(1, colB))
	}
	if ldc < max(1, n) {
		return badArg("ldc=%d < %d", ldc, max(1, n))
	}

	if m == 0 || n == 0 {
		return nil
	}
	if need := ldc*(m-1) + n; len(c) < need {
		return badArg("len(c)=%d < %d", len(c), need)
	}
	if k == 0 {
		return nil
	}
	if need := lda*(rowA-1) + colA; len(a) < need {
		return badArg("len(a)=%d < %d", len(a), need)
	}
	if need := ldb*(rowB-1) + colB; len(b) < need {
		return badArg("len(b)=%d < %d", len(b), need)
	}

	return nil
}

func validTranspose(t blas.Transpose) bool {
	return t == blas.NoTrans || t == blas.Trans || t == blas.ConjTrans
}

func badArg(format string, args ...any) error {
	return fmt.Errorf("%w: %w: "+format, append([]any{ErrBackendCompute, ErrBadArgument}, args...)...)
}

// scaleRows applies C = beta·C to the m×n block of c; beta == 0 clears without
// reading, matching BLAS semantics for uninitialised outputs.
func scaleRows(m, n int, beta float64, c []float64, ldc int) {
	if beta == 1 {
		return
	}
	for i := 0; i < m; i++ {
		row := c[i*ldc : i*ldc+n]
		if beta == 0 {
			clear(row)
			continue
		}
		for j := range row {
			row[j] *= beta
		}
	}
}
