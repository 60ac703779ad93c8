// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Gonum is a Backend whose Gemm is blas64.Implementation().Dgemm.
// gonum's BLAS is row-major, so arguments pass through unchanged.
type Gonum struct {
	*Heap
}

var _ Backend = (*Gonum)(nil)

// NewGonum returns a Gonum backend allocating from h (DefaultHeap when nil).
func NewGonum(h *Heap) *Gonum {
	if h == nil {
		h = DefaultHeap
	}

	return &Gonum{Heap: h}
}

// Name reports the blas64 implementation currently registered.
func (g *Gonum) Name() string {
	return fmt.Sprintf("gonum(%T)", blas64.Implementation())
}

// Gemm implements Backend. Arguments are validated up front; a panic from
// the BLAS implementation is still recovered into ErrBackendCompute.
func (g *Gonum) Gemm(tA, tB blas.Transpose, m, n, k int,
	alpha float64, a []float64, lda int,
	b []float64, ldb int,
	beta float64, c []float64, ldc int) (err error) {
	if err = checkGemm(tA, tB, m, n, k, a, lda, b, ldb, c, ldc); err != nil {
		return err
	}
	if m == 0 || n == 0 {
		return nil
	}
	// op(A)·op(B) is the zero matrix; Dgemm would reject the empty operands.
	if k == 0 || alpha == 0 {
		scaleRows(m, n, beta, c, ldc)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: dgemm: %v", ErrBackendCompute, r)
		}
	}()
	blas64.Implementation().Dgemm(tA, tB, m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)

	return nil
}
