// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/katalvlaran/densela/internal/parallel"
	"gonum.org/v1/gonum/blas"
)

// DefaultNativeMinElems is the output size (m*n) below which Native runs on
// the calling goroutine.
const DefaultNativeMinElems = 64 * 64

// Native is a pure-Go Backend. Output rows are split into strips computed in
// parallel; each output row is accumulated as a sum of scaled rows of op(B)
// using algo-vecmath block kernels (SIMD where the CPU allows).
type Native struct {
	*Heap
	cfg parallel.Config
}

var _ Backend = (*Native)(nil)

// NewNative returns a Native backend allocating from h (DefaultHeap when nil).
// workers <= 0 means GOMAXPROCS.
func NewNative(h *Heap, workers int) *Native {
	if h == nil {
		h = DefaultHeap
	}

	return &Native{
		Heap: h,
		cfg:  parallel.Config{Workers: workers, MinElems: DefaultNativeMinElems},
	}
}

// Name implements Backend.
func (nt *Native) Name() string { return "native" }

// Gemm implements Backend.
//
// Row i of C is beta·C[i,:] + Σ_p (alpha·op(A)[i,p])·op(B)[p,:].
// For alpha != 0, zero coefficients of op(A) are not skipped, so NaN/Inf in
// op(B) always propagate (gonum's Dgemm skips them). alpha == 0 only scales C
// by beta and never reads A or B.
func (nt *Native) Gemm(tA, tB blas.Transpose, m, n, k int,
	alpha float64, a []float64, lda int,
	b []float64, ldb int,
	beta float64, c []float64, ldc int) error {
	if err := checkGemm(tA, tB, m, n, k, a, lda, b, ldb, c, ldc); err != nil {
		return err
	}
	if m == 0 || n == 0 {
		return nil
	}
	scaleRows(m, n, beta, c, ldc)
	if k == 0 || alpha == 0 {
		return nil
	}

	aAt := func(i, p int) float64 { return a[i*lda+p] }
	if tA != blas.NoTrans {
		aAt = func(i, p int) float64 { return a[p*lda+i] }
	}

	err := parallel.Rows(m, n, nt.cfg, func(lo, hi int) error {
		tmp := make([]float64, n) // per-strip scratch
		for i := lo; i < hi; i++ {
			cRow := c[i*ldc : i*ldc+n]
			for p := 0; p < k; p++ {
				s := alpha * aAt(i, p)
				if tB == blas.NoTrans {
					vecmath.ScaleBlock(tmp, b[p*ldb:p*ldb+n], s)
					vecmath.AddBlockInPlace(cRow, tmp)
					continue
				}
				for j := range cRow {
					cRow[j] += s * b[j*ldb+p]
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: native: %w", ErrBackendCompute, err)
	}

	return nil
}
