// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Matrix multiplication through the backend GEMM: MulAssign (A *= B) and
//     Product (C = A × B, fresh result).
//
// Two-phase protocol (the one correctness-critical invariant of Dense):
//   1. prepareProduct: allocate a fresh aligned buffer of A.rows*B.cols and run
//      GEMM(NoTrans, NoTrans, alpha=1, beta=0) into it, reading A's and B's
//      current buffers. Nothing observable changes in this phase.
//   2. commit: only after phase 1 succeeded, swap A's buffer and column count
//      to the fresh ones and release the old buffer.
//
// Consequences:
//   - A.MulAssign(A) is safe: the old buffer is read in full before it is released.
//   - B is never written, reallocated or released, so it can be reused in any
//     number of chains and read concurrently.
//   - Any failure in phase 1 leaves A exactly as it was; the fresh buffer, if
//     obtained, is released before returning.

package matrix

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/blas"
)

const (
	opMulAssign = "MulAssign"
	opProduct   = "Product"
)

// MulAssign replaces A with A × B and returns A for chaining.
// MAIN DESCRIPTION:
//   - In-place matrix product; A's shape becomes (A.Rows(), B.Cols()).
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(A, B) (A.Cols == B.Rows).
//   - Stage 2: prepareProduct into a fresh buffer (GEMM on A's backend).
//   - Stage 3: commit (swap, then release the old buffer).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch: nothing allocated, A unchanged.
//   - ErrAllocation: A unchanged, old buffer intact.
//   - ErrBackendCompute: A unchanged, fresh buffer released.
//
// Complexity:
//   - Time O(r*n*c) in the backend, Space O(r*c) for the fresh buffer (plus
//     O(n*c) staging when B is not a *Dense).
func (m *Dense) MulAssign(b Matrix) (*Dense, error) {
	if m == nil {
		return m, matrixErrorf(opMulAssign, ErrNilMatrix)
	}
	if err := ValidateMulCompatible(m, b); err != nil {
		return m, matrixErrorf(opMulAssign, err)
	}

	fresh, err := m.prepareProduct(b)
	if err != nil {
		m.opts.logger.Debug().Err(err).Str("op", opMulAssign).
			Int("rows", m.r).Int("inner", m.c).Int("cols", b.Cols()).
			Msg("product not committed")
		return m, matrixErrorf(opMulAssign, err)
	}
	m.commit(fresh, b.Cols())

	return m, nil
}

// Product returns C = A × B as a new Dense on A's backend and options.
// Neither operand is modified. Same error contract as MulAssign.
func Product(a *Dense, b Matrix) (*Dense, error) {
	if a == nil {
		return nil, matrixErrorf(opProduct, ErrNilMatrix)
	}
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opProduct, err)
	}

	fresh, err := a.prepareProduct(b)
	if err != nil {
		a.opts.logger.Debug().Err(err).Str("op", opProduct).Msg("product failed")
		return nil, matrixErrorf(opProduct, err)
	}

	// An empty placeholder buffer lets commit run the same swap/release path.
	c, err := newDense(a.r, 0, a.opts)
	if err != nil {
		_ = a.opts.backend.Free(fresh)
		return nil, matrixErrorf(opProduct, err)
	}
	c.commit(fresh, b.Cols())

	return c, nil
}

// prepareProduct is phase 1: compute A × B into a fresh buffer.
// The receiver is only read. On error nothing is left allocated.
func (m *Dense) prepareProduct(b Matrix) ([]float64, error) {
	rows, inner, cols := m.r, m.c, b.Cols()

	src, done, err := m.stage(b)
	if err != nil {
		return nil, err
	}
	defer done()

	fresh, err := m.opts.backend.Alloc(rows * cols)
	if err != nil {
		return nil, err
	}
	// Degenerate shapes: the zeroed buffer already is the exact product.
	if rows == 0 || cols == 0 || inner == 0 {
		return fresh, nil
	}

	if err = m.gemm(rows, cols, inner, src, fresh); err != nil {
		if ferr := m.opts.backend.Free(fresh); ferr != nil {
			m.opts.logger.Error().Err(ferr).Msg("release of scratch product buffer failed")
		}
		return nil, err
	}

	return fresh, nil
}

// gemm runs fresh = 1·A·B + 0·fresh on the backend. Any failure, including a
// panic escaping a third-party backend, is reported as ErrBackendCompute.
func (m *Dense) gemm(rows, cols, inner int, b, fresh []float64) (err error) {
	be := m.opts.backend
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrBackendCompute, be.Name(), r)
		}
	}()

	err = be.Gemm(blas.NoTrans, blas.NoTrans, rows, cols, inner,
		1, m.data, inner,
		b, cols,
		0, fresh, cols)
	if err != nil && !errors.Is(err, ErrBackendCompute) {
		err = fmt.Errorf("%w: %s: %w", ErrBackendCompute, be.Name(), err)
	}

	return err
}

// commit is phase 2: adopt fresh as the buffer of m with the new column count,
// then hand the previous buffer back to the allocator. fresh must hold
// m.r*cols values.
func (m *Dense) commit(fresh []float64, cols int) {
	old := m.data
	m.data, m.c = fresh, cols

	if err := m.alloc.Free(old); err != nil {
		// m is already consistent; a failed release only means the old buffer
		// was not live in the allocator's books.
		m.opts.logger.Error().Err(err).Msg("release of replaced buffer failed")
	}
	m.opts.logger.Debug().Str("backend", m.opts.backend.Name()).
		Int("rows", m.r).Int("cols", m.c).Msg("product committed")
}
