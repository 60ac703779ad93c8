// SPDX-License-Identifier: MIT
// Package matrix - convenience constructors and comparisons on top of Dense.
//
// Purpose:
//   - NewIdentity: the neutral element of MulAssign.
//   - Transpose: out-of-place transpose on a fresh aligned buffer.
//   - AllClose: tolerance comparison for results whose summation order
//     depends on the backend.

package matrix

import (
	"math"
)

const (
	opIdentity  = "NewIdentity"
	opTranspose = "Transpose"
	opAllClose  = "AllClose"
)

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Determinism: fixed i-loop; single write per diagonal cell.
// Complexity: O(n^2) zeroing (constructor) + O(n) writes on the diagonal.
//
// AI-Hints: A.MulAssign(I) leaves A's values unchanged; useful as a smoke test
// for a new backend.
func NewIdentity(n int, opts ...Option) (*Dense, error) {
	I, err := newDense(n, n, gatherOptions(opts...))
	if err != nil {
		return nil, matrixErrorf(opIdentity, err)
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1
	}

	return I, nil
}

// Transpose returns a new Dense where rows and columns of m are swapped.
// The result inherits m's options (backend included).
// Stage 1 (Validate): nil-check.
// Stage 2 (Prepare): allocate Dense(cols×rows).
// Stage 3 (Execute): data[i*cols + j] → res.data[j*rows + i].
// Time Complexity: O(r·c); Space Complexity: O(r·c).
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opTranspose, ErrNilMatrix)
	}

	rows, cols := m.r, m.c
	res, err := newDense(cols, rows, m.opts) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j, baseSrc int
	for i = 0; i < rows; i++ {
		baseSrc = i * cols
		for j = 0; j < cols; j++ {
			res.data[j*rows+i] = m.data[baseSrc+j]
		}
	}

	return res, nil
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// Time: O(r*c). Space: O(1). Deterministic.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; NaN or Inf tolerances are ErrNaNInf.
//   - A NaN element never compares close.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	// Dense fast-path: operate over flat slices when both are *Dense.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx, bv := range db.data {
				if !withinTol(da.data[idx], bv, rtol, atol) {
					return false, nil // early-exit on first violation
				}
			}
			return true, nil
		}
	}

	// Generic fallback via At.
	r, c := a.Rows(), a.Cols()
	var av, bv float64
	var err error
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if av, err = a.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if !withinTol(av, bv, rtol, atol) {
				return false, nil
			}
		}
	}

	return true, nil
}

// withinTol is the scalar AllClose relation. NaN on either side yields false.
func withinTol(a, b, rtol, atol float64) bool {
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}
