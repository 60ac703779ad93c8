// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - In-place element-wise compound assignment: AddAssign (A += B),
//     SubAssign (A -= B), AddAssignSlice (A += flat buffer) and
//     ScaleAssign (A *= alpha).
//
// Design:
//   - Work is partitioned by rows. Rows are independent (no inter-row hazard),
//     so strips run concurrently through internal/parallel; each strip is one
//     contiguous span of the flat buffer handed to an algo-vecmath kernel.
//   - Validation happens before the first write: on any error the receiver
//     holds exactly its pre-call values.
//   - A foreign (non-*Dense) operand is first staged into scratch storage, so a
//     failing At on the operand cannot leave the receiver half-updated.
//
// Complexity:
//   - O(r*c) time; O(1) extra space for *Dense operands (O(c) per strip for
//     SubAssign), O(r*c) for staged foreign operands.

package matrix

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/katalvlaran/densela/internal/parallel"
)

// Operation name constants for unified error wrapping.
const (
	opAddAssign      = "AddAssign"
	opSubAssign      = "SubAssign"
	opAddAssignSlice = "AddAssignSlice"
	opScaleAssign    = "ScaleAssign"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// AddAssign performs A += B element-wise and returns A for chaining.
// MAIN DESCRIPTION:
//   - In-place sum; B is only read.
//
// Implementation:
//   - Stage 1: ValidateSameShape(A, B) (nil and shape checks).
//   - Stage 2: stage B into a flat buffer unless it already is a *Dense.
//   - Stage 3: row strips in parallel, vecmath.AddBlockInPlace per strip.
//
// Behavior highlights:
//   - A.AddAssign(A) doubles A (exact aliasing, element i only touches element i).
//   - On error A is unchanged.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch; At errors of a foreign operand.
//
// Complexity:
//   - Time O(r*c), bandwidth-bound.
func (m *Dense) AddAssign(b Matrix) (*Dense, error) {
	if err := m.accumulate(b, +1); err != nil {
		return m, matrixErrorf(opAddAssign, err)
	}

	return m, nil
}

// SubAssign performs A -= B element-wise and returns A for chaining.
// Same contract as AddAssign; A.SubAssign(A) zeroes finite entries.
func (m *Dense) SubAssign(b Matrix) (*Dense, error) {
	if err := m.accumulate(b, -1); err != nil {
		return m, matrixErrorf(opSubAssign, err)
	}

	return m, nil
}

// AddAssignSlice performs A += src where src is a flat row-major buffer of
// exactly Rows()*Cols() values. It replaces the unchecked raw-pointer overload:
// a short or long buffer is ErrSourceLength instead of a silent overrun.
func (m *Dense) AddAssignSlice(src []float64) (*Dense, error) {
	if m == nil {
		return m, matrixErrorf(opAddAssignSlice, ErrNilMatrix)
	}
	if err := ValidateSourceLen(m.r, m.c, len(src)); err != nil {
		return m, matrixErrorf(opAddAssignSlice, err)
	}
	if err := m.addRows(src, +1); err != nil {
		return m, matrixErrorf(opAddAssignSlice, err)
	}

	return m, nil
}

// ScaleAssign performs A *= alpha element-wise and returns A for chaining.
// Row strips run in parallel like AddAssign; each strip is scaled in place.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func (m *Dense) ScaleAssign(alpha float64) (*Dense, error) {
	if m == nil {
		return m, matrixErrorf(opScaleAssign, ErrNilMatrix)
	}
	if len(m.data) == 0 {
		return m, nil
	}
	c := m.c
	err := parallel.Rows(m.r, c, m.opts.rows(), func(lo, hi int) error {
		strip := m.data[lo*c : hi*c]
		vecmath.ScaleBlock(strip, strip, alpha)
		return nil
	})
	if err != nil {
		return m, matrixErrorf(opScaleAssign, err)
	}

	return m, nil
}

// accumulate is the shared body of AddAssign/SubAssign: m += sign*b.
func (m *Dense) accumulate(b Matrix, sign float64) error {
	if m == nil {
		return ErrNilMatrix
	}
	if err := ValidateSameShape(m, b); err != nil {
		return err
	}

	src, done, err := m.stage(b)
	if err != nil {
		return err
	}
	defer done()

	return m.addRows(src, sign)
}

// addRows applies m.data[i] += sign*src[i] over row strips. src has the
// shape of m (validated by callers).
func (m *Dense) addRows(src []float64, sign float64) error {
	if len(src) == 0 {
		return nil
	}
	c := m.c

	return parallel.Rows(m.r, c, m.opts.rows(), func(lo, hi int) error {
		dst, in := m.data[lo*c:hi*c], src[lo*c:hi*c]
		if sign == 1 {
			vecmath.AddBlockInPlace(dst, in)
			return nil
		}
		// Negate one row at a time into scratch, then accumulate.
		tmp := make([]float64, c)
		for off := 0; off < len(dst); off += c {
			vecmath.ScaleBlock(tmp, in[off:off+c], sign)
			vecmath.AddBlockInPlace(dst[off:off+c], tmp)
		}
		return nil
	})
}

// stage returns b's elements as a flat row-major slice. For a *Dense this is
// its own buffer (no copy). Otherwise the elements are read through At into a
// scratch Dense on m's backend; done releases it. The caller has already
// checked b's shape.
func (m *Dense) stage(b Matrix) (src []float64, done func(), err error) {
	if d, ok := b.(*Dense); ok {
		return d.data, func() {}, nil
	}

	r, c := b.Rows(), b.Cols()
	tmp, err := newDense(r, c, m.opts)
	if err != nil {
		return nil, nil, err
	}
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = b.At(i, j); err != nil {
				_ = tmp.Release()
				return nil, nil, fmt.Errorf("At(%d,%d): %w", i, j, err)
			}
			tmp.data[i*c+j] = v
		}
	}

	return tmp.data, func() { _ = tmp.Release() }, nil
}
