// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for operand checks.
//  - Keep operations minimal by delegating nil/shape/length checks here.
//  - Return sentinel errors tagged with the validator name so call sites can
//    wrap uniformly with the operation tag.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing on success.
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → Shape).

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// isNil reports a nil interface or a typed-nil *Dense hiding inside one.
func isNil(m Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*Dense)

	return ok && d == nil
}

// ValidateNotNil – Ensures the matrix reference is non-nil (including a
// typed-nil *Dense).
//
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if isNil(m) {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape – Ensures a and b are non-nil and have equal dimensions.
//
// Return: nil, ErrNilMatrix or ErrDimensionMismatch (wrapped).
// Complexity: O(1).
func ValidateSameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return validatorErrorf(
			fmt.Sprintf("ValidateSameShape: %dx%d vs %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols()),
			ErrDimensionMismatch)
	}

	return nil
}

// ValidateMulCompatible – Ensures a and b are non-nil and a.Cols() == b.Rows().
//
// Complexity: O(1).
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf(
			fmt.Sprintf("ValidateMulCompatible: %dx%d * %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols()),
			ErrDimensionMismatch)
	}

	return nil
}

// ValidateSourceLen – Ensures a flat row-major source holds exactly rows*cols
// values. A mismatch reports both ErrSourceLength and ErrDimensionMismatch.
//
// Complexity: O(1).
func ValidateSourceLen(rows, cols, n int) error {
	if rows < 0 || cols < 0 || n != rows*cols {
		return validatorErrorf(
			fmt.Sprintf("ValidateSourceLen: len=%d for %dx%d", n, rows, cols),
			fmt.Errorf("%w: %w", ErrSourceLength, ErrDimensionMismatch))
	}

	return nil
}

// ValidateFinite – Ensures every value in src is finite.
//
// Complexity: O(len(src)).
func ValidateFinite(src []float64) error {
	for i, v := range src {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validatorErrorf(fmt.Sprintf("ValidateFinite: index %d", i), ErrNaNInf)
		}
	}

	return nil
}
