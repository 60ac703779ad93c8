// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major, aligned) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Keep the buffer aligned to backend.Alignment so backend kernels can use
//     aligned vector loads on row starts of width multiple of 8.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Own the buffer exclusively and release it exactly once (Release, or the
//     garbage collector through a runtime cleanup).
//
// Concurrency:
//   - No locking. Mutating calls on one Dense need caller synchronisation
//     (single writer). Any number of goroutines may read a Dense, including
//     using it as the right operand of AddAssign/MulAssign on other matrices.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; NewDenseFrom: O(r*c) row-parallel copy;
//     At/Set: O(1); Clone: O(r*c); String/Describe: O(r*c).

package matrix

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/katalvlaran/densela/backend"
	"github.com/katalvlaran/densela/internal/parallel"
)

// ---------- error context tags ----------

const (
	ctxNew     = "NewDense"     // ctor tag
	ctxNewFrom = "NewDenseFrom" // ctor tag
	ctxAt      = "At"           // method tag used in error wrappers
	ctxSet     = "Set"          // method tag used in error wrappers
	ctxRow     = "Row"          // method tag used in error wrappers
	ctxClone   = "Clone"        // method tag used in error wrappers
)

// ---------- Formatting literals  ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Keeps the sentinel reachable through %w.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// buffer is the owned storage of one Dense. It is split from Dense so that a
// runtime cleanup attached to the Dense can free it without keeping the Dense
// reachable.
type buffer struct {
	data  []float64         // aligned row-major storage (len == r*c), nil once released
	alloc backend.Allocator // where data came from and goes back to
}

// free returns data to its allocator once; later calls are no-ops.
func (b *buffer) free() error {
	if b.data == nil {
		return nil
	}
	data := b.data
	b.data = nil

	return b.alloc.Free(data)
}

// reclaim is the runtime cleanup: the Dense became unreachable without Release.
func (b *buffer) reclaim() { _ = b.free() }

// Dense is a concrete row-major matrix over an aligned buffer.
//   - r,c hold dimensions (rows, cols), both >= 0.
//   - data (via *buffer) holds r*c elements in row-major order (offset = i*c + j).
//   - opts carries backend, scheduling and numeric policy.
//
// The zero value is not usable; construct with NewDense or NewDenseFrom.
type Dense struct {
	r, c int
	*buffer
	cleanup runtime.Cleanup
	opts    Options
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix on an aligned buffer.
// MAIN DESCRIPTION:
//   - Public constructor with shape validation and configurable backend.
//
// Implementation:
//   - Stage 1: validate rows>=0 && cols>=0 and that rows*cols fits an int.
//   - Stage 2: obtain a zeroed aligned buffer from the backend allocator.
//   - Stage 3: attach a runtime cleanup so an unreleased buffer is still
//     returned to the allocator when the Dense is collected.
//
// Behavior highlights:
//   - 0×N, N×0 and 0×0 are legal; their buffer is empty.
//   - No panics on user errors; returns sentinel errors.
//
// Errors:
//   - ErrAllocation (+ ErrInvalidDimensions) for negative dimensions.
//   - ErrAllocation when rows*cols overflows or the allocator refuses.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int, opts ...Option) (*Dense, error) {
	m, err := newDense(rows, cols, gatherOptions(opts...))
	if err != nil {
		return nil, fmt.Errorf("%s(%d,%d): %w", ctxNew, rows, cols, err)
	}

	return m, nil
}

// NewDenseFrom creates an r×c matrix holding a copy of src (row-major).
// MAIN DESCRIPTION:
//   - Copy-initialising constructor; src is length-checked, never retained.
//
// Implementation:
//   - Stage 1: ValidateSourceLen (len(src) must equal rows*cols exactly).
//   - Stage 2: optional finite-only policy check on src.
//   - Stage 3: allocate as NewDense, then copy row strips in parallel; each
//     row is independent so strips never overlap.
//
// Errors:
//   - ErrSourceLength (+ ErrDimensionMismatch) when len(src) != rows*cols.
//   - ErrNaNInf under WithValidateNaNInf.
//   - Everything NewDense returns.
//
// Determinism:
//   - Bit-identical copy; no arithmetic.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDenseFrom(rows, cols int, src []float64, opts ...Option) (*Dense, error) {
	o := gatherOptions(opts...)
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%s(%d,%d): %w: %w", ctxNewFrom, rows, cols, ErrAllocation, ErrInvalidDimensions)
	}
	if err := ValidateSourceLen(rows, cols, len(src)); err != nil {
		return nil, fmt.Errorf("%s: %w", ctxNewFrom, err)
	}
	if o.validateNaNInf {
		if err := ValidateFinite(src); err != nil {
			return nil, fmt.Errorf("%s: %w", ctxNewFrom, err)
		}
	}

	m, err := newDense(rows, cols, o)
	if err != nil {
		return nil, fmt.Errorf("%s(%d,%d): %w", ctxNewFrom, rows, cols, err)
	}
	if err = m.copyRows(src); err != nil {
		_ = m.Release()
		return nil, fmt.Errorf("%s: %w", ctxNewFrom, err)
	}

	return m, nil
}

// newDense is the shared constructor body; o is already resolved.
func newDense(rows, cols int, o Options) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, ErrInvalidDimensions)
	}
	if cols > 0 && rows > math.MaxInt/cols {
		return nil, fmt.Errorf("%w: %d*%d overflows", ErrAllocation, rows, cols)
	}

	data, err := o.backend.Alloc(rows * cols)
	if err != nil {
		return nil, err // already ErrAllocation by contract
	}

	m := &Dense{
		r:      rows,
		c:      cols,
		buffer: &buffer{data: data, alloc: o.backend},
		opts:   o,
	}
	m.cleanup = runtime.AddCleanup(m, (*buffer).reclaim, m.buffer)

	return m, nil
}

// copyRows fills m from a validated source, one row strip per worker.
func (m *Dense) copyRows(src []float64) error {
	if len(src) == 0 {
		return nil
	}
	c := m.c

	return parallel.Rows(m.r, c, m.opts.rows(), func(lo, hi int) error {
		copy(m.data[lo*c:hi*c], src[lo*c:hi*c])
		return nil
	})
}

// Rows returns the row count. No side effects.
// Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count. No side effects.
// Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
// Complexity: O(1).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// Backend returns the backend that owns this matrix's buffer.
func (m *Dense) Backend() backend.Backend { return m.opts.backend }

// Aligned reports whether the buffer start honours backend.Alignment.
// Always true for a Dense built by this package; exposed for diagnostics.
func (m *Dense) Aligned() bool { return backend.IsAligned(m.data) }

// indexOf computes the row-major offset or returns ErrOutOfRange.
// Public methods (At/Set) wrap the sentinel with coordinates and method name.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Row-major offset: i*c + j.
	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// MAIN DESCRIPTION:
//   - Safe element read at coordinates.
//
// Errors:
//   - ErrOutOfRange when row∉[0,Rows()) or col∉[0,Cols()).
//
// Complexity:
//   - Time O(1), Space O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err) // wrap with context
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns an error (bounds or numeric policy).
// MAIN DESCRIPTION:
//   - Safe element write with optional finite-only policy.
//
// Errors:
//   - ErrOutOfRange for bounds; ErrNaNInf for non-finite v under WithValidateNaNInf.
//
// Complexity:
//   - Time O(1), Space O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err) // wrap with context
	}
	if m.opts.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v // direct flat write

	return nil
}

// Row returns a copy of row i.
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, fmt.Errorf("Dense.%s(%d): %w", ctxRow, i, ErrOutOfRange)
	}
	out := make([]float64, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out, nil
}

// Values returns a row-major copy of all elements.
func (m *Dense) Values() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)

	return out
}

// Equal reports whether o has the same shape and element-wise equal values
// (IEEE ==, so NaN never equals NaN).
func (m *Dense) Equal(o *Dense) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.r != o.r || m.c != o.c {
		return false
	}
	for i, v := range m.data {
		if v != o.data[i] {
			return false
		}
	}

	return true
}

// Clone returns a deep copy on a fresh buffer from the same backend.
// MAIN DESCRIPTION:
//   - Produce an independent Dense with identical shape/data/options.
//
// Errors:
//   - ErrAllocation when the backend refuses the buffer.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func (m *Dense) Clone() (*Dense, error) {
	if m == nil {
		return nil, fmt.Errorf("Dense.%s: %w", ctxClone, ErrNilMatrix)
	}
	cp, err := newDense(m.r, m.c, m.opts)
	if err != nil {
		return nil, fmt.Errorf("Dense.%s: %w", ctxClone, err)
	}
	copy(cp.data, m.data)

	return cp, nil
}

// Release returns the buffer to the backend allocator and leaves m as a valid
// 0×0 matrix. Calling it again is a no-op. Matrices that are never released
// are reclaimed when the garbage collector finds them unreachable.
//
// Errors:
//   - Only when the allocator reports the buffer as not live, which signals a
//     double release through some other path (a bug).
func (m *Dense) Release() error {
	if m == nil || m.buffer == nil {
		return nil
	}
	m.cleanup.Stop()
	m.r, m.c = 0, 0

	return m.free()
}

// String HUMAN-READABLE dump of rows for diagnostics.
// Implementation:
//   - Stage 1: iterate rows/cols deterministically.
//   - Stage 2: write values into strings.Builder with standard delimiters.
//
// Behavior highlights:
//   - Not for hot paths; intended for logs and debugging.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for formatting.
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ { // iterate rows deterministically
		b.WriteString(_fmtRowOpen) // open row
		base = i * m.c
		for j = 0; j < m.c; j++ { // iterate cols
			fmt.Fprintf(&b, "%g", m.data[base+j])
			if j+1 < m.c {
				b.WriteString(_fmtSep) // separate values with comma + space
			}
		}
		b.WriteString(_fmtRowClose) // close row
	}

	return b.String()
}

// Describe enumerates every element tagged with its coordinate, row-major,
// one per line, after a header with the shape:
//
//	Dense 2x2
//	(0,0) = 1
//	(0,1) = 2
//	(1,0) = 3
//	(1,1) = 4
func (m *Dense) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dense %dx%d\n", m.r, m.c)
	for i := 0; i < m.r; i++ {
		base := i * m.c
		for j := 0; j < m.c; j++ {
			fmt.Fprintf(&b, "(%d,%d) = %g\n", i, j, m.data[base+j])
		}
	}

	return b.String()
}
