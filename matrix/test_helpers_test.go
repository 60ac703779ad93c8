// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures and fake backends/operands.

package matrix_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/katalvlaran/densela/backend"
	"github.com/katalvlaran/densela/matrix"
	"gonum.org/v1/gonum/blas"
)

// Worked product example: exampleA (2x3) × exampleB (3x4) = exampleProd (2x4).
var (
	exampleA    = []float64{3, 4, 2, 9, 2, 6}
	exampleB    = []float64{13, 9, 7, 15, 8, 7, 4, 6, 6, 4, 0, 3}
	exampleProd = []float64{83, 63, 37, 75, 169, 119, 71, 165}
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the staged (non-*Dense) operand path.
type hide struct{ matrix.Matrix }

// failingAt is an operand whose At fails at one coordinate.
type failingAt struct {
	matrix.Matrix
	row, col int
}

var errCellUnreadable = errors.New("cell unreadable")

func (f failingAt) At(i, j int) (float64, error) {
	if i == f.row && j == f.col {
		return 0, errCellUnreadable
	}
	return f.Matrix.At(i, j)
}

// failingBackend allocates normally but its GEMM always reports an error.
type failingBackend struct {
	*backend.Heap
	calls int
}

var errDeviceLost = errors.New("device lost")

func (f *failingBackend) Name() string { return "failing" }

func (f *failingBackend) Gemm(_, _ blas.Transpose, _, _, _ int, _ float64, _ []float64, _ int,
	_ []float64, _ int, _ float64, _ []float64, _ int) error {
	f.calls++
	return errDeviceLost
}

// panickingBackend allocates normally but its GEMM panics.
type panickingBackend struct{ *backend.Heap }

func (p *panickingBackend) Name() string { return "panicking" }

func (p *panickingBackend) Gemm(_, _ blas.Transpose, _, _, _ int, _ float64, _ []float64, _ int,
	_ []float64, _ int, _ float64, _ []float64, _ int) error {
	panic("kernel fault")
}

// mustDense ALLOCATES an r×c *Dense or fails the test.
func mustDense(tb testing.TB, r, c int, opts ...matrix.Option) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDense(r, c, opts...)
	if err != nil {
		tb.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}
	return m
}

// mustFrom builds an r×c *Dense from row-major vals or fails the test.
func mustFrom(tb testing.TB, r, c int, vals []float64, opts ...matrix.Option) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals, opts...)
	if err != nil {
		tb.Fatalf("NewDenseFrom(%d,%d): %v", r, c, err)
	}
	return m
}

// randValues returns n deterministic values in [-1, 1).
func randValues(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}

// randInts returns n deterministic integer-valued floats in [-1000, 1000];
// sums of these are exact in float64.
func randInts(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(rng.Intn(2001) - 1000)
	}
	return out
}

// naiveProduct is the i→k→j reference product of row-major a (m×k) and b (k×n).
func naiveProduct(a, b []float64, m, k, n int) []float64 {
	out := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			av := a[i*k+p]
			for j := 0; j < n; j++ {
				out[i*n+j] += av * b[p*n+j]
			}
		}
	}
	return out
}

// testBackends builds one backend of each shipped kind on a private heap.
func testBackends(t *testing.T) map[string]backend.Backend {
	t.Helper()
	out := make(map[string]backend.Backend, len(backend.Names))
	for _, name := range backend.Names {
		be, err := backend.ByName(name, backend.NewHeap(0), 3)
		if err != nil {
			t.Fatal(err)
		}
		out[name] = be
	}
	return out
}
