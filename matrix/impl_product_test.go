// SPDX-License-Identifier: MIT
// Package matrix_test - unit tests for MulAssign and Product.
//
// Purpose:
//   - Pin the worked example on every shipped backend.
//   - Prove the two-phase product: failures of any kind leave the receiver
//     exactly as it was, self-multiplication reads the old buffer in full,
//     and the right operand is never touched.

package matrix_test

import (
	"bytes"
	"math"
	"sync"
	"testing"

	"github.com/katalvlaran/densela/backend"
	"github.com/katalvlaran/densela/matrix"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const productTol = 1e-9

func TestMulAssign_WorkedExample(t *testing.T) {
	for name, be := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			a := mustFrom(t, 2, 3, exampleA, matrix.WithBackend(be))
			b := mustFrom(t, 3, 4, exampleB, matrix.WithBackend(be))

			got, err := a.MulAssign(b)
			require.NoError(t, err)
			require.Same(t, a, got)

			r, c := a.Shape()
			require.Equal(t, 2, r)
			require.Equal(t, 4, c)
			require.Equal(t, exampleProd, a.Values())
			require.True(t, a.Aligned())
			require.Equal(t, exampleB, b.Values())
		})
	}
}

// TestWorkedExampleFixture pins the product fixture to an independent
// triple-loop computation, so the expected values cannot drift.
func TestWorkedExampleFixture(t *testing.T) {
	require.Equal(t, exampleProd, naiveProduct(exampleA, exampleB, 2, 3, 4))
	// Row 0 of A times column 0 of B: 3·13 + 4·8 + 2·6.
	require.Equal(t, 83.0, exampleProd[0])
}

func TestMulAssign_MismatchLeavesReceiver(t *testing.T) {
	heap := backend.NewHeap(0)
	be := backend.NewGonum(heap)

	vals := randValues(5, 2*3)
	a := mustFrom(t, 2, 3, vals, matrix.WithBackend(be))
	b := mustDense(t, 4, 5, matrix.WithBackend(be))
	before := heap.Stats()

	_, err := a.MulAssign(b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	r, c := a.Shape()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	require.Equal(t, vals, a.Values())
	require.Equal(t, before, heap.Stats(), "mismatch must not allocate")
}

func TestMulAssign_Self(t *testing.T) {
	for name, be := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			const n = 9
			vals := randValues(7, n*n)
			a := mustFrom(t, n, n, vals, matrix.WithBackend(be))

			want, err := matrix.Product(a, a)
			require.NoError(t, err)

			_, err = a.MulAssign(a)
			require.NoError(t, err)
			require.True(t, a.Equal(want))

			ref := naiveProduct(vals, vals, n, n, n)
			for i, v := range a.Values() {
				require.InDelta(t, ref[i], v, productTol, "index %d", i)
			}
		})
	}
}

// TestMulAssign_ReusedOperand chains the same B into several receivers.
func TestMulAssign_ReusedOperand(t *testing.T) {
	bVals := randInts(41, 4*4)
	b := mustFrom(t, 4, 4, bVals)

	a1 := mustFrom(t, 3, 4, randInts(42, 3*4))
	a2 := mustFrom(t, 2, 4, randInts(43, 2*4))
	for step := 0; step < 3; step++ {
		_, err := a1.MulAssign(b)
		require.NoError(t, err)
		_, err = a2.MulAssign(b)
		require.NoError(t, err)
		require.Equal(t, bVals, b.Values(), "step %d", step)
	}

	r, c := a1.Shape()
	require.Equal(t, 3, r)
	require.Equal(t, 4, c)
}

// TestMulAssign_AllocationFailure caps the heap so the fresh buffer cannot be obtained.
func TestMulAssign_AllocationFailure(t *testing.T) {
	// A (2x3) and B (3x4) take 48+96 = 144 bytes; the 2x4 result needs 64 more.
	heap := backend.NewHeap(207)
	be := backend.NewGonum(heap)

	a := mustFrom(t, 2, 3, exampleA, matrix.WithBackend(be))
	b := mustFrom(t, 3, 4, exampleB, matrix.WithBackend(be))

	_, err := a.MulAssign(b)
	require.ErrorIs(t, err, matrix.ErrAllocation)

	r, c := a.Shape()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	require.Equal(t, exampleA, a.Values())
	require.Equal(t, 2, heap.Stats().LiveBuffers)

	_, err = matrix.Product(a, b)
	require.ErrorIs(t, err, matrix.ErrAllocation)
}

func TestMulAssign_BackendFailure(t *testing.T) {
	heap := backend.NewHeap(0)
	fail := &failingBackend{Heap: heap}
	boom := &panickingBackend{Heap: heap}

	for name, be := range map[string]backend.Backend{"error": fail, "panic": boom} {
		t.Run(name, func(t *testing.T) {
			a := mustFrom(t, 2, 3, exampleA, matrix.WithBackend(be))
			b := mustFrom(t, 3, 4, exampleB, matrix.WithBackend(be))
			live := heap.Stats().LiveBuffers

			_, err := a.MulAssign(b)
			require.ErrorIs(t, err, matrix.ErrBackendCompute)

			r, c := a.Shape()
			require.Equal(t, 2, r)
			require.Equal(t, 3, c)
			require.Equal(t, exampleA, a.Values())
			require.Equal(t, live, heap.Stats().LiveBuffers, "fresh buffer must be released")

			p, err := matrix.Product(a, b)
			require.ErrorIs(t, err, matrix.ErrBackendCompute)
			require.Nil(t, p)
			require.Equal(t, live, heap.Stats().LiveBuffers)
		})
	}

	require.Equal(t, 2, fail.calls)
	_, err := mustFrom(t, 1, 1, []float64{1}, matrix.WithBackend(fail)).
		MulAssign(mustFrom(t, 1, 1, []float64{1}))
	require.ErrorIs(t, err, errDeviceLost)
}

func TestMulAssign_Degenerate(t *testing.T) {
	for _, tc := range []struct{ m, k, n int }{
		{0, 3, 4}, {2, 0, 4}, {2, 3, 0}, {0, 0, 0},
	} {
		a := mustFrom(t, tc.m, tc.k, randValues(1, tc.m*tc.k))
		b := mustFrom(t, tc.k, tc.n, randValues(2, tc.k*tc.n))

		_, err := a.MulAssign(b)
		require.NoError(t, err)
		r, c := a.Shape()
		require.Equal(t, tc.m, r)
		require.Equal(t, tc.n, c)
		for _, v := range a.Values() {
			require.Zero(t, v)
		}
	}
}

func TestMulAssign_ForeignOperand(t *testing.T) {
	a := mustFrom(t, 2, 3, exampleA)
	b := mustFrom(t, 3, 4, exampleB)

	_, err := a.MulAssign(hide{b})
	require.NoError(t, err)
	require.Equal(t, exampleProd, a.Values())

	c := mustFrom(t, 2, 3, exampleA)
	_, err = c.MulAssign(failingAt{Matrix: b, row: 2, col: 3})
	require.ErrorIs(t, err, errCellUnreadable)
	require.Equal(t, exampleA, c.Values())
}

func TestMulAssign_Nil(t *testing.T) {
	a := mustDense(t, 2, 2)
	_, err := a.MulAssign(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	var typedNil *matrix.Dense
	_, err = typedNil.MulAssign(a)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = a.MulAssign(typedNil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = matrix.Product(nil, a)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMulAssign_NoLeaks runs a chain then releases everything.
func TestMulAssign_NoLeaks(t *testing.T) {
	heap := backend.NewHeap(0)
	be := backend.NewNative(heap, 2)

	a := mustFrom(t, 5, 6, randValues(1, 30), matrix.WithBackend(be))
	b := mustFrom(t, 6, 6, randValues(2, 36), matrix.WithBackend(be))
	c := mustFrom(t, 6, 3, randValues(3, 18), matrix.WithBackend(be))

	for i := 0; i < 4; i++ {
		_, err := a.MulAssign(b)
		require.NoError(t, err)
		require.Equal(t, 3, heap.Stats().LiveBuffers)
	}
	_, err := a.MulAssign(c)
	require.NoError(t, err)
	require.Equal(t, 3, heap.Stats().LiveBuffers)

	for _, m := range []*matrix.Dense{a, b, c} {
		require.NoError(t, m.Release())
	}
	st := heap.Stats()
	require.Equal(t, 0, st.LiveBuffers)
	require.Zero(t, st.LiveBytes)
	require.Equal(t, st.Allocs, st.Releases)
}

// TestMulAssign_ConcurrentSharedOperand uses one B from many goroutines.
func TestMulAssign_ConcurrentSharedOperand(t *testing.T) {
	const n, workers = 16, 8
	bVals := randValues(99, n*n)
	b := mustFrom(t, n, n, bVals)

	results := make([]*matrix.Dense, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			a, err := matrix.NewDenseFrom(n, n, randValues(int64(w), n*n))
			if err != nil {
				errs[w] = err
				return
			}
			_, errs[w] = a.MulAssign(b)
			results[w] = a
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		require.NoError(t, errs[w])
		ref := naiveProduct(randValues(int64(w), n*n), bVals, n, n, n)
		for i, v := range results[w].Values() {
			require.InDelta(t, ref[i], v, productTol)
		}
	}
	require.Equal(t, bVals, b.Values())
}

func TestMulAssign_LogsCommit(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	a := mustFrom(t, 2, 3, exampleA, matrix.WithLogger(logger))
	b := mustFrom(t, 3, 4, exampleB)
	_, err := a.MulAssign(b)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "product committed")

	buf.Reset()
	_, err = a.MulAssign(b) // 2x4 * 3x4
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	require.NotContains(t, buf.String(), "product committed")
}

func TestProduct(t *testing.T) {
	a := mustFrom(t, 2, 3, exampleA)
	b := mustFrom(t, 3, 4, exampleB)

	p, err := matrix.Product(a, b)
	require.NoError(t, err)
	require.Equal(t, exampleProd, p.Values())
	require.True(t, p.Aligned())
	require.Equal(t, exampleA, a.Values())
	require.Equal(t, exampleB, b.Values())
	require.Same(t, a.Backend(), p.Backend())

	_, err = matrix.Product(b, a)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestPrepareProduct_NoEffect proves phase 1 alone never changes the receiver.
func TestPrepareProduct_NoEffect(t *testing.T) {
	heap := backend.NewHeap(0)
	be := backend.NewGonum(heap)
	a := mustFrom(t, 2, 3, exampleA, matrix.WithBackend(be))
	b := mustFrom(t, 3, 4, exampleB, matrix.WithBackend(be))

	fresh, err := matrix.PrepareProduct_TestOnly(a, b)
	require.NoError(t, err)
	require.Equal(t, exampleProd, fresh)
	require.True(t, backend.IsAligned(fresh))

	r, c := a.Shape()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	require.Equal(t, exampleA, a.Values())

	require.Equal(t, 3, heap.Stats().LiveBuffers)
	require.NoError(t, be.Free(fresh))
}

func TestMulAssign_NaNPropagates(t *testing.T) {
	a := mustFrom(t, 1, 2, []float64{math.NaN(), 1})
	b := mustFrom(t, 2, 1, []float64{1, 1})

	_, err := a.MulAssign(b)
	require.NoError(t, err)
	v, err := a.At(0, 0)
	require.NoError(t, err)
	require.True(t, math.IsNaN(v))
}
