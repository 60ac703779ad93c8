// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"

	"github.com/katalvlaran/densela/internal/aligned"
	"gonum.org/v1/gonum/blas"
)

// Alignment is the byte boundary of every buffer handed out by a Heap.
// 64 bytes covers one AVX-512 register and one cache line.
const Alignment = 64

// Allocator hands out aligned, zeroed float64 buffers.
type Allocator interface {
	// Alloc returns a zeroed buffer with len == cap == n. n == 0 yields an
	// empty non-nil slice. Failure is reported as ErrAllocation.
	Alloc(n int) ([]float64, error)

	// Free returns a buffer obtained from Alloc. Freeing the same buffer twice
	// is an error.
	Free(buf []float64) error
}

// Backend is the full contract: allocation plus a row-major GEMM.
type Backend interface {
	Allocator

	// Name identifies the implementation for logs and diagnostics.
	Name() string

	// Gemm computes C = alpha·op(A)·op(B) + beta·C, row-major, where op(A) is
	// m×k, op(B) is k×n and C is m×n. When beta == 0 the prior contents of C
	// are not read. a and b are never written.
	Gemm(tA, tB blas.Transpose, m, n, k int,
		alpha float64, a []float64, lda int,
		b []float64, ldb int,
		beta float64, c []float64, ldc int) error
}

// HeapStats is the accounting snapshot of a Heap.
type HeapStats = aligned.Stats

// Heap is the Allocator shared by the shipped backends. It is safe for
// concurrent use.
type Heap struct {
	a *aligned.Allocator
}

// NewHeap returns a Heap aligned to Alignment. limitBytes > 0 caps the total
// payload bytes of live buffers; further requests fail with ErrAllocation.
func NewHeap(limitBytes int64) *Heap {
	return &Heap{a: aligned.New(Alignment, limitBytes)}
}

// Alloc implements Allocator.
func (h *Heap) Alloc(n int) ([]float64, error) {
	buf, err := h.a.Get(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}

	return buf, nil
}

// Free implements Allocator.
func (h *Heap) Free(buf []float64) error {
	if err := h.a.Release(buf); err != nil {
		return fmt.Errorf("backend: free: %w", err)
	}

	return nil
}

// Stats reports live buffers and bytes.
func (h *Heap) Stats() HeapStats { return h.a.Stats() }

// IsAligned reports whether buf starts on the Alignment boundary.
func IsAligned(buf []float64) bool { return aligned.IsAligned(buf, Alignment) }

// DefaultHeap is the process-wide uncapped Heap used by Default.
var DefaultHeap = NewHeap(0)

var defaultBackend Backend = NewGonum(DefaultHeap)

// Default returns the Gonum backend on DefaultHeap.
func Default() Backend { return defaultBackend }

// Names lists the identifiers accepted by ByName.
var Names = []string{"gonum", "native"}

// ByName builds a backend on h by identifier. workers is only used by
// "native" (<= 0 means GOMAXPROCS).
func ByName(name string, h *Heap, workers int) (Backend, error) {
	switch name {
	case "gonum":
		return NewGonum(h), nil
	case "native":
		return NewNative(h, workers), nil
	default:
		return nil, fmt.Errorf("ByName(%q): %w", name, ErrUnknownBackend)
	}
}
