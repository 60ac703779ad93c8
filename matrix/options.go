// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for Dense construction.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global mutable state besides backend.DefaultHeap.
//   - No dead switches: each option impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//
// Notes:
//   - Options are captured by each Dense at construction. Results derived from
//     a Dense (Clone, Product) inherit the options of the left operand.
//   - The backend is both the allocator and the GEMM provider of a Dense;
//     operands of one operation may come from different backends, only the
//     receiver's backend is used.
package matrix

import (
	"github.com/katalvlaran/densela/backend"
	"github.com/katalvlaran/densela/internal/parallel"
	"github.com/rs/zerolog"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultWorkers is the row-parallel worker cap; 0 means GOMAXPROCS.
	DefaultWorkers = 0

	// DefaultMinParallelElems is the element count below which row loops
	// (construction copy, AddAssign) run on the calling goroutine.
	DefaultMinParallelElems = 1 << 14

	// DefaultValidateNaNInf toggles finite-only validation in Set and
	// NewDenseFrom. Off: the backend's floating-point semantics are taken as given.
	DefaultValidateNaNInf = false
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicNilBackend       = "matrix: WithBackend: backend must not be nil"
	panicNegativeWorkers  = "matrix: WithWorkers: workers must be >= 0"
	panicNegativeMinElems = "matrix: WithMinParallelElems: threshold must be >= 0"
)

// ---------- Public option type (functional) ----------

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	backend        backend.Backend // allocator + GEMM; backend.Default()
	workers        int             // DefaultWorkers
	minParallel    int             // DefaultMinParallelElems
	validateNaNInf bool            // DefaultValidateNaNInf
	logger         zerolog.Logger  // zerolog.Nop()
}

// ---------- Constructors (WithX) ----------

// WithBackend selects the backend used to allocate buffers and run GEMM.
//
// Errors:
//   - Panics when be is nil.
//
// AI-Hints:
//   - Use backend.NewHeap(limit) with backend.NewGonum/NewNative to cap memory.
func WithBackend(be backend.Backend) Option {
	if be == nil {
		panic(panicNilBackend)
	}

	return func(o *Options) { o.backend = be }
}

// WithWorkers caps the goroutines used by row-parallel loops (0 = GOMAXPROCS,
// 1 = always sequential). GEMM parallelism is the backend's business.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicNegativeWorkers)
	}

	return func(o *Options) { o.workers = n }
}

// WithMinParallelElems sets the element count under which row loops stay on
// the calling goroutine. 0 parallelises every non-empty matrix.
func WithMinParallelElems(n int) Option {
	if n < 0 {
		panic(panicNegativeMinElems)
	}

	return func(o *Options) { o.minParallel = n }
}

// WithValidateNaNInf rejects NaN and ±Inf in Set and NewDenseFrom with ErrNaNInf.
// Arithmetic results (AddAssign, MulAssign) are not re-validated.
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables NaN/Inf validation (default).
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithLogger attaches a zerolog logger. Dense logs at debug level on product
// commits and failures, and at error level when the allocator rejects a release.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// gatherOptions applies user-provided Option setters on top of defaults.
// Implementation:
//   - Stage 1: start from defaults.
//   - Stage 2: apply setters in order (last-writer-wins).
//
// Complexity:
//   - Time O(k), Space O(1) for k=len(user).
func gatherOptions(user ...Option) Options {
	o := Options{
		backend:        backend.Default(),
		workers:        DefaultWorkers,
		minParallel:    DefaultMinParallelElems,
		validateNaNInf: DefaultValidateNaNInf,
		logger:         zerolog.Nop(),
	}
	for _, set := range user {
		set(&o) // apply in order; last-writer-wins semantics
	}

	return o
}

// rows converts the options into a row scheduler configuration.
func (o Options) rows() parallel.Config {
	return parallel.Config{Workers: o.workers, MinElems: o.minParallel}
}
