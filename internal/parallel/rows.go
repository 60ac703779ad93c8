// SPDX-License-Identifier: MIT

// Package parallel runs data-parallel work over independent row ranges.
//
// Rows are split into contiguous strips, one strip per worker at most.
// Each strip is handed to the callback exactly once; strips never overlap,
// so a callback writing only inside its own rows needs no synchronisation.
package parallel

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrWorkerPanic is returned when a strip callback panics. The panic value is
// included in the message.
var ErrWorkerPanic = errors.New("parallel: worker panicked")

// Config controls how rows are scheduled.
type Config struct {
	// Workers caps concurrent strips. <= 0 means runtime.GOMAXPROCS(0).
	Workers int

	// MinElems is the element count (rows*cols) below which the whole range
	// runs inline on the calling goroutine.
	MinElems int
}

// workers resolves the effective worker count for a row count.
func (c Config) workers(rows int) int {
	w := c.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}

	return max(1, min(w, rows))
}

// Rows calls fn over [0, rows) split into strips [lo, hi). The first error
// (or recovered panic) is returned after every started strip has finished.
// Zero rows is a no-op.
func Rows(rows, cols int, cfg Config, fn func(lo, hi int) error) error {
	if rows <= 0 {
		return nil
	}

	w := cfg.workers(rows)
	if w == 1 || rows*max(cols, 1) < cfg.MinElems {
		return guard(0, rows, fn)
	}

	strip := (rows + w - 1) / w
	var g errgroup.Group
	g.SetLimit(w)
	for lo := 0; lo < rows; lo += strip {
		hi := min(lo+strip, rows)
		g.Go(func() error { return guard(lo, hi, fn) })
	}

	return g.Wait()
}

// guard runs one strip and converts a panic into ErrWorkerPanic.
func guard(lo, hi int, fn func(lo, hi int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rows [%d,%d): %v: %w", lo, hi, r, ErrWorkerPanic)
		}
	}()

	return fn(lo, hi)
}
