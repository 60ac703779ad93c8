// SPDX-License-Identifier: MIT

// Package aligned hands out float64 buffers whose first element sits on a
// fixed power-of-two byte boundary and keeps an account of every buffer it
// has handed out.
//
// Purpose:
//   - Provide SIMD-friendly storage (start address multiple of the boundary).
//   - Detect a buffer released twice, or released by someone who never got it.
//   - Enforce an optional cap on live bytes so that allocation failure is a
//     reachable, testable path instead of a runtime crash.
//
// Notes:
//   - Memory itself is owned by the Go heap. Release drops the accounting
//     entry; the garbage collector reclaims the bytes once nothing refers to them.
package aligned

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"unsafe"
)

// elemSize is the byte width of one float64.
const elemSize = int(unsafe.Sizeof(float64(0)))

// Sentinel errors. Callers outside this package wrap them into their own
// taxonomy; errors.Is keeps working through the wrap.
var (
	// ErrNegativeLength is returned when a negative element count is requested.
	ErrNegativeLength = errors.New("aligned: negative length")

	// ErrTooLarge is returned when the byte count overflows int.
	ErrTooLarge = errors.New("aligned: request too large")

	// ErrLimitExceeded is returned when the request would push live bytes past the cap.
	ErrLimitExceeded = errors.New("aligned: live byte limit exceeded")

	// ErrUnknownBuffer is returned by Release for a buffer that is not live
	// (never handed out by this Allocator, or already released).
	ErrUnknownBuffer = errors.New("aligned: buffer is not live")
)

const panicBadAlignment = "aligned: alignment must be a power of two >= 8"

// Stats is a point-in-time snapshot of an Allocator's accounting.
type Stats struct {
	LiveBuffers int   // buffers handed out and not yet released
	LiveBytes   int64 // payload bytes of live buffers (padding excluded)
	Allocs      uint64
	Releases    uint64
}

// Allocator is safe for concurrent use.
type Allocator struct {
	alignment int
	limit     int64 // max live payload bytes; 0 means unlimited

	mu        sync.Mutex
	live      map[*float64]int // first element -> length
	liveBytes int64
	allocs    uint64
	releases  uint64
}

// New returns an Allocator for the given boundary (bytes) and live byte cap.
// A limit <= 0 disables the cap. It panics when alignment is not a power of
// two of at least one element, which is a programmer error.
func New(alignment int, limit int64) *Allocator {
	if alignment < elemSize || alignment&(alignment-1) != 0 {
		panic(panicBadAlignment)
	}
	if limit < 0 {
		limit = 0
	}

	return &Allocator{
		alignment: alignment,
		limit:     limit,
		live:      make(map[*float64]int),
	}
}

// Alignment reports the byte boundary of buffers returned by Get.
func (a *Allocator) Alignment() int { return a.alignment }

// Get returns a zeroed buffer of exactly n elements (len == cap == n) whose
// first element is aligned. n == 0 yields an empty, untracked, non-nil slice.
func (a *Allocator) Get(n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("Get(%d): %w", n, ErrNegativeLength)
	}
	if n == 0 {
		return []float64{}, nil
	}

	pad := a.alignment / elemSize // worst-case shift in elements
	if n > math.MaxInt/elemSize-pad {
		return nil, fmt.Errorf("Get(%d): %w", n, ErrTooLarge)
	}
	bytes := int64(n) * int64(elemSize)

	// Reserve accounting first so concurrent callers cannot jointly overshoot the cap.
	a.mu.Lock()
	if a.limit > 0 && a.liveBytes+bytes > a.limit {
		a.mu.Unlock()
		return nil, fmt.Errorf("Get(%d): %d live + %d requested > %d: %w",
			n, a.liveBytes, bytes, a.limit, ErrLimitExceeded)
	}
	a.liveBytes += bytes
	a.mu.Unlock()

	raw := make([]float64, n+pad)
	off := offsetFor(raw, a.alignment)
	buf := raw[off : off+n : off+n]

	a.mu.Lock()
	a.live[&buf[0]] = n
	a.allocs++
	a.mu.Unlock()

	return buf, nil
}

// Release drops buf from the live set. Empty buffers are accepted and ignored.
// A buffer must be released with the same first element and length it was
// handed out with; anything else reports ErrUnknownBuffer and changes nothing.
func (a *Allocator) Release(buf []float64) error {
	if len(buf) == 0 {
		return nil
	}

	key := &buf[0]
	a.mu.Lock()
	defer a.mu.Unlock()

	n, ok := a.live[key]
	if !ok || n != len(buf) {
		return fmt.Errorf("Release(len=%d): %w", len(buf), ErrUnknownBuffer)
	}
	delete(a.live, key)
	a.liveBytes -= int64(n) * int64(elemSize)
	a.releases++

	return nil
}

// Stats returns the current accounting snapshot.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Stats{
		LiveBuffers: len(a.live),
		LiveBytes:   a.liveBytes,
		Allocs:      a.allocs,
		Releases:    a.releases,
	}
}

// IsAligned reports whether buf's first element sits on the boundary.
// Empty buffers are trivially aligned.
func IsAligned(buf []float64, alignment int) bool {
	if len(buf) == 0 {
		return true
	}

	return uintptr(unsafe.Pointer(&buf[0]))%uintptr(alignment) == 0
}

// offsetFor returns the element shift that moves raw's start onto the boundary.
// The Go heap keeps float64 slices 8-byte aligned, so the shift is whole elements.
func offsetFor(raw []float64, alignment int) int {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	mis := addr % uintptr(alignment)
	if mis == 0 {
		return 0
	}

	return int(uintptr(alignment)-mis) / elemSize
}
