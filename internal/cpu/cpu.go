// Package cpu reports the SIMD capabilities of the running processor.
//
// Detection runs once on first use and is cached. The result only feeds
// diagnostics and kernel sizing; correctness never depends on it.
package cpu

import "sync"

// SIMDLevel names the widest vector extension available.
type SIMDLevel int

const (
	SIMDNone SIMDLevel = iota
	SIMDSSE2
	SIMDAVX
	SIMDAVX2
	SIMDAVX512
	SIMDNEON
)

// String returns a human-readable name for the level.
func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "None"
	case SIMDSSE2:
		return "SSE2"
	case SIMDAVX:
		return "AVX"
	case SIMDAVX2:
		return "AVX2"
	case SIMDAVX512:
		return "AVX-512"
	case SIMDNEON:
		return "NEON"
	default:
		return "Unknown"
	}
}

// VectorBytes is the register width of the level in bytes (8 for scalar).
func (s SIMDLevel) VectorBytes() int {
	switch s {
	case SIMDAVX512:
		return 64
	case SIMDAVX, SIMDAVX2:
		return 32
	case SIMDSSE2, SIMDNEON:
		return 16
	default:
		return 8
	}
}

// Features describes the capabilities relevant to float64 kernels.
type Features struct {
	HasSSE2   bool
	HasAVX    bool
	HasAVX2   bool
	HasFMA    bool
	HasAVX512 bool
	HasNEON   bool

	Architecture string // runtime.GOARCH
}

// Level returns the widest extension present in f.
func (f Features) Level() SIMDLevel {
	switch {
	case f.HasAVX512:
		return SIMDAVX512
	case f.HasAVX2:
		return SIMDAVX2
	case f.HasAVX:
		return SIMDAVX
	case f.HasSSE2:
		return SIMDSSE2
	case f.HasNEON:
		return SIMDNEON
	default:
		return SIMDNone
	}
}

var (
	detected   Features
	detectOnce sync.Once
)

// DetectFeatures returns the cached features of this machine. Safe for
// concurrent use.
func DetectFeatures() Features {
	detectOnce.Do(func() {
		detected = detectFeaturesImpl()
	})

	return detected
}
