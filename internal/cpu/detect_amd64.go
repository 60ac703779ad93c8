//go:build amd64

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl reads CPUID through golang.org/x/sys/cpu.
// SSE2 is part of the x86-64 baseline.
func detectFeaturesImpl() Features {
	return Features{
		HasSSE2:      cpu.X86.HasSSE2,
		HasAVX:       cpu.X86.HasAVX,
		HasAVX2:      cpu.X86.HasAVX2,
		HasFMA:       cpu.X86.HasFMA,
		HasAVX512:    cpu.X86.HasAVX512F,
		Architecture: runtime.GOARCH,
	}
}
