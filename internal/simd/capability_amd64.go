//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// AVX2 counts only with FMA, matching the 4-lane blocked pair loop;
// AVX-512F selects 8 lanes.
func init() {
	hasAVX2 = cpu.X86.HasAVX2 && cpu.X86.HasFMA
	hasAVX512F = cpu.X86.HasAVX512F
	initCapabilities()
}
