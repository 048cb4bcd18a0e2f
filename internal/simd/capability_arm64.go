//go:build arm64

package simd

import "golang.org/x/sys/cpu"

// NEON gives the blocked pair loop 2 float64 lanes, SVE2 at least 4.
// CORRFUNC_SIMD may force either, or "generic" for the scalar loop.
func init() {
	hasASIMD = cpu.ARM64.HasASIMD
	hasSVE2 = cpu.ARM64.HasSVE2
	initCapabilities()
}
