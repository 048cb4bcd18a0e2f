// Package simd detects the vector instruction sets of the host CPU.
//
// # Supported Platforms
//
//   - x86-64: AVX-512, AVX2
//   - ARM64: NEON, SVE2
//
// Detection uses golang.org/x/sys/cpu at package init. The pair-counting
// kernels read ActiveISA to pick their block width (ISA.Lanes); every
// block width produces bit-identical results, so the choice only affects
// throughput. Set CORRFUNC_SIMD (generic, neon, sve2, avx2, avx512) to
// force a narrower implementation.
package simd
