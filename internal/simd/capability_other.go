//go:build !amd64 && !arm64

package simd

// No feature probing: only Generic is available, so pair counting runs the
// scalar loop unless CORRFUNC_SIMD names an ISA (which is then ignored).
func init() {
	initCapabilities()
}
