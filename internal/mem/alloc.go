// Package mem provides memory allocation utilities.
package mem

import (
	"unsafe"
)

// Alignment is the byte alignment required for AVX-512 (64 bytes).
const Alignment = 64

// Scalar is a pointer-free numeric element that may live in aligned byte storage.
type Scalar interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint32 | ~uint64
}

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// Allocate size + alignment to ensure we can find an aligned offset
	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// Alloc allocates n elements of T starting on a 64-byte boundary.
// Elements are zeroed.
func Alloc[T Scalar](n int) []T {
	if n <= 0 {
		return nil
	}

	var zero T
	byteSlice := AllocAligned(n * int(unsafe.Sizeof(zero)))

	// AllocAligned guarantees 64-byte alignment, which satisfies every Scalar.
	ptr := unsafe.Pointer(&byteSlice[0]) //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*T)(ptr), n)    //nolint:gosec // unsafe is required for memory alignment
}

// SizeOf returns the number of bytes Alloc reserves for n elements of T.
func SizeOf[T Scalar](n int) int64 {
	if n <= 0 {
		return 0
	}
	var zero T
	return int64(n)*int64(unsafe.Sizeof(zero)) + Alignment
}
