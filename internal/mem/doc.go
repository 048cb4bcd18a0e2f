// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte aligned allocation for the cell-major coordinate arrays
// of the spatial grid, so the blocked pair kernels start every cell on a
// cache-line boundary.
package mem
