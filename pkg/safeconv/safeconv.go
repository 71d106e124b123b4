// Package safeconv provides safe integer type conversion functions that panic on overflow.
package safeconv

import "math"

// MaxInt32 is the maximum value for int32 type.
const MaxInt32 = int(math.MaxInt32)

// MaxUint32 is the maximum value for uint32 type.
const MaxUint32 = int(math.MaxUint32)

// MustIntToInt32 converts int to int32, panics on bounds violation.
// Use only when bounds violations are logically impossible.
func MustIntToInt32(v int) int32 {
	if v < math.MinInt32 || v > MaxInt32 {
		panic("safeconv: int to int32 out of bounds")
	}

	return int32(v)
}

// MustIntToUint32 converts int to uint32, panics on bounds violation.
// Use only when bounds violations are logically impossible.
func MustIntToUint32(v int) uint32 {
	if v < 0 || v > MaxUint32 {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}
