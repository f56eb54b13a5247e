// Package num implements various utility functions regarding numeric types.
package num

import (
	"math/bits"
)

// CheckedAdd returns x + y, and false if the addition overflows.
func CheckedAdd(x, y uint64) (uint64, bool) {
	s, c := bits.Add64(x, y, 0)
	return s, c == 0
}

// CheckedSub returns x - y, and false if the subtraction underflows.
func CheckedSub(x, y uint64) (uint64, bool) {
	d, b := bits.Sub64(x, y, 0)
	return d, b == 0
}

// CheckedMul returns x * y, and false if the multiplication overflows.
func CheckedMul(x, y uint64) (uint64, bool) {
	hi, lo := bits.Mul64(x, y)
	return lo, hi == 0
}

// CheckedMulAll returns the product of xs, and false if any step overflows.
func CheckedMulAll(xs ...uint64) (uint64, bool) {
	r := uint64(1)
	for _, x := range xs {
		var ok bool
		if r, ok = CheckedMul(r, x); !ok {
			return 0, false
		}
	}
	return r, true
}

// SignedWidth returns the width of a two's complement integer
// that holds every value in [-B, B].
// This is floor(log2(B)) + 2: the magnitude bits plus the sign bit.
// Zero bound has zero width.
func SignedWidth(B uint64) uint64 {
	if B == 0 {
		return 0
	}
	return uint64(bits.Len64(B)) + 1
}

// NextPowerOfTwo returns the smallest power of two not less than x.
func NextPowerOfTwo(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x-1))
}

// BitReverseInPlace reorders v into bit-reversal order in-place.
func BitReverseInPlace[T any](v []T) {
	var bit, j int
	for i := 1; i < len(v); i++ {
		bit = len(v) >> 1
		for j >= bit {
			j -= bit
			bit >>= 1
		}
		j += bit
		if i < j {
			v[i], v[j] = v[j], v[i]
		}
	}
}
