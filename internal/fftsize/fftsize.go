// Package fftsize rounds requested array dimensions up to sizes whose
// prime factorization is smooth over {2,3,5,7}, the sizes a separable
// FFT back-end transforms fastest, with an even-first-axis preference
// for the real-to-complex path.
package fftsize

// maxRetries bounds the even-axis search before nextEvenFast forces an
// even size by adding one and re-rounding.
const maxRetries = 3

// Fast reports whether n factors completely over {2,3,5,7}.
func Fast(n int) bool {
	if n <= 0 {
		return false
	}
	for _, f := range [...]int{2, 3, 5, 7} {
		for n%f == 0 {
			n /= f
		}
	}
	return n == 1
}

// nextFast returns the smallest integer >= n that is Fast.
func nextFast(n int) int {
	if n < 1 {
		n = 1
	}
	for !Fast(n) {
		n++
	}
	return n
}

// Sizes computes fastfftsize(sz, ksz, rfft): the smallest fast-factor
// size >= sz[i] + max(ksz[i],1) - 1 for every axis, with ksz[i] < 0
// passed through unchanged. When rfft is true and at least one axis
// was padded (ksz[i] >= 0 for some i), the first such axis is further
// rounded up to the next even fast size.
//
// If every ksz[i] < 0, Sizes returns sz unchanged (a fresh copy).
func Sizes(sz, ksz []int, rfft bool) []int {
	out := make([]int, len(sz))
	copy(out, sz)

	anyPadded := false
	firstPadded := -1
	for i := range sz {
		if i >= len(ksz) || ksz[i] < 0 {
			continue
		}
		anyPadded = true
		if firstPadded < 0 {
			firstPadded = i
		}
		k := ksz[i]
		if k < 1 {
			k = 1
		}
		out[i] = nextFast(sz[i] + k - 1)
	}

	if !anyPadded {
		return out
	}

	if rfft && firstPadded >= 0 {
		out[firstPadded] = nextEvenFast(out[firstPadded])
	}

	return out
}

// nextEvenFast rounds n up to the next Fast size that is also even,
// retrying a bounded number of increments before forcing evenness by
// adding one and re-rounding.
func nextEvenFast(n int) int {
	c := n
	for i := 0; i < maxRetries; i++ {
		if c%2 == 0 {
			return c
		}
		c = nextFast(c + 1)
	}
	for c%2 != 0 {
		c = nextFast(c + 1)
	}
	return c
}
