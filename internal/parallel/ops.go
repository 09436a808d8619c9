package parallel

// FillBool sets every element of y to v, using the pool when len(y) is
// large enough to be worth splitting. Used to reset mask.Erode's
// ping-pong buffer to false before each iteration's stencil pass. The
// error returned is p.For's: a worker panic recovered as *PanicError
// propagates to the caller rather than being swallowed, preserving the
// "single fatal failure" contract pool.go's For promises.
func FillBool(p *Pool, y []bool, v bool) error {
	return p.For(len(y), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			y[i] = v
		}
		return nil
	})
}

// MulReal multiplies dst[i] *= src[i] elementwise in parallel, the
// pointwise real multiply used to apply the padded mask after the
// inverse transform (§4.7 step 6): src holds 1 where the padded mask
// is true and 0 elsewhere. Returns p.For's error rather than
// discarding it.
func MulReal(p *Pool, dst, src []float64) error {
	return p.For(len(dst), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			dst[i] *= src[i]
		}
		return nil
	})
}

// MulComplex multiplies dst[i] *= src[i] elementwise in parallel, the
// pointwise spectral multiply used to apply the inverse kernel.
// Returns p.For's error rather than discarding it.
func MulComplex(p *Pool, dst, src []complex128) error {
	return p.For(len(dst), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			dst[i] *= src[i]
		}
		return nil
	})
}
