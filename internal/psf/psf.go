// Package psf converts a small spatial point-spread function into an
// optical transfer function on a larger FFT grid: zero-pad, circular
// center-shift, forward transform, and an imaginary-noise cleanup
// test for the real-valued case.
package psf

import (
	"fmt"
	"math"

	"github.com/go-qsm/qsmcore/internal/plan"
)

// ShapeMismatchError reports a PSF larger than the target FFT shape.
type ShapeMismatchError struct {
	PSF, Out [3]int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("psf: psf shape %v exceeds out_shape %v", e.PSF, e.Out)
}

// ToOTF zero-pads k (shape kShape) into a buffer of shape outShape,
// circular-shifts it so the PSF's conceptual center (floor(Si/2) along
// each axis) lands at index 0, and applies o's forward transform. o
// must already be built for outShape.
func ToOTF(o *plan.Orchestrator, k []float64, kShape, outShape [3]int) ([]complex128, error) {
	for i := 0; i < 3; i++ {
		if kShape[i] > outShape[i] {
			return nil, &ShapeMismatchError{PSF: kShape, Out: outShape}
		}
	}

	buf := make([]float64, outShape[0]*outShape[1]*outShape[2])
	shx, shy, shz := kShape[0]/2, kShape[1]/2, kShape[2]/2
	mx, my, mz := outShape[0], outShape[1], outShape[2]

	for p := 0; p < kShape[0]; p++ {
		di := ((p-shx)%mx + mx) % mx
		for q := 0; q < kShape[1]; q++ {
			dj := ((q-shy)%my + my) % my
			for r := 0; r < kShape[2]; r++ {
				dk := ((r-shz)%mz + mz) % mz
				buf[(di*my+dj)*mz+dk] = k[(p*kShape[1]+q)*kShape[2]+r]
			}
		}
	}

	return o.Forward(buf), nil
}

// epsilon64 is the float64 machine epsilon used by the imaginary-noise
// suppression test.
const epsilon64 = 2.220446049250313e-16

// MaybeReal applies the documented (intentionally preserved) tolerance
// test max|Im(K)| <= (N * sum(log2 Mi)) * eps * max|K|^2 and, when it
// passes, returns the real parts of spectrum as a fresh []float64
// along with true. When the test fails it returns (nil, false) and the
// caller keeps using the complex spectrum.
//
// The test mixes a magnitude bound (max|Im|) against a squared-magnitude
// scale (max|K|^2); this asymmetry is carried over from the reference
// formula rather than corrected.
func MaybeReal(spectrum []complex128, outShape [3]int) ([]float64, bool) {
	n := len(spectrum)
	if n == 0 {
		return nil, true
	}

	var maxIm, maxAbs float64
	for _, c := range spectrum {
		if im := math.Abs(imag(c)); im > maxIm {
			maxIm = im
		}
		if a := cabs(c); a > maxAbs {
			maxAbs = a
		}
	}

	sumLog2 := 0.0
	for _, m := range outShape {
		if m > 0 {
			sumLog2 += math.Log2(float64(m))
		}
	}

	tol := float64(n) * sumLog2 * epsilon64 * (maxAbs * maxAbs)
	if maxIm > tol {
		return nil, false
	}

	out := make([]float64, n)
	for i, c := range spectrum {
		out[i] = real(c)
	}
	return out, true
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// Result bundles a transformed OTF with the outcome of the MaybeReal
// test, so callers (the kernel builders) don't each re-run it.
type Result struct {
	Shape   [3]int
	Complex []complex128
	Real    []float64 // populated only when IsReal
	IsReal  bool
}

// MagnitudeSquared returns |value|^2 at every grid point, real
// regardless of whether the underlying OTF collapsed to real.
func (r *Result) MagnitudeSquared() []float64 {
	out := make([]float64, len(r.Complex))
	for i, c := range r.Complex {
		out[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	return out
}

// ToOTFResult runs ToOTF followed by MaybeReal and returns both
// outcomes bundled together.
func ToOTFResult(o *plan.Orchestrator, k []float64, kShape, outShape [3]int) (*Result, error) {
	spec, err := ToOTF(o, k, kShape, outShape)
	if err != nil {
		return nil, err
	}
	realPart, isReal := MaybeReal(spec, outShape)
	return &Result{
		Shape:   o.HalfShape(),
		Complex: spec,
		Real:    realPart,
		IsReal:  isReal,
	}, nil
}
