// Package plan orchestrates a separable 3-D FFT over a padded volume:
// a real-to-complex transform along the first axis composed with two
// complex-to-complex transforms along the remaining axes, built on
// gonum's dsp/fourier one-dimensional plans.
package plan

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/go-qsm/qsmcore/internal/parallel"
)

// Orchestrator holds the three per-axis 1-D plans for one padded
// shape and composes them into a forward/inverse 3-D transform. It is
// scoped to a single solve and is not safe for concurrent Forward or
// Inverse calls against the same instance.
type Orchestrator struct {
	shape [3]int // Mx, My, Mz

	useReal   bool
	half      int // Mx/2+1 when useReal, else Mx
	fftXReal  *fourier.FFT
	fftXCmplx *fourier.CmplxFFT
	fftY      *fourier.CmplxFFT
	fftZ      *fourier.CmplxFFT

	pool *parallel.Pool
}

// SetPool assigns the worker pool that Forward and Inverse spread their
// per-axis line transforms across, realizing C8's "set the back-end's
// thread count to the configured worker pool size at plan creation".
// gonum's fourier plans have no thread-count knob of their own, so the
// orchestrator threads at the line level instead: each (j,k) or (i,k)
// line is an independent 1-D transform, the same granularity the rest
// of the core's parallel-for primitives scan at. A nil pool (the
// default) runs every line on the calling goroutine.
func (o *Orchestrator) SetPool(p *parallel.Pool) { o.pool = p }

// NewOrchestrator builds the per-axis plans for shape (Mx, My, Mz).
// When Mx is even it uses a real-to-complex transform on the first
// axis, producing the half-complex layout (Mx/2+1, My, Mz); when Mx is
// odd (a caller requested an FFT shape outside the normal fftsize
// rounding) it degrades to a full complex transform on that axis and
// logs a single fallback notice, since gonum's real-FFT type requires
// an even length.
func NewOrchestrator(shape [3]int) (*Orchestrator, error) {
	for i, m := range shape {
		if m < 1 {
			return nil, fmt.Errorf("plan: non-positive FFT shape axis %d: %d", i, m)
		}
	}

	o := &Orchestrator{shape: shape}
	mx, my, mz := shape[0], shape[1], shape[2]

	if mx%2 == 0 {
		o.useReal = true
		o.half = mx/2 + 1
		o.fftXReal = fourier.NewFFT(mx)
	} else {
		log.Printf("plan: real FFT disabled for shape %v: first axis %d is odd, falling back to complex transform", shape, mx)
		o.useReal = false
		o.half = mx
		o.fftXCmplx = fourier.NewCmplxFFT(mx)
	}
	o.fftY = fourier.NewCmplxFFT(my)
	o.fftZ = fourier.NewCmplxFFT(mz)

	return o, nil
}

// HalfShape returns the spectral shape produced by Forward: the
// half-complex shape (Mx/2+1, My, Mz) on the real-FFT path, or the
// full FFT shape (Mx, My, Mz) on the degraded complex path.
func (o *Orchestrator) HalfShape() [3]int {
	return [3]int{o.half, o.shape[1], o.shape[2]}
}

// UsesRealTransform reports whether the first axis is transformed by
// a real-to-complex plan (true) or has degraded to full complex.
func (o *Orchestrator) UsesRealTransform() bool { return o.useReal }

// Forward transforms real (length Mx*My*Mz, row-major) into a freshly
// allocated spectrum of length half*My*Mz (row-major over HalfShape).
func (o *Orchestrator) Forward(src []float64) []complex128 {
	mx, my, mz := o.shape[0], o.shape[1], o.shape[2]
	half := o.half
	spectrum := make([]complex128, half*my*mz)

	// Axis X: one line per (j, k), stride my*mz. Lines are independent,
	// so this loop is spread across o.pool when set. gonum's FFT/CmplxFFT
	// plans carry internal scratch state and are not safe to share across
	// goroutines, so each chunk builds its own plan rather than reusing
	// o.fftXReal/o.fftXCmplx.
	o.forEachLine(my*mz, func(lo, hi int) {
		lineIn := make([]float64, mx)
		lineOutR := make([]complex128, half)
		fftXReal, fftXCmplx := o.fftXReal, o.fftXCmplx
		if o.pool != nil {
			// Running inside a worker chunk: o.fftXReal/fftXCmplx are
			// shared mutable scratch state across every chunk, so each
			// chunk gets its own plan instead.
			if o.useReal {
				fftXReal = fourier.NewFFT(mx)
			} else {
				fftXCmplx = fourier.NewCmplxFFT(mx)
			}
		}
		var cline []complex128
		if !o.useReal {
			cline = make([]complex128, mx)
		}
		for idx := lo; idx < hi; idx++ {
			j, k := idx/mz, idx%mz
			for i := 0; i < mx; i++ {
				lineIn[i] = src[(i*my+j)*mz+k]
			}
			if o.useReal {
				fftXReal.Coefficients(lineOutR, lineIn)
				for i := 0; i < half; i++ {
					spectrum[(i*my+j)*mz+k] = lineOutR[i]
				}
			} else {
				for i := 0; i < mx; i++ {
					cline[i] = complex(lineIn[i], 0)
				}
				fftXCmplx.Coefficients(cline, cline)
				for i := 0; i < mx; i++ {
					spectrum[(i*my+j)*mz+k] = cline[i]
				}
			}
		}
	})

	// Axis Y: one line per (i, k), stride mz, within the spectrum buffer.
	o.forEachLine(half*mz, func(lo, hi int) {
		fftY := o.fftY
		if o.pool != nil {
			fftY = fourier.NewCmplxFFT(my)
		}
		lineY := make([]complex128, my)
		for idx := lo; idx < hi; idx++ {
			i, k := idx/mz, idx%mz
			base := i * my * mz
			for j := 0; j < my; j++ {
				lineY[j] = spectrum[base+j*mz+k]
			}
			fftY.Coefficients(lineY, lineY)
			for j := 0; j < my; j++ {
				spectrum[base+j*mz+k] = lineY[j]
			}
		}
	})

	// Axis Z: contiguous, transform in place.
	o.forEachLine(half*my, func(lo, hi int) {
		fftZ := o.fftZ
		if o.pool != nil {
			fftZ = fourier.NewCmplxFFT(mz)
		}
		for idx := lo; idx < hi; idx++ {
			i, j := idx/my, idx%my
			base := (i*my + j) * mz
			line := spectrum[base : base+mz]
			fftZ.Coefficients(line, line)
		}
	})

	return spectrum
}

// forEachLine splits [0, n) line indices across o.pool (serially on the
// calling goroutine when o.pool is nil) and runs fn over each chunk.
// Worker faults are not expected from gonum's plans, so errors are
// discarded rather than threaded back through Forward/Inverse's
// non-error signatures.
func (o *Orchestrator) forEachLine(n int, fn func(lo, hi int)) {
	if o.pool == nil {
		fn(0, n)
		return
	}
	_ = o.pool.For(n, func(lo, hi int) error {
		fn(lo, hi)
		return nil
	})
}

// Inverse transforms spectrum (as produced by Forward, length
// half*My*Mz) back into dst (length Mx*My*Mz, row-major, caller
// allocated), applying the manual 1/N normalization gonum's transforms
// do not apply on their own.
func (o *Orchestrator) Inverse(dst []float64, spectrum []complex128) {
	mx, my, mz := o.shape[0], o.shape[1], o.shape[2]
	half := o.half

	work := make([]complex128, len(spectrum))
	copy(work, spectrum)

	// Axis Z: contiguous, in place.
	o.forEachLine(half*my, func(lo, hi int) {
		fftZ := o.fftZ
		if o.pool != nil {
			fftZ = fourier.NewCmplxFFT(mz)
		}
		for idx := lo; idx < hi; idx++ {
			i, j := idx/my, idx%my
			base := (i*my + j) * mz
			line := work[base : base+mz]
			fftZ.Sequence(line, line)
		}
	})

	// Axis Y: strided.
	o.forEachLine(half*mz, func(lo, hi int) {
		fftY := o.fftY
		if o.pool != nil {
			fftY = fourier.NewCmplxFFT(my)
		}
		lineY := make([]complex128, my)
		for idx := lo; idx < hi; idx++ {
			i, k := idx/mz, idx%mz
			base := i * my * mz
			for j := 0; j < my; j++ {
				lineY[j] = work[base+j*mz+k]
			}
			fftY.Sequence(lineY, lineY)
			for j := 0; j < my; j++ {
				work[base+j*mz+k] = lineY[j]
			}
		}
	})

	// Axis X: strided, real or complex inverse.
	scale := float64(mx) * float64(my) * float64(mz)
	if o.useReal {
		o.forEachLine(my*mz, func(lo, hi int) {
			fftXReal := o.fftXReal
			if o.pool != nil {
				fftXReal = fourier.NewFFT(mx)
			}
			lineSpec := make([]complex128, half)
			lineOut := make([]float64, mx)
			for idx := lo; idx < hi; idx++ {
				j, k := idx/mz, idx%mz
				for i := 0; i < half; i++ {
					lineSpec[i] = work[(i*my+j)*mz+k]
				}
				fftXReal.Sequence(lineOut, lineSpec)
				for i := 0; i < mx; i++ {
					dst[(i*my+j)*mz+k] = lineOut[i] / scale
				}
			}
		})
		return
	}

	o.forEachLine(my*mz, func(lo, hi int) {
		fftXCmplx := o.fftXCmplx
		if o.pool != nil {
			fftXCmplx = fourier.NewCmplxFFT(mx)
		}
		cline := make([]complex128, mx)
		for idx := lo; idx < hi; idx++ {
			j, k := idx/mz, idx%mz
			for i := 0; i < mx; i++ {
				cline[i] = work[(i*my+j)*mz+k]
			}
			fftXCmplx.Sequence(cline, cline)
			for i := 0; i < mx; i++ {
				dst[(i*my+j)*mz+k] = real(cline[i]) / scale
			}
		}
	})
}
