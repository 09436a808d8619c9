// Package solver assembles the direct (non-iterative) deconvolution
// methods — truncated k-division, truncated SVD, and three-flavor
// Tikhonov — into one shared pipeline: pad, transform, divide by an
// inverse dipole kernel, transform back, mask, unpad, repeat per echo.
package solver

import (
	"fmt"
	"math"

	"github.com/go-qsm/qsmcore/internal/fftsize"
	"github.com/go-qsm/qsmcore/internal/kernel"
	"github.com/go-qsm/qsmcore/internal/pad"
	"github.com/go-qsm/qsmcore/internal/parallel"
	"github.com/go-qsm/qsmcore/internal/plan"
)

// Method selects which direct inverse the pipeline assembles.
type Method int

const (
	TKD Method = iota
	TSVD
	Tikhonov
)

func (m Method) String() string {
	switch m {
	case TKD:
		return "tkd"
	case TSVD:
		return "tsvd"
	case Tikhonov:
		return "tikh"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Reg selects the Tikhonov regularizer.
type Reg int

const (
	RegIdentity Reg = iota
	RegGradient
	RegLaplacian
)

func (r Reg) String() string {
	switch r {
	case RegIdentity:
		return "identity"
	case RegGradient:
		return "gradient"
	case RegLaplacian:
		return "laplacian"
	default:
		return fmt.Sprintf("Reg(%d)", int(r))
	}
}

// Dipole selects which form the dipole kernel is synthesized in.
type Dipole int

const (
	DipoleKSpace Dipole = iota
	DipoleISpace
)

func (d Dipole) String() string {
	switch d {
	case DipoleKSpace:
		return "k"
	case DipoleISpace:
		return "i"
	default:
		return fmt.Sprintf("Dipole(%d)", int(d))
	}
}

// Params bundles the pipeline knobs beyond the field/mask/voxel-size
// triad, already reduced to validated primitives by the caller
// (package qsmcore performs the C9 shape/enum validation before
// building one of these).
type Params struct {
	Method Method
	Dipole Dipole
	Bdir   [3]float64
	Pad    [3]int // per-axis ksz fed to fftsize.Sizes; <0 means "none"
	Thr    float64
	Lambda float64
	Reg    Reg
}

// strength returns the single regularization/threshold scalar that
// feeds inverse-kernel assembly: Thr for TKD/TSVD, Lambda for
// Tikhonov.
func (p Params) strength() float64 {
	if p.Method == Tikhonov {
		return p.Lambda
	}
	return p.Thr
}

// Solve runs the kdiv pipeline over a field of shape fieldShape with
// echoCount echoes (echoCount < 1 is treated as a single rank-3
// volume), writing a susceptibility volume of the same extents. mask
// is a rank-3 boolean volume matching fieldShape, field and the
// returned volume are echo-major: echo t occupies
// field[t*volN:(t+1)*volN] where volN = product(fieldShape). pool
// drives the padding/masking parallel-for calls (§4.1's C1 primitives)
// and must not be nil; fftPool drives the FFT orchestrator's per-line
// parallelism (§4.8's C8 back-end thread count) and may be nil to run
// every transform line on the calling goroutine.
func Solve(pool, fftPool *parallel.Pool, field []float64, fieldShape [3]int, echoCount int, mask []bool, vsz [3]float64, p Params) ([]float64, error) {
	echoes := echoCount
	if echoes < 1 {
		echoes = 1
	}
	volN := fieldShape[0] * fieldShape[1] * fieldShape[2]

	fftShape := fftsize.Sizes(fieldShape[:], p.Pad[:], true)
	fftShapeArr := [3]int{fftShape[0], fftShape[1], fftShape[2]}
	fftN := fftShapeArr[0] * fftShapeArr[1] * fftShapeArr[2]

	o, err := plan.NewOrchestrator(fftShapeArr)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	o.SetPool(fftPool)

	maskPadded := make([]bool, fftN)
	if err := pad.PadMask3(pool, maskPadded, fftShapeArr, mask, fieldShape, pad.Fill, false); err != nil {
		return nil, fmt.Errorf("solver: pad mask: %w", err)
	}
	maskMul := make([]float64, fftN)
	for i, b := range maskPadded {
		if b {
			maskMul[i] = 1
		}
	}

	D, err := buildDipole(o, fftShapeArr, vsz, p.Bdir, p.Dipole)
	if err != nil {
		return nil, err
	}

	var gamma []float64
	if p.Method == Tikhonov && p.Reg != RegIdentity {
		switch p.Reg {
		case RegGradient:
			gamma, err = kernel.GradientGamma(o, fftShapeArr, vsz)
		case RegLaplacian:
			gamma, err = kernel.LaplacianGamma(o, fftShapeArr, vsz)
		default:
			return nil, fmt.Errorf("solver: invalid regularizer %v", p.Reg)
		}
		if err != nil {
			return nil, fmt.Errorf("solver: regularizer kernel: %w", err)
		}
	}

	iD := assembleInverse(p.Method, D, p.strength(), p.Reg, gamma)
	cID := make([]complex128, len(iD))
	for i, v := range iD {
		cID[i] = complex(v, 0)
	}

	out := make([]float64, volN*echoes)
	fp := make([]float64, fftN)

	for t := 0; t < echoes; t++ {
		slice := field[t*volN : (t+1)*volN]
		if err := pad.Pad3(pool, fp, fftShapeArr, slice, fieldShape, pad.Fill, 0); err != nil {
			return nil, fmt.Errorf("solver: pad echo %d: %w", t, err)
		}

		spectrum := o.Forward(fp)
		if err := parallel.MulComplex(pool, spectrum, cID); err != nil {
			return nil, fmt.Errorf("solver: spectral multiply echo %d: %w", t, err)
		}
		o.Inverse(fp, spectrum)
		if err := parallel.MulReal(pool, fp, maskMul); err != nil {
			return nil, fmt.Errorf("solver: mask echo %d: %w", t, err)
		}

		outSlice := out[t*volN : (t+1)*volN]
		if err := pad.Unpad3(pool, outSlice, fieldShape, fp, fftShapeArr); err != nil {
			return nil, fmt.Errorf("solver: unpad echo %d: %w", t, err)
		}
	}

	return out, nil
}

// buildDipole dispatches to the k-space or i-space dipole builder and
// reduces the result to the real half-complex grid the rest of the
// pipeline expects (§3: "Real-FFT kernels are stored in half-complex
// layout"). The i-space PSF is point-symmetric about its center once
// shifted, so its transform's imaginary part sits at roundoff even on
// the rare grid where MaybeReal's tolerance test does not trip; taking
// the real part regardless keeps that assumption from leaking a
// complex kernel into the real-valued inverse-kernel formulas below.
func buildDipole(o *plan.Orchestrator, fftShape [3]int, vsz, bdir [3]float64, d Dipole) ([]float64, error) {
	switch d {
	case DipoleKSpace:
		return kernel.DipoleK(fftShape, vsz, bdir)
	case DipoleISpace:
		res, err := kernel.DipoleI(o, fftShape, vsz, bdir)
		if err != nil {
			return nil, err
		}
		if res.IsReal {
			return res.Real, nil
		}
		out := make([]float64, len(res.Complex))
		for i, c := range res.Complex {
			out[i] = real(c)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("solver: invalid dipole kind %v", d)
	}
}

// assembleInverse builds iD(D) per §4.7. A strength of exactly zero
// collapses every method to the plain pseudo-inverse (1/D where D!=0,
// else 0) regardless of method or regularizer, matching the spec's
// "if the regularization strength is exactly zero" escape hatch.
func assembleInverse(method Method, D []float64, strength float64, reg Reg, gamma []float64) []float64 {
	n := len(D)
	iD := make([]float64, n)

	if strength == 0 {
		for i, d := range D {
			if d != 0 {
				iD[i] = 1 / d
			}
		}
		return iD
	}

	switch method {
	case TKD:
		for i, d := range D {
			if math.Abs(d) > strength {
				iD[i] = 1 / d
			} else {
				iD[i] = math.Copysign(1/strength, d)
			}
		}
	case TSVD:
		for i, d := range D {
			if math.Abs(d) > strength {
				iD[i] = 1 / d
			}
		}
	case Tikhonov:
		switch reg {
		case RegIdentity:
			for i, d := range D {
				denom := d*d + strength
				if denom != 0 {
					iD[i] = d / denom
				}
			}
		case RegGradient, RegLaplacian:
			for i, d := range D {
				denom := d*d + strength*gamma[i]
				if denom != 0 {
					iD[i] = d / denom
				}
			}
		}
	}
	return iD
}
