// Package kernel builds the dipole, Laplacian, and gradient kernels
// used by the direct solvers, either directly on the half-complex
// k-space grid or as a small spatial point-spread function converted
// through the psf package.
package kernel

import (
	"fmt"
	"math"

	"github.com/go-qsm/qsmcore/internal/plan"
	"github.com/go-qsm/qsmcore/internal/psf"
)

// InvalidValueError reports a degenerate input, such as a zero
// direction vector.
type InvalidValueError struct {
	Param string
	Value any
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("kernel: invalid %s: %v", e.Param, e.Value)
}

func normalize(v [3]float64) ([3]float64, error) {
	n2 := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	if n2 == 0 {
		return [3]float64{}, &InvalidValueError{Param: "bdir", Value: v}
	}
	n := math.Sqrt(n2)
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}, nil
}

// halfAxisFreq returns the n/2+1 non-negative DFT frequencies for an
// axis of length n spaced by voxel size v, as produced by a
// real-to-complex transform.
func halfAxisFreq(n int, v float64) []float64 {
	h := n/2 + 1
	f := make([]float64, h)
	for i := 0; i < h; i++ {
		f[i] = float64(i) / (v * float64(n))
	}
	return f
}

// fullAxisFreq returns the n wrapped-around DFT frequencies for a full
// (non-halved) axis of length n spaced by voxel size v.
func fullAxisFreq(n int, v float64) []float64 {
	f := make([]float64, n)
	for i := 0; i < n; i++ {
		ii := i
		if ii > n/2 {
			ii -= n
		}
		f[i] = float64(ii) / (v * float64(n))
	}
	return f
}

// DipoleK builds the dipole kernel directly on the half-complex grid
// (Mx/2+1, My, Mz) for FFT shape outShape, voxel size vsz, and unit
// direction bdir: D(K) = 1/3 - (K.bhat)^2/||K||^2, D(0) = 0.
func DipoleK(outShape [3]int, vsz, bdir [3]float64) ([]float64, error) {
	bhat, err := normalize(bdir)
	if err != nil {
		return nil, err
	}

	mx, my, mz := outShape[0], outShape[1], outShape[2]
	fx := halfAxisFreq(mx, vsz[0])
	fy := fullAxisFreq(my, vsz[1])
	fz := fullAxisFreq(mz, vsz[2])

	half := mx/2 + 1
	out := make([]float64, half*my*mz)
	for i := 0; i < half; i++ {
		kx := fx[i]
		for j := 0; j < my; j++ {
			ky := fy[j]
			base := (i*my + j) * mz
			for k := 0; k < mz; k++ {
				kz := fz[k]
				n2 := kx*kx + ky*ky + kz*kz
				if n2 == 0 {
					out[base+k] = 0
					continue
				}
				dot := kx*bhat[0] + ky*bhat[1] + kz*bhat[2]
				out[base+k] = 1.0/3.0 - (dot*dot)/n2
			}
		}
	}
	return out, nil
}

// dipoleRadius is the half-width (in voxels, per axis) of the bounded
// cube the i-space dipole PSF is synthesized on.
const dipoleRadius = 4

// DipoleI synthesizes the spatial dipole PSF d(r) = (3(r.bhat)^2 -
// ||r||^2) / (4*pi*||r||^5) on a (2*dipoleRadius+1)^3 cube in physical
// units (vsz in mm), then converts it to an OTF on o's FFT shape.
func DipoleI(o *plan.Orchestrator, outShape [3]int, vsz, bdir [3]float64) (*psf.Result, error) {
	bhat, err := normalize(bdir)
	if err != nil {
		return nil, err
	}

	side := 2*dipoleRadius + 1
	shape := [3]int{side, side, side}
	d := make([]float64, side*side*side)
	c := dipoleRadius

	for i := 0; i < side; i++ {
		rx := float64(i-c) * vsz[0]
		for j := 0; j < side; j++ {
			ry := float64(j-c) * vsz[1]
			for k := 0; k < side; k++ {
				rz := float64(k-c) * vsz[2]
				if i == c && j == c && k == c {
					d[(i*side+j)*side+k] = 0
					continue
				}
				r2 := rx*rx + ry*ry + rz*rz
				r := math.Sqrt(r2)
				dot := rx*bhat[0] + ry*bhat[1] + rz*bhat[2]
				d[(i*side+j)*side+k] = (3*dot*dot - r2) / (4 * math.Pi * r2 * r2 * r)
			}
		}
	}

	return psf.ToOTFResult(o, d, shape, outShape)
}

// LaplacianPSF returns the 7-point second-difference stencil {1,-2,1}
// along each axis scaled by 1/v_i^2, as a 3x3x3 cube. When negative is
// true every value is negated before the caller transforms it.
func LaplacianPSF(vsz [3]float64, negative bool) ([]float64, [3]int) {
	shape := [3]int{3, 3, 3}
	d := make([]float64, 27)
	ix2, iy2, iz2 := 1/(vsz[0]*vsz[0]), 1/(vsz[1]*vsz[1]), 1/(vsz[2]*vsz[2])

	at := func(i, j, k int) int { return (i*3+j)*3 + k }
	d[at(1, 1, 1)] = -2 * (ix2 + iy2 + iz2)
	d[at(0, 1, 1)] = ix2
	d[at(2, 1, 1)] = ix2
	d[at(1, 0, 1)] = iy2
	d[at(1, 2, 1)] = iy2
	d[at(1, 1, 0)] = iz2
	d[at(1, 1, 2)] = iz2

	if negative {
		for i := range d {
			d[i] = -d[i]
		}
	}
	return d, shape
}

// LaplacianOTF converts the Laplacian PSF to an OTF on o's FFT shape.
func LaplacianOTF(o *plan.Orchestrator, outShape [3]int, vsz [3]float64, negative bool) (*psf.Result, error) {
	d, shape := LaplacianPSF(vsz, negative)
	return psf.ToOTFResult(o, d, shape, outShape)
}

// LaplacianGamma returns Gamma = |Laplacian OTF|^2 on the half-complex
// grid, the regularization weight for the tikh/laplacian path.
func LaplacianGamma(o *plan.Orchestrator, outShape [3]int, vsz [3]float64) ([]float64, error) {
	res, err := LaplacianOTF(o, outShape, vsz, false)
	if err != nil {
		return nil, err
	}
	return res.MagnitudeSquared(), nil
}

// gradientAxisPSF returns the forward-difference PSF {-1, 1}/v for
// axis a (0=x, 1=y, 2=z).
func gradientAxisPSF(vsz [3]float64, axis int) ([]float64, [3]int) {
	shape := [3]int{1, 1, 1}
	shape[axis] = 2
	d := make([]float64, 2)
	d[0] = -1 / vsz[axis]
	d[1] = 1 / vsz[axis]
	return d, shape
}

// GradientGamma returns Gamma = sum_i |G_i|^2 on the half-complex
// grid, the regularization weight for the tikh/gradient path, built
// from the forward first-difference kernel on each axis. By the
// div-of-grad identity this sum equals the negated Laplacian OTF (-L),
// whereas LaplacianGamma returns its square |L|^2.
func GradientGamma(o *plan.Orchestrator, outShape [3]int, vsz [3]float64) ([]float64, error) {
	half := outShape[0]/2 + 1
	n := half * outShape[1] * outShape[2]
	gamma := make([]float64, n)

	for axis := 0; axis < 3; axis++ {
		d, shape := gradientAxisPSF(vsz, axis)
		res, err := psf.ToOTFResult(o, d, shape, outShape)
		if err != nil {
			return nil, err
		}
		mag2 := res.MagnitudeSquared()
		for i := range gamma {
			gamma[i] += mag2[i]
		}
	}
	return gamma, nil
}
