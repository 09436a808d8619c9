package qsmcore

import (
	"github.com/go-qsm/qsmcore/internal/fftsize"
	"github.com/go-qsm/qsmcore/internal/kernel"
	"github.com/go-qsm/qsmcore/internal/mask"
	"github.com/go-qsm/qsmcore/internal/pad"
	"github.com/go-qsm/qsmcore/internal/parallel"
	"github.com/go-qsm/qsmcore/internal/plan"
)

// BorderPolicy selects how Pad fills the border outside the centered
// interior block.
type BorderPolicy int

const (
	BorderFill BorderPolicy = iota
	BorderCircular
	BorderReplicate
	BorderSymmetric
	BorderReflect
)

func (b BorderPolicy) internal() pad.Policy { return pad.Policy(b) }

// FastFFTSize rounds sz[i] + max(ksz[i],1) - 1 up componentwise to the
// smallest integer whose prime factorization is smooth over {2,3,5,7}:
// the size an FFT back-end transforms fastest. ksz[i] < 0 passes that axis through
// unchanged; when rfft is true and any axis was rounded, the first
// such axis is further rounded to the next even fast size.
func FastFFTSize(sz, ksz [3]int, rfft bool) [3]int {
	out := fftsize.Sizes(sz[:], ksz[:], rfft)
	return [3]int{out[0], out[1], out[2]}
}

// Pad centers src (shape inShape) inside a freshly allocated Volume3
// of shape outShape, filling the border per policy. fillValue is only
// used under BorderFill.
func Pad(src []float64, inShape, outShape [3]int, policy BorderPolicy, fillValue float64) ([]float64, error) {
	dst := make([]float64, outShape[0]*outShape[1]*outShape[2])
	if err := pad.Pad3(parallel.Default(), dst, outShape, src, inShape, policy.internal(), fillValue); err != nil {
		return nil, wrapPadErr(err)
	}
	return dst, nil
}

// Unpad reads the centered inShape block out of src (shape outShape)
// into a freshly allocated slice.
func Unpad(src []float64, outShape, inShape [3]int) ([]float64, error) {
	dst := make([]float64, inShape[0]*inShape[1]*inShape[2])
	if err := pad.Unpad3(parallel.Default(), dst, inShape, src, outShape); err != nil {
		return nil, wrapPadErr(err)
	}
	return dst, nil
}

func wrapPadErr(err error) error {
	switch e := err.(type) {
	case *pad.ShapeMismatchError:
		return newError(ShapeMismatch, "Shape", [2][3]int{e.Out, e.In}, "out_shape %v smaller than in_shape %v", e.Out, e.In)
	case *pad.InvalidOptionError:
		return newError(InvalidOption, "Policy", int(e.Policy), "unrecognized border policy")
	default:
		return err
	}
}

// Box is an inclusive axis-aligned bounding box, [Lo[i], Hi[i]] per
// axis.
type Box struct {
	Lo, Hi [3]int
}

// CropIndices returns the smallest inclusive box containing every
// voxel of m not equal to outsideValue, or the full-volume box when
// every voxel equals outsideValue.
func CropIndices(m Mask, outsideValue bool) Box {
	b := mask.CropIndices(m.Data, m.Shape, outsideValue)
	return Box{Lo: b.Lo, Hi: b.Hi}
}

// Erode applies 18-connectivity binary erosion to m, iter times.
// Voxels within iter of the boundary on any axis are left false.
// iter <= 0 returns a copy of m. A worker panic recovered during
// erosion surfaces as an error instead of a silently corrupted mask.
func Erode(m Mask, iter int) (Mask, error) {
	data, err := mask.Erode(parallel.Default(), m.Data, m.Shape, iter)
	if err != nil {
		return Mask{}, err
	}
	return Mask{Shape: m.Shape, Data: data}, nil
}

// BuildDipoleKernel constructs the dipole kernel D on the half-complex
// grid derived from outShape, for voxel size vsz and main-field
// direction bdir. When kind requests the i-space construction (§4.6),
// the kernel is synthesized as a bounded spatial PSF and converted
// through PSF->OTF before being reduced to its real part.
func BuildDipoleKernel(outShape [3]int, vsz VoxelSize, bdir DirectionVector, kind DkernelKind) ([]float64, error) {
	if !kind.valid() {
		return nil, newError(InvalidOption, "Dkernel", kind, "must be one of k, kspace, i, ispace")
	}
	if bdir.isZero() {
		return nil, newError(InvalidValue, "Bdir", bdir, "direction vector must be non-zero")
	}
	if !kind.isISpace() {
		d, err := kernel.DipoleK(outShape, [3]float64(vsz), [3]float64(bdir))
		if err != nil {
			return nil, newError(InvalidValue, "Bdir", bdir, "%v", err)
		}
		return d, nil
	}

	o, err := plan.NewOrchestrator(outShape)
	if err != nil {
		return nil, newError(ShapeMismatch, "Shape", outShape, "%v", err)
	}
	res, err := kernel.DipoleI(o, outShape, [3]float64(vsz), [3]float64(bdir))
	if err != nil {
		return nil, newError(InvalidValue, "Bdir", bdir, "%v", err)
	}
	if res.IsReal {
		return res.Real, nil
	}
	out := make([]float64, len(res.Complex))
	for i, c := range res.Complex {
		out[i] = real(c)
	}
	return out, nil
}
