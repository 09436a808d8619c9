package qsmcore

import "fmt"

// DkernelKind selects the form the dipole kernel is synthesized in.
// k and KSpace are synonyms for the direct k-space construction; I and
// ISpace are synonyms for the spatial-PSF construction converted
// through PSF->OTF.
type DkernelKind int

const (
	DkernelK DkernelKind = iota
	DkernelKSpace
	DkernelI
	DkernelISpace
)

func (d DkernelKind) String() string {
	switch d {
	case DkernelK:
		return "k"
	case DkernelKSpace:
		return "kspace"
	case DkernelI:
		return "i"
	case DkernelISpace:
		return "ispace"
	default:
		return fmt.Sprintf("DkernelKind(%d)", int(d))
	}
}

func (d DkernelKind) valid() bool {
	switch d {
	case DkernelK, DkernelKSpace, DkernelI, DkernelISpace:
		return true
	default:
		return false
	}
}

func (d DkernelKind) isISpace() bool {
	return d == DkernelI || d == DkernelISpace
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

func (r Reg) valid() bool {
	switch r {
	case RegIdentity, RegGradient, RegLaplacian:
		return true
	default:
		return false
	}
}

// Options configures a direct solver entry point (§6). Pad gives a
// per-axis ksz passed straight to the FFT-sizing step (§4.2): a
// negative entry means "no padding requested on this axis", a
// non-negative entry is the convolution support the FFT shape must
// absorb beyond the field's own extent. Bdir is the unit main-field
// direction. Dkernel selects the dipole kernel construction. Thr
// configures TKD/TSVD; Lambda and Reg configure Tikhonov.
type Options struct {
	Pad     [3]int
	Bdir    DirectionVector
	Dkernel DkernelKind
	Thr     float64
	Lambda  float64
	Reg     Reg
}

// DefaultOptions returns a ready-to-use option set (unlike the zero
// value, whose Bdir is the invalid zero vector): B0 along z, k-space
// dipole construction, no extra padding beyond fast-size rounding, the
// TKD literature threshold of 0.15 as a starting point for Thr, and
// Lambda 1e-3 with the identity regularizer (Lambda/Reg only matter
// for Tikhonov).
func DefaultOptions() Options {
	return Options{
		Pad:     [3]int{0, 0, 0},
		Bdir:    DirectionVector{0, 0, 1},
		Dkernel: DkernelK,
		Thr:     0.15,
		Lambda:  1e-3,
		Reg:     RegIdentity,
	}
}

// Validate checks the option set independent of any particular field,
// mask, or voxel size, so a caller can check it before committing to
// an allocation-heavy solve. It does not check Thr or Lambda: every
// value including 0 and negative values is numerically meaningful
// (§4.7's inverse-kernel assembly treats 0 as the plain pseudo-inverse
// escape hatch) and is the caller's responsibility per §4.7's failure
// semantics.
func (o Options) Validate() error {
	if !o.Dkernel.valid() {
		return newError(InvalidOption, "Dkernel", o.Dkernel, "must be one of k, kspace, i, ispace")
	}
	if o.Bdir.isZero() {
		return newError(InvalidValue, "Bdir", o.Bdir, "direction vector must be non-zero")
	}
	if !o.Reg.valid() {
		return newError(InvalidOption, "Reg", o.Reg, "must be one of identity, gradient, laplacian")
	}
	return nil
}
