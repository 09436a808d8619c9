// Package pad centers a Volume3 inside a larger (or equal) shape under
// one of five border policies, and crops it back out (unpad). Border
// behavior is resolved once per axis into a lookup table so the hot
// copy loop stays a flat array read with no branching on policy.
package pad

import (
	"fmt"

	"github.com/go-qsm/qsmcore/internal/parallel"
)

// Policy selects how the border outside the centered interior block
// is filled.
type Policy int

const (
	Fill Policy = iota
	Circular
	Replicate
	Symmetric
	Reflect
)

func (p Policy) String() string {
	switch p {
	case Fill:
		return "fill"
	case Circular:
		return "circular"
	case Replicate:
		return "replicate"
	case Symmetric:
		return "symmetric"
	case Reflect:
		return "reflect"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ShapeMismatchError reports an out_shape smaller than in_shape on
// some axis.
type ShapeMismatchError struct {
	Out, In [3]int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("pad: out_shape %v smaller than in_shape %v", e.Out, e.In)
}

// InvalidOptionError reports an unrecognized Policy value.
type InvalidOptionError struct {
	Policy Policy
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("pad: invalid policy %v", int(e.Policy))
}

// Offset returns the centered placement offset ΔI = ((M-N+1) div 2)
// per axis, used by both Pad3 and Unpad3.
func Offset(out, in [3]int) [3]int {
	var off [3]int
	for i := 0; i < 3; i++ {
		off[i] = (out[i] - in[i] + 1) / 2
	}
	return off
}

func validPolicy(p Policy) bool {
	switch p {
	case Fill, Circular, Replicate, Symmetric, Reflect:
		return true
	default:
		return false
	}
}

// axisMap builds, for every output coordinate i in [0,M), the source
// coordinate in [0,N) that feeds it under policy, offset by off. A
// value of -1 means "outside the source, use the fill value" and only
// ever occurs under Fill.
func axisMap(n, m, off int, policy Policy) []int {
	out := make([]int, m)
	for i := 0; i < m; i++ {
		ix := i - off
		switch policy {
		case Fill:
			if ix < 0 || ix >= n {
				out[i] = -1
			} else {
				out[i] = ix
			}
		case Circular:
			out[i] = ((ix % n) + n) % n
		case Replicate:
			switch {
			case ix < 0:
				out[i] = 0
			case ix >= n:
				out[i] = n - 1
			default:
				out[i] = ix
			}
		case Symmetric:
			out[i] = symmetricIndex(ix, n)
		case Reflect:
			out[i] = reflectIndex(ix, n)
		}
	}
	return out
}

// symmetricIndex mirrors with the edge voxel repeated, period 2N,
// matching Ix<1 -> 1-Ix and Ix>N -> 2N+1-Ix in the spec's 1-indexed
// formulation (ix, n here are 0-indexed).
func symmetricIndex(ix, n int) int {
	ix1 := ix + 1
	p := 2 * n
	r := ((ix1-1)%p + p) % p
	var res int
	if r < n {
		res = r + 1
	} else {
		res = p - r
	}
	return res - 1
}

// reflectIndex mirrors without repeating the edge voxel, period
// 2(N-1), matching Ix<1 -> 2-Ix and Ix>N -> 2N-Ix.
func reflectIndex(ix, n int) int {
	if n == 1 {
		return 0
	}
	ix1 := ix + 1
	p := 2 * (n - 1)
	r := ((ix1-1)%p + p) % p
	var res int
	if r < n {
		res = r + 1
	} else {
		res = p - r + 1
	}
	return res - 1
}

// Pad3 writes a centered copy of src (shape inShape) into dst (shape
// outShape, already allocated by the caller to len == product(outShape)),
// filling the border per policy. fillValue is only used under Fill.
func Pad3(p *parallel.Pool, dst []float64, outShape [3]int, src []float64, inShape [3]int, policy Policy, fillValue float64) error {
	if !validPolicy(policy) {
		return &InvalidOptionError{Policy: policy}
	}
	for i := 0; i < 3; i++ {
		if outShape[i] < inShape[i] {
			return &ShapeMismatchError{Out: outShape, In: inShape}
		}
	}

	off := Offset(outShape, inShape)
	mx := axisMap(inShape[0], outShape[0], off[0], policy)
	my := axisMap(inShape[1], outShape[1], off[1], policy)
	mz := axisMap(inShape[2], outShape[2], off[2], policy)

	mY, mZ := outShape[1], outShape[2]

	total := outShape[0] * mY * mZ
	return p.For(total, func(lo, hi int) error {
		for idx := lo; idx < hi; idx++ {
			i := idx / (mY * mZ)
			rem := idx % (mY * mZ)
			j := rem / mZ
			k := rem % mZ

			si, sj, sk := mx[i], my[j], mz[k]
			if si < 0 || sj < 0 || sk < 0 {
				dst[idx] = fillValue
				continue
			}
			dst[idx] = src[(si*inShape[1]+sj)*inShape[2]+sk]
		}
		return nil
	})
}

// PadMask3 is Pad3's boolean counterpart, used to pad the
// region-of-interest mask alongside the field with the same policy.
func PadMask3(p *parallel.Pool, dst []bool, outShape [3]int, src []bool, inShape [3]int, policy Policy, fillValue bool) error {
	if !validPolicy(policy) {
		return &InvalidOptionError{Policy: policy}
	}
	for i := 0; i < 3; i++ {
		if outShape[i] < inShape[i] {
			return &ShapeMismatchError{Out: outShape, In: inShape}
		}
	}

	off := Offset(outShape, inShape)
	mx := axisMap(inShape[0], outShape[0], off[0], policy)
	my := axisMap(inShape[1], outShape[1], off[1], policy)
	mz := axisMap(inShape[2], outShape[2], off[2], policy)

	mY, mZ := outShape[1], outShape[2]

	total := outShape[0] * mY * mZ
	return p.For(total, func(lo, hi int) error {
		for idx := lo; idx < hi; idx++ {
			i := idx / (mY * mZ)
			rem := idx % (mY * mZ)
			j := rem / mZ
			k := rem % mZ

			si, sj, sk := mx[i], my[j], mz[k]
			if si < 0 || sj < 0 || sk < 0 {
				dst[idx] = fillValue
				continue
			}
			dst[idx] = src[(si*inShape[1]+sj)*inShape[2]+sk]
		}
		return nil
	})
}

// UnpadMask3 is Unpad3's boolean counterpart.
func UnpadMask3(p *parallel.Pool, dst []bool, inShape [3]int, src []bool, outShape [3]int) error {
	for i := 0; i < 3; i++ {
		if outShape[i] < inShape[i] {
			return &ShapeMismatchError{Out: outShape, In: inShape}
		}
	}
	off := Offset(outShape, inShape)

	total := inShape[0] * inShape[1] * inShape[2]
	return p.For(total, func(lo, hi int) error {
		for idx := lo; idx < hi; idx++ {
			i := idx / (inShape[1] * inShape[2])
			rem := idx % (inShape[1] * inShape[2])
			j := rem / inShape[2]
			k := rem % inShape[2]

			si := i + off[0]
			sj := j + off[1]
			sk := k + off[2]
			dst[idx] = src[(si*outShape[1]+sj)*outShape[2]+sk]
		}
		return nil
	})
}

// Unpad3 reads the centered inShape block out of src (shape outShape)
// into dst (already allocated to len == product(inShape)). Offsets
// match Pad3.
func Unpad3(p *parallel.Pool, dst []float64, inShape [3]int, src []float64, outShape [3]int) error {
	for i := 0; i < 3; i++ {
		if outShape[i] < inShape[i] {
			return &ShapeMismatchError{Out: outShape, In: inShape}
		}
	}
	off := Offset(outShape, inShape)

	total := inShape[0] * inShape[1] * inShape[2]
	return p.For(total, func(lo, hi int) error {
		for idx := lo; idx < hi; idx++ {
			i := idx / (inShape[1] * inShape[2])
			rem := idx % (inShape[1] * inShape[2])
			j := rem / inShape[2]
			k := rem % inShape[2]

			si := i + off[0]
			sj := j + off[1]
			sk := k + off[2]
			dst[idx] = src[(si*outShape[1]+sj)*outShape[2]+sk]
		}
		return nil
	})
}
