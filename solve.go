package qsmcore

import (
	"github.com/go-qsm/qsmcore/internal/parallel"
	"github.com/go-qsm/qsmcore/internal/solver"
)

// SolveTKD recovers a susceptibility Volume from field by truncated
// k-division: frequencies where the dipole kernel's magnitude falls at
// or below Thr are replaced by sign(D)/Thr instead of being discarded,
// per §4.7.
func SolveTKD(field Field, mask Mask, vsz VoxelSize, opts Options) (Volume, error) {
	return solve(field, mask, vsz, opts, solver.TKD)
}

// SolveTSVD recovers a susceptibility Volume from field by truncated
// SVD: frequencies where the dipole kernel's magnitude falls at or
// below Thr are zeroed outright.
func SolveTSVD(field Field, mask Mask, vsz VoxelSize, opts Options) (Volume, error) {
	return solve(field, mask, vsz, opts, solver.TSVD)
}

// SolveTikhonov recovers a susceptibility Volume from field by
// Tikhonov-regularized division, shaped by opts.Lambda and opts.Reg
// (identity, gradient, or Laplacian weighting).
func SolveTikhonov(field Field, mask Mask, vsz VoxelSize, opts Options) (Volume, error) {
	return solve(field, mask, vsz, opts, solver.Tikhonov)
}

// solve performs the C9 shape/rank/option validation common to every
// method, then delegates to the internal kdiv pipeline.
func solve(field Field, mask Mask, vsz VoxelSize, opts Options, method solver.Method) (Volume, error) {
	if err := validateSolveInputs(field, mask, vsz, opts); err != nil {
		return Volume{}, err
	}

	dipole := solver.DipoleKSpace
	if opts.Dkernel.isISpace() {
		dipole = solver.DipoleISpace
	}

	p := solver.Params{
		Method: method,
		Dipole: dipole,
		Bdir:   [3]float64(opts.Bdir),
		Pad:    opts.Pad,
		Thr:    opts.Thr,
		Lambda: opts.Lambda,
		Reg:    solver.Reg(opts.Reg),
	}

	data, err := solver.Solve(parallel.Default(), fftPool, field.Data, field.Shape, field.Echoes, mask.Data, [3]float64(vsz), p)
	if err != nil {
		return Volume{}, err
	}

	return Volume{Shape: field.Shape, Echoes: field.echoCount(), Data: data}, nil
}

// validateSolveInputs implements §4.9's C9 checks: field rank, field/mask
// shape agreement, voxel-size and direction-vector validity, and option
// enum validity.
func validateSolveInputs(field Field, mask Mask, vsz VoxelSize, opts Options) error {
	if field.Echoes < 0 {
		return newError(InvalidRank, "Field.Echoes", field.Echoes, "must be >= 0")
	}
	for i, s := range field.Shape {
		if s < 1 {
			return newError(ShapeMismatch, "Field.Shape", field.Shape, "axis %d has non-positive extent %d", i, s)
		}
	}
	if field.voxelCount()*field.echoCount() != len(field.Data) {
		return newError(ShapeMismatch, "Field.Data", len(field.Data),
			"len(Data) = %d, want Shape product * echo count = %d", len(field.Data), field.voxelCount()*field.echoCount())
	}
	if mask.Shape != field.Shape {
		return newError(ShapeMismatch, "Mask.Shape", mask.Shape, "must equal Field.Shape %v", field.Shape)
	}
	if len(mask.Data) != field.voxelCount() {
		return newError(ShapeMismatch, "Mask.Data", len(mask.Data), "len(Data) = %d, want %d", len(mask.Data), field.voxelCount())
	}
	if !vsz.valid() {
		return newError(InvalidValue, "VoxelSize", vsz, "every axis must be finite and positive")
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	return nil
}
