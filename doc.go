// Package qsmcore is the numerical core of a quantitative
// susceptibility mapping (QSM) pipeline: given an unwrapped tissue
// field map, a region-of-interest mask, and a physical voxel size, it
// solves the dipole-deconvolution inverse problem by direct k-space
// division (truncated k-division, truncated SVD, or Tikhonov
// regularization with an identity, gradient, or Laplacian weight).
//
// The package has no file, wire, or CLI surface; it is consumed
// in-process by sibling subsystems that own phase unwrapping,
// background-field removal, and iterative inversion, none of which are
// in scope here. SolveTKD, SolveTSVD, and SolveTikhonov are the
// primary entry points; Pad, Unpad, CropIndices, Erode, and
// BuildDipoleKernel expose the supporting stages for callers that want
// them independently of a full solve.
package qsmcore
