// Package mask provides bounding-box extraction and 18-connectivity
// binary erosion over a Volume3 mask.
package mask

import "github.com/go-qsm/qsmcore/internal/parallel"

// Box is an inclusive axis-aligned bounding box, [Lo[i], Hi[i]] per axis.
type Box struct {
	Lo, Hi [3]int
}

// CropIndices scans m (shape, row-major bool) and returns the smallest
// inclusive box containing every voxel not equal to outsideValue. When
// every voxel equals outsideValue, it returns the full-volume box.
func CropIndices(m []bool, shape [3]int, outsideValue bool) Box {
	lo := [3]int{shape[0], shape[1], shape[2]}
	hi := [3]int{-1, -1, -1}
	found := false

	for i := 0; i < shape[0]; i++ {
		for j := 0; j < shape[1]; j++ {
			base := (i*shape[1] + j) * shape[2]
			for k := 0; k < shape[2]; k++ {
				if m[base+k] == outsideValue {
					continue
				}
				found = true
				if i < lo[0] {
					lo[0] = i
				}
				if j < lo[1] {
					lo[1] = j
				}
				if k < lo[2] {
					lo[2] = k
				}
				if i > hi[0] {
					hi[0] = i
				}
				if j > hi[1] {
					hi[1] = j
				}
				if k > hi[2] {
					hi[2] = k
				}
			}
		}
	}

	if !found {
		return Box{Lo: [3]int{0, 0, 0}, Hi: [3]int{shape[0] - 1, shape[1] - 1, shape[2] - 1}}
	}
	return Box{Lo: lo, Hi: hi}
}

// neighborOffsets18 is the 3x3x3 cube minus the eight corners: the
// center plus the 6 face neighbors and 12 edge neighbors.
var neighborOffsets18 = buildOffsets18()

func buildOffsets18() [][3]int {
	var offs [][3]int
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			for dk := -1; dk <= 1; dk++ {
				n := abs(di) + abs(dj) + abs(dk)
				if n == 3 {
					continue // corner, excluded
				}
				offs = append(offs, [3]int{di, dj, dk})
			}
		}
	}
	return offs
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Erode applies 18-connectivity binary erosion iter times. Voxels
// within iter of the boundary on any axis are left false; each
// interior output voxel is the AND of all 19 stencil neighbors from
// the previous round. iter <= 0 returns a copy of m. A worker panic
// recovered by p.For is returned as an error rather than producing a
// corrupted partial mask (§7: "parallel-for worker faults propagate as
// a single fatal failure from the parallel-for call site").
func Erode(p *parallel.Pool, m []bool, shape [3]int, iter int) ([]bool, error) {
	out := make([]bool, len(m))
	copy(out, m)
	if iter <= 0 {
		return out, nil
	}

	cur := make([]bool, len(m))
	copy(cur, m)
	next := make([]bool, len(m))

	nx, ny, nz := shape[0], shape[1], shape[2]

	for t := 1; t <= iter; t++ {
		if err := parallel.FillBool(p, next, false); err != nil {
			return nil, err
		}
		lo, hi := t, shape[0]-1-t
		err := p.For(nx, func(a, b int) error {
			for i := a; i < b; i++ {
				if i < lo || i > hi {
					continue
				}
				for j := t; j <= shape[1]-1-t; j++ {
					for k := t; k <= shape[2]-1-t; k++ {
						next[(i*ny+j)*nz+k] = andStencil(cur, shape, i, j, k)
					}
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		cur, next = next, cur
	}

	return cur, nil
}

func andStencil(m []bool, shape [3]int, i, j, k int) bool {
	nz := shape[2]
	ny := shape[1]
	for _, o := range neighborOffsets18 {
		ii, jj, kk := i+o[0], j+o[1], k+o[2]
		if !m[(ii*ny+jj)*nz+kk] {
			return false
		}
	}
	return true
}
