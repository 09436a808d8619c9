package pad

import (
	"testing"

	"github.com/go-qsm/qsmcore/internal/parallel"
)

func idx3(shape [3]int, i, j, k int) int {
	return (i*shape[1]+j)*shape[2] + k
}

func TestPad3_FillScenario(t *testing.T) {
	pool := parallel.NewPool(2)
	in := [3]int{3, 3, 3}
	out := [3]int{5, 5, 5}
	src := make([]float64, 27)
	for i := range src {
		src[i] = 7
	}
	dst := make([]float64, 125)
	if err := Pad3(pool, dst, out, src, in, Fill, 0); err != nil {
		t.Fatalf("Pad3: %v", err)
	}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			for k := 0; k < 5; k++ {
				interior := i >= 1 && i <= 3 && j >= 1 && j <= 3 && k >= 1 && k <= 3
				v := dst[idx3(out, i, j, k)]
				if interior && v != 7 {
					t.Fatalf("interior (%d,%d,%d) = %v, want 7", i, j, k, v)
				}
				if !interior && v != 0 {
					t.Fatalf("border (%d,%d,%d) = %v, want 0", i, j, k, v)
				}
			}
		}
	}
}

func TestPad3_ReflectScenario1D(t *testing.T) {
	// Emulate the 1D scenario using a 1x1xN volume.
	pool := parallel.NewPool(1)
	in := [3]int{1, 1, 3}
	out := [3]int{1, 1, 7}
	src := []float64{1, 2, 3} // a, b, c
	dst := make([]float64, 7)
	if err := Pad3(pool, dst, out, src, in, Reflect, 0); err != nil {
		t.Fatalf("Pad3: %v", err)
	}
	want := []float64{3, 2, 1, 2, 3, 2, 1}
	for i, w := range want {
		if dst[i] != w {
			t.Fatalf("dst[%d] = %v, want %v (full: %v)", i, dst[i], w, dst)
		}
	}
}

func TestPadUnpad_RoundTrip(t *testing.T) {
	pool := parallel.NewPool(4)
	in := [3]int{3, 4, 5}
	out := [3]int{9, 8, 11}
	n := in[0] * in[1] * in[2]
	src := make([]float64, n)
	for i := range src {
		src[i] = float64(i) * 1.5
	}

	policies := []Policy{Fill, Circular, Replicate, Symmetric, Reflect}
	for _, pol := range policies {
		padded := make([]float64, out[0]*out[1]*out[2])
		if err := Pad3(pool, padded, out, src, in, pol, -1); err != nil {
			t.Fatalf("policy %v: Pad3: %v", pol, err)
		}
		back := make([]float64, n)
		if err := Unpad3(pool, back, in, padded, out); err != nil {
			t.Fatalf("policy %v: Unpad3: %v", pol, err)
		}
		for i := range src {
			if back[i] != src[i] {
				t.Fatalf("policy %v: round-trip[%d] = %v, want %v", pol, i, back[i], src[i])
			}
		}
	}
}

func TestPad3_ShapeMismatch(t *testing.T) {
	pool := parallel.NewPool(1)
	src := make([]float64, 27)
	dst := make([]float64, 8)
	err := Pad3(pool, dst, [3]int{2, 2, 2}, src, [3]int{3, 3, 3}, Fill, 0)
	if _, ok := err.(*ShapeMismatchError); !ok {
		t.Fatalf("expected *ShapeMismatchError, got %v", err)
	}
}

func TestPad3_InvalidOption(t *testing.T) {
	pool := parallel.NewPool(1)
	src := make([]float64, 1)
	dst := make([]float64, 1)
	err := Pad3(pool, dst, [3]int{1, 1, 1}, src, [3]int{1, 1, 1}, Policy(99), 0)
	if _, ok := err.(*InvalidOptionError); !ok {
		t.Fatalf("expected *InvalidOptionError, got %v", err)
	}
}
