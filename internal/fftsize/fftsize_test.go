package fftsize

import "testing"

func TestFast(t *testing.T) {
	cases := map[int]bool{
		1: true, 2: true, 7: true, 9: true, 10: true,
		11: false, 13: false, 22: false, 105: true,
	}
	for n, want := range cases {
		if got := Fast(n); got != want {
			t.Errorf("Fast(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestSizes_Passthrough(t *testing.T) {
	got := Sizes([]int{7}, []int{-1}, false)
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("got %v, want [7]", got)
	}
}

func TestSizes_Scenario4(t *testing.T) {
	if got := Sizes([]int{7}, []int{0}, false); got[0] != 7 {
		t.Fatalf("Sizes(7,0,false) = %v, want 7", got[0])
	}
	if got := Sizes([]int{7}, []int{3}, false); got[0] != 9 {
		t.Fatalf("Sizes(7,3,false) = %v, want 9", got[0])
	}
	if got := Sizes([]int{7}, []int{3}, true); got[0] != 10 {
		t.Fatalf("Sizes(7,3,true) = %v, want 10", got[0])
	}
}

func TestSizes_MonotoneAndFactored(t *testing.T) {
	szs := [][2]int{{7, 0}, {11, 5}, {64, -1}, {100, 10}}
	for _, rfft := range []bool{false, true} {
		for _, sk := range szs {
			sz, ksz := sk[0], sk[1]
			out := Sizes([]int{sz}, []int{ksz}, rfft)[0]
			if ksz < 0 {
				if out != sz {
					t.Fatalf("passthrough expected %d, got %d", sz, out)
				}
				continue
			}
			k := ksz
			if k < 1 {
				k = 1
			}
			min := sz + k - 1
			if out < min {
				t.Fatalf("Sizes(%d,%d,%v) = %d, want >= %d", sz, ksz, rfft, out, min)
			}
			if !Fast(out) {
				t.Fatalf("Sizes(%d,%d,%v) = %d is not a fast size", sz, ksz, rfft, out)
			}
			if rfft && out%2 != 0 {
				t.Fatalf("Sizes(%d,%d,true) = %d, want even first axis", sz, ksz, out)
			}
		}
	}
}

func TestSizes_MultiAxisFirstPaddedEvenOnly(t *testing.T) {
	sz := []int{7, 7, 7}
	ksz := []int{-1, 3, 3}
	out := Sizes(sz, ksz, true)
	if out[0] != 7 {
		t.Fatalf("axis 0 should pass through unchanged, got %d", out[0])
	}
	if out[1]%2 != 0 {
		t.Fatalf("first padded axis (1) must be even, got %d", out[1])
	}
}
