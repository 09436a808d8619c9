package qsmcore

import "testing"

func TestFastFFTSize_Scenario4(t *testing.T) {
	if got := FastFFTSize([3]int{7, 7, 7}, [3]int{0, -1, -1}, false); got[0] != 7 {
		t.Fatalf("FastFFTSize = %v, want first axis 7", got)
	}
	if got := FastFFTSize([3]int{7, 7, 7}, [3]int{3, -1, -1}, false); got[0] != 9 {
		t.Fatalf("FastFFTSize = %v, want first axis 9", got)
	}
	if got := FastFFTSize([3]int{7, 7, 7}, [3]int{3, -1, -1}, true); got[0] != 10 {
		t.Fatalf("FastFFTSize = %v, want first axis 10", got)
	}
}

// TestPad_FillScenario1 mirrors the design doc's pad-fill scenario: a
// constant 3x3x3 block centered inside a 5x5x5 fill-zero volume.
func TestPad_FillScenario1(t *testing.T) {
	in := [3]int{3, 3, 3}
	out := [3]int{5, 5, 5}
	src := make([]float64, 27)
	for i := range src {
		src[i] = 7
	}

	dst, err := Pad(src, in, out, BorderFill, 0)
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			for k := 0; k < 5; k++ {
				interior := i >= 1 && i <= 3 && j >= 1 && j <= 3 && k >= 1 && k <= 3
				v := dst[(i*5+j)*5+k]
				if interior && v != 7 {
					t.Fatalf("dst[%d,%d,%d] = %v, want 7", i, j, k, v)
				}
				if !interior && v != 0 {
					t.Fatalf("dst[%d,%d,%d] = %v, want 0", i, j, k, v)
				}
			}
		}
	}
}

func TestPad_RejectsShapeMismatch(t *testing.T) {
	src := make([]float64, 27)
	_, err := Pad(src, [3]int{3, 3, 3}, [3]int{2, 3, 3}, BorderFill, 0)
	qerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if qerr.Kind != ShapeMismatch {
		t.Fatalf("Kind = %v, want ShapeMismatch", qerr.Kind)
	}
}

func TestPadUnpad_RoundTrip(t *testing.T) {
	in := [3]int{4, 5, 6}
	out := [3]int{9, 9, 9}
	n := in[0] * in[1] * in[2]
	src := make([]float64, n)
	for i := range src {
		src[i] = float64(i) * 0.5
	}

	for _, policy := range []BorderPolicy{BorderFill, BorderCircular, BorderReplicate, BorderSymmetric, BorderReflect} {
		padded, err := Pad(src, in, out, policy, -1)
		if err != nil {
			t.Fatalf("policy %v: Pad: %v", policy, err)
		}
		back, err := Unpad(padded, out, in)
		if err != nil {
			t.Fatalf("policy %v: Unpad: %v", policy, err)
		}
		for i := range src {
			if back[i] != src[i] {
				t.Fatalf("policy %v: back[%d] = %v, want %v", policy, i, back[i], src[i])
			}
		}
	}
}

// TestErode_Scenario3 mirrors the design doc's erosion scenario: the
// 1-indexed interior 2..4 is 0-indexed 1..3.
func TestErode_Scenario3(t *testing.T) {
	shape := [3]int{5, 5, 5}
	n := shape[0] * shape[1] * shape[2]
	data := make([]bool, n)
	for i := range data {
		data[i] = true
	}

	eroded, err := Erode(Mask{Shape: shape, Data: data}, 1)
	if err != nil {
		t.Fatalf("Erode: %v", err)
	}

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			for k := 0; k < 5; k++ {
				want := i >= 1 && i <= 3 && j >= 1 && j <= 3 && k >= 1 && k <= 3
				got := eroded.Data[(i*5+j)*5+k]
				if got != want {
					t.Fatalf("eroded[%d,%d,%d] = %v, want %v", i, j, k, got, want)
				}
			}
		}
	}
}

func TestErode_ZeroIterIsCopy(t *testing.T) {
	shape := [3]int{3, 3, 3}
	data := []bool{true, false, true, false, true, false, true, false, true,
		true, false, true, false, true, false, true, false, true,
		true, false, true, false, true, false, true, false, true}
	eroded, err := Erode(Mask{Shape: shape, Data: data}, 0)
	if err != nil {
		t.Fatalf("Erode: %v", err)
	}
	for i := range data {
		if eroded.Data[i] != data[i] {
			t.Fatalf("eroded[%d] = %v, want %v", i, eroded.Data[i], data[i])
		}
	}
}

func TestCropIndices_FullVolumeWhenAllOutside(t *testing.T) {
	shape := [3]int{3, 4, 5}
	data := make([]bool, shape[0]*shape[1]*shape[2])
	box := CropIndices(Mask{Shape: shape, Data: data}, false)
	want := Box{Lo: [3]int{0, 0, 0}, Hi: [3]int{2, 3, 4}}
	if box != want {
		t.Fatalf("box = %v, want %v", box, want)
	}
}

func TestBuildDipoleKernel_ZeroDC(t *testing.T) {
	shape := [3]int{8, 8, 8}
	d, err := BuildDipoleKernel(shape, VoxelSize{1, 1, 1}, DirectionVector{0, 0, 1}, DkernelK)
	if err != nil {
		t.Fatalf("BuildDipoleKernel: %v", err)
	}
	if d[0] != 0 {
		t.Fatalf("D(0) = %v, want 0", d[0])
	}
}

func TestBuildDipoleKernel_RejectsZeroDirection(t *testing.T) {
	_, err := BuildDipoleKernel([3]int{8, 8, 8}, VoxelSize{1, 1, 1}, DirectionVector{0, 0, 0}, DkernelK)
	qerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if qerr.Kind != InvalidValue {
		t.Fatalf("Kind = %v, want InvalidValue", qerr.Kind)
	}
}

func TestWorkerPoolAndFFTThreads_SetAndGet(t *testing.T) {
	origWorkers := WorkerPoolSize()
	origFFT := FFTThreads()
	defer func() {
		if err := SetWorkerPoolSize(origWorkers); err != nil {
			t.Fatalf("restore SetWorkerPoolSize: %v", err)
		}
		if err := SetFFTThreads(origFFT); err != nil {
			t.Fatalf("restore SetFFTThreads: %v", err)
		}
	}()

	if err := SetWorkerPoolSize(3); err != nil {
		t.Fatalf("SetWorkerPoolSize(3): %v", err)
	}
	if got := WorkerPoolSize(); got != 3 {
		t.Fatalf("WorkerPoolSize() = %d, want 3", got)
	}
	if err := SetFFTThreads(2); err != nil {
		t.Fatalf("SetFFTThreads(2): %v", err)
	}
	if got := FFTThreads(); got != 2 {
		t.Fatalf("FFTThreads() = %d, want 2", got)
	}

	Reset()
}

func TestSetWorkerPoolSize_RejectsNonPositive(t *testing.T) {
	err := SetWorkerPoolSize(0)
	qerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if qerr.Kind != InvalidValue {
		t.Fatalf("Kind = %v, want InvalidValue", qerr.Kind)
	}
}

func TestSetFFTThreads_RejectsNonPositive(t *testing.T) {
	err := SetFFTThreads(-1)
	qerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if qerr.Kind != InvalidValue {
		t.Fatalf("Kind = %v, want InvalidValue", qerr.Kind)
	}
}
