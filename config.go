package qsmcore

import (
	"runtime"

	"github.com/go-qsm/qsmcore/internal/parallel"
)

// fftPool is the process-wide pool threaded into every orchestrator's
// SetPool, independent of the worker pool that drives pad/mask/erosion
// parallel-for calls (§6: the back-end thread count and the worker
// pool size are two separately configurable knobs). It defaults to
// core count, matching §6's "an FFT thread count (defaulting to core
// count)".
var fftPool = parallel.NewPool(runtime.NumCPU())

// WorkerPoolSize returns the process-wide worker pool's current cap,
// used by padding, masking, and erosion's parallel-for primitives.
func WorkerPoolSize() int {
	return parallel.Default().Size()
}

// SetWorkerPoolSize resizes the process-wide worker pool, returning an
// InvalidValue error for n <= 0 instead of silently clamping it. Only
// valid when no solve is in progress.
func SetWorkerPoolSize(n int) error {
	if err := parallel.Default().SetSize(n); err != nil {
		return newError(InvalidValue, "n", n, "%v", err)
	}
	return nil
}

// FFTThreads returns the process-wide FFT back-end's configured thread
// count.
func FFTThreads() int {
	return fftPool.Size()
}

// SetFFTThreads resizes the process-wide FFT back-end's thread count,
// returning an InvalidValue error for n <= 0 instead of silently
// clamping it. Only valid when no solve is in progress.
func SetFFTThreads(n int) error {
	if err := fftPool.SetSize(n); err != nil {
		return newError(InvalidValue, "n", n, "%v", err)
	}
	return nil
}

// Reset marks the end of an aborted solve, per §5's
// cooperative-cancellation recovery story, by calling parallel.Reset,
// which increments the package-wide reset generation. Neither pool
// holds other task state to rebuild: Pool.For builds a fresh errgroup
// on every call.
func Reset() {
	parallel.Reset()
}
