// Package parallel provides the bounded worker pool and its
// parallel-for (Pool.For) that the padding, erosion, and FFT
// orchestration packages scan their index ranges with, plus the
// pointwise helpers FillBool, MulReal, and MulComplex. It has no
// separate copy or map primitive; callers write those loops directly
// inside Pool.For.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// MinBatch is the smallest index range dispatched to the worker pool.
// Ranges smaller than this run on the calling goroutine instead.
const MinBatch = 1024

// ErrInvalidPoolSize indicates a requested worker-pool size outside the
// valid range (n must be >= 1).
var ErrInvalidPoolSize = errors.New("parallel: invalid pool size (must be >= 1)")

// Pool is a bounded worker pool shared by every parallel-for in the core.
// It is process-wide by default (see Default) but callers may construct
// a private one for isolated testing.
type Pool struct {
	mu   sync.Mutex
	size int
}

// NewPool returns a pool capped at size concurrent workers. size <= 0
// is treated as 1 (serial execution): this is a constructor default,
// not the validated-setter contract SetSize follows once a pool is
// live.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{size: size}
}

// Size returns the current worker cap.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

// SetSize changes the worker cap, returning ErrInvalidPoolSize and
// leaving the pool unchanged when n <= 0. It is the caller's
// responsibility to only call this when no solve is in progress (§5
// of the core design).
func (p *Pool) SetSize(n int) error {
	if n <= 0 {
		return ErrInvalidPoolSize
	}
	p.mu.Lock()
	p.size = n
	p.mu.Unlock()
	return nil
}

// For partitions [0, n) into chunks of at least MinBatch elements and
// runs fn(lo, hi) over each chunk concurrently, up to the pool's worker
// cap. The first panic or error from any chunk is returned as the sole
// failure from For, matching the "parallel-for worker faults propagate
// as a single fatal failure" policy. The other chunks are not aborted:
// they run to completion, so the output buffer may be partly written
// when For returns an error.
func (p *Pool) For(n int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	workers := p.Size()
	if n < MinBatch || workers <= 1 {
		return runChunk(fn, 0, n)
	}

	chunk := (n + workers - 1) / workers
	if chunk < MinBatch {
		chunk = MinBatch
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			return runChunk(fn, lo, hi)
		})
	}
	return g.Wait()
}

// runChunk invokes fn over [lo, hi), converting a panic into an error so
// a single misbehaving chunk cannot take down the whole process.
func runChunk(fn func(lo, hi int) error, lo, hi int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Recovered: r}
		}
	}()
	return fn(lo, hi)
}

// PanicError wraps a recovered panic from a worker chunk.
type PanicError struct {
	Recovered any
}

func (e *PanicError) Error() string {
	return "parallel: worker panic recovered"
}

var (
	defaultPool     = NewPool(runtime.NumCPU())
	resetGeneration int64
)

// Default returns the process-wide pool used when no explicit pool is
// threaded through a call.
func Default() *Pool { return defaultPool }

// SetDefaultSize resizes the process-wide pool, returning
// ErrInvalidPoolSize for n <= 0. Only valid when no solve is in
// progress.
func SetDefaultSize(n int) error { return defaultPool.SetSize(n) }

// Reset rebuilds the process-wide pool's task state. It exists for the
// cooperative-cancellation story in §5: after a caller aborts a
// parallel-for mid-flight (context cancellation upstream, a killed
// goroutine group), the errgroup.Group backing subsequent For calls is
// assumed to be left in an unusable state and must be discarded rather
// than reused; For always allocates a fresh errgroup.Group per call, so
// Reset's only remaining job is to bump a generation counter that
// in-flight chunks can observe to abandon stale work promptly.
func Reset() {
	atomic.AddInt64(&resetGeneration, 1)
}

// Generation returns the current reset generation, incremented by every
// call to Reset. Long-running custom loops may poll this to bail out
// early after a reset.
func Generation() int64 {
	return atomic.LoadInt64(&resetGeneration)
}
