package meshcut

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
)

// ErrBackendUnavailable is returned by a Backend which cannot run a dispatch.
// A Slicer responds to it by running the same job on a SequentialBackend.
var ErrBackendUnavailable = errors.New("meshcut: backend unavailable")

// DefaultGrainSize is the number of work items a ParallelBackend runs in a
// single chunk when GrainSize is zero.
const DefaultGrainSize = 256

// A Backend executes independent work items.
type Backend interface {
	// Name identifies the backend in logs and results.
	Name() string

	// Dispatch calls fn once for every index in [0, n).
	//
	// Calls may happen concurrently and in any order. Dispatch returns once
	// every call has finished.
	Dispatch(n int, fn func(i int)) error
}

// SequentialBackend runs every work item on the calling Goroutine.
type SequentialBackend struct{}

// Name returns "sequential".
func (s SequentialBackend) Name() string {
	return "sequential"
}

// Dispatch calls fn for each index in order. It never fails.
func (s SequentialBackend) Dispatch(n int, fn func(i int)) error {
	for i := 0; i < n; i++ {
		fn(i)
	}
	return nil
}

// ParallelBackend runs work items on a pool of Goroutines.
type ParallelBackend struct {
	// Concurrency is the maximum number of Goroutines to use.
	// If 0, GOMAXPROCS is used.
	Concurrency int

	// GrainSize is the number of consecutive items handled as one unit of
	// work. If 0, DefaultGrainSize is used.
	GrainSize int

	// MaxDispatch, if non-zero, limits the number of items in a single
	// dispatch. Larger dispatches fail with ErrBackendUnavailable, like a
	// device which cannot hold the job's buffers.
	MaxDispatch int
}

// Name returns "parallel".
func (p *ParallelBackend) Name() string {
	return "parallel"
}

// Dispatch splits [0, n) into chunks of GrainSize and runs them on up to
// Concurrency Goroutines. Dispatches of at most one grain run on the calling
// Goroutine.
func (p *ParallelBackend) Dispatch(n int, fn func(i int)) error {
	if p.MaxDispatch != 0 && n > p.MaxDispatch {
		return errors.Wrapf(ErrBackendUnavailable, "dispatch of %d items exceeds limit of %d",
			n, p.MaxDispatch)
	}
	if n == 0 {
		return nil
	}
	grain := p.GrainSize
	if grain == 0 {
		grain = DefaultGrainSize
	}
	if n <= grain {
		return SequentialBackend{}.Dispatch(n, fn)
	}
	workers := p.Concurrency
	if workers != 0 {
		workers = essentials.MinInt(workers, (n+grain-1)/grain)
	}
	if count := newRangeQueue(workers, grain, fn).Run(n); count != n {
		panic("range queue skipped work items")
	}
	return nil
}
