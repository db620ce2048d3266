package meshcut

import (
	"runtime"
	"sync/atomic"
)

type rangeTask struct {
	Started    int32
	Start, End int
	Done       chan struct{}
}

// A rangeQueue runs a function over a range of indices with a fixed maximum
// number of Goroutines.
//
// Ranges are recursively bisected. At each level the upper half is offered to
// the worker pool while the current Goroutine works on the lower half, and
// then either waits for the upper half or runs it itself if no worker has
// picked it up yet.
type rangeQueue struct {
	queue chan *rangeTask
	grain int
	fn    func(int)
}

func newRangeQueue(numWorkers, grain int, fn func(int)) *rangeQueue {
	if numWorkers == 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if grain < 1 {
		grain = 1
	}
	res := &rangeQueue{
		queue: make(chan *rangeTask, numWorkers*64),
		grain: grain,
		fn:    fn,
	}
	for i := 0; i < numWorkers; i++ {
		go res.worker()
	}
	return res
}

// Run processes every index in [0, n) and returns the number of indices
// processed. The queue cannot be used after Run returns.
func (r *rangeQueue) Run(n int) int {
	defer close(r.queue)
	return r.run(0, n)
}

func (r *rangeQueue) run(start, end int) int {
	if end-start <= r.grain {
		for i := start; i < end; i++ {
			r.fn(i)
		}
		return end - start
	}
	mid := (start + end) / 2
	task := &rangeTask{Start: mid, End: end, Done: make(chan struct{})}
	select {
	case r.queue <- task:
	default:
		// Prevent unbounded queue growth by running both halves locally.
		return r.run(start, mid) + r.run(mid, end)
	}
	count := r.run(start, mid)
	if atomic.SwapInt32(&task.Started, 1) == 0 {
		// No worker has started the task, so run it here.
		count += r.run(mid, end)
	} else {
		<-task.Done
		count += end - mid
	}
	return count
}

func (r *rangeQueue) worker() {
	for task := range r.queue {
		if atomic.SwapInt32(&task.Started, 1) != 0 {
			// Task already started on a different Goroutine.
			continue
		}
		r.run(task.Start, task.End)
		close(task.Done)
	}
}
