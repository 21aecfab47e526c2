package concurrent

import "sync"

// JobI. a unit of work, ID is carried over to its result so callers can restore submission order.
type JobI interface {
	ID() int
}

type JobFunc[T JobI, G any] func(job T) G

// BackgroundWorker runs jobFunc over submitted jobs on a fixed number of goroutines.
// usage: Start, Submit from one goroutine then Close, and drain Results concurrently.
type BackgroundWorker[T JobI, G any] struct {
	workers   int
	msgC      chan T
	resultC   chan G
	waitGroup sync.WaitGroup
	jobFunc   JobFunc[T, G]
}

func NewBackgroundWorker[T JobI, G any](workers, buffer int, jobFunc JobFunc[T, G]) *BackgroundWorker[T, G] {
	if workers < 1 {
		workers = 1
	}
	return &BackgroundWorker[T, G]{
		workers: workers,
		msgC:    make(chan T, buffer),
		resultC: make(chan G, buffer),
		jobFunc: jobFunc,
	}
}

func (bw *BackgroundWorker[T, G]) Submit(jobData T) {
	bw.msgC <- jobData
}

func (bw *BackgroundWorker[T, G]) Results() <-chan G {
	return bw.resultC
}

func (bw *BackgroundWorker[T, G]) Start() {
	bw.waitGroup.Add(bw.workers)
	for i := 0; i < bw.workers; i++ {
		go func() {
			defer bw.waitGroup.Done()
			for jobData := range bw.msgC {
				bw.resultC <- bw.jobFunc(jobData)
			}
		}()
	}
}

// Close stops accepting jobs, waits for the running ones and closes Results.
func (bw *BackgroundWorker[T, G]) Close() {
	close(bw.msgC)
	bw.waitGroup.Wait()
	close(bw.resultC)
}
