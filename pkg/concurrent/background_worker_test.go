package concurrent

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type squareJob int

func (j squareJob) ID() int { return int(j) }

type squareResult struct {
	id, value int
}

func TestBackgroundWorker(t *testing.T) {
	var running, maxRunning atomic.Int32

	bw := NewBackgroundWorker(3, 2, func(job squareJob) squareResult {
		n := running.Add(1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		defer running.Add(-1)
		return squareResult{id: job.ID(), value: int(job) * int(job)}
	})
	bw.Start()

	go func() {
		for i := 0; i < 50; i++ {
			bw.Submit(squareJob(i))
		}
		bw.Close()
	}()

	results := []squareResult{}
	for r := range bw.Results() {
		results = append(results, r)
	}

	require.Len(t, results, 50)
	sort.Slice(results, func(i, j int) bool { return results[i].id < results[j].id })
	for i, r := range results {
		assert.Equal(t, i*i, r.value)
	}
	assert.LessOrEqual(t, maxRunning.Load(), int32(3))
}

func TestBackgroundWorkerNoJobs(t *testing.T) {
	bw := NewBackgroundWorker(0, 0, func(job squareJob) squareResult {
		return squareResult{}
	})
	bw.Start()
	bw.Close()

	_, open := <-bw.Results()
	assert.False(t, open)
}
