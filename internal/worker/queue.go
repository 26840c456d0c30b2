package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrEmpty is returned by Dequeue when no job arrived within the wait.
var ErrEmpty = errors.New("queue empty")

// Queue is an unbounded FIFO of jobs shared by the scanner and the workers.
// Every accepted job is handed to exactly one Dequeue caller.
type Queue struct {
	mu        sync.Mutex
	items     []Job
	queued    map[string]struct{} // source paths currently waiting
	accepting bool
	ready     chan struct{}
}

func NewQueue() *Queue {
	return &Queue{
		queued:    make(map[string]struct{}),
		accepting: true,
		ready:     make(chan struct{}, 1),
	}
}

// Enqueue appends job. It returns false once StopAccepting was called or
// when a job for the same source is still waiting.
func (q *Queue) Enqueue(job Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.accepting {
		return false
	}
	if _, ok := q.queued[job.SourcePath]; ok {
		return false
	}
	q.queued[job.SourcePath] = struct{}{}
	q.items = append(q.items, job)
	q.signal()
	return true
}

// TryDequeue pops the oldest job without waiting.
func (q *Queue) TryDequeue() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Job{}, false
	}
	job := q.items[0]
	q.items[0] = Job{}
	q.items = q.items[1:]
	delete(q.queued, job.SourcePath)
	if len(q.items) > 0 {
		// wake the next waiter
		q.signal()
	}
	return job, true
}

// Dequeue waits up to wait for a job. It returns ErrEmpty on timeout and
// ctx.Err() if ctx ends first.
func (q *Queue) Dequeue(ctx context.Context, wait time.Duration) (Job, error) {
	if job, ok := q.TryDequeue(); ok {
		return job, nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return Job{}, ctx.Err()
		case <-q.ready:
			if job, ok := q.TryDequeue(); ok {
				return job, nil
			}
		case <-timer.C:
			if job, ok := q.TryDequeue(); ok {
				return job, nil
			}
			return Job{}, ErrEmpty
		}
	}
}

// StopAccepting closes the queue to producers. Waiting jobs stay deliverable.
func (q *Queue) StopAccepting() {
	q.mu.Lock()
	q.accepting = false
	q.mu.Unlock()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
