package recalc

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// task is one queued recomputation with a name for failure logging
type task struct {
	name string
	run  func(ctx context.Context) error
}

// Queue runs snapshot recomputations in the background. Write paths that
// trigger recomputation as a side effect (a price refresh, a transaction
// edit) submit explicit tasks instead of firing unobserved goroutines, so
// failures are still logged even though the triggering request never waits.
//
// A single worker drains the queue, which also serializes recomputations
// submitted through it.
type Queue struct {
	tasks chan task
	log   zerolog.Logger
	wg    sync.WaitGroup

	// mu guards closed and orders late submissions against Close, so a
	// Submit racing shutdown is rejected instead of hitting a closed channel.
	mu     sync.Mutex
	closed bool
}

// NewQueue creates a queue with the given capacity and starts its worker
func NewQueue(capacity int, log zerolog.Logger) *Queue {
	q := &Queue{
		tasks: make(chan task, capacity),
		log:   log,
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

// Submit enqueues a recomputation without waiting for it. Returns false when
// the queue is full or already closed and the task was dropped; the drop is
// logged and the next triggering event will resubmit, since recomputation is
// idempotent.
func (q *Queue) Submit(name string, run func(ctx context.Context) error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.log.Warn().Str("task", name).Msg("recalculation queue closed, task dropped")
		return false
	}

	select {
	case q.tasks <- task{name: name, run: run}:
		return true
	default:
		q.log.Warn().Str("task", name).Msg("recalculation queue full, task dropped")
		return false
	}
}

// Close stops accepting tasks and blocks until queued work finishes.
// Submissions after Close are dropped, never a crash.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for t := range q.tasks {
		if err := t.run(context.Background()); err != nil {
			q.log.Error().Str("task", t.name).Err(err).Msg("background recalculation failed")
		}
	}
}
