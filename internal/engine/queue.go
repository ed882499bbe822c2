package engine

import "sync"

// Queue is the shared work queue of pending directories. It tracks in-flight
// work as well as queued items so that workers never observe "empty" while
// another worker is mid-listing and about to push children: an item counts
// as pending from Push until the worker that popped it calls Done.
//
// The run moves Seeding -> Draining -> Drained; Pop returning false is the
// drained (or stopped) signal.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []string
	pending int
	stopped bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues a directory. After Stop it is a no-op: cancelled runs accept
// no new work.
func (q *Queue) Push(dir string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return
	}
	q.items = append(q.items, dir)
	q.pending++
	q.cond.Signal()
}

// Pop blocks until a directory is available, the queue drains, or the queue
// is stopped. The second return is false once no more work will ever arrive.
func (q *Queue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && q.pending > 0 && !q.stopped {
		q.cond.Wait()
	}
	if q.stopped || len(q.items) == 0 {
		return "", false
	}
	dir := q.items[0]
	q.items = q.items[1:]
	return dir, true
}

// Done marks one popped directory as fully processed. When the last pending
// item completes, all blocked workers are released.
func (q *Queue) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--
	if q.pending <= 0 {
		q.cond.Broadcast()
	}
}

// Stop wakes all workers and prevents further dequeuing. In-flight
// directories finish normally.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped = true
	q.cond.Broadcast()
}

// Len returns the number of queued (not yet popped) directories.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
