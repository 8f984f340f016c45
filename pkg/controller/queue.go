package controller

import "sync"

// taskQueue is an unbounded FIFO of loop tasks. Push never blocks, which
// is what lets event handlers return immediately no matter how busy the
// consumer loop is.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []func()
	notify chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{notify: make(chan struct{}, 1)}
}

func (q *taskQueue) push(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *taskQueue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, false
	}
	fn := q.tasks[0]
	q.tasks = q.tasks[1:]
	return fn, true
}
