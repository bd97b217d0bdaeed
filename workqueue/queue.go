/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package workqueue provides a single-consumer FIFO of typed tasks
// executed on a dedicated worker, the hand-off point callbacks use to
// move long work off a socket worker thread.
package workqueue

import (
	"time"

	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/xsync"
)

// Task is one unit of work posted to a Queue.
type Task func()

// Queue is a bounded, single-consumer FIFO of Tasks drained by exactly
// one worker goroutine, in submission order.
type Queue struct {
	tasks chan Task
	th    *xsync.Thread
}

// New returns a Queue with the given backlog capacity. A capacity of 0
// makes Post always block until the worker is ready for the task.
func New(capacity int) *Queue {
	q := &Queue{
		tasks: make(chan Task, capacity),
	}
	q.th = xsync.NewThread("workqueue", q.run)
	return q
}

func (q *Queue) run(t *xsync.Thread) {
	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			if t.Signalled() {
				return
			}
			task()
		case <-time.After(50 * time.Millisecond):
			if t.Signalled() {
				return
			}
		}
	}
}

// Start launches the consumer goroutine. Idempotent while already
// running.
func (q *Queue) Start() error {
	return q.th.Start()
}

// Stop signals the consumer to drain no further tasks and waits up to
// timeout for the in-flight task, if any, to finish.
func (q *Queue) Stop(timeout time.Duration) error {
	return q.th.Stop(timeout)
}

// Post enqueues task for execution on the worker. It returns
// InvalidParameter if task is nil, and blocks if the queue is at
// capacity.
func (q *Queue) Post(task Task) error {
	if task == nil {
		return liberr.New(liberr.InvalidParameter, "workqueue: task must not be nil")
	}
	q.tasks <- task
	return nil
}

// TryPost enqueues task without blocking, reporting false if the queue
// is currently full.
func (q *Queue) TryPost(task Task) bool {
	if task == nil {
		return false
	}
	select {
	case q.tasks <- task:
		return true
	default:
		return false
	}
}

// Len reports the number of tasks currently queued, waiting to run.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// IsRunning reports whether the consumer goroutine is active.
func (q *Queue) IsRunning() bool {
	return q.th.IsRunning()
}
