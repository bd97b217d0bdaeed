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

// Package xsync provides the concurrency substrate the socket runtime is
// built on: a manual-reset Event, a non-reentrant Mutex with a scoped Guard, a
// named Thread with a cooperative stop signal, and a periodic Timer.
package xsync

import (
	"sync"
	"time"
)

// Forever is the sentinel meaning "wait indefinitely" for Wait and the
// maximum Stop timeout.
const Forever = time.Duration(1<<63 - 1)

// Event is a manual-reset signal: once Signal is called every Wait
// returns true until the next Reset. Safe for concurrent use from any
// goroutine, including multiple concurrent waiters.
type Event struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewEvent returns a clear (unsignalled) Event.
func NewEvent() *Event {
	return &Event{ch: make(chan struct{})}
}

// Signal sets the event and wakes every current and future waiter until
// Reset is called. Safe to call multiple times or concurrently.
func (e *Event) Signal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.ch:
		// already signalled
	default:
		close(e.ch)
	}
}

// Reset clears the event. Waiters that block after Reset will not return
// until the next Signal.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.ch:
		e.ch = make(chan struct{})
	default:
		// already clear
	}
}

// IsSet reports whether the event is currently signalled, without
// blocking.
func (e *Event) IsSet() bool {
	e.mu.Lock()
	ch := e.ch
	e.mu.Unlock()
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the event becomes set or timeout elapses, returning
// true in the first case. timeout == 0 is a non-blocking poll; timeout ==
// Forever waits indefinitely.
func (e *Event) Wait(timeout time.Duration) bool {
	e.mu.Lock()
	ch := e.ch
	e.mu.Unlock()

	if timeout == 0 {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}

	if timeout == Forever {
		<-ch
		return true
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}
