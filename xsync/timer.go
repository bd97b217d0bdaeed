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

package xsync

import (
	"sync"
	"time"
)

// Class selects the Timer's resolution class. Go's time.Ticker already
// delivers sub-millisecond resolution on every platform the runtime
// package supports, so both classes share one implementation; the class
// is only recorded in the Timer's Class field and does not change how it
// ticks, mirroring in name only the source's split between a coarse host
// timer and a high-resolution one.
type Class uint8

const (
	Default Class = iota
	HighResolution
)

// Timer invokes a callback every period, suppressing re-entrancy: a tick
// is skipped while the previous callback is still executing.
type Timer struct {
	Class  Class
	period time.Duration
	fn     func()

	mu     sync.Mutex
	active bool
	stop   chan struct{}
	done   chan struct{}

	notRunning *Event
}

// NewTimer returns a Timer that calls fn every period once Activate(true)
// is called. A nil fn makes Activate(true) fail.
func NewTimer(class Class, period time.Duration, fn func()) *Timer {
	ev := NewEvent()
	ev.Signal() // idle: "not running" is initially true
	return &Timer{
		Class:      class,
		period:     period,
		fn:         fn,
		notRunning: ev,
	}
}

// Activate(true) starts the timer; Activate(false) stops it and blocks
// until any in-flight callback returns. Both directions are idempotent.
// Activate(true) returns false (leaving the timer inactive) if fn is nil
// or the period is non-positive.
func (t *Timer) Activate(on bool) bool {
	if on {
		return t.start()
	}
	t.stopAndWait()
	return true
}

func (t *Timer) start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active {
		return true
	}
	if t.fn == nil || t.period <= 0 {
		return false
	}

	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.active = true

	stop := t.stop
	done := t.done

	go func() {
		defer close(done)
		tk := time.NewTicker(t.period)
		defer tk.Stop()

		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				if !t.notRunning.Wait(0) {
					// previous callback still running: skip this tick
					continue
				}
				t.notRunning.Reset()
				t.fn()
				t.notRunning.Signal()
			}
		}
	}()

	return true
}

func (t *Timer) stopAndWait() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	stop := t.stop
	done := t.done
	t.active = false
	t.mu.Unlock()

	close(stop)
	<-done
	t.notRunning.Wait(Forever)
}

// IsActive reports whether the timer has been started and not yet
// stopped.
func (t *Timer) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
