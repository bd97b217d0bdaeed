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
	"runtime"
	"sync"
	"time"

	liberr "github.com/nabbar/netkit/errors"
)

// RunFunc is the body a Thread executes. It must observe Signalled
// regularly (on every loop iteration) and return once it does.
type RunFunc func(t *Thread)

// Thread is a named goroutine with a cooperative stop signal, modeled on
// the source's named-OS-thread-with-stop-event contract. Go has no
// portable "forcibly terminate a running goroutine" primitive (unlike an
// OS thread kill), so Stop's forced-termination fallback is best-effort:
// it stops waiting and returns, leaving the goroutine to exit on its own
// once it observes Signalled.
type Thread struct {
	Name string

	mu      sync.Mutex
	run     RunFunc
	signal  *Event
	done    chan struct{}
	running bool
}

// NewThread returns a Thread ready to Start with the given run function.
func NewThread(name string, run RunFunc) *Thread {
	return &Thread{
		Name:   name,
		run:    run,
		signal: NewEvent(),
	}
}

// Start launches the run function on a new goroutine. It is idempotent:
// calling Start while already running is a no-op success. It raises
// Runtime only if run is nil.
func (t *Thread) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil
	}

	if t.run == nil {
		return liberr.New(liberr.Runtime, "thread "+t.Name+" has no run function")
	}

	t.signal.Reset()
	t.done = make(chan struct{})
	t.running = true

	done := t.done
	go func() {
		defer close(done)
		t.run(t)
	}()

	return nil
}

// Signalled reports whether Stop has begun. Run loops must check this on
// every iteration and return promptly once it is true.
func (t *Thread) Signalled() bool {
	return t.signal.IsSet()
}

// Stop signals the run function to return and waits up to timeout for it
// to do so. timeout == Forever waits indefinitely. If the function has
// not returned within timeout, Stop returns a Runtime error without
// further blocking (see the type doc for why no true forced kill exists
// in Go); a later call to Start will still work once the goroutine
// eventually exits.
func (t *Thread) Stop(timeout time.Duration) error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	done := t.done
	t.mu.Unlock()

	t.signal.Signal()

	var timedOut bool
	if timeout == Forever {
		<-done
	} else {
		select {
		case <-done:
		case <-time.After(timeout):
			timedOut = true
		}
	}

	t.mu.Lock()
	t.running = false
	t.mu.Unlock()

	if timedOut {
		return liberr.New(liberr.Runtime, "thread "+t.Name+" did not stop within timeout")
	}
	return nil
}

// IsRunning reports whether the thread's run function is currently
// executing.
func (t *Thread) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Release stops the thread with the source's destructor timeout (500ms)
// if it is still live. It is meant to be called via runtime.SetFinalizer
// by constructs that otherwise have no deterministic destructor, mirroring
// the source's "destructor calls Stop(500)" contract.
func (t *Thread) Release() {
	if t.IsRunning() {
		_ = t.Stop(500 * time.Millisecond)
	}
}

// AttachFinalizer registers Release as a best-effort GC finalizer for t,
// so a Thread left running and dropped still winds down eventually.
func AttachFinalizer(t *Thread) {
	runtime.SetFinalizer(t, func(o *Thread) { o.Release() })
}
