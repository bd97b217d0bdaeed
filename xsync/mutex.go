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

import "sync"

// Mutex is a scoped mutual-exclusion lock with an RAII-style Guard.
//
// The source this runtime is modeled on uses a recursive OS mutex so the
// same thread can acquire it several times in a nested call chain. Go's
// goroutines have no stable thread affinity and sync.Mutex is
// deliberately non-reentrant, so there is no sound translation of
// "recursive acquire by the current thread" here: every call site in
// this repository is instead structured so a goroutine never re-enters a
// Mutex it already holds. Guard still gives callers the RAII
// acquire-once/release-on-every-exit-path pattern the source relies on.
type Mutex struct {
	mu sync.Mutex
}

// NewMutex returns a ready-to-use Mutex.
func NewMutex() *Mutex {
	return &Mutex{}
}

func (m *Mutex) Lock() {
	m.mu.Lock()
}

func (m *Mutex) Unlock() {
	m.mu.Unlock()
}

// Guard acquires the mutex and returns a release function; call it on
// every exit path (normal return, panic via defer, cancellation):
//
//	defer m.Guard()()
func (m *Mutex) Guard() func() {
	m.Lock()
	return m.Unlock
}
