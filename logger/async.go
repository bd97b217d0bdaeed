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

package logger

import (
	"sync"
	"time"

	"github.com/nabbar/netkit/xsync"
)

type asyncEntry struct {
	lvl  Level
	line string
}

// asyncBuffer double-buffers log entries into one of two lists, swapped
// by a background thread every 100ms; Flush blocks until the list
// currently accepting writes is empty.
type asyncBuffer struct {
	mu     sync.Mutex
	in     []asyncEntry
	deliver func(Level, string)

	// dmu serializes drains, so a flush waits for a batch the background
	// thread is still delivering.
	dmu sync.Mutex

	th *xsync.Thread
}

func newAsyncBuffer(deliver func(Level, string)) *asyncBuffer {
	a := &asyncBuffer{deliver: deliver}
	a.th = xsync.NewThread("logger-async", a.run)
	return a
}

func (a *asyncBuffer) start() { _ = a.th.Start() }

func (a *asyncBuffer) stop() {
	_ = a.th.Stop(time.Second)
	a.drainOnce()
}

func (a *asyncBuffer) post(lvl Level, line string) {
	a.mu.Lock()
	a.in = append(a.in, asyncEntry{lvl: lvl, line: line})
	a.mu.Unlock()
}

func (a *asyncBuffer) run(t *xsync.Thread) {
	tk := time.NewTicker(100 * time.Millisecond)
	defer tk.Stop()

	for {
		if t.Signalled() {
			return
		}
		<-tk.C
		a.drainOnce()
	}
}

// drainOnce swaps the active input list out and delivers every entry it
// held, leaving new writers to accumulate into a fresh empty list.
func (a *asyncBuffer) drainOnce() {
	a.dmu.Lock()
	defer a.dmu.Unlock()

	a.mu.Lock()
	out := a.in
	a.in = nil
	a.mu.Unlock()

	for _, e := range out {
		a.deliver(e.lvl, e.line)
	}
}

// flush blocks until the list currently accepting writes is empty,
// forcing an out-of-cycle swap-and-deliver.
func (a *asyncBuffer) flush() {
	a.drainOnce()
}
