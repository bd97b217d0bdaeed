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

package iocontext

import "sync"

// Pool is a bounded reservoir of Contexts, free-list discipline under a
// single mutex: Get pops an idle entry or allocates a new one; Put
// resets and pushes the entry back if the pool is below capacity, or
// lets it be collected otherwise.
type Pool struct {
	mu      sync.Mutex
	free    []*Context
	cap     int
	bufSize int
}

// NewPool returns a Pool bounded at capacity entries, each with a
// bufSize-byte buffer (spec default 4096).
func NewPool(capacity, bufSize int) *Pool {
	return &Pool{
		free:    make([]*Context, 0, capacity),
		cap:     capacity,
		bufSize: bufSize,
	}
}

// Get pops a reset Context from the free list, or allocates a new one
// if the list is empty.
func (p *Pool) Get() *Context {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.free); n > 0 {
		c := p.free[n-1]
		p.free = p.free[:n-1]
		return c
	}
	return &Context{Buf: make([]byte, p.bufSize), pool: p}
}

// Put resets c and pushes it back onto the free list if capacity
// allows; otherwise c is dropped for the garbage collector.
func (p *Pool) Put(c *Context) {
	if c == nil {
		return
	}
	c.reset()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < p.cap {
		p.free = append(p.free, c)
	}
}

// Idle reports how many Contexts currently sit in the free list.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Cap reports the pool's configured capacity.
func (p *Pool) Cap() int {
	return p.cap
}
