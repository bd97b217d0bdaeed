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

// Package sockcontext tracks the per-socket state the worker pool
// shares: one Context per logical socket, with an inline receive
// iocontext.Context and a list of outstanding send/accept contexts,
// drawn from and returned to a bounded Pool keyed by a stable id.
package sockcontext

import (
	"net"
	"sync"

	"github.com/nabbar/netkit/socket/iocontext"
)

// Context is one logical socket the façade is tracking: its handle, a
// stable id, whether it is a listening socket, the inline recv context
// that lives for the socket's whole active life, and the outstanding
// send/accept contexts currently in flight.
type Context struct {
	ID       uint32
	Conn     net.Conn
	Local    net.Addr
	IsListen bool
	Recv     *iocontext.Context

	mu          sync.Mutex
	outstanding []*iocontext.Context

	recvWG sync.WaitGroup

	pool *Pool
}

// BeginRecv marks one inline-recv operation as in flight against Recv.
// Callers (cqueue.PostRecv) must call EndRecv exactly once, after the
// operation has finished writing Recv's completion fields and posted
// them, so reset can wait for a stale recv goroutine to retire before
// this shell — and its shared Recv buffer — is handed to a different
// socket under a reused id.
func (c *Context) BeginRecv() { c.recvWG.Add(1) }

// EndRecv marks the in-flight inline-recv operation started by the
// matching BeginRecv as finished.
func (c *Context) EndRecv() { c.recvWG.Done() }

// AddOutstanding records io as handed to (or about to be handed to) the
// kernel/runtime on behalf of this socket.
func (c *Context) AddOutstanding(io *iocontext.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outstanding = append(c.outstanding, io)
}

// RemoveOutstanding drops io from the outstanding list once its
// completion has been delivered, without returning it to the I/O
// context pool — the caller does that once it is done with io.
func (c *Context) RemoveOutstanding(io *iocontext.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, o := range c.outstanding {
		if o == io {
			c.outstanding = append(c.outstanding[:i], c.outstanding[i+1:]...)
			return
		}
	}
}

// Outstanding reports how many sends/accepts are currently in flight for
// this socket.
func (c *Context) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outstanding)
}

// reset shuts down and closes the underlying connection, waits for any
// recv goroutine still reading into the inline Recv context to retire
// (closing the connection first unblocks a pending Read/ReadFromUDP
// almost immediately), drains every outstanding I/O context back to the
// pool, and resets the inline recv context in place (it is never itself
// returned to the I/O pool). The recvWG wait is what prevents a stale
// completion from a socket's old connection from being posted against
// (or writing into the shared buffer of) whatever new connection this
// same shell is reused for next — see socket/internal/cqueue.PostRecv.
func (c *Context) reset() {
	if c.Conn != nil {
		_ = c.Conn.Close()
		c.Conn = nil
	}
	c.Local = nil
	c.IsListen = false

	c.recvWG.Wait()

	c.mu.Lock()
	pending := c.outstanding
	c.outstanding = nil
	c.mu.Unlock()

	for _, io := range pending {
		io.Release()
	}
	if c.Recv != nil {
		c.Recv.Reset()
	}
}
