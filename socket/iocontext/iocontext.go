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

// Package iocontext holds the per-operation state the completion queue
// carries: one Context per outstanding Accept/Recv/Send, drawn from and
// returned to a bounded Pool. It stands in for the overlapped/readiness
// record of a completion-port design, translated to Go's net.Conn model.
package iocontext

import "net"

// Op names the kind of operation a Context is tracking.
type Op uint8

const (
	OpIdle Op = iota
	OpAccept
	OpRecv
	OpSend
)

func (o Op) String() string {
	switch o {
	case OpAccept:
		return "Accept"
	case OpRecv:
		return "Recv"
	case OpSend:
		return "Send"
	default:
		return "Idle"
	}
}

// Context is one outstanding I/O operation: a fixed-size buffer, the
// operation tag, the byte count the completion reported, the peer
// address (set on UDP Recv), and the accepted connection slot (set on
// TCP Accept). While queued for completion, only these
// completion-written fields are mutated.
type Context struct {
	Op       Op
	Buf      []byte
	N        int
	Peer     net.Addr
	Accepted net.Conn
	Err      error

	pool *Pool
}

// reset zeroes the buffer, clears the operation and completion fields,
// and closes any accepted connection still carried in the accept slot.
func (c *Context) reset() {
	for i := range c.Buf {
		c.Buf[i] = 0
	}
	c.Op = OpIdle
	c.N = 0
	c.Peer = nil
	c.Err = nil
	if c.Accepted != nil {
		_ = c.Accepted.Close()
		c.Accepted = nil
	}
}

// Reset clears the context in place without returning it to any pool,
// for a context (such as a SocketContext's inline recv slot) that keeps
// its own identity for the whole life of its owner.
func (c *Context) Reset() {
	c.reset()
}

// Release resets the context and returns it to the pool it was drawn
// from. A Context obtained outside a Pool (e.g. a SocketContext's inline
// recv context before the socket is pooled) is simply reset.
func (c *Context) Release() {
	if c.pool != nil {
		c.pool.Put(c)
	} else {
		c.reset()
	}
}
