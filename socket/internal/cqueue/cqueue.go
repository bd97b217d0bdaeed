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

// Package cqueue is this module's stand-in for the completion port /
// readiness multiplexer of spec §3: a bounded queue of completion
// records, fed by one pump goroutine per posted I/O operation and
// drained by a facade's worker goroutines via Dequeue. Go exposes no
// portable IOCP/epoll handle through net, so every posted Recv or Send
// becomes a goroutine that performs the blocking net.Conn call and then
// enqueues its outcome here — the same "post an op, get notified when it
// finishes" shape, implemented with channels instead of a kernel queue.
package cqueue

import (
	"errors"
	"net"
	"time"

	"github.com/nabbar/netkit/socket/iocontext"
	"github.com/nabbar/netkit/socket/sockcontext"
)

// ErrTimeout is returned by Dequeue when no completion arrived before the
// given timeout elapsed (spec §4.7 step 1: "dequeue one completion with
// a short timeout").
var ErrTimeout = errors.New("cqueue: dequeue timeout")

var errSendToNonUDP = errors.New("cqueue: SendTo posted against a non-UDP socket")

// Completion carries one finished I/O back to a worker: the owning
// socket's stable id and the IoContext the completion-written fields
// (N, Peer, Err) were recorded into.
type Completion struct {
	SockID uint32
	IO     *iocontext.Context
}

// Queue is the bounded channel of pending Completions a facade's workers
// share.
type Queue struct {
	ch chan Completion
}

// New returns a Queue buffered to hold capacity completions before a
// Post call blocks.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan Completion, capacity)}
}

// Post enqueues a finished completion, blocking if the queue is full.
func (q *Queue) Post(c Completion) {
	q.ch <- c
}

// Dequeue blocks for up to timeout waiting for one completion. It
// returns ErrTimeout, not blocking indefinitely, so a worker's run loop
// can check Signalled() regularly (spec §4.7 step 1 / §5 "Cancellation
// and timeouts").
func (q *Queue) Dequeue(timeout time.Duration) (Completion, error) {
	select {
	case c := <-q.ch:
		return c, nil
	case <-time.After(timeout):
		return Completion{}, ErrTimeout
	}
}

// PostRecv arms the next receive on sc's inline recv context. A TCP
// socket's underlying net.Conn is Read directly; a UDP socket's
// *net.UDPConn is read via ReadFromUDP so the sender's address lands in
// the completion (spec §4.10: "Receives deliver (sock_id, data, len,
// src_addr)"). Exactly one PostRecv is ever in flight per socket,
// preserving the per-socket FIFO receive ordering spec §4.7/§5 require.
//
// sc.BeginRecv/EndRecv fence this goroutine against sc's shell being
// reused: sockcontext.Context.reset blocks on the same WaitGroup before
// returning the shell (and its shared io.Buf/sc.ID) to the idle list,
// so by the time a later Pool.Get hands this shell to a different
// socket, this goroutine has already posted its completion — under the
// sock_id sc.ID still held at that moment — and exited. EndRecv is
// deferred rather than called inline so it only fires after cq.Post,
// which is what actually reads sc.ID.
func PostRecv(cq *Queue, sc *sockcontext.Context) {
	io := sc.Recv
	sc.BeginRecv()
	go func() {
		defer sc.EndRecv()

		var n int
		var peer net.Addr
		var err error

		if uc, ok := sc.Conn.(*net.UDPConn); ok {
			n, peer, err = uc.ReadFromUDP(io.Buf)
		} else if sc.Conn != nil {
			n, err = sc.Conn.Read(io.Buf)
		} else {
			err = net.ErrClosed
		}

		io.Op = iocontext.OpRecv
		io.N = n
		io.Peer = peer
		io.Err = err
		cq.Post(Completion{SockID: sc.ID, IO: io})
	}()
}

// PostSend writes data — already copied into io's buffer by the caller —
// to sc's connection, or to dst when set (a UDP SendTo), and posts the
// Send completion once the write returns. io is added to sc's
// outstanding list before the goroutine is spawned, matching spec §4.9's
// "attaches it to the socket's outstanding list, and posts the send"
// ordering.
func PostSend(cq *Queue, sc *sockcontext.Context, io *iocontext.Context, data []byte, dst net.Addr) {
	io.Op = iocontext.OpSend
	sc.AddOutstanding(io)

	go func() {
		var n int
		var err error

		switch {
		case dst != nil:
			if uc, ok := sc.Conn.(*net.UDPConn); ok {
				if udst, ok2 := dst.(*net.UDPAddr); ok2 {
					n, err = uc.WriteToUDP(data, udst)
				} else {
					n, err = uc.WriteTo(data, dst)
				}
			} else {
				err = errSendToNonUDP
			}
		case sc.Conn != nil:
			n, err = sc.Conn.Write(data)
		default:
			err = net.ErrClosed
		}

		io.N = n
		io.Err = err
		cq.Post(Completion{SockID: sc.ID, IO: io})
	}()
}
