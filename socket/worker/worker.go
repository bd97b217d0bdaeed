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

// Package worker implements the spec §4.7 common worker loop shared by
// the TCP server, TCP client and UDP peer facades: dequeue one
// completion, recover its SocketContext, and dispatch Recv/Send.
// Accept completions are not handled here — a TCP listener's accept
// loop resolves synchronously against net.Listener.Accept and only ever
// hands the generic worker a fully-registered socket's Recv/Send
// traffic (see socket/server/tcp).
package worker

import (
	"net"
	"time"

	"github.com/nabbar/netkit/logger"
	"github.com/nabbar/netkit/socket/internal/cqueue"
	"github.com/nabbar/netkit/socket/iocontext"
	"github.com/nabbar/netkit/socket/sockcontext"
	"github.com/nabbar/netkit/xsync"
)

// Handler receives the events a worker's dispatch produces.
type Handler interface {
	// OnRecv is called once per successful receive, with a buffer the
	// worker owns exclusively until this call returns (peer is non-nil
	// only for a UDP socket).
	OnRecv(sockID uint32, data []byte, peer net.Addr)

	// OnDisconnect is called at most once per sock_id, the moment the
	// worker observes orderly close, a terminal read error, a failed send
	// on a stream (TCP) socket, or a failed idle probe.
	OnDisconnect(sockID uint32)
}

// Worker is one completion dispatcher out of a facade's
// WorkerThreadsPerCPU*NumCPU pool.
type Worker struct {
	name     string
	cq       *cqueue.Queue
	scPool   *sockcontext.Pool
	handler  Handler
	timeout  time.Duration
	probe    bool
	datagram bool
	log      *logger.Logger

	th *xsync.Thread
}

// New returns a Worker dequeuing from cq with the given per-iteration
// timeout (spec §6: 50ms UDP / 500ms TCP). When probe is true, every
// dequeue timeout also zero-byte-probes idle sockets (spec §4.7 step 2 /
// config.Socket.ProbeOnIdle) — callers pass false for a UDP worker,
// since spec §4.7 step 2 only probes TCP non-listener sockets. datagram
// must be true for a UDP worker: a zero-length UDP datagram is a valid
// payload, not an orderly-close signal, unlike a zero-byte TCP Recv
// completion (spec §9 REDESIGN FLAG).
func New(name string, cq *cqueue.Queue, scPool *sockcontext.Pool, handler Handler, timeout time.Duration, probe bool, datagram bool, log *logger.Logger) *Worker {
	w := &Worker{
		name:     name,
		cq:       cq,
		scPool:   scPool,
		handler:  handler,
		timeout:  timeout,
		probe:    probe,
		datagram: datagram,
		log:      log,
	}
	w.th = xsync.NewThread(name, w.loop)
	return w
}

// Start launches the worker's dispatch goroutine. Idempotent.
func (w *Worker) Start() error { return w.th.Start() }

// Stop signals the worker to return and waits up to timeout.
func (w *Worker) Stop(timeout time.Duration) error { return w.th.Stop(timeout) }

// IsRunning reports whether the dispatch goroutine is currently active.
func (w *Worker) IsRunning() bool { return w.th.IsRunning() }

func (w *Worker) loop(t *xsync.Thread) {
	for {
		if t.Signalled() {
			return
		}

		c, err := w.cq.Dequeue(w.timeout)
		if err != nil {
			if w.probe {
				w.probeIdle()
			}
			continue
		}

		w.dispatch(c)
	}
}

// dispatch recovers the completion's SocketContext and fans out by
// operation tag. A completion for a socket no longer active resolves to
// a discard, per spec §5: "subsequent completions for it resolve to a
// null SocketContext lookup and are silently discarded."
func (w *Worker) dispatch(c cqueue.Completion) {
	sc, ok := w.scPool.GetActiveContext(c.SockID)
	if !ok {
		// Nothing is released here: a Recv completion carries the socket's
		// inline recv context, which stays with its shell, and a Send
		// context was already returned to the pool when the socket's
		// outstanding list was drained on close.
		return
	}

	switch c.IO.Op {
	case iocontext.OpRecv:
		w.handleRecv(sc, c.IO)
	case iocontext.OpSend:
		err := c.IO.Err
		sc.RemoveOutstanding(c.IO)
		c.IO.Release()
		if err != nil && !w.datagram {
			w.disconnect(sc.ID)
		}
	}
}

// handleRecv implements spec §4.7 step 4's Recv case together with the
// REDESIGN FLAG in §9: any read error is a disconnect; for a stream
// (TCP) socket a zero-byte completion is also always orderly close; a
// zero-length UDP datagram, in contrast, is a legitimate payload and is
// delivered to the callback like any other. Otherwise the callback fires
// and the next receive is armed immediately, preserving per-socket FIFO
// delivery.
func (w *Worker) handleRecv(sc *sockcontext.Context, io *iocontext.Context) {
	if io.Err != nil || (!w.datagram && io.N == 0) {
		w.disconnect(sc.ID)
		return
	}

	data := make([]byte, io.N)
	copy(data, io.Buf[:io.N])
	peer := io.Peer

	if w.handler != nil {
		w.handler.OnRecv(sc.ID, data, peer)
	}

	cqueue.PostRecv(w.cq, sc)
}

// disconnect removes sockID from the active map and, only if this call
// is the one that actually found and removed it, invokes the handler's
// OnDisconnect — this is what keeps the "at most once" guarantee when
// two workers race to notice the same dead socket (one via a failed
// recv, another via an idle probe).
func (w *Worker) disconnect(sockID uint32) {
	if w.scPool.DelActiveContext(sockID) && w.handler != nil {
		w.handler.OnDisconnect(sockID)
	}
}

// probeIdle implements the optional WaitTimeout liveness policy from
// spec §4.7 step 2 / §9: every active non-listening socket is sent a
// zero-byte write, and any that fails is treated as a disconnect. The
// source probes only the single socket whose dequeue just timed out;
// this adaptation probes every active socket on any worker's timeout
// tick instead, since the Go completion queue in this package is shared
// rather than posted per-socket (see DESIGN.md).
func (w *Worker) probeIdle() {
	for _, sc := range w.scPool.Snapshot() {
		if sc.IsListen || sc.Conn == nil {
			continue
		}
		if _, err := sc.Conn.Write(nil); err != nil {
			w.disconnect(sc.ID)
		}
	}
}
