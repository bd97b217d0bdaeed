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

// Package tcp implements the spec §4.8/§6 TCP server facade: Init
// (here, New), Start, Send, CloseSocket, Stop, DeInit, backed by the
// iocontext/sockcontext pools, the shared completion queue and the
// generic worker pool.
package tcp

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nabbar/netkit/config"
	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/logger"
	"github.com/nabbar/netkit/socket/internal/cqueue"
	"github.com/nabbar/netkit/socket/internal/sockopt"
	"github.com/nabbar/netkit/socket/iocontext"
	"github.com/nabbar/netkit/socket/sockcontext"
	"github.com/nabbar/netkit/socket/worker"
)

// Callbacks are the spec §6 callback contract: on_connect, on_recv and
// on_disconnect, bound to user state via closure rather than the
// source's opaque user_ptr.
type Callbacks struct {
	OnConnect    func(sockID uint32)
	OnRecv       func(sockID uint32, data []byte)
	OnDisconnect func(sockID uint32)
}

// Server is the TCP server facade: one listener, one shared completion
// queue, a bounded IoContext pool, a bounded SocketContext pool and a
// fixed worker pool sized by config.Socket.WorkerCount.
type Server struct {
	cfg config.Socket
	ep  config.Endpoint
	cb  Callbacks
	log *logger.Logger

	ioPool *iocontext.Pool
	scPool *sockcontext.Pool
	cq     *cqueue.Queue

	mu       sync.Mutex
	ln       *net.TCPListener
	workers  []*worker.Worker
	started  bool
	stopping bool
	acceptWG sync.WaitGroup
}

// New validates cfg/ep and returns a Server ready to Start. ep.Network
// must be config.NetworkTCP.
func New(cfg config.Socket, ep config.Endpoint, cb Callbacks, log *logger.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ep.Network != config.NetworkTCP {
		return nil, liberr.New(liberr.InvalidParameter, "tcp/server: endpoint network must be tcp")
	}
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New()
	}

	ioPool := iocontext.NewPool(cfg.MemPoolSize, cfg.MaxIOBufferSize)
	return &Server{
		cfg:    cfg,
		ep:     ep,
		cb:     cb,
		log:    log,
		ioPool: ioPool,
		scPool: sockcontext.NewPool(cfg.SocketContextIdleCapacity(), ioPool),
		cq:     cqueue.New(cfg.MemPoolSize),
	}, nil
}

// Start binds and listens on the endpoint's address (spec §4.8 listener
// lifecycle: "*" resolves to INADDR_ANY, backlog is the platform's
// somaxconn via net's own default), then launches the worker pool and
// one accept-loop goroutine per worker. Start is idempotent.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	addr, err := resolveListenAddr(s.ep.Address)
	if err != nil {
		return liberr.New(liberr.InvalidParameter, "tcp/server: invalid listen address", err)
	}

	lc := net.ListenConfig{Control: sockopt.Control}
	pc, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return liberr.New(liberr.Runtime, "tcp/server: listen failed", err)
	}
	ln := pc.(*net.TCPListener)

	n := s.cfg.WorkerCount()
	workers := make([]*worker.Worker, 0, n)
	for i := 0; i < n; i++ {
		w := worker.New("tcp-server-worker-"+strconv.Itoa(i), s.cq, s.scPool, s, s.cfg.DequeueTimeoutTCP, s.cfg.ProbeOnIdle, false, s.log)
		if err = w.Start(); err != nil {
			for _, started := range workers {
				_ = started.Stop(time.Second)
			}
			_ = ln.Close()
			return err
		}
		workers = append(workers, w)
	}

	s.ln = ln
	s.workers = workers
	s.started = true
	s.stopping = false

	s.acceptWG.Add(n)
	for i := 0; i < n; i++ {
		go s.acceptLoop()
	}
	return nil
}

// resolveListenAddr maps spec §6 address syntax: "*" means all
// interfaces, any other value is passed through as a dotted-quad:port.
func resolveListenAddr(address string) (string, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return "", err
	}
	if host == "*" || host == "" {
		host = ""
	}
	return net.JoinHostPort(host, port), nil
}

// acceptLoop is the spec §4.8 accept pipeline: obtain an IoContext,
// accept, build a SocketContext, register it, invoke OnConnect, arm the
// first receive, release the accept IoContext, and loop. One such
// goroutine runs per worker, mirroring "per Start, the server, for each
// worker, ... posts an AcceptEx-style operation."
func (s *Server) acceptLoop() {
	defer s.acceptWG.Done()

	for {
		io := s.ioPool.Get()
		io.Op = iocontext.OpAccept

		conn, err := s.ln.AcceptTCP()
		if err != nil {
			io.Release()
			if s.isStopping() {
				return
			}
			continue
		}

		io.Accepted = conn
		s.onAccept(io)
	}
}

func (s *Server) isStopping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopping
}

// onAccept implements spec §4.8 steps 2-4: install the accepted
// connection into a fresh SocketContext, register it in the active map,
// invoke the connect callback, and arm the first receive.
func (s *Server) onAccept(io *iocontext.Context) {
	conn := io.Accepted
	io.Accepted = nil
	io.Release()

	sc := s.scPool.Get()
	sc.Conn = conn
	sc.Local = conn.LocalAddr()
	s.scPool.Activate(sc)

	if s.cb.OnConnect != nil {
		s.cb.OnConnect(sc.ID)
	}

	cqueue.PostRecv(s.cq, sc)
}

// Send posts data on sockID's socket. Payloads larger than
// cfg.MaxIOBufferSize fail rather than silently truncating.
func (s *Server) Send(sockID uint32, data []byte) error {
	if len(data) > s.cfg.MaxIOBufferSize {
		return liberr.New(liberr.InvalidParameter, "tcp/server: payload exceeds MaxIOBufferSize")
	}
	sc, ok := s.scPool.GetActiveContext(sockID)
	if !ok {
		return liberr.New(liberr.InvalidParameter, "tcp/server: unknown sock_id")
	}

	io := s.ioPool.Get()
	n := copy(io.Buf, data)
	cqueue.PostSend(s.cq, sc, io, io.Buf[:n], nil)
	return nil
}

// CloseSocket removes sockID from the active map and closes its
// connection. OnDisconnect does not fire for a socket closed this way:
// the completion its pending receive posts is found inactive by the
// worker and discarded.
func (s *Server) CloseSocket(sockID uint32) {
	s.scPool.DelActiveContext(sockID)
}

// Stop closes the listener (unblocking every accept-loop goroutine) and
// stops every worker concurrently via errgroup, returning the first
// error encountered.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	ln := s.ln
	workers := s.workers
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	s.acceptWG.Wait()

	var eg errgroup.Group
	for _, w := range workers {
		w := w
		eg.Go(func() error { return w.Stop(time.Second) })
	}
	err := eg.Wait()

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
	return err
}

// DeInit stops the facade via Stop. It does not close sockets still in
// the active registry and does not drain the pools.
func (s *Server) DeInit() {
	_ = s.Stop()
}

// OnRecv implements worker.Handler, forwarding to the user callback.
func (s *Server) OnRecv(sockID uint32, data []byte, _ net.Addr) {
	if s.cb.OnRecv != nil {
		s.cb.OnRecv(sockID, data)
	}
}

// OnDisconnect implements worker.Handler, forwarding to the user
// callback.
func (s *Server) OnDisconnect(sockID uint32) {
	if s.cb.OnDisconnect != nil {
		s.cb.OnDisconnect(sockID)
	}
}

// Stats reports the pools' in-use/idle counts (SPEC_FULL.md §C.3),
// useful to confirm §8 Testable Property 4 (pool saturation).
func (s *Server) Stats() (ioIdle, ioCap, scActive, scIdle int) {
	return s.ioPool.Idle(), s.ioPool.Cap(), s.scPool.ActiveCount(), s.scPool.IdleCount()
}
