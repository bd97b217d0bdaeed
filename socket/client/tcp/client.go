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

// Package tcp implements the spec §4.9/§6 TCP client facade: Init (here,
// New), Start, Connect, Send, CloseSocket, Stop, DeInit.
package tcp

import (
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nabbar/netkit/config"
	liberr "github.com/nabbar/netkit/errors"
	"github.com/nabbar/netkit/logger"
	"github.com/nabbar/netkit/socket/internal/cqueue"
	"github.com/nabbar/netkit/socket/iocontext"
	"github.com/nabbar/netkit/socket/sockcontext"
	"github.com/nabbar/netkit/socket/worker"
)

// Callbacks are the spec §6 client callback contract: on_recv and
// on_disconnect (a TCP client never accepts, so it has no on_connect).
type Callbacks struct {
	OnRecv       func(sockID uint32, data []byte)
	OnDisconnect func(sockID uint32)
}

// Client is the TCP client facade, sharing the pool/worker design of
// the server facade but with no listener: sockets are admitted one at a
// time via Connect.
type Client struct {
	cfg config.Socket
	cb  Callbacks
	log *logger.Logger

	ioPool *iocontext.Pool
	scPool *sockcontext.Pool
	cq     *cqueue.Queue

	mu      sync.Mutex
	workers []*worker.Worker
	started bool
}

// New validates cfg and returns a Client ready to Start.
func New(cfg config.Socket, cb Callbacks, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New()
	}

	ioPool := iocontext.NewPool(cfg.MemPoolSize, cfg.MaxIOBufferSize)
	return &Client{
		cfg:    cfg,
		cb:     cb,
		log:    log,
		ioPool: ioPool,
		scPool: sockcontext.NewPool(cfg.SocketContextIdleCapacity(), ioPool),
		cq:     cqueue.New(cfg.MemPoolSize),
	}, nil
}

// Start launches the worker pool. Idempotent.
func (c *Client) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}

	n := c.cfg.WorkerCount()
	workers := make([]*worker.Worker, 0, n)
	for i := 0; i < n; i++ {
		w := worker.New("tcp-client-worker-"+strconv.Itoa(i), c.cq, c.scPool, c, c.cfg.DequeueTimeoutTCP, c.cfg.ProbeOnIdle, false, c.log)
		if err := w.Start(); err != nil {
			for _, started := range workers {
				_ = started.Stop(time.Second)
			}
			return err
		}
		workers = append(workers, w)
	}

	c.workers = workers
	c.started = true
	return nil
}

// Connect implements spec §4.9: a synchronous overlapped-equivalent
// dial (DESIGN.md Open Question: net.DialTimeout stands in for the
// source's synchronous connect), registers the new socket, and arms the
// first receive. No partial state is left visible on failure.
func (c *Client) Connect(dstIP, dstPort string) (sockID uint32, err error) {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(dstIP, dstPort), 10*time.Second)
	if err != nil {
		return 0, liberr.New(liberr.Runtime, "tcp/client: connect failed", err)
	}

	sc := c.scPool.Get()
	sc.Conn = conn
	sc.Local = conn.LocalAddr()
	c.scPool.Activate(sc)

	cqueue.PostRecv(c.cq, sc)
	return sc.ID, nil
}

// Send posts data on sockID's socket.
func (c *Client) Send(sockID uint32, data []byte) error {
	if len(data) > c.cfg.MaxIOBufferSize {
		return liberr.New(liberr.InvalidParameter, "tcp/client: payload exceeds MaxIOBufferSize")
	}
	sc, ok := c.scPool.GetActiveContext(sockID)
	if !ok {
		return liberr.New(liberr.InvalidParameter, "tcp/client: unknown sock_id")
	}

	io := c.ioPool.Get()
	n := copy(io.Buf, data)
	cqueue.PostSend(c.cq, sc, io, io.Buf[:n], nil)
	return nil
}

// CloseSocket is DelActiveContext(sockID), per spec §4.9.
func (c *Client) CloseSocket(sockID uint32) {
	c.scPool.DelActiveContext(sockID)
}

// Stop stops every worker concurrently via errgroup.
func (c *Client) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	workers := c.workers
	c.mu.Unlock()

	var eg errgroup.Group
	for _, w := range workers {
		w := w
		eg.Go(func() error { return w.Stop(time.Second) })
	}
	err := eg.Wait()

	c.mu.Lock()
	c.started = false
	c.mu.Unlock()
	return err
}

// DeInit stops the facade via Stop. It does not close sockets still in
// the active registry and does not drain the pools.
func (c *Client) DeInit() {
	_ = c.Stop()
}

// OnRecv implements worker.Handler.
func (c *Client) OnRecv(sockID uint32, data []byte, _ net.Addr) {
	if c.cb.OnRecv != nil {
		c.cb.OnRecv(sockID, data)
	}
}

// OnDisconnect implements worker.Handler.
func (c *Client) OnDisconnect(sockID uint32) {
	if c.cb.OnDisconnect != nil {
		c.cb.OnDisconnect(sockID)
	}
}

// Stats reports the pools' in-use/idle counts.
func (c *Client) Stats() (ioIdle, ioCap, scActive, scIdle int) {
	return c.ioPool.Idle(), c.ioPool.Cap(), c.scPool.ActiveCount(), c.scPool.IdleCount()
}
