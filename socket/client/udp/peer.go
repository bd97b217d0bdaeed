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

// Package udp implements the spec §4.10/§6 UDP peer facade: Init (here,
// New), Start, Create, SendTo (both the dotted-quad+port and the
// pre-formed net.Addr overload), CloseSocket, Stop, DeInit.
package udp

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

// Callbacks are the spec §6 UDP callback contract: on_recvfrom only.
type Callbacks struct {
	OnRecvFrom func(sockID uint32, data []byte, src net.Addr)
}

// Peer is the UDP facade. Unlike the TCP facades it has no listener:
// each Create call binds one independent datagram socket.
type Peer struct {
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

// New validates cfg and returns a Peer ready to Start.
func New(cfg config.Socket, cb Callbacks, log *logger.Logger) (*Peer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New()
	}

	ioPool := iocontext.NewPool(cfg.MemPoolSize, cfg.MaxIOBufferSize)
	return &Peer{
		cfg:    cfg,
		cb:     cb,
		log:    log,
		ioPool: ioPool,
		scPool: sockcontext.NewPool(cfg.SocketContextIdleCapacity(), ioPool),
		cq:     cqueue.New(cfg.MemPoolSize),
	}, nil
}

// Start launches the worker pool. Every worker dequeues at
// cfg.DequeueTimeoutUDP and never probes idle sockets (spec §4.7 step 2:
// "For UDP or listener: continue"). Idempotent.
func (p *Peer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}

	n := p.cfg.WorkerCount()
	workers := make([]*worker.Worker, 0, n)
	for i := 0; i < n; i++ {
		w := worker.New("udp-worker-"+strconv.Itoa(i), p.cq, p.scPool, p, p.cfg.DequeueTimeoutUDP, false, true, p.log)
		if err := w.Start(); err != nil {
			for _, started := range workers {
				_ = started.Stop(time.Second)
			}
			return err
		}
		workers = append(workers, w)
	}

	p.workers = workers
	p.started = true
	return nil
}

// Create implements spec §4.10: bind a datagram socket to
// (bindIP, bindPort); bindPort == "0" asks the OS for an ephemeral port,
// read back via the bound connection's LocalAddr and returned. No
// partial state is left visible on a bind failure.
func (p *Peer) Create(bindIP, bindPort string) (sockID uint32, boundPort int, err error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(resolveBindIP(bindIP), bindPort))
	if err != nil {
		return 0, 0, liberr.New(liberr.InvalidParameter, "udp: invalid bind address", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return 0, 0, liberr.New(liberr.Runtime, "udp: bind failed", err)
	}

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		_ = conn.Close()
		return 0, 0, liberr.New(liberr.Logic, "udp: bound connection has no UDPAddr")
	}

	sc := p.scPool.Get()
	sc.Conn = conn
	sc.Local = local
	p.scPool.Activate(sc)

	cqueue.PostRecv(p.cq, sc)
	return sc.ID, local.Port, nil
}

// resolveBindIP maps "*" to the empty host (all interfaces) and passes
// every other value through unchanged, so "" also binds all interfaces.
// Unlike config.NewUDPEndpoint it does not resolve "" to the local
// hostname's address.
func resolveBindIP(bindIP string) string {
	if bindIP == "*" {
		return ""
	}
	return bindIP
}

// SendTo posts data to dstIP:dstPort on sockID's socket (spec §4.10
// dotted-quad+port overload).
func (p *Peer) SendTo(sockID uint32, data []byte, dstIP, dstPort string) error {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(dstIP, dstPort))
	if err != nil {
		return liberr.New(liberr.InvalidParameter, "udp: invalid destination address", err)
	}
	return p.SendToAddr(sockID, data, addr)
}

// SendToAddr posts data to a pre-formed address on sockID's socket (spec
// §4.10 sockaddr overload).
func (p *Peer) SendToAddr(sockID uint32, data []byte, dst *net.UDPAddr) error {
	if len(data) > p.cfg.MaxIOBufferSize {
		return liberr.New(liberr.InvalidParameter, "udp: payload exceeds MaxIOBufferSize")
	}
	sc, ok := p.scPool.GetActiveContext(sockID)
	if !ok {
		return liberr.New(liberr.InvalidParameter, "udp: unknown sock_id")
	}

	io := p.ioPool.Get()
	n := copy(io.Buf, data)
	cqueue.PostSend(p.cq, sc, io, io.Buf[:n], dst)
	return nil
}

// CloseSocket is DelActiveContext(sockID).
func (p *Peer) CloseSocket(sockID uint32) {
	p.scPool.DelActiveContext(sockID)
}

// Stop stops every worker concurrently via errgroup.
func (p *Peer) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	workers := p.workers
	p.mu.Unlock()

	var eg errgroup.Group
	for _, w := range workers {
		w := w
		eg.Go(func() error { return w.Stop(time.Second) })
	}
	err := eg.Wait()

	p.mu.Lock()
	p.started = false
	p.mu.Unlock()
	return err
}

// DeInit stops the facade via Stop. It does not close sockets still in
// the active registry and does not drain the pools.
func (p *Peer) DeInit() {
	_ = p.Stop()
}

// OnRecv implements worker.Handler, translating to the UDP
// on_recvfrom contract.
func (p *Peer) OnRecv(sockID uint32, data []byte, peer net.Addr) {
	if p.cb.OnRecvFrom != nil {
		p.cb.OnRecvFrom(sockID, data, peer)
	}
}

// OnDisconnect implements worker.Handler. UDP workers deliver a
// zero-length datagram as data, never probe idle sockets and ignore send
// errors, so a worker only reaches this when a receive on a still-active
// UDP socket fails; the worker has then already removed the socket from
// the active registry. The UDP callback contract has no disconnect
// notification, so this does nothing.
func (p *Peer) OnDisconnect(uint32) {}

// Stats reports the pools' in-use/idle counts.
func (p *Peer) Stats() (ioIdle, ioCap, scActive, scIdle int) {
	return p.ioPool.Idle(), p.ioPool.Cap(), p.scPool.ActiveCount(), p.scPool.IdleCount()
}
