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

package worker_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/nabbar/netkit/socket/internal/cqueue"
	"github.com/nabbar/netkit/socket/iocontext"
	"github.com/nabbar/netkit/socket/sockcontext"
	"github.com/nabbar/netkit/socket/worker"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestWorker(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "worker suite")
}

// recordingHandler captures every OnRecv/OnDisconnect call it receives,
// for assertions about ordering and the at-most-once guarantee.
type recordingHandler struct {
	mu           sync.Mutex
	recvs        [][]byte
	disconnected []uint32
	recvSignal   chan struct{}
	discSignal   chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		recvSignal: make(chan struct{}, 16),
		discSignal: make(chan struct{}, 16),
	}
}

func (h *recordingHandler) OnRecv(_ uint32, data []byte, _ net.Addr) {
	h.mu.Lock()
	cp := make([]byte, len(data))
	copy(cp, data)
	h.recvs = append(h.recvs, cp)
	h.mu.Unlock()
	h.recvSignal <- struct{}{}
}

func (h *recordingHandler) OnDisconnect(sockID uint32) {
	h.mu.Lock()
	h.disconnected = append(h.disconnected, sockID)
	h.mu.Unlock()
	h.discSignal <- struct{}{}
}

func (h *recordingHandler) disconnectCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.disconnected)
}

func newTCPPair() (srv, cli net.Conn) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = ln.Close() }()

	ch := make(chan net.Conn, 1)
	go func() {
		conn, aerr := ln.Accept()
		Expect(aerr).NotTo(HaveOccurred())
		ch <- conn
	}()

	cli, err = net.Dial("tcp", ln.Addr().String())
	Expect(err).NotTo(HaveOccurred())
	srv = <-ch
	return srv, cli
}

var _ = Describe("Worker", func() {
	It("delivers a TCP recv and re-arms the next one", func() {
		srv, cli := newTCPPair()
		defer func() { _ = cli.Close() }()

		ioPool := iocontext.NewPool(4, 64)
		scPool := sockcontext.NewPool(4, ioPool)
		sc := scPool.Get()
		sc.Conn = srv
		scPool.Activate(sc)

		cq := cqueue.New(4)
		h := newRecordingHandler()
		w := worker.New("t1", cq, scPool, h, 50*time.Millisecond, false, false, nil)
		Expect(w.Start()).To(Succeed())
		defer func() { _ = w.Stop(time.Second) }()

		cqueue.PostRecv(cq, sc)
		_, err := cli.Write([]byte("ping"))
		Expect(err).NotTo(HaveOccurred())

		Eventually(h.recvSignal, time.Second).Should(Receive())
		h.mu.Lock()
		Expect(h.recvs).To(HaveLen(1))
		Expect(string(h.recvs[0])).To(Equal("ping"))
		h.mu.Unlock()

		// the next receive was armed by the worker, not by the test
		_, err = cli.Write([]byte("pong"))
		Expect(err).NotTo(HaveOccurred())

		Eventually(h.recvSignal, time.Second).Should(Receive())
		h.mu.Lock()
		Expect(h.recvs).To(HaveLen(2))
		Expect(string(h.recvs[1])).To(Equal("pong"))
		h.mu.Unlock()
	})

	It("treats a zero-byte TCP completion as disconnect exactly once", func() {
		srv, cli := newTCPPair()

		ioPool := iocontext.NewPool(4, 64)
		scPool := sockcontext.NewPool(4, ioPool)
		sc := scPool.Get()
		sc.Conn = srv
		scPool.Activate(sc)

		cq := cqueue.New(4)
		h := newRecordingHandler()
		w := worker.New("t2", cq, scPool, h, 50*time.Millisecond, false, false, nil)
		Expect(w.Start()).To(Succeed())
		defer func() { _ = w.Stop(time.Second) }()

		cqueue.PostRecv(cq, sc)
		_ = cli.Close()

		Eventually(h.discSignal, time.Second).Should(Receive())
		Consistently(func() int { return h.disconnectCount() }, 200*time.Millisecond).Should(Equal(1))

		_, ok := scPool.GetActiveContext(sc.ID)
		Expect(ok).To(BeFalse())
	})

	It("delivers a zero-length UDP datagram as data, not a disconnect", func() {
		srvConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = srvConn.Close() }()

		cliConn, err := net.DialUDP("udp", nil, srvConn.LocalAddr().(*net.UDPAddr))
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = cliConn.Close() }()

		ioPool := iocontext.NewPool(4, 64)
		scPool := sockcontext.NewPool(4, ioPool)
		sc := scPool.Get()
		sc.Conn = srvConn
		scPool.Activate(sc)

		cq := cqueue.New(4)
		h := newRecordingHandler()
		w := worker.New("u1", cq, scPool, h, 50*time.Millisecond, false, true, nil)
		Expect(w.Start()).To(Succeed())
		defer func() { _ = w.Stop(time.Second) }()

		cqueue.PostRecv(cq, sc)
		_, err = cliConn.Write(nil)
		Expect(err).NotTo(HaveOccurred())

		Eventually(h.recvSignal, time.Second).Should(Receive())
		h.mu.Lock()
		Expect(h.recvs).To(HaveLen(1))
		Expect(h.recvs[0]).To(BeEmpty())
		h.mu.Unlock()
		Expect(h.disconnectCount()).To(Equal(0))

		_, ok := scPool.GetActiveContext(sc.ID)
		Expect(ok).To(BeTrue())
	})

	It("discards a completion for a socket no longer active", func() {
		ioPool := iocontext.NewPool(4, 64)
		scPool := sockcontext.NewPool(4, ioPool)

		cq := cqueue.New(4)
		h := newRecordingHandler()
		w := worker.New("t3", cq, scPool, h, 20*time.Millisecond, false, false, nil)
		Expect(w.Start()).To(Succeed())
		defer func() { _ = w.Stop(time.Second) }()

		io := ioPool.Get()
		io.Op = iocontext.OpRecv
		io.N = 3
		cq.Post(cqueue.Completion{SockID: 999, IO: io})

		Consistently(func() int {
			h.mu.Lock()
			defer h.mu.Unlock()
			return len(h.recvs)
		}, 200*time.Millisecond).Should(Equal(0))
	})
})
