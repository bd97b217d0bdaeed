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

package tcp_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/nabbar/netkit/config"
	tcpserver "github.com/nabbar/netkit/socket/server/tcp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestServerTCP(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "server/tcp suite")
}

func freePort() string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = ln.Close() }()
	_, port, err := net.SplitHostPort(ln.Addr().String())
	Expect(err).NotTo(HaveOccurred())
	return port
}

var _ = Describe("Server", func() {
	It("accepts a connection, echoes data and notifies disconnect exactly once", func() {
		port := freePort()
		ep := config.NewTCPServerEndpoint("127.0.0.1", port)
		cfg := config.DefaultSocket()

		var mu sync.Mutex
		var connected, recvd, disconnected []uint32

		var srv *tcpserver.Server
		srv, err := tcpserver.New(cfg, ep, tcpserver.Callbacks{
			OnConnect: func(sockID uint32) {
				mu.Lock()
				connected = append(connected, sockID)
				mu.Unlock()
			},
			OnRecv: func(sockID uint32, data []byte) {
				_ = srv.Send(sockID, data)
				mu.Lock()
				recvd = append(recvd, sockID)
				mu.Unlock()
			},
			OnDisconnect: func(sockID uint32) {
				mu.Lock()
				disconnected = append(disconnected, sockID)
				mu.Unlock()
			},
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(srv.Start()).To(Succeed())
		defer srv.DeInit()

		cli, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", port))
		Expect(err).NotTo(HaveOccurred())

		_, err = cli.Write([]byte("hi"))
		Expect(err).NotTo(HaveOccurred())

		buf := make([]byte, 16)
		_ = cli.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, err := cli.Read(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("hi"))

		_ = cli.Close()

		Eventually(func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(disconnected)
		}, 2*time.Second).Should(Equal(1))

		mu.Lock()
		Expect(connected).To(HaveLen(1))
		Expect(recvd).To(HaveLen(1))
		Expect(disconnected).To(HaveLen(1))
		mu.Unlock()
	})

	It("rejects a payload larger than MaxIOBufferSize", func() {
		port := freePort()
		ep := config.NewTCPServerEndpoint("127.0.0.1", port)
		cfg := config.DefaultSocket()
		cfg.MaxIOBufferSize = 4

		srv, err := tcpserver.New(cfg, ep, tcpserver.Callbacks{}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(srv.Start()).To(Succeed())
		defer srv.DeInit()

		cli, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", port))
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = cli.Close() }()

		Expect(srv.Send(1, []byte("way too long"))).To(HaveOccurred())
	})

	It("rejects an endpoint built for a UDP network", func() {
		ep := config.Endpoint{Network: config.NetworkUDP, Address: "127.0.0.1:0"}
		_, err := tcpserver.New(config.DefaultSocket(), ep, tcpserver.Callbacks{}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("resolves a '*' host endpoint to an all-interfaces bind", func() {
		port := freePort()
		ep := config.NewTCPServerEndpoint("*", port)

		srv, err := tcpserver.New(config.DefaultSocket(), ep, tcpserver.Callbacks{}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(srv.Start()).To(Succeed())
		defer srv.DeInit()

		cli, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", port))
		Expect(err).NotTo(HaveOccurred())
		_ = cli.Close()
	})

	It("drains every context pool back below capacity after 10 connections each send once (spec §8 property 4)", func() {
		port := freePort()
		ep := config.NewTCPServerEndpoint("127.0.0.1", port)
		cfg := config.DefaultSocket()
		cfg.MemPoolSize = 4

		var srv *tcpserver.Server
		srv, err := tcpserver.New(cfg, ep, tcpserver.Callbacks{
			OnRecv: func(sockID uint32, data []byte) {
				_ = srv.Send(sockID, data)
			},
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(srv.Start()).To(Succeed())
		defer srv.DeInit()

		const conns = 10
		clients := make([]net.Conn, conns)
		for i := 0; i < conns; i++ {
			c, dialErr := net.Dial("tcp", net.JoinHostPort("127.0.0.1", port))
			Expect(dialErr).NotTo(HaveOccurred())
			clients[i] = c
		}

		var wg sync.WaitGroup
		wg.Add(conns)
		for _, c := range clients {
			c := c
			go func() {
				defer wg.Done()
				_, werr := c.Write([]byte("x"))
				Expect(werr).NotTo(HaveOccurred())
				buf := make([]byte, 1)
				_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
				_, rerr := c.Read(buf)
				Expect(rerr).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()

		for _, c := range clients {
			_ = c.Close()
		}

		Eventually(func() int {
			_, _, scActive, _ := srv.Stats()
			return scActive
		}, 2*time.Second).Should(Equal(0))

		ioIdle, _, scActive, _ := srv.Stats()
		Expect(scActive).To(Equal(0))
		Expect(ioIdle).To(BeNumerically("<=", cfg.MemPoolSize))
	})

	It("is idempotent across repeated Start and Stop calls", func() {
		port := freePort()
		ep := config.NewTCPServerEndpoint("127.0.0.1", port)

		srv, err := tcpserver.New(config.DefaultSocket(), ep, tcpserver.Callbacks{}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(srv.Start()).To(Succeed())
		Expect(srv.Start()).To(Succeed())
		Expect(srv.Stop()).To(Succeed())
		Expect(srv.Stop()).To(Succeed())
	})
})
