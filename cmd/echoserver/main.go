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

// Command echoserver is a minimal consumer of socket/server/tcp: it
// echoes every received payload back to its sender, the §8 "TCP echo"
// scenario wired up as a runnable program.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nabbar/netkit/config"
	"github.com/nabbar/netkit/logger"
	tcpserver "github.com/nabbar/netkit/socket/server/tcp"
)

func main() {
	port := flag.String("port", "17011", "listen port")
	flag.Parse()

	lg := logger.New()
	lg.AddConsole()
	lg.SetLevel(logger.InfoLevel)

	cfg := config.DefaultSocket()
	ep := config.NewTCPServerEndpoint("*", *port)

	// srv is captured by the OnRecv closure below before it is assigned;
	// that is safe because the closure only runs after Start(), by
	// which point srv already holds the constructed *Server.
	var srv *tcpserver.Server

	srv, err := tcpserver.New(cfg, ep, tcpserver.Callbacks{
		OnConnect: func(sockID uint32) {
			lg.Infof("connected: sock_id=%d", sockID)
		},
		OnRecv: func(sockID uint32, data []byte) {
			lg.Infof("recv %d bytes from sock_id=%d", len(data), sockID)
			if err := srv.Send(sockID, data); err != nil {
				lg.Errorf("echo failed for sock_id=%d: %v", sockID, err)
			}
		},
		OnDisconnect: func(sockID uint32) {
			lg.Infof("disconnected: sock_id=%d", sockID)
		},
	}, lg)
	if err != nil {
		log.Fatal(err)
	}

	if err = srv.Start(); err != nil {
		log.Fatal(err)
	}
	lg.Infof("listening on %s", ep.Address)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	_ = srv.Stop()
	srv.DeInit()
}
