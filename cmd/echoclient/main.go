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

// Command echoclient is a minimal consumer of socket/client/tcp: it
// connects, sends one line from stdin at a time, and logs every echo.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nabbar/netkit/config"
	"github.com/nabbar/netkit/logger"
	tcpclient "github.com/nabbar/netkit/socket/client/tcp"
)

func main() {
	host := flag.String("host", "127.0.0.1", "server host")
	port := flag.String("port", "17011", "server port")
	flag.Parse()

	lg := logger.New()
	lg.AddConsole()
	lg.SetLevel(logger.InfoLevel)

	cfg := config.DefaultSocket()

	done := make(chan uint32, 1)
	cli, err := tcpclient.New(cfg, tcpclient.Callbacks{
		OnRecv: func(sockID uint32, data []byte) {
			fmt.Printf("echo: %s\n", string(data))
		},
		OnDisconnect: func(sockID uint32) {
			lg.Infof("disconnected: sock_id=%d", sockID)
			done <- sockID
		},
	}, lg)
	if err != nil {
		log.Fatal(err)
	}

	if err = cli.Start(); err != nil {
		log.Fatal(err)
	}
	defer cli.DeInit()

	sockID, err := cli.Connect(*host, *port)
	if err != nil {
		log.Fatal(err)
	}
	lg.Infof("connected: sock_id=%d", sockID)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err = cli.Send(sockID, scanner.Bytes()); err != nil {
			lg.Errorf("send failed: %v", err)
		}
	}
}
