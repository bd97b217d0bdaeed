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

package config

import (
	"net"
	"os"

	liberr "github.com/nabbar/netkit/errors"
)

// Network names the transport an Endpoint addresses.
type Network string

const (
	NetworkTCP Network = "tcp"
	NetworkUDP Network = "udp"
)

// Endpoint is the address a TCP server binds/listens on, a TCP client
// dials, or a UDP peer sends to.
type Endpoint struct {
	Network Network `mapstructure:"network"`
	Address string  `mapstructure:"address"`
}

// NewTCPServerEndpoint builds the Endpoint a TCP server Listens on,
// applying spec §6's address syntax: hostIP == "*" means all interfaces
// (net.JoinHostPort leaves the host empty), and hostIP == "" resolves
// the local hostname's first address, falling back to 127.0.0.1 on any
// resolution failure.
func NewTCPServerEndpoint(hostIP, port string) Endpoint {
	return Endpoint{Network: NetworkTCP, Address: net.JoinHostPort(resolveHostIP(hostIP), port)}
}

// NewUDPEndpoint builds the Endpoint a UDP peer binds to, with the same
// address syntax as NewTCPServerEndpoint.
func NewUDPEndpoint(hostIP, port string) Endpoint {
	return Endpoint{Network: NetworkUDP, Address: net.JoinHostPort(resolveHostIP(hostIP), port)}
}

// resolveHostIP implements spec §6's "null host_ip" rule: "*" is
// all-interfaces, "" resolves the local hostname's first address or
// falls back to 127.0.0.1 on failure, anything else is passed through.
func resolveHostIP(hostIP string) string {
	switch hostIP {
	case "*":
		return ""
	case "":
		name, err := os.Hostname()
		if err != nil {
			return "127.0.0.1"
		}
		addrs, err := net.LookupHost(name)
		if err != nil || len(addrs) == 0 {
			return "127.0.0.1"
		}
		return addrs[0]
	default:
		return hostIP
	}
}

// Validate resolves Address against Network, rejecting an unparsable
// address or an unsupported Network value.
func (e Endpoint) Validate() error {
	switch e.Network {
	case NetworkTCP:
		if _, err := net.ResolveTCPAddr("tcp", e.Address); err != nil {
			return liberr.New(liberr.InvalidParameter, "config: invalid TCP address "+e.Address, err)
		}
	case NetworkUDP:
		if _, err := net.ResolveUDPAddr("udp", e.Address); err != nil {
			return liberr.New(liberr.InvalidParameter, "config: invalid UDP address "+e.Address, err)
		}
	default:
		return liberr.New(liberr.InvalidParameter, "config: unsupported network "+string(e.Network))
	}
	return nil
}
