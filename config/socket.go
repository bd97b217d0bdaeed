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

// Package config holds the tunables the socket runtime's façades build
// from: the runtime-wide Socket settings and per-endpoint Client/Server
// address configuration, either built from literal Go values or decoded
// from a viper.Viper tree.
package config

import (
	"runtime"
	"time"

	liberr "github.com/nabbar/netkit/errors"
)

// Socket carries the runtime-wide tunables from spec §6: I/O buffer
// size, worker pool sizing, context pool capacity, and the worker
// dequeue timeouts.
type Socket struct {
	// MaxIOBufferSize bounds the per-I/O-context receive/send buffer.
	MaxIOBufferSize int `mapstructure:"max_io_buffer_size"`

	// WorkerThreadsPerCPU scales the worker pool with runtime.NumCPU.
	WorkerThreadsPerCPU int `mapstructure:"worker_threads_per_cpu"`

	// MemPoolSize bounds the I/O context pool; the socket context pool's
	// idle capacity is always 2x this value.
	MemPoolSize int `mapstructure:"mem_pool_size"`

	// DequeueTimeoutUDP/TCP bound how long a worker blocks in the
	// completion-dequeue primitive before re-checking Signalled().
	DequeueTimeoutUDP time.Duration `mapstructure:"dequeue_timeout_udp"`
	DequeueTimeoutTCP time.Duration `mapstructure:"dequeue_timeout_tcp"`

	// ProbeOnIdle, when true, has idle TCP workers issue a zero-byte
	// probe so a half-open peer is detected without waiting for
	// application traffic (Open Question #2 in DESIGN.md).
	ProbeOnIdle bool `mapstructure:"probe_on_idle"`
}

// DefaultSocket returns the spec §6 constants: MaxIOBufferSize=4096,
// WorkerThreadsPerCPU=2, MemPoolSize=1000, dequeue timeouts 50ms
// (UDP) / 500ms (TCP), ProbeOnIdle=true.
func DefaultSocket() Socket {
	return Socket{
		MaxIOBufferSize:     4096,
		WorkerThreadsPerCPU: 2,
		MemPoolSize:         1000,
		DequeueTimeoutUDP:   50 * time.Millisecond,
		DequeueTimeoutTCP:   500 * time.Millisecond,
		ProbeOnIdle:         true,
	}
}

// Validate rejects non-positive sizing fields and non-positive timeouts;
// filling in defaults is the caller's job (via DefaultSocket).
func (s Socket) Validate() error {
	if s.MaxIOBufferSize <= 0 {
		return liberr.New(liberr.InvalidParameter, "config: MaxIOBufferSize must be positive")
	}
	if s.WorkerThreadsPerCPU <= 0 {
		return liberr.New(liberr.InvalidParameter, "config: WorkerThreadsPerCPU must be positive")
	}
	if s.MemPoolSize <= 0 {
		return liberr.New(liberr.InvalidParameter, "config: MemPoolSize must be positive")
	}
	if s.DequeueTimeoutUDP <= 0 || s.DequeueTimeoutTCP <= 0 {
		return liberr.New(liberr.InvalidParameter, "config: dequeue timeouts must be positive")
	}
	return nil
}

// SocketContextIdleCapacity is the socket context pool's idle-list
// capacity, fixed at 2x the I/O context pool size.
func (s Socket) SocketContextIdleCapacity() int {
	return 2 * s.MemPoolSize
}

// WorkerCount returns WorkerThreadsPerCPU scaled by the host's CPU
// count, the size of the worker pool a façade should start.
func (s Socket) WorkerCount() int {
	return s.WorkerThreadsPerCPU * runtime.NumCPU()
}
