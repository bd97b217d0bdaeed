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

package sockcontext

import (
	"sync"

	libatm "github.com/nabbar/netkit/atomic"
	"github.com/nabbar/netkit/socket/iocontext"
)

// Pool holds two collections: an idle list of reusable Context shells
// (bounded at idleCap, spec default 2x the I/O context pool size),
// guarded by its own mutex, and an active registry keyed by stable id
// holding the in-use shells, backed by atomic.MapTyped so lookups and
// removals never block a concurrent worker's dispatch.
type Pool struct {
	ioPool *iocontext.Pool

	idleMu  sync.Mutex
	idle    []*Context
	idleCap int

	active *libatm.MapTyped[uint32, *Context]

	nextID *libatm.Value[uint32]
}

// NewPool returns a Pool drawing inline recv contexts from ioPool, with
// an idle-list capacity of idleCap.
func NewPool(idleCap int, ioPool *iocontext.Pool) *Pool {
	nextID := libatm.NewValue[uint32]()
	nextID.Store(0)
	return &Pool{
		ioPool:  ioPool,
		idle:    make([]*Context, 0, idleCap),
		idleCap: idleCap,
		active:  libatm.NewMapTyped[uint32, *Context](),
		nextID:  nextID,
	}
}

// Get returns a Context shell: a reused idle one (assigned a fresh id)
// or a freshly allocated one, either way with its inline recv context
// ready.
func (p *Pool) Get() *Context {
	p.idleMu.Lock()
	if n := len(p.idle); n > 0 {
		c := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.idleMu.Unlock()
		c.ID = p.newID()
		return c
	}
	p.idleMu.Unlock()

	return &Context{
		ID:   p.newID(),
		Recv: p.ioPool.Get(),
		pool: p,
	}
}

// newID hands out the next monotonic id via a compare-and-swap retry
// loop over nextID, the generic atomic.Value equivalent of
// sync/atomic.AddUint32 on a bare counter field.
func (p *Pool) newID() uint32 {
	for {
		old := p.nextID.Load()
		next := old + 1
		if p.nextID.CompareAndSwap(old, next) {
			return next
		}
	}
}

// Activate admits c to the active registry under its current id.
func (p *Pool) Activate(c *Context) {
	p.active.Store(c.ID, c)
}

// GetActiveContext returns the shared Context for id, or ok == false if
// none is currently active.
func (p *Pool) GetActiveContext(id uint32) (c *Context, ok bool) {
	return p.active.Load(id)
}

// DelActiveContext atomically removes id from the active registry,
// resets the shell (draining its outstanding I/Os back to the I/O
// pool), and re-admits the shell to the idle list if capacity allows.
// It reports whether id was actually found active, so a caller that
// fires a disconnect notification on the strength of this return value
// never fires it twice for the same socket (spec §7: "duplicate
// disconnect callbacks for the same sock_id are forbidden").
func (p *Pool) DelActiveContext(id uint32) bool {
	c, ok := p.active.LoadAndDelete(id)
	if !ok {
		return false
	}
	c.reset()

	p.idleMu.Lock()
	defer p.idleMu.Unlock()
	if len(p.idle) < p.idleCap {
		p.idle = append(p.idle, c)
	}
	return true
}

// Snapshot returns a point-in-time copy of every currently active
// Context, for callers (such as a worker's idle-liveness probe) that
// need to iterate active sockets without holding a lock for the
// duration of the iteration.
func (p *Pool) Snapshot() []*Context {
	out := make([]*Context, 0, p.active.Len())
	p.active.Range(func(_ uint32, c *Context) bool {
		out = append(out, c)
		return true
	})
	return out
}

// ActiveCount reports how many sockets are currently tracked as active.
func (p *Pool) ActiveCount() int {
	return p.active.Len()
}

// IdleCount reports how many reusable shells currently sit in the idle
// list.
func (p *Pool) IdleCount() int {
	p.idleMu.Lock()
	defer p.idleMu.Unlock()
	return len(p.idle)
}
