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

package xsync_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/nabbar/netkit/xsync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timer", func() {
	It("fires the callback periodically until deactivated", func() {
		var n int32
		tm := xsync.NewTimer(xsync.Default, 10*time.Millisecond, func() {
			atomic.AddInt32(&n, 1)
		})

		Expect(tm.Activate(true)).To(BeTrue())
		Eventually(func() int32 { return atomic.LoadInt32(&n) }, time.Second).Should(BeNumerically(">=", 3))
		Expect(tm.Activate(false)).To(BeTrue())

		seen := atomic.LoadInt32(&n)
		time.Sleep(30 * time.Millisecond)
		Expect(atomic.LoadInt32(&n)).To(Equal(seen))
	})

	It("Activate is idempotent in both directions", func() {
		tm := xsync.NewTimer(xsync.HighResolution, time.Millisecond, func() {})
		Expect(tm.Activate(true)).To(BeTrue())
		Expect(tm.Activate(true)).To(BeTrue())
		Expect(tm.Activate(false)).To(BeTrue())
		Expect(tm.Activate(false)).To(BeTrue())
	})

	It("fails to start with no callback", func() {
		tm := xsync.NewTimer(xsync.Default, time.Millisecond, nil)
		Expect(tm.Activate(true)).To(BeFalse())
		Expect(tm.IsActive()).To(BeFalse())
	})

	It("suppresses re-entrant ticks while the callback is still running", func() {
		var concurrent int32
		var maxConcurrent int32
		tm := xsync.NewTimer(xsync.Default, 5*time.Millisecond, func() {
			c := atomic.AddInt32(&concurrent, 1)
			if c > atomic.LoadInt32(&maxConcurrent) {
				atomic.StoreInt32(&maxConcurrent, c)
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&concurrent, -1)
		})

		Expect(tm.Activate(true)).To(BeTrue())
		time.Sleep(80 * time.Millisecond)
		Expect(tm.Activate(false)).To(BeTrue())

		Expect(atomic.LoadInt32(&maxConcurrent)).To(Equal(int32(1)))
	})
})

func TestTimer_ActivateFalseWaitsForInFlightCallback(t *testing.T) {
	done := make(chan struct{})
	tm := xsync.NewTimer(xsync.Default, 5*time.Millisecond, func() {
		time.Sleep(30 * time.Millisecond)
		close(done)
	})
	_ = tm.Activate(true)
	time.Sleep(8 * time.Millisecond)
	tm.Activate(false)

	select {
	case <-done:
	default:
		t.Fatalf("Activate(false) returned before the in-flight callback finished")
	}
}
