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
	"testing"
	"time"

	"github.com/nabbar/netkit/xsync"

	liberr "github.com/nabbar/netkit/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Thread", func() {
	It("runs until Signalled and Stop returns", func() {
		th := xsync.NewThread("worker", func(t *xsync.Thread) {
			for !t.Signalled() {
				time.Sleep(time.Millisecond)
			}
		})

		Expect(th.Start()).To(Succeed())
		Expect(th.IsRunning()).To(BeTrue())
		Expect(th.Stop(time.Second)).To(Succeed())
		Expect(th.IsRunning()).To(BeFalse())
	})

	It("Start is idempotent while running", func() {
		th := xsync.NewThread("worker", func(t *xsync.Thread) {
			for !t.Signalled() {
				time.Sleep(time.Millisecond)
			}
		})
		Expect(th.Start()).To(Succeed())
		Expect(th.Start()).To(Succeed())
		Expect(th.Stop(time.Second)).To(Succeed())
	})

	It("fails to start with no run function", func() {
		th := xsync.NewThread("empty", nil)
		err := th.Start()
		Expect(err).To(HaveOccurred())
		Expect(liberr.IsKind(err, liberr.Runtime)).To(BeTrue())
	})

	It("reports a Runtime error when the run function outlives the timeout", func() {
		th := xsync.NewThread("stubborn", func(t *xsync.Thread) {
			<-make(chan struct{}) // never returns on its own
		})
		Expect(th.Start()).To(Succeed())
		err := th.Stop(10 * time.Millisecond)
		Expect(err).To(HaveOccurred())
		Expect(liberr.IsKind(err, liberr.Runtime)).To(BeTrue())
	})
})

func TestThread_StopWhenNeverStarted(t *testing.T) {
	th := xsync.NewThread("idle", func(t *xsync.Thread) {})
	if err := th.Stop(time.Second); err != nil {
		t.Fatalf("Stop on a never-started thread returned %v", err)
	}
}

func TestThread_Release(t *testing.T) {
	th := xsync.NewThread("released", func(t *xsync.Thread) {
		for !t.Signalled() {
			time.Sleep(time.Millisecond)
		}
	})
	_ = th.Start()
	th.Release()
	if th.IsRunning() {
		t.Fatalf("thread still running after Release")
	}
}
