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

package sockopt_test

import (
	"context"
	"net"
	"testing"

	"github.com/nabbar/netkit/socket/internal/sockopt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSockopt(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "sockopt suite")
}

var _ = Describe("Control", func() {
	It("lets a net.ListenConfig using it still bind and listen", func() {
		lc := net.ListenConfig{Control: sockopt.Control}
		ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = ln.Close() }()
		Expect(ln.Addr()).NotTo(BeNil())
	})

	It("can rebind the same port immediately after closing, where the platform allows it", func() {
		lc := net.ListenConfig{Control: sockopt.Control}
		ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		addr := ln.Addr().String()
		Expect(ln.Close()).To(Succeed())

		ln2, err := lc.Listen(context.Background(), "tcp", addr)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = ln2.Close() }()
	})
})
