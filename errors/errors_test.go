/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors_test

import (
	"testing"

	liberr "github.com/nabbar/netkit/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestErrors(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "errors suite")
}

var _ = Describe("New", func() {
	It("defaults the message to the kind's registered message when empty", func() {
		e := liberr.New(liberr.NullPointer, "")
		Expect(e.Error()).To(Equal("null pointer"))
		Expect(e.Kind()).To(Equal(liberr.NullPointer))
	})

	It("wraps a parent error and includes it in Error()", func() {
		parent := liberr.New(liberr.Runtime, "socket create failed")
		e := liberr.New(liberr.Logic, "invariant broken", parent)
		Expect(e.Error()).To(Equal("invariant broken: socket create failed"))
		Expect(e.Unwrap()).To(Equal(parent))
	})

	It("captures a non-empty caller frame", func() {
		e := liberr.New(liberr.AccessViolation, "over-read")
		Expect(e.Frame().Function).NotTo(BeEmpty())
	})
})

var _ = Describe("Is", func() {
	It("matches two errors sharing the same kind", func() {
		a := liberr.New(liberr.InvalidParameter, "bad port")
		b := liberr.New(liberr.InvalidParameter, "bad ip")
		Expect(a.Is(b)).To(BeTrue())
	})

	It("does not match errors of different kinds", func() {
		a := liberr.New(liberr.InvalidParameter, "bad port")
		b := liberr.New(liberr.Runtime, "thread start failed")
		Expect(a.Is(b)).To(BeFalse())
	})
})

func TestIsKind_table(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind liberr.Kind
		want bool
	}{
		{"matching", liberr.New(liberr.Runtime, "x"), liberr.Runtime, true},
		{"mismatching", liberr.New(liberr.Runtime, "x"), liberr.Logic, false},
		{"nil error", nil, liberr.Runtime, false},
		{"plain error", &plainErr{}, liberr.Runtime, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := liberr.IsKind(tc.err, tc.kind); got != tc.want {
				t.Fatalf("IsKind(%v, %v) = %v, want %v", tc.err, tc.kind, got, tc.want)
			}
		})
	}
}

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }
