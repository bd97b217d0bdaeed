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

package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// Error is the package's error value: a Kind, a message, an optional
// wrapped parent, and the caller frame that raised it.
type Error interface {
	error
	Kind() Kind
	Unwrap() error
	Is(err error) bool
	Frame() runtime.Frame
}

type ers struct {
	k Kind
	m string
	p error
	f runtime.Frame
}

func getFrame() runtime.Frame {
	var pc [16]uintptr
	n := runtime.Callers(3, pc[:])
	if n == 0 {
		return runtime.Frame{}
	}
	frames := runtime.CallersFrames(pc[:n])
	for {
		fr, more := frames.Next()
		if !strings.Contains(fr.Function, "nabbar/netkit/errors") {
			return fr
		}
		if !more {
			return fr
		}
	}
}

// New builds a new Error of the given kind with a literal message and an
// optional parent error to wrap.
func New(k Kind, msg string, parent ...error) Error {
	var p error
	for _, v := range parent {
		if v != nil {
			p = v
			break
		}
	}

	if msg == "" {
		msg = k.String()
	}

	return &ers{k: k, m: msg, p: p, f: getFrame()}
}

// Newf is like New but formats msg with args (fmt.Sprintf semantics).
func Newf(k Kind, msg string, args ...interface{}) Error {
	return New(k, fmt.Sprintf(msg, args...))
}

func (e *ers) Kind() Kind {
	return e.k
}

func (e *ers) Error() string {
	if e.p != nil {
		return fmt.Sprintf("%s: %s", e.m, e.p.Error())
	}
	return e.m
}

func (e *ers) Unwrap() error {
	return e.p
}

func (e *ers) Frame() runtime.Frame {
	return e.f
}

// Is reports whether err is an Error of this package carrying the same
// Kind. It follows the standard errors.Is contract so the package also
// works with errors.Is(err, target).
func (e *ers) Is(err error) bool {
	if err == nil {
		return false
	}

	if o, ok := err.(*ers); ok {
		return e.k == o.k
	}

	return false
}

// IsKind reports whether err (of any type implementing Error) carries the
// given Kind.
func IsKind(err error, k Kind) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(Error); ok {
		return e.Kind() == k
	}
	return false
}
