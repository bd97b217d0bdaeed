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

// Package errors provides the small set of error kinds the runtime and the
// byte stream use to signal failure without exceptions: null pointers,
// invalid parameters, logic violations, runtime failures, and access
// violations (over-read / cursor abuse on the byte stream).
package errors

import "strconv"

// Kind classifies an Error. It is intentionally small and closed: unlike a
// general-purpose HTTP-style error-code registry, this package exists to
// serve the handful of kinds the runtime actually raises.
type Kind uint8

const (
	// UnknownKind is the zero value, never raised directly.
	UnknownKind Kind = iota
	// NullPointer is raised when a required pointer/handle argument is nil.
	NullPointer
	// InvalidParameter is raised when an argument fails validation.
	InvalidParameter
	// Logic is raised when an internal invariant is violated.
	Logic
	// Runtime is raised when an OS or runtime-level operation fails (thread
	// creation, socket syscalls, ...).
	Runtime
	// AccessViolation is raised by the byte stream on over-read or an
	// explicit cursor move past the write cursor.
	AccessViolation
)

var kindMessage = map[Kind]string{
	UnknownKind:      "unknown error",
	NullPointer:      "null pointer",
	InvalidParameter: "invalid parameter",
	Logic:            "logic error",
	Runtime:          "runtime error",
	AccessViolation:  "access violation",
}

// String returns the registered message for the kind, or its numeric value
// if the kind is not registered.
func (k Kind) String() string {
	if m, ok := kindMessage[k]; ok {
		return m
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}
