/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package atomic

import "sync/atomic"

// Value is a type-safe wrapper over atomic.Value. The zero value is ready
// to use; NewValue returns a pointer to one.
type Value[T any] struct {
	av   atomic.Value
	def  T
	hasD bool
}

// NewValue returns a ready-to-use Value[T].
func NewValue[T any]() *Value[T] {
	return &Value[T]{}
}

// SetDefault configures the value returned by Load before the first Store.
func (v *Value[T]) SetDefault(def T) {
	v.def = def
	v.hasD = true
}

// boxed normalizes the concrete type stored in atomic.Value: without it, a
// Value[T] where T is itself an interface (e.g. context.Context) would
// panic on the second Store if two different concrete types implementing T
// were stored, since atomic.Value requires a consistent concrete type.
type boxed[T any] struct {
	v T
}

// Load returns the current value, or the configured default (else the zero
// value of T) if nothing has been stored yet.
func (v *Value[T]) Load() T {
	if c, ok := Cast[boxed[T]](v.av.Load()); ok {
		return c.v
	}
	if v.hasD {
		return v.def
	}
	var zero T
	return zero
}

// Store sets the value atomically.
func (v *Value[T]) Store(val T) {
	v.av.Store(boxed[T]{val})
}

// Swap atomically stores new and returns the previous value, via a single
// atomic.Value.Swap call rather than a separate Load+Store (which would let
// a concurrent Store or CompareAndSwap interleave between the two).
func (v *Value[T]) Swap(new T) (old T) {
	prev := v.av.Swap(boxed[T]{new})
	if c, ok := Cast[boxed[T]](prev); ok {
		return c.v
	}
	if v.hasD {
		return v.def
	}
	var zero T
	return zero
}

// CompareAndSwap reports whether it replaced the currently stored value
// with new, which it does only if the currently stored value is old.
// The Value must already hold a value of T (via Store) before
// CompareAndSwap is first called, matching the same constraint
// sync/atomic.Value.CompareAndSwap places on its own argument types.
func (v *Value[T]) CompareAndSwap(old, new T) bool {
	return v.av.CompareAndSwap(boxed[T]{old}, boxed[T]{new})
}
