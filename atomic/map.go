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

import "sync"

// MapTyped is a type-safe wrapper over sync.Map. It backs the active
// SocketContext registry and similar concurrent lookup tables.
type MapTyped[K comparable, V any] struct {
	m sync.Map
}

// NewMapTyped returns a ready-to-use MapTyped[K, V].
func NewMapTyped[K comparable, V any]() *MapTyped[K, V] {
	return &MapTyped[K, V]{}
}

func (o *MapTyped[K, V]) Load(key K) (value V, ok bool) {
	v, found := o.m.Load(key)
	if !found {
		return value, false
	}
	return Cast[V](v)
}

func (o *MapTyped[K, V]) Store(key K, value V) {
	o.m.Store(key, value)
}

// LoadAndDelete atomically removes key and returns the value it held.
func (o *MapTyped[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	v, found := o.m.LoadAndDelete(key)
	if !found {
		return value, false
	}
	return Cast[V](v)
}

func (o *MapTyped[K, V]) Delete(key K) {
	o.m.Delete(key)
}

// Range iterates in no particular order, stopping early if f returns false.
func (o *MapTyped[K, V]) Range(f func(key K, value V) bool) {
	o.m.Range(func(key, value any) bool {
		k, kok := Cast[K](key)
		v, vok := Cast[V](value)
		if !kok || !vok {
			return true
		}
		return f(k, v)
	})
}

// Len counts entries by ranging; sync.Map has no O(1) length.
func (o *MapTyped[K, V]) Len() int {
	n := 0
	o.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
