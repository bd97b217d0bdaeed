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

// Package bytestream provides the byte-order swap helpers and the growable
// binary Stream, a standalone codec for reading and writing typed values
// in a chosen byte order. The socket packages do not use it.
package bytestream

// Order selects the byte order a Stream uses for its typed Put*/Get*
// operations. Host leaves values untouched (this runtime targets
// little-endian hosts); Network swaps every multi-byte value on put and
// get, matching wire/network byte order.
type Order uint8

const (
	// Host is the platform's native order; the default for a new Stream.
	Host Order = iota
	// Network forces big-endian (network byte order) regardless of host.
	Network
)

func (o Order) String() string {
	if o == Network {
		return "network"
	}
	return "host"
}

// Swap16 byte-swaps a 16-bit value (host <-> network).
func Swap16(v uint16) uint16 {
	return v<<8 | v>>8
}

// Swap32 byte-swaps a 32-bit value (host <-> network).
func Swap32(v uint32) uint32 {
	return (v&0x000000FF)<<24 |
		(v&0x0000FF00)<<8 |
		(v&0x00FF0000)>>8 |
		(v&0xFF000000)>>24
}

// Swap64 byte-swaps a 64-bit value (host <-> network).
func Swap64(v uint64) uint64 {
	return (v&0x00000000000000FF)<<56 |
		(v&0x000000000000FF00)<<40 |
		(v&0x0000000000FF0000)<<24 |
		(v&0x00000000FF000000)<<8 |
		(v&0x000000FF00000000)>>8 |
		(v&0x0000FF0000000000)>>24 |
		(v&0x00FF000000000000)>>40 |
		(v&0xFF00000000000000)>>56
}
