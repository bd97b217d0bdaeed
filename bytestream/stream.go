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

package bytestream

import liberr "github.com/nabbar/netkit/errors"

// Stream is a growable binary buffer with independent read and write
// cursors and a configurable byte order for its typed accessors, usable
// standalone as a codec.
type Stream struct {
	buf []byte
	rd  int
	wr  int
	ord Order
}

// New returns an empty Stream using host byte order.
func New() *Stream {
	return &Stream{ord: Host}
}

// NewFromBytes returns a Stream pre-loaded with a copy of p, write cursor
// at len(p), read cursor at 0.
func NewFromBytes(p []byte) *Stream {
	s := New()
	_, _ = s.Write(p)
	return s
}

// SetOrder changes the byte order used by subsequent typed Put*/Get*
// operations. It does not affect bytes already written.
func (s *Stream) SetOrder(o Order) {
	s.ord = o
}

// Order returns the currently configured byte order.
func (s *Stream) Order() Order {
	return s.ord
}

// Len returns the number of unread bytes (write cursor minus read cursor).
func (s *Stream) Len() int {
	return s.wr - s.rd
}

// Cap returns the current buffer capacity.
func (s *Stream) Cap() int {
	return cap(s.buf)
}

// ReadPos returns the current read cursor.
func (s *Stream) ReadPos() int {
	return s.rd
}

// WritePos returns the current write cursor (total bytes written).
func (s *Stream) WritePos() int {
	return s.wr
}

// Bytes returns the unread portion of the buffer. The returned slice
// aliases the Stream's internal storage and must not be retained across a
// later mutation of the Stream.
func (s *Stream) Bytes() []byte {
	return s.buf[s.rd:s.wr]
}

// reserve grows the backing array so its capacity is at least n, following
// the policy: if already below capacity do nothing; otherwise grow to
// max(n, old+1024, old+old/16).
func (s *Stream) reserve(n int) {
	old := cap(s.buf)
	if n <= old {
		return
	}

	newCap := n
	if old+1024 > newCap {
		newCap = old + 1024
	}
	if old+old/16 > newCap {
		newCap = old + old/16
	}

	nb := make([]byte, len(s.buf), newCap)
	copy(nb, s.buf)
	s.buf = nb
}

// Write appends raw bytes to the stream, advancing the write cursor.
func (s *Stream) Write(p []byte) (int, error) {
	s.reserve(s.wr + len(p))
	s.buf = append(s.buf, p...)
	s.wr = len(s.buf)
	return len(p), nil
}

// WriteString appends a Go string's bytes to the stream.
func (s *Stream) WriteString(v string) (int, error) {
	return s.Write([]byte(v))
}

// WriteStringPtr appends the bytes of *v, mirroring the source contract
// where "<<" on a null string pointer raises NullPointer.
func (s *Stream) WriteStringPtr(v *string) error {
	if v == nil {
		return liberr.New(liberr.NullPointer, "nil string pointer passed to WriteStringPtr")
	}
	_, err := s.WriteString(*v)
	return err
}

// WriteStream appends the unread bytes of other into s, without consuming
// other's read cursor.
func (s *Stream) WriteStream(other *Stream) error {
	if other == nil {
		return liberr.New(liberr.NullPointer, "nil stream passed to WriteStream")
	}
	_, err := s.Write(other.Bytes())
	return err
}

// SeekRead moves the read cursor to an absolute position. It fails with
// AccessViolation if pos is negative or exceeds the write cursor.
func (s *Stream) SeekRead(pos int) error {
	if pos < 0 || pos > s.wr {
		return liberr.New(liberr.AccessViolation, "read cursor move past write cursor")
	}
	s.rd = pos
	return nil
}

// TruncateLeft compacts the buffer: bytes already consumed (before the
// read cursor) are dropped, the read cursor resets to 0 and the write
// cursor becomes the count of bytes that were still unread.
func (s *Stream) TruncateLeft() {
	if s.rd == 0 {
		return
	}
	n := copy(s.buf, s.buf[s.rd:s.wr])
	s.buf = s.buf[:n]
	s.wr = n
	s.rd = 0
}

// Reset empties the stream entirely, keeping the allocated capacity.
func (s *Stream) Reset() {
	s.buf = s.buf[:0]
	s.rd = 0
	s.wr = 0
}

func (s *Stream) readN(n int) ([]byte, error) {
	if s.rd+n > s.wr {
		return nil, liberr.New(liberr.AccessViolation, "read past write cursor")
	}
	p := s.buf[s.rd : s.rd+n]
	s.rd += n
	return p, nil
}

// ReadCString reads bytes from the read cursor up to (and past) the next
// zero byte, returning the string without the terminator. It fails with
// AccessViolation if no zero byte is found before the write cursor.
func (s *Stream) ReadCString() (string, error) {
	for i := s.rd; i < s.wr; i++ {
		if s.buf[i] == 0 {
			v := string(s.buf[s.rd:i])
			s.rd = i + 1
			return v, nil
		}
	}
	return "", liberr.New(liberr.AccessViolation, "no terminating zero byte before write cursor")
}
