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

package bytestream_test

import (
	"bytes"
	"testing"

	"github.com/nabbar/netkit/bytestream"
	liberr "github.com/nabbar/netkit/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBytestream(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "bytestream suite")
}

var _ = Describe("Endianness", func() {
	It("writes network order as big-endian on the wire", func() {
		s := bytestream.New()
		s.SetOrder(bytestream.Network)
		s.PutU32(0x01020304)
		Expect(s.Bytes()).To(Equal([]byte{0x01, 0x02, 0x03, 0x04}))
	})

	It("writes host order as little-endian on the wire", func() {
		s := bytestream.New()
		s.SetOrder(bytestream.Host)
		s.PutU32(0x01020304)
		Expect(s.Bytes()).To(Equal([]byte{0x04, 0x03, 0x02, 0x01}))
	})
})

var _ = Describe("TruncateLeft", func() {
	It("compacts consumed bytes and resets cursors", func() {
		s := bytestream.New()
		_, _ = s.Write([]byte("hello world"))
		_, _ = s.ReadNExported(6)
		s.TruncateLeft()
		Expect(s.ReadPos()).To(Equal(0))
		Expect(s.Bytes()).To(Equal([]byte("world")))
	})
})

var _ = Describe("SeekRead", func() {
	It("rejects a move past the write cursor", func() {
		s := bytestream.New()
		_, _ = s.Write([]byte("abc"))
		err := s.SeekRead(10)
		Expect(err).To(HaveOccurred())
		Expect(liberr.IsKind(err, liberr.AccessViolation)).To(BeTrue())
	})
})

var _ = Describe("ReadCString", func() {
	It("reads up to and past the terminating zero byte", func() {
		s := bytestream.New()
		_, _ = s.Write([]byte("abc\x00def"))
		v, err := s.ReadCString()
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("abc"))
		Expect(s.Bytes()).To(Equal([]byte("def")))
	})

	It("fails with AccessViolation when no terminator exists", func() {
		s := bytestream.New()
		_, _ = s.Write([]byte("abc"))
		_, err := s.ReadCString()
		Expect(err).To(HaveOccurred())
		Expect(liberr.IsKind(err, liberr.AccessViolation)).To(BeTrue())
	})
})

var _ = Describe("WriteStringPtr", func() {
	It("fails with NullPointer on a nil pointer", func() {
		s := bytestream.New()
		err := s.WriteStringPtr(nil)
		Expect(liberr.IsKind(err, liberr.NullPointer)).To(BeTrue())
	})
})

func TestReserveGrowthPolicy(t *testing.T) {
	s := bytestream.New()
	// force an initial allocation to establish an "old" capacity
	_, _ = s.Write(make([]byte, 10))
	before := s.Cap()

	// request growth far beyond old+1024 and old+old/16: n should win
	s.ReserveExported(before + 5000)
	if s.Cap() < before+5000 {
		t.Fatalf("Cap() = %d, want >= %d", s.Cap(), before+5000)
	}
}

func TestRoundTrip_AllTypes(t *testing.T) {
	for _, ord := range []bytestream.Order{bytestream.Host, bytestream.Network} {
		s := bytestream.New()
		s.SetOrder(ord)

		s.PutU8(0xAB)
		s.PutI8(-5)
		s.PutU16(0xBEEF)
		s.PutI16(-1234)
		s.PutU32(0xDEADBEEF)
		s.PutI32(-123456)
		s.PutU64(0x0102030405060708)
		s.PutI64(-9007199254740993)

		if v, err := s.GetU8(); err != nil || v != 0xAB {
			t.Fatalf("GetU8 = %v, %v", v, err)
		}
		if v, err := s.GetI8(); err != nil || v != -5 {
			t.Fatalf("GetI8 = %v, %v", v, err)
		}
		if v, err := s.GetU16(); err != nil || v != 0xBEEF {
			t.Fatalf("GetU16 = %v, %v", v, err)
		}
		if v, err := s.GetI16(); err != nil || v != -1234 {
			t.Fatalf("GetI16 = %v, %v", v, err)
		}
		if v, err := s.GetU32(); err != nil || v != 0xDEADBEEF {
			t.Fatalf("GetU32 = %v, %v", v, err)
		}
		if v, err := s.GetI32(); err != nil || v != -123456 {
			t.Fatalf("GetI32 = %v, %v", v, err)
		}
		if v, err := s.GetU64(); err != nil || v != 0x0102030405060708 {
			t.Fatalf("GetU64 = %v, %v", v, err)
		}
		if v, err := s.GetI64(); err != nil || v != -9007199254740993 {
			t.Fatalf("GetI64 = %v, %v", v, err)
		}
		if s.Len() != 0 {
			t.Fatalf("Len() = %d, want 0 after draining all puts", s.Len())
		}
	}
}

func TestWriteStream(t *testing.T) {
	a := bytestream.New()
	_, _ = a.Write([]byte("hello "))
	b := bytestream.New()
	_, _ = b.Write([]byte("world"))

	if err := a.WriteStream(b); err != nil {
		t.Fatalf("WriteStream: %v", err)
	}
	if !bytes.Equal(a.Bytes(), []byte("hello world")) {
		t.Fatalf("Bytes() = %q", a.Bytes())
	}
}
