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

// This file implements the typed Put/Get accessors. The host platform
// this runtime targets is little-endian; values are stored little-endian
// on the wire when Order() == Host, and swapped to big-endian when
// Order() == Network. The 8-bit accessors never swap.

func (s *Stream) PutU8(v uint8) {
	_, _ = s.Write([]byte{v})
}

func (s *Stream) PutI8(v int8) {
	s.PutU8(uint8(v))
}

func (s *Stream) PutU16(v uint16) {
	if s.ord == Network {
		v = Swap16(v)
	}
	_, _ = s.Write([]byte{byte(v), byte(v >> 8)})
}

func (s *Stream) PutI16(v int16) {
	s.PutU16(uint16(v))
}

func (s *Stream) PutU32(v uint32) {
	if s.ord == Network {
		v = Swap32(v)
	}
	_, _ = s.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func (s *Stream) PutI32(v int32) {
	s.PutU32(uint32(v))
}

func (s *Stream) PutU64(v uint64) {
	if s.ord == Network {
		v = Swap64(v)
	}
	_, _ = s.Write([]byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	})
}

func (s *Stream) PutI64(v int64) {
	s.PutU64(uint64(v))
}

func (s *Stream) GetU8() (uint8, error) {
	p, err := s.readN(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (s *Stream) GetI8() (int8, error) {
	v, err := s.GetU8()
	return int8(v), err
}

func (s *Stream) GetU16() (uint16, error) {
	p, err := s.readN(2)
	if err != nil {
		return 0, err
	}
	v := uint16(p[0]) | uint16(p[1])<<8
	if s.ord == Network {
		v = Swap16(v)
	}
	return v, nil
}

func (s *Stream) GetI16() (int16, error) {
	v, err := s.GetU16()
	return int16(v), err
}

func (s *Stream) GetU32() (uint32, error) {
	p, err := s.readN(4)
	if err != nil {
		return 0, err
	}
	v := uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
	if s.ord == Network {
		v = Swap32(v)
	}
	return v, nil
}

func (s *Stream) GetI32() (int32, error) {
	v, err := s.GetU32()
	return int32(v), err
}

func (s *Stream) GetU64() (uint64, error) {
	p, err := s.readN(8)
	if err != nil {
		return 0, err
	}
	v := uint64(p[0]) | uint64(p[1])<<8 | uint64(p[2])<<16 | uint64(p[3])<<24 |
		uint64(p[4])<<32 | uint64(p[5])<<40 | uint64(p[6])<<48 | uint64(p[7])<<56
	if s.ord == Network {
		v = Swap64(v)
	}
	return v, nil
}

func (s *Stream) GetI64() (int64, error) {
	v, err := s.GetU64()
	return int64(v), err
}
