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

package logger

import (
	"fmt"
	"strings"
)

// MaxLogInfoSize bounds how many bytes HexDump will render, regardless
// of how much of p is supplied.
const MaxLogInfoSize = 4096

// HexDumpOptions controls HexDump's layout.
type HexDumpOptions struct {
	BytesPerLine int
	Spacing      bool // insert a space between each byte pair
}

// DefaultHexDumpOptions matches the source's default 16-bytes-per-line,
// space-separated layout.
func DefaultHexDumpOptions() HexDumpOptions {
	return HexDumpOptions{BytesPerLine: 16, Spacing: true}
}

// HexDump renders up to MaxLogInfoSize bytes of p as a hex dump with an
// ASCII gutter, truncating silently beyond that bound.
func HexDump(p []byte, opt HexDumpOptions) string {
	if opt.BytesPerLine <= 0 {
		opt.BytesPerLine = 16
	}
	if len(p) > MaxLogInfoSize {
		p = p[:MaxLogInfoSize]
	}

	var sb strings.Builder
	for off := 0; off < len(p); off += opt.BytesPerLine {
		end := off + opt.BytesPerLine
		if end > len(p) {
			end = len(p)
		}
		line := p[off:end]

		fmt.Fprintf(&sb, "%08x  ", off)
		for i := 0; i < opt.BytesPerLine; i++ {
			if i < len(line) {
				fmt.Fprintf(&sb, "%02x", line[i])
			} else {
				sb.WriteString("  ")
			}
			if opt.Spacing {
				sb.WriteByte(' ')
			}
		}

		sb.WriteString(" |")
		for _, b := range line {
			if b >= 0x20 && b < 0x7f {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
