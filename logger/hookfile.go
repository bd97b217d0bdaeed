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
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	defaultLimitMiB = 10
	maxLimitMiB     = 2048
)

// hookFile is a size-rollover file sink: once the current file exceeds
// its size limit, a new file named "<module><yyyymmddhhmmss>.log" is
// opened and subsequent writes go there.
type hookFile struct {
	mu       sync.Mutex
	dir      string
	module   string
	limit    int64
	cur      *os.File
	curSize  int64
	lastBase string
	seq      int
}

func newHookFile(dir, module string, limitMiB int) (*hookFile, error) {
	if limitMiB <= 0 {
		limitMiB = defaultLimitMiB
	}
	if limitMiB > maxLimitMiB {
		limitMiB = maxLimitMiB
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	h := &hookFile{
		dir:    dir,
		module: module,
		limit:  int64(limitMiB) * 1024 * 1024,
	}
	if err := h.roll(); err != nil {
		return nil, err
	}
	return h, nil
}

// roll opens the next file. The base name is second-resolution
// ("<module><yyyymmddhhmmss>.log"), which two rollovers inside the same
// wall-clock second would otherwise collide on — lastBase/seq disambiguate
// that case with a monotonic per-process counter instead of silently
// reopening the previous file.
func (h *hookFile) roll() error {
	if h.cur != nil {
		_ = h.cur.Close()
	}

	base := time.Now().Format("20060102150405")
	if base == h.lastBase {
		h.seq++
	} else {
		h.lastBase = base
		h.seq = 0
	}

	var name string
	if h.seq == 0 {
		name = fmt.Sprintf("%s%s.log", h.module, base)
	} else {
		name = fmt.Sprintf("%s%s-%d.log", h.module, base, h.seq)
	}
	p := filepath.Join(h.dir, name)

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	h.cur = f
	h.curSize = 0
	return nil
}

// writeLine appends line (with a trailing newline) to the current file,
// rolling over first if the write would exceed the size limit.
func (h *hookFile) writeLine(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b := []byte(line)
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}

	if h.cur == nil {
		return
	}
	if h.curSize > 0 && h.curSize+int64(len(b)) > h.limit {
		if err := h.roll(); err != nil {
			return
		}
	}

	n, err := h.cur.Write(b)
	if err == nil {
		h.curSize += int64(n)
	}
}

// Close closes the currently open file.
func (h *hookFile) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cur == nil {
		return nil
	}
	err := h.cur.Close()
	h.cur = nil
	return err
}
