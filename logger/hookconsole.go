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
	"os"
	"sync"

	"github.com/fatih/color"
)

// hookConsole writes entries to stdout (or stderr for Warn/Error/Fatal),
// colorized by level.
type hookConsole struct {
	mu     sync.Mutex
	colors map[Level]*color.Color
}

func newHookConsole() *hookConsole {
	return &hookConsole{
		colors: map[Level]*color.Color{
			FatalLevel: color.New(color.FgHiRed, color.Bold),
			ErrorLevel: color.New(color.FgRed),
			WarnLevel:  color.New(color.FgYellow),
			InfoLevel:  color.New(color.FgGreen),
			DebugLevel: color.New(color.FgCyan),
			TraceLevel: color.New(color.FgWhite),
		},
	}
}

func (h *hookConsole) writeLine(lvl Level, line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := os.Stdout
	if lvl == FatalLevel || lvl == ErrorLevel || lvl == WarnLevel {
		out = os.Stderr
	}

	c := h.colors[lvl]
	if c == nil {
		_, _ = out.WriteString(line + "\n")
		return
	}
	_, _ = c.Fprintln(out, line)
}
