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
	"io"
	"log"

	"github.com/hashicorp/go-hclog"
	jww "github.com/spf13/jwalterweatherman"
)

// hclogAdapter lets code written against hashicorp/go-hclog log through
// a Logger, for libraries (Consul/Vault-style clients, Terraform
// plugins) that take an hclog.Logger as their only logging seam.
type hclogAdapter struct {
	l    *Logger
	name string
}

// AsHCLog wraps l as an hclog.Logger.
func (l *Logger) AsHCLog() hclog.Logger {
	return &hclogAdapter{l: l}
}

func (h *hclogAdapter) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.NoLevel, hclog.Off:
		return
	case hclog.Trace:
		h.l.Trace(msg, args)
	case hclog.Debug:
		h.l.Debug(msg, args)
	case hclog.Info:
		h.l.Info(msg, args)
	case hclog.Warn:
		h.l.Warn(msg, args)
	case hclog.Error:
		h.l.Error(msg, args)
	}
}

func (h *hclogAdapter) Trace(msg string, args ...interface{}) { h.l.Trace(msg, args) }
func (h *hclogAdapter) Debug(msg string, args ...interface{}) { h.l.Debug(msg, args) }
func (h *hclogAdapter) Info(msg string, args ...interface{})  { h.l.Info(msg, args) }
func (h *hclogAdapter) Warn(msg string, args ...interface{})  { h.l.Warn(msg, args) }
func (h *hclogAdapter) Error(msg string, args ...interface{}) { h.l.Error(msg, args) }

func (h *hclogAdapter) IsTrace() bool { return true }
func (h *hclogAdapter) IsDebug() bool { return true }
func (h *hclogAdapter) IsInfo() bool  { return true }
func (h *hclogAdapter) IsWarn() bool  { return true }
func (h *hclogAdapter) IsError() bool { return true }

func (h *hclogAdapter) ImpliedArgs() []interface{} { return nil }
func (h *hclogAdapter) With(args ...interface{}) hclog.Logger {
	return h
}
func (h *hclogAdapter) Name() string { return h.name }
func (h *hclogAdapter) Named(name string) hclog.Logger {
	return &hclogAdapter{l: h.l, name: name}
}
func (h *hclogAdapter) ResetNamed(name string) hclog.Logger {
	return h.Named(name)
}
func (h *hclogAdapter) SetLevel(level hclog.Level) {}
func (h *hclogAdapter) GetLevel() hclog.Level      { return hclog.Info }
func (h *hclogAdapter) StandardLogger(opts *hclog.StandardLoggerOpts) *log.Logger {
	return log.New(h.StandardWriter(opts), "", 0)
}
func (h *hclogAdapter) StandardWriter(opts *hclog.StandardLoggerOpts) io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		h.l.Info(trimNL(string(p)))
		return len(p), nil
	})
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// SetJWW configures the global jwalterweatherman logger (the logging
// facade Cobra, Hugo, and Viper write through) to deliver its output
// through l at the given minimum level. lvl == NilLevel silences it.
func (l *Logger) SetJWW(lvl Level) {
	if lvl == NilLevel {
		jww.SetLogThreshold(jww.LevelCritical)
		jww.SetStdoutThreshold(jww.LevelCritical)
		jww.SetLogOutput(io.Discard)
		return
	}

	jww.SetLogOutput(writerFunc(func(p []byte) (int, error) {
		l.Info(trimNL(string(p)))
		return len(p), nil
	}))
	jww.SetStdoutThreshold(jww.LevelCritical)

	switch lvl {
	case DebugLevel, TraceLevel:
		jww.SetLogThreshold(jww.LevelTrace)
	case InfoLevel:
		jww.SetLogThreshold(jww.LevelInfo)
	case WarnLevel:
		jww.SetLogThreshold(jww.LevelWarn)
	case ErrorLevel:
		jww.SetLogThreshold(jww.LevelError)
	case FatalLevel:
		jww.SetLogThreshold(jww.LevelFatal)
	default:
		jww.SetLogThreshold(jww.LevelError)
	}
}

func trimNL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
