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
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the leveled, optionally asynchronous logger the socket
// runtime and its facades log through.
type Logger struct {
	mu  sync.Mutex
	log *logrus.Logger

	fileHook    *hookFile
	consoleHook *hookConsole
	async       *asyncBuffer
	hooked      bool
}

// New returns a Logger at InfoLevel with no sinks attached. Attach
// AddFile and/or AddConsole before logging.
func New() *Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	l.SetLevel(InfoLevel.Logrus())
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{log: l}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// SetLevel changes the minimum severity that reaches any sink.
func (l *Logger) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.SetLevel(lvl.Logrus())
}

// WithField returns an entry carrying one structured field.
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.log.WithField(key, value)
}

// WithFields returns an entry carrying several structured fields.
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.log.WithFields(fields)
}

func (l *Logger) Tracef(format string, args ...interface{}) { l.log.Tracef(format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.log.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log.Errorf(format, args...) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.log.Errorf(format, args...) }

func (l *Logger) Trace(args ...interface{}) { l.log.Trace(args...) }
func (l *Logger) Debug(args ...interface{}) { l.log.Debug(args...) }
func (l *Logger) Info(args ...interface{})  { l.log.Info(args...) }
func (l *Logger) Warn(args ...interface{})  { l.log.Warn(args...) }
func (l *Logger) Error(args ...interface{}) { l.log.Error(args...) }
func (l *Logger) Fatal(args ...interface{}) { l.log.Error(args...) }

// AddConsole attaches a colorized stdout/stderr sink, replacing any
// previous one.
func (l *Logger) AddConsole() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.consoleHook = newHookConsole()
	l.ensureHook()
}

// AddFile attaches a size-rollover file sink rooted at dir, using module
// as the rolled-file name prefix and limitMiB (capped at 2048, default
// 10 when <= 0) as the per-file size limit.
func (l *Logger) AddFile(dir, module string, limitMiB int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	h, err := newHookFile(dir, module, limitMiB)
	if err != nil {
		return err
	}
	l.fileHook = h
	l.ensureHook()
	return nil
}

// ensureHook registers the single dispatch hook the first time a sink is
// attached; every later sink reuses it, since writeSinks fans out to
// whichever sinks are set at fire time.
func (l *Logger) ensureHook() {
	if l.hooked {
		return
	}
	l.hooked = true
	l.log.AddHook(&dispatchHook{l: l})
}

// SetAsync switches between synchronous (write-inline-under-mutex) and
// asynchronous (double-buffered, swapped every 100ms) delivery to the
// attached sinks.
func (l *Logger) SetAsync(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if on && l.async == nil {
		l.async = newAsyncBuffer(l.writeSinks)
		l.async.start()
	} else if !on && l.async != nil {
		l.async.stop()
		l.async = nil
	}
}

// Flush blocks until every entry queued so far (in async mode) has been
// delivered to the attached sinks. It is a no-op in synchronous mode.
func (l *Logger) Flush() {
	l.mu.Lock()
	a := l.async
	l.mu.Unlock()
	if a != nil {
		a.flush()
	}
}

// writeSinks delivers one formatted line to every attached sink.
func (l *Logger) writeSinks(lvl Level, line string) {
	if l.fileHook != nil {
		l.fileHook.writeLine(line)
	}
	if l.consoleHook != nil {
		l.consoleHook.writeLine(lvl, line)
	}
}

type dispatchHook struct {
	l *Logger
}

func (h *dispatchHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *dispatchHook) Fire(e *logrus.Entry) error {
	line, err := e.String()
	if err != nil {
		return err
	}

	lvl := fromLogrus(e.Level)

	h.l.mu.Lock()
	a := h.l.async
	h.l.mu.Unlock()

	if a != nil {
		a.post(lvl, line)
	} else {
		h.l.writeSinks(lvl, line)
	}
	return nil
}

func fromLogrus(l logrus.Level) Level {
	switch l {
	case logrus.FatalLevel, logrus.PanicLevel:
		return FatalLevel
	case logrus.ErrorLevel:
		return ErrorLevel
	case logrus.WarnLevel:
		return WarnLevel
	case logrus.InfoLevel:
		return InfoLevel
	case logrus.DebugLevel:
		return DebugLevel
	case logrus.TraceLevel:
		return TraceLevel
	default:
		return InfoLevel
	}
}
