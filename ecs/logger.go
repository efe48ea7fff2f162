package ecs

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Logger captures structured log output from the world and scheduler. All
// core error conditions surface through this channel only; none of them
// terminate a tick.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return nopLogger{}
}

type logRecord struct {
	level string
	msg   string
	args  []any
}

// AsyncLogger writes formatted records from a background goroutine. Producers
// never block: when the buffer is full the record is dropped and counted.
type AsyncLogger struct {
	ch      chan logRecord
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	closed  bool
	dropped uint64
}

// NewAsyncLogger starts an async logger writing to out with the given buffer
// depth. Close flushes and stops the background goroutine.
func NewAsyncLogger(out io.Writer, buffer int) *AsyncLogger {
	if buffer <= 0 {
		buffer = 256
	}
	l := &AsyncLogger{
		ch:   make(chan logRecord, buffer),
		done: make(chan struct{}),
	}
	go l.drain(out)
	return l
}

func (l *AsyncLogger) drain(out io.Writer) {
	defer close(l.done)
	for rec := range l.ch {
		var b strings.Builder
		b.WriteString(rec.level)
		b.WriteByte(' ')
		b.WriteString(rec.msg)
		for i := 0; i+1 < len(rec.args); i += 2 {
			fmt.Fprintf(&b, " %v=%v", rec.args[i], rec.args[i+1])
		}
		b.WriteByte('\n')
		io.WriteString(out, b.String())
	}
}

func (l *AsyncLogger) log(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		l.dropped++
		return
	}
	select {
	case l.ch <- logRecord{level: level, msg: msg, args: args}:
	default:
		l.dropped++
	}
}

func (l *AsyncLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args) }
func (l *AsyncLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args) }
func (l *AsyncLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args) }

// Dropped returns how many records were discarded due to a full buffer.
func (l *AsyncLogger) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Close stops the background goroutine after flushing buffered records.
func (l *AsyncLogger) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		close(l.ch)
		<-l.done
	})
}
