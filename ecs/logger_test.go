package ecs_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/gridworld/ecs"
)

// lockedBuffer makes bytes.Buffer safe against the drain goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAsyncLoggerFormatsAndFlushes(t *testing.T) {
	out := &lockedBuffer{}
	l := ecs.NewAsyncLogger(out, 16)

	l.Info("entity created", "index", 3, "generation", 1)
	l.Warn("slow tick")
	l.Error("integrity check failed", "archetype", "{1 2}")
	l.Close()

	got := out.String()
	assert.Contains(t, got, "INFO entity created index=3 generation=1")
	assert.Contains(t, got, "WARN slow tick")
	assert.Contains(t, got, "ERROR integrity check failed")
	assert.Equal(t, 3, strings.Count(got, "\n"))
	assert.Zero(t, l.Dropped())
}

func TestAsyncLoggerDropsWhenFull(t *testing.T) {
	// A writer that blocks until released keeps the drain goroutine stuck on
	// the first record, so the buffer fills deterministically.
	release := make(chan struct{})
	blocking := writerFunc(func(p []byte) (int, error) {
		<-release
		return len(p), nil
	})

	l := ecs.NewAsyncLogger(blocking, 4)
	for i := 0; i < 32; i++ {
		l.Info("spam")
	}
	close(release)
	l.Close()

	require.NotZero(t, l.Dropped())
	assert.LessOrEqual(t, l.Dropped(), uint64(32-4))
}

func TestAsyncLoggerSafeAfterClose(t *testing.T) {
	out := &lockedBuffer{}
	l := ecs.NewAsyncLogger(out, 4)
	l.Close()
	l.Close()

	assert.NotPanics(t, func() { l.Info("late") })
	assert.Equal(t, uint64(1), l.Dropped())
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
