package background

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLogger() (logging.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogLogger(slog.New(h)), buf
}

func TestRunner_RunsAllTasks(t *testing.T) {
	log, _ := newLogger()
	r := NewRunner(log, time.Second)

	var n atomic.Int32
	for i := 0; i < 5; i++ {
		r.Go(context.Background(), "inc", func(context.Context) error {
			n.Add(1)
			return nil
		})
	}
	r.Wait()

	assert.Equal(t, int32(5), n.Load())
}

func TestRunner_OutlivesCallerContext(t *testing.T) {
	log, _ := newLogger()
	r := NewRunner(log, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var taskErr error

	r.Go(ctx, "detached", func(taskCtx context.Context) error {
		<-started
		taskErr = taskCtx.Err()
		return nil
	})
	cancel()
	close(started)
	r.Wait()

	require.NoError(t, taskErr)
}

func TestRunner_TimeoutApplies(t *testing.T) {
	log, _ := newLogger()
	r := NewRunner(log, 20*time.Millisecond)

	var taskErr error
	r.Go(context.Background(), "slow", func(taskCtx context.Context) error {
		<-taskCtx.Done()
		taskErr = taskCtx.Err()
		return taskErr
	})
	r.Wait()

	require.ErrorIs(t, taskErr, context.DeadlineExceeded)
}

func TestRunner_LogsFailuresAndPanics(t *testing.T) {
	log, buf := newLogger()
	r := NewRunner(log, time.Second)

	r.Go(context.Background(), "send-email", func(context.Context) error {
		return errors.New("smtp down")
	})
	r.Go(context.Background(), "explode", func(context.Context) error {
		panic("boom")
	})
	r.Wait()

	out := buf.String()
	assert.True(t, strings.Contains(out, "background task failed"), out)
	assert.True(t, strings.Contains(out, "smtp down"), out)
	assert.True(t, strings.Contains(out, "background task panicked"), out)
	assert.True(t, strings.Contains(out, "task=explode"), out)
}

func TestNewRunner_DefaultTimeout(t *testing.T) {
	log, _ := newLogger()
	r := NewRunner(log, 0)
	assert.Equal(t, DefaultTimeout, r.timeout)
}
