package cron

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
	done    chan struct{}
}

func (r *recordingStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	r.cutoffs = append(r.cutoffs, cutoff)
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
	return r.deleted, r.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweepUsesTTLCutoff(t *testing.T) {
	store := &recordingStore{deleted: 3}
	s := NewScheduler(store, 90, "0 3 * * *", quietLogger())

	fixed := time.Date(2025, 12, 21, 3, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.sweep()

	require.Len(t, store.cutoffs, 1)
	assert.Equal(t, fixed.Add(-90*24*time.Hour), store.cutoffs[0])
}

func TestSweepErrorDoesNotPanic(t *testing.T) {
	store := &recordingStore{err: errors.New("connection refused")}
	s := NewScheduler(store, 30, "0 3 * * *", quietLogger())

	assert.NotPanics(t, s.sweep)
	assert.Len(t, store.cutoffs, 1)
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(&recordingStore{}, 90, "not a cron spec", quietLogger())
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler(&recordingStore{}, 90, "0 3 * * *", quietLogger())
	require.NoError(t, s.Start())

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRunNow(t *testing.T) {
	store := &recordingStore{done: make(chan struct{})}
	s := NewScheduler(store, 90, "0 3 * * *", quietLogger())

	s.RunNow()

	select {
	case <-store.done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not run")
	}
}
