package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/store"
)

type fakePruner struct {
	before time.Time
	n      int64
	err    error
}

func (f *fakePruner) PruneLLMEvents(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return f.n, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce_UsesRetentionCutoff(t *testing.T) {
	p := &fakePruner{n: 3}
	s := New(p, Config{Retention: 48 * time.Hour, At: "03:00"}, quietLogger())
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, now.Add(-48*time.Hour), p.before)
}

func TestRunOnce_WrapsError(t *testing.T) {
	p := &fakePruner{err: errors.New("locked")}
	s := New(p, Config{Retention: time.Hour, At: "03:00"}, quietLogger())

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, p.err)
}

func TestRunOnce_AgainstStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	repo := st.EventRepo()
	require.NoError(t, repo.AppendLLMRequest(ctx, store.LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "chat", Success: true}))

	s := New(repo, Config{Retention: time.Hour, At: "03:00"}, quietLogger())
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	n, err := s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	events, err := repo.QueryLLMEvents(ctx, store.QueryOpts{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStartStop(t *testing.T) {
	s := New(&fakePruner{}, Config{Retention: time.Hour, At: "03:00"}, quietLogger())
	require.NoError(t, s.Start())
	s.Stop()

	bad := New(&fakePruner{}, Config{Retention: time.Hour, At: "25:99"}, quietLogger())
	assert.Error(t, bad.Start())
}
