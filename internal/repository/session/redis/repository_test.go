package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/playerctl/internal/repository/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*repo, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	t.Cleanup(func() { rc.Close() })

	return NewRepo(rc, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil))), s
}

func TestSessionLifecycle(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)

	require.NoError(t, r.SetSession(ctx, &session.SetSessionParams{
		FrameID:   "left",
		VideoID:   "abc",
		SessionID: "t1",
		UpdatedAt: now,
	}))

	s, err := r.GetSession(ctx, "left")
	require.NoError(t, err)
	assert.Equal(t, session.Session{
		FrameID:   "left",
		VideoID:   "abc",
		SessionID: "t1",
		UpdatedAt: now.UnixMilli(),
	}, s)

	require.NoError(t, r.UpdateSnapshot(ctx, &session.UpdateSnapshotParams{
		FrameID:     "left",
		SessionID:   "t1",
		IsReady:     true,
		IsPlaying:   true,
		CurrentTime: 12.5,
		Duration:    600,
		UpdatedAt:   now.Add(time.Second),
	}))

	s, err = r.GetSession(ctx, "left")
	require.NoError(t, err)
	assert.True(t, s.IsReady)
	assert.True(t, s.IsPlaying)
	assert.Equal(t, 12.5, s.CurrentTime)
	assert.Equal(t, 600.0, s.Duration)

	sessions, err := r.GetSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	require.NoError(t, r.RemoveSession(ctx, "left"))
	assert.ErrorIs(t, r.RemoveSession(ctx, "left"), session.ErrSessionNotFound)
	_, err = r.GetSession(ctx, "left")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSetSessionDiscardsPreviousState(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetSession(ctx, &session.SetSessionParams{FrameID: "f", VideoID: "abc", SessionID: "t1", UpdatedAt: time.Now()}))
	require.NoError(t, r.UpdateSnapshot(ctx, &session.UpdateSnapshotParams{FrameID: "f", SessionID: "t1", IsReady: true, CurrentTime: 30, Duration: 60, UpdatedAt: time.Now()}))

	require.NoError(t, r.SetSession(ctx, &session.SetSessionParams{FrameID: "f", VideoID: "xyz", SessionID: "t2", UpdatedAt: time.Now()}))

	// a late update from the disposed client
	require.NoError(t, r.UpdateSnapshot(ctx, &session.UpdateSnapshotParams{FrameID: "f", SessionID: "t1", IsReady: true, CurrentTime: 45, Duration: 60, UpdatedAt: time.Now()}))

	s, err := r.GetSession(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, "xyz", s.VideoID)
	assert.False(t, s.IsReady)
	assert.Equal(t, 0.0, s.CurrentTime)
	assert.Equal(t, 0.0, s.Duration)
}

func TestUpdateSnapshotLosesToConcurrentReplace(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetSession(ctx, &session.SetSessionParams{FrameID: "f", VideoID: "abc", SessionID: "t1", UpdatedAt: time.Now()}))

	// the session is replaced after the id check passed
	r.beforeWrite = func() {
		require.NoError(t, r.SetSession(ctx, &session.SetSessionParams{FrameID: "f", VideoID: "xyz", SessionID: "t2", UpdatedAt: time.Now()}))
	}
	require.NoError(t, r.UpdateSnapshot(ctx, &session.UpdateSnapshotParams{FrameID: "f", SessionID: "t1", IsReady: true, CurrentTime: 45, Duration: 60, UpdatedAt: time.Now()}))

	s, err := r.GetSession(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, "t2", s.SessionID)
	assert.False(t, s.IsReady)
	assert.Equal(t, 0.0, s.CurrentTime)
	assert.Equal(t, 0.0, s.Duration)
}

func TestUpdateSnapshotLosesToConcurrentRemove(t *testing.T) {
	r, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetSession(ctx, &session.SetSessionParams{FrameID: "f", VideoID: "abc", SessionID: "t1", UpdatedAt: time.Now()}))

	r.beforeWrite = func() {
		require.NoError(t, r.RemoveSession(ctx, "f"))
	}
	require.NoError(t, r.UpdateSnapshot(ctx, &session.UpdateSnapshotParams{FrameID: "f", SessionID: "t1", IsReady: true, CurrentTime: 45, UpdatedAt: time.Now()}))

	assert.False(t, mr.Exists("session:f"), "a removed session must not be recreated")
}

func TestExpiredSessionsArePruned(t *testing.T) {
	r, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetSession(ctx, &session.SetSessionParams{FrameID: "f", VideoID: "abc", SessionID: "t1", UpdatedAt: time.Now()}))
	mr.FastForward(2 * time.Minute)

	sessions, err := r.GetSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	assert.ErrorIs(t, r.UpdateSnapshot(ctx, &session.UpdateSnapshotParams{FrameID: "f", SessionID: "t1"}), session.ErrSessionNotFound)
}
