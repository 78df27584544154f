package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sharetube/playerctl/internal/repository/session"
)

const sessionsKey = "sessions"

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
	logger         *slog.Logger
	// beforeWrite runs between the session id check and the write.
	beforeWrite func()
}

func NewRepo(rc *redis.Client, expireDuration time.Duration, logger *slog.Logger) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
		logger:         logger,
	}
}

func (r repo) getSessionKey(frameID string) string {
	return "session:" + frameID
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}

// SetSession replaces whatever was stored for the frame. A new session never
// inherits the playback state of the previous one.
func (r repo) SetSession(ctx context.Context, params *session.SetSessionParams) error {
	sessionKey := r.getSessionKey(params.FrameID)
	pipe := r.rc.TxPipeline()

	pipe.Del(ctx, sessionKey)
	pipe.HSet(ctx, sessionKey, session.Session{
		FrameID:   params.FrameID,
		VideoID:   params.VideoID,
		SessionID: params.SessionID,
		UpdatedAt: params.UpdatedAt.UnixMilli(),
	})
	pipe.Expire(ctx, sessionKey, r.expireDuration)
	pipe.SAdd(ctx, sessionsKey, params.FrameID)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

// UpdateSnapshot is ignored when the stored session has another session id,
// so a late update from a disposed client cannot overwrite its successor.
// The check and the write run under WATCH; a concurrent replace or removal
// of the session aborts the write.
func (r repo) UpdateSnapshot(ctx context.Context, params *session.UpdateSnapshotParams) error {
	sessionKey := r.getSessionKey(params.FrameID)

	err := r.rc.Watch(ctx, func(tx *redis.Tx) error {
		sessionID, err := tx.HGet(ctx, sessionKey, "session_id").Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return session.ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session id: %w", err)
		}

		if sessionID != params.SessionID {
			r.logger.DebugContext(ctx, "stale snapshot update skipped", "frame_id", params.FrameID)
			return nil
		}

		if r.beforeWrite != nil {
			r.beforeWrite()
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, sessionKey,
				"is_ready", params.IsReady,
				"is_playing", params.IsPlaying,
				"current_time", params.CurrentTime,
				"duration", params.Duration,
				"updated_at", params.UpdatedAt.UnixMilli(),
			)
			pipe.Expire(ctx, sessionKey, r.expireDuration)
			return nil
		})

		return err
	}, sessionKey)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			r.logger.DebugContext(ctx, "snapshot update lost to a session change", "frame_id", params.FrameID)
			return nil
		}
		if errors.Is(err, session.ErrSessionNotFound) {
			return err
		}
		return fmt.Errorf("failed to update snapshot: %w", err)
	}

	return nil
}

func (r repo) GetSession(ctx context.Context, frameID string) (session.Session, error) {
	sessionKey := r.getSessionKey(frameID)

	res := r.rc.HGetAll(ctx, sessionKey)
	if err := res.Err(); err != nil {
		return session.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	if len(res.Val()) == 0 {
		return session.Session{}, session.ErrSessionNotFound
	}

	var s session.Session
	if err := res.Scan(&s); err != nil {
		return session.Session{}, fmt.Errorf("failed to scan session: %w", err)
	}

	return s, nil
}

// GetSessions returns every live session. Expired entries are pruned from
// the index on the way.
func (r repo) GetSessions(ctx context.Context) ([]session.Session, error) {
	frameIDs, err := r.rc.SMembers(ctx, sessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session ids: %w", err)
	}

	sessions := make([]session.Session, 0, len(frameIDs))
	for _, frameID := range frameIDs {
		s, err := r.GetSession(ctx, frameID)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				r.rc.SRem(ctx, sessionsKey, frameID)
				continue
			}
			return nil, err
		}

		sessions = append(sessions, s)
	}

	return sessions, nil
}

func (r repo) RemoveSession(ctx context.Context, frameID string) error {
	sessionKey := r.getSessionKey(frameID)
	pipe := r.rc.TxPipeline()

	del := pipe.Del(ctx, sessionKey)
	pipe.SRem(ctx, sessionsKey, frameID)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	if del.Val() == 0 {
		return session.ErrSessionNotFound
	}

	return nil
}
