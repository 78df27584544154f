package session

import (
	"context"
	"fmt"
)

func (s *service) GetState(_ context.Context, frameID string) (State, error) {
	a, err := s.getAttachment(frameID)
	if err != nil {
		return State{}, err
	}

	return State{
		FrameID:  frameID,
		VideoID:  a.client.VideoID(),
		Snapshot: a.client.Snapshot(),
	}, nil
}

// GetSessions lists the sessions mirrored by every process sharing the store.
func (s *service) GetSessions(ctx context.Context) ([]Session, error) {
	stored, err := s.sessionRepo.GetSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	sessions := make([]Session, 0, len(stored))
	for _, ss := range stored {
		sessions = append(sessions, Session{
			FrameID:     ss.FrameID,
			VideoID:     ss.VideoID,
			IsReady:     ss.IsReady,
			IsPlaying:   ss.IsPlaying,
			CurrentTime: ss.CurrentTime,
			Duration:    ss.Duration,
			UpdatedAt:   ss.UpdatedAt,
		})
	}

	return sessions, nil
}
