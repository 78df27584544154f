package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sharetube/playerctl/internal/player"
	"github.com/sharetube/playerctl/internal/repository/frame"
	"github.com/sharetube/playerctl/internal/repository/session"
	"github.com/sharetube/playerctl/pkg/msgchannel"
)

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

func (s *service) getAttachment(frameID string) (*attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attachments[frameID]
	if !ok {
		return nil, ErrFrameNotFound
	}

	return a, nil
}

// attach builds a fresh client for the frame and records its session.
func (s *service) attach(ctx context.Context, f *frame.Frame, token, videoID string) (*attachment, error) {
	a := &attachment{
		frame:     f,
		token:     token,
		sessionID: s.generator.NewID(),
	}

	logger := s.logger.With("frame_id", f.ID())
	a.channel = msgchannel.Open(s.bus, token, f, logger)
	a.client = player.NewClient(a.channel, videoID, &player.Config{
		PollInterval: s.cfg.PollInterval,
		SkipOffset:   s.cfg.SkipOffset,
		Classifier:   player.MagnitudeClassifier{Threshold: s.durationThreshold()},
		OnChange: func(snapshot player.Snapshot) {
			s.mirror(f.ID(), a.sessionID, snapshot)
		},
	}, logger)

	if err := s.sessionRepo.SetSession(ctx, &session.SetSessionParams{
		FrameID:   f.ID(),
		VideoID:   videoID,
		SessionID: a.sessionID,
		UpdatedAt: time.Now(),
	}); err != nil {
		a.client.Close()
		return nil, fmt.Errorf("failed to set session: %w", err)
	}

	return a, nil
}

func (s *service) durationThreshold() float64 {
	if s.cfg.DurationThreshold > 0 {
		return s.cfg.DurationThreshold
	}

	return player.DefaultDurationThreshold
}

func (s *service) mirror(frameID, sessionID string, snapshot player.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.MirrorTimeout)
	defer cancel()

	if err := s.sessionRepo.UpdateSnapshot(ctx, &session.UpdateSnapshotParams{
		FrameID:     frameID,
		SessionID:   sessionID,
		IsReady:     snapshot.IsReady,
		IsPlaying:   snapshot.IsPlaying,
		CurrentTime: snapshot.CurrentTime,
		Duration:    snapshot.Duration,
		UpdatedAt:   time.Now(),
	}); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		s.logger.WarnContext(ctx, "failed to mirror snapshot", "frame_id", frameID, "error", err)
	}
}
