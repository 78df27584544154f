package session

import (
	"context"

	"github.com/sharetube/playerctl/internal/player"
)

type SeekParams struct {
	FrameID string
	Time    float64
}

func (s *service) Seek(ctx context.Context, params *SeekParams) (player.Snapshot, error) {
	a, err := s.getAttachment(params.FrameID)
	if err != nil {
		return player.Snapshot{}, err
	}

	a.client.Seek(ctx, params.Time)

	return a.client.Snapshot(), nil
}

func (s *service) SkipForward(ctx context.Context, frameID string) (player.Snapshot, error) {
	a, err := s.getAttachment(frameID)
	if err != nil {
		return player.Snapshot{}, err
	}

	a.client.SkipForward(ctx)

	return a.client.Snapshot(), nil
}

func (s *service) SkipBackward(ctx context.Context, frameID string) (player.Snapshot, error) {
	a, err := s.getAttachment(frameID)
	if err != nil {
		return player.Snapshot{}, err
	}

	a.client.SkipBackward(ctx)

	return a.client.Snapshot(), nil
}

func (s *service) PlayPause(ctx context.Context, frameID string) (player.Snapshot, error) {
	a, err := s.getAttachment(frameID)
	if err != nil {
		return player.Snapshot{}, err
	}

	a.client.PlayPause(ctx)

	return a.client.Snapshot(), nil
}

type SetVolumeParams struct {
	FrameID string
	Volume  int
}

func (s *service) SetVolume(ctx context.Context, params *SetVolumeParams) error {
	a, err := s.getAttachment(params.FrameID)
	if err != nil {
		return err
	}

	a.client.SetVolume(ctx, params.Volume)

	return nil
}

func (s *service) Mute(ctx context.Context, frameID string) error {
	a, err := s.getAttachment(frameID)
	if err != nil {
		return err
	}

	a.client.Mute(ctx)

	return nil
}

func (s *service) Unmute(ctx context.Context, frameID string) error {
	a, err := s.getAttachment(frameID)
	if err != nil {
		return err
	}

	a.client.Unmute(ctx)

	return nil
}
