package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sharetube/playerctl/internal/player"
	"github.com/sharetube/playerctl/internal/service/session"
)

type EmptyInput struct{}

func (c controller) writeState(ctx context.Context, conn *websocket.Conn) error {
	state, err := c.sessionService.GetState(ctx, c.getFrameIDFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to get state: %w", err)
	}

	return c.writeToConn(ctx, conn, &Output{
		Type:    "STATE",
		Payload: state,
	})
}

// writeSnapshot replies with the snapshot a control call returned, so the
// reply reflects the predicted values set by that call.
func (c controller) writeSnapshot(ctx context.Context, conn *websocket.Conn, snapshot player.Snapshot) error {
	state, err := c.sessionService.GetState(ctx, c.getFrameIDFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to get state: %w", err)
	}
	state.Snapshot = snapshot

	return c.writeToConn(ctx, conn, &Output{
		Type:    "STATE",
		Payload: state,
	})
}

func (c controller) handleGetState(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	return c.writeState(ctx, conn)
}

type SeekInput struct {
	Time *float64 `json:"time" validate:"required"`
}

func (c controller) handleSeek(ctx context.Context, conn *websocket.Conn, input SeekInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	snapshot, err := c.sessionService.Seek(ctx, &session.SeekParams{
		FrameID: c.getFrameIDFromCtx(ctx),
		Time:    *input.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	return c.writeSnapshot(ctx, conn, snapshot)
}

func (c controller) handleSkipForward(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	snapshot, err := c.sessionService.SkipForward(ctx, c.getFrameIDFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to skip forward: %w", err)
	}

	return c.writeSnapshot(ctx, conn, snapshot)
}

func (c controller) handleSkipBackward(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	snapshot, err := c.sessionService.SkipBackward(ctx, c.getFrameIDFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to skip backward: %w", err)
	}

	return c.writeSnapshot(ctx, conn, snapshot)
}

func (c controller) handlePlayPause(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	snapshot, err := c.sessionService.PlayPause(ctx, c.getFrameIDFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to toggle playback: %w", err)
	}

	return c.writeSnapshot(ctx, conn, snapshot)
}

type SetVolumeInput struct {
	Volume *int `json:"volume" validate:"required,gte=0,lte=100"`
}

func (c controller) handleSetVolume(ctx context.Context, conn *websocket.Conn, input SetVolumeInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.sessionService.SetVolume(ctx, &session.SetVolumeParams{
		FrameID: c.getFrameIDFromCtx(ctx),
		Volume:  *input.Volume,
	}); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	return c.writeState(ctx, conn)
}

func (c controller) handleMute(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	if err := c.sessionService.Mute(ctx, c.getFrameIDFromCtx(ctx)); err != nil {
		return fmt.Errorf("failed to mute: %w", err)
	}

	return c.writeState(ctx, conn)
}

func (c controller) handleUnmute(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	if err := c.sessionService.Unmute(ctx, c.getFrameIDFromCtx(ctx)); err != nil {
		return fmt.Errorf("failed to unmute: %w", err)
	}

	return c.writeState(ctx, conn)
}

type LoadVideoInput struct {
	VideoID string `json:"video_id" validate:"required,max=64"`
}

func (c controller) handleLoadVideo(ctx context.Context, conn *websocket.Conn, input LoadVideoInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	snapshot, err := c.sessionService.LoadVideo(ctx, &session.LoadVideoParams{
		FrameID: c.getFrameIDFromCtx(ctx),
		VideoID: input.VideoID,
	})
	if err != nil {
		return fmt.Errorf("failed to load video: %w", err)
	}

	return c.writeSnapshot(ctx, conn, snapshot)
}
