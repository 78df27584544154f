package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sharetube/playerctl/internal/player"
	"github.com/sharetube/playerctl/internal/repository/frame"
	"github.com/sharetube/playerctl/internal/repository/session"
)

type ConnectFrameParams struct {
	Conn    *websocket.Conn
	FrameID string
	VideoID string
}

type ConnectFrameResponse struct {
	// Token identifies messages read from this frame on the bus.
	Token string
}

func (s *service) ConnectFrame(ctx context.Context, params *ConnectFrameParams) (ConnectFrameResponse, error) {
	f, err := s.frameRepo.Add(params.Conn, params.FrameID)
	if err != nil {
		if errors.Is(err, frame.ErrAlreadyExists) {
			return ConnectFrameResponse{}, ErrFrameInUse
		}
		return ConnectFrameResponse{}, fmt.Errorf("failed to add frame: %w", err)
	}

	token := s.generator.NewID()
	a, err := s.attach(ctx, f, token, params.VideoID)
	if err != nil {
		s.frameRepo.Remove(params.FrameID)
		return ConnectFrameResponse{}, fmt.Errorf("failed to attach client: %w", err)
	}

	s.mu.Lock()
	s.attachments[params.FrameID] = a
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "frame connected", "frame_id", params.FrameID, "video_id", params.VideoID)

	return ConnectFrameResponse{Token: token}, nil
}

// DisconnectFrame disposes the frame's client and forgets the frame.
func (s *service) DisconnectFrame(ctx context.Context, frameID string) error {
	s.mu.Lock()
	a, ok := s.attachments[frameID]
	delete(s.attachments, frameID)
	s.mu.Unlock()

	if ok {
		a.client.Close()
	}

	if err := s.frameRepo.Remove(frameID); err != nil {
		if !errors.Is(err, frame.ErrNotFound) {
			return fmt.Errorf("failed to remove frame: %w", err)
		}
		if !ok {
			return ErrFrameNotFound
		}
	}

	if err := s.sessionRepo.RemoveSession(ctx, frameID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	s.logger.InfoContext(ctx, "frame disconnected", "frame_id", frameID)

	return nil
}

type LoadVideoParams struct {
	FrameID string
	VideoID string
}

// LoadVideo switches the frame to another video. The current client is
// closed before its replacement exists; no state carries over. The bridge
// is asked to recreate the player, whose onReady makes the new client ready.
func (s *service) LoadVideo(ctx context.Context, params *LoadVideoParams) (player.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.attachments[params.FrameID]
	if !ok {
		return player.Snapshot{}, ErrFrameNotFound
	}

	old.client.Close()
	delete(s.attachments, params.FrameID)

	a, err := s.attach(ctx, old.frame, old.token, params.VideoID)
	if err != nil {
		return player.Snapshot{}, fmt.Errorf("failed to attach client: %w", err)
	}
	s.attachments[params.FrameID] = a

	a.channel.Send(ctx, player.EncodeReload(params.VideoID))

	return a.client.Snapshot(), nil
}

// Close disposes every client and forgets every frame. Used on shutdown.
func (s *service) Close(ctx context.Context) {
	for _, frameID := range s.frameRepo.FrameIDs() {
		if err := s.DisconnectFrame(ctx, frameID); err != nil {
			s.logger.WarnContext(ctx, "failed to disconnect frame", "frame_id", frameID, "error", err)
		}
	}
}
