package player

import "context"

// Handle is the capability to drive the remote player. It exists only once
// the player has reported ready and is invalid after the owning client closes.
type Handle struct {
	client *Client
}

func (h *Handle) GetCurrentTime() float64 {
	return h.client.Snapshot().CurrentTime
}

func (h *Handle) GetDuration() float64 {
	return h.client.Snapshot().Duration
}

func (h *Handle) GetPlayerState() int {
	return h.client.Snapshot().PlayerState
}

func (h *Handle) SeekTo(ctx context.Context, seconds float64, allowSeekAhead bool) {
	h.client.send(ctx, Encode(FuncSeekTo, seconds, allowSeekAhead))
}

func (h *Handle) PlayVideo(ctx context.Context) {
	h.client.send(ctx, Encode(FuncPlayVideo))
}

func (h *Handle) PauseVideo(ctx context.Context) {
	h.client.send(ctx, Encode(FuncPauseVideo))
}

func (h *Handle) SetVolume(ctx context.Context, volume int) {
	h.client.send(ctx, Encode(FuncSetVolume, volume))
}

func (h *Handle) Mute(ctx context.Context) {
	h.client.send(ctx, Encode(FuncMute))
}

func (h *Handle) UnMute(ctx context.Context) {
	h.client.send(ctx, Encode(FuncUnMute))
}
