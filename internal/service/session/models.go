package session

import "github.com/sharetube/playerctl/internal/player"

type Session struct {
	FrameID     string  `json:"frame_id"`
	VideoID     string  `json:"video_id"`
	IsReady     bool    `json:"is_ready"`
	IsPlaying   bool    `json:"is_playing"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	UpdatedAt   int64   `json:"updated_at"`
}

type State struct {
	FrameID  string          `json:"frame_id"`
	VideoID  string          `json:"video_id"`
	Snapshot player.Snapshot `json:"snapshot"`
}
