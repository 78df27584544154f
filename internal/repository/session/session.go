package session

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	FrameID     string  `redis:"frame_id"`
	VideoID     string  `redis:"video_id"`
	SessionID   string  `redis:"session_id"`
	IsReady     bool    `redis:"is_ready"`
	IsPlaying   bool    `redis:"is_playing"`
	CurrentTime float64 `redis:"current_time"`
	Duration    float64 `redis:"duration"`
	UpdatedAt   int64   `redis:"updated_at"`
}

type SetSessionParams struct {
	FrameID   string
	VideoID   string
	SessionID string
	UpdatedAt time.Time
}

type UpdateSnapshotParams struct {
	FrameID     string
	SessionID   string
	IsReady     bool
	IsPlaying   bool
	CurrentTime float64
	Duration    float64
	UpdatedAt   time.Time
}
