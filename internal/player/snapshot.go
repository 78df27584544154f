package player

import (
	"fmt"
	"time"
)

// Source tells where the current value of a snapshot field came from.
type Source int

const (
	SourceUnknown Source = iota
	// SourcePredicted values were set locally on user intent and may be
	// superseded by the next message from the remote player.
	SourcePredicted
	SourceConfirmed
)

func (s Source) String() string {
	switch s {
	case SourcePredicted:
		return "predicted"
	case SourceConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Source) UnmarshalText(text []byte) error {
	switch string(text) {
	case "predicted":
		*s = SourcePredicted
	case "confirmed":
		*s = SourceConfirmed
	case "unknown", "":
		*s = SourceUnknown
	default:
		return fmt.Errorf("unknown source %q", text)
	}

	return nil
}

// PlayerState values reported by onStateChange.
const (
	StateUnstarted = -1
	StateEnded     = 0
	StatePlaying   = 1
	StatePaused    = 2
	StateBuffering = 3
	StateCued      = 5
)

// Snapshot is the client's best-effort copy of the remote player state.
// CurrentTime may exceed Duration for a while; readers must tolerate it.
type Snapshot struct {
	CurrentTime float64 `json:"current_time"`
	// Zero means unknown.
	Duration    float64 `json:"duration"`
	IsPlaying   bool    `json:"is_playing"`
	IsReady     bool    `json:"is_ready"`
	PlayerState int     `json:"player_state"`

	CurrentTimeSource Source `json:"current_time_source"`
	IsPlayingSource   Source `json:"is_playing_source"`

	// Last time each field was set by the remote player. Zero if never.
	CurrentTimeConfirmedAt time.Time `json:"current_time_confirmed_at"`
	DurationConfirmedAt    time.Time `json:"duration_confirmed_at"`
	IsPlayingConfirmedAt   time.Time `json:"is_playing_confirmed_at"`
}

func newSnapshot() Snapshot {
	return Snapshot{PlayerState: StateUnstarted}
}

func (s *Snapshot) confirmCurrentTime(v float64, at time.Time) {
	s.CurrentTime = v
	s.CurrentTimeSource = SourceConfirmed
	s.CurrentTimeConfirmedAt = at
}

func (s *Snapshot) confirmDuration(v float64, at time.Time) {
	s.Duration = v
	s.DurationConfirmedAt = at
}

func (s *Snapshot) confirmIsPlaying(v bool, at time.Time) {
	s.IsPlaying = v
	s.IsPlayingSource = SourceConfirmed
	s.IsPlayingConfirmedAt = at
}

func (s *Snapshot) predictCurrentTime(v float64) {
	s.CurrentTime = v
	s.CurrentTimeSource = SourcePredicted
}

func (s *Snapshot) predictIsPlaying(v bool) {
	s.IsPlaying = v
	s.IsPlayingSource = SourcePredicted
}

// Clamp bounds t to [0, Duration], or [0, +Inf) while the duration is unknown.
func (s Snapshot) Clamp(t float64) float64 {
	if t < 0 {
		return 0
	}
	if s.Duration > 0 && t > s.Duration {
		return s.Duration
	}

	return t
}
