package player

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sharetube/playerctl/pkg/msgchannel"
)

const DefaultSkipOffset = 10.0

type Config struct {
	PollInterval time.Duration
	// Seconds added or removed by SkipForward and SkipBackward.
	SkipOffset float64
	Classifier InfoClassifier
	// OnChange receives a copy of the snapshot after every mutation. It is
	// called without the client lock held.
	OnChange func(Snapshot)
	Now      func() time.Time
}

// Client remote-controls one embedded player through a message channel and
// keeps a snapshot of its state.
type Client struct {
	videoID    string
	channel    *msgchannel.Channel
	reconciler *Reconciler
	logger     *slog.Logger

	pollInterval time.Duration
	skipOffset   float64
	onChange     func(Snapshot)

	mu       sync.Mutex
	snapshot Snapshot
	handle   *Handle
	poller   *poller
	closed   bool
}

func NewClient(channel *msgchannel.Channel, videoID string, cfg *Config, logger *slog.Logger) *Client {
	if cfg == nil {
		cfg = &Config{}
	}

	c := &Client{
		videoID:      videoID,
		channel:      channel,
		reconciler:   NewReconciler(cfg.Classifier, cfg.Now),
		logger:       logger.With("video_id", videoID, "token", channel.Token()),
		pollInterval: cfg.PollInterval,
		skipOffset:   cfg.SkipOffset,
		onChange:     cfg.OnChange,
		snapshot:     newSnapshot(),
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.skipOffset <= 0 {
		c.skipOffset = DefaultSkipOffset
	}

	channel.OnReceive(c.handleMessage)

	return c
}

func (c *Client) VideoID() string {
	return c.videoID
}

func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot
}

// Player returns the handle, or nil until the remote player reports ready.
func (c *Client) Player() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.handle
}

func (c *Client) IsReady() bool {
	return c.Snapshot().IsReady
}

func (c *Client) CurrentTime() float64 {
	return c.Snapshot().CurrentTime
}

func (c *Client) Duration() float64 {
	return c.Snapshot().Duration
}

func (c *Client) IsPlaying() bool {
	return c.Snapshot().IsPlaying
}

func (c *Client) handleMessage(ctx context.Context, raw msgchannel.Message) {
	msg, err := Parse(raw.Data)
	if err != nil {
		c.logger.DebugContext(ctx, "inbound message discarded", "error", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	effect := c.reconciler.Reconcile(&c.snapshot, msg)
	if effect == EffectReady && c.handle == nil {
		c.handle = &Handle{client: c}
		c.poller = startPoller(context.Background(), c.pollInterval, c.poll)
		c.logger.InfoContext(ctx, "player ready")
	}
	snapshot := c.snapshot
	c.mu.Unlock()

	if effect != EffectNone {
		c.notify(snapshot)
	}
}

func (c *Client) poll(ctx context.Context) {
	c.send(ctx, Encode(FuncGetCurrentTime))
	c.send(ctx, Encode(FuncGetDuration))
}

func (c *Client) send(ctx context.Context, cmd Command) {
	c.channel.Send(ctx, cmd)
}

func (c *Client) notify(snapshot Snapshot) {
	if c.onChange != nil {
		c.onChange(snapshot)
	}
}

// Seek clamps t to the known duration, asks the player to seek there and
// predicts the new position without waiting for confirmation.
func (c *Client) Seek(ctx context.Context, t float64) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	target := c.snapshot.Clamp(t)
	c.snapshot.predictCurrentTime(target)
	snapshot := c.snapshot
	c.mu.Unlock()

	c.send(ctx, Encode(FuncSeekTo, target, true))
	c.notify(snapshot)
}

func (c *Client) SkipForward(ctx context.Context) {
	c.Seek(ctx, c.CurrentTime()+c.skipOffset)
}

func (c *Client) SkipBackward(ctx context.Context) {
	c.Seek(ctx, c.CurrentTime()-c.skipOffset)
}

// PlayPause flips the locally held playing flag and sends the matching
// command. A later onStateChange may override the flag.
func (c *Client) PlayPause(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	playing := !c.snapshot.IsPlaying
	c.snapshot.predictIsPlaying(playing)
	snapshot := c.snapshot
	c.mu.Unlock()

	if playing {
		c.send(ctx, Encode(FuncPlayVideo))
	} else {
		c.send(ctx, Encode(FuncPauseVideo))
	}
	c.notify(snapshot)
}

func (c *Client) SetVolume(ctx context.Context, volume int) {
	c.send(ctx, Encode(FuncSetVolume, volume))
}

func (c *Client) Mute(ctx context.Context) {
	c.send(ctx, Encode(FuncMute))
}

func (c *Client) Unmute(ctx context.Context) {
	c.send(ctx, Encode(FuncUnMute))
}

// Close stops polling and removes the message listener. Safe to call more
// than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	p := c.poller
	c.poller = nil
	c.handle = nil
	c.mu.Unlock()

	if p != nil {
		p.stop()
	}
	c.channel.Close()
}
