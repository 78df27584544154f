package msgchannel

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Frame is the outbound half of the transport to an embedded player.
type Frame interface {
	Write(data []byte) error
}

// Channel binds one frame to its listener on the bus.
type Channel struct {
	bus    *Bus
	frame  Frame
	token  string
	logger *slog.Logger

	mu     sync.Mutex
	sub    *Subscription
	closed bool
}

func Open(bus *Bus, token string, frame Frame, logger *slog.Logger) *Channel {
	return &Channel{
		bus:    bus,
		frame:  frame,
		token:  token,
		logger: logger,
	}
}

func (c *Channel) Token() string {
	return c.token
}

// Send serializes payload and writes it to the frame. Delivery is not
// reported back: a failed write is logged and forgotten.
func (c *Channel) Send(ctx context.Context, payload any) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to marshal outbound message", "error", err)
		return
	}

	if err := c.frame.Write(data); err != nil {
		c.logger.DebugContext(ctx, "failed to write outbound message", "error", err)
	}
}

// OnReceive installs h as the listener of this channel, replacing the previous one.
func (c *Channel) OnReceive(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if c.sub != nil {
		c.sub.Unsubscribe()
	}
	c.sub = c.bus.Subscribe(c.token, h)
}

// Close removes the listener. Safe to call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
}
