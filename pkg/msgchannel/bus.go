package msgchannel

import (
	"context"
	"log/slog"
	"sync"
)

// Message is a single inbound message as read from a frame.
type Message struct {
	// Origin declared by the sender. Compared verbatim with the allow-list.
	Origin string
	// Token of the frame the message was read from.
	Token string
	Data  any
}

type Handler func(ctx context.Context, msg Message)

// Bus is the process-wide inbound message channel. Handlers are registered per
// frame token, so a message read from one frame never reaches the listener of
// another.
type Bus struct {
	mu      sync.RWMutex
	origins map[string]struct{}
	subs    map[string]map[uint64]Handler
	nextID  uint64
	logger  *slog.Logger
}

func NewBus(allowedOrigins []string, logger *slog.Logger) *Bus {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = struct{}{}
	}

	return &Bus{
		origins: origins,
		subs:    make(map[string]map[uint64]Handler),
		logger:  logger,
	}
}

func (b *Bus) IsAllowedOrigin(origin string) bool {
	_, ok := b.origins[origin]
	return ok
}

// Subscribe registers h for messages read from the frame identified by token.
func (b *Bus) Subscribe(token string, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[token] == nil {
		b.subs[token] = make(map[uint64]Handler)
	}
	b.subs[token][id] = h

	return &Subscription{bus: b, token: token, id: id}
}

func (b *Bus) unsubscribe(token string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers, ok := b.subs[token]
	if !ok {
		return
	}

	delete(handlers, id)
	if len(handlers) == 0 {
		delete(b.subs, token)
	}
}

// Listeners reports how many handlers are registered for token.
func (b *Bus) Listeners(token string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[token])
}

// Publish delivers msg to the handlers registered for msg.Token. Messages from
// origins outside the allow-list are dropped before anything looks at them.
func (b *Bus) Publish(ctx context.Context, msg Message) {
	if !b.IsAllowedOrigin(msg.Origin) {
		b.logger.DebugContext(ctx, "message dropped", "reason", "origin not allowed", "origin", msg.Origin)
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[msg.Token]))
	for _, h := range b.subs[msg.Token] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, msg)
	}
}

type Subscription struct {
	bus   *Bus
	token string
	id    uint64
	once  sync.Once
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.unsubscribe(s.token, s.id)
	})
}
