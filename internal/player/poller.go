package player

import (
	"context"
	"sync"
	"time"
)

const DefaultPollInterval = time.Second

// poller calls tick on a fixed interval until stopped.
type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func startPoller(ctx context.Context, interval time.Duration, tick func(context.Context)) *poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &poller{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// ticker.C and ctx.Done may be ready together.
				if ctx.Err() != nil {
					return
				}
				tick(ctx)
			}
		}
	}()

	return p
}

// stop cancels the loop and waits for it to exit. Safe to call more than once.
func (p *poller) stop() {
	p.once.Do(p.cancel)
	<-p.done
}
