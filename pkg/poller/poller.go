// Package poller keeps a local copy of a room's state fresh by
// periodically fetching snapshots from the server.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
	"github.com/RohanLambture/InteractiveQ/pkg/client"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
)

// DefaultInterval is how often a room snapshot is refreshed when no
// interval is configured.
const DefaultInterval = 5 * time.Second

// Poller periodically fetches room snapshots and hands each one to the
// subscriber. Every delivered snapshot replaces the previous state
// wholesale; fetch failures are logged and the previous snapshot stays
// current until the next successful tick.
type Poller struct {
	client   *client.Client
	token    string
	roomID   string
	interval time.Duration
	onUpdate func(*domain.RoomSnapshot)
	logger   *logger.Logger

	mu       sync.RWMutex
	latest   *domain.RoomSnapshot
	started  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a Poller for roomID. onUpdate is invoked from the polling
// goroutine with each fetched snapshot; it may be nil when callers only
// read state through Latest. An interval of zero means DefaultInterval.
func New(c *client.Client, token, roomID string, interval time.Duration, onUpdate func(*domain.RoomSnapshot), log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		client:   c,
		token:    token,
		roomID:   roomID,
		interval: interval,
		onUpdate: onUpdate,
		logger:   log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins polling: one immediate fetch, then one fetch per
// interval until Stop is called or ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.doneCh)

	p.fetch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fetch(ctx)
		}
	}
}

func (p *Poller) fetch(ctx context.Context) {
	snapshot, err := p.client.GetUpdates(ctx, p.token, p.roomID)
	if err != nil {
		p.logger.WithError(err).WithField("room_id", p.roomID).Warn("Failed to fetch room updates")
		return
	}

	p.mu.Lock()
	p.latest = snapshot
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(snapshot)
	}
}

// Latest returns the most recently fetched snapshot, or nil before the
// first successful fetch.
func (p *Poller) Latest() *domain.RoomSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Stop halts polling and waits for the polling goroutine to exit. It is
// safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	p.mu.RLock()
	started := p.started
	p.mu.RUnlock()
	if started {
		<-p.doneCh
	}
}
