// Package panel implements the notification dropdown state machine: fetch on
// open, per-item read and delete, derived unread badge. Freshness is best
// effort; every network failure is logged and swallowed.
package panel

import (
	"context"
	"sync"

	"github.com/swifttax/swifttax-api/internal/model"
	"github.com/swifttax/swifttax-api/internal/session"

	"go.uber.org/zap"
)

// DisplayLimit caps how many notifications the panel holds at once
const DisplayLimit = 5

// State is the panel's lifecycle state
type State int

// Panel states: closed, open and fetching, open with a list
const (
	StateClosed State = iota
	StateLoading
	StateReady
)

// API is the notification backend the panel talks to
type API interface {
	List(ctx context.Context, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

// Panel holds the most recent notifications for the signed-in user
type Panel struct {
	mu     sync.Mutex
	api    API
	nav    session.Navigator
	logger *zap.Logger

	state State
	items []model.Notification

	// gen counts fetch generations; a response whose generation no longer
	// matches arrived after a Close or a newer Open and is discarded
	gen uint64
}

// New creates a panel. nav may be nil when deep links are not needed.
func New(api API, nav session.Navigator, logger *zap.Logger) *Panel {
	return &Panel{
		api:    api,
		nav:    nav,
		logger: logger,
		state:  StateClosed,
	}
}

// Open opens the panel and fetches the latest notifications. While the fetch
// is in flight the panel is loading. On failure the previously held list is
// kept and the error is only logged.
func (p *Panel) Open(ctx context.Context) {
	p.mu.Lock()
	p.state = StateLoading
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	items, err := p.api.List(ctx, DisplayLimit)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return
	}

	p.state = StateReady
	if err != nil {
		p.logger.Warn("failed to fetch notifications", zap.Error(err))
		return
	}

	if len(items) > DisplayLimit {
		items = items[:DisplayLimit]
	}
	p.items = items
}

// Close closes the panel unconditionally. Any in-flight fetch is abandoned.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateClosed
	p.gen++
}

// MarkAsRead dispatches a fire-and-forget read request, closes the panel and
// follows the item's action URL when it has one. The local read flag is not
// flipped; the next Open reflects server state.
func (p *Panel) MarkAsRead(id int) {
	p.mu.Lock()
	var actionURL string
	for _, n := range p.items {
		if n.ID == id {
			actionURL = n.ActionURL
			break
		}
	}
	p.state = StateClosed
	p.gen++
	p.mu.Unlock()

	go func() {
		if err := p.api.MarkRead(context.Background(), id); err != nil {
			p.logger.Warn("failed to mark notification as read", zap.Error(err), zap.Int("id", id))
		}
	}()

	if actionURL != "" && p.nav != nil {
		p.nav.Navigate(actionURL)
	}
}

// Delete removes the notification locally, then issues the delete request.
// If the request fails the item is restored at its original position.
func (p *Panel) Delete(ctx context.Context, id int) error {
	p.mu.Lock()
	idx := -1
	for i, n := range p.items {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.mu.Unlock()
		return nil
	}
	removed := p.items[idx]
	p.items = append(p.items[:idx:idx], p.items[idx+1:]...)
	p.mu.Unlock()

	if err := p.api.Delete(ctx, id); err != nil {
		p.logger.Warn("failed to delete notification, restoring", zap.Error(err), zap.Int("id", id))
		p.mu.Lock()
		if idx > len(p.items) {
			idx = len(p.items)
		}
		rest := append([]model.Notification{removed}, p.items[idx:]...)
		p.items = append(p.items[:idx:idx], rest...)
		p.mu.Unlock()
		return err
	}

	return nil
}

// UnreadCount is the number of unread notifications currently held. It is
// always derived from the list, never stored.
func (p *Panel) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, n := range p.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// Items returns a copy of the currently held notifications
func (p *Panel) Items() []model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]model.Notification, len(p.items))
	copy(out, p.items)
	return out
}

// State returns the panel's current state
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
