package orders

import (
	"context"
	"time"

	"github.com/tavolo/tavolo/config"
	"github.com/tavolo/tavolo/internal/identity"
	"github.com/tavolo/tavolo/pkg/event"
	"github.com/tavolo/tavolo/pkg/logger"
)

// Watcher keeps a mounted cart view fresh by re-fetching the cart on a
// fixed interval, so server-side changes (price updates, staff edits)
// appear without a manual refresh. The watcher stops the moment its
// context is cancelled; nothing fires after teardown.
type Watcher struct {
	client   *Client
	id       identity.Identity
	interval time.Duration
	onUpdate func(Cart)
}

// NewWatcher builds a watcher for one identity's cart. A zero interval
// uses CART_POLL_INTERVAL.
func NewWatcher(c *Client, id identity.Identity, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = config.CartPollInterval()
	}
	return &Watcher{client: c, id: id, interval: interval}
}

// OnUpdate registers a callback invoked with every applied snapshot, in
// addition to the CartUpdated event. Must be set before Run.
func (w *Watcher) OnUpdate(fn func(Cart)) *Watcher {
	w.onUpdate = fn
	return w
}

// Run polls until ctx is cancelled. It fetches once immediately so the
// view has data before the first tick. Run blocks; callers that need it
// in the background start their own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	logger.Debug("orders: cart watcher started", "identity", w.id.String(), "interval", w.interval)

	w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("orders: cart watcher stopped", "identity", w.id.String())
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	cart := w.client.GetCart(ctx, w.id)
	if ctx.Err() != nil {
		return // torn down mid-fetch; deliver nothing
	}
	event.Fire(event.CartUpdated, cart)
	if w.onUpdate != nil {
		w.onUpdate(cart)
	}
}
