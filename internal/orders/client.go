// Package orders is the typed façade over the ordering endpoints: menu,
// cart, checkout, history, events. Methods normalize every transport
// failure into a plain error message (or a safe zero value where the
// view needs one); nothing panics across this boundary.
//
// Two client-side guarantees the raw endpoints do not give:
//
//   - cart mutations for the same identity are serialized, so rapid
//     add/update clicks cannot interleave on the wire;
//   - cart fetches carry sequence numbers and a late response for an
//     older fetch never overwrites a newer snapshot.
package orders

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tavolo/tavolo/internal/identity"
	"github.com/tavolo/tavolo/pkg/cache"
	"github.com/tavolo/tavolo/pkg/http"
	"github.com/tavolo/tavolo/pkg/logger"
	"github.com/tavolo/tavolo/pkg/store"
)

const (
	menuCacheKey = "menu"
	menuCacheTTL = 5 * time.Minute
)

var errUnreachable = errors.New("unable to reach the server, please try again")

// Client talks to the ordering API on behalf of one process.
type Client struct {
	store store.Store

	mu       sync.Mutex
	mutation map[string]*sync.Mutex // per-identity mutation serialization
	fetchSeq map[string]uint64      // next cart fetch sequence per identity
	applied  map[string]uint64      // highest applied fetch per identity
	latest   map[string]Cart        // last applied snapshot per identity
}

func NewClient(s store.Store) *Client {
	return &Client{
		store:    s,
		mutation: map[string]*sync.Mutex{},
		fetchSeq: map[string]uint64{},
		applied:  map[string]uint64{},
		latest:   map[string]Cart{},
	}
}

// ─── Menu ─────────────────────────────────────────────────────────────────────

// GetMenu returns the menu, from the snapshot cache when fresh.
func (c *Client) GetMenu(ctx context.Context) (Menu, error) {
	var menu Menu
	if cache.Get(menuCacheKey, &menu) {
		return menu, nil
	}

	resp, err := http.Get("/api/user-orders/menu").WithContext(ctx).Send()
	if err != nil {
		return Menu{}, errUnreachable
	}

	var out struct {
		apiStatus
		Categories []MenuCategory `json:"categories"`
	}
	if err := resp.JSON(&out); err != nil || !resp.OK() {
		return Menu{}, errors.New(out.firstError("could not load the menu"))
	}

	menu = Menu{Categories: out.Categories}
	if err := cache.Set(menuCacheKey, menu, menuCacheTTL); err != nil {
		logger.Debug("orders: menu cache write failed", "error", err)
	}
	return menu, nil
}

// ─── Cart mutations ───────────────────────────────────────────────────────────
// Mutations are fire-and-refetch: none of them returns the updated cart.
// Callers re-fetch via GetCart for authoritative totals.

// AddToCart puts quantity of an item into the identity's cart.
func (c *Client) AddToCart(ctx context.Context, id identity.Identity, req AddRequest) error {
	body := map[string]interface{}{
		"user_id":   id.Key(),
		"item_id":   req.ItemID,
		"quantity":  req.Quantity,
		"category":  req.Category,
		"diet_type": req.DietType,
	}
	return c.mutate(ctx, id, "/api/user-orders/cart/add", body, "could not add to cart")
}

// UpdateQuantity sets an item's quantity. Reducing to zero or below is
// removal, but that decision belongs to the caller, not this method.
func (c *Client) UpdateQuantity(ctx context.Context, id identity.Identity, itemID string, newQuantity int) error {
	body := map[string]interface{}{
		"user_id":      id.Key(),
		"item_id":      itemID,
		"new_quantity": newQuantity,
	}
	return c.mutate(ctx, id, "/api/user-orders/cart/update-quantity", body, "could not update quantity")
}

// RemoveFromCart deletes an item from the cart.
func (c *Client) RemoveFromCart(ctx context.Context, id identity.Identity, itemID string) error {
	body := map[string]interface{}{
		"user_id": id.Key(),
		"item_id": itemID,
	}
	return c.mutate(ctx, id, "/api/user-orders/cart/remove", body, "could not remove item")
}

func (c *Client) mutate(ctx context.Context, id identity.Identity, path string, body interface{}, fallback string) error {
	lock := c.mutationLock(id)
	lock.Lock()
	defer lock.Unlock()

	resp, err := http.Post(path).WithContext(ctx).Body(body).Send()
	if err != nil {
		return errUnreachable
	}

	var out apiStatus
	if err := resp.JSON(&out); err != nil || !resp.OK() || !out.Success {
		return errors.New(out.firstError(fallback))
	}
	return nil
}

func (c *Client) mutationLock(id identity.Identity) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.mutation[id.Key()]
	if !ok {
		lock = &sync.Mutex{}
		c.mutation[id.Key()] = lock
	}
	return lock
}

// ─── Cart fetch ───────────────────────────────────────────────────────────────

// GetCart fetches the authoritative cart snapshot. On transport failure
// it returns a zeroed cart so views always have something safe to
// render. A response that arrives after a newer fetch has already been
// applied is discarded and the newer snapshot returned instead.
func (c *Client) GetCart(ctx context.Context, id identity.Identity) Cart {
	seq := c.nextFetch(id)

	resp, err := http.Get("/api/user-orders/cart/" + id.Key()).WithContext(ctx).Send()
	if err != nil {
		logger.Debug("orders: cart fetch failed", "identity", id.String(), "error", err)
		return c.lastOrZero(id)
	}

	var cart Cart
	if err := resp.JSON(&cart); err != nil || !resp.OK() {
		return c.lastOrZero(id)
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}

	return c.applyFetch(id, seq, cart)
}

// Latest returns the last applied snapshot without a network call.
func (c *Client) Latest(id identity.Identity) Cart {
	return c.lastOrZero(id)
}

func (c *Client) nextFetch(id identity.Identity) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchSeq[id.Key()]++
	return c.fetchSeq[id.Key()]
}

// applyFetch keeps only the newest fetch per identity: an older
// sequence arriving late loses to the snapshot already applied.
func (c *Client) applyFetch(id identity.Identity, seq uint64, cart Cart) Cart {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.applied[id.Key()] {
		logger.Debug("orders: dropping stale cart response", "identity", id.String(), "seq", seq)
		return c.latest[id.Key()]
	}

	c.applied[id.Key()] = seq
	c.latest[id.Key()] = cart
	if err := c.store.Set(store.KeyCartSnapshot, cart); err != nil {
		logger.Debug("orders: cart snapshot persist failed", "error", err)
	}
	return cart
}

func (c *Client) lastOrZero(id identity.Identity) Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cart, ok := c.latest[id.Key()]; ok {
		return cart
	}
	return ZeroCart()
}

// ─── Checkout / history ───────────────────────────────────────────────────────

// Checkout places the order and returns the backend-assigned order id.
func (c *Client) Checkout(ctx context.Context, id identity.Identity, form CheckoutForm) (string, error) {
	body := map[string]interface{}{
		"user_id":              id.Key(),
		"order_type":           form.OrderType,
		"payment_method":       form.PaymentMethod,
		"delivery_address":     form.DeliveryAddress,
		"special_instructions": form.SpecialInstructions,
	}

	resp, err := http.Post("/api/user-orders/checkout").WithContext(ctx).Body(body).Send()
	if err != nil {
		return "", errUnreachable
	}

	var out struct {
		apiStatus
		OrderID string `json:"order_id"`
	}
	if err := resp.JSON(&out); err != nil || !resp.OK() || !out.Success {
		return "", errors.New(out.firstError("checkout failed"))
	}
	return out.OrderID, nil
}

// GetUserOrders returns the identity's order history, oldest first as
// the backend sends it. Failures yield an empty list, never an error.
func (c *Client) GetUserOrders(ctx context.Context, id identity.Identity) []Order {
	resp, err := http.Get("/api/user-orders/orders/" + id.Key()).WithContext(ctx).Send()
	if err != nil {
		logger.Debug("orders: history fetch failed", "identity", id.String(), "error", err)
		return []Order{}
	}

	var out struct {
		Data []Order `json:"data"`
	}
	if err := resp.JSON(&out); err != nil || !resp.OK() || out.Data == nil {
		return []Order{}
	}
	return out.Data
}

// ─── Events ───────────────────────────────────────────────────────────────────

// GetEvents lists bookable events.
func (c *Client) GetEvents(ctx context.Context) ([]Event, error) {
	resp, err := http.Get("/api/events").WithContext(ctx).Send()
	if err != nil {
		return nil, errUnreachable
	}

	var out struct {
		apiStatus
		Data []Event `json:"data"`
	}
	if err := resp.JSON(&out); err != nil || !resp.OK() {
		return nil, errors.New(out.firstError("could not load events"))
	}
	return out.Data, nil
}

// BookEvent reserves seats and returns the booking reference.
func (c *Client) BookEvent(ctx context.Context, id identity.Identity, form EventBookingForm) (string, error) {
	body := map[string]interface{}{
		"user_id":  id.Key(),
		"event_id": form.EventID,
		"seats":    form.Seats,
	}

	resp, err := http.Post("/api/events/book").WithContext(ctx).Body(body).Send()
	if err != nil {
		return "", errUnreachable
	}

	var out struct {
		apiStatus
		BookingID string `json:"booking_id"`
	}
	if err := resp.JSON(&out); err != nil || !resp.OK() || !out.Success {
		return "", errors.New(out.firstError("event booking failed"))
	}
	return out.BookingID, nil
}

// ─── Wire error normalization ─────────────────────────────────────────────────

type apiStatus struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func (a apiStatus) firstError(fallback string) string {
	if len(a.Errors) > 0 && a.Errors[0] != "" {
		return a.Errors[0]
	}
	if a.Message != "" {
		return a.Message
	}
	return fallback
}
