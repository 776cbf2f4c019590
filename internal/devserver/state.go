package devserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tavolo/tavolo/internal/orders"
	"github.com/tavolo/tavolo/pkg/token"
)

const taxRate = 0.05

type account struct {
	ID           string
	Name         string
	Phone        string
	Email        string
	Role         string
	PasswordHash string
}

type cartLine struct {
	ItemID   string
	Name     string
	Price    float64
	Quantity int
	Category string
	DietType string
}

type eventRecord struct {
	orders.Event
	nextBooking int
}

// state is the whole in-memory world of the dev backend. Every handler
// takes the one lock; contention is irrelevant at dev scale.
type state struct {
	mu sync.Mutex

	users    []*account
	nextUser int

	menu orders.Menu

	// carts are keyed by the caller-supplied user id, which for guests is
	// the generated session id. Slices keep insertion order stable.
	carts map[string][]*cartLine

	orderLog  map[string][]orders.Order
	nextOrder int

	events []*eventRecord
}

func newState() *state {
	s := &state{
		carts:    map[string][]*cartLine{},
		orderLog: map[string][]orders.Order{},
		nextUser: 1,
	}
	s.seed()
	return s
}

func (s *state) seed() {
	for _, acc := range []struct {
		name, phone, email, role, password string
	}{
		{"Ada Admin", "+15550000001", "admin@tavolo.dev", "admin", "admin123"},
		{"Eve Employee", "+15550000002", "employee@tavolo.dev", "employee", "employee123"},
		{"Carlo Customer", "+15550000003", "carlo@tavolo.dev", "customer", "customer123"},
	} {
		hash, _ := token.HashPassword(acc.password)
		s.users = append(s.users, &account{
			ID:           fmt.Sprintf("u%d", s.nextUser),
			Name:         acc.name,
			Phone:        acc.phone,
			Email:        acc.email,
			Role:         acc.role,
			PasswordHash: hash,
		})
		s.nextUser++
	}

	s.menu = orders.Menu{Categories: []orders.MenuCategory{
		{
			CategoryName: "Starters",
			Veg: []orders.MenuItem{
				{ItemID: "st-1", Name: "Bruschetta", Price: 6.50, Description: "Grilled bread, tomato, basil"},
				{ItemID: "st-2", Name: "Caprese Salad", Price: 8.00},
			},
			NonVeg: []orders.MenuItem{
				{ItemID: "st-3", Name: "Calamari Fritti", Price: 9.50},
			},
		},
		{
			CategoryName: "Mains",
			Veg: []orders.MenuItem{
				{ItemID: "mn-1", Name: "Margherita Pizza", Price: 12.00},
				{ItemID: "mn-2", Name: "Mushroom Risotto", Price: 14.00},
			},
			NonVeg: []orders.MenuItem{
				{ItemID: "mn-3", Name: "Chicken Parmigiana", Price: 16.50},
				{ItemID: "mn-4", Name: "Grilled Salmon", Price: 19.00},
			},
		},
		{
			CategoryName: "Desserts",
			Veg: []orders.MenuItem{
				{ItemID: "ds-1", Name: "Tiramisu", Price: 7.00},
			},
		},
	}}

	s.events = []*eventRecord{
		{Event: orders.Event{EventID: "ev-1", Name: "Wine Tasting Night", Date: "2026-09-12", PricePerSeat: 35, SeatsLeft: 24}, nextBooking: 1},
		{Event: orders.Event{EventID: "ev-2", Name: "Pasta Masterclass", Date: "2026-09-26", PricePerSeat: 50, SeatsLeft: 12}, nextBooking: 1},
	}
}

// ─── Accounts ─────────────────────────────────────────────────────────────────

func (s *state) authenticate(phoneOrEmail, password string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.users {
		if acc.Phone == phoneOrEmail || (acc.Email != "" && strings.EqualFold(acc.Email, phoneOrEmail)) {
			if token.CheckPassword(acc.PasswordHash, password) {
				return acc
			}
			return nil
		}
	}
	return nil
}

// createAccount registers a customer. It fails when the phone number or
// email is already taken.
func (s *state) createAccount(name, phone, email, password string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.users {
		if acc.Phone == phone {
			return nil, fmt.Errorf("phone number already registered")
		}
		if email != "" && strings.EqualFold(acc.Email, email) {
			return nil, fmt.Errorf("email already registered")
		}
	}

	hash, err := token.HashPassword(password)
	if err != nil {
		return nil, err
	}

	acc := &account{
		ID:           fmt.Sprintf("u%d", s.nextUser),
		Name:         name,
		Phone:        phone,
		Email:        email,
		Role:         "customer",
		PasswordHash: hash,
	}
	s.nextUser++
	s.users = append(s.users, acc)
	return acc, nil
}

func (s *state) findAccount(id string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.users {
		if acc.ID == id {
			return acc
		}
	}
	return nil
}

func (s *state) updateAccount(id, name, phone, email string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.users {
		if acc.ID != id {
			continue
		}
		if name != "" {
			acc.Name = name
		}
		if phone != "" {
			acc.Phone = phone
		}
		if email != "" {
			acc.Email = email
		}
		return acc
	}
	return nil
}

// ─── Menu ─────────────────────────────────────────────────────────────────────

func (s *state) menuSnapshot() orders.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menu
}

func (s *state) findItemLocked(itemID string) (orders.MenuItem, bool) {
	for _, cat := range s.menu.Categories {
		for _, item := range append(append([]orders.MenuItem{}, cat.Veg...), cat.NonVeg...) {
			if item.ItemID == itemID {
				return item, true
			}
		}
	}
	return orders.MenuItem{}, false
}

// ─── Cart ─────────────────────────────────────────────────────────────────────

func (s *state) addToCart(userKey, itemID string, quantity int, category, dietType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.findItemLocked(itemID)
	if !ok {
		return fmt.Errorf("unknown item %q", itemID)
	}

	for _, line := range s.carts[userKey] {
		if line.ItemID == itemID {
			line.Quantity += quantity
			return nil
		}
	}

	s.carts[userKey] = append(s.carts[userKey], &cartLine{
		ItemID:   item.ItemID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: quantity,
		Category: category,
		DietType: dietType,
	})
	return nil
}

// setQuantity sets a line's quantity; zero or less removes the line.
func (s *state) setQuantity(userKey, itemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userKey]
	for i, line := range lines {
		if line.ItemID != itemID {
			continue
		}
		if quantity <= 0 {
			s.carts[userKey] = append(lines[:i], lines[i+1:]...)
		} else {
			line.Quantity = quantity
		}
		return nil
	}
	return fmt.Errorf("item %q is not in the cart", itemID)
}

func (s *state) removeFromCart(userKey, itemID string) error {
	return s.setQuantity(userKey, itemID, 0)
}

func (s *state) cartSnapshot(userKey string) orders.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartSnapshotLocked(userKey)
}

// cartSnapshotLocked computes the authoritative aggregate: line totals,
// subtotal, tax at the flat rate, and the total item count.
func (s *state) cartSnapshotLocked(userKey string) orders.Cart {
	cart := orders.ZeroCart()
	for _, line := range s.carts[userKey] {
		itemTotal := round2(line.Price * float64(line.Quantity))
		cart.Items = append(cart.Items, orders.CartItem{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			ItemTotal: itemTotal,
			Category:  line.Category,
			DietType:  line.DietType,
		})
		cart.Subtotal += itemTotal
		cart.ItemCount += line.Quantity
	}
	cart.Subtotal = round2(cart.Subtotal)
	cart.Tax = round2(cart.Subtotal * taxRate)
	cart.Total = round2(cart.Subtotal + cart.Tax)
	return cart
}

// ─── Orders ───────────────────────────────────────────────────────────────────

// checkout turns the cart into an order and empties the cart. The two
// steps happen under one lock so no fetch can observe the half-state.
func (s *state) checkout(userKey, orderType, paymentMethod, deliveryAddress string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartSnapshotLocked(userKey)
	if cart.ItemCount == 0 {
		return "", fmt.Errorf("cart is empty")
	}

	s.nextOrder++
	now := time.Now().UTC().Format(time.RFC3339)
	order := orders.Order{
		OrderID:         fmt.Sprintf("ord-%04d", s.nextOrder),
		Items:           cart.Items,
		Total:           cart.Total,
		Status:          "pending",
		Type:            orderType,
		PaymentMethod:   paymentMethod,
		DeliveryAddress: deliveryAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	s.orderLog[userKey] = append(s.orderLog[userKey], order)
	delete(s.carts, userKey)
	return order.OrderID, nil
}

// userOrders returns the history oldest first.
func (s *state) userOrders(userKey string) []orders.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.orderLog[userKey]
	out := make([]orders.Order, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out
}

// ─── Events ───────────────────────────────────────────────────────────────────

func (s *state) eventList() []orders.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]orders.Event, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Event)
	}
	return out
}

func (s *state) bookEvent(eventID string, seats int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.events {
		if ev.EventID != eventID {
			continue
		}
		if seats > ev.SeatsLeft {
			return "", fmt.Errorf("only %d seats left", ev.SeatsLeft)
		}
		ev.SeatsLeft -= seats
		booking := fmt.Sprintf("%s-bk%d", ev.EventID, ev.nextBooking)
		ev.nextBooking++
		return booking, nil
	}
	return "", fmt.Errorf("unknown event %q", eventID)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
