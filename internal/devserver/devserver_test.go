package devserver_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/tavolo/tavolo/config"
	"github.com/tavolo/tavolo/internal/auth"
	"github.com/tavolo/tavolo/internal/devserver"
	"github.com/tavolo/tavolo/internal/identity"
	"github.com/tavolo/tavolo/internal/orders"
	"github.com/tavolo/tavolo/pkg/store"
)

// startBackend boots an in-memory backend and points the HTTP client's
// base URL at it for the duration of the test.
func startBackend(t *testing.T) {
	t.Helper()

	srv := httptest.NewServer(devserver.New().Handler())
	t.Cleanup(srv.Close)

	prev := config.Get("API_BASE_URL", "")
	config.Set("API_BASE_URL", srv.URL)
	t.Cleanup(func() { config.Set("API_BASE_URL", prev) })
}

func TestLoginSeededAccounts(t *testing.T) {
	startBackend(t)
	svc := auth.NewService(store.NewMemoryStore())

	session, err := svc.Login(context.Background(), auth.Credentials{
		PhoneOrEmail: "admin@tavolo.dev",
		Password:     "admin123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.User.Role != auth.RoleAdmin {
		t.Fatalf("role = %q, want admin", session.User.Role)
	}
	if session.Token == "" {
		t.Fatal("expected a backend-issued token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	startBackend(t)
	svc := auth.NewService(store.NewMemoryStore())

	_, err := svc.Login(context.Background(), auth.Credentials{
		PhoneOrEmail: "admin@tavolo.dev",
		Password:     "nope",
	})
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if err.Error() != "invalid credentials" {
		t.Fatalf("error = %q, want backend message verbatim", err)
	}
}

func TestSignupThenLogin(t *testing.T) {
	startBackend(t)
	svc := auth.NewService(store.NewMemoryStore())

	msg, err := svc.Register(context.Background(), auth.RegisterForm{
		Name:                 "Nina New",
		PhoneNumber:          "+15550001234",
		Password:             "supersecret",
		PasswordConfirmation: "supersecret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if msg == "" {
		t.Fatal("expected a confirmation message")
	}

	session, err := svc.Login(context.Background(), auth.Credentials{
		PhoneOrEmail: "+15550001234",
		Password:     "supersecret",
	})
	if err != nil {
		t.Fatalf("login after signup: %v", err)
	}
	if session.User.Role != auth.RoleCustomer {
		t.Fatalf("new signups must land as customers, got %q", session.User.Role)
	}
}

func TestSignupDuplicatePhone(t *testing.T) {
	startBackend(t)
	svc := auth.NewService(store.NewMemoryStore())

	_, err := svc.Register(context.Background(), auth.RegisterForm{
		Name:                 "Copy Cat",
		PhoneNumber:          "+15550000001", // seeded admin's phone
		Password:             "supersecret",
		PasswordConfirmation: "supersecret",
	})
	if err == nil {
		t.Fatal("expected duplicate phone to be rejected")
	}
}

func TestCartAddFetchCycle(t *testing.T) {
	startBackend(t)
	s := store.NewMemoryStore()
	client := orders.NewClient(s)
	guest := identity.EnsureGuest(s)
	ctx := context.Background()

	if err := client.AddToCart(ctx, guest, orders.AddRequest{ItemID: "mn-1", Quantity: 2, DietType: "veg"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart := client.GetCart(ctx, guest)
	if cart.ItemCount != 2 {
		t.Fatalf("item_count = %d, want 2", cart.ItemCount)
	}
	// Margherita is 12.00; totals are server-computed at 5% tax.
	if cart.Subtotal != 24.00 || cart.Tax != 1.20 || cart.Total != 25.20 {
		t.Fatalf("totals = %v/%v/%v, want 24/1.2/25.2", cart.Subtotal, cart.Tax, cart.Total)
	}
}

func TestUpdateQuantityToZeroRemovesItem(t *testing.T) {
	startBackend(t)
	s := store.NewMemoryStore()
	client := orders.NewClient(s)
	guest := identity.EnsureGuest(s)
	ctx := context.Background()

	if err := client.AddToCart(ctx, guest, orders.AddRequest{ItemID: "st-1", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := client.UpdateQuantity(ctx, guest, "st-1", 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}

	cart := client.GetCart(ctx, guest)
	if len(cart.Items) != 0 || cart.ItemCount != 0 {
		t.Fatalf("cart should be empty, got %+v", cart)
	}
}

func TestCheckoutEmptiesCartAndRecordsOrder(t *testing.T) {
	startBackend(t)
	s := store.NewMemoryStore()
	client := orders.NewClient(s)
	guest := identity.EnsureGuest(s)
	ctx := context.Background()

	if err := client.AddToCart(ctx, guest, orders.AddRequest{ItemID: "mn-3", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	orderID, err := client.Checkout(ctx, guest, orders.CheckoutForm{
		OrderType:     "takeaway",
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if orderID == "" {
		t.Fatal("expected an order id")
	}

	if cart := client.GetCart(ctx, guest); cart.ItemCount != 0 {
		t.Fatalf("cart not emptied after checkout: %+v", cart)
	}

	history := client.GetUserOrders(ctx, guest)
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].OrderID != orderID || history[0].Status != "pending" {
		t.Fatalf("unexpected order record: %+v", history[0])
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	startBackend(t)
	s := store.NewMemoryStore()
	client := orders.NewClient(s)
	guest := identity.EnsureGuest(s)

	_, err := client.Checkout(context.Background(), guest, orders.CheckoutForm{
		OrderType:     "dine_in",
		PaymentMethod: "card",
	})
	if err == nil {
		t.Fatal("expected empty-cart checkout to fail")
	}
}

func TestDeliveryRequiresAddress(t *testing.T) {
	startBackend(t)
	s := store.NewMemoryStore()
	client := orders.NewClient(s)
	guest := identity.EnsureGuest(s)
	ctx := context.Background()

	if err := client.AddToCart(ctx, guest, orders.AddRequest{ItemID: "ds-1", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := client.Checkout(ctx, guest, orders.CheckoutForm{
		OrderType:     "delivery",
		PaymentMethod: "upi",
	})
	if err == nil {
		t.Fatal("expected delivery without address to fail")
	}
}

func TestGuestAndAccountCartsAreSeparate(t *testing.T) {
	startBackend(t)
	s := store.NewMemoryStore()
	client := orders.NewClient(s)
	guest := identity.EnsureGuest(s)
	account := identity.Account("u3")
	ctx := context.Background()

	if err := client.AddToCart(ctx, guest, orders.AddRequest{ItemID: "mn-1", Quantity: 1}); err != nil {
		t.Fatalf("guest add: %v", err)
	}

	if cart := client.GetCart(ctx, account); cart.ItemCount != 0 {
		t.Fatalf("account cart should not see guest items: %+v", cart)
	}
	if cart := client.GetCart(ctx, guest); cart.ItemCount != 1 {
		t.Fatalf("guest cart lost its item: %+v", cart)
	}
}

func TestMenuShape(t *testing.T) {
	startBackend(t)
	client := orders.NewClient(store.NewMemoryStore())

	menu, err := client.GetMenu(context.Background())
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if len(menu.Categories) == 0 {
		t.Fatal("expected seeded categories")
	}
	var sawVeg, sawNonVeg bool
	for _, cat := range menu.Categories {
		sawVeg = sawVeg || len(cat.Veg) > 0
		sawNonVeg = sawNonVeg || len(cat.NonVeg) > 0
	}
	if !sawVeg || !sawNonVeg {
		t.Fatal("expected both veg and non-veg items in the seed menu")
	}
}

func TestEventBookingDecrementsSeats(t *testing.T) {
	startBackend(t)
	s := store.NewMemoryStore()
	client := orders.NewClient(s)
	guest := identity.EnsureGuest(s)
	ctx := context.Background()

	before, err := client.GetEvents(ctx)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(before) == 0 {
		t.Fatal("expected seeded events")
	}

	bookingID, err := client.BookEvent(ctx, guest, orders.EventBookingForm{EventID: before[0].EventID, Seats: 2})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if bookingID == "" {
		t.Fatal("expected a booking id")
	}

	after, err := client.GetEvents(ctx)
	if err != nil {
		t.Fatalf("events after booking: %v", err)
	}
	if after[0].SeatsLeft != before[0].SeatsLeft-2 {
		t.Fatalf("seats_left = %d, want %d", after[0].SeatsLeft, before[0].SeatsLeft-2)
	}
}

func TestEventOverbookingRejected(t *testing.T) {
	startBackend(t)
	s := store.NewMemoryStore()
	client := orders.NewClient(s)
	guest := identity.EnsureGuest(s)

	_, err := client.BookEvent(context.Background(), guest, orders.EventBookingForm{EventID: "ev-2", Seats: 20})
	if err == nil {
		t.Fatal("expected overbooking to fail")
	}
}

func TestProfileUpdateRoundTrip(t *testing.T) {
	startBackend(t)
	s := store.NewMemoryStore()
	svc := auth.NewService(s)
	ctx := context.Background()

	session, err := svc.Login(ctx, auth.Credentials{PhoneOrEmail: "carlo@tavolo.dev", Password: "customer123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := svc.UpdateProfile(ctx, session.Token, auth.ProfileForm{Name: "Carlo Renamed"})
	if err != nil {
		t.Fatalf("profile update: %v", err)
	}
	if user.Name != "Carlo Renamed" {
		t.Fatalf("name = %q, want updated", user.Name)
	}
}

func TestProfileUpdateRequiresToken(t *testing.T) {
	startBackend(t)
	svc := auth.NewService(store.NewMemoryStore())

	_, err := svc.UpdateProfile(context.Background(), "garbage-token", auth.ProfileForm{Name: "Whoever"})
	if err == nil {
		t.Fatal("expected an invalid token to be rejected")
	}
}
