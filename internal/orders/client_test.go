package orders_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tavolo/tavolo/internal/identity"
	"github.com/tavolo/tavolo/internal/orders"
	"github.com/tavolo/tavolo/pkg/store"
	"github.com/tavolo/tavolo/pkg/testkit"
)

func newClient(t *testing.T) (*orders.Client, *testkit.MockTransport) {
	t.Helper()
	mt := testkit.Install(t)
	return orders.NewClient(store.NewMemoryStore()), mt
}

func TestGetCart_NetworkFailureReturnsZeroedCart(t *testing.T) {
	c, mt := newClient(t)
	mt.StubError("GET", "/api/user-orders/cart/", errors.New("connection refused"))

	cart := c.GetCart(context.Background(), identity.Guest("session_1_abc"))

	if cart.Items == nil || len(cart.Items) != 0 {
		t.Errorf("items = %#v, want empty non-nil slice", cart.Items)
	}
	if cart.Subtotal != 0 || cart.Tax != 0 || cart.Total != 0 || cart.ItemCount != 0 {
		t.Errorf("expected zeroed totals, got %+v", cart)
	}
}

func TestGetCart_ParsesAuthoritativeTotals(t *testing.T) {
	c, mt := newClient(t)
	mt.Stub("GET", "/api/user-orders/cart/7", 200, `{
		"items":[{"item_id":"m1","name":"Paneer Tikka","price":240,"quantity":2,"item_total":480}],
		"subtotal":480,"tax":24,"total":504,"item_count":2
	}`)

	cart := c.GetCart(context.Background(), identity.Account("7"))

	if cart.ItemCount != 2 || cart.Total != 504 {
		t.Errorf("cart = %+v", cart)
	}
	if len(cart.Items) != 1 || cart.Items[0].ItemTotal != 480 {
		t.Errorf("items = %+v", cart.Items)
	}
}

func TestGetCart_StaleResponseDoesNotOverwriteNewer(t *testing.T) {
	c, mt := newClient(t)
	id := identity.Account("7")

	// First fetch answers slowly with the old cart; a later stub wins for
	// the second fetch and answers immediately with the new cart.
	mt.StubDelayed("GET", "/api/user-orders/cart/7", 200,
		`{"items":[],"subtotal":0,"tax":0,"total":0,"item_count":0}`, 150*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	var slowResult orders.Cart
	go func() {
		defer wg.Done()
		slowResult = c.GetCart(context.Background(), id)
	}()

	time.Sleep(30 * time.Millisecond)
	mt.Stub("GET", "/api/user-orders/cart/7", 200,
		`{"items":[{"item_id":"m1","name":"Dal","price":90,"quantity":1,"item_total":90}],"subtotal":90,"tax":4.5,"total":94.5,"item_count":1}`)

	fast := c.GetCart(context.Background(), id)
	if fast.ItemCount != 1 {
		t.Fatalf("fast fetch = %+v", fast)
	}

	wg.Wait()

	if slowResult.ItemCount != 1 {
		t.Errorf("stale response must yield the newer snapshot, got %+v", slowResult)
	}
	if got := c.Latest(id); got.ItemCount != 1 || got.Total != 94.5 {
		t.Errorf("latest snapshot overwritten by stale response: %+v", got)
	}
}

func TestMutationsSendContractFields(t *testing.T) {
	c, mt := newClient(t)
	id := identity.Guest("session_1_abc")
	ctx := context.Background()

	mt.Stub("POST", "/api/user-orders/cart/add", 200, `{"success":true}`)
	mt.Stub("POST", "/api/user-orders/cart/update-quantity", 200, `{"success":true}`)
	mt.Stub("POST", "/api/user-orders/cart/remove", 200, `{"success":true}`)

	if err := c.AddToCart(ctx, id, orders.AddRequest{ItemID: "m1", Quantity: 2, Category: "starters", DietType: "veg"}); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateQuantity(ctx, id, "m1", 3); err != nil {
		t.Fatal(err)
	}
	if err := c.RemoveFromCart(ctx, id, "m1"); err != nil {
		t.Fatal(err)
	}

	calls := mt.Calls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 mutation calls, got %d", len(calls))
	}
	testkit.AssertBodyField(t, calls[0], "user_id", "session_1_abc")
	testkit.AssertBodyField(t, calls[0], "diet_type", "veg")
	testkit.AssertBodyField(t, calls[1], "new_quantity", float64(3))
	testkit.AssertBodyField(t, calls[2], "item_id", "m1")
}

func TestMutationFailureIsNormalized(t *testing.T) {
	c, mt := newClient(t)
	mt.Stub("POST", "/api/user-orders/cart/add", 400, `{"success":false,"message":"item out of stock"}`)

	err := c.AddToCart(context.Background(), identity.Account("7"), orders.AddRequest{ItemID: "m9", Quantity: 1})
	if err == nil || err.Error() != "item out of stock" {
		t.Errorf("expected backend message verbatim, got %v", err)
	}
}

func TestGetUserOrders_FailureReturnsEmptyList(t *testing.T) {
	c, mt := newClient(t)
	mt.StubError("GET", "/api/user-orders/orders/", errors.New("timeout"))

	got := c.GetUserOrders(context.Background(), identity.Account("7"))
	if got == nil || len(got) != 0 {
		t.Errorf("orders = %#v, want empty non-nil slice", got)
	}
}

func TestGetUserOrders_UnwrapsDataEnvelope(t *testing.T) {
	c, mt := newClient(t)
	mt.Stub("GET", "/api/user-orders/orders/7", 200,
		`{"data":[{"order_id":"o1","total":504,"status":"pending","type":"takeaway","payment_method":"cash"}]}`)

	got := c.GetUserOrders(context.Background(), identity.Account("7"))
	if len(got) != 1 || got[0].OrderID != "o1" || got[0].Status != "pending" {
		t.Errorf("orders = %+v", got)
	}
}

func TestCheckout_ReturnsOrderID(t *testing.T) {
	c, mt := newClient(t)
	mt.Stub("POST", "/api/user-orders/checkout", 200, `{"success":true,"order_id":"o42"}`)

	id, err := c.Checkout(context.Background(), identity.Account("7"), orders.CheckoutForm{
		OrderType: "delivery", PaymentMethod: "upi", DeliveryAddress: "12 MG Road, Bangalore",
	})
	if err != nil {
		t.Fatal(err)
	}
	if id != "o42" {
		t.Errorf("order id = %q", id)
	}

	calls := mt.Calls()
	testkit.AssertBodyField(t, calls[0], "order_type", "delivery")
	testkit.AssertBodyField(t, calls[0], "delivery_address", "12 MG Road, Bangalore")
}

func TestGetMenu_ParsesVegAndNonVegArrays(t *testing.T) {
	c, mt := newClient(t)
	mt.Stub("GET", "/api/user-orders/menu", 200, `{
		"categories":[{"category_name":"Starters",
			"veg":[{"item_id":"m1","name":"Paneer Tikka","price":240}],
			"non_veg":[{"item_id":"m2","name":"Chicken 65","price":280}]}]
	}`)

	menu, err := c.GetMenu(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(menu.Categories) != 1 {
		t.Fatalf("categories = %+v", menu.Categories)
	}
	cat := menu.Categories[0]
	if len(cat.Veg) != 1 || len(cat.NonVeg) != 1 || cat.NonVeg[0].Name != "Chicken 65" {
		t.Errorf("category = %+v", cat)
	}
}

func TestCheckout_EmptyCartShortCircuitsBeforeNetwork(t *testing.T) {
	c, mt := newClient(t)
	id := identity.Account("7")
	mt.Stub("GET", "/api/user-orders/cart/7", 200,
		`{"items":[],"subtotal":0,"tax":0,"total":0,"item_count":0}`)

	// Callers check the fetched cart before placing an order; an empty
	// cart never reaches the checkout endpoint.
	if cart := c.GetCart(context.Background(), id); cart.ItemCount > 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	testkit.RequireNoCall(t, mt, "POST", "/api/user-orders/checkout")
}
