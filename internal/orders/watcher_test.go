package orders_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tavolo/tavolo/internal/identity"
	"github.com/tavolo/tavolo/internal/orders"
	"github.com/tavolo/tavolo/pkg/store"
	"github.com/tavolo/tavolo/pkg/testkit"
)

func TestWatcher_PollsUntilCancelled(t *testing.T) {
	mt := testkit.Install(t)
	mt.Stub("GET", "/api/user-orders/cart/", 200,
		`{"items":[],"subtotal":0,"tax":0,"total":0,"item_count":0}`)

	c := orders.NewClient(store.NewMemoryStore())

	var updates atomic.Int32
	w := orders.NewWatcher(c, identity.Guest("session_1_abc"), 20*time.Millisecond).
		OnUpdate(func(orders.Cart) { updates.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Wait for the immediate fetch plus at least one tick.
	deadline := time.After(2 * time.Second)
	for updates.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d updates before deadline", updates.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}

	// No deliveries after teardown.
	settled := updates.Load()
	time.Sleep(60 * time.Millisecond)
	if updates.Load() != settled {
		t.Errorf("updates continued after cancel: %d → %d", settled, updates.Load())
	}
}

func TestWatcher_DeliversLatestSnapshot(t *testing.T) {
	mt := testkit.Install(t)
	mt.Stub("GET", "/api/user-orders/cart/", 200,
		`{"items":[{"item_id":"m1","name":"Dal","price":90,"quantity":1,"item_total":90}],"subtotal":90,"tax":4.5,"total":94.5,"item_count":1}`)

	c := orders.NewClient(store.NewMemoryStore())

	got := make(chan orders.Cart, 1)
	w := orders.NewWatcher(c, identity.Account("7"), time.Hour).
		OnUpdate(func(cart orders.Cart) {
			select {
			case got <- cart:
			default:
			}
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	select {
	case cart := <-got:
		if cart.ItemCount != 1 || cart.Total != 94.5 {
			t.Errorf("cart = %+v", cart)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no immediate fetch on start")
	}
}
