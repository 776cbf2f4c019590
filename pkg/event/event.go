// Package event is the in-process dispatcher connecting Tavolo's state
// layer to its views. The cart watcher fires CartUpdated after each
// authoritative re-fetch; the auth container fires LoggedIn / LoggedOut
// on session transitions.
package event

import (
	"sync"
)

// Well-known event names.
const (
	CartUpdated = "cart.updated"
	LoggedIn    = "auth.login"
	LoggedOut   = "auth.logout"
)

// Handler receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// Flush removes all listeners. Used by tests.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
