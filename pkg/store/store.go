// Package store is Tavolo's persistent key-value state store, the
// client-side stand-in for browser local storage. Values are JSON-encoded
// transparently; a missing or corrupt entry reads as absent, never as an
// error, so callers do not handle parse failures.
//
// Two drivers are available:
//   - "file"   — one JSON file per key under STORE_ROOT (default)
//   - "memory" — ephemeral map, used by tests
//
// Quick start:
//
//	store.Set(store.KeyAuthToken, token)
//	var user User
//	if store.Get(store.KeyAuthUser, &user) { ... }
//	store.Remove(store.KeyAuthToken)
package store

import "sync"

// Fixed keys for everything the client persists.
const (
	KeyAuthToken      = "auth_token"
	KeyAuthUser       = "auth_user"
	KeyGuestSessionID = "guest_session_id"
	KeyCartSnapshot   = "cart_snapshot"
	KeyTheme          = "theme"
)

// Store is the driver interface.
type Store interface {
	// Get unmarshals the value under key into dest and reports whether a
	// usable value was present. Corrupt JSON counts as absent.
	Get(key string, dest interface{}) bool

	// Set marshals v to JSON and persists it under key.
	Set(key string, v interface{}) error

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
}

var (
	mu      sync.RWMutex
	current Store = NewFileStore("")
)

// Use replaces the package-level store and returns the previous one,
// so tests can restore it:
//
//	prev := store.Use(store.NewMemoryStore())
//	defer store.Use(prev)
func Use(s Store) Store {
	mu.Lock()
	defer mu.Unlock()
	prev := current
	current = s
	return prev
}

// Default returns the package-level store, for injection into services.
func Default() Store {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Get proxies to the package-level store.
func Get(key string, dest interface{}) bool { return Default().Get(key, dest) }

// Set proxies to the package-level store.
func Set(key string, v interface{}) error { return Default().Set(key, v) }

// Remove proxies to the package-level store.
func Remove(key string) { Default().Remove(key) }
