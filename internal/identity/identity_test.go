package identity_test

import (
	"strings"
	"testing"

	"github.com/tavolo/tavolo/internal/identity"
	"github.com/tavolo/tavolo/pkg/store"
)

func TestEnsureGuest_StableAcrossCalls(t *testing.T) {
	s := store.NewMemoryStore()

	first := identity.EnsureGuest(s)
	second := identity.EnsureGuest(s)

	if first.Key() == "" {
		t.Fatal("expected a generated guest id")
	}
	if first.Key() != second.Key() {
		t.Errorf("guest id not stable: %q vs %q", first.Key(), second.Key())
	}
}

func TestEnsureGuest_Format(t *testing.T) {
	s := store.NewMemoryStore()

	id := identity.EnsureGuest(s)
	if !strings.HasPrefix(id.Key(), "session_") {
		t.Errorf("guest id %q missing session_ prefix", id.Key())
	}
	if parts := strings.Split(id.Key(), "_"); len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		t.Errorf("guest id %q not of form session_<timestamp>_<random>", id.Key())
	}
	if !id.IsGuest() {
		t.Error("EnsureGuest must return a guest identity")
	}
}

func TestClearGuest_ForcesNewID(t *testing.T) {
	s := store.NewMemoryStore()

	first := identity.EnsureGuest(s)
	identity.ClearGuest(s)
	second := identity.EnsureGuest(s)

	if first.Key() == second.Key() {
		t.Error("expected a fresh guest id after ClearGuest")
	}
}

func TestAccountAndGuestAreDistinct(t *testing.T) {
	acct := identity.Account("42")
	guest := identity.Guest("session_1_abc")

	if acct.IsGuest() {
		t.Error("account identity reported as guest")
	}
	if !guest.IsGuest() {
		t.Error("guest identity reported as account")
	}
	if acct.Key() != "42" || guest.Key() != "session_1_abc" {
		t.Error("Key must return the wrapped id unchanged")
	}
}
