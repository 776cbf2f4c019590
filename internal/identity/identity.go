// Package identity models who a cart or order belongs to. The backend
// takes a single user_id string, but on the client the two shapes of
// that string must never be conflated: a real account id and a generated
// guest correlation key. Identity is the tagged union keeping them apart.
package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tavolo/tavolo/pkg/store"
)

type kind int

const (
	kindAccount kind = iota
	kindGuest
)

// Identity is either Account(id) or Guest(sessionID).
type Identity struct {
	kind kind
	id   string
}

// Account wraps a backend-assigned account id.
func Account(id string) Identity {
	return Identity{kind: kindAccount, id: id}
}

// Guest wraps a generated guest session id.
func Guest(sessionID string) Identity {
	return Identity{kind: kindGuest, id: sessionID}
}

// Key returns the user_id string sent to the backend.
func (i Identity) Key() string { return i.id }

// IsGuest reports whether this is a guest correlation key rather than a
// real account.
func (i Identity) IsGuest() bool { return i.kind == kindGuest }

func (i Identity) String() string {
	if i.IsGuest() {
		return "guest(" + i.id + ")"
	}
	return "account(" + i.id + ")"
}

// EnsureGuest returns the stored guest identity, generating and
// persisting a new one on first use. The id is purely a correlation key
// for the backend's cart storage, not a credential. Repeated calls
// against the same store return the identical id.
func EnsureGuest(s store.Store) Identity {
	var id string
	if s.Get(store.KeyGuestSessionID, &id) && id != "" {
		return Guest(id)
	}

	id = newGuestID()
	_ = s.Set(store.KeyGuestSessionID, id) // best effort; a lost id just means a fresh cart
	return Guest(id)
}

// ClearGuest forgets the stored guest session id.
func ClearGuest(s store.Store) {
	s.Remove(store.KeyGuestSessionID)
}

// newGuestID builds a session_<unix-ms>_<random> correlation key.
func newGuestID() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), random)
}
