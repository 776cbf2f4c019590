package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tavolo/tavolo/pkg/store"
)

type record struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := store.NewFileStore(t.TempDir())

	if err := s.Set("auth_user", record{Name: "Asha", Age: 31}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var out record
	if !s.Get("auth_user", &out) {
		t.Fatal("Get reported absence for a stored key")
	}
	if out.Name != "Asha" || out.Age != 31 {
		t.Errorf("round-trip mismatch: got %+v", out)
	}
}

func TestFileStore_MissingKeyIsAbsent(t *testing.T) {
	s := store.NewFileStore(t.TempDir())

	var out record
	if s.Get("nope", &out) {
		t.Error("expected absence for missing key")
	}
}

func TestFileStore_CorruptJSONIsAbsent(t *testing.T) {
	dir := t.TempDir()
	s := store.NewFileStore(dir)

	if err := os.WriteFile(filepath.Join(dir, "auth_token.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	var tok string
	if s.Get("auth_token", &tok) {
		t.Error("corrupt entry must read as absent, not as an error or a value")
	}
}

func TestFileStore_Remove(t *testing.T) {
	s := store.NewFileStore(t.TempDir())

	if err := s.Set("theme", "dark"); err != nil {
		t.Fatal(err)
	}
	s.Remove("theme")

	var theme string
	if s.Get("theme", &theme) {
		t.Error("expected key to be gone after Remove")
	}

	// Removing an absent key must not panic or error.
	s.Remove("theme")
}

func TestMemoryStore_MatchesFileSemantics(t *testing.T) {
	s := store.NewMemoryStore()

	if err := s.Set("guest_session_id", "session_123_abc"); err != nil {
		t.Fatal(err)
	}
	var id string
	if !s.Get("guest_session_id", &id) || id != "session_123_abc" {
		t.Errorf("got %q", id)
	}

	s.Remove("guest_session_id")
	if s.Get("guest_session_id", &id) {
		t.Error("expected absence after Remove")
	}
}

func TestUse_SwapsDefault(t *testing.T) {
	prev := store.Use(store.NewMemoryStore())
	defer store.Use(prev)

	if err := store.Set("theme", "light"); err != nil {
		t.Fatal(err)
	}
	var theme string
	if !store.Get("theme", &theme) || theme != "light" {
		t.Errorf("package-level store did not use injected driver, got %q", theme)
	}
}
