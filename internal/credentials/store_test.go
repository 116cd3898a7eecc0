package credentials

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("")

	if !store.Persistent() {
		t.Fatalf("expected mock keyring to be available")
	}
	if _, err := store.Get("app"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set("app", "secret"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := Lookup(store, "app"); got != "secret" {
		t.Fatalf("expected stored secret, got %q", got)
	}
	if err := store.Delete("app"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete("app"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if got := Lookup(store, "app"); got != "" {
		t.Fatalf("expected empty lookup after delete, got %q", got)
	}
}

func TestKeyringStore_MemoryFallback(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	defer keyring.MockInit()

	store := NewKeyringStore("snippetgen-test")
	if store.Persistent() {
		t.Fatalf("expected memory fallback")
	}
	if err := store.Set("", "token"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := Lookup(store, DefaultAccount); got != "token" {
		t.Fatalf("expected default account secret, got %q", got)
	}
	_ = store.Delete(" ")
	if _, err := store.Get(""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookup_NilStore(t *testing.T) {
	if got := Lookup(nil, "x"); got != "" {
		t.Fatalf("expected empty lookup, got %q", got)
	}
}
