package profile

import (
	"testing"
	"time"
)

func TestCheckPremiumActiveGrant(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(24 * time.Hour)
	if err := store.SetPremium(7, PremiumStatus{IsPremium: true, ExpiresAt: &expiry}); err != nil {
		t.Fatalf("set premium: %v", err)
	}

	ok, err := CheckPremium(store, 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected active premium")
	}
}

func TestCheckPremiumExpiredIsDowngraded(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(-time.Minute)
	if err := store.SetPremium(7, PremiumStatus{IsPremium: true, ExpiresAt: &expiry}); err != nil {
		t.Fatalf("set premium: %v", err)
	}

	ok, err := CheckPremium(store, 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected expired premium to read as false")
	}

	// The downgrade must persist.
	status, err := store.Premium(7)
	if err != nil {
		t.Fatalf("read premium: %v", err)
	}
	if status.IsPremium {
		t.Fatal("expected stored status to be downgraded")
	}
}

func TestCheckPremiumMissingExpiryIsInactive(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SetPremium(7, PremiumStatus{IsPremium: true}); err != nil {
		t.Fatalf("set premium: %v", err)
	}

	ok, err := CheckPremium(store, 7, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("premium without expiry must be treated as non-premium")
	}
}

func TestMediaKindValid(t *testing.T) {
	if !MediaVideo.Valid() || MediaKind("gif").Valid() {
		t.Fatal("MediaKind.Valid misclassified")
	}
}
