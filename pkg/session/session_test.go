package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := New("user_1", time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != "user_1" {
		t.Errorf("UserID = %q, want user_1", got.UserID)
	}

	if err := store.Delete(ctx, sess.Token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sess := &Session{Token: "t", UserID: "u", ExpiresAt: time.Now().Add(-time.Minute)}
	_ = store.Set(ctx, sess)

	if _, err := store.Get(ctx, "t"); !errors.Is(err, ErrExpired) {
		t.Errorf("Get = %v, want ErrExpired", err)
	}
}

func TestGenerateTokenUnique(t *testing.T) {
	a, err := GenerateToken()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateToken()
	if a == b {
		t.Error("tokens should differ")
	}
	if len(a) < 40 {
		t.Errorf("token too short: %d", len(a))
	}
}
