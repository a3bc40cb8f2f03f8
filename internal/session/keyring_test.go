package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisKeyrings(t *testing.T) (*RedisKeyrings, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return NewRedisKeyrings(client, time.Hour), mr, cleanup
}

func TestRedisKeyringRoundTrip(t *testing.T) {
	keyrings, mr, cleanup := setupRedisKeyrings(t)
	defer cleanup()

	kr := keyrings.Keyring("visitor-1")
	ctx := context.Background()

	if err := kr.Save(ctx, `{"id":1}`, "tok-1"); err != nil {
		t.Fatalf("save: %v", err)
	}

	userJSON, token, err := kr.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if userJSON != `{"id":1}` || token != "tok-1" {
		t.Fatalf("unexpected pair: %q %q", userJSON, token)
	}

	// both entries carry the session TTL
	if ttl := mr.TTL("session:v1:visitor-1:user"); ttl <= 0 {
		t.Fatalf("expected TTL on user entry, got %v", ttl)
	}
	if ttl := mr.TTL("session:v1:visitor-1:token"); ttl <= 0 {
		t.Fatalf("expected TTL on token entry, got %v", ttl)
	}
}

func TestRedisKeyringClearRemovesBothEntries(t *testing.T) {
	keyrings, mr, cleanup := setupRedisKeyrings(t)
	defer cleanup()

	kr := keyrings.Keyring("visitor-1")
	ctx := context.Background()

	if err := kr.Save(ctx, `{"id":1}`, "tok-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := kr.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if mr.Exists("session:v1:visitor-1:user") || mr.Exists("session:v1:visitor-1:token") {
		t.Fatalf("expected both entries removed")
	}

	userJSON, token, err := kr.Load(ctx)
	if err != nil || userJSON != "" || token != "" {
		t.Fatalf("expected empty pair after clear, got %q %q err=%v", userJSON, token, err)
	}
}

func TestRedisKeyringsAreVisitorScoped(t *testing.T) {
	keyrings, _, cleanup := setupRedisKeyrings(t)
	defer cleanup()

	ctx := context.Background()
	if err := keyrings.Keyring("a").Save(ctx, `{"id":1}`, "tok-a"); err != nil {
		t.Fatalf("save: %v", err)
	}

	userJSON, token, err := keyrings.Keyring("b").Load(ctx)
	if err != nil || userJSON != "" || token != "" {
		t.Fatalf("visitor b should see no session, got %q %q err=%v", userJSON, token, err)
	}
}

func TestMemoryKeyringRoundTrip(t *testing.T) {
	kr := NewMemoryKeyrings().Keyring("visitor-1")
	ctx := context.Background()

	if err := kr.Save(ctx, `{"id":2}`, "tok-2"); err != nil {
		t.Fatalf("save: %v", err)
	}
	userJSON, token, err := kr.Load(ctx)
	if err != nil || userJSON != `{"id":2}` || token != "tok-2" {
		t.Fatalf("unexpected pair: %q %q err=%v", userJSON, token, err)
	}

	if err := kr.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	userJSON, token, _ = kr.Load(ctx)
	if userJSON != "" || token != "" {
		t.Fatalf("expected empty pair after clear")
	}
}
