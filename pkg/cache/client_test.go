package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// setupTestRedis creates a test Redis client. Unit tests skip when no local
// Redis is reachable; the integration suite covers the same paths with
// testcontainers.
func setupTestRedis(t *testing.T) *Client {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := rdb.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		rdb.FlushDB(context.Background())
		rdb.Close()
	})

	return NewWithClient(rdb, 5*time.Minute)
}

func TestNewWithClient_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewWithClient should panic with nil redis client")
		}
	}()
	NewWithClient(nil, time.Minute)
}

func TestClient_GetMissing(t *testing.T) {
	c := setupTestRedis(t)
	ctx := context.Background()

	if _, found, err := c.Get(ctx, "no-such-key"); err != nil || found {
		t.Errorf("Get(missing) = found=%v err=%v, want found=false err=nil", found, err)
	}

	var dest map[string]int
	if found, err := c.GetJSON(ctx, "no-such-key", &dest); err != nil || found {
		t.Errorf("GetJSON(missing) = found=%v err=%v, want found=false err=nil", found, err)
	}
}

func TestClient_SetAndGetJSON(t *testing.T) {
	c := setupTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name    string          `json:"name"`
		Price   decimal.Decimal `json:"price"`
		Created time.Time       `json:"created_at"`
	}

	in := payload{
		Name:    "Novel",
		Price:   decimal.RequireFromString("19.99"),
		Created: time.Date(2026, 2, 17, 19, 42, 0, 0, time.UTC),
	}

	if err := c.Set(ctx, "product:1", in, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Decimals must travel as numeric strings, timestamps as RFC 3339.
	raw, found, err := c.Get(ctx, "product:1")
	if err != nil || !found {
		t.Fatalf("Get = found=%v err=%v", found, err)
	}
	for _, want := range []string{`"price":"19.99"`, `"created_at":"2026-02-17T19:42:00Z"`} {
		if !strings.Contains(raw, want) {
			t.Errorf("raw payload %q does not contain %q", raw, want)
		}
	}

	var out payload
	found, err = c.GetJSON(ctx, "product:1", &out)
	if err != nil || !found {
		t.Fatalf("GetJSON = found=%v err=%v", found, err)
	}
	if out.Name != in.Name || !out.Price.Equal(in.Price) || !out.Created.Equal(in.Created) {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestClient_SetStringStoredRaw(t *testing.T) {
	c := setupTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "greeting", "hello", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	raw, found, err := c.Get(ctx, "greeting")
	if err != nil || !found {
		t.Fatalf("Get = found=%v err=%v", found, err)
	}
	if raw != "hello" {
		t.Errorf("Get = %q, want %q (strings must not be JSON-quoted)", raw, "hello")
	}
}

func TestClient_SetRefreshesTTL(t *testing.T) {
	c := setupTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "cart:s1", map[string]int{"1": 2}, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	ttl, err := c.rdb.TTL(ctx, "cart:s1").Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 50*time.Minute || ttl > time.Hour {
		t.Errorf("TTL = %v, want about 1h", ttl)
	}

	// Overwriting resets the expiry clock for the whole entry.
	if err := c.Set(ctx, "cart:s1", map[string]int{"1": 5}, 2*time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	ttl, err = c.rdb.TTL(ctx, "cart:s1").Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= time.Hour {
		t.Errorf("TTL after overwrite = %v, want about 2h", ttl)
	}
}

func TestClient_Delete(t *testing.T) {
	c := setupTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k1", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	removed, err := c.Delete(ctx, "k1", "k2")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Delete removed %d keys, want 1", removed)
	}
}

func TestClient_DeletePattern(t *testing.T) {
	c := setupTestRedis(t)
	ctx := context.Background()

	keys := []string{
		"products:page:1:size:20",
		"products:page:2:size:20",
		"products:page:1:size:20:category:3",
		"product:1",
		"categories:all:inactive:false:count:true",
	}
	for _, k := range keys {
		if err := c.Set(ctx, k, "v", time.Minute); err != nil {
			t.Fatalf("Set %q failed: %v", k, err)
		}
	}

	removed, err := c.DeletePattern(ctx, "products:*")
	if err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("DeletePattern removed %d keys, want 3", removed)
	}

	// Unrelated keys survive.
	for _, k := range []string{"product:1", "categories:all:inactive:false:count:true"} {
		if _, found, _ := c.Get(ctx, k); !found {
			t.Errorf("key %q was removed by unrelated pattern", k)
		}
	}
}
