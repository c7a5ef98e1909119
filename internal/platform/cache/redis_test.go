package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestJSONCache_Key(t *testing.T) {
	c := NewJSONCache(nil, "valueset", time.Minute)
	if got := c.Key("purpose-of-visit", "h1"); got != "vetfhir:valueset:purpose-of-visit:h1" {
		t.Errorf("key = %q", got)
	}
}

func TestNewRedisClient_BadURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "http://localhost:6379"); err == nil {
		t.Error("expected error for non-redis scheme")
	}
}

func TestJSONCache_UnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	c := NewJSONCache(rdb, "test", time.Minute)

	var v map[string]string
	found, err := c.Get(context.Background(), c.Key("k"), &v)
	if err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if found {
		t.Error("found should be false on error")
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Error("expected ping error")
	}
}
