package redis

import (
	"testing"
	"time"

	"github.com/AlaHassouna/Waw-Tee/pkg/config"
)

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://:secret@redis.internal:6380/2",
		PoolSize: 15,
	})
	if err != nil {
		t.Fatalf("optionsFromConfig: %v", err)
	}
	if opts.Addr != "redis.internal:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.PoolSize != 15 {
		t.Fatalf("pool size = %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigFallsBackToAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:     "localhost:6379",
		Password:    "secret",
		DB:          1,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("optionsFromConfig: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.Password != "secret" || opts.DB != 1 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.DialTimeout != 2*time.Second {
		t.Fatalf("dial timeout = %s", opts.DialTimeout)
	}
}

func TestOptionsFromConfigRequiresURLOrAddress(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected an error when neither url nor address is set")
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	c := &Client{}
	if key := c.IdempotencyKey("orders", "abc"); key != "wawtee:idempotency:orders:abc" {
		t.Fatalf("key = %q", key)
	}
	if key := c.GatewayTokenKey("paypal"); key != "wawtee:gateway_token:paypal" {
		t.Fatalf("key = %q", key)
	}
	if key := c.buildKey("a", " ", "b"); key != "wawtee:a:b" {
		t.Fatalf("key = %q", key)
	}
}
