package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis"

	"github.com/Chapsvision-dev/supabase-token/internal/config"
	"github.com/Chapsvision-dev/supabase-token/internal/store"
)

func fakeGet(vals map[string]string, err error, seen *[]string) getFunc {
	return func(_ context.Context, key string) *redis.StringCmd {
		*seen = append(*seen, key)
		if err != nil {
			return redis.NewStringResult("", err)
		}
		v, ok := vals[key]
		if !ok {
			return redis.NewStringResult("", redis.Nil)
		}
		return redis.NewStringResult(v, nil)
	}
}

func TestGetItem_PrefixedKey(t *testing.T) {
	var seen []string
	s := &KVStore{
		prefix: "auth:",
		get:    fakeGet(map[string]string{"auth:sb-abcd-auth-token": `{"access_token":"abc123"}`}, nil, &seen),
	}
	data, err := s.GetItem(context.Background(), "sb-abcd-auth-token")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if string(data) != `{"access_token":"abc123"}` {
		t.Fatalf("unexpected value %q", data)
	}
	if len(seen) != 1 || seen[0] != "auth:sb-abcd-auth-token" {
		t.Fatalf("unexpected GET calls: %v", seen)
	}
}

func TestGetItem_NilIsNotFound(t *testing.T) {
	var seen []string
	s := &KVStore{get: fakeGet(nil, nil, &seen)}
	if _, err := s.GetItem(context.Background(), "k"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetItem_ConnectionError(t *testing.T) {
	var seen []string
	boom := errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	s := &KVStore{get: fakeGet(nil, boom, &seen)}
	_, err := s.GetItem(context.Background(), "k")
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "redis GET k") {
		t.Fatalf("want wrapped connection error, got %v", err)
	}
}

func TestRegistered(t *testing.T) {
	s, err := store.New("redis", config.Config{Redis: config.RedisConfig{Addr: "127.0.0.1:0"}})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer func() { _ = s.Close() }()
	if s.Name() != "redis" {
		t.Fatalf("want redis store, got %q", s.Name())
	}
}

func TestOptions_Timeout(t *testing.T) {
	opts := options(config.RedisConfig{Addr: "cache:6379", DB: 3, Timeout: 750 * time.Millisecond})
	if opts.Addr != "cache:6379" || opts.DB != 3 || opts.MaxRetries != 0 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.DialTimeout != 750*time.Millisecond || opts.ReadTimeout != 750*time.Millisecond ||
		opts.WriteTimeout != 750*time.Millisecond {
		t.Fatalf("timeout not applied: dial=%v read=%v write=%v", opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
	}

	// Zero leaves the library defaults in place.
	opts = options(config.RedisConfig{Addr: "cache:6379"})
	if opts.DialTimeout != 0 || opts.ReadTimeout != 0 || opts.WriteTimeout != 0 {
		t.Fatalf("zero timeout must not override defaults: %+v", opts)
	}
}
