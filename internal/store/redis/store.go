package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/supabase-token/internal/config"
	"github.com/Chapsvision-dev/supabase-token/internal/store"
)

type getFunc func(ctx context.Context, key string) *redis.StringCmd

// KVStore reads items stored as plain strings under <prefix><key>.
type KVStore struct {
	addr   string
	prefix string
	get    getFunc
	close  func() error
}

func (s *KVStore) Name() string { return "redis" }

func (s *KVStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func (s *KVStore) GetItem(ctx context.Context, key string) ([]byte, error) {
	k := s.prefix + key
	val, err := s.get(ctx, k).Result()
	if err == redis.Nil {
		log.Debug().Str("action", "redis_get").Str("addr", s.addr).Str("key", k).Msg("no stored item")
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", k, err)
	}
	if len(val) > store.MaxItemSize {
		return nil, fmt.Errorf("redis GET %s: item exceeds %d bytes", k, store.MaxItemSize)
	}
	log.Debug().Str("action", "redis_get").Str("addr", s.addr).Str("key", k).Int("bytes", len(val)).Msg("item read")
	return []byte(val), nil
}

// options maps the config onto client options. A positive Timeout replaces
// the library's dial and read defaults.
func options(c config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:       c.Addr,
		Password:   c.Password,
		DB:         c.DB,
		MaxRetries: 0,
	}
	if c.Timeout > 0 {
		opts.DialTimeout = c.Timeout
		opts.ReadTimeout = c.Timeout
		opts.WriteTimeout = c.Timeout
	}
	return opts
}

// New connects lazily; no command is sent until GetItem.
func New(c config.RedisConfig) *KVStore {
	client := redis.NewClient(options(c))
	return &KVStore{
		addr:   c.Addr,
		prefix: c.KeyPrefix,
		get: func(ctx context.Context, key string) *redis.StringCmd {
			return client.WithContext(ctx).Get(key)
		},
		close: client.Close,
	}
}

func init() {
	store.Register("redis", func(c config.Config) (store.Store, error) {
		return New(c.Redis), nil
	})
}
