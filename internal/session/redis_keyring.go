package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyringPrefix = "session:v1:"

// RedisKeyrings stores session pairs in Redis with a TTL. Both entries for a
// visitor are written and deleted inside one pipelined transaction.
type RedisKeyrings struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisKeyrings builds a Redis-backed keyring provider.
func NewRedisKeyrings(client *redis.Client, ttl time.Duration) *RedisKeyrings {
	return &RedisKeyrings{client: client, ttl: ttl}
}

// Keyring returns the keyring scoped to one visitor id.
func (r *RedisKeyrings) Keyring(sid string) Keyring {
	return &redisKeyring{
		client:   r.client,
		ttl:      r.ttl,
		userKey:  keyringPrefix + sid + ":user",
		tokenKey: keyringPrefix + sid + ":token",
	}
}

type redisKeyring struct {
	client   *redis.Client
	ttl      time.Duration
	userKey  string
	tokenKey string
}

func (k *redisKeyring) Load(ctx context.Context) (string, string, error) {
	values, err := k.client.MGet(ctx, k.userKey, k.tokenKey).Result()
	if err != nil {
		return "", "", fmt.Errorf("load session pair: %w", err)
	}
	return asString(values[0]), asString(values[1]), nil
}

func (k *redisKeyring) Save(ctx context.Context, userJSON, token string) error {
	pipe := k.client.TxPipeline()
	pipe.Set(ctx, k.userKey, userJSON, k.ttl)
	pipe.Set(ctx, k.tokenKey, token, k.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session pair: %w", err)
	}
	return nil
}

func (k *redisKeyring) Clear(ctx context.Context) error {
	pipe := k.client.TxPipeline()
	pipe.Del(ctx, k.userKey)
	pipe.Del(ctx, k.tokenKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("clear session pair: %w", err)
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
