package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisClients holds the two connections a Redis-backed deployment needs:
// Sessions for history reads and writes, PubSub for the WebSocket fan-out.
// Subscribers hold their connection for as long as a tab is open, so they
// get a pool of their own.
type RedisClients struct {
	Sessions *redis.Client
	PubSub   *redis.Client
}

// NewRedisClients parses redisURL and connects both clients, failing if
// either cannot answer a PING before ctx is done.
func NewRedisClients(ctx context.Context, redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	sessions, err := connect(ctx, opt, "sessions")
	if err != nil {
		return nil, err
	}

	pubsub, err := connect(ctx, opt, "pubsub")
	if err != nil {
		sessions.Close()
		return nil, err
	}

	return &RedisClients{Sessions: sessions, PubSub: pubsub}, nil
}

func connect(ctx context.Context, opt *redis.Options, role string) (*redis.Client, error) {
	o := *opt
	client := redis.NewClient(&o)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis (%s): %w", role, err)
	}
	return client, nil
}

func (r *RedisClients) Close() error {
	return errors.Join(r.Sessions.Close(), r.PubSub.Close())
}
