package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"vark-assistant/internal/models"
)

// SessionStore keeps one conversation history per session.
// Load returns an empty history for unknown sessions.
type SessionStore interface {
	Load(ctx context.Context, id uuid.UUID) (models.History, error)
	Save(ctx context.Context, id uuid.UUID, history models.History) error
}

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.History
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[uuid.UUID]models.History)}
}

func (s *MemorySessionStore) Load(_ context.Context, id uuid.UUID) (models.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id].Clone(), nil
}

func (s *MemorySessionStore) Save(_ context.Context, id uuid.UUID, history models.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = history.Clone()
	return nil
}

// RedisSessionStore keeps histories as JSON with a sliding TTL so abandoned
// sessions expire on their own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("session:%s:history", id.String())
}

func (s *RedisSessionStore) Load(ctx context.Context, id uuid.UUID) (models.History, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var history models.History
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return history, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, id uuid.UUID, history models.History) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := s.client.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}
