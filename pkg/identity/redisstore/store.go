// Package redisstore persists identity sessions in Redis so a restarted
// console process can resume without a full re-authentication round trip.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/relaydesk/relaydesk/pkg/identity"
)

const defaultTTL = 24 * time.Hour

// Store is a Redis-backed identity.SessionStore. Each console instance is
// keyed by an instance ID so multiple consoles can share one Redis.
type Store struct {
	redis *redis.Client
	key   string
	ttl   time.Duration
	db    int
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the default 24h session retention.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithDB selects a Redis logical database other than 0.
func WithDB(db int) Option {
	return func(s *Store) {
		s.db = db
	}
}

// New connects to Redis and verifies the connection.
func New(addr, password, instanceID string, opts ...Option) (*Store, error) {
	s := &Store{
		key: fmt.Sprintf("relaydesk:session:%s", instanceID),
		ttl: defaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       s.db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s.redis = client
	return s, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.redis.Close()
}

// Save persists the session, replacing any previous one.
func (s *Store) Save(ctx context.Context, sess *identity.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or nil when none exists. An expired
// session is treated as absent and removed.
func (s *Store) Load(ctx context.Context) (*identity.Session, error) {
	data, err := s.redis.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess identity.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		// Corrupt payload is unrecoverable; drop it rather than
		// failing every future bootstrap.
		s.redis.Del(ctx, s.key)
		return nil, nil
	}

	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		s.redis.Del(ctx, s.key)
		return nil, nil
	}
	return &sess, nil
}

// Clear removes the persisted session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
