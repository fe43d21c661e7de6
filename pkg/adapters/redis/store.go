package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// LocaleStore implements ports.LocaleStore using Redis, so a preference follows the user
// across machines sharing one Redis.
type LocaleStore struct {
	client backend.UniversalClient
	prefix string
	user   string
	ttl    time.Duration
}

// Option configures a LocaleStore.
type Option func(*LocaleStore)

// WithPrefix sets the key prefix. Default "studio:".
func WithPrefix(prefix string) Option {
	return func(s *LocaleStore) {
		s.prefix = prefix
	}
}

// WithUser scopes the stored preference to a user id. Default "default".
func WithUser(user string) Option {
	return func(s *LocaleStore) {
		s.user = user
	}
}

// WithTTL expires the preference after ttl. Zero keeps it forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *LocaleStore) {
		s.ttl = ttl
	}
}

// New connects to Redis at addr.
func New(addr string, opts ...Option) *LocaleStore {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client backend.UniversalClient, opts ...Option) *LocaleStore {
	s := &LocaleStore{
		client: client,
		prefix: "studio:",
		user:   "default",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the Redis key holding the preference.
func (s *LocaleStore) Key() string {
	return s.prefix + "prefs:" + s.user + ":locale"
}

// Load returns the stored locale, if any.
func (s *LocaleStore) Load(ctx context.Context) (string, bool, error) {
	val, err := s.client.Get(ctx, s.Key()).Result()
	if errors.Is(err, backend.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get locale: %w", err)
	}
	return val, true, nil
}

// Save stores the locale.
func (s *LocaleStore) Save(ctx context.Context, locale string) error {
	if err := s.client.Set(ctx, s.Key(), locale, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set locale: %w", err)
	}
	return nil
}
