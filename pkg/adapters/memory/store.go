package memory

import (
	"context"
	"sync"
)

// LocaleStore implements ports.LocaleStore in memory.
// Safe for concurrent use.
type LocaleStore struct {
	mu     sync.RWMutex
	locale string
	set    bool
}

// NewLocaleStore creates an empty in-memory locale store.
func NewLocaleStore() *LocaleStore {
	return &LocaleStore{}
}

// Load returns the stored locale, if any.
func (s *LocaleStore) Load(ctx context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale, s.set, nil
}

// Save stores the locale.
func (s *LocaleStore) Save(ctx context.Context, locale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = locale
	s.set = true
	return nil
}
