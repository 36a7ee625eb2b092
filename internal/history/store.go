package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
)

const (
	// DefaultKey is the namespace the list is stored under.
	DefaultKey = "mathrush:history"
	// MaxEntries bounds the stored list.
	MaxEntries = 10
)

// KeyValue is the persistence port behind the history list. Store treats
// every Get error, including a missing key, as an empty list.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store is the bounded recent-history list. It is safe for concurrent use
// within one process.
type Store struct {
	kv  KeyValue
	key string
	mu  sync.Mutex
}

// NewStore creates a history store. An empty key uses DefaultKey.
func NewStore(kv KeyValue, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key}
}

// Key returns the namespace this store writes to.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored list, most recent first. A missing, unreadable or
// corrupt value yields an empty list.
func (s *Store) Load(ctx context.Context) []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Recent returns at most n entries.
func (s *Store) Recent(ctx context.Context, n int) []Summary {
	list := s.Load(ctx)
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

// Save inserts summary at the front, replacing any entry with the same run
// ID, and keeps at most MaxEntries.
func (s *Store) Save(ctx context.Context, summary Summary) error {
	if summary.RunID == "" {
		return errors.New("history: summary has no run ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.load(ctx)
	list = slices.DeleteFunc(list, func(e Summary) bool { return e.RunID == summary.RunID })
	list = append([]Summary{summary}, list...)
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	return s.write(ctx, list)
}

// Clear persists an empty list.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, []Summary{})
}

func (s *Store) load(ctx context.Context) []Summary {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil || len(data) == 0 {
		return []Summary{}
	}
	var list []Summary
	if err := json.Unmarshal(data, &list); err != nil || list == nil {
		return []Summary{}
	}
	return list
}

func (s *Store) write(ctx context.Context, list []Summary) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("history: cannot encode list: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("history: cannot persist list: %w", err)
	}
	return nil
}
