package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/joelkehle/ethiguide/internal/wizard"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Record is a persisted session.
type Record struct {
	Token     string
	Seed      uint64
	CreatedAt time.Time
	LastSeen  time.Time
	State     wizard.Snapshot
}

func (r Record) clone() Record {
	r.State = r.State.Clone()
	return r
}

// Store persists session records. Implementations must be safe for
// concurrent use.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, token string) (Record, error)
	Delete(ctx context.Context, token string) error
	// Sweep removes every record last seen before cutoff and returns their tokens.
	Sweep(ctx context.Context, cutoff time.Time) ([]string, error)
	Close() error
}

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Token] = rec.clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[token]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec.clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, token)
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, cutoff time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for token, rec := range s.records {
		if rec.LastSeen.Before(cutoff) {
			delete(s.records, token)
			removed = append(removed, token)
		}
	}
	sort.Strings(removed)
	return removed, nil
}

func (s *MemoryStore) Close() error { return nil }

// Len reports the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
