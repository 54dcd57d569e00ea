package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/BerylCAtieno/churn-dashboard/internal/wizard"
)

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// MemoryStore is a process-local Store. Entries are stored encoded so a
// caller can never mutate stored state without calling Put.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewMemoryStore starts a store whose janitor sweeps expired entries every
// sweep interval. Close stops the janitor.
func NewMemoryStore(ttl, sweep time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweep <= 0 {
		sweep = time.Minute
	}
	s := &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.janitor(sweep)
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (*wizard.Wizard, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && !s.now().Before(e.expires) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	var w wizard.Wizard
	if err := json.Unmarshal(e.raw, &w); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &w, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, w *wizard.Wizard) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	s.mu.Lock()
	s.entries[id] = memoryEntry{raw: raw, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

func (s *MemoryStore) janitor(every time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
		}
	}
}
