package infra

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
)

// MemoryStore é uma implementação simples em memória de domain.Store.
// Útil para testes e desenvolvimento.
//
// Honra TTL de forma preguiçosa: chaves expiradas são descartadas quando
// lidas ou listadas, como no Redis visto de fora. A paginação usa as chaves em
// ordem lexicográfica com cursor de offset, o que a torna determinística.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	now func() time.Time
}

type memoryEntry struct {
	value string
	// expiresAt zero significa sem expiração.
	expiresAt time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock injeta o relógio usado para expiração (testes).
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if ent.expired(s.now()) {
		delete(s.entries, key)
		return "", false, nil
	}
	return ent.value, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	ent := memoryEntry{value: value}
	if ttl > 0 {
		ent.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = ent
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) ListKeys(_ context.Context, prefix, cursor string, limit int64) ([]string, string, error) {
	now := s.now()

	s.mu.Lock()
	var live []string
	for k, ent := range s.entries {
		if ent.expired(now) {
			delete(s.entries, k)
			continue
		}
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			live = append(live, k)
		}
	}
	s.mu.Unlock()

	sort.Strings(live)

	start := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return nil, "", fmt.Errorf("invalid cursor %q", cursor)
		}
		start = parsed
	}
	if start >= len(live) {
		return nil, "", nil
	}

	end := len(live)
	if limit > 0 && start+int(limit) < end {
		end = start + int(limit)
	}

	page := live[start:end]
	if end == len(live) {
		return page, "", nil
	}
	return page, strconv.Itoa(end), nil
}

// Len devolve o número de chaves vivas (testes).
func (s *MemoryStore) Len() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, ent := range s.entries {
		if !ent.expired(now) {
			n++
		}
	}
	return n
}
