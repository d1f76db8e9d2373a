package cart

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 30 * time.Second

type sessionEntry struct {
	ledger    Ledger
	expiresAt time.Time
}

// MemoryStore implements LedgerStore with in-process storage. It is
// the default when no Redis address is configured, and what handler
// tests run against. Entries expire after the configured TTL; a
// background sweep reclaims them.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	ttl      time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions:    make(map[string]sessionEntry),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) expireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.sessions[sessionID]
	if !exists || time.Now().After(entry.expiresAt) {
		return Ledger{}, ErrSessionNotFound
	}
	return entry.ledger, nil
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, ledger Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = sessionEntry{
		ledger:    ledger,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// Close stops the background sweep and waits for it to finish.
func (s *MemoryStore) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
