package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erp/mws-connector/internal/domain/amazon"
)

// entry is a serialized session with its expiration
type entry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryWizardStore implements WizardStore using an in-memory map.
// This is suitable for single-instance deployments and testing.
//
// Sessions are copied through JSON on Save and Get so callers never share
// a pointer with the store, matching the Redis store.
type InMemoryWizardStore struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryWizardStore creates a new in-memory wizard store.
// It starts a background goroutine to clean up expired sessions.
func NewInMemoryWizardStore() *InMemoryWizardStore {
	store := &InMemoryWizardStore{
		entries:  make(map[uuid.UUID]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Save stores a copy of the session
func (s *InMemoryWizardStore) Save(ctx context.Context, session *amazon.WizardSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode wizard session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session.ID] = entry{data: data, expiresAt: s.now().Add(ttl)}
	return nil
}

// Get returns a copy of a live session
func (s *InMemoryWizardStore) Get(ctx context.Context, id uuid.UUID) (*amazon.WizardSession, error) {
	s.mu.RLock()
	e, exists := s.entries[id]
	s.mu.RUnlock()

	if !exists || !s.now().Before(e.expiresAt) {
		return nil, amazon.ErrWizardSessionNotFound
	}

	var session amazon.WizardSession
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode wizard session: %w", err)
	}
	return &session, nil
}

// Delete removes a session
func (s *InMemoryWizardStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryWizardStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryWizardStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired sessions
func (s *InMemoryWizardStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// Size returns the number of stored sessions, expired ones included
func (s *InMemoryWizardStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ amazon.WizardStore = (*InMemoryWizardStore)(nil)
