package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store persists turn transcripts for playtest sessions.
type Store interface {
	// NewSession allocates a transcript for a game and returns its ID.
	NewSession(ctx context.Context, gameType string) (string, error)

	// Append adds a turn to a session's transcript.
	// Returns an error if the session does not exist.
	Append(ctx context.Context, sessionID string, turn Turn) error

	// Turns returns a copy of a session's transcript in append order.
	// Returns an empty slice if the session does not exist.
	Turns(ctx context.Context, sessionID string) ([]Turn, error)

	// GameType returns the game type the session was opened with.
	// Returns an empty string if the session does not exist.
	GameType(ctx context.Context, sessionID string) (string, error)

	// Sessions lists all session IDs in sorted order.
	Sessions(ctx context.Context) ([]string, error)
}

type transcript struct {
	gameType string
	turns    []Turn
}

// InMemoryStore implements Store using an in-memory map.
// Data is lost when the process terminates.
type InMemoryStore struct {
	mu   sync.RWMutex
	byID map[string]*transcript
}

// NewInMemoryStore creates an empty in-memory transcript store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID: make(map[string]*transcript),
	}
}

// NewSession allocates a transcript for a game and returns its ID.
func (s *InMemoryStore) NewSession(_ context.Context, gameType string) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[id] = &transcript{gameType: gameType}
	return id, nil
}

// Append adds a turn to a session's transcript.
func (s *InMemoryStore) Append(_ context.Context, sessionID string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.byID[sessionID]
	if !ok {
		return fmt.Errorf("session %q not found", sessionID)
	}
	tr.turns = append(tr.turns, turn)
	return nil
}

// Turns returns a copy of a session's transcript in append order.
func (s *InMemoryStore) Turns(_ context.Context, sessionID string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.byID[sessionID]
	if !ok {
		return []Turn{}, nil
	}

	// Return a copy to avoid external mutations
	copied := make([]Turn, len(tr.turns))
	copy(copied, tr.turns)
	return copied, nil
}

// GameType returns the game type the session was opened with.
func (s *InMemoryStore) GameType(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.byID[sessionID]
	if !ok {
		return "", nil
	}
	return tr.gameType, nil
}

// Sessions lists all session IDs in sorted order.
func (s *InMemoryStore) Sessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Verify InMemoryStore implements Store
var _ Store = (*InMemoryStore)(nil)
