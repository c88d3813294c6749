package review

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps at most one review queue per user. Starting a new generation
// run replaces the previous queue wholesale, which also resets the selection.
type Store struct {
	mu     sync.Mutex
	queues map[uuid.UUID]*Queue
}

// NewStore creates an empty queue store.
func NewStore() *Store {
	return &Store{queues: make(map[uuid.UUID]*Queue)}
}

// Put installs the queue for a user, replacing any previous run.
func (s *Store) Put(userID uuid.UUID, q *Queue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[userID] = q
}

// Get returns the user's current queue, if any.
func (s *Store) Get(userID uuid.UUID) (*Queue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[userID]
	return q, ok
}

// Delete drops the user's queue, e.g. on logout.
func (s *Store) Delete(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, userID)
}
