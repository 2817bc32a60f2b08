package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
)

// MemoryStore keeps the roster in process memory. One mutex guards the
// whole roster so every check-then-act is indivisible.
type MemoryStore struct {
	mu     sync.Mutex
	seed   model.Roster
	roster model.Roster
	index  map[string]int
}

// NewMemoryStore creates a store initialised from seed.
func NewMemoryStore(seed model.Roster) *MemoryStore {
	s := &MemoryStore{seed: seed.Clone()}
	s.load()
	return s
}

// load replaces the live roster with a copy of the seed. Callers hold mu
// (or own s exclusively).
func (s *MemoryStore) load() {
	s.roster = s.seed.Clone()
	s.index = make(map[string]int, len(s.roster))
	for i, na := range s.roster {
		s.index[na.Name] = i
	}
}

// List returns a deep copy of the roster.
func (s *MemoryStore) List(_ context.Context) (model.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Clone(), nil
}

// SignUp appends email to the activity's participants.
func (s *MemoryStore) SignUp(_ context.Context, activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.lookup(activity)
	if err != nil {
		return err
	}
	if a.HasParticipant(email) {
		return ErrAlreadySignedUp
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes email from the activity's participants.
func (s *MemoryStore) Unregister(_ context.Context, activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.lookup(activity)
	if err != nil {
		return err
	}
	i := slices.Index(a.Participants, email)
	if i < 0 {
		return ErrNotSignedUp
	}
	a.Participants = slices.Delete(a.Participants, i, i+1)
	return nil
}

// Reset restores the seed roster.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return nil
}

func (s *MemoryStore) lookup(activity string) (*model.Activity, error) {
	i, ok := s.index[activity]
	if !ok {
		return nil, ErrActivityNotFound
	}
	return &s.roster[i].Activity, nil
}
