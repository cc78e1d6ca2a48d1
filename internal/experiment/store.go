package experiment

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps wizard sessions in memory. Sessions are handed out as copies;
// all changes go through Update.
type Store struct {
	sessions   map[string]*Session
	mu         sync.RWMutex
	now        func() time.Time
	runSeconds int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRunSeconds sets how long simulated experiments run.
func WithRunSeconds(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.runSeconds = n
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions:   make(map[string]*Session),
		now:        time.Now,
		runSeconds: DefaultRunSeconds,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session on the pick step.
func (s *Store) Create() Session {
	now := s.now()
	session := &Session{
		ID:         uuid.NewString(),
		Stage:      StagePick,
		StageCode:  StagePick.Code(),
		RunSeconds: s.runSeconds,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return session.clone()
}

// Get returns a session with its progress brought up to date.
func (s *Store) Get(id string) (Session, error) {
	return s.Update(id, func(*Session, time.Time) error { return nil })
}

// Update applies fn to the session under the write lock. A running
// simulation is refreshed before and after fn. If fn fails the session is
// left unchanged.
func (s *Store) Update(id string, fn func(*Session, time.Time) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}

	now := s.now()
	session.Refresh(now)

	working := session.clone()
	if err := fn(&working, now); err != nil {
		return session.clone(), err
	}
	working.Refresh(now)
	*session = working
	return working.clone(), nil
}

// List returns all sessions.
func (s *Store) List() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v.clone())
	}
	return result
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
