package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-calculator/internal/calc"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// Session owns one calculator state. Dispatches on a session are serialised.
type Session struct {
	ID string

	mu       sync.Mutex
	state    calc.State
	lastSeen time.Time
	now      func() time.Time
}

// State returns a copy of the current state.
func (s *Session) State() calc.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Step is the result of one dispatched action.
type Step struct {
	Action  calc.Action
	Before  calc.State
	After   calc.State
	Changed bool
}

// Dispatch reduces actions in order while holding the session and marks it as
// used. It stops at the first reducer error. The returned state is the one
// the session held when Dispatch released it, so callers render exactly what
// their own batch produced.
func (s *Session) Dispatch(actions ...calc.Action) (calc.State, []Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now != nil {
		s.lastSeen = s.now()
	}

	steps := make([]Step, 0, len(actions))
	for _, a := range actions {
		next, err := calc.Reduce(s.state, a)
		if err != nil {
			return s.state, steps, err
		}
		steps = append(steps, Step{Action: a, Before: s.state, After: next, Changed: calc.Changed(s.state, next)})
		s.state = next
	}
	return s.state, steps, nil
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Store keeps sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore returns a store that expires sessions idle for longer than ttl and
// holds at most max sessions. Zero disables either limit.
func NewStore(ttl time.Duration, max int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
		now:      time.Now,
		logger:   logger,
	}
}

// Create starts a session with the empty state.
func (st *Store) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.max > 0 && len(st.sessions) >= st.max {
		return nil, ErrTooManySessions
	}

	sess := &Session{ID: uuid.New().String(), lastSeen: st.now(), now: st.now}
	st.sessions[sess.ID] = sess
	liveSessions.Set(float64(len(st.sessions)))
	return sess, nil
}

// Get returns the session for id and marks it as used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(st.now())
	return sess, nil
}

// Delete removes the session for id.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	liveSessions.Set(float64(len(st.sessions)))
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}

	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if sess.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	liveSessions.Set(float64(len(st.sessions)))
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Info("expired calculator sessions removed",
					zap.Int("removed", n),
					zap.Int("remaining", st.Len()),
				)
			}
		}
	}
}
