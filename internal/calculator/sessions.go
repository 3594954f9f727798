package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

type session struct {
	mu       sync.Mutex
	state    State
	lastUsed time.Time
}

// Sessions holds one engine state per client. Presses on the same session are
// serialized; different sessions proceed independently.
type Sessions struct {
	mu  sync.RWMutex
	m   map[string]*session
	ttl time.Duration
	now func() time.Time
}

// NewSessions creates an empty store. A zero ttl disables idle expiry.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		m:   make(map[string]*session),
		ttl: ttl,
		now: time.Now,
	}
}

// Create starts a session in the power-on state.
func (s *Sessions) Create() (string, State) {
	id := uuid.New().String()
	st := NewState()

	s.mu.Lock()
	s.m[id] = &session{state: st, lastUsed: s.now()}
	n := len(s.m)
	s.mu.Unlock()

	liveSessions.Set(float64(n))
	return id, st
}

func (s *Sessions) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.m[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Get returns the current state of a session.
func (s *Sessions) Get(id string) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, nil
}

// Press runs one button event against a session. The returned error is the
// engine's: the state is stored even when the event produced ErrorMarker, and
// left untouched for unknown buttons.
func (s *Sessions) Press(id string, b Button) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	next, err := Step(sess.state, b)
	sess.state = next
	sess.lastUsed = s.now()
	return next, err
}

// Delete removes a session.
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.m[id]
	delete(s.m, id)
	n := len(s.m)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	liveSessions.Set(float64(n))
	return nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Expire drops sessions idle for longer than the ttl and returns how many
// were removed.
func (s *Sessions) Expire() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.m {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.m, id)
			removed++
		}
	}
	liveSessions.Set(float64(len(s.m)))
	return removed
}

// RunExpiry calls Expire every interval until ctx is done.
func (s *Sessions) RunExpiry(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Expire()
		}
	}
}
