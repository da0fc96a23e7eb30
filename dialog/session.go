package dialog

import (
	"errors"
	"sync"
)

// ErrActive reports that the user already has a dialog in progress.
var ErrActive = errors.New("dialog already active")

// Session is one user's in-flight dialog.
type Session struct {
	UserID int64
	Kind   string
	State  State
	// Values collects answered fields keyed by the flow's field names.
	Values map[string]string
	// Stash holds flow-specific scratch data that does not fit Values.
	Stash any
}

// Sessions tracks at most one active dialog per user and serializes update
// handling per user, so a burst of messages from the same chat is processed
// in arrival order.
type Sessions struct {
	mu     sync.Mutex
	active map[int64]*Session
	locks  map[int64]*sync.Mutex
}

func NewSessions() *Sessions {
	return &Sessions{
		active: make(map[int64]*Session),
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Begin creates a session for the user. Returns ErrActive when one exists.
func (s *Sessions) Begin(userID int64, kind string, start State) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[userID]; ok {
		return nil, ErrActive
	}
	sess := &Session{
		UserID: userID,
		Kind:   kind,
		State:  start,
		Values: make(map[string]string),
	}
	s.active[userID] = sess
	return sess, nil
}

// Get returns the user's active session, if any.
func (s *Sessions) Get(userID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.active[userID]
	return sess, ok
}

// End discards the user's session. Ending an absent session is a no-op, so
// cancel is always safe to call.
func (s *Sessions) End(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, userID)
}

// InProgress reports whether the user has an active dialog.
func (s *Sessions) InProgress(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[userID]
	return ok
}

// userLock returns the per-user serialization mutex, creating it on first use.
// Locks are never removed; the per-user footprint is one mutex.
func (s *Sessions) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}
