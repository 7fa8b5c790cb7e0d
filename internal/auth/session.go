package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"holidays-app/internal/storage"
)

// DefaultSessionTTL is used when NewSessionStore is given a non-positive ttl.
const DefaultSessionTTL = 24 * time.Hour

// Session is a logged-in user's server-side session.
type Session struct {
	ID        string
	UserID    int64
	Name      string
	Email     string
	Provider  string
	ExpiresAt time.Time
}

// SessionStore keeps sessions in memory. Sessions do not survive a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an empty store whose sessions expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session for user.
func (s *SessionStore) Create(user *storage.UserRecord) Session {
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Provider:  user.Provider,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session with the given id if it exists and has not expired.
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(sess.ExpiresAt) {
		s.Delete(id)
		return Session{}, false
	}
	return sess, true
}

// Delete removes a session. Unknown ids are ignored.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the session placed in ctx by RequireUser.
func SessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(Session)
	return sess, ok
}
