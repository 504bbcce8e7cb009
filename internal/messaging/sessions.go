package messaging

import (
	"sync"
	"time"
)

// SessionStore tracks recently seen webhook activity with a TTL. Both
// Telegram and Meta redeliver notifications they consider unacknowledged, so
// handlers key entries by message ID to drop duplicates; chat-level keys
// track conversation recency.
type SessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
	done    chan struct{}
	closeMu sync.Once
}

// NewSessionStore starts a store whose entries expire after ttl. A janitor
// goroutine sweeps expired entries every sweepInterval.
func NewSessionStore(ttl, sweepInterval time.Duration) *SessionStore {
	s := &SessionStore{
		ttl:     ttl,
		entries: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go s.janitor(sweepInterval)
	return s
}

// Touch records activity under key and reports whether the key was new
// (or had expired). A false return means the key was seen within the TTL,
// i.e. a duplicate delivery.
func (s *SessionStore) Touch(key string) bool {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.entries[key]
	s.entries[key] = now

	return !ok || now.Sub(last) > s.ttl
}

// Active reports whether the key was touched within the TTL.
func (s *SessionStore) Active(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.entries[key]
	return ok && time.Since(last) <= s.ttl
}

// Len returns the number of tracked entries, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the janitor.
func (s *SessionStore) Close() {
	s.closeMu.Do(func() { close(s.done) })
}

func (s *SessionStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *SessionStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, last := range s.entries {
		if now.Sub(last) > s.ttl {
			delete(s.entries, key)
		}
	}
}
