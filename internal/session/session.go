package session

import (
	"time"

	"github.com/google/uuid"
)

// Flash categories.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the per-request view of the client's signed session cookie.
// It is created by the Manager for every request and never shared between
// requests.
type Session struct {
	ID        string
	LoggedIn  bool
	Username  string
	ExpiresAt time.Time

	flashes []Flash
	dirty   bool
}

// Login marks the session as authenticated for username under a fresh id.
func (s *Session) Login(username string, ttl time.Duration) {
	s.ID = uuid.NewString()
	s.LoggedIn = true
	s.Username = username
	s.ExpiresAt = time.Now().Add(ttl)
	s.dirty = true
}

// Clear drops identity and every pending flash.
func (s *Session) Clear() {
	*s = Session{dirty: true}
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(category, message string) {
	s.flashes = append(s.flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns the queued messages and forgets them.
func (s *Session) PopFlashes() []Flash {
	flashes := s.flashes
	if len(flashes) > 0 {
		s.flashes = nil
		s.dirty = true
	}
	return flashes
}

// Empty reports whether there is nothing worth keeping in a cookie.
func (s *Session) Empty() bool {
	return !s.LoggedIn && len(s.flashes) == 0
}
