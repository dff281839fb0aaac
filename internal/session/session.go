// Package session keeps per-browser front end state: one sync controller,
// one busy indicator and a queue of pending alerts per session.
package session

import (
	"sync"
	"time"

	"github.com/catsfront/catsfront/internal/busy"
	"github.com/catsfront/catsfront/internal/catsync"
)

// maxAlerts bounds the alert queue; older alerts are dropped first.
const maxAlerts = 10

// Session is one browser's state. It is the Notifier of its controller:
// alerts are queued until the next page render takes them.
type Session struct {
	ID         string
	Busy       *busy.Indicator
	Controller *catsync.Controller

	mu       sync.Mutex
	alerts   []string
	fresh    bool
	lastSeen time.Time
}

// Alert queues a user-visible alert. Only the latest maxAlerts are kept.
func (s *Session) Alert(message string) {
	s.mu.Lock()
	s.alerts = append(s.alerts, message)
	if n := len(s.alerts); n > maxAlerts {
		s.alerts = append([]string(nil), s.alerts[n-maxAlerts:]...)
	}
	s.mu.Unlock()
}

// TakeAlerts returns and clears the queued alerts.
func (s *Session) TakeAlerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := s.alerts
	s.alerts = nil
	return alerts
}

// MarkFresh records that the table was just refreshed by a mutation, so
// the page render that follows the redirect need not list again.
func (s *Session) MarkFresh() {
	s.mu.Lock()
	s.fresh = true
	s.mu.Unlock()
}

// TakeFresh reports and clears the fresh mark.
func (s *Session) TakeFresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := s.fresh
	s.fresh = false
	return fresh
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
