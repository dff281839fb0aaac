package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/catsfront/catsfront/internal/busy"
	"github.com/catsfront/catsfront/internal/catsync"
)

const (
	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = 30 * time.Minute
	// DefaultMaxSessions caps the number of live sessions.
	DefaultMaxSessions = 10000
)

// ErrClosed is returned by Create after Close.
var ErrClosed = errors.New("session store closed")

// ControllerFactory builds the controller of a new session. The session is
// the controller's Notifier and its Busy indicator must be driven by the
// controller's collection client.
type ControllerFactory func(s *Session) *catsync.Controller

// Options configures a Store.
type Options struct {
	TTL time.Duration
	// MaxSessions caps live sessions. Creating one more first sweeps
	// expired sessions, then evicts the longest idle one.
	MaxSessions   int
	NewController ControllerFactory
	Logger        *slog.Logger
	Now           func() time.Time
}

// Store is an in-memory session store keyed by ULID.
type Store struct {
	ttl           time.Duration
	maxSessions   int
	newController ControllerFactory
	logger        *slog.Logger
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
	janitor  bool

	stop chan struct{}
	done chan struct{}
}

// NewStore creates a Store.
func NewStore(opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		ttl:           opts.TTL,
		maxSessions:   opts.MaxSessions,
		newController: opts.NewController,
		logger:        opts.Logger.With("component", "session"),
		now:           opts.Now,
		sessions:      make(map[string]*Session),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Get returns the live session for id and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, bool) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, false
	}

	now := st.now()

	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, false
	}

	if s.idleSince(now) > st.ttl {
		st.remove(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Create starts a new session.
func (st *Store) Create() (*Session, error) {
	now := st.now()

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	s := &Session{
		ID:       id.String(),
		Busy:     busy.New(),
		lastSeen: now,
	}
	if st.newController != nil {
		s.Controller = st.newController(s)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return nil, ErrClosed
	}
	if len(st.sessions) >= st.maxSessions {
		st.makeRoomLocked(now)
	}
	st.sessions[s.ID] = s

	st.logger.Debug("session_created", "session_id", s.ID)
	return s, nil
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (st *Store) Sweep() int {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// makeRoomLocked drops expired sessions and, if the store is still full,
// the longest idle one.
func (st *Store) makeRoomLocked(now time.Time) {
	var oldestID string
	var oldestIdle time.Duration
	for id, s := range st.sessions {
		idle := s.idleSince(now)
		if idle > st.ttl {
			delete(st.sessions, id)
			continue
		}
		if oldestID == "" || idle > oldestIdle {
			oldestID, oldestIdle = id, idle
		}
	}
	if len(st.sessions) < st.maxSessions {
		return
	}
	delete(st.sessions, oldestID)
	st.logger.Warn("session_evicted", "session_id", oldestID, "idle", oldestIdle)
}

func (st *Store) remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// StartJanitor sweeps expired sessions every interval until Close. Only
// the first call starts a janitor.
func (st *Store) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = st.ttl / 2
	}

	st.mu.Lock()
	if st.janitor || st.closed {
		st.mu.Unlock()
		return
	}
	st.janitor = true
	st.mu.Unlock()

	go func() {
		defer close(st.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-st.stop:
				return
			case <-ticker.C:
				if n := st.Sweep(); n > 0 {
					st.logger.Info("sessions_expired", "count", n)
				}
			}
		}
	}()
}

// Close stops the janitor, if running, and drops every session.
func (st *Store) Close(ctx context.Context) error {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return nil
	}
	st.closed = true
	janitor := st.janitor
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	close(st.stop)
	if !janitor {
		return nil
	}

	select {
	case <-st.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
