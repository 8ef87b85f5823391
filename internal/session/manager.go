package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-mdpages/internal/fault"
)

// DefaultIdleTimeout is how long an unused session lives.
const DefaultIdleTimeout = 30 * time.Minute

// Manager owns the live sessions of the process.
type Manager struct {
	opts        Options
	idleTimeout time.Duration
	newID       func() string

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewManager creates a Manager. Sessions it opens share opts, including
// one fault hook.
func NewManager(opts Options, idleTimeout time.Duration) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Hook == nil {
		opts.Hook = fault.NewHook(opts.Logger)
	}
	return &Manager{
		opts:        opts,
		idleTimeout: idleTimeout,
		newID:       uuid.NewString,
		sessions:    make(map[string]*Session),
	}
}

// Open starts a new Editing session.
func (m *Manager) Open() (*Session, error) {
	return m.add(func(id string) *Session { return NewEditing(id, m.opts) })
}

// OpenShared starts a session from a share token (Viewing or Failed).
func (m *Manager) OpenShared(token string) (*Session, error) {
	return m.add(func(id string) *Session { return NewShared(id, token, m.opts) })
}

func (m *Manager) add(start func(id string) *Session) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	s := start(m.newID())
	m.sessions[s.ID()] = s
	m.opts.Logger.Debug("session opened", "session", s.ID(), "live", len(m.sessions))
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.touch(time.Now())
	return s, nil
}

// Close tears a session down and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.Close()
	m.opts.Logger.Debug("session closed", "session", id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle since before now minus the idle timeout and
// returns how many it closed.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.idleTimeout)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		m.opts.Logger.Info("evicted idle sessions", "count", len(idle))
	}
	return len(idle)
}

// Run sweeps idle sessions until ctx is done, then shuts the manager down.
// A panic in the sweeper is broadcast to every live session.
func (m *Manager) Run(ctx context.Context) {
	defer m.opts.Hook.Recover("")

	ticker := time.NewTicker(max(m.idleTimeout/4, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Shutdown()
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// Shutdown closes every session. Later Open calls fail with ErrClosed.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
