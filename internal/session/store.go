package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadops/lead-console/internal/core/domain"
)

type entry struct {
	mu       sync.Mutex
	state    *State
	lastSeen time.Time
}

// Store keeps one State per console session, keyed by an opaque id. Sessions
// idle past the TTL are reaped by the janitor.
type Store struct {
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create opens a new session and returns its id.
func (st *Store) Create() string {
	id := uuid.NewString()
	st.mu.Lock()
	st.sessions[id] = &entry{state: newState(), lastSeen: st.now()}
	st.mu.Unlock()

	st.logger.Debug("session created", slog.String("session_id", id))
	return id
}

// Delete removes a session immediately.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) lookup(id string) (*entry, error) {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return e, nil
}

// Apply runs events against a session under its lock. The first event that
// rejects aborts the batch; earlier events in the batch remain applied.
func (st *Store) Apply(id string, events ...Event) error {
	e, err := st.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = st.now()
	for _, event := range events {
		if err := event.Apply(e.state); err != nil {
			return domain.WrapError(domain.ErrConflict, "apply session event", err)
		}
	}
	return nil
}

// View runs a read callback against a session under its lock. The callback
// must not retain the state.
func (st *Store) View(id string, view func(s *State) error) error {
	e, err := st.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = st.now()
	return view(e.state)
}

// Run reaps idle sessions until the context ends. Sweep cadence is a quarter
// of the TTL, floored at one second.
func (st *Store) Run(ctx context.Context) {
	cadence := st.ttl / 4
	if cadence < time.Second {
		cadence = time.Second
	}

	ticker := time.NewTicker(cadence)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.sweep()
		}
	}
}

func (st *Store) sweep() {
	deadline := st.now().Add(-st.ttl)

	st.mu.Lock()
	var reaped int
	for id, e := range st.sessions {
		if e.lastSeen.Before(deadline) {
			delete(st.sessions, id)
			reaped++
		}
	}
	st.mu.Unlock()

	if reaped > 0 {
		st.logger.Info("idle sessions reaped", slog.Int("count", reaped))
	}
}
