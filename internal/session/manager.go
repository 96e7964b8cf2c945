package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joelkehle/ethiguide/internal/wizard"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// Session is one browser's wizard, loaded for the duration of a request.
type Session struct {
	Token     string
	Seed      uint64
	CreatedAt time.Time
	State     *wizard.State
}

type Options struct {
	TTL    time.Duration
	Clock  func() time.Time
	Logger *slog.Logger
	// Seed, when non-zero, is given to every new session instead of a random one.
	Seed uint64
}

// Manager serializes access to sessions held in a Store.
type Manager struct {
	store  Store
	ttl    time.Duration
	clock  func() time.Time
	logger *slog.Logger
	seed   uint64

	mu    sync.Mutex
	locks map[string]*tokenLock
}

type tokenLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		store:  store,
		ttl:    opts.TTL,
		clock:  opts.Clock,
		logger: opts.Logger,
		seed:   opts.Seed,
		locks:  map[string]*tokenLock{},
	}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Start creates and stores a fresh session at the first step.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	now := m.clock().UTC()
	seed := m.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	sess := &Session{
		Token:     uuid.NewString(),
		Seed:      seed,
		CreatedAt: now,
		State:     wizard.New(),
	}
	if err := m.store.Put(ctx, m.record(sess, now)); err != nil {
		return nil, err
	}
	m.logger.Debug("session started", "token", sess.Token)
	return sess, nil
}

// Do loads the session for token, runs fn and saves the result. Calls for
// the same token run one at a time. Nothing is saved when fn fails.
func (m *Manager) Do(ctx context.Context, token string, fn func(*Session) error) error {
	unlock := m.lock(token)
	defer unlock()

	rec, err := m.store.Get(ctx, token)
	if err != nil {
		return err
	}
	now := m.clock().UTC()
	if m.expired(rec, now) {
		if err := m.store.Delete(ctx, token); err != nil {
			m.logger.Warn("delete expired session", "token", token, "error", err)
		}
		return ErrNotFound
	}
	state, err := wizard.Restore(rec.State)
	if err != nil {
		return fmt.Errorf("restore session %s: %w", token, err)
	}
	sess := &Session{Token: rec.Token, Seed: rec.Seed, CreatedAt: rec.CreatedAt, State: state}
	if err := fn(sess); err != nil {
		return err
	}
	return m.store.Put(ctx, m.record(sess, now))
}

// End discards the session.
func (m *Manager) End(ctx context.Context, token string) error {
	unlock := m.lock(token)
	defer unlock()
	return m.store.Delete(ctx, token)
}

// Sweep removes sessions idle for longer than the TTL.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	removed, err := m.store.Sweep(ctx, m.clock().UTC().Add(-m.ttl))
	if err != nil {
		return 0, err
	}
	if len(removed) > 0 {
		m.logger.Info("sessions swept", "count", len(removed))
	}
	return len(removed), nil
}

// SweepLoop runs Sweep every interval until ctx is done.
func (m *Manager) SweepLoop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				m.logger.Error("session sweep failed", "error", err)
			}
		}
	}
}

func (m *Manager) expired(rec Record, now time.Time) bool {
	return now.Sub(rec.LastSeen) > m.ttl
}

func (m *Manager) record(sess *Session, now time.Time) Record {
	return Record{
		Token:     sess.Token,
		Seed:      sess.Seed,
		CreatedAt: sess.CreatedAt,
		LastSeen:  now,
		State:     sess.State.Snapshot(),
	}
}

func (m *Manager) lock(token string) func() {
	m.mu.Lock()
	l, ok := m.locks[token]
	if !ok {
		l = &tokenLock{}
		m.locks[token] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, token)
		}
		m.mu.Unlock()
	}
}
