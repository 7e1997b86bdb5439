package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amerihn/conference-event-planner/cache"
	"github.com/amerihn/conference-event-planner/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown, ended or expired sessions.
var ErrSessionNotFound = errors.New("planner: session not found")

// Options configures a Manager.
type Options struct {
	Seed          catalog.Seed
	Limits        catalog.Limits
	DefaultPeople int
	IdleTTL       time.Duration
}

// Manager keeps the registry of live planning sessions. A session stays
// alive while its liveness key exists in the cache; every access renews it.
// Session state lives in this process only: a Redis cache provides TTL
// liveness and pub/sub, not sharing between instances.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	opts   Options
	cache  cache.Cache
	pubsub cache.PubSub
	logger *zap.Logger
}

// NewManager validates the seed and venue limits and creates an empty registry.
// A zero limit takes its default.
func NewManager(opts Options, c cache.Cache, ps cache.PubSub, logger *zap.Logger) (*Manager, error) {
	if err := opts.Seed.Validate(); err != nil {
		return nil, err
	}
	if opts.DefaultPeople < 1 {
		opts.DefaultPeople = 1
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 2 * time.Hour
	}
	opts.Limits = opts.Limits.WithDefaults()
	if err := opts.Limits.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		cache:    c,
		pubsub:   ps,
		logger:   logger,
	}, nil
}

func sessionKey(id string) string { return "planner:session:" + id }

// SummaryChannel is the pub/sub channel carrying a session's summaries.
func SummaryChannel(id string) string { return "planner:summary:" + id }

// Seed returns the catalogs every new session starts from.
func (m *Manager) Seed() catalog.Seed { return m.opts.Seed }

// Create starts a new session with fresh stores.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	stores, err := m.opts.Seed.Build(m.opts.Limits)
	if err != nil {
		return nil, err
	}
	s, err := NewSession(uuid.NewString(), stores, m.opts.DefaultPeople)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Set(ctx, sessionKey(s.ID), s.CreatedAt.Format(time.RFC3339), m.opts.IdleTTL); err != nil {
		return nil, fmt.Errorf("planner: register session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("planning session created", zap.String("session_id", s.ID))
	return s, nil
}

// Get returns a live session and renews its idle timer.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	alive, err := m.cache.Exists(ctx, sessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("planner: check session: %w", err)
	}
	if !alive {
		m.drop(id, "expired")
		return nil, ErrSessionNotFound
	}
	if err := m.cache.Expire(ctx, sessionKey(id), m.opts.IdleTTL); err != nil && !cache.IsNotFound(err) {
		m.logger.Warn("session ttl renew failed", zap.String("session_id", id), zap.Error(err))
	}
	return s, nil
}

// End discards a session.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.RLock()
	_, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	if err := m.cache.Del(ctx, sessionKey(id)); err != nil {
		m.logger.Warn("session key delete failed", zap.String("session_id", id), zap.Error(err))
	}
	m.drop(id, "ended")
	return nil
}

func (m *Manager) drop(id, reason string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		m.logger.Info("planning session removed", zap.String("session_id", id), zap.String("reason", reason))
	}
}

// Sweep removes every session whose liveness key has expired and returns
// how many were removed.
func (m *Manager) Sweep(ctx context.Context) int {
	removed := 0
	for _, id := range m.IDs() {
		alive, err := m.cache.Exists(ctx, sessionKey(id))
		if err != nil {
			m.logger.Warn("session sweep check failed", zap.String("session_id", id), zap.Error(err))
			continue
		}
		if !alive {
			m.drop(id, "expired")
			removed++
		}
	}
	return removed
}

// Publish sends the session's current summary to its subscribers.
func (m *Manager) Publish(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s.Summary())
	if err != nil {
		return err
	}
	return m.pubsub.Publish(ctx, SummaryChannel(s.ID), string(payload))
}

// Subscribe streams the summaries published for session id.
func (m *Manager) Subscribe(ctx context.Context, id string) (<-chan *cache.Message, func(), error) {
	return m.pubsub.Subscribe(ctx, SummaryChannel(id))
}

// Count returns the number of registered sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns a snapshot of registered session ids.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	return out
}

// All returns a snapshot of registered sessions.
func (m *Manager) All() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}
