package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/layerdisplay/internal/logging"
	"github.com/aretw0/layerdisplay/pkg/domain"
)

// Listener handles a raised event. Returning domain.Handled stops propagation.
type Listener func(ctx context.Context, ev domain.Event) domain.EventResult

type subscription struct {
	name     string
	listener Listener
}

// Manager dispatches events to subscribed listeners.
// Listeners run synchronously on the goroutine that raised the event, in the
// order they subscribed.
type Manager struct {
	mu     sync.RWMutex
	subs   map[domain.EventType][]subscription
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for dispatch tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates an empty event manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		subs:   make(map[domain.EventType][]subscription),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers listener under name for events of type t.
func (m *Manager) Subscribe(name string, t domain.EventType, listener Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[t] = append(m.subs[t], subscription{name: name, listener: listener})
}

// Raise delivers ev to every listener subscribed to its type.
// It returns the result of the last listener that ran.
func (m *Manager) Raise(ctx context.Context, ev domain.Event) domain.EventResult {
	m.mu.RLock()
	subs := m.subs[ev.Type()]
	m.mu.RUnlock()

	result := domain.Bubble
	for _, sub := range subs {
		result = sub.listener(ctx, ev)
		if result == domain.Handled {
			m.logger.Debug("event handled", "type", ev.Type(), "listener", sub.name)
			break
		}
	}
	return result
}
