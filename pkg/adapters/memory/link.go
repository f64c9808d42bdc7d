package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
)

// Link implements ports.Link between halves running in the same process.
// Safe for concurrent use.
type Link struct {
	mu        sync.RWMutex
	peers     map[uint8]ports.Dispatcher
	connected bool
}

// NewLink creates a connected link with no peers attached.
func NewLink() *Link {
	return &Link{
		peers:     make(map[uint8]ports.Dispatcher),
		connected: true,
	}
}

// Attach makes d reachable as peripheral source.
func (l *Link) Attach(source uint8, d ports.Dispatcher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.peers[source] = d
}

// SetConnected simulates the link going down or coming back.
func (l *Link) SetConnected(connected bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = connected
}

func (l *Link) peer(source uint8) (ports.Dispatcher, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.connected {
		return nil, domain.ErrLinkDown
	}
	d, ok := l.peers[source]
	if !ok {
		return nil, fmt.Errorf("no peer on source %d: %w", source, domain.ErrLinkDown)
	}
	return d, nil
}

// Resolve implements ports.Link.
func (l *Link) Resolve(ctx context.Context, source uint8, behavior string) (ports.Target, error) {
	d, err := l.peer(source)
	if err != nil {
		return nil, err
	}
	if !d.Has(behavior) {
		return nil, fmt.Errorf("%w: %s on source %d", domain.ErrBehaviorNotFound, behavior, source)
	}
	return &target{link: l, source: source}, nil
}

type target struct {
	link   *Link
	source uint8
}

// Invoke implements ports.Target. Without WaitForAck the dispatch runs on its
// own goroutine and its outcome is discarded.
func (t *target) Invoke(ctx context.Context, inv domain.Invocation) error {
	d, err := t.link.peer(t.source)
	if err != nil {
		return err
	}
	if !inv.WaitForAck {
		go func() {
			_ = d.Dispatch(context.WithoutCancel(ctx), inv)
		}()
		return nil
	}
	return d.Dispatch(ctx, inv)
}
