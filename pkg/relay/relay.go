package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/layerdisplay/internal/logging"
	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/observability"
	"github.com/aretw0/layerdisplay/pkg/ports"
)

// ListenerName is the name the relay subscribes under.
const ListenerName = "layer_display_relay"

// unset is outside the Layer range, so the first forward after a target is
// resolved is never taken for a duplicate, even for layer 0 or 255.
const unset = -1

// Relay keeps the layer shown on a remote half in sync with the local keymap.
//
// It forwards the highest active layer every time the layer state changes,
// skipping values equal to the last one the remote acknowledged. Failures are
// logged and left for the next layer change to retry.
type Relay struct {
	link     ports.Link
	keymap   ports.Keymap
	source   uint8
	behavior string

	mu     sync.Mutex // serializes forwards and guards the fields below
	target ports.Target
	last   int

	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// Option configures the Relay.
type Option func(*Relay)

// WithSource selects the peripheral the layer is forwarded to.
func WithSource(source uint8) Option {
	return func(r *Relay) {
		r.source = source
	}
}

// WithBehavior overrides the name of the remote behavior.
func WithBehavior(name string) Option {
	return func(r *Relay) {
		r.behavior = name
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// WithMetrics records forward outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Relay) {
		r.metrics = m
	}
}

// New creates a relay. Nothing is resolved or sent until Init.
func New(link ports.Link, keymap ports.Keymap, opts ...Option) *Relay {
	r := &Relay{
		link:     link,
		keymap:   keymap,
		behavior: domain.BehaviorLayerDisplay,
		last:     unset,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init resolves the remote behavior and forwards the current highest layer
// unconditionally, so a remote that connected late learns the layer it missed.
//
// A resolution failure is logged and returned, but leaves the relay usable:
// the next layer change tries to resolve again.
func (r *Relay) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.resolve(ctx); err != nil {
		r.logger.Error("layer display behavior not found", "behavior", r.behavior, "source", r.source, "error", err)
		return err
	}

	layer := r.keymap.HighestActive()
	if err := r.forward(ctx, layer); err != nil {
		r.logger.Warn("layer relay failed", "layer", layer, "error", err)
	}
	return nil
}

// Forward sends layer to the remote unless it equals the last acknowledged value.
// It returns domain.ErrTargetUnavailable when no target is resolved and an
// error wrapping domain.ErrInvokeFailed when the link reports a failure; in
// both cases the cached value is left untouched.
func (r *Relay) Forward(ctx context.Context, layer domain.Layer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forward(ctx, layer)
}

// OnEvent is the event manager listener. It re-reads the keymap instead of
// trusting the event payload and always lets the event bubble.
func (r *Relay) OnEvent(ctx context.Context, ev domain.Event) domain.EventResult {
	if _, ok := ev.(domain.LayerStateChanged); !ok {
		return domain.Bubble
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.target == nil {
		if err := r.resolve(ctx); err != nil {
			r.logger.Debug("layer display target still unresolved", "source", r.source, "error", err)
		}
	}

	layer := r.keymap.HighestActive()
	if err := r.forward(ctx, layer); err != nil {
		r.logger.Warn("layer relay failed", "layer", layer, "error", err)
	}
	return domain.Bubble
}

// Invalidate drops the resolved target, for links that know their peer went away.
// The next layer change resolves again and resends unconditionally.
func (r *Relay) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = nil
	r.last = unset
}

// LastForwarded returns the last layer the remote acknowledged, if any.
func (r *Relay) LastForwarded() (domain.Layer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == unset {
		return 0, false
	}
	return domain.Layer(r.last), true
}

func (r *Relay) resolve(ctx context.Context) error {
	target, err := r.link.Resolve(ctx, r.source, r.behavior)
	if err != nil {
		return fmt.Errorf("resolve %s on source %d: %w: %w", r.behavior, r.source, domain.ErrTargetUnavailable, err)
	}
	r.target = target
	r.last = unset
	return nil
}

func (r *Relay) forward(ctx context.Context, layer domain.Layer) error {
	if r.target == nil {
		r.metrics.ObserveForward(observability.ResultUnavailable)
		return domain.ErrTargetUnavailable
	}

	if int(layer) == r.last {
		r.metrics.ObserveForward(observability.ResultDeduplicated)
		return nil
	}

	binding := domain.LayerBinding(layer)
	binding.Behavior = r.behavior
	inv := domain.Invocation{
		Binding: binding,
		Event: domain.BindingEvent{
			Source:    r.source,
			Timestamp: r.now().UnixMilli(),
		},
		Pressed:    true,
		WaitForAck: true,
	}
	if err := r.target.Invoke(ctx, inv); err != nil {
		r.metrics.ObserveForward(observability.ResultFailed)
		return fmt.Errorf("forward layer %d: %w: %w", layer, domain.ErrInvokeFailed, err)
	}

	r.last = int(layer)
	r.metrics.ObserveForward(observability.ResultSent)
	r.logger.Debug("layer forwarded", "layer", layer, "source", r.source)
	return nil
}
