package layerdisplay

import (
	"context"
	"log/slog"

	"github.com/aretw0/layerdisplay/internal/logging"
	"github.com/aretw0/layerdisplay/pkg/behavior"
	"github.com/aretw0/layerdisplay/pkg/display"
	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/events"
	"github.com/aretw0/layerdisplay/pkg/keymap"
	"github.com/aretw0/layerdisplay/pkg/observability"
	"github.com/aretw0/layerdisplay/pkg/ports"
	"github.com/aretw0/layerdisplay/pkg/relay"
	"github.com/aretw0/layerdisplay/pkg/workqueue"
)

type options struct {
	logger     *slog.Logger
	metrics    *observability.Metrics
	source     uint8
	behavior   string
	keymapOpts []keymap.Option
}

// Option configures a Central or a Peripheral.
type Option func(*options)

// WithLogger configures the structured logger of every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records relay and display metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSource selects the peripheral the central forwards to.
func WithSource(source uint8) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithBehaviorName overrides the layer display behavior name.
func WithBehaviorName(name string) Option {
	return func(o *options) {
		o.behavior = name
	}
}

// WithKeymap passes options to the central's keymap.
func WithKeymap(opts ...keymap.Option) Option {
	return func(o *options) {
		o.keymapOpts = append(o.keymapOpts, opts...)
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   logging.NewNop(),
		behavior: domain.BehaviorLayerDisplay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Central is the half that owns the keymap.
type Central struct {
	Keymap *keymap.Keymap
	Events *events.Manager
	Relay  *relay.Relay

	logger *slog.Logger
}

// NewCentral wires a keymap, an event manager and a relay forwarding over link.
func NewCentral(link ports.Link, opts ...Option) *Central {
	o := buildOptions(opts)

	mgr := events.NewManager(events.WithLogger(o.logger))
	km := keymap.New(append([]keymap.Option{
		keymap.WithRaiser(mgr),
		keymap.WithLogger(o.logger),
	}, o.keymapOpts...)...)
	r := relay.New(link, km,
		relay.WithSource(o.source),
		relay.WithBehavior(o.behavior),
		relay.WithLogger(o.logger),
		relay.WithMetrics(o.metrics),
	)
	mgr.Subscribe(relay.ListenerName, domain.EventLayerStateChanged, r.OnEvent)

	return &Central{
		Keymap: km,
		Events: mgr,
		Relay:  r,
		logger: o.logger,
	}
}

// Start resolves the peripheral's display behavior and sends it the current layer.
// A failure is returned for reporting only: the central keeps running and
// retries on the next layer change.
func (c *Central) Start(ctx context.Context) error {
	return c.Relay.Init(ctx)
}

// Peripheral is the half that displays the forwarded layer.
type Peripheral struct {
	Queue     *workqueue.Queue
	State     *display.State
	Behaviors *behavior.Registry

	behavior string
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewPeripheral creates the display state and registers the layer display behavior.
func NewPeripheral(opts ...Option) *Peripheral {
	o := buildOptions(opts)

	q := workqueue.New(workqueue.WithLogger(o.logger))
	state := display.NewState(q)
	reg := behavior.NewRegistry()
	reg.Register(o.behavior, behavior.NewLayerDisplay(state))

	return &Peripheral{
		Queue:     q,
		State:     state,
		Behaviors: reg,
		behavior:  o.behavior,
		metrics:   o.metrics,
		logger:    o.logger,
	}
}

// OnChange registers the renderer callback. It runs on the work queue with
// the latest layer; intermediate values may be skipped.
func (p *Peripheral) OnChange(fn func(domain.Layer)) {
	p.State.RegisterObserver(func() {
		layer := p.State.Get()
		p.metrics.ObserveNotification(layer)
		fn(layer)
	})
}

// BehaviorNames lists the behaviors this node exposes over the link.
func (p *Peripheral) BehaviorNames() []string {
	return p.Behaviors.Names()
}

// Start launches the notification worker.
func (p *Peripheral) Start() {
	p.Queue.Start()
	p.logger.Info("layer display ready", "behavior", p.behavior, "layer", p.State.Get())
}

// Stop terminates the notification worker.
func (p *Peripheral) Stop() {
	p.Queue.Stop()
}
