package keymap

import (
	"context"
	"fmt"
	"log/slog"
	"math/bits"
	"sync"
	"time"

	"github.com/aretw0/layerdisplay/internal/logging"
	"github.com/aretw0/layerdisplay/pkg/domain"
)

// Raiser publishes keymap events. *events.Manager satisfies it.
type Raiser interface {
	Raise(ctx context.Context, ev domain.Event) domain.EventResult
}

// LayerSpec describes one configured layer.
type LayerSpec struct {
	Name        string `yaml:"name" json:"name"`
	DisplayName string `yaml:"display_name" json:"display_name"`
}

type layerSet [domain.MaxLayers / 64]uint64

func (s *layerSet) has(l domain.Layer) bool {
	return s[l/64]&(1<<(l%64)) != 0
}

func (s *layerSet) set(l domain.Layer, on bool) {
	if on {
		s[l/64] |= 1 << (l % 64)
	} else {
		s[l/64] &^= 1 << (l % 64)
	}
}

func (s *layerSet) highest() (domain.Layer, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != 0 {
			return domain.Layer(i*64 + 63 - bits.LeadingZeros64(s[i])), true
		}
	}
	return 0, false
}

// Keymap tracks which layers are active on the node that owns the keymap.
// Safe for concurrent use.
type Keymap struct {
	mu           sync.Mutex
	active       layerSet
	defaultLayer domain.Layer
	layers       []LayerSpec

	raiser Raiser
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Keymap.
type Option func(*Keymap)

// WithDefaultLayer sets the layer that is always active.
func WithDefaultLayer(l domain.Layer) Option {
	return func(k *Keymap) {
		k.defaultLayer = l
	}
}

// WithLayers sets the configured layers, indexed by position.
func WithLayers(layers []LayerSpec) Option {
	return func(k *Keymap) {
		k.layers = layers
	}
}

// WithRaiser publishes a LayerStateChanged event for every change.
func WithRaiser(r Raiser) Option {
	return func(k *Keymap) {
		k.raiser = r
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Keymap) {
		k.logger = logger
	}
}

// New creates a keymap with only the default layer active.
func New(opts ...Option) *Keymap {
	k := &Keymap{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	k.active.set(k.defaultLayer, true)
	return k
}

// DefaultLayer returns the layer that is always active.
func (k *Keymap) DefaultLayer() domain.Layer {
	return k.defaultLayer
}

// IsActive reports whether l is active.
func (k *Keymap) IsActive(l domain.Layer) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.active.has(l)
}

// HighestActive returns the numerically highest active layer.
func (k *Keymap) HighestActive() domain.Layer {
	k.mu.Lock()
	defer k.mu.Unlock()
	if l, ok := k.active.highest(); ok {
		return l
	}
	return k.defaultLayer
}

// Active returns the active layers in ascending order.
func (k *Keymap) Active() []domain.Layer {
	k.mu.Lock()
	defer k.mu.Unlock()
	var out []domain.Layer
	for i := 0; i < domain.MaxLayers; i++ {
		if k.active.has(domain.Layer(i)) {
			out = append(out, domain.Layer(i))
		}
	}
	return out
}

// Activate turns layer l on.
func (k *Keymap) Activate(ctx context.Context, l domain.Layer) error {
	return k.apply(ctx, func(*layerSet) []change {
		return []change{{layer: l, active: true}}
	})
}

// Deactivate turns layer l off. The default layer cannot be turned off.
func (k *Keymap) Deactivate(ctx context.Context, l domain.Layer) error {
	if l == k.defaultLayer {
		return fmt.Errorf("deactivate layer %d: %w", l, domain.ErrDefaultLayer)
	}
	return k.apply(ctx, func(*layerSet) []change {
		return []change{{layer: l, active: false}}
	})
}

// Toggle flips layer l.
func (k *Keymap) Toggle(ctx context.Context, l domain.Layer) error {
	if l == k.defaultLayer {
		return fmt.Errorf("toggle layer %d: %w", l, domain.ErrDefaultLayer)
	}
	return k.apply(ctx, func(active *layerSet) []change {
		return []change{{layer: l, active: !active.has(l)}}
	})
}

// To deactivates every layer except the default one, then activates l.
func (k *Keymap) To(ctx context.Context, l domain.Layer) error {
	return k.apply(ctx, func(active *layerSet) []change {
		var changes []change
		for i := 0; i < domain.MaxLayers; i++ {
			cur := domain.Layer(i)
			if active.has(cur) && cur != k.defaultLayer && cur != l {
				changes = append(changes, change{layer: cur, active: false})
			}
		}
		return append(changes, change{layer: l, active: true})
	})
}

// Name returns the configured display name of l, falling back to its name.
func (k *Keymap) Name(l domain.Layer) string {
	if int(l) >= len(k.layers) {
		return ""
	}
	spec := k.layers[l]
	if spec.DisplayName != "" {
		return spec.DisplayName
	}
	return spec.Name
}

type change struct {
	layer  domain.Layer
	active bool
}

// apply computes the changes from the active set and commits them under one
// lock, then raises one event per effective change. Events are raised after
// the lock is released so listeners can read the keymap.
func (k *Keymap) apply(ctx context.Context, plan func(active *layerSet) []change) error {
	var raised []domain.LayerStateChanged

	k.mu.Lock()
	for _, c := range plan(&k.active) {
		if k.active.has(c.layer) == c.active {
			continue
		}
		k.active.set(c.layer, c.active)
		raised = append(raised, domain.LayerStateChanged{
			Layer:     c.layer,
			Active:    c.active,
			Timestamp: k.now(),
		})
	}
	k.mu.Unlock()

	for _, ev := range raised {
		k.logger.Debug("layer state changed", "layer", ev.Layer, "active", ev.Active)
		if k.raiser != nil {
			k.raiser.Raise(ctx, ev)
		}
	}
	return nil
}
