package behavior

import (
	"context"

	"github.com/aretw0/layerdisplay/pkg/domain"
)

// Setter is the write side of the display state.
type Setter interface {
	Set(layer domain.Layer)
}

// LayerDisplay is the behavior that receives forwarded layers.
// Pressed shows binding.Param1 unconditionally; the sender already
// deduplicates. Released does nothing: the display shows a level, not an edge.
type LayerDisplay struct {
	state Setter
}

// NewLayerDisplay creates the behavior writing into state.
func NewLayerDisplay(state Setter) *LayerDisplay {
	return &LayerDisplay{state: state}
}

// Pressed implements ports.Behavior.
func (b *LayerDisplay) Pressed(ctx context.Context, binding domain.Binding, event domain.BindingEvent) error {
	b.state.Set(domain.Layer(binding.Param1))
	return nil
}

// Released implements ports.Behavior.
func (b *LayerDisplay) Released(ctx context.Context, binding domain.Binding, event domain.BindingEvent) error {
	return nil
}
