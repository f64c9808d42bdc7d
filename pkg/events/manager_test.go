package events

import (
	"context"
	"testing"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestManager_DispatchOrder(t *testing.T) {
	m := NewManager()
	var order []string

	m.Subscribe("first", domain.EventLayerStateChanged, func(ctx context.Context, ev domain.Event) domain.EventResult {
		order = append(order, "first")
		return domain.Bubble
	})
	m.Subscribe("second", domain.EventLayerStateChanged, func(ctx context.Context, ev domain.Event) domain.EventResult {
		order = append(order, "second")
		return domain.Bubble
	})

	res := m.Raise(context.Background(), domain.LayerStateChanged{Layer: 1, Active: true})

	assert.Equal(t, domain.Bubble, res)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestManager_HandledStopsPropagation(t *testing.T) {
	m := NewManager()
	called := false

	m.Subscribe("capture", domain.EventLayerStateChanged, func(ctx context.Context, ev domain.Event) domain.EventResult {
		return domain.Handled
	})
	m.Subscribe("late", domain.EventLayerStateChanged, func(ctx context.Context, ev domain.Event) domain.EventResult {
		called = true
		return domain.Bubble
	})

	res := m.Raise(context.Background(), domain.LayerStateChanged{})

	assert.Equal(t, domain.Handled, res)
	assert.False(t, called)
}

type otherEvent struct{}

func (otherEvent) Type() domain.EventType { return "other" }

func TestManager_FiltersByType(t *testing.T) {
	m := NewManager()
	called := false
	m.Subscribe("layer", domain.EventLayerStateChanged, func(ctx context.Context, ev domain.Event) domain.EventResult {
		called = true
		return domain.Bubble
	})

	assert.Equal(t, domain.Bubble, m.Raise(context.Background(), otherEvent{}))
	assert.False(t, called)
}
