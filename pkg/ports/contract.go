package ports

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractFailingBehavior is a behavior name the contract dispatcher always fails.
const ContractFailingBehavior = "CONTRACT_FAIL"

// LinkFactory builds a link whose peer for source 0 dispatches into d.
type LinkFactory func(t *testing.T, d Dispatcher) Link

// RecordingDispatcher is the peer used by RunLinkContract.
type RecordingDispatcher struct {
	mu   sync.Mutex
	seen []domain.Invocation
}

// Dispatch implements Dispatcher.
func (r *RecordingDispatcher) Dispatch(ctx context.Context, inv domain.Invocation) error {
	switch inv.Binding.Behavior {
	case domain.BehaviorLayerDisplay:
		r.mu.Lock()
		r.seen = append(r.seen, inv)
		r.mu.Unlock()
		return nil
	case ContractFailingBehavior:
		return errors.New("contract behavior failure")
	default:
		return domain.ErrBehaviorNotFound
	}
}

// Has implements Dispatcher.
func (r *RecordingDispatcher) Has(behavior string) bool {
	return behavior == domain.BehaviorLayerDisplay || behavior == ContractFailingBehavior
}

// Seen returns the invocations delivered so far.
func (r *RecordingDispatcher) Seen() []domain.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Invocation(nil), r.seen...)
}

// RunLinkContract runs a suite of tests to verify that a Link implementation
// adheres to the defined interface contract.
func RunLinkContract(t *testing.T, factory LinkFactory) {
	ctx := context.Background()

	t.Run("Resolve and Invoke", func(t *testing.T) {
		peer := &RecordingDispatcher{}
		link := factory(t, peer)

		target, err := link.Resolve(ctx, 0, domain.BehaviorLayerDisplay)
		require.NoError(t, err, "Resolve should find the layer display behavior")

		err = target.Invoke(ctx, domain.Invocation{
			Binding:    domain.LayerBinding(3),
			Event:      domain.BindingEvent{Source: 0},
			Pressed:    true,
			WaitForAck: true,
		})
		require.NoError(t, err, "Invoke should be acknowledged")

		seen := peer.Seen()
		require.Len(t, seen, 1)
		assert.Equal(t, domain.BehaviorLayerDisplay, seen[0].Binding.Behavior)
		assert.Equal(t, uint32(3), seen[0].Binding.Param1)
		assert.True(t, seen[0].Pressed)
	})

	t.Run("Released", func(t *testing.T) {
		peer := &RecordingDispatcher{}
		link := factory(t, peer)

		target, err := link.Resolve(ctx, 0, domain.BehaviorLayerDisplay)
		require.NoError(t, err)

		err = target.Invoke(ctx, domain.Invocation{
			Binding:    domain.Binding{Behavior: domain.BehaviorLayerDisplay},
			Pressed:    false,
			WaitForAck: true,
		})
		require.NoError(t, err)

		seen := peer.Seen()
		require.Len(t, seen, 1)
		assert.False(t, seen[0].Pressed)
	})

	t.Run("Resolve Missing Behavior", func(t *testing.T) {
		link := factory(t, &RecordingDispatcher{})

		_, err := link.Resolve(ctx, 0, "MISSING")
		assert.ErrorIs(t, err, domain.ErrBehaviorNotFound)
	})

	t.Run("Invoke Reports Failure", func(t *testing.T) {
		link := factory(t, &RecordingDispatcher{})

		target, err := link.Resolve(ctx, 0, ContractFailingBehavior)
		require.NoError(t, err)

		err = target.Invoke(ctx, domain.Invocation{
			Binding:    domain.Binding{Behavior: ContractFailingBehavior},
			Pressed:    true,
			WaitForAck: true,
		})
		assert.Error(t, err, "a failing behavior must surface as an Invoke error when waiting for ack")
	})
}
