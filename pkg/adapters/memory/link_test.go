package memory

import (
	"context"
	"testing"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLink_Contract(t *testing.T) {
	ports.RunLinkContract(t, func(t *testing.T, d ports.Dispatcher) ports.Link {
		link := NewLink()
		link.Attach(0, d)
		return link
	})
}

func TestMemoryLink_Disconnected(t *testing.T) {
	ctx := context.Background()
	peer := &ports.RecordingDispatcher{}
	link := NewLink()
	link.Attach(0, peer)

	target, err := link.Resolve(ctx, 0, domain.BehaviorLayerDisplay)
	require.NoError(t, err)

	link.SetConnected(false)

	_, err = link.Resolve(ctx, 0, domain.BehaviorLayerDisplay)
	assert.ErrorIs(t, err, domain.ErrLinkDown)

	err = target.Invoke(ctx, domain.Invocation{Binding: domain.LayerBinding(1), Pressed: true, WaitForAck: true})
	assert.ErrorIs(t, err, domain.ErrLinkDown)
	assert.Empty(t, peer.Seen())

	link.SetConnected(true)
	require.NoError(t, target.Invoke(ctx, domain.Invocation{Binding: domain.LayerBinding(1), Pressed: true, WaitForAck: true}))
	assert.Len(t, peer.Seen(), 1)
}

func TestMemoryLink_UnknownSource(t *testing.T) {
	link := NewLink()
	_, err := link.Resolve(context.Background(), 4, domain.BehaviorLayerDisplay)
	assert.ErrorIs(t, err, domain.ErrLinkDown)
}
