package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/layerdisplay/pkg/adapters/redis"
	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func startListener(t *testing.T, client *backend.Client, d ports.Dispatcher, behaviors []string, opts ...redis.Option) *redis.Listener {
	t.Helper()
	l := redis.NewListener(client, 0, d, behaviors, opts...)
	require.NoError(t, l.Start(context.Background()))
	t.Cleanup(func() { _ = l.Close(context.Background()) })
	return l
}

func TestRedisLink_Contract(t *testing.T) {
	ports.RunLinkContract(t, func(t *testing.T, d ports.Dispatcher) ports.Link {
		_, client := newClient(t)
		startListener(t, client, d, []string{domain.BehaviorLayerDisplay, ports.ContractFailingBehavior})
		return redis.NewLinkFromClient(client)
	})
}

func TestRedisLink_Prefix(t *testing.T) {
	mr, client := newClient(t)
	peer := &ports.RecordingDispatcher{}
	startListener(t, client, peer, []string{domain.BehaviorLayerDisplay}, redis.WithPrefix("kb:"))

	ok, err := mr.SIsMember("kb:behaviors:0", domain.BehaviorLayerDisplay)
	require.NoError(t, err)
	assert.True(t, ok, "Expected behaviors set with custom prefix")

	link := redis.NewLinkFromClient(client, redis.WithPrefix("kb:"))
	_, err = link.Resolve(context.Background(), 0, domain.BehaviorLayerDisplay)
	assert.NoError(t, err)

	other := redis.NewLinkFromClient(client)
	_, err = other.Resolve(context.Background(), 0, domain.BehaviorLayerDisplay)
	assert.ErrorIs(t, err, domain.ErrBehaviorNotFound)
}

func TestRedisLink_NobodyListening(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	peer := &ports.RecordingDispatcher{}
	l := redis.NewListener(client, 0, peer, []string{domain.BehaviorLayerDisplay})
	require.NoError(t, l.Start(ctx))

	link := redis.NewLinkFromClient(client)
	target, err := link.Resolve(ctx, 0, domain.BehaviorLayerDisplay)
	require.NoError(t, err)

	require.NoError(t, l.Close(ctx))

	// The peripheral withdrew its behaviors and stopped listening.
	_, err = link.Resolve(ctx, 0, domain.BehaviorLayerDisplay)
	assert.ErrorIs(t, err, domain.ErrBehaviorNotFound)

	// The server drops the subscription once it notices the closed connection.
	assert.Eventually(t, func() bool {
		err := target.Invoke(ctx, domain.Invocation{Binding: domain.LayerBinding(1), Pressed: true})
		return errors.Is(err, domain.ErrLinkDown)
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, peer.Seen())
}

func TestRedisLink_WithoutAck(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	peer := &ports.RecordingDispatcher{}
	startListener(t, client, peer, []string{domain.BehaviorLayerDisplay})

	link := redis.NewLinkFromClient(client)
	target, err := link.Resolve(ctx, 0, domain.BehaviorLayerDisplay)
	require.NoError(t, err)

	require.NoError(t, target.Invoke(ctx, domain.Invocation{Binding: domain.LayerBinding(6), Pressed: true}))

	assert.Eventually(t, func() bool { return len(peer.Seen()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, uint32(6), peer.Seen()[0].Binding.Param1)
}

func TestRedisLink_AckTimeout(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)

	// A bare subscriber so PUBLISH has a receiver, but nobody pushes an ack.
	sub := client.Subscribe(ctx, redis.DefaultPrefix+"split:0")
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	defer sub.Close()
	require.NoError(t, client.SAdd(ctx, redis.DefaultPrefix+"behaviors:0", domain.BehaviorLayerDisplay).Err())

	link := redis.NewLinkFromClient(client, redis.WithAckTimeout(100*time.Millisecond))
	target, err := link.Resolve(ctx, 0, domain.BehaviorLayerDisplay)
	require.NoError(t, err)

	err = target.Invoke(ctx, domain.Invocation{Binding: domain.LayerBinding(1), Pressed: true, WaitForAck: true})
	assert.ErrorIs(t, err, redis.ErrAckTimeout)
}

func TestRedisLink_NonPositiveAckTimeoutKeepsDefault(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)

	sub := client.Subscribe(ctx, redis.DefaultPrefix+"split:0")
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	defer sub.Close()
	require.NoError(t, client.SAdd(ctx, redis.DefaultPrefix+"behaviors:0", domain.BehaviorLayerDisplay).Err())

	for _, d := range []time.Duration{0, -time.Second} {
		link := redis.NewLinkFromClient(client, redis.WithAckTimeout(d))
		target, err := link.Resolve(ctx, 0, domain.BehaviorLayerDisplay)
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() {
			done <- target.Invoke(ctx, domain.Invocation{Binding: domain.LayerBinding(1), Pressed: true, WaitForAck: true})
		}()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, redis.ErrAckTimeout, "timeout %s", d)
		case <-time.After(redis.DefaultAckTimeout + 3*time.Second):
			t.Fatalf("Invoke with ack timeout %s blocked past the default timeout", d)
		}
	}
}
