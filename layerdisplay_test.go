package layerdisplay_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/layerdisplay"
	"github.com/aretw0/layerdisplay/pkg/adapters/memory"
	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/observability"
	"github.com/aretw0/layerdisplay/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tap records every layer the peripheral receives before handing it on.
type tap struct {
	ports.Dispatcher
	mu   sync.Mutex
	seen []domain.Layer
}

func (t *tap) Dispatch(ctx context.Context, inv domain.Invocation) error {
	if inv.Pressed {
		t.mu.Lock()
		t.seen = append(t.seen, domain.Layer(inv.Binding.Param1))
		t.mu.Unlock()
	}
	return t.Dispatcher.Dispatch(ctx, inv)
}

func (t *tap) layers() []domain.Layer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Layer(nil), t.seen...)
}

func setup(t *testing.T, opts ...layerdisplay.Option) (*layerdisplay.Central, *layerdisplay.Peripheral, *tap, *memory.Link) {
	t.Helper()
	p := layerdisplay.NewPeripheral(opts...)
	p.Start()
	t.Cleanup(p.Stop)

	rec := &tap{Dispatcher: p.Behaviors}
	link := memory.NewLink()
	link.Attach(0, rec)

	c := layerdisplay.NewCentral(link, opts...)
	return c, p, rec, link
}

func TestEndToEnd_LayerSequence(t *testing.T) {
	ctx := context.Background()
	c, p, rec, _ := setup(t)

	require.NoError(t, c.Start(ctx))

	// Five occurrences whose highest active layer is 0, 2, 2, 3, 2.
	c.Events.Raise(ctx, domain.LayerStateChanged{})
	require.NoError(t, c.Keymap.Activate(ctx, 2))
	require.NoError(t, c.Keymap.Activate(ctx, 1))
	require.NoError(t, c.Keymap.Activate(ctx, 3))
	require.NoError(t, c.Keymap.Deactivate(ctx, 3))

	assert.Equal(t, []domain.Layer{0, 2, 3, 2}, rec.layers())
	assert.Equal(t, domain.Layer(2), p.State.Get())
}

func TestEndToEnd_ObserverRendersLatest(t *testing.T) {
	ctx := context.Background()
	c, p, _, _ := setup(t)

	rendered := make(chan domain.Layer, 16)
	p.OnChange(func(l domain.Layer) { rendered <- l })

	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.Keymap.Activate(ctx, 4))

	assert.Eventually(t, func() bool {
		for {
			select {
			case l := <-rendered:
				if l == 4 {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 5*time.Millisecond)
}

func TestEndToEnd_PeripheralConnectsLate(t *testing.T) {
	ctx := context.Background()
	link := memory.NewLink()
	c := layerdisplay.NewCentral(link)

	// Central starts before the peripheral is attached.
	assert.ErrorIs(t, c.Start(ctx), domain.ErrTargetUnavailable)
	require.NoError(t, c.Keymap.Activate(ctx, 1))
	require.NoError(t, c.Keymap.Activate(ctx, 3))

	p := layerdisplay.NewPeripheral()
	p.Start()
	defer p.Stop()
	link.Attach(0, p.Behaviors)

	// Next occurrence resolves the target and brings the display up to date.
	require.NoError(t, c.Keymap.Deactivate(ctx, 1))
	assert.Equal(t, domain.Layer(3), p.State.Get())
}

func TestEndToEnd_LinkOutageRetries(t *testing.T) {
	ctx := context.Background()
	c, p, rec, link := setup(t)
	require.NoError(t, c.Start(ctx))

	link.SetConnected(false)
	require.NoError(t, c.Keymap.Activate(ctx, 2))
	assert.Equal(t, domain.Layer(0), p.State.Get(), "display is stale while the link is down")

	link.SetConnected(true)
	// A change that leaves the highest layer at 2 still retries the failed value.
	require.NoError(t, c.Keymap.Activate(ctx, 1))

	assert.Equal(t, domain.Layer(2), p.State.Get())
	assert.Equal(t, []domain.Layer{0, 2}, rec.layers())
}

func TestEndToEnd_Metrics(t *testing.T) {
	ctx := context.Background()
	m := observability.NewMetrics(prometheus.NewRegistry())
	c, p, _, _ := setup(t, layerdisplay.WithMetrics(m))
	p.OnChange(func(domain.Layer) {})

	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.Keymap.Activate(ctx, 5))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Forwards.WithLabelValues(observability.ResultSent)))
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.CurrentLayer) == 5
	}, time.Second, 5*time.Millisecond)
}

func TestPeripheral_BehaviorNames(t *testing.T) {
	p := layerdisplay.NewPeripheral(layerdisplay.WithBehaviorName("LD"))
	assert.Equal(t, []string{"LD"}, p.BehaviorNames())
}
