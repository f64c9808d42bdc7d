package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/layerdisplay"
	"github.com/aretw0/layerdisplay/internal/config"
	"github.com/aretw0/layerdisplay/internal/presentation/tui"
	httpadapter "github.com/aretw0/layerdisplay/pkg/adapters/http"
	redisadapter "github.com/aretw0/layerdisplay/pkg/adapters/redis"
	"github.com/aretw0/layerdisplay/pkg/keymap"
	"github.com/aretw0/layerdisplay/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// PeripheralOptions configures the peripheral command.
type PeripheralOptions struct {
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer
}

// RunPeripheral serves the layer display behavior over the configured link
// and paints the status line on Out until ctx is cancelled.
func RunPeripheral(ctx context.Context, opts PeripheralOptions) error {
	cfg := opts.Config
	refresh, err := cfg.Refresh()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	p := layerdisplay.NewPeripheral(
		layerdisplay.WithLogger(opts.Logger),
		layerdisplay.WithMetrics(metrics),
		layerdisplay.WithBehaviorName(cfg.Behavior),
	)
	status := tui.NewStatusLine(opts.Out, keymap.New(keymap.WithLayers(cfg.Keymap.Layers)))
	p.OnChange(status.Render)
	p.Start()
	defer p.Stop()

	stop, err := serveLink(ctx, cfg, p, reg, opts.Logger)
	if err != nil {
		return err
	}
	defer stop()

	status.Run(ctx, refresh, p.State.Get)
	return nil
}

// serveLink exposes the peripheral's behaviors on the configured transport.
func serveLink(ctx context.Context, cfg *config.Config, p *layerdisplay.Peripheral, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	switch cfg.Link.Kind {
	case config.LinkHTTP:
		opts, err := cfg.HTTP()
		if err != nil {
			return nil, err
		}
		h := httpadapter.NewHandler(p.Behaviors,
			httpadapter.WithState(p.State),
			httpadapter.WithGatherer(reg),
			httpadapter.WithLogger(logger),
		)
		return serve(opts.Listen, h, logger), nil

	case config.LinkRedis:
		opts, err := cfg.Redis()
		if err != nil {
			return nil, err
		}
		client := backend.NewClient(&backend.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})
		listener := redisadapter.NewListener(client, cfg.Node.Source, p.Behaviors, p.BehaviorNames(),
			redisadapter.WithPrefix(opts.Prefix),
			redisadapter.WithLogger(logger),
		)
		if err := listener.Start(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		stopMetrics := serveMetrics(cfg.MetricsAddr, reg, logger)
		return func() {
			stopMetrics()
			if err := listener.Close(context.Background()); err != nil {
				logger.Warn("failed to unregister behaviors", "error", err)
			}
			_ = client.Close()
		}, nil

	case config.LinkMemory:
		return nil, ErrLocalLink
	}
	return nil, fmt.Errorf("unknown link kind %q", cfg.Link.Kind)
}
