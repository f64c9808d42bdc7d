package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/layerdisplay"
	"github.com/aretw0/layerdisplay/internal/config"
	"github.com/aretw0/layerdisplay/internal/presentation/tui"
	"github.com/aretw0/layerdisplay/pkg/adapters/memory"
	"github.com/aretw0/layerdisplay/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// DemoOptions configures the demo command.
type DemoOptions struct {
	Config *config.Config
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
}

// RunDemo runs a central and a peripheral in one process joined by the
// in-memory link. Commands on In drive the central's keymap and the
// peripheral's status line is written to Out.
func RunDemo(ctx context.Context, opts DemoOptions) error {
	cfg := opts.Config

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	stopMetrics := serveMetrics(cfg.MetricsAddr, reg, opts.Logger)
	defer stopMetrics()

	link := memory.NewLink()

	central := layerdisplay.NewCentral(link, centralOptions(cfg, opts.Logger, metrics)...)

	p := layerdisplay.NewPeripheral(
		layerdisplay.WithLogger(opts.Logger),
		layerdisplay.WithMetrics(metrics),
		layerdisplay.WithBehaviorName(cfg.Behavior),
	)
	status := tui.NewStatusLine(opts.Out, central.Keymap)
	p.OnChange(status.Render)
	p.Start()
	defer p.Stop()

	link.Attach(cfg.Node.Source, p.Behaviors)
	if err := central.Start(ctx); err != nil {
		return err
	}

	return commandLoop(ctx, central, opts.In, opts.Out)
}
