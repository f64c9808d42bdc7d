package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/layerdisplay"
	"github.com/aretw0/layerdisplay/internal/config"
	"github.com/aretw0/layerdisplay/pkg/keymap"
	"github.com/aretw0/layerdisplay/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// CentralOptions configures the central command.
type CentralOptions struct {
	Config *config.Config
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
}

// RunCentral builds the link from configuration, starts the relay and reads
// layer commands from In until quit, EOF or cancellation.
func RunCentral(ctx context.Context, opts CentralOptions) error {
	link, closer, err := createLink(opts.Config, opts.Logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	stopMetrics := serveMetrics(opts.Config.MetricsAddr, reg, opts.Logger)
	defer stopMetrics()

	central := layerdisplay.NewCentral(link, centralOptions(opts.Config, opts.Logger, metrics)...)
	if err := central.Start(ctx); err != nil {
		// The relay retries on the next layer change.
		opts.Logger.Warn("peripheral not reachable yet", "error", err)
	}

	return commandLoop(ctx, central, opts.In, opts.Out)
}

func centralOptions(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) []layerdisplay.Option {
	return []layerdisplay.Option{
		layerdisplay.WithLogger(logger),
		layerdisplay.WithMetrics(metrics),
		layerdisplay.WithSource(cfg.Node.Source),
		layerdisplay.WithBehaviorName(cfg.Behavior),
		layerdisplay.WithKeymap(
			keymap.WithDefaultLayer(cfg.Keymap.DefaultLayer),
			keymap.WithLayers(cfg.Keymap.Layers),
		),
	}
}

func commandLoop(ctx context.Context, central *layerdisplay.Central, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			cmd, err := ParseCommand(line)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			err = Apply(ctx, central.Keymap, cmd)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			printStatus(out, central)
		}
	}
}

func printStatus(out io.Writer, central *layerdisplay.Central) {
	active := central.Keymap.Active()
	parts := make([]string, len(active))
	for i, l := range active {
		parts[i] = l.String()
	}

	sent := "none"
	if l, ok := central.Relay.LastForwarded(); ok {
		sent = l.String()
	}
	fmt.Fprintf(out, "active [%s] highest %s sent %s\n",
		strings.Join(parts, " "), central.Keymap.HighestActive(), sent)
}
