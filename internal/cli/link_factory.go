package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/layerdisplay/internal/config"
	httpadapter "github.com/aretw0/layerdisplay/pkg/adapters/http"
	redisadapter "github.com/aretw0/layerdisplay/pkg/adapters/redis"
	"github.com/aretw0/layerdisplay/pkg/ports"
)

// ErrLocalLink is returned when a standalone central is configured with the
// in-process link, which has nobody on the other end.
var ErrLocalLink = errors.New("memory link only connects nodes in one process; use the demo command")

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// createLink builds the central's link to its peripherals from configuration.
// The returned closer releases transport resources.
func createLink(cfg *config.Config, logger *slog.Logger) (ports.Link, io.Closer, error) {
	switch cfg.Link.Kind {
	case config.LinkHTTP:
		opts, err := cfg.HTTP()
		if err != nil {
			return nil, nil, err
		}
		if len(opts.Peers) == 0 {
			return nil, nil, fmt.Errorf("http link needs at least one peer")
		}
		peers := make(map[uint8]string, len(opts.Peers))
		for _, p := range opts.Peers {
			peers[p.Source] = p.URL
		}
		link := httpadapter.NewLink(peers,
			httpadapter.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
			httpadapter.WithLinkLogger(logger),
		)
		return link, nopCloser{}, nil

	case config.LinkRedis:
		opts, err := cfg.Redis()
		if err != nil {
			return nil, nil, err
		}
		link := redisadapter.NewLink(opts.Addr, opts.Password, opts.DB,
			redisadapter.WithPrefix(opts.Prefix),
			redisadapter.WithAckTimeout(opts.AckTimeout),
			redisadapter.WithLogger(logger),
		)
		return link, link, nil

	case config.LinkMemory:
		return nil, nil, ErrLocalLink
	}
	return nil, nil, fmt.Errorf("unknown link kind %q", cfg.Link.Kind)
}
