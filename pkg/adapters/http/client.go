package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/layerdisplay/internal/logging"
	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
)

// DefaultTimeout bounds every request made by the client link.
const DefaultTimeout = 2 * time.Second

// Link implements ports.Link by calling the peripheral's HTTP endpoint.
type Link struct {
	peers  map[uint8]string
	client *http.Client
	logger *slog.Logger
}

// LinkOption configures the Link.
type LinkOption func(*Link)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) LinkOption {
	return func(l *Link) {
		l.client = c
	}
}

// WithLinkLogger configures the structured logger.
func WithLinkLogger(logger *slog.Logger) LinkOption {
	return func(l *Link) {
		l.logger = logger
	}
}

// NewLink creates a link to the given peripherals, keyed by source index.
func NewLink(peers map[uint8]string, opts ...LinkOption) *Link {
	l := &Link{
		peers:  make(map[uint8]string, len(peers)),
		client: &http.Client{Timeout: DefaultTimeout},
		logger: logging.NewNop(),
	}
	for source, base := range peers {
		l.peers[source] = strings.TrimRight(base, "/")
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Link) behaviorURL(source uint8, behavior string) (string, error) {
	base, ok := l.peers[source]
	if !ok {
		return "", fmt.Errorf("no peer on source %d: %w", source, domain.ErrLinkDown)
	}
	return base + "/behaviors/" + url.PathEscape(behavior), nil
}

// Resolve implements ports.Link.
func (l *Link) Resolve(ctx context.Context, source uint8, behavior string) (ports.Target, error) {
	u, err := l.behaviorURL(source, behavior)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build resolve request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLinkDown, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s on source %d", domain.ErrBehaviorNotFound, behavior, source)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("resolve %s: unexpected status %s", behavior, resp.Status)
	}
	return &target{link: l, url: u}, nil
}

type target struct {
	link *Link
	url  string
}

// Invoke implements ports.Target. Without WaitForAck the request is sent on
// its own goroutine and only its failure is logged.
func (t *target) Invoke(ctx context.Context, inv domain.Invocation) error {
	if !inv.WaitForAck {
		go func() {
			if err := t.post(context.WithoutCancel(ctx), inv); err != nil {
				t.link.logger.Warn("unacknowledged invoke failed", "url", t.url, "error", err)
			}
		}()
		return nil
	}
	return t.post(ctx, inv)
}

func (t *target) post(ctx context.Context, inv domain.Invocation) error {
	body, err := json.Marshal(InvokeRequest{
		Param1: inv.Binding.Param1,
		Param2: inv.Binding.Param2,
		Event:  inv.Event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal invocation: %w", err)
	}

	action := "/released"
	if inv.Pressed {
		action = "/pressed"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url+action, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build invoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.link.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLinkDown, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", domain.ErrBehaviorNotFound, e.Error)
		}
		return fmt.Errorf("peer returned %s: %s", resp.Status, e.Error)
	}
	return nil
}
