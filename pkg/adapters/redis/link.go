package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// ErrAckTimeout is returned when the peer did not acknowledge in time.
var ErrAckTimeout = errors.New("timed out waiting for ack")

// Link implements ports.Link over Redis pub/sub.
// Invocations are published on the peripheral's channel; acks come back on a
// per-invocation list the sender pops with BLPOP.
type Link struct {
	client *backend.Client
	opts   options
}

// NewLink creates a link with a new Redis client.
func NewLink(address, password string, db int, opts ...Option) *Link {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewLinkFromClient(rdb, opts...)
}

// NewLinkFromClient creates a link from an existing client.
func NewLinkFromClient(client *backend.Client, opts ...Option) *Link {
	l := &Link{
		client: client,
		opts:   defaultOptions(),
	}
	for _, opt := range opts {
		opt(&l.opts)
	}
	return l
}

// Resolve implements ports.Link by checking the behaviors the peripheral registered.
func (l *Link) Resolve(ctx context.Context, source uint8, behavior string) (ports.Target, error) {
	ok, err := l.client.SIsMember(ctx, l.opts.behaviorsKey(source), behavior).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLinkDown, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s on source %d", domain.ErrBehaviorNotFound, behavior, source)
	}
	return &target{link: l, source: source}, nil
}

// Close closes the redis client.
func (l *Link) Close() error {
	return l.client.Close()
}

type target struct {
	link   *Link
	source uint8
}

// Invoke implements ports.Target.
func (t *target) Invoke(ctx context.Context, inv domain.Invocation) error {
	opts := t.link.opts
	msg := message{ID: uuid.NewString(), Invocation: inv}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invocation: %w", err)
	}

	receivers, err := t.link.client.Publish(ctx, opts.channel(t.source), data).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLinkDown, err)
	}
	if receivers == 0 {
		return fmt.Errorf("%w: nobody listening on source %d", domain.ErrLinkDown, t.source)
	}
	if !inv.WaitForAck {
		return nil
	}

	res, err := t.link.client.BLPop(ctx, opts.ackTimeout, opts.ackKey(msg.ID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return fmt.Errorf("invocation %s: %w", msg.ID, ErrAckTimeout)
		}
		return fmt.Errorf("%w: %w", domain.ErrLinkDown, err)
	}

	var a ack
	if err := json.Unmarshal([]byte(res[1]), &a); err != nil {
		return fmt.Errorf("failed to unmarshal ack: %w", err)
	}
	if !a.OK {
		return fmt.Errorf("peer rejected invocation: %s", a.Error)
	}
	return nil
}
