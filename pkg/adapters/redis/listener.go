package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/layerdisplay/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Listener is the receiving half of the Redis link. It advertises the given
// behaviors for its source and dispatches every published invocation.
type Listener struct {
	client     *backend.Client
	source     uint8
	dispatcher ports.Dispatcher
	behaviors  []string
	opts       options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewListener creates a listener for source. Nothing happens until Start.
func NewListener(client *backend.Client, source uint8, d ports.Dispatcher, behaviors []string, opts ...Option) *Listener {
	l := &Listener{
		client:     client,
		source:     source,
		dispatcher: d,
		behaviors:  behaviors,
		opts:       defaultOptions(),
	}
	for _, opt := range opts {
		opt(&l.opts)
	}
	return l
}

// Start subscribes to the source channel and registers the behaviors.
// Invocations published after Start returns are delivered.
func (l *Listener) Start(ctx context.Context) error {
	sub := l.client.Subscribe(ctx, l.opts.channel(l.source))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	if len(l.behaviors) > 0 {
		members := make([]any, len(l.behaviors))
		for i, b := range l.behaviors {
			members[i] = b
		}
		if err := l.client.SAdd(ctx, l.opts.behaviorsKey(l.source), members...).Err(); err != nil {
			_ = sub.Close()
			return fmt.Errorf("failed to register behaviors: %w", err)
		}
	}

	ctx, l.cancel = context.WithCancel(ctx)
	ch := sub.Channel()
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				l.handle(ctx, msg.Payload)
			}
		}
	}()

	l.opts.logger.Info("redis link listening", "channel", l.opts.channel(l.source), "behaviors", l.behaviors)
	return nil
}

// Close stops the listener and withdraws its behaviors.
func (l *Listener) Close(ctx context.Context) error {
	if l.cancel == nil {
		return nil
	}
	l.cancel()
	l.wg.Wait()

	if len(l.behaviors) == 0 {
		return nil
	}
	members := make([]any, len(l.behaviors))
	for i, b := range l.behaviors {
		members[i] = b
	}
	return l.client.SRem(ctx, l.opts.behaviorsKey(l.source), members...).Err()
}

func (l *Listener) handle(ctx context.Context, payload string) {
	var msg message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		l.opts.logger.Warn("discarding malformed invocation", "error", err)
		return
	}

	res := ack{OK: true}
	if err := l.dispatcher.Dispatch(ctx, msg.Invocation); err != nil {
		res = ack{OK: false, Error: err.Error()}
		l.opts.logger.Warn("invocation failed", "id", msg.ID, "behavior", msg.Invocation.Binding.Behavior, "error", err)
	}
	if !msg.Invocation.WaitForAck {
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		l.opts.logger.Error("failed to marshal ack", "error", err)
		return
	}
	pipe := l.client.Pipeline()
	pipe.RPush(ctx, l.opts.ackKey(msg.ID), data)
	pipe.Expire(ctx, l.opts.ackKey(msg.ID), l.opts.ackTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		l.opts.logger.Error("failed to push ack", "id", msg.ID, "error", err)
	}
}
