package redis

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/layerdisplay/internal/logging"
)

const (
	// DefaultPrefix namespaces every key and channel used by the link.
	DefaultPrefix = "layerdisplay:"
	// DefaultAckTimeout bounds how long an invocation waits for its ack.
	DefaultAckTimeout = 2 * time.Second
	// DefaultAckTTL expires acks nobody collected.
	DefaultAckTTL = 30 * time.Second
)

type options struct {
	prefix     string
	ackTimeout time.Duration
	ackTTL     time.Duration
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		prefix:     DefaultPrefix,
		ackTimeout: DefaultAckTimeout,
		ackTTL:     DefaultAckTTL,
		logger:     logging.NewNop(),
	}
}

// Option configures a Link or a Listener.
type Option func(*options)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithAckTimeout sets how long the sender waits for an acknowledgement.
// Non-positive values are ignored: BLPOP would block forever on zero.
func WithAckTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ackTimeout = d
		}
	}
}

// WithAckTTL sets the expiration of ack entries.
func WithAckTTL(d time.Duration) Option {
	return func(o *options) {
		o.ackTTL = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func (o options) channel(source uint8) string {
	return o.prefix + "split:" + strconv.Itoa(int(source))
}

func (o options) behaviorsKey(source uint8) string {
	return o.prefix + "behaviors:" + strconv.Itoa(int(source))
}

func (o options) ackKey(id string) string {
	return o.prefix + "ack:" + id
}
