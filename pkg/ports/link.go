package ports

import (
	"context"

	"github.com/aretw0/layerdisplay/pkg/domain"
)

// Link is the split transport as seen by the sending node.
// Implementations treat the peer as opaque: they can only find a behavior
// by name and invoke it.
type Link interface {
	// Resolve looks up the named behavior on the peer identified by source.
	// Returns an error wrapping domain.ErrBehaviorNotFound if the peer does not expose it.
	Resolve(ctx context.Context, source uint8, behavior string) (Target, error)
}

// Target is a resolved remote behavior.
type Target interface {
	// Invoke sends the invocation to the peer. When inv.WaitForAck is set it
	// blocks until the peer reports a status and returns any failure it reported.
	Invoke(ctx context.Context, inv domain.Invocation) error
}
