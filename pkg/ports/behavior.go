package ports

import (
	"context"

	"github.com/aretw0/layerdisplay/pkg/domain"
)

// Behavior is an action that can be bound to a key or invoked over a split link.
type Behavior interface {
	Pressed(ctx context.Context, binding domain.Binding, event domain.BindingEvent) error
	Released(ctx context.Context, binding domain.Binding, event domain.BindingEvent) error
}

// Dispatcher routes an invocation to a behavior by name.
// Link listeners on the receiving node hand every request to a Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, inv domain.Invocation) error
	Has(behavior string) bool
}
