package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLayerStateChanged EventType = "layer_state_changed"
)

// Event is anything raised through the event manager.
type Event interface {
	Type() EventType
}

// EventResult tells the event manager whether to keep dispatching.
type EventResult int

const (
	// Bubble lets the event reach the next listener.
	Bubble EventResult = iota
	// Handled stops propagation.
	Handled
)

// LayerStateChanged is raised whenever a layer is activated or deactivated.
// Listeners should re-read the keymap rather than trust the payload: it only
// describes the edge that caused the event.
type LayerStateChanged struct {
	Layer     Layer     `json:"layer"`
	Active    bool      `json:"active"`
	Timestamp time.Time `json:"timestamp"`
}

// Type implements Event.
func (LayerStateChanged) Type() EventType {
	return EventLayerStateChanged
}
