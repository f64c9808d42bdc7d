package domain

// BehaviorLayerDisplay is the stable name under which the layer display
// behavior is registered on every node.
const BehaviorLayerDisplay = "LAYER_DISPLAY"

// Binding describes a behavior invocation: which behavior and its parameters.
// For the layer display behavior Param1 carries the layer and Param2 is unused.
type Binding struct {
	Behavior string `json:"behavior"`
	Param1   uint32 `json:"param1"`
	Param2   uint32 `json:"param2"`
}

// BindingEvent carries the origin of an invocation.
type BindingEvent struct {
	Position  uint32 `json:"position"`
	Source    uint8  `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

// LayerBinding builds the binding that displays layer l on a remote node.
func LayerBinding(l Layer) Binding {
	return Binding{
		Behavior: BehaviorLayerDisplay,
		Param1:   uint32(l),
	}
}

// Invocation is a single request carried by a split link.
type Invocation struct {
	Binding Binding      `json:"binding"`
	Event   BindingEvent `json:"event"`
	// Pressed selects the pressed (true) or released (false) handler.
	Pressed bool `json:"pressed"`
	// WaitForAck makes the caller block until the peer reports a status.
	WaitForAck bool `json:"wait_for_ack"`
}
