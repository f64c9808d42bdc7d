package ports

import "github.com/aretw0/layerdisplay/pkg/domain"

// Keymap is the authoritative layer state on the central node.
type Keymap interface {
	// HighestActive returns the numerically highest active layer.
	HighestActive() domain.Layer
}

// LayerNamer resolves a human readable name for a layer.
// An empty string means no name is known.
type LayerNamer interface {
	Name(layer domain.Layer) string
}
