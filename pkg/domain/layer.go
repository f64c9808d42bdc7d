package domain

import "strconv"

// Layer identifies a keymap layer. Layer 0 is conventionally the base layer.
// The encoding width is the only bound; the keymap decides which indexes exist.
type Layer uint8

// MaxLayers is the number of distinct values a Layer can hold.
const MaxLayers = 256

// DefaultLayer is the value every display starts with.
const DefaultLayer Layer = 0

// String returns the decimal form of the layer index.
func (l Layer) String() string {
	return strconv.FormatUint(uint64(l), 10)
}
