// Package display holds the layer display state of a node and notifies the renderer when it changes.
package display
