// Package tui renders the layer display in a terminal.
package tui
