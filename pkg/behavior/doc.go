// Package behavior implements the receiving end of the layer relay: the layer
// display behavior and the registry link listeners dispatch into.
package behavior
