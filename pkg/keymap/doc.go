/*
Package keymap tracks the active layer set on the node that owns the keymap.

The default layer is always active. Any other layer can be activated,
deactivated, toggled or switched to; each effective change raises a
domain.LayerStateChanged event so listeners such as the layer relay can react.
*/
package keymap
