/*
Package domain holds the value types shared by every layer display component.

A Layer is the 8-bit index of a keymap layer. Bindings describe a behavior
invocation (the unit sent across the split link) and LayerStateChanged is the
event the keymap raises whenever its active layer set changes.
*/
package domain
