/*
Package ports defines the driven ports (interfaces) of the layer display subsystem.

These interfaces decouple the relay and the display state from the keymap and
from the split transport, so each side can be tested with fakes.

# Key Interfaces

  - Link / Target: resolve and invoke a behavior on the remote half.
  - Behavior / Dispatcher: the receiving side of an invocation.
  - Keymap: authoritative "highest active layer" policy handed to the relay.
*/
package ports
