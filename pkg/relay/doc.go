/*
Package relay forwards the active layer from the node that owns the keymap to
a remote half that renders it.

The relay listens for layer state changes, reads the highest active layer and
invokes the layer display behavior on the remote through a ports.Link. A value
equal to the last acknowledged one is not resent; a failed send leaves the cache
alone so the same value is retried on the next change. Init resolves the remote
behavior and resends the current layer unconditionally.
*/
package relay
