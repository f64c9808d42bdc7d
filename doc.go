/*
Package layerdisplay keeps the active keyboard layer visible on both halves of
a split keyboard.

The half that owns the keymap (the central) forwards its highest active layer
to the other half (the peripheral) over a split link. The peripheral stores the
value in its display state and notifies its renderer from a work queue, so
nothing on the input path waits for a redraw.

# Concept

Central and Peripheral wire the pieces found in the pkg/ tree:

  - keymap.Keymap raises domain.LayerStateChanged through an events.Manager.
  - relay.Relay listens, reads the highest active layer and invokes the
    LAYER_DISPLAY behavior on the peripheral through a ports.Link, skipping
    values the peripheral already acknowledged.
  - behavior.LayerDisplay writes the layer into display.State, whose observer
    runs on a workqueue.Queue.

Links are pluggable: in-process (adapters/memory), HTTP (adapters/http) or
Redis pub/sub (adapters/redis).

# Usage

	link := memory.NewLink()

	p := layerdisplay.NewPeripheral()
	p.OnChange(func(l domain.Layer) { fmt.Println("showing", l) })
	p.Start()
	defer p.Stop()
	link.Attach(0, p.Behaviors)

	c := layerdisplay.NewCentral(link)
	_ = c.Start(ctx) // resolves the peripheral and resends the current layer
	_ = c.Keymap.Activate(ctx, 2)
*/
package layerdisplay
