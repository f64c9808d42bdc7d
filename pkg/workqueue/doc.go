/*
Package workqueue provides a deferred-execution primitive: a single worker
goroutine that runs registered work items on behalf of callers that must not
block.

Submitting an item that is already pending is coalesced into the earlier
submission, so the handler observes the latest shared state rather than every
intermediate one, and queue usage stays bounded by the number of items.
*/
package workqueue
