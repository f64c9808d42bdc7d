/*
Package observability exports Prometheus metrics for the layer display subsystem.

It counts relay forward attempts by outcome and tracks the layer shown on the
local display, so a stale remote display can be spotted from the outside.
*/
package observability
