package domain

import "errors"

// ErrTargetUnavailable is returned when the remote layer display target has not been resolved.
var ErrTargetUnavailable = errors.New("layer display target unavailable")

// ErrInvokeFailed is returned when the link accepted an invocation but reported failure.
var ErrInvokeFailed = errors.New("remote invocation failed")

// ErrBehaviorNotFound is returned when no behavior is registered under the requested name.
var ErrBehaviorNotFound = errors.New("behavior not found")

// ErrDefaultLayer is returned when trying to deactivate the default layer.
var ErrDefaultLayer = errors.New("default layer cannot be deactivated")

// ErrLinkDown is returned by links that are not connected to their peer.
var ErrLinkDown = errors.New("split link down")
