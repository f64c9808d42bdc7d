package redis

import "github.com/aretw0/layerdisplay/pkg/domain"

// message is published on the split channel.
type message struct {
	ID         string            `json:"id"`
	Invocation domain.Invocation `json:"invocation"`
}

// ack is pushed to the ack list when the sender waits for one.
type ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
