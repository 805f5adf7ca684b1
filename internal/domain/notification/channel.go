// Package notification defines the outbound messaging-channel contract the
// monitor delivers through. The channel is an external, rate-limited
// resource; senders self-throttle rather than rely on its backpressure.
package notification

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited indicates the channel asked to slow down. The message
	// was not delivered.
	ErrRateLimited = errors.New("notification: rate limited")

	// ErrSendFailed indicates the channel definitively refused the message.
	ErrSendFailed = errors.New("notification: send failed")
)

// Channel delivers a text message to one recipient.
type Channel interface {
	Send(ctx context.Context, recipientID int64, text string) error
}
