// Package channel defines the bridge between messaging platforms and the
// chat engine. It provides the Channel interface, the outbound dispatcher,
// and allow-list filtering.
package channel

import (
	"context"

	"github.com/cheekylabs/cheeky/internal/core"
	"github.com/cheekylabs/cheeky/pkg/message"
)

// Channel is the bridge between a messaging platform and the chat engine.
// Every concrete channel (Telegram, etc.) must implement this interface.
//
// A channel receives messages from its platform, checks the allow-list, and
// pushes them to the engine via the inbox callback. It also receives
// outbound messages from the engine via Send().
type Channel interface {
	core.Module

	// Send delivers an outbound message to the platform.
	Send(ctx context.Context, msg message.OutboundMessage) error

	// SetInbox gives the channel a function to push inbound messages to the
	// engine. The wiring layer calls this before Start().
	SetInbox(fn func(msg message.InboundMessage) error)
}
