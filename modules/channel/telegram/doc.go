// Package telegram implements the Telegram Bot API channel for cheeky.
//
// It bridges Telegram and cheeky's platform-agnostic message model:
//
//   - Inbound text messages are converted to message.InboundMessage and
//     pushed to the engine through the inbox callback
//   - Outbound replies are chunked to Telegram's message length limit and
//     sent via sendMessage, with reply-keyboard hints rendered as
//     ReplyKeyboardMarkup
//   - Updates are received via long polling with a consecutive-error pause
//
// The module registers itself as "channel.telegram" via init() and follows
// the full module lifecycle: Configure → Provision → Validate → Start → Stop.
//
// No external Telegram library is used; the module talks to the Bot API
// with net/http and encoding/json directly.
package telegram
