package message

// OutboundMessage represents a message to be sent through a channel.
// Channel names the channel module that should deliver it
// (e.g. "channel.telegram"); the dispatcher routes on it.
type OutboundMessage struct {
	Channel string         `json:"channel"`
	Chat    Chat           `json:"chat"`
	Text    string         `json:"text"`
	Hints   *OutboundHints `json:"hints,omitempty"`
}

// OutboundHints carries optional delivery hints for channels.
// Zero value means no hints are set.
type OutboundHints struct {
	DisablePreview      bool   `json:"disable_preview,omitempty"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
	ParseMode           string `json:"parse_mode,omitempty"`

	// Keyboard is a reply-keyboard layout: rows of button labels.
	// Channels that cannot render keyboards ignore it.
	Keyboard [][]string `json:"keyboard,omitempty"`

	// RemoveKeyboard asks the channel to hide any visible reply keyboard.
	RemoveKeyboard bool `json:"remove_keyboard,omitempty"`
}

// NewTextMessage creates an outbound text message for the given channel and chat.
func NewTextMessage(channel string, chat Chat, text string) OutboundMessage {
	return OutboundMessage{
		Channel: channel,
		Chat:    chat,
		Text:    text,
	}
}

// Reply builds an outbound message addressed back to the origin of an
// inbound message.
func Reply(in InboundMessage, text string) OutboundMessage {
	return NewTextMessage(in.Channel, in.Chat, text)
}

// WithKeyboard returns a copy of the message with a reply keyboard hint.
func (m OutboundMessage) WithKeyboard(rows [][]string) OutboundMessage {
	if m.Hints == nil {
		m.Hints = &OutboundHints{}
	} else {
		cp := *m.Hints
		m.Hints = &cp
	}
	m.Hints.Keyboard = rows
	return m
}
