package message

import (
	"encoding/json"
	"strings"
	"time"
)

// InboundMessage represents a message received from a channel.
type InboundMessage struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Channel   string          `json:"channel"`
	Sender    Sender          `json:"sender"`
	Chat      Chat            `json:"chat"`
	Text      string          `json:"text"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// IsCommand reports whether the message text is a slash command
// (e.g. "/start", "/clear").
func (m *InboundMessage) IsCommand() bool {
	return strings.HasPrefix(m.Text, "/")
}

// Command returns the command name without the leading slash and without
// a trailing @botname suffix, or "" if the message is not a command.
// "/style@cheeky_bot playful" yields "style".
func (m *InboundMessage) Command() string {
	if !m.IsCommand() {
		return ""
	}
	cmd := m.Text[1:]
	if i := strings.IndexAny(cmd, " \t\n"); i >= 0 {
		cmd = cmd[:i]
	}
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd
}

// CommandArgs returns everything after the command token, trimmed.
func (m *InboundMessage) CommandArgs() string {
	if !m.IsCommand() {
		return ""
	}
	_, args, _ := strings.Cut(m.Text, " ")
	return strings.TrimSpace(args)
}

// IsGroup reports whether the message was sent in a group chat.
func (m *InboundMessage) IsGroup() bool {
	return m.Chat.IsGroup()
}

// IsDirectMessage reports whether the message is a direct message.
func (m *InboundMessage) IsDirectMessage() bool {
	return m.Chat.IsDirectMessage()
}
