package telegram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cheekylabs/cheeky/pkg/message"
)

// convertInbound transforms a Telegram Update into a platform-agnostic
// InboundMessage. The bot is text-only, so updates without message text
// are rejected.
func convertInbound(update *Update, channelName string) (message.InboundMessage, error) {
	msg := update.Message
	if msg == nil {
		return message.InboundMessage{}, fmt.Errorf("telegram: update %d contains no message", update.UpdateID)
	}
	if strings.TrimSpace(msg.Text) == "" {
		return message.InboundMessage{}, fmt.Errorf("telegram: update %d has no text", update.UpdateID)
	}

	raw, err := json.Marshal(update)
	if err != nil {
		return message.InboundMessage{}, fmt.Errorf("telegram: marshal update: %w", err)
	}

	return message.InboundMessage{
		ID:        strconv.Itoa(msg.MessageID),
		Timestamp: time.Unix(int64(msg.Date), 0),
		Channel:   channelName,
		Sender:    convertSender(msg.From),
		Chat:      convertChat(msg.Chat),
		Text:      msg.Text,
		Raw:       raw,
	}, nil
}

// convertSender maps a Telegram User to a platform-agnostic Sender.
func convertSender(user *User) message.Sender {
	if user == nil {
		return message.Sender{}
	}
	displayName := user.FirstName
	if user.LastName != "" {
		displayName += " " + user.LastName
	}
	return message.Sender{
		ID:          strconv.FormatInt(user.ID, 10),
		Username:    user.Username,
		DisplayName: displayName,
	}
}

// convertChat maps a Telegram Chat to a platform-agnostic Chat.
func convertChat(chat Chat) message.Chat {
	return message.Chat{
		ID:    strconv.FormatInt(chat.ID, 10),
		Type:  mapChatType(chat.Type),
		Title: chat.Title,
	}
}

// mapChatType converts Telegram chat type strings to message.ChatType.
func mapChatType(tgType string) message.ChatType {
	if tgType == "private" {
		return message.ChatDM
	}
	return message.ChatGroup
}

// convertKeyboard renders outbound hints as a Telegram reply markup value.
// Returns nil when the hints request no keyboard change.
func convertKeyboard(hints *message.OutboundHints) any {
	if hints == nil {
		return nil
	}
	if len(hints.Keyboard) > 0 {
		rows := make([][]KeyboardButton, 0, len(hints.Keyboard))
		for _, row := range hints.Keyboard {
			buttons := make([]KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, KeyboardButton{Text: label})
			}
			rows = append(rows, buttons)
		}
		return &ReplyKeyboardMarkup{
			Keyboard:        rows,
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		}
	}
	if hints.RemoveKeyboard {
		return &ReplyKeyboardRemove{RemoveKeyboard: true}
	}
	return nil
}

// splitText splits text into chunks of at most maxLen runes, preferring to
// break at the last newline and then the last space within the window.
func splitText(text string, maxLen int) []string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= maxLen {
			chunks = append(chunks, string(runes))
			break
		}

		cut := maxLen
		window := runes[:maxLen]
		if i := lastIndexRune(window, '\n'); i > 0 {
			cut = i + 1
		} else if i := lastIndexRune(window, ' '); i > 0 {
			cut = i + 1
		}

		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), " \n"))
		runes = runes[cut:]
	}
	return chunks
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
