// Package dialog implements the per-user conversation state: a rolling
// window of turns in the key-value substrate, a keyword summarizer, a
// token-budget context optimizer, and preference extraction.
package dialog

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a turn.
type Role string

// Turn roles. They match the roles the provider API expects so a window
// can be forwarded without translation.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is a single utterance in a conversation window.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// encodeWindow serializes a window for storage.
func encodeWindow(turns []Turn) (string, error) {
	data, err := json.Marshal(turns)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeWindow deserializes a stored window. Callers treat an error as an
// absent window; a corrupt payload never propagates past the store.
func decodeWindow(raw string) ([]Turn, error) {
	var turns []Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, err
	}
	return turns, nil
}
