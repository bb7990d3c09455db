// Package store defines the persistent user store contract: user profiles,
// conversation history for analytics, and per-user usage stats. Modules
// under modules/store provide the implementations.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when a user ID has no stored profile.
var ErrUserNotFound = errors.New("store: user not found")

// Gender is a profile gender used for persona selection.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// Style is a bot communication style.
type Style string

const (
	StylePlayful    Style = "playful"
	StyleRomantic   Style = "romantic"
	StylePassionate Style = "passionate"
	StyleMysterious Style = "mysterious"
)

// ValidStyle reports whether s is one of the known communication styles.
func ValidStyle(s Style) bool {
	switch s {
	case StylePlayful, StyleRomantic, StylePassionate, StyleMysterious:
		return true
	}
	return false
}

// User is a stored user profile. Style and the gender pair drive persona
// prompts; StopWords are per-user refusal triggers on top of the global set.
type User struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Gender    Gender
	BotGender Gender
	Style     Style
	StopWords []string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Conversation is one completed exchange, kept for stats and review.
// TokensUsed is an approximation; exact counts are provider-specific.
type Conversation struct {
	ID         int64
	UserID     string
	Message    string
	Response   string
	TokensUsed int
	CreatedAt  time.Time
}

// UserStats aggregates per-user usage. FavoriteStyle tracks the style in
// effect at the most recent exchange.
type UserStats struct {
	UserID        string
	MessageCount  int64
	TotalTokens   int64
	FavoriteStyle Style
	LastActive    time.Time
}

// UserStore persists user profiles, conversations, and stats.
type UserStore interface {
	// GetUser returns the profile for id, or ErrUserNotFound.
	GetUser(ctx context.Context, id string) (User, error)

	// CreateUser inserts a new profile. Zero-valued Gender, BotGender,
	// Style, and Active receive defaults (neutral, female, playful, true).
	CreateUser(ctx context.Context, u User) (User, error)

	// UpdateUser replaces the stored profile for u.ID, or returns
	// ErrUserNotFound.
	UpdateUser(ctx context.Context, u User) error

	// SaveConversation appends an exchange and bumps the user's stats.
	SaveConversation(ctx context.Context, c Conversation) error

	// GetUserStats returns usage stats for id. A user with no recorded
	// exchanges gets zero-valued stats, not an error.
	GetUserStats(ctx context.Context, id string) (UserStats, error)

	// RecentConversations returns up to n exchanges for id, newest first.
	RecentConversations(ctx context.Context, id string, n int) ([]Conversation, error)
}
