package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cheekylabs/cheeky/internal/store"
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// GetUser returns the profile for id, or store.ErrUserNotFound.
func (s *userStore) GetUser(ctx context.Context, id string) (store.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, first_name, last_name, gender, bot_gender, style, stop_words, active, created_at, updated_at
		FROM users
		WHERE id = ?`,
		id,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, store.ErrUserNotFound
		}
		return store.User{}, fmt.Errorf("sqlite: get user: %w", err)
	}
	return u, nil
}

// CreateUser inserts a new profile, filling zero-valued persona fields with
// defaults.
func (s *userStore) CreateUser(ctx context.Context, u store.User) (store.User, error) {
	if u.Gender == "" {
		u.Gender = store.GenderNeutral
	}
	if u.BotGender == "" {
		u.BotGender = store.GenderFemale
	}
	if u.Style == "" {
		u.Style = store.StylePlayful
	}
	u.Active = true
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	stopWords, err := marshalStopWords(u.StopWords)
	if err != nil {
		return store.User{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name, last_name, gender, bot_gender, style, stop_words, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		u.ID, u.Username, u.FirstName, u.LastName,
		string(u.Gender), string(u.BotGender), string(u.Style), stopWords,
		now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return store.User{}, fmt.Errorf("sqlite: create user: %w", err)
	}
	return u, nil
}

// UpdateUser replaces the stored profile for u.ID.
func (s *userStore) UpdateUser(ctx context.Context, u store.User) error {
	stopWords, err := marshalStopWords(u.StopWords)
	if err != nil {
		return err
	}

	active := 0
	if u.Active {
		active = 1
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET username = ?, first_name = ?, last_name = ?, gender = ?, bot_gender = ?,
		    style = ?, stop_words = ?, active = ?,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
		WHERE id = ?`,
		u.Username, u.FirstName, u.LastName, string(u.Gender), string(u.BotGender),
		string(u.Style), stopWords, active,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update user rows: %w", err)
	}
	if n == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// SaveConversation appends an exchange and bumps the user's stats in one
// transaction.
func (s *userStore) SaveConversation(ctx context.Context, c store.Conversation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (user_id, message, response, tokens_used)
		VALUES (?, ?, ?, ?)`,
		c.UserID, c.Message, c.Response, c.TokensUsed,
	); err != nil {
		return fmt.Errorf("sqlite: save conversation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, message_count, total_tokens, favorite_style, last_active)
		VALUES (?, 1, ?, COALESCE((SELECT style FROM users WHERE id = ?), ''), strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(user_id) DO UPDATE SET
			message_count  = message_count + 1,
			total_tokens   = total_tokens + excluded.total_tokens,
			favorite_style = excluded.favorite_style,
			last_active    = strftime('%Y-%m-%dT%H:%M:%fZ','now')`,
		c.UserID, c.TokensUsed, c.UserID,
	); err != nil {
		return fmt.Errorf("sqlite: bump stats: %w", err)
	}

	return tx.Commit()
}

// GetUserStats returns usage stats for id. No recorded exchanges yields
// zero-valued stats.
func (s *userStore) GetUserStats(ctx context.Context, id string) (store.UserStats, error) {
	var (
		stats      store.UserStats
		style      string
		lastActive string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, message_count, total_tokens, favorite_style, last_active
		FROM user_stats
		WHERE user_id = ?`,
		id,
	).Scan(&stats.UserID, &stats.MessageCount, &stats.TotalTokens, &style, &lastActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.UserStats{UserID: id}, nil
		}
		return store.UserStats{}, fmt.Errorf("sqlite: get stats: %w", err)
	}
	stats.FavoriteStyle = store.Style(style)
	stats.LastActive = parseTime(lastActive)
	return stats, nil
}

// RecentConversations returns up to n exchanges for id, newest first.
func (s *userStore) RecentConversations(ctx context.Context, id string, n int) ([]store.Conversation, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, message, response, tokens_used, created_at
		FROM conversations
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ?`,
		id, n,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var convs []store.Conversation
	for rows.Next() {
		var (
			c         store.Conversation
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Message, &c.Response, &c.TokensUsed, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan conversation: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: recent conversation rows: %w", err)
	}

	return convs, nil
}

func marshalStopWords(words []string) (string, error) {
	if len(words) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(words)
	if err != nil {
		return "", fmt.Errorf("sqlite: marshal stop_words: %w", err)
	}
	return string(b), nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(sc scanner) (store.User, error) {
	var (
		u                    store.User
		gender, botGender    string
		style, stopWordsJSON string
		active               int
		createdAt, updatedAt string
	)

	err := sc.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName,
		&gender, &botGender, &style, &stopWordsJSON, &active, &createdAt, &updatedAt)
	if err != nil {
		return u, err
	}

	u.Gender = store.Gender(gender)
	u.BotGender = store.Gender(botGender)
	u.Style = store.Style(style)
	u.Active = active != 0

	if stopWordsJSON != "" && stopWordsJSON != "[]" {
		if err := json.Unmarshal([]byte(stopWordsJSON), &u.StopWords); err != nil {
			return u, fmt.Errorf("sqlite: unmarshal stop_words: %w", err)
		}
	}

	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return u, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
