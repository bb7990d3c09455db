package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cheekylabs/cheeky/internal/kv"
)

// Key layout in the substrate. One namespace per concern, partitioned by
// user ID.
const (
	contextKeyPrefix = "context:"
	summaryKeyPrefix = "summary:"
	sessionKeyPrefix = "session:"
)

// ContextStore maintains the rolling dialogue window and its summary for
// each user on top of a kv.Store.
//
// Reads degrade: a missing or corrupt window yields an empty one and never
// an error. Writes surface substrate failures to the caller. Concurrent
// appends for the same user are last-write-wins; a summary refresh lost to
// such a race is tolerated.
type ContextStore struct {
	store      kv.Store
	summarizer *Summarizer
	config     Config
	logger     *slog.Logger

	// now is swappable for tests.
	now func() time.Time

	// onSummaryRefresh is invoked after each successful summary
	// recomputation. Nil means no observer.
	onSummaryRefresh func()
}

// NewContextStore creates a ContextStore. A nil summarizer disables the
// periodic summary refresh.
func NewContextStore(store kv.Store, summarizer *Summarizer, cfg Config, logger *slog.Logger) *ContextStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextStore{
		store:      store,
		summarizer: summarizer,
		config:     cfg.withDefaults(),
		logger:     logger.With("component", "dialog"),
		now:        time.Now,
	}
}

// SetSummaryRefreshHook registers an observer called after each summary
// recomputation. Must be set before the store is shared across goroutines.
func (s *ContextStore) SetSummaryRefreshHook(fn func()) {
	s.onSummaryRefresh = fn
}

func contextKey(userID string) string { return contextKeyPrefix + userID }
func summaryKey(userID string) string { return summaryKeyPrefix + userID }
func sessionKey(userID string) string { return sessionKeyPrefix + userID }

// Append records one completed exchange: the user turn followed by the
// assistant turn. The window is truncated to the newest WindowSize turns
// and its TTL is reset. When the stored length lands on a multiple of
// SummaryEvery, the summary is recomputed from the newest SummaryTurns
// turns and stored with its own TTL.
func (s *ContextStore) Append(ctx context.Context, userID, userText, assistantText string) error {
	window := s.readWindow(ctx, userID)

	now := s.now()
	window = append(window,
		Turn{Role: RoleUser, Content: userText, CreatedAt: now},
		Turn{Role: RoleAssistant, Content: assistantText, CreatedAt: now},
	)

	if len(window) > s.config.WindowSize {
		window = window[len(window)-s.config.WindowSize:]
	}

	if err := s.writeWindow(ctx, userID, window); err != nil {
		return err
	}

	if len(window)%s.config.SummaryEvery == 0 {
		s.refreshSummary(ctx, userID, window)
	}

	return nil
}

// Get returns the newest maxPairs exchanges (maxPairs*2 turns), oldest
// first. A missing or unreadable window yields an empty slice.
func (s *ContextStore) Get(ctx context.Context, userID string, maxPairs int) []Turn {
	window := s.readWindow(ctx, userID)
	if maxPairs <= 0 {
		return window
	}
	limit := maxPairs * 2
	if len(window) > limit {
		window = window[len(window)-limit:]
	}
	return window
}

// Len returns the current stored window length.
func (s *ContextStore) Len(ctx context.Context, userID string) int {
	return len(s.readWindow(ctx, userID))
}

// Summary returns the stored summary for the user, or ("", false) when
// none exists.
func (s *ContextStore) Summary(ctx context.Context, userID string) (string, bool) {
	raw, err := s.store.Get(ctx, summaryKey(userID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("summary read failed", "user", userID, "error", err)
		}
		return "", false
	}
	return raw, raw != ""
}

// Clear removes the user's window, summary, and session marker. Clearing
// an already-empty user is a no-op.
func (s *ContextStore) Clear(ctx context.Context, userID string) error {
	err := s.store.Delete(ctx, contextKey(userID), summaryKey(userID), sessionKey(userID))
	if err != nil {
		return fmt.Errorf("dialog: clear %s: %w", userID, err)
	}
	return nil
}

// TouchSession refreshes the user's session marker with the window TTL.
func (s *ContextStore) TouchSession(ctx context.Context, userID string) {
	if err := s.store.SetEx(ctx, sessionKey(userID), s.now().UTC().Format(time.RFC3339), s.config.ContextTTL); err != nil {
		s.logger.Warn("session touch failed", "user", userID, "error", err)
	}
}

// readWindow loads and decodes the stored window. Both substrate failures
// and corrupt payloads degrade to an empty window.
func (s *ContextStore) readWindow(ctx context.Context, userID string) []Turn {
	raw, err := s.store.Get(ctx, contextKey(userID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("context read failed", "user", userID, "error", err)
		}
		return nil
	}

	window, err := decodeWindow(raw)
	if err != nil {
		s.logger.Warn("discarding corrupt context window", "user", userID, "error", err)
		return nil
	}
	return window
}

func (s *ContextStore) writeWindow(ctx context.Context, userID string, window []Turn) error {
	encoded, err := encodeWindow(window)
	if err != nil {
		return fmt.Errorf("dialog: encode window for %s: %w", userID, err)
	}
	if err := s.store.SetEx(ctx, contextKey(userID), encoded, s.config.ContextTTL); err != nil {
		return fmt.Errorf("dialog: store window for %s: %w", userID, err)
	}
	return nil
}

// refreshSummary recomputes and stores the summary from the newest
// SummaryTurns turns. Failures are logged, not returned: the window write
// already succeeded and a stale summary is acceptable.
func (s *ContextStore) refreshSummary(ctx context.Context, userID string, window []Turn) {
	if s.summarizer == nil || len(window) < s.config.SummaryTurns {
		return
	}

	recent := window[len(window)-s.config.SummaryTurns:]
	summary := s.summarizer.Summarize(recent)
	if summary == "" {
		return
	}

	if err := s.store.SetEx(ctx, summaryKey(userID), summary, s.config.SummaryTTL); err != nil {
		s.logger.Warn("summary refresh failed", "user", userID, "error", err)
		return
	}
	if s.onSummaryRefresh != nil {
		s.onSummaryRefresh()
	}
	s.logger.Debug("summary refreshed", "user", userID, "turns", len(recent))
}
