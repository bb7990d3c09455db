package dialog

import "time"

// Config controls the rolling dialogue window, summary refresh, and the
// token budget used when assembling provider context.
type Config struct {
	// WindowSize is the maximum number of turns kept per user. Must be even
	// so the window always holds whole user/assistant pairs.
	WindowSize int `yaml:"window_size"`

	// SummaryEvery triggers a summary refresh whenever the stored window
	// length is a positive multiple of this value.
	SummaryEvery int `yaml:"summary_every"`

	// SummaryTurns is how many of the newest turns feed the summarizer.
	SummaryTurns int `yaml:"summary_turns"`

	// TailTurns is the fallback slice handed to the provider when the
	// window is over budget and no summary exists.
	TailTurns int `yaml:"tail_turns"`

	// TokenBudget is the default optimizer budget.
	TokenBudget int `yaml:"token_budget"`

	// ContextTTL is the lifetime of the active window; refreshed on every
	// append.
	ContextTTL time.Duration `yaml:"context_ttl"`

	// SummaryTTL is the lifetime of the stored summary.
	SummaryTTL time.Duration `yaml:"summary_ttl"`
}

// withDefaults returns a copy with zero fields replaced by defaults.
func (c Config) withDefaults() Config {
	if c.WindowSize <= 0 {
		c.WindowSize = 20
	}
	if c.SummaryEvery <= 0 {
		c.SummaryEvery = 10
	}
	if c.SummaryTurns <= 0 {
		c.SummaryTurns = 10
	}
	if c.TailTurns <= 0 {
		c.TailTurns = 4
	}
	if c.TokenBudget <= 0 {
		c.TokenBudget = 1000
	}
	if c.ContextTTL <= 0 {
		c.ContextTTL = time.Hour
	}
	if c.SummaryTTL <= 0 {
		c.SummaryTTL = 7 * 24 * time.Hour
	}
	return c
}
