package chat

import "time"

// Config holds chat engine tuning knobs.
type Config struct {
	// MaxTokens caps the model reply length for normal turns.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature is the sampling temperature for normal turns.
	Temperature float64 `yaml:"temperature"`

	// PresencePenalty and FrequencyPenalty discourage repetition.
	PresencePenalty  float64 `yaml:"presence_penalty"`
	FrequencyPenalty float64 `yaml:"frequency_penalty"`

	// TokenBudget bounds the conversation context handed to the model.
	// Zero uses the dialog package default.
	TokenBudget int `yaml:"token_budget"`

	// StopWords are global refusal triggers, applied to every user on top
	// of their personal list.
	StopWords []string `yaml:"stop_words"`

	// CacheTTL bounds how long opener responses stay cached.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// RoleplayMaxTokens and RoleplayTemperature apply to scenario openers.
	RoleplayMaxTokens   int     `yaml:"roleplay_max_tokens"`
	RoleplayTemperature float64 `yaml:"roleplay_temperature"`
}

func (c *Config) defaults() {
	if c.MaxTokens == 0 {
		c.MaxTokens = 500
	}
	if c.Temperature == 0 {
		c.Temperature = 0.8
	}
	if c.PresencePenalty == 0 {
		c.PresencePenalty = 0.1
	}
	if c.FrequencyPenalty == 0 {
		c.FrequencyPenalty = 0.1
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Hour
	}
	if c.RoleplayMaxTokens == 0 {
		c.RoleplayMaxTokens = 300
	}
	if c.RoleplayTemperature == 0 {
		c.RoleplayTemperature = 0.9
	}
}
