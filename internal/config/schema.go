// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for cheeky.
package config

import (
	"gopkg.in/yaml.v3"

	"github.com/cheekylabs/cheeky/internal/chat"
	"github.com/cheekylabs/cheeky/internal/dialog"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Chat tunes the conversation engine (sampling, stop words, cache TTL).
	Chat chat.Config `yaml:"chat"`

	// Dialog tunes the rolling context window and summarizer.
	Dialog dialog.Config `yaml:"dialog"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "channel.telegram").
	Modules map[string]yaml.Node `yaml:"modules"`
}
