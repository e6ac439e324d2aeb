package analysis

import (
	"errors"
	"os"
	"strings"
)

var ErrMissingAnthropicKey = errors.New("ANTHROPIC_API_KEY environment variable is required")

// DefaultModel is the Claude model used for position extraction.
const DefaultModel = "claude-sonnet-4-20250514"

const defaultMaxTokens = 500

// Config holds statement analysis configuration.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// LoadFromEnv loads analysis configuration from environment variables.
//
// Environment variables:
//   - ANTHROPIC_API_KEY: Anthropic API key (required)
//   - ANALYSIS_MODEL: Claude model override (default: claude-sonnet-4-20250514)
func LoadFromEnv() Config {
	model := strings.TrimSpace(os.Getenv("ANALYSIS_MODEL"))
	if model == "" {
		model = DefaultModel
	}
	return Config{
		APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		Model:     model,
		MaxTokens: defaultMaxTokens,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAnthropicKey
	}
	return nil
}
