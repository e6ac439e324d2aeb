package congress

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

var ErrMissingAPIKey = errors.New("CONGRESS_API_KEY environment variable is required")

// DefaultBaseURL is the Congress.gov v3 API root.
const DefaultBaseURL = "https://api.congress.gov/v3"

// DefaultRequestsPerSecond keeps well under the published 5000/hour limit.
const DefaultRequestsPerSecond = 1.0

// Config holds Congress.gov client configuration.
type Config struct {
	APIKey            string
	BaseURL           string
	RequestsPerSecond float64
}

// LoadFromEnv loads client configuration from environment variables.
//
// Environment variables:
//   - CONGRESS_API_KEY: API key (required; free at https://api.congress.gov/sign-up/)
//   - CONGRESS_API_BASE: API root (default: https://api.congress.gov/v3)
//   - CONGRESS_API_RPS: request rate cap (default: 1)
func LoadFromEnv() Config {
	base := strings.TrimSpace(os.Getenv("CONGRESS_API_BASE"))
	if base == "" {
		base = DefaultBaseURL
	}

	rps := DefaultRequestsPerSecond
	if raw := os.Getenv("CONGRESS_API_RPS"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			rps = parsed
		}
	}

	return Config{
		APIKey:            os.Getenv("CONGRESS_API_KEY"),
		BaseURL:           base,
		RequestsPerSecond: rps,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
