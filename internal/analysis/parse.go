package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/civicsignal/positions-backend/internal/positions/scoring"
)

var validate = validator.New()

// ParseExtraction parses a model response into an Extraction. Responses
// sometimes arrive wrapped in markdown code fences, so those are stripped
// first. Out-of-range scores are clamped rather than rejected; a missing
// confidence defaults to 0.5.
func ParseExtraction(response string) (Extraction, error) {
	payload := stripCodeFence(response)

	var raw struct {
		Score      *float64 `json:"score"`
		Confidence *float64 `json:"confidence"`
		Reasoning  string   `json:"reasoning"`
		KeyPhrases []string `json:"key_phrases"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Extraction{}, fmt.Errorf("parse extraction: %w", err)
	}
	if raw.Score == nil {
		return Extraction{}, fmt.Errorf("parse extraction: missing score")
	}

	confidence := 0.5
	if raw.Confidence != nil {
		confidence = *raw.Confidence
	}

	ext := Extraction{
		Score:      scoring.Clamp(*raw.Score, -1, 1),
		Confidence: scoring.Clamp(confidence, 0, 1),
		Reasoning:  raw.Reasoning,
		KeyPhrases: raw.KeyPhrases,
	}
	if err := validate.Struct(ext); err != nil {
		return Extraction{}, fmt.Errorf("parse extraction: %w", err)
	}
	return ext, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
	} else if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
	} else {
		return s
	}
	if end := strings.Index(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
