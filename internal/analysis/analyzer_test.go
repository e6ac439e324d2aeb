package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/positions"
)

func TestParseExtraction(t *testing.T) {
	ext, err := ParseExtraction(`{"score": 0.75, "confidence": 0.9, "reasoning": "supports tariffs", "key_phrases": ["tariffs protect jobs"]}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, ext.Score, 1e-9)
	assert.InDelta(t, 0.9, ext.Confidence, 1e-9)
	assert.Equal(t, "supports tariffs", ext.Reasoning)
	assert.Equal(t, []string{"tariffs protect jobs"}, ext.KeyPhrases)
}

func TestParseExtractionCodeFence(t *testing.T) {
	response := "Here is the analysis:\n```json\n{\"score\": -0.5, \"confidence\": 0.8, \"reasoning\": \"r\"}\n```\n"
	ext, err := ParseExtraction(response)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, ext.Score, 1e-9)

	bare := "```\n{\"score\": 0.1, \"confidence\": 0.2}\n```"
	ext, err = ParseExtraction(bare)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, ext.Score, 1e-9)
}

func TestParseExtractionClampsOutOfRange(t *testing.T) {
	ext, err := ParseExtraction(`{"score": 2.5, "confidence": 1.7}`)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ext.Score, 1e-9)
	assert.InDelta(t, 1.0, ext.Confidence, 1e-9)
}

func TestParseExtractionDefaultConfidence(t *testing.T) {
	ext, err := ParseExtraction(`{"score": 0.3, "reasoning": "clear position"}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ext.Confidence, 1e-9)
}

func TestParseExtractionMissingScore(t *testing.T) {
	_, err := ParseExtraction(`{"confidence": 0.9}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing score")
}

func TestParseExtractionInvalidJSON(t *testing.T) {
	_, err := ParseExtraction("I cannot analyze this statement.")
	require.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	issue := positions.Issue{
		Name:                "Trade Policy",
		SpectrumLeftLabel:   "Free Trade",
		SpectrumRightLabel:  "Protectionist",
		SpectrumDescription: "Free traders favor open markets; protectionists favor tariffs.",
	}
	member := legislature.Member{
		Name:  "Sherrod Brown",
		Party: legislature.PartyDemocrat,
		State: "OH",
	}
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stmt := legislature.Statement{
		Text:       "We must protect American manufacturing with strong tariffs.",
		SourceDate: &date,
	}

	prompt := BuildPrompt(issue, member, stmt)

	assert.Contains(t, prompt, "Trade Policy")
	assert.Contains(t, prompt, "Strongly FREE TRADE")
	assert.Contains(t, prompt, "Strongly PROTECTIONIST")
	assert.Contains(t, prompt, "Sherrod Brown (D-OH)")
	assert.Contains(t, prompt, "2024-05-01")
	assert.Contains(t, prompt, stmt.Text)
}

func TestBuildPromptTruncatesText(t *testing.T) {
	long := make([]byte, maxStatementChars+500)
	for i := range long {
		long[i] = 'a'
	}
	stmt := legislature.Statement{Text: string(long)}

	prompt := BuildPrompt(positions.Issue{Name: "Trade Policy"}, legislature.Member{Name: "X"}, stmt)
	assert.Less(t, len(prompt), len(long)+len(promptTemplate))
	assert.Contains(t, prompt, "Date: Unknown")
}
