package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/positions"
)

// maxStatementChars caps how much statement text goes into the prompt.
const maxStatementChars = 2000

// Extraction is a position extracted from one statement.
type Extraction struct {
	Score      float64  `json:"score" validate:"gte=-1,lte=1"`
	Confidence float64  `json:"confidence" validate:"gte=0,lte=1"`
	Reasoning  string   `json:"reasoning"`
	KeyPhrases []string `json:"key_phrases"`
}

// Extractor turns a statement into a spectrum position. The production
// implementation calls Claude; tests substitute a canned one.
type Extractor interface {
	Extract(ctx context.Context, issue positions.Issue, member legislature.Member, stmt legislature.Statement) (Extraction, error)
}

// Analyzer extracts positions with the Anthropic API.
type Analyzer struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewAnalyzer creates an Analyzer from a validated config.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Analyzer{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}, nil
}

const promptTemplate = `You are an expert at analyzing political statements to determine positions on %s.

Given a statement from a U.S. legislator, extract their position on the spectrum:

SPECTRUM:
- Score -1.0: Strongly %s
- Score 0.0: MIXED/NEUTRAL (balanced view)
- Score +1.0: Strongly %s

%s

STATEMENT TO ANALYZE:
Legislator: %s (%s-%s)
Date: %s
Statement: "%s"

Respond with a JSON object containing:
{
  "score": <float from -1.0 to +1.0>,
  "confidence": <float from 0.0 to 1.0 indicating how clearly the statement expresses a position>,
  "reasoning": "<brief explanation of why you assigned this score>",
  "key_phrases": ["<phrase 1>", "<phrase 2>", ...]
}

Be objective and base your analysis only on what the statement actually says, not on the legislator's party or general reputation.`

// BuildPrompt renders the extraction prompt for one statement.
func BuildPrompt(issue positions.Issue, member legislature.Member, stmt legislature.Statement) string {
	date := "Unknown"
	if stmt.SourceDate != nil {
		date = stmt.SourceDate.Format("2006-01-02")
	}

	text := stmt.Text
	if len(text) > maxStatementChars {
		text = text[:maxStatementChars]
	}

	return fmt.Sprintf(promptTemplate,
		issue.Name,
		strings.ToUpper(issue.SpectrumLeftLabel),
		strings.ToUpper(issue.SpectrumRightLabel),
		issue.SpectrumDescription,
		member.Name, member.Party, member.State,
		date,
		text,
	)
}

// Extract sends one statement to Claude and parses the scored response.
func (a *Analyzer) Extract(ctx context.Context, issue positions.Issue, member legislature.Member, stmt legislature.Statement) (Extraction, error) {
	prompt := BuildPrompt(issue, member, stmt)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Extraction{}, fmt.Errorf("analyze statement %s: %w", stmt.ID, err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(content.Text)
		}
	}
	if text.Len() == 0 {
		return Extraction{}, fmt.Errorf("analyze statement %s: empty response", stmt.ID)
	}

	return ParseExtraction(text.String())
}
