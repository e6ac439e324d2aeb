// Package scoring turns heterogeneous position evidence (roll-call votes,
// extracted statement sentiment) into a single score and confidence per
// (member, issue) pair. All functions are pure; storage stays outside.
package scoring

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/civicsignal/positions-backend/internal/legislature"
)

// Config carries the channel weights and confidence heuristics. The default
// values are load-bearing for score compatibility with previously published
// data; treat alternates as experiments.
type Config struct {
	// VoteWeight and StatementWeight combine the two channels when both
	// have data. They must sum to a positive total.
	VoteWeight      float64 `yaml:"vote_weight" validate:"gt=0,lte=1"`
	StatementWeight float64 `yaml:"statement_weight" validate:"gte=0,lte=1"`

	// VoteOnlyPenalty and StatementOnlyPenalty scale confidence down when
	// only one channel has data. Statements are the weaker standalone
	// signal, so their penalty is larger.
	VoteOnlyPenalty      float64 `yaml:"vote_only_penalty" validate:"gt=0,lte=1"`
	StatementOnlyPenalty float64 `yaml:"statement_only_penalty" validate:"gt=0,lte=1"`

	// VoteSaturation and StatementSaturation are the evidence counts at
	// which channel confidence reaches 1.0.
	VoteSaturation      int `yaml:"vote_saturation" validate:"gt=0"`
	StatementSaturation int `yaml:"statement_saturation" validate:"gt=0"`

	// DefaultStatementWeight is used when an extraction carries no
	// confidence value.
	DefaultStatementWeight float64 `yaml:"default_statement_weight" validate:"gt=0,lte=1"`
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		VoteWeight:             0.6,
		StatementWeight:        0.4,
		VoteOnlyPenalty:        0.8,
		StatementOnlyPenalty:   0.6,
		VoteSaturation:         5,
		StatementSaturation:    3,
		DefaultStatementWeight: 0.5,
	}
}

var validate = validator.New()

// Validate checks the config for internal consistency.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	if c.VoteWeight+c.StatementWeight <= 0 {
		return fmt.Errorf("invalid scoring config: channel weights sum to zero")
	}
	return nil
}

// Clamp pins v into [lo, hi]. Every score leaving this package passes
// through it.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// VoteContribution normalizes a single cast vote against its bill's
// position indicator. The second return is false when the vote is
// non-contributory: the bill has no indicator, or the member abstained or
// did not vote. A NO vote is exactly the negation of the YES contribution.
func VoteContribution(choice legislature.VoteChoice, indicator *float64) (float64, bool) {
	if indicator == nil {
		return 0, false
	}
	switch choice {
	case legislature.VoteYes:
		return *indicator, true
	case legislature.VoteNo:
		return -*indicator, true
	default:
		return 0, false
	}
}

// Contribution is one statement's normalized input to the statement
// channel: the extracted position and the extraction confidence used as
// its weight.
type Contribution struct {
	Value  float64
	Weight float64
}

// ChannelResult is one channel's aggregate. A nil Score means the channel
// had no contributory evidence, which is distinct from evidence averaging
// to zero.
type ChannelResult struct {
	Score      *float64
	Confidence float64
	Count      int
}

// HasData reports whether the channel produced a score.
func (r ChannelResult) HasData() bool {
	return r.Score != nil
}

// AggregateVotes averages vote contributions without weighting. The
// unweighted/weighted asymmetry between the two channels is deliberate:
// every cast vote counts equally, while statements are discounted by how
// clearly they expressed a position.
func (c Config) AggregateVotes(contributions []float64) ChannelResult {
	if len(contributions) == 0 {
		return ChannelResult{}
	}

	sum := 0.0
	for _, v := range contributions {
		sum += v
	}
	score := Clamp(sum/float64(len(contributions)), -1.0, 1.0)

	return ChannelResult{
		Score:      &score,
		Confidence: saturation(len(contributions), c.VoteSaturation),
		Count:      len(contributions),
	}
}

// AggregateStatements computes the confidence-weighted mean of statement
// contributions. A zero weight sum yields no data.
func (c Config) AggregateStatements(contributions []Contribution) ChannelResult {
	if len(contributions) == 0 {
		return ChannelResult{}
	}

	var weightedSum, totalWeight float64
	for _, ct := range contributions {
		w := ct.Weight
		if w == 0 {
			w = c.DefaultStatementWeight
		}
		weightedSum += ct.Value * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return ChannelResult{}
	}
	score := Clamp(weightedSum/totalWeight, -1.0, 1.0)

	return ChannelResult{
		Score:      &score,
		Confidence: saturation(len(contributions), c.StatementSaturation),
		Count:      len(contributions),
	}
}

// saturation maps an evidence count onto [0, 1], reaching full confidence
// at the channel's saturation threshold. A heuristic, not an estimator.
func saturation(count, threshold int) float64 {
	conf := float64(count) / float64(threshold)
	if conf > 1.0 {
		return 1.0
	}
	return conf
}

// Combined is the merged result written to the position store.
type Combined struct {
	Score      float64
	Confidence float64

	VoteScore      *float64
	StatementScore *float64

	VoteCount      int
	StatementCount int

	// EvidenceCount is the raw item count across channels, not weighted.
	EvidenceCount int
}

// Combine merges the two channel results. The second return is false when
// neither channel has data; that is a legitimate outcome for members with
// no relevant activity, and no position should be written for it.
func (c Config) Combine(votes, statements ChannelResult) (Combined, bool) {
	if !votes.HasData() && !statements.HasData() {
		return Combined{}, false
	}

	out := Combined{
		VoteScore:      votes.Score,
		StatementScore: statements.Score,
		VoteCount:      votes.Count,
		StatementCount: statements.Count,
		EvidenceCount:  votes.Count + statements.Count,
	}

	switch {
	case votes.HasData() && statements.HasData():
		total := c.VoteWeight + c.StatementWeight
		out.Score = (*votes.Score*c.VoteWeight + *statements.Score*c.StatementWeight) / total
		out.Confidence = (votes.Confidence*c.VoteWeight + statements.Confidence*c.StatementWeight) / total
	case votes.HasData():
		out.Score = *votes.Score
		out.Confidence = votes.Confidence * c.VoteOnlyPenalty
	default:
		out.Score = *statements.Score
		out.Confidence = statements.Confidence * c.StatementOnlyPenalty
	}

	out.Score = Clamp(out.Score, -1.0, 1.0)
	return out, true
}
