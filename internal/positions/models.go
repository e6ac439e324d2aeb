package positions

import (
	"time"
)

// EvidenceKind is the closed set of evidence sources feeding a position.
type EvidenceKind string

const (
	EvidenceVote      EvidenceKind = "vote"
	EvidenceStatement EvidenceKind = "statement"
	// EvidenceRating is reserved for interest-group ratings. No channel
	// consumes it yet.
	EvidenceRating EvidenceKind = "rating"
)

// Issue is a policy issue with a labeled bipolar spectrum from -1.0 to +1.0
// (e.g. "Free Trade" at -1.0 to "Protectionist" at +1.0).
type Issue struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`

	SpectrumLeftLabel   string `gorm:"size:50" json:"spectrum_left_label"`
	SpectrumRightLabel  string `gorm:"size:50" json:"spectrum_right_label"`
	SpectrumDescription string `json:"spectrum_description"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Position is a member's computed position on an issue. Exactly one row
// exists per (member, issue) pair; runs overwrite it in place.
type Position struct {
	ID       string `gorm:"primaryKey" json:"id"`
	MemberID string `gorm:"size:7;not null;index:uniq_member_issue,unique" json:"member_id"`
	IssueID  string `gorm:"not null;index:uniq_member_issue,unique" json:"issue_id"`

	Score      float64 `gorm:"not null" json:"score"`
	Confidence float64 `gorm:"default:0" json:"confidence"`

	// Per-channel sub-scores, kept for transparency. Nil means the channel
	// had no contributory evidence on the last run.
	VoteScore      *float64 `json:"vote_score"`
	StatementScore *float64 `json:"statement_score"`

	EvidenceCount int       `gorm:"default:0" json:"evidence_count"`
	LastUpdated   time.Time `json:"last_updated"`
	CreatedAt     time.Time `json:"created_at"`
}

// Evidence is one item supporting a position. For vote evidence, VoteID
// links back to the originating vote. Statement evidence is keyed by
// (position, source_url, source_date) so re-analysis overwrites in place.
type Evidence struct {
	ID         string       `gorm:"primaryKey" json:"id"`
	PositionID string       `gorm:"not null;index" json:"position_id"`
	Kind       EvidenceKind `gorm:"not null" json:"kind"`

	SourceURL  string     `gorm:"size:1000" json:"source_url"`
	SourceName string     `json:"source_name"`
	SourceDate *time.Time `json:"source_date,omitempty"`

	RawText              string   `json:"raw_text"`
	ExtractedPosition    *float64 `json:"extracted_position"`
	ExtractionConfidence *float64 `json:"extraction_confidence"`
	ExtractionReasoning  string   `json:"extraction_reasoning"`

	Weight float64 `gorm:"default:1" json:"weight"`

	VoteID *string `json:"vote_id,omitempty"`

	CreatedAt time.Time `json:"-"`
}

func (Issue) TableName() string {
	return "issues"
}

func (Position) TableName() string {
	return "positions"
}

func (Evidence) TableName() string {
	return "evidence"
}
