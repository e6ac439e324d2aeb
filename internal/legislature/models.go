package legislature

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Chamber is the congressional chamber a member sits in.
type Chamber string

const (
	ChamberSenate Chamber = "senate"
	ChamberHouse  Chamber = "house"
)

// Party is a member's political party.
type Party string

const (
	PartyDemocrat    Party = "D"
	PartyRepublican  Party = "R"
	PartyIndependent Party = "I"
)

// VoteChoice is the closed set of recorded vote options.
type VoteChoice string

const (
	VoteYes       VoteChoice = "yes"
	VoteNo        VoteChoice = "no"
	VoteAbstain   VoteChoice = "abstain"
	VoteNotVoting VoteChoice = "not_voting"
)

// ParseVoteChoice maps roll-call categories ("Yea", "Nay", "Not Voting")
// onto the stored enum. Unknown categories are treated as not voting so
// they never contribute to a score.
func ParseVoteChoice(category string) VoteChoice {
	switch normalizeCategory(category) {
	case "yea", "yes", "aye", "guilty":
		return VoteYes
	case "nay", "no", "not guilty":
		return VoteNo
	case "abstain", "present":
		return VoteAbstain
	default:
		return VoteNotVoting
	}
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Member is a congressional member. The ID is the bioguide identifier
// (e.g. "S000033") used across Congress.gov and other official sources.
type Member struct {
	ID               string     `gorm:"primaryKey;size:7" json:"id"`
	Name             string     `gorm:"not null" json:"name"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	State            string     `gorm:"size:2;not null" json:"state"`
	Party            Party      `gorm:"not null" json:"party"`
	Chamber          Chamber    `gorm:"not null" json:"chamber"`
	CurrentTermStart *time.Time `json:"current_term_start,omitempty"`
	PhotoURL         string     `gorm:"size:500" json:"photo_url"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}

// Bill is a congressional bill tagged with the issues it relates to.
// PositionIndicator states what a YES vote signals on the issue spectrum;
// bills without one contribute no evidence.
type Bill struct {
	ID         string `gorm:"primaryKey;size:50" json:"id"`
	Congress   int    `gorm:"not null" json:"congress"`
	BillType   string `gorm:"size:10" json:"bill_type"`
	BillNumber string `gorm:"size:10" json:"bill_number"`

	Title      string `json:"title"`
	ShortTitle string `gorm:"size:500" json:"short_title"`

	IssueTags pq.StringArray `gorm:"type:text[]" json:"issue_tags"`

	PositionIndicator *float64 `json:"position_indicator"`
	PositionReasoning string   `json:"position_reasoning"`

	IntroducedDate   *time.Time `json:"introduced_date,omitempty"`
	LatestActionDate *time.Time `json:"latest_action_date,omitempty"`
	CreatedAt        time.Time  `json:"-"`
}

// DisplayTitle prefers the short title when one is set.
func (b Bill) DisplayTitle() string {
	if b.ShortTitle != "" {
		return b.ShortTitle
	}
	return b.Title
}

// HasTag reports whether the bill is tagged with the given issue slug.
func (b Bill) HasTag(slug string) bool {
	for _, t := range b.IssueTags {
		if t == slug {
			return true
		}
	}
	return false
}

// Vote is one member's recorded vote on a bill. Later corrections
// overwrite by the (member, bill, roll call) natural key.
type Vote struct {
	ID       string     `gorm:"primaryKey" json:"id"`
	MemberID string     `gorm:"size:7;not null;index:uniq_member_bill_roll,unique" json:"member_id"`
	BillID   string     `gorm:"size:50;not null;index:uniq_member_bill_roll,unique" json:"bill_id"`
	Vote     VoteChoice `gorm:"not null" json:"vote"`
	VoteDate time.Time  `gorm:"not null" json:"vote_date"`

	RollCallID string `gorm:"size:50;index:uniq_member_bill_roll,unique" json:"roll_call_id"`
	Session    int    `json:"session"`

	CreatedAt time.Time `json:"-"`
}

// Statement is a member utterance collected from the Congressional Record.
// Analyzed statements feed the statement evidence channel; failed analyses
// stay unanalyzed and are retried on a later run.
type Statement struct {
	ID       string `gorm:"primaryKey" json:"id"`
	MemberID string `gorm:"size:7;not null;index" json:"member_id"`

	Text       string         `gorm:"not null" json:"text"`
	SourceURL  string         `gorm:"size:1000" json:"source_url"`
	SourceName string         `json:"source_name"`
	SourceDate *time.Time     `json:"source_date,omitempty"`
	IssueTags  pq.StringArray `gorm:"type:text[]" json:"issue_tags"`

	Analyzed     bool       `gorm:"default:false" json:"analyzed"`
	AnalysisDate *time.Time `json:"analysis_date,omitempty"`

	CreatedAt time.Time `json:"-"`
}

// HasTag reports whether the statement is tagged with the given issue slug.
func (s Statement) HasTag(slug string) bool {
	for _, t := range s.IssueTags {
		if t == slug {
			return true
		}
	}
	return false
}

func (Member) TableName() string {
	return "members"
}

func (Bill) TableName() string {
	return "bills"
}

func (Vote) TableName() string {
	return "votes"
}

func (Statement) TableName() string {
	return "statements"
}
