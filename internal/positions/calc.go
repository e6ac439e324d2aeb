package positions

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/positions/scoring"
)

var ErrIssueNotFound = errors.New("issue not found")

// VoteDetail records one contributory vote for run output and auditing.
type VoteDetail struct {
	BillID       string                 `json:"bill_id"`
	BillTitle    string                 `json:"bill_title"`
	Vote         legislature.VoteChoice `json:"vote"`
	Indicator    float64                `json:"bill_indicator"`
	Contribution float64                `json:"contribution"`
}

// MemberScore is one member's computed result within a run.
type MemberScore struct {
	Member legislature.Member
	Result scoring.Combined
	Votes  []VoteDetail
}

// RunSummary reports what a scoring run did. Scores is sorted by score
// ascending (spectrum order) and contains only members that produced a
// position.
type RunSummary struct {
	Issue      Issue
	Calculated int
	Skipped    int
	Scores     []MemberScore
}

// CalculateIssue recomputes positions for every member of the given chamber
// on one issue. All evidence is loaded up front and joined in memory, so
// each member sees a consistent snapshot; writes happen in one transaction
// per member, which makes the run safe to abort between members and safe
// to repeat (each run is a full recompute, not an incremental patch).
// Members whose evidence fails to process are logged and skipped; they do
// not abort the batch. An empty chamber scores every member.
func CalculateIssue(db *gorm.DB, cfg scoring.Config, slug string, chamber legislature.Chamber) (*RunSummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var issue Issue
	if err := db.First(&issue, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, slug)
		}
		return nil, fmt.Errorf("load issue: %w", err)
	}

	var members []legislature.Member
	q := db.Model(&legislature.Member{})
	if chamber != "" {
		q = q.Where("chamber = ?", chamber)
	}
	if err := q.Find(&members).Error; err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}

	snap, err := loadEvidenceSnapshot(db, issue)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{Issue: issue}
	now := time.Now().UTC()

	for _, member := range members {
		result, details, ok := scoreMember(cfg, member, snap)
		if !ok {
			summary.Skipped++
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			return reconcilePosition(tx, member.ID, issue.ID, result, now)
		})
		if err != nil {
			log.Printf("[positions] %s (%s): %v", member.Name, member.ID, err)
			summary.Skipped++
			continue
		}

		summary.Calculated++
		summary.Scores = append(summary.Scores, MemberScore{
			Member: member,
			Result: result,
			Votes:  details,
		})
	}

	sort.Slice(summary.Scores, func(i, j int) bool {
		return summary.Scores[i].Result.Score < summary.Scores[j].Result.Score
	})

	return summary, nil
}

// evidenceSnapshot is the in-memory join of everything a run reads:
// issue-tagged bills, votes on them, and analyzed statement evidence,
// loaded with batch queries before any scoring starts.
type evidenceSnapshot struct {
	bills         map[string]legislature.Bill
	votesByMember map[string][]legislature.Vote
	stmtsByMember map[string][]scoring.Contribution
}

func loadEvidenceSnapshot(db *gorm.DB, issue Issue) (*evidenceSnapshot, error) {
	snap := &evidenceSnapshot{
		bills:         make(map[string]legislature.Bill),
		votesByMember: make(map[string][]legislature.Vote),
		stmtsByMember: make(map[string][]scoring.Contribution),
	}

	// Tag filtering happens in memory so the same path works on every
	// supported database.
	var bills []legislature.Bill
	if err := db.Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("load bills: %w", err)
	}
	billIDs := make([]string, 0, len(bills))
	for _, b := range bills {
		if b.HasTag(issue.Slug) {
			snap.bills[b.ID] = b
			billIDs = append(billIDs, b.ID)
		}
	}

	if len(billIDs) > 0 {
		var votes []legislature.Vote
		if err := db.Where("bill_id IN ?", billIDs).Find(&votes).Error; err != nil {
			return nil, fmt.Errorf("load votes: %w", err)
		}
		for _, v := range votes {
			snap.votesByMember[v.MemberID] = append(snap.votesByMember[v.MemberID], v)
		}
	}

	var existing []Position
	if err := db.Where("issue_id = ?", issue.ID).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	if len(existing) == 0 {
		return snap, nil
	}

	posIDs := make([]string, 0, len(existing))
	memberByPos := make(map[string]string, len(existing))
	for _, p := range existing {
		posIDs = append(posIDs, p.ID)
		memberByPos[p.ID] = p.MemberID
	}

	var evidence []Evidence
	err := db.Where("position_id IN ? AND kind = ? AND extracted_position IS NOT NULL",
		posIDs, EvidenceStatement).Find(&evidence).Error
	if err != nil {
		return nil, fmt.Errorf("load statement evidence: %w", err)
	}
	for _, ev := range evidence {
		memberID := memberByPos[ev.PositionID]
		contrib := scoring.Contribution{Value: *ev.ExtractedPosition}
		if ev.ExtractionConfidence != nil {
			contrib.Weight = *ev.ExtractionConfidence
		}
		snap.stmtsByMember[memberID] = append(snap.stmtsByMember[memberID], contrib)
	}

	return snap, nil
}

func scoreMember(cfg scoring.Config, member legislature.Member, snap *evidenceSnapshot) (scoring.Combined, []VoteDetail, bool) {
	var contributions []float64
	var details []VoteDetail

	for _, vote := range snap.votesByMember[member.ID] {
		bill, ok := snap.bills[vote.BillID]
		if !ok {
			continue
		}
		contribution, ok := scoring.VoteContribution(vote.Vote, bill.PositionIndicator)
		if !ok {
			continue
		}
		contributions = append(contributions, contribution)
		details = append(details, VoteDetail{
			BillID:       bill.ID,
			BillTitle:    bill.DisplayTitle(),
			Vote:         vote.Vote,
			Indicator:    *bill.PositionIndicator,
			Contribution: contribution,
		})
	}

	votes := cfg.AggregateVotes(contributions)
	statements := cfg.AggregateStatements(snap.stmtsByMember[member.ID])

	result, ok := cfg.Combine(votes, statements)
	if !ok {
		return scoring.Combined{}, nil, false
	}
	return result, details, true
}

// reconcilePosition upserts the computed result onto the (member, issue)
// natural key. Finding and writing happen inside the caller's transaction,
// so concurrent runs cannot produce two rows for the same pair. The id and
// created_at of an existing row are never touched.
func reconcilePosition(tx *gorm.DB, memberID, issueID string, res scoring.Combined, now time.Time) error {
	var existing Position
	err := tx.Where("member_id = ? AND issue_id = ?", memberID, issueID).First(&existing).Error

	switch {
	case err == nil:
		updates := map[string]any{
			"score":           res.Score,
			"confidence":      res.Confidence,
			"vote_score":      res.VoteScore,
			"statement_score": res.StatementScore,
			"evidence_count":  res.EvidenceCount,
			"last_updated":    now,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update position: %w", err)
		}
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		position := Position{
			ID:             uuid.NewString(),
			MemberID:       memberID,
			IssueID:        issueID,
			Score:          res.Score,
			Confidence:     res.Confidence,
			VoteScore:      res.VoteScore,
			StatementScore: res.StatementScore,
			EvidenceCount:  res.EvidenceCount,
			LastUpdated:    now,
			CreatedAt:      now,
		}
		if err := tx.Create(&position).Error; err != nil {
			return fmt.Errorf("create position: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("find position: %w", err)
	}
}
