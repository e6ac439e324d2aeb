package positions

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicsignal/positions-backend/internal/legislature"
)

// GetOrCreatePosition returns the position row for a (member, issue) pair,
// creating a zero-score placeholder when none exists yet. Analysis runs
// need the row before any scoring run has produced a real score; the next
// scoring run overwrites the placeholder values.
func GetOrCreatePosition(tx *gorm.DB, memberID, issueID string) (Position, error) {
	var position Position
	err := tx.Where("member_id = ? AND issue_id = ?", memberID, issueID).First(&position).Error
	if err == nil {
		return position, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Position{}, fmt.Errorf("find position: %w", err)
	}

	now := time.Now().UTC()
	position = Position{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		IssueID:     issueID,
		LastUpdated: now,
		CreatedAt:   now,
	}
	if err := tx.Create(&position).Error; err != nil {
		return Position{}, fmt.Errorf("create position: %w", err)
	}
	return position, nil
}

// StatementExtraction is the stored outcome of analyzing one statement.
// Values are expected to be clamped by the caller before they get here;
// the columns are the system of record for the read API's audit fields.
type StatementExtraction struct {
	Score      float64
	Confidence float64
	Reasoning  string
}

// maxEvidenceText bounds how much statement text is copied onto the
// evidence row for display.
const maxEvidenceText = 1000

// UpsertStatementEvidence writes a statement's extraction result as
// evidence, keyed by (position, source_url, source_date). Re-analysis of
// the same statement overwrites the extracted fields in place instead of
// growing a duplicate row.
func UpsertStatementEvidence(tx *gorm.DB, positionID string, stmt legislature.Statement, ext StatementExtraction) error {
	q := tx.Where("position_id = ? AND kind = ? AND source_url = ?",
		positionID, EvidenceStatement, stmt.SourceURL)
	if stmt.SourceDate != nil {
		q = q.Where("source_date = ?", stmt.SourceDate)
	} else {
		q = q.Where("source_date IS NULL")
	}

	var existing Evidence
	err := q.First(&existing).Error

	switch {
	case err == nil:
		updates := map[string]any{
			"extracted_position":    ext.Score,
			"extraction_confidence": ext.Confidence,
			"extraction_reasoning":  ext.Reasoning,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update evidence: %w", err)
		}
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		text := stmt.Text
		if len(text) > maxEvidenceText {
			text = text[:maxEvidenceText]
		}
		evidence := Evidence{
			ID:                   uuid.NewString(),
			PositionID:           positionID,
			Kind:                 EvidenceStatement,
			SourceURL:            stmt.SourceURL,
			SourceName:           stmt.SourceName,
			SourceDate:           stmt.SourceDate,
			RawText:              text,
			ExtractedPosition:    &ext.Score,
			ExtractionConfidence: &ext.Confidence,
			ExtractionReasoning:  ext.Reasoning,
			Weight:               1.0,
		}
		if err := tx.Create(&evidence).Error; err != nil {
			return fmt.Errorf("create evidence: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("find evidence: %w", err)
	}
}
