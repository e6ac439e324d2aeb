package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/positions"
)

// RunSummary reports the outcome of an analysis pass.
type RunSummary struct {
	IssueSlug string `json:"issue_slug"`
	Analyzed  int    `json:"analyzed"`
	Errors    int    `json:"errors"`
	Skipped   int    `json:"skipped"`
}

// AnalyzeStatements extracts positions for statements tagged with the
// issue and records them as evidence on the member's position row. Each
// statement commits in its own transaction, so a failed extraction leaves
// that statement unanalyzed and eligible for the next pass. Scores are not
// recomputed here; that is the calculation step.
func AnalyzeStatements(ctx context.Context, db *gorm.DB, ext Extractor, issueSlug string, limit int, reanalyze bool) (*RunSummary, error) {
	var issue positions.Issue
	if err := db.Where("slug = ?", issueSlug).First(&issue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("analyze: %w: %s", positions.ErrIssueNotFound, issueSlug)
		}
		return nil, fmt.Errorf("analyze: load issue: %w", err)
	}

	query := db.Order("id")
	if !reanalyze {
		query = query.Where("analyzed = ?", false)
	}
	var candidates []legislature.Statement
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("analyze: load statements: %w", err)
	}

	// Tag filtering happens in memory so the query stays portable across
	// the postgres and sqlite drivers.
	var statements []legislature.Statement
	for _, s := range candidates {
		if s.HasTag(issue.Slug) {
			statements = append(statements, s)
		}
	}
	if limit > 0 && len(statements) > limit {
		statements = statements[:limit]
	}

	summary := &RunSummary{IssueSlug: issue.Slug}
	for _, stmt := range statements {
		var member legislature.Member
		if err := db.First(&member, "id = ?", stmt.MemberID).Error; err != nil {
			log.Printf("[analysis] statement %s: member %s not found, skipping", stmt.ID, stmt.MemberID)
			summary.Skipped++
			continue
		}

		extraction, err := ext.Extract(ctx, issue, member, stmt)
		if err != nil {
			log.Printf("[analysis] statement %s (%s): %v", stmt.ID, member.Name, err)
			summary.Errors++
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			position, err := positions.GetOrCreatePosition(tx, member.ID, issue.ID)
			if err != nil {
				return err
			}
			if err := positions.UpsertStatementEvidence(tx, position.ID, stmt, positions.StatementExtraction{
				Score:      extraction.Score,
				Confidence: extraction.Confidence,
				Reasoning:  extraction.Reasoning,
			}); err != nil {
				return err
			}

			now := time.Now().UTC()
			return tx.Model(&legislature.Statement{}).
				Where("id = ?", stmt.ID).
				Updates(map[string]any{"analyzed": true, "analysis_date": &now}).Error
		})
		if err != nil {
			log.Printf("[analysis] statement %s: store: %v", stmt.ID, err)
			summary.Errors++
			continue
		}

		log.Printf("[analysis] %s: score %+.2f confidence %.2f", member.Name, extraction.Score, extraction.Confidence)
		summary.Analyzed++
	}

	return summary, nil
}
