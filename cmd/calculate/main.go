package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/metadata"
	"github.com/civicsignal/positions-backend/internal/positions"
	"github.com/civicsignal/positions-backend/internal/positions/scoring"
)

// CLI flags
var (
	issueSlug = flag.String("issue", "trade-policy", "Issue slug to calculate positions for")
	chamber   = flag.String("chamber", "senate", "Chamber to score (senate, house, or empty for both)")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	db.Connect()
	legislature.Init()
	positions.Init()
	metadata.Init()

	summary, err := positions.CalculateIssue(db.DB, scoring.DefaultConfig(), *issueSlug, legislature.Chamber(*chamber))
	if err != nil {
		log.Fatalf("Calculation failed: %v", err)
	}

	fmt.Printf("Positions on %s (%s to %s)\n\n",
		summary.Issue.Name, summary.Issue.SpectrumLeftLabel, summary.Issue.SpectrumRightLabel)

	for _, score := range summary.Scores {
		fmt.Printf("  %+.2f  conf %.2f  %-24s (%s-%s)  %s\n",
			score.Result.Score, score.Result.Confidence,
			score.Member.Name, score.Member.Party, score.Member.State,
			spectrumLabel(summary.Issue, score.Result.Score))
	}

	fmt.Printf("\nCalculated %d positions, skipped %d members with no evidence\n",
		summary.Calculated, summary.Skipped)

	if err := metadata.Update(db.DB, "positions", summary.Calculated, "calculated", summary.Issue.Slug); err != nil {
		log.Fatalf("Metadata update failed: %v", err)
	}
}

func spectrumLabel(issue positions.Issue, score float64) string {
	switch {
	case score <= -0.3:
		return issue.SpectrumLeftLabel
	case score >= 0.3:
		return issue.SpectrumRightLabel
	default:
		return "Mixed"
	}
}
