package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/legislature/congress"
	"github.com/civicsignal/positions-backend/internal/metadata"
	"github.com/civicsignal/positions-backend/internal/positions"
	"github.com/civicsignal/positions-backend/internal/positions/scoring"
)

// CLI flags
var (
	statusOnly = flag.Bool("status", false, "Print data freshness and exit")
	force      = flag.Bool("force", false, "Refresh even when data is not stale")
	maxAgeDays = flag.Int("days", 30, "Staleness threshold in days")
	issueSlug  = flag.String("issue", "trade-policy", "Issue slug to recalculate")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	db.Connect()
	legislature.Init()
	positions.Init()
	metadata.Init()

	if *statusOnly {
		printStatus()
		return
	}

	maxAge := time.Duration(*maxAgeDays) * 24 * time.Hour

	if err := refreshMembers(maxAge); err != nil {
		log.Fatalf("Refresh members: %v", err)
	}
	if err := refreshPositions(maxAge); err != nil {
		log.Fatalf("Refresh positions: %v", err)
	}

	fmt.Println()
	printStatus()
}

func printStatus() {
	rows, err := metadata.All(db.DB)
	if err != nil {
		log.Fatalf("Load metadata: %v", err)
	}
	if len(rows) == 0 {
		fmt.Println("No data metadata recorded yet. Run cmd/seed first.")
		return
	}

	fmt.Println("Data freshness:")
	for _, row := range rows {
		fmt.Printf("  %-12s %6d records  %-16s via %s\n",
			row.DataType, row.RecordCount, metadata.FormatAge(row.LastUpdated), row.Source)
	}
}

func refreshMembers(maxAge time.Duration) error {
	stale, err := metadata.IsStale(db.DB, "members", maxAge)
	if err != nil {
		return err
	}
	if !stale && !*force {
		log.Println("Members are fresh, skipping")
		return nil
	}

	client, err := congress.NewClient(congress.LoadFromEnv())
	if errors.Is(err, congress.ErrMissingAPIKey) {
		log.Println("CONGRESS_API_KEY not set, skipping member refresh")
		return nil
	}
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	apiMembers, err := client.ListMembers(ctx, "Senate")
	if err != nil {
		return err
	}
	for _, api := range apiMembers {
		if err := legislature.UpsertMember(db.DB, congress.ToMember(api)); err != nil {
			return err
		}
	}

	log.Printf("Refreshed %d members", len(apiMembers))
	return metadata.Update(db.DB, "members", len(apiMembers), "congress_api", "")
}

func refreshPositions(maxAge time.Duration) error {
	stale, err := metadata.IsStale(db.DB, "positions", maxAge)
	if err != nil {
		return err
	}
	if !stale && !*force {
		log.Println("Positions are fresh, skipping")
		return nil
	}

	summary, err := positions.CalculateIssue(db.DB, scoring.DefaultConfig(), *issueSlug, legislature.ChamberSenate)
	if err != nil {
		return err
	}

	log.Printf("Recalculated %d positions on %s", summary.Calculated, summary.Issue.Slug)
	return metadata.Update(db.DB, "positions", summary.Calculated, "calculated", summary.Issue.Slug)
}
