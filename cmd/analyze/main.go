package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/civicsignal/positions-backend/internal/analysis"
	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/positions"
)

// CLI flags
var (
	limit     = flag.Int("limit", 10, "Maximum number of statements to analyze")
	reanalyze = flag.Bool("reanalyze", false, "Re-analyze statements that were already analyzed")
	issueSlug = flag.String("issue", "trade-policy", "Issue slug to analyze statements for")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	cfg := analysis.LoadFromEnv()
	analyzer, err := analysis.NewAnalyzer(cfg)
	if err != nil {
		log.Fatalf("Analyzer: %v (get an API key at https://console.anthropic.com/)", err)
	}

	db.Connect()
	legislature.Init()
	positions.Init()

	fmt.Println("Statement Analysis")
	fmt.Printf("  Model: %s\n", cfg.Model)
	fmt.Printf("  Issue: %s\n", *issueSlug)
	fmt.Printf("  Limit: %d, reanalyze: %v\n", *limit, *reanalyze)
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	summary, err := analysis.AnalyzeStatements(ctx, db.DB, analyzer, *issueSlug, *limit, *reanalyze)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Printf("\nAnalyzed %d statements (%d errors, %d skipped)\n",
		summary.Analyzed, summary.Errors, summary.Skipped)
	if summary.Analyzed > 0 {
		fmt.Println("Run cmd/calculate to fold the new evidence into position scores.")
	}
}
