package seeds

import (
	"fmt"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/metadata"
)

// Default seed file locations, relative to the repo root.
const (
	IssuesFile     = "data/seed/issues.yaml"
	MembersFile    = "data/seed/members.yaml"
	VotesFile      = "data/seed/trade_votes.yaml"
	StatementsFile = "data/seed/statements.yaml"
)

// SeedAll loads every seed file in dependency order and records the
// refresh in data metadata.
func SeedAll() error {
	if err := SeedIssues(IssuesFile); err != nil {
		return fmt.Errorf("seed issues: %w", err)
	}

	memberCount, err := SeedMembers(MembersFile)
	if err != nil {
		return fmt.Errorf("seed members: %w", err)
	}
	if err := metadata.Update(db.DB, "members", memberCount, "seed_file", ""); err != nil {
		return err
	}

	voteCount, err := SeedVotes(VotesFile)
	if err != nil {
		return fmt.Errorf("seed votes: %w", err)
	}
	if err := metadata.Update(db.DB, "votes", voteCount, "seed_file", ""); err != nil {
		return err
	}

	statementCount, err := SeedStatements(StatementsFile)
	if err != nil {
		return fmt.Errorf("seed statements: %w", err)
	}
	if err := metadata.Update(db.DB, "statements", statementCount, "seed_file", ""); err != nil {
		return err
	}

	return nil
}
