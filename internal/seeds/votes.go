package seeds

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"gorm.io/gorm"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
)

type billSeed struct {
	ID                string   `yaml:"id"`
	Congress          int      `yaml:"congress"`
	BillType          string   `yaml:"bill_type"`
	BillNumber        string   `yaml:"bill_number"`
	Title             string   `yaml:"title"`
	ShortTitle        string   `yaml:"short_title"`
	IssueTags         []string `yaml:"issue_tags"`
	PositionIndicator *float64 `yaml:"position_indicator"`
	PositionReasoning string   `yaml:"position_reasoning"`
	RollCallID        string   `yaml:"roll_call_id"`
	VoteDate          string   `yaml:"vote_date"`

	// Vote category to member ids, e.g. yea: [B001230, S000033].
	Votes map[string][]string `yaml:"votes"`
}

type votesFile struct {
	Bills []billSeed `yaml:"bills"`
}

// SeedVotes loads curated bills and their roll-call votes from a YAML
// file. Bills upsert by id; votes upsert by (member, bill, roll call).
// Votes for members not present in the database are skipped, since the
// seed files cover more members than a development database may hold.
func SeedVotes(path string) (int, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("could not read %s: %w", path, err)
	}

	var data votesFile
	if err := yaml.Unmarshal(file, &data); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	votesAdded := 0
	votesSkipped := 0

	for _, seed := range data.Bills {
		voteDate := time.Now().UTC()
		if seed.VoteDate != "" {
			if parsed, err := time.Parse("2006-01-02", seed.VoteDate); err == nil {
				voteDate = parsed
			}
		}

		bill := legislature.Bill{
			ID:                seed.ID,
			Congress:          seed.Congress,
			BillType:          seed.BillType,
			BillNumber:        seed.BillNumber,
			Title:             seed.Title,
			ShortTitle:        seed.ShortTitle,
			IssueTags:         seed.IssueTags,
			PositionIndicator: seed.PositionIndicator,
			PositionReasoning: seed.PositionReasoning,
		}
		if err := legislature.UpsertBill(db.DB, bill); err != nil {
			return votesAdded, err
		}

		rollCallID := seed.RollCallID
		if rollCallID == "" {
			rollCallID = "rc-" + seed.ID
		}

		for category, memberIDs := range seed.Votes {
			choice := legislature.ParseVoteChoice(category)
			for _, memberID := range memberIDs {
				var member legislature.Member
				err := db.DB.First(&member, "id = ?", memberID).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					votesSkipped++
					continue
				}
				if err != nil {
					return votesAdded, fmt.Errorf("DB error on member %s: %w", memberID, err)
				}

				vote := legislature.Vote{
					MemberID:   memberID,
					BillID:     seed.ID,
					Vote:       choice,
					VoteDate:   voteDate,
					RollCallID: rollCallID,
					Session:    1,
				}
				if err := legislature.UpsertVote(db.DB, vote); err != nil {
					return votesAdded, err
				}
				votesAdded++
			}
		}
	}

	log.Printf("[seeds] seeded %d bills, %d votes (%d skipped, member not in DB)",
		len(data.Bills), votesAdded, votesSkipped)
	return votesAdded, nil
}
