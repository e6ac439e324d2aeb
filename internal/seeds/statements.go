package seeds

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
)

type statementSeed struct {
	MemberID   string   `yaml:"member_id"`
	Text       string   `yaml:"text"`
	SourceURL  string   `yaml:"source_url"`
	SourceName string   `yaml:"source_name"`
	SourceDate string   `yaml:"source_date"`
	IssueTags  []string `yaml:"issue_tags"`
}

// SeedStatements loads statements from a YAML file. A statement is
// identified by (member, source URL); reseeding skips ones already
// loaded so their analysis state survives.
func SeedStatements(path string) (int, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("could not read %s: %w", path, err)
	}

	var statements []statementSeed
	if err := yaml.Unmarshal(file, &statements); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	added := 0
	skipped := 0
	for _, seed := range statements {
		var member legislature.Member
		err := db.DB.First(&member, "id = ?", seed.MemberID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			skipped++
			continue
		}
		if err != nil {
			return added, fmt.Errorf("DB error on member %s: %w", seed.MemberID, err)
		}

		var existing legislature.Statement
		err = db.DB.First(&existing, "member_id = ? AND source_url = ?", seed.MemberID, seed.SourceURL).Error
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return added, fmt.Errorf("DB error on statement for %s: %w", seed.MemberID, err)
		}

		stmt := legislature.Statement{
			ID:         uuid.NewString(),
			MemberID:   seed.MemberID,
			Text:       seed.Text,
			SourceURL:  seed.SourceURL,
			SourceName: seed.SourceName,
			IssueTags:  seed.IssueTags,
		}
		if seed.SourceDate != "" {
			if parsed, err := time.Parse("2006-01-02", seed.SourceDate); err == nil {
				stmt.SourceDate = &parsed
			}
		}
		if err := db.DB.Create(&stmt).Error; err != nil {
			return added, fmt.Errorf("failed to create statement for %s: %w", seed.MemberID, err)
		}
		added++
	}

	log.Printf("[seeds] seeded %d statements (%d skipped)", added, skipped)
	return added, nil
}
