package seeds

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/positions"
)

type issueSeed struct {
	Name                string `yaml:"name"`
	Slug                string `yaml:"slug"`
	Description         string `yaml:"description"`
	SpectrumLeftLabel   string `yaml:"spectrum_left_label"`
	SpectrumRightLabel  string `yaml:"spectrum_right_label"`
	SpectrumDescription string `yaml:"spectrum_description"`
}

// SeedIssues loads the issue catalog from a YAML file. Existing issues
// are skipped by slug so reseeding never disturbs computed positions.
func SeedIssues(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}

	var issues []issueSeed
	if err := yaml.Unmarshal(file, &issues); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	seeded := 0
	for _, seed := range issues {
		var existing positions.Issue
		err := db.DB.First(&existing, "slug = ?", seed.Slug).Error
		if err == nil {
			log.Printf("[seeds] issue exists, skipping: %s", seed.Slug)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("DB error on issue %s: %w", seed.Slug, err)
		}

		issue := positions.Issue{
			ID:                  uuid.NewString(),
			Name:                seed.Name,
			Slug:                seed.Slug,
			Description:         seed.Description,
			SpectrumLeftLabel:   seed.SpectrumLeftLabel,
			SpectrumRightLabel:  seed.SpectrumRightLabel,
			SpectrumDescription: seed.SpectrumDescription,
		}
		if err := db.DB.Create(&issue).Error; err != nil {
			return fmt.Errorf("failed to create issue %s: %w", seed.Slug, err)
		}
		seeded++
	}

	log.Printf("[seeds] seeded %d issues (%d in file)", seeded, len(issues))
	return nil
}
