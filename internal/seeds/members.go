package seeds

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
)

type memberSeed struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	State     string `yaml:"state"`
	Party     string `yaml:"party"`
	Chamber   string `yaml:"chamber"`
	TermStart string `yaml:"term_start,omitempty"`
}

// SeedMembers loads members from a YAML file, upserting by bioguide id.
func SeedMembers(path string) (int, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("could not read %s: %w", path, err)
	}

	var members []memberSeed
	if err := yaml.Unmarshal(file, &members); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, seed := range members {
		member := legislature.Member{
			ID:        seed.ID,
			Name:      seed.Name,
			FirstName: seed.FirstName,
			LastName:  seed.LastName,
			State:     seed.State,
			Party:     legislature.Party(seed.Party),
			Chamber:   legislature.Chamber(seed.Chamber),
		}
		if seed.TermStart != "" {
			if start, err := time.Parse("2006-01-02", seed.TermStart); err == nil {
				member.CurrentTermStart = &start
			}
		}
		if err := legislature.UpsertMember(db.DB, member); err != nil {
			return 0, err
		}
	}

	log.Printf("[seeds] seeded %d members", len(members))
	return len(members), nil
}
