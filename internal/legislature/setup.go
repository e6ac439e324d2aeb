package legislature

import (
	"log"

	"github.com/civicsignal/positions-backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(
		&Member{},
		&Bill{},
		&Vote{},
		&Statement{},
	); err != nil {
		log.Fatal("Failed to auto-migrate legislature tables: ", err)
	}
}
