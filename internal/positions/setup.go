package positions

import (
	"log"

	"github.com/civicsignal/positions-backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(
		&Issue{},
		&Position{},
		&Evidence{},
	); err != nil {
		log.Fatal("Failed to auto-migrate positions tables: ", err)
	}
}
