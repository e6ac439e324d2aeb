package metadata

import (
	"log"

	"github.com/civicsignal/positions-backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&DataMetadata{}); err != nil {
		log.Fatal("Failed to auto-migrate metadata table: ", err)
	}
}
