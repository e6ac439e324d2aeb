package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/metadata"
	"github.com/civicsignal/positions-backend/internal/positions"
	"github.com/civicsignal/positions-backend/internal/seeds"
)

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	legislature.Init()
	positions.Init()
	metadata.Init()

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete. Run cmd/analyze and cmd/calculate to build positions.")
}
