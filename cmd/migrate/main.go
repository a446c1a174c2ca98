// Command migrate applies the database schema for the backend.
package main

import (
	"log"

	"github.com/Galomer310/ManisR-backend/internal/config"
	"github.com/Galomer310/ManisR-backend/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	// Connect already migrates outside production; run explicitly so this
	// command also works against production databases.
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("schema applied")
}
