// Command main runs the database seeder for ManisR.
package main

import (
	"flag"
	"log"

	"github.com/Galomer310/ManisR-backend/internal/bootstrap"
	"github.com/Galomer310/ManisR-backend/internal/config"
	"github.com/Galomer310/ManisR-backend/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numMeals := flag.Int("meals", 30, "Number of live meal listings to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d meals, clean=%v\n", *numUsers, *numMeals, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumMeals:    *numMeals,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
