// Package main provides admin management utilities for ManisR.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/Galomer310/ManisR-backend/internal/bootstrap"
	"github.com/Galomer310/ManisR-backend/internal/config"
	"github.com/Galomer310/ManisR-backend/internal/models"

	"gorm.io/gorm"
)

// Admins may force meal status transitions, so promotion is an explicit
// operator action rather than an API surface.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go promote <user_id>      - Promote user to admin")
		fmt.Println("  go run ./cmd/admin/main.go demote <user_id>       - Demote user from admin")
		fmt.Println("  go run ./cmd/admin/main.go list-admins            - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			log.Fatal("promote requires a user id")
		}
		setAdmin(db, os.Args[2], true)
	case "demote":
		if len(os.Args) < 3 {
			log.Fatal("demote requires a user id")
		}
		setAdmin(db, os.Args[2], false)
	case "list-admins":
		var admins []models.User
		if err := db.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
			log.Fatalf("Failed to list admins: %v", err)
		}
		if len(admins) == 0 {
			fmt.Println("No admins found")
			return
		}
		for _, a := range admins {
			fmt.Printf("%d\t%s\t%s\n", a.ID, a.Username, a.Email)
		}
	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func setAdmin(db *gorm.DB, idArg string, admin bool) {
	var user models.User
	if err := db.First(&user, "id = ?", idArg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("User %s not found", idArg)
		}
		log.Fatalf("Failed to load user: %v", err)
	}

	if err := db.Model(&user).Update("is_admin", admin).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}
	fmt.Printf("User %d (%s): is_admin=%v\n", user.ID, user.Username, admin)
}
