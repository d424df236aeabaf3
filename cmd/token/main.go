package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sjperalta/cobuy-api/internal/config"
	"github.com/sjperalta/cobuy-api/internal/database"
	"github.com/sjperalta/cobuy-api/internal/repository"
	"github.com/sjperalta/cobuy-api/internal/services"
	"github.com/sjperalta/cobuy-api/pkg/logger"
)

// Prints a bearer token for an existing user, for local testing of the
// authenticated routes.
func main() {
	userID := flag.String("user", "", "user id to issue the token for")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: token -user <user_id>")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup(cfg.Environment)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	auth := services.NewAuthService(repository.NewUserRepository(db), cfg)
	result, err := auth.IssueToken(context.Background(), *userID, time.Now())
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	log.Printf("Token for %s (%s) expires %s", result.User.ID, result.User.Role, result.ExpiresAt.Format(time.RFC3339))
	fmt.Println(result.Token)
}
