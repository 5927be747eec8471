package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dimitrije/squadup/internal/config"
	"github.com/dimitrije/squadup/internal/database"
	"github.com/dimitrije/squadup/internal/services"
	"github.com/dimitrije/squadup/pkg/dto"
)

// issue-token prints an access token for a user, creating the account first
// when a name is given and the email is unknown.
func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println("Usage: issue-token <email> [name]")
		os.Exit(1)
	}

	email := os.Args[1]
	name := ""
	if len(os.Args) == 3 {
		name = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	users := services.NewUserService(db)

	user, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, services.ErrUserNotFound) && name != "":
		user, err = users.Create(ctx, email, name)
		if err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Created user %s (%s)\n", user.Name, user.ID)
	case errors.Is(err, services.ErrUserNotFound):
		log.Fatalf("No user found with email: %s (pass a name to create one)", email)
	case err != nil:
		log.Fatalf("Failed to look up user: %v", err)
	}

	token, err := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry).GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.TokenResponse{AccessToken: token.Token, ExpiresIn: token.ExpiresIn}); err != nil {
		log.Fatalf("Failed to write token: %v", err)
	}
}
