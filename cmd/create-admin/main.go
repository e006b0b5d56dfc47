package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/agrihub/agrihub-backend/internal/users"
	"github.com/agrihub/agrihub-backend/pkg/config"
	"github.com/agrihub/agrihub-backend/pkg/db"
	"github.com/agrihub/agrihub-backend/pkg/enums"
	"github.com/agrihub/agrihub-backend/pkg/logger"
	"github.com/agrihub/agrihub-backend/pkg/security"
	"github.com/joho/godotenv"
)

// create-admin bootstraps the first super_admin account so a fresh deploy
// has someone who can log in and create the rest.
func main() {
	logg := logger.New(logger.Options{ServiceName: "create-admin"})

	_ = godotenv.Load()

	email := flag.String("email", os.Getenv("AGRIHUB_ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("AGRIHUB_ADMIN_PASSWORD"), "admin password")
	fullName := flag.String("full-name", os.Getenv("AGRIHUB_ADMIN_NAME"), "admin display name")
	flag.Parse()

	ctx := context.Background()

	*email = strings.ToLower(strings.TrimSpace(*email))
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create-admin -email <email> -password <password> [-full-name <name>]")
		os.Exit(1)
	}
	if len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(1)
	}
	if *fullName == "" {
		*fullName = "Administrator"
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "create-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	hash, err := security.HashPassword(*password)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}

	repo := users.NewRepository(dbClient.DB())
	user, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        *email,
		PasswordHash: hash,
		FullName:     *fullName,
		Role:         enums.RoleSuperAdmin,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			fmt.Fprintf(os.Stderr, "an account already exists for %s\n", *email)
			os.Exit(1)
		}
		logg.Error(ctx, "failed to create admin", err)
		os.Exit(1)
	}

	fmt.Printf("created super_admin %s (%s)\n", user.Email, user.ID)
}
