package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pudimaria/storefront-backend/internal/auth"
	"github.com/pudimaria/storefront-backend/pkg/config"
	"github.com/pudimaria/storefront-backend/pkg/db"
	"github.com/pudimaria/storefront-backend/pkg/db/models"
	"github.com/pudimaria/storefront-backend/pkg/logger"
	"github.com/pudimaria/storefront-backend/pkg/security"
)

// seed-admin creates a back-office login. Passwords come from the
// environment so they never land in shell history.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})

	_ = godotenv.Load()

	email := flag.String("email", "", "admin email address")
	flag.Parse()

	if strings.TrimSpace(*email) == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}
	password := os.Getenv("PUDIM_SEED_ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "PUDIM_SEED_ADMIN_PASSWORD is required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to hash password", err)
		os.Exit(1)
	}

	repo := auth.NewAdminRepository(dbClient.DB())
	admin, err := repo.CreateAdmin(context.Background(), &models.AdminUser{
		Email:        *email,
		PasswordHash: hash,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"admin_id": admin.ID.String(),
		"email":    admin.Email,
	})
	logg.Info(ctx, "admin account created")
}
