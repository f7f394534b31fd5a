//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/avukatajanda/ajanda/internal/auth"
	"github.com/avukatajanda/ajanda/internal/database"
	"github.com/avukatajanda/ajanda/internal/database/models"
	"github.com/avukatajanda/ajanda/pkg/config"
	"github.com/avukatajanda/ajanda/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	name := os.Getenv("SEED_NAME")

	if email == "" {
		email = "demo@avukatajanda.com"
	}
	if password == "" {
		password = "demo123!"
	}
	if name == "" {
		name = "Demo Avukat"
	}

	resp, err := authService.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Printf("Seed user already exists: %s\n", email)
			return
		}
		log.Fatalf("failed to create seed user: %v", err)
	}

	client := models.Client{
		UserID: resp.User.ID,
		OrgID:  resp.Org.ID,
		Name:   "Acme Corp",
		Email:  "legal@acme.example",
		Phone:  "+90 212 000 0000",
	}
	if err := db.Create(&client).Error; err != nil {
		log.Fatalf("failed to create seed client: %v", err)
	}

	kase := models.Case{
		UserID:     resp.User.ID,
		OrgID:      resp.Org.ID,
		ClientID:   client.ID,
		CaseNumber: fmt.Sprintf("%d-0001", time.Now().Year()),
		Title:      "Contract Dispute",
		Status:     models.CaseStatusActive,
	}
	if err := db.Create(&kase).Error; err != nil {
		log.Fatalf("failed to create seed case: %v", err)
	}

	hearing := models.Event{
		UserID:   resp.User.ID,
		OrgID:    resp.Org.ID,
		CaseID:   &kase.ID,
		Title:    "First hearing",
		Type:     "hearing",
		StartsAt: time.Now().AddDate(0, 0, 14),
		Location: "Istanbul Courthouse",
	}
	if err := db.Create(&hearing).Error; err != nil {
		log.Fatalf("failed to create seed event: %v", err)
	}

	fmt.Printf("Seed data created.\n")
	fmt.Printf("Email: %s\n", resp.User.Email)
	fmt.Printf("Organization: %s\n", resp.Org.Name)
	fmt.Printf("Token: %s\n", resp.AccessToken)
}
