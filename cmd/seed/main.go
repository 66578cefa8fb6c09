package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-postboard/config"
	"github.com/oksasatya/go-postboard/internal/application"
	pginfra "github.com/oksasatya/go-postboard/internal/infrastructure/postgres"
	"github.com/oksasatya/go-postboard/pkg/helpers"
)

const (
	demoEmail    = "demo@postboard.local"
	demoPassword = "password123"
	demoName     = "demoUser"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	db := pginfra.OpenDB(pool)
	defer func() { _ = db.Close() }()

	if err := pginfra.RunMigrations(ctx, db, cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	store := pginfra.NewStore(db)

	auth := application.NewAuthService(store, helpers.NewBcryptHasher(cfg.BcryptCost), logger, nil, cfg.AppName)
	user, err := auth.Register(ctx, application.RegisterInput{
		Email:       demoEmail,
		Password:    demoPassword,
		Name:        demoName,
		PhoneNumber: "+1000",
	})
	switch {
	case errors.Is(err, application.ErrDuplicateEmail):
		logger.WithField("email", demoEmail).Info("demo user already seeded")
		return
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}
	logger.WithField("user_id", user.ID).WithField("email", demoEmail).Info("seeded demo user")

	posts := application.NewPostService(store, nil, nil, logger)
	p, err := posts.Create(ctx, user.ID, application.PostInput{
		Title:       "Hello, postboard",
		Body:        "This post was created by the seed command.",
		Description: "welcome",
	})
	if err != nil {
		log.Fatalf("failed to seed post: %v", err)
	}
	logger.WithField("post_id", p.ID).Info("seeded demo post")
}
