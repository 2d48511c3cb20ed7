package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	email := flag.String("email", "", "admin email (required)")
	name := flag.String("name", "Administrator", "display name")
	password := flag.String("password", "", "password, generated when empty")
	super := flag.Bool("super", false, "create a super_admin instead of an admin")
	reset := flag.Bool("reset", false, "rotate the password of an existing admin")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := database.NewMongoConnection(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer client.Disconnect(context.Background())

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	role := entity.RoleAdmin
	if *super {
		role = entity.RoleSuperAdmin
	}

	uc := usecase.NewBootstrapAdminUseCase(database.NewUserRepository(db), auth.NewBcryptHasher(0))
	out, err := uc.Execute(ctx, usecase.BootstrapAdminInput{
		Email:    *email,
		Name:     *name,
		Password: *password,
		Role:     role,
		Reset:    *reset,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap admin")
	}

	if out.Created {
		fmt.Printf("Admin %s created with role %s\n", out.User.Email, out.User.Role)
	} else {
		fmt.Printf("Password rotated for %s\n", out.User.Email)
	}
	if *password == "" {
		fmt.Printf("Generated password: %s\n", out.Password)
		fmt.Println("Store it now, it will not be shown again.")
	}
}
