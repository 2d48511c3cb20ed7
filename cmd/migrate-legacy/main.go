package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/legacy"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	segments := flag.String("segments", "B2B,B2E", "comma separated segments to import")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall timeout")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Legacy.DSN == "" {
		log.Fatal().Msg("LEGACY_DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sqlDB, err := legacy.Open(cfg.Legacy.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to legacy database")
	}
	defer sqlDB.Close()

	client, db, err := database.NewMongoConnection(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer client.Disconnect(context.Background())

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	uc := usecase.NewMigrateLegacyLeadsUseCase(legacy.NewPostgresSource(sqlDB), database.NewLeadRepository(db))

	failed := false
	for _, s := range strings.Split(*segments, ",") {
		segment := entity.Segment(strings.ToUpper(strings.TrimSpace(s)))
		report, err := uc.Execute(ctx, segment)
		if err != nil {
			log.Error().Err(err).Str("segment", string(segment)).Msg("migration failed")
			failed = true
			continue
		}
		fmt.Printf("%s: read=%d imported=%d skipped=%d failed=%d\n",
			report.Segment, report.Read, report.Imported, report.Skipped, report.Failed)
		if report.Failed > 0 {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
