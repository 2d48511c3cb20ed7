package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	setupLogger(cfg.Log)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("api stopped with error")
	}
}

func setupLogger(c config.LogConfig) {
	if c.Format != "console" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	client, db, err := database.NewMongoConnection(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	leadRepo := database.NewLeadRepository(db)
	orgRepo := database.NewOrganizationRepository(db)
	userRepo := database.NewUserRepository(db)
	packageRepo := database.NewPackageRepository(db)

	// 2. Adapters
	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	mailer := mail.NewEmailSender(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		LoginURL: cfg.SMTP.LoginURL,
		Enabled:  cfg.SMTP.Enabled,
	})

	var crm queue.CRMSync
	if kommoClient, err := kommo.NewClient(kommo.Config{
		BaseURL:  cfg.Kommo.BaseURL,
		APIToken: cfg.Kommo.APIToken,
		StatusID: cfg.Kommo.StatusID,
	}); err == nil {
		crm = kommoClient
	} else {
		log.Info().Msg("kommo sync disabled")
	}

	// 3. Notifications: RabbitMQ when enabled, otherwise handled inline
	var (
		producer usecase.QueueProducerInterface
		broker   handlers.BrokerStatus
	)
	if cfg.RabbitMQ.Enabled {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbit.Close()

		consumerCh, err := rabbit.Conn.Channel()
		if err != nil {
			return err
		}
		defer consumerCh.Close()

		notifications := queue.NewWorker(consumerCh, mailer, crm)
		go func() {
			if err := notifications.Start(ctx, queue.QueueName); err != nil {
				log.Error().Err(err).Msg("notification worker exited")
			}
		}()

		producer = queue.NewProducer(rabbit.Ch)
		broker = rabbit
	} else {
		log.Warn().Msg("rabbitmq disabled, notifications are processed inline")
		producer = queue.NewInlineProducer(queue.NewWorker(nil, mailer, crm))
	}

	go worker.NewLeadStatsWorker(leadRepo, cfg.Stats.Interval).Start(ctx)

	// 4. Use cases
	captureUC := usecase.NewCaptureLeadUseCase(leadRepo)
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo)
	getLeadUC := usecase.NewGetLeadUseCase(leadRepo)
	listLeadsUC := usecase.NewListLeadsUseCase(leadRepo)
	deleteLeadUC := usecase.NewDeleteLeadUseCase(leadRepo)
	lifecycleUC := usecase.NewLeadLifecycleUseCase(leadRepo, producer)
	convertUC := usecase.NewConvertLeadUseCase(leadRepo, orgRepo, userRepo, packageRepo, hasher, mailer, producer)
	exportUC := usecase.NewExportLeadsUseCase(leadRepo, orgRepo)

	createOrgUC := usecase.NewCreateOrganizationUseCase(orgRepo, userRepo, packageRepo, hasher, mailer)
	getOrgUC := usecase.NewGetOrganizationUseCase(orgRepo)
	listOrgsUC := usecase.NewListOrganizationsUseCase(orgRepo)
	assignPackageUC := usecase.NewAssignCustomPackageUseCase(orgRepo, packageRepo)

	createPackageUC := usecase.NewCreatePackageUseCase(packageRepo)
	getPackageUC := usecase.NewGetPackageUseCase(packageRepo)
	listPackagesUC := usecase.NewListPackagesUseCase(packageRepo)

	loginUC := usecase.NewLoginUseCase(userRepo, hasher, tokens)

	// 5. Handlers
	limiter := handlers.NewRateLimiter(10, time.Minute)
	go limiter.Cleanup(ctx.Done())

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Tokens:         tokens,
		Health:         handlers.NewHealthHandler(database.HealthCheck{Client: client}, broker, cfg.Server.Version),
		Auth:           handlers.NewAuthHandler(loginUC),
		Leads: handlers.NewLeadHandler(
			captureUC, createLeadUC, getLeadUC, listLeadsUC, deleteLeadUC,
			lifecycleUC, convertUC, limiter,
		),
		Export:        handlers.NewExportHandler(exportUC),
		Organizations: handlers.NewOrganizationHandler(createOrgUC, getOrgUC, listOrgsUC, assignPackageUC),
		Packages:      handlers.NewPackageHandler(createPackageUC, getPackageUC, listPackagesUC),
	})

	// 6. Server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", cfg.Server.Version).Msg("ligue-crm api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
