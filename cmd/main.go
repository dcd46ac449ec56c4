package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/bracket-engine/config"
	"github.com/Dosada05/bracket-engine/db"
	"github.com/Dosada05/bracket-engine/handlers"
	"github.com/Dosada05/bracket-engine/repositories"
	api "github.com/Dosada05/bracket-engine/routes"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/Dosada05/bracket-engine/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
		slog.Bool("archive_enabled", cfg.ArchiveEnabled()))

	dialect, err := repositories.DialectFor(cfg.DatabaseDriver)
	if err != nil {
		logger.Error("unsupported database driver", slog.Any("error", err))
		os.Exit(1)
	}

	dbConn, err := db.Connect(dialect, cfg.DatabaseURL, cfg.DBConnectTimeout)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established", slog.String("dialect", dialect.String()))

	if cfg.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = db.Migrate(migrateCtx, dbConn, dialect)
		cancel()
		if err != nil {
			logger.Error("failed to migrate database schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database schema ready")
	}

	matchRepo := repositories.NewMatchRepository(dbConn, dialect)
	teamRepo := repositories.NewTeamRepository(dbConn, dialect)
	participantRepo := repositories.NewParticipantRepository(dbConn, dialect)
	gameRepo := repositories.NewGameRepository(dbConn, dialect)
	generationRepo := repositories.NewGenerationRepository(dbConn, dialect)

	matchService := services.NewMatchService(matchRepo, logger)
	teamService := services.NewTeamService(teamRepo, logger)
	bracketService := services.NewBracketService(dbConn, matchRepo, teamRepo, participantRepo, gameRepo, generationRepo, logger)
	standingsService := services.NewStandingsService(matchRepo, participantRepo, gameRepo, logger)
	swissService := services.NewSwissService(dbConn, matchRepo, participantRepo, gameRepo, logger)

	var archiver services.MatchArchiver
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewR2Uploader(context.Background(), storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
			Endpoint:        cfg.R2Endpoint,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = services.NewMatchArchiver(bracketService, uploader, logger)
		logger.Info("bracket archive enabled", slog.String("bucket", cfg.R2BucketName))
	}
	resultService := services.NewResultService(dbConn, matchRepo, participantRepo, gameRepo, archiver, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{AllowedOrigins: cfg.CORSAllowedOrigins},
		dbConn,
		handlers.NewMatchHandler(matchService),
		handlers.NewTeamHandler(teamService),
		handlers.NewBracketHandler(bracketService, standingsService, swissService),
		handlers.NewGameHandler(resultService),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
