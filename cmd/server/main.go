package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/HaBsawy/creiden-task/internal/config"
	"github.com/HaBsawy/creiden-task/internal/db"
	"github.com/HaBsawy/creiden-task/internal/http/router"
	"github.com/HaBsawy/creiden-task/internal/logging"
	"github.com/HaBsawy/creiden-task/internal/models"
	"github.com/HaBsawy/creiden-task/internal/security"
	"github.com/HaBsawy/creiden-task/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/app.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("failed to load config, using defaults")
		cfg = config.Default()
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build logger")
	}
	defer logger.Close()

	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to initialize database")
	}
	defer database.Close()

	tokens := security.NewTokenIssuer(database, cfg.Auth.TokenTTL)

	handler := router.Setup(router.Deps{
		Logger:   logger.Logger,
		DB:       database,
		Tokens:   tokens,
		Admins:   service.NewAuthService(models.RealmAdmin, database, tokens, cfg.Auth.BcryptCost),
		UserAuth: service.NewAuthService(models.RealmUser, database, tokens, cfg.Auth.BcryptCost),
		Users:    service.NewUserService(database, cfg.Auth.BcryptCost),
		Storages: service.NewStorageService(database),
		Items:    service.NewItemService(database),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("driver", database.Driver()).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped")
		}
		return
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
