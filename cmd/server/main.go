package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ysegev/wealth-tracker/db"
	"github.com/ysegev/wealth-tracker/pkg/api"
	"github.com/ysegev/wealth-tracker/pkg/auth"
	"github.com/ysegev/wealth-tracker/pkg/config"
	"github.com/ysegev/wealth-tracker/pkg/http/rates"
	"github.com/ysegev/wealth-tracker/pkg/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := config.InitGlobalConfig("config.yaml"); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Failed to load configuration")
			log.Warn().Msg("A default configuration will be used")
		}
	}

	dbPath, err := config.GetDBPath()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve database path")
	}

	database, err := db.New(dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := database.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	secret, err := config.GetJWTSecret()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load JWT secret")
	}

	rateURL, err := config.GetRateAPIURL()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load rate endpoint, using default")
		rateURL = ""
	}

	provider := services.NewRateProvider(rates.NewClient(rateURL))
	converter := services.NewConverter(provider)
	aggregator := services.NewAggregator(converter)
	syncer := services.NewGoalSyncer(database, converter)
	authn := auth.New(secret)

	listenAddr, err := config.GetListenAddr()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve listen address")
	}

	server := api.NewServer(database, authn, aggregator, syncer, provider)
	srv := &http.Server{
		Addr:           listenAddr,
		Handler:        server.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
		cancel()
	}()

	log.Info().Str("addr", listenAddr).Msg("Starting wealth tracker server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}

	<-ctx.Done()
	log.Info().Msg("Server stopped gracefully")
}
