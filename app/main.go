package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/wgparish/buy-it-for-life-tracker/app/api"
	"github.com/wgparish/buy-it-for-life-tracker/app/common/config"
	"github.com/wgparish/buy-it-for-life-tracker/app/common/integration"
	"github.com/wgparish/buy-it-for-life-tracker/app/common/rest/auth"
	"github.com/wgparish/buy-it-for-life-tracker/app/depcontainer"
	"github.com/wgparish/buy-it-for-life-tracker/app/scheduler"
)

const (
	readHeaderTimeout       = 10 * time.Second
	gracefulShutdownTimeout = 5 * time.Second
)

func main() {
	// Config comes from the process environment in deployments; the .env
	// file only serves local development.
	_ = godotenv.Load()

	globalConfig := config.BuildFromEnv()

	logLevel, err := zerolog.ParseLevel(globalConfig.AppConfig.LogLevel)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(logLevel).With().Timestamp().Logger()
	log.Logger = logger

	if err := config.CheckEnvironmentVars(); err != nil {
		logger.Fatal().Err(err).Msg("environment is not configured")
	}

	ctx := context.Background()

	mongoClient, err := integration.NewMongoConnection(ctx, globalConfig.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("couldn't connect to mongodb")
	}

	redisClient, err := integration.NewRedisConnection(ctx, globalConfig.InMemoryStorage)
	if err != nil {
		logger.Fatal().Err(err).Msg("couldn't connect to redis")
	}

	keySource, err := auth.NewJWKSKeySource(ctx, globalConfig.Auth0.JWKSURL())
	if err != nil {
		logger.Fatal().Err(err).Msg("couldn't load auth0 jwks")
	}

	verifier := auth.NewVerifier(keySource, globalConfig.Auth0.IssuerURL(), globalConfig.Auth0.APIAudience)

	depContainer, err := depcontainer.NewDepContainer(globalConfig, mongoClient, redisClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("couldn't build dependency container")
	}

	router := chi.NewRouter()
	router.Use(hlog.NewHandler(logger))
	router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("handled request")
	}))
	router.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	router.Use(chimiddleware.Recoverer)

	handler := api.NewHandler(
		depContainer.ItemService,
		depContainer.UserService,
		depContainer.AlertService,
		depContainer.PricingService,
		depContainer.AffiliateService,
	)

	api.SetUpRoutesAndAccessPolicy(router, handler, verifier, globalConfig.AppConfig.FrontendURL)

	jobScheduler := scheduler.New(depContainer.ItemService, depContainer.PricingService)
	if err := jobScheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("couldn't start scheduler")
	}

	server := &http.Server{
		Addr:              ":" + globalConfig.AppConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info().Str("port", globalConfig.AppConfig.Port).Msg("http server started")

		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, gracefulShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("couldn't shut down http server cleanly")
	}

	<-jobScheduler.Stop().Done()

	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("couldn't close redis connection")
	}

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("couldn't disconnect from mongodb")
	}

	logger.Info().Msg("stopped")
}
