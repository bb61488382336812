package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/echo/v4"

	"moonflix/docs" // swagger docs
	"moonflix/internal/auth"
	"moonflix/internal/config"
	"moonflix/internal/db"
	"moonflix/internal/events"
	"moonflix/internal/handler"
	"moonflix/internal/logger"
	"moonflix/internal/router"
	"moonflix/internal/service"
)

// @title Moonflix API
// @version 1.0
// @description Movie catalog API with user accounts, favorite lists and JWT authentication.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet: configuration decides where logs go.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New("server", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("store init")
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	if cfg.SeedFile != "" {
		movies, err := service.LoadMovies(cfg.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load seed file")
		}
		created, updated, err := service.SeedMovies(log.WithContext(ctx), stores.Movies, movies)
		if err != nil {
			log.Fatal().Err(err).Msg("seed movies")
		}
		log.Info().Int("created", created).Int("updated", updated).Msg("catalog seeded")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("events init")
		}
		publisher = p
	}
	defer publisher.Close()

	// Initialize auth components
	hasher := auth.NewBcryptHasher(auth.DefaultHashCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authenticator := auth.NewLocalAuthenticator(stores.Users, hasher)

	// Initialize services
	authService := service.NewAuthService(authenticator, jwtService)
	userService := service.NewUserService(stores.Users, hasher, publisher)
	movieService := service.NewMovieService(stores.Movies)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if err := router.Register(
		e,
		cfg,
		log,
		auth.Middleware(jwtService, stores.Users),
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewMovieHandler(movieService),
	); err != nil {
		log.Fatal().Err(err).Msg("register routes")
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info().Str("url", "http://"+docs.SwaggerInfo.Host+"/api-docs/index.html").Msg("swagger documentation available")

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server start")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
