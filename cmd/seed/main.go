package main

import (
	"context"
	"flag"
	"os"

	"moonflix/internal/config"
	"moonflix/internal/db"
	"moonflix/internal/logger"
	"moonflix/internal/service"
)

const defaultSeedFile = "data/movies.json"

func main() {
	file := flag.String("file", "", "JSON array of movies to load (default $SEED_FILE or "+defaultSeedFile+")")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New("seed", cfg.LogLevel, cfg.LogFile)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	path := *file
	if path == "" {
		path = cfg.SeedFile
	}
	if path == "" {
		path = defaultSeedFile
	}

	ctx := log.WithContext(context.Background())

	stores, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("store init")
	}
	defer stores.Close(context.Background())

	movies, err := service.LoadMovies(path)
	if err != nil {
		log.Fatal().Err(err).Msg("load movies")
	}
	log.Info().Str("file", path).Int("movies", len(movies)).Msg("seeding catalog")

	created, updated, err := service.SeedMovies(ctx, stores.Movies, movies)
	if err != nil {
		log.Fatal().Err(err).Msg("seed movies")
	}

	log.Info().
		Int("created", created).
		Int("updated", updated).
		Int("total", created+updated).
		Msg("seed completed")
}
