package db

import (
	"context"
	"fmt"

	"moonflix/internal/config"
	"moonflix/internal/logger"
	"moonflix/internal/repository"
)

// Stores holds the repositories of the configured backend, each bounded by
// the store timeout.
type Stores struct {
	Users  repository.UserRepository
	Movies repository.MovieRepository

	close func(ctx context.Context) error
}

// Close releases the backend connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend selected by cfg.StoreDriver and prepares its
// schema: unique indexes for mongo, AutoMigrate for the SQL drivers.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Stores, error) {
	var (
		users  repository.UserRepository
		movies repository.MovieRepository
		closer func(ctx context.Context) error
	)

	switch cfg.StoreDriver {
	case config.DriverMemory:
		users = repository.NewMemoryUserRepository()
		movies = repository.NewMemoryMovieRepository()

	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()
		mdb, err := NewMongo(connectCtx, cfg.ConnectionURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		userRepo := repository.NewMongoUserRepository(mdb)
		movieRepo := repository.NewMongoMovieRepository(mdb)
		if err := userRepo.EnsureIndexes(connectCtx); err != nil {
			return nil, fmt.Errorf("user indexes: %w", err)
		}
		if err := movieRepo.EnsureIndexes(connectCtx); err != nil {
			return nil, fmt.Errorf("movie indexes: %w", err)
		}
		users, movies = userRepo, movieRepo
		closer = mdb.Client().Disconnect

	case config.DriverMySQL, config.DriverPostgres, config.DriverSQLite:
		gdb, err := NewGorm(cfg.StoreDriver, cfg.ConnectionURI)
		if err != nil {
			return nil, err
		}
		if err := Migrate(gdb); err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("sql handle: %w", err)
		}
		users = repository.NewUserRepository(gdb)
		movies = repository.NewMovieRepository(gdb)
		closer = func(context.Context) error { return sqlDB.Close() }

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreDriver, cfg.StoreDriver)
	}

	log.Info().Str("driver", cfg.StoreDriver).Dur("timeout", cfg.StoreTimeout).Msg("store ready")

	return &Stores{
		Users:  repository.NewTimeoutUserRepository(users, cfg.StoreTimeout),
		Movies: repository.NewTimeoutMovieRepository(movies, cfg.StoreTimeout),
		close:  closer,
	}, nil
}
