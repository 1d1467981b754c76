package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/logger"
)

// Storages groups every repository used by the service layer.
type Storages struct {
	UserRepository UserRepository
	SessionStore   SessionStore

	closers []func() error
}

// NewStorages connects to the database selected by cfg.DB.DSN, runs
// migrations, and connects the Redis session store when an address is set.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	storages := &Storages{
		UserRepository: NewUserRepository(db, log),
		closers:        []func() error{db.Close},
	}

	if cfg.Redis.Address == "" {
		log.Warn().Msg("redis address is not set: sessions cannot be revoked server-side")
		storages.SessionStore = NewNopSessionStore()
		return storages, nil
	}

	sessions, err := NewRedisSessionStore(ctx, cfg.Redis, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("redis connection error: %w", err)
	}
	storages.SessionStore = sessions
	storages.closers = append(storages.closers, sessions.Close)

	return storages, nil
}

// Close releases every connection held by the storages.
func (s *Storages) Close() error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
