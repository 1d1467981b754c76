package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/logger"
)

const (
	revokedTokenKeyPrefix = "storefront:revoked:jti:"
	userCutoffKeyPrefix   = "storefront:revoked:user:"
)

// redisSessionStore keeps revoked token ids and per-user cut-offs in Redis.
// Every key expires together with the tokens it invalidates.
type redisSessionStore struct {
	client *redis.Client
	logger *logger.Logger
}

// RedisSessionStore is a [SessionStore] that owns its Redis connection.
type RedisSessionStore interface {
	SessionStore
	Close() error
}

// NewRedisSessionStore connects to Redis and pings it.
func NewRedisSessionStore(ctx context.Context, cfg config.Redis, log *logger.Logger) (RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisSessionStore").Msg("error connecting redis (ping)")
		client.Close()
		return nil, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	log.Info().Str("func", "NewRedisSessionStore").Msg("connected to redis successfully")

	return NewRedisSessionStoreFromClient(client, log), nil
}

// NewRedisSessionStoreFromClient wraps an existing client.
func NewRedisSessionStoreFromClient(client *redis.Client, log *logger.Logger) RedisSessionStore {
	return &redisSessionStore{
		client: client,
		logger: log,
	}
}

func (s *redisSessionStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, nothing to deny
		return nil
	}

	if err := s.client.Set(ctx, revokedTokenKeyPrefix+jti, 1, ttl).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*redisSessionStore.RevokeToken").Msg("failed to revoke token")
		return fmt.Errorf("%w: %w", ErrSessionStore, err)
	}

	return nil
}

func (s *redisSessionStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedTokenKeyPrefix+jti).Result()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*redisSessionStore.IsTokenRevoked").Msg("failed to check token")
		return false, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}

	return n > 0, nil
}

func (s *redisSessionStore) RevokeUserSessionsBefore(ctx context.Context, userID int64, at time.Time, ttl time.Duration) error {
	key := userCutoffKeyPrefix + strconv.FormatInt(userID, 10)
	if err := s.client.Set(ctx, key, at.Unix(), ttl).Err(); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*redisSessionStore.RevokeUserSessionsBefore").
			Int64("user_id", userID).
			Msg("failed to set session cut-off")
		return fmt.Errorf("%w: %w", ErrSessionStore, err)
	}

	return nil
}

func (s *redisSessionStore) UserSessionsRevokedBefore(ctx context.Context, userID int64) (time.Time, error) {
	key := userCutoffKeyPrefix + strconv.FormatInt(userID, 10)
	unix, err := s.client.Get(ctx, key).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return time.Time{}, nil
	case err != nil:
		logger.FromContext(ctx).Err(err).
			Str("func", "*redisSessionStore.UserSessionsRevokedBefore").
			Int64("user_id", userID).
			Msg("failed to read session cut-off")
		return time.Time{}, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}

	return time.Unix(unix, 0), nil
}

func (s *redisSessionStore) Close() error {
	return s.client.Close()
}
