package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/models"
)

// userRepository is the SQL implementation of [UserRepository]. It works on
// both PostgreSQL and SQLite; statements are built with the connection's
// squirrel builder so placeholders match the dialect.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
// queryRetryBackoff allows two retries after the first attempt. A fresh
// backoff is built per statement because backoffs keep their own counters.
var queryRetryBackoff = func() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewConstant(25*time.Millisecond))
}

type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns it with server-assigned
// fields (UserID, CreatedAt).
//
// Error handling:
//   - unique_violation (23505 or the SQLite equivalent) → [ErrEmailAlreadyExists].
//     SQLite reports it only when the returned row is scanned, so the code
//     is checked after the scan.
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateUserQuery(r.db.builder, user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := r.queryUser(ctx, query, args)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")

		switch r.db.errorClassificator.Code(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return created, nil
}

// FindUserByEmail implements [UserRepository].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByEmail", sq.Eq{"email": email})
}

// FindUserByID implements [UserRepository].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByID", sq.Eq{"user_id": userID})
}

// FindUserByResetToken implements [UserRepository].
func (r *userRepository) FindUserByResetToken(ctx context.Context, resetToken string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByResetToken", sq.Eq{"reset_token": resetToken})
}

// SetResetToken implements [UserRepository].
func (r *userRepository) SetResetToken(ctx context.Context, userID int64, resetToken string, expiry time.Time) (models.User, error) {
	query, args, err := buildSetResetTokenQuery(r.db.builder, userID, resetToken, expiry)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.updateUser(ctx, "*userRepository.SetResetToken", userID, query, args)
}

// ResetPassword implements [UserRepository].
func (r *userRepository) ResetPassword(ctx context.Context, userID int64, resetToken, passwordHash string, now time.Time) (models.User, error) {
	query, args, err := buildResetPasswordQuery(r.db.builder, userID, resetToken, passwordHash, now)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.updateUser(ctx, "*userRepository.ResetPassword", userID, query, args)
}

// UpdatePermissions implements [UserRepository].
func (r *userRepository) UpdatePermissions(ctx context.Context, userID int64, permissions models.PermissionSet) (models.User, error) {
	query, args, err := buildUpdatePermissionsQuery(r.db.builder, userID, permissions)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.updateUser(ctx, "*userRepository.UpdatePermissions", userID, query, args)
}

// ListUsers implements [UserRepository]. Returns an empty slice when the
// table is empty.
func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListUsersQuery(r.db.builder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, 16)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*userRepository.ListUsers").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

func (r *userRepository) findUser(ctx context.Context, funcName string, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindUserQuery(r.db.builder, where)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := r.queryUser(ctx, query, args)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrNoUserWasFound
	case err != nil:
		log.Err(err).Str("func", funcName).Msg("error finding user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

func (r *userRepository) updateUser(ctx context.Context, funcName string, userID int64, query string, args []any) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := r.queryUser(ctx, query, args)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrNoUserWasFound
	case err != nil:
		log.Err(err).Str("func", funcName).Int64("user_id", userID).Msg("error updating user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// queryUser runs a statement returning one user row and scans it. Errors the
// classifier reports as [Retryable] are retried with a short constant
// backoff.
func (r *userRepository) queryUser(ctx context.Context, query string, args []any) (models.User, error) {
	var user models.User

	err := retry.Do(ctx, queryRetryBackoff(), func(ctx context.Context) error {
		var err error
		user, err = scanUser(r.db.QueryRowContext(ctx, query, args...))
		if err != nil && r.db.errorClassificator.Classify(err) == Retryable {
			logger.FromContext(ctx).Warn().Err(err).Msg("transient database error, retrying")
			return retry.RetryableError(err)
		}
		return err
	})

	return user, err
}
