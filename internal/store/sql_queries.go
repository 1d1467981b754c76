package store

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-storefront/models"
)

var userColumns = []string{
	"user_id",
	"email",
	"name",
	"password_hash",
	"permissions",
	"reset_token",
	"reset_token_expiry",
	"created_at",
}

// returningUser makes INSERT and UPDATE statements return the full row.
var returningUser = "RETURNING " + strings.Join(userColumns, ", ")

func usersTable() string {
	return models.User{}.TableName()
}

func buildCreateUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Insert(usersTable()).
		Columns("email", "name", "password_hash", "permissions").
		Values(user.Email, user.Name, user.PasswordHash, user.Permissions).
		Suffix(returningUser).
		ToSql()
}

func buildFindUserQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable()).
		Where(where).
		Limit(1).
		ToSql()
}

func buildListUsersQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable()).
		OrderBy("user_id").
		ToSql()
}

func buildSetResetTokenQuery(b sq.StatementBuilderType, userID int64, resetToken string, expiry time.Time) (string, []any, error) {
	return b.Update(usersTable()).
		Set("reset_token", resetToken).
		Set("reset_token_expiry", expiry.UTC()).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returningUser).
		ToSql()
}

// buildResetPasswordQuery only matches while the user still holds an
// unexpired resetToken, so a token is consumed at most once.
func buildResetPasswordQuery(b sq.StatementBuilderType, userID int64, resetToken, passwordHash string, now time.Time) (string, []any, error) {
	return b.Update(usersTable()).
		Set("password_hash", passwordHash).
		Set("reset_token", nil).
		Set("reset_token_expiry", nil).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"reset_token": resetToken}).
		Where(sq.Gt{"reset_token_expiry": now.UTC()}).
		Suffix(returningUser).
		ToSql()
}

func buildUpdatePermissionsQuery(b sq.StatementBuilderType, userID int64, permissions models.PermissionSet) (string, []any, error) {
	return b.Update(usersTable()).
		Set("permissions", permissions).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returningUser).
		ToSql()
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Permissions,
		&user.ResetToken,
		&user.ResetTokenExpiry,
		&user.CreatedAt,
	)

	return user, err
}
