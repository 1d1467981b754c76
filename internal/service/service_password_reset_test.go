package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/mailer"
	"github.com/MKhiriev/go-storefront/internal/mock"
	"github.com/MKhiriev/go-storefront/internal/store"
	"github.com/MKhiriev/go-storefront/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// resetFixture wires the auth and reset services over one in-memory
// repository and a miniredis backed session store.
type resetFixture struct {
	repo   *memUserRepository
	mailer *mock.MockMailer
	auth   *authService
	reset  *passwordResetService
	now    time.Time
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := store.NewRedisSessionStoreFromClient(client, logger.Nop())
	repo := newMemUserRepository()
	m := mock.NewMockMailer(ctrl)

	f := &resetFixture{
		repo:   repo,
		mailer: m,
		auth:   NewAuthService(repo, sessions, testAppConfig(), logger.Nop()).(*authService),
		reset:  NewPasswordResetService(repo, sessions, m, testAppConfig(), logger.Nop()).(*passwordResetService),
		now:    testNow,
	}
	f.auth.now = func() time.Time { return f.now }
	f.reset.now = func() time.Time { return f.now }

	return f
}

func (f *resetFixture) register(t *testing.T, email, password string) models.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), email, password, "Test")
	require.NoError(t, err)
	return user
}

// requestReset performs a reset request and returns the stored token.
func (f *resetFixture) requestReset(t *testing.T, email string) string {
	t.Helper()

	f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, f.reset.RequestPasswordReset(context.Background(), email))

	user, err := f.repo.FindUserByEmail(context.Background(), strings.ToLower(email))
	require.NoError(t, err)
	require.NotNil(t, user.ResetToken)
	return *user.ResetToken
}

// ── RequestPasswordReset ──

func TestPasswordReset_Request_SendsLink(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "wes@example.com", "dogs123")

	var sent models.Email
	f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.Email) error {
			sent = e
			return nil
		})

	require.NoError(t, f.reset.RequestPasswordReset(context.Background(), "WES@example.com"))

	user, err := f.repo.FindUserByEmail(context.Background(), "wes@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.ResetToken)
	require.NotNil(t, user.ResetTokenExpiry)
	assert.Len(t, *user.ResetToken, 40)
	assert.Equal(t, testNow.Add(time.Hour), *user.ResetTokenExpiry)

	assert.Equal(t, []string{"wes@example.com"}, sent.To)
	assert.Equal(t, mailer.ResetPasswordSubject, sent.Subject)
	assert.Contains(t, sent.HTMLBody, mailer.ResetPasswordLink("http://shop.test", *user.ResetToken))
}

func TestPasswordReset_Request_UnknownEmail(t *testing.T) {
	f := newResetFixture(t)

	err := f.reset.RequestPasswordReset(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPasswordReset_Request_MailFailureIsSwallowed(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "wes@example.com", "dogs123")

	f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	assert.NoError(t, f.reset.RequestPasswordReset(context.Background(), "wes@example.com"))
}

func TestPasswordReset_Request_ReplacesPreviousToken(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "wes@example.com", "dogs123")

	first := f.requestReset(t, "wes@example.com")
	second := f.requestReset(t, "wes@example.com")
	require.NotEqual(t, first, second)

	_, err := f.reset.ResetPassword(context.Background(), first, "new", "new")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = f.reset.ResetPassword(context.Background(), second, "new", "new")
	assert.NoError(t, err)
}

// ── ResetPassword ──

func TestPasswordReset_ExpiryWindow(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{name: "just issued", elapsed: 0},
		{name: "one second before expiry", elapsed: 3599 * time.Second},
		{name: "at expiry", elapsed: time.Hour, wantErr: ErrInvalidOrExpiredToken},
		{name: "one second after expiry", elapsed: 3601 * time.Second, wantErr: ErrInvalidOrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResetFixture(t)
			f.register(t, "wes@example.com", "dogs123")
			resetToken := f.requestReset(t, "wes@example.com")

			f.now = testNow.Add(tt.elapsed)
			_, err := f.reset.ResetPassword(context.Background(), resetToken, "cats456", "cats456")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, authErr := f.auth.Authenticate(context.Background(), "wes@example.com", "dogs123")
				assert.NoError(t, authErr, "old password must still work")
				return
			}

			require.NoError(t, err)
			_, authErr := f.auth.Authenticate(context.Background(), "wes@example.com", "cats456")
			assert.NoError(t, authErr)
			_, authErr = f.auth.Authenticate(context.Background(), "wes@example.com", "dogs123")
			assert.ErrorIs(t, authErr, ErrInvalidCredential)
		})
	}
}

func TestPasswordReset_TokenIsSingleUse(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "wes@example.com", "dogs123")
	resetToken := f.requestReset(t, "wes@example.com")

	user, err := f.reset.ResetPassword(context.Background(), resetToken, "cats456", "cats456")
	require.NoError(t, err)
	assert.Nil(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpiry)

	_, err = f.reset.ResetPassword(context.Background(), resetToken, "again", "again")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

// lookupBarrier holds every reset token lookup until parties lookups have
// happened, so concurrent resets all pass the lookup before any update.
type lookupBarrier struct {
	*memUserRepository
	wg *sync.WaitGroup
}

func (b lookupBarrier) FindUserByResetToken(ctx context.Context, resetToken string) (models.User, error) {
	user, err := b.memUserRepository.FindUserByResetToken(ctx, resetToken)
	b.wg.Done()
	b.wg.Wait()
	return user, err
}

func TestPasswordReset_ConcurrentResetsConsumeTokenOnce(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "wes@example.com", "dogs123")
	resetToken := f.requestReset(t, "wes@example.com")

	const parties = 2
	wg := &sync.WaitGroup{}
	wg.Add(parties)
	f.reset.userRepository = lookupBarrier{memUserRepository: f.repo, wg: wg}

	errs := make(chan error, parties)
	for i := range parties {
		go func() {
			password := fmt.Sprintf("new-password-%d", i)
			_, err := f.reset.ResetPassword(context.Background(), resetToken, password, password)
			errs <- err
		}()
	}

	var succeeded, rejected int
	for range parties {
		err := <-errs
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvalidOrExpiredToken):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, parties-1, rejected)
}

func TestPasswordReset_Validation(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "wes@example.com", "dogs123")
	resetToken := f.requestReset(t, "wes@example.com")

	_, err := f.reset.ResetPassword(context.Background(), resetToken, "a", "b")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = f.reset.ResetPassword(context.Background(), resetToken, "x", "")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = f.reset.ResetPassword(context.Background(), resetToken, "", "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	tooLong := strings.Repeat("x", 73)
	_, err = f.reset.ResetPassword(context.Background(), resetToken, tooLong, tooLong)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = f.reset.ResetPassword(context.Background(), "", "a", "a")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = f.reset.ResetPassword(context.Background(), "unknown", "a", "a")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	// the mismatch did not consume the token
	_, err = f.reset.ResetPassword(context.Background(), resetToken, "a", "a")
	assert.NoError(t, err)
}

func TestPasswordReset_RevokesEarlierSessions(t *testing.T) {
	f := newResetFixture(t)
	user := f.register(t, "wes@example.com", "dogs123")

	oldSession, err := f.auth.CreateToken(context.Background(), user)
	require.NoError(t, err)

	resetToken := f.requestReset(t, "wes@example.com")

	f.now = testNow.Add(10 * time.Minute)
	_, err = f.reset.ResetPassword(context.Background(), resetToken, "cats456", "cats456")
	require.NoError(t, err)

	_, err = f.auth.ParseToken(context.Background(), oldSession.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)

	newSession, err := f.auth.CreateToken(context.Background(), user)
	require.NoError(t, err)
	parsed, err := f.auth.ParseToken(context.Background(), newSession.SignedString)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, parsed.UserID)
}

func TestAuthService_SignOutRevokesToken(t *testing.T) {
	f := newResetFixture(t)
	user := f.register(t, "wes@example.com", "dogs123")

	token, err := f.auth.CreateToken(context.Background(), user)
	require.NoError(t, err)
	_, err = f.auth.ParseToken(context.Background(), token.SignedString)
	require.NoError(t, err)

	require.NoError(t, f.auth.EndSession(context.Background(), token.SignedString))

	_, err = f.auth.ParseToken(context.Background(), token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)

	other, err := f.auth.CreateToken(context.Background(), user)
	require.NoError(t, err)
	_, err = f.auth.ParseToken(context.Background(), other.SignedString)
	assert.NoError(t, err, "other sessions stay valid")
}

func TestPasswordReset_SessionStoreFailureDoesNotFailReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := newMemUserRepository()
	sessions := mock.NewMockSessionStore(ctrl)
	m := mock.NewMockMailer(ctrl)

	svc := NewPasswordResetService(repo, sessions, m, testAppConfig(), logger.Nop()).(*passwordResetService)
	svc.now = func() time.Time { return testNow }

	user, err := repo.CreateUser(context.Background(), models.User{Email: "wes@example.com"})
	require.NoError(t, err)
	_, err = repo.SetResetToken(context.Background(), user.UserID, "tok", testNow.Add(time.Minute))
	require.NoError(t, err)

	sessions.EXPECT().
		RevokeUserSessionsBefore(gomock.Any(), user.UserID, testNow, 24*time.Hour).
		Return(store.ErrSessionStore)

	_, err = svc.ResetPassword(context.Background(), "tok", "pw", "pw")
	assert.NoError(t, err)
}
