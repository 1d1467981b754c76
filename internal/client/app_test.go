package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-storefront/internal/adapter"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records calls and hands out tokens the way the server does.
type fakeAPI struct {
	token string

	signIn            func(req models.SignInRequest) (models.User, error)
	updatePermissions func(userID int64, set models.PermissionSet) (models.User, error)
	sentTokens        []string
}

var _ adapter.StorefrontAPI = (*fakeAPI)(nil)

func (f *fakeAPI) SetToken(token string) { f.token = token }
func (f *fakeAPI) Token() string         { return f.token }

func (f *fakeAPI) SignUp(_ context.Context, req models.SignUpRequest) (models.User, error) {
	f.token = "signup.token"
	return models.User{UserID: 1, Email: req.Email, Name: req.Name}, nil
}

func (f *fakeAPI) SignIn(_ context.Context, req models.SignInRequest) (models.User, error) {
	user, err := f.signIn(req)
	if err == nil {
		f.token = "signin.token"
	}
	return user, err
}

func (f *fakeAPI) SignOut(context.Context) (models.Message, error) {
	f.sentTokens = append(f.sentTokens, f.token)
	f.token = ""
	return models.Message{Message: "Goodbye!"}, nil
}

func (f *fakeAPI) RequestReset(context.Context, string) (models.Message, error) {
	return models.Message{Message: "Thanks!"}, nil
}

func (f *fakeAPI) ResetPassword(context.Context, models.ResetPasswordRequest) (models.User, error) {
	f.token = "reset.token"
	return models.User{UserID: 1}, nil
}

func (f *fakeAPI) Me(context.Context) (*models.User, error) {
	f.sentTokens = append(f.sentTokens, f.token)
	if f.token == "" {
		return nil, nil
	}
	return &models.User{UserID: 1}, nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]models.User, error) {
	return []models.User{{UserID: 1}, {UserID: 2}}, nil
}

func (f *fakeAPI) UpdatePermissions(_ context.Context, userID int64, set models.PermissionSet) (models.User, error) {
	return f.updatePermissions(userID, set)
}

func newTestApp(t *testing.T, api *fakeAPI) (*App, TokenStore, *bytes.Buffer) {
	t.Helper()

	tokens := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	out := &bytes.Buffer{}
	return NewApp(api, tokens, out, logger.Nop()), tokens, out
}

func TestRun_CommandValidation(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeAPI{})

	assert.ErrorIs(t, app.Run(context.Background(), nil), ErrNoCommand)
	assert.ErrorIs(t, app.Run(context.Background(), []string{"delete-everything"}), ErrUnknownCommand)
	assert.ErrorIs(t, app.Run(context.Background(), []string{"signin", "only-email"}), ErrUsage)
	assert.ErrorIs(t, app.Run(context.Background(), []string{"grant"}), ErrUsage)
}

func TestRun_SessionSurvivesInvocations(t *testing.T) {
	api := &fakeAPI{signIn: func(models.SignInRequest) (models.User, error) {
		return models.User{UserID: 1}, nil
	}}
	app, tokens, out := newTestApp(t, api)
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"signin", "wes@example.com", "pw"}))
	saved, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "signin.token", saved)

	// a fresh process starts without an in-memory token
	api.token = ""
	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"me"}))
	assert.Equal(t, []string{"signin.token"}, api.sentTokens)

	var me models.User
	require.NoError(t, json.Unmarshal(out.Bytes(), &me))
	assert.Equal(t, int64(1), me.UserID)

	require.NoError(t, app.Run(ctx, []string{"signout"}))
	saved, err = tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestRun_FailedSignInKeepsToken(t *testing.T) {
	api := &fakeAPI{signIn: func(models.SignInRequest) (models.User, error) {
		return models.User{}, adapter.ErrUnauthorized
	}}
	app, tokens, _ := newTestApp(t, api)
	require.NoError(t, tokens.Save("previous.token"))

	err := app.Run(context.Background(), []string{"signin", "wes@example.com", "wrong"})

	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
	saved, _ := tokens.Load()
	assert.Equal(t, "previous.token", saved)
}

func TestRun_MeAnonymousPrintsNull(t *testing.T) {
	app, _, out := newTestApp(t, &fakeAPI{})

	require.NoError(t, app.Run(context.Background(), []string{"me"}))
	assert.Equal(t, "null\n", out.String())
}

func TestRun_Grant(t *testing.T) {
	var gotID int64
	var gotSet models.PermissionSet
	api := &fakeAPI{updatePermissions: func(userID int64, set models.PermissionSet) (models.User, error) {
		gotID, gotSet = userID, set
		return models.User{UserID: userID, Permissions: set}, nil
	}}
	app, _, _ := newTestApp(t, api)
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"grant", "5", "USER", "ITEMCREATE"}))
	assert.Equal(t, int64(5), gotID)
	assert.Equal(t, models.NewPermissionSet(models.PermissionUser, models.PermissionItemCreate), gotSet)

	require.NoError(t, app.Run(ctx, []string{"grant", "5"}))
	assert.Equal(t, models.PermissionSet(0), gotSet)

	assert.Error(t, app.Run(ctx, []string{"grant", "abc", "USER"}))
	assert.ErrorIs(t, app.Run(ctx, []string{"grant", "5", "SUPERUSER"}), models.ErrUnknownPermission)
}

func TestFileTokenStore(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Save(""))
	require.NoError(t, store.Save(""))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRun_OutputError(t *testing.T) {
	app := NewApp(&fakeAPI{}, NewFileTokenStore(filepath.Join(t.TempDir(), "token")), failingWriter{}, logger.Nop())
	assert.Error(t, app.Run(context.Background(), []string{"users"}))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }
