package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/service"
	"github.com/MKhiriev/go-storefront/models"
)

var errNotStubbed = errors.New("not stubbed")

// ─────────────────────────────────────────────
// Fake: service.AuthService
// ─────────────────────────────────────────────

// fakeAuthService implements service.AuthService. Each method field can be
// overridden per test case; unset fields fall back to harmless defaults.
type fakeAuthService struct {
	registerFn     func(ctx context.Context, email, password, name string) (models.User, error)
	authenticateFn func(ctx context.Context, email, password string) (models.User, error)
	createTokenFn  func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (models.Token, error)
	endSessionFn   func(ctx context.Context, tokenString string) error
	currentUserFn  func(ctx context.Context, token models.Token) (models.User, error)
}

func (f *fakeAuthService) Register(ctx context.Context, email, password, name string) (models.User, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, email, password, name)
	}
	return models.User{}, errNotStubbed
}

func (f *fakeAuthService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	if f.authenticateFn != nil {
		return f.authenticateFn(ctx, email, password)
	}
	return models.User{}, errNotStubbed
}

func (f *fakeAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	if f.createTokenFn != nil {
		return f.createTokenFn(ctx, user)
	}
	return models.Token{SignedString: "signed.jwt.token", UserID: user.UserID}, nil
}

func (f *fakeAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if f.parseTokenFn != nil {
		return f.parseTokenFn(ctx, tokenString)
	}
	return models.Token{}, service.ErrTokenIsExpiredOrInvalid
}

func (f *fakeAuthService) EndSession(ctx context.Context, tokenString string) error {
	if f.endSessionFn != nil {
		return f.endSessionFn(ctx, tokenString)
	}
	return nil
}

func (f *fakeAuthService) CurrentUser(ctx context.Context, token models.Token) (models.User, error) {
	if f.currentUserFn != nil {
		return f.currentUserFn(ctx, token)
	}
	return models.User{}, service.ErrUnauthenticated
}

// ─────────────────────────────────────────────
// Fake: service.PasswordResetService
// ─────────────────────────────────────────────

type fakePasswordResetService struct {
	requestFn func(ctx context.Context, email string) error
	resetFn   func(ctx context.Context, resetToken, password, confirmPassword string) (models.User, error)
}

func (f *fakePasswordResetService) RequestPasswordReset(ctx context.Context, email string) error {
	if f.requestFn != nil {
		return f.requestFn(ctx, email)
	}
	return errNotStubbed
}

func (f *fakePasswordResetService) ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) (models.User, error) {
	if f.resetFn != nil {
		return f.resetFn(ctx, resetToken, password, confirmPassword)
	}
	return models.User{}, errNotStubbed
}

// ─────────────────────────────────────────────
// Fake: service.PermissionService
// ─────────────────────────────────────────────

type fakePermissionService struct {
	updateFn func(ctx context.Context, actor *models.User, targetID int64, permissions models.PermissionSet) (models.User, error)
	listFn   func(ctx context.Context, actor *models.User) ([]models.User, error)
}

func (f *fakePermissionService) Authorize(user *models.User, required models.PermissionSet) error {
	if user == nil {
		return service.ErrUnauthenticated
	}
	if !user.Permissions.Intersects(required) {
		return service.ErrForbidden
	}
	return nil
}

func (f *fakePermissionService) UpdatePermissions(ctx context.Context, actor *models.User, targetID int64, permissions models.PermissionSet) (models.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, actor, targetID, permissions)
	}
	return models.User{}, errNotStubbed
}

func (f *fakePermissionService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx, actor)
	}
	return nil, errNotStubbed
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const validSessionToken = "valid.session.token"

func testAppConfig() config.App {
	return config.App{
		TokenDuration: 365 * 24 * time.Hour,
	}
}

// newServices fills unset services with empty fakes.
func newServices(auth *fakeAuthService, reset *fakePasswordResetService, perms *fakePermissionService) *service.Services {
	if auth == nil {
		auth = &fakeAuthService{}
	}
	if reset == nil {
		reset = &fakePasswordResetService{}
	}
	if perms == nil {
		perms = &fakePermissionService{}
	}
	return &service.Services{
		AuthService:          auth,
		PasswordResetService: reset,
		PermissionService:    perms,
	}
}

func newTestHandler(t *testing.T, services *service.Services) *Handler {
	t.Helper()
	return NewHandler(services, testAppConfig(), config.Server{RequestTimeout: 5 * time.Second}, logger.Nop())
}

// withSessionFor makes auth accept validSessionToken as a session of user.
func withSessionFor(auth *fakeAuthService, user models.User) *fakeAuthService {
	auth.parseTokenFn = func(_ context.Context, tokenString string) (models.Token, error) {
		if tokenString != validSessionToken {
			return models.Token{}, service.ErrTokenIsExpiredOrInvalid
		}
		return models.Token{UserID: user.UserID, SignedString: tokenString}, nil
	}
	auth.currentUserFn = func(_ context.Context, token models.Token) (models.User, error) {
		if token.UserID != user.UserID {
			return models.User{}, service.ErrUnauthenticated
		}
		return user, nil
	}
	return auth
}

// serve runs a request through the full router.
func serve(h *Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := newRequest(method, path, body)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return record(h, req)
}

func sessionCookie(value string) *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: value}
}

// responseCookie returns the session cookie set on the response.
func responseCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func newRequest(method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	return httptest.NewRequest(method, path, reader)
}

func record(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}
