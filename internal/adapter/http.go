package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/internal/utils"
	"github.com/MKhiriev/go-storefront/models"
	"github.com/go-resty/resty/v2"
)

type httpAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPAdapter constructs an HTTP implementation of [StorefrontAPI].
// It normalises the base URL from cfg.HTTPAddress and applies
// cfg.RequestTimeout to every request.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a URL.
func NewHTTPAdapter(cfg config.ClientAdapter, logger *logger.Logger) (StorefrontAPI, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// SignUp posts to POST /api/user/signup and keeps the issued session token.
func (h *httpAdapter) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error) {
	return h.startSession(ctx, "/api/user/signup", req)
}

// SignIn posts to POST /api/user/signin and keeps the issued session token.
func (h *httpAdapter) SignIn(ctx context.Context, req models.SignInRequest) (models.User, error) {
	return h.startSession(ctx, "/api/user/signin", req)
}

func (h *httpAdapter) SignOut(ctx context.Context) (models.Message, error) {
	var msg models.Message

	resp, err := h.request(ctx).
		SetResult(&msg).
		Post("/api/user/signout")
	if err != nil {
		return msg, fmt.Errorf("signout request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return msg, err
	}

	h.SetToken("")
	return msg, nil
}

func (h *httpAdapter) RequestReset(ctx context.Context, email string) (models.Message, error) {
	var msg models.Message

	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RequestResetRequest{Email: email}).
		SetResult(&msg).
		Post("/api/user/reset/request")
	if err != nil {
		return msg, fmt.Errorf("reset request: %w", err)
	}

	return msg, mapHTTPError(resp)
}

// ResetPassword posts to POST /api/user/reset; the server starts a new
// session for the user, whose token is kept.
func (h *httpAdapter) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (models.User, error) {
	return h.startSession(ctx, "/api/user/reset", req)
}

func (h *httpAdapter) Me(ctx context.Context) (*models.User, error) {
	var user *models.User

	resp, err := h.request(ctx).
		SetResult(&user).
		Get("/api/user/me")
	if err != nil {
		return nil, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return user, nil
}

func (h *httpAdapter) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User

	resp, err := h.request(ctx).
		SetResult(&users).
		Get("/api/users")
	if err != nil {
		return nil, fmt.Errorf("list users request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return users, nil
}

func (h *httpAdapter) UpdatePermissions(ctx context.Context, userID int64, permissions models.PermissionSet) (models.User, error) {
	var user models.User

	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("userID", strconv.FormatInt(userID, 10)).
		SetBody(models.UpdatePermissionsRequest{Permissions: permissions}).
		SetResult(&user).
		Put("/api/users/{userID}/permissions")
	if err != nil {
		return user, fmt.Errorf("update permissions request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return user, err
	}

	return user, nil
}

// startSession posts body to path and stores the bearer token the server
// returns in the Authorization header.
func (h *httpAdapter) startSession(ctx context.Context, path string, body any) (models.User, error) {
	var user models.User

	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&user).
		Post(path)
	if err != nil {
		return user, fmt.Errorf("request %s: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return user, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return user, fmt.Errorf("%w: %w", ErrNoSessionToken, err)
	}

	h.SetToken(token)
	h.logger.Debug().Int64("user_id", user.UserID).Str("path", path).Msg("session started")

	return user, nil
}

// request returns a request carrying the session token, if any.
func (h *httpAdapter) request(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}
