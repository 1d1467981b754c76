package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-storefront/internal/store"
	"github.com/MKhiriev/go-storefront/models"
)

// memUserRepository is an in-memory store.UserRepository used by flow tests.
type memUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[int64]models.User)}
}

func (r *memUserRepository) CreateUser(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return models.User{}, store.ErrEmailAlreadyExists
		}
	}

	r.nextID++
	user.UserID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[user.UserID] = user
	return user, nil
}

func (r *memUserRepository) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *memUserRepository) FindUserByID(_ context.Context, userID int64) (models.User, error) {
	return r.find(func(u models.User) bool { return u.UserID == userID })
}

func (r *memUserRepository) FindUserByResetToken(_ context.Context, resetToken string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.ResetToken != nil && *u.ResetToken == resetToken })
}

func (r *memUserRepository) SetResetToken(_ context.Context, userID int64, resetToken string, expiry time.Time) (models.User, error) {
	return r.update(userID, func(u *models.User) {
		u.ResetToken = &resetToken
		u.ResetTokenExpiry = &expiry
	})
}

func (r *memUserRepository) ResetPassword(_ context.Context, userID int64, resetToken, passwordHash string, now time.Time) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok || u.ResetToken == nil || *u.ResetToken != resetToken || !u.HasActiveResetToken(now) {
		return models.User{}, store.ErrNoUserWasFound
	}

	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	r.users[userID] = u
	return u, nil
}

func (r *memUserRepository) UpdatePermissions(_ context.Context, userID int64, permissions models.PermissionSet) (models.User, error) {
	return r.update(userID, func(u *models.User) { u.Permissions = permissions })
}

func (r *memUserRepository) ListUsers(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *memUserRepository) find(match func(models.User) bool) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (r *memUserRepository) update(userID int64, apply func(*models.User)) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	apply(&u)
	r.users[userID] = u
	return u, nil
}
