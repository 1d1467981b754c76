package store

import (
	"context"
	"time"
)

// nopSessionStore never revokes anything; sessions then stay valid until
// their natural expiry.
type nopSessionStore struct{}

// NewNopSessionStore returns a [SessionStore] that keeps no state.
func NewNopSessionStore() SessionStore {
	return nopSessionStore{}
}

func (nopSessionStore) RevokeToken(context.Context, string, time.Duration) error { return nil }

func (nopSessionStore) IsTokenRevoked(context.Context, string) (bool, error) { return false, nil }

func (nopSessionStore) RevokeUserSessionsBefore(context.Context, int64, time.Time, time.Duration) error {
	return nil
}

func (nopSessionStore) UserSessionsRevokedBefore(context.Context, int64) (time.Time, error) {
	return time.Time{}, nil
}
