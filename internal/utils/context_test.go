// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-storefront/models"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestUserCtxKey(t *testing.T) {
	if UserCtxKey.String() != "user" {
		t.Errorf("expected 'user', got '%s'", UserCtxKey.String())
	}
}

func TestGetUserFromContext_Success(t *testing.T) {
	ctx := WithUser(context.Background(), models.User{UserID: 42, Email: "a@b.c"})

	user, ok := GetUserFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if user.UserID != 42 {
		t.Errorf("expected userID=42, got %d", user.UserID)
	}
}

func TestGetUserFromContext_Missing(t *testing.T) {
	user, ok := GetUserFromContext(context.Background())

	if ok {
		t.Error("expected ok=false for missing user")
	}
	if user.UserID != 0 {
		t.Errorf("expected zero user, got %+v", user)
	}
}

func TestGetUserFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserCtxKey, int64(42))

	if _, ok := GetUserFromContext(ctx); ok {
		t.Error("expected ok=false for wrong type")
	}
}

func TestGetTokenFromContext(t *testing.T) {
	ctx := WithToken(context.Background(), models.Token{UserID: 7, SignedString: "signed"})

	token, ok := GetTokenFromContext(ctx)
	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if token.SignedString != "signed" || token.UserID != 7 {
		t.Errorf("unexpected token %+v", token)
	}

	if _, ok := GetTokenFromContext(context.Background()); ok {
		t.Error("expected ok=false for missing token")
	}
}
