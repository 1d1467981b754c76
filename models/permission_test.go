// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermission(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Permission
		wantErr bool
	}{
		{name: "admin", input: "ADMIN", want: PermissionAdmin},
		{name: "user", input: "USER", want: PermissionUser},
		{name: "item delete", input: "ITEMDELETE", want: PermissionItemDelete},
		{name: "permission update", input: "PERMISSIONUPDATE", want: PermissionPermissionUpdate},
		{name: "lowercase is rejected", input: "admin", wantErr: true},
		{name: "unknown", input: "SUPERUSER", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePermission(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPermission)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissionSet_Intersects(t *testing.T) {
	adminOrUpdater := NewPermissionSet(PermissionAdmin, PermissionPermissionUpdate)

	assert.False(t, NewPermissionSet(PermissionUser).Intersects(adminOrUpdater))
	assert.True(t, NewPermissionSet(PermissionUser, PermissionAdmin).Intersects(adminOrUpdater))
	assert.True(t, NewPermissionSet(PermissionPermissionUpdate).Intersects(adminOrUpdater))
	assert.False(t, NewPermissionSet().Intersects(adminOrUpdater))
	assert.False(t, NewPermissionSet(PermissionAdmin).Intersects(NewPermissionSet()))
}

func TestPermissionSet_NamesAreCanonical(t *testing.T) {
	set := NewPermissionSet(PermissionPermissionUpdate, PermissionUser, PermissionAdmin, PermissionUser)

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"ADMIN", "USER", "PERMISSIONUPDATE"}, set.Names())
	assert.Equal(t, "ADMIN,USER,PERMISSIONUPDATE", set.String())
}

func TestPermissionSet_JSON(t *testing.T) {
	set := NewPermissionSet(PermissionUser, PermissionItemCreate)

	b, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["USER","ITEMCREATE"]`, string(b))

	var decoded PermissionSet
	require.NoError(t, json.Unmarshal([]byte(`["ITEMCREATE","USER","USER"]`), &decoded))
	assert.Equal(t, set, decoded)

	err = json.Unmarshal([]byte(`["USER","ROOT"]`), &decoded)
	assert.ErrorIs(t, err, ErrUnknownPermission)
}

func TestPermissionSet_EmptyJSONIsList(t *testing.T) {
	b, err := json.Marshal(PermissionSet(0))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(b))
}

func TestPermissionSet_ScanAndValue(t *testing.T) {
	set := NewPermissionSet(PermissionAdmin, PermissionItemDelete)

	v, err := set.Value()
	require.NoError(t, err)
	assert.Equal(t, "ADMIN,ITEMDELETE", v)

	var fromString PermissionSet
	require.NoError(t, fromString.Scan("ITEMDELETE,ADMIN"))
	assert.Equal(t, set, fromString)

	var fromBytes PermissionSet
	require.NoError(t, fromBytes.Scan([]byte("ADMIN,ITEMDELETE")))
	assert.Equal(t, set, fromBytes)

	var empty PermissionSet = 7
	require.NoError(t, empty.Scan(nil))
	assert.Zero(t, empty)

	assert.Error(t, fromString.Scan(42))
	assert.ErrorIs(t, fromString.Scan("ADMIN,GOD"), ErrUnknownPermission)
}

func TestUser_HasActiveResetToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	token := "abc"
	expiry := now.Add(time.Hour)

	u := User{ResetToken: &token, ResetTokenExpiry: &expiry}
	assert.True(t, u.HasActiveResetToken(now))
	assert.True(t, u.HasActiveResetToken(now.Add(3599*time.Second)))
	assert.False(t, u.HasActiveResetToken(now.Add(time.Hour)))
	assert.False(t, User{}.HasActiveResetToken(now))
}

func TestUser_JSONHidesSecrets(t *testing.T) {
	token := "reset"
	u := User{
		UserID:       1,
		Email:        "a@b.c",
		PasswordHash: "$2a$10$hash",
		ResetToken:   &token,
		Permissions:  NewPermissionSet(PermissionUser),
	}

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "$2a$10$hash")
	assert.NotContains(t, string(b), "reset")
	assert.Contains(t, string(b), `"permissions":["USER"]`)
}
