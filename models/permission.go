// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Permission is a single capability label. Every permission occupies one bit,
// so a set of permissions is a [PermissionSet] bitmask.
type Permission uint8

// The closed list of capability labels known to the storefront.
const (
	PermissionAdmin Permission = 1 << iota
	PermissionUser
	PermissionItemCreate
	PermissionItemUpdate
	PermissionItemDelete
	PermissionPermissionUpdate
)

// allPermissions lists every permission in its canonical order.
var allPermissions = []Permission{
	PermissionAdmin,
	PermissionUser,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

var permissionNames = map[Permission]string{
	PermissionAdmin:            "ADMIN",
	PermissionUser:             "USER",
	PermissionItemCreate:       "ITEMCREATE",
	PermissionItemUpdate:       "ITEMUPDATE",
	PermissionItemDelete:       "ITEMDELETE",
	PermissionPermissionUpdate: "PERMISSIONUPDATE",
}

// ErrUnknownPermission is returned when a permission label is not part of the
// closed enumeration.
var ErrUnknownPermission = errors.New("unknown permission")

// String returns the wire name of the permission (e.g. "ADMIN").
func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Permission(%d)", uint8(p))
}

// ParsePermission converts a wire name into a [Permission]. Matching is
// case-sensitive, as the labels are uppercase identifiers.
func ParsePermission(name string) (Permission, error) {
	for p, n := range permissionNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPermission, name)
}

// PermissionSet is a bitmask of [Permission] values.
//
// In JSON it is encoded as a list of permission names; in the database as a
// comma separated list of names.
type PermissionSet uint8

// NewPermissionSet builds a set containing the given permissions.
func NewPermissionSet(permissions ...Permission) PermissionSet {
	var set PermissionSet
	for _, p := range permissions {
		set |= PermissionSet(p)
	}
	return set
}

// ParsePermissionSet builds a set from permission names. Duplicates collapse.
func ParsePermissionSet(names ...string) (PermissionSet, error) {
	var set PermissionSet
	for _, name := range names {
		p, err := ParsePermission(strings.TrimSpace(name))
		if err != nil {
			return 0, err
		}
		set |= PermissionSet(p)
	}
	return set, nil
}

// Has reports whether p is a member of the set.
func (s PermissionSet) Has(p Permission) bool {
	return s&PermissionSet(p) != 0
}

// Intersects reports whether the two sets share at least one permission.
func (s PermissionSet) Intersects(other PermissionSet) bool {
	return s&other != 0
}

// Len returns the number of permissions in the set.
func (s PermissionSet) Len() int {
	return bits.OnesCount8(uint8(s))
}

// Permissions returns the members of the set in canonical order.
func (s PermissionSet) Permissions() []Permission {
	out := make([]Permission, 0, s.Len())
	for _, p := range allPermissions {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Names returns the wire names of the members in canonical order.
func (s PermissionSet) Names() []string {
	perms := s.Permissions()
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.String()
	}
	return names
}

// String implements [fmt.Stringer].
func (s PermissionSet) String() string {
	return strings.Join(s.Names(), ",")
}

// MarshalJSON encodes the set as a list of names.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes a list of names, rejecting unknown labels.
func (s *PermissionSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}

	set, err := ParsePermissionSet(names...)
	if err != nil {
		return err
	}

	*s = set
	return nil
}

// Value implements [driver.Valuer].
func (s PermissionSet) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements [sql.Scanner].
func (s *PermissionSet) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = 0
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into PermissionSet", src)
	}

	if raw == "" {
		*s = 0
		return nil
	}

	set, err := ParsePermissionSet(strings.Split(raw, ",")...)
	if err != nil {
		return err
	}

	*s = set
	return nil
}
