// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks inbound API payloads before they reach the
// service layer.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//
// Rules are declared with `validate` struct tags on the request models and
// enforced by go-playground/validator.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input.
	Validate(context.Context, any) error
}
